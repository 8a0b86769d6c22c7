package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/lox/memori/internal/deck"
	"github.com/lox/memori/internal/game"
	"github.com/lox/memori/internal/session"
)

// Connection represents a WebSocket connection to a client. Each
// connection plays at most one session at a time.
type Connection struct {
	conn        *websocket.Conn
	send        chan *Message
	logger      *log.Logger
	ctx         context.Context
	cancel      context.CancelFunc
	mu          sync.RWMutex
	closeOnce   sync.Once
	gameService *GameService
	session     *session.Session
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, logger *log.Logger, gameService *GameService) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:        conn,
		send:        make(chan *Message, 256),
		logger:      logger.WithPrefix("conn"),
		ctx:         ctx,
		cancel:      cancel,
		gameService: gameService,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Done is closed once the connection has shut down.
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Close closes the connection and ends its session.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		if id := c.SessionID(); id != "" && c.gameService != nil {
			c.gameService.CloseSession(id)
		}
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage sends a message to the client
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			// send was closed underneath us during shutdown
			c.logger.Debug("Attempted to send message on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// SessionID returns the id of the session being played, if any.
func (c *Connection) SessionID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return ""
	}
	return c.session.ID()
}

func (c *Connection) currentSession() *session.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var (
	ErrConnectionClosed = websocket.ErrCloseSent
)

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			break
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "session", c.SessionID())

	switch msg.Type {
	case MessageTypeNewGame:
		var data NewGameData
		if err := msg.Decode(&data); err != nil {
			c.sendError(ErrorCodeNewGameFailed, "Failed to parse new game data")
			return
		}
		c.handleNewGame(data)

	case MessageTypeSelectCard:
		var data SelectCardData
		if err := msg.Decode(&data); err != nil || len(msg.Data) == 0 {
			c.sendError("invalid_message", "Failed to parse select card data")
			return
		}
		c.handleSelectCard(data)

	case MessageTypeRestart:
		c.handleRestart()

	case MessageTypeToggleReveal:
		c.handleToggleReveal()

	case MessageTypeResolveNow:
		c.handleResolveNow()

	default:
		c.sendError("unknown_message_type", "Unknown message type: "+msg.Type.String())
	}
}

// sendError sends an error message to the client
func (c *Connection) sendError(code, message string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{
		Code:    code,
		Message: message,
	})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}

	_ = c.SendMessage(errorMsg)
}

func (c *Connection) sendBoard(update session.Update) {
	msg, err := NewMessage(MessageTypeBoard, BoardData{
		Event:    update.Event,
		Message:  update.Message,
		Snapshot: update.Snapshot,
	})
	if err != nil {
		c.logger.Error("Failed to create board message", "error", err)
		return
	}
	_ = c.SendMessage(msg)

	if update.Event != game.EventTypeGameOver.String() {
		return
	}
	over, err := NewMessage(MessageTypeGameOver, GameOverData{
		SessionID: update.Snapshot.ID,
		Stats:     update.Snapshot.Stats,
	})
	if err != nil {
		c.logger.Error("Failed to create game over message", "error", err)
		return
	}
	_ = c.SendMessage(over)
}

func (c *Connection) sendIgnored(sess *session.Session, reason string) {
	c.sendBoard(session.Update{
		Snapshot: sess.Snapshot(),
		Event:    session.EventIgnored,
		Message:  reason,
	})
}

// requireSession returns the current session or tells the client it has none.
func (c *Connection) requireSession() *session.Session {
	sess := c.currentSession()
	if sess == nil {
		c.sendError("no_session", "Start a game with new_game first")
	}
	return sess
}

func (c *Connection) handleNewGame(data NewGameData) {
	c.logger.Info("New game request", "symbolSet", data.SymbolSet, "pairs", data.Pairs)

	if c.gameService == nil {
		c.sendError(ErrorCodeNewGameFailed, "Game service not available")
		return
	}

	if old := c.currentSession(); old != nil {
		c.gameService.CloseSession(old.ID())
	}

	sess, err := c.gameService.CreateSession(data)
	if err != nil {
		switch {
		case errors.Is(err, ErrSessionLimit):
			c.sendError(ErrorCodeSessionLimit, err.Error())
		case errors.Is(err, deck.ErrUnknownSet), errors.Is(err, deck.ErrTooManyPairs), errors.Is(err, deck.ErrEmptySet):
			c.sendError(ErrorCodeInvalidSymbols, err.Error())
		default:
			c.sendError(ErrorCodeNewGameFailed, err.Error())
		}
		c.mu.Lock()
		c.session = nil
		c.mu.Unlock()
		return
	}

	c.mu.Lock()
	c.session = sess
	c.mu.Unlock()

	response, _ := NewMessage(MessageTypeSessionStarted, SessionStartedData{
		SessionID: sess.ID(),
		Snapshot:  sess.Snapshot(),
	})
	_ = c.SendMessage(response)

	sess.Subscribe(c.sendBoard)
}

func (c *Connection) handleSelectCard(data SelectCardData) {
	sess := c.requireSession()
	if sess == nil {
		return
	}

	if res := sess.Select(data.Index); res.Ignored() {
		c.sendIgnored(sess, "Selection ignored")
	}
}

func (c *Connection) handleRestart() {
	sess := c.requireSession()
	if sess == nil {
		return
	}

	if err := sess.Restart(); err != nil {
		c.sendError("restart_failed", err.Error())
	}
}

func (c *Connection) handleToggleReveal() {
	if sess := c.requireSession(); sess != nil {
		sess.ToggleReveal()
	}
}

func (c *Connection) handleResolveNow() {
	sess := c.requireSession()
	if sess == nil {
		return
	}

	if res := sess.ResolveNow(); res.Kind == game.ResolveIgnored {
		c.sendIgnored(sess, "Nothing to resolve")
	}
}
