package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/lox/memori/internal/server" // Reuse message types
	"github.com/lox/memori/internal/session"
)

var (
	ErrNotConnected = errors.New("not connected")
	ErrNoSession    = errors.New("no game in progress")
)

// ServerError is an error message sent by the server.
type ServerError struct {
	Code    string
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type startResult struct {
	snapshot session.Snapshot
	err      error
}

// Client plays a memory game hosted by a remote server. It satisfies the
// tui.Table interface.
type Client struct {
	serverURL string
	conn      *websocket.Conn
	send      chan *server.Message
	updates   chan session.Update
	starts    chan startResult
	starting  atomic.Bool
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	connected bool
	snapshot  session.Snapshot
	started   bool
	closeOnce sync.Once
}

// NewClient creates a new WebSocket client
func NewClient(serverURL string, logger *log.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		serverURL: serverURL,
		send:      make(chan *server.Message, 256),
		updates:   make(chan session.Update, 256),
		starts:    make(chan startResult, 1),
		logger:    logger.WithPrefix("client"),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Connect establishes a WebSocket connection to the server
func (c *Client) Connect(ctx context.Context) error {
	c.logger.Info("Connecting to server", "url", c.serverURL)

	u, err := url.Parse(c.serverURL)
	if err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}

	// Convert http/https to ws/wss
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = "/ws"

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	go c.readPump()
	go c.writePump()

	c.logger.Info("Connected to server")
	return nil
}

// Close closes the WebSocket connection
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.cancel()

		c.mu.Lock()
		defer c.mu.Unlock()

		if c.conn != nil {
			_ = c.conn.Close()
			c.connected = false
		}

		c.logger.Info("Disconnected from server")
	})
	return nil
}

// IsConnected returns whether the client is connected
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Updates delivers every board change pushed by the server. It is closed
// when the connection ends.
func (c *Client) Updates() <-chan session.Update {
	return c.updates
}

// Snapshot returns the last board received.
func (c *Client) Snapshot() session.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

// NewGame asks the server for a fresh session and waits for it to start.
func (c *Client) NewGame(ctx context.Context, req server.NewGameData) (session.Snapshot, error) {
	c.starting.Store(true)
	defer c.starting.Store(false)

	if err := c.sendMessage(server.MessageTypeNewGame, req); err != nil {
		return session.Snapshot{}, err
	}

	select {
	case res := <-c.starts:
		return res.snapshot, res.err
	case <-ctx.Done():
		return session.Snapshot{}, ctx.Err()
	case <-c.ctx.Done():
		return session.Snapshot{}, ErrNotConnected
	}
}

// Select flips the card at index.
func (c *Client) Select(index int) error {
	if err := c.requireStarted(); err != nil {
		return err
	}
	return c.sendMessage(server.MessageTypeSelectCard, server.SelectCardData{Index: index})
}

// Restart re-deals the current game.
func (c *Client) Restart() error {
	if err := c.requireStarted(); err != nil {
		return err
	}
	return c.sendMessage(server.MessageTypeRestart, nil)
}

// ToggleReveal shows or hides every face-down symbol.
func (c *Client) ToggleReveal() error {
	if err := c.requireStarted(); err != nil {
		return err
	}
	return c.sendMessage(server.MessageTypeToggleReveal, nil)
}

// ResolveNow skips the reveal delay for a pending pair.
func (c *Client) ResolveNow() error {
	if err := c.requireStarted(); err != nil {
		return err
	}
	return c.sendMessage(server.MessageTypeResolveNow, nil)
}

func (c *Client) requireStarted() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.connected {
		return ErrNotConnected
	}
	if !c.started {
		return ErrNoSession
	}
	return nil
}

func (c *Client) sendMessage(msgType server.MessageType, data any) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}

	msg, err := server.NewMessage(msgType, data)
	if err != nil {
		return err
	}

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return ErrNotConnected
	default:
		return fmt.Errorf("send buffer full")
	}
}

// readPump handles incoming messages from the server
func (c *Client) readPump() {
	defer func() {
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
		close(c.updates)
		c.cancel()
	}()

	for {
		var msg server.Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		c.logger.Debug("Received message", "type", msg.Type)
		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the server
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second) // Ping interval
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

func (c *Client) handleMessage(msg *server.Message) {
	switch msg.Type {
	case server.MessageTypeSessionStarted:
		var data server.SessionStartedData
		if err := msg.Decode(&data); err != nil {
			c.logger.Error("Failed to parse session started", "error", err)
			return
		}
		c.mu.Lock()
		c.started = true
		c.mu.Unlock()
		c.setSnapshot(data.Snapshot)
		c.deliverStart(startResult{snapshot: data.Snapshot})
		c.publish(session.Update{Snapshot: data.Snapshot, Event: server.MessageTypeSessionStarted.String(), Message: "Joined game " + data.SessionID})

	case server.MessageTypeBoard:
		var data server.BoardData
		if err := msg.Decode(&data); err != nil {
			c.logger.Error("Failed to parse board", "error", err)
			return
		}
		c.setSnapshot(data.Snapshot)
		c.publish(session.Update{Snapshot: data.Snapshot, Event: data.Event, Message: data.Message})

	case server.MessageTypeGameOver:
		var data server.GameOverData
		if err := msg.Decode(&data); err == nil {
			c.logger.Info("Game over", "session", data.SessionID, "turns", data.Stats.Turns)
		}

	case server.MessageTypeError:
		var data server.ErrorData
		if err := msg.Decode(&data); err != nil {
			c.logger.Error("Failed to parse error", "error", err)
			return
		}
		serverErr := &ServerError{Code: data.Code, Message: data.Message}
		c.logger.Warn("Server error", "code", data.Code, "message", data.Message)
		if c.starting.Load() && server.IsNewGameError(data.Code) {
			c.mu.Lock()
			c.started = false
			c.mu.Unlock()
			c.deliverStart(startResult{err: serverErr})
			return
		}
		c.publish(session.Update{Snapshot: c.Snapshot(), Event: "error", Message: serverErr.Error()})

	default:
		c.logger.Debug("No handler for message type", "type", msg.Type)
	}
}

func (c *Client) setSnapshot(snap session.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = snap
}

func (c *Client) deliverStart(res startResult) {
	if !c.starting.Load() {
		return
	}
	select {
	case c.starts <- res:
	default:
	}
}

// publish drops the update if nobody is draining the channel.
func (c *Client) publish(u session.Update) {
	select {
	case c.updates <- u:
	default:
		c.logger.Warn("Update dropped, consumer too slow", "event", u.Event)
	}
}
