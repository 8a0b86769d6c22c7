package server

import (
	"encoding/json"
	"time"

	"github.com/lox/memori/internal/session"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data any) (*Message, error) {
	msg := &Message{
		Type:      messageType,
		Timestamp: time.Now(),
	}
	if data == nil {
		return msg, nil
	}

	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	msg.Data = dataBytes
	return msg, nil
}

// Decode unmarshals the payload into v. An empty payload leaves v untouched.
func (m *Message) Decode(v any) error {
	if len(m.Data) == 0 {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

// Client → Server Messages

type NewGameData struct {
	SymbolSet string `json:"symbolSet,omitempty"`
	Symbols   string `json:"symbols,omitempty"` // comma separated custom set
	Pairs     int    `json:"pairs,omitempty"`
}

type SelectCardData struct {
	Index int `json:"index"`
}

// Server → Client Messages

type SessionStartedData struct {
	SessionID string           `json:"sessionId"`
	Snapshot  session.Snapshot `json:"snapshot"`
}

// BoardData carries the state after a transition. Event names the
// transition ("dealt", "card_flipped", "pair_resolved", "reveal_toggled",
// "ignored").
type BoardData struct {
	Event    string           `json:"event"`
	Message  string           `json:"message,omitempty"`
	Snapshot session.Snapshot `json:"snapshot"`
}

type GameOverData struct {
	SessionID string        `json:"sessionId"`
	Stats     session.Stats `json:"stats"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes that answer a new_game request.
const (
	ErrorCodeSessionLimit   = "session_limit"
	ErrorCodeInvalidSymbols = "invalid_symbols"
	ErrorCodeNewGameFailed  = "new_game_failed"
)

// IsNewGameError reports whether code is a failed answer to new_game.
func IsNewGameError(code string) bool {
	switch code {
	case ErrorCodeSessionLimit, ErrorCodeInvalidSymbols, ErrorCodeNewGameFailed:
		return true
	}
	return false
}

// SessionInfo is one row of the /api/sessions listing
type SessionInfo struct {
	ID        string    `json:"id"`
	Cards     int       `json:"cards"`
	Matched   int       `json:"matched"`
	Turns     int       `json:"turns"`
	GameOver  bool      `json:"gameOver"`
	StartedAt time.Time `json:"startedAt"`
}

type SessionListData struct {
	Sessions []SessionInfo `json:"sessions"`
}
