package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

const (
	// Client to server messages
	MessageTypeNewGame      MessageType = "new_game"
	MessageTypeSelectCard   MessageType = "select_card"
	MessageTypeRestart      MessageType = "restart"
	MessageTypeToggleReveal MessageType = "toggle_reveal"
	MessageTypeResolveNow   MessageType = "resolve_now"

	// Server to client messages
	MessageTypeSessionStarted MessageType = "session_started"
	MessageTypeBoard          MessageType = "board"
	MessageTypeGameOver       MessageType = "game_over"
	MessageTypeError          MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
