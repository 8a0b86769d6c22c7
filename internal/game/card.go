package game

import "fmt"

// CardState is the face of a single card on the table.
type CardState int

const (
	Normal CardState = iota
	Flipped
	Matched
)

func (s CardState) String() string {
	if s < Normal || s > Matched {
		return fmt.Sprintf("CardState(%d)", int(s))
	}
	return [...]string{"normal", "flipped", "matched"}[s]
}

// MarshalText encodes the state by name so it reads well in JSON payloads.
func (s CardState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name produced by MarshalText.
func (s *CardState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "normal":
		*s = Normal
	case "flipped":
		*s = Flipped
	case "matched":
		*s = Matched
	default:
		return fmt.Errorf("unknown card state %q", text)
	}
	return nil
}

// Card is one position on the table. ID is the position index and never
// changes for the lifetime of a deal.
type Card struct {
	ID     int       `json:"id"`
	Symbol string    `json:"symbol"`
	State  CardState `json:"state"`
}

// FaceUp reports whether the symbol is visible to the player.
func (c Card) FaceUp() bool {
	return c.State != Normal
}
