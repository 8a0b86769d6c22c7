package game

import "fmt"

// Mode is the game-level lockout state.
type Mode int

const (
	// Ready accepts SelectCard calls.
	Ready Mode = iota
	// AwaitingResolution rejects SelectCard until Resolve is called once.
	AwaitingResolution
)

func (m Mode) String() string {
	if m == AwaitingResolution {
		return "awaiting_resolution"
	}
	return "ready"
}

// MarshalText encodes the mode by name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// SelectKind is the outcome of a SelectCard call.
type SelectKind int

const (
	SelectIgnored SelectKind = iota
	SelectFlipped
	SelectPendingResolution
)

func (k SelectKind) String() string {
	return [...]string{"ignored", "flipped", "pending_resolution"}[k]
}

// SelectResult describes what a selection did. Index is set for
// SelectFlipped; IndexA and IndexB are set for SelectPendingResolution.
type SelectResult struct {
	Kind   SelectKind
	Index  int
	IndexA int
	IndexB int
}

// Ignored reports whether the selection was rejected.
func (r SelectResult) Ignored() bool { return r.Kind == SelectIgnored }

// ResolveKind is the outcome of a Resolve call.
type ResolveKind int

const (
	ResolveIgnored ResolveKind = iota
	ResolveMatched
	ResolveMismatch
)

func (k ResolveKind) String() string {
	return [...]string{"ignored", "matched", "mismatch"}[k]
}

// ResolveResult describes a resolution. GameOver is only ever true for
// ResolveMatched.
type ResolveResult struct {
	Kind     ResolveKind
	IndexA   int
	IndexB   int
	GameOver bool
}

var ignoredSelect = SelectResult{Kind: SelectIgnored, Index: -1, IndexA: -1, IndexB: -1}

var ignoredResolve = ResolveResult{Kind: ResolveIgnored, IndexA: -1, IndexB: -1}

// UnmarshalText parses a mode name produced by MarshalText.
func (m *Mode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "ready":
		*m = Ready
	case "awaiting_resolution":
		*m = AwaitingResolution
	default:
		return fmt.Errorf("unknown mode %q", text)
	}
	return nil
}
