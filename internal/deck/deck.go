// Package deck holds the symbol sets cards are dealt from.
package deck

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
)

// DefaultSet is the set used when none is configured.
const DefaultSet = "faces"

var (
	ErrUnknownSet   = errors.New("unknown symbol set")
	ErrTooManyPairs = errors.New("not enough symbols for requested pairs")
	ErrEmptySet     = errors.New("symbol set is empty")
)

var (
	mu   sync.RWMutex
	sets = map[string][]string{
		"faces":   {"😀", "🤪", "😄", "😆", "😅", "😂", "🤣", "😍"},
		"animals": {"🐶", "🐱", "🐭", "🐹", "🐰", "🦊", "🐻", "🐼", "🐨", "🐯", "🦁", "🐮"},
		"fruit":   {"🍎", "🍐", "🍊", "🍋", "🍌", "🍉", "🍇", "🍓", "🍒", "🍑", "🥝", "🍍"},
		"letters": {"A", "B", "C", "D", "E", "F", "G", "H", "J", "K", "L", "M", "N", "P", "R", "S"},
	}
)

// Lookup returns a copy of the named set.
func Lookup(name string) ([]string, error) {
	mu.RLock()
	defer mu.RUnlock()

	symbols, ok := sets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSet, name)
	}
	return slices.Clone(symbols), nil
}

// Names lists every registered set in alphabetical order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(sets))
	for name := range sets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register adds or replaces a named set. Symbols are normalised the same
// way as Parse.
func Register(name string, symbols []string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("symbol set name required")
	}
	clean := Normalise(symbols)
	if len(clean) == 0 {
		return fmt.Errorf("%w: %q", ErrEmptySet, name)
	}

	mu.Lock()
	defer mu.Unlock()
	sets[name] = clean
	return nil
}

// Take returns the first pairs symbols of set. pairs <= 0 means all of them.
func Take(set []string, pairs int) ([]string, error) {
	if pairs <= 0 {
		return slices.Clone(set), nil
	}
	if pairs > len(set) {
		return nil, fmt.Errorf("%w: want %d, have %d", ErrTooManyPairs, pairs, len(set))
	}
	return slices.Clone(set[:pairs]), nil
}

// Resolve picks symbols for a game: a custom comma list wins over a named
// set, and pairs trims the result.
func Resolve(setName, custom string, pairs int) ([]string, error) {
	var symbols []string
	if strings.TrimSpace(custom) != "" {
		symbols = Parse(custom)
	} else {
		if setName == "" {
			setName = DefaultSet
		}
		var err error
		if symbols, err = Lookup(setName); err != nil {
			return nil, err
		}
	}
	if len(symbols) == 0 {
		return nil, ErrEmptySet
	}
	return Take(symbols, pairs)
}

// Parse splits a comma separated list, trimming blanks and dropping
// duplicates while keeping first-seen order.
func Parse(list string) []string {
	return Normalise(strings.Split(list, ","))
}

// Normalise trims symbols and drops blanks and duplicates.
func Normalise(symbols []string) []string {
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = strings.TrimSpace(s)
		if s == "" || slices.Contains(out, s) {
			continue
		}
		out = append(out, s)
	}
	return out
}
