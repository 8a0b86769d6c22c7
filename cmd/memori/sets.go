package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/lox/memori/internal/deck"
	"github.com/lox/memori/internal/server"
)

// SetsCmd lists the symbol sets available to play with.
type SetsCmd struct {
	Config string `short:"c" default:"memori-server.hcl" help:"Server config whose custom sets should be listed too"`
}

func (c *SetsCmd) Run() error {
	// loading registers the config's symbol sets
	if _, err := server.LoadServerConfig(c.Config); err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	for _, name := range deck.Names() {
		symbols, err := deck.Lookup(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%-10s %2d pairs  %s\n", name, len(symbols), strings.Join(symbols, " "))
	}
	return nil
}
