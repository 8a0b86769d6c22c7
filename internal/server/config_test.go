package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lox/memori/internal/deck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadServerConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadServerConfig(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, DefaultServerConfig(), cfg)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "localhost:8080", cfg.GetServerAddress())
	assert.Equal(t, "http://localhost:8080", cfg.GetPublicURL())
	assert.Equal(t, time.Second, cfg.RevealDelay())
}

func TestLoadServerConfig(t *testing.T) {
	path := writeConfig(t, `
server {
  address    = "0.0.0.0"
  port       = 9000
  log_level  = "debug"
  public_url = "http://memori.local:9000"
}

game {
  symbol_set      = "cfgtest"
  pairs           = 2
  reveal_delay_ms = 1500
}

symbol_set "cfgtest" {
  symbols = ["X", "Y", "Z"]
}
`)

	cfg, err := LoadServerConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "0.0.0.0:9000", cfg.GetServerAddress())
	assert.Equal(t, "http://memori.local:9000", cfg.GetPublicURL())
	assert.Equal(t, 1500*time.Millisecond, cfg.RevealDelay())
	assert.Equal(t, time.Second, cfg.MatchDelay(), "unset delay falls back to default")
	assert.Equal(t, 100, cfg.Game.MaxSessions)

	symbols, err := deck.Lookup("cfgtest")
	require.NoError(t, err)
	assert.Equal(t, []string{"X", "Y", "Z"}, symbols)
}

func TestLoadServerConfigParseError(t *testing.T) {
	_, err := LoadServerConfig(writeConfig(t, `server {`))
	assert.Error(t, err)
}

func TestServerConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ServerConfig)
	}{
		{"port", func(c *ServerConfig) { c.Server.Port = 70000 }},
		{"log level", func(c *ServerConfig) { c.Server.LogLevel = "loud" }},
		{"negative delay", func(c *ServerConfig) { c.Game.RevealDelayMs = -1 }},
		{"max sessions", func(c *ServerConfig) { c.Game.MaxSessions = 0 }},
		{"negative pairs", func(c *ServerConfig) { c.Game.Pairs = -2 }},
		{"unknown set", func(c *ServerConfig) { c.Game.SymbolSet = "nosuchset" }},
		{"too many pairs", func(c *ServerConfig) { c.Game.Pairs = 99 }},
		{"empty symbol set", func(c *ServerConfig) {
			c.SymbolSets = []SymbolSetConfig{{Name: "blank", Symbols: []string{" ", ""}}}
		}},
		{"unnamed symbol set", func(c *ServerConfig) {
			c.SymbolSets = []SymbolSetConfig{{Name: " ", Symbols: []string{"A"}}}
		}},
		{"too many pairs for own set", func(c *ServerConfig) {
			c.SymbolSets = []SymbolSetConfig{{Name: "tiny", Symbols: []string{"A", "A", "B"}}}
			c.Game.SymbolSet = "tiny"
			c.Game.Pairs = 3
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultServerConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateLeavesRegistryAlone(t *testing.T) {
	cfg := DefaultServerConfig()
	cfg.SymbolSets = []SymbolSetConfig{{Name: "validateonly", Symbols: []string{"P", "Q"}}}
	cfg.Game.SymbolSet = "validateonly"

	require.NoError(t, cfg.Validate())
	_, err := deck.Lookup("validateonly")
	assert.ErrorIs(t, err, deck.ErrUnknownSet)

	require.NoError(t, cfg.RegisterSymbolSets())
	symbols, err := deck.Lookup("validateonly")
	require.NoError(t, err)
	assert.Equal(t, []string{"P", "Q"}, symbols)
}

func TestLoadServerConfigRejectsEmptySymbolSet(t *testing.T) {
	_, err := LoadServerConfig(writeConfig(t, `
symbol_set "hollow" {
  symbols = [" "]
}
`))
	assert.ErrorIs(t, err, deck.ErrEmptySet)
}
