package server

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/memori/internal/deck"
)

// ServerConfig represents the complete server configuration
type ServerConfig struct {
	Server     ServerSettings    `hcl:"server,block"`
	Game       GameSettings      `hcl:"game,block"`
	SymbolSets []SymbolSetConfig `hcl:"symbol_set,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address   string `hcl:"address,optional"`
	Port      int    `hcl:"port,optional"`
	LogLevel  string `hcl:"log_level,optional"`
	PublicURL string `hcl:"public_url,optional"`
}

// GameSettings controls the games handed out to clients
type GameSettings struct {
	SymbolSet     string `hcl:"symbol_set,optional"`
	Pairs         int    `hcl:"pairs,optional"`
	RevealDelayMs int    `hcl:"reveal_delay_ms,optional"`
	MatchDelayMs  int    `hcl:"match_delay_ms,optional"`
	MaxSessions   int    `hcl:"max_sessions,optional"`
}

// SymbolSetConfig registers an extra named symbol set
type SymbolSetConfig struct {
	Name    string   `hcl:"name,label"`
	Symbols []string `hcl:"symbols"`
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Game: GameSettings{
			SymbolSet:     deck.DefaultSet,
			RevealDelayMs: 1000,
			MatchDelayMs:  1000,
			MaxSessions:   100,
		},
	}
}

// LoadServerConfig loads server configuration from an HCL file. A missing
// file yields the defaults.
func LoadServerConfig(filename string) (*ServerConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultServerConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config ServerConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	if err := config.RegisterSymbolSets(); err != nil {
		return nil, err
	}
	return &config, nil
}

// RegisterSymbolSets adds the config's symbol_set blocks to the deck
// registry.
func (c *ServerConfig) RegisterSymbolSets() error {
	for _, set := range c.SymbolSets {
		if err := deck.Register(set.Name, set.Symbols); err != nil {
			return fmt.Errorf("symbol set %s: %w", set.Name, err)
		}
	}
	return nil
}

func (c *ServerConfig) applyDefaults() {
	defaults := DefaultServerConfig()

	if c.Server.Address == "" {
		c.Server.Address = defaults.Server.Address
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaults.Server.Port
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = defaults.Server.LogLevel
	}
	if c.Game.SymbolSet == "" {
		c.Game.SymbolSet = defaults.Game.SymbolSet
	}
	if c.Game.RevealDelayMs == 0 {
		c.Game.RevealDelayMs = defaults.Game.RevealDelayMs
	}
	if c.Game.MatchDelayMs == 0 {
		c.Game.MatchDelayMs = defaults.Game.MatchDelayMs
	}
	if c.Game.MaxSessions == 0 {
		c.Game.MaxSessions = defaults.Game.MaxSessions
	}
}

// Validate validates the server configuration. The game's symbol set may
// name one of the config's own symbol_set blocks.
func (c *ServerConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if _, err := log.ParseLevel(c.Server.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %s", c.Server.LogLevel)
	}
	if c.Game.RevealDelayMs < 0 || c.Game.MatchDelayMs < 0 {
		return fmt.Errorf("delays cannot be negative")
	}
	if c.Game.MaxSessions < 1 {
		return fmt.Errorf("max sessions must be positive")
	}
	if c.Game.Pairs < 0 {
		return fmt.Errorf("pairs cannot be negative")
	}

	for _, set := range c.SymbolSets {
		if strings.TrimSpace(set.Name) == "" {
			return fmt.Errorf("symbol set name required")
		}
		if len(deck.Normalise(set.Symbols)) == 0 {
			return fmt.Errorf("symbol set %s: %w", set.Name, deck.ErrEmptySet)
		}
	}

	symbols, err := c.lookupSymbolSet(c.Game.SymbolSet)
	if err != nil {
		return fmt.Errorf("game: %w", err)
	}
	if _, err := deck.Take(symbols, c.Game.Pairs); err != nil {
		return fmt.Errorf("game: %w", err)
	}
	return nil
}

func (c *ServerConfig) lookupSymbolSet(name string) ([]string, error) {
	for i := len(c.SymbolSets) - 1; i >= 0; i-- {
		if c.SymbolSets[i].Name == name {
			return deck.Normalise(c.SymbolSets[i].Symbols), nil
		}
	}
	return deck.Lookup(name)
}

// GetServerAddress returns the full server address
func (c *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// GetPublicURL returns the URL clients should use to join.
func (c *ServerConfig) GetPublicURL() string {
	if c.Server.PublicURL != "" {
		return c.Server.PublicURL
	}
	return "http://" + c.GetServerAddress()
}

// RevealDelay returns how long mismatched pairs stay face up.
func (c *ServerConfig) RevealDelay() time.Duration {
	return time.Duration(c.Game.RevealDelayMs) * time.Millisecond
}

// MatchDelay returns how long matched pairs show before locking in.
func (c *ServerConfig) MatchDelay() time.Duration {
	return time.Duration(c.Game.MatchDelayMs) * time.Millisecond
}
