package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wricardo/mcp-training/solitaire/game/cards"
)

// GameConfig describes a table: how many tableau columns to deal, how many
// suits go into the deck, and the messages shown to players.
type GameConfig struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Rows        int      `json:"rows" yaml:"rows"`
	Suits       int      `json:"suits" yaml:"suits"`
	Seed        *int64   `json:"seed,omitempty" yaml:"seed,omitempty"`
	Messages    Messages `json:"messages" yaml:"messages"`
}

// Messages are the player-facing texts of a table.
type Messages struct {
	Welcome string `json:"welcome" yaml:"welcome"`
	Victory string `json:"victory" yaml:"victory"`
	Illegal string `json:"illegal,omitempty" yaml:"illegal,omitempty"`
	Recycle string `json:"recycle,omitempty" yaml:"recycle,omitempty"`
}

// CardCount returns the size of the deck dealt for this config.
func (c *GameConfig) CardCount() int {
	return c.Suits * cards.RanksPerSuit
}

// DefaultConfig returns classic Klondike: seven columns, four suits.
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Name:        "Classic Klondike",
		Description: "Seven columns, four suits, draw three",
		Rows:        MaxRows,
		Suits:       MaxSuits,
		Messages: Messages{
			Welcome: "Welcome to Klondike! Build every suit up from the ace.",
			Victory: "Victory! All cards are on the foundations.",
			Illegal: "That move is not allowed.",
			Recycle: "The waste was turned over into the deck.",
		},
	}
}

// ValidateGameConfig checks that a config can be dealt and played.
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	if config.Rows < MinRows || config.Rows > MaxRows {
		return fmt.Errorf("config validation: rows must be between %d and %d, got %d", MinRows, MaxRows, config.Rows)
	}
	if config.Suits < MinSuits || config.Suits > MaxSuits {
		return fmt.Errorf("config validation: suits must be between %d and %d, got %d", MinSuits, MaxSuits, config.Suits)
	}
	if need := config.Rows * (config.Rows + 1) / 2; need > config.CardCount() {
		return fmt.Errorf("config validation: %d rows need %d cards but %d suits only hold %d",
			config.Rows, need, config.Suits, config.CardCount())
	}

	if config.Messages.Welcome == "" {
		return fmt.Errorf("config validation: messages.welcome is required")
	}
	if config.Messages.Victory == "" {
		return fmt.Errorf("config validation: messages.victory is required")
	}
	return nil
}

// DecodeGameConfig parses a config in the format implied by the file name's
// extension: .yaml and .yml are YAML, anything else is JSON.
func DecodeGameConfig(filename string, data []byte) (*GameConfig, error) {
	var config GameConfig
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, err
		}
	}
	return &config, nil
}

// EncodeGameConfig is the inverse of DecodeGameConfig.
func EncodeGameConfig(filename string, config *GameConfig) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return yaml.Marshal(config)
	default:
		return json.MarshalIndent(config, "", "  ")
	}
}

// LoadGameConfig loads and validates a config file.
func LoadGameConfig(filename string) (*GameConfig, error) {
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	config, err := DecodeGameConfig(configPath, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", filename, err)
	}
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}
