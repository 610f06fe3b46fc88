package internal

import (
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds the relay CLI settings. Values come from defaults, then the
// optional YAML file, then DICE_RELAY_* environment variables.
type Config struct {
	Verbose     bool       `yaml:"verbose" env:"DICE_RELAY_VERBOSE"`
	GameLogPath string     `yaml:"gamelog" env:"DICE_RELAY_GAMELOG"`
	Host        HostConfig `yaml:"host" envPrefix:"DICE_RELAY_HOST_"`
}

// HostConfig describes the simulated game log host used by replay
type HostConfig struct {
	EntityType    string `yaml:"entity_type" env:"ENTITY_TYPE"`
	EntityID      string `yaml:"entity_id" env:"ENTITY_ID"`
	GameID        string `yaml:"game_id" env:"GAME_ID"`
	UserID        string `yaml:"user_id" env:"USER_ID"`
	MessageScope  string `yaml:"message_scope" env:"MESSAGE_SCOPE"`
	MessageTarget string `yaml:"message_target" env:"MESSAGE_TARGET"`
	SetID         string `yaml:"set_id" env:"SET_ID"`
}

// DefaultConfig returns the built-in settings
func DefaultConfig() *Config {
	return &Config{
		Host: HostConfig{
			EntityType:   "character",
			MessageScope: "gameId",
			SetID:        "00101",
		},
	}
}

// LoadConfig builds the configuration. An empty path skips the file.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &ConfigError{Source: path, Err: err}
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, &ConfigError{Source: path, Err: err}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, &ConfigError{Source: "env", Err: err}
	}

	return cfg, nil
}
