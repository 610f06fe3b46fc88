package internal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Host.EntityType != "character" {
		t.Errorf("Host.EntityType = %q, want character", cfg.Host.EntityType)
	}
	if cfg.Host.MessageScope != "gameId" {
		t.Errorf("Host.MessageScope = %q, want gameId", cfg.Host.MessageScope)
	}
	if cfg.Verbose {
		t.Error("Verbose should default to false")
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relay.yaml")
	content := `verbose: true
gamelog: /tmp/gamelog.db
host:
  entity_id: "123"
  game_id: "456"
  user_id: "789"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if !cfg.Verbose {
		t.Error("Verbose should be true")
	}
	if cfg.GameLogPath != "/tmp/gamelog.db" {
		t.Errorf("GameLogPath = %q, want /tmp/gamelog.db", cfg.GameLogPath)
	}
	if cfg.Host.GameID != "456" || cfg.Host.EntityID != "123" || cfg.Host.UserID != "789" {
		t.Errorf("unexpected host config: %+v", cfg.Host)
	}
	// Unset keys keep their defaults
	if cfg.Host.EntityType != "character" {
		t.Errorf("Host.EntityType = %q, want default character", cfg.Host.EntityType)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relay.yaml")
	if err := os.WriteFile(path, []byte("host:\n  game_id: \"from-file\"\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	t.Setenv("DICE_RELAY_HOST_GAME_ID", "from-env")
	t.Setenv("DICE_RELAY_GAMELOG", "/var/lib/gamelog.db")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Host.GameID != "from-env" {
		t.Errorf("Host.GameID = %q, want from-env", cfg.Host.GameID)
	}
	if cfg.GameLogPath != "/var/lib/gamelog.db" {
		t.Errorf("GameLogPath = %q, want /var/lib/gamelog.db", cfg.GameLogPath)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
	}{
		{
			name: "missing file",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "missing.yaml")
			},
		},
		{
			name: "invalid yaml",
			setup: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "bad.yaml")
				if err := os.WriteFile(path, []byte("host: [unclosed"), 0644); err != nil {
					t.Fatalf("Failed to write config: %v", err)
				}
				return path
			},
		},
		{
			name: "invalid env value",
			setup: func(t *testing.T) string {
				t.Setenv("DICE_RELAY_VERBOSE", "not-a-bool")
				return ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(tt.setup(t))
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("LoadConfig() error = %v, want *ConfigError", err)
			}
		})
	}
}
