package cmd

import (
	"fmt"
	"os"

	"github.com/iksnae/dice-relay/internal"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	version    string = "dev"
	commit     string = "unknown"
	date       string = "unknown"
)

// cfg is replaced by the loaded config before any subcommand runs
var cfg = internal.DefaultConfig()

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dice-relay",
	Short: "Relay virtual tabletop dice rolls into a game log",
	Long: `Relay dice rolls from a character sheet tool into a game log message bus.

Rolls announced by the tool are normalized into the game log's dice notation,
correlated with the game log's own pending roll and posted back on the bus.
The game log's duplicate fulfilled roll is suppressed.

Features:
  • Normalize a single roll to the game log schema
  • Replay recorded tool events through the relay
  • Store persisted messages in a SQLite game log
  • Export posted messages (JSON, JSONL, YAML, Markdown)

Quick Start:
  dice-relay normalize roll.json              # Normalize one roll
  dice-relay replay events.jsonl --format md  # Replay an event script
  dice-relay log --gamelog gamelog.db         # Show stored messages

Settings are read from --config and DICE_RELAY_* environment variables.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := internal.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		internal.SetVerbose(verbose || cfg.Verbose)
		return nil
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
