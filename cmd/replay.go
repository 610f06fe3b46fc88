package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/iksnae/dice-relay/internal"
	"github.com/iksnae/dice-relay/internal/export"
	"github.com/spf13/cobra"
)

var (
	replayFormat  string
	replayOut     string
	replayGameLog string
	replayNoHost  bool
)

// replayCmd represents the replay command
var replayCmd = &cobra.Command{
	Use:   "replay <events.jsonl>",
	Short: "Replay recorded tool events through the relay",
	Long: `Replay a JSONL event script through the relay and export every message it
posts to the game log bus.

Each line is {"event": <name>, "payload": <json>}. Supported events are
roll, rendered-roll, pending-roll, fulfilled-roll, disconnect and
host-message. Blank lines and lines starting with # are ignored.

Unless --no-host is given, a simulated game log answers every pending-roll
with its own pending roll and every fulfilled-roll with its own fulfilled
roll, using the host settings from the config.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exporter, err := export.NewExporter(replayFormat)
		if err != nil {
			return err
		}

		script, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open event script: %w", err)
		}
		defer script.Close()

		var sink internal.MessageSink
		gameLogPath := replayGameLog
		if gameLogPath == "" {
			gameLogPath = cfg.GameLogPath
		}
		if gameLogPath != "" {
			gameLog, err := internal.OpenGameLog(gameLogPath)
			if err != nil {
				return err
			}
			defer gameLog.Close()
			sink = gameLog
			internal.LogDebug("Recording persisted messages to %s", gameLogPath)
		}

		bus := internal.NewMemoryBus(sink)
		var host *internal.HostSimulator
		if !replayNoHost {
			host = internal.NewHostSimulator(bus, cfg.Host)
		}

		stats, err := internal.NewReplayer(bus, host).Run(cmd.Context(), script)
		if err != nil {
			return fmt.Errorf("replay failed: %w", err)
		}

		if err := writeExport(cmd.OutOrStdout(), exporter, replayFormat, bus.Messages()); err != nil {
			return err
		}

		status := cmd.ErrOrStderr()
		internal.PrintSuccess(status, fmt.Sprintf("Replayed %d event(s): %d message(s) posted, %d host message(s) blocked",
			stats.Events, stats.Posted, stats.Blocked))
		if stats.Unhandled > 0 {
			internal.PrintWarning(status, fmt.Sprintf("%d event(s) had no listener", stats.Unhandled))
		}
		if stats.Skipped > 0 {
			internal.PrintWarning(status, fmt.Sprintf("%d script line(s) skipped", stats.Skipped))
		}
		return nil
	},
}

// writeExport writes to --out when set, otherwise to stdout
func writeExport(stdout io.Writer, exporter export.Exporter, format string, messages []internal.Message) error {
	if replayOut == "" {
		if err := exporter.Export(messages, stdout); err != nil {
			return &internal.ExportError{Format: format, Path: "-", Err: err}
		}
		return nil
	}

	path := replayOut
	if filepath.Ext(path) == "" {
		path += "." + exporter.Extension()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &internal.ExportError{Format: format, Path: path, Err: err}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return &internal.ExportError{Format: format, Path: path, Err: err}
	}
	defer f.Close()

	if err := exporter.Export(messages, f); err != nil {
		return &internal.ExportError{Format: format, Path: path, Err: err}
	}
	internal.LogInfo("Exported %d message(s) to %s", len(messages), path)
	return nil
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().StringVarP(&replayFormat, "format", "f", "json", "Export format: json, jsonl, yaml, md")
	replayCmd.Flags().StringVarP(&replayOut, "out", "o", "", "Write posted messages to this file instead of stdout")
	replayCmd.Flags().StringVar(&replayGameLog, "gamelog", "", "SQLite game log to record persisted messages in")
	replayCmd.Flags().BoolVar(&replayNoHost, "no-host", false, "Disable the simulated game log host")
}
