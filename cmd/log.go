package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/dice-relay/internal"
	"github.com/spf13/cobra"
)

var (
	logGameLog string
	logGameID  string
	logLimit   int
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	actionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))
)

// logCmd represents the log command
var logCmd = &cobra.Command{
	Use:   "log",
	Short: "List messages stored in the game log",
	Long: `List the persisted messages recorded by 'dice-relay replay --gamelog',
oldest first.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := logGameLog
		if path == "" {
			path = cfg.GameLogPath
		}
		if path == "" {
			return errors.New("no game log configured (use --gamelog or DICE_RELAY_GAMELOG)")
		}
		if _, err := os.Stat(path); err != nil {
			return &internal.StorageError{Path: path, Op: "open", Err: err}
		}

		gameLog, err := internal.OpenGameLog(path)
		if err != nil {
			return err
		}
		defer gameLog.Close()

		entries, err := gameLog.List(logGameID, logLimit)
		if err != nil {
			return err
		}

		printLogEntries(cmd.OutOrStdout(), entries)
		return nil
	},
}

func printLogEntries(out io.Writer, entries []internal.LogEntry) {
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(out, headerStyle.Render("No messages found"))
		return
	}

	header := headerStyle.Render("Game log") + " " + countStyle.Render(fmt.Sprintf("(%d messages)", len(entries)))
	_, _ = fmt.Fprintln(out, header)
	_, _ = fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, titleStyle.Render("#")+"\t"+titleStyle.Render("Time")+"\t"+titleStyle.Render("Event")+"\t"+titleStyle.Render("Action")+"\t"+titleStyle.Render("Game")+"\t"+titleStyle.Render("Roll ID")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 100))

	for _, e := range entries {
		action := e.Action
		if action == "" {
			action = "-"
		}
		game := e.GameID
		if game == "" {
			game = "-"
		}
		rollID := e.RollID
		if rollID == "" {
			rollID = "-"
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t\n",
			e.ID,
			dateStyle.Render(e.CreatedAt.Format("2006-01-02 15:04:05")),
			e.EventType,
			actionStyle.Render(action),
			game,
			idStyle.Render(rollID),
		)
	}
	_ = w.Flush()
}

func init() {
	rootCmd.AddCommand(logCmd)
	logCmd.Flags().StringVar(&logGameLog, "gamelog", "", "SQLite game log to read")
	logCmd.Flags().StringVarP(&logGameID, "game", "g", "", "Only show messages for this game id")
	logCmd.Flags().IntVarP(&logLimit, "limit", "n", 0, "Maximum number of messages to show (0 for all)")
}
