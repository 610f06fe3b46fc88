package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/dice-relay/internal"
	"github.com/spf13/cobra"
)

var (
	healthcheckDetails bool
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// selfTestScript is one attack exchange: the tool announces a pending roll and
// then resolves it
const selfTestScript = `{"event":"pending-roll","payload":{"name":"Self Test","rolls":[{"type":"to-hit","formula":"1d20+5","parts":[{"formula":"1d20","amount":1,"faces":20,"modifiers":[],"rolls":[]},"+",5]}]}}
{"event":"fulfilled-roll","payload":{"name":"Self Test","rolls":[{"type":"to-hit","formula":"1d20+5","parts":[{"formula":"1d20","amount":1,"faces":20,"modifiers":[],"rolls":[{"roll":12,"discarded":false}],"total":12},"+",5],"total":17}]}}
`

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check the configuration, game log and relay",
	Long: `Check the health of dice-relay by verifying:
  • Configuration loading
  • Game log database access
  • A pending/fulfilled exchange through the relay and simulated host

This command is useful for debugging a deployment before replaying events.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintln(out, sectionStyle.Render("🔍 Dice Relay Health Check"))
		_, _ = fmt.Fprintln(out)

		// Step 1: Configuration
		_, _ = fmt.Fprintln(out, infoStyle.Render("Step 1: Loading configuration..."))
		_, _ = fmt.Fprintln(out, successStyle.Render("✅ Configuration loaded"))
		if healthcheckDetails {
			source := configPath
			if source == "" {
				source = "defaults and environment"
			}
			_, _ = fmt.Fprintf(out, "   Source: %s\n", source)
			_, _ = fmt.Fprintf(out, "   Host entity: %s/%s\n", cfg.Host.EntityType, cfg.Host.EntityID)
			_, _ = fmt.Fprintf(out, "   Host game: %s\n", cfg.Host.GameID)
			_, _ = fmt.Fprintf(out, "   Host dice set: %s\n", cfg.Host.SetID)
		}
		_, _ = fmt.Fprintln(out)

		// Step 2: Game log
		_, _ = fmt.Fprintln(out, infoStyle.Render("Step 2: Checking game log..."))
		gameLogOK := checkGameLog(out)
		_, _ = fmt.Fprintln(out)

		// Step 3: Relay
		_, _ = fmt.Fprintln(out, infoStyle.Render("Step 3: Relaying a test exchange..."))
		relayErr := checkRelay(cmd, out)
		_, _ = fmt.Fprintln(out)

		// Summary
		_, _ = fmt.Fprintln(out, sectionStyle.Render("📊 Summary"))
		_, _ = fmt.Fprintln(out)

		if relayErr != nil || !gameLogOK {
			_, _ = fmt.Fprintln(out, errorStyle.Render("❌ Health check failed"))
			if relayErr != nil {
				return fmt.Errorf("health check failed: %w", relayErr)
			}
			return fmt.Errorf("health check failed: game log unavailable")
		}
		_, _ = fmt.Fprintln(out, successStyle.Render("✅ Health check passed!"))
		return nil
	},
}

func checkGameLog(out io.Writer) bool {
	if cfg.GameLogPath == "" {
		_, _ = fmt.Fprintln(out, warningStyle.Render("⚠️  No game log configured"))
		if healthcheckDetails {
			_, _ = fmt.Fprintln(out, "   Set DICE_RELAY_GAMELOG or gamelog in the config file")
		}
		return true
	}

	gameLog, err := internal.OpenGameLog(cfg.GameLogPath)
	if err != nil {
		_, _ = fmt.Fprintln(out, errorStyle.Render("❌ Failed to open game log:"), err)
		return false
	}
	defer gameLog.Close()

	n, err := gameLog.Count()
	if err != nil {
		_, _ = fmt.Fprintln(out, errorStyle.Render("❌ Failed to read game log:"), err)
		return false
	}
	_, _ = fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Game log has %d message(s)", n)))
	if healthcheckDetails {
		_, _ = fmt.Fprintf(out, "   Database: %s\n", cfg.GameLogPath)
	}
	return true
}

func checkRelay(cmd *cobra.Command, out io.Writer) error {
	bus := internal.NewMemoryBus(nil)
	host := internal.NewHostSimulator(bus, cfg.Host)

	stats, err := internal.NewReplayer(bus, host).Run(cmd.Context(), strings.NewReader(selfTestScript))
	if err != nil {
		_, _ = fmt.Fprintln(out, errorStyle.Render("❌ Relay failed:"), err)
		return err
	}

	posted := bus.Messages()
	switch {
	case stats.Posted != 2:
		err = fmt.Errorf("expected 2 relayed messages, got %d", stats.Posted)
	case posted[0].EventType != internal.EventTypePendingRoll || posted[0].Persist:
		err = fmt.Errorf("first relayed message is %s, want a non-persisted pending roll", posted[0].EventType)
	case posted[1].EventType != internal.EventTypeFulfilledRoll || !posted[1].Persist:
		err = fmt.Errorf("second relayed message is %s, want a persisted fulfilled roll", posted[1].EventType)
	case stats.Blocked != 1:
		err = fmt.Errorf("host fulfilled roll was not suppressed")
	}
	if err != nil {
		_, _ = fmt.Fprintln(out, errorStyle.Render("❌ Relay misbehaved:"), err)
		return err
	}

	_, _ = fmt.Fprintln(out, successStyle.Render("✅ Pending and fulfilled rolls relayed, host duplicate suppressed"))
	if healthcheckDetails {
		for _, msg := range posted {
			_, _ = fmt.Fprintf(out, "   %s (persist=%t, game=%s)\n", msg.EventType, msg.Persist, msg.GameID)
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().BoolVarP(&healthcheckDetails, "details", "d", false, "Show detailed diagnostic information")
}
