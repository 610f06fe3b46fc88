package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/iksnae/dice-relay/internal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	normalizeForce  bool
	normalizeFormat string
)

// normalizeCmd represents the normalize command
var normalizeCmd = &cobra.Command{
	Use:   "normalize [file]",
	Short: "Normalize a tool roll into the game log dice notation",
	Long: `Read one roll in the tool's encoding (from a file or stdin) and print it
in the game log schema.

The result block is only included when a dice term carries a total, unless
--force-result is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if normalizeFormat != "json" && normalizeFormat != "yaml" {
			return fmt.Errorf("unsupported format: %s (supported: json, yaml)", normalizeFormat)
		}

		var (
			data []byte
			err  error
		)
		if len(args) == 1 && args[0] != "-" {
			data, err = os.ReadFile(args[0])
		} else {
			data, err = io.ReadAll(cmd.InOrStdin())
		}
		if err != nil {
			return fmt.Errorf("failed to read roll: %w", err)
		}

		var roll internal.GenericRoll
		if err := json.Unmarshal(data, &roll); err != nil {
			return &internal.DecodeError{Event: "normalize", Err: err}
		}

		normalized := internal.NewNormalizer().NormalizeRoll(roll, normalizeForce)
		internal.LogDebug("Normalized %q into %d dice set(s)", roll.Formula, len(normalized.DiceNotation.Set))

		return writeNormalized(cmd.OutOrStdout(), normalized, normalizeFormat)
	},
}

func writeNormalized(w io.Writer, roll internal.NormalizedRoll, format string) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer func() { _ = enc.Close() }()
		return enc.Encode(roll)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(roll)
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
	normalizeCmd.Flags().BoolVar(&normalizeForce, "force-result", false, "Always include the result block")
	normalizeCmd.Flags().StringVarP(&normalizeFormat, "format", "f", "json", "Output format: json, yaml")
}
