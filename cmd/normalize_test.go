package cmd

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iksnae/dice-relay/internal"
	"github.com/iksnae/dice-relay/testutil"
	"gopkg.in/yaml.v3"
)

func TestNormalizeCommand_File(t *testing.T) {
	path := testutil.WriteRollFixture(t, t.TempDir(), testutil.DamageRollJSON)

	stdout, _, err := executeCommand(t, "", "normalize", path)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var got internal.NormalizedRoll
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout)
	}
	if got.DiceNotationStr != "2d6+3" || got.RollType != "damage" || got.DiceNotation.Constant != 3 {
		t.Errorf("unexpected roll: %+v", got)
	}
	if got.Result == nil || got.Result.Text != "6+3" {
		t.Errorf("Result = %+v, want text 6+3", got.Result)
	}
}

func TestNormalizeCommand_Stdin(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantResult bool
	}{
		{"pending roll", []string{"normalize"}, false},
		{"dash reads stdin", []string{"normalize", "-"}, false},
		{"forced result", []string{"normalize", "--force-result"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := executeCommand(t, testutil.PendingAttackJSON, tt.args...)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			m := testutil.JSONMap(t, json.RawMessage(stdout))
			if _, ok := m["result"]; ok != tt.wantResult {
				t.Errorf("result present = %t, want %t", ok, tt.wantResult)
			}
			if m["rollType"] != "to hit" {
				t.Errorf("rollType = %v, want to hit", m["rollType"])
			}
		})
	}
}

func TestNormalizeCommand_YAML(t *testing.T) {
	stdout, _, err := executeCommand(t, testutil.DamageRollJSON, "normalize", "--format", "yaml")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var got map[string]interface{}
	if err := yaml.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("output is not YAML: %v", err)
	}
	if got["diceNotationStr"] != "2d6+3" {
		t.Errorf("diceNotationStr = %v", got["diceNotationStr"])
	}
	if !strings.Contains(stdout, "dieType: d6") {
		t.Errorf("YAML should use wire field names:\n%s", stdout)
	}
}

func TestNormalizeCommand_Errors(t *testing.T) {
	t.Run("invalid format", func(t *testing.T) {
		_, _, err := executeCommand(t, testutil.DamageRollJSON, "normalize", "--format", "xml")
		if err == nil || !strings.Contains(err.Error(), "unsupported format") {
			t.Errorf("Execute() error = %v", err)
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, _, err := executeCommand(t, "{not json", "normalize")
		var decodeErr *internal.DecodeError
		if !errors.As(err, &decodeErr) || decodeErr.Event != "normalize" {
			t.Errorf("Execute() error = %v, want DecodeError", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := executeCommand(t, "", "normalize", filepath.Join(t.TempDir(), "missing.json"))
		if err == nil {
			t.Error("Execute() should fail for a missing file")
		}
	})

	t.Run("too many args", func(t *testing.T) {
		_, _, err := executeCommand(t, "", "normalize", "a.json", "b.json")
		if err == nil {
			t.Error("Execute() should reject two files")
		}
	})
}
