package internal

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/iksnae/dice-relay/testutil"
)

func TestGenericRoll_UnmarshalJSON(t *testing.T) {
	var roll GenericRoll
	testutil.JSONUnmarshal(t, []byte(testutil.DamageRollJSON), &roll)

	if roll.Type != "damage" || roll.Formula != "2d6+3" {
		t.Errorf("unexpected header: type=%q formula=%q", roll.Type, roll.Formula)
	}
	if roll.Total == nil || *roll.Total != 9 {
		t.Errorf("Total = %v, want 9", roll.Total)
	}
	if len(roll.Parts) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(roll.Parts))
	}

	dice := roll.Parts[0]
	if dice.Kind != PartDice || dice.Dice == nil {
		t.Fatalf("part 0 = %+v, want dice term", dice)
	}
	if dice.Dice.Amount != 2 || dice.Dice.Faces != 6 {
		t.Errorf("dice term = %+v, want 2d6", dice.Dice)
	}
	if dice.Dice.Total == nil || *dice.Dice.Total != 6 {
		t.Errorf("dice total = %v, want 6", dice.Dice.Total)
	}
	if len(dice.Dice.Rolls) != 2 || *dice.Dice.Rolls[0].Roll != 4 {
		t.Errorf("dice rolls = %+v", dice.Dice.Rolls)
	}

	if roll.Parts[1].Kind != PartOperator || roll.Parts[1].Operator != "+" {
		t.Errorf("part 1 = %+v, want + operator", roll.Parts[1])
	}
	if roll.Parts[2].Kind != PartConstant || roll.Parts[2].Constant != 3 {
		t.Errorf("part 2 = %+v, want constant 3", roll.Parts[2])
	}
}

func TestRollPart_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, p RollPart)
	}{
		{
			name:  "minus operator",
			input: `"-"`,
			check: func(t *testing.T, p RollPart) {
				if p.Kind != PartOperator || p.Operator != "-" {
					t.Errorf("got %+v, want - operator", p)
				}
			},
		},
		{
			name:  "unknown string is literal",
			input: `"*"`,
			check: func(t *testing.T, p RollPart) {
				if p.Kind != PartLiteral || p.Literal != "*" {
					t.Errorf("got %+v, want literal *", p)
				}
			},
		},
		{
			name:  "whole number constant",
			input: `2.0`,
			check: func(t *testing.T, p RollPart) {
				if p.Kind != PartConstant || p.Constant != 2 {
					t.Errorf("got %+v, want constant 2", p)
				}
			},
		},
		{
			name:  "fractional constant is kept",
			input: `1.5`,
			check: func(t *testing.T, p RollPart) {
				if p.Kind != PartConstant || p.Constant != 1.5 {
					t.Errorf("got %+v, want constant 1.5", p)
				}
			},
		},
		{
			name:  "boolean part is literal",
			input: `true`,
			check: func(t *testing.T, p RollPart) {
				if p.Kind != PartLiteral || p.Literal != "true" {
					t.Errorf("got %+v, want literal true", p)
				}
			},
		},
		{
			name:  "array part is literal",
			input: `[1, 2]`,
			check: func(t *testing.T, p RollPart) {
				if p.Kind != PartLiteral || p.Literal != "[1, 2]" {
					t.Errorf("got %+v, want literal [1, 2]", p)
				}
			},
		},
		{
			name:  "boolean formula marker",
			input: `{"formula": true, "amount": 1, "faces": 8, "rolls": [{"roll": null, "discarded": false}]}`,
			check: func(t *testing.T, p RollPart) {
				if p.Kind != PartDice {
					t.Fatalf("got %+v, want dice term", p)
				}
				if p.Dice.Rolls[0].Roll != nil {
					t.Errorf("null roll should decode as nil, got %v", *p.Dice.Rolls[0].Roll)
				}
				if p.Dice.Modifiers == nil {
					t.Error("missing modifiers should decode as empty slice")
				}
			},
		},
		{
			name:  "modifier string",
			input: `{"formula": "2d20kh1", "amount": 2, "faces": 20, "modifiers": "kh1", "rolls": []}`,
			check: func(t *testing.T, p RollPart) {
				if !reflect.DeepEqual(p.Dice.Modifiers, []string{"kh1"}) {
					t.Errorf("Modifiers = %v, want [kh1]", p.Dice.Modifiers)
				}
			},
		},
		{
			name:  "object without formula",
			input: `{"formula": "", "total": 4}`,
			check: func(t *testing.T, p RollPart) {
				if p.Kind != PartLiteral || p.Literal != "4" {
					t.Errorf("got %+v, want literal 4", p)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p RollPart
			if err := json.Unmarshal([]byte(tt.input), &p); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			tt.check(t, p)
		})
	}
}

func TestGenericRoll_UnmarshalJSONDegradesUnknownParts(t *testing.T) {
	var roll GenericRoll
	input := `{"type": "damage", "formula": "1d4+1", "parts": [true, "+", 1], "total": 2.6}`
	if err := json.Unmarshal([]byte(input), &roll); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(roll.Parts) != 3 || roll.Parts[0].Kind != PartLiteral || roll.Parts[0].Literal != "true" {
		t.Errorf("Parts = %+v, want a literal first part", roll.Parts)
	}
	if roll.Total == nil || *roll.Total != 3 {
		t.Errorf("Total = %v, want 3 (rounded)", roll.Total)
	}

	var batch RollBatch
	payload := `{"name": "Odd", "rolls": [` + input + `]}`
	if err := json.Unmarshal([]byte(payload), &batch); err != nil || len(batch.Rolls) != 1 {
		t.Errorf("batch with an unknown part should still decode: err=%v rolls=%d", err, len(batch.Rolls))
	}
}

func TestRollPart_MarshalJSON(t *testing.T) {
	roll := CreateTestDamageRoll()
	data := testutil.JSONMarshal(t, roll)

	var decoded GenericRoll
	testutil.JSONUnmarshal(t, data, &decoded)

	normalizer := NewNormalizer()
	want := normalizer.NormalizeRoll(roll, true)
	got := normalizer.NormalizeRoll(decoded, true)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("re-decoded roll normalizes differently:\n got %+v\nwant %+v", got, want)
	}

	parts := testutil.JSONMap(t, roll)["parts"].([]interface{})
	if parts[1] != "+" || parts[2] != float64(3) {
		t.Errorf("operator and constant should encode as bare values, got %v", parts)
	}
}

func TestDiceTerm_Expression(t *testing.T) {
	term := DiceTerm{Amount: 3, Faces: 8}
	if got := term.Expression(); got != "3d8" {
		t.Errorf("Expression() = %q, want 3d8", got)
	}
}
