package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// PartKind tags the variant held by a RollPart
type PartKind int

const (
	PartLiteral PartKind = iota
	PartOperator
	PartConstant
	PartDice
)

// RollPart is one term of a roll formula: an operator, a constant, a dice term,
// or literal text the notation ignores
type RollPart struct {
	Kind     PartKind
	Operator string
	Constant float64
	Dice     *DiceTerm
	Literal  string
}

// Operator returns an operator part ("+" or "-")
func Operator(op string) RollPart {
	return RollPart{Kind: PartOperator, Operator: op}
}

// Constant returns a plain numeric part. Fractions are kept; the game log
// schema only needs integers once the constants are summed.
func Constant(n float64) RollPart {
	return RollPart{Kind: PartConstant, Constant: n}
}

// Dice returns a dice term part
func Dice(term DiceTerm) RollPart {
	return RollPart{Kind: PartDice, Dice: &term}
}

// DiceTerm is a rollable die group such as "2d6"
type DiceTerm struct {
	Formula   string    `json:"formula"`
	Amount    int       `json:"amount"`
	Faces     int       `json:"faces"`
	Modifiers []string  `json:"modifiers"`
	Rolls     []DieRoll `json:"rolls"`
	Total     *int      `json:"total,omitempty"`
}

// DieRoll is a single die inside a DiceTerm. Roll is nil until the die is resolved.
type DieRoll struct {
	Roll      *int `json:"roll,omitempty"`
	Discarded bool `json:"discarded"`
}

// GenericRoll is the tool-side description of one roll
type GenericRoll struct {
	Type    string     `json:"type"`
	Formula string     `json:"formula"`
	Parts   []RollPart `json:"parts"`
	Total   *int       `json:"total,omitempty"`
}

// RollBatch is the payload of pending-roll and fulfilled-roll events
type RollBatch struct {
	Name  string        `json:"name"`
	Rolls []GenericRoll `json:"rolls"`
}

// UnmarshalJSON decodes the loosely-typed part encodings the tool emits:
// "+"/"-" strings, bare numbers and dice objects carrying a formula. Anything
// else becomes a literal holding its JSON text.
func (p *RollPart) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = RollPart{Kind: PartLiteral}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "+" || s == "-" {
			*p = Operator(s)
		} else {
			*p = RollPart{Kind: PartLiteral, Literal: s}
		}
		return nil
	case '{':
		return p.unmarshalObject(data)
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			*p = RollPart{Kind: PartLiteral, Literal: string(data)}
			return nil
		}
		*p = Constant(f)
		return nil
	}
}

func (p *RollPart) unmarshalObject(data []byte) error {
	var aux struct {
		Formula   json.RawMessage `json:"formula"`
		Amount    float64         `json:"amount"`
		Faces     float64         `json:"faces"`
		Modifiers json.RawMessage `json:"modifiers"`
		Rolls     []struct {
			Roll      *float64 `json:"roll"`
			Discarded bool     `json:"discarded"`
		} `json:"rolls"`
		Total *float64 `json:"total"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	total := intPtr(aux.Total)
	formula, ok := truthyFormula(aux.Formula)
	if !ok {
		// Objects without a formula only contribute text
		lit := RollPart{Kind: PartLiteral}
		if total != nil {
			lit.Literal = strconv.Itoa(*total)
		}
		*p = lit
		return nil
	}

	term := DiceTerm{
		Formula:   formula,
		Amount:    int(aux.Amount),
		Faces:     int(aux.Faces),
		Modifiers: decodeModifiers(aux.Modifiers),
		Rolls:     make([]DieRoll, 0, len(aux.Rolls)),
		Total:     total,
	}
	for _, r := range aux.Rolls {
		term.Rolls = append(term.Rolls, DieRoll{Roll: intPtr(r.Roll), Discarded: r.Discarded})
	}
	*p = Dice(term)
	return nil
}

// MarshalJSON writes the part back in the tool's encoding
func (p RollPart) MarshalJSON() ([]byte, error) {
	switch p.Kind {
	case PartOperator:
		return json.Marshal(p.Operator)
	case PartConstant:
		return json.Marshal(p.Constant)
	case PartDice:
		if p.Dice == nil {
			return []byte("null"), nil
		}
		term := *p.Dice
		if term.Formula == "" {
			term.Formula = term.Expression()
		}
		return json.Marshal(term)
	default:
		return json.Marshal(p.Literal)
	}
}

// UnmarshalJSON tolerates fractional totals
func (r *GenericRoll) UnmarshalJSON(data []byte) error {
	var aux struct {
		Type    string     `json:"type"`
		Formula string     `json:"formula"`
		Parts   []RollPart `json:"parts"`
		Total   *float64   `json:"total"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = GenericRoll{
		Type:    aux.Type,
		Formula: aux.Formula,
		Parts:   aux.Parts,
		Total:   intPtr(aux.Total),
	}
	return nil
}

// Expression renders the term as "<amount>d<faces>"
func (t DiceTerm) Expression() string {
	return fmt.Sprintf("%dd%d", t.Amount, t.Faces)
}

// truthyFormula mirrors the tool's truthiness check on the formula marker
func truthyFormula(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false
	}
	switch f := v.(type) {
	case string:
		return f, f != ""
	case bool:
		return "", f
	case float64:
		return "", f != 0
	case nil:
		return "", false
	default:
		return "", true
	}
}

// decodeModifiers accepts both a list of codes and a single modifier string ("kh1")
func decodeModifiers(raw json.RawMessage) []string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		if list == nil {
			return []string{}
		}
		return list
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s != "" {
		return []string{s}
	}
	return []string{}
}

// intPtr rounds a decoded total to the nearest integer
func intPtr(f *float64) *int {
	if f == nil {
		return nil
	}
	n := int(math.Round(*f))
	return &n
}
