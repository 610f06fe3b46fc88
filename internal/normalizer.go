package internal

import (
	"math"
	"strconv"
	"strings"
)

// DiceOperation tells the game log how to combine a dice set
type DiceOperation int

const (
	OperationSum DiceOperation = iota
	OperationMin
	OperationMax
)

// DiceNotation is the host representation of a roll formula
type DiceNotation struct {
	Constant int       `json:"constant" yaml:"constant"`
	Set      []DiceSet `json:"set" yaml:"set"`
}

// DiceSet is one group of identical dice
type DiceSet struct {
	Count     int           `json:"count" yaml:"count"`
	DieType   string        `json:"dieType" yaml:"dieType"`
	Operation DiceOperation `json:"operation" yaml:"operation"`
	Dice      []Die         `json:"dice" yaml:"dice"`
}

// Die is a single kept die value
type Die struct {
	DieType  string `json:"dieType" yaml:"dieType"`
	DieValue int    `json:"dieValue" yaml:"dieValue"`
}

// RollResult summarizes resolved values
type RollResult struct {
	Constant int    `json:"constant" yaml:"constant"`
	Text     string `json:"text" yaml:"text"`
	Total    *int   `json:"total,omitempty" yaml:"total,omitempty"`
	Values   []int  `json:"values" yaml:"values"`
}

// NormalizedRoll is a roll in the game log schema
type NormalizedRoll struct {
	DiceNotation    DiceNotation `json:"diceNotation" yaml:"diceNotation"`
	DiceNotationStr string       `json:"diceNotationStr" yaml:"diceNotationStr"`
	RollKind        string       `json:"rollKind" yaml:"rollKind"`
	RollType        string       `json:"rollType" yaml:"rollType"`
	Result          *RollResult  `json:"result,omitempty" yaml:"result,omitempty"`
}

// RollType is the purpose of a roll as reported by the tool
type RollType int

const (
	RollTypeUnknown RollType = iota
	RollTypeToHit
	RollTypeDamage
	RollTypeCriticalDamage
	RollTypeSkillCheck
	RollTypeAbilityCheck
	RollTypeInitiative
	RollTypeSavingThrow
	RollTypeDeathSave
)

// ParseRollType maps the tool's type tag to a RollType
func ParseRollType(s string) RollType {
	switch s {
	case "to-hit":
		return RollTypeToHit
	case "damage":
		return RollTypeDamage
	case "critical-damage":
		return RollTypeCriticalDamage
	case "skill-check":
		return RollTypeSkillCheck
	case "ability-check":
		return RollTypeAbilityCheck
	case "initiative":
		return RollTypeInitiative
	case "saving-throw":
		return RollTypeSavingThrow
	case "death-save":
		return RollTypeDeathSave
	default:
		return RollTypeUnknown
	}
}

// Kind returns the game log rollKind ("", advantage, disadvantage, critical hit)
func (t RollType) Kind() string {
	switch t {
	case RollTypeCriticalDamage:
		return "critical hit"
	default:
		return ""
	}
}

// Label returns the game log rollType (roll, to hit, damage, heal, spell, save, check)
func (t RollType) Label() string {
	switch t {
	case RollTypeToHit:
		return "to hit"
	case RollTypeDamage, RollTypeCriticalDamage:
		return "damage"
	case RollTypeSkillCheck, RollTypeAbilityCheck, RollTypeInitiative:
		return "check"
	case RollTypeSavingThrow, RollTypeDeathSave:
		return "save"
	default:
		return "roll"
	}
}

// Normalizer converts tool rolls to the game log dice notation
type Normalizer struct{}

// NewNormalizer creates a new Normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// NormalizeRoll converts a GenericRoll. The result summary is attached when
// forceResult is set or any dice term carries a total. Malformed input is
// degraded rather than rejected: the game log drops messages it cannot parse.
func (n *Normalizer) NormalizeRoll(roll GenericRoll, forceResult bool) NormalizedRoll {
	var constant float64
	lastOperator := "+"
	sets := make([]DiceSet, 0)
	values := make([]int, 0)

	for _, part := range roll.Parts {
		switch part.Kind {
		case PartOperator:
			lastOperator = part.Operator
		case PartConstant:
			constant += signed(lastOperator, part.Constant)
		case PartDice:
			if part.Dice == nil {
				continue
			}
			sets = append(sets, n.normalizeDiceTerm(*part.Dice))
			if part.Dice.Total != nil {
				values = append(values, *part.Dice.Total)
			}
		}
	}

	rollType := ParseRollType(roll.Type)
	normalized := NormalizedRoll{
		DiceNotation: DiceNotation{
			Constant: roundConstant(constant),
			Set:      sets,
		},
		DiceNotationStr: roll.Formula,
		RollKind:        rollType.Kind(),
		RollType:        rollType.Label(),
	}

	if forceResult || len(values) > 0 {
		normalized.Result = &RollResult{
			Constant: roundConstant(constant),
			Text:     resultText(roll.Parts),
			Total:    roll.Total,
			Values:   values,
		}
	}

	return normalized
}

// NormalizeRolls normalizes every roll of a batch in order
func (n *Normalizer) NormalizeRolls(rolls []GenericRoll, forceResult bool) []NormalizedRoll {
	normalized := make([]NormalizedRoll, 0, len(rolls))
	for _, roll := range rolls {
		normalized = append(normalized, n.NormalizeRoll(roll, forceResult))
	}
	return normalized
}

func (n *Normalizer) normalizeDiceTerm(term DiceTerm) DiceSet {
	dieType := normalizeDieType(term.Faces)
	dice := make([]Die, 0, len(term.Rolls))
	for _, r := range term.Rolls {
		if r.Discarded {
			continue
		}
		value := 0
		if r.Roll != nil {
			value = *r.Roll
		}
		dice = append(dice, Die{DieType: dieType, DieValue: value})
	}

	return DiceSet{
		Count:     term.Amount,
		DieType:   dieType,
		Operation: diceOperation(term.Modifiers),
		Dice:      dice,
	}
}

// diceOperation checks keep-lowest/drop-highest before keep-highest/drop-lowest,
// so min wins when both are present.
func diceOperation(modifiers []string) DiceOperation {
	switch {
	case hasModifier(modifiers, "kl") || hasModifier(modifiers, "dh"):
		return OperationMin
	case hasModifier(modifiers, "kh") || hasModifier(modifiers, "dl"):
		return OperationMax
	default:
		return OperationSum
	}
}

func hasModifier(modifiers []string, code string) bool {
	for _, m := range modifiers {
		if strings.Contains(m, code) {
			return true
		}
	}
	return false
}

// normalizeDieType falls back to d100 since the game log rejects other die types
func normalizeDieType(faces int) string {
	switch faces {
	case 4, 6, 8, 10, 12, 20, 100:
		return "d" + strconv.Itoa(faces)
	default:
		return "d100"
	}
}

func signed(operator string, n float64) float64 {
	if operator == "-" {
		return -n
	}
	return n
}

// roundConstant converts the summed constants to the integer the game log expects
func roundConstant(c float64) int {
	return int(math.Round(c))
}

// resultText reads the formula left to right with totals substituted for dice
func resultText(parts []RollPart) string {
	var b strings.Builder
	for _, part := range parts {
		switch part.Kind {
		case PartOperator:
			b.WriteString(part.Operator)
		case PartConstant:
			b.WriteString(strconv.FormatFloat(part.Constant, 'f', -1, 64))
		case PartDice:
			if part.Dice == nil {
				continue
			}
			if part.Dice.Total != nil {
				b.WriteString(strconv.Itoa(*part.Dice.Total))
			} else {
				b.WriteString(part.Dice.Expression())
			}
		default:
			b.WriteString(part.Literal)
		}
	}
	return b.String()
}
