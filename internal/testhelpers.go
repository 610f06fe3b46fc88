package internal

// CreateTestDamageRoll creates the "2d6+3" damage roll with both dice resolved
func CreateTestDamageRoll() GenericRoll {
	return GenericRoll{
		Type:    "damage",
		Formula: "2d6+3",
		Parts: []RollPart{
			Dice(DiceTerm{
				Formula:   "2d6",
				Amount:    2,
				Faces:     6,
				Modifiers: []string{},
				Rolls:     []DieRoll{CreateTestDieRoll(4, false), CreateTestDieRoll(2, false)},
				Total:     IntPtr(6),
			}),
			Operator("+"),
			Constant(3),
		},
		Total: IntPtr(9),
	}
}

// CreateTestPendingD20 creates an unresolved "1d20+5" roll of the given type
func CreateTestPendingD20(rollType string) GenericRoll {
	return GenericRoll{
		Type:    rollType,
		Formula: "1d20+5",
		Parts: []RollPart{
			Dice(DiceTerm{
				Formula:   "1d20",
				Amount:    1,
				Faces:     20,
				Modifiers: []string{},
				Rolls:     []DieRoll{},
			}),
			Operator("+"),
			Constant(5),
		},
	}
}

// CreateTestDieRoll creates a resolved die
func CreateTestDieRoll(value int, discarded bool) DieRoll {
	return DieRoll{Roll: IntPtr(value), Discarded: discarded}
}

// CreateTestHostPending creates a host pending roll envelope
func CreateTestHostPending(rollID, setID string) Message {
	return Message{
		Persist:       false,
		EventType:     EventTypePendingRoll,
		EntityType:    "character",
		EntityID:      "entity-1",
		GameID:        "game-1",
		MessageScope:  "gameId",
		MessageTarget: "game-1",
		UserID:        "user-1",
		Data: map[string]any{
			"action":  "custom",
			"context": map[string]any{"entityId": "entity-1", "name": "Tester"},
			"rollId":  rollID,
			"rolls":   []any{},
			"setId":   setID,
		},
	}
}

// IntPtr returns a pointer to n
func IntPtr(n int) *int {
	return &n
}

// CreateTestMessages creates a relayed pending roll, its fulfilled roll and a
// pass-through request, as posted to the host
func CreateTestMessages() []Message {
	n := NewNormalizer()
	ctx := RollExchangeContext{
		EntityType:    "character",
		EntityID:      "entity-1",
		GameID:        "game-1",
		MessageScope:  "gameId",
		MessageTarget: "game-1",
		UserID:        "user-1",
		RollID:        "roll-1",
		SetID:         "00101",
	}
	return []Message{
		ctx.envelope(EventTypePendingRoll, false, PendingRollData{
			Action: "Longsword",
			RollID: ctx.RollID,
			Rolls:  n.NormalizeRolls([]GenericRoll{CreateTestPendingD20("to-hit")}, false),
			SetID:  ctx.SetID,
		}),
		ctx.envelope(EventTypeFulfilledRoll, true, FulfilledRollData{
			Action: "Longsword",
			Rolls:  n.NormalizeRolls([]GenericRoll{CreateTestDamageRoll()}, true),
			RollID: ctx.RollID,
			SetID:  ctx.SetID,
		}),
		{
			EventType: EventTypeCustomRequest,
			Data:      CustomRequestData{Request: []byte(`{"action":"roll","roll":"1d20"}`)},
		},
	}
}
