package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/dice-relay/internal"
)

// MarkdownExporter renders posted messages as a readable game log
type MarkdownExporter struct{}

type markdownData struct {
	Action  string                    `json:"action"`
	RollID  string                    `json:"rollId"`
	SetID   string                    `json:"setId"`
	Rolls   []internal.NormalizedRoll `json:"rolls"`
	Request json.RawMessage           `json:"request"`
	Render  json.RawMessage           `json:"render"`
}

// Export writes messages to w
func (e *MarkdownExporter) Export(messages []internal.Message, w io.Writer) error {
	persisted := 0
	for _, msg := range messages {
		if msg.Persist {
			persisted++
		}
	}

	// Header
	_, _ = fmt.Fprintf(w, "# Game Log\n\n")
	_, _ = fmt.Fprintf(w, "**Messages:** %d  \n", len(messages))
	_, _ = fmt.Fprintf(w, "**Persisted:** %d\n\n", persisted)

	_, _ = fmt.Fprintf(w, "---\n\n")
	_, _ = fmt.Fprintf(w, "## Messages\n\n")

	for i, msg := range messages {
		writeMessage(w, msg)

		if i < len(messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

func writeMessage(w io.Writer, msg internal.Message) {
	flag := ""
	if msg.Persist {
		flag = " (persisted)"
	}
	_, _ = fmt.Fprintf(w, "**%s:**%s\n\n", msg.EventType, flag)

	var data markdownData
	if err := internal.DecodeData(msg.Data, &data); err != nil {
		internal.LogDebug("Rendering %s without data: %v", msg.EventType, err)
	}

	if data.Action != "" {
		_, _ = fmt.Fprintf(w, "**Action:** %s  \n", escapeMarkdown(data.Action))
	}
	if msg.GameID != "" {
		_, _ = fmt.Fprintf(w, "**Game:** %s  \n", msg.GameID)
	}
	if data.RollID != "" {
		_, _ = fmt.Fprintf(w, "**Roll ID:** %s  \n", data.RollID)
	}
	if data.SetID != "" {
		_, _ = fmt.Fprintf(w, "**Dice Set:** %s  \n", data.SetID)
	}
	_, _ = fmt.Fprintf(w, "\n")

	for _, roll := range data.Rolls {
		_, _ = fmt.Fprintf(w, "- %s\n", rollLine(roll))
	}
	if len(data.Rolls) > 0 {
		_, _ = fmt.Fprintf(w, "\n")
	}

	if len(data.Request) > 0 {
		_, _ = fmt.Fprintf(w, "```json\n%s\n```\n\n", data.Request)
	}
	if len(data.Render) > 0 {
		var html string
		if err := json.Unmarshal(data.Render, &html); err != nil {
			html = string(data.Render)
		}
		_, _ = fmt.Fprintf(w, "```html\n%s\n```\n\n", html)
	}
}

// rollLine renders "critical hit damage `2d6+3`: 6+3 = 9"
func rollLine(roll internal.NormalizedRoll) string {
	label := roll.RollType
	if roll.RollKind != "" {
		label = roll.RollKind + " " + label
	}

	line := fmt.Sprintf("%s `%s`", label, roll.DiceNotationStr)
	if roll.Result == nil {
		return line + ": pending"
	}
	line += ": " + roll.Result.Text
	if roll.Result.Total != nil {
		line += fmt.Sprintf(" = %d", *roll.Result.Total)
	}
	return line
}

// escapeMarkdown escapes markdown special characters
func escapeMarkdown(text string) string {
	text = strings.ReplaceAll(text, "**", "\\*\\*")
	text = strings.ReplaceAll(text, "__", "\\_\\_")
	return text
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
