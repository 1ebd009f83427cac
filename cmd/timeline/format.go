package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/raidtimeline/timeline-go/pkg/timeline"
)

// validFormats lists all valid output formats.
var validFormats = map[string]bool{
	"jsonl":  true,
	"json":   true,
	"pretty": true,
}

// record is one JSON Lines entry. Exactly one payload field is set.
type record struct {
	Kind  string          `json:"kind"`
	File  string          `json:"file,omitempty"`
	Event *timeline.Event `json:"event,omitempty"`
	Text  *timeline.Text  `json:"text,omitempty"`
	Error *timeline.Error `json:"error,omitempty"`
	Match *match          `json:"match,omitempty"`
}

// OutputTimeline writes tl in the specified format.
func OutputTimeline(format string, tl *timeline.Timeline, out io.Writer) error {
	switch format {
	case "jsonl":
		return outputJSONL(tl, out)
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(tl)
	case "pretty":
		return outputPretty(tl, out)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func outputJSONL(tl *timeline.Timeline, out io.Writer) error {
	enc := json.NewEncoder(out)
	for _, ev := range tl.Events {
		if err := enc.Encode(record{Kind: "event", Event: ev}); err != nil {
			return err
		}
	}
	for _, t := range tl.Texts {
		if err := enc.Encode(record{Kind: "text", Text: t}); err != nil {
			return err
		}
	}
	for i := range tl.Errors {
		if err := enc.Encode(record{Kind: "error", Error: &tl.Errors[i]}); err != nil {
			return err
		}
	}
	return nil
}

func outputPretty(tl *timeline.Timeline, out io.Writer) error {
	for _, ev := range tl.Events {
		if tl.Ignored(ev.Name) {
			continue
		}
		if _, err := fmt.Fprintln(out, formatEvent(ev)); err != nil {
			return err
		}
	}
	for _, t := range tl.Texts {
		if _, err := fmt.Fprintln(out, formatText(t)); err != nil {
			return err
		}
	}
	for _, e := range tl.Errors {
		if _, err := fmt.Fprintf(out, "! %s\n", e.Error()); err != nil {
			return err
		}
	}
	return nil
}

// formatEvent renders an event as one human-readable line.
func formatEvent(ev *timeline.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%8s] %s", seconds(ev.Time), ev.Text)
	if ev.Duration != nil {
		fmt.Fprintf(&b, " (%ss)", seconds(*ev.Duration))
	}
	if s := ev.Sync; s != nil {
		fmt.Fprintf(&b, " sync %s..%s", seconds(s.Start), seconds(s.End))
		if s.Jump != nil {
			fmt.Fprintf(&b, " %s %s", jumpWord(s.JumpType), seconds(*s.Jump))
		}
	}
	if len(ev.Style) > 0 {
		fmt.Fprintf(&b, " {%s}", formatData(ev.Style))
	}
	return b.String()
}

// formatText renders a callout as one human-readable line.
func formatText(t *timeline.Text) string {
	if t.Trigger != nil {
		return fmt.Sprintf("[%8s] * trigger %s", seconds(t.Time), t.Trigger.ID)
	}
	return fmt.Sprintf("[%8s] * %s: %s", seconds(t.Time), t.Type, t.Text)
}

func jumpWord(t timeline.JumpType) string {
	if t == timeline.JumpForce {
		return "forcejump"
	}
	return "jump"
}

func seconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatData formats a map as sorted key=value pairs.
// Values are quoted if they contain spaces, equals signs, quotes, or control characters.
func formatData(data map[string]string) string {
	if len(data) == 0 {
		return ""
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(data))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", quoteIfNeeded(k), quoteIfNeeded(data[k])))
	}
	return strings.Join(parts, " ")
}

// quoteIfNeeded quotes a value if it contains special characters or control characters.
func quoteIfNeeded(v string) string {
	if v == "" {
		return `""`
	}

	needsQuote := false
	for _, c := range v {
		if c == ' ' || c == '=' || c == '"' || c == '\\' || c < 0x20 || c == 0x7F {
			needsQuote = true
			break
		}
	}
	if !needsQuote {
		return v
	}

	var sb strings.Builder
	sb.WriteByte('"')
	for _, c := range v {
		switch {
		case c == '\\':
			sb.WriteString(`\\`)
		case c == '"':
			sb.WriteString(`\"`)
		case c == '\n':
			sb.WriteString(`\n`)
		case c == '\r':
			sb.WriteString(`\r`)
		case c == '\t':
			sb.WriteString(`\t`)
		case c < 0x20 || c == 0x7F:
			fmt.Fprintf(&sb, `\x%02x`, c)
		default:
			sb.WriteRune(c)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
