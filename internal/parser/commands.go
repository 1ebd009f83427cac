package parser

import (
	"fmt"
	"strings"
)

// SyncForm identifies how a sync command was written.
type SyncForm int

const (
	// NoSync means the line carries no sync command.
	NoSync SyncForm = iota

	// RegexSync is `sync /pattern/`.
	RegexSync

	// StructuredSync is `Type {params}`.
	StructuredSync
)

// Window is a sync activation interval relative to the event time. With
// Symmetric set, End is the full width centred on the event.
type Window struct {
	Start     float64
	End       float64
	Symmetric bool
}

// Jump is a jump or forcejump suffix. Exactly one of Label and Seconds is
// meaningful, selected by ToLabel.
type Jump struct {
	Force   bool
	ToLabel bool
	Label   string
	Seconds float64
}

// ExtraTextError reports text left over after all commands were consumed.
// It matches ErrExtraText with errors.Is.
type ExtraTextError struct {
	Text string
}

func (e *ExtraTextError) Error() string {
	return fmt.Sprintf("%s: %s", ErrExtraText, e.Text)
}

func (e *ExtraTextError) Unwrap() error {
	return ErrExtraText
}

// Commands holds the commands parsed from the text after a timed line's name.
type Commands struct {
	Duration    float64
	HasDuration bool

	Sync SyncForm

	// Pattern is the raw text between the slashes of a regex sync.
	Pattern string

	// NetRegexType and NetRegexParams are the type name and the raw
	// `{...}` params of a structured sync.
	NetRegexType   string
	NetRegexParams string

	Window *Window
	Jump   *Jump
}

// ParseCommands parses the trailing commands of a timed line.
//
// Duration is consumed first, then a single sync command, then the window
// and jump suffixes found in the sync's argument text. Each command removes
// its own text before the next one runs, and comments are only recognized in
// what remains, so a '#' inside a sync pattern or params is kept.
//
// Returns an *ExtraTextError if non-comment text is left over.
func ParseCommands(rest string) (Commands, error) {
	var c Commands
	rest = strings.TrimSpace(rest)

	if m := find(durationPattern, rest); m != nil {
		c.Duration = m.number("seconds")
		c.HasDuration = true
		rest = strings.TrimSpace(m.cut())
	}

	var args string
	if m := find(syncPattern, rest); m != nil {
		c.Sync = RegexSync
		c.Pattern = m.group("regex")
		args = m.group("args")
		rest = prefix(m)
	} else if m := find(netRegexPattern, rest); m != nil {
		c.Sync = StructuredSync
		c.NetRegexType = m.group("type")
		c.NetRegexParams = m.group("params")
		args = m.group("args")
		rest = prefix(m)
	}

	if c.Sync != NoSync {
		args = strings.TrimSpace(args)
		if m := find(windowPattern, args); m != nil {
			w := &Window{End: m.number("end"), Symmetric: true}
			if m.has("start") {
				w.Start = m.number("start")
				w.Symmetric = false
			}
			c.Window = w
			args = strings.TrimSpace(m.cut())
		}
		if m := find(jumpPattern, args); m != nil {
			j := &Jump{Force: m.group("command") == "forcejump"}
			if m.has("label") {
				j.ToLabel = true
				j.Label = m.group("label")
			} else {
				j.Seconds = m.number("seconds")
			}
			c.Jump = j
			args = strings.TrimSpace(m.cut())
		}
		rest = strings.TrimSpace(rest + " " + args)
	}

	if rest != "" && !commentPattern.MatchString(rest) {
		return Commands{}, &ExtraTextError{Text: rest}
	}
	return c, nil
}

// prefix returns the text before a sync command.
func prefix(m *submatch) string {
	start, _, _ := m.span("text")
	return strings.TrimSpace(m.s[:start])
}
