// Package parser provides timeline line classification and command parsing.
//
// It is purely syntactic: it recognizes directives, extracts their fields and
// reports malformed lines. Semantic checks such as log-line type lookup,
// label resolution and regex compilation belong to the caller.
package parser

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/raidtimeline/timeline-go/internal/invariant"
)

// Syntax errors reported for a single line.
var (
	// ErrInvalidFormat indicates a line matching no directive.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrExtraText indicates unconsumed text after the commands of a timed line.
	ErrExtraText = errors.New("extra text")
)

// Kind identifies a classified line.
type Kind int

// Line kinds in classification precedence order.
const (
	Ignore Kind = iota + 1
	TTS
	SoundAlert
	Speaker
	Popup
	Label
	Timed
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Ignore:
		return "ignore"
	case TTS:
		return "tts"
	case SoundAlert:
		return "soundalert"
	case Speaker:
		return "speaker"
	case Popup:
		return "popup"
	case Label:
		return "label"
	case Timed:
		return "timed"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Line is a classified timeline line. Which fields are set depends on Kind.
type Line struct {
	Kind Kind

	// ID is the event name referenced by Ignore, TTS and Popup lines.
	ID string

	// TextType is the popup type (info, alert, alarm or any other declared
	// type) or "tts" for a spoken TTS directive.
	TextType string

	// Before is the lead time of TTS and Popup lines.
	Before float64

	// Text is the optional display text of TTS and Popup lines.
	Text    string
	HasText bool

	// Speak is set for TTS lines using the speak variant.
	Speak bool

	// Time is the position of Label and Timed lines.
	Time float64

	// Label is the name defined by a Label line.
	Label string

	// Name is the quoted event name of a Timed line. NameStart and NameEnd
	// are its byte offsets within the classified input.
	Name      string
	NameStart int
	NameEnd   int

	// Rest is the text following the name of a Timed line, with RestStart
	// its byte offset within the classified input.
	Rest      string
	RestStart int
}

// Emits reports whether the line produces output. Recognized stubs, sound
// TTS directives and unsupported popup types do not.
func (l Line) Emits() bool {
	switch l.Kind {
	case SoundAlert, Speaker:
		return false
	case TTS:
		return l.Speak
	case Popup:
		return popupTypes[l.TextType]
	default:
		return true
	}
}

// IsComment reports whether a trimmed line is blank or a comment.
func IsComment(line string) bool {
	return line == "" || commentPattern.MatchString(line)
}

// Classify determines the kind of a trimmed, non-empty, non-comment line.
//
// Returns:
//   - (Line, nil): recognized line
//   - (Line{}, ErrInvalidFormat): no directive matched
func Classify(line string) (Line, error) {
	if l, ok := parseIgnore(line); ok {
		return l, nil
	}
	if l, ok := parseTTS(line); ok {
		return l, nil
	}
	if soundAlertPattern.MatchString(line) {
		return Line{Kind: SoundAlert}, nil
	}
	if speakerPattern.MatchString(line) {
		return Line{Kind: Speaker}, nil
	}
	if l, ok := parsePopup(line); ok {
		return l, nil
	}
	if l, ok := parseLabel(line); ok {
		return l, nil
	}
	if l, ok := parseTimed(line); ok {
		return l, nil
	}
	return Line{}, ErrInvalidFormat
}

func parseIgnore(line string) (Line, bool) {
	m := find(ignorePattern, line)
	if m == nil {
		return Line{}, false
	}
	return Line{Kind: Ignore, ID: m.group("id")}, true
}

func parseTTS(line string) (Line, bool) {
	m := find(ttsPattern, line)
	if m == nil {
		return Line{}, false
	}
	speak := strings.HasPrefix(m.group("command"), "speak")
	l := Line{
		Kind:   TTS,
		ID:     m.group("id"),
		Before: m.number("before"),
		Speak:  speak,
	}
	if speak {
		l.TextType = "tts"
		l.Text = m.group("text")
		l.HasText = true
	}
	return l, true
}

func parsePopup(line string) (Line, bool) {
	m := find(popupPattern, line)
	if m == nil {
		return Line{}, false
	}
	l := Line{
		Kind:     Popup,
		TextType: m.group("type"),
		ID:       m.group("id"),
		Before:   m.number("before"),
	}
	if m.has("text") {
		l.Text = m.group("text")
		l.HasText = true
	}
	return l, true
}

func parseLabel(line string) (Line, bool) {
	m := find(labelPattern, line)
	if m == nil {
		return Line{}, false
	}
	t := m.number("time")
	if math.IsInf(t, 0) {
		return Line{}, false
	}
	return Line{
		Kind:  Label,
		Time:  t,
		Label: m.group("label"),
	}, true
}

func parseTimed(line string) (Line, bool) {
	m := find(timedPattern, line)
	if m == nil {
		return Line{}, false
	}
	t := m.number("time")
	if math.IsInf(t, 0) {
		return Line{}, false
	}
	nameStart, nameEnd, _ := m.span("name")
	l := Line{
		Kind:      Timed,
		Time:      t,
		Name:      m.group("name"),
		NameStart: nameStart,
		NameEnd:   nameEnd,
		RestStart: len(line),
	}
	for _, group := range []string{"rest", "comment"} {
		if start, end, ok := m.span(group); ok {
			l.Rest = line[start:end]
			l.RestStart = start
		}
	}
	return l, true
}

// submatch wraps the group indices of a successful match.
type submatch struct {
	re  *regexp.Regexp
	s   string
	idx []int
}

func find(re *regexp.Regexp, s string) *submatch {
	idx := re.FindStringSubmatchIndex(s)
	if idx == nil {
		return nil
	}
	return &submatch{re: re, s: s, idx: idx}
}

// span returns the byte range of a named group. ok is false when the group
// did not participate in the match. A name the pattern does not define is
// an internal fault.
func (m *submatch) span(name string) (start, end int, ok bool) {
	i := m.re.SubexpIndex(name)
	invariant.Check(i >= 0, "pattern %q has no group %q", m.re.String(), name)
	start, end = m.idx[2*i], m.idx[2*i+1]
	return start, end, start >= 0
}

func (m *submatch) has(name string) bool {
	_, _, ok := m.span(name)
	return ok
}

func (m *submatch) group(name string) string {
	start, end, ok := m.span(name)
	if !ok {
		return ""
	}
	return m.s[start:end]
}

// number parses a numeric group. The patterns only admit valid numbers, so a
// syntax failure is an internal fault. Out of range values saturate.
func (m *submatch) number(name string) float64 {
	v, err := strconv.ParseFloat(m.group(name), 64)
	if errors.Is(err, strconv.ErrRange) {
		return v
	}
	invariant.NoError(err, "group "+name)
	return v
}

// cut removes the "text" group from the match subject.
func (m *submatch) cut() string {
	start, end, ok := m.span("text")
	invariant.Check(ok, "pattern %q matched without text", m.re.String())
	return m.s[:start] + m.s[end:]
}
