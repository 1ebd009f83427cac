package timeline

import (
	"regexp"
	"strconv"

	"github.com/raidtimeline/timeline-go/pkg/timeline/netregex"
)

// SyncType records how a Sync's regex was written.
type SyncType string

// Sync types.
const (
	// SyncParsed is a `sync /pattern/` command.
	SyncParsed SyncType = "parsed"

	// SyncStructured is a `Type {params}` command.
	SyncStructured SyncType = "structured"
)

// JumpType distinguishes conditional from unconditional jumps.
type JumpType string

// Jump types.
const (
	JumpNormal JumpType = "normal"
	JumpForce  JumpType = "force"
)

// TextType identifies the kind of a Text.
type TextType string

// Text types.
const (
	TextInfo    TextType = "info"
	TextAlert   TextType = "alert"
	TextAlarm   TextType = "alarm"
	TextTTS     TextType = "tts"
	TextTrigger TextType = "trigger"
)

// Event is one scheduled occurrence produced by a timed line.
type Event struct {
	// ID is assigned in file order.
	ID int `json:"id"`

	// Time is the offset in seconds from the start of the timeline.
	Time float64 `json:"time"`

	// Name is the event name as written in the source.
	Name string `json:"name"`

	// Text is Name after locale replacement.
	Text string `json:"text"`

	// Duration is set when the line carries a duration command.
	Duration *float64 `json:"duration,omitempty"`

	// ActiveTime is reserved for the runtime and is always zero here.
	ActiveTime float64 `json:"activeTime"`

	LineNumber int `json:"lineNumber,omitempty"`

	// SortKey is the index of the event in Timeline.Events.
	SortKey int `json:"sortKey"`

	Style map[string]string `json:"style,omitempty"`

	Sync *Sync `json:"sync,omitempty"`
}

// Sync is a regex with an activation window, used to re-align playback with
// a live log line.
//
// Start <= Time <= End always holds.
type Sync struct {
	ID int `json:"id"`

	// OrigInput is the pattern between the slashes of a parsed sync or the
	// `{...}` params of a structured sync, before translation.
	OrigInput string `json:"origInput"`

	RegexType SyncType `json:"regexType"`

	// NetRegex and Params are set for structured syncs. Params hold the
	// translated values.
	NetRegex netregex.Type    `json:"-"`
	Params   *netregex.Params `json:"-"`

	Regex *regexp.Regexp `json:"-"`

	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Time  float64 `json:"time"`

	LineNumber int `json:"lineNumber"`

	// Event is the event owning this sync.
	Event *Event `json:"-"`

	// Jump is the target time. It stays nil when the sync does not jump or
	// when its label could not be resolved.
	Jump     *float64 `json:"jump,omitempty"`
	JumpType JumpType `json:"jumpType,omitempty"`
}

// Text is a callout scheduled ahead of an event.
type Text struct {
	Type TextType `json:"type"`
	Time float64  `json:"time"`

	// Text is the display text of info, alert, alarm and tts texts.
	Text string `json:"text,omitempty"`

	// Matches and Trigger are set for trigger texts. Matches holds the
	// trigger regex submatches against the event name.
	Matches []string `json:"matches,omitempty"`
	Trigger *Trigger `json:"trigger,omitempty"`
}

// Error is a problem found in the timeline source. Errors are collected,
// never raised, and parsing continues with the next line.
type Error struct {
	// LineNumber is 1-based, or 0 when the error is not tied to a line.
	LineNumber int `json:"lineNumber,omitempty"`

	// Line is the offending source line.
	Line string `json:"line,omitempty"`

	Message string `json:"error"`

	// Err is the sentinel classifying the error.
	Err error `json:"-"`
}

// Error implements the error interface.
func (e Error) Error() string {
	if e.LineNumber > 0 {
		return "line " + strconv.Itoa(e.LineNumber) + ": " + e.Message
	}
	return e.Message
}

// Unwrap returns the classifying sentinel.
func (e Error) Unwrap() error {
	return e.Err
}

// Trigger is an externally defined callout matched against event names.
type Trigger struct {
	ID string `json:"id"`

	// Regex is matched against Event.Name. Triggers without a regex are
	// skipped.
	Regex *regexp.Regexp `json:"-"`

	// BeforeSeconds is the lead time of the emitted Text.
	BeforeSeconds float64 `json:"beforeSeconds,omitempty"`
}

// TriggerOption overrides trigger settings by trigger ID.
type TriggerOption struct {
	BeforeSeconds *float64 `json:"beforeSeconds,omitempty" yaml:"before_seconds,omitempty" toml:"before_seconds,omitempty"`
}

// Style assigns display attributes to events whose name matches Regex.
type Style struct {
	Regex *regexp.Regexp
	Style map[string]string
}

// Timeline is the parsed, read-only model.
type Timeline struct {
	// Language the names and syncs were translated to.
	Language string `json:"language,omitempty"`

	// Events sorted by time, then file order.
	Events []*Event `json:"events"`

	// Texts sorted by time.
	Texts []*Text `json:"texts"`

	// SyncStarts and SyncEnds hold every Sync, sorted by Start and by End.
	SyncStarts []*Sync `json:"syncStarts"`
	SyncEnds   []*Sync `json:"syncEnds"`

	// ForceJumps holds the syncs with JumpType force, sorted by time.
	ForceJumps []*Sync `json:"forceJumps"`

	Errors []Error `json:"errors"`

	// Ignores is the set of event names hidden by hideall.
	Ignores map[string]bool `json:"ignores,omitempty"`

	edits map[int]lineEdit
}

// HasErrors reports whether any data error was collected.
func (t *Timeline) HasErrors() bool {
	return len(t.Errors) > 0
}

// Ignored reports whether events named name are hidden.
func (t *Timeline) Ignored(name string) bool {
	return t.Ignores[name]
}
