package timeline

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/raidtimeline/timeline-go/internal/invariant"
	"github.com/raidtimeline/timeline-go/internal/parser"
	"github.com/raidtimeline/timeline-go/pkg/timeline/locale"
	"github.com/raidtimeline/timeline-go/pkg/timeline/netregex"
)

// defaultWindow is the half-width of a sync window without a window command.
const defaultWindow = 2.5

// Parser compiles timeline sources.
// A Parser is immutable and safe for concurrent use.
type Parser struct {
	cfg *config
	tr  *locale.Translator
}

// NewParser returns a Parser configured by opts. It fails when the
// replacement table for the selected language contains an invalid regex.
func NewParser(opts ...Option) (*Parser, error) {
	cfg := applyOptions(opts).clone()
	tr, err := locale.NewTranslator(cfg.replacements, cfg.language)
	if err != nil {
		return nil, fmt.Errorf("timeline: %w", err)
	}
	return &Parser{cfg: cfg, tr: tr}, nil
}

// Parse compiles text with a one-off Parser.
//
// Malformed content never fails the call: problems are collected in
// Timeline.Errors and parsing moves on to the next line. A non-nil error is
// either an option error or an *InternalError.
//
// Example:
//
//	tl, err := timeline.Parse(src, timeline.WithLanguage("de"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, e := range tl.Errors {
//	    log.Printf("line %d: %s", e.LineNumber, e.Message)
//	}
func Parse(text string, opts ...Option) (*Timeline, error) {
	p, err := NewParser(opts...)
	if err != nil {
		return nil, err
	}
	return p.Parse(text)
}

// Parse compiles text into a Timeline.
func (p *Parser) Parse(text string) (tl *Timeline, err error) {
	b := newBuilder(p)
	defer func() {
		if r := recover(); r != nil {
			tl, err = nil, internalError(r, b.lineNumber)
		}
	}()

	b.scan(text)
	b.lineNumber = 0
	b.resolveLabels()
	b.matchTexts()
	b.matchTriggers()
	b.applyStyles()
	tl = b.assemble()

	p.cfg.logger.Debug("timeline parsed",
		slog.String("language", tl.Language),
		slog.Int("events", len(tl.Events)),
		slog.Int("syncs", len(tl.SyncStarts)),
		slog.Int("texts", len(tl.Texts)),
		slog.Int("errors", len(tl.Errors)),
	)
	return tl, nil
}

// internalError converts a recovered invariant violation. Any other panic
// value is re-raised.
func internalError(r any, lineNumber int) error {
	v, ok := r.(*invariant.Violation)
	if !ok {
		panic(r)
	}
	return &InternalError{LineNumber: lineNumber, Message: v.Message, Cause: v}
}

type labelDef struct {
	time float64
	line int
}

// builder holds the state of one forward scan and the passes after it.
type builder struct {
	cfg *config
	tr  *locale.Translator

	lineNumber int
	lines      map[int]string

	events     []*Event
	syncs      []*Sync
	forceJumps []*Sync
	texts      []*Text
	errors     []Error
	ignores    map[string]bool
	popups     []parser.Line

	labels        map[string]labelDef
	deferred      map[string][]*Sync
	deferredOrder []string

	edits map[int]lineEdit
}

func newBuilder(p *Parser) *builder {
	return &builder{
		cfg:      p.cfg,
		tr:       p.tr,
		lines:    make(map[int]string),
		events:   []*Event{},
		syncs:    []*Sync{},
		texts:    []*Text{},
		errors:   []Error{},
		ignores:  make(map[string]bool),
		labels:   make(map[string]labelDef),
		deferred: make(map[string][]*Sync),
		edits:    make(map[int]lineEdit),
	}
}

func (b *builder) scan(text string) {
	for i, raw := range strings.Split(text, "\n") {
		b.lineNumber = i + 1
		raw = strings.TrimRight(raw, "\r")
		line := strings.TrimSpace(raw)
		if parser.IsComment(line) {
			continue
		}
		b.lines[b.lineNumber] = line

		l, err := parser.Classify(line)
		if err != nil {
			b.addError(b.lineNumber, "Invalid format", err)
			continue
		}

		switch l.Kind {
		case parser.Ignore:
			b.ignores[l.ID] = true
		case parser.TTS, parser.Popup:
			if l.Emits() {
				b.popups = append(b.popups, l)
			}
		case parser.Label:
			b.addLabel(l)
		case parser.Timed:
			offset := len(raw) - len(strings.TrimLeftFunc(raw, unicode.IsSpace))
			b.addEvent(l, offset)
		}
	}
}

func (b *builder) addError(lineNumber int, message string, err error) {
	b.errors = append(b.errors, Error{
		LineNumber: lineNumber,
		Line:       b.lines[lineNumber],
		Message:    message,
		Err:        err,
	})
}

func (b *builder) addLabel(l parser.Line) {
	if prev, ok := b.labels[l.Label]; ok {
		b.addError(b.lineNumber,
			fmt.Sprintf("Duplicate label %q at %s, first defined at %s (line %d)",
				l.Label, seconds(l.Time), seconds(prev.time), prev.line),
			ErrDuplicateLabel)
		return
	}
	b.labels[l.Label] = labelDef{time: l.Time, line: b.lineNumber}
}

func (b *builder) addEvent(l parser.Line, offset int) {
	cmds, err := parser.ParseCommands(l.Rest)
	if err != nil {
		var extra *parser.ExtraTextError
		if errors.As(err, &extra) {
			b.addError(b.lineNumber, "Extra text: "+extra.Text, err)
		} else {
			b.addError(b.lineNumber, "Extra text", err)
		}
		return
	}

	text, translated := b.tr.Text(l.Name)
	ev := &Event{
		Time:       l.Time,
		Name:       l.Name,
		Text:       text,
		LineNumber: b.lineNumber,
	}
	if cmds.HasDuration {
		d := cmds.Duration
		ev.Duration = &d
	}

	edit := lineEdit{
		nameStart:   offset + l.NameStart,
		nameEnd:     offset + l.NameEnd,
		name:        l.Name,
		text:        text,
		missingText: b.tr.Active() && !translated,
	}

	if cmds.Sync != parser.NoSync {
		s, ok := b.newSync(ev, cmds, &edit)
		if !ok {
			return
		}
		ev.Sync = s
		b.addSync(s, cmds.Jump)
	}

	ev.ID = len(b.events)
	b.events = append(b.events, ev)
	b.edits[b.lineNumber] = edit
}

// newSync compiles the sync command of a timed line. It records an error and
// returns false when the command is invalid, in which case the whole line is
// dropped.
func (b *builder) newSync(ev *Event, cmds parser.Commands, edit *lineEdit) (*Sync, bool) {
	s := &Sync{
		Time:       ev.Time,
		Start:      ev.Time - defaultWindow,
		End:        ev.Time + defaultWindow,
		LineNumber: b.lineNumber,
		Event:      ev,
	}

	switch cmds.Sync {
	case parser.RegexSync:
		pattern, matched := b.tr.Sync(cmds.Pattern)
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			b.addError(b.lineNumber, "Invalid sync regex: "+err.Error(),
				fmt.Errorf("%w: %w", ErrInvalidSyncRegex, err))
			return nil, false
		}
		s.OrigInput = cmds.Pattern
		s.RegexType = SyncParsed
		s.Regex = re
		edit.syncOrig = "/" + cmds.Pattern + "/"
		edit.syncText = "/" + pattern + "/"
		edit.missingSync = b.tr.Active() && !matched && locale.NeedsTranslation(cmds.Pattern)

	case parser.StructuredSync:
		typ, ok := netregex.ParseType(cmds.NetRegexType)
		if !ok {
			b.addError(b.lineNumber, "Invalid NetRegex type: "+cmds.NetRegexType,
				fmt.Errorf("%w: %s", ErrInvalidNetRegexType, cmds.NetRegexType))
			return nil, false
		}
		params, err := netregex.ParseParams(typ, cmds.NetRegexParams)
		if err != nil {
			b.addError(b.lineNumber, "Invalid NetRegex arguments: "+err.Error(),
				fmt.Errorf("%w: %w", ErrInvalidNetRegexArgs, err))
			return nil, false
		}
		translated, replaced, missing := b.translateParams(params)
		re, err := netregex.Build(typ, translated, false)
		if err != nil {
			b.addError(b.lineNumber, "Invalid NetRegex arguments: "+err.Error(),
				fmt.Errorf("%w: %w", ErrInvalidNetRegexArgs, err))
			return nil, false
		}
		s.OrigInput = cmds.NetRegexParams
		s.RegexType = SyncStructured
		s.NetRegex = typ
		s.Params = &translated
		s.Regex = re
		edit.syncOrig = cmds.NetRegexParams
		edit.syncText = rewriteParams(cmds.NetRegexParams, replaced)
		edit.missingSync = b.tr.Active() && missing
	}

	if w := cmds.Window; w != nil {
		if w.Symmetric {
			s.Start = ev.Time - w.End/2
			s.End = ev.Time + w.End/2
		} else {
			s.Start = ev.Time - w.Start
			s.End = ev.Time + w.End
		}
	}
	invariant.Check(s.Start <= s.Time && s.Time <= s.End,
		"sync window [%v, %v] excludes time %v", s.Start, s.End, s.Time)
	return s, true
}

// translateParams applies sync replacements to the translatable fields of
// params. It returns the translated params, the (original, translated)
// value pairs that changed and whether any language-specific value was left
// untranslated.
func (b *builder) translateParams(params netregex.Params) (netregex.Params, [][2]string, bool) {
	var replaced [][2]string
	missing := false
	out := params.Map(func(field, value string) string {
		if !netregex.IsTranslatable(field) {
			return value
		}
		v, matched := b.tr.Sync(value)
		if !matched && locale.NeedsTranslation(value) {
			missing = true
		}
		if v != value {
			replaced = append(replaced, [2]string{value, v})
		}
		return v
	})
	return out, replaced, missing
}

func (b *builder) addSync(s *Sync, j *parser.Jump) {
	s.ID = len(b.syncs)
	b.syncs = append(b.syncs, s)
	if j == nil {
		return
	}

	s.JumpType = JumpNormal
	if j.Force {
		s.JumpType = JumpForce
		b.forceJumps = append(b.forceJumps, s)
	}
	if j.ToLabel {
		if _, ok := b.deferred[j.Label]; !ok {
			b.deferredOrder = append(b.deferredOrder, j.Label)
		}
		b.deferred[j.Label] = append(b.deferred[j.Label], s)
		return
	}
	target := j.Seconds
	s.Jump = &target
}

func seconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
