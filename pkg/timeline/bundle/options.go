package bundle

import (
	"regexp"

	"github.com/raidtimeline/timeline-go/pkg/timeline"
)

// Options compiles the bundle into parser options. It fails with an
// *EntryError on the first trigger or style whose regex does not compile.
//
// The language is not part of a bundle; pass timeline.WithLanguage
// alongside the returned options.
func (b *Bundle) Options() ([]timeline.Option, error) {
	var opts []timeline.Option

	if len(b.Locales) > 0 {
		opts = append(opts, timeline.WithReplacements(b.Locales))
	}

	if len(b.Triggers) > 0 {
		triggers := make([]timeline.Trigger, 0, len(b.Triggers))
		for i, t := range b.Triggers {
			re, err := regexp.Compile(t.Regex)
			if err != nil {
				return nil, &EntryError{
					Section: "triggers",
					Index:   i,
					ID:      t.ID,
					Field:   "regex",
					Message: "invalid regex",
					Cause:   err,
				}
			}
			triggers = append(triggers, timeline.Trigger{ID: t.ID, Regex: re, BeforeSeconds: t.BeforeSeconds})
		}
		opts = append(opts, timeline.WithTriggers(triggers...))
	}

	if len(b.TriggerOptions) > 0 {
		overrides := make(map[string]timeline.TriggerOption, len(b.TriggerOptions))
		for id, o := range b.TriggerOptions {
			overrides[id] = timeline.TriggerOption{BeforeSeconds: o.BeforeSeconds}
		}
		opts = append(opts, timeline.WithTriggerOptions(overrides))
	}

	if len(b.Styles) > 0 {
		styles := make([]timeline.Style, 0, len(b.Styles))
		for i, s := range b.Styles {
			re, err := regexp.Compile(s.Regex)
			if err != nil {
				return nil, &EntryError{
					Section: "styles",
					Index:   i,
					Field:   "regex",
					Message: "invalid regex",
					Cause:   err,
				}
			}
			styles = append(styles, timeline.Style{Regex: re, Style: s.Style})
		}
		opts = append(opts, timeline.WithStyles(styles...))
	}

	return opts, nil
}
