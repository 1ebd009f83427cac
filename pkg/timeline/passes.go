package timeline

import (
	"cmp"
	"fmt"
	"log/slog"
	"maps"
	"slices"
)

// resolveLabels sets the jump target of every sync queued under a label.
// Syncs naming an undefined label keep a nil Jump.
func (b *builder) resolveLabels() {
	for _, name := range b.deferredOrder {
		def, ok := b.labels[name]
		for _, s := range b.deferred[name] {
			if !ok {
				b.addError(s.LineNumber,
					fmt.Sprintf("No label named %s found to jump to", name),
					fmt.Errorf("%w: %s", ErrUnknownLabel, name))
				continue
			}
			target := def.time
			s.Jump = &target
		}
	}
}

// matchTexts emits a Text for every event named by a popup or TTS directive.
func (b *builder) matchTexts() {
	for _, ev := range b.events {
		for _, p := range b.popups {
			if p.ID != ev.Name {
				continue
			}
			text := ev.Text
			if p.HasText {
				text, _ = b.tr.Text(p.Text)
			}
			b.texts = append(b.texts, &Text{
				Type: TextType(p.TextType),
				Time: ev.Time - p.Before,
				Text: text,
			})
		}
	}
}

// matchTriggers emits a trigger Text for every event whose name matches a
// trigger regex. A trigger matching nothing is reported once.
func (b *builder) matchTriggers() {
	for i := range b.cfg.triggers {
		trigger := &b.cfg.triggers[i]
		if trigger.Regex == nil {
			continue
		}

		before := trigger.BeforeSeconds
		if opt, ok := b.cfg.triggerOptions[trigger.ID]; ok && opt.BeforeSeconds != nil {
			before = *opt.BeforeSeconds
		}

		found := false
		for _, ev := range b.events {
			m := trigger.Regex.FindStringSubmatch(ev.Name)
			if m == nil {
				continue
			}
			found = true
			b.texts = append(b.texts, &Text{
				Type:    TextTrigger,
				Time:    ev.Time - before,
				Matches: m,
				Trigger: trigger,
			})
		}

		if !found {
			b.addError(0,
				fmt.Sprintf("No match for timeline trigger %s of %s", trigger.ID, trigger.Regex),
				fmt.Errorf("%w: %s", ErrTriggerNoMatch, trigger.ID))
			b.cfg.logger.Warn("timeline trigger matched no event",
				slog.String("trigger", trigger.ID),
				slog.String("regex", trigger.Regex.String()),
			)
		}
	}
}

// applyStyles sets Event.Style from the last style matching each event.
func (b *builder) applyStyles() {
	for _, ev := range b.events {
		for _, st := range b.cfg.styles {
			if st.Regex != nil && st.Regex.MatchString(ev.Name) {
				ev.Style = maps.Clone(st.Style)
			}
		}
	}
}

// assemble sorts the collected values into the public orderings. All sorts
// are stable so ties keep file order.
func (b *builder) assemble() *Timeline {
	events := b.events
	slices.SortStableFunc(events, func(x, y *Event) int {
		return cmp.Or(cmp.Compare(x.Time, y.Time), cmp.Compare(x.ID, y.ID))
	})
	for i, ev := range events {
		ev.SortKey = i
	}

	texts := b.texts
	slices.SortStableFunc(texts, func(x, y *Text) int {
		return cmp.Compare(x.Time, y.Time)
	})

	starts := slices.Clone(b.syncs)
	slices.SortStableFunc(starts, func(x, y *Sync) int {
		return cmp.Compare(x.Start, y.Start)
	})

	ends := slices.Clone(b.syncs)
	slices.SortStableFunc(ends, func(x, y *Sync) int {
		return cmp.Compare(x.End, y.End)
	})

	force := slices.Clone(b.forceJumps)
	if force == nil {
		force = []*Sync{}
	}
	slices.SortStableFunc(force, func(x, y *Sync) int {
		return cmp.Compare(x.Time, y.Time)
	})

	return &Timeline{
		Language:   b.tr.Language(),
		Events:     events,
		Texts:      texts,
		SyncStarts: starts,
		SyncEnds:   ends,
		ForceJumps: force,
		Errors:     b.errors,
		Ignores:    b.ignores,
		edits:      b.edits,
	}
}
