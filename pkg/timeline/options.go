package timeline

import (
	"io"
	"log/slog"
	"maps"
	"slices"

	"github.com/raidtimeline/timeline-go/pkg/timeline/locale"
)

// Option configures a Parser using the functional options pattern.
type Option func(*config)

// config holds internal configuration for the parser.
type config struct {
	language       string
	replacements   locale.Table
	triggers       []Trigger
	triggerOptions map[string]TriggerOption
	styles         []Style
	logger         *slog.Logger
}

func defaultConfig() *config {
	return &config{
		language: locale.SourceLanguage,
		logger:   discardLogger,
	}
}

// applyOptions applies functional options to a config.
func applyOptions(opts []Option) *config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// WithLanguage sets the language event names and syncs are translated to.
// Default: the source language, which applies no replacements.
func WithLanguage(lang string) Option {
	return func(c *config) {
		c.language = lang
	}
}

// WithReplacements sets the locale replacement table. Tables from repeated
// calls are merged, later entries winning.
func WithReplacements(table locale.Table) Option {
	return func(c *config) {
		c.replacements = locale.Merge(c.replacements, table)
	}
}

// WithTriggers adds trigger definitions matched against event names.
func WithTriggers(triggers ...Trigger) Option {
	return func(c *config) {
		c.triggers = append(c.triggers, triggers...)
	}
}

// WithTriggerOptions sets per-trigger overrides keyed by trigger ID.
func WithTriggerOptions(opts map[string]TriggerOption) Option {
	return func(c *config) {
		if c.triggerOptions == nil {
			c.triggerOptions = make(map[string]TriggerOption, len(opts))
		}
		maps.Copy(c.triggerOptions, opts)
	}
}

// WithStyles adds event styles. When several styles match an event, the
// last one wins.
func WithStyles(styles ...Style) Option {
	return func(c *config) {
		c.styles = append(c.styles, styles...)
	}
}

// WithLogger sets the logger for warnings and debug output.
// If nil, logging is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger == nil {
			logger = discardLogger
		}
		c.logger = logger
	}
}

// discardLogger returns a logger that discards all output.
var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// clone copies the slices and maps of c so a Parser is unaffected by later
// changes to the caller's values.
func (c *config) clone() *config {
	out := *c
	out.triggers = slices.Clone(c.triggers)
	out.styles = slices.Clone(c.styles)
	out.triggerOptions = maps.Clone(c.triggerOptions)
	return &out
}
