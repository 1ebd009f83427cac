package main

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/raidtimeline/timeline-go/pkg/timeline"
	"github.com/raidtimeline/timeline-go/pkg/timeline/bundle"
	"github.com/raidtimeline/timeline-go/pkg/timeline/locale"
)

// buildOptions builds parser options from a bundle path and a language.
// An empty bundle path parses without replacements, triggers or styles.
func buildOptions(bundlePath, lang string, logger *slog.Logger) ([]timeline.Option, error) {
	opts := []timeline.Option{
		timeline.WithLanguage(lang),
		timeline.WithLogger(logger),
	}
	if bundlePath == "" {
		if lang != "" && lang != locale.SourceLanguage {
			logger.Warn("no bundle given, names stay untranslated", slog.String("language", lang))
		}
		return opts, nil
	}

	b, err := bundle.Load(bundlePath)
	if err != nil {
		// Errors from the bundle package carry no path.
		return nil, fmt.Errorf("bundle: %w", err)
	}
	bopts, err := b.Options()
	if err != nil {
		return nil, fmt.Errorf("bundle: %w", err)
	}
	if lang != "" && lang != locale.SourceLanguage && !slices.Contains(b.Locales.Languages(), lang) {
		logger.Warn("bundle has no replacements for language", slog.String("language", lang))
	}
	logger.Debug("loaded bundle",
		slog.Int("locales", len(b.Locales)),
		slog.Int("triggers", len(b.Triggers)),
		slog.Int("styles", len(b.Styles)),
	)
	return append(opts, bopts...), nil
}

// pick returns flag when set, otherwise the configured default.
func pick(flag, def string) string {
	if flag != "" {
		return flag
	}
	return def
}
