package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/raidtimeline/timeline-go/internal/safefile"
	"github.com/raidtimeline/timeline-go/pkg/timeline"
	"github.com/raidtimeline/timeline-go/pkg/timeline/locale"
)

var translateCmd = &cobra.Command{
	Use:   "translate FILE",
	Short: "Print a timeline file with names and syncs translated",
	Long: `Print a timeline file with event names and sync patterns replaced for
another language. Everything else, including comments and spacing, is kept
as written.

Names or syncs without a replacement are marked with ` + timeline.MissingTextMarker + ` and
` + timeline.MissingSyncMarker + ` so they are easy to find.

Examples:
  timeline translate raid.txt --lang de --bundle raid.yaml > raid.de.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

func init() {
	translateCmd.Flags().StringVarP(&bundlePath, "bundle", "b", "",
		"Bundle with replacements (YAML, JSON or TOML)")
	translateCmd.Flags().StringVarP(&language, "lang", "l", "",
		"Language to translate to")
	rootCmd.AddCommand(translateCmd)
}

func runTranslate(cmd *cobra.Command, args []string) error {
	lang := pick(language, cfg.Language)
	if lang == "" || lang == locale.SourceLanguage {
		return errors.New("translate needs a target language (--lang)")
	}

	data, err := safefile.ReadRegular(args[0], timeline.MaxFileSize)
	if err != nil && !errors.Is(err, safefile.ErrEmpty) {
		return fmt.Errorf("failed to read timeline file: %w", err)
	}

	opts, err := buildOptions(pick(bundlePath, cfg.Bundle), lang, logger)
	if err != nil {
		return err
	}
	return translate(string(data), opts, cmd.OutOrStdout())
}

func translate(text string, opts []timeline.Option, out io.Writer) error {
	tl, err := timeline.Parse(text, opts...)
	if err != nil {
		return err
	}
	for _, e := range tl.Errors {
		logger.Warn("timeline problem", slog.Int("line", e.LineNumber), slog.String("error", e.Message))
	}
	_, err = io.WriteString(out, timeline.Translate(tl, text))
	return err
}
