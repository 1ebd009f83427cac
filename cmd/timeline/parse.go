package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/raidtimeline/timeline-go/pkg/timeline"
)

var (
	// parse flags
	format     string
	bundlePath string
	language   string
	strict     bool
)

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Compile a timeline file and print its model",
	Long: `Compile a timeline file and print its events, callouts and errors.

Output is JSON Lines by default: one object per event, text or error, each
tagged with a "kind" field. Problems in the file are reported as error
records and never stop compilation.

Examples:
  # Print the compiled model
  timeline parse raid.txt

  # Human-readable output in German, using a bundle for replacements
  timeline parse raid.txt --lang de --bundle raid.yaml --format pretty

  # Fail when the file has problems
  timeline parse raid.txt --strict

  # Pipe to jq for filtering
  timeline parse raid.txt | jq 'select(.kind == "event") | .event.text'`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVarP(&format, "format", "f", "jsonl",
		"Output format: jsonl, json, pretty")
	parseCmd.Flags().StringVarP(&bundlePath, "bundle", "b", "",
		"Bundle with replacements, triggers and styles (YAML, JSON or TOML)")
	parseCmd.Flags().StringVarP(&language, "lang", "l", "",
		"Language to translate names and syncs to")
	parseCmd.Flags().BoolVar(&strict, "strict", false,
		"Exit with an error when the timeline has problems")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	if !validFormats[format] {
		return fmt.Errorf("unknown format: %s", format)
	}

	opts, err := buildOptions(pick(bundlePath, cfg.Bundle), pick(language, cfg.Language), logger)
	if err != nil {
		return err
	}
	tl, err := timeline.ParseFile(args[0], opts...)
	if err != nil {
		return err
	}
	logger.Debug("parsed timeline", slog.Int("events", len(tl.Events)), slog.Int("errors", len(tl.Errors)))

	if err := OutputTimeline(format, tl, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("output error: %w", err)
	}
	if strict && tl.HasErrors() {
		return fmt.Errorf("timeline has %d problem(s)", len(tl.Errors))
	}
	return nil
}
