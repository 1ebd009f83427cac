package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/raidtimeline/timeline-go/internal/finder"
	"github.com/raidtimeline/timeline-go/pkg/timeline"
)

// errProblems signals that lint found problems. The details were already
// printed.
var errProblems = errors.New("problems found")

var lintCmd = &cobra.Command{
	Use:   "lint [PATH...]",
	Short: "Check timeline files for problems",
	Long: `Check timeline files for problems and print them as file:line: message.

Directories are searched recursively for .txt files. Without arguments the
configured timeline directory (TIMELINE_DIR) is checked.

Examples:
  # Check every timeline below a directory
  timeline lint data/timelines

  # Check with the triggers of a bundle, so unmatched triggers are reported
  timeline lint raid.txt --bundle raid.yaml`,
	RunE: runLint,
}

func init() {
	lintCmd.Flags().StringVarP(&bundlePath, "bundle", "b", "",
		"Bundle with replacements, triggers and styles (YAML, JSON or TOML)")
	lintCmd.Flags().StringVarP(&language, "lang", "l", "",
		"Language to check translations for")
	rootCmd.AddCommand(lintCmd)
}

func runLint(cmd *cobra.Command, args []string) error {
	paths := args
	if len(paths) == 0 {
		if cfg.TimelineDir == "" {
			return errors.New("no paths given and no timeline directory configured")
		}
		paths = []string{cfg.TimelineDir}
	}
	files, err := finder.FindTimelines(paths)
	if err != nil {
		return err
	}

	opts, err := buildOptions(pick(bundlePath, cfg.Bundle), pick(language, cfg.Language), logger)
	if err != nil {
		return err
	}
	p, err := timeline.NewParser(opts...)
	if err != nil {
		return err
	}

	n, err := lintFiles(p, files, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	logger.Info("lint finished", slog.Int("files", len(files)), slog.Int("problems", n))
	if n > 0 {
		return fmt.Errorf("%w: %d in %d file(s)", errProblems, n, len(files))
	}
	return nil
}

// lintFiles parses each file and prints its problems. Unreadable files
// count as one problem each. It returns the number of problems.
func lintFiles(p *timeline.Parser, files []string, out io.Writer) (int, error) {
	problems := 0
	for _, file := range files {
		tl, err := p.ParseFile(file)
		if err != nil {
			var internal *timeline.InternalError
			if errors.As(err, &internal) {
				return problems, fmt.Errorf("%s: %w", file, err)
			}
			problems++
			if _, err := fmt.Fprintf(out, "%s: %v\n", file, err); err != nil {
				return problems, err
			}
			continue
		}
		for _, e := range tl.Errors {
			problems++
			if err := printProblem(out, file, e); err != nil {
				return problems, err
			}
		}
	}
	return problems, nil
}

func printProblem(out io.Writer, file string, e timeline.Error) error {
	if e.LineNumber > 0 {
		_, err := fmt.Fprintf(out, "%s:%d: %s\n", file, e.LineNumber, e.Message)
		return err
	}
	_, err := fmt.Fprintf(out, "%s: %s\n", file, e.Message)
	return err
}
