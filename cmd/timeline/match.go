package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/raidtimeline/timeline-go/internal/finder"
	"github.com/raidtimeline/timeline-go/internal/tailer"
	"github.com/raidtimeline/timeline-go/pkg/timeline"
)

var (
	// match flags
	logDir      string
	matchFormat string
	matchLimit  int
)

// match is a log line accepted by a sync.
type match struct {
	LogLine   int      `json:"logLine"`
	Line      string   `json:"line"`
	SyncID    int      `json:"syncId"`
	SyncLine  int      `json:"syncLineNumber"`
	Event     string   `json:"event"`
	Time      float64  `json:"time"`
	Start     float64  `json:"start"`
	End       float64  `json:"end"`
	Jump      *float64 `json:"jump,omitempty"`
	JumpForce bool     `json:"jumpForce,omitempty"`
}

var matchCmd = &cobra.Command{
	Use:   "match TIMELINE [LOGFILE]",
	Short: "Show which log lines a timeline's syncs match",
	Long: `Read a recorded network log and print every line matched by a sync of
the timeline. This helps when writing sync patterns; it does not play the
timeline back.

Without LOGFILE the newest Network_*.log in the log directory is used
(--log-dir, TIMELINE_LOGDIR, or the default ACT log location).

Examples:
  timeline match raid.txt Network_20240101.log

  # Stop after the first 20 matches, as JSON Lines
  timeline match raid.txt --limit 20 --format jsonl`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().StringVarP(&logDir, "log-dir", "d", "",
		"Network log directory (auto-detected if not specified)")
	matchCmd.Flags().StringVarP(&matchFormat, "format", "f", "pretty",
		"Output format: jsonl, pretty")
	matchCmd.Flags().StringVarP(&bundlePath, "bundle", "b", "",
		"Bundle with replacements (YAML, JSON or TOML)")
	matchCmd.Flags().StringVarP(&language, "lang", "l", "",
		"Language the log was recorded in")
	matchCmd.Flags().IntVar(&matchLimit, "limit", 0,
		"Stop after N matches (0 = no limit)")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	if matchFormat != "jsonl" && matchFormat != "pretty" {
		return fmt.Errorf("unknown format: %s", matchFormat)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts, err := buildOptions(pick(bundlePath, cfg.Bundle), pick(language, cfg.Language), logger)
	if err != nil {
		return err
	}
	tl, err := timeline.ParseFile(args[0], opts...)
	if err != nil {
		return err
	}
	if len(tl.SyncStarts) == 0 {
		logger.Warn("timeline has no syncs")
		return nil
	}

	logPath := ""
	if len(args) == 2 {
		logPath = args[1]
	} else {
		dir, err := finder.FindLogDir(pick(logDir, cfg.LogDir))
		if err != nil {
			return err
		}
		if logPath, err = finder.FindLatestLogFile(dir); err != nil {
			return err
		}
		logger.Info("using latest log file", slog.String("path", logPath))
	}

	return matchLog(ctx, tl, logPath, cmd.OutOrStdout())
}

// lineSource delivers log lines. Errors is closed after Lines.
type lineSource interface {
	Lines() <-chan string
	Errors() <-chan error
}

// matchLog reads logPath once and writes every sync match.
func matchLog(ctx context.Context, tl *timeline.Timeline, logPath string, out io.Writer) error {
	t, err := tailer.New(ctx, logPath, tailer.DefaultConfig())
	if err != nil {
		return err
	}
	defer t.Stop()
	return matchLines(ctx, tl, t, out)
}

func matchLines(ctx context.Context, tl *timeline.Timeline, src lineSource, out io.Writer) error {
	// Match syncs in file order, not by window.
	syncs := make([]*timeline.Sync, len(tl.SyncStarts))
	for _, s := range tl.SyncStarts {
		syncs[s.ID] = s
	}

	errs := src.Errors()
	lineNumber, found := 0, 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			return fmt.Errorf("read error: %w", err)
		case line, ok := <-src.Lines():
			if !ok {
				// A read error may still be buffered.
				if errs != nil {
					if err, ok := <-errs; ok {
						return fmt.Errorf("read error: %w", err)
					}
				}
				logger.Debug("log finished", slog.Int("lines", lineNumber), slog.Int("matches", found))
				return nil
			}
			lineNumber++
			for _, s := range syncs {
				if !s.Regex.MatchString(line) {
					continue
				}
				found++
				if err := outputMatch(newMatch(lineNumber, line, s), out); err != nil {
					return fmt.Errorf("output error: %w", err)
				}
				if matchLimit > 0 && found >= matchLimit {
					return nil
				}
			}
		}
	}
}

func newMatch(lineNumber int, line string, s *timeline.Sync) *match {
	m := &match{
		LogLine:   lineNumber,
		Line:      line,
		SyncID:    s.ID,
		SyncLine:  s.LineNumber,
		Time:      s.Time,
		Start:     s.Start,
		End:       s.End,
		Jump:      s.Jump,
		JumpForce: s.JumpType == timeline.JumpForce,
	}
	if s.Event != nil {
		m.Event = s.Event.Text
	}
	return m
}

func outputMatch(m *match, out io.Writer) error {
	if matchFormat == "jsonl" {
		data, err := json.Marshal(record{Kind: "match", Match: m})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}
	_, err := fmt.Fprintf(out, "%d: %s @ %s (timeline line %d)\n", m.LogLine, m.Event, seconds(m.Time), m.SyncLine)
	return err
}
