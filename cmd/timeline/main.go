// Command timeline compiles, checks and translates raid timeline files.
package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/raidtimeline/timeline-go/internal/applog"
	"github.com/raidtimeline/timeline-go/internal/settings"
)

var (
	// global flags
	configPath string
	logLevel   string
	logFormat  string
	logFile    string
	verbose    bool

	// resolved in PersistentPreRunE
	cfg      = settings.Default()
	logger   = slog.New(slog.NewTextHandler(io.Discard, nil))
	closeLog = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Compile and check raid timeline files",
	Long: `timeline compiles raid timeline files into their event, sync and
callout model, reports syntax problems and produces localized copies.

Defaults are read from an optional settings file (--config), a .env file
in the working directory and TIMELINE_* environment variables. Flags win
over all of them.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Settings file (YAML)")
	pf.StringVar(&logLevel, "log-level", "", "Diagnostic log level: debug, info, warn, error")
	pf.StringVar(&logFormat, "log-format", "", "Diagnostic log format: text, json")
	pf.StringVar(&logFile, "log-file", "", "Also write diagnostics to a rotated JSON log file")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Shorthand for --log-level debug")
}

// setup resolves settings and builds the diagnostic logger.
func setup(cmd *cobra.Command, args []string) error {
	s, err := settings.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		s.Log.Level = logLevel
	}
	if verbose {
		s.Log.Level = "debug"
	}
	if logFormat != "" {
		s.Log.Format = logFormat
	}
	if logFile != "" {
		s.Log.File = logFile
	}
	cfg = s

	logger, closeLog = applog.New(applog.Options{
		Level:     s.Log.Level,
		Format:    s.Log.Format,
		AddSource: s.Log.Source,
		File:      s.Log.File,
	}, cmd.ErrOrStderr())
	logger = logger.With(slog.String("cmd", cmd.Name()))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
