package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kevinaud/repo-map/internal/config"
	"github.com/kevinaud/repo-map/internal/errors"
	"github.com/kevinaud/repo-map/internal/slogutil"
	"github.com/kevinaud/repo-map/internal/version"
)

var (
	logLevelFlag  string
	logFormatFlag string
	quietFlag     bool
)

var rootCmd = &cobra.Command{
	Use:   "repomap",
	Short: "repomap - token-budgeted repository maps",
	Long: `repomap renders a multi-resolution map of a repository for LLM
consumption. Files are ranked by reference-graph centrality and each is
shown at a verbosity level chosen to fit a token budget, from a bare
path marker up to full source.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("repomap version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Log level: debug, info, warn, or error (default from config)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "",
		"Log format: text or json (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false,
		"Suppress all log output")
}

// newLogger builds the stderr logger from flags and config defaults.
// Output stays on stdout so logs never corrupt a piped map.
func newLogger(cfgFormat, cfgLevel string) *slog.Logger {
	if quietFlag {
		return slogutil.NewDiscardLogger()
	}
	format := cfgFormat
	if logFormatFlag != "" {
		format = logFormatFlag
	}
	level := cfgLevel
	if logLevelFlag != "" {
		level = logLevelFlag
	}
	return slogutil.New(os.Stderr, format, slogutil.LevelFromString(level))
}

// exitCode maps engine errors onto process exit codes: 2 for plan and
// config problems, 3 for strict budget rejections, 1 otherwise.
func exitCode(err error) int {
	var planErr *errors.ConfigError
	if errors.As(err, &planErr) {
		return 2
	}
	var cfgErr *config.ConfigError
	if errors.As(err, &cfgErr) {
		return 2
	}
	var engErr *errors.EngineError
	if errors.As(err, &engErr) {
		switch engErr.Code {
		case errors.ConfigInvalid:
			return 2
		case errors.BudgetExceeded:
			return 3
		}
	}
	return 1
}
