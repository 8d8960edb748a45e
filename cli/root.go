// Package cli provides the command-line interface for EventLens.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"EventLens/app"
	"EventLens/internal/logger"
	"EventLens/internal/logrotate"
	"EventLens/parsers"
)

// Options holds the command-line options for an analysis run.
type Options struct {
	CSVPath   string
	HTMLPath  string
	JSONLPath string

	Levels []string
	IDs    []string
	Search string
	Limit  int

	NoOnlineLookup bool
	Timeout        time.Duration
	CachePath      string
	RulesPath      string

	Verbose bool
	Silent  bool

	LogFile       string
	LogMaxSize    int
	LogMaxAge     int
	LogMaxBackups int
}

// Execute runs the root command and returns the process exit code:
// 0 on success, 1 on a fatal parse or read error, 2 on usage errors.
func Execute() int {
	return ExecuteContext(context.Background())
}

// ExecuteContext is Execute with a caller-provided context, typically one
// cancelled on SIGINT/SIGTERM.
func ExecuteContext(ctx context.Context) int {
	rootCmd := NewRootCommand()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, parsers.ErrParse) || errors.Is(err, app.ErrInvalidInput) {
			return 1
		}
		return 2
	}
	return 0
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:   "eventlens <file>",
		Short: "Analyze Windows Event Viewer exports",
		Long: `EventLens normalizes Windows Event Viewer exports into a filterable report.

It reassembles the multi-line CSV dialect Event Viewer saves, recovers
account names, security identifiers, and process names from message text,
and explains event IDs from a local cache or the online encyclopedia.

Native .evtx files are accepted as well.

Exit codes:
  0 - Report generated
  1 - Input file unreadable or unparseable
  2 - Usage error`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.CSVPath, "csv", "", "Export filtered results to a CSV file")
	cmd.Flags().StringVar(&opts.HTMLPath, "html", "", "Generate an interactive HTML report")
	cmd.Flags().StringVar(&opts.JSONLPath, "jsonl", "", "Export filtered results as JSON Lines")

	cmd.Flags().StringSliceVar(&opts.Levels, "level", nil, "Filter by event level(s)")
	cmd.Flags().StringSliceVar(&opts.IDs, "id", nil, "Filter by one or more event IDs")
	cmd.Flags().StringVar(&opts.Search, "search", "", "Keyword to search for within the event message")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Maximum number of events to report (0 = unlimited)")

	cmd.Flags().BoolVar(&opts.NoOnlineLookup, "no-online-lookup", false, "Disable the online lookup for event IDs")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 10*time.Second, "Per-request timeout for online lookups")
	cmd.Flags().StringVar(&opts.CachePath, "cache", "", "Path to the persistent explanation cache database")
	cmd.Flags().StringVar(&opts.RulesPath, "rules", "", "YAML file with extra extraction rules and level aliases")

	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.Flags().BoolVar(&opts.Silent, "silent", false, "Disable all console output except errors")

	cmd.Flags().StringVar(&opts.LogFile, "log-file", "", "Path to diagnostic log file (if empty, logs to stderr)")
	cmd.Flags().IntVar(&opts.LogMaxSize, "log-max-size", logrotate.DefaultConfig.MaxSize, "Maximum size of log file in megabytes before rotation")
	cmd.Flags().IntVar(&opts.LogMaxAge, "log-max-age", logrotate.DefaultConfig.MaxAge, "Maximum age of log file in days before rotation")
	cmd.Flags().IntVar(&opts.LogMaxBackups, "log-max-backups", logrotate.DefaultConfig.MaxBackups, "Maximum number of old log files to retain")

	return cmd
}

func run(cmd *cobra.Command, inputPath string, opts *Options) error {
	initLogger(opts)

	config := app.NewDefaultConfig()
	config.InputPath = inputPath
	config.CSVPath = opts.CSVPath
	config.HTMLPath = opts.HTMLPath
	config.JSONLPath = opts.JSONLPath
	config.Levels = opts.Levels
	config.IDs = opts.IDs
	config.Search = opts.Search
	config.Limit = opts.Limit
	config.OnlineLookup = !opts.NoOnlineLookup
	config.LookupTimeout = opts.Timeout
	config.CachePath = opts.CachePath
	config.RulesPath = opts.RulesPath
	config.Verbose = opts.Verbose
	config.Silent = opts.Silent

	application := app.New(config)
	if err := application.Initialize(); err != nil {
		return err
	}
	defer func() {
		if err := application.Cleanup(); err != nil {
			logger.Error("Cleanup failed: %v", err)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	_, err := application.Run(ctx)
	return err
}

// initLogger switches diagnostics to a rotating log file when one is
// configured.
func initLogger(opts *Options) {
	logger.Init(opts.Verbose, opts.Silent)

	if opts.LogFile == "" {
		return
	}

	rotateConfig := logrotate.Config{
		MaxSize:    opts.LogMaxSize,
		MaxAge:     opts.LogMaxAge,
		MaxBackups: opts.LogMaxBackups,
		Compress:   logrotate.DefaultConfig.Compress,
		LocalTime:  logrotate.DefaultConfig.LocalTime,
	}

	logWriter := logrotate.NewWriter(opts.LogFile, rotateConfig)
	logger.SetOutput(logrotate.MultiWriter(logWriter, os.Stderr))
}
