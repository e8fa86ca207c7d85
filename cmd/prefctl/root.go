package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/joshuapare/prefkit/internal/logger"
	"github.com/joshuapare/prefkit/pkg/config"
	"github.com/joshuapare/prefkit/pref"
)

var (
	// Global flags
	configPath string
	verbose    bool
	quiet      bool
	jsonOut    bool
	noColor    bool
	interval   time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "prefctl",
	Short: "Inspect and edit device preference stores",
	Long: `prefctl opens the preference store described by a device config file
(JSON with comments, or YAML) and reads, writes, verifies or runs it.

Without --config the default layout is used: one 4 KiB flash medium in
prefs.bin in the current directory.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupColor(os.Stdout)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Device config file (.jsonc, .json, .yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().DurationVar(&interval, "interval", 0, "Override the write interval")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

// setupColor disables color unless w is a terminal and --no-color is unset.
func setupColor(w *os.File) {
	tty := isatty.IsTerminal(w.Fd()) || isatty.IsCygwinTerminal(w.Fd())
	color.NoColor = noColor || !tty
}

var (
	okText   = color.New(color.FgGreen).SprintFunc()
	failText = color.New(color.FgRed, color.Bold).SprintFunc()
	warnText = color.New(color.FgYellow).SprintFunc()
	nameText = color.New(color.FgCyan).SprintFunc()
)

// loadConfig returns the effective config: defaults, the config file and
// command-line overrides, in that order.
func loadConfig() (config.Config, error) {
	cfg := config.DefaultConfig()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return config.Config{}, err
		}
	}

	if interval > 0 {
		cfg.Merge(config.Config{Interval: interval.String()})
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newLogger builds the CLI logger. Logs go to stderr unless the config names
// a log directory.
func newLogger(cfg config.Config) (*slog.Logger, io.Closer, error) {
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	if verbose {
		level = slog.LevelDebug
	}
	if quiet {
		level = slog.LevelError
	}
	return logger.New(logger.Options{
		Level:  level,
		Format: cfg.Log.Format,
		Dir:    cfg.Log.Dir,
		Output: os.Stderr,
	})
}

// session is an opened store and its layout.
type session struct {
	cfg     config.Config
	store   *pref.Store
	regions []config.NamedRegion
	log     *slog.Logger
	logFile io.Closer
}

// openSession loads the config and opens its store.
func openSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log, logFile, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	printVerbose("Opening store (%d media, %d regions)\n", len(cfg.Media), len(cfg.Regions))

	s, regions, err := cfg.Open(log, nil)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return &session{cfg: cfg, store: s, regions: regions, log: log, logFile: logFile}, nil
}

// Close commits anything pending and releases the store.
func (s *session) Close() error {
	defer s.logFile.Close()
	if err := s.store.Sync(); err != nil {
		s.store.Close()
		return err
	}
	return s.store.Close()
}

// region finds a layout region by name.
func (s *session) region(name string) (*pref.Region, error) {
	for _, r := range s.regions {
		if r.Name == name {
			return r.Region, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", errNoRegion, name)
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
