package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/joshuapare/prefkit/internal/logger"
	"github.com/joshuapare/prefkit/pkg/config"
	"github.com/joshuapare/prefkit/pkg/host"
	"github.com/joshuapare/prefkit/pref"
)

var (
	runTick        time.Duration
	runDuration    time.Duration
	runBootCounter string
)

func init() {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the store as a device would",
		Long: `The run command drives the store through the device lifecycle: setup,
then one loop per tick, committing dirty regions at most once per write
interval. On exit pending data is committed.

With --boot-counter, the named one-word region is incremented once at setup.

Example:
  prefctl run -c device.jsonc --duration 10s
  prefctl run -c device.jsonc --boot-counter boot_count --tick 50ms`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runRun(ctx)
		},
	}
	cmd.Flags().DurationVar(&runTick, "tick", 100*time.Millisecond, "Loop period")
	cmd.Flags().DurationVar(&runDuration, "duration", 0, "Stop after this long (0: until interrupted)")
	cmd.Flags().StringVar(&runBootCounter, "boot-counter", "", "Region to increment at setup")
	rootCmd.AddCommand(cmd)
}

func runRun(ctx context.Context) error {
	if runTick <= 0 {
		return fmt.Errorf("%w: %s", errBadTick, runTick)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, logFile, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()

	media, err := cfg.BuildMedia()
	if err != nil {
		return err
	}
	store := pref.New(cfg.StoreOptions(log, nil), media)

	layout := &layoutComponent{cfg: cfg, store: store, log: log, counter: runBootCounter}

	runner := host.NewRunner(log)
	runner.Add(store.Component(cfg.WriteInterval()))
	runner.Add(layout)

	if runDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, runDuration)
		defer cancel()
	}

	runner.Setup()
	if layout.err != nil {
		return errors.Join(layout.err, store.Close())
	}

	runErr := runner.Run(ctx, runTick)

	syncErr := store.Sync()
	if verbose && !jsonOut {
		runner.DumpConfig(os.Stdout)
	}
	closeErr := store.Close()

	if jsonOut {
		if err := printJSON(toDumpJSON(store)); err != nil {
			return err
		}
	}
	printVerbose("Stopped after %d ticks\n", runner.Ticks())

	if errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded) {
		runErr = nil
	}
	return errors.Join(runErr, syncErr, closeErr)
}

// layoutComponent allocates the config layout once the store is set up and
// optionally bumps a boot counter.
type layoutComponent struct {
	cfg     config.Config
	store   *pref.Store
	log     *slog.Logger
	counter string

	regions []config.NamedRegion
	boots   uint32
	err     error
}

func (l *layoutComponent) SetupPriority() float32 { return host.PriorityData }

func (l *layoutComponent) Setup() {
	if l.log == nil {
		l.log = logger.Discard()
	}

	l.regions, l.err = l.cfg.MakeRegions(l.store)
	if l.err != nil || l.counter == "" {
		return
	}

	for _, r := range l.regions {
		if r.Name != l.counter {
			continue
		}
		if err := pref.Load(r.Region, &l.boots); err != nil {
			l.log.Info("boot counter starts fresh", "region", r.Name, "error", err)
			l.boots = 0
		}
		l.boots++
		if err := pref.Save(r.Region, &l.boots, false); err != nil {
			l.err = fmt.Errorf("boot counter %s: %w", r.Name, err)
			return
		}
		l.log.Info("boot", "count", l.boots)
		return
	}
	l.err = fmt.Errorf("boot counter: %w: %q", errNoRegion, l.counter)
}

func (l *layoutComponent) Loop() {}

func (l *layoutComponent) DumpConfig(w io.Writer) {
	fmt.Fprintf(w, "Layout: %d regions\n", len(l.regions))
	if l.counter != "" {
		fmt.Fprintf(w, "  Boot counter %s: %d\n", l.counter, l.boots)
	}
}
