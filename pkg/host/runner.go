package host

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"
)

// Runner drives a set of components.
//
// NOT thread-safe. Only one goroutine should use it at a time.
type Runner struct {
	components []Component
	log        *slog.Logger
	setUp      bool
	ticks      uint64
}

// NewRunner creates an empty runner. A nil logger discards output.
func NewRunner(log *slog.Logger) *Runner {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{log: log}
}

// Add registers a component. Components added after Setup get PreSetup and
// Setup immediately.
func (r *Runner) Add(c Component) {
	r.components = append(r.components, c)
	if r.setUp {
		if p, ok := c.(PreSetuper); ok {
			p.PreSetup()
		}
		c.Setup()
		r.sort()
	}
}

func (r *Runner) sort() {
	sort.SliceStable(r.components, func(i, j int) bool {
		return r.components[i].SetupPriority() > r.components[j].SetupPriority()
	})
}

// Setup runs PreSetup then Setup on every component, highest priority first.
// Calling it again is a no-op.
func (r *Runner) Setup() {
	if r.setUp {
		return
	}
	r.sort()
	for _, c := range r.components {
		if p, ok := c.(PreSetuper); ok {
			p.PreSetup()
		}
	}
	for _, c := range r.components {
		r.log.Debug("setup component", "priority", c.SetupPriority())
		c.Setup()
	}
	r.setUp = true
}

// Tick calls Loop on every component once.
func (r *Runner) Tick() {
	for _, c := range r.components {
		c.Loop()
	}
	r.ticks++
}

// Ticks returns the number of completed ticks.
func (r *Runner) Ticks() uint64 { return r.ticks }

// Run sets up the components if needed and ticks every interval until ctx
// is done. A non-positive interval returns ErrInterval without setting
// anything up.
func (r *Runner) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("%w: %s", ErrInterval, interval)
	}
	r.Setup()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Debug("runner stopped", "ticks", r.ticks)
			return ctx.Err()
		case <-ticker.C:
			r.Tick()
		}
	}
}

// DumpConfig writes every component's diagnostics to w.
func (r *Runner) DumpConfig(w io.Writer) {
	for _, c := range r.components {
		c.DumpConfig(w)
	}
}
