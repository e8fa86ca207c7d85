package host

import (
	"io"
	"time"
)

// Setup priorities. Higher values set up earlier.
const (
	// PriorityBus is for components everything else depends on (buses, storage).
	PriorityBus float32 = 1000.0
	// PriorityIO is for components that only need buses.
	PriorityIO float32 = 900.0
	// PriorityHardware is for hardware drivers.
	PriorityHardware float32 = 800.0
	// PriorityData is for components that produce data.
	PriorityData float32 = 600.0
	// PriorityProcessor is for components that consume data.
	PriorityProcessor float32 = 400.0
	// PriorityWiFi is for network bring-up.
	PriorityWiFi float32 = 250.0
	// PriorityAfterConnection is for components needing the network.
	PriorityAfterConnection float32 = 100.0
	// PriorityLate is for components that must come last.
	PriorityLate float32 = -100.0
)

// Component is driven by the host.
type Component interface {
	Setup()
	Loop()
	DumpConfig(w io.Writer)
	SetupPriority() float32
}

// PreSetuper is implemented by components that need configuring before any
// component's Setup runs.
type PreSetuper interface {
	PreSetup()
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock only moves when told to. Use it in tests.
type ManualClock struct {
	now time.Time
}

// NewManualClock creates a ManualClock reading start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time { return c.now }

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// Set moves the clock to t.
func (c *ManualClock) Set(t time.Time) { c.now = t }
