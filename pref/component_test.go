package pref

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/prefkit/pkg/host"
	"github.com/joshuapare/prefkit/pref/medium"
)

func TestDumpConfig(t *testing.T) {
	s, _ := newStore(t, medium.ClassFlash, newFlash(t), 30*time.Second, Options{})
	r := s.MakePreference(2, 0x1234)
	require.NoError(t, r.Save(le32(1, 2), false))

	var sb strings.Builder
	s.DumpConfig(&sb)
	out := sb.String()

	assert.Contains(t, out, "Write interval: 30s")
	assert.Contains(t, out, "Dirty: true")
	assert.Contains(t, out, "Class flash (flash):")
	assert.Contains(t, out, "Capacity: 1,024 words (4,096 bytes)")
	assert.Contains(t, out, "Used: 3 words in 1 regions")
	assert.Contains(t, out, "Dirty ranges: [[0x0000, 0x000c)]")
	assert.Contains(t, out, "Region flash type=0x00001234 words=2 offset=0")
}

func TestComponent_Runner(t *testing.T) {
	clk := host.NewManualClock(t0)
	f := medium.NewFaulty(newFlash(t))
	s := New(Options{Clock: clk}, map[medium.Class]medium.Medium{medium.ClassFlash: f})
	t.Cleanup(func() { require.NoError(t, s.Close()) })

	assert.Equal(t, host.PriorityBus, s.SetupPriority())

	runner := host.NewRunner(nil)
	runner.Add(s.Component(time.Second))
	runner.Setup()
	assert.Equal(t, time.Second, s.Interval())

	r := s.MakePreference(1, 1)
	require.True(t, r.IsInitialized())
	require.NoError(t, r.Save(le32(1), false))

	runner.Tick()
	assert.Equal(t, 0, f.Writes)
	clk.Advance(time.Second)
	runner.Tick()
	assert.Equal(t, 1, f.Writes)
}

func TestComponent_AddedAfterRunnerSetup(t *testing.T) {
	clk := host.NewManualClock(t0)
	f := medium.NewFaulty(newFlash(t))
	s := New(Options{Clock: clk}, map[medium.Class]medium.Medium{medium.ClassFlash: f})
	t.Cleanup(func() { require.NoError(t, s.Close()) })

	runner := host.NewRunner(nil)
	runner.Setup()
	runner.Add(s.Component(time.Minute))
	assert.Equal(t, time.Minute, s.Interval())

	r := s.MakePreference(1, 1)
	require.NoError(t, r.Save(le32(7), false))

	clk.Advance(time.Second)
	runner.Tick()
	assert.Equal(t, 0, f.Writes, "commit before the interval elapsed")

	clk.Advance(time.Minute)
	runner.Tick()
	assert.Equal(t, 1, f.Writes)
}
