package pref

import (
	"encoding/binary"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/prefkit/pkg/host"
	"github.com/joshuapare/prefkit/pref/medium"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func le32(v ...uint32) []byte {
	var b []byte
	for _, x := range v {
		b = binary.LittleEndian.AppendUint32(b, x)
	}
	return b
}

func newFlash(t *testing.T) *medium.Flash {
	t.Helper()
	return medium.NewFlash(filepath.Join(t.TempDir(), "flash.bin"), 4096)
}

// newStore creates a store over one medium, driven by a manual clock, and
// calls Begin with interval.
func newStore(t *testing.T, class medium.Class, m medium.Medium, interval time.Duration, opts Options) (*Store, *host.ManualClock) {
	t.Helper()
	clk := host.NewManualClock(t0)
	opts.Clock = clk
	s := New(opts, map[medium.Class]medium.Medium{class: m})
	s.Begin(interval)
	t.Cleanup(func() { require.NoError(t, s.Close()) })
	return s, clk
}
