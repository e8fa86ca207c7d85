package pref

import (
	"io"
	"log/slog"
	"time"

	"github.com/joshuapare/prefkit/pkg/host"
	"github.com/joshuapare/prefkit/pref/medium"
)

// Options configures a Store.
type Options struct {
	// Logger receives diagnostics. Nil discards them.
	Logger *slog.Logger

	// Clock drives the write interval. Nil uses the system clock.
	Clock host.Clock

	// DefaultClass is the class MakePreference uses when none is given.
	// If the store has no medium for it but has exactly one medium, that
	// medium's class is used instead.
	DefaultClass medium.Class

	// MaxBackoff caps the retry delay after failed commits.
	// Zero selects 64 write intervals.
	MaxBackoff time.Duration

	// MaxFailures is the number of consecutive failed commits after which
	// periodic commits stop until the next save. Zero selects
	// commit.DefaultMaxFailures; negative retries forever.
	MaxFailures int
}

func (o Options) withDefaults(media map[medium.Class]medium.Medium) Options {
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.Clock == nil {
		o.Clock = host.SystemClock{}
	}
	if _, ok := media[o.DefaultClass]; !ok && len(media) == 1 {
		for c := range media {
			o.DefaultClass = c
		}
	}
	return o
}
