package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joshuapare/prefkit/pkg/host"
	"github.com/joshuapare/prefkit/pref"
	"github.com/joshuapare/prefkit/pref/medium"
)

// WriteInterval returns the parsed interval. Call on a validated config.
func (c Config) WriteInterval() time.Duration {
	d, _ := time.ParseDuration(c.Interval)
	return d
}

// BuildMedia creates the configured media. Nothing is opened.
func (c Config) BuildMedia() (map[medium.Class]medium.Medium, error) {
	out := make(map[medium.Class]medium.Medium, len(c.Media))
	for i, m := range c.Media {
		class, err := m.class()
		if err != nil {
			return nil, fmt.Errorf("media[%d]: %w", i, err)
		}

		switch m.Kind {
		case "rtc":
			if m.Path == "" {
				out[class] = medium.NewRTC(m.Words)
			} else {
				out[class] = medium.NewRTCFile(m.Path, m.Words)
			}
		case "flash":
			out[class] = medium.NewFlash(m.Path, m.Size)
		case "nvs":
			block := m.BlockSize
			if block == 0 {
				block = medium.DefaultNVSBlockSize
			}
			ns := m.Namespace
			if ns == "" {
				ns = "prefs"
			}
			out[class] = medium.NewNVS(m.Path, ns, m.Size, block)
		default:
			return nil, fmt.Errorf("media[%d]: %w: %q", i, errUnknownKind, m.Kind)
		}
	}
	return out, nil
}

// StoreOptions returns the store options described by c.
func (c Config) StoreOptions(log *slog.Logger, clock host.Clock) pref.Options {
	opts := pref.Options{
		Logger:      log,
		Clock:       clock,
		MaxFailures: c.Retry.MaxFailures,
	}
	if dc, err := medium.ParseClass(c.DefaultClass); err == nil {
		opts.DefaultClass = dc
	}
	if c.Retry.MaxBackoff != "" {
		opts.MaxBackoff, _ = time.ParseDuration(c.Retry.MaxBackoff)
	}
	return opts
}

// NamedRegion is a region allocated from the layout.
type NamedRegion struct {
	Name string
	*pref.Region
}

// MakeRegions allocates the layout's regions from s, in file order. Regions
// that cannot be allocated are returned unbound.
func (c Config) MakeRegions(s *pref.Store) ([]NamedRegion, error) {
	out := make([]NamedRegion, 0, len(c.Regions))
	for i, r := range c.Regions {
		tag, err := ParseTypeTag(r.Type)
		if err != nil {
			return nil, fmt.Errorf("regions[%d]: %w: %w", i, errRegionType, err)
		}

		var classes []medium.Class
		if r.Class != "" {
			class, err := medium.ParseClass(r.Class)
			if err != nil {
				return nil, fmt.Errorf("regions[%d]: %w", i, err)
			}
			classes = append(classes, class)
		}

		out = append(out, NamedRegion{Name: r.Name, Region: s.MakePreference(r.Words, tag, classes...)})
	}
	return out, nil
}

// Open builds the media, creates a store and begins it, then allocates the
// layout. The caller owns the store.
func (c Config) Open(log *slog.Logger, clock host.Clock) (*pref.Store, []NamedRegion, error) {
	media, err := c.BuildMedia()
	if err != nil {
		return nil, nil, err
	}

	s := pref.New(c.StoreOptions(log, clock), media)
	s.Begin(c.WriteInterval())

	regions, err := c.MakeRegions(s)
	if err != nil {
		_ = s.Close()
		return nil, nil, err
	}
	return s, regions, nil
}
