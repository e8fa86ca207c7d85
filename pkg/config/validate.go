package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joshuapare/prefkit/pref/medium"
)

// Validate checks c and returns every problem found, joined. Each wraps
// ErrInvalid.
func (c Config) Validate() error {
	var errs []error
	fail := func(err error, format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		errs = append(errs, fmt.Errorf("%w: %s: %w", ErrInvalid, msg, err))
	}

	if d, err := time.ParseDuration(c.Interval); err != nil || d <= 0 {
		fail(errIntervalInvalid, "interval %q", c.Interval)
	}
	if c.Retry.MaxBackoff != "" {
		if d, err := time.ParseDuration(c.Retry.MaxBackoff); err != nil || d < 0 {
			fail(errBackoffInvalid, "retry.max_backoff %q", c.Retry.MaxBackoff)
		}
	}

	if len(c.Media) == 0 {
		fail(errNoMedia, "media")
	}
	classes := make(map[medium.Class]bool, len(c.Media))
	for i, m := range c.Media {
		class, err := m.class()
		if err != nil {
			fail(err, "media[%d]", i)
			continue
		}
		if classes[class] {
			fail(errDuplicateClass, "media[%d] %s", i, class)
		}
		classes[class] = true

		switch m.Kind {
		case "rtc":
			if m.Words <= 0 {
				fail(errMediumSize, "media[%d] words %d", i, m.Words)
			}
		case "flash", "nvs":
			if m.Size <= 0 {
				fail(errMediumSize, "media[%d] size %d", i, m.Size)
			}
			if m.Path == "" {
				fail(errMediumPath, "media[%d]", i)
			}
		default:
			fail(errUnknownKind, "media[%d] kind %q", i, m.Kind)
		}
	}

	if len(c.Media) > 0 {
		if dc, err := medium.ParseClass(c.DefaultClass); err != nil || !classes[dc] {
			// A single medium is the default whatever its class.
			if len(c.Media) > 1 {
				fail(errDefaultClass, "default_class %q", c.DefaultClass)
			}
		}
	}

	names := make(map[string]bool, len(c.Regions))
	for i, r := range c.Regions {
		if r.Name == "" {
			fail(errRegionName, "regions[%d]", i)
		} else if names[r.Name] {
			fail(errDuplicateRegion, "regions[%d] %q", i, r.Name)
		}
		names[r.Name] = true

		if r.Words <= 0 {
			fail(errRegionWords, "regions[%d] words %d", i, r.Words)
		}
		if _, err := ParseTypeTag(r.Type); err != nil {
			fail(errRegionType, "regions[%d] type %q", i, r.Type)
		}
		if r.Class != "" {
			rc, err := medium.ParseClass(r.Class)
			if err != nil || !classes[rc] {
				fail(errRegionClass, "regions[%d] class %q", i, r.Class)
			}
		}
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		fail(errLogLevel, "log.level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		fail(errLogFormat, "log.format %q", c.Log.Format)
	}

	return errors.Join(errs...)
}

// class returns the medium's class, which defaults to its kind.
func (m Medium) class() (medium.Class, error) {
	name := m.Class
	if name == "" {
		name = m.Kind
	}
	return medium.ParseClass(name)
}

// ParseTypeTag parses a decimal or 0x-prefixed 32-bit type tag.
func ParseTypeTag(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}
