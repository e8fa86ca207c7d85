package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/prefkit/pref/medium"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const jsoncConfig = `{
	// commit at most every 30 seconds
	"interval": "30s",
	"default_class": "flash",
	"media": [
		{"kind": "rtc", "words": 128},
		{"kind": "flash", "path": "flash.bin", "size": 8192},
	],
	"regions": [
		{"name": "boot_count", "type": "0xB0075", "words": 1},
		{"name": "wifi", "type": "42", "words": 8, "class": "rtc"},
	],
	"retry": {"max_failures": 4},
}`

const yamlConfig = `
interval: 30s
default_class: flash
media:
  - kind: rtc
    words: 128
  - kind: flash
    path: flash.bin
    size: 8192
regions:
  - name: boot_count
    type: "0xB0075"
    words: 1
  - name: wifi
    type: "42"
    words: 8
    class: rtc
retry:
  max_failures: 4
`

func TestLoad_Formats(t *testing.T) {
	dir := t.TempDir()

	want := Config{
		Interval:     "30s",
		DefaultClass: "flash",
		Media: []Medium{
			{Kind: "rtc", Words: 128},
			{Kind: "flash", Path: filepath.Join(dir, "flash.bin"), Size: 8192},
		},
		Regions: []Region{
			{Name: "boot_count", Type: "0xB0075", Words: 1},
			{Name: "wifi", Type: "42", Words: 8, Class: "rtc"},
		},
		Retry: Retry{MaxFailures: 4},
		Log:   Log{Level: "info", Format: "text"},
	}

	for _, name := range []string{"device.jsonc", "device.yaml"} {
		t.Run(name, func(t *testing.T) {
			content := jsoncConfig
			if filepath.Ext(name) == ".yaml" {
				content = yamlConfig
			}
			cfg, err := Load(writeFile(t, dir, name, content))
			require.NoError(t, err)

			if diff := cmp.Diff(want, cfg); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, 30*time.Second, cfg.WriteInterval())
		})
	}
}

func TestLoad_DefaultsFillGaps(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(writeFile(t, dir, "min.json", `{"log": {"level": "debug"}}`))
	require.NoError(t, err)

	want := DefaultConfig()
	want.Log.Level = "debug"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.json"))
	assert.True(t, IsNotFound(err))

	_, err = Load(writeFile(t, dir, "cfg.toml", `interval = "1s"`))
	require.ErrorIs(t, err, ErrUnknownFormat)

	_, err = Load(writeFile(t, dir, "bad.json", `{"interval": `))
	require.ErrorIs(t, err, ErrInvalid)

	_, err = Load(writeFile(t, dir, "unknown.json", `{"intervall": "1s"}`))
	require.ErrorIs(t, err, ErrInvalid)

	_, err = Load(writeFile(t, dir, "unknown.yaml", "intervall: 1s\n"))
	require.ErrorIs(t, err, ErrInvalid)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"default is valid", func(*Config) {}, nil},
		{"bad interval", func(c *Config) { c.Interval = "soon" }, errIntervalInvalid},
		{"zero interval", func(c *Config) { c.Interval = "0s" }, errIntervalInvalid},
		{"negative backoff", func(c *Config) { c.Retry.MaxBackoff = "-1s" }, errBackoffInvalid},
		{"no media", func(c *Config) { c.Media = nil }, errNoMedia},
		{"unknown kind", func(c *Config) { c.Media[0].Kind = "tape"; c.Media[0].Class = "flash" }, errUnknownKind},
		{"unknown class", func(c *Config) { c.Media[0].Class = "eeprom" }, medium.ErrUnknownClass},
		{"duplicate class", func(c *Config) {
			c.Media = append(c.Media, Medium{Kind: "nvs", Class: "flash", Path: "x", Size: 64})
		}, errDuplicateClass},
		{"missing path", func(c *Config) { c.Media[0].Path = "" }, errMediumPath},
		{"zero size", func(c *Config) { c.Media[0].Size = 0 }, errMediumSize},
		{"rtc words", func(c *Config) { c.Media = []Medium{{Kind: "rtc"}} }, errMediumSize},
		{"default class without medium", func(c *Config) {
			c.Media = append(c.Media, Medium{Kind: "rtc", Words: 8})
			c.DefaultClass = "nvs"
		}, errDefaultClass},
		{"region name", func(c *Config) { c.Regions = []Region{{Type: "1", Words: 1}} }, errRegionName},
		{"duplicate region", func(c *Config) {
			c.Regions = []Region{{Name: "a", Type: "1", Words: 1}, {Name: "a", Type: "2", Words: 1}}
		}, errDuplicateRegion},
		{"region words", func(c *Config) { c.Regions = []Region{{Name: "a", Type: "1"}} }, errRegionWords},
		{"region type", func(c *Config) { c.Regions = []Region{{Name: "a", Type: "0x1FFFFFFFF", Words: 1}} }, errRegionType},
		{"region class", func(c *Config) { c.Regions = []Region{{Name: "a", Type: "1", Words: 1, Class: "rtc"}} }, errRegionClass},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, errLogLevel},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, errLogFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.want)
			require.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Interval = ""
	cfg.Log.Format = "xml"

	err := cfg.Validate()
	assert.True(t, errors.Is(err, errIntervalInvalid))
	assert.True(t, errors.Is(err, errLogFormat))
}

func TestMerge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Merge(Config{Interval: "5s", Retry: Retry{MaxBackoff: "1m"}, Log: Log{Dir: "logs"}})

	want := DefaultConfig()
	want.Interval = "5s"
	want.Retry.MaxBackoff = "1m"
	want.Log.Dir = "logs"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("merge mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTypeTag(t *testing.T) {
	v, err := ParseTypeTag("0x1234")
	require.NoError(t, err)
	assert.Equal(t, uint32(0x1234), v)

	v, err = ParseTypeTag("99")
	require.NoError(t, err)
	assert.Equal(t, uint32(99), v)

	_, err = ParseTypeTag("")
	require.Error(t, err)
}

func TestFormat_RoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Regions = []Region{{Name: "a", Type: "7", Words: 2}}

	js, err := cfg.Format()
	require.NoError(t, err)
	fromJSON, err := Parse([]byte(js), FormatJSON)
	require.NoError(t, err)

	ys, err := cfg.FormatYAML()
	require.NoError(t, err)
	fromYAML, err := Parse([]byte(ys), FormatYAML)
	require.NoError(t, err)

	if diff := cmp.Diff(cfg, fromJSON); diff != "" {
		t.Errorf("json mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(cfg, fromYAML); diff != "" {
		t.Errorf("yaml mismatch (-want +got):\n%s", diff)
	}
}
