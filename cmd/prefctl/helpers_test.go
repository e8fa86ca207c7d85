package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
)

// testConfig writes a device config with an rtc file, a flash file and a
// small layout into a temp dir and returns its path.
func testConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	content := `{
	"interval": "1s",
	"default_class": "flash",
	"media": [
		{"kind": "rtc", "path": "rtc.bin", "words": 16},
		{"kind": "flash", "path": "flash.bin", "size": 4096},
	],
	"regions": [
		{"name": "boot_count", "type": "0xB0075", "words": 1},
		{"name": "calibration", "type": "0xCA1", "words": 2},
		{"name": "last_state", "type": "7", "words": 3, "class": "rtc"},
		{"name": "too_big", "type": "8", "words": 64, "class": "rtc"},
	],
}`
	path := filepath.Join(dir, "device.jsonc")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// resetFlags restores every flag to its default and points --config at path.
func resetFlags(path string) {
	configPath = path
	verbose = false
	quiet = false
	jsonOut = false
	noColor = true
	interval = 0
	color.NoColor = true

	getHex = false
	getRegion.reset()
	setHex = ""
	setRegion.reset()
	configYAML = false
	runTick = 5 * time.Millisecond
	runDuration = 30 * time.Millisecond
	runBootCounter = ""
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	// Save original stdout
	origStdout := os.Stdout

	// Create a pipe to capture output
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}

	// Redirect stdout to pipe
	os.Stdout = w

	// Run function
	fnErr := fn()

	// Close write end and restore stdout
	w.Close()
	os.Stdout = origStdout

	// Read captured output
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	return buf.String(), fnErr
}

// assertJSON checks that output is valid JSON
func assertJSON(t *testing.T, output string) {
	t.Helper()
	var result any
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Errorf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}
