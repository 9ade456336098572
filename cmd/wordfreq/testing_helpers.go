package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/joshuapare/wordfreq/internal/config"
)

// writeInput writes content to a file in a temp dir and returns its path.
func writeInput(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// captureOutput captures stdout and stderr while running a function.
func captureOutput(t *testing.T, fn func() error) (string, string, error) {
	t.Helper()

	origStdout, origStderr := os.Stdout, os.Stderr
	outR, outW, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	errR, errW, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout, os.Stderr = outW, errW

	var stdout, stderr bytes.Buffer
	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); _, _ = io.Copy(&stdout, outR) }()
	go func() { defer wg.Done(); _, _ = io.Copy(&stderr, errR) }()

	fnErr := fn()

	outW.Close()
	errW.Close()
	os.Stdout, os.Stderr = origStdout, origStderr
	wg.Wait()

	return stdout.String(), stderr.String(), fnErr
}

// resetFlags restores global flag state and clears WC_* variables.
func resetFlags(t *testing.T) {
	t.Helper()
	verbose, quiet, jsonOut, noColor = false, false, false, true
	configPath, logLevel = "", ""
	for _, name := range []string{config.EnvMaxBytes, config.EnvMaxWord, config.EnvHashSeed, config.EnvStaticSize} {
		t.Setenv(name, "")
	}
}

// runCLI runs the root command with args and stdin, returning the captured
// output and the exit code execute would use.
func runCLI(t *testing.T, stdin string, args ...string) (string, string, int) {
	t.Helper()
	resetFlags(t)

	cmd := newRootCmd()
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	cmd.SetIn(strings.NewReader(stdin))

	stdout, stderr, err := captureOutput(t, func() error {
		return cmd.ExecuteContext(context.Background())
	})
	return stdout, stderr, exitCode(err)
}

// decodeReport parses --json output.
func decodeReport(t *testing.T, output string) jsonReport {
	t.Helper()
	var r jsonReport
	if err := json.Unmarshal([]byte(output), &r); err != nil {
		t.Fatalf("invalid JSON output: %v\nOutput: %s", err, output)
	}
	return r
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
