package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/utkarsh5026/optbench/store"
)

const sampleOptions = `{
  "compile-options": {
    "A": null,
    "B": {"type": "range", "min": 1, "max": 3, "step": 1, "default": 1}
  }
}`

const sampleProject = `
num_random: 5
build:
  command: "true"
  dir: "."
benchmark:
  command: "true"
  dir: "."
  cycles: 2
  setup:
    command: ""
`

func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestExitError(t *testing.T) {
	inner := errors.New("boom")
	err := &ExitError{Code: CodeFailure, Message: "generate", Err: inner}
	if err.Error() != "generate: boom" || !errors.Is(err, inner) {
		t.Errorf("unexpected error %q", err)
	}
	if (&ExitError{Err: inner}).Error() != "boom" {
		t.Error("message should default to the wrapped error")
	}
}

func TestExecute_Clean(t *testing.T) {
	dir := t.TempDir()
	layout := store.DefaultLayout(dir)
	if err := os.MkdirAll(layout.ConfigDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, layout.ResultsJSON, "{}")

	code, _, _ := execute(t, "clean", "--workdir", dir)
	if code != CodeCleaned {
		t.Errorf("expected exit code %d, got %d", CodeCleaned, code)
	}
	for _, p := range []string{layout.ConfigDir, layout.ResultsJSON} {
		if _, err := os.Stat(p); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("%s survived clean", p)
		}
	}
}

func TestExecute_InvalidFlags(t *testing.T) {
	tests := [][]string{
		{"aggregate", "--workdir", "WORKDIR", "--log-level", "trace"},
		{"run", "--workdir", "WORKDIR", "--cycles", "0"},
		{"no-such-command"},
	}
	for _, args := range tests {
		dir := t.TempDir()
		for i := range args {
			if args[i] == "WORKDIR" {
				args[i] = dir
			}
		}
		if code, _, _ := execute(t, args...); code != CodeFailure {
			t.Errorf("%v: expected exit code %d, got %d", args, CodeFailure, code)
		}
	}
}

func TestExecute_GenerateWithoutOptionsFile(t *testing.T) {
	code, _, stderr := execute(t, "generate", "--workdir", t.TempDir())
	if code != CodeFailure {
		t.Errorf("expected exit code %d, got %d", CodeFailure, code)
	}
	if !strings.Contains(stderr, "option spec") {
		t.Errorf("expected a read error, got %q", stderr)
	}
}

func TestExecute_Generate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, defaultOptionsFile), sampleOptions)

	code, stdout, stderr := execute(t, "generate", "--workdir", dir, "--num-random", "0", "--seed", "3")
	if code != CodeOK {
		t.Fatalf("exit code %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, "Wrote 2 probes and 0 random") {
		t.Errorf("unexpected output %q", stdout)
	}

	data, err := os.ReadFile(filepath.Join(dir, "all-in-one.cfg"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", data)
	}
	for _, l := range lines {
		if l != "-DA" && l != "-DB=2" && l != "-DB=3" {
			t.Errorf("unexpected probe %q", l)
		}
	}
}

func TestExecute_All(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, defaultOptionsFile), sampleOptions)
	writeFile(t, filepath.Join(dir, configFileName), sampleProject)

	code, stdout, stderr := execute(t, "all", "--workdir", dir, "--seed", "7")
	if code != CodeOK {
		t.Fatalf("exit code %d\nstdout: %s\nstderr: %s", code, stdout, stderr)
	}

	entries, err := store.New(store.DefaultLayout(dir)).LoadAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) < 3 || len(entries) > 7 {
		t.Fatalf("expected between 3 and 7 records, got %d", len(entries))
	}
	for _, e := range entries {
		if len(e.Record.Measurements) != 2 {
			t.Errorf("%s: expected 2 measurements, got %d", e.Path, len(e.Record.Measurements))
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "results.json"))
	if err != nil {
		t.Fatal(err)
	}
	var report struct {
		Results []struct {
			ID      string `json:"id"`
			Command string `json:"command"`
		} `json:"results"`
	}
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatal(err)
	}
	if len(report.Results) != len(entries) {
		t.Errorf("expected %d results, got %d", len(entries), len(report.Results))
	}
	if _, err := os.Stat(filepath.Join(dir, "results.xml")); err != nil {
		t.Errorf("results.xml missing: %v", err)
	}
}

func TestExecute_RunSkipsFailedBuilds(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, defaultOptionsFile), sampleOptions)
	writeFile(t, filepath.Join(dir, configFileName), strings.Replace(sampleProject, `command: "true"`, `command: "exit 4"`, 1))

	if code, _, stderr := execute(t, "generate", "--workdir", dir, "-n", "0"); code != CodeOK {
		t.Fatalf("generate failed: %s", stderr)
	}
	code, stdout, stderr := execute(t, "run", "--workdir", dir)
	if code != CodeOK {
		t.Fatalf("failed builds must not fail the batch, got %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, "exit code 4") || !strings.Contains(stdout, "Benchmarked 0/2") {
		t.Errorf("unexpected output:\n%s", stdout)
	}
}
