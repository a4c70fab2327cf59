package build

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/utkarsh5026/optbench/options"
)

type fakeExecutor struct {
	calls  []Cmd
	result Outcome
	err    error
}

func (f *fakeExecutor) Execute(_ context.Context, c Cmd) (Outcome, error) {
	f.calls = append(f.calls, c)
	return f.result, f.err
}

func TestDefines(t *testing.T) {
	cfg := options.Configuration{
		"SQLITE_TEMP_STORE": options.Set(options.Int(3)),
		"SQLITE_OMIT_WAL":   options.Present(),
		"SQLITE_JOURNAL":    options.Set(options.String("WAL")),
	}
	want := []string{"-DSQLITE_JOURNAL=WAL", "-DSQLITE_OMIT_WAL", "-DSQLITE_TEMP_STORE=3"}
	if diff := cmp.Diff(want, Defines(cfg)); diff != "" {
		t.Errorf("defines mismatch (-want +got):\n%s", diff)
	}
}

func TestParamString(t *testing.T) {
	cfg := options.Configuration{"B": options.Set(options.Int(2)), "A": options.Present()}
	if got := ParamString(cfg); got != "-DA -DB=2" {
		t.Errorf("ParamString = %q", got)
	}
	if got := ParamString(options.Configuration{}); got != "" {
		t.Errorf("empty configuration should give empty params, got %q", got)
	}
}

func TestRunner_Command(t *testing.T) {
	r := NewRunner("")
	if got := r.Command(options.Configuration{}); got != DefaultCommand {
		t.Errorf("unexpected command %q", got)
	}

	got := r.Command(options.Configuration{"SQLITE_OMIT_WAL": options.Present()})
	if want := DefaultCommand + " -DSQLITE_OMIT_WAL"; got != want {
		t.Errorf("Command = %q, want %q", got, want)
	}
}

func TestRunner_BuildPassesCommand(t *testing.T) {
	fake := &fakeExecutor{result: Outcome{Output: []byte("ok")}}
	var out bytes.Buffer
	r := NewRunner("cc main.c", WithDir("/src"), WithExecutor(fake), WithOutput(&out))

	res, err := r.Build(context.Background(), options.Configuration{"A": options.Set(options.Int(1))})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.OK() || res.Command != "cc main.c -DA=1" || string(res.Output) != "ok" {
		t.Errorf("unexpected result %+v", res)
	}
	if len(fake.calls) != 1 {
		t.Fatalf("expected 1 execution, got %d", len(fake.calls))
	}
	call := fake.calls[0]
	if call.Line != "cc main.c -DA=1" || call.Dir != "/src" || call.CPU != NoCPU || call.Output != &out {
		t.Errorf("unexpected command %+v", call)
	}
}

func TestRunner_BuildFailureIsNotAnError(t *testing.T) {
	fake := &fakeExecutor{result: Outcome{ExitCode: 256}}
	r := NewRunner("cc", WithExecutor(fake))

	res, err := r.Build(context.Background(), options.Configuration{})
	if err != nil {
		t.Fatalf("non-zero status must not be an error, got %v", err)
	}
	if res.OK() || res.ExitCode != 256 {
		t.Errorf("expected verbatim exit code 256, got %d", res.ExitCode)
	}
}

func TestRunner_BuildLaunchError(t *testing.T) {
	boom := errors.New("no shell")
	r := NewRunner("cc", WithExecutor(&fakeExecutor{err: boom}))

	if _, err := r.Build(context.Background(), options.Configuration{}); !errors.Is(err, boom) {
		t.Errorf("expected launch error, got %v", err)
	}
}
