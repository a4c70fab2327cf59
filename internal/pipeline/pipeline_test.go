package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/utkarsh5026/optbench/build"
	"github.com/utkarsh5026/optbench/options"
	"github.com/utkarsh5026/optbench/store"
)

type staticSource []store.Entry

func (s staticSource) LoadAll(context.Context) ([]store.Entry, error) {
	return s, nil
}

// fakeBuilder fails every configuration that sets the option "BROKEN".
type fakeBuilder struct {
	built []string
	err   error
}

func (b *fakeBuilder) Build(_ context.Context, cfg options.Configuration) (build.Result, error) {
	if b.err != nil {
		return build.Result{}, b.err
	}
	b.built = append(b.built, build.ParamString(cfg))
	if _, broken := cfg["BROKEN"]; broken {
		return build.Result{ExitCode: 1}, nil
	}
	return build.Result{}, nil
}

type fakeBench struct {
	ran []string
	err error
}

func (f *fakeBench) Run(_ context.Context, path string, rec *store.Record) error {
	if f.err != nil {
		return f.err
	}
	f.ran = append(f.ran, path)
	rec.Measurements = append(rec.Measurements, store.Measurement{})
	return nil
}

func entry(path string, cfg options.Configuration, measured bool) store.Entry {
	rec := &store.Record{Features: cfg}
	if measured {
		rec.Measurements = []store.Measurement{{}}
	}
	return store.Entry{Path: path, Record: rec}
}

func TestPipeline_BuildFailureSkipsBenchmark(t *testing.T) {
	src := staticSource{
		entry("a.cfg", options.Configuration{"A": options.Present()}, false),
		entry("b.cfg", options.Configuration{"BROKEN": options.Present()}, false),
		entry("c.cfg", options.Configuration{"C": options.Set(options.Int(2))}, false),
	}
	builder := &fakeBuilder{}
	bench := &fakeBench{}

	sum, err := New(src, builder, bench).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := cmp.Diff([]string{"-DA", "-DBROKEN", "-DC=2"}, builder.built); diff != "" {
		t.Errorf("build order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a.cfg", "c.cfg"}, bench.ran); diff != "" {
		t.Errorf("benchmark mismatch (-want +got):\n%s", diff)
	}
	want := Summary{Records: 3, Measured: 2, Failures: []Failure{{Path: "b.cfg", ExitCode: 1}}}
	if diff := cmp.Diff(want, sum); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestPipeline_SkipMeasured(t *testing.T) {
	src := staticSource{
		entry("a.cfg", options.Configuration{"A": options.Present()}, true),
		entry("b.cfg", options.Configuration{"B": options.Present()}, false),
	}
	bench := &fakeBench{}

	sum, err := New(src, &fakeBuilder{}, bench, WithSkipMeasured(true)).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if sum.Skipped != 1 || sum.Measured != 1 {
		t.Errorf("unexpected summary %+v", sum)
	}
	if diff := cmp.Diff([]string{"b.cfg"}, bench.ran); diff != "" {
		t.Errorf("benchmark mismatch (-want +got):\n%s", diff)
	}
}

func TestPipeline_BenchmarkErrorStops(t *testing.T) {
	diskFull := errors.New("disk full")
	src := staticSource{
		entry("a.cfg", options.Configuration{}, false),
		entry("b.cfg", options.Configuration{}, false),
	}
	builder := &fakeBuilder{}

	_, err := New(src, builder, &fakeBench{err: diskFull}).Run(context.Background())
	if !errors.Is(err, diskFull) {
		t.Fatalf("expected benchmark error, got %v", err)
	}
	if len(builder.built) != 1 {
		t.Errorf("batch must stop after the first failure, built %d", len(builder.built))
	}
}

func TestPipeline_LaunchErrorStops(t *testing.T) {
	noShell := errors.New("no shell")
	src := staticSource{entry("a.cfg", options.Configuration{}, false)}

	if _, err := New(src, &fakeBuilder{err: noShell}, &fakeBench{}).Run(context.Background()); !errors.Is(err, noShell) {
		t.Errorf("expected launch error, got %v", err)
	}
}

func TestPipeline_PrepareOnceBeforeFirstBenchmark(t *testing.T) {
	src := staticSource{
		entry("a.cfg", options.Configuration{"BROKEN": options.Present()}, false),
		entry("b.cfg", options.Configuration{}, false),
		entry("c.cfg", options.Configuration{}, false),
	}
	bench := &fakeBench{}
	calls := 0
	prepare := func(context.Context) error {
		calls++
		if len(bench.ran) != 0 {
			t.Error("prepare must run before the first benchmark")
		}
		return nil
	}

	if _, err := New(src, &fakeBuilder{}, bench, WithPrepare(prepare)).Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("expected one prepare call, got %d", calls)
	}
}

func TestPipeline_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := staticSource{
		entry("a.cfg", options.Configuration{}, false),
		entry("b.cfg", options.Configuration{}, false),
	}
	var started []int

	p := New(src, &fakeBuilder{}, &fakeBench{}, WithOnRecordStart(func(i, _ int, _ string) {
		started = append(started, i)
		cancel()
	}))
	sum, err := p.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if sum.Measured != 1 || len(started) != 1 {
		t.Errorf("the in-flight record should finish, got %+v, started %v", sum, started)
	}
}
