// Package pipeline drives the batch: every stored record is built, then
// benchmarked for all of its cycles, before the next record starts.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/utkarsh5026/optbench/build"
	"github.com/utkarsh5026/optbench/internal/logging"
	"github.com/utkarsh5026/optbench/options"
	"github.com/utkarsh5026/optbench/store"
)

// Source lists the records to process, in processing order.
type Source interface {
	LoadAll(ctx context.Context) ([]store.Entry, error)
}

// Builder compiles one configuration.
type Builder interface {
	Build(ctx context.Context, cfg options.Configuration) (build.Result, error)
}

// Benchmarker measures one record and persists the result.
type Benchmarker interface {
	Run(ctx context.Context, path string, rec *store.Record) error
}

// Failure is a record whose build exited non-zero.
type Failure struct {
	Path     string
	ExitCode int
}

// Summary counts what happened to each record.
type Summary struct {
	Records  int
	Measured int
	Skipped  int
	Failures []Failure
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSkipMeasured leaves records that already have measurements alone, so
// an interrupted batch can be resumed.
func WithSkipMeasured(skip bool) Option {
	return func(p *Pipeline) {
		p.skipMeasured = skip
	}
}

// WithPrepare registers fn to run once, right before the first benchmark.
func WithPrepare(fn func(ctx context.Context) error) Option {
	return func(p *Pipeline) {
		p.prepare = fn
	}
}

// WithOnRecordStart registers a hook called before each record is handled.
// index is zero-based.
func WithOnRecordStart(fn func(index, total int, path string)) Option {
	return func(p *Pipeline) {
		p.onRecordStart = fn
	}
}

// Pipeline runs build and benchmark for every record of a Source.
type Pipeline struct {
	source  Source
	builder Builder
	bench   Benchmarker

	skipMeasured  bool
	prepare       func(ctx context.Context) error
	onRecordStart func(index, total int, path string)
}

// New returns a Pipeline.
func New(source Source, builder Builder, bench Benchmarker, opts ...Option) *Pipeline {
	p := &Pipeline{source: source, builder: builder, bench: bench}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run processes every record once. A failed build is counted and the batch
// moves on. A build that cannot be launched, a benchmark error or a
// cancelled ctx stops the batch; the summary up to that point is returned
// with the error.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	logger := logging.FromContext(ctx)

	entries, err := p.source.LoadAll(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("load records: %w", err)
	}

	sum := Summary{Records: len(entries)}
	prepared := p.prepare == nil

	for i, e := range entries {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		if p.onRecordStart != nil {
			p.onRecordStart(i, len(entries), e.Path)
		}
		name := filepath.Base(e.Path)

		if p.skipMeasured && e.Record.Measured() {
			logger.Info("Skipping measured record", "record", name, "measurements", len(e.Record.Measurements))
			sum.Skipped++
			continue
		}

		res, err := p.builder.Build(ctx, e.Record.Features)
		if err != nil {
			return sum, fmt.Errorf("build %s: %w", name, err)
		}
		if !res.OK() {
			logger.Warn("Skipping benchmark after failed build", "record", name, "exit_code", res.ExitCode)
			sum.Failures = append(sum.Failures, Failure{Path: e.Path, ExitCode: res.ExitCode})
			continue
		}

		if !prepared {
			if err := p.prepare(ctx); err != nil {
				return sum, err
			}
			prepared = true
		}

		if err := p.bench.Run(ctx, e.Path, e.Record); err != nil {
			return sum, fmt.Errorf("benchmark %s: %w", name, err)
		}
		sum.Measured++
	}

	logger.Info("Batch finished",
		"records", sum.Records,
		"measured", sum.Measured,
		"skipped", sum.Skipped,
		"build_failures", len(sum.Failures))
	return sum, nil
}
