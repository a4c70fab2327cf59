// Package aggregate consolidates measured configuration records into the
// results.json and results.xml reports and a ranked summary table.
package aggregate

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/utkarsh5026/optbench/build"
	"github.com/utkarsh5026/optbench/internal/logging"
	"github.com/utkarsh5026/optbench/options"
	"github.com/utkarsh5026/optbench/store"
)

// Separator joins the option pairs of a result id.
const Separator = "__"

// Result is one measured configuration in the consolidated reports.
type Result struct {
	ID           string              `json:"id"`
	Command      string              `json:"command"`
	Measurements []store.Measurement `json:"measurements"`
}

// ID derives a stable identifier from cfg: option or option=value pairs in
// ascending name order, joined by Separator.
func ID(cfg options.Configuration) string {
	keys := cfg.Keys()
	parts := make([]string, 0, len(keys))
	for _, name := range keys {
		if v, ok := cfg[name].Value(); ok {
			parts = append(parts, name+"="+v.String())
			continue
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, Separator)
}

// Collect turns records into results, keeping their order. Records without
// measurements are skipped.
func Collect(records []*store.Record) []Result {
	results := make([]Result, 0, len(records))
	for _, rec := range records {
		if rec == nil || !rec.Measured() {
			continue
		}
		results = append(results, Result{
			ID:           ID(rec.Features),
			Command:      build.ParamString(rec.Features),
			Measurements: rec.Measurements,
		})
	}
	return results
}

// Aggregator writes the consolidated reports for a store.
type Aggregator struct {
	store *store.Store
}

// New returns an Aggregator reading from and writing below s.
func New(s *store.Store) *Aggregator {
	return &Aggregator{store: s}
}

// Run scans every stored record and writes both reports to the store layout.
// It returns the collected results.
func (a *Aggregator) Run(ctx context.Context) ([]Result, error) {
	logger := logging.FromContext(ctx)
	entries, skipped, err := a.store.LoadReadable(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	for _, err := range skipped {
		logger.Warn("Skipping unreadable record", "error", err)
	}

	records := make([]*store.Record, len(entries))
	for i, e := range entries {
		records[i] = e.Record
	}
	results := Collect(records)

	layout := a.store.Layout()
	if err := writeReport(layout.ResultsJSON, results, WriteJSON); err != nil {
		return nil, err
	}
	if err := writeReport(layout.ResultsXML, results, WriteXML); err != nil {
		return nil, err
	}

	logger.Info("Wrote reports",
		"records", len(entries),
		"skipped", len(skipped),
		"measured", len(results),
		"json", layout.ResultsJSON,
		"xml", layout.ResultsXML)
	return results, nil
}

func writeReport(path string, results []Result, write func(io.Writer, []Result) error) error {
	var buf bytes.Buffer
	if err := write(&buf, results); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
