package aggregate

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

var bold = color.New(color.Bold)

// defaultsLabel stands in for the empty id of a configuration that sets no
// options.
const defaultsLabel = "(defaults)"

// RenderTable writes the ranked summaries as a table.
func RenderTable(w io.Writer, summaries []Summary) error {
	printSectionHeader(w, "BENCHMARK RESULTS",
		"Cycle cost per configuration, ranked by median (lower is better)")

	if len(summaries) == 0 {
		_, err := fmt.Fprintln(w, "No configuration has been measured yet.")
		return err
	}
	fastest := summaries[0].Median

	table := tablewriter.NewWriter(w)
	table.Header("Rank", "Configuration", "Cycles", "Min", "Median", "Mean", "Max", "StdDev", "vs Fastest")

	for _, s := range summaries {
		id := s.ID
		if id == "" {
			id = defaultsLabel
		}
		if err := table.Append(
			getRankIcon(s.Rank),
			id,
			strconv.Itoa(s.Cycles),
			FormatDuration(s.Min),
			FormatDuration(s.Median),
			FormatDuration(s.Mean),
			FormatDuration(s.Max),
			FormatDuration(s.StdDev),
			getVsFastestStr(s.Median, fastest, s.Rank),
		); err != nil {
			return fmt.Errorf("append row: %w", err)
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	return nil
}

func getRankIcon(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return strconv.Itoa(rank)
	}
}

// getVsFastestStr formats the ratio of total to fastest.
func getVsFastestStr(total, fastest time.Duration, rank int) string {
	if rank == 1 {
		return "baseline"
	}
	if fastest == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.2fx", float64(total)/float64(fastest))
}

// FormatDuration formats d in the most appropriate unit.
func FormatDuration(d time.Duration) string {
	if d == 0 {
		return "0"
	}

	ns := d.Nanoseconds()
	if ns < 1_000_000 {
		return d.String()
	}
	if ns < 1_000_000_000 {
		ms := float64(ns) / 1_000_000.0
		if ms == float64(int(ms)) {
			return fmt.Sprintf("%dms", int(ms))
		}
		return fmt.Sprintf("%.2fms", ms)
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return d.Round(100 * time.Millisecond).String()
}

func printSectionHeader(w io.Writer, title string, descriptions ...string) {
	_, _ = fmt.Fprintln(w)
	_, _ = bold.Fprintln(w, "═══════════════════════════════════════════════════════════")
	_, _ = bold.Fprintln(w, title)
	_, _ = bold.Fprintln(w, "═══════════════════════════════════════════════════════════")
	for _, desc := range descriptions {
		_, _ = fmt.Fprintln(w, desc)
	}
	_, _ = fmt.Fprintln(w)
}
