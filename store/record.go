package store

import (
	"math"
	"time"

	"github.com/utkarsh5026/optbench/options"
)

// HumanReadableLayout is the timestamp format of Measurement.StartHumanReadable.
const HumanReadableLayout = "2006-01-02T15:04:05.000000"

// Measurement is one timed benchmark cycle.
type Measurement struct {
	// Start is the cycle start in milliseconds since the Unix epoch.
	Start float64 `json:"start"`
	// StartHumanReadable is Start formatted with HumanReadableLayout.
	StartHumanReadable string `json:"start_human_readable"`
	// Finish is the cycle end in milliseconds since the Unix epoch.
	Finish float64 `json:"finish"`
	// CostInSeconds is the elapsed time rounded to a tenth of a second.
	CostInSeconds float64 `json:"cost_in_seconds"`
}

// Record is the on-disk unit: a configuration and its measurement history.
type Record struct {
	Features     options.Configuration `json:"features"`
	Measurements []Measurement         `json:"measurements,omitempty"`
}

// Measured reports whether at least one cycle has completed.
func (r *Record) Measured() bool {
	return len(r.Measurements) > 0
}

// Millis converts t to fractional milliseconds since the Unix epoch. The
// whole-millisecond part is exact.
func Millis(t time.Time) float64 {
	sub := t.Nanosecond() % int(time.Millisecond)
	return float64(t.UnixMilli()) + float64(sub)/float64(time.Millisecond)
}

// HumanReadable formats t in its own location with microsecond precision.
func HumanReadable(t time.Time) string {
	return t.Format(HumanReadableLayout)
}

// CostInSeconds rounds d to a tenth of a second.
func CostInSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*10) / 10
}

// NewMeasurement builds the record for a cycle that ran from start to finish.
// The elapsed time is taken from the monotonic clock when both times carry
// one, so Finish is never before Start.
func NewMeasurement(start, finish time.Time) Measurement {
	elapsed := finish.Sub(start)
	if elapsed < 0 {
		elapsed = 0
	}
	startMs := Millis(start)
	return Measurement{
		Start:              startMs,
		StartHumanReadable: HumanReadable(start),
		Finish:             startMs + float64(elapsed)/float64(time.Millisecond),
		CostInSeconds:      CostInSeconds(elapsed),
	}
}
