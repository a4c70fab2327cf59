package aggregate

import (
	"math"
	"slices"
	"sort"
	"time"
)

// Stats describes the cycle costs of one result.
type Stats struct {
	Cycles int
	Min    time.Duration
	Median time.Duration
	Mean   time.Duration
	Max    time.Duration
	StdDev time.Duration
}

// Summary is a result ranked against the others by median cycle cost.
type Summary struct {
	Result
	Stats
	Rank int
}

// ComputeStats computes min, median, mean, max and population standard
// deviation of the cycle costs.
func ComputeStats(r Result) Stats {
	if len(r.Measurements) == 0 {
		return Stats{}
	}

	times := make([]time.Duration, len(r.Measurements))
	for i, m := range r.Measurements {
		times[i] = time.Duration(math.Round(m.CostInSeconds * float64(time.Second)))
	}
	slices.Sort(times)

	var sum time.Duration
	for _, t := range times {
		sum += t
	}
	mean := sum / time.Duration(len(times))

	var variance float64
	for _, t := range times {
		diff := float64(t - mean)
		variance += diff * diff
	}

	return Stats{
		Cycles: len(times),
		Min:    times[0],
		Median: times[len(times)/2],
		Mean:   mean,
		Max:    times[len(times)-1],
		StdDev: time.Duration(math.Sqrt(variance / float64(len(times)))),
	}
}

// Summarize ranks results by median cost, fastest first. Results without
// measurements are dropped. Ties keep their input order.
func Summarize(results []Result) []Summary {
	summaries := make([]Summary, 0, len(results))
	for _, r := range results {
		if len(r.Measurements) == 0 {
			continue
		}
		summaries = append(summaries, Summary{Result: r, Stats: ComputeStats(r)})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Median < summaries[j].Median
	})
	for i := range summaries {
		summaries[i].Rank = i + 1
	}
	return summaries
}
