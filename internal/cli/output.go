package cli

import (
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

var (
	bold   = color.New(color.Bold)
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	blue   = color.New(color.FgBlue)
)

func makeProgressBar(total int, w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Benchmarking"),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(w),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

// cycleProgress tracks benchmark cycles across a batch. Records that are
// skipped or fail to build still move the bar past their share of cycles.
type cycleProgress struct {
	bar    *progressbar.ProgressBar
	cycles int
}

func newCycleProgress(records, cycles int, w io.Writer) *cycleProgress {
	return &cycleProgress{bar: makeProgressBar(records*cycles, w), cycles: cycles}
}

func (p *cycleProgress) startRecord(index int, description string) {
	_ = p.bar.Set(index * p.cycles)
	p.bar.Describe(description)
}

func (p *cycleProgress) cycleDone() {
	_ = p.bar.Add(1)
}

func (p *cycleProgress) finish() {
	_ = p.bar.Finish()
}
