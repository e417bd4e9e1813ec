package site

import (
	"fmt"
	"time"

	"git.home.luguber.info/inful/mksite/internal/metrics"
)

// Report summarises one build.
type Report struct {
	BuildID string
	Start   time.Time
	End     time.Time

	StageDurations map[StageName]time.Duration

	StaticCopied  int
	StaticSkipped int
	Pages         int
	Articles      int

	Outcome metrics.BuildOutcomeLabel
}

func newReport(id string) *Report {
	return &Report{
		BuildID:        id,
		Start:          time.Now(),
		StageDurations: make(map[StageName]time.Duration, 3),
	}
}

func (r *Report) finish(outcome metrics.BuildOutcomeLabel) {
	r.End = time.Now()
	r.Outcome = outcome
}

// Duration is the wall time of the build.
func (r *Report) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Summary returns a single-line human readable summary.
func (r *Report) Summary() string {
	return fmt.Sprintf("static=%d skipped=%d pages=%d articles=%d duration=%s outcome=%s",
		r.StaticCopied, r.StaticSkipped, r.Pages, r.Articles,
		r.Duration().Truncate(time.Millisecond), r.Outcome)
}
