package site

import (
	"context"
	"errors"
	"time"

	"git.home.luguber.info/inful/mksite/internal/logfields"
	"git.home.luguber.info/inful/mksite/internal/metrics"
)

// StageName is a strongly-typed identifier for a build stage.
type StageName string

// Canonical stages, in execution order. Each fully completes before the next
// starts; the blog index depends on every article having been built.
const (
	StageCopyStatic StageName = "copy_static"
	StageBuildPages StageName = "build_pages"
	StageBlogIndex  StageName = "blog_index"
)

// Stage is a discrete unit of work in the site build.
type Stage func(ctx context.Context, bs *buildState) error

// StageDef pairs a stage name with its executing function.
type StageDef struct {
	Name StageName
	Fn   Stage
}

// runStages executes stages in order, recording timing and stopping on the
// first error.
func runStages(ctx context.Context, bs *buildState, stages []StageDef) error {
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			bs.recorder.IncStageResult(string(st.Name), metrics.ResultCanceled)
			return err
		}

		logger := bs.logger.With(logfields.Stage(string(st.Name)))
		logger.Debug("Stage started")

		t0 := time.Now()
		err := st.Fn(ctx, bs)
		dur := time.Since(t0)

		bs.report.StageDurations[st.Name] = dur
		bs.recorder.ObserveStageDuration(string(st.Name), dur)

		if err != nil {
			result := metrics.ResultFatal
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				result = metrics.ResultCanceled
			}
			bs.recorder.IncStageResult(string(st.Name), result)
			logger.Error("Stage failed", logfields.DurationMS(msOf(dur)), logfields.Error(err))
			return err
		}

		bs.recorder.IncStageResult(string(st.Name), metrics.ResultSuccess)
		logger.Debug("Stage complete", logfields.DurationMS(msOf(dur)))
	}
	return nil
}

func msOf(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
