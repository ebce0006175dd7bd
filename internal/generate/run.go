package generate

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iDorgham/DocGen-sub001/internal/model"
)

// pipelineRun tracks one state-machine pass: current stage, per-stage
// durations, and accumulated warnings. Advancing is only legal on
// success of the current stage; any failure lands in StageFailed.
type pipelineRun struct {
	log      *logrus.Logger
	stage    Stage
	started  time.Time
	report   *Report
	warnings []string
}

func newRun(log *logrus.Logger) *pipelineRun {
	return &pipelineRun{
		log:    log,
		stage:  StageIdle,
		report: &Report{Durations: make(map[Stage]time.Duration)},
	}
}

// enter closes the timing of the current stage and moves to next.
func (r *pipelineRun) enter(next Stage) {
	now := time.Now()
	if r.stage != StageIdle {
		r.report.Durations[r.stage] = now.Sub(r.started)
	}
	r.log.WithField("stage", next).Debug("stage transition")
	r.stage = next
	r.started = now
}

// checkpoint is the cooperative cancellation point between stages.
func (r *pipelineRun) checkpoint(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("generation cancelled: %w", err)
	}
	return nil
}

func (r *pipelineRun) warn(msgs ...string) {
	for _, m := range msgs {
		if m != "" {
			r.warnings = append(r.warnings, m)
		}
	}
}

func (r *pipelineRun) fail(err error) *Result {
	failedAt := r.stage
	r.enter(StageFailed)
	r.report.Warnings = r.warnings
	return &Result{
		Status:   StatusFailed,
		Warnings: r.warnings,
		Err: &StageError{
			Stage:       failedAt,
			Err:         err,
			Remediation: remediationFor(err),
		},
		Report: r.report,
	}
}

func (r *pipelineRun) done(status Status, doc *model.Document) *Result {
	r.report.Warnings = r.warnings
	return &Result{
		Status:   status,
		Document: doc,
		Warnings: r.warnings,
		Report:   r.report,
	}
}
