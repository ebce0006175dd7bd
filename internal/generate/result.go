package generate

import (
	"errors"
	"fmt"
	"time"

	"github.com/iDorgham/DocGen-sub001/internal/model"
)

// Stage names the steps of the generation state machine.
type Stage string

const (
	StageIdle       Stage = "idle"
	StageValidating Stage = "validating"
	StageResolving  Stage = "resolving"
	StageRendering  Stage = "rendering"
	StageConverting Stage = "converting"
	StagePersisting Stage = "persisting"
	StageDone       Stage = "done"
	StageFailed     Stage = "failed"
)

// Status is the overall outcome of a generation call.
type Status string

const (
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusFailed  Status = "failed"
)

// StageError captures the failing stage and the underlying error.
type StageError struct {
	Stage       Stage
	Err         error
	Remediation string
}

func (e *StageError) Error() string {
	return fmt.Sprintf("generation failed at %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Report carries per-stage durations and accumulated warnings.
type Report struct {
	Durations map[Stage]time.Duration
	Warnings  []string
}

// Result is the outcome returned to callers. On success Document is
// the persisted artifact; on partial status Document is the best
// fallback artifact that could be produced; on failure Err names the
// failing stage.
type Result struct {
	Status   Status
	Document *model.Document
	Warnings []string
	Err      *StageError
	Report   *Report
}

// remediator is implemented by recoverable errors across the
// pipeline.
type remediator interface {
	Remediation() string
}

func remediationFor(err error) string {
	var r remediator
	if errors.As(err, &r) {
		return r.Remediation()
	}
	return ""
}
