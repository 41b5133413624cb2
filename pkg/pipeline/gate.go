package pipeline

import (
	"github.com/matzehuels/dbccheck/pkg/errors"
	"github.com/matzehuels/dbccheck/pkg/report"
)

// GateError is returned by Gate when a precheck failed. It carries the
// report so the caller can surface the violations.
type GateError struct {
	Report *report.Report
}

func (e *GateError) Error() string {
	return e.Unwrap().Error()
}

// Unwrap exposes the PRECHECK_FAILED coded error.
func (e *GateError) Unwrap() error {
	return errors.New(errors.ErrCodePrecheckFailed, "precheck failed: %s", e.Report.Summary)
}

// Gate decides whether a CAD build may proceed. It returns nil when the
// report is ok and a *GateError otherwise.
func Gate(r *report.Report) error {
	if r == nil {
		return errors.New(errors.ErrCodeInternal, "no precheck report")
	}
	if r.OK {
		return nil
	}
	return &GateError{Report: r}
}
