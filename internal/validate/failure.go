package validate

import "fmt"

// Failure is the error form of an invalid report, for callers that
// gate work on validation.
type Failure struct {
	Report *Report
}

func (f *Failure) Error() string {
	return fmt.Sprintf("validation failed: %s", f.Report.Summary())
}

// Remediation suggests how a caller can recover.
func (f *Failure) Remediation() string {
	if len(f.Report.Errors) == 0 {
		return "correct the project data and retry"
	}
	e := f.Report.Errors[0]
	return fmt.Sprintf("fix field %s (%s) and retry", e.Field, e.Message)
}
