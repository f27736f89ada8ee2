package comparison

import "fmt"

// ValidationError reports a chart spec that cannot be drawn on a log-scaled
// grouped bar chart. It is returned before any drawing or file access.
type ValidationError struct {
	Series string // empty when the problem is not tied to one series
	Index  int    // measurement index, -1 when not applicable
	Reason string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Series != "" && e.Index >= 0:
		return fmt.Sprintf("invalid chart spec: series %q value %d: %s", e.Series, e.Index, e.Reason)
	case e.Series != "":
		return fmt.Sprintf("invalid chart spec: series %q: %s", e.Series, e.Reason)
	default:
		return fmt.Sprintf("invalid chart spec: %s", e.Reason)
	}
}

func newValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Index: -1, Reason: fmt.Sprintf(format, args...)}
}

func newSeriesError(series string, index int, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Series: series, Index: index, Reason: fmt.Sprintf(format, args...)}
}
