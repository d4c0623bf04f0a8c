package common

import (
	"fmt"
	"strings"
)

// InvalidParameterError reports a call parameter outside its accepted
// domain: a non-positive threshold or frequency, an unknown window unit,
// an unknown interpolation method, an unknown missing-value selector.
type InvalidParameterError struct {
	Parameter string
	Value     any
	Allowed   []string
}

func (e *InvalidParameterError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("invalid value for parameter %s: %v", e.Parameter, e.Value)
	}
	return fmt.Sprintf("invalid value for parameter %s: %v (accepted: %s)",
		e.Parameter, e.Value, strings.Join(e.Allowed, ", "))
}

// NewInvalidParameterError builds an InvalidParameterError. The allowed
// list is optional and only used for enumerated parameters.
func NewInvalidParameterError(parameter string, value any, allowed ...string) *InvalidParameterError {
	return &InvalidParameterError{Parameter: parameter, Value: value, Allowed: allowed}
}

// ChronologyError reports two consecutive timestamps that are not in
// chronological order. This signals corrupted upstream data and is never
// auto-corrected.
type ChronologyError struct {
	Index1     int
	Index2     int
	Timestamp1 float64
	Timestamp2 float64
}

func (e *ChronologyError) Error() string {
	return fmt.Sprintf("timestamps out of chronological order: element %d (%g s) is followed by element %d (%g s)",
		e.Index1, e.Timestamp1, e.Index2, e.Timestamp2)
}

// CheckChronology verifies that timestamps are non-decreasing and returns
// a ChronologyError for the first violating pair.
func CheckChronology(timestamps []float64) error {
	for i := 1; i < len(timestamps); i++ {
		if timestamps[i] < timestamps[i-1] {
			return &ChronologyError{
				Index1:     i - 1,
				Index2:     i,
				Timestamp1: timestamps[i-1],
				Timestamp2: timestamps[i],
			}
		}
	}
	return nil
}
