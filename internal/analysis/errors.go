package analysis

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks against the typed errors below.
var (
	ErrEmptySample     = errors.New("empty sample")
	ErrDegenerateInput = errors.New("degenerate input")
	ErrUnknownGroup    = errors.New("unknown group")
)

// EmptySampleError indicates a statistic was requested over zero values.
// Callers should render "no data" rather than a zero.
type EmptySampleError struct {
	Stat string
}

func (e *EmptySampleError) Error() string {
	if e.Stat != "" {
		return fmt.Sprintf("%s: %s", e.Stat, ErrEmptySample)
	}
	return ErrEmptySample.Error()
}

func (e *EmptySampleError) Is(target error) bool { return target == ErrEmptySample }

// DegenerateInputError indicates regression input with no usable variance
// or mismatched lengths. Callers should suppress the trend line.
type DegenerateInputError struct {
	Reason string
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDegenerateInput, e.Reason)
}

func (e *DegenerateInputError) Is(target error) bool { return target == ErrDegenerateInput }

// UnknownGroupError indicates a rank lookup for a group absent from its input.
type UnknownGroupError struct {
	Group string
}

func (e *UnknownGroupError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownGroup, e.Group)
}

func (e *UnknownGroupError) Is(target error) bool { return target == ErrUnknownGroup }
