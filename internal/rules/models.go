package rules

import "errors"

var (
	ErrExpectationFailed = errors.New("expectation is false")
	ErrNotBoolean        = errors.New("expectation must evaluate to a bool")
)

// Failure is one unmet creature expectation.
type Failure struct {
	Expression string
	Err        error
}

func (f *Failure) Error() string {
	return f.Expression + ": " + f.Err.Error()
}

func (f *Failure) Unwrap() error { return f.Err }
