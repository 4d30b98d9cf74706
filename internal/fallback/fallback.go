// Package fallback runs an ordered list of attempts until one succeeds.
//
// Attempts are tried strictly in order, each exactly once. The first success
// ends the chain and later attempts are never started. There is no retry,
// backoff or parallel racing.
package fallback

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNoAttempts is returned when First is called without attempts.
var ErrNoAttempts = errors.New("fallback: no attempts configured")

// Attempt is one named way of producing a T.
type Attempt[T any] struct {
	Name string
	Do   func(ctx context.Context) (T, error)
}

// Failure records why a named attempt failed.
type Failure struct {
	Name string
	Err  error
}

// Outcome describes a successful run of the chain.
type Outcome struct {
	// Winner is the name of the attempt that succeeded.
	Winner string
	// Failures lists the attempts that failed before the winner, in order.
	Failures []Failure
}

// ExhaustedError is returned when every attempt failed.
type ExhaustedError struct {
	Failures []Failure
}

func (e *ExhaustedError) Error() string {
	names := e.Names()
	msg := fmt.Sprintf("all %d sources failed (%s)", len(e.Failures), strings.Join(names, ", "))
	if last := e.Last(); last != nil {
		msg += ": last error: " + last.Error()
	}
	return msg
}

// Names returns the attempted names in order.
func (e *ExhaustedError) Names() []string {
	names := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		names = append(names, f.Name)
	}
	return names
}

// Last returns the error of the final attempt.
func (e *ExhaustedError) Last() error {
	if len(e.Failures) == 0 {
		return nil
	}
	return e.Failures[len(e.Failures)-1].Err
}

// Unwrap exposes the last error to errors.Is and errors.As.
func (e *ExhaustedError) Unwrap() error {
	return e.Last()
}

// First runs attempts in order and returns the first successful value.
func First[T any](ctx context.Context, attempts ...Attempt[T]) (T, Outcome, error) {
	var zero T
	if len(attempts) == 0 {
		return zero, Outcome{}, ErrNoAttempts
	}

	var failures []Failure
	for _, attempt := range attempts {
		if err := ctx.Err(); err != nil {
			if len(failures) == 0 {
				return zero, Outcome{}, err
			}
			return zero, Outcome{}, errors.Join(err, &ExhaustedError{Failures: failures})
		}

		value, err := attempt.Do(ctx)
		if err == nil {
			return value, Outcome{Winner: attempt.Name, Failures: failures}, nil
		}
		failures = append(failures, Failure{Name: attempt.Name, Err: err})
	}
	return zero, Outcome{}, &ExhaustedError{Failures: failures}
}
