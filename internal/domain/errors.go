package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidObservation marks an observation or sensor record that is
	// missing a field or holds an out-of-range value. No dispatch follows.
	ErrInvalidObservation = errors.New("invalid observation")

	// ErrExternalFailure marks a weather-provider failure: transport error,
	// non-success status, or a response missing expected fields.
	ErrExternalFailure = errors.New("external failure")
)

// InvalidObservationError names the offending field.
type InvalidObservationError struct {
	Field  string
	Reason string
}

func (e *InvalidObservationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidObservation, e.Field, e.Reason)
}

func (e *InvalidObservationError) Is(target error) bool {
	return target == ErrInvalidObservation
}

// ExternalFailureError describes why a provider call was rejected.
// StatusCode is zero when no HTTP response was received.
type ExternalFailureError struct {
	Provider   string
	StatusCode int
	Reason     string
	Err        error
}

func (e *ExternalFailureError) Error() string {
	msg := fmt.Sprintf("%s: %s", ErrExternalFailure, e.Provider)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExternalFailureError) Unwrap() error {
	return e.Err
}

func (e *ExternalFailureError) Is(target error) bool {
	return target == ErrExternalFailure
}
