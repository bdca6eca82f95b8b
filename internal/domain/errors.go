package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound covers missing matches, plays, teams, and tournaments.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the caller's role fails a privilege check.
	ErrForbidden = errors.New("forbidden")

	// ErrMatchNotLive is returned when a play is submitted outside
	// en_curso / medio_tiempo.
	ErrMatchNotLive = errors.New("match is not live")

	// ErrNoValidDates is returned by schedule generation when the date range
	// contains no day whose weekday is allowed.
	ErrNoValidDates = errors.New("no valid dates in range")

	// ErrVersionConflict signals a lost optimistic-concurrency race; the
	// service retries once before surfacing it.
	ErrVersionConflict = errors.New("match was modified concurrently")
)

// ValidationError is a structural or business-rule rejection tied to a field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InvalidTransitionError is a legal-role, illegal-edge transition request.
// It carries the allowed set so the caller can self-correct without a
// second round trip.
type InvalidTransitionError struct {
	From    Status
	To      Status
	Allowed []Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition from %s to %s (allowed: %s)",
		e.From, e.To, e.AllowedList())
}

// AllowedList renders the allowed targets as a comma-separated string.
func (e *InvalidTransitionError) AllowedList() string {
	if len(e.Allowed) == 0 {
		return "none"
	}
	parts := make([]string, len(e.Allowed))
	for i, s := range e.Allowed {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
