package reconciler

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotReconciled is returned by Engine.Codec before a successful run.
var ErrNotReconciled = errors.New("schema not reconciled")

// Error describes a run that ended in REJECTED or FAILED.
type Error struct {
	Subject string

	// State is the terminal state of the run.
	State State

	// Transitions is the path the run took, ending in State.
	Transitions []State

	Err error
}

func (e *Error) Error() string {
	if len(e.Transitions) < 2 {
		return fmt.Sprintf("reconcile %s: %s: %v", e.Subject, e.State, e.Err)
	}
	return fmt.Sprintf("reconcile %s: %s after %s: %v", e.Subject, e.State, path(e.Transitions[:len(e.Transitions)-1]), e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsRejectedError reports whether err is a run rejected by the compatibility gate.
func IsRejectedError(err error) bool {
	var rerr *Error
	return errors.As(err, &rerr) && rerr.State == StateRejected
}

func path(states []State) string {
	parts := make([]string, len(states))
	for i, s := range states {
		parts[i] = string(s)
	}
	return strings.Join(parts, " -> ")
}
