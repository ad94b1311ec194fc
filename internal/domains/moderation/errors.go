package moderation

import "fmt"

// NotAllowedError is raised for any (state, operation) pair absent from the
// transition table.
type NotAllowedError struct {
	Entity string
	State  State
	Op     string
}

func (e *NotAllowedError) Error() string {
	return fmt.Sprintf("%s is not allowed for a %s in %s state", e.Op, e.Entity, e.State)
}

// DeclinedUpdateError is raised when an update targets a declined entry.
// Forbidden distinguishes it from plain bad-request validation at the
// transport boundary.
type DeclinedUpdateError struct {
	Entity string
}

func (e *DeclinedUpdateError) Error() string {
	return fmt.Sprintf("cannot update a %s in declined state: only acceptance reopens it", e.Entity)
}

// Forbidden marks the error as a permission failure rather than invalid input.
func (e *DeclinedUpdateError) Forbidden() bool { return true }
