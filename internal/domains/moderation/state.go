// Package moderation implements the lifecycle of user-submitted catalog
// entries. Every entry moves between Submitted, Accepted and Declined
// through the operations defined here; no caller may set a state directly.
//
// The machine is defined once and shared by every moderated entity family
// (books, authors) through the Moderatable capability. Per-state behavior
// lives in one handler type per state, selected by an exhaustive switch
// over the closed State set.
package moderation

import (
	"fmt"
	"time"

	"readinghub-backend/internal/shared/auth"
)

// State is the persisted moderation state of a catalog entry.
type State string

const (
	StateSubmitted State = "submitted"
	StateAccepted  State = "accepted"
	StateDeclined  State = "declined"
)

// Parse converts a persisted state name into a State. An unrecognized name
// means the row is corrupted or a handler registration is missing; that is
// not a domain error, so it panics instead of returning one.
func Parse(raw string) State {
	switch State(raw) {
	case StateSubmitted, StateAccepted, StateDeclined:
		return State(raw)
	default:
		panic(fmt.Sprintf("moderation: unknown persisted state %q", raw))
	}
}

func (s State) String() string { return string(s) }

// InitialState selects the state a brand-new entry is persisted with.
// Moderator submissions skip the queue; everything else starts Submitted.
// "Initial" itself is virtual: no row ever carries it.
func InitialState(actor auth.Context) State {
	if actor.IsModerator() {
		return StateAccepted
	}
	return StateSubmitted
}

// Moderatable is the capability an entity needs to participate in moderation.
type Moderatable interface {
	// EntityName is the lowercase family name used in error messages.
	EntityName() string
	ModerationState() State
	SetModerationState(State)
	// Touch refreshes the entity's updatedAt timestamp.
	Touch(now time.Time)
}

// EnsureUpdatable returns a domain error when the entry's current state does
// not permit updates. Declined entries are locked until re-accepted.
func EnsureUpdatable(e Moderatable) error {
	return handlerFor(e.ModerationState()).update(e.EntityName())
}

// Accept transitions the entry to Accepted. Legal from Submitted and
// Declined. Trusts the already-persisted data: no re-validation happens.
func Accept(e Moderatable, now time.Time) error {
	next, err := handlerFor(e.ModerationState()).accept(e.EntityName())
	if err != nil {
		return err
	}
	e.SetModerationState(next)
	e.Touch(now)
	return nil
}

// Decline transitions the entry to Declined. Legal from Submitted and
// Accepted.
func Decline(e Moderatable, now time.Time) error {
	next, err := handlerFor(e.ModerationState()).decline(e.EntityName())
	if err != nil {
		return err
	}
	e.SetModerationState(next)
	e.Touch(now)
	return nil
}
