package moderation

import "fmt"

// handler is the per-state operation contract. Each state type overrides
// only the operations legal in that state; everything else falls through to
// the fail-closed base.
type handler interface {
	update(entity string) error
	accept(entity string) (State, error)
	decline(entity string) (State, error)
}

// base fails every operation with a "not allowed" error.
type base struct {
	state State
}

func (b base) update(entity string) error {
	return &NotAllowedError{Entity: entity, State: b.state, Op: "update"}
}

func (b base) accept(entity string) (State, error) {
	return "", &NotAllowedError{Entity: entity, State: b.state, Op: "accept"}
}

func (b base) decline(entity string) (State, error) {
	return "", &NotAllowedError{Entity: entity, State: b.state, Op: "decline"}
}

type submittedState struct{ base }

func (submittedState) update(string) error { return nil }

func (submittedState) accept(string) (State, error) { return StateAccepted, nil }

func (submittedState) decline(string) (State, error) { return StateDeclined, nil }

type acceptedState struct{ base }

func (acceptedState) update(string) error { return nil }

func (acceptedState) decline(string) (State, error) { return StateDeclined, nil }

type declinedState struct{ base }

// Declined entries are locked: only acceptance reopens them.
func (declinedState) update(entity string) error {
	return &DeclinedUpdateError{Entity: entity}
}

func (declinedState) accept(string) (State, error) { return StateAccepted, nil }

func handlerFor(s State) handler {
	switch s {
	case StateSubmitted:
		return submittedState{base{StateSubmitted}}
	case StateAccepted:
		return acceptedState{base{StateAccepted}}
	case StateDeclined:
		return declinedState{base{StateDeclined}}
	default:
		panic(fmt.Sprintf("moderation: no handler for state %q", s))
	}
}
