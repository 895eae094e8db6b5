// Package booking owns the booking status lifecycle: which statuses exist
// and which transitions between them are legal. It is pure; persistence of
// the status lives in storage and is always guarded by AssertTransition.
package booking

import "fmt"

// Status is a booking lifecycle status.
type Status string

const (
	StatusPending             Status = "pending"
	StatusConfirmed           Status = "confirmed"
	StatusPaid                Status = "paid"
	StatusCompletedByProvider Status = "completed_by_provider"
	StatusCompleted           Status = "completed"
	StatusCanceled            Status = "canceled"
	StatusRefunded            Status = "refunded"
	StatusDisputed            Status = "disputed"
	StatusDisputeResolved     Status = "dispute_resolved"
)

// transitions is the fixed adjacency table. A transition current -> next
// is legal iff next appears in transitions[current]. Terminal statuses map
// to an empty set. Same-state transitions are never listed, so they are
// rejected like any other missing edge.
var transitions = map[Status][]Status{
	StatusPending:             {StatusConfirmed, StatusCanceled},
	StatusConfirmed:           {StatusPaid, StatusCanceled},
	StatusPaid:                {StatusCompletedByProvider, StatusRefunded, StatusDisputed},
	StatusCompletedByProvider: {StatusCompleted, StatusDisputed},
	StatusCompleted:           {StatusDisputed, StatusRefunded},
	StatusDisputed:            {StatusDisputeResolved, StatusRefunded},
	StatusCanceled:            {},
	StatusRefunded:            {},
	StatusDisputeResolved:     {},
}

// InvalidTransitionError reports a rejected status transition, naming the
// current and requested statuses.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid booking transition: %s -> %s", e.From, e.To)
}

// Valid reports whether s is a known booking status.
func Valid(s Status) bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether s is a known status with no legal successors.
func Terminal(s Status) bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// SettableByParty reports whether a booking's customer or provider may
// request the transition to next themselves. Settlement statuses (paid,
// refunded) only move on payment events, and dispute resolution is an
// admin action.
func SettableByParty(next Status) bool {
	switch next {
	case StatusPaid, StatusRefunded, StatusDisputeResolved:
		return false
	}
	return true
}

// AssertTransition returns nil iff moving from current to next is legal.
// Unknown statuses, terminal statuses and same-state transitions all fail
// with *InvalidTransitionError.
func AssertTransition(current, next Status) error {
	for _, allowed := range transitions[current] {
		if allowed == next {
			return nil
		}
	}
	return &InvalidTransitionError{From: current, To: next}
}
