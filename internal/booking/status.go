// Package booking implements the interview-booking workflow: token
// issuance, public slot listing, and the slot-confirmation state
// transition with its side-effect fan-out.
//
// Scheduling status graph for a candidate:
//
//	pending ──► sent ──► replied ──► confirmed
//	    │         │          │
//	    └─────────┴──────────┴──► rejected | cancelled
//
// sent may also jump straight to confirmed (the candidate books without
// replying). confirmed, rejected and cancelled are terminal: once a
// candidate is confirmed, no further scheduling mutation is permitted.
package booking

import "fmt"

// Status values mirror the scheduling_status enum in PostgreSQL.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSent      Status = "sent"
	StatusReplied   Status = "replied"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[Status][]Status{
	StatusPending: {StatusSent, StatusRejected, StatusCancelled},
	StatusSent:    {StatusReplied, StatusConfirmed, StatusRejected, StatusCancelled},
	StatusReplied: {StatusConfirmed, StatusRejected, StatusCancelled},
	// confirmed, rejected and cancelled are terminal — no outgoing transitions
}

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusPending, StatusSent, StatusReplied, StatusConfirmed, StatusRejected, StatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("unknown scheduling status %q", s)
}

// IsTransitionAllowed returns true when moving from → to is permitted by
// the state machine.
func IsTransitionAllowed(from, to Status) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false // terminal state — no outgoing transitions
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// IsConfirmed returns true when status is confirmed. Confirmation is
// monotonic: every write path checks this guard before mutating
// scheduling fields.
func IsConfirmed(s Status) bool { return s == StatusConfirmed }

// IsTerminal returns true for states with no outgoing transitions
// (confirmed, rejected, cancelled). Terminal candidates can no longer
// be issued links or book slots.
func IsTerminal(s Status) bool {
	_, ok := validTransitions[s]
	return !ok
}
