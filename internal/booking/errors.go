package booking

import "errors"

// Sentinel errors returned by the booking workflow. The HTTP layer maps
// them to status codes; callers branch with errors.Is.
var (
	// ErrInvalidToken — no candidate holds the presented booking token.
	// The same error covers never-issued and overwritten tokens.
	ErrInvalidToken = errors.New("booking token not found")

	// ErrCandidateNotFound — the candidate id does not resolve.
	ErrCandidateNotFound = errors.New("candidate not found")

	// ErrSearchNotFound — the candidate's job posting is missing.
	// Should not happen given referential integrity; checked defensively.
	ErrSearchNotFound = errors.New("search not found")

	// ErrSlotNotFound — the chosen availability slot does not exist.
	ErrSlotNotFound = errors.New("slot not found")

	// ErrSlotTaken — the slot was booked by a concurrent confirmation.
	// Retrying with the same slot will not succeed; pick another.
	ErrSlotTaken = errors.New("slot already booked")

	// ErrAlreadyConfirmed — the candidate already holds a confirmed
	// interview. The confirmation is idempotent: nothing was mutated.
	ErrAlreadyConfirmed = errors.New("candidate already confirmed")
)

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }
