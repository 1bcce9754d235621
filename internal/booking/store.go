package booking

import (
	"context"
	"time"
)

// Candidate is the slice of a postulantes row the booking workflow reads
// and writes. AI grading fields are owned by the candidate package and
// never touched here.
type Candidate struct {
	ID           string
	SearchID     string
	Name         string
	Email        string
	Status       Status
	BookingToken *string
	ConfirmedAt  *time.Time
	EventID      *string
	MeetLink     *string
}

// Search identifies the job posting a candidate belongs to and, through
// UserID, the recruiter whose availability is offered.
type Search struct {
	ID     string
	UserID string
	Title  string
}

// Slot is a recruiter availability window. IsBooked transitions only
// false → true, exactly once, during confirmation.
type Slot struct {
	ID        string
	UserID    string
	StartTime time.Time
	EndTime   time.Time
	IsBooked  bool
}

// Store is the persistence boundary of the booking workflow. The
// production implementation is PgStore; tests use an in-memory fake with
// the same claim semantics.
type Store interface {
	// CandidateByID resolves a candidate or returns ErrCandidateNotFound.
	CandidateByID(ctx context.Context, id string) (*Candidate, error)

	// CandidateByToken resolves a candidate by exact token match or
	// returns ErrInvalidToken.
	CandidateByToken(ctx context.Context, token string) (*Candidate, error)

	// SearchByID resolves a job posting or returns ErrSearchNotFound.
	SearchByID(ctx context.Context, id string) (*Search, error)

	// AssignToken overwrites the candidate's booking token (at most one
	// live token per candidate) and bumps scheduling status pending →
	// sent. Returns ErrCandidateNotFound if the id does not resolve.
	AssignToken(ctx context.Context, candidateID, token string) error

	// OpenSlots lists the recruiter's unbooked slots starting at or after
	// from, ordered ascending by start time, capped at limit.
	OpenSlots(ctx context.Context, userID string, from time.Time, limit int) ([]Slot, error)

	// SlotByID resolves a slot or returns ErrSlotNotFound.
	SlotByID(ctx context.Context, id string) (*Slot, error)

	// ConfirmBooking atomically claims the slot and confirms the
	// candidate. The slot claim is conditional (is_booked must still be
	// false); both writes commit together or not at all. Returns
	// ErrSlotTaken when a concurrent confirmation won the slot, and
	// ErrAlreadyConfirmed when the candidate was confirmed in the
	// meantime — in both cases nothing is mutated.
	ConfirmBooking(ctx context.Context, candidateID string, slot Slot, confirmedAt time.Time) error

	// SaveEventLink persists the calendar event id and meeting link after
	// a successful side-effect run. Best-effort: callers log failures.
	SaveEventLink(ctx context.Context, candidateID, eventID, meetLink string) error
}
