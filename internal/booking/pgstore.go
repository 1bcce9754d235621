package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore is the PostgreSQL-backed Store.
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore returns a Store backed by the given pool.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

const candidateColumns = `id, busqueda_id, name, email, scheduling_status,
       booking_token, interview_confirmed_at, calendar_event_id, meet_link`

func scanCandidate(row pgx.Row) (*Candidate, error) {
	var c Candidate
	var status string
	if err := row.Scan(
		&c.ID, &c.SearchID, &c.Name, &c.Email, &status,
		&c.BookingToken, &c.ConfirmedAt, &c.EventID, &c.MeetLink,
	); err != nil {
		return nil, err
	}
	parsed, err := ParseStatus(status)
	if err != nil {
		return nil, err
	}
	c.Status = parsed
	return &c, nil
}

// CandidateByID resolves a candidate row by primary key.
func (s *PgStore) CandidateByID(ctx context.Context, id string) (*Candidate, error) {
	c, err := scanCandidate(s.pool.QueryRow(ctx,
		`SELECT `+candidateColumns+` FROM postulantes WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCandidateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("candidateByID: %w", err)
	}
	return c, nil
}

// CandidateByToken resolves a candidate by exact booking-token match.
func (s *PgStore) CandidateByToken(ctx context.Context, token string) (*Candidate, error) {
	c, err := scanCandidate(s.pool.QueryRow(ctx,
		`SELECT `+candidateColumns+` FROM postulantes WHERE booking_token = $1`, token))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("candidateByToken: %w", err)
	}
	return c, nil
}

// SearchByID resolves a job posting.
func (s *PgStore) SearchByID(ctx context.Context, id string) (*Search, error) {
	var sr Search
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, title FROM busquedas WHERE id = $1`, id,
	).Scan(&sr.ID, &sr.UserID, &sr.Title)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSearchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("searchByID: %w", err)
	}
	return &sr, nil
}

// AssignToken overwrites the booking token and bumps pending → sent.
// The status CASE keeps every other status untouched: sent/replied
// candidates keep their progress, and the unique index on booking_token
// backs global token uniqueness.
func (s *PgStore) AssignToken(ctx context.Context, candidateID, token string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE postulantes
		 SET booking_token     = $1,
		     scheduling_status = CASE WHEN scheduling_status = 'pending'
		                              THEN 'sent' ELSE scheduling_status END,
		     updated_at        = NOW()
		 WHERE id = $2`,
		token, candidateID,
	)
	if err != nil {
		return fmt.Errorf("assignToken: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCandidateNotFound
	}
	return nil
}

// OpenSlots lists unbooked future slots for a recruiter, soonest first.
func (s *PgStore) OpenSlots(ctx context.Context, userID string, from time.Time, limit int) ([]Slot, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, start_time, end_time, is_booked
		 FROM availability
		 WHERE user_id = $1 AND is_booked = false AND start_time >= $2
		 ORDER BY start_time ASC
		 LIMIT $3`,
		userID, from, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("openSlots query: %w", err)
	}
	defer rows.Close()

	slots := make([]Slot, 0)
	for rows.Next() {
		var sl Slot
		if err := rows.Scan(&sl.ID, &sl.UserID, &sl.StartTime, &sl.EndTime, &sl.IsBooked); err != nil {
			return nil, fmt.Errorf("openSlots scan: %w", err)
		}
		slots = append(slots, sl)
	}
	return slots, rows.Err()
}

// SlotByID resolves a single availability row.
func (s *PgStore) SlotByID(ctx context.Context, id string) (*Slot, error) {
	var sl Slot
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, start_time, end_time, is_booked
		 FROM availability WHERE id = $1`, id,
	).Scan(&sl.ID, &sl.UserID, &sl.StartTime, &sl.EndTime, &sl.IsBooked)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("slotByID: %w", err)
	}
	return &sl, nil
}

// ConfirmBooking claims the slot and confirms the candidate in a single
// transaction. The slot claim is a conditional update — zero rows
// affected means a concurrent confirmation won, and the transaction
// rolls back with ErrSlotTaken. The candidate write re-checks the
// terminal-state guard the same way (a candidate confirmed, rejected or
// cancelled in the meantime takes zero rows), so the first-writer-wins
// discipline holds for both rows without any read-then-act window.
func (s *PgStore) ConfirmBooking(ctx context.Context, candidateID string, slot Slot, confirmedAt time.Time) error {
	snapshot, err := json.Marshal(map[string]any{
		"id":         slot.ID,
		"start_time": slot.StartTime.UTC().Format(time.RFC3339),
		"end_time":   slot.EndTime.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("marshal slot snapshot: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin confirm tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE availability
		 SET is_booked = true
		 WHERE id = $1 AND is_booked = false`,
		slot.ID,
	)
	if err != nil {
		return fmt.Errorf("claim slot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSlotTaken
	}

	tag, err = tx.Exec(ctx,
		`UPDATE postulantes
		 SET scheduling_status      = 'confirmed',
		     interview_confirmed_at = $1,
		     selected_slot          = $2::jsonb,
		     updated_at             = NOW()
		 WHERE id = $3
		   AND scheduling_status NOT IN ('confirmed', 'rejected', 'cancelled')`,
		confirmedAt, string(snapshot), candidateID,
	)
	if err != nil {
		return fmt.Errorf("confirm candidate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyConfirmed
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit confirm tx: %w", err)
	}
	return nil
}

// SaveEventLink persists calendar side-effect output on the candidate.
func (s *PgStore) SaveEventLink(ctx context.Context, candidateID, eventID, meetLink string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE postulantes
		 SET calendar_event_id = $1, meet_link = $2, updated_at = NOW()
		 WHERE id = $3`,
		eventID, meetLink, candidateID,
	)
	if err != nil {
		return fmt.Errorf("saveEventLink: %w", err)
	}
	return nil
}
