// Package availability manages recruiter interview slots. Recruiters
// bulk-replace their future open slots from the calendar UI. Booked
// rows are never touched here: flipping is_booked belongs to the
// booking package, and it only ever goes from false to true.
package availability

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Slot is one availability window as exposed to the recruiter UI.
type Slot struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	IsBooked  bool      `json:"is_booked"`
}

// SlotInput is one window in a bulk-replace payload.
type SlotInput struct {
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// ValidateSlots checks a bulk-replace payload: every window must lie in
// the future, end after start, and windows must not overlap each other.
func ValidateSlots(slots []SlotInput, now time.Time) error {
	for i, s := range slots {
		if !s.EndTime.After(s.StartTime) {
			return &ValidationError{Msg: fmt.Sprintf("slot %d: end_time must be after start_time", i)}
		}
		if s.StartTime.Before(now) {
			return &ValidationError{Msg: fmt.Sprintf("slot %d: start_time must be in the future", i)}
		}
	}

	ordered := make([]SlotInput, len(slots))
	copy(ordered, slots)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].StartTime.Before(ordered[j].StartTime) })
	for i := 1; i < len(ordered); i++ {
		if ordered[i].StartTime.Before(ordered[i-1].EndTime) {
			return &ValidationError{Msg: fmt.Sprintf(
				"slots overlap: %s conflicts with %s",
				ordered[i].StartTime.Format(time.RFC3339),
				ordered[i-1].StartTime.Format(time.RFC3339),
			)}
		}
	}
	return nil
}

// Service holds the availability persistence logic.
type Service struct {
	pool *pgxpool.Pool
}

// NewService returns a configured Service.
func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool}
}

// Replace swaps the recruiter's future open slots for the given payload
// in one transaction. Booked slots survive the replace untouched.
func (s *Service) Replace(ctx context.Context, userID string, slots []SlotInput) ([]Slot, error) {
	if err := ValidateSlots(slots, time.Now()); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin replace tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM availability
		 WHERE user_id = $1 AND is_booked = false AND start_time >= NOW()`,
		userID,
	); err != nil {
		return nil, fmt.Errorf("clear open slots: %w", err)
	}

	out := make([]Slot, 0, len(slots))
	for _, in := range slots {
		sl := Slot{
			ID:        uuid.NewString(),
			UserID:    userID,
			StartTime: in.StartTime,
			EndTime:   in.EndTime,
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO availability (id, user_id, start_time, end_time, is_booked)
			 VALUES ($1, $2, $3, $4, false)`,
			sl.ID, sl.UserID, sl.StartTime, sl.EndTime,
		); err != nil {
			return nil, fmt.Errorf("insert slot: %w", err)
		}
		out = append(out, sl)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit replace tx: %w", err)
	}
	return out, nil
}

// Upcoming lists the recruiter's future slots, booked included, soonest
// first.
func (s *Service) Upcoming(ctx context.Context, userID string) ([]Slot, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, start_time, end_time, is_booked
		 FROM availability
		 WHERE user_id = $1 AND start_time >= NOW()
		 ORDER BY start_time ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("upcoming query: %w", err)
	}
	defer rows.Close()

	slots := make([]Slot, 0)
	for rows.Next() {
		var sl Slot
		if err := rows.Scan(&sl.ID, &sl.UserID, &sl.StartTime, &sl.EndTime, &sl.IsBooked); err != nil {
			return nil, fmt.Errorf("upcoming scan: %w", err)
		}
		slots = append(slots, sl)
	}
	return slots, rows.Err()
}

// PruneExpired deletes past slots that were never booked. Booked rows
// are kept — they document confirmed interviews. Wired into the
// periodic sweep.
func (s *Service) PruneExpired(ctx context.Context) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM availability
		 WHERE is_booked = false AND end_time < NOW()`,
	)
	if err != nil {
		return fmt.Errorf("prune expired slots: %w", err)
	}
	if n := tag.RowsAffected(); n > 0 {
		slog.Info("pruned expired slots", "count", n)
	}
	return nil
}
