// Package candidate manages postulantes: public applications, bulk
// ingestion from the sourcing workflow, AI grading callbacks and
// recruiter notes.
package candidate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"talentpipe/ats-service/internal/events"
)

// Sentinel errors mapped to HTTP statuses at the transport edge.
var (
	ErrNotFound       = errors.New("candidate not found")
	ErrSearchNotFound = errors.New("search not found")
)

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// Candidate is a postulante row as exposed over the API.
type Candidate struct {
	ID          string     `json:"id"`
	SearchID    string     `json:"busqueda_id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Resume      string     `json:"resume,omitempty"`
	AIScore     *int       `json:"ai_score,omitempty"`
	AISummary   string     `json:"ai_summary,omitempty"`
	AdminNotes  string     `json:"admin_notes,omitempty"`
	Status      string     `json:"scheduling_status"`
	ConfirmedAt *time.Time `json:"interview_confirmed_at,omitempty"`
	MeetLink    string     `json:"meet_link,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ApplyInput is a public application payload.
type ApplyInput struct {
	SearchID string `json:"busquedaId" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Resume   string `json:"resume"`
}

// BulkItem is one sourced candidate in a bulk-ingestion payload.
type BulkItem struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Resume string `json:"resume"`
}

// Publisher pushes domain events onto the realtime change feed.
type Publisher interface {
	Publish(ctx context.Context, event string, payload map[string]string)
}

// Service holds the candidate persistence logic.
type Service struct {
	pool   *pgxpool.Pool
	events Publisher
}

// NewService returns a configured Service.
func NewService(pool *pgxpool.Pool, pub Publisher) *Service {
	return &Service{pool: pool, events: pub}
}

// NormalizeEmail lowercases and trims an address. Dedup in bulk
// ingestion compares normalized addresses.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateApply checks a public application payload.
func ValidateApply(in ApplyInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return &ValidationError{Msg: "name is required"}
	}
	email := NormalizeEmail(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return &ValidationError{Msg: "a valid email is required"}
	}
	return nil
}

// ValidateScore checks a grading-callback score.
func ValidateScore(score int) error {
	if score < 0 || score > 100 {
		return &ValidationError{Msg: "score must be between 0 and 100"}
	}
	return nil
}

// searchStatus resolves a search's lifecycle status.
func (s *Service) searchStatus(ctx context.Context, searchID string) (string, error) {
	var status string
	err := s.pool.QueryRow(ctx,
		`SELECT status FROM busquedas WHERE id = $1`, searchID,
	).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrSearchNotFound
	}
	if err != nil {
		return "", fmt.Errorf("search status: %w", err)
	}
	return status, nil
}

// Apply records a public application under an active search. Inactive
// and closed searches refuse new applicants.
func (s *Service) Apply(ctx context.Context, in ApplyInput) (*Candidate, error) {
	if err := ValidateApply(in); err != nil {
		return nil, err
	}

	status, err := s.searchStatus(ctx, in.SearchID)
	if err != nil {
		return nil, err
	}
	if status != "active" {
		return nil, &ValidationError{Msg: "this search is no longer accepting applications"}
	}

	c := &Candidate{
		ID:       uuid.NewString(),
		SearchID: in.SearchID,
		Name:     strings.TrimSpace(in.Name),
		Email:    NormalizeEmail(in.Email),
		Resume:   in.Resume,
		Status:   "pending",
	}
	err = s.pool.QueryRow(ctx,
		`INSERT INTO postulantes (id, busqueda_id, name, email, resume, scheduling_status)
		 VALUES ($1, $2, $3, $4, $5, 'pending')
		 RETURNING created_at`,
		c.ID, c.SearchID, c.Name, c.Email, c.Resume,
	).Scan(&c.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return nil, &ValidationError{Msg: "you have already applied to this search"}
	}
	if err != nil {
		return nil, fmt.Errorf("insert candidate: %w", err)
	}

	s.events.Publish(ctx, events.CandidateCreated, map[string]string{
		"candidateId": c.ID,
		"searchId":    c.SearchID,
	})
	return c, nil
}

// BulkIngest inserts sourced candidates, skipping duplicates per
// (search, email). Returns how many rows were actually inserted.
// Idempotent: replaying the same payload inserts nothing new.
func (s *Service) BulkIngest(ctx context.Context, searchID string, items []BulkItem) (int, error) {
	if _, err := s.searchStatus(ctx, searchID); err != nil {
		return 0, err
	}

	inserted := 0
	for _, it := range items {
		email := NormalizeEmail(it.Email)
		if email == "" || strings.TrimSpace(it.Name) == "" {
			slog.Warn("skipping malformed sourced candidate", "searchId", searchID, "email", it.Email)
			continue
		}
		tag, err := s.pool.Exec(ctx,
			`INSERT INTO postulantes (id, busqueda_id, name, email, resume, scheduling_status)
			 SELECT $1, $2, $3, $4, $5, 'pending'
			 WHERE NOT EXISTS (
			     SELECT 1 FROM postulantes WHERE busqueda_id = $2 AND email = $4
			 )`,
			uuid.NewString(), searchID, strings.TrimSpace(it.Name), email, it.Resume,
		)
		if err != nil {
			return inserted, fmt.Errorf("bulk insert candidate %s: %w", email, err)
		}
		inserted += int(tag.RowsAffected())
	}

	if inserted > 0 {
		s.events.Publish(ctx, events.CandidateCreated, map[string]string{
			"searchId": searchID,
			"count":    fmt.Sprint(inserted),
		})
	}
	slog.Info("bulk ingestion finished", "searchId", searchID, "received", len(items), "inserted", inserted)
	return inserted, nil
}

// Score records the grading collaborator's verdict. Only the AI fields
// mutate; scheduling state is untouched.
func (s *Service) Score(ctx context.Context, candidateID string, score int, summary string) error {
	if err := ValidateScore(score); err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE postulantes
		 SET ai_score = $1, ai_summary = $2, updated_at = NOW()
		 WHERE id = $3`,
		score, summary, candidateID,
	)
	if err != nil {
		return fmt.Errorf("score candidate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	s.events.Publish(ctx, events.CandidateScored, map[string]string{
		"candidateId": candidateID,
		"score":       fmt.Sprint(score),
	})
	return nil
}

// UpdateNotes replaces the recruiter's private notes on a candidate.
func (s *Service) UpdateNotes(ctx context.Context, candidateID, notes string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE postulantes SET admin_notes = $1, updated_at = NOW() WHERE id = $2`,
		notes, candidateID,
	)
	if err != nil {
		return fmt.Errorf("update notes: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListBySearch returns a search's candidates, newest first.
func (s *Service) ListBySearch(ctx context.Context, searchID string) ([]Candidate, error) {
	if _, err := s.searchStatus(ctx, searchID); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, busqueda_id, name, email, resume, ai_score, ai_summary,
		        admin_notes, scheduling_status, interview_confirmed_at,
		        COALESCE(meet_link, ''), created_at
		 FROM postulantes
		 WHERE busqueda_id = $1
		 ORDER BY created_at DESC`,
		searchID,
	)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	out := make([]Candidate, 0)
	for rows.Next() {
		var c Candidate
		if err := rows.Scan(
			&c.ID, &c.SearchID, &c.Name, &c.Email, &c.Resume, &c.AIScore,
			&c.AISummary, &c.AdminNotes, &c.Status, &c.ConfirmedAt,
			&c.MeetLink, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
