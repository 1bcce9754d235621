// Package search manages busquedas, the job postings recruiters run
// candidates against. Deleting a search cascades to its candidates at
// the schema level.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a search id does not resolve.
var ErrNotFound = errors.New("search not found")

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// Lifecycle statuses of a search.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusClosed   = "closed"
)

// Search is a busqueda row as exposed over the API.
type Search struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Title         string          `json:"title"`
	Description   string          `json:"description,omitempty"`
	Status        string          `json:"status"`
	Requirements  json.RawMessage `json:"requirements,omitempty"`
	WebhookStatus string          `json:"webhook_status,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Input is a create/update payload.
type Input struct {
	UserID       string          `json:"userId"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Status       string          `json:"status"`
	Requirements json.RawMessage `json:"requirements"`
}

// WorkflowTrigger kicks off the external sourcing automation for a
// search. Implemented by the workflow package; nil when not configured.
type WorkflowTrigger interface {
	TriggerSourcing(ctx context.Context, search Search) error
}

// ValidateInput checks a create/update payload. Status defaults to
// active when empty.
func ValidateInput(in Input) error {
	if strings.TrimSpace(in.Title) == "" {
		return &ValidationError{Msg: "title is required"}
	}
	switch in.Status {
	case "", StatusActive, StatusInactive, StatusClosed:
		return nil
	default:
		return &ValidationError{Msg: fmt.Sprintf("unknown status %q", in.Status)}
	}
}

// Service holds the search persistence logic.
type Service struct {
	pool     *pgxpool.Pool
	workflow WorkflowTrigger
}

// NewService returns a configured Service. workflow may be nil; the
// sourcing trigger then reports the integration as unconfigured.
func NewService(pool *pgxpool.Pool, workflow WorkflowTrigger) *Service {
	return &Service{pool: pool, workflow: workflow}
}

const searchColumns = `id, user_id, title, COALESCE(description, ''), status,
	requirements, COALESCE(webhook_status, ''), created_at, updated_at`

func scanSearch(row pgx.Row) (*Search, error) {
	var s Search
	err := row.Scan(
		&s.ID, &s.UserID, &s.Title, &s.Description, &s.Status,
		&s.Requirements, &s.WebhookStatus, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan search: %w", err)
	}
	return &s, nil
}

// Create stores a new search for a recruiter.
func (s *Service) Create(ctx context.Context, in Input) (*Search, error) {
	if strings.TrimSpace(in.UserID) == "" {
		return nil, &ValidationError{Msg: "userId is required"}
	}
	if err := ValidateInput(in); err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = StatusActive
	}

	row := s.pool.QueryRow(ctx,
		`INSERT INTO busquedas (id, user_id, title, description, status, requirements)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+searchColumns,
		uuid.NewString(), in.UserID, strings.TrimSpace(in.Title), in.Description, status, in.Requirements,
	)
	return scanSearch(row)
}

// Get resolves one search by id.
func (s *Service) Get(ctx context.Context, id string) (*Search, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+searchColumns+` FROM busquedas WHERE id = $1`, id)
	return scanSearch(row)
}

// List returns a recruiter's searches, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]Search, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+searchColumns+` FROM busquedas
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list searches: %w", err)
	}
	defer rows.Close()

	out := make([]Search, 0)
	for rows.Next() {
		sr, err := scanSearch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *sr)
	}
	return out, rows.Err()
}

// Update replaces a search's mutable fields.
func (s *Service) Update(ctx context.Context, id string, in Input) (*Search, error) {
	if err := ValidateInput(in); err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = StatusActive
	}

	row := s.pool.QueryRow(ctx,
		`UPDATE busquedas
		 SET title = $1, description = $2, status = $3, requirements = $4, updated_at = NOW()
		 WHERE id = $5
		 RETURNING `+searchColumns,
		strings.TrimSpace(in.Title), in.Description, status, in.Requirements, id,
	)
	return scanSearch(row)
}

// Delete removes a search. Candidates go with it via the FK cascade.
func (s *Service) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM busquedas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete search: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// TriggerSourcing fires the external sourcing workflow for a search and
// records the outcome in webhook_status.
func (s *Service) TriggerSourcing(ctx context.Context, id string) error {
	sr, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if s.workflow == nil {
		return &ValidationError{Msg: "sourcing workflow is not configured"}
	}

	status := "triggered"
	if err := s.workflow.TriggerSourcing(ctx, *sr); err != nil {
		status = "failed"
		slog.Warn("sourcing trigger failed", "searchId", id, "err", err)
	}
	if _, uerr := s.pool.Exec(ctx,
		`UPDATE busquedas SET webhook_status = $1, updated_at = NOW() WHERE id = $2`,
		status, id,
	); uerr != nil {
		return fmt.Errorf("record webhook status: %w", uerr)
	}

	if status == "failed" {
		return fmt.Errorf("sourcing workflow rejected the trigger")
	}
	return nil
}
