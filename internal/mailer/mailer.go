// Package mailer sends transactional mail to candidates through the
// Gmail API, acting as the recruiter who owns the candidate's search.
// Every attempt is recorded in email_logs; failed sends are retried by
// the periodic sweep until the attempt budget runs out.
package mailer

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"talentpipe/ats-service/internal/googleauth"
)

// Mail kinds recorded in email_logs.
const (
	KindBookingLink  = "booking_link"
	KindConfirmation = "confirmation"
)

// maxAttempts bounds sweep retries per logged email.
const maxAttempts = 5

// Mailer implements booking.Mailer.
type Mailer struct {
	pool     *pgxpool.Pool
	provider *googleauth.Provider
}

// NewMailer returns a Mailer, or nil when no OAuth provider is
// configured (mail side effects are then skipped entirely).
func NewMailer(pool *pgxpool.Pool, provider *googleauth.Provider) *Mailer {
	if provider == nil {
		return nil
	}
	return &Mailer{pool: pool, provider: provider}
}

// SendBookingLink mails the scheduling link to a candidate.
func (m *Mailer) SendBookingLink(ctx context.Context, candidateID, recipient, name, bookingURL string) error {
	subject := "Pick a time for your interview"
	body := fmt.Sprintf(
		"Hi %s,\n\nThanks for your application. Please pick an interview slot that works for you:\n\n%s\n\nThe link is personal — don't share it.\n",
		name, bookingURL,
	)
	return m.send(ctx, candidateID, recipient, subject, body, KindBookingLink)
}

// SendConfirmation mails the interview details after a confirmed
// booking.
func (m *Mailer) SendConfirmation(ctx context.Context, candidateID, recipient, name string, start, end time.Time, meetLink string) error {
	subject := "Your interview is confirmed"
	body := confirmationBody(name, start, end, meetLink)
	return m.send(ctx, candidateID, recipient, subject, body, KindConfirmation)
}

func confirmationBody(name string, start, end time.Time, meetLink string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Hi %s,\n\nYour interview is confirmed:\n\n", name)
	fmt.Fprintf(&sb, "  When: %s – %s\n",
		start.Format("Monday, 2 January 2006 15:04 MST"),
		end.Format("15:04 MST"),
	)
	if meetLink != "" {
		fmt.Fprintf(&sb, "  Where: %s\n", meetLink)
	}
	sb.WriteString("\nSee you there!\n")
	return sb.String()
}

// send performs one delivery attempt and records it in email_logs.
func (m *Mailer) send(ctx context.Context, candidateID, recipient, subject, body, kind string) error {
	sendErr := m.deliver(ctx, candidateID, recipient, subject, body)

	status, errMsg := "sent", ""
	if sendErr != nil {
		status, errMsg = "failed", sendErr.Error()
	}
	if _, logErr := m.pool.Exec(ctx,
		`INSERT INTO email_logs (candidate_id, recipient, subject, body, kind, status, error, attempts, sent_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, 1, CASE WHEN $6 = 'sent' THEN NOW() END)`,
		candidateID, recipient, subject, body, kind, status, errMsg,
	); logErr != nil {
		return fmt.Errorf("record email log: %w", errors.Join(sendErr, logErr))
	}

	return sendErr
}

// deliver sends one message as the recruiter who owns the candidate.
func (m *Mailer) deliver(ctx context.Context, candidateID, recipient, subject, body string) error {
	userID, err := m.recruiterFor(ctx, candidateID)
	if err != nil {
		return err
	}

	client, err := m.provider.ClientFor(ctx, userID)
	if err != nil {
		return err
	}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return fmt.Errorf("gmail service: %w", err)
	}

	msg := &gmail.Message{Raw: encodeMessage(recipient, subject, body)}
	if _, err := svc.Users.Messages.Send("me", msg).Context(ctx).Do(); err != nil {
		return fmt.Errorf("gmail send: %w", err)
	}
	return nil
}

// recruiterFor resolves the recruiter owning the candidate's search.
// Credential lookup is always keyed by this id — never a shared admin
// identity.
func (m *Mailer) recruiterFor(ctx context.Context, candidateID string) (string, error) {
	var userID string
	err := m.pool.QueryRow(ctx,
		`SELECT b.user_id
		 FROM postulantes p
		 JOIN busquedas b ON b.id = p.busqueda_id
		 WHERE p.id = $1`,
		candidateID,
	).Scan(&userID)
	if err != nil {
		return "", fmt.Errorf("resolve recruiter for candidate %s: %w", candidateID, err)
	}
	return userID, nil
}

// encodeMessage builds the base64url-encoded RFC 2822 payload the Gmail
// API expects.
func encodeMessage(to, subject, body string) string {
	var sb strings.Builder
	sb.WriteString("To: " + to + "\r\n")
	sb.WriteString("Subject: " + subject + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(body)
	return base64.URLEncoding.EncodeToString([]byte(sb.String()))
}

// RetryFailed re-sends failed log entries that still have attempt budget
// left. Wired into the periodic sweep.
func (m *Mailer) RetryFailed(ctx context.Context) error {
	rows, err := m.pool.Query(ctx,
		`SELECT id, candidate_id, recipient, subject, body
		 FROM email_logs
		 WHERE status = 'failed' AND attempts < $1
		 ORDER BY created_at ASC
		 LIMIT 50`,
		maxAttempts,
	)
	if err != nil {
		return fmt.Errorf("list failed emails: %w", err)
	}
	defer rows.Close()

	type pending struct {
		id, candidateID, recipient, subject, body string
	}
	var batch []pending
	for rows.Next() {
		var p pending
		if err := rows.Scan(&p.id, &p.candidateID, &p.recipient, &p.subject, &p.body); err != nil {
			return fmt.Errorf("scan failed email: %w", err)
		}
		batch = append(batch, p)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, p := range batch {
		sendErr := m.deliver(ctx, p.candidateID, p.recipient, p.subject, p.body)
		status, errMsg := "sent", ""
		if sendErr != nil {
			status, errMsg = "failed", sendErr.Error()
		}
		if _, err := m.pool.Exec(ctx,
			`UPDATE email_logs
			 SET status = $1, error = $2, attempts = attempts + 1,
			     sent_at = CASE WHEN $1 = 'sent' THEN NOW() ELSE sent_at END
			 WHERE id = $3`,
			status, errMsg, p.id,
		); err != nil {
			return fmt.Errorf("update email log %s: %w", p.id, err)
		}
	}
	return nil
}
