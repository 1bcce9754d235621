package booking

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"talentpipe/ats-service/internal/events"
)

// maxSlots bounds the public slot listing response.
const maxSlots = 100

// scheduleGuard refuses scheduling reads and writes for candidates in a
// terminal state. Confirmed surfaces as ErrAlreadyConfirmed so the
// public page can render its dedicated message; rejected and cancelled
// are plain validation failures.
func scheduleGuard(s Status) error {
	switch {
	case IsConfirmed(s):
		return ErrAlreadyConfirmed
	case IsTerminal(s):
		return &ValidationError{Msg: fmt.Sprintf("candidate is %s and can no longer be scheduled", s)}
	}
	return nil
}

// InterviewEvent carries everything the calendar adapter needs to create
// an event with the candidate as attendee.
type InterviewEvent struct {
	CandidateName  string
	CandidateEmail string
	SearchTitle    string
	Start          time.Time
	End            time.Time
}

// EventCreator creates a calendar event on the recruiter's calendar and
// returns the event id and conferencing link.
type EventCreator interface {
	CreateInterviewEvent(ctx context.Context, userID string, ev InterviewEvent) (eventID, meetLink string, err error)
}

// Mailer sends transactional mail to candidates.
type Mailer interface {
	SendBookingLink(ctx context.Context, candidateID, recipient, name, bookingURL string) error
	SendConfirmation(ctx context.Context, candidateID, recipient, name string, start, end time.Time, meetLink string) error
}

// Publisher pushes domain events onto the realtime change feed.
// Implementations must be non-fatal: a failed publish is logged, never
// returned.
type Publisher interface {
	Publish(ctx context.Context, event string, payload map[string]string)
}

// Dispatcher runs a side-effect asynchronously with its own retry policy,
// decoupled from the request/response cycle.
type Dispatcher interface {
	Go(name string, fn func(ctx context.Context) error)
}

// Service encapsulates the booking workflow. It has no dependency on the
// HTTP layer — handlers translate its results and sentinel errors.
type Service struct {
	store    Store
	calendar EventCreator
	mailer   Mailer
	events   Publisher
	fanout   Dispatcher
	baseURL  string
}

// NewService wires the booking workflow. calendar and mailer may be nil
// when the corresponding integration is not configured; the workflow
// skips those side effects.
func NewService(store Store, calendar EventCreator, mailer Mailer, events Publisher, fanout Dispatcher, baseURL string) *Service {
	return &Service{
		store:    store,
		calendar: calendar,
		mailer:   mailer,
		events:   events,
		fanout:   fanout,
		baseURL:  baseURL,
	}
}

// ─── Token issuance ──────────────────────────────────────────────────────────

// IssueResult is returned by Issue.
type IssueResult struct {
	Token          string
	URL            string
	CandidateName  string
	CandidateEmail string
	SearchTitle    string
}

// Issue generates a booking token for the candidate and stores it,
// overwriting any prior token — at most one live token per candidate.
// The previous link stops resolving because lookup is by exact token
// match. Scheduling status moves pending → sent; terminal candidates
// (confirmed, rejected, cancelled) can no longer be issued a link.
func (s *Service) Issue(ctx context.Context, candidateID string) (*IssueResult, error) {
	c, err := s.store.CandidateByID(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if err := scheduleGuard(c.Status); err != nil {
		return nil, err
	}

	search, err := s.store.SearchByID(ctx, c.SearchID)
	if err != nil {
		return nil, err
	}

	token := NewToken()
	if err := s.store.AssignToken(ctx, c.ID, token); err != nil {
		return nil, fmt.Errorf("assign token: %w", err)
	}

	s.events.Publish(ctx, events.BookingLinkIssued, map[string]string{
		"candidateId": c.ID,
		"searchId":    search.ID,
	})

	return &IssueResult{
		Token:          token,
		URL:            BookingURL(s.baseURL, token),
		CandidateName:  c.Name,
		CandidateEmail: c.Email,
		SearchTitle:    search.Title,
	}, nil
}

// ─── Slot listing ────────────────────────────────────────────────────────────

// SlotListing is the public scheduling page payload.
type SlotListing struct {
	CandidateName string
	SearchTitle   string
	Slots         []Slot
}

// ListSlots resolves the candidate behind a token and returns the owning
// recruiter's open future slots, ascending by start time. Pure read.
// Returns ErrAlreadyConfirmed for candidates who already booked, so the
// page can short-circuit double-booking attempts at the read stage;
// rejected and cancelled candidates are refused the same way.
func (s *Service) ListSlots(ctx context.Context, token string) (*SlotListing, error) {
	c, err := s.store.CandidateByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := scheduleGuard(c.Status); err != nil {
		return nil, err
	}

	search, err := s.store.SearchByID(ctx, c.SearchID)
	if err != nil {
		return nil, err
	}

	slots, err := s.store.OpenSlots(ctx, search.UserID, time.Now(), maxSlots)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}

	return &SlotListing{
		CandidateName: c.Name,
		SearchTitle:   search.Title,
		Slots:         slots,
	}, nil
}

// ─── Confirmation ────────────────────────────────────────────────────────────

// ConfirmResult is returned by Confirm. MeetLink is empty when the
// calendar side effect was skipped or failed.
type ConfirmResult struct {
	CandidateName string
	StartTime     time.Time
	EndTime       time.Time
	MeetLink      string
}

// Confirm books the chosen slot for the candidate behind the token.
//
// The slot claim and the candidate confirmation run in one transactional
// unit (Store.ConfirmBooking): the claim is conditional, so of two
// concurrent confirmations for the same slot exactly one succeeds and
// the other gets ErrSlotTaken. Calendar event creation and the
// confirmation email are best-effort side effects after commit — their
// failure never fails the confirmation, the response merely omits the
// meeting link.
func (s *Service) Confirm(ctx context.Context, token, slotID string) (*ConfirmResult, error) {
	c, err := s.store.CandidateByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := scheduleGuard(c.Status); err != nil {
		return nil, err
	}
	if !IsTransitionAllowed(c.Status, StatusConfirmed) {
		return nil, &ValidationError{Msg: fmt.Sprintf("a %s candidate cannot confirm an interview", c.Status)}
	}

	search, err := s.store.SearchByID(ctx, c.SearchID)
	if err != nil {
		return nil, err
	}

	slot, err := s.store.SlotByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	// A slot belonging to another recruiter is indistinguishable from a
	// missing one as far as this candidate is concerned.
	if slot.UserID != search.UserID {
		return nil, ErrSlotNotFound
	}
	if slot.IsBooked {
		return nil, ErrSlotTaken
	}

	confirmedAt := time.Now().UTC()
	if err := s.store.ConfirmBooking(ctx, c.ID, *slot, confirmedAt); err != nil {
		return nil, err
	}

	s.events.Publish(ctx, events.CandidateConfirmed, map[string]string{
		"candidateId": c.ID,
		"searchId":    search.ID,
		"slotId":      slot.ID,
	})

	result := &ConfirmResult{
		CandidateName: c.Name,
		StartTime:     slot.StartTime,
		EndTime:       slot.EndTime,
	}

	// Calendar event, synchronous so the response can carry the meeting
	// link, but strictly best-effort.
	if s.calendar != nil {
		eventID, meetLink, err := s.calendar.CreateInterviewEvent(ctx, search.UserID, InterviewEvent{
			CandidateName:  c.Name,
			CandidateEmail: c.Email,
			SearchTitle:    search.Title,
			Start:          slot.StartTime,
			End:            slot.EndTime,
		})
		if err != nil {
			slog.Warn("calendar event creation failed", "candidateId", c.ID, "err", err)
		} else {
			result.MeetLink = meetLink
			if err := s.store.SaveEventLink(ctx, c.ID, eventID, meetLink); err != nil {
				slog.Warn("persisting event link failed", "candidateId", c.ID, "err", err)
			}
		}
	}

	// Confirmation email, asynchronous with its own retry budget.
	if s.mailer != nil {
		candidateID, recipient, name := c.ID, c.Email, c.Name
		start, end, meetLink := slot.StartTime, slot.EndTime, result.MeetLink
		s.fanout.Go("confirmation-email", func(ctx context.Context) error {
			return s.mailer.SendConfirmation(ctx, candidateID, recipient, name, start, end, meetLink)
		})
	}

	return result, nil
}

// ─── Booking-link notification ───────────────────────────────────────────────

// NotifyResult is returned by Notify. MailtoURL is set only for the
// mailto channel.
type NotifyResult struct {
	Channel   string
	MailtoURL string
}

// Notify delivers the candidate's booking link over the requested
// channel. "email" dispatches a transactional send asynchronously;
// "mailto" composes a mailto: URL for the recruiter's own mail client.
// Non-blocking relative to token issuance.
func (s *Service) Notify(ctx context.Context, candidateID, channel string) (*NotifyResult, error) {
	c, err := s.store.CandidateByID(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if c.BookingToken == nil {
		return nil, &ValidationError{Msg: "no booking link issued for this candidate"}
	}

	search, err := s.store.SearchByID(ctx, c.SearchID)
	if err != nil {
		return nil, err
	}
	bookingURL := BookingURL(s.baseURL, *c.BookingToken)

	switch channel {
	case "email":
		if s.mailer == nil {
			return nil, &ValidationError{Msg: "email channel is not configured"}
		}
		candidateID, recipient, name := c.ID, c.Email, c.Name
		s.fanout.Go("booking-link-email", func(ctx context.Context) error {
			return s.mailer.SendBookingLink(ctx, candidateID, recipient, name, bookingURL)
		})
		return &NotifyResult{Channel: "email"}, nil

	case "mailto":
		subject := fmt.Sprintf("Interview scheduling — %s", search.Title)
		body := fmt.Sprintf("Hi %s,\n\nPlease pick an interview slot here: %s\n", c.Name, bookingURL)
		mailto := fmt.Sprintf("mailto:%s?subject=%s&body=%s",
			c.Email, url.QueryEscape(subject), url.QueryEscape(body))
		return &NotifyResult{Channel: "mailto", MailtoURL: mailto}, nil

	default:
		return nil, &ValidationError{Msg: fmt.Sprintf("unknown channel %q", channel)}
	}
}
