package booking_test

import (
	"context"
	"sync"
	"time"

	"talentpipe/ats-service/internal/booking"
)

// memStore is an in-memory booking.Store with the same claim semantics
// as the PostgreSQL implementation: ConfirmBooking checks and flips both
// rows under one lock, so of two concurrent confirmations for a slot
// exactly one wins. writes counts every mutating call, letting tests
// assert that failed operations touched nothing.
type memStore struct {
	mu         sync.Mutex
	candidates map[string]*booking.Candidate
	searches   map[string]*booking.Search
	slots      map[string]*booking.Slot
	writes     int
}

func newMemStore() *memStore {
	return &memStore{
		candidates: make(map[string]*booking.Candidate),
		searches:   make(map[string]*booking.Search),
		slots:      make(map[string]*booking.Slot),
	}
}

func (m *memStore) addSearch(s booking.Search)       { m.searches[s.ID] = &s }
func (m *memStore) addCandidate(c booking.Candidate) { m.candidates[c.ID] = &c }
func (m *memStore) addSlot(s booking.Slot)           { m.slots[s.ID] = &s }

func (m *memStore) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *memStore) CandidateByID(_ context.Context, id string) (*booking.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.candidates[id]
	if !ok {
		return nil, booking.ErrCandidateNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memStore) CandidateByToken(_ context.Context, token string) (*booking.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.candidates {
		if c.BookingToken != nil && *c.BookingToken == token {
			cp := *c
			return &cp, nil
		}
	}
	return nil, booking.ErrInvalidToken
}

func (m *memStore) SearchByID(_ context.Context, id string) (*booking.Search, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.searches[id]
	if !ok {
		return nil, booking.ErrSearchNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memStore) AssignToken(_ context.Context, candidateID, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.candidates[candidateID]
	if !ok {
		return booking.ErrCandidateNotFound
	}
	m.writes++
	c.BookingToken = &token
	if c.Status == booking.StatusPending {
		c.Status = booking.StatusSent
	}
	return nil
}

func (m *memStore) OpenSlots(_ context.Context, userID string, from time.Time, limit int) ([]booking.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []booking.Slot
	for _, s := range m.slots {
		if s.UserID == userID && !s.IsBooked && !s.StartTime.Before(from) {
			out = append(out, *s)
		}
	}
	// insertion sort keeps the fake dependency-free
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].StartTime.Before(out[j-1].StartTime); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) SlotByID(_ context.Context, id string) (*booking.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[id]
	if !ok {
		return nil, booking.ErrSlotNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memStore) ConfirmBooking(_ context.Context, candidateID string, slot booking.Slot, confirmedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.candidates[candidateID]
	if !ok {
		return booking.ErrCandidateNotFound
	}
	s, ok := m.slots[slot.ID]
	if !ok {
		return booking.ErrSlotNotFound
	}
	// mirrors the conditional candidate UPDATE: any terminal state takes
	// zero rows
	if booking.IsTerminal(c.Status) {
		return booking.ErrAlreadyConfirmed
	}
	if s.IsBooked {
		return booking.ErrSlotTaken
	}

	m.writes++
	s.IsBooked = true
	c.Status = booking.StatusConfirmed
	c.ConfirmedAt = &confirmedAt
	return nil
}

func (m *memStore) SaveEventLink(_ context.Context, candidateID, eventID, meetLink string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.candidates[candidateID]
	if !ok {
		return booking.ErrCandidateNotFound
	}
	m.writes++
	c.EventID = &eventID
	c.MeetLink = &meetLink
	return nil
}

// ── side-effect fakes ──────────────────────────────────────────────────────

type fakeCalendar struct {
	mu     sync.Mutex
	fail   bool
	calls  int
	lastEv booking.InterviewEvent
}

func (f *fakeCalendar) CreateInterviewEvent(_ context.Context, _ string, ev booking.InterviewEvent) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastEv = ev
	if f.fail {
		return "", "", context.DeadlineExceeded
	}
	return "evt-123", "https://meet.example.com/abc", nil
}

type fakeMailer struct {
	mu            sync.Mutex
	linkSends     int
	confirmations int
}

func (f *fakeMailer) SendBookingLink(_ context.Context, _, _, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.linkSends++
	return nil
}

func (f *fakeMailer) SendConfirmation(_ context.Context, _, _, _ string, _, _ time.Time, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmations++
	return nil
}

func (f *fakeMailer) confirmationCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.confirmations
}

type fakePublisher struct {
	mu     sync.Mutex
	events []string
}

func (f *fakePublisher) Publish(_ context.Context, event string, _ map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakePublisher) published() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.events))
	copy(out, f.events)
	return out
}

// syncDispatcher runs side effects inline so tests stay deterministic.
type syncDispatcher struct{}

func (syncDispatcher) Go(_ string, fn func(ctx context.Context) error) {
	_ = fn(context.Background())
}
