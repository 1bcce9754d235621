package booking_test

import (
	"testing"

	"talentpipe/ats-service/internal/booking"
)

// ── ParseStatus ────────────────────────────────────────────────────────────

func TestParseStatus_ValidValues(t *testing.T) {
	valid := []string{"pending", "sent", "replied", "confirmed", "rejected", "cancelled"}
	for _, s := range valid {
		got, err := booking.ParseStatus(s)
		if err != nil {
			t.Errorf("ParseStatus(%q) returned unexpected error: %v", s, err)
		}
		if string(got) != s {
			t.Errorf("ParseStatus(%q) = %q, want %q", s, got, s)
		}
	}
}

func TestParseStatus_InvalidValue(t *testing.T) {
	for _, s := range []string{"", "UNKNOWN", "Confirmed", " sent", "sent "} {
		if _, err := booking.ParseStatus(s); err == nil {
			t.Errorf("ParseStatus(%q) expected error, got nil", s)
		}
	}
}

// ── IsTransitionAllowed — forward path ─────────────────────────────────────

func TestIsTransitionAllowed_ValidForward(t *testing.T) {
	cases := []struct {
		from booking.Status
		to   booking.Status
	}{
		{booking.StatusPending, booking.StatusSent},
		{booking.StatusSent, booking.StatusReplied},
		{booking.StatusSent, booking.StatusConfirmed}, // booking without a reply
		{booking.StatusReplied, booking.StatusConfirmed},
	}
	for _, c := range cases {
		if !booking.IsTransitionAllowed(c.from, c.to) {
			t.Errorf("IsTransitionAllowed(%s → %s) should be true", c.from, c.to)
		}
	}
}

// ── IsTransitionAllowed — dropping out is allowed from any live state ──────

func TestIsTransitionAllowed_ToRejectedOrCancelled(t *testing.T) {
	live := []booking.Status{
		booking.StatusPending,
		booking.StatusSent,
		booking.StatusReplied,
	}
	for _, from := range live {
		for _, to := range []booking.Status{booking.StatusRejected, booking.StatusCancelled} {
			if !booking.IsTransitionAllowed(from, to) {
				t.Errorf("IsTransitionAllowed(%s → %s) should be true", from, to)
			}
		}
	}
}

// ── IsTransitionAllowed — confirmed is monotonic, terminals are final ──────

func TestIsTransitionAllowed_FromTerminal(t *testing.T) {
	terminals := []booking.Status{
		booking.StatusConfirmed,
		booking.StatusRejected,
		booking.StatusCancelled,
	}
	targets := []booking.Status{
		booking.StatusPending, booking.StatusSent, booking.StatusReplied,
		booking.StatusConfirmed, booking.StatusRejected, booking.StatusCancelled,
	}
	for _, from := range terminals {
		for _, to := range targets {
			if booking.IsTransitionAllowed(from, to) {
				t.Errorf("IsTransitionAllowed(%s → %s) should be false (terminal state)", from, to)
			}
		}
	}
}

// ── IsTransitionAllowed — no skipping pending, no backwards moves ──────────

func TestIsTransitionAllowed_Forbidden(t *testing.T) {
	cases := []struct {
		from booking.Status
		to   booking.Status
	}{
		{booking.StatusPending, booking.StatusReplied},   // skip sent
		{booking.StatusPending, booking.StatusConfirmed}, // skip two
		{booking.StatusSent, booking.StatusPending},      // backwards
		{booking.StatusReplied, booking.StatusSent},      // backwards
		{booking.StatusReplied, booking.StatusPending},   // backwards
	}
	for _, c := range cases {
		if booking.IsTransitionAllowed(c.from, c.to) {
			t.Errorf("IsTransitionAllowed(%s → %s) should be false", c.from, c.to)
		}
	}
}

func TestIsTransitionAllowed_Self(t *testing.T) {
	all := []booking.Status{
		booking.StatusPending, booking.StatusSent, booking.StatusReplied,
		booking.StatusConfirmed, booking.StatusRejected, booking.StatusCancelled,
	}
	for _, s := range all {
		if booking.IsTransitionAllowed(s, s) {
			t.Errorf("IsTransitionAllowed(%s → %s) should be false (self)", s, s)
		}
	}
}

// ── IsConfirmed ────────────────────────────────────────────────────────────

func TestIsConfirmed(t *testing.T) {
	if !booking.IsConfirmed(booking.StatusConfirmed) {
		t.Error("IsConfirmed(confirmed) should return true")
	}
	for _, s := range []booking.Status{
		booking.StatusPending, booking.StatusSent, booking.StatusReplied,
		booking.StatusRejected, booking.StatusCancelled,
	} {
		if booking.IsConfirmed(s) {
			t.Errorf("IsConfirmed(%s) should return false", s)
		}
	}
}

// ── IsTerminal ─────────────────────────────────────────────────────────────

func TestIsTerminal(t *testing.T) {
	for _, s := range []booking.Status{
		booking.StatusConfirmed, booking.StatusRejected, booking.StatusCancelled,
	} {
		if !booking.IsTerminal(s) {
			t.Errorf("IsTerminal(%s) should return true", s)
		}
	}
	for _, s := range []booking.Status{
		booking.StatusPending, booking.StatusSent, booking.StatusReplied,
	} {
		if booking.IsTerminal(s) {
			t.Errorf("IsTerminal(%s) should return false", s)
		}
	}
}
