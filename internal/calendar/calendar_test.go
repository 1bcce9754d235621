package calendar

import (
	"testing"
	"time"

	gcal "google.golang.org/api/calendar/v3"

	"talentpipe/ats-service/internal/booking"
)

func testEvent() booking.InterviewEvent {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	return booking.InterviewEvent{
		CandidateName:  "Ada Lovelace",
		CandidateEmail: "ada@example.com",
		SearchTitle:    "Backend Engineer",
		Start:          start,
		End:            start.Add(30 * time.Minute),
	}
}

func TestNewInterviewEvent(t *testing.T) {
	ev := newInterviewEvent(testEvent())

	if ev.Summary != "Interview: Backend Engineer — Ada Lovelace" {
		t.Errorf("summary = %q", ev.Summary)
	}
	if ev.Start.DateTime != "2025-03-10T10:00:00+00:00" {
		t.Errorf("start = %q", ev.Start.DateTime)
	}
	if ev.End.DateTime != "2025-03-10T10:30:00+00:00" {
		t.Errorf("end = %q", ev.End.DateTime)
	}
	if len(ev.Attendees) != 1 || ev.Attendees[0].Email != "ada@example.com" {
		t.Errorf("attendees = %+v", ev.Attendees)
	}
	if ev.ConferenceData == nil || ev.ConferenceData.CreateRequest == nil {
		t.Fatal("conference request missing")
	}
	if ev.ConferenceData.CreateRequest.ConferenceSolutionKey.Type != "hangoutsMeet" {
		t.Errorf("conference type = %q", ev.ConferenceData.CreateRequest.ConferenceSolutionKey.Type)
	}
	if ev.ConferenceData.CreateRequest.RequestId == "" {
		t.Error("conference request id must be set")
	}
	if ev.Reminders == nil || ev.Reminders.UseDefault {
		t.Error("reminder overrides must replace defaults")
	}
	if len(ev.Reminders.Overrides) != 2 {
		t.Errorf("got %d reminder overrides, want 2", len(ev.Reminders.Overrides))
	}
}

func TestNewInterviewEvent_UniqueConferenceRequests(t *testing.T) {
	a := newInterviewEvent(testEvent())
	b := newInterviewEvent(testEvent())
	if a.ConferenceData.CreateRequest.RequestId == b.ConferenceData.CreateRequest.RequestId {
		t.Error("conference request ids must differ between events")
	}
}

func TestMeetLink(t *testing.T) {
	cases := []struct {
		name string
		ev   *gcal.Event
		want string
	}{
		{
			name: "video entry point",
			ev: &gcal.Event{
				ConferenceData: &gcal.ConferenceData{
					EntryPoints: []*gcal.EntryPoint{
						{EntryPointType: "phone", Uri: "tel:+1-555-0100"},
						{EntryPointType: "video", Uri: "https://meet.google.com/abc-defg-hij"},
					},
				},
			},
			want: "https://meet.google.com/abc-defg-hij",
		},
		{
			name: "legacy hangout link fallback",
			ev:   &gcal.Event{HangoutLink: "https://hangouts.example.com/x"},
			want: "https://hangouts.example.com/x",
		},
		{
			name: "no link at all",
			ev:   &gcal.Event{},
			want: "",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := meetLink(c.ev); got != c.want {
				t.Errorf("meetLink = %q, want %q", got, c.want)
			}
		})
	}
}
