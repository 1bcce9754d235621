// Package calendar creates interview events on recruiters' Google
// Calendars. It is a best-effort side-effect adapter: every error path
// is reported to the caller, which logs and moves on — a calendar outage
// must never fail a confirmation.
package calendar

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"talentpipe/ats-service/internal/booking"
	"talentpipe/ats-service/internal/googleauth"
)

// Adapter implements booking.EventCreator on top of the Calendar API.
type Adapter struct {
	provider *googleauth.Provider
}

// NewAdapter returns an Adapter, or nil when no OAuth provider is
// configured.
func NewAdapter(provider *googleauth.Provider) *Adapter {
	if provider == nil {
		return nil
	}
	return &Adapter{provider: provider}
}

// CreateInterviewEvent creates the event on the recruiter's primary
// calendar with the candidate as attendee and a Meet conference
// attached. Returns googleauth.ErrNoCredentials when the recruiter never
// connected a Google account.
func (a *Adapter) CreateInterviewEvent(ctx context.Context, userID string, ev booking.InterviewEvent) (string, string, error) {
	client, err := a.provider.ClientFor(ctx, userID)
	if err != nil {
		return "", "", err
	}

	svc, err := gcal.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return "", "", fmt.Errorf("calendar service: %w", err)
	}

	created, err := svc.Events.
		Insert("primary", newInterviewEvent(ev)).
		ConferenceDataVersion(1).
		SendUpdates("all").
		Context(ctx).
		Do()
	if err != nil {
		return "", "", fmt.Errorf("insert event: %w", err)
	}

	return created.Id, meetLink(created), nil
}

// newInterviewEvent builds the API payload for an interview.
func newInterviewEvent(ev booking.InterviewEvent) *gcal.Event {
	return &gcal.Event{
		Summary:     fmt.Sprintf("Interview: %s — %s", ev.SearchTitle, ev.CandidateName),
		Description: fmt.Sprintf("Interview with %s for the %s position.", ev.CandidateName, ev.SearchTitle),
		Start: &gcal.EventDateTime{
			DateTime: ev.Start.Format("2006-01-02T15:04:05-07:00"),
		},
		End: &gcal.EventDateTime{
			DateTime: ev.End.Format("2006-01-02T15:04:05-07:00"),
		},
		Attendees: []*gcal.EventAttendee{
			{Email: ev.CandidateEmail, DisplayName: ev.CandidateName},
		},
		ConferenceData: &gcal.ConferenceData{
			CreateRequest: &gcal.CreateConferenceRequest{
				RequestId: uuid.NewString(),
				ConferenceSolutionKey: &gcal.ConferenceSolutionKey{
					Type: "hangoutsMeet",
				},
			},
		},
		Reminders: &gcal.EventReminders{
			UseDefault:      false,
			ForceSendFields: []string{"UseDefault"},
			Overrides: []*gcal.EventReminder{
				{Method: "email", Minutes: 24 * 60},
				{Method: "popup", Minutes: 30},
			},
		},
	}
}

// meetLink extracts the conferencing link from a created event. Falls
// back to the legacy HangoutLink field.
func meetLink(ev *gcal.Event) string {
	if ev.ConferenceData != nil {
		for _, ep := range ev.ConferenceData.EntryPoints {
			if ep.EntryPointType == "video" {
				return ep.Uri
			}
		}
	}
	return ev.HangoutLink
}
