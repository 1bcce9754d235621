package mailer

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"
)

func TestEncodeMessage_RoundTrip(t *testing.T) {
	raw := encodeMessage("ada@example.com", "Your interview is confirmed", "Hello Ada,\nsee you soon.")

	decoded, err := base64.URLEncoding.DecodeString(raw)
	if err != nil {
		t.Fatalf("payload is not base64url: %v", err)
	}
	msg := string(decoded)

	for _, want := range []string{
		"To: ada@example.com\r\n",
		"Subject: Your interview is confirmed\r\n",
		"Content-Type: text/plain; charset=\"UTF-8\"\r\n",
		"\r\n\r\nHello Ada,\nsee you soon.",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestConfirmationBody(t *testing.T) {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)

	body := confirmationBody("Ada", start, end, "https://meet.google.com/abc")
	for _, want := range []string{
		"Hi Ada,",
		"Monday, 10 March 2025 10:00 UTC",
		"10:30 UTC",
		"https://meet.google.com/abc",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
}

func TestConfirmationBody_OmitsMissingMeetLink(t *testing.T) {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	body := confirmationBody("Ada", start, start.Add(30*time.Minute), "")
	if strings.Contains(body, "Where:") {
		t.Errorf("body must omit the location line without a meet link:\n%s", body)
	}
}
