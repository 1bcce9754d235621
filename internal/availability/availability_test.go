package availability

import (
	"errors"
	"testing"
	"time"
)

func slotAt(now time.Time, startOffset, length time.Duration) SlotInput {
	start := now.Add(startOffset)
	return SlotInput{StartTime: start, EndTime: start.Add(length)}
}

func TestValidateSlots(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		slots   []SlotInput
		wantErr bool
	}{
		{
			name:  "empty payload clears the calendar",
			slots: nil,
		},
		{
			name: "well formed future slots",
			slots: []SlotInput{
				slotAt(now, time.Hour, 30*time.Minute),
				slotAt(now, 2*time.Hour, 30*time.Minute),
			},
		},
		{
			name: "back to back slots do not overlap",
			slots: []SlotInput{
				slotAt(now, time.Hour, 30*time.Minute),
				slotAt(now, time.Hour+30*time.Minute, 30*time.Minute),
			},
		},
		{
			name: "unsorted payload is accepted",
			slots: []SlotInput{
				slotAt(now, 3*time.Hour, 30*time.Minute),
				slotAt(now, time.Hour, 30*time.Minute),
			},
		},
		{
			name:    "end before start",
			slots:   []SlotInput{{StartTime: now.Add(2 * time.Hour), EndTime: now.Add(time.Hour)}},
			wantErr: true,
		},
		{
			name:    "zero length slot",
			slots:   []SlotInput{{StartTime: now.Add(time.Hour), EndTime: now.Add(time.Hour)}},
			wantErr: true,
		},
		{
			name:    "slot in the past",
			slots:   []SlotInput{slotAt(now, -time.Hour, 30*time.Minute)},
			wantErr: true,
		},
		{
			name: "overlapping slots",
			slots: []SlotInput{
				slotAt(now, time.Hour, time.Hour),
				slotAt(now, 90*time.Minute, 30*time.Minute),
			},
			wantErr: true,
		},
		{
			name: "overlap detected across unsorted payload",
			slots: []SlotInput{
				slotAt(now, 90*time.Minute, 30*time.Minute),
				slotAt(now, time.Hour, time.Hour),
			},
			wantErr: true,
		},
		{
			name: "duplicate slot",
			slots: []SlotInput{
				slotAt(now, time.Hour, 30*time.Minute),
				slotAt(now, time.Hour, 30*time.Minute),
			},
			wantErr: true,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := ValidateSlots(c.slots, now)
			if c.wantErr {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("want ValidationError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
