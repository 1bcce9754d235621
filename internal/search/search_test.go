package search

import (
	"errors"
	"testing"
)

func TestValidateInput(t *testing.T) {
	cases := []struct {
		name    string
		in      Input
		wantErr bool
	}{
		{name: "minimal valid", in: Input{Title: "Backend Engineer"}},
		{name: "explicit active", in: Input{Title: "Backend Engineer", Status: StatusActive}},
		{name: "inactive", in: Input{Title: "Backend Engineer", Status: StatusInactive}},
		{name: "closed", in: Input{Title: "Backend Engineer", Status: StatusClosed}},
		{name: "blank title", in: Input{Title: "   "}, wantErr: true},
		{name: "unknown status", in: Input{Title: "Backend Engineer", Status: "archived"}, wantErr: true},
		{name: "status is case sensitive", in: Input{Title: "Backend Engineer", Status: "Active"}, wantErr: true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := ValidateInput(c.in)
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
