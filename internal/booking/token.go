package booking

import (
	"fmt"

	"github.com/google/uuid"
)

// NewToken returns a fresh booking token: a random UUIDv4, 128 bits of
// entropy, opaque and carrying no candidate information. Uniqueness
// across candidates is backed by the unique index on
// postulantes.booking_token.
func NewToken() string {
	return uuid.NewString()
}

// BookingURL builds the public scheduling link for a token.
func BookingURL(baseURL, token string) string {
	return fmt.Sprintf("%s/schedule/%s", baseURL, token)
}
