// Package events publishes domain events to the realtime change feed.
// The recruiter SPA subscribes through the gateway's SSE bridge; a lost
// event only delays a UI refresh, so publishing is strictly non-fatal.
package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// Channel names consumed by the SSE bridge.
const (
	CandidateCreated   = "EVENT_CANDIDATE_CREATED"
	CandidateConfirmed = "EVENT_CANDIDATE_CONFIRMED"
	CandidateScored    = "EVENT_CANDIDATE_SCORED"
	BookingLinkIssued  = "EVENT_BOOKING_LINK_ISSUED"
)

// Publisher pushes JSON payloads onto Redis pub/sub channels.
type Publisher struct {
	rdb *redis.Client
}

// NewPublisher returns a Publisher backed by rdb.
func NewPublisher(rdb *redis.Client) *Publisher {
	return &Publisher{rdb: rdb}
}

// Publish marshals payload and publishes it on the event channel.
// Failures are logged and swallowed.
func (p *Publisher) Publish(ctx context.Context, event string, payload map[string]string) {
	body, err := json.Marshal(payload)
	if err != nil {
		slog.Warn("event marshal failed", "event", event, "err", err)
		return
	}
	if err := p.rdb.Publish(ctx, event, body).Err(); err != nil {
		slog.Warn("event publish failed", "event", event, "err", err)
	}
}
