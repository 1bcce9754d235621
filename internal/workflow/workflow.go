// Package workflow calls the external automation platform (n8n) that
// runs candidate sourcing. The service only fires the webhook; sourced
// candidates come back later through the bulk ingestion endpoint.
package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"talentpipe/ats-service/internal/search"
)

// Client posts trigger payloads to the automation webhook. Implements
// search.WorkflowTrigger.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient returns a Client, or nil when no webhook URL is configured
// (sourcing is then reported as unconfigured).
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		return nil
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// TriggerSourcing fires the sourcing webhook with the search's
// requirements. The workflow calls back into /api/candidates/bulk when
// it finishes.
func (c *Client) TriggerSourcing(ctx context.Context, sr search.Search) error {
	payload, err := json.Marshal(map[string]any{
		"searchId":     sr.ID,
		"userId":       sr.UserID,
		"title":        sr.Title,
		"description":  sr.Description,
		"requirements": sr.Requirements,
	})
	if err != nil {
		return fmt.Errorf("marshal trigger payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build trigger request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call sourcing webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sourcing webhook returned %d: %s", resp.StatusCode, body)
	}
	return nil
}
