// Package googleauth manages per-recruiter Google OAuth credentials for
// the Calendar and Gmail side-effect adapters.
//
// Tokens are cached in the user_tokens table, keyed by the owning
// recruiter id. Refreshed access tokens are written back so the cache
// stays warm across restarts. The interactive consent flow is handled by
// ops tooling and is out of scope here — this package only consumes
// stored credentials.
package googleauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/gmail/v1"
)

// ErrNoCredentials — the recruiter has not connected a Google account.
// Side-effect adapters treat this as "skip silently".
var ErrNoCredentials = errors.New("no google credentials stored for user")

// Provider builds authenticated HTTP clients from cached credentials.
type Provider struct {
	conf *oauth2.Config
	pool *pgxpool.Pool
}

// NewProvider returns a Provider, or nil when the OAuth client is not
// configured (clientID empty) — callers must handle a nil Provider by
// skipping Google side effects.
func NewProvider(pool *pgxpool.Pool, clientID, clientSecret, redirectURL string) *Provider {
	if clientID == "" {
		return nil
	}
	return &Provider{
		pool: pool,
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     google.Endpoint,
			Scopes: []string{
				calendar.CalendarEventsScope,
				gmail.GmailSendScope,
			},
		},
	}
}

// ClientFor returns an authenticated HTTP client acting as the given
// recruiter. The underlying token source refreshes expired access tokens
// and persists the result.
func (p *Provider) ClientFor(ctx context.Context, userID string) (*http.Client, error) {
	tok, err := p.tokenFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	src := &persistingSource{
		provider: p,
		userID:   userID,
		inner:    p.conf.TokenSource(ctx, tok),
		last:     tok,
	}
	return oauth2.NewClient(ctx, src), nil
}

// SaveToken upserts a recruiter's credential set.
func (p *Provider) SaveToken(ctx context.Context, userID string, tok *oauth2.Token) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO user_tokens (user_id, access_token, refresh_token, token_type, expiry, updated_at)
		 VALUES ($1, $2, $3, $4, $5, NOW())
		 ON CONFLICT (user_id) DO UPDATE
		 SET access_token = EXCLUDED.access_token,
		     refresh_token = CASE WHEN EXCLUDED.refresh_token <> ''
		                          THEN EXCLUDED.refresh_token
		                          ELSE user_tokens.refresh_token END,
		     token_type = EXCLUDED.token_type,
		     expiry     = EXCLUDED.expiry,
		     updated_at = NOW()`,
		userID, tok.AccessToken, tok.RefreshToken, tok.TokenType, tok.Expiry,
	)
	if err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (p *Provider) tokenFor(ctx context.Context, userID string) (*oauth2.Token, error) {
	var tok oauth2.Token
	var expiry time.Time
	err := p.pool.QueryRow(ctx,
		`SELECT access_token, refresh_token, token_type, expiry
		 FROM user_tokens WHERE user_id = $1`,
		userID,
	).Scan(&tok.AccessToken, &tok.RefreshToken, &tok.TokenType, &expiry)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}
	tok.Expiry = expiry
	return &tok, nil
}

// persistingSource wraps a TokenSource and writes refreshed tokens back
// to the cache.
type persistingSource struct {
	provider *Provider
	userID   string
	inner    oauth2.TokenSource
	last     *oauth2.Token
}

func (s *persistingSource) Token() (*oauth2.Token, error) {
	tok, err := s.inner.Token()
	if err != nil {
		return nil, err
	}
	if tok.AccessToken != s.last.AccessToken {
		// Best-effort: a failed cache write only costs a refresh later.
		_ = s.provider.SaveToken(context.Background(), s.userID, tok)
		s.last = tok
	}
	return tok, nil
}
