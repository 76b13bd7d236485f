// Package authflow drives the Last.fm three-step authentication flow:
// request a token, have the user authorize it out-of-band, exchange the
// authorized token for a session key. Auth state lives in an injected
// Store rather than ambient globals, so the concurrent-write hazards of
// re-authentication stay visible and testable.
package authflow

import (
	"context"
	"fmt"

	"github.com/ecrawford/lastfm-mcp/pkg/lastfm"
	"github.com/rs/zerolog"
)

// Flow orchestrates the credential lifecycle against a Last.fm client.
//
// The flow never clears stored state on its own: a failed exchange
// leaves the pending token in place for a retry, and a failed
// validation leaves the session in place for the caller to decide on
// re-authentication.
type Flow struct {
	client *lastfm.Client
	store  Store
	logger zerolog.Logger
}

// New creates a Flow around a client and a state store.
func New(client *lastfm.Client, store Store, logger zerolog.Logger) *Flow {
	return &Flow{
		client: client,
		store:  store,
		logger: logger.With().Str("component", "authflow").Logger(),
	}
}

// RequestToken obtains a fresh request token and records it as the
// pending token. The returned AuthURL must be visited by the end user
// before the token can be exchanged.
func (f *Flow) RequestToken(ctx context.Context) (*lastfm.Token, error) {
	token, err := f.client.Auth().GetToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to request token: %w", err)
	}

	if err := f.store.SetToken(token.Token); err != nil {
		return nil, fmt.Errorf("failed to store token: %w", err)
	}

	f.logger.Info().Msg("Request token issued")
	return token, nil
}

// ExchangeToken exchanges an authorized token for a session and records
// the session. An empty token argument falls back to the stored pending
// token. On failure the stored token is left untouched so the exchange
// can be retried after the user authorizes.
func (f *Flow) ExchangeToken(ctx context.Context, token string) (*lastfm.Session, error) {
	if token == "" {
		token = f.store.Token()
	}
	if token == "" {
		return nil, fmt.Errorf("no token to exchange; request a token first")
	}

	session, err := f.client.Auth().GetSession(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange token: %w", err)
	}

	f.client.SetSessionKey(session.Key)
	if err := f.store.SetSession(session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	// The token is consumed by a successful exchange.
	if err := f.store.SetToken(""); err != nil {
		return nil, fmt.Errorf("failed to clear token: %w", err)
	}

	f.logger.Info().Str("username", session.Username).Msg("Session established")
	return session, nil
}

// MobileSession authenticates with raw credentials over the deprecated
// auth.getMobileSession call and records the session.
func (f *Flow) MobileSession(ctx context.Context, username, password string) (*lastfm.Session, error) {
	session, err := f.client.Auth().GetMobileSession(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("failed to get mobile session: %w", err)
	}

	f.client.SetSessionKey(session.Key)
	if err := f.store.SetSession(session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	f.logger.Info().Str("username", session.Username).Msg("Mobile session established")
	return session, nil
}

// ValidateSession checks whether a session key is still accepted by the
// remote service. An empty key falls back to the stored session. False
// means the service rejected the key as invalid; any other failure
// (network, rate limiting, service offline) is returned as an error so
// callers never mistake an outage for an invalid session. The stored
// session is not cleared either way.
func (f *Flow) ValidateSession(ctx context.Context, sessionKey string) (bool, error) {
	if sessionKey == "" {
		if session := f.store.Session(); session != nil {
			sessionKey = session.Key
		}
	}
	if sessionKey == "" {
		return false, fmt.Errorf("no session to validate")
	}

	valid, err := f.client.Auth().ValidateSession(ctx, sessionKey)
	if err != nil {
		return false, err
	}
	if !valid {
		f.logger.Warn().Msg("Session key rejected by Last.fm")
	}
	return valid, nil
}

// Session returns the currently stored session, or nil when
// unauthenticated.
func (f *Flow) Session() *lastfm.Session {
	return f.store.Session()
}

// PendingToken returns the stored, not-yet-exchanged request token.
func (f *Flow) PendingToken() string {
	return f.store.Token()
}
