package lastfm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// AuthService provides authentication operations for the Last.fm API.
type AuthService struct {
	client *Client
}

// authURLTemplate is where users authorize a request token.
const authURLTemplate = "https://www.last.fm/api/auth/?api_key=%s&token=%s"

// sessionResponse is the JSON shape of auth.getSession and
// auth.getMobileSession. The subscriber flag arrives as "0"/"1".
type sessionResponse struct {
	Session struct {
		Key        string   `json:"key"`
		Name       string   `json:"name"`
		Subscriber flexBool `json:"subscriber"`
	} `json:"session"`
}

// GetToken requests an authentication token from Last.fm.
//
// This is the first step in the authentication flow. After obtaining a
// token, the user must authorize it by visiting the returned AuthURL.
// The token is consumed when it is later exchanged for a session; expiry
// and one-time use are enforced remotely.
//
// Example:
//
//	token, err := client.Auth().GetToken(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("Visit:", token.AuthURL)
func (a *AuthService) GetToken(ctx context.Context) (*Token, error) {
	body, err := a.client.call(ctx, http.MethodGet, "auth.getToken", nil, true)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("lastfm: failed to parse token response: %w", err)
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("lastfm: received empty token")
	}

	return &Token{
		Token:   resp.Token,
		AuthURL: a.GetAuthURL(resp.Token),
	}, nil
}

// GetAuthURL returns the URL where users authorize the token.
//
// After calling GetToken, direct the user to this URL to authorize
// the application. Once authorized, call GetSession to exchange the
// token for a session key.
func (a *AuthService) GetAuthURL(token string) string {
	return fmt.Sprintf(authURLTemplate, a.client.apiKey, token)
}

// GetSession exchanges an authorized token for a session key.
//
// After the user has authorized the token at AuthURL, call this method
// to exchange the token for a long-lived session key. The session key
// should be stored and used for all future authenticated requests.
// Fails with *Error code 14 when the token has not been authorized yet
// and code 15 when it has expired; in either case a retry of the
// exchange (or a fresh token) is the caller's decision.
func (a *AuthService) GetSession(ctx context.Context, token string) (*Session, error) {
	params := map[string]string{"token": token}

	body, err := a.client.call(ctx, http.MethodGet, "auth.getSession", params, true)
	if err != nil {
		return nil, err
	}
	return parseSession(body)
}

// GetMobileSession authenticates directly with a username and password.
//
// This flow is deprecated by Last.fm and may fail unpredictably; the
// token exchange flow should be preferred. The credentials travel only
// in the POST body of this one call and are never stored.
func (a *AuthService) GetMobileSession(ctx context.Context, username, password string) (*Session, error) {
	params := map[string]string{
		"username": username,
		"password": password,
	}

	body, err := a.client.call(ctx, http.MethodPost, "auth.getMobileSession", params, true)
	if err != nil {
		return nil, err
	}
	return parseSession(body)
}

// ValidateSession checks whether a session key is still accepted.
//
// It issues a lightweight authenticated read (user.getinfo with the
// session key). An invalid-session response (code 9) yields false with
// no error. Every other failure is returned unchanged so that "session
// is invalid" is never conflated with "the service is unavailable".
func (a *AuthService) ValidateSession(ctx context.Context, sessionKey string) (bool, error) {
	params := map[string]string{"sk": sessionKey}

	_, err := a.client.call(ctx, http.MethodGet, "user.getinfo", params, true)
	if err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.Code == ErrCodeInvalidSessionKey {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func parseSession(body []byte) (*Session, error) {
	var resp sessionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("lastfm: failed to parse session response: %w", err)
	}
	if resp.Session.Key == "" {
		return nil, fmt.Errorf("lastfm: received empty session key")
	}

	return &Session{
		Key:        resp.Session.Key,
		Username:   resp.Session.Name,
		Subscriber: bool(resp.Session.Subscriber),
	}, nil
}
