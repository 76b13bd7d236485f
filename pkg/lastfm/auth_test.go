package lastfm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// TestAuthService_GetToken tests the GetToken method.
func TestAuthService_GetToken(t *testing.T) {
	tests := []struct {
		name        string
		response    string
		wantToken   string
		wantErr     bool
		errContains string
	}{
		{
			name:      "success",
			response:  `{"token": "abc123"}`,
			wantToken: "abc123",
		},
		{
			name:        "api error - invalid api key",
			response:    `{"error": 10, "message": "Invalid API key"}`,
			wantErr:     true,
			errContains: "error 10",
		},
		{
			name:        "empty token",
			response:    `{"token": ""}`,
			wantErr:     true,
			errContains: "empty token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("expected GET request, got %s", r.Method)
				}
				if err := r.ParseForm(); err != nil {
					t.Fatalf("failed to parse form: %v", err)
				}
				if method := r.FormValue("method"); method != "auth.getToken" {
					t.Errorf("expected method auth.getToken, got %s", method)
				}
				if apiKey := r.FormValue("api_key"); apiKey != "test-api-key" {
					t.Errorf("expected api_key test-api-key, got %s", apiKey)
				}
				if sig := r.FormValue("api_sig"); sig == "" {
					t.Error("expected api_sig to be present")
				}
				if format := r.FormValue("format"); format != "json" {
					t.Errorf("expected format json, got %s", format)
				}
				if _, err := w.Write([]byte(tt.response)); err != nil {
					t.Fatalf("failed to write response body: %v", err)
				}
			}))
			defer server.Close()

			client, err := NewClient(Config{
				APIKey:    "test-api-key",
				APISecret: "test-secret",
				BaseURL:   server.URL,
			})
			if err != nil {
				t.Fatalf("failed to create client: %v", err)
			}

			token, err := client.Auth().GetToken(context.Background())

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("expected error to contain %q, got %q", tt.errContains, err.Error())
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if token.Token != tt.wantToken {
				t.Errorf("expected token %q, got %q", tt.wantToken, token.Token)
			}
			if !strings.Contains(token.AuthURL, "api_key=test-api-key") {
				t.Errorf("expected auth URL to carry the api key, got %q", token.AuthURL)
			}
			if !strings.Contains(token.AuthURL, "token="+tt.wantToken) {
				t.Errorf("expected auth URL to carry the token, got %q", token.AuthURL)
			}
		})
	}
}

// TestAuthService_GetSession tests the token-for-session exchange.
func TestAuthService_GetSession(t *testing.T) {
	tests := []struct {
		name           string
		response       string
		wantKey        string
		wantUsername   string
		wantSubscriber bool
		wantErr        bool
		errContains    string
	}{
		{
			name:           "success with subscriber",
			response:       `{"session": {"key": "sk1", "name": "alice", "subscriber": "1"}}`,
			wantKey:        "sk1",
			wantUsername:   "alice",
			wantSubscriber: true,
		},
		{
			name:         "success without subscriber",
			response:     `{"session": {"key": "sk2", "name": "bob", "subscriber": "0"}}`,
			wantKey:      "sk2",
			wantUsername: "bob",
		},
		{
			name:        "unauthorized token",
			response:    `{"error": 14, "message": "This token has not been authorized"}`,
			wantErr:     true,
			errContains: "error 14",
		},
		{
			name:        "expired token",
			response:    `{"error": 15, "message": "This token has expired"}`,
			wantErr:     true,
			errContains: "error 15",
		},
		{
			name:        "empty session key",
			response:    `{"session": {"key": "", "name": "alice"}}`,
			wantErr:     true,
			errContains: "empty session key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("expected GET request, got %s", r.Method)
				}
				if err := r.ParseForm(); err != nil {
					t.Fatalf("failed to parse form: %v", err)
				}
				if method := r.FormValue("method"); method != "auth.getSession" {
					t.Errorf("expected method auth.getSession, got %s", method)
				}
				if token := r.FormValue("token"); token != "tok-1" {
					t.Errorf("expected token tok-1, got %s", token)
				}
				if sig := r.FormValue("api_sig"); sig == "" {
					t.Error("expected api_sig to be present")
				}
				if _, err := w.Write([]byte(tt.response)); err != nil {
					t.Fatalf("failed to write response body: %v", err)
				}
			}))
			defer server.Close()

			client, err := NewClient(Config{
				APIKey:    "test-api-key",
				APISecret: "test-secret",
				BaseURL:   server.URL,
			})
			if err != nil {
				t.Fatalf("failed to create client: %v", err)
			}

			session, err := client.Auth().GetSession(context.Background(), "tok-1")

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("expected error to contain %q, got %q", tt.errContains, err.Error())
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if session.Key != tt.wantKey {
				t.Errorf("expected key %q, got %q", tt.wantKey, session.Key)
			}
			if session.Username != tt.wantUsername {
				t.Errorf("expected username %q, got %q", tt.wantUsername, session.Username)
			}
			if session.Subscriber != tt.wantSubscriber {
				t.Errorf("expected subscriber %v, got %v", tt.wantSubscriber, session.Subscriber)
			}
		})
	}
}

// TestAuthService_GetMobileSession verifies the deprecated direct
// credential flow posts the credentials instead of sending them as
// query parameters.
func TestAuthService_GetMobileSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST request, got %s", r.Method)
		}
		if r.URL.RawQuery != "" {
			t.Errorf("expected no query parameters, got %q", r.URL.RawQuery)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		if method := r.FormValue("method"); method != "auth.getMobileSession" {
			t.Errorf("expected method auth.getMobileSession, got %s", method)
		}
		if username := r.FormValue("username"); username != "alice" {
			t.Errorf("expected username alice, got %s", username)
		}
		if password := r.FormValue("password"); password != "hunter2" {
			t.Errorf("expected password to be posted, got %s", password)
		}
		if sig := r.FormValue("api_sig"); sig == "" {
			t.Error("expected api_sig to be present")
		}
		_, _ = w.Write([]byte(`{"session": {"key": "sk-mobile", "name": "alice", "subscriber": "0"}}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{
		APIKey:    "test-api-key",
		APISecret: "test-secret",
		BaseURL:   server.URL,
	})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	session, err := client.Auth().GetMobileSession(context.Background(), "alice", "hunter2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.Key != "sk-mobile" {
		t.Errorf("expected key sk-mobile, got %q", session.Key)
	}
}

// TestAuthService_ValidateSession verifies that only the invalid
// session code maps to a clean false; every other failure propagates.
func TestAuthService_ValidateSession(t *testing.T) {
	tests := []struct {
		name      string
		response  string
		wantValid bool
		wantErr   bool
		wantCode  int
	}{
		{
			name:      "valid session",
			response:  `{"user": {"name": "alice"}}`,
			wantValid: true,
		},
		{
			name:     "invalid session key",
			response: `{"error": 9, "message": "Invalid session key - Please re-authenticate"}`,
		},
		{
			name:     "rate limited propagates",
			response: `{"error": 29, "message": "Rate limit exceeded"}`,
			wantErr:  true,
			wantCode: ErrCodeRateLimitExceeded,
		},
		{
			name:     "service offline propagates",
			response: `{"error": 11, "message": "Service Offline"}`,
			wantErr:  true,
			wantCode: ErrCodeServiceOffline,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if err := r.ParseForm(); err != nil {
					t.Fatalf("failed to parse form: %v", err)
				}
				if method := r.FormValue("method"); method != "user.getinfo" {
					t.Errorf("expected method user.getinfo, got %s", method)
				}
				if sk := r.FormValue("sk"); sk != "sk-check" {
					t.Errorf("expected sk sk-check, got %s", sk)
				}
				if sig := r.FormValue("api_sig"); sig == "" {
					t.Error("expected api_sig to be present")
				}
				if _, err := w.Write([]byte(tt.response)); err != nil {
					t.Fatalf("failed to write response body: %v", err)
				}
			}))
			defer server.Close()

			client, err := NewClient(Config{
				APIKey:    "test-api-key",
				APISecret: "test-secret",
				BaseURL:   server.URL,
			})
			if err != nil {
				t.Fatalf("failed to create client: %v", err)
			}

			valid, err := client.Auth().ValidateSession(context.Background(), "sk-check")

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				var apiErr *Error
				if !errors.As(err, &apiErr) {
					t.Fatalf("expected *Error, got %T: %v", err, err)
				}
				if apiErr.Code != tt.wantCode {
					t.Errorf("expected code %d, got %d", tt.wantCode, apiErr.Code)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if valid != tt.wantValid {
				t.Errorf("expected valid=%v, got %v", tt.wantValid, valid)
			}
		})
	}
}
