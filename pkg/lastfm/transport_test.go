package lastfm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

// TestPrepare_RoundTrip verifies that prepared request values carry a
// signature derivable from the values themselves: re-signing everything
// except "format" and "api_sig" reproduces the attached api_sig.
func TestPrepare_RoundTrip(t *testing.T) {
	client, err := NewClient(Config{APIKey: "test-api-key", APISecret: "test-secret"})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	values, err := client.prepare("auth.getSession", map[string]string{"token": "tok-1"}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := values.Get("method"); got != "auth.getSession" {
		t.Errorf("expected method auth.getSession, got %q", got)
	}
	if got := values.Get("api_key"); got != "test-api-key" {
		t.Errorf("expected api_key test-api-key, got %q", got)
	}
	if got := values.Get("format"); got != "json" {
		t.Errorf("expected format json, got %q", got)
	}

	params := map[string]string{}
	for k := range values {
		params[k] = values.Get(k)
	}
	want, err := calculateSignature(params, "test-secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := values.Get("api_sig"); got != want {
		t.Errorf("expected api_sig %q, got %q", want, got)
	}
}

// TestPrepare_Unsigned verifies that read calls carry no signature.
func TestPrepare_Unsigned(t *testing.T) {
	client, err := NewClient(Config{APIKey: "test-api-key"})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	values, err := client.prepare("artist.getinfo", map[string]string{"artist": "Low"}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := values.Get("api_sig"); got != "" {
		t.Errorf("expected no api_sig on unsigned request, got %q", got)
	}
}

// TestCall_GetAndPost verifies the HTTP method split: reads go out as
// GET with query parameters, writes as POST with a form body.
func TestCall_GetAndPost(t *testing.T) {
	tests := []struct {
		name       string
		httpMethod string
	}{
		{name: "read uses GET", httpMethod: http.MethodGet},
		{name: "write uses POST", httpMethod: http.MethodPost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != tt.httpMethod {
					t.Errorf("expected %s request, got %s", tt.httpMethod, r.Method)
				}
				if r.Method == http.MethodPost {
					if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
						t.Errorf("expected form content type, got %q", ct)
					}
				} else if r.URL.RawQuery == "" {
					t.Error("expected query parameters on GET request")
				}
				if err := r.ParseForm(); err != nil {
					t.Fatalf("failed to parse form: %v", err)
				}
				if got := r.FormValue("format"); got != "json" {
					t.Errorf("expected format json, got %q", got)
				}
				if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
					t.Fatalf("failed to write response: %v", err)
				}
			}))
			defer server.Close()

			client, err := NewClient(Config{APIKey: "test-api-key", BaseURL: server.URL})
			if err != nil {
				t.Fatalf("failed to create client: %v", err)
			}

			if _, err := client.call(context.Background(), tt.httpMethod, "test.method", nil, false); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

// TestCall_ErrorEnvelope verifies that API failures decode into *Error
// with the remote code, even when the HTTP status is not 200.
func TestCall_ErrorEnvelope(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		response   string
		wantCode   int
		wantMsg    string
	}{
		{
			name:       "api error on 200",
			statusCode: http.StatusOK,
			response:   `{"error": 10, "message": "Invalid API key"}`,
			wantCode:   ErrCodeInvalidAPIKey,
			wantMsg:    "Invalid API key",
		},
		{
			name:       "api error on 403",
			statusCode: http.StatusForbidden,
			response:   `{"error": 9, "message": "Invalid session key"}`,
			wantCode:   ErrCodeInvalidSessionKey,
			wantMsg:    "Invalid session key",
		},
		{
			name:       "rate limit",
			statusCode: http.StatusOK,
			response:   `{"error": 29, "message": "Rate limit exceeded"}`,
			wantCode:   ErrCodeRateLimitExceeded,
			wantMsg:    "Rate limit exceeded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				if _, err := w.Write([]byte(tt.response)); err != nil {
					t.Fatalf("failed to write response: %v", err)
				}
			}))
			defer server.Close()

			client, err := NewClient(Config{APIKey: "test-api-key", BaseURL: server.URL})
			if err != nil {
				t.Fatalf("failed to create client: %v", err)
			}

			_, err = client.call(context.Background(), http.MethodGet, "test.method", nil, false)
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
			if apiErr.Message != tt.wantMsg {
				t.Errorf("expected message %q, got %q", tt.wantMsg, apiErr.Message)
			}
		})
	}
}

// TestCall_TransportFailures verifies that connection, status, and
// decode failures come back as *Error with code 0.
func TestCall_TransportFailures(t *testing.T) {
	tests := []struct {
		name        string
		handler     http.HandlerFunc
		errContains string
	}{
		{
			name: "undecodable body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>not json</html>"))
			},
			errContains: "failed to decode response",
		},
		{
			name: "unexpected status with valid body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte(`{}`))
			},
			errContains: "unexpected status code: 502",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client, err := NewClient(Config{APIKey: "test-api-key", BaseURL: server.URL})
			if err != nil {
				t.Fatalf("failed to create client: %v", err)
			}

			_, err = client.call(context.Background(), http.MethodGet, "test.method", nil, false)
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *Error, got %T: %v", err, err)
			}
			if apiErr.Code != 0 {
				t.Errorf("expected code 0 for transport failure, got %d", apiErr.Code)
			}
			if !strings.Contains(apiErr.Message, tt.errContains) {
				t.Errorf("expected message to contain %q, got %q", tt.errContains, apiErr.Message)
			}
		})
	}
}

// TestCall_SingleAttempt verifies that a failing call makes exactly one
// network attempt.
func TestCall_SingleAttempt(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		_, _ = w.Write([]byte(`{"error": 16, "message": "Temporarily unavailable"}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{APIKey: "test-api-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	_, err = client.call(context.Background(), http.MethodGet, "test.method", nil, false)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if got := attempts.Load(); got != 1 {
		t.Errorf("expected exactly 1 attempt, got %d", got)
	}
}
