package mcp

import (
	"net/http"
	"strings"
	"testing"
)

func TestToolSearchArtists(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		if method := r.FormValue("method"); method != "artist.search" {
			t.Errorf("expected method artist.search, got %s", method)
		}
		if artist := r.FormValue("artist"); artist != "boards of canada" {
			t.Errorf("unexpected query: %s", artist)
		}
		_, _ = w.Write([]byte(`{
			"results": {
				"opensearch:Query": {"#text": "boards of canada"},
				"opensearch:totalResults": "12",
				"opensearch:itemsPerPage": "10",
				"artistmatches": {
					"artist": {"name": "Boards of Canada", "listeners": "1200000",
					           "url": "https://www.last.fm/music/Boards+of+Canada"}
				}
			}
		}`))
	})

	_, resp := rpcCall(t, s,
		`{"jsonrpc": "2.0", "id": 1, "method": "tools/call",
		  "params": {"name": "search_artists", "arguments": {"query": "boards of canada"}}}`, nil)

	text, isError := toolText(t, resp)
	if isError {
		t.Fatalf("expected success, got error text: %s", text)
	}
	if !strings.Contains(text, "**Boards of Canada**") {
		t.Errorf("expected artist name in output, got %q", text)
	}
	if !strings.Contains(text, "1,200,000") {
		t.Errorf("expected comma-grouped listeners, got %q", text)
	}
}

func TestToolSearchArtists_RequiresQuery(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no API request expected")
	})

	_, resp := rpcCall(t, s,
		`{"jsonrpc": "2.0", "id": 1, "method": "tools/call",
		  "params": {"name": "search_artists", "arguments": {}}}`, nil)

	text, isError := toolText(t, resp)
	if !isError {
		t.Fatal("expected isError")
	}
	if !strings.Contains(text, "query is required") {
		t.Errorf("unexpected error text: %q", text)
	}
}

// TestToolFailureFlattened verifies API failures arrive as error text
// blocks, never as JSON-RPC faults.
func TestToolFailureFlattened(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error": 29, "message": "Rate limit exceeded"}`))
	})

	_, resp := rpcCall(t, s,
		`{"jsonrpc": "2.0", "id": 1, "method": "tools/call",
		  "params": {"name": "get_artist_info", "arguments": {"artist": "Low"}}}`, nil)

	if resp["error"] != nil {
		t.Fatalf("tool failures must not become protocol errors: %v", resp["error"])
	}
	text, isError := toolText(t, resp)
	if !isError {
		t.Fatal("expected isError")
	}
	if !strings.HasPrefix(text, "Error getting artist info:") {
		t.Errorf("unexpected error text: %q", text)
	}
	if !strings.Contains(text, "Rate limit exceeded") {
		t.Errorf("expected remote message in error text, got %q", text)
	}
}

// TestToolAuthRequired verifies authenticated tools without a session
// return guidance rather than a raw error.
func TestToolAuthRequired(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no API request expected")
	})

	_, resp := rpcCall(t, s,
		`{"jsonrpc": "2.0", "id": 1, "method": "tools/call",
		  "params": {"name": "love_track", "arguments": {"artist": "Low", "track": "Especially Me"}}}`, nil)

	text, isError := toolText(t, resp)
	if !isError {
		t.Fatal("expected isError")
	}
	if !strings.Contains(text, "not authenticated") {
		t.Errorf("expected auth guidance, got %q", text)
	}
	if !strings.Contains(text, "get_auth_token") {
		t.Errorf("expected next-step hint, got %q", text)
	}
}

// TestToolAuthFlow drives the token and session tools end to end
// against a stub API.
func TestToolAuthFlow(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		switch r.FormValue("method") {
		case "auth.getToken":
			_, _ = w.Write([]byte(`{"token": "tok-42"}`))
		case "auth.getSession":
			if token := r.FormValue("token"); token != "tok-42" {
				t.Errorf("expected stored token tok-42, got %s", token)
			}
			_, _ = w.Write([]byte(`{"session": {"key": "sk-42", "name": "alice", "subscriber": "1"}}`))
		case "user.getinfo":
			_, _ = w.Write([]byte(`{"user": {"name": "alice"}}`))
		default:
			t.Errorf("unexpected method %s", r.FormValue("method"))
		}
	})

	_, resp := rpcCall(t, s,
		`{"jsonrpc": "2.0", "id": 1, "method": "tools/call",
		  "params": {"name": "get_auth_token", "arguments": {}}}`, nil)
	text, isError := toolText(t, resp)
	if isError {
		t.Fatalf("unexpected error: %s", text)
	}
	if !strings.Contains(text, "tok-42") || !strings.Contains(text, "https://www.last.fm/api/auth/") {
		t.Errorf("expected token and auth URL, got %q", text)
	}

	// no token argument: the pending token from get_auth_token is used
	_, resp = rpcCall(t, s,
		`{"jsonrpc": "2.0", "id": 2, "method": "tools/call",
		  "params": {"name": "get_session", "arguments": {}}}`, nil)
	text, isError = toolText(t, resp)
	if isError {
		t.Fatalf("unexpected error: %s", text)
	}
	if !strings.Contains(text, "Authenticated as **alice**") {
		t.Errorf("expected session confirmation, got %q", text)
	}

	_, resp = rpcCall(t, s,
		`{"jsonrpc": "2.0", "id": 3, "method": "tools/call",
		  "params": {"name": "validate_session", "arguments": {}}}`, nil)
	text, isError = toolText(t, resp)
	if isError {
		t.Fatalf("unexpected error: %s", text)
	}
	if text != "Session is valid." {
		t.Errorf("unexpected validation text: %q", text)
	}
}

func TestToolValidateSession_Rejected(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error": 9, "message": "Invalid session key"}`))
	})

	_, resp := rpcCall(t, s,
		`{"jsonrpc": "2.0", "id": 1, "method": "tools/call",
		  "params": {"name": "validate_session", "arguments": {"session_key": "sk-old"}}}`, nil)

	text, isError := toolText(t, resp)
	if isError {
		t.Fatalf("a rejected session is a result, not a fault: %s", text)
	}
	if !strings.Contains(text, "invalid or expired") {
		t.Errorf("unexpected text: %q", text)
	}
}

func TestToolScrobbleTrack(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		if method := r.FormValue("method"); method != "track.scrobble" {
			t.Errorf("expected method track.scrobble, got %s", method)
		}
		if ts := r.FormValue("timestamp"); ts != "1756400000" {
			t.Errorf("expected timestamp 1756400000, got %s", ts)
		}
		_, _ = w.Write([]byte(`{
			"scrobbles": {
				"scrobble": {
					"artist": {"#text": "Low"}, "track": {"#text": "Especially Me"},
					"ignoredMessage": {"code": "0", "#text": ""}
				},
				"@attr": {"accepted": 1, "ignored": 0}
			}
		}`))
	})
	s.Client.SetSessionKey("sk-42")

	_, resp := rpcCall(t, s,
		`{"jsonrpc": "2.0", "id": 1, "method": "tools/call",
		  "params": {"name": "scrobble_track",
		             "arguments": {"artist": "Low", "track": "Especially Me", "timestamp": 1756400000}}}`, nil)

	text, isError := toolText(t, resp)
	if isError {
		t.Fatalf("unexpected error: %s", text)
	}
	if !strings.Contains(text, "Scrobbled **Especially Me** by Low") {
		t.Errorf("unexpected text: %q", text)
	}
}

func TestToolScrobbleTrack_RequiresArtistAndTrack(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no API request expected")
	})

	_, resp := rpcCall(t, s,
		`{"jsonrpc": "2.0", "id": 1, "method": "tools/call",
		  "params": {"name": "scrobble_track", "arguments": {"artist": "Low"}}}`, nil)

	text, isError := toolText(t, resp)
	if !isError {
		t.Fatal("expected isError")
	}
	if !strings.Contains(text, "artist and track are required") {
		t.Errorf("unexpected text: %q", text)
	}
}
