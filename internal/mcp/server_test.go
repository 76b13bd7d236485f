package mcp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ecrawford/lastfm-mcp/internal/authflow"
	"github.com/ecrawford/lastfm-mcp/pkg/lastfm"
)

// newTestServer builds an MCP server whose Last.fm client talks to the
// given stub handler.
func newTestServer(t *testing.T, handler http.HandlerFunc) *Server {
	t.Helper()
	api := httptest.NewServer(handler)
	t.Cleanup(api.Close)

	client, err := lastfm.NewClient(lastfm.Config{
		APIKey:    "test-api-key",
		APISecret: "test-secret",
		BaseURL:   api.URL,
	})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	store := authflow.NewMemoryStore("", "")
	return &Server{
		Client: client,
		Flow:   authflow.New(client, store, zerolog.Nop()),
		Logger: zerolog.Nop(),
	}
}

func rpcCall(t *testing.T, s *Server, body string, header map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	var resp map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v (%s)", err, rec.Body.String())
		}
	}
	return rec, resp
}

// toolText extracts the single text block from a tools/call result.
func toolText(t *testing.T, resp map[string]any) (string, bool) {
	t.Helper()
	result, ok := resp["result"].(map[string]any)
	if !ok {
		t.Fatalf("expected result object, got %v", resp)
	}
	content, ok := result["content"].([]any)
	if !ok || len(content) != 1 {
		t.Fatalf("expected one content block, got %v", result)
	}
	block := content[0].(map[string]any)
	isError, _ := result["isError"].(bool)
	return block["text"].(string), isError
}

func TestServer_Initialize(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no API request expected")
	})

	rec, resp := rpcCall(t, s, `{"jsonrpc": "2.0", "id": 1, "method": "initialize"}`, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	sessionID := rec.Header().Get("Mcp-Session-Id")
	if sessionID == "" {
		t.Error("expected Mcp-Session-Id header")
	}

	result := resp["result"].(map[string]any)
	if _, ok := result["_sessionId"]; ok {
		t.Error("internal session id leaked into the result")
	}
	info := result["serverInfo"].(map[string]any)
	if info["name"] != "lastfm-mcp" {
		t.Errorf("unexpected server name: %v", info["name"])
	}

	// the issued session id must be accepted on later requests
	_, pingResp := rpcCall(t, s, `{"jsonrpc": "2.0", "id": 2, "method": "ping"}`,
		map[string]string{"Mcp-Session-Id": sessionID})
	if pingResp["error"] != nil {
		t.Errorf("expected ping to succeed, got %v", pingResp["error"])
	}
}

func TestServer_UnknownSessionRejected(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no API request expected")
	})

	_, resp := rpcCall(t, s, `{"jsonrpc": "2.0", "id": 1, "method": "ping"}`,
		map[string]string{"Mcp-Session-Id": "nope"})
	if resp["error"] == nil {
		t.Error("expected error for unknown session")
	}
}

// TestServer_SessionCapEvictsOldest verifies that session tracking stays
// bounded: past the cap the oldest id stops validating while the newest
// still works.
func TestServer_SessionCapEvictsOldest(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no API request expected")
	})

	s.addSession("first")
	for i := 0; i < maxSessions; i++ {
		s.addSession(uuid.NewString())
	}

	if s.hasSession("first") {
		t.Error("expected oldest session to be evicted past the cap")
	}
	newest := s.sessionOrder[len(s.sessionOrder)-1]
	if !s.hasSession(newest) {
		t.Error("expected newest session to survive")
	}
	if len(s.sessions) != maxSessions || len(s.sessionOrder) != maxSessions {
		t.Errorf("expected exactly %d tracked sessions, got %d/%d",
			maxSessions, len(s.sessions), len(s.sessionOrder))
	}

	// an evicted id is treated like an unknown one
	_, resp := rpcCall(t, s, `{"jsonrpc": "2.0", "id": 1, "method": "ping"}`,
		map[string]string{"Mcp-Session-Id": "first"})
	if resp["error"] == nil {
		t.Error("expected error for evicted session")
	}
}

func TestServer_BearerToken(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no API request expected")
	})
	s.Token = "secret-token"

	rec, _ := rpcCall(t, s, `{"jsonrpc": "2.0", "id": 1, "method": "ping"}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rec.Code)
	}

	rec, _ = rpcCall(t, s, `{"jsonrpc": "2.0", "id": 1, "method": "ping"}`,
		map[string]string{"Authorization": "Bearer wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with wrong token, got %d", rec.Code)
	}

	rec, resp := rpcCall(t, s, `{"jsonrpc": "2.0", "id": 1, "method": "ping"}`,
		map[string]string{"Authorization": "Bearer secret-token"})
	if rec.Code != http.StatusOK || resp["error"] != nil {
		t.Errorf("expected success with correct token, got %d %v", rec.Code, resp["error"])
	}
}

func TestServer_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no API request expected")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestServer_NotificationAccepted(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no API request expected")
	})

	rec, _ := rpcCall(t, s, `{"jsonrpc": "2.0", "method": "notifications/initialized"}`, nil)
	if rec.Code != http.StatusAccepted {
		t.Errorf("expected 202 for notification, got %d", rec.Code)
	}
}

func TestServer_ToolsList(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no API request expected")
	})

	_, resp := rpcCall(t, s, `{"jsonrpc": "2.0", "id": 1, "method": "tools/list"}`, nil)

	result := resp["result"].(map[string]any)
	tools := result["tools"].([]any)
	if len(tools) != 31 {
		t.Errorf("expected 31 tools, got %d", len(tools))
	}

	names := map[string]bool{}
	for _, tool := range tools {
		names[tool.(map[string]any)["name"].(string)] = true
	}
	for _, want := range []string{"search_artists", "get_auth_token", "get_session", "validate_session", "scrobble_track", "love_track"} {
		if !names[want] {
			t.Errorf("expected tool %q to be listed", want)
		}
	}
}

func TestServer_EmptyResourcesAndPrompts(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no API request expected")
	})

	_, resp := rpcCall(t, s, `{"jsonrpc": "2.0", "id": 1, "method": "resources/list"}`, nil)
	result := resp["result"].(map[string]any)
	if resources := result["resources"].([]any); len(resources) != 0 {
		t.Errorf("expected no resources, got %v", resources)
	}

	_, resp = rpcCall(t, s, `{"jsonrpc": "2.0", "id": 1, "method": "prompts/list"}`, nil)
	result = resp["result"].(map[string]any)
	if prompts := result["prompts"].([]any); len(prompts) != 0 {
		t.Errorf("expected no prompts, got %v", prompts)
	}
}

func TestServer_ParseAndVersionErrors(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no API request expected")
	})

	_, resp := rpcCall(t, s, `{not json`, nil)
	errObj := resp["error"].(map[string]any)
	if errObj["code"].(float64) != -32700 {
		t.Errorf("expected parse error -32700, got %v", errObj["code"])
	}

	_, resp = rpcCall(t, s, `{"jsonrpc": "1.0", "id": 1, "method": "ping"}`, nil)
	errObj = resp["error"].(map[string]any)
	if errObj["code"].(float64) != -32600 {
		t.Errorf("expected invalid request -32600, got %v", errObj["code"])
	}
}

func TestServer_UnknownMethodAndTool(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no API request expected")
	})

	_, resp := rpcCall(t, s, `{"jsonrpc": "2.0", "id": 1, "method": "bogus/method"}`, nil)
	errObj := resp["error"].(map[string]any)
	if errObj["code"].(float64) != -32601 {
		t.Errorf("expected method not found -32601, got %v", errObj["code"])
	}

	_, resp = rpcCall(t, s, `{"jsonrpc": "2.0", "id": 1, "method": "tools/call", "params": {"name": "bogus_tool"}}`, nil)
	errObj = resp["error"].(map[string]any)
	if errObj["code"].(float64) != -32602 {
		t.Errorf("expected invalid params -32602, got %v", errObj["code"])
	}
}
