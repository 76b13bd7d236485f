// Package mcp implements the Model Context Protocol over HTTP,
// exposing the Last.fm SDK as callable tools.
package mcp

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ecrawford/lastfm-mcp/internal/authflow"
	"github.com/ecrawford/lastfm-mcp/pkg/lastfm"
)

const (
	protocolVersion = "2025-06-18"
	serverName      = "lastfm-mcp"
	serverVersion   = "1.0.0"

	// maxSessions bounds the tracked session IDs. Each initialize mints
	// one; past the cap the oldest is evicted and its ID stops
	// validating, forcing that client to re-initialize.
	maxSessions = 1024
)

// Server implements the MCP protocol over HTTP.
type Server struct {
	Client *lastfm.Client
	Flow   *authflow.Flow
	Token  string // empty = no auth required
	Logger zerolog.Logger

	sessionMu    sync.Mutex
	sessions     map[string]struct{}
	sessionOrder []string
}

func (s *Server) addSession(id string) {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()
	if s.sessions == nil {
		s.sessions = make(map[string]struct{})
	}
	if len(s.sessionOrder) >= maxSessions {
		oldest := s.sessionOrder[0]
		s.sessionOrder = s.sessionOrder[1:]
		delete(s.sessions, oldest)
	}
	s.sessions[id] = struct{}{}
	s.sessionOrder = append(s.sessionOrder, id)
}

func (s *Server) hasSession(id string) bool {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()
	_, ok := s.sessions[id]
	return ok
}

// --- response writer wrapper ---

type responseWriter struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
	rpcMethod   string
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.status = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.wroteHeader = true
		rw.status = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}

// --- JSON-RPC types ---

type jsonrpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type jsonrpcResponse struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id"`
	Result  any       `json:"result,omitempty"`
	Error   *rpcError `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func rpcResult(id any, result any) *jsonrpcResponse {
	return &jsonrpcResponse{JSONRPC: "2.0", ID: id, Result: result}
}

func rpcErr(id any, code int, msg string) *jsonrpcResponse {
	return &jsonrpcResponse{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: code, Message: msg}}
}

// --- HTTP handler ---

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

	s.serveRequest(rw, r)

	s.Logger.Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", rw.status).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Str("rpc_method", rw.rpcMethod).
		Int("response_bytes", rw.bytes).
		Msg("http request")
}

func (s *Server) serveRequest(w *responseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if s.Token != "" {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != s.Token {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	var req jsonrpcRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusOK, rpcErr(nil, -32700, "Parse error"))
		return
	}

	w.rpcMethod = req.Method

	if req.JSONRPC != "2.0" {
		writeJSON(w, http.StatusOK, rpcErr(req.ID, -32600, "Invalid request: jsonrpc must be 2.0"))
		return
	}

	// Notifications (no ID) get 202 Accepted
	if req.ID == nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}

	if req.Method != "initialize" {
		sessionID := r.Header.Get("Mcp-Session-Id")
		if sessionID != "" {
			if !s.hasSession(sessionID) {
				writeJSON(w, http.StatusOK, rpcErr(req.ID, -32600, "Invalid session"))
				return
			}
		}
	}

	resp := s.dispatch(r, req)

	// For initialize, surface the generated session ID as a header
	if req.Method == "initialize" && resp.Error == nil {
		if result, ok := resp.Result.(map[string]any); ok {
			if sid, ok := result["_sessionId"].(string); ok {
				w.Header().Set("Mcp-Session-Id", sid)
				delete(result, "_sessionId")
			}
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) dispatch(r *http.Request, req jsonrpcRequest) *jsonrpcResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "ping":
		return rpcResult(req.ID, map[string]any{})
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(r.Context(), req)
	case "resources/list":
		return rpcResult(req.ID, map[string]any{"resources": []any{}})
	case "prompts/list":
		return rpcResult(req.ID, map[string]any{"prompts": []any{}})
	default:
		return rpcErr(req.ID, -32601, "Method not found: "+req.Method)
	}
}

func (s *Server) handleInitialize(req jsonrpcRequest) *jsonrpcResponse {
	sessionID := uuid.NewString()
	s.addSession(sessionID)

	result := map[string]any{
		"protocolVersion": protocolVersion,
		"capabilities": map[string]any{
			"tools":     map[string]any{},
			"resources": map[string]any{},
			"prompts":   map[string]any{},
		},
		"serverInfo": map[string]any{
			"name":    serverName,
			"version": serverVersion,
		},
		"_sessionId": sessionID, // stripped by serveRequest and set as header
	}
	return rpcResult(req.ID, result)
}

func (s *Server) handleToolsList(req jsonrpcRequest) *jsonrpcResponse {
	tools := toolDefinitions()
	s.Logger.Debug().Int("items", len(tools)).Msg("tools listed")
	return rpcResult(req.ID, map[string]any{"tools": tools})
}

// --- helpers ---

func toolResult(id any, text string) *jsonrpcResponse {
	return rpcResult(id, map[string]any{
		"content": []map[string]any{
			{"type": "text", "text": text},
		},
		"isError": false,
	})
}

func toolError(id any, text string) *jsonrpcResponse {
	return rpcResult(id, map[string]any{
		"content": []map[string]any{
			{"type": "text", "text": text},
		},
		"isError": true,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func str(m map[string]any, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func intVal(m map[string]any, key string, def int) int {
	if v, ok := m[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		case json.Number:
			i, _ := n.Int64()
			return int(i)
		}
	}
	return def
}

func boolVal(m map[string]any, key string, def bool) bool {
	if v, ok := m[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}
