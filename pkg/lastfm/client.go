// Package lastfm provides a client for the Last.fm API 2.0.
//
// This package implements the Last.fm API for authentication,
// scrobbling, and catalogue lookups. It is designed to be used
// as a standalone SDK.
//
// Example usage:
//
//	import "github.com/ecrawford/lastfm-mcp/pkg/lastfm"
//
//	client, err := lastfm.NewClient(lastfm.Config{
//	    APIKey:    "your-api-key",
//	    APISecret: "your-api-secret",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	token, err := client.Auth().GetToken(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Authorize at:", client.Auth().GetAuthURL(token.Token))
package lastfm

import (
	"net/http"
	"sync"
	"time"
)

// Config holds client configuration.
type Config struct {
	APIKey     string       // Required: Last.fm API key
	APISecret  string       // Required for signed calls: Last.fm shared secret
	SessionKey string       // Optional: Session key for authenticated requests
	HTTPClient *http.Client // Optional: HTTP client (defaults to a client with a 30s timeout)
	BaseURL    string       // Optional: Base URL for API (defaults to Last.fm API, used for testing)
	Logger     Logger       // Optional: Logger interface for debug logging
}

// Logger is an optional interface for logging.
type Logger interface {
	// Debugf logs a debug message with format and arguments.
	Debugf(format string, args ...interface{})
}

// Client is the main entry point for Last.fm API operations.
type Client struct {
	apiKey     string
	apiSecret  string
	httpClient *http.Client
	baseURL    string
	logger     Logger

	// sessionMu guards sessionKey, which an auth exchange may replace
	// while authenticated calls are in flight on other goroutines.
	sessionMu  sync.RWMutex
	sessionKey string

	auth     *AuthService
	artist   *ArtistService
	album    *AlbumService
	track    *TrackService
	user     *UserService
	tag      *TagService
	chart    *ChartService
	scrobble *ScrobbleService
}

const (
	// DefaultBaseURL is the default Last.fm API endpoint.
	DefaultBaseURL = "https://ws.audioscrobbler.com/2.0/"

	// defaultTimeout bounds every request; a single attempt that
	// exceeds it fails with a transport error.
	defaultTimeout = 30 * time.Second

	userAgent = "lastfm-mcp/1.0"
)

// NewClient creates a new Last.fm API client.
//
// Returns an error if the required APIKey is missing. APISecret may be
// left empty for read-only use; signed calls will then fail with
// ErrMissingSecret.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrInvalidConfig
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		apiKey:     cfg.APIKey,
		apiSecret:  cfg.APISecret,
		sessionKey: cfg.SessionKey,
		httpClient: httpClient,
		baseURL:    baseURL,
		logger:     cfg.Logger,
	}

	c.auth = &AuthService{client: c}
	c.artist = &ArtistService{client: c}
	c.album = &AlbumService{client: c}
	c.track = &TrackService{client: c}
	c.user = &UserService{client: c}
	c.tag = &TagService{client: c}
	c.chart = &ChartService{client: c}
	c.scrobble = &ScrobbleService{client: c}

	return c, nil
}

// Auth returns the authentication service.
func (c *Client) Auth() *AuthService {
	return c.auth
}

// Artist returns the artist lookup service.
func (c *Client) Artist() *ArtistService {
	return c.artist
}

// Album returns the album lookup service.
func (c *Client) Album() *AlbumService {
	return c.album
}

// Track returns the track lookup service.
func (c *Client) Track() *TrackService {
	return c.track
}

// User returns the user lookup service.
func (c *Client) User() *UserService {
	return c.user
}

// Tag returns the tag lookup service.
func (c *Client) Tag() *TagService {
	return c.tag
}

// Chart returns the global chart service.
func (c *Client) Chart() *ChartService {
	return c.chart
}

// Scrobble returns the scrobbling service.
func (c *Client) Scrobble() *ScrobbleService {
	return c.scrobble
}

// SetSessionKey sets the session key for authenticated requests. Safe
// for concurrent use with in-flight calls.
func (c *Client) SetSessionKey(key string) {
	c.sessionMu.Lock()
	c.sessionKey = key
	c.sessionMu.Unlock()
}

// GetSessionKey returns the current session key.
func (c *Client) GetSessionKey() string {
	c.sessionMu.RLock()
	defer c.sessionMu.RUnlock()
	return c.sessionKey
}

// logDebugf logs a debug message if a logger is configured.
func (c *Client) logDebugf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debugf(format, args...)
	}
}
