// Package lastfm provides a client library for the Last.fm API 2.0.
//
// # Overview
//
// This package implements a Go client for the Last.fm API covering
// authentication, scrobbling, and the catalogue lookup surface (artists,
// albums, tracks, users, tags, global charts). It provides a clean,
// type-safe API with context support and structured error handling.
// Responses are requested and decoded as JSON.
//
// # Quick Start
//
// First, create a client with your API credentials:
//
//	import "github.com/ecrawford/lastfm-mcp/pkg/lastfm"
//
//	client, err := lastfm.NewClient(lastfm.Config{
//	    APIKey:    "your-api-key",
//	    APISecret: "your-shared-secret",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Authentication
//
// Last.fm uses a token-based authentication flow:
//
//  1. Get a token from Last.fm
//  2. Direct the user to authorize the token
//  3. Exchange the token for a session key
//  4. Store and reuse the session key
//
// Example:
//
//	// Step 1: Get token
//	token, err := client.Auth().GetToken(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Step 2: User authorizes
//	fmt.Println("Please visit:", token.AuthURL)
//	fmt.Print("Press enter after authorizing...")
//	fmt.Scanln()
//
//	// Step 3: Get session
//	session, err := client.Auth().GetSession(ctx, token.Token)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Step 4: Save and use session key
//	client.SetSessionKey(session.Key)
//
// Requests that mutate state (scrobbles, loves, now-playing updates) and
// the authentication calls themselves carry an MD5 signature computed
// from the sorted request parameters and the shared secret; the secret
// itself never travels.
//
// # Lookups
//
//	results, err := client.Artist().Search(ctx, "Radiohead", 10, 1)
//	info, err := client.Artist().GetInfo(ctx, lastfm.ArtistInfoParams{
//	    Artist:      "Radiohead",
//	    Autocorrect: true,
//	})
//
// # Scrobbling
//
// Once authenticated, you can scrobble tracks and update now playing
// status:
//
//	track := lastfm.Track{
//	    Artist: "The Beatles",
//	    Track:  "Yesterday",
//	    Album:  "Help!",
//	}
//	_, err := client.Scrobble().UpdateNowPlaying(ctx, track)
//	_, err = client.Scrobble().Scrobble(ctx, track, time.Now())
//
// # Error Handling
//
// API-reported failures are returned as *Error with the remote code and
// message. Transport failures (connection, status, decode) use code 0.
// There is no automatic retry: every call is a single network attempt
// bounded by the HTTP client timeout.
//
//	_, err := client.Scrobble().Scrobble(ctx, track, timestamp)
//	var apiErr *lastfm.Error
//	if errors.As(err, &apiErr) && apiErr.Code == lastfm.ErrCodeInvalidSessionKey {
//	    // re-run the authentication flow
//	}
//
// # Context Support
//
// All API methods accept a context.Context for cancellation and
// timeouts:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
//	defer cancel()
//
//	token, err := client.Auth().GetToken(ctx)
//
// # Last.fm API Documentation
//
// For more information about the Last.fm API:
// https://www.last.fm/api
package lastfm
