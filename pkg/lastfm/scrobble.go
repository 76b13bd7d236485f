package lastfm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ScrobbleService provides scrobbling operations for the Last.fm API.
type ScrobbleService struct {
	client *Client
}

// NowPlayingResponse represents the response from track.updateNowPlaying.
type NowPlayingResponse struct {
	Artist         string
	Track          string
	Album          string
	AlbumArtist    string
	IgnoredCode    int
	IgnoredMessage string
}

// ScrobbleResponse represents the response from track.scrobble.
type ScrobbleResponse struct {
	Accepted       int
	Ignored        int
	Artist         string
	Track          string
	Album          string
	Timestamp      int64
	IgnoredCode    int
	IgnoredMessage string
}

// correctedField is the {"corrected": "0", "#text": ...} wrapper used in
// scrobble responses.
type correctedField struct {
	Text string `json:"#text"`
}

// UpdateNowPlaying updates the "now playing" status on Last.fm.
//
// This should be called when a track starts playing. It does not count
// as a scrobble and does not affect play counts.
//
// Requires authentication (session key must be set via SetSessionKey).
func (s *ScrobbleService) UpdateNowPlaying(ctx context.Context, track Track) (*NowPlayingResponse, error) {
	sk := s.client.GetSessionKey()
	if sk == "" {
		return nil, ErrNoSessionKey
	}

	params := map[string]string{
		"artist": track.Artist,
		"track":  track.Track,
		"sk":     sk,
	}
	addTrackParams(params, track)

	body, err := s.client.call(ctx, http.MethodPost, "track.updateNowPlaying", params, true)
	if err != nil {
		return nil, err
	}

	var resp struct {
		NowPlaying struct {
			Artist         correctedField `json:"artist"`
			Track          correctedField `json:"track"`
			Album          correctedField `json:"album"`
			AlbumArtist    correctedField `json:"albumArtist"`
			IgnoredMessage struct {
				Code flexInt `json:"code"`
				Text string  `json:"#text"`
			} `json:"ignoredMessage"`
		} `json:"nowplaying"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("lastfm: failed to parse now playing response: %w", err)
	}

	return &NowPlayingResponse{
		Artist:         resp.NowPlaying.Artist.Text,
		Track:          resp.NowPlaying.Track.Text,
		Album:          resp.NowPlaying.Album.Text,
		AlbumArtist:    resp.NowPlaying.AlbumArtist.Text,
		IgnoredCode:    int(resp.NowPlaying.IgnoredMessage.Code),
		IgnoredMessage: resp.NowPlaying.IgnoredMessage.Text,
	}, nil
}

// Scrobble submits a single scrobble to Last.fm.
//
// A track should only be scrobbled when:
//   - The track is longer than 30 seconds, AND
//   - The track has been played for at least 50% of its duration OR
//     4 minutes (whichever comes first)
//
// Requires authentication (session key must be set via SetSessionKey).
func (s *ScrobbleService) Scrobble(ctx context.Context, track Track, timestamp time.Time) (*ScrobbleResponse, error) {
	sk := s.client.GetSessionKey()
	if sk == "" {
		return nil, ErrNoSessionKey
	}

	params := map[string]string{
		"artist":    track.Artist,
		"track":     track.Track,
		"timestamp": strconv.FormatInt(timestamp.Unix(), 10),
		"sk":        sk,
	}
	addTrackParams(params, track)

	body, err := s.client.call(ctx, http.MethodPost, "track.scrobble", params, true)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Scrobbles struct {
			Scrobble oneOrMany[struct {
				Artist         correctedField `json:"artist"`
				Track          correctedField `json:"track"`
				Album          correctedField `json:"album"`
				Timestamp      flexInt        `json:"timestamp"`
				IgnoredMessage struct {
					Code flexInt `json:"code"`
					Text string  `json:"#text"`
				} `json:"ignoredMessage"`
			}] `json:"scrobble"`
			Attr struct {
				Accepted flexInt `json:"accepted"`
				Ignored  flexInt `json:"ignored"`
			} `json:"@attr"`
		} `json:"scrobbles"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("lastfm: failed to parse scrobble response: %w", err)
	}

	out := &ScrobbleResponse{
		Accepted: int(resp.Scrobbles.Attr.Accepted),
		Ignored:  int(resp.Scrobbles.Attr.Ignored),
	}
	if len(resp.Scrobbles.Scrobble) > 0 {
		accepted := resp.Scrobbles.Scrobble[0]
		out.Artist = accepted.Artist.Text
		out.Track = accepted.Track.Text
		out.Album = accepted.Album.Text
		out.Timestamp = int64(accepted.Timestamp)
		out.IgnoredCode = int(accepted.IgnoredMessage.Code)
		out.IgnoredMessage = accepted.IgnoredMessage.Text
	}
	return out, nil
}

// addTrackParams appends the optional track fields shared by scrobble
// and now-playing submissions.
func addTrackParams(params map[string]string, track Track) {
	if track.Album != "" {
		params["album"] = track.Album
	}
	if track.AlbumArtist != "" {
		params["albumArtist"] = track.AlbumArtist
	}
	if track.Duration > 0 {
		params["duration"] = strconv.Itoa(track.Duration)
	}
	if track.TrackNumber > 0 {
		params["trackNumber"] = strconv.Itoa(track.TrackNumber)
	}
	if track.MBTrackID != "" {
		params["mbid"] = track.MBTrackID
	}
}
