package lastfm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// TrackService provides track lookup and library operations for the
// Last.fm API.
type TrackService struct {
	client *Client
}

// TrackInfo is the decoded track.getinfo payload.
type TrackInfo struct {
	Name          string
	Artist        string
	Album         string
	MBID          string
	URL           string
	Duration      int // seconds
	Listeners     int
	Playcount     int
	UserPlaycount int
	UserLoved     bool
	Tags          []string
	WikiSummary   string
}

// TrackSearchResult is a single track from search results.
type TrackSearchResult struct {
	Name      string
	Artist    string
	MBID      string
	URL       string
	Listeners int
}

// TrackSearchResponse holds track search results with pagination.
type TrackSearchResponse struct {
	Query        string
	TotalResults int
	StartPage    int
	ItemsPerPage int
	Tracks       []TrackSearchResult
}

// SimilarTrack is one entry of a track's similar list.
type SimilarTrack struct {
	Name     string
	Artist   string
	MBID     string
	URL      string
	Match    float64
	Duration int
}

// TrackInfoParams selects the track for GetInfo. Either Artist+Track or
// MBID must be set; MBID wins when both are present.
type TrackInfoParams struct {
	Artist      string
	Track       string
	MBID        string
	Autocorrect bool
	Username    string
}

// GetInfo returns detailed information about a track.
func (s *TrackService) GetInfo(ctx context.Context, p TrackInfoParams) (*TrackInfo, error) {
	params := map[string]string{}
	switch {
	case p.MBID != "":
		params["mbid"] = p.MBID
	case p.Artist != "" && p.Track != "":
		params["artist"] = p.Artist
		params["track"] = p.Track
	default:
		return nil, fmt.Errorf("lastfm: either artist and track names or mbid must be provided")
	}
	if !p.Autocorrect {
		params["autocorrect"] = "0"
	}
	if p.Username != "" {
		params["username"] = p.Username
	}

	body, err := s.client.call(ctx, http.MethodGet, "track.getinfo", params, false)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Track struct {
			Name      string   `json:"name"`
			MBID      string   `json:"mbid"`
			URL       string   `json:"url"`
			Duration  flexInt  `json:"duration"`
			Listeners flexInt  `json:"listeners"`
			Playcount flexInt  `json:"playcount"`
			Artist    jsonName `json:"artist"`
			Album     struct {
				Title string `json:"title"`
			} `json:"album"`
			UserPlaycount flexInt  `json:"userplaycount"`
			UserLoved     flexBool `json:"userloved"`
			TopTags       struct {
				Tag oneOrMany[jsonName] `json:"tag"`
			} `json:"toptags"`
			Wiki struct {
				Summary string `json:"summary"`
			} `json:"wiki"`
		} `json:"track"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("lastfm: failed to parse track info: %w", err)
	}

	info := &TrackInfo{
		Name:          resp.Track.Name,
		Artist:        resp.Track.Artist.Name,
		Album:         resp.Track.Album.Title,
		MBID:          resp.Track.MBID,
		URL:           resp.Track.URL,
		Duration:      int(resp.Track.Duration) / 1000, // getinfo reports milliseconds
		Listeners:     int(resp.Track.Listeners),
		Playcount:     int(resp.Track.Playcount),
		UserPlaycount: int(resp.Track.UserPlaycount),
		UserLoved:     bool(resp.Track.UserLoved),
		WikiSummary:   resp.Track.Wiki.Summary,
	}
	for _, tag := range resp.Track.TopTags.Tag {
		info.Tags = append(info.Tags, tag.Name)
	}
	return info, nil
}

// Search searches for tracks by name, optionally narrowed by artist.
func (s *TrackService) Search(ctx context.Context, track, artist string, limit, page int) (*TrackSearchResponse, error) {
	params := map[string]string{
		"track": track,
		"limit": strconv.Itoa(clampLimit(limit, maxPageSize)),
		"page":  strconv.Itoa(defaultPage(page)),
	}
	if artist != "" {
		params["artist"] = artist
	}

	body, err := s.client.call(ctx, http.MethodGet, "track.search", params, false)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Results struct {
			searchAttr
			TrackMatches struct {
				Track oneOrMany[struct {
					Name      string  `json:"name"`
					Artist    string  `json:"artist"`
					MBID      string  `json:"mbid"`
					URL       string  `json:"url"`
					Listeners flexInt `json:"listeners"`
				}] `json:"track"`
			} `json:"trackmatches"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("lastfm: failed to parse track search: %w", err)
	}

	out := &TrackSearchResponse{
		Query:        resp.Results.Query.Text,
		TotalResults: int(resp.Results.TotalResults),
		StartPage:    int(resp.Results.StartPage),
		ItemsPerPage: int(resp.Results.ItemsPerPage),
	}
	for _, t := range resp.Results.TrackMatches.Track {
		out.Tracks = append(out.Tracks, TrackSearchResult{
			Name:      t.Name,
			Artist:    t.Artist,
			MBID:      t.MBID,
			URL:       t.URL,
			Listeners: int(t.Listeners),
		})
	}
	return out, nil
}

// GetSimilar returns tracks similar to the given one.
func (s *TrackService) GetSimilar(ctx context.Context, artist, track, mbid string, limit int) ([]SimilarTrack, error) {
	params := map[string]string{
		"limit": strconv.Itoa(clampLimit(limit, maxPageSize)),
	}
	switch {
	case mbid != "":
		params["mbid"] = mbid
	case artist != "" && track != "":
		params["artist"] = artist
		params["track"] = track
	default:
		return nil, fmt.Errorf("lastfm: either artist and track names or mbid must be provided")
	}

	body, err := s.client.call(ctx, http.MethodGet, "track.getsimilar", params, false)
	if err != nil {
		return nil, err
	}

	var resp struct {
		SimilarTracks struct {
			Track oneOrMany[struct {
				Name     string    `json:"name"`
				MBID     string    `json:"mbid"`
				URL      string    `json:"url"`
				Match    flexFloat `json:"match"`
				Duration flexInt   `json:"duration"`
				Artist   jsonName  `json:"artist"`
			}] `json:"track"`
		} `json:"similartracks"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("lastfm: failed to parse similar tracks: %w", err)
	}

	similar := make([]SimilarTrack, 0, len(resp.SimilarTracks.Track))
	for _, t := range resp.SimilarTracks.Track {
		similar = append(similar, SimilarTrack{
			Name:     t.Name,
			Artist:   t.Artist.Name,
			MBID:     t.MBID,
			URL:      t.URL,
			Match:    float64(t.Match),
			Duration: int(t.Duration),
		})
	}
	return similar, nil
}

// GetTopTags returns the top tags for a track.
func (s *TrackService) GetTopTags(ctx context.Context, artist, track, mbid string) ([]TagCount, error) {
	params := map[string]string{}
	switch {
	case mbid != "":
		params["mbid"] = mbid
	case artist != "" && track != "":
		params["artist"] = artist
		params["track"] = track
	default:
		return nil, fmt.Errorf("lastfm: either artist and track names or mbid must be provided")
	}

	body, err := s.client.call(ctx, http.MethodGet, "track.gettoptags", params, false)
	if err != nil {
		return nil, err
	}
	return parseTopTags(body)
}

// Love marks a track as loved for the authenticated user.
//
// Requires authentication (session key must be set via SetSessionKey).
func (s *TrackService) Love(ctx context.Context, artist, track string) error {
	return s.loveAction(ctx, "track.love", artist, track)
}

// Unlove removes the loved mark from a track for the authenticated user.
//
// Requires authentication (session key must be set via SetSessionKey).
func (s *TrackService) Unlove(ctx context.Context, artist, track string) error {
	return s.loveAction(ctx, "track.unlove", artist, track)
}

func (s *TrackService) loveAction(ctx context.Context, apiMethod, artist, track string) error {
	sk := s.client.GetSessionKey()
	if sk == "" {
		return ErrNoSessionKey
	}
	params := map[string]string{
		"artist": artist,
		"track":  track,
		"sk":     sk,
	}

	_, err := s.client.call(ctx, http.MethodPost, apiMethod, params, true)
	return err
}
