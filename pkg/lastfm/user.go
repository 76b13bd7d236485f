package lastfm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// UserService provides user profile and listening history operations for
// the Last.fm API.
type UserService struct {
	client *Client
}

// maxRecentTracks is the largest page recent-track lookups accept.
const maxRecentTracks = 200

// UserInfo is the decoded user.getinfo payload.
type UserInfo struct {
	Name       string
	RealName   string
	URL        string
	Country    string
	Age        int
	Playcount  int
	Registered int64 // unix timestamp
	Subscriber bool
	Image      Image
}

// RecentTrack is one scrobble from a user's listening history.
type RecentTrack struct {
	Name       string
	Artist     string
	Album      string
	MBID       string
	URL        string
	NowPlaying bool
	PlayedAt   int64 // unix timestamp, zero while playing
}

// RecentTracksResponse holds a user's recent tracks with pagination.
type RecentTracksResponse struct {
	User       string
	Total      int
	Page       int
	PerPage    int
	TotalPages int
	Tracks     []RecentTrack
}

// RankedEntry is one row of a user's top artists/albums/tracks listing.
type RankedEntry struct {
	Name      string
	Artist    string // empty for artist listings
	MBID      string
	URL       string
	Playcount int
	Rank      int
}

// UserTopResponse holds a user's top artists, albums, or tracks.
type UserTopResponse struct {
	User       string
	Period     string
	Total      int
	Page       int
	PerPage    int
	TotalPages int
	Entries    []RankedEntry
}

// LovedTrack is one entry of a user's loved tracks.
type LovedTrack struct {
	Name    string
	Artist  string
	MBID    string
	URL     string
	LovedAt int64 // unix timestamp
}

// LovedTracksResponse holds a user's loved tracks with pagination.
type LovedTracksResponse struct {
	User       string
	Total      int
	Page       int
	PerPage    int
	TotalPages int
	Tracks     []LovedTrack
}

// RecentTracksParams controls GetRecentTracks.
type RecentTracksParams struct {
	User     string
	Limit    int
	Page     int
	From     int64 // unix timestamp, inclusive lower bound
	To       int64 // unix timestamp, exclusive upper bound
	Extended bool
}

// GetInfo returns profile information for a user.
func (s *UserService) GetInfo(ctx context.Context, user string) (*UserInfo, error) {
	if user == "" {
		return nil, fmt.Errorf("lastfm: username is required")
	}
	params := map[string]string{"user": user}

	body, err := s.client.call(ctx, http.MethodGet, "user.getinfo", params, false)
	if err != nil {
		return nil, err
	}

	var resp struct {
		User struct {
			Name       string      `json:"name"`
			RealName   string      `json:"realname"`
			URL        string      `json:"url"`
			Country    string      `json:"country"`
			Age        flexInt     `json:"age"`
			Playcount  flexInt     `json:"playcount"`
			Subscriber flexBool    `json:"subscriber"`
			Image      []jsonImage `json:"image"`
			Registered jsonDate    `json:"registered"`
		} `json:"user"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("lastfm: failed to parse user info: %w", err)
	}

	return &UserInfo{
		Name:       resp.User.Name,
		RealName:   resp.User.RealName,
		URL:        resp.User.URL,
		Country:    resp.User.Country,
		Age:        int(resp.User.Age),
		Playcount:  int(resp.User.Playcount),
		Registered: resp.User.Registered.Timestamp,
		Subscriber: bool(resp.User.Subscriber),
		Image:      imageFromList(resp.User.Image),
	}, nil
}

// GetRecentTracks returns a user's recent scrobbles, most recent first.
// A currently playing track, when present, leads the list with
// NowPlaying set and no timestamp.
func (s *UserService) GetRecentTracks(ctx context.Context, p RecentTracksParams) (*RecentTracksResponse, error) {
	if p.User == "" {
		return nil, fmt.Errorf("lastfm: username is required")
	}
	params := map[string]string{
		"user":  p.User,
		"limit": strconv.Itoa(clampLimit(p.Limit, maxRecentTracks)),
		"page":  strconv.Itoa(defaultPage(p.Page)),
	}
	if p.From > 0 {
		params["from"] = strconv.FormatInt(p.From, 10)
	}
	if p.To > 0 {
		params["to"] = strconv.FormatInt(p.To, 10)
	}
	if p.Extended {
		params["extended"] = "1"
	}

	body, err := s.client.call(ctx, http.MethodGet, "user.getrecenttracks", params, false)
	if err != nil {
		return nil, err
	}

	var resp struct {
		RecentTracks struct {
			Track oneOrMany[struct {
				Name   string   `json:"name"`
				MBID   string   `json:"mbid"`
				URL    string   `json:"url"`
				Artist jsonName `json:"artist"`
				Album  jsonText `json:"album"`
				Date   jsonDate `json:"date"`
				Attr   struct {
					NowPlaying flexBool `json:"nowplaying"`
				} `json:"@attr"`
			}] `json:"track"`
			Attr pageAttr `json:"@attr"`
		} `json:"recenttracks"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("lastfm: failed to parse recent tracks: %w", err)
	}

	out := &RecentTracksResponse{
		User:       resp.RecentTracks.Attr.User,
		Total:      int(resp.RecentTracks.Attr.Total),
		Page:       int(resp.RecentTracks.Attr.Page),
		PerPage:    int(resp.RecentTracks.Attr.PerPage),
		TotalPages: int(resp.RecentTracks.Attr.TotalPages),
	}
	if out.User == "" {
		out.User = p.User
	}
	for _, t := range resp.RecentTracks.Track {
		out.Tracks = append(out.Tracks, RecentTrack{
			Name:       t.Name,
			Artist:     t.Artist.Name,
			Album:      t.Album.Text,
			MBID:       t.MBID,
			URL:        t.URL,
			NowPlaying: bool(t.Attr.NowPlaying),
			PlayedAt:   t.Date.Timestamp,
		})
	}
	return out, nil
}

// GetTopArtists returns a user's most played artists for a period
// (7day, 1month, 3month, 6month, 12month, overall).
func (s *UserService) GetTopArtists(ctx context.Context, user, period string, limit, page int) (*UserTopResponse, error) {
	return s.topListing(ctx, "user.gettopartists", "topartists", "artist", user, period, limit, page)
}

// GetTopAlbums returns a user's most played albums for a period.
func (s *UserService) GetTopAlbums(ctx context.Context, user, period string, limit, page int) (*UserTopResponse, error) {
	return s.topListing(ctx, "user.gettopalbums", "topalbums", "album", user, period, limit, page)
}

// GetTopTracks returns a user's most played tracks for a period.
func (s *UserService) GetTopTracks(ctx context.Context, user, period string, limit, page int) (*UserTopResponse, error) {
	return s.topListing(ctx, "user.gettoptracks", "toptracks", "track", user, period, limit, page)
}

// topListing fetches one of the three user top listings, which share a
// wire shape apart from the envelope and element names.
func (s *UserService) topListing(ctx context.Context, apiMethod, envelope, element, user, period string, limit, page int) (*UserTopResponse, error) {
	if user == "" {
		return nil, fmt.Errorf("lastfm: username is required")
	}
	if period == "" {
		period = "overall"
	}
	params := map[string]string{
		"user":   user,
		"period": period,
		"limit":  strconv.Itoa(clampLimit(limit, maxPageSize)),
		"page":   strconv.Itoa(defaultPage(page)),
	}

	body, err := s.client.call(ctx, http.MethodGet, apiMethod, params, false)
	if err != nil {
		return nil, err
	}

	type entryJSON struct {
		Name      string   `json:"name"`
		MBID      string   `json:"mbid"`
		URL       string   `json:"url"`
		Playcount flexInt  `json:"playcount"`
		Artist    jsonName `json:"artist"`
		Attr      struct {
			Rank flexInt `json:"rank"`
		} `json:"@attr"`
	}
	var outer map[string]json.RawMessage
	if err := json.Unmarshal(body, &outer); err != nil {
		return nil, fmt.Errorf("lastfm: failed to parse %s: %w", envelope, err)
	}
	var listing struct {
		Artist oneOrMany[entryJSON] `json:"artist"`
		Album  oneOrMany[entryJSON] `json:"album"`
		Track  oneOrMany[entryJSON] `json:"track"`
		Attr   pageAttr             `json:"@attr"`
	}
	if raw, ok := outer[envelope]; ok {
		if err := json.Unmarshal(raw, &listing); err != nil {
			return nil, fmt.Errorf("lastfm: failed to parse %s: %w", envelope, err)
		}
	}

	var entries oneOrMany[entryJSON]
	switch element {
	case "artist":
		entries = listing.Artist
	case "album":
		entries = listing.Album
	default:
		entries = listing.Track
	}

	out := &UserTopResponse{
		User:       listing.Attr.User,
		Period:     period,
		Total:      int(listing.Attr.Total),
		Page:       int(listing.Attr.Page),
		PerPage:    int(listing.Attr.PerPage),
		TotalPages: int(listing.Attr.TotalPages),
	}
	if out.User == "" {
		out.User = user
	}
	for _, e := range entries {
		out.Entries = append(out.Entries, RankedEntry{
			Name:      e.Name,
			Artist:    e.Artist.Name,
			MBID:      e.MBID,
			URL:       e.URL,
			Playcount: int(e.Playcount),
			Rank:      int(e.Attr.Rank),
		})
	}
	return out, nil
}

// GetLovedTracks returns a user's loved tracks.
func (s *UserService) GetLovedTracks(ctx context.Context, user string, limit, page int) (*LovedTracksResponse, error) {
	if user == "" {
		return nil, fmt.Errorf("lastfm: username is required")
	}
	params := map[string]string{
		"user":  user,
		"limit": strconv.Itoa(clampLimit(limit, maxPageSize)),
		"page":  strconv.Itoa(defaultPage(page)),
	}

	body, err := s.client.call(ctx, http.MethodGet, "user.getlovedtracks", params, false)
	if err != nil {
		return nil, err
	}

	var resp struct {
		LovedTracks struct {
			Track oneOrMany[struct {
				Name   string   `json:"name"`
				MBID   string   `json:"mbid"`
				URL    string   `json:"url"`
				Artist jsonName `json:"artist"`
				Date   jsonDate `json:"date"`
			}] `json:"track"`
			Attr pageAttr `json:"@attr"`
		} `json:"lovedtracks"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("lastfm: failed to parse loved tracks: %w", err)
	}

	out := &LovedTracksResponse{
		User:       resp.LovedTracks.Attr.User,
		Total:      int(resp.LovedTracks.Attr.Total),
		Page:       int(resp.LovedTracks.Attr.Page),
		PerPage:    int(resp.LovedTracks.Attr.PerPage),
		TotalPages: int(resp.LovedTracks.Attr.TotalPages),
	}
	if out.User == "" {
		out.User = user
	}
	for _, t := range resp.LovedTracks.Track {
		out.Tracks = append(out.Tracks, LovedTrack{
			Name:    t.Name,
			Artist:  t.Artist.Name,
			MBID:    t.MBID,
			URL:     t.URL,
			LovedAt: t.Date.Timestamp,
		})
	}
	return out, nil
}
