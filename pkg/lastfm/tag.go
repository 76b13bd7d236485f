package lastfm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// TagService provides tag lookup operations for the Last.fm API.
type TagService struct {
	client *Client
}

// TagInfo is the decoded tag.getinfo payload.
type TagInfo struct {
	Name        string
	Total       int
	Reach       int
	WikiSummary string
	WikiContent string
}

// TaggedArtist is one artist from a tag's top artists.
type TaggedArtist struct {
	Name string
	MBID string
	URL  string
	Rank int
}

// TagTopArtistsResponse holds a tag's top artists with pagination.
type TagTopArtistsResponse struct {
	Tag     string
	Total   int
	Page    int
	PerPage int
	Artists []TaggedArtist
}

// TaggedItem is one album or track from a tag's top listings.
type TaggedItem struct {
	Name   string
	Artist string
	MBID   string
	URL    string
	Rank   int
}

// TagTopItemsResponse holds a tag's top albums or tracks with pagination.
type TagTopItemsResponse struct {
	Tag     string
	Total   int
	Page    int
	PerPage int
	Items   []TaggedItem
}

// GetInfo returns detailed information about a tag.
func (s *TagService) GetInfo(ctx context.Context, tag, lang string) (*TagInfo, error) {
	if tag == "" {
		return nil, fmt.Errorf("lastfm: tag name is required")
	}
	params := map[string]string{"tag": tag}
	if lang != "" {
		params["lang"] = lang
	}

	body, err := s.client.call(ctx, http.MethodGet, "tag.getinfo", params, false)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Tag struct {
			Name  string  `json:"name"`
			Total flexInt `json:"total"`
			Reach flexInt `json:"reach"`
			Wiki  struct {
				Summary string `json:"summary"`
				Content string `json:"content"`
			} `json:"wiki"`
		} `json:"tag"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("lastfm: failed to parse tag info: %w", err)
	}

	return &TagInfo{
		Name:        resp.Tag.Name,
		Total:       int(resp.Tag.Total),
		Reach:       int(resp.Tag.Reach),
		WikiSummary: resp.Tag.Wiki.Summary,
		WikiContent: resp.Tag.Wiki.Content,
	}, nil
}

// GetTopArtists returns the top artists for a tag.
func (s *TagService) GetTopArtists(ctx context.Context, tag string, limit, page int) (*TagTopArtistsResponse, error) {
	if tag == "" {
		return nil, fmt.Errorf("lastfm: tag name is required")
	}
	params := map[string]string{
		"tag":   tag,
		"limit": strconv.Itoa(clampLimit(limit, maxPageSize)),
		"page":  strconv.Itoa(defaultPage(page)),
	}

	body, err := s.client.call(ctx, http.MethodGet, "tag.gettopartists", params, false)
	if err != nil {
		return nil, err
	}

	var resp struct {
		TopArtists struct {
			Artist oneOrMany[struct {
				Name string `json:"name"`
				MBID string `json:"mbid"`
				URL  string `json:"url"`
				Attr struct {
					Rank flexInt `json:"rank"`
				} `json:"@attr"`
			}] `json:"artist"`
			Attr pageAttr `json:"@attr"`
		} `json:"topartists"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("lastfm: failed to parse tag top artists: %w", err)
	}

	out := &TagTopArtistsResponse{
		Tag:     resp.TopArtists.Attr.Tag,
		Total:   int(resp.TopArtists.Attr.Total),
		Page:    int(resp.TopArtists.Attr.Page),
		PerPage: int(resp.TopArtists.Attr.PerPage),
	}
	if out.Tag == "" {
		out.Tag = tag
	}
	for _, a := range resp.TopArtists.Artist {
		out.Artists = append(out.Artists, TaggedArtist{
			Name: a.Name,
			MBID: a.MBID,
			URL:  a.URL,
			Rank: int(a.Attr.Rank),
		})
	}
	return out, nil
}

// GetTopAlbums returns the top albums for a tag.
func (s *TagService) GetTopAlbums(ctx context.Context, tag string, limit, page int) (*TagTopItemsResponse, error) {
	// Newer API responses use an "albums" envelope, older ones
	// "topalbums"; accept both.
	return s.topItems(ctx, "tag.gettopalbums", []string{"topalbums", "albums"}, "album", tag, limit, page)
}

// GetTopTracks returns the top tracks for a tag.
func (s *TagService) GetTopTracks(ctx context.Context, tag string, limit, page int) (*TagTopItemsResponse, error) {
	return s.topItems(ctx, "tag.gettoptracks", []string{"toptracks", "tracks"}, "track", tag, limit, page)
}

func (s *TagService) topItems(ctx context.Context, apiMethod string, envelopes []string, element, tag string, limit, page int) (*TagTopItemsResponse, error) {
	if tag == "" {
		return nil, fmt.Errorf("lastfm: tag name is required")
	}
	params := map[string]string{
		"tag":   tag,
		"limit": strconv.Itoa(clampLimit(limit, maxPageSize)),
		"page":  strconv.Itoa(defaultPage(page)),
	}

	body, err := s.client.call(ctx, http.MethodGet, apiMethod, params, false)
	if err != nil {
		return nil, err
	}

	var outer map[string]json.RawMessage
	if err := json.Unmarshal(body, &outer); err != nil {
		return nil, fmt.Errorf("lastfm: failed to parse %s: %w", apiMethod, err)
	}

	type itemJSON struct {
		Name   string   `json:"name"`
		MBID   string   `json:"mbid"`
		URL    string   `json:"url"`
		Artist jsonName `json:"artist"`
		Attr   struct {
			Rank flexInt `json:"rank"`
		} `json:"@attr"`
	}
	var listing struct {
		Album oneOrMany[itemJSON] `json:"album"`
		Track oneOrMany[itemJSON] `json:"track"`
		Attr  pageAttr            `json:"@attr"`
	}
	for _, envelope := range envelopes {
		if raw, ok := outer[envelope]; ok {
			if err := json.Unmarshal(raw, &listing); err != nil {
				return nil, fmt.Errorf("lastfm: failed to parse %s: %w", apiMethod, err)
			}
			break
		}
	}

	items := listing.Track
	if element == "album" {
		items = listing.Album
	}

	out := &TagTopItemsResponse{
		Tag:     listing.Attr.Tag,
		Total:   int(listing.Attr.Total),
		Page:    int(listing.Attr.Page),
		PerPage: int(listing.Attr.PerPage),
	}
	if out.Tag == "" {
		out.Tag = tag
	}
	for _, item := range items {
		out.Items = append(out.Items, TaggedItem{
			Name:   item.Name,
			Artist: item.Artist.Name,
			MBID:   item.MBID,
			URL:    item.URL,
			Rank:   int(item.Attr.Rank),
		})
	}
	return out, nil
}
