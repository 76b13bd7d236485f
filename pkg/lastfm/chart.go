package lastfm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// ChartService provides global chart operations for the Last.fm API.
type ChartService struct {
	client *Client
}

// ChartArtist is one artist from the global top artists chart.
type ChartArtist struct {
	Name      string
	MBID      string
	URL       string
	Playcount int
	Listeners int
}

// ChartArtistsResponse holds the global top artists with pagination.
type ChartArtistsResponse struct {
	Total      int
	Page       int
	PerPage    int
	TotalPages int
	Artists    []ChartArtist
}

// ChartTracksResponse holds the global top tracks with pagination.
type ChartTracksResponse struct {
	Total      int
	Page       int
	PerPage    int
	TotalPages int
	Tracks     []TopTrack
}

// ChartTag is one tag from the global top tags chart.
type ChartTag struct {
	Name     string
	URL      string
	Reach    int
	Taggings int
}

// ChartTagsResponse holds the global top tags with pagination.
type ChartTagsResponse struct {
	Total      int
	Page       int
	PerPage    int
	TotalPages int
	Tags       []ChartTag
}

// GetTopArtists returns the global top artists chart.
func (s *ChartService) GetTopArtists(ctx context.Context, limit, page int) (*ChartArtistsResponse, error) {
	body, err := s.chartCall(ctx, "chart.gettopartists", limit, page)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Artists struct {
			Artist oneOrMany[struct {
				Name      string  `json:"name"`
				MBID      string  `json:"mbid"`
				URL       string  `json:"url"`
				Playcount flexInt `json:"playcount"`
				Listeners flexInt `json:"listeners"`
			}] `json:"artist"`
			Attr pageAttr `json:"@attr"`
		} `json:"artists"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("lastfm: failed to parse chart artists: %w", err)
	}

	out := &ChartArtistsResponse{
		Total:      int(resp.Artists.Attr.Total),
		Page:       int(resp.Artists.Attr.Page),
		PerPage:    int(resp.Artists.Attr.PerPage),
		TotalPages: int(resp.Artists.Attr.TotalPages),
	}
	for _, a := range resp.Artists.Artist {
		out.Artists = append(out.Artists, ChartArtist{
			Name:      a.Name,
			MBID:      a.MBID,
			URL:       a.URL,
			Playcount: int(a.Playcount),
			Listeners: int(a.Listeners),
		})
	}
	return out, nil
}

// GetTopTracks returns the global top tracks chart.
func (s *ChartService) GetTopTracks(ctx context.Context, limit, page int) (*ChartTracksResponse, error) {
	body, err := s.chartCall(ctx, "chart.gettoptracks", limit, page)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Tracks struct {
			Track oneOrMany[topTrackJSON] `json:"track"`
			Attr  pageAttr                `json:"@attr"`
		} `json:"tracks"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("lastfm: failed to parse chart tracks: %w", err)
	}

	out := &ChartTracksResponse{
		Total:      int(resp.Tracks.Attr.Total),
		Page:       int(resp.Tracks.Attr.Page),
		PerPage:    int(resp.Tracks.Attr.PerPage),
		TotalPages: int(resp.Tracks.Attr.TotalPages),
	}
	for _, t := range resp.Tracks.Track {
		out.Tracks = append(out.Tracks, t.topTrack())
	}
	return out, nil
}

// GetTopTags returns the global top tags chart.
func (s *ChartService) GetTopTags(ctx context.Context, limit, page int) (*ChartTagsResponse, error) {
	body, err := s.chartCall(ctx, "chart.gettoptags", limit, page)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Tags struct {
			Tag oneOrMany[struct {
				Name     string  `json:"name"`
				URL      string  `json:"url"`
				Reach    flexInt `json:"reach"`
				Taggings flexInt `json:"taggings"`
			}] `json:"tag"`
			Attr pageAttr `json:"@attr"`
		} `json:"tags"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("lastfm: failed to parse chart tags: %w", err)
	}

	out := &ChartTagsResponse{
		Total:      int(resp.Tags.Attr.Total),
		Page:       int(resp.Tags.Attr.Page),
		PerPage:    int(resp.Tags.Attr.PerPage),
		TotalPages: int(resp.Tags.Attr.TotalPages),
	}
	for _, tag := range resp.Tags.Tag {
		out.Tags = append(out.Tags, ChartTag{
			Name:     tag.Name,
			URL:      tag.URL,
			Reach:    int(tag.Reach),
			Taggings: int(tag.Taggings),
		})
	}
	return out, nil
}

func (s *ChartService) chartCall(ctx context.Context, apiMethod string, limit, page int) ([]byte, error) {
	params := map[string]string{
		"limit": strconv.Itoa(clampLimit(limit, maxPageSize)),
		"page":  strconv.Itoa(defaultPage(page)),
	}
	return s.client.call(ctx, http.MethodGet, apiMethod, params, false)
}
