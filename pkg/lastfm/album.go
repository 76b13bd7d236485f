package lastfm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// AlbumService provides album lookup operations for the Last.fm API.
type AlbumService struct {
	client *Client
}

// AlbumInfo is the decoded album.getinfo payload.
type AlbumInfo struct {
	Name          string
	Artist        string
	MBID          string
	URL           string
	Listeners     int
	Playcount     int
	UserPlaycount int
	Image         Image
	Tags          []string
	Tracks        []AlbumTrack
	WikiSummary   string
	WikiContent   string
}

// AlbumTrack is one track of an album's track listing.
type AlbumTrack struct {
	Name     string
	Duration int // seconds
	Rank     int
}

// AlbumSearchResult is a single album from search results.
type AlbumSearchResult struct {
	Name   string
	Artist string
	MBID   string
	URL    string
	Image  Image
}

// AlbumSearchResponse holds album search results with pagination.
type AlbumSearchResponse struct {
	Query        string
	TotalResults int
	StartPage    int
	ItemsPerPage int
	Albums       []AlbumSearchResult
}

// TagCount is a tag with how often it has been applied.
type TagCount struct {
	Name  string
	Count int
	URL   string
}

// AlbumInfoParams selects the album for GetInfo. Either Artist+Album or
// MBID must be set; MBID wins when both are present.
type AlbumInfoParams struct {
	Artist      string
	Album       string
	MBID        string
	Autocorrect bool
	Username    string
	Lang        string
}

// GetInfo returns detailed information about an album.
func (s *AlbumService) GetInfo(ctx context.Context, p AlbumInfoParams) (*AlbumInfo, error) {
	params := map[string]string{}
	switch {
	case p.MBID != "":
		params["mbid"] = p.MBID
	case p.Artist != "" && p.Album != "":
		params["artist"] = p.Artist
		params["album"] = p.Album
	default:
		return nil, fmt.Errorf("lastfm: either artist and album names or mbid must be provided")
	}
	if !p.Autocorrect {
		params["autocorrect"] = "0"
	}
	if p.Username != "" {
		params["username"] = p.Username
	}
	if p.Lang != "" {
		params["lang"] = p.Lang
	}

	body, err := s.client.call(ctx, http.MethodGet, "album.getinfo", params, false)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Album struct {
			Name          string      `json:"name"`
			Artist        jsonName    `json:"artist"`
			MBID          string      `json:"mbid"`
			URL           string      `json:"url"`
			Listeners     flexInt     `json:"listeners"`
			Playcount     flexInt     `json:"playcount"`
			UserPlaycount flexInt     `json:"userplaycount"`
			Image         []jsonImage `json:"image"`
			Tags          struct {
				Tag oneOrMany[jsonName] `json:"tag"`
			} `json:"tags"`
			Tracks struct {
				Track oneOrMany[struct {
					Name     string  `json:"name"`
					Duration flexInt `json:"duration"`
					Attr     struct {
						Rank flexInt `json:"rank"`
					} `json:"@attr"`
				}] `json:"track"`
			} `json:"tracks"`
			Wiki struct {
				Summary string `json:"summary"`
				Content string `json:"content"`
			} `json:"wiki"`
		} `json:"album"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("lastfm: failed to parse album info: %w", err)
	}

	info := &AlbumInfo{
		Name:          resp.Album.Name,
		Artist:        resp.Album.Artist.Name,
		MBID:          resp.Album.MBID,
		URL:           resp.Album.URL,
		Listeners:     int(resp.Album.Listeners),
		Playcount:     int(resp.Album.Playcount),
		UserPlaycount: int(resp.Album.UserPlaycount),
		Image:         imageFromList(resp.Album.Image),
		WikiSummary:   resp.Album.Wiki.Summary,
		WikiContent:   resp.Album.Wiki.Content,
	}
	for _, tag := range resp.Album.Tags.Tag {
		info.Tags = append(info.Tags, tag.Name)
	}
	for _, track := range resp.Album.Tracks.Track {
		info.Tracks = append(info.Tracks, AlbumTrack{
			Name:     track.Name,
			Duration: int(track.Duration),
			Rank:     int(track.Attr.Rank),
		})
	}
	return info, nil
}

// Search searches for albums by name.
func (s *AlbumService) Search(ctx context.Context, album string, limit, page int) (*AlbumSearchResponse, error) {
	params := map[string]string{
		"album": album,
		"limit": strconv.Itoa(clampLimit(limit, maxPageSize)),
		"page":  strconv.Itoa(defaultPage(page)),
	}

	body, err := s.client.call(ctx, http.MethodGet, "album.search", params, false)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Results struct {
			searchAttr
			AlbumMatches struct {
				Album oneOrMany[struct {
					Name   string      `json:"name"`
					Artist jsonName    `json:"artist"`
					MBID   string      `json:"mbid"`
					URL    string      `json:"url"`
					Image  []jsonImage `json:"image"`
				}] `json:"album"`
			} `json:"albummatches"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("lastfm: failed to parse album search: %w", err)
	}

	out := &AlbumSearchResponse{
		Query:        resp.Results.Query.Text,
		TotalResults: int(resp.Results.TotalResults),
		StartPage:    int(resp.Results.StartPage),
		ItemsPerPage: int(resp.Results.ItemsPerPage),
	}
	for _, a := range resp.Results.AlbumMatches.Album {
		out.Albums = append(out.Albums, AlbumSearchResult{
			Name:   a.Name,
			Artist: a.Artist.Name,
			MBID:   a.MBID,
			URL:    a.URL,
			Image:  imageFromList(a.Image),
		})
	}
	return out, nil
}

// GetTopTags returns the top tags for an album.
func (s *AlbumService) GetTopTags(ctx context.Context, artist, album, mbid string) ([]TagCount, error) {
	params := map[string]string{}
	switch {
	case mbid != "":
		params["mbid"] = mbid
	case artist != "" && album != "":
		params["artist"] = artist
		params["album"] = album
	default:
		return nil, fmt.Errorf("lastfm: either artist and album names or mbid must be provided")
	}

	body, err := s.client.call(ctx, http.MethodGet, "album.gettoptags", params, false)
	if err != nil {
		return nil, err
	}
	return parseTopTags(body)
}

// parseTopTags decodes the shared toptags envelope used by album and
// track tag lookups.
func parseTopTags(body []byte) ([]TagCount, error) {
	var resp struct {
		TopTags struct {
			Tag oneOrMany[struct {
				Name  string  `json:"name"`
				Count flexInt `json:"count"`
				URL   string  `json:"url"`
			}] `json:"tag"`
		} `json:"toptags"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("lastfm: failed to parse top tags: %w", err)
	}

	tags := make([]TagCount, 0, len(resp.TopTags.Tag))
	for _, tag := range resp.TopTags.Tag {
		tags = append(tags, TagCount{
			Name:  tag.Name,
			Count: int(tag.Count),
			URL:   tag.URL,
		})
	}
	return tags, nil
}
