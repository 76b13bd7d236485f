package lastfm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// ArtistService provides artist lookup operations for the Last.fm API.
type ArtistService struct {
	client *Client
}

// maxPageSize is the largest page the API accepts for list calls.
const maxPageSize = 1000

// ArtistInfo is the decoded artist.getinfo payload.
type ArtistInfo struct {
	Name          string
	MBID          string
	URL           string
	Listeners     int
	Playcount     int
	UserPlaycount int // only populated when a username was supplied
	Image         Image
	Tags          []string
	Similar       []SimilarArtist
	BioPublished  string
	BioSummary    string
	BioContent    string
}

// SimilarArtist is one entry of an artist's similar list.
type SimilarArtist struct {
	Name  string
	URL   string
	Image Image
}

// ArtistSearchResult is a single artist from search results.
type ArtistSearchResult struct {
	Name      string
	MBID      string
	URL       string
	Listeners int
	Image     Image
}

// ArtistSearchResponse holds artist search results with pagination.
type ArtistSearchResponse struct {
	Query        string
	TotalResults int
	StartPage    int
	ItemsPerPage int
	Artists      []ArtistSearchResult
}

// TopAlbum is one album from an artist's top albums.
type TopAlbum struct {
	Name      string
	Artist    string
	MBID      string
	URL       string
	Playcount int
	Image     Image
}

// ArtistTopAlbumsResponse holds an artist's top albums with pagination.
type ArtistTopAlbumsResponse struct {
	Artist  string
	Total   int
	Page    int
	PerPage int
	Albums  []TopAlbum
}

// TopTrack is one track from a top-tracks listing.
type TopTrack struct {
	Name      string
	Artist    string
	MBID      string
	URL       string
	Playcount int
	Listeners int
	Rank      int
}

// ArtistTopTracksResponse holds an artist's top tracks with pagination.
type ArtistTopTracksResponse struct {
	Artist  string
	Total   int
	Page    int
	PerPage int
	Tracks  []TopTrack
}

// ArtistInfoParams selects the artist for GetInfo. Either Artist or MBID
// must be set; MBID wins when both are present.
type ArtistInfoParams struct {
	Artist      string
	MBID        string
	Lang        string // ISO 639 alpha-2 language code for the biography
	Autocorrect bool   // correct misspelled artist names
	Username    string // include this user's playcount
}

// GetInfo returns detailed information about an artist.
func (s *ArtistService) GetInfo(ctx context.Context, p ArtistInfoParams) (*ArtistInfo, error) {
	params := map[string]string{}
	switch {
	case p.MBID != "":
		params["mbid"] = p.MBID
	case p.Artist != "":
		params["artist"] = p.Artist
	default:
		return nil, fmt.Errorf("lastfm: either artist name or mbid must be provided")
	}
	if p.Lang != "" {
		params["lang"] = p.Lang
	}
	if !p.Autocorrect {
		params["autocorrect"] = "0"
	}
	if p.Username != "" {
		params["username"] = p.Username
	}

	body, err := s.client.call(ctx, http.MethodGet, "artist.getinfo", params, false)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Artist struct {
			Name  string      `json:"name"`
			MBID  string      `json:"mbid"`
			URL   string      `json:"url"`
			Image []jsonImage `json:"image"`
			Stats struct {
				Listeners     flexInt `json:"listeners"`
				Playcount     flexInt `json:"playcount"`
				UserPlaycount flexInt `json:"userplaycount"`
			} `json:"stats"`
			Similar struct {
				Artist oneOrMany[struct {
					Name  string      `json:"name"`
					URL   string      `json:"url"`
					Image []jsonImage `json:"image"`
				}] `json:"artist"`
			} `json:"similar"`
			Tags struct {
				Tag oneOrMany[jsonName] `json:"tag"`
			} `json:"tags"`
			Bio struct {
				Published string `json:"published"`
				Summary   string `json:"summary"`
				Content   string `json:"content"`
			} `json:"bio"`
		} `json:"artist"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("lastfm: failed to parse artist info: %w", err)
	}

	info := &ArtistInfo{
		Name:          resp.Artist.Name,
		MBID:          resp.Artist.MBID,
		URL:           resp.Artist.URL,
		Listeners:     int(resp.Artist.Stats.Listeners),
		Playcount:     int(resp.Artist.Stats.Playcount),
		UserPlaycount: int(resp.Artist.Stats.UserPlaycount),
		Image:         imageFromList(resp.Artist.Image),
		BioPublished:  resp.Artist.Bio.Published,
		BioSummary:    resp.Artist.Bio.Summary,
		BioContent:    resp.Artist.Bio.Content,
	}
	for _, tag := range resp.Artist.Tags.Tag {
		info.Tags = append(info.Tags, tag.Name)
	}
	for _, sim := range resp.Artist.Similar.Artist {
		info.Similar = append(info.Similar, SimilarArtist{
			Name:  sim.Name,
			URL:   sim.URL,
			Image: imageFromList(sim.Image),
		})
	}
	return info, nil
}

// Search searches for artists by name.
func (s *ArtistService) Search(ctx context.Context, artist string, limit, page int) (*ArtistSearchResponse, error) {
	params := map[string]string{
		"artist": artist,
		"limit":  strconv.Itoa(clampLimit(limit, maxPageSize)),
		"page":   strconv.Itoa(defaultPage(page)),
	}

	body, err := s.client.call(ctx, http.MethodGet, "artist.search", params, false)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Results struct {
			searchAttr
			ArtistMatches struct {
				Artist oneOrMany[struct {
					Name      string      `json:"name"`
					MBID      string      `json:"mbid"`
					URL       string      `json:"url"`
					Listeners flexInt     `json:"listeners"`
					Image     []jsonImage `json:"image"`
				}] `json:"artist"`
			} `json:"artistmatches"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("lastfm: failed to parse artist search: %w", err)
	}

	out := &ArtistSearchResponse{
		Query:        resp.Results.Query.Text,
		TotalResults: int(resp.Results.TotalResults),
		StartPage:    int(resp.Results.StartPage),
		ItemsPerPage: int(resp.Results.ItemsPerPage),
	}
	for _, a := range resp.Results.ArtistMatches.Artist {
		out.Artists = append(out.Artists, ArtistSearchResult{
			Name:      a.Name,
			MBID:      a.MBID,
			URL:       a.URL,
			Listeners: int(a.Listeners),
			Image:     imageFromList(a.Image),
		})
	}
	return out, nil
}

// GetTopAlbums returns the top albums for an artist.
func (s *ArtistService) GetTopAlbums(ctx context.Context, artist, mbid string, limit, page int) (*ArtistTopAlbumsResponse, error) {
	params := map[string]string{
		"limit": strconv.Itoa(clampLimit(limit, maxPageSize)),
		"page":  strconv.Itoa(defaultPage(page)),
	}
	if mbid != "" {
		params["mbid"] = mbid
	} else if artist != "" {
		params["artist"] = artist
	} else {
		return nil, fmt.Errorf("lastfm: either artist name or mbid must be provided")
	}

	body, err := s.client.call(ctx, http.MethodGet, "artist.gettopalbums", params, false)
	if err != nil {
		return nil, err
	}

	var resp struct {
		TopAlbums struct {
			Album oneOrMany[struct {
				Name      string      `json:"name"`
				MBID      string      `json:"mbid"`
				URL       string      `json:"url"`
				Playcount flexInt     `json:"playcount"`
				Artist    jsonName    `json:"artist"`
				Image     []jsonImage `json:"image"`
			}] `json:"album"`
			Attr pageAttr `json:"@attr"`
		} `json:"topalbums"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("lastfm: failed to parse top albums: %w", err)
	}

	out := &ArtistTopAlbumsResponse{
		Artist:  resp.TopAlbums.Attr.Artist,
		Total:   int(resp.TopAlbums.Attr.Total),
		Page:    int(resp.TopAlbums.Attr.Page),
		PerPage: int(resp.TopAlbums.Attr.PerPage),
	}
	for _, a := range resp.TopAlbums.Album {
		out.Albums = append(out.Albums, TopAlbum{
			Name:      a.Name,
			Artist:    a.Artist.Name,
			MBID:      a.MBID,
			URL:       a.URL,
			Playcount: int(a.Playcount),
			Image:     imageFromList(a.Image),
		})
	}
	return out, nil
}

// GetTopTracks returns the top tracks for an artist.
func (s *ArtistService) GetTopTracks(ctx context.Context, artist, mbid string, limit, page int) (*ArtistTopTracksResponse, error) {
	params := map[string]string{
		"limit": strconv.Itoa(clampLimit(limit, maxPageSize)),
		"page":  strconv.Itoa(defaultPage(page)),
	}
	if mbid != "" {
		params["mbid"] = mbid
	} else if artist != "" {
		params["artist"] = artist
	} else {
		return nil, fmt.Errorf("lastfm: either artist name or mbid must be provided")
	}

	body, err := s.client.call(ctx, http.MethodGet, "artist.gettoptracks", params, false)
	if err != nil {
		return nil, err
	}

	var resp struct {
		TopTracks struct {
			Track oneOrMany[topTrackJSON] `json:"track"`
			Attr  pageAttr                `json:"@attr"`
		} `json:"toptracks"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("lastfm: failed to parse top tracks: %w", err)
	}

	out := &ArtistTopTracksResponse{
		Artist:  resp.TopTracks.Attr.Artist,
		Total:   int(resp.TopTracks.Attr.Total),
		Page:    int(resp.TopTracks.Attr.Page),
		PerPage: int(resp.TopTracks.Attr.PerPage),
	}
	for _, t := range resp.TopTracks.Track {
		out.Tracks = append(out.Tracks, t.topTrack())
	}
	return out, nil
}

// topTrackJSON is the shared wire shape for top-track listings.
type topTrackJSON struct {
	Name      string   `json:"name"`
	MBID      string   `json:"mbid"`
	URL       string   `json:"url"`
	Playcount flexInt  `json:"playcount"`
	Listeners flexInt  `json:"listeners"`
	Artist    jsonName `json:"artist"`
	Attr      struct {
		Rank flexInt `json:"rank"`
	} `json:"@attr"`
}

func (t topTrackJSON) topTrack() TopTrack {
	return TopTrack{
		Name:      t.Name,
		Artist:    t.Artist.Name,
		MBID:      t.MBID,
		URL:       t.URL,
		Playcount: int(t.Playcount),
		Listeners: int(t.Listeners),
		Rank:      int(t.Attr.Rank),
	}
}

// clampLimit bounds a page size to [1, max], defaulting to 30.
func clampLimit(limit, max int) int {
	if limit <= 0 {
		return 30
	}
	if limit > max {
		return max
	}
	return limit
}

// defaultPage treats non-positive pages as the first page.
func defaultPage(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}
