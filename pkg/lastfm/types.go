package lastfm

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Track represents a music track for scrobbling or now playing updates.
type Track struct {
	Artist      string // Required: Artist name
	Track       string // Required: Track name
	Album       string // Optional: Album name
	AlbumArtist string // Optional: Album artist (if different from track artist)
	Duration    int    // Optional: Track duration in seconds
	TrackNumber int    // Optional: Track number on album
	MBTrackID   string // Optional: MusicBrainz track ID
}

// Scrobble represents a single scrobble with timestamp.
type Scrobble struct {
	Track     Track     // The track being scrobbled
	Timestamp time.Time // When the track was played
}

// Token represents an authentication token from auth.getToken.
//
// The token is a short-lived, one-time artifact: the user authorizes it
// at AuthURL, after which it can be exchanged exactly once for a Session.
type Token struct {
	Token   string // The authentication token
	AuthURL string // URL where the user authorizes the token
}

// Session represents an authenticated session from auth.getSession.
type Session struct {
	Key        string // Session key for authenticated requests
	Username   string // Last.fm username
	Subscriber bool   // Whether user is a subscriber
}

// --- loose JSON decoding helpers ---
//
// Last.fm's JSON is loosely typed: counts arrive as quoted strings,
// booleans as "0"/"1" strings or bare numbers, and any element that can
// repeat collapses to a single object when there is exactly one. These
// helpers decode each shape explicitly instead of inspecting types at
// runtime.

// oneOrMany decodes a JSON value that is either a single object or an
// array of objects, always yielding a slice.
type oneOrMany[T any] []T

func (m *oneOrMany[T]) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		return json.Unmarshal(data, (*[]T)(m))
	}
	var single T
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*m = oneOrMany[T]{single}
	return nil
}

// flexInt decodes an integer that may arrive as a number or a quoted
// string. Unparseable values decode as zero.
type flexInt int

func (n *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		*n = 0
		return nil
	}
	*n = flexInt(v)
	return nil
}

// flexFloat decodes a float that may arrive as a number or a quoted
// string. Unparseable values decode as zero.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexFloat(v)
	return nil
}

// flexBool decodes a boolean that may arrive as "0"/"1" strings, bare
// numbers, or actual booleans.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	*b = flexBool(s == "1" || s == "true")
	return nil
}

// jsonImage is one entry of a Last.fm image array.
type jsonImage struct {
	Size string `json:"size"`
	URL  string `json:"#text"`
}

// Image holds artwork URLs keyed by size.
type Image struct {
	Small      string
	Medium     string
	Large      string
	ExtraLarge string
	Mega       string
}

func imageFromList(images []jsonImage) Image {
	var img Image
	for _, entry := range images {
		switch entry.Size {
		case "small":
			img.Small = entry.URL
		case "medium":
			img.Medium = entry.URL
		case "large":
			img.Large = entry.URL
		case "extralarge":
			img.ExtraLarge = entry.URL
		case "mega":
			img.Mega = entry.URL
		}
	}
	return img
}

// jsonText is the {"#text": ...} wrapper Last.fm uses for attributed
// string values.
type jsonText struct {
	Text string `json:"#text"`
}

// jsonName decodes an artist reference that is either a bare name string
// or an object with a "name" member.
type jsonName struct {
	Name string `json:"name"`
}

func (n *jsonName) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		return json.Unmarshal(data, &n.Name)
	}
	type alias jsonName
	return json.Unmarshal(data, (*alias)(n))
}

// jsonDate decodes a Last.fm date, which may be an object with "uts" and
// "#text" members, a bare string, or a bare number.
type jsonDate struct {
	Timestamp int64
	Text      string
}

func (d *jsonDate) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	switch {
	case strings.HasPrefix(trimmed, "{"):
		var obj struct {
			UTS  flexInt `json:"uts"`
			Text string  `json:"#text"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		d.Timestamp = int64(obj.UTS)
		d.Text = obj.Text
	case strings.HasPrefix(trimmed, `"`):
		return json.Unmarshal(data, &d.Text)
	default:
		var ts flexInt
		if err := json.Unmarshal(data, &ts); err != nil {
			return err
		}
		d.Timestamp = int64(ts)
	}
	return nil
}

// pageAttr is the pagination attribute block shared by list responses.
type pageAttr struct {
	User       string  `json:"user"`
	Artist     string  `json:"artist"`
	Tag        string  `json:"tag"`
	Total      flexInt `json:"total"`
	Page       flexInt `json:"page"`
	PerPage    flexInt `json:"perPage"`
	TotalPages flexInt `json:"totalPages"`
}

// searchAttr is the opensearch metadata block on search responses.
type searchAttr struct {
	Query        jsonText `json:"opensearch:Query"`
	TotalResults flexInt  `json:"opensearch:totalResults"`
	StartPage    flexInt  `json:"opensearch:startPage"`
	ItemsPerPage flexInt  `json:"opensearch:itemsPerPage"`
}
