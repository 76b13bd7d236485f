// Package render converts Last.fm API records into the display text
// returned by the tool surface. Formatting happens here and nowhere
// else: the SDK returns typed records, the tools return strings.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ecrawford/lastfm-mcp/pkg/lastfm"
	"github.com/mattn/go-runewidth"
)

// count formats a count with thousands separators, or "Unknown" for
// zero (the API reports missing stats as zero).
func count(n int) string {
	if n <= 0 {
		return "Unknown"
	}
	return humanize.Comma(int64(n))
}

// pad right-pads a cell to the given display width, accounting for
// wide characters in artist and track names.
func pad(s string, width int) string {
	return s + strings.Repeat(" ", max(0, width-runewidth.StringWidth(s)))
}

func mbidSuffix(mbid string) string {
	if mbid == "" {
		return ""
	}
	return fmt.Sprintf(" (MBID: %s)", mbid)
}

// ArtistSearch formats artist search results.
func ArtistSearch(r *lastfm.ArtistSearchResponse) string {
	if len(r.Artists) == 0 {
		return fmt.Sprintf("No artists found for '%s'", r.Query)
	}

	lines := []string{
		fmt.Sprintf("Found %d artists for '%s':", len(r.Artists), r.Query),
		fmt.Sprintf("Total results available: %s", count(r.TotalResults)),
		"",
	}
	for i, a := range r.Artists {
		lines = append(lines,
			fmt.Sprintf("%d. **%s**%s", i+1, a.Name, mbidSuffix(a.MBID)),
			fmt.Sprintf("Listeners: %s", count(a.Listeners)),
			fmt.Sprintf("URL: %s", a.URL),
		)
	}
	if len(r.Artists) == r.ItemsPerPage && r.TotalResults > len(r.Artists) {
		lines = append(lines, "", fmt.Sprintf("Showing first %d results. Use get_artist_info to learn more about specific artists.", len(r.Artists)))
	}
	return strings.Join(lines, "\n")
}

// ArtistInfo formats detailed artist information.
func ArtistInfo(a *lastfm.ArtistInfo) string {
	lines := []string{
		fmt.Sprintf("**%s**%s", a.Name, mbidSuffix(a.MBID)),
		fmt.Sprintf("Listeners: %s | Playcount: %s", count(a.Listeners), count(a.Playcount)),
	}
	if a.UserPlaycount > 0 {
		lines = append(lines, fmt.Sprintf("Your playcount: %s", count(a.UserPlaycount)))
	}
	lines = append(lines, fmt.Sprintf("URL: %s", a.URL))
	if len(a.Tags) > 0 {
		lines = append(lines, fmt.Sprintf("Tags: %s", strings.Join(a.Tags, ", ")))
	}
	if len(a.Similar) > 0 {
		names := make([]string, 0, len(a.Similar))
		for _, s := range a.Similar {
			names = append(names, s.Name)
		}
		lines = append(lines, fmt.Sprintf("Similar artists: %s", strings.Join(names, ", ")))
	}
	if summary := strings.TrimSpace(a.BioSummary); summary != "" {
		lines = append(lines, "", "Biography:", summary)
	}
	return strings.Join(lines, "\n")
}

// ArtistTopAlbums formats an artist's top albums.
func ArtistTopAlbums(r *lastfm.ArtistTopAlbumsResponse) string {
	if len(r.Albums) == 0 {
		return fmt.Sprintf("No albums found for '%s'", r.Artist)
	}

	lines := []string{fmt.Sprintf("Top albums for **%s** (%s total):", r.Artist, count(r.Total)), ""}
	for i, a := range r.Albums {
		lines = append(lines, fmt.Sprintf("%d. **%s** — %s plays", i+1, a.Name, count(a.Playcount)))
	}
	return strings.Join(lines, "\n")
}

// ArtistTopTracks formats an artist's top tracks.
func ArtistTopTracks(r *lastfm.ArtistTopTracksResponse) string {
	if len(r.Tracks) == 0 {
		return fmt.Sprintf("No tracks found for '%s'", r.Artist)
	}

	lines := []string{fmt.Sprintf("Top tracks for **%s** (%s total):", r.Artist, count(r.Total)), ""}
	for i, t := range r.Tracks {
		lines = append(lines, fmt.Sprintf("%d. **%s** — %s plays, %s listeners", i+1, t.Name, count(t.Playcount), count(t.Listeners)))
	}
	return strings.Join(lines, "\n")
}

// AlbumSearch formats album search results.
func AlbumSearch(r *lastfm.AlbumSearchResponse) string {
	if len(r.Albums) == 0 {
		return fmt.Sprintf("No albums found for '%s'", r.Query)
	}

	lines := []string{
		fmt.Sprintf("Found %d albums for '%s':", len(r.Albums), r.Query),
		fmt.Sprintf("Total results available: %s", count(r.TotalResults)),
		"",
	}
	for i, a := range r.Albums {
		lines = append(lines,
			fmt.Sprintf("%d. **%s** by %s%s", i+1, a.Name, a.Artist, mbidSuffix(a.MBID)),
			fmt.Sprintf("URL: %s", a.URL),
		)
	}
	return strings.Join(lines, "\n")
}

// AlbumInfo formats detailed album information.
func AlbumInfo(a *lastfm.AlbumInfo) string {
	lines := []string{
		fmt.Sprintf("**%s** by %s%s", a.Name, a.Artist, mbidSuffix(a.MBID)),
		fmt.Sprintf("Listeners: %s | Playcount: %s", count(a.Listeners), count(a.Playcount)),
	}
	if a.UserPlaycount > 0 {
		lines = append(lines, fmt.Sprintf("Your playcount: %s", count(a.UserPlaycount)))
	}
	lines = append(lines, fmt.Sprintf("URL: %s", a.URL))
	if len(a.Tags) > 0 {
		lines = append(lines, fmt.Sprintf("Tags: %s", strings.Join(a.Tags, ", ")))
	}
	if len(a.Tracks) > 0 {
		lines = append(lines, "", "Tracks:")
		for _, t := range a.Tracks {
			duration := ""
			if t.Duration > 0 {
				duration = fmt.Sprintf(" (%d:%02d)", t.Duration/60, t.Duration%60)
			}
			lines = append(lines, fmt.Sprintf("%d. %s%s", t.Rank, t.Name, duration))
		}
	}
	if summary := strings.TrimSpace(a.WikiSummary); summary != "" {
		lines = append(lines, "", summary)
	}
	return strings.Join(lines, "\n")
}

// TopTags formats the tag listing for an album or track.
func TopTags(subject string, tags []lastfm.TagCount) string {
	if len(tags) == 0 {
		return fmt.Sprintf("No tags found for %s", subject)
	}

	lines := []string{fmt.Sprintf("Top tags for %s:", subject), ""}
	for i, t := range tags {
		lines = append(lines, fmt.Sprintf("%d. %s (%d)", i+1, t.Name, t.Count))
	}
	return strings.Join(lines, "\n")
}

// TrackSearch formats track search results.
func TrackSearch(r *lastfm.TrackSearchResponse) string {
	if len(r.Tracks) == 0 {
		return fmt.Sprintf("No tracks found for '%s'", r.Query)
	}

	lines := []string{
		fmt.Sprintf("Found %d tracks for '%s':", len(r.Tracks), r.Query),
		fmt.Sprintf("Total results available: %s", count(r.TotalResults)),
		"",
	}
	for i, t := range r.Tracks {
		lines = append(lines,
			fmt.Sprintf("%d. **%s** by %s%s", i+1, t.Name, t.Artist, mbidSuffix(t.MBID)),
			fmt.Sprintf("Listeners: %s", count(t.Listeners)),
		)
	}
	return strings.Join(lines, "\n")
}

// TrackInfo formats detailed track information.
func TrackInfo(t *lastfm.TrackInfo) string {
	lines := []string{fmt.Sprintf("**%s** by %s%s", t.Name, t.Artist, mbidSuffix(t.MBID))}
	if t.Album != "" {
		lines = append(lines, fmt.Sprintf("Album: %s", t.Album))
	}
	if t.Duration > 0 {
		lines = append(lines, fmt.Sprintf("Duration: %d:%02d", t.Duration/60, t.Duration%60))
	}
	lines = append(lines, fmt.Sprintf("Listeners: %s | Playcount: %s", count(t.Listeners), count(t.Playcount)))
	if t.UserPlaycount > 0 {
		loved := ""
		if t.UserLoved {
			loved = " (loved)"
		}
		lines = append(lines, fmt.Sprintf("Your playcount: %s%s", count(t.UserPlaycount), loved))
	}
	lines = append(lines, fmt.Sprintf("URL: %s", t.URL))
	if len(t.Tags) > 0 {
		lines = append(lines, fmt.Sprintf("Tags: %s", strings.Join(t.Tags, ", ")))
	}
	if summary := strings.TrimSpace(t.WikiSummary); summary != "" {
		lines = append(lines, "", summary)
	}
	return strings.Join(lines, "\n")
}

// SimilarTracks formats a similar-tracks listing.
func SimilarTracks(artist, track string, similar []lastfm.SimilarTrack) string {
	if len(similar) == 0 {
		return fmt.Sprintf("No similar tracks found for '%s' by %s", track, artist)
	}

	lines := []string{fmt.Sprintf("Tracks similar to **%s** by %s:", track, artist), ""}
	for i, s := range similar {
		lines = append(lines, fmt.Sprintf("%d. **%s** by %s (match: %.0f%%)", i+1, s.Name, s.Artist, s.Match*100))
	}
	return strings.Join(lines, "\n")
}

// UserInfo formats a user profile.
func UserInfo(u *lastfm.UserInfo) string {
	lines := []string{fmt.Sprintf("**%s**", u.Name)}
	if u.RealName != "" {
		lines = append(lines, fmt.Sprintf("Real name: %s", u.RealName))
	}
	if u.Country != "" && u.Country != "None" {
		lines = append(lines, fmt.Sprintf("Country: %s", u.Country))
	}
	lines = append(lines, fmt.Sprintf("Playcount: %s", count(u.Playcount)))
	if u.Registered > 0 {
		lines = append(lines, fmt.Sprintf("Registered: %s", time.Unix(u.Registered, 0).UTC().Format("2 Jan 2006")))
	}
	if u.Subscriber {
		lines = append(lines, "Subscriber: yes")
	}
	lines = append(lines, fmt.Sprintf("URL: %s", u.URL))
	return strings.Join(lines, "\n")
}

// RecentTracks formats a user's listening history.
func RecentTracks(r *lastfm.RecentTracksResponse) string {
	if len(r.Tracks) == 0 {
		return fmt.Sprintf("No recent tracks found for '%s'", r.User)
	}

	lines := []string{fmt.Sprintf("Recent tracks for **%s** (%s total):", r.User, count(r.Total)), ""}
	for _, t := range r.Tracks {
		when := "now playing"
		if !t.NowPlaying && t.PlayedAt > 0 {
			when = time.Unix(t.PlayedAt, 0).UTC().Format("2 Jan 2006 15:04")
		}
		album := ""
		if t.Album != "" {
			album = fmt.Sprintf(" [%s]", t.Album)
		}
		lines = append(lines, fmt.Sprintf("- **%s** by %s%s (%s)", t.Name, t.Artist, album, when))
	}
	return strings.Join(lines, "\n")
}

// UserTop formats one of the user top listings; kind is "artists",
// "albums", or "tracks".
func UserTop(kind string, r *lastfm.UserTopResponse) string {
	if len(r.Entries) == 0 {
		return fmt.Sprintf("No top %s found for '%s'", kind, r.User)
	}

	lines := []string{fmt.Sprintf("Top %s for **%s** (period: %s):", kind, r.User, r.Period), ""}
	nameWidth := 0
	for _, e := range r.Entries {
		if w := runewidth.StringWidth(displayName(e)); w > nameWidth {
			nameWidth = w
		}
	}
	for _, e := range r.Entries {
		lines = append(lines, fmt.Sprintf("%3d. %s  %s plays", e.Rank, pad(displayName(e), nameWidth), count(e.Playcount)))
	}
	return strings.Join(lines, "\n")
}

func displayName(e lastfm.RankedEntry) string {
	if e.Artist != "" {
		return fmt.Sprintf("%s — %s", e.Artist, e.Name)
	}
	return e.Name
}

// LovedTracks formats a user's loved tracks.
func LovedTracks(r *lastfm.LovedTracksResponse) string {
	if len(r.Tracks) == 0 {
		return fmt.Sprintf("No loved tracks found for '%s'", r.User)
	}

	lines := []string{fmt.Sprintf("Loved tracks for **%s** (%s total):", r.User, count(r.Total)), ""}
	for _, t := range r.Tracks {
		when := ""
		if t.LovedAt > 0 {
			when = fmt.Sprintf(" (loved %s)", time.Unix(t.LovedAt, 0).UTC().Format("2 Jan 2006"))
		}
		lines = append(lines, fmt.Sprintf("- **%s** by %s%s", t.Name, t.Artist, when))
	}
	return strings.Join(lines, "\n")
}

// TagInfo formats detailed tag information.
func TagInfo(t *lastfm.TagInfo) string {
	lines := []string{
		fmt.Sprintf("**%s**", t.Name),
		fmt.Sprintf("Taggings: %s | Reach: %s", count(t.Total), count(t.Reach)),
	}
	if summary := strings.TrimSpace(t.WikiSummary); summary != "" {
		lines = append(lines, "", summary)
	}
	return strings.Join(lines, "\n")
}

// TagTopArtists formats a tag's top artists.
func TagTopArtists(r *lastfm.TagTopArtistsResponse) string {
	if len(r.Artists) == 0 {
		return fmt.Sprintf("No artists found for tag '%s'", r.Tag)
	}

	lines := []string{fmt.Sprintf("Top artists for tag '%s':", r.Tag), ""}
	for i, a := range r.Artists {
		lines = append(lines, fmt.Sprintf("%d. **%s**", i+1, a.Name))
	}
	return strings.Join(lines, "\n")
}

// TagTopItems formats a tag's top albums or tracks; kind is "albums" or
// "tracks".
func TagTopItems(kind string, r *lastfm.TagTopItemsResponse) string {
	if len(r.Items) == 0 {
		return fmt.Sprintf("No %s found for tag '%s'", kind, r.Tag)
	}

	lines := []string{fmt.Sprintf("Top %s for tag '%s':", kind, r.Tag), ""}
	for i, item := range r.Items {
		lines = append(lines, fmt.Sprintf("%d. **%s** by %s", i+1, item.Name, item.Artist))
	}
	return strings.Join(lines, "\n")
}

// ChartArtists formats the global top artists chart.
func ChartArtists(r *lastfm.ChartArtistsResponse) string {
	if len(r.Artists) == 0 {
		return "No chart artists available"
	}

	lines := []string{fmt.Sprintf("Global top artists (%s total):", count(r.Total)), ""}
	nameWidth := 0
	for _, a := range r.Artists {
		if w := runewidth.StringWidth(a.Name); w > nameWidth {
			nameWidth = w
		}
	}
	for i, a := range r.Artists {
		lines = append(lines, fmt.Sprintf("%3d. %s  %s plays, %s listeners", i+1, pad(a.Name, nameWidth), count(a.Playcount), count(a.Listeners)))
	}
	return strings.Join(lines, "\n")
}

// ChartTracks formats the global top tracks chart.
func ChartTracks(r *lastfm.ChartTracksResponse) string {
	if len(r.Tracks) == 0 {
		return "No chart tracks available"
	}

	lines := []string{fmt.Sprintf("Global top tracks (%s total):", count(r.Total)), ""}
	for i, t := range r.Tracks {
		lines = append(lines, fmt.Sprintf("%3d. **%s** by %s — %s plays", i+1, t.Name, t.Artist, count(t.Playcount)))
	}
	return strings.Join(lines, "\n")
}

// ChartTags formats the global top tags chart.
func ChartTags(r *lastfm.ChartTagsResponse) string {
	if len(r.Tags) == 0 {
		return "No chart tags available"
	}

	lines := []string{"Global top tags:", ""}
	for i, t := range r.Tags {
		lines = append(lines, fmt.Sprintf("%3d. %s (reach: %s)", i+1, t.Name, count(t.Reach)))
	}
	return strings.Join(lines, "\n")
}

// Token formats a freshly issued request token with the instructions the
// caller needs to continue the flow.
func Token(t *lastfm.Token) string {
	return strings.Join([]string{
		fmt.Sprintf("Request token: %s", t.Token),
		fmt.Sprintf("Authorization URL: %s", t.AuthURL),
		"",
		"Visit the authorization URL to approve access, then call get_session with this token.",
	}, "\n")
}

// Session formats an established session.
func Session(s *lastfm.Session) string {
	subscriber := "no"
	if s.Subscriber {
		subscriber = "yes"
	}
	return strings.Join([]string{
		fmt.Sprintf("Authenticated as **%s**", s.Username),
		fmt.Sprintf("Session key: %s", s.Key),
		fmt.Sprintf("Subscriber: %s", subscriber),
	}, "\n")
}

// NowPlaying formats a now-playing update confirmation.
func NowPlaying(r *lastfm.NowPlayingResponse) string {
	if r.IgnoredCode != 0 {
		return fmt.Sprintf("Now playing update ignored: %s", r.IgnoredMessage)
	}
	return fmt.Sprintf("Now playing: **%s** by %s", r.Track, r.Artist)
}

// ScrobbleResult formats a scrobble confirmation.
func ScrobbleResult(r *lastfm.ScrobbleResponse) string {
	if r.Ignored > 0 {
		reason := r.IgnoredMessage
		if reason == "" {
			reason = "ignored by Last.fm"
		}
		return fmt.Sprintf("Scrobble ignored: %s", reason)
	}
	return fmt.Sprintf("Scrobbled **%s** by %s", r.Track, r.Artist)
}
