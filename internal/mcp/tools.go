package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ecrawford/lastfm-mcp/internal/render"
	"github.com/ecrawford/lastfm-mcp/pkg/lastfm"
)

func (s *Server) handleToolsCall(ctx context.Context, req jsonrpcRequest) *jsonrpcResponse {
	var params struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return rpcErr(req.ID, -32602, "Invalid params: "+err.Error())
	}

	s.Logger.Info().Str("tool", params.Name).Msg("tool call")

	args := params.Arguments
	id := req.ID
	switch params.Name {
	case "search_artists":
		return s.toolSearchArtists(ctx, id, args)
	case "get_artist_info":
		return s.toolGetArtistInfo(ctx, id, args)
	case "get_artist_top_albums":
		return s.toolGetArtistTopAlbums(ctx, id, args)
	case "get_artist_top_tracks":
		return s.toolGetArtistTopTracks(ctx, id, args)
	case "search_albums":
		return s.toolSearchAlbums(ctx, id, args)
	case "get_album_info":
		return s.toolGetAlbumInfo(ctx, id, args)
	case "get_album_top_tags":
		return s.toolGetAlbumTopTags(ctx, id, args)
	case "search_tracks":
		return s.toolSearchTracks(ctx, id, args)
	case "get_track_info":
		return s.toolGetTrackInfo(ctx, id, args)
	case "get_similar_tracks":
		return s.toolGetSimilarTracks(ctx, id, args)
	case "get_track_top_tags":
		return s.toolGetTrackTopTags(ctx, id, args)
	case "get_user_info":
		return s.toolGetUserInfo(ctx, id, args)
	case "get_recent_tracks":
		return s.toolGetRecentTracks(ctx, id, args)
	case "get_user_top_artists":
		return s.toolGetUserTop(ctx, id, args, "artists")
	case "get_user_top_albums":
		return s.toolGetUserTop(ctx, id, args, "albums")
	case "get_user_top_tracks":
		return s.toolGetUserTop(ctx, id, args, "tracks")
	case "get_loved_tracks":
		return s.toolGetLovedTracks(ctx, id, args)
	case "get_tag_info":
		return s.toolGetTagInfo(ctx, id, args)
	case "get_tag_top_artists":
		return s.toolGetTagTopArtists(ctx, id, args)
	case "get_tag_top_albums":
		return s.toolGetTagTopItems(ctx, id, args, "albums")
	case "get_tag_top_tracks":
		return s.toolGetTagTopItems(ctx, id, args, "tracks")
	case "get_chart_top_artists":
		return s.toolGetChartTopArtists(ctx, id, args)
	case "get_chart_top_tracks":
		return s.toolGetChartTopTracks(ctx, id, args)
	case "get_chart_top_tags":
		return s.toolGetChartTopTags(ctx, id, args)
	case "get_auth_token":
		return s.toolGetAuthToken(ctx, id)
	case "get_session":
		return s.toolGetSession(ctx, id, args)
	case "validate_session":
		return s.toolValidateSession(ctx, id, args)
	case "scrobble_track":
		return s.toolScrobbleTrack(ctx, id, args)
	case "update_now_playing":
		return s.toolUpdateNowPlaying(ctx, id, args)
	case "love_track":
		return s.toolLoveTrack(ctx, id, args, true)
	case "unlove_track":
		return s.toolLoveTrack(ctx, id, args, false)
	default:
		return rpcErr(req.ID, -32602, "Unknown tool: "+params.Name)
	}
}

// opError flattens a failure into the tool-level error text. The tool
// boundary never raises: every failure becomes an isError text block.
func opError(id any, op string, err error) *jsonrpcResponse {
	if errors.Is(err, lastfm.ErrNoSessionKey) {
		return toolError(id, fmt.Sprintf("Error %s: not authenticated. Call get_auth_token, authorize the URL, then call get_session.", op))
	}
	return toolError(id, fmt.Sprintf("Error %s: %s", op, err))
}

// --- artist tools ---

func (s *Server) toolSearchArtists(ctx context.Context, id any, args map[string]any) *jsonrpcResponse {
	query := str(args, "query")
	if query == "" {
		return toolError(id, "Error searching artists: query is required")
	}
	resp, err := s.Client.Artist().Search(ctx, query, intVal(args, "limit", 10), intVal(args, "page", 1))
	if err != nil {
		return opError(id, "searching artists", err)
	}
	return toolResult(id, render.ArtistSearch(resp))
}

func (s *Server) toolGetArtistInfo(ctx context.Context, id any, args map[string]any) *jsonrpcResponse {
	info, err := s.Client.Artist().GetInfo(ctx, lastfm.ArtistInfoParams{
		Artist:      str(args, "artist"),
		MBID:        str(args, "mbid"),
		Lang:        str(args, "lang"),
		Autocorrect: boolVal(args, "autocorrect", true),
		Username:    str(args, "username"),
	})
	if err != nil {
		return opError(id, "getting artist info", err)
	}
	return toolResult(id, render.ArtistInfo(info))
}

func (s *Server) toolGetArtistTopAlbums(ctx context.Context, id any, args map[string]any) *jsonrpcResponse {
	resp, err := s.Client.Artist().GetTopAlbums(ctx, str(args, "artist"), str(args, "mbid"),
		intVal(args, "limit", 10), intVal(args, "page", 1))
	if err != nil {
		return opError(id, "getting artist top albums", err)
	}
	return toolResult(id, render.ArtistTopAlbums(resp))
}

func (s *Server) toolGetArtistTopTracks(ctx context.Context, id any, args map[string]any) *jsonrpcResponse {
	resp, err := s.Client.Artist().GetTopTracks(ctx, str(args, "artist"), str(args, "mbid"),
		intVal(args, "limit", 10), intVal(args, "page", 1))
	if err != nil {
		return opError(id, "getting artist top tracks", err)
	}
	return toolResult(id, render.ArtistTopTracks(resp))
}

// --- album tools ---

func (s *Server) toolSearchAlbums(ctx context.Context, id any, args map[string]any) *jsonrpcResponse {
	query := str(args, "query")
	if query == "" {
		return toolError(id, "Error searching albums: query is required")
	}
	resp, err := s.Client.Album().Search(ctx, query, intVal(args, "limit", 10), intVal(args, "page", 1))
	if err != nil {
		return opError(id, "searching albums", err)
	}
	return toolResult(id, render.AlbumSearch(resp))
}

func (s *Server) toolGetAlbumInfo(ctx context.Context, id any, args map[string]any) *jsonrpcResponse {
	info, err := s.Client.Album().GetInfo(ctx, lastfm.AlbumInfoParams{
		Artist:      str(args, "artist"),
		Album:       str(args, "album"),
		MBID:        str(args, "mbid"),
		Autocorrect: boolVal(args, "autocorrect", true),
		Username:    str(args, "username"),
	})
	if err != nil {
		return opError(id, "getting album info", err)
	}
	return toolResult(id, render.AlbumInfo(info))
}

func (s *Server) toolGetAlbumTopTags(ctx context.Context, id any, args map[string]any) *jsonrpcResponse {
	artist := str(args, "artist")
	album := str(args, "album")
	tags, err := s.Client.Album().GetTopTags(ctx, artist, album, str(args, "mbid"))
	if err != nil {
		return opError(id, "getting album top tags", err)
	}
	return toolResult(id, render.TopTags(fmt.Sprintf("'%s' by %s", album, artist), tags))
}

// --- track tools ---

func (s *Server) toolSearchTracks(ctx context.Context, id any, args map[string]any) *jsonrpcResponse {
	query := str(args, "query")
	if query == "" {
		return toolError(id, "Error searching tracks: query is required")
	}
	resp, err := s.Client.Track().Search(ctx, query, str(args, "artist"),
		intVal(args, "limit", 10), intVal(args, "page", 1))
	if err != nil {
		return opError(id, "searching tracks", err)
	}
	return toolResult(id, render.TrackSearch(resp))
}

func (s *Server) toolGetTrackInfo(ctx context.Context, id any, args map[string]any) *jsonrpcResponse {
	info, err := s.Client.Track().GetInfo(ctx, lastfm.TrackInfoParams{
		Artist:      str(args, "artist"),
		Track:       str(args, "track"),
		MBID:        str(args, "mbid"),
		Autocorrect: boolVal(args, "autocorrect", true),
		Username:    str(args, "username"),
	})
	if err != nil {
		return opError(id, "getting track info", err)
	}
	return toolResult(id, render.TrackInfo(info))
}

func (s *Server) toolGetSimilarTracks(ctx context.Context, id any, args map[string]any) *jsonrpcResponse {
	artist := str(args, "artist")
	track := str(args, "track")
	similar, err := s.Client.Track().GetSimilar(ctx, artist, track, str(args, "mbid"), intVal(args, "limit", 10))
	if err != nil {
		return opError(id, "getting similar tracks", err)
	}
	return toolResult(id, render.SimilarTracks(artist, track, similar))
}

func (s *Server) toolGetTrackTopTags(ctx context.Context, id any, args map[string]any) *jsonrpcResponse {
	artist := str(args, "artist")
	track := str(args, "track")
	tags, err := s.Client.Track().GetTopTags(ctx, artist, track, str(args, "mbid"))
	if err != nil {
		return opError(id, "getting track top tags", err)
	}
	return toolResult(id, render.TopTags(fmt.Sprintf("'%s' by %s", track, artist), tags))
}

// --- user tools ---

func (s *Server) toolGetUserInfo(ctx context.Context, id any, args map[string]any) *jsonrpcResponse {
	info, err := s.Client.User().GetInfo(ctx, str(args, "username"))
	if err != nil {
		return opError(id, "getting user info", err)
	}
	return toolResult(id, render.UserInfo(info))
}

func (s *Server) toolGetRecentTracks(ctx context.Context, id any, args map[string]any) *jsonrpcResponse {
	resp, err := s.Client.User().GetRecentTracks(ctx, lastfm.RecentTracksParams{
		User:  str(args, "username"),
		Limit: intVal(args, "limit", 10),
		Page:  intVal(args, "page", 1),
		From:  int64(intVal(args, "from", 0)),
		To:    int64(intVal(args, "to", 0)),
	})
	if err != nil {
		return opError(id, "getting recent tracks", err)
	}
	return toolResult(id, render.RecentTracks(resp))
}

func (s *Server) toolGetUserTop(ctx context.Context, id any, args map[string]any, kind string) *jsonrpcResponse {
	user := str(args, "username")
	period := str(args, "period")
	limit := intVal(args, "limit", 10)
	page := intVal(args, "page", 1)

	var resp *lastfm.UserTopResponse
	var err error
	switch kind {
	case "artists":
		resp, err = s.Client.User().GetTopArtists(ctx, user, period, limit, page)
	case "albums":
		resp, err = s.Client.User().GetTopAlbums(ctx, user, period, limit, page)
	default:
		resp, err = s.Client.User().GetTopTracks(ctx, user, period, limit, page)
	}
	if err != nil {
		return opError(id, "getting user top "+kind, err)
	}
	return toolResult(id, render.UserTop(kind, resp))
}

func (s *Server) toolGetLovedTracks(ctx context.Context, id any, args map[string]any) *jsonrpcResponse {
	resp, err := s.Client.User().GetLovedTracks(ctx, str(args, "username"),
		intVal(args, "limit", 10), intVal(args, "page", 1))
	if err != nil {
		return opError(id, "getting loved tracks", err)
	}
	return toolResult(id, render.LovedTracks(resp))
}

// --- tag tools ---

func (s *Server) toolGetTagInfo(ctx context.Context, id any, args map[string]any) *jsonrpcResponse {
	info, err := s.Client.Tag().GetInfo(ctx, str(args, "tag"), str(args, "lang"))
	if err != nil {
		return opError(id, "getting tag info", err)
	}
	return toolResult(id, render.TagInfo(info))
}

func (s *Server) toolGetTagTopArtists(ctx context.Context, id any, args map[string]any) *jsonrpcResponse {
	resp, err := s.Client.Tag().GetTopArtists(ctx, str(args, "tag"),
		intVal(args, "limit", 10), intVal(args, "page", 1))
	if err != nil {
		return opError(id, "getting tag top artists", err)
	}
	return toolResult(id, render.TagTopArtists(resp))
}

func (s *Server) toolGetTagTopItems(ctx context.Context, id any, args map[string]any, kind string) *jsonrpcResponse {
	tag := str(args, "tag")
	limit := intVal(args, "limit", 10)
	page := intVal(args, "page", 1)

	var resp *lastfm.TagTopItemsResponse
	var err error
	if kind == "albums" {
		resp, err = s.Client.Tag().GetTopAlbums(ctx, tag, limit, page)
	} else {
		resp, err = s.Client.Tag().GetTopTracks(ctx, tag, limit, page)
	}
	if err != nil {
		return opError(id, "getting tag top "+kind, err)
	}
	return toolResult(id, render.TagTopItems(kind, resp))
}

// --- chart tools ---

func (s *Server) toolGetChartTopArtists(ctx context.Context, id any, args map[string]any) *jsonrpcResponse {
	resp, err := s.Client.Chart().GetTopArtists(ctx, intVal(args, "limit", 10), intVal(args, "page", 1))
	if err != nil {
		return opError(id, "getting chart top artists", err)
	}
	return toolResult(id, render.ChartArtists(resp))
}

func (s *Server) toolGetChartTopTracks(ctx context.Context, id any, args map[string]any) *jsonrpcResponse {
	resp, err := s.Client.Chart().GetTopTracks(ctx, intVal(args, "limit", 10), intVal(args, "page", 1))
	if err != nil {
		return opError(id, "getting chart top tracks", err)
	}
	return toolResult(id, render.ChartTracks(resp))
}

func (s *Server) toolGetChartTopTags(ctx context.Context, id any, args map[string]any) *jsonrpcResponse {
	resp, err := s.Client.Chart().GetTopTags(ctx, intVal(args, "limit", 10), intVal(args, "page", 1))
	if err != nil {
		return opError(id, "getting chart top tags", err)
	}
	return toolResult(id, render.ChartTags(resp))
}

// --- auth tools ---

func (s *Server) toolGetAuthToken(ctx context.Context, id any) *jsonrpcResponse {
	token, err := s.Flow.RequestToken(ctx)
	if err != nil {
		return opError(id, "getting auth token", err)
	}
	return toolResult(id, render.Token(token))
}

func (s *Server) toolGetSession(ctx context.Context, id any, args map[string]any) *jsonrpcResponse {
	session, err := s.Flow.ExchangeToken(ctx, str(args, "token"))
	if err != nil {
		return opError(id, "getting session", err)
	}
	return toolResult(id, render.Session(session))
}

func (s *Server) toolValidateSession(ctx context.Context, id any, args map[string]any) *jsonrpcResponse {
	valid, err := s.Flow.ValidateSession(ctx, str(args, "session_key"))
	if err != nil {
		return opError(id, "validating session", err)
	}
	if !valid {
		return toolResult(id, "Session is invalid or expired. Re-authenticate with get_auth_token and get_session.")
	}
	return toolResult(id, "Session is valid.")
}

// --- library tools ---

func (s *Server) toolScrobbleTrack(ctx context.Context, id any, args map[string]any) *jsonrpcResponse {
	artist := str(args, "artist")
	track := str(args, "track")
	if artist == "" || track == "" {
		return toolError(id, "Error scrobbling track: artist and track are required")
	}

	timestamp := time.Now()
	if ts := intVal(args, "timestamp", 0); ts > 0 {
		timestamp = time.Unix(int64(ts), 0)
	}

	resp, err := s.Client.Scrobble().Scrobble(ctx, trackFromArgs(args), timestamp)
	if err != nil {
		return opError(id, "scrobbling track", err)
	}
	return toolResult(id, render.ScrobbleResult(resp))
}

func (s *Server) toolUpdateNowPlaying(ctx context.Context, id any, args map[string]any) *jsonrpcResponse {
	artist := str(args, "artist")
	track := str(args, "track")
	if artist == "" || track == "" {
		return toolError(id, "Error updating now playing: artist and track are required")
	}

	resp, err := s.Client.Scrobble().UpdateNowPlaying(ctx, trackFromArgs(args))
	if err != nil {
		return opError(id, "updating now playing", err)
	}
	return toolResult(id, render.NowPlaying(resp))
}

func (s *Server) toolLoveTrack(ctx context.Context, id any, args map[string]any, love bool) *jsonrpcResponse {
	artist := str(args, "artist")
	track := str(args, "track")
	op, verb := "loving track", "Loved"
	if !love {
		op, verb = "unloving track", "Unloved"
	}
	if artist == "" || track == "" {
		return toolError(id, fmt.Sprintf("Error %s: artist and track are required", op))
	}

	var err error
	if love {
		err = s.Client.Track().Love(ctx, artist, track)
	} else {
		err = s.Client.Track().Unlove(ctx, artist, track)
	}
	if err != nil {
		return opError(id, op, err)
	}
	return toolResult(id, fmt.Sprintf("%s **%s** by %s", verb, track, artist))
}

func trackFromArgs(args map[string]any) lastfm.Track {
	return lastfm.Track{
		Artist:      str(args, "artist"),
		Track:       str(args, "track"),
		Album:       str(args, "album"),
		AlbumArtist: str(args, "album_artist"),
		Duration:    intVal(args, "duration", 0),
		TrackNumber: intVal(args, "track_number", 0),
		MBTrackID:   str(args, "mbid"),
	}
}
