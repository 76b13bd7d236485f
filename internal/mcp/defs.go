package mcp

// schema builds a tool input schema from its properties and required
// property names.
func schema(props map[string]any, required ...string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func prop(typ, desc string) map[string]any {
	return map[string]any{"type": typ, "description": desc}
}

// common argument fragments shared across listings
var (
	limitProp    = prop("integer", "Max results (default 10)")
	pageProp     = prop("integer", "Page number (default 1)")
	usernameProp = prop("string", "Last.fm username")
	periodProp   = prop("string", "Time period: 7day, 1month, 3month, 6month, 12month, overall (default overall)")
)

func toolDefinitions() []map[string]any {
	return []map[string]any{
		{
			"name":        "search_artists",
			"description": "Search for artists on Last.fm by name.",
			"inputSchema": schema(map[string]any{
				"query": prop("string", "Artist name to search for"),
				"limit": limitProp,
				"page":  pageProp,
			}, "query"),
		},
		{
			"name":        "get_artist_info",
			"description": "Get detailed information about an artist: listeners, playcount, tags, similar artists, and biography.",
			"inputSchema": schema(map[string]any{
				"artist":      prop("string", "Artist name"),
				"mbid":        prop("string", "MusicBrainz artist ID (alternative to artist name)"),
				"lang":        prop("string", "Language for the biography (ISO 639 alpha-2 code)"),
				"autocorrect": prop("boolean", "Correct misspelled artist names (default true)"),
				"username":    prop("string", "Include this user's playcount for the artist"),
			}),
		},
		{
			"name":        "get_artist_top_albums",
			"description": "Get the most popular albums for an artist.",
			"inputSchema": schema(map[string]any{
				"artist": prop("string", "Artist name"),
				"mbid":   prop("string", "MusicBrainz artist ID (alternative to artist name)"),
				"limit":  limitProp,
				"page":   pageProp,
			}),
		},
		{
			"name":        "get_artist_top_tracks",
			"description": "Get the most popular tracks for an artist.",
			"inputSchema": schema(map[string]any{
				"artist": prop("string", "Artist name"),
				"mbid":   prop("string", "MusicBrainz artist ID (alternative to artist name)"),
				"limit":  limitProp,
				"page":   pageProp,
			}),
		},
		{
			"name":        "search_albums",
			"description": "Search for albums on Last.fm by name.",
			"inputSchema": schema(map[string]any{
				"query": prop("string", "Album name to search for"),
				"limit": limitProp,
				"page":  pageProp,
			}, "query"),
		},
		{
			"name":        "get_album_info",
			"description": "Get detailed information about an album: track listing, tags, playcount, and wiki summary.",
			"inputSchema": schema(map[string]any{
				"artist":      prop("string", "Artist name"),
				"album":       prop("string", "Album name"),
				"mbid":        prop("string", "MusicBrainz album ID (alternative to artist and album names)"),
				"autocorrect": prop("boolean", "Correct misspelled names (default true)"),
				"username":    prop("string", "Include this user's playcount for the album"),
			}),
		},
		{
			"name":        "get_album_top_tags",
			"description": "Get the top tags applied to an album.",
			"inputSchema": schema(map[string]any{
				"artist": prop("string", "Artist name"),
				"album":  prop("string", "Album name"),
				"mbid":   prop("string", "MusicBrainz album ID (alternative to artist and album names)"),
			}),
		},
		{
			"name":        "search_tracks",
			"description": "Search for tracks on Last.fm by name, optionally narrowed by artist.",
			"inputSchema": schema(map[string]any{
				"query":  prop("string", "Track name to search for"),
				"artist": prop("string", "Narrow results to this artist"),
				"limit":  limitProp,
				"page":   pageProp,
			}, "query"),
		},
		{
			"name":        "get_track_info",
			"description": "Get detailed information about a track: duration, playcount, tags, and wiki summary.",
			"inputSchema": schema(map[string]any{
				"artist":      prop("string", "Artist name"),
				"track":       prop("string", "Track name"),
				"mbid":        prop("string", "MusicBrainz track ID (alternative to artist and track names)"),
				"autocorrect": prop("boolean", "Correct misspelled names (default true)"),
				"username":    prop("string", "Include this user's playcount and loved status"),
			}),
		},
		{
			"name":        "get_similar_tracks",
			"description": "Get tracks similar to a given track, with match scores.",
			"inputSchema": schema(map[string]any{
				"artist": prop("string", "Artist name"),
				"track":  prop("string", "Track name"),
				"mbid":   prop("string", "MusicBrainz track ID (alternative to artist and track names)"),
				"limit":  limitProp,
			}),
		},
		{
			"name":        "get_track_top_tags",
			"description": "Get the top tags applied to a track.",
			"inputSchema": schema(map[string]any{
				"artist": prop("string", "Artist name"),
				"track":  prop("string", "Track name"),
				"mbid":   prop("string", "MusicBrainz track ID (alternative to artist and track names)"),
			}),
		},
		{
			"name":        "get_user_info",
			"description": "Get profile information for a Last.fm user.",
			"inputSchema": schema(map[string]any{
				"username": usernameProp,
			}, "username"),
		},
		{
			"name":        "get_recent_tracks",
			"description": "Get a user's recently played tracks, most recent first. A currently playing track leads the list.",
			"inputSchema": schema(map[string]any{
				"username": usernameProp,
				"limit":    prop("integer", "Max results (default 10, max 200)"),
				"page":     pageProp,
				"from":     prop("integer", "Only include scrobbles after this unix timestamp"),
				"to":       prop("integer", "Only include scrobbles before this unix timestamp"),
			}, "username"),
		},
		{
			"name":        "get_user_top_artists",
			"description": "Get a user's most played artists for a time period.",
			"inputSchema": schema(map[string]any{
				"username": usernameProp,
				"period":   periodProp,
				"limit":    limitProp,
				"page":     pageProp,
			}, "username"),
		},
		{
			"name":        "get_user_top_albums",
			"description": "Get a user's most played albums for a time period.",
			"inputSchema": schema(map[string]any{
				"username": usernameProp,
				"period":   periodProp,
				"limit":    limitProp,
				"page":     pageProp,
			}, "username"),
		},
		{
			"name":        "get_user_top_tracks",
			"description": "Get a user's most played tracks for a time period.",
			"inputSchema": schema(map[string]any{
				"username": usernameProp,
				"period":   periodProp,
				"limit":    limitProp,
				"page":     pageProp,
			}, "username"),
		},
		{
			"name":        "get_loved_tracks",
			"description": "Get the tracks a user has marked as loved.",
			"inputSchema": schema(map[string]any{
				"username": usernameProp,
				"limit":    limitProp,
				"page":     pageProp,
			}, "username"),
		},
		{
			"name":        "get_tag_info",
			"description": "Get information about a tag: usage counts and wiki summary.",
			"inputSchema": schema(map[string]any{
				"tag":  prop("string", "Tag name"),
				"lang": prop("string", "Language for the wiki summary (ISO 639 alpha-2 code)"),
			}, "tag"),
		},
		{
			"name":        "get_tag_top_artists",
			"description": "Get the top artists for a tag.",
			"inputSchema": schema(map[string]any{
				"tag":   prop("string", "Tag name"),
				"limit": limitProp,
				"page":  pageProp,
			}, "tag"),
		},
		{
			"name":        "get_tag_top_albums",
			"description": "Get the top albums for a tag.",
			"inputSchema": schema(map[string]any{
				"tag":   prop("string", "Tag name"),
				"limit": limitProp,
				"page":  pageProp,
			}, "tag"),
		},
		{
			"name":        "get_tag_top_tracks",
			"description": "Get the top tracks for a tag.",
			"inputSchema": schema(map[string]any{
				"tag":   prop("string", "Tag name"),
				"limit": limitProp,
				"page":  pageProp,
			}, "tag"),
		},
		{
			"name":        "get_chart_top_artists",
			"description": "Get the global top artists chart.",
			"inputSchema": schema(map[string]any{
				"limit": limitProp,
				"page":  pageProp,
			}),
		},
		{
			"name":        "get_chart_top_tracks",
			"description": "Get the global top tracks chart.",
			"inputSchema": schema(map[string]any{
				"limit": limitProp,
				"page":  pageProp,
			}),
		},
		{
			"name":        "get_chart_top_tags",
			"description": "Get the global top tags chart.",
			"inputSchema": schema(map[string]any{
				"limit": limitProp,
				"page":  pageProp,
			}),
		},
		{
			"name":        "get_auth_token",
			"description": "Start the authentication flow: request a token and return the URL where the user must authorize it.",
			"inputSchema": schema(map[string]any{}),
		},
		{
			"name":        "get_session",
			"description": "Complete the authentication flow: exchange an authorized token for a session key. Uses the most recent token from get_auth_token when none is given.",
			"inputSchema": schema(map[string]any{
				"token": prop("string", "Authorized token from get_auth_token (optional)"),
			}),
		},
		{
			"name":        "validate_session",
			"description": "Check whether a session key is still valid. Uses the stored session when none is given.",
			"inputSchema": schema(map[string]any{
				"session_key": prop("string", "Session key to validate (optional)"),
			}),
		},
		{
			"name":        "scrobble_track",
			"description": "Submit a listened track to the user's Last.fm profile. Requires authentication.",
			"inputSchema": schema(map[string]any{
				"artist":       prop("string", "Artist name"),
				"track":        prop("string", "Track name"),
				"album":        prop("string", "Album name"),
				"album_artist": prop("string", "Album artist, if different from the track artist"),
				"duration":     prop("integer", "Track duration in seconds"),
				"track_number": prop("integer", "Track number on the album"),
				"mbid":         prop("string", "MusicBrainz track ID"),
				"timestamp":    prop("integer", "Unix timestamp when the track was played (default now)"),
			}, "artist", "track"),
		},
		{
			"name":        "update_now_playing",
			"description": "Update the user's now-playing status on Last.fm. Does not count as a scrobble. Requires authentication.",
			"inputSchema": schema(map[string]any{
				"artist":       prop("string", "Artist name"),
				"track":        prop("string", "Track name"),
				"album":        prop("string", "Album name"),
				"album_artist": prop("string", "Album artist, if different from the track artist"),
				"duration":     prop("integer", "Track duration in seconds"),
				"track_number": prop("integer", "Track number on the album"),
				"mbid":         prop("string", "MusicBrainz track ID"),
			}, "artist", "track"),
		},
		{
			"name":        "love_track",
			"description": "Mark a track as loved on the user's Last.fm profile. Requires authentication.",
			"inputSchema": schema(map[string]any{
				"artist": prop("string", "Artist name"),
				"track":  prop("string", "Track name"),
			}, "artist", "track"),
		},
		{
			"name":        "unlove_track",
			"description": "Remove the loved mark from a track on the user's Last.fm profile. Requires authentication.",
			"inputSchema": schema(map[string]any{
				"artist": prop("string", "Artist name"),
				"track":  prop("string", "Track name"),
			}, "artist", "track"),
		},
	}
}
