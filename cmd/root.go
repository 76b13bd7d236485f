package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lastfm-mcp",
	Short: "MCP server for the Last.fm API",
	Long: `lastfm-mcp exposes the Last.fm API as Model Context Protocol tools.

It runs an HTTP server speaking JSON-RPC 2.0 that lets MCP clients
search artists, albums, and tracks, browse charts and user listening
history, and scrobble plays to an authenticated Last.fm account.

Use 'lastfm-mcp auth' once to link a Last.fm account, then
'lastfm-mcp serve' to start the server.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
