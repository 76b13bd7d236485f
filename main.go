package main

import "github.com/ecrawford/lastfm-mcp/cmd"

func main() {
	cmd.Execute()
}
