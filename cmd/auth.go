package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ecrawford/lastfm-mcp/internal/authflow"
	"github.com/ecrawford/lastfm-mcp/internal/config"
	"github.com/ecrawford/lastfm-mcp/pkg/lastfm"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authenticate with Last.fm",
	Long: `Authenticate with Last.fm to enable scrobbling and other
account operations.

This command will guide you through the Last.fm authentication process:
1. You'll be prompted to enter your Last.fm API key and shared secret
2. A browser URL will be provided for you to authorize the application
3. After authorization, a session key will be saved to your config file

You can get API credentials from: https://www.last.fm/api/account/create`,
	RunE: runAuth,
}

func init() {
	rootCmd.AddCommand(authCmd)
}

func runAuth(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println("Last.fm Authentication")
	fmt.Println("======================")
	fmt.Println()
	fmt.Println("You can get API credentials from: https://www.last.fm/api/account/create")
	fmt.Println()

	// Offer to reuse credentials already on file
	if cfg.LastFM.APIKey != "" && cfg.LastFM.SharedSecret != "" {
		fmt.Printf("Found existing API credentials.\n")
		fmt.Printf("API Key: %s\n", cfg.LastFM.APIKey)
		fmt.Print("\nUse existing credentials? [Y/n]: ")
		response, err := reader.ReadString('\n')
		if err != nil {
			response = "y"
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "" && response != "y" && response != "yes" {
			cfg.LastFM.APIKey = ""
			cfg.LastFM.SharedSecret = ""
		}
	}

	if cfg.LastFM.APIKey == "" {
		fmt.Print("Enter your Last.fm API Key: ")
		apiKey, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read API key: %w", err)
		}
		cfg.LastFM.APIKey = strings.TrimSpace(apiKey)
	}

	if cfg.LastFM.SharedSecret == "" {
		fmt.Print("Enter your Last.fm Shared Secret: ")
		secret, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read shared secret: %w", err)
		}
		cfg.LastFM.SharedSecret = strings.TrimSpace(secret)
	}

	if cfg.LastFM.APIKey == "" || cfg.LastFM.SharedSecret == "" {
		return fmt.Errorf("API key and shared secret are required")
	}

	client, err := lastfm.NewClient(lastfm.Config{
		APIKey:    cfg.LastFM.APIKey,
		APISecret: cfg.LastFM.SharedSecret,
	})
	if err != nil {
		return fmt.Errorf("failed to create Last.fm client: %w", err)
	}
	flow := authflow.New(client, authflow.NewConfigStore(cfg), zerolog.Nop())

	fmt.Println("\nGenerating authentication token...")
	token, err := flow.RequestToken(ctx)
	if err != nil {
		return fmt.Errorf("failed to generate auth token: %w", err)
	}

	fmt.Println("\nPlease visit this URL to authorize lastfm-mcp:")
	fmt.Printf("\n  %s\n\n", token.AuthURL)
	fmt.Println("After authorizing, press Enter to continue...")
	_, _ = reader.ReadString('\n')

	// The user controls retries: an unauthorized token fails the
	// exchange until the URL has been visited.
	var session *lastfm.Session
	for {
		fmt.Println("Retrieving session key...")
		session, err = flow.ExchangeToken(ctx, token.Token)
		if err == nil {
			break
		}
		fmt.Printf("Failed to retrieve session: %v\n", err)
		fmt.Print("Press Enter to try again, or type q to abort: ")
		response, readErr := reader.ReadString('\n')
		if readErr != nil || strings.TrimSpace(strings.ToLower(response)) == "q" {
			return fmt.Errorf("authentication aborted: %w", err)
		}
	}

	configPath := config.GetConfigDir()
	fmt.Printf("\n✓ Authenticated as %s\n", session.Username)
	fmt.Printf("✓ Session key saved to %s/config.yaml\n", configPath)
	fmt.Println("\nYou can now use 'lastfm-mcp serve' to start the MCP server.")

	return nil
}
