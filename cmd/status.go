package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ecrawford/lastfm-mcp/internal/authflow"
	"github.com/ecrawford/lastfm-mcp/internal/config"
	"github.com/ecrawford/lastfm-mcp/pkg/lastfm"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the stored Last.fm session",
	Long: `Check whether the stored Last.fm session key is still valid.

Makes a single authenticated request against the Last.fm API and
reports the result. A rejected session key means the account access
was revoked and 'lastfm-mcp auth' must be run again.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.LastFM.APIKey == "" || cfg.LastFM.SharedSecret == "" {
		return fmt.Errorf("Last.fm credentials not configured. Run 'lastfm-mcp auth' first")
	}
	if cfg.LastFM.SessionKey == "" {
		return fmt.Errorf("no session key stored. Run 'lastfm-mcp auth' first")
	}

	client, err := lastfm.NewClient(lastfm.Config{
		APIKey:     cfg.LastFM.APIKey,
		APISecret:  cfg.LastFM.SharedSecret,
		SessionKey: cfg.LastFM.SessionKey,
	})
	if err != nil {
		return fmt.Errorf("failed to create Last.fm client: %w", err)
	}
	flow := authflow.New(client, authflow.NewConfigStore(cfg), zerolog.Nop())

	valid, err := flow.ValidateSession(context.Background(), cfg.LastFM.SessionKey)
	if err != nil {
		return fmt.Errorf("failed to validate session: %w", err)
	}

	if !valid {
		fmt.Println("✗ Session key is invalid or expired. Run 'lastfm-mcp auth' to re-authenticate.")
		return nil
	}
	fmt.Println("✓ Session key is valid.")
	return nil
}
