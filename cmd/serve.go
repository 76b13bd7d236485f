package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ecrawford/lastfm-mcp/internal/authflow"
	"github.com/ecrawford/lastfm-mcp/internal/config"
	"github.com/ecrawford/lastfm-mcp/internal/mcp"
	"github.com/ecrawford/lastfm-mcp/pkg/lastfm"
)

var (
	serveAddr     string
	serveLogFile  string
	serveLogLevel string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server",
	Long: `Run the MCP server that exposes Last.fm tools over HTTP.

The server speaks JSON-RPC 2.0 and handles the MCP initialize, ping,
tools/list, and tools/call methods. Set a bearer token in the config
(or LASTFM_TOKEN) to require authorization on every request.

The server runs in the foreground and logs to stderr by default.
Use the --log-file flag to log to a file.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, :8080)")
	serveCmd.Flags().StringVar(&serveLogFile, "log-file", "", "Log file path (default: stderr)")
	serveCmd.Flags().StringVar(&serveLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if cfg.LastFM.APIKey == "" || cfg.LastFM.SharedSecret == "" {
		return fmt.Errorf("Last.fm credentials not configured. Run 'lastfm-mcp auth' first")
	}

	addr := cfg.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	logLevel := cfg.LogLevel
	if serveLogLevel != "" {
		logLevel = serveLogLevel
	}
	logger := setupLogger(serveLogFile, logLevel)

	client, err := lastfm.NewClient(lastfm.Config{
		APIKey:     cfg.LastFM.APIKey,
		APISecret:  cfg.LastFM.SharedSecret,
		SessionKey: cfg.LastFM.SessionKey,
		Logger:     zerologAdapter{logger},
	})
	if err != nil {
		return fmt.Errorf("failed to create Last.fm client: %w", err)
	}

	flow := authflow.New(client, authflow.NewConfigStore(cfg), logger)

	server := &http.Server{
		Addr: addr,
		Handler: &mcp.Server{
			Client: client,
			Flow:   flow,
			Token:  cfg.BearerToken,
			Logger: logger,
		},
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("Starting MCP server")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Error during shutdown")
		return err
	}

	logger.Info().Msg("Server stopped")
	return nil
}

// zerologAdapter bridges zerolog to the client's debug logger.
type zerologAdapter struct {
	logger zerolog.Logger
}

func (a zerologAdapter) Debugf(format string, args ...interface{}) {
	a.logger.Debug().Msgf(format, args...)
}

// setupLogger creates a logger with the specified configuration
func setupLogger(logFile, logLevel string) zerolog.Logger {
	level := zerolog.InfoLevel
	switch logLevel {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	var output *os.File
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			output = os.Stderr
		} else {
			output = f
		}
	} else {
		output = os.Stderr
	}

	logger := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()

	// Pretty console output when logging to a terminal
	if output == os.Stderr {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	return logger
}
