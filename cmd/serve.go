package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/photo-analyzer/internal/analyzer"
	"github.com/kozaktomas/photo-analyzer/internal/config"
	"github.com/kozaktomas/photo-analyzer/internal/logging"
	"github.com/kozaktomas/photo-analyzer/internal/pose"
	"github.com/kozaktomas/photo-analyzer/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the Photo Analyzer HTTP API.

Photos are accepted as base64 or URL (POST /analyze-photo) or as a multipart
upload (POST /analyze-photo-file). The pose model is selected with
POSE_PROVIDER (mediapipe, gemini or openai).

Host and port default to HOST and PORT from the environment (0.0.0.0:8001);
the flags take precedence.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 8001, "Port to listen on (overrides PORT)")
	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to (overrides HOST)")
}

// resolveServeHostPort applies explicitly set flags over the environment configuration.
func resolveServeHostPort(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = mustGetInt(cmd, "port")
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = mustGetString(cmd, "host")
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	resolveServeHostPort(cmd, cfg)

	logger := logging.New(cfg.Log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	detector, err := pose.NewDetector(ctx, cfg)
	if err != nil {
		return fmt.Errorf("creating pose detector: %w", err)
	}

	a := analyzer.New(detector, cfg.Pose.MaxImageSize, logger)
	fetcher := analyzer.NewHTTPFetcher(cfg.Fetch)
	server := web.NewServer(cfg, a, fetcher, logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("received shutdown signal")

		shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("error during shutdown")
		}
	}()

	fmt.Printf("Starting Photo Analyzer API on http://%s\n", cfg.Server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
