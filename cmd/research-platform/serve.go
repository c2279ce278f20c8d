// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MajorAbdullah/ai-research-platform/internal/server"
	"github.com/MajorAbdullah/ai-research-platform/internal/upstream"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the research platform HTTP API",
	Long: `Serve starts the asynchronous research API. Tasks are accepted on
POST /api/research and executed on a bounded worker pool; results are
kept in memory, mirrored to SQLite, and persisted as markdown documents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := platformConfig()
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}
		if workers, _ := cmd.Flags().GetInt("workers"); workers > 0 {
			cfg.Server.Workers = workers
		}
		if cfg.Upstream.APIKey == "" {
			return fmt.Errorf("OpenAI API key is required: set OPENAI_API_KEY or .secrets/openai-api-key")
		}

		logger, err := buildLogger(cmd)
		if err != nil {
			return err
		}
		defer logger.Sync()

		client, err := upstream.NewClient(cfg.Upstream.APIKey, cfg.Upstream.EnrichmentModel)
		if err != nil {
			return err
		}

		srv, err := server.New(cfg, logger, client)
		if err != nil {
			return err
		}

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-stop:
			logger.Info("shutting down", zap.String("signal", sig.String()))
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(ctx)
	},
}

func buildLogger(cmd *cobra.Command) (*zap.Logger, error) {
	if dev, _ := cmd.Flags().GetBool("log-dev"); dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8000)")
	serveCmd.Flags().Int("workers", 0, "concurrent research task slots (default 4)")
	serveCmd.Flags().Bool("log-dev", false, "human-readable development logging")

	rootCmd.AddCommand(serveCmd)
}
