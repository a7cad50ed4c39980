package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hyperjump/brainboard/internal/mcp"
	"github.com/hyperjump/brainboard/internal/server"
	"github.com/hyperjump/brainboard/internal/watcher"
)

func newServerCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "server",
		Short:       "Start the HTTP API server",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"long-running": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.config
			logger := opts.logger
			if host, _ := cmd.Flags().GetString("host"); host != "" {
				cfg.Server.Host = host
			}
			if port, _ := cmd.Flags().GetInt("port"); port != 0 {
				cfg.Server.Port = port
			}

			ctx := cmd.Context()
			components, err := initializeComponents(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer components.Close()

			if cfg.Lexicon.Dir != "" && cfg.Lexicon.Watch {
				w, err := watcher.WatchLexicons(ctx, cfg.Lexicon.Dir, components.Lexicons, logger)
				if err != nil {
					return err
				}
				defer w.Stop()
				logger.Info("Watching lexicon packs", zap.Strings("dirs", w.Directories()))
			}

			srv := server.NewServer(components.Service, string(components.Service.Mode()), &cfg.Server, components.Metrics, logger)
			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("Shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Stop(shutdownCtx); err != nil {
				logger.Warn("shutdown failed", zap.Error(err))
			}
			return nil
		},
	}
	cmd.Flags().String("host", "", "listen host (overrides server.host)")
	cmd.Flags().Int("port", 0, "listen port (overrides server.port)")
	return cmd
}

func newMCPCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:         "mcp",
		Short:       "Serve the analysis tools over MCP stdio",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"long-running": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			components, err := initializeComponents(cmd.Context(), opts.config, opts.logger)
			if err != nil {
				return err
			}
			defer components.Close()
			return mcp.Run(components.Service, version, opts.logger)
		},
	}
}
