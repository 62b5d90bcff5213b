package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/djantao/agentAI/internal/bootstrap"
	"github.com/djantao/agentAI/internal/config"
	"github.com/djantao/agentAI/internal/proxy"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:           "agentai-proxy",
		Short:         "Credential relay for the generation and sync services",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file path")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	app := bootstrap.New()

	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("loader.Load() > %w", err)
	}

	server := proxy.NewServer(proxy.Config{
		NotionAPIKey:   cfg.Notion.APIKey,
		AllowedOrigins: cfg.Proxy.AllowedOrigins,
	}, nil)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Proxy.Port),
		Handler: h2c.NewHandler(server.Handler(), &http2.Server{}),
	}
	app.OnShutdown(srv.Shutdown)

	return app.Run(ctx, func(ctx context.Context) error {
		slog.Info("proxy server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
}
