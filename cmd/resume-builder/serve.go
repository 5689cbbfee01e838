// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/resume-builder/internal/auth"
	"github.com/pdiddy/resume-builder/internal/convert"
	"github.com/pdiddy/resume-builder/internal/extract"
	"github.com/pdiddy/resume-builder/internal/normalize"
	"github.com/pdiddy/resume-builder/internal/server"
	"github.com/pdiddy/resume-builder/internal/store"
	"github.com/pdiddy/resume-builder/internal/workspace"
	"github.com/pdiddy/resume-builder/pkg/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the resume-builder HTTP server",
	Long: `Serve starts the API server. Configuration comes from the config file and
RESUME_BUILDER_* environment variables; the JWT signing secret comes from
auth.jwt_secret or .secrets/jwt-secret.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides config)")

	rootCmd.AddCommand(serveCmd)
}

// loadConfig assembles the typed configuration from viper.
func loadConfig() types.AppConfig {
	cfg := types.AppConfig{
		Server: types.ServerConfig{
			Addr:            viper.GetString("server.addr"),
			ClientURL:       viper.GetString("server.client_url"),
			ShutdownTimeout: viper.GetDuration("server.shutdown_timeout"),
		},
		Auth: types.AuthConfig{
			JWTSecret: viper.GetString("auth.jwt_secret"),
			TokenTTL:  viper.GetDuration("auth.token_ttl"),
		},
		Storage: types.StorageConfig{
			Path: viper.GetString("storage.path"),
		},
		Convert: types.ConvertConfig{
			WorkDir:        viper.GetString("convert.work_dir"),
			MaxUploadBytes: viper.GetInt64("convert.max_upload_bytes"),
			Timeout:        viper.GetDuration("convert.timeout"),
		},
	}
	return cfg.WithDefaults()
}

func runServe(cmd *cobra.Command) error {
	cfg := loadConfig()
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	secret := secretDefault("jwt-secret", cfg.Auth.JWTSecret)
	if secret == "" {
		return fmt.Errorf("jwt secret not configured: set auth.jwt_secret or .secrets/jwt-secret")
	}

	st, err := store.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	// A missing converter is not fatal: .docx uploads still work, only
	// legacy .doc conversion is unavailable.
	var normalizer convert.Normalizer
	if lo, err := normalize.Detect(cfg.Convert.Timeout); err != nil {
		log.Printf("serve: %v; .doc conversion disabled", err)
	} else {
		log.Printf("serve: using %s for .doc conversion", lo.Bin())
		normalizer = lo
	}

	pipeline := convert.New(
		workspace.NewManager(cfg.Convert.WorkDir),
		normalizer,
		extract.Text,
		cfg.Convert.MaxUploadBytes,
	)

	srv := server.New(st, auth.NewService(secret, cfg.Auth.TokenTTL), pipeline,
		cfg.Server.ClientURL, cfg.Convert.MaxUploadBytes)

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Handler(),
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("serve: listening on %s", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
