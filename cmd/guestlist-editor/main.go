// Command guestlist-editor serves the guest-list editing API.
//
// @title Guest List Editor API
// @version 1.0
// @description Stages guest and group edits for an event and commits them to the guest-list storage service in one batch.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"guestlisteditor/config"
	"guestlisteditor/internal/adapters/auth"
	"guestlisteditor/internal/adapters/guestlist"
	"guestlisteditor/internal/adapters/review"
	deliveryhttp "guestlisteditor/internal/delivery/http"
	"guestlisteditor/internal/delivery/http/controllers"
	"guestlisteditor/internal/domain"
	"guestlisteditor/internal/repository/postgres"
	"guestlisteditor/internal/services"
)

const shutdownTimeout = 15 * time.Second

func main() {
	root := &cobra.Command{
		Use:          "guestlist-editor",
		Short:        "Guest-list editing service",
		SilenceUsage: true,
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, config.NewLogger())
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create the draft table in DATABASE_URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.DBUrl == "" {
				return errors.New("DATABASE_URL is required")
			}
			db, err := openDB(cmd.Context(), cfg.DBUrl)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := postgres.EnsureSchema(cmd.Context(), db); err != nil {
				return err
			}
			config.NewLogger().Info("schema is up to date")
			return nil
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func openDB(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	var drafts domain.DraftRepository
	if cfg.DBUrl != "" {
		db, err := openDB(ctx, cfg.DBUrl)
		if err != nil {
			return err
		}
		defer db.Close()
		drafts = postgres.NewDraftRepository(db)
	} else {
		logger.Warn("DATABASE_URL not set, drafts are not persisted")
	}
	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET not set, token signatures are not verified")
	}

	client := guestlist.NewHTTPClient(cfg.StorageBaseURL, &http.Client{Timeout: cfg.StorageTimeout})
	svc := services.NewEditSessionService(client, drafts, review.NewTemplateRenderer(), logger, cfg.SessionIdleTTL, cfg.StorageTimeout)
	mux := deliveryhttp.NewRouter(controllers.NewSessionController(logger, svc), auth.NewJWTVerifier(cfg.JWTSecret), logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           deliveryhttp.NewHandler(mux, cfg.CORSAllowedOrigins, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment, "storage", cfg.StorageBaseURL)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
