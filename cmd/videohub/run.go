package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/honkitamc/videohub/internal/storage/blob"
	pg "github.com/honkitamc/videohub/internal/storage/postgres"
	"github.com/honkitamc/videohub/internal/video/captcha"
	"github.com/honkitamc/videohub/internal/video/httpapi"
	"github.com/honkitamc/videohub/internal/video/service"
	"github.com/honkitamc/videohub/internal/video/settings"
)

func run(ctx context.Context) error {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return fmt.Errorf("DATABASE_URL is empty")
	}

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8081"
	}

	dataDir := os.Getenv("VIDEO_DATA_DIR")
	if dataDir == "" {
		dataDir = "data/videos"
	}

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	db, err := pg.Connect(ctx, dsn)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer db.Close()

	// Dependencies
	outboxRepo := pg.NewOutboxRepo(db)
	videoRepo := pg.NewVideoRepo(db, outboxRepo)
	likeRepo := pg.NewLikeRepo(db)
	settingsRepo := pg.NewSettingsRepo(db)

	svc, err := service.New(service.Config{
		Videos:   videoRepo,
		Likes:    likeRepo,
		Settings: settings.NewLoader(settingsRepo),
		Blobs:    blob.NewFSStore(dataDir),
		Captcha:  captcha.NewVerifier(logger),
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("build service: %w", err)
	}

	h := httpapi.New(svc, logger)
	router := httpapi.NewRouter(h)

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		if err := srv.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil

	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen and serve: %w", err)
	}
}
