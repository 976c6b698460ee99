package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/TG-Note-App/game-be/internal/config"
	"github.com/TG-Note-App/game-be/internal/httpapi"
	"github.com/TG-Note-App/game-be/internal/logx"
	"github.com/TG-Note-App/game-be/internal/player"
	"github.com/TG-Note-App/game-be/internal/snapshot"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}
	logger := logx.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.InitDataScheme == "" {
		log.Warn().Msg("INITDATA_SCHEME not set, init data verification will fail")
	}

	store, closeStore, err := player.OpenStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("opening player store")
	}
	defer func() { _ = closeStore() }()

	var archiver snapshot.Archiver
	if cfg.SnapshotsEnabled() {
		a, err := snapshot.NewMinioArchiver(cfg.Minio)
		if err != nil {
			log.Fatal().Err(err).Msg("initializing MinIO client")
		}
		archiver = a
	}

	srv := httpapi.NewServer(httpapi.Options{
		BotToken:  cfg.BotToken,
		Scheme:    cfg.InitDataScheme,
		MaxAge:    cfg.InitDataMaxAge,
		Store:     store,
		Archiver:  archiver,
		StaticDir: cfg.StaticDir,
		DevMode:   cfg.DevMode,
		Logger:    logger,
	}).HTTPServer(cfg.HTTPAddr)

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Bool("dev_mode", cfg.DevMode).Msg("Server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}
}
