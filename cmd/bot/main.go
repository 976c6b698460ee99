package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/TG-Note-App/game-be/internal/bot"
	"github.com/TG-Note-App/game-be/internal/config"
	"github.com/TG-Note-App/game-be/internal/logx"
	"github.com/TG-Note-App/game-be/internal/player"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}
	logx.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := player.OpenStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("opening player store")
	}
	defer func() { _ = closeStore() }()

	cmds := bot.NewCommands(store, cfg.AllowedAdmins, cfg.GameURL)
	if err := bot.New(cfg.BotToken, cmds).Run(ctx); err != nil {
		log.Error().Err(err).Msg("telegram bot")
	}
}
