// Package config loads settings from the environment and an optional .env file.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/TG-Note-App/game-be/internal/initdata"
	"github.com/TG-Note-App/game-be/internal/snapshot"
)

type Config struct {
	HTTPAddr  string
	StaticDir string
	DevMode   bool

	BotToken       string
	InitDataScheme initdata.Scheme
	InitDataMaxAge time.Duration
	AllowedAdmins  []int64
	GameURL        string

	DatabaseURL string
	Minio       snapshot.Config

	LogLevel  string
	LogFormat string
}

// SnapshotsEnabled reports whether object storage is configured.
func (c *Config) SnapshotsEnabled() bool { return c.Minio.Endpoint != "" }

// Load reads .env files (missing files are ignored) and then the process
// environment, which takes precedence. An empty INITDATA_SCHEME is kept
// empty: there is no default scheme.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// godotenv never overrides variables already set in the environment.
		_ = godotenv.Load(f)
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":5000")
	v.SetDefault("INITDATA_MAX_AGE", "24h")
	v.SetDefault("GAME_URL", "https://gameapp-aehzeq.manus.space")
	v.SetDefault("MINIO_BUCKET", "player-snapshots")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("DEV_MODE", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	cfg := &Config{
		HTTPAddr:    v.GetString("HTTP_ADDR"),
		StaticDir:   v.GetString("STATIC_DIR"),
		DevMode:     v.GetBool("DEV_MODE"),
		BotToken:    v.GetString("TELEGRAM_BOT_TOKEN"),
		GameURL:     v.GetString("GAME_URL"),
		DatabaseURL: v.GetString("DATABASE_URL"),
		Minio: snapshot.Config{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: v.GetString("MINIO_SECRET_KEY"),
			Bucket:    v.GetString("MINIO_BUCKET"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
		},
		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),
	}

	if raw := v.GetString("INITDATA_SCHEME"); raw != "" {
		scheme, err := initdata.ParseScheme(raw)
		if err != nil {
			return nil, fmt.Errorf("INITDATA_SCHEME: %w", err)
		}
		cfg.InitDataScheme = scheme
	}

	maxAge, err := time.ParseDuration(v.GetString("INITDATA_MAX_AGE"))
	if err != nil || maxAge < 0 {
		return nil, fmt.Errorf("INITDATA_MAX_AGE: invalid duration %q", v.GetString("INITDATA_MAX_AGE"))
	}
	cfg.InitDataMaxAge = maxAge

	admins, err := parseIDs(v.GetString("TELEGRAM_ALLOWED_ADMINS"))
	if err != nil {
		return nil, fmt.Errorf("TELEGRAM_ALLOWED_ADMINS: %w", err)
	}
	cfg.AllowedAdmins = admins

	return cfg, nil
}

func parseIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid user id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
