package bot

import (
	"errors"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/sglre6355/giveawaybot/internal/storage"
)

// Config holds the bot configuration loaded from environment variables.
type Config struct {
	DiscordToken string   `env:"DISCORD_TOKEN,notEmpty"`
	DevUserIDs   []string `env:"DEV_USER_IDS"   envSeparator:","`
	TestGuildID  string   `env:"TEST_GUILD_ID"`
	LogLevel     string   `env:"LOG_LEVEL"      envDefault:"info"`

	DisabledModules []string `env:"DISABLED_MODULES" envSeparator:","`

	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"sqlite"`
	DatabasePath   string `env:"DATABASE_PATH"   envDefault:"./data/giveawaybot.db"`
	RedisAddr      string `env:"REDIS_ADDR"`
	RedisPassword  string `env:"REDIS_PASSWORD"`
	RedisDB        int    `env:"REDIS_DB"        envDefault:"0"`
}

// LoadConfig loads configuration from a .env file, if present, and environment variables.
// Variables already set in the environment take precedence over the file.
// Returns an error if required fields are missing.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SlogLevel returns the configured log level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// StorageConfig returns the storage settings.
func (c *Config) StorageConfig() storage.Config {
	return storage.Config{
		Kind:          storage.Kind(strings.ToLower(c.StorageBackend)),
		DatabasePath:  c.DatabasePath,
		RedisAddr:     c.RedisAddr,
		RedisPassword: c.RedisPassword,
		RedisDB:       c.RedisDB,
	}
}
