package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// PCloudConfig holds the remote store credentials and base folder.
type PCloudConfig struct {
	Email      string `env:"PCLOUD_EMAIL" env-required:"true"`
	Password   string `env:"PCLOUD_PASSWORD" env-required:"true"`
	BaseFolder string `env:"PCLOUD_BASE_FOLDER" env-required:"true"`
}

// Config is the immutable application configuration, constructed once at
// startup and passed by reference. An empty allow-list permits everyone.
type Config struct {
	BotToken              string  `env:"TELEGRAM_BOT_TOKEN" env-required:"true"`
	PCloud                PCloudConfig
	AllowedUserIDs        []int64 `env:"ALLOWED_USER_IDS"`
	TempDir               string  `env:"TEMP_DIR" env-default:"/tmp/ytbtomp3"`
	CleanupOlderThanHours int     `env:"CLEANUP_OLDER_THAN" env-default:"24"`
	FFmpegPath            string  `env:"FFMPEG_PATH" env-default:"/usr/bin/ffmpeg"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return &cfg, nil
}

// IsAllowed reports whether the user may use the bot.
func (c *Config) IsAllowed(userID int64) bool {
	if len(c.AllowedUserIDs) == 0 {
		return true
	}
	for _, id := range c.AllowedUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// CleanupMaxAge returns the age threshold for temp file cleanup.
func (c *Config) CleanupMaxAge() time.Duration {
	return time.Duration(c.CleanupOlderThanHours) * time.Hour
}
