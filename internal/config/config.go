package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

type Config struct {
	DiscordToken      string
	ClientID          string
	GuildID           string
	WebhookChannelID  string
	StatusChannelID   string
	Port              string
	WebhookSecret     string
	TasksFile         string
	DashboardFile     string
	DashboardInterval time.Duration
	GinMode           string
	LogLevel          string
}

var ErrMissingToken = errors.New("DISCORD_TOKEN is required")

func Load() (*Config, error) {
	interval, err := time.ParseDuration(getEnv("DASHBOARD_REFRESH_INTERVAL", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid DASHBOARD_REFRESH_INTERVAL: %w", err)
	}

	return &Config{
		DiscordToken:      getEnv("DISCORD_TOKEN", ""),
		ClientID:          getEnv("CLIENT_ID", ""),
		GuildID:           getEnv("GUILD_ID", ""),
		WebhookChannelID:  getEnv("GITHUB_WEBHOOK_CHANNEL_ID", ""),
		StatusChannelID:   getEnv("STATUS_CHANNEL_ID", ""),
		Port:              getEnv("PORT", "3000"),
		WebhookSecret:     getEnv("GITHUB_WEBHOOK_SECRET", ""),
		TasksFile:         getEnv("TASKS_FILE", "./tasks.json"),
		DashboardFile:     getEnv("DASHBOARD_FILE", "./dashboard.json"),
		DashboardInterval: interval,
		GinMode:           getEnv("GIN_MODE", "debug"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}, nil
}

// Validate reports configuration the bot cannot start without
func (c *Config) Validate() error {
	if c.DiscordToken == "" {
		return ErrMissingToken
	}
	return nil
}

// DashboardEnabled reports whether a status channel was configured
func (c *Config) DashboardEnabled() bool {
	return c.StatusChannelID != ""
}

// ListenAddr is the HTTP address for the webhook listener
func (c *Config) ListenAddr() string {
	return ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
