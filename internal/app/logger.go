package app

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/taskbot/internal/config"
)

// NewLogger builds the process logger: JSON in release mode, text otherwise
func NewLogger(cfg *config.Config) (*logrus.Logger, error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	logger.SetLevel(level)

	if cfg.GinMode == gin.ReleaseMode {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger, nil
}

// BridgeDiscordLogs routes discordgo's internal logging through logger
func BridgeDiscordLogs(logger logrus.FieldLogger) {
	entry := logger.WithField("component", "discordgo")
	discordgo.Logger = func(msgL, caller int, format string, a ...interface{}) {
		msg := fmt.Sprintf(format, a...)
		switch msgL {
		case discordgo.LogError:
			entry.Error(msg)
		case discordgo.LogWarning:
			entry.Warn(msg)
		case discordgo.LogInformational:
			entry.Info(msg)
		default:
			entry.Debug(msg)
		}
	}
}
