package app

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskbot/internal/config"
)

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(&config.Config{LogLevel: "debug", GinMode: "release"})
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	logger, err = NewLogger(&config.Config{LogLevel: "info", GinMode: "debug"})
	require.NoError(t, err)
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)

	_, err = NewLogger(&config.Config{LogLevel: "loud"})
	assert.Error(t, err)
}
