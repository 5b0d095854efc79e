package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"DISCORD_TOKEN", "CLIENT_ID", "GUILD_ID", "GITHUB_WEBHOOK_CHANNEL_ID", "STATUS_CHANNEL_ID",
		"PORT", "GITHUB_WEBHOOK_SECRET", "TASKS_FILE", "DASHBOARD_FILE", "DASHBOARD_REFRESH_INTERVAL",
		"GIN_MODE", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, ":3000", cfg.ListenAddr())
	assert.Equal(t, "./tasks.json", cfg.TasksFile)
	assert.Equal(t, "./dashboard.json", cfg.DashboardFile)
	assert.Equal(t, 60*time.Second, cfg.DashboardInterval)
	assert.False(t, cfg.DashboardEnabled())
	assert.ErrorIs(t, cfg.Validate(), ErrMissingToken)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("STATUS_CHANNEL_ID", "42")
	t.Setenv("PORT", "8081")
	t.Setenv("DASHBOARD_REFRESH_INTERVAL", "5m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.NoError(t, cfg.Validate())
	assert.True(t, cfg.DashboardEnabled())
	assert.Equal(t, ":8081", cfg.ListenAddr())
	assert.Equal(t, 5*time.Minute, cfg.DashboardInterval)
}

func TestLoad_InvalidInterval(t *testing.T) {
	t.Setenv("DASHBOARD_REFRESH_INTERVAL", "soon")

	_, err := Load()
	assert.Error(t, err)
}
