package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := newConfig(viper.New())

	assert.Equal(t, int32(8000), cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, 5, cfg.UI.DatasetPageSize)
	assert.Equal(t, int64(DefaultUploadMaxBytes), cfg.Upload.MaxBytes)
	assert.Equal(t, AuthModeNone, cfg.Auth.Mode)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionLifetime)
	assert.Equal(t, "0 3 * * *", cfg.Audit.CleanupSchedule)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.False(t, cfg.Demo.Enabled)
}

func TestNewConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9001")
	t.Setenv("AUTH_MODE", "local")
	t.Setenv("DATASET_PAGE_SIZE", "20")
	t.Setenv("TASK_TIMEOUT", "90s")
	t.Setenv("DEMO_MODE", "true")

	cfg := newConfig(viper.New())

	assert.Equal(t, int32(9001), cfg.HTTP.Port)
	assert.Equal(t, AuthModeLocal, cfg.Auth.Mode)
	assert.Equal(t, 20, cfg.UI.DatasetPageSize)
	assert.Equal(t, 90*time.Second, cfg.Tasks.TaskTimeout)
	assert.True(t, cfg.Demo.Enabled)
}
