package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 10000, cfg.PoolSize)
	assert.Equal(t, 10000, cfg.Capacity)
	assert.Equal(t, 10, cfg.Batches)
	assert.Equal(t, 3, cfg.BatchSize)
	assert.Equal(t, 100*time.Millisecond, cfg.BatchInterval)
	assert.Equal(t, 1100*time.Millisecond, cfg.StopGrace)
	assert.EqualValues(t, 10_000, cfg.SpinLimit)
	assert.EqualValues(t, 100_000, cfg.YieldLimit)
	assert.Equal(t, 10*time.Microsecond, cfg.SleepBase)
	assert.Equal(t, 100*time.Microsecond, cfg.SleepMax)
}

func TestLoadUsesDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("TICKPIPE_BATCHES", "5")
	t.Setenv("TICKPIPE_BATCH_INTERVAL", "5ms")
	t.Setenv("TICKPIPE_LOG_PATH", "/tmp/t.log")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Batches)
	assert.Equal(t, 5*time.Millisecond, cfg.BatchInterval)
	assert.Equal(t, "/tmp/t.log", cfg.LogPath)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv("TICKPIPE_POOL_SIZE", "lots")

	_, err := Load()
	assert.Error(t, err)
}
