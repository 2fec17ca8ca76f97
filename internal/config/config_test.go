package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/annel0/eventpump/internal/logging"
	"github.com/annel0/eventpump/internal/native"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
queue:
  capacity: 128
  wait_timeout_ms: 25
logging:
  level: debug
  dir: /var/log/eventpump
metrics:
  listen: ":2112"
  refresh_seconds: 5
replay:
  dir: /tmp/replays
  paced: true
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "eventpump.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, 128, cfg.Queue.GetCapacity())
	assert.Equal(t, 25*time.Millisecond, cfg.Queue.GetWaitTimeout())
	assert.Equal(t, logging.DEBUG, cfg.Logging.GetLevel())
	assert.Equal(t, "/var/log/eventpump", cfg.Logging.GetDir())
	assert.Equal(t, ":2112", cfg.Metrics.GetListen())
	assert.Equal(t, 5*time.Second, cfg.Metrics.GetRefresh())
	assert.Equal(t, "/tmp/replays", cfg.Replay.GetDir())
	assert.True(t, cfg.Replay.Paced)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv(EnvConfig, writeConfig(t, "queue:\n  capacity: 7\n"))
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Queue.GetCapacity())
}

func TestDefaults(t *testing.T) {
	t.Setenv(EnvConfig, "")
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, native.DefaultCapacity, cfg.Queue.GetCapacity())
	assert.Equal(t, 100*time.Millisecond, cfg.Queue.GetWaitTimeout())
	assert.Equal(t, logging.INFO, cfg.Logging.GetLevel())
	assert.Equal(t, "logs", cfg.Logging.GetDir())
	assert.Empty(t, cfg.Metrics.GetListen())
	assert.Equal(t, time.Second, cfg.Metrics.GetRefresh())
	assert.Empty(t, cfg.Replay.GetDir())
}

func TestEnvFallbacks(t *testing.T) {
	t.Setenv("EVENTPUMP_QUEUE_CAPACITY", "64")
	t.Setenv("EVENTPUMP_LOG_LEVEL", "warn")
	t.Setenv("EVENTPUMP_WAIT_TIMEOUT_MS", "not-a-number")

	var cfg Config
	assert.Equal(t, 64, cfg.Queue.GetCapacity())
	assert.Equal(t, logging.WARN, cfg.Logging.GetLevel())
	assert.Equal(t, 100*time.Millisecond, cfg.Queue.GetWaitTimeout())

	cfg.Queue.Capacity = 3
	assert.Equal(t, 3, cfg.Queue.GetCapacity(), "значение из файла важнее окружения")
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "queue: [unterminated"))
	assert.Error(t, err)

	t.Setenv("EVENTPUMP_LOG_LEVEL", "")
	cfg, err := Load(writeConfig(t, "logging:\n  level: loud\n"))
	require.NoError(t, err)
	assert.Equal(t, logging.INFO, cfg.Logging.GetLevel())
}
