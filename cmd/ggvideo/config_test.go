package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/gg-video/convert"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(NewFlagSet(), []string{"--uri", "file:///tmp/a.mp4"})
	require.NoError(t, err)

	assert.Equal(t, "file:///tmp/a.mp4", cfg.URI)
	assert.Equal(t, 1, cfg.Playback.Workers)
	assert.Equal(t, 16*time.Millisecond, cfg.Playback.PollInterval)
	assert.Equal(t, 5*time.Second, cfg.Playback.OpenTimeout)
	assert.Equal(t, 3, cfg.Playback.MaxBuffers)
	assert.Equal(t, "contain", cfg.Snapshot.Fit)
	assert.Equal(t, 30, cfg.Snapshot.Every)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "stderr", cfg.Logging.Output)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)

	rng, err := cfg.Playback.Range()
	require.NoError(t, err)
	assert.Equal(t, convert.LimitedRange, rng)
}

func TestLoadPositionalURI(t *testing.T) {
	cfg, err := Load(NewFlagSet(), []string{"file:///tmp/b.mkv"})
	require.NoError(t, err)
	assert.Equal(t, "file:///tmp/b.mkv", cfg.URI)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ggvideo.yaml")
	content := `
uri: file:///media/clip.mp4
playback:
  workers: 4
  poll_interval: 10ms
  color_range: full
  subtitles: true
snapshot:
  dir: /tmp/snaps
  every: 5
  width: 320
  fit: cover
logging:
  level: debug
  format: json
metrics:
  enabled: true
  addr: 127.0.0.1:9100
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(NewFlagSet(), []string{"-c", path})
	require.NoError(t, err)

	assert.Equal(t, "file:///media/clip.mp4", cfg.URI)
	assert.Equal(t, 4, cfg.Playback.Workers)
	assert.Equal(t, 10*time.Millisecond, cfg.Playback.PollInterval)
	assert.True(t, cfg.Playback.Subtitles)
	assert.Equal(t, "/tmp/snaps", cfg.Snapshot.Dir)
	assert.Equal(t, 5, cfg.Snapshot.Every)
	assert.Equal(t, 320, cfg.Snapshot.Width)
	assert.Equal(t, "cover", cfg.Snapshot.Fit)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "127.0.0.1:9100", cfg.Metrics.Addr)

	rng, err := cfg.Playback.Range()
	require.NoError(t, err)
	assert.Equal(t, convert.FullRange, rng)
}

func TestLoadPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ggvideo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("uri: file:///a\nplayback:\n  workers: 2\nlogging:\n  level: warn\n"), 0o644))

	t.Setenv("GGVIDEO_PLAYBACK_WORKERS", "6")
	t.Setenv("GGVIDEO_LOGGING_LEVEL", "error")

	cfg, err := Load(NewFlagSet(), []string{"-c", path, "--log-level", "debug"})
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.Playback.Workers, "env overrides file")
	assert.Equal(t, "debug", cfg.Logging.Level, "flag overrides env")
}

func TestConfigValidation(t *testing.T) {
	valid := func() Config {
		return Config{
			URI: "file:///a",
			Playback: PlaybackConfig{
				Workers:      1,
				PollInterval: 16 * time.Millisecond,
				ColorRange:   "limited",
			},
			Snapshot: SnapshotConfig{Every: 1, Fit: "contain"},
			Logging:  LoggingConfig{Level: "info", Format: "text"},
			Metrics:  MetricsConfig{Addr: ":9090", Path: "/metrics"},
		}
	}

	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing uri", func(c *Config) { c.URI = "" }, "uri is required"},
		{"negative workers", func(c *Config) { c.Playback.Workers = -1 }, "playback.workers"},
		{"zero poll interval", func(c *Config) { c.Playback.PollInterval = 0 }, "playback.poll_interval"},
		{"bad range", func(c *Config) { c.Playback.ColorRange = "studio" }, "playback.color_range"},
		{"snapshot every", func(c *Config) { c.Snapshot.Dir = "/tmp"; c.Snapshot.Every = 0 }, "snapshot.every"},
		{"snapshot size", func(c *Config) { c.Snapshot.Height = -4 }, "snapshot size"},
		{"bad fit", func(c *Config) { c.Snapshot.Fit = "stretch" }, "snapshot.fit"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "invalid log level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"metrics addr", func(c *Config) { c.Metrics.Enabled = true; c.Metrics.Addr = "" }, "metrics.addr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadInvalid(t *testing.T) {
	_, err := Load(NewFlagSet(), []string{"--uri", "file:///a", "--color-range", "studio"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")

	_, err = Load(NewFlagSet(), []string{"-c", "/nonexistent/ggvideo.yaml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")
}
