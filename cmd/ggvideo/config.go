package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/gogpu/gg-video/convert"
	"github.com/gogpu/gg-video/layout"
)

// Config is the ggvideo command configuration.
type Config struct {
	URI      string         `mapstructure:"uri"`
	Playback PlaybackConfig `mapstructure:"playback"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type PlaybackConfig struct {
	Workers      int           `mapstructure:"workers"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	ColorRange   string        `mapstructure:"color_range"` // limited or full
	Subtitles    bool          `mapstructure:"subtitles"`
	MaxBuffers   int           `mapstructure:"max_buffers"`
	OpenTimeout  time.Duration `mapstructure:"open_timeout"`
}

type SnapshotConfig struct {
	Dir    string `mapstructure:"dir"`    // empty disables snapshots
	Every  int    `mapstructure:"every"`  // frames between snapshots
	Width  int    `mapstructure:"width"`  // 0 keeps the natural width
	Height int    `mapstructure:"height"` // 0 follows the aspect ratio
	Fit    string `mapstructure:"fit"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`   // json or text
	Output     string `mapstructure:"output"`   // stdout, stderr, or file path
	MaxSize    int    `mapstructure:"max_size"` // MB
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
	Path    string `mapstructure:"path"`
}

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"uri":             "uri",
	"workers":         "playback.workers",
	"color-range":     "playback.color_range",
	"subtitles":       "playback.subtitles",
	"snapshot-dir":    "snapshot.dir",
	"snapshot-every":  "snapshot.every",
	"snapshot-width":  "snapshot.width",
	"snapshot-height": "snapshot.height",
	"log-level":       "logging.level",
	"log-format":      "logging.format",
	"log-output":      "logging.output",
	"metrics":         "metrics.enabled",
	"metrics-addr":    "metrics.addr",
}

// NewFlagSet returns the command line flags.
func NewFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("ggvideo", pflag.ContinueOnError)
	fs.StringP("config", "c", "", "YAML configuration file")
	fs.StringP("uri", "u", "", "media URI to play (file:///..., https://...)")
	fs.Int("workers", 0, "conversion goroutines (0 = one)")
	fs.String("color-range", "", "video quantisation range: limited or full")
	fs.Bool("subtitles", false, "extract subtitle text")
	fs.String("snapshot-dir", "", "write PNG snapshots to this directory")
	fs.Int("snapshot-every", 0, "frames between snapshots")
	fs.Int("snapshot-width", 0, "snapshot width in pixels (0 = natural)")
	fs.Int("snapshot-height", 0, "snapshot height in pixels (0 = keep aspect ratio)")
	fs.String("log-level", "", "log level: debug, info, warn, error")
	fs.String("log-format", "", "log format: json or text")
	fs.String("log-output", "", "stdout, stderr, or a file path")
	fs.Bool("metrics", false, "serve Prometheus metrics")
	fs.String("metrics-addr", "", "metrics listen address")
	return fs
}

// Load reads the configuration from defaults, an optional YAML file,
// GGVIDEO_* environment variables and flags, in increasing precedence.
func Load(fs *pflag.FlagSet, args []string) (*Config, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("GGVIDEO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	for name, key := range flagKeys {
		if f := fs.Lookup(name); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}
	if path, _ := fs.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	if v.GetString("uri") == "" && fs.NArg() > 0 {
		v.Set("uri", fs.Arg(0))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("uri", "")

	v.SetDefault("playback.workers", 1)
	v.SetDefault("playback.poll_interval", "16ms")
	v.SetDefault("playback.color_range", "limited")
	v.SetDefault("playback.subtitles", false)
	v.SetDefault("playback.max_buffers", 3)
	v.SetDefault("playback.open_timeout", "5s")

	v.SetDefault("snapshot.dir", "")
	v.SetDefault("snapshot.every", 30)
	v.SetDefault("snapshot.width", 0)
	v.SetDefault("snapshot.height", 0)
	v.SetDefault("snapshot.fit", "contain")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stderr")
	v.SetDefault("logging.max_size", 100)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age", 30)

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", ":9090")
	v.SetDefault("metrics.path", "/metrics")
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	var errs []error
	if c.URI == "" {
		errs = append(errs, errors.New("uri is required"))
	}
	if c.Playback.Workers < 0 {
		errs = append(errs, fmt.Errorf("playback.workers must be >= 0, got %d", c.Playback.Workers))
	}
	if c.Playback.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("playback.poll_interval must be positive, got %s", c.Playback.PollInterval))
	}
	if _, err := c.Playback.Range(); err != nil {
		errs = append(errs, err)
	}
	if c.Snapshot.Dir != "" && c.Snapshot.Every <= 0 {
		errs = append(errs, fmt.Errorf("snapshot.every must be positive, got %d", c.Snapshot.Every))
	}
	if c.Snapshot.Width < 0 || c.Snapshot.Height < 0 {
		errs = append(errs, fmt.Errorf("snapshot size must be >= 0, got %dx%d", c.Snapshot.Width, c.Snapshot.Height))
	}
	if _, ok := layout.ParseContentFit(c.Snapshot.Fit); !ok {
		errs = append(errs, fmt.Errorf("snapshot.fit: unknown content fit %q", c.Snapshot.Fit))
	}
	if _, err := parseLevel(c.Logging.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		errs = append(errs, fmt.Errorf("logging.format must be json or text, got %q", c.Logging.Format))
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		errs = append(errs, errors.New("metrics.addr is required when metrics are enabled"))
	}
	return errors.Join(errs...)
}

// Range returns the configured quantisation range.
func (p PlaybackConfig) Range() (convert.Range, error) {
	switch strings.ToLower(p.ColorRange) {
	case "limited", "tv", "":
		return convert.LimitedRange, nil
	case "full", "pc":
		return convert.FullRange, nil
	default:
		return 0, fmt.Errorf("playback.color_range must be limited or full, got %q", p.ColorRange)
	}
}
