package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Playback PlaybackConfig `koanf:"playback"`
	Probe    ProbeConfig    `koanf:"probe"`
	Engine   EngineConfig   `koanf:"engine"`
	History  HistoryConfig  `koanf:"history"`
	Log      LogConfig      `koanf:"log"`

	// D-Bus integrations (linux only)
	MPRIS  ToggleConfig `koanf:"mpris"`
	Notify ToggleConfig `koanf:"notify"`
}

// PlaybackConfig tunes the playback controller.
type PlaybackConfig struct {
	LoadTimeout     time.Duration `koanf:"load_timeout"`     // wait for Paused after a load (default: 1s)
	RefreshInterval time.Duration `koanf:"refresh_interval"` // slider refresh while playing (default: 100ms)
	SeekStep        time.Duration `koanf:"seek_step"`        // left/right step in the TUI (default: 5s)
}

// ProbeConfig tunes the probe subcommand.
type ProbeConfig struct {
	Timeout time.Duration `koanf:"timeout"` // preroll wait per file (default: 100ms)
}

// EngineConfig selects and configures the pipeline engine.
type EngineConfig struct {
	Backend string `koanf:"backend"` // "mpv" or "mock" (default: "mpv")
	VO      string `koanf:"vo"`      // mpv video output (default: "gpu")
	HWDec   string `koanf:"hwdec"`   // mpv hardware decoding (default: "auto-safe")
}

// HistoryConfig controls the probe/play history database.
type HistoryConfig struct {
	Enabled *bool  `koanf:"enabled"` // default: true
	Path    string `koanf:"path"`    // empty means $XDG_DATA_HOME/scrub/scrub.db
}

// LogConfig controls logging output.
type LogConfig struct {
	Level string `koanf:"level"` // logrus level name (default: "info")
	File  string `koanf:"file"`  // append to this file instead of stderr
	JSON  bool   `koanf:"json"`
}

// ToggleConfig is a section with a single enabled switch.
type ToggleConfig struct {
	Enabled *bool `koanf:"enabled"` // default: true
}

// Engine backends.
const (
	BackendMPV  = "mpv"
	BackendMock = "mock"
)

// Load reads the default config files, then explicit if not empty.
// Later files override earlier ones. An explicit path must exist.
func Load(explicit string) (*Config, error) {
	paths := getConfigPaths()
	if explicit != "" {
		explicit = expandPath(explicit)
		if _, err := os.Stat(explicit); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		paths = append(paths, explicit)
	}
	return loadFrom(paths)
}

func loadFrom(paths []string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.History.Path = expandPath(cfg.History.Path)
	cfg.Log.File = expandPath(cfg.Log.File)
	cfg.Engine.Backend = strings.ToLower(strings.TrimSpace(cfg.Engine.Backend))

	return cfg, nil
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/scrub/config.toml
		filepath.Join(xdg.ConfigHome, "scrub", "config.toml"),
		// 2. ./config.toml (pwd)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetPlaybackConfig returns the playback configuration with defaults applied.
func (c *Config) GetPlaybackConfig() PlaybackConfig {
	cfg := c.Playback
	if cfg.LoadTimeout <= 0 {
		cfg.LoadTimeout = time.Second
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = 100 * time.Millisecond
	}
	if cfg.SeekStep <= 0 {
		cfg.SeekStep = 5 * time.Second
	}
	return cfg
}

// GetProbeConfig returns the probe configuration with defaults applied.
func (c *Config) GetProbeConfig() ProbeConfig {
	cfg := c.Probe
	if cfg.Timeout <= 0 {
		cfg.Timeout = 100 * time.Millisecond
	}
	return cfg
}

// GetEngineConfig returns the engine configuration with defaults applied.
func (c *Config) GetEngineConfig() EngineConfig {
	cfg := c.Engine
	if cfg.Backend == "" {
		cfg.Backend = BackendMPV
	}
	if cfg.VO == "" {
		cfg.VO = "gpu"
	}
	if cfg.HWDec == "" {
		cfg.HWDec = "auto-safe"
	}
	return cfg
}

// GetLogLevel returns the configured log level, "info" if unset.
func (c *Config) GetLogLevel() string {
	if c.Log.Level == "" {
		return "info"
	}
	return c.Log.Level
}

// HistoryEnabled returns true unless history is explicitly disabled.
func (c *Config) HistoryEnabled() bool {
	return enabled(c.History.Enabled)
}

// MPRISEnabled returns true unless MPRIS is explicitly disabled.
func (c *Config) MPRISEnabled() bool {
	return enabled(c.MPRIS.Enabled)
}

// NotifyEnabled returns true unless notifications are explicitly disabled.
func (c *Config) NotifyEnabled() bool {
	return enabled(c.Notify.Enabled)
}

// ValidateBackend reports an unknown engine backend.
func ValidateBackend(backend string) error {
	switch backend {
	case BackendMPV, BackendMock:
		return nil
	default:
		return fmt.Errorf("unknown engine backend %q (want %s or %s)", backend, BackendMPV, BackendMock)
	}
}

func enabled(b *bool) bool {
	return b == nil || *b
}
