// Package config loads runtime settings from defaults, an optional TOML file,
// LOOM_* environment variables and command line flags, in increasing precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/loom/errors"
	"github.com/lixenwraith/loom/input"
	"github.com/lixenwraith/loom/terminal"
)

const (
	EnvPrefix  = "LOOM"
	AppDir     = "loom"
	ConfigFile = "config.toml"

	DefaultFrameInterval = 500 * time.Microsecond
	DefaultQueueSize     = 2048

	maxFrameInterval = time.Second
	maxQueueSize     = 1 << 20
)

// Backends
const (
	BackendANSI  = "ansi"
	BackendTcell = "tcell"
)

// Config is the effective runtime configuration
type Config struct {
	FrameInterval time.Duration     `mapstructure:"frame_interval"`
	QueueSize     int               `mapstructure:"queue_size"`
	ColorMode     string            `mapstructure:"color_mode"`
	Backend       string            `mapstructure:"backend"`
	Mouse         bool              `mapstructure:"mouse"`
	Debug         bool              `mapstructure:"debug"`
	LogFile       string            `mapstructure:"log_file"`
	Keymap        map[string]string `mapstructure:"keymap"`

	// Path of the file the values were read from, empty for none
	Source string `mapstructure:"-"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		FrameInterval: DefaultFrameInterval,
		QueueSize:     DefaultQueueSize,
		ColorMode:     "auto",
		Backend:       BackendANSI,
		Mouse:         true,
		Keymap:        map[string]string{},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("frame_interval", d.FrameInterval)
	v.SetDefault("queue_size", d.QueueSize)
	v.SetDefault("color_mode", d.ColorMode)
	v.SetDefault("backend", d.Backend)
	v.SetDefault("mouse", d.Mouse)
	v.SetDefault("debug", d.Debug)
	v.SetDefault("log_file", d.LogFile)
}

// flagKeys maps command line flag names to config keys
var flagKeys = map[string]string{
	"frame-interval": "frame_interval",
	"queue-size":     "queue_size",
	"color":          "color_mode",
	"backend":        "backend",
	"mouse":          "mouse",
	"debug":          "debug",
	"log-file":       "log_file",
}

// BindFlags declares the flags Load understands on fs
func BindFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.Duration("frame-interval", d.FrameInterval, "animation tick interval")
	fs.Int("queue-size", d.QueueSize, "capacity of the background event queue")
	fs.String("color", d.ColorMode, "color mode: auto, 256, truecolor")
	fs.String("backend", d.Backend, "terminal backend: ansi, tcell")
	fs.Bool("mouse", d.Mouse, "enable mouse reporting")
	fs.Bool("debug", d.Debug, "write debug log")
	fs.String("log-file", d.LogFile, "debug log path (default logs/loom.log)")
}

// Find returns the config file to read: explicit when set (it must exist),
// otherwise the user config file when present, otherwise ""
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", errors.Wrap(err, "config.find", errors.KindConfig)
		}
		return explicit, nil
	}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", nil
		}
		dir = filepath.Join(home, ".config")
	}
	path := filepath.Join(dir, AppDir, ConfigFile)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	return "", nil
}

// Load resolves the configuration
// path is the --config value; fs may be nil when no flags were parsed
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	file, err := Find(path)
	if err != nil {
		return nil, err
	}
	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, "config.read", errors.KindConfig)
		}
	}

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.Wrap(err, "config.flags", errors.KindConfig)
				}
			}
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "config.decode", errors.KindConfig)
	}
	if cfg.Keymap == nil {
		cfg.Keymap = map[string]string{}
	}
	cfg.Source = file

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid field
func (c *Config) Validate() error {
	if c.FrameInterval <= 0 || c.FrameInterval > maxFrameInterval {
		return errors.New("config.validate", errors.KindConfig,
			"frame_interval %s out of range (0, %s]", c.FrameInterval, maxFrameInterval)
	}
	if c.QueueSize <= 0 || c.QueueSize > maxQueueSize {
		return errors.New("config.validate", errors.KindConfig,
			"queue_size %d out of range [1, %d]", c.QueueSize, maxQueueSize)
	}
	switch strings.ToLower(c.ColorMode) {
	case "auto", "256", "truecolor", "24bit":
	default:
		return errors.New("config.validate", errors.KindConfig,
			"color_mode %q: want auto, 256 or truecolor", c.ColorMode)
	}
	switch c.Backend {
	case BackendANSI, BackendTcell:
	default:
		return errors.New("config.validate", errors.KindConfig,
			"backend %q: want %s or %s", c.Backend, BackendANSI, BackendTcell)
	}
	if _, err := input.Resolve(c.Keymap); err != nil {
		return errors.Wrap(err, "config.validate", errors.KindConfig)
	}
	return nil
}

// Colors resolves the color mode, probing the terminal for "auto"
func (c *Config) Colors() terminal.ColorMode {
	m, err := terminal.ParseColorMode(c.ColorMode)
	if err != nil {
		return terminal.DetectColorMode()
	}
	return m
}

// Keys returns the default keymap with the configured overrides applied
func (c *Config) Keys() (input.Keymap, error) {
	km, err := input.Resolve(c.Keymap)
	if err != nil {
		return nil, errors.Wrap(err, "config.keymap", errors.KindConfig)
	}
	return km, nil
}

// dump is the printable form; durations read as "500µs" rather than nanoseconds
type dump struct {
	Source        string            `yaml:"source,omitempty"`
	FrameInterval string            `yaml:"frame_interval"`
	QueueSize     int               `yaml:"queue_size"`
	ColorMode     string            `yaml:"color_mode"`
	Backend       string            `yaml:"backend"`
	Mouse         bool              `yaml:"mouse"`
	Debug         bool              `yaml:"debug"`
	LogFile       string            `yaml:"log_file,omitempty"`
	Keymap        map[string]string `yaml:"keymap"`
}

// Dump renders the configuration as YAML with the effective keymap
func (c *Config) Dump() ([]byte, error) {
	km, err := c.Keys()
	if err != nil {
		return nil, err
	}
	keys := make(map[string]string, len(km))
	for _, action := range km.Actions() {
		rc, _ := km.Get(action)
		keys[action] = input.FormatPattern(rc)
	}
	b, err := yaml.Marshal(dump{
		Source:        c.Source,
		FrameInterval: c.FrameInterval.String(),
		QueueSize:     c.QueueSize,
		ColorMode:     c.ColorMode,
		Backend:       c.Backend,
		Mouse:         c.Mouse,
		Debug:         c.Debug,
		LogFile:       c.LogFile,
		Keymap:        keys,
	})
	if err != nil {
		return nil, errors.Wrap(err, "config.dump", errors.KindConfig)
	}
	return b, nil
}

func (c *Config) String() string {
	return fmt.Sprintf("frame=%s queue=%d color=%s backend=%s mouse=%t",
		c.FrameInterval, c.QueueSize, c.ColorMode, c.Backend, c.Mouse)
}
