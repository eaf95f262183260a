// Package config loads settings from defaults, a global and a project YAML
// file, and TASKS_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	dirName  = ".tasks"
	fileName = "config.yaml"
	envPref  = "TASKS"
)

// Config is the full set of settings.
type Config struct {
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	UI      UIConfig      `mapstructure:"ui" yaml:"ui"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// StorageConfig selects and locates the persistence backend.
type StorageConfig struct {
	Driver string `mapstructure:"driver" yaml:"driver"` // json | sqlite | mysql | postgres | memory
	Path   string `mapstructure:"path" yaml:"path"`     // json: directory, sqlite: db file
	DSN    string `mapstructure:"dsn" yaml:"dsn"`       // mysql / postgres
	Key    string `mapstructure:"key" yaml:"key"`
}

// UIConfig tunes the terminal presentation.
type UIConfig struct {
	Theme         string        `mapstructure:"theme" yaml:"theme"`
	RemovalDelay  time.Duration `mapstructure:"removal_delay" yaml:"removal_delay"`
	NotifyTimeout time.Duration `mapstructure:"notify_timeout" yaml:"notify_timeout"`
}

// ServerConfig configures `tasks serve`.
type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// LogConfig configures the debug log.
type LogConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Driver: "json",
			Path:   "",
			Key:    "tasks",
		},
		UI: UIConfig{
			Theme:         "classic",
			RemovalDelay:  300 * time.Millisecond,
			NotifyTimeout: 3 * time.Second,
		},
		Server: ServerConfig{Addr: "127.0.0.1:8080"},
	}
}

// Load merges defaults, GlobalPath(), ProjectPath() and the environment.
// If explicit is non-empty it replaces both files and must exist.
func Load(explicit string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, Default())

	if explicit != "" {
		v.SetConfigFile(explicit)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", explicit, err)
		}
	} else {
		for _, p := range []string{GlobalPath(), ProjectPath()} {
			if err := merge(v, p); err != nil {
				return nil, err
			}
		}
	}

	v.SetEnvPrefix(envPref)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func merge(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("storage.driver", d.Storage.Driver)
	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("storage.dsn", d.Storage.DSN)
	v.SetDefault("storage.key", d.Storage.Key)
	v.SetDefault("ui.theme", d.UI.Theme)
	v.SetDefault("ui.removal_delay", d.UI.RemovalDelay)
	v.SetDefault("ui.notify_timeout", d.UI.NotifyTimeout)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("log.file", d.Log.File)
}

// GlobalPath returns ~/.tasks/config.yaml, or "" without a home directory.
func GlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, dirName, fileName)
}

// ProjectPath returns ./.tasks/config.yaml.
func ProjectPath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return filepath.Join(cwd, dirName, fileName)
}

// WriteDefault writes the default configuration as YAML to path.
// An existing file is left alone unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := Marshal(Default())
	if err != nil {
		return err
	}
	header := "# tasks configuration\n# storage.driver: json | sqlite | mysql | postgres | memory\n"
	return os.WriteFile(path, append([]byte(header), b...), 0o644)
}

// Marshal renders cfg as YAML. Durations are written in Go syntax ("300ms").
func Marshal(cfg *Config) ([]byte, error) {
	type ui struct {
		Theme         string `yaml:"theme"`
		RemovalDelay  string `yaml:"removal_delay"`
		NotifyTimeout string `yaml:"notify_timeout"`
	}
	out := struct {
		Storage StorageConfig `yaml:"storage"`
		UI      ui            `yaml:"ui"`
		Server  ServerConfig  `yaml:"server"`
		Log     LogConfig     `yaml:"log"`
	}{
		Storage: cfg.Storage,
		UI: ui{
			Theme:         cfg.UI.Theme,
			RemovalDelay:  cfg.UI.RemovalDelay.String(),
			NotifyTimeout: cfg.UI.NotifyTimeout.String(),
		},
		Server: cfg.Server,
		Log:    cfg.Log,
	}
	b, err := yaml.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("yaml marshal: %w", err)
	}
	return b, nil
}
