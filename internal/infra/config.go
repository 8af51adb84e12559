package infra

import (
	"errors"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds the user-tunable settings. The timing values are tuned
// empirically per target app generation; on-device installs rarely change
// them, but they are config, not constants.
type Config struct {
	OwnPackage    string        `mapstructure:"own_package"`
	Throttle      time.Duration `mapstructure:"throttle"`
	Cooldown      time.Duration `mapstructure:"cooldown"`
	EventTimeout  time.Duration `mapstructure:"event_timeout"`
	QueueCapacity int           `mapstructure:"queue_capacity"`
	DataDir       string        `mapstructure:"data_dir"`
	LogPath       string        `mapstructure:"log_path"`
}

// ConfigLoader reads screenguard.yaml and can watch it for live edits.
type ConfigLoader struct {
	v *viper.Viper
}

// NewConfigLoader creates a loader. An empty path falls back to
// screenguard.yaml in the data directory and the working directory.
func NewConfigLoader(path, dataDir string) *ConfigLoader {
	v := viper.New()
	v.SetDefault("own_package", "com.momentummm.app")
	v.SetDefault("throttle", 300*time.Millisecond)
	v.SetDefault("cooldown", 1500*time.Millisecond)
	v.SetDefault("event_timeout", time.Second)
	v.SetDefault("queue_capacity", 32)
	v.SetDefault("data_dir", dataDir)
	v.SetDefault("log_path", "")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("screenguard")
		v.SetConfigType("yaml")
		v.AddConfigPath(dataDir)
		v.AddConfigPath(".")
	}
	return &ConfigLoader{v: v}
}

// Load reads the config file. A missing file is fine: defaults apply.
func (l *ConfigLoader) Load() (Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// Watch re-reads the file on every change and invokes onChange with the
// fresh config. Unparseable edits are ignored; the previous config stands.
func (l *ConfigLoader) Watch(onChange func(Config)) {
	l.v.OnConfigChange(func(_ fsnotify.Event) {
		var cfg Config
		if err := l.v.Unmarshal(&cfg); err != nil {
			return
		}
		onChange(cfg)
	})
	l.v.WatchConfig()
}
