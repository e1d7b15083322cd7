package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the pacer daemon.
type Config struct {
	Version string        `mapstructure:"version" yaml:"version"`
	Gateway GatewayConfig `mapstructure:"gateway" yaml:"gateway"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Game    GameConfig    `mapstructure:"game" yaml:"game"`
	Media   MediaConfig   `mapstructure:"media" yaml:"media"`
	Tasks   TasksConfig   `mapstructure:"tasks" yaml:"tasks"`
}

// GatewayConfig configures the HTTP gateway.
type GatewayConfig struct {
	Port int    `mapstructure:"port" yaml:"port"`
	Host string `mapstructure:"host" yaml:"host"`
}

// LogConfig configures logging output.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	File   string `mapstructure:"file" yaml:"file"`
}

// StorageConfig configures the sqlite database.
type StorageConfig struct {
	Driver string `mapstructure:"driver" yaml:"driver"`
	Path   string `mapstructure:"path" yaml:"path"`
}

// MediaConfig configures the media queue and its provider.
type MediaConfig struct {
	Tags              []string   `mapstructure:"tags" yaml:"tags"`
	Types             MediaTypes `mapstructure:"types" yaml:"types"`
	SlideDurationSec  int        `mapstructure:"slide_duration_sec" yaml:"slide_duration_sec"`
	ProviderURL       string     `mapstructure:"provider_url" yaml:"provider_url"`
	BatchSize         int        `mapstructure:"batch_size" yaml:"batch_size"`
	PrefetchThreshold int        `mapstructure:"prefetch_threshold" yaml:"prefetch_threshold"`
}

// MediaTypes toggles which media kinds the queue accepts.
type MediaTypes struct {
	Gifs     bool `mapstructure:"gifs" yaml:"gifs"`
	Pictures bool `mapstructure:"pictures" yaml:"pictures"`
	Videos   bool `mapstructure:"videos" yaml:"videos"`
}

// TasksConfig enables builtin actions per category. The outer key is the
// action category, the inner key the action ID.
type TasksConfig struct {
	Enabled map[string]map[string]bool `mapstructure:"enabled" yaml:"enabled"`
}

// ActionEnabled reports whether an action is toggled on. Unknown
// categories and IDs default to off.
func (t *TasksConfig) ActionEnabled(category, id string) bool {
	cat, ok := t.Enabled[category]
	if !ok {
		return false
	}
	return cat[id]
}

var (
	globalConfig *Config
	configPath   string
	mu           sync.RWMutex
)

// Load reads the configuration from the given path. A missing file is not
// an error; defaults apply.
func Load(path string) (*Config, error) {
	mu.Lock()
	defer mu.Unlock()

	viper.Reset()
	SetDefaults()

	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return nil, err
		}
		configPath = expanded

		viper.SetConfigFile(expanded)
		if err := viper.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigParseError); ok {
				return nil, err
			}
			// Missing file: fall through with defaults.
			if !os.IsNotExist(err) {
				var pathErr *os.PathError
				if !errors.As(err, &pathErr) {
					return nil, err
				}
			}
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.Game.Normalize()

	globalConfig = &cfg
	return &cfg, nil
}

// GetConfig returns the currently loaded configuration.
func GetConfig() *Config {
	mu.RLock()
	defer mu.RUnlock()
	return globalConfig
}

// Set sets a configuration key and persists it if a file path is known.
func Set(key string, value any) error {
	mu.Lock()
	defer mu.Unlock()

	viper.Set(key, value)
	if configPath != "" {
		return save()
	}
	return nil
}

// Get returns an arbitrary configuration value.
func Get(key string) any {
	return viper.Get(key)
}

// Save persists the current configuration to the loaded file path.
func Save() error {
	mu.Lock()
	defer mu.Unlock()
	return save()
}

func save() error {
	if configPath == "" {
		return errors.New("config path not set")
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(viper.AllSettings())
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0600)
}

// SaveTo writes a configuration snapshot to the given path.
func SaveTo(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// Reset clears loaded state (mainly for tests).
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	globalConfig = nil
	configPath = ""
	viper.Reset()
}
