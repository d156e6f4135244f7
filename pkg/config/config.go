package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "IMAGE_CRAWLER_CONFIG"

type Config struct {
	// Database
	Database struct {
		URL string `toml:"url"`
	} `toml:"database"`

	// API
	API struct {
		Port int    `toml:"port"`
		Host string `toml:"host"`
	} `toml:"api"`

	// CLI
	CLI struct {
		BaseURL     string `toml:"base_url"` // API base URL used in --remote mode
		APIKey      string `toml:"api_key"`
		DownloadDir string `toml:"download_dir"`
	} `toml:"cli"`

	// Simulated crawl
	Crawl struct {
		DelayMillis int    `toml:"delay_ms"`
		ItemCount   int    `toml:"item_count"`
		ImageBase   string `toml:"image_base"`
	} `toml:"crawl"`

	// Progress bar simulation
	Progress struct {
		TickMillis       int `toml:"tick_ms"`
		Step             int `toml:"step"`
		Ceiling          int `toml:"ceiling"`
		ResetDelayMillis int `toml:"reset_delay_ms"`
	} `toml:"progress"`

	// Credential store
	Store struct {
		Backend string `toml:"backend"` // config, postgres or memory
	} `toml:"store"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Database.URL = ""
	cfg.API.Port = 8080
	cfg.API.Host = "0.0.0.0"
	cfg.CLI.BaseURL = "http://localhost:8080"
	cfg.CLI.APIKey = ""
	cfg.CLI.DownloadDir = "downloads"
	cfg.Crawl.DelayMillis = 2000
	cfg.Crawl.ItemCount = 8
	cfg.Crawl.ImageBase = "https://source.unsplash.com/random/800x600"
	cfg.Progress.TickMillis = 300
	cfg.Progress.Step = 10
	cfg.Progress.Ceiling = 90
	cfg.Progress.ResetDelayMillis = 1000
	cfg.Store.Backend = "config"
	return cfg
}

// CrawlDelay returns the simulated network latency.
func (c *Config) CrawlDelay() time.Duration {
	return time.Duration(c.Crawl.DelayMillis) * time.Millisecond
}

// ConfigPath returns the path to the config file
func ConfigPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return expandHome(p)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	configDir := filepath.Join(homeDir, ".config", "image-crawler")
	return filepath.Join(configDir, "config.toml"), nil
}

// Load reads configuration from ConfigPath, creating the file with defaults
// if it doesn't exist.
func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom reads configuration from configPath. A missing file is created
// with defaults. Environment overrides apply to the returned value only and
// are never written back.
func LoadFrom(configPath string) (*Config, error) {
	cfg, exists, err := readFile(configPath)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := SaveTo(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

// Update applies fn to the configuration as stored in configPath (without
// environment overrides or any in-memory changes) and saves the result. An
// empty configPath uses ConfigPath.
func Update(configPath string, fn func(*Config) error) error {
	if configPath == "" {
		p, err := ConfigPath()
		if err != nil {
			return err
		}
		configPath = p
	}

	cfg, _, err := readFile(configPath)
	if err != nil {
		return err
	}
	if err := fn(cfg); err != nil {
		return err
	}
	return SaveTo(configPath, cfg)
}

// readFile parses configPath and fills missing values from the defaults.
// exists is false when there is no file yet.
func readFile(configPath string) (cfg *Config, exists bool, err error) {
	configPath, err = expandHome(configPath)
	if err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg = &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, true, fmt.Errorf("failed to parse config file: %w", err)
	}
	mergeDefaults(cfg)
	return cfg, true, nil
}

// SaveTo writes the configuration to configPath.
func SaveTo(configPath string, cfg *Config) error {
	configPath, err := expandHome(configPath)
	if err != nil {
		return err
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// The file holds the API key.
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// mergeDefaults fills zero values from DefaultConfig
func mergeDefaults(cfg *Config) {
	d := DefaultConfig()
	if cfg.API.Port == 0 {
		cfg.API.Port = d.API.Port
	}
	if cfg.API.Host == "" {
		cfg.API.Host = d.API.Host
	}
	if cfg.CLI.BaseURL == "" {
		cfg.CLI.BaseURL = d.CLI.BaseURL
	}
	if cfg.CLI.DownloadDir == "" {
		cfg.CLI.DownloadDir = d.CLI.DownloadDir
	}
	if cfg.Crawl.DelayMillis == 0 {
		cfg.Crawl.DelayMillis = d.Crawl.DelayMillis
	}
	if cfg.Crawl.ItemCount == 0 {
		cfg.Crawl.ItemCount = d.Crawl.ItemCount
	}
	if cfg.Crawl.ImageBase == "" {
		cfg.Crawl.ImageBase = d.Crawl.ImageBase
	}
	if cfg.Progress.TickMillis == 0 {
		cfg.Progress.TickMillis = d.Progress.TickMillis
	}
	if cfg.Progress.Step == 0 {
		cfg.Progress.Step = d.Progress.Step
	}
	if cfg.Progress.Ceiling == 0 {
		cfg.Progress.Ceiling = d.Progress.Ceiling
	}
	if cfg.Progress.ResetDelayMillis == 0 {
		cfg.Progress.ResetDelayMillis = d.Progress.ResetDelayMillis
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = d.Store.Backend
	}
}

// Override with environment variables if set (useful for Docker)
func applyEnv(cfg *Config) {
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Database.URL = dbURL
	}
	if baseURL := os.Getenv("BASE_URL"); baseURL != "" {
		cfg.CLI.BaseURL = baseURL
	}
}

func expandHome(p string) (string, error) {
	if !strings.HasPrefix(p, "~") {
		return p, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return strings.Replace(p, "~", homeDir, 1), nil
}
