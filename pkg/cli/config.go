package cli

import (
	"fmt"
	"strconv"
	"strings"

	"image-crawler-go/pkg/config"
	"image-crawler-go/pkg/services"

	"github.com/pelletier/go-toml/v2"
)

// ShowConfig displays the current configuration. The API key is masked.
func (a *App) ShowConfig() {
	shown := *a.cfg
	if shown.CLI.APIKey != "" {
		shown.CLI.APIKey = strings.Repeat("*", 8)
	}
	data, err := toml.Marshal(&shown)
	if err != nil {
		fmt.Fprintf(a.errOut, "Error marshaling config: %v\n", err)
		return
	}
	fmt.Fprintln(a.out, string(data))
}

// SetConfig sets a configuration value
// Format: section.key=value (e.g., "database.url=postgres://...")
func (a *App) SetConfig(setStr string) error {
	parts := strings.SplitN(setStr, "=", 2)
	if len(parts) != 2 {
		return fmt.Errorf("invalid format: expected 'section.key=value'")
	}

	keyPath := strings.Split(parts[0], ".")
	value := parts[1]

	if len(keyPath) != 2 {
		return fmt.Errorf("invalid key format: expected 'section.key'")
	}

	section, key := keyPath[0], keyPath[1]

	// The stored file gets only this setting, never env or per-run overrides.
	err := config.Update(a.configPath, func(stored *config.Config) error {
		return applySetting(stored, section, key, value)
	})
	if err != nil {
		return err
	}
	return applySetting(a.cfg, section, key, value)
}

// applySetting sets section.key on cfg
func applySetting(cfg *config.Config, section, key, value string) error {
	switch section {
	case "database":
		switch key {
		case "url":
			cfg.Database.URL = value
		default:
			return fmt.Errorf("unknown database key: %s", key)
		}
	case "api":
		switch key {
		case "host":
			cfg.API.Host = value
		case "port":
			port, err := parsePositive(key, value)
			if err != nil {
				return err
			}
			cfg.API.Port = port
		default:
			return fmt.Errorf("unknown api key: %s", key)
		}
	case "cli":
		switch key {
		case "base_url":
			cfg.CLI.BaseURL = value
		case "api_key":
			cfg.CLI.APIKey = value
		case "download_dir":
			cfg.CLI.DownloadDir = value
		default:
			return fmt.Errorf("unknown cli key: %s", key)
		}
	case "crawl":
		switch key {
		case "delay_ms":
			n, err := parsePositive(key, value)
			if err != nil {
				return err
			}
			cfg.Crawl.DelayMillis = n
		case "item_count":
			n, err := parsePositive(key, value)
			if err != nil {
				return err
			}
			cfg.Crawl.ItemCount = n
		case "image_base":
			cfg.Crawl.ImageBase = value
		default:
			return fmt.Errorf("unknown crawl key: %s", key)
		}
	case "progress":
		n, err := parsePositive(key, value)
		if err != nil {
			return err
		}
		switch key {
		case "tick_ms":
			cfg.Progress.TickMillis = n
		case "step":
			cfg.Progress.Step = n
		case "ceiling":
			if n > 100 {
				return fmt.Errorf("invalid ceiling value: %s (must be at most 100)", value)
			}
			cfg.Progress.Ceiling = n
		case "reset_delay_ms":
			cfg.Progress.ResetDelayMillis = n
		default:
			return fmt.Errorf("unknown progress key: %s", key)
		}
	case "store":
		switch key {
		case "backend":
			switch value {
			case services.BackendConfig, services.BackendPostgres, services.BackendMemory:
				cfg.Store.Backend = value
			default:
				return fmt.Errorf("invalid store backend: %s (expected config, postgres or memory)", value)
			}
		default:
			return fmt.Errorf("unknown store key: %s", key)
		}
	default:
		return fmt.Errorf("unknown section: %s", section)
	}

	return nil
}

func parsePositive(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s value: %s", key, value)
	}
	return n, nil
}
