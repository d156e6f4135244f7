package keystore

import (
	"context"
	"fmt"
	"sync"

	"image-crawler-go/pkg/config"
)

// ConfigStore keeps the credential in the CLI section of the TOML config
// file, the same place --config-set cli.api_key writes to.
type ConfigStore struct {
	mu   sync.Mutex
	path string
	cfg  *config.Config
}

// NewConfigStore writes the credential into the file at path on every Set
// and mirrors it into cfg. An empty path uses config.ConfigPath.
func NewConfigStore(path string, cfg *config.Config) (*ConfigStore, error) {
	if path == "" {
		p, err := config.ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return &ConfigStore{path: path, cfg: cfg}, nil
}

func (s *ConfigStore) Get(_ context.Context, key string) (string, bool, error) {
	if key != CredentialKey {
		return "", false, fmt.Errorf("%w: %s", ErrUnsupportedKey, key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg.CLI.APIKey == "" {
		return "", false, nil
	}
	return s.cfg.CLI.APIKey, true, nil
}

func (s *ConfigStore) Set(_ context.Context, key, value string) error {
	if key != CredentialKey {
		return fmt.Errorf("%w: %s", ErrUnsupportedKey, key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	// Only the key is written. Per-run overrides on s.cfg stay in memory.
	err := config.Update(s.path, func(stored *config.Config) error {
		stored.CLI.APIKey = value
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save API key: %w", err)
	}
	s.cfg.CLI.APIKey = value
	return nil
}
