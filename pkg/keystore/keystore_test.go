package keystore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"image-crawler-go/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_AbsentThenSet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m := NewMemory()
	_, ok, err := m.Get(ctx, CredentialKey)
	require.NoError(t, err)
	assert.False(t, ok, "absence is a valid state")

	require.NoError(t, m.Set(ctx, CredentialKey, "first"))
	require.NoError(t, m.Set(ctx, CredentialKey, "second"))

	v, err := Credential(ctx, m)
	require.NoError(t, err)
	assert.Equal(t, "second", v, "at most one value is held")
	assert.Equal(t, 2, m.Writes())
}

func TestConfigStore_PersistsToFile(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("BASE_URL", "")
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := config.LoadFrom(path)
	require.NoError(t, err)

	s, err := NewConfigStore(path, cfg)
	require.NoError(t, err)

	_, ok, err := s.Get(ctx, CredentialKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, CredentialKey, "abc123"))

	reloaded, err := config.LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "abc123", reloaded.CLI.APIKey, "credential survives a new session")

	fresh, err := NewConfigStore(path, reloaded)
	require.NoError(t, err)
	v, err := Credential(ctx, fresh)
	require.NoError(t, err)
	assert.Equal(t, "abc123", v)
}

func TestConfigStore_RejectsOtherKeys(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s, err := NewConfigStore(filepath.Join(t.TempDir(), "c.toml"), config.DefaultConfig())
	require.NoError(t, err)

	require.ErrorIs(t, s.Set(ctx, "theme", "dark"), ErrUnsupportedKey)
	_, _, err = s.Get(ctx, "theme")
	require.ErrorIs(t, err, ErrUnsupportedKey)
}

func TestConfigStore_RollsBackOnWriteFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	// A directory where the file should be makes the write fail.
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.CLI.APIKey = "old"
	s, err := NewConfigStore(dir, cfg)
	require.NoError(t, err)

	require.Error(t, s.Set(ctx, CredentialKey, "new"))
	v, err := Credential(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, "old", v)
}

func TestConfigStore_WritesOnlyTheCredential(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := config.DefaultConfig()
	require.NoError(t, config.SaveTo(path, cfg))
	cfg.CLI.DownloadDir = "/tmp/one-off"
	cfg.Database.URL = "postgres://from-env"

	s, err := NewConfigStore(path, cfg)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, CredentialKey, "abc123"))
	assert.Equal(t, "abc123", cfg.CLI.APIKey, "in-memory config mirrors the key")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "abc123")
	assert.NotContains(t, string(data), "/tmp/one-off")
	assert.NotContains(t, string(data), "postgres://from-env")
}
