package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadDefault()
	require.NoError(t, err)

	assert.Equal(t, "veritas-lab", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 2, cfg.AI.Retry.MaxRetries)
	assert.Equal(t, time.Second, cfg.AI.Retry.InitialInterval)
	assert.Equal(t, 30*time.Second, cfg.AI.OpenAI.Timeout)
	assert.Equal(t, int64(5*1024*1024), cfg.Analysis.MaxImageSize)
	assert.Equal(t, "gpt-4o", cfg.AI.OpenAI.VisionModel)
}

func TestLoadFileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
app:
  environment: production
server:
  http_port: 9000
ai:
  retry:
    max_retries: 3
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("VERITAS_AI_OPENAI_API_KEY", "sk-test")
	t.Setenv("VERITAS_REDIS_HOST", "cache.internal")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.App.Environment)
	assert.Equal(t, 9000, cfg.Server.HTTPPort)
	assert.Equal(t, 3, cfg.AI.Retry.MaxRetries)
	assert.Equal(t, "sk-test", cfg.AI.OpenAI.APIKey)
	assert.Equal(t, "cache.internal", cfg.Redis.Host)
	assert.Equal(t, "cache.internal:6379", cfg.Redis.Addr())
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
