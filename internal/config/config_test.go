package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearConfigEnv shields a test from config variables exported by the host
// environment; t.Setenv registers the restore, Unsetenv removes the value.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"APP_ENV", "HTTP_ADDRESS", "ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadFromFile(t *testing.T) {
	clearConfigEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`env: prod
http:
  address: ":9090"
cors:
  allowed_origins:
    - "https://wewatch.example.com"
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg := MustLoadPath(path)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, ":9090", cfg.HTTP.Address)
	assert.Equal(t, []string{"https://wewatch.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestLoadFromEnvWhenFileMissing(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("HTTP_ADDRESS", ":7070")
	t.Setenv("ALLOWED_ORIGINS", "http://a.example,http://b.example")

	cfg := MustLoadPath(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, ":7070", cfg.HTTP.Address)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg := MustLoadPath(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
}
