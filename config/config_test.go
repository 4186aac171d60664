package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lukehollenback/luno/exchange/luno"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//
// clearEnv unsets every variable the configuration reads for the duration of the test.
//
func clearEnv(t *testing.T) {
	t.Helper()

	for _, v := range []string{APIKeyIDEnv, APIKeySecretEnv, TimeoutEnv, LogLevelEnv, BaseURLEnv} {
		t.Setenv(v, "")
		require.NoError(t, os.Unsetenv(v))
	}
}

func writeFile(t *testing.T, name string, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, luno.BaseURL, cfg.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.Timeout)
	assert.Equal(t, luno.XBTNGN, cfg.CurrencyPair())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.HasCredentials())
	assert.Len(t, cfg.ClientOptions(), 2)
}

func TestLoadYAML(t *testing.T) {
	clearEnv(t)

	path := writeFile(t, "luno.yml", `
api_key_id: file-id
api_key_secret: file-secret
timeout: 15s
pair: ETHNGN
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file-id", cfg.APIKeyID)
	assert.Equal(t, "file-secret", cfg.APIKeySecret)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.Equal(t, luno.ETHNGN, cfg.CurrencyPair())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.HasCredentials())
}

func TestEnvironmentOverridesYAML(t *testing.T) {
	clearEnv(t)

	path := writeFile(t, "luno.yml", "api_key_id: file-id\ntimeout: 15s\n")

	t.Setenv(APIKeyIDEnv, "env-id")
	t.Setenv(TimeoutEnv, "2500")
	t.Setenv(LogLevelEnv, "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-id", cfg.APIKeyID)
	assert.Equal(t, 2500*time.Millisecond, cfg.Timeout)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)

	envFile := writeFile(t, ".env", "LUNO_API_ID=dotenv-id\nLUNO_API_SECRET=dotenv-secret\n")

	cfg, err := Load("", envFile, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "dotenv-id", cfg.APIKeyID)
	assert.Equal(t, "dotenv-secret", cfg.APIKeySecret)
}

func TestLoadRejectsBadValues(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.yml", "timeout: [1, 2"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "pair.yml", "pair: DOGEUSD\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "level.yml", "logging:\n  level: loud\n"))
	assert.Error(t, err)

	t.Setenv(TimeoutEnv, "soon")
	_, err = Load("")
	assert.Error(t, err)

	t.Setenv(TimeoutEnv, "0")
	_, err = Load("")
	assert.Error(t, err)
}
