package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, "https://vrchat.com/api/1", config.API.BaseURL)
	assert.Contains(t, config.API.UserAgent, "vestio/")
	assert.Equal(t, 30*time.Second, config.API.RequestTimeout)
	assert.Equal(t, "./data/cookies.json", config.Auth.CookieFile)
	assert.Equal(t, 3, config.Auth.MaxTwoFactorAttempts)
	assert.Equal(t, 10, config.Switcher.MaxAttempts)
	assert.Equal(t, 2*time.Second, config.Switcher.RetryWait)
	assert.Equal(t, "./data/db", config.Storage.Badger.Path)
	assert.Equal(t, "info", config.Logging.Level)

	require.NoError(t, config.Validate())
}

func TestLoadFromFiles_LaterFilesOverrideEarlier(t *testing.T) {
	first := writeConfigFile(t, "base.toml", `
[api]
user_agent = "custom-agent/1.0"

[switcher]
max_attempts = 5
`)
	second := writeConfigFile(t, "override.toml", `
[switcher]
max_attempts = 7

[logging]
level = "debug"
`)

	config, err := LoadFromFiles(first, second)
	require.NoError(t, err)

	assert.Equal(t, "custom-agent/1.0", config.API.UserAgent)
	assert.Equal(t, 7, config.Switcher.MaxAttempts)
	assert.Equal(t, "debug", config.Logging.Level)

	// Untouched settings keep their defaults
	assert.Equal(t, "https://vrchat.com/api/1", config.API.BaseURL)
}

func TestLoadFromFiles_MissingFileErrors(t *testing.T) {
	_, err := LoadFromFiles(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestEnvOverrides_CredentialsWithPrefix(t *testing.T) {
	t.Setenv("VESTIO_LOGIN", "prefixed-user")
	t.Setenv("VESTIO_PASSWORD", "prefixed-pass")
	t.Setenv("VESTIO_TWO_FACTOR_CODE", "123456")

	config, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, "prefixed-user", config.Auth.Login)
	assert.Equal(t, "prefixed-pass", config.Auth.Password)
	assert.Equal(t, "123456", config.Auth.TwoFactorCode)
}

func TestEnvOverrides_LegacyCredentialNames(t *testing.T) {
	t.Setenv("LOGIN", "legacy-user")
	t.Setenv("PASSWORD", "legacy-pass")
	t.Setenv("MFA_CODE", "654321")

	config, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, "legacy-user", config.Auth.Login)
	assert.Equal(t, "legacy-pass", config.Auth.Password)
	assert.Equal(t, "654321", config.Auth.TwoFactorCode)
}

func TestEnvOverrides_PrefixedNameBeatsLegacy(t *testing.T) {
	t.Setenv("LOGIN", "legacy-user")
	t.Setenv("VESTIO_LOGIN", "prefixed-user")

	config, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, "prefixed-user", config.Auth.Login)
}

func TestEnvOverrides_TunableSettings(t *testing.T) {
	t.Setenv("VESTIO_API_REQUEST_TIMEOUT", "45s")
	t.Setenv("VESTIO_SWITCHER_MAX_ATTEMPTS", "4")
	t.Setenv("VESTIO_SWITCHER_RETRY_WAIT", "500ms")
	t.Setenv("VESTIO_LOG_OUTPUT", "stdout, file")

	config, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, 45*time.Second, config.API.RequestTimeout)
	assert.Equal(t, 4, config.Switcher.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, config.Switcher.RetryWait)
	assert.Equal(t, []string{"stdout", "file"}, config.Logging.Output)
}

func TestApplyFlagOverrides(t *testing.T) {
	config := NewDefaultConfig()
	config.Auth.Login = "from-config"

	ApplyFlagOverrides(config, "from-flag", "/tmp/other-cookies.json")
	assert.Equal(t, "from-flag", config.Auth.Login)
	assert.Equal(t, "/tmp/other-cookies.json", config.Auth.CookieFile)

	// Empty flags leave existing values alone
	ApplyFlagOverrides(config, "", "")
	assert.Equal(t, "from-flag", config.Auth.Login)
	assert.Equal(t, "/tmp/other-cookies.json", config.Auth.CookieFile)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	config := NewDefaultConfig()
	config.API.BaseURL = "not a url"
	assert.Error(t, config.Validate())

	config = NewDefaultConfig()
	config.Logging.Level = "verbose"
	assert.Error(t, config.Validate())

	config = NewDefaultConfig()
	config.Switcher.MaxAttempts = 0
	assert.Error(t, config.Validate())
}
