package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	API      APIConfig      `toml:"api"`
	Auth     AuthConfig     `toml:"auth"`
	Switcher SwitcherConfig `toml:"switcher"`
	Storage  StorageConfig  `toml:"storage"`
	Logging  LoggingConfig  `toml:"logging"`
}

// APIConfig contains the VRChat API endpoint settings
type APIConfig struct {
	BaseURL        string        `toml:"base_url" validate:"required,url"`
	UserAgent      string        `toml:"user_agent" validate:"required"` // VRChat requires an identifying user agent on every request
	RequestTimeout time.Duration `toml:"request_timeout"`
	RateLimit      int           `toml:"rate_limit" validate:"min=1"` // Requests per second
}

// AuthConfig contains credential sources and session behavior.
// Login/password/two_factor_code left empty fall back to environment
// variables and finally to interactive prompting.
type AuthConfig struct {
	Login                string `toml:"login"`
	Password             string `toml:"password"`
	TwoFactorCode        string `toml:"two_factor_code"`
	CookieFile           string `toml:"cookie_file" validate:"required"`          // Persisted session cookies (flat JSON object)
	MaxTwoFactorAttempts int    `toml:"max_two_factor_attempts" validate:"min=1"` // Rejected-code retries before giving up
}

// SwitcherConfig contains retry tuning for the avatar selection call
type SwitcherConfig struct {
	MaxAttempts int           `toml:"max_attempts" validate:"min=1"` // Transport-failure retries per switch
	RetryWait   time.Duration `toml:"retry_wait"`                    // Fixed wait between attempts
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path" validate:"required"`       // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"`               // Delete database on startup for clean test runs
	HistoryLimit   int    `toml:"history_limit" validate:"min=1"` // Rows shown by the history command
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"oneof=debug info warn error"`
	Output []string `toml:"output"` // "stdout", "file"
}

// NewDefaultConfig creates a configuration with default values.
// Endpoint paths and retry constants match the platform's documented
// behavior; only user-facing settings belong in vestio.toml.
func NewDefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "https://vrchat.com/api/1",
			UserAgent:      "vestio/" + GetVersion() + " github.com/ternarybob/vestio",
			RequestTimeout: 30 * time.Second,
			RateLimit:      2, // VRChat throttles aggressively; stay well under the limit
		},
		Auth: AuthConfig{
			CookieFile:           "./data/cookies.json",
			MaxTwoFactorAttempts: 3,
		},
		Switcher: SwitcherConfig{
			MaxAttempts: 10,
			RetryWait:   2 * time.Second,
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path:         "./data/db",
				HistoryLimit: 10,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout", "file"},
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env -> CLI flags.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config.
// VESTIO_* variables take priority; the bare LOGIN/PASSWORD/MFA_CODE names
// are kept for compatibility with existing setups.
func applyEnvOverrides(config *Config) {
	// Credentials (VESTIO_ prefix first, legacy names as fallback)
	if login := os.Getenv("VESTIO_LOGIN"); login != "" {
		config.Auth.Login = login
	} else if login := os.Getenv("LOGIN"); login != "" {
		config.Auth.Login = login
	}
	if password := os.Getenv("VESTIO_PASSWORD"); password != "" {
		config.Auth.Password = password
	} else if password := os.Getenv("PASSWORD"); password != "" {
		config.Auth.Password = password
	}
	if code := os.Getenv("VESTIO_TWO_FACTOR_CODE"); code != "" {
		config.Auth.TwoFactorCode = code
	} else if code := os.Getenv("MFA_CODE"); code != "" {
		config.Auth.TwoFactorCode = code
	}

	// API configuration
	if baseURL := os.Getenv("VESTIO_API_BASE_URL"); baseURL != "" {
		config.API.BaseURL = baseURL
	}
	if userAgent := os.Getenv("VESTIO_API_USER_AGENT"); userAgent != "" {
		config.API.UserAgent = userAgent
	}
	if requestTimeout := os.Getenv("VESTIO_API_REQUEST_TIMEOUT"); requestTimeout != "" {
		if rt, err := time.ParseDuration(requestTimeout); err == nil {
			config.API.RequestTimeout = rt
		}
	}
	if rateLimit := os.Getenv("VESTIO_API_RATE_LIMIT"); rateLimit != "" {
		if rl, err := strconv.Atoi(rateLimit); err == nil {
			config.API.RateLimit = rl
		}
	}

	// Auth configuration
	if cookieFile := os.Getenv("VESTIO_COOKIE_FILE"); cookieFile != "" {
		config.Auth.CookieFile = cookieFile
	}
	if maxAttempts := os.Getenv("VESTIO_AUTH_MAX_TWO_FACTOR_ATTEMPTS"); maxAttempts != "" {
		if ma, err := strconv.Atoi(maxAttempts); err == nil {
			config.Auth.MaxTwoFactorAttempts = ma
		}
	}

	// Switcher configuration
	if maxAttempts := os.Getenv("VESTIO_SWITCHER_MAX_ATTEMPTS"); maxAttempts != "" {
		if ma, err := strconv.Atoi(maxAttempts); err == nil {
			config.Switcher.MaxAttempts = ma
		}
	}
	if retryWait := os.Getenv("VESTIO_SWITCHER_RETRY_WAIT"); retryWait != "" {
		if rw, err := time.ParseDuration(retryWait); err == nil {
			config.Switcher.RetryWait = rw
		}
	}

	// Storage configuration
	if badgerPath := os.Getenv("VESTIO_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Logging configuration
	if level := os.Getenv("VESTIO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("VESTIO_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range splitString(output, ",") {
			trimmed := trimSpace(o)
			if trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, login string, cookieFile string) {
	// Command-line flags have highest priority
	if login != "" {
		config.Auth.Login = login
	}
	if cookieFile != "" {
		config.Auth.CookieFile = cookieFile
	}
}

// Validate checks the resolved configuration against its struct tags
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Helper functions for string manipulation
func splitString(s, sep string) []string {
	result := []string{}
	start := 0
	for i := 0; i < len(s); i++ {
		if i+len(sep) <= len(s) && s[i:i+len(sep)] == sep {
			result = append(result, s[start:i])
			start = i + len(sep)
			i = start - 1
		}
	}
	result = append(result, s[start:])
	return result
}

func trimSpace(s string) string {
	start := 0
	end := len(s)
	for start < end && (s[start] == ' ' || s[start] == '\t' || s[start] == '\n' || s[start] == '\r') {
		start++
	}
	for end > start && (s[end-1] == ' ' || s[end-1] == '\t' || s[end-1] == '\n' || s[end-1] == '\r') {
		end--
	}
	return s[start:end]
}
