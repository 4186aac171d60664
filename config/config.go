package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/lukehollenback/luno/exchange/luno"
	"github.com/lukehollenback/luno/logger"
	"gopkg.in/yaml.v3"
)

const (
	APIKeyIDEnv     = "LUNO_API_ID"
	APIKeySecretEnv = "LUNO_API_SECRET"
	TimeoutEnv      = "LUNO_TIMEOUT_MS"
	LogLevelEnv     = "LUNO_LOG_LEVEL"
	BaseURLEnv      = "LUNO_BASE_URL"
)

//
// Config holds everything the CLI needs to build a client. Values are layered: defaults, then the
// YAML file, then the environment (which a .env file may populate).
//
type Config struct {
	APIKeyID     string        `yaml:"api_key_id"`
	APIKeySecret string        `yaml:"api_key_secret"`
	BaseURL      string        `yaml:"base_url"`
	StreamURL    string        `yaml:"stream_url"`
	Timeout      time.Duration `yaml:"timeout"`
	Pair         string        `yaml:"pair"`
	Logging      logger.Config `yaml:"logging"`
}

func Default() *Config {
	return &Config{
		BaseURL: luno.BaseURL,
		Timeout: luno.DefaultTimeout,
		Pair:    luno.DefaultCurrencyPair.String(),
		Logging: logger.DefaultConfig(),
	}
}

//
// Load builds the configuration. The provided .env files are loaded into the environment first
// (missing ones are skipped, and variables that are already set win). An empty path skips the
// YAML file.
//
func Load(path string, envFiles ...string) (*Config, error) {
	for _, v := range envFiles {
		if err := godotenv.Load(v); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", v, err)
		}
	}

	config := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func (o *Config) applyEnv() error {
	if v := os.Getenv(APIKeyIDEnv); v != "" {
		o.APIKeyID = strings.TrimSpace(v)
	}

	if v := os.Getenv(APIKeySecretEnv); v != "" {
		o.APIKeySecret = strings.TrimSpace(v)
	}

	if v := os.Getenv(BaseURLEnv); v != "" {
		o.BaseURL = strings.TrimSpace(v)
	}

	if v := os.Getenv(LogLevelEnv); v != "" {
		o.Logging.Level = strings.TrimSpace(v)
	}

	if v := os.Getenv(TimeoutEnv); v != "" {
		ms, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s '%s': %w", TimeoutEnv, v, err)
		}

		o.Timeout = time.Duration(ms) * time.Millisecond
	}

	return nil
}

//
// Validate reports the first problem with the configuration. Credentials are optional since the
// market data endpoints do not need them.
//
func (o *Config) Validate() error {
	if o.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", o.Timeout)
	}

	if _, err := luno.ParseCurrencyPair(o.Pair); err != nil {
		return fmt.Errorf("invalid pair: %w", err)
	}

	if _, err := logger.New(o.Logging); err != nil {
		return fmt.Errorf("invalid logging: %w", err)
	}

	return nil
}

//
// CurrencyPair returns the configured default currency pair.
//
func (o *Config) CurrencyPair() luno.CurrencyPair {
	pair, err := luno.ParseCurrencyPair(o.Pair)
	if err != nil {
		return luno.DefaultCurrencyPair
	}

	return pair
}

func (o *Config) HasCredentials() bool {
	return o.APIKeyID != "" && o.APIKeySecret != ""
}

//
// ClientOptions returns the client options the configuration implies.
//
func (o *Config) ClientOptions() []luno.Option {
	opts := []luno.Option{luno.WithTimeout(o.Timeout)}

	if o.BaseURL != "" {
		opts = append(opts, luno.WithBaseURL(o.BaseURL))
	}

	return opts
}
