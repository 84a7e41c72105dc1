package auth

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/goliatone/go-errors"
)

// Development-only fallback secrets. Distinct on purpose so access tokens
// never verify against the refresh secret even in zero-config bring-up.
const (
	devAccessSecret  = "insecure-dev-access-secret"
	devRefreshSecret = "insecure-dev-refresh-secret"
)

// Config holds process configuration, populated from environment variables.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"development"`

	AccessSecret  string `env:"AUTH_ACCESS_SECRET"`
	RefreshSecret string `env:"AUTH_REFRESH_SECRET"`

	AccessTokenTTL  time.Duration `env:"AUTH_ACCESS_TTL" envDefault:"15m"`
	RefreshTokenTTL time.Duration `env:"AUTH_REFRESH_TTL" envDefault:"168h"`

	Issuer string `env:"AUTH_ISSUER" envDefault:"forgestack"`

	logger Logger
}

// LoadConfig parses environment variables and returns a Config. Missing
// secrets are tolerated here so development can boot with zero configuration;
// Validate enforces them for every other environment.
func LoadConfig() (*Config, error) {
	return LoadConfigWithLogger(nil)
}

// LoadConfigWithLogger is LoadConfig with the warning logger injected.
func LoadConfigWithLogger(logger Logger) (*Config, error) {
	if logger == nil {
		logger = defLogger{}
	}
	cfg := &Config{logger: logger}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "failed to parse auth config")
	}

	if cfg.missingSecrets() {
		cfg.logger.Warn("AUTH_ACCESS_SECRET / AUTH_REFRESH_SECRET not set, using insecure development fallback secrets. DO NOT run this configuration in production.")
	}

	return cfg, nil
}

// WithLogger overrides the logger used for configuration warnings.
func (c *Config) WithLogger(l Logger) *Config {
	if l != nil {
		c.logger = l
	}
	return c
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Validate refuses to run without real secrets in any non-development mode.
func (c *Config) Validate() error {
	if c.missingSecrets() && !c.IsDevelopment() {
		return errors.New("signing secrets are required outside development", errors.CategoryValidation).
			WithTextCode("MISSING_SECRETS").
			WithCode(errors.CodeBadRequest).
			WithMetadata(map[string]any{"app_env": c.AppEnv})
	}

	if c.AccessSecret == c.RefreshSecret && c.AccessSecret != "" {
		return errors.New("access and refresh secrets must be distinct", errors.CategoryValidation).
			WithTextCode("SHARED_SECRET")
	}

	return nil
}

// AccessSecretBytes returns the access signing secret, falling back to the
// development constant when unset.
func (c *Config) AccessSecretBytes() []byte {
	if c.AccessSecret == "" {
		return []byte(devAccessSecret)
	}
	return []byte(c.AccessSecret)
}

// RefreshSecretBytes returns the refresh signing secret, falling back to the
// development constant when unset.
func (c *Config) RefreshSecretBytes() []byte {
	if c.RefreshSecret == "" {
		return []byte(devRefreshSecret)
	}
	return []byte(c.RefreshSecret)
}

func (c *Config) missingSecrets() bool {
	return c.AccessSecret == "" || c.RefreshSecret == ""
}
