// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full process configuration, parsed once at start-up.
type Config struct {
	Addr         string   `env:"ADDR" envDefault:":8080"`
	WebDir       string   `env:"WEB_DIR" envDefault:"web"`
	DatabaseURL  string   `env:"DATABASE_URL"`
	SQLitePath   string   `env:"SQLITE_PATH"`
	CookieSecure bool     `env:"COOKIE_SECURE"`
	SeedUsers    []string `env:"SEED_USERS" envSeparator:","`

	Token Token
	OIDC  OIDC
}

// Token configures session token signing.
type Token struct {
	Key       string        `env:"TOKEN_KEY,required"`
	Issuer    string        `env:"TOKEN_ISSUER" envDefault:"todolist"`
	Algorithm string        `env:"TOKEN_ALGORITHM" envDefault:"HS512"`
	Lifetime  time.Duration `env:"TOKEN_LIFETIME" envDefault:"1h"`
}

// OIDC configures optional single sign-on. It is enabled when an issuer is set.
type OIDC struct {
	Issuer       string `env:"OIDC_ISSUER"`
	ClientID     string `env:"OIDC_CLIENT_ID"`
	ClientSecret string `env:"OIDC_CLIENT_SECRET"`
	RedirectURL  string `env:"OIDC_REDIRECT_URL"`
}

// Enabled reports whether SSO is configured.
func (o OIDC) Enabled() bool {
	return o.Issuer != ""
}

// SeedUser is a login/password pair registered at start-up.
type SeedUser struct {
	Login    string
	Password string
}

// Load parses the process environment.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses the given variables instead of the process environment.
func LoadFrom(vars map[string]string) (Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values the struct tags cannot express.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Token.Key) == "" {
		return errors.New("TOKEN_KEY must not be empty")
	}
	switch c.Token.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("unsupported TOKEN_ALGORITHM %q", c.Token.Algorithm)
	}
	if c.Token.Lifetime <= 0 {
		return errors.New("TOKEN_LIFETIME must be positive")
	}
	if c.OIDC.Enabled() && (c.OIDC.ClientID == "" || c.OIDC.RedirectURL == "") {
		return errors.New("OIDC_CLIENT_ID and OIDC_REDIRECT_URL are required when OIDC_ISSUER is set")
	}
	if _, err := c.Seeds(); err != nil {
		return err
	}
	return nil
}

// Seeds decodes SEED_USERS entries of the form login:password.
func (c Config) Seeds() ([]SeedUser, error) {
	out := make([]SeedUser, 0, len(c.SeedUsers))
	for _, entry := range c.SeedUsers {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		login, password, ok := strings.Cut(entry, ":")
		if !ok || login == "" || password == "" {
			return nil, fmt.Errorf("invalid SEED_USERS entry %q", entry)
		}
		out = append(out, SeedUser{Login: login, Password: password})
	}
	return out, nil
}
