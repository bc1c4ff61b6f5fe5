package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	pkgconfig "github.com/utafrali/wishlist/pkg/config"
)

// DefaultClientConfigPath is where the CLI looks for its config file.
const DefaultClientConfigPath = "~/.config/wishlist/config.toml"

// ClientConfig configures the wishlist CLI. Values come from the TOML file
// first and are then overridden by environment variables.
type ClientConfig struct {
	APIURL    string   `toml:"api_url" env:"WISHLIST_API_URL"`
	Token     string   `toml:"token" env:"WISHLIST_TOKEN"`
	Owner     string   `toml:"owner" env:"WISHLIST_OWNER"`
	JWTSecret string   `toml:"jwt_secret" env:"JWT_SECRET"`
	Timeout   Duration `toml:"timeout" env:"WISHLIST_TIMEOUT"`
	LogLevel  string   `toml:"log_level" env:"WISHLIST_LOG_LEVEL"`
	Currency  string   `toml:"currency" env:"WISHLIST_CURRENCY"`
}

func defaultClientConfig() ClientConfig {
	return ClientConfig{
		APIURL:   "http://localhost:8080",
		Timeout:  Duration{10 * time.Second},
		LogLevel: "warn",
		Currency: "₹",
	}
}

// LoadClient reads the CLI configuration from path (DefaultClientConfigPath
// when empty).
func LoadClient(path string) (*ClientConfig, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultClientConfigPath
	}

	cfg := defaultClientConfig()
	if err := pkgconfig.LoadFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("load client config: %w", err)
	}

	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	u, err := url.Parse(cfg.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api_url %q", cfg.APIURL)
	}
	if cfg.Timeout.Duration <= 0 {
		return nil, fmt.Errorf("timeout must be positive, got %s", cfg.Timeout.Duration)
	}

	return &cfg, nil
}

// Duration is a time.Duration written as a Go duration string ("10s") in both
// the TOML file and the environment.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}
