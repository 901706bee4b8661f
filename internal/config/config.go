package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vancomm/minesweeper-web/internal/mines"
)

type Duration struct{ time.Duration }

// [Duration] implements [json.Marshaler]
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		var err error
		d.Duration, err = time.ParseDuration(value)
		if err != nil {
			return err
		}
		return nil

	default:
		return errors.New("invalid duration")
	}
}

type LogConfig struct {
	File       string `json:"file"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

type GameConfig struct {
	Default mines.GameParams   `json:"default"`
	Allowed []mines.GameParams `json:"allowed"`
}

// Permits reports whether clients may start a game with params.
func (c GameConfig) Permits(params mines.GameParams) bool {
	return params == c.Default || slices.Contains(c.Allowed, params)
}

type SessionConfig struct {
	Secret        string   `json:"secret"`
	TokenLifetime Duration `json:"token_lifetime"`
	IdleTimeout   Duration `json:"idle_timeout"`
	SweepInterval Duration `json:"sweep_interval"`
}

type CookiesConfig struct {
	Domain   string `json:"domain"`
	Secure   bool   `json:"secure"`
	SameSite string `json:"same_site"`
}

type CorsConfig struct {
	AllowedOrigins []string `json:"allowed_origins"`
}

type Config struct {
	Mode    string        `json:"mode"`
	Addr    string        `json:"addr"`
	Log     LogConfig     `json:"log"`
	Game    GameConfig    `json:"game"`
	Session SessionConfig `json:"session"`
	Cookies CookiesConfig `json:"cookies"`
	Cors    CorsConfig    `json:"cors"`
}

func Default() *Config {
	return &Config{
		Mode: "production",
		Addr: ":8080",
		Log: LogConfig{
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Game: GameConfig{
			Default: mines.DefaultParams(),
		},
		Session: SessionConfig{
			TokenLifetime: Duration{24 * time.Hour},
			IdleTimeout:   Duration{30 * time.Minute},
			SweepInterval: Duration{time.Minute},
		},
		Cookies: CookiesConfig{
			Secure:   true,
			SameSite: "strict",
		},
	}
}

func (c Config) Fields() logrus.Fields {
	return map[string]any{
		"mode":                   c.Mode,
		"addr":                   c.Addr,
		"log_file":               c.Log.File,
		"game_default":           c.Game.Default.String(),
		"game_allowed":           len(c.Game.Allowed),
		"session_secret_set":     c.Session.Secret != "",
		"session_token_lifetime": c.Session.TokenLifetime.String(),
		"session_idle_timeout":   c.Session.IdleTimeout.String(),
		"session_sweep_interval": c.Session.SweepInterval.String(),
		"cookies_domain":         c.Cookies.Domain,
		"cookies_secure":         c.Cookies.Secure,
		"cookies_same_site":      c.Cookies.SameSite,
		"cors_allowed_origins":   strings.Join(c.Cors.AllowedOrigins, ","),
	}
}

func (c Config) Production() bool {
	return c.Mode == "production"
}

func (c Config) Development() bool {
	return c.Mode != "production"
}

func (c Config) Validate() error {
	if err := c.Game.Default.Validate(); err != nil {
		return fmt.Errorf("game.default: %w", err)
	}
	for i, p := range c.Game.Allowed {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("game.allowed[%d]: %w", i, err)
		}
	}
	if c.Production() && c.Session.Secret == "" {
		return errors.New("session.secret must be set in production")
	}
	for name, d := range map[string]Duration{
		"session.token_lifetime": c.Session.TokenLifetime,
		"session.idle_timeout":   c.Session.IdleTimeout,
		"session.sweep_interval": c.Session.SweepInterval,
	} {
		if d.Duration <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}

// Read loads the config file at path on top of [Default], applies
// environment overrides and validates the result. An empty path skips the
// file.
func Read(path string) (*Config, error) {
	config := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("unable to read config %s: %w", path, err)
		}
		if err := json.Unmarshal(b, config); err != nil {
			return nil, fmt.Errorf("unable to parse config %s: %w", path, err)
		}
	}
	if err := config.applyEnv(); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

func (c *Config) applyEnv() error {
	if addr, ok := os.LookupEnv("APP_ADDR"); ok {
		c.Addr = addr
	}
	if mode, ok := os.LookupEnv("APP_MODE"); ok {
		c.Mode = mode
	}
	if v, ok := os.LookupEnv("DEVELOPMENT"); ok && v != "" {
		development, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid DEVELOPMENT value %q: %w", v, err)
		}
		if development {
			c.Mode = "development"
		}
	}

	if secret, ok := os.LookupEnv("SESSION_SECRET"); ok {
		c.Session.Secret = secret
		return nil
	}
	secretFile, ok := os.LookupEnv("SESSION_SECRET_FILE")
	if !ok {
		return nil
	}
	data, err := os.ReadFile(secretFile)
	if err != nil {
		return fmt.Errorf("unable to read session secret file: %w", err)
	}
	c.Session.Secret = strings.TrimSpace(string(data))
	return nil
}
