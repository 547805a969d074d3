// Package config loads the server configuration from an optional config
// file and MINES_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/vancomm/minesweeper-arcade/internal/wallet"
)

const EnvPrefix = "MINES"

type Config struct {
	Mode           string         `mapstructure:"mode"`
	Addr           string         `mapstructure:"addr"`
	Store          string         `mapstructure:"store"`
	AllowedOrigins []string       `mapstructure:"allowed_origins"`
	Postgres       PostgresConfig `mapstructure:"postgres"`
	JWT            JWTConfig      `mapstructure:"jwt"`
	Cookies        CookiesConfig  `mapstructure:"cookies"`
	Game           GameConfig     `mapstructure:"game"`
	Credits        CreditsConfig  `mapstructure:"credits"`
	Admin          AdminConfig    `mapstructure:"admin"`
	Log            LogConfig      `mapstructure:"log"`
}

type GameConfig struct {
	Duration time.Duration `mapstructure:"duration"`
	Preset   string        `mapstructure:"preset"`
	// Retention is how long finished rounds stay fetchable.
	Retention time.Duration `mapstructure:"retention"`
}

type CreditsConfig struct {
	Allowance int           `mapstructure:"allowance"`
	Cap       int           `mapstructure:"cap"`
	Window    time.Duration `mapstructure:"window"`
}

type AdminConfig struct {
	Addresses []string `mapstructure:"addresses"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// Load reads path (json, yaml or toml, by extension) when it exists, then
// applies MINES_* environment overrides, e.g. MINES_POSTGRES_HOST.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("unable to stat config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadWithDotEnv is Load that, in development mode, also reads envFiles
// (.env when none are given) into the environment and loads again.
// Variables already set in the environment win.
func LoadWithDotEnv(path string, envFiles ...string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil || !cfg.Development() {
		return cfg, err
	}
	if err := godotenv.Load(envFiles...); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("unable to load .env: %w", err)
	}
	return Load(path)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "development")
	v.SetDefault("addr", ":8080")
	v.SetDefault("store", "postgres")
	v.SetDefault("allowed_origins", []string{})

	v.SetDefault("postgres.url", "")
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "mines")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.password_file", "")
	v.SetDefault("postgres.db_name", "mines")
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("postgres.pool_size", 10)
	v.SetDefault("postgres.connect_timeout", "10s")
	v.SetDefault("postgres.max_conn_lifetime", "1h")
	v.SetDefault("postgres.max_conn_idle_time", "30m")

	v.SetDefault("jwt.private_key", "")
	v.SetDefault("jwt.private_key_file", "")
	v.SetDefault("jwt.public_key", "")
	v.SetDefault("jwt.public_key_file", "")
	v.SetDefault("jwt.token_lifetime", "720h")

	v.SetDefault("cookies.domain", "")
	v.SetDefault("cookies.secure", true)
	v.SetDefault("cookies.same_site", "strict")

	v.SetDefault("game.duration", "180s")
	v.SetDefault("game.preset", "classic")
	v.SetDefault("game.retention", "10m")

	v.SetDefault("credits.allowance", 3)
	v.SetDefault("credits.cap", 10)
	v.SetDefault("credits.window", "24h")

	v.SetDefault("admin.addresses", []string{})

	v.SetDefault("log.level", "")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size", 50)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 28)
}

func (c *Config) validate() error {
	switch c.Store {
	case "postgres", "memory":
	default:
		return fmt.Errorf("unknown store %q, expected postgres or memory", c.Store)
	}
	if c.Game.Duration < time.Second {
		return fmt.Errorf("game duration %s is shorter than a second", c.Game.Duration)
	}
	if c.Credits.Allowance < 0 || c.Credits.Cap < c.Credits.Allowance {
		return fmt.Errorf(
			"credits allowance %d must be within [0, cap %d]",
			c.Credits.Allowance, c.Credits.Cap,
		)
	}
	for _, a := range c.Admin.Addresses {
		if !wallet.Valid(a) {
			return fmt.Errorf("admin address %q is not a wallet address", a)
		}
	}
	return nil
}

func (c *Config) Production() bool {
	return c.Mode == "production"
}

func (c *Config) Development() bool {
	return c.Mode != "production"
}

// LogLevel is the configured level, debug in development and info
// otherwise when unset.
func (c *Config) LogLevel() (logrus.Level, error) {
	if c.Log.Level == "" {
		if c.Development() {
			return logrus.DebugLevel, nil
		}
		return logrus.InfoLevel, nil
	}
	return logrus.ParseLevel(c.Log.Level)
}

// IsAdmin reports whether a normalized wallet address may administer the
// leaderboard. Configured addresses are compared case-insensitively.
func (c *Config) IsAdmin(address string) bool {
	return slices.ContainsFunc(c.Admin.Addresses, func(a string) bool {
		return strings.EqualFold(a, address)
	})
}

func (c *Config) Fields() logrus.Fields {
	return logrus.Fields{
		"mode":                 c.Mode,
		"addr":                 c.Addr,
		"store":                c.Store,
		"allowed_origins":      c.AllowedOrigins,
		"pg_host":              c.Postgres.Host,
		"pg_port":              c.Postgres.Port,
		"pg_user":              c.Postgres.User,
		"pg_db_name":           c.Postgres.DBName,
		"pg_pool_size":         c.Postgres.PoolSize,
		"jwt_token_lifetime":   c.JWT.TokenLifetime.String(),
		"jwt_private_key_file": c.JWT.PrivateKeyFile,
		"jwt_public_key_file":  c.JWT.PublicKeyFile,
		"cookies_domain":       c.Cookies.Domain,
		"cookies_same_site":    c.Cookies.SameSite,
		"game_duration":        c.Game.Duration.String(),
		"game_preset":          c.Game.Preset,
		"credits_allowance":    c.Credits.Allowance,
		"credits_cap":          c.Credits.Cap,
		"credits_window":       c.Credits.Window.String(),
		"admins":               len(c.Admin.Addresses),
		"log_file":             c.Log.File,
	}
}
