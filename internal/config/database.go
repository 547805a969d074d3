package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresConfig struct {
	// URL takes precedence over the individual connection fields.
	URL             string        `mapstructure:"url"`
	Host            string        `mapstructure:"host"`
	Port            uint16        `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	PasswordFile    string        `mapstructure:"password_file"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	PoolSize        int           `mapstructure:"pool_size"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

func (c PostgresConfig) password() (string, error) {
	if c.Password != "" || c.PasswordFile == "" {
		return c.Password, nil
	}
	data, err := os.ReadFile(c.PasswordFile)
	if err != nil {
		return "", fmt.Errorf("unable to read from password file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// DatabaseURL is the postgresql:// form used by the migrator.
func (c PostgresConfig) DatabaseURL() (string, error) {
	if c.URL != "" {
		return c.URL, nil
	}
	password, err := c.password()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.User),
		url.QueryEscape(password),
		c.Host,
		c.Port,
		c.DBName,
		c.SSLMode,
	), nil
}

func (c PostgresConfig) DSN() (string, error) {
	if c.URL != "" {
		return c.URL, nil
	}
	password, err := c.password()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"user=%s password=%s host=%s port=%d dbname=%s sslmode=%s",
		c.User, password, c.Host, c.Port, c.DBName, c.SSLMode,
	), nil
}

func (c PostgresConfig) PgxpoolConfig() (*pgxpool.Config, error) {
	dsn, err := c.DSN()
	if err != nil {
		return nil, err
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	if c.PoolSize > 0 {
		poolConfig.MaxConns = int32(c.PoolSize)
		poolConfig.MinConns = max(1, int32(c.PoolSize/4))
	}
	if c.ConnectTimeout > 0 {
		poolConfig.ConnConfig.ConnectTimeout = c.ConnectTimeout
	}
	if c.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = c.MaxConnLifetime
	}
	if c.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = c.MaxConnIdleTime
	}
	poolConfig.HealthCheckPeriod = 30 * time.Second

	return poolConfig, nil
}
