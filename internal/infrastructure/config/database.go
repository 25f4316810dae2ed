package config

import (
	"fmt"
	"time"
)

// DatabaseConfig locates the local store behind the catalog cache and the
// plan history. The planner still runs when the store cannot be opened.
type DatabaseConfig struct {
	// Disabled skips the store: no cached catalog fallback, no history
	Disabled bool `mapstructure:"disabled"`

	Type string `mapstructure:"type" validate:"required,oneof=postgres sqlite"`

	// URL wins over the discrete postgres fields
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode" validate:"omitempty,oneof=disable require verify-ca verify-full"`

	// Path is the sqlite file; ":memory:" keeps the cache for one process only
	Path string `mapstructure:"path"`

	Pool PoolConfig `mapstructure:"pool"`
}

// PoolConfig sizes the postgres pool. Sqlite always uses one connection.
type PoolConfig struct {
	MaxOpen     int           `mapstructure:"max_open" validate:"min=1"`
	MaxIdle     int           `mapstructure:"max_idle" validate:"min=1"`
	MaxLifetime time.Duration `mapstructure:"max_lifetime"`
}

// DSN returns the driver connection string for the configured type
func (d *DatabaseConfig) DSN() string {
	switch d.Type {
	case "postgres":
		if d.URL != "" {
			return d.URL
		}
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
	case "sqlite":
		if d.Path == "" {
			return ":memory:"
		}
		return d.Path
	}
	return ""
}
