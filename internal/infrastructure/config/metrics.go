package config

import (
	"net"
	"strconv"
)

// MetricsConfig controls the optional /metrics endpoint. Planning calls,
// circuit state and handled commands are only counted while it is enabled.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`

	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Path string `mapstructure:"path" validate:"omitempty,startswith=/"`
}

// Endpoint renders host:port/path for display
func (m MetricsConfig) Endpoint() string {
	return net.JoinHostPort(m.Host, strconv.Itoa(m.Port)) + m.Path
}
