package config

import "time"

// APIConfig holds planning service client configuration
type APIConfig struct {
	// Base URL of the planning backend
	BaseURL string `mapstructure:"base_url" validate:"required,url"`

	// Per-request timeout
	Timeout time.Duration `mapstructure:"timeout" validate:"required"`

	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	// Maximum requests per second
	Requests int `mapstructure:"requests" validate:"min=1"`

	// Burst size for token bucket
	Burst int `mapstructure:"burst" validate:"min=1"`
}

// CircuitBreakerConfig controls when the client stops calling a failing backend.
// Calls are never retried; the breaker only short-circuits.
type CircuitBreakerConfig struct {
	MaxFailures  int           `mapstructure:"max_failures" validate:"min=1"`
	ResetTimeout time.Duration `mapstructure:"reset_timeout" validate:"required"`
}
