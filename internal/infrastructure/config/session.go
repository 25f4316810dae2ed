package config

// SessionConfig holds the selector values a new session starts with
type SessionConfig struct {
	DefaultMode      string `mapstructure:"default_mode" validate:"required,oneof=ocean air road rail"`
	DefaultCargoType string `mapstructure:"default_cargo_type" validate:"required,oneof=general hazardous perishable bulk"`
}
