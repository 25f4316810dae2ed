package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/cargoplanner-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage Cargo Planner configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (CP_* prefix, plus BACKEND_URL and DATABASE_URL)
2. Config file (config.yaml)
3. Default values

User preferences (default mode, cargo type, carrier) are stored in
~/.cargoplanner/config.json

Examples:
  cargoplanner config show
  cargoplanner config set-defaults --mode air --cargo perishable
  cargoplanner config set-defaults --carrier feeder_1000
  cargoplanner config clear-defaults`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetDefaultsCommand())
	cmd.AddCommand(newConfigClearDefaultsCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long: `Display the current configuration settings.

Shows both system configuration and user preferences.

Example:
  cargoplanner config show`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				fmt.Printf("Warning: Failed to load config: %v\n", err)
				fmt.Println("Using default configuration.")
				cfg = config.LoadConfigOrDefault(configPath)
			}

			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}

			userCfg, err := userConfigHandler.Load()
			if err != nil {
				fmt.Printf("Warning: Failed to load user config: %v\n\n", err)
				userCfg = &config.UserConfig{}
			}

			fmt.Println("Cargo Planner Configuration")
			fmt.Println("===========================")

			fmt.Println("User Preferences:")
			fmt.Printf("  Config file:      %s\n", userConfigHandler.GetConfigPath())
			fmt.Printf("  Default Mode:     %s\n", orNotSet(userCfg.DefaultMode))
			fmt.Printf("  Default Cargo:    %s\n", orNotSet(userCfg.DefaultCargoType))
			fmt.Printf("  Default Carrier:  %s\n", orNotSet(userCfg.DefaultCarrier))

			fmt.Println("\nSession:")
			fmt.Printf("  Mode:             %s\n", cfg.Session.DefaultMode)
			fmt.Printf("  Cargo Type:       %s\n", cfg.Session.DefaultCargoType)

			fmt.Println("\nPlanning Service:")
			fmt.Printf("  Base URL:         %s\n", cfg.API.BaseURL)
			fmt.Printf("  Timeout:          %s\n", cfg.API.Timeout)
			fmt.Printf("  Rate Limit:       %d req/s (burst: %d)\n",
				cfg.API.RateLimit.Requests, cfg.API.RateLimit.Burst)
			fmt.Printf("  Circuit Breaker:  %d failures, reset after %s\n",
				cfg.API.CircuitBreaker.MaxFailures, cfg.API.CircuitBreaker.ResetTimeout)

			fmt.Println("\nDatabase:")
			if cfg.Database.Disabled {
				fmt.Println("  Disabled (no catalog cache, no plan history)")
			}
			fmt.Printf("  Type:             %s\n", cfg.Database.Type)
			switch {
			case cfg.Database.URL != "":
				fmt.Printf("  URL:              %s\n", maskPassword(cfg.Database.URL))
			case cfg.Database.Type == "sqlite":
				fmt.Printf("  Path:             %s\n", cfg.Database.Path)
			default:
				fmt.Printf("  Host:             %s\n", cfg.Database.Host)
				fmt.Printf("  Port:             %d\n", cfg.Database.Port)
				fmt.Printf("  Database:         %s\n", cfg.Database.Name)
				fmt.Printf("  User:             %s\n", cfg.Database.User)
			}
			fmt.Printf("  Max Connections:  %d\n", cfg.Database.Pool.MaxOpen)

			fmt.Println("\nMetrics:")
			if cfg.Metrics.Enabled {
				fmt.Printf("  Endpoint:         %s\n", cfg.Metrics.Endpoint())
			} else {
				fmt.Println("  Enabled:          false")
			}

			fmt.Println("\nLogging:")
			fmt.Printf("  Level:            %s\n", cfg.Logging.Level)
			fmt.Printf("  Format:           %s\n", cfg.Logging.Format)
			fmt.Printf("  Output:           %s\n", cfg.Logging.Output)

			return nil
		},
	}

	return cmd
}

// newConfigSetDefaultsCommand creates the config set-defaults subcommand
func newConfigSetDefaultsCommand() *cobra.Command {
	var mode, cargo, carrier string

	cmd := &cobra.Command{
		Use:   "set-defaults",
		Short: "Set default session selectors",
		Long: `Set the mode, cargo type, and carrier that new sessions start with.

Only the flags given are changed.

Examples:
  cargoplanner config set-defaults --mode air
  cargoplanner config set-defaults --cargo hazardous --carrier feeder_1000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if mode == "" && cargo == "" && !cmd.Flags().Changed("carrier") {
				return fmt.Errorf("at least one of --mode, --cargo or --carrier is required")
			}
			parsedMode, err := parseModeFlag(mode)
			if err != nil {
				return err
			}
			parsedCargo, err := parseCargoFlag(cargo)
			if err != nil {
				return err
			}

			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}

			err = userConfigHandler.Update(func(u *config.UserConfig) {
				if parsedMode != "" {
					u.DefaultMode = string(parsedMode)
				}
				if parsedCargo != "" {
					u.DefaultCargoType = string(parsedCargo)
				}
				if cmd.Flags().Changed("carrier") {
					u.DefaultCarrier = carrier
				}
			})
			if err != nil {
				return fmt.Errorf("failed to save defaults: %w", err)
			}

			userCfg, err := userConfigHandler.Load()
			if err != nil {
				return fmt.Errorf("failed to reload defaults: %w", err)
			}

			fmt.Println("✓ Defaults saved")
			fmt.Printf("  Mode:     %s\n", orNotSet(userCfg.DefaultMode))
			fmt.Printf("  Cargo:    %s\n", orNotSet(userCfg.DefaultCargoType))
			fmt.Printf("  Carrier:  %s\n", orNotSet(userCfg.DefaultCarrier))

			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "", "Default transport mode")
	cmd.Flags().StringVar(&cargo, "cargo", "", "Default cargo type")
	cmd.Flags().StringVar(&carrier, "carrier", "", "Default carrier model id (empty for automatic)")

	return cmd
}

// newConfigClearDefaultsCommand creates the config clear-defaults subcommand
func newConfigClearDefaultsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear-defaults",
		Short: "Clear default session selectors",
		Long: `Remove saved session defaults.

New sessions fall back to the session section of config.yaml.

Example:
  cargoplanner config clear-defaults`,
		RunE: func(cmd *cobra.Command, args []string) error {
			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}

			if err := userConfigHandler.Clear(); err != nil {
				return fmt.Errorf("failed to clear defaults: %w", err)
			}

			fmt.Println("✓ Defaults cleared")
			return nil
		},
	}

	return cmd
}

func orNotSet(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}

// maskPassword hides the password of a connection URL for display
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); !ok {
		return raw
	}
	u.User = url.UserPassword(u.User.Username(), "xxxxx")
	return u.String()
}
