package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	backendURL string
	verbose    bool
	noColor    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cargoplanner",
		Short: "Cargo Planner CLI - plan multi-modal cargo routes and refuel stops",
		Long: `Cargo Planner talks to a planning service to compute multi-leg cargo
routes and optimal refuel stops between an origin and a destination.

The backend address comes from BACKEND_URL, CP_API_BASE_URL, config.yaml,
or --backend-url (default http://localhost:8000).

Examples:
  cargoplanner ports
  cargoplanner carriers --mode ocean
  cargoplanner plan --origin-port Rotterdam --dest-port Singapore --mode ocean
  cargoplanner refuel --origin 51.9,4.5 --dest 1.26,103.84 --carrier feeder_1000
  cargoplanner interactive
  cargoplanner history --limit 10`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend-url", "",
		"Planning service base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"Disable colored output")

	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewPortsCommand())
	rootCmd.AddCommand(NewCarriersCommand())
	rootCmd.AddCommand(NewPlanCommand())
	rootCmd.AddCommand(NewRefuelCommand())
	rootCmd.AddCommand(NewInteractiveCommand())
	rootCmd.AddCommand(NewHistoryCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
