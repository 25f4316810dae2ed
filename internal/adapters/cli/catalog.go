package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/cargoplanner-go/internal/domain/catalog"
)

// NewPortsCommand creates the ports command
func NewPortsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ports",
		Short: "List seeded ports",
		Long: `List the ports known to the planning service.

When the service is unreachable the last cached catalog is shown instead.

Examples:
  cargoplanner ports`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx := a.context(context.Background())
			resp, err := a.loadCatalog(ctx)
			if err != nil {
				return fmt.Errorf("failed to load catalog: %w", err)
			}
			printCatalogWarnings(resp.Warnings)

			if len(resp.Catalog.Ports) == 0 {
				fmt.Println("No ports available")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tLAT\tLON\tBUNKER\tFEE")
			fmt.Fprintln(w, "--\t----\t---\t---\t------\t---")
			for _, p := range resp.Catalog.Ports {
				fee := "-"
				if p.PortFee != nil {
					fee = fmt.Sprintf("%.2f", *p.PortFee)
				}
				fmt.Fprintf(w, "%d\t%s\t%.4f\t%.4f\t%.2f\t%s\n", p.ID, p.Name, p.Lat, p.Lon, p.BunkerPrice, fee)
			}
			w.Flush()

			fmt.Printf("\n%d ports (source: %s)\n", len(resp.Catalog.Ports), resp.Source)
			return nil
		},
	}

	return cmd
}

// NewCarriersCommand creates the carriers command
func NewCarriersCommand() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "carriers",
		Short: "List carrier models",
		Long: `List the carrier models known to the planning service.

With --mode only carriers operating in that mode are listed.

Examples:
  cargoplanner carriers
  cargoplanner carriers --mode air`,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := parseModeFlag(mode)
			if err != nil {
				return err
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx := a.context(context.Background())
			resp, err := a.loadCatalog(ctx)
			if err != nil {
				return fmt.Errorf("failed to load catalog: %w", err)
			}
			printCatalogWarnings(resp.Warnings)

			carriers := resp.Catalog.Carriers
			if filter != "" {
				carriers = catalog.FilterCarriersByMode(carriers, filter)
			}
			if len(carriers) == 0 {
				fmt.Println("No carriers available")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tMODE\tPROFILE")
			fmt.Fprintln(w, "--\t----\t-------")
			for _, c := range carriers {
				fmt.Fprintf(w, "%s\t%s\t%s\n", c.ID, c.Type, formatAttributes(c))
			}
			w.Flush()

			fmt.Printf("\n%d carriers (source: %s)\n", len(carriers), resp.Source)
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "", "Only list carriers for this mode (ocean, air, road, rail)")

	return cmd
}

func formatAttributes(c catalog.Carrier) string {
	keys := c.AttributeKeys()
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, c.Attributes[k]))
	}
	return strings.Join(parts, " ")
}

func printCatalogWarnings(warnings []string) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
}
