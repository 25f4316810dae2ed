package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/cargoplanner-go/internal/application/planner"
)

// NewHistoryCommand creates the history command
func NewHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent planning outcomes",
		Long: `Show the most recent plan and refuel outcomes, newest first.

History is kept in the configured database (SQLite by default).

Examples:
  cargoplanner history
  cargoplanner history --limit 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if a.history == nil {
				return fmt.Errorf("plan history requires a database; check the database section of config.yaml")
			}

			ctx := a.context(context.Background())
			resp, err := a.mediator.Send(ctx, &planner.ListPlanHistoryQuery{Limit: limit})
			if err != nil {
				return err
			}
			records := resp.(*planner.ListPlanHistoryResponse).Records

			if len(records) == 0 {
				fmt.Println("No planning history")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "WHEN\tKIND\tMODE\tCARRIER\tORIGIN\tDESTINATION\tCOST (USD)\tSTATUS")
			fmt.Fprintln(w, "----\t----\t----\t-------\t------\t-----------\t----------\t------")
			for _, r := range records {
				carrier := r.CarrierID
				if carrier == "" {
					carrier = "(auto)"
				}
				status := "ok"
				if r.Infeasible != "" {
					status = "infeasible"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.4f,%.4f\t%.4f,%.4f\t%.2f\t%s\n",
					r.RecordedAt.Local().Format("2006-01-02 15:04"),
					r.Kind, r.Mode, carrier,
					r.OriginLat, r.OriginLon, r.DestLat, r.DestLon,
					r.TotalCost, status)
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of records to show")

	return cmd
}
