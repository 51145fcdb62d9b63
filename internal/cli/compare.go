package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/piwi3910/ShelfPlan/internal/engine"
)

func newCompareCmd(e *env) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "compare <plan.toml>",
		Short: "Replay a fill plan on every rack template",
		Long: `Replay a fill plan's products on every known rack template, built-in and
custom, and report how many products each rack holds. The plan's rack
overrides are not applied.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			ws, err := e.openPlan(ctx, args[0])
			if err != nil {
				return err
			}

			results := engine.CompareRacks(ws.requests(), ws.catalog, ws.store.Templates)
			if asJSON {
				return writeResultJSON(out, results)
			}

			best := -1
			for i, r := range results {
				if best < 0 || r.Result.Placed > results[best].Result.Placed ||
					(r.Result.Placed == results[best].Result.Placed && r.Result.FillPercent > results[best].Result.FillPercent) {
					best = i
				}
			}

			rows := make([][]string, len(results))
			for i, r := range results {
				mark := ""
				if i == best {
					mark = iconSuccess
				}
				rows[i] = []string{
					r.Name,
					strconv.Itoa(r.Result.Placed),
					strconv.Itoa(len(r.Result.Rejected)),
					fmt.Sprintf("%.1f%%", r.Result.FillPercent),
					mark,
				}
			}
			printTitle(out, "Rack comparison")
			printTable(out, []string{"Rack", "Placed", "Rejected", "Fill", "Best"}, rows)
			if best >= 0 {
				printSuccess(out, "%s holds the most products", results[best].Name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the comparison as JSON")
	return cmd
}
