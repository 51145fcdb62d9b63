package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/ShelfPlan/internal/engine"
)

func newCheckCmd(e *env) *cobra.Command {
	var (
		planPath string
		template string
		shelf    int
	)

	cmd := &cobra.Command{
		Use:   "check <product-id>",
		Short: "Check whether a product fits on a shelf",
		Long: `Check whether a product can be appended to a shelf and where it would go.

With --plan the shelf is first filled with the plan's products, so the answer
reflects the planned layout. Otherwise the shelf of the chosen template is empty.`,
		Example: `  planogram check lipstick-01 --template small-promo
  planogram check shampoo-01 --plan spring.toml --shelf 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			var (
				ws  *workspace
				err error
			)
			if planPath != "" {
				ws, err = e.openPlan(ctx, planPath)
			} else {
				ws, err = e.openTemplate(ctx, template)
			}
			if err != nil {
				return err
			}

			product, ok := ws.catalog.Lookup(args[0])
			if !ok {
				return fmt.Errorf("product %q is not in the catalog", args[0])
			}

			p, _ := ws.fill(ctx)
			s, err := p.Shelf(shelf)
			if err != nil {
				return fmt.Errorf("shelf %d: %w (rack has %d shelves)", shelf, err, ws.rack.NumberOfShelves)
			}

			printKeyValue(out, "Rack", ws.rack.Name)
			printKeyValue(out, "Product", describeProduct(product))
			printKeyValue(out, "Shelf", fmt.Sprintf("%d (%d placed)", shelf, len(s.Placements)))
			printKeyValue(out, "Remaining", cm(engine.RemainingSpace(s, ws.catalog, ws.rack)))

			fit := engine.CanFit(product, s, ws.catalog, ws.rack)
			if !fit.Fits {
				printError(out, "Does not fit: %s", fit.Reason)
				return nil
			}
			x, _ := engine.NextPosition(product, s, ws.catalog, ws.rack)
			printSuccess(out, "Fits at x = %s", cm(x))
			printDetail(out, "room for %d facings", engine.Facings(product, s, ws.catalog, ws.rack))
			return nil
		},
	}

	cmd.Flags().StringVarP(&planPath, "plan", "p", "", "fill plan whose layout the shelf starts from")
	cmd.Flags().StringVarP(&template, "template", "t", "", "rack template ID or name (default: configured default template)")
	cmd.Flags().IntVarP(&shelf, "shelf", "s", 0, "shelf index, bottom shelf = 0")
	cmd.MarkFlagsMutuallyExclusive("plan", "template")
	return cmd
}
