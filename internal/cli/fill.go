package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/piwi3910/ShelfPlan/internal/engine"
	"github.com/piwi3910/ShelfPlan/internal/export"
	"github.com/piwi3910/ShelfPlan/internal/model"
)

func newFillCmd(e *env) *cobra.Command {
	var (
		pdfPath    string
		labelsPath string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "fill <plan.toml>",
		Short: "Apply a fill plan and print the resulting layout",
		Long: `Apply a fill plan: every listed product is dropped on its shelf in order,
exactly as in the editor. Products that do not fit are reported and skipped.`,
		Example: `  planogram fill spring.toml
  planogram fill spring.toml --pdf spring.pdf --labels spring-labels.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			logger := loggerFromContext(ctx)

			ws, err := e.openPlan(ctx, args[0])
			if err != nil {
				return err
			}

			p, rejected := ws.fill(ctx)
			shelves := p.Shelves()
			summaries, fill := p.Summary(ws.catalog)
			logger.Debug("plan applied", "plan", args[0], "rejected", len(rejected), "fill", fill)

			if asJSON {
				return writeResultJSON(out, engine.ReplayResult{
					Rack:        p.Rack(),
					Shelves:     shelves,
					Placed:      placedCount(shelves),
					Rejected:    rejected,
					FillPercent: fill,
				})
			}

			title := ws.plan.Name
			if title == "" {
				title = ws.rack.Name
			}
			printTitle(out, "%s", title)
			printDetail(out, "%s, %g cm wide, %d shelves of %g cm, margin %g cm, gap %g cm",
				ws.rack.Name, ws.rack.WidthCm, ws.rack.NumberOfShelves, ws.rack.ShelfHeightCm,
				ws.rack.EdgeMarginCm, ws.rack.InterProductGapCm)
			fmt.Fprintln(out)

			// Top shelf first, as the rack is seen from the front.
			for i := len(shelves) - 1; i >= 0; i-- {
				printShelf(out, i, shelves[i], summaries[i], ws.catalog)
			}

			fmt.Fprintln(out)
			printKeyValue(out, "Placed", fmt.Sprintf("%d", placedCount(shelves)))
			printKeyValue(out, "Rejected", fmt.Sprintf("%d", len(rejected)))
			printKeyValue(out, "Fill", percent(fill))
			for _, d := range rejected {
				printWarning(out, "shelf %d: %s rejected: %s", d.ShelfIndex, d.ProductID, d.Reason)
			}

			layout := export.Layout{
				Title:    title,
				Rack:     p.Rack(),
				Shelves:  shelves,
				Catalog:  ws.catalog,
				Rejected: rejected,
			}
			if pdfPath != "" {
				if err := export.ExportPDF(pdfPath, layout); err != nil {
					return fmt.Errorf("export PDF: %w", err)
				}
				printSuccess(out, "Wrote planogram PDF")
				printFile(out, pdfPath)
			}
			if labelsPath != "" {
				if err := export.ExportLabels(labelsPath, layout); err != nil {
					return fmt.Errorf("export labels: %w", err)
				}
				printSuccess(out, "Wrote shelf labels")
				printFile(out, labelsPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pdfPath, "pdf", "", "write the layout to a PDF file")
	cmd.Flags().StringVar(&labelsPath, "labels", "", "write QR shelf-edge labels to a PDF file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the layout as JSON")
	return cmd
}

func printShelf(w io.Writer, index int, shelf model.Shelf, summary engine.ShelfSummary, catalog model.Catalog) {
	printInfo(w, "Shelf %d  %d products, %s free, %s",
		index, summary.Resolved, cm(summary.RemainingCm), percent(summary.FillPercent))
	for _, pp := range engine.SortedPlacements(shelf, catalog) {
		printDetail(w, "%7.1f cm  %s", pp.Left(), describeProduct(pp.Product))
	}
	if summary.Dangling > 0 {
		printWarning(w, "  %d placements reference products missing from the catalog", summary.Dangling)
	}
}

func placedCount(shelves []model.Shelf) int {
	n := 0
	for _, s := range shelves {
		n += len(s.Placements)
	}
	return n
}

func writeResultJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
