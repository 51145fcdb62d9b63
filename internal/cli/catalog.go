package cli

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/ShelfPlan/internal/importer"
	"github.com/piwi3910/ShelfPlan/internal/model"
	"github.com/piwi3910/ShelfPlan/internal/project"
)

func newCatalogCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the product catalog",
	}
	cmd.AddCommand(newCatalogListCmd(e))
	cmd.AddCommand(newCatalogImportCmd(e))
	cmd.AddCommand(newCatalogExportCmd(e))
	return cmd
}

func newCatalogListCmd(e *env) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List catalog products",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := e.catalog(cmd.Context(), "")
			if err != nil {
				return err
			}

			products := catalog.Filter(filter)
			if len(products) == 0 {
				printInfo(cmd.OutOrStdout(), "No products match %q", filter)
				return nil
			}

			rows := make([][]string, len(products))
			for i, p := range products {
				rows[i] = []string{
					p.ID,
					p.Name,
					strconv.FormatFloat(p.WidthCm, 'f', -1, 64),
					strconv.FormatFloat(p.HeightCm, 'f', -1, 64),
				}
			}
			printTable(cmd.OutOrStdout(), []string{"ID", "Name", "Width", "Height"}, rows)
			printDetail(cmd.OutOrStdout(), "%d of %d products", len(products), len(catalog))
			return nil
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "only list products whose name or ID contains this text")
	return cmd
}

func newCatalogImportCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Merge products from a CSV, Excel or catalog JSON file into the stored catalog",
		Long: `Merge products into the stored catalog. Products whose ID is already in the
catalog are skipped. CSV files may use comma, semicolon, tab or pipe delimiters;
columns are matched by header name (id, name, width, height, image).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			out := cmd.OutOrStdout()
			path := args[0]

			catalog, err := project.LoadCatalog(e.storedCatalogPath())
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}

			var added int
			if strings.EqualFold(filepath.Ext(path), ".json") {
				added, err = project.ImportCatalog(path, catalog)
				if err != nil {
					return fmt.Errorf("import %s: %w", filepath.Base(path), err)
				}
			} else {
				result := importer.Import(path)
				for _, w := range result.Warnings {
					logger.Debug(w, "path", path)
				}
				for _, msg := range result.Errors {
					printWarning(out, "%s", msg)
				}
				if len(result.Products) == 0 {
					return fmt.Errorf("no products imported from %s", filepath.Base(path))
				}
				added = catalog.Merge(result.Products)
			}

			if err := project.SaveCatalog(e.storedCatalogPath(), catalog); err != nil {
				return fmt.Errorf("save catalog: %w", err)
			}
			e.rememberCatalog(cmd, path)

			printSuccess(out, "Imported %d new products (%d in catalog)", added, len(catalog))
			return nil
		},
	}
}

// rememberCatalog records path in the recent catalogs list of the settings.
// Failures are only logged since the import itself succeeded.
func (e *env) rememberCatalog(cmd *cobra.Command, path string) {
	logger := loggerFromContext(cmd.Context())
	config, err := e.appConfig()
	if err != nil {
		logger.Warn("could not read settings", "err", err)
		return
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	config.AddRecentCatalog(path, 10)
	if err := project.SaveAppConfig(e.path("config.json"), config); err != nil {
		logger.Warn("could not save settings", "err", err)
	}
}

func newCatalogExportCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.xlsx>",
		Short: "Write the catalog to an Excel workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := e.catalog(cmd.Context(), "")
			if err != nil {
				return err
			}
			if err := importer.ExportExcel(args[0], catalog.Products()); err != nil {
				return fmt.Errorf("export catalog: %w", err)
			}
			printSuccess(cmd.OutOrStdout(), "Exported %d products", len(catalog))
			printFile(cmd.OutOrStdout(), args[0])
			return nil
		},
	}
}

// describeProduct formats a product as "Name (ID, W x H cm)".
func describeProduct(p model.Product) string {
	return fmt.Sprintf("%s (%s, %g x %g cm)", p.Name, p.ID, p.WidthCm, p.HeightCm)
}
