package ui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"

	"github.com/piwi3910/ShelfPlan/internal/export"
	"github.com/piwi3910/ShelfPlan/internal/importer"
	"github.com/piwi3910/ShelfPlan/internal/planogram"
	"github.com/piwi3910/ShelfPlan/internal/project"
)

// ─── Fill Plans ────────────────────────────────────────────

func (a *App) openFillPlan() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		path := reader.URI().Path()
		rejected, err := a.loadFillPlan(path)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		msg := fmt.Sprintf("Opened %s.", filepath.Base(path))
		if rejected > 0 {
			msg += fmt.Sprintf(" %d product(s) did not fit and were skipped.", rejected)
		}
		a.setStatus("%s", msg)
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".toml"}))
	d.Show()
}

// loadFillPlan replaces the rack with the plan's rack and drops its products
// in order. Products from the plan's catalog are merged into the catalog
// first. It returns the number of drops that were rejected.
func (a *App) loadFillPlan(path string) (int, error) {
	plan, err := project.LoadPlan(path)
	if err != nil {
		return 0, err
	}
	rack, err := plan.ResolveRack(a.templates)
	if err != nil {
		return 0, err
	}
	if cp := plan.CatalogPath(); cp != "" {
		if err := a.importCatalogPath(cp); err != nil {
			a.logger.Warn("plan catalog not imported", "path", cp, "err", err)
		}
	}

	a.plan = planogram.New(rack, planogram.WithLogger(a.logger))
	rejected := 0
	for i, ids := range plan.Requests() {
		for _, id := range ids {
			if _, err := a.plan.AddPlacement(i, id, a.catalog); err != nil {
				rejected++
			}
		}
	}
	a.selectedShelf = -1
	if a.templateSelect != nil {
		a.templateSelect.SetSelected(rack.Name)
	}
	a.refreshRack()
	a.logger.Info("fill plan opened", "path", path, "rejected", rejected)
	return rejected, nil
}

func (a *App) saveFillPlan() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		if err := a.writeFillPlan(path); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.setStatus("Saved fill plan to %s.", path)
	}, a.window)
	d.SetFileName("fill-plan.toml")
	d.Show()
}

// writeFillPlan saves the shelf contents as a plan on the rack's template,
// recording any rack edits as overrides.
func (a *App) writeFillPlan(path string) error {
	rack := a.plan.Rack()
	t := a.templates.FindByID(rack.ID)
	if t == nil {
		t = a.templates.FindByID(a.config.DefaultTemplateID)
	}
	if t == nil {
		return fmt.Errorf("no rack template to save %q against", rack.Name)
	}
	plan := project.PlanFromRequests(rack.Name, t.ID, a.plan.Requests())
	plan.Rack = project.OverridesFrom(t.Config, rack)
	return project.SavePlan(path, plan)
}

// ─── Catalog Import / Export ───────────────────────────────

func (a *App) importCatalogFile() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		if err := a.importCatalogPath(reader.URI().Path()); err != nil {
			dialog.ShowError(err, a.window)
		}
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".csv", ".xlsx", ".xls", ".json"}))
	d.Show()
}

// importCatalogPath merges the products of a CSV, Excel or catalog JSON file
// into the catalog and saves it.
func (a *App) importCatalogPath(path string) error {
	var added int
	if strings.EqualFold(filepath.Ext(path), ".json") {
		n, err := project.ImportCatalog(path, a.catalog)
		if err != nil {
			return err
		}
		added = n
	} else {
		result := importer.Import(path)
		n, err := a.handleImportResult(result)
		if err != nil {
			return err
		}
		added = n
	}

	if err := project.SaveCatalog(a.catalogPath(), a.catalog); err != nil {
		return fmt.Errorf("failed to save catalog: %w", err)
	}
	if abs, err := filepath.Abs(path); err == nil {
		a.config.AddRecentCatalog(abs, 10)
		if err := a.saveConfig(); err != nil {
			a.logger.Warn("could not save settings", "err", err)
		}
	}
	a.refreshCatalogList()
	a.refreshRack()
	a.setStatus("Imported %d new product(s) from %s.", added, filepath.Base(path))
	return nil
}

// handleImportResult merges imported products into the catalog. Row errors
// are reported together; warnings are only logged.
func (a *App) handleImportResult(result importer.ImportResult) (int, error) {
	for _, w := range result.Warnings {
		a.logger.Warn("import", "warning", w)
	}
	if len(result.Products) == 0 {
		if len(result.Errors) > 0 {
			return 0, errors.New("Errors encountered during import:\n\n" + strings.Join(result.Errors, "\n"))
		}
		return 0, errors.New("no products found in file")
	}
	if len(result.Errors) > 0 && a.window != nil {
		dialog.ShowInformation("Import Incomplete",
			fmt.Sprintf("%d rows had errors and were skipped:\n\n%s", len(result.Errors), strings.Join(result.Errors, "\n")),
			a.window)
	}
	return a.catalog.Merge(result.Products), nil
}

func (a *App) exportCatalogExcel() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		if err := importer.ExportExcel(path, a.catalog.Products()); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		dialog.ShowInformation("Export Complete",
			fmt.Sprintf("%d products saved to %s", len(a.catalog), path), a.window)
	}, a.window)
	d.SetFileName("catalog.xlsx")
	d.Show()
}

// ─── Planogram Export ──────────────────────────────────────

// layout returns the current rack ready for export.
func (a *App) layout() export.Layout {
	return export.Layout{
		Title:   a.plan.Rack().Name,
		Rack:    a.plan.Rack(),
		Shelves: a.plan.Shelves(),
		Catalog: a.catalog,
	}
}

func (a *App) exportPDF() {
	a.exportFile("planogram.pdf", "Planogram", export.ExportPDF)
}

func (a *App) exportLabels() {
	a.exportFile("shelf-labels.pdf", "Shelf labels", export.ExportLabels)
}

func (a *App) exportFile(defaultName, what string, write func(string, export.Layout) error) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		if err := write(path, a.layout()); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		dialog.ShowInformation("Export Complete",
			fmt.Sprintf("%s saved to %s", what, path), a.window)
	}, a.window)
	d.SetFileName(defaultName)
	d.Show()
}
