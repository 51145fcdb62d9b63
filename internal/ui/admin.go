package ui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/ShelfPlan/internal/model"
	"github.com/piwi3910/ShelfPlan/internal/project"
)

// showSettingsDialog displays the application settings editor.
func (a *App) showSettingsDialog() {
	cfg := a.config

	// Helper to create a float entry bound to a pointer
	floatEntry := func(val *float64) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(fmt.Sprintf("%.1f", *val))
		e.OnChanged = func(text string) {
			if v, err := strconv.ParseFloat(text, 64); err == nil && model.ValidLength(v) {
				*val = v
			}
		}
		return e
	}

	templateSelect := widget.NewSelect(a.templates.Names(), func(selected string) {
		if t := a.templates.FindByName(selected); t != nil {
			cfg.DefaultTemplateID = t.ID
		}
	})
	if t := a.templates.FindByID(cfg.DefaultTemplateID); t != nil {
		templateSelect.SetSelected(t.Name)
	}

	themeSelect := widget.NewSelect([]string{"system", "light", "dark"}, func(selected string) {
		cfg.Theme = selected
	})
	themeSelect.SetSelected(cfg.Theme)

	formItems := []*widget.FormItem{
		widget.NewFormItem("Theme", themeSelect),
		widget.NewFormItem("Zoom (px per cm)", floatEntry(&cfg.PixelsPerCm)),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("Default Rack", templateSelect),
		widget.NewFormItem("Default Edge Margin (cm)", floatEntry(&cfg.DefaultEdgeMargin)),
		widget.NewFormItem("Default Gap (cm)", floatEntry(&cfg.DefaultGap)),
	}

	d := dialog.NewForm("Settings", "Save", "Cancel", formItems,
		func(ok bool) {
			if !ok {
				return
			}
			if err := a.applySettings(cfg); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save settings: %w", err), a.window)
			} else {
				dialog.ShowInformation("Settings Saved", "Application settings have been saved.", a.window)
			}
		},
		a.window,
	)
	d.Resize(fyne.NewSize(450, 350))
	d.Show()
}

// applySettings saves cfg and applies the theme and zoom right away.
func (a *App) applySettings(cfg model.AppConfig) error {
	if !model.ValidSize(cfg.PixelsPerCm) {
		cfg.PixelsPerCm = model.PixelsPerCm
	}
	a.config = cfg
	if a.app != nil {
		a.app.Settings().SetTheme(a.Theme())
	}
	if a.rackCanvas != nil {
		a.rackCanvas.SetZoom(cfg.PixelsPerCm)
	}
	return a.saveConfig()
}

// showImportExportDialog displays the import/export data dialog.
func (a *App) showImportExportDialog() {
	exportBtn := widget.NewButton("Export All Data...", func() {
		d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil || writer == nil {
				return
			}
			defer writer.Close()
			path := writer.URI().Path()
			backup := project.NewBackup(a.config, a.templates, a.catalog)
			if err := project.ExportAllData(path, backup); err != nil {
				dialog.ShowError(err, a.window)
			} else {
				dialog.ShowInformation("Export Complete",
					fmt.Sprintf("All application data exported to:\n%s", path), a.window)
			}
		}, a.window)
		d.SetFileName("shelfplan-backup.json")
		d.Show()
	})

	importBtn := widget.NewButton("Import All Data...", func() {
		dialog.ShowConfirm("Import Data",
			"Importing data will replace your settings and add the backup's rack templates and products.\n\nAre you sure you want to continue?",
			func(ok bool) {
				if !ok {
					return
				}
				d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
					if err != nil || reader == nil {
						return
					}
					defer reader.Close()
					backup, err := a.restoreBackup(reader.URI().Path())
					if err != nil {
						dialog.ShowError(err, a.window)
						return
					}
					dialog.ShowInformation("Import Complete",
						fmt.Sprintf("Data imported successfully from backup created at %s.", backup.CreatedAt), a.window)
				}, a.window)
				d.Show()
			},
			a.window,
		)
	})

	content := container.NewVBox(
		widget.NewLabel("Export settings, custom rack templates and the product catalog to a backup file,\nor import from a previously exported backup."),
		widget.NewSeparator(),
		exportBtn,
		widget.NewSeparator(),
		importBtn,
	)

	d := dialog.NewCustom("Import / Export Data", "Close", content, a.window)
	d.Resize(fyne.NewSize(450, 250))
	d.Show()
}

// restoreBackup applies a backup file and saves every store it touched.
func (a *App) restoreBackup(path string) (project.BackupData, error) {
	backup, err := project.ImportAllData(path)
	if err != nil {
		return backup, err
	}
	cfg := backup.Restore(&a.templates, a.catalog)
	if err := project.SaveRackTemplates(a.templatesPath(), a.templates); err != nil {
		return backup, fmt.Errorf("failed to save imported rack templates: %w", err)
	}
	if err := project.SaveCatalog(a.catalogPath(), a.catalog); err != nil {
		return backup, fmt.Errorf("failed to save imported catalog: %w", err)
	}
	if err := a.applySettings(cfg); err != nil {
		return backup, fmt.Errorf("failed to save imported settings: %w", err)
	}
	a.refreshTemplateSelect()
	a.refreshCatalogList()
	a.refreshRack()
	return backup, nil
}
