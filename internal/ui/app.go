package ui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/charmbracelet/log"

	"github.com/piwi3910/ShelfPlan/internal/engine"
	"github.com/piwi3910/ShelfPlan/internal/model"
	"github.com/piwi3910/ShelfPlan/internal/planogram"
	"github.com/piwi3910/ShelfPlan/internal/project"
	"github.com/piwi3910/ShelfPlan/internal/ui/widgets"
)

// App holds all application state and UI references.
type App struct {
	app    fyne.App
	window fyne.Window
	logger *log.Logger

	configDir string
	config    model.AppConfig
	templates model.TemplateStore
	catalog   model.Catalog
	plan      *planogram.Planogram

	selectedProduct string
	selectedShelf   int

	// UI references for dynamic updates
	visible        []model.Product
	productList    *widget.List
	searchEntry    *widget.Entry
	templateSelect *widget.Select
	marginEntry    *widget.Entry
	gapEntry       *widget.Entry
	rackCanvas     *widgets.RackCanvas
	statusLabel    *widget.Label
	summaryLabel   *widget.Label
}

// NewApp loads settings, rack templates and the catalog from configDir and
// starts with an empty rack of the default template. Load failures are
// logged and fall back to defaults.
func NewApp(application fyne.App, window fyne.Window, logger *log.Logger, configDir string) *App {
	if logger == nil {
		logger = log.Default()
	}
	a := &App{
		app:           application,
		window:        window,
		logger:        logger,
		configDir:     configDir,
		selectedShelf: -1,
	}

	config, err := project.LoadAppConfig(a.configPath())
	if err != nil {
		logger.Warn("could not load settings, using defaults", "err", err)
		config = model.DefaultAppConfig()
	}
	a.config = config

	a.templates, err = project.LoadRackTemplates(a.templatesPath())
	if err != nil {
		logger.Warn("could not load custom rack templates", "err", err)
	}

	a.catalog, err = project.LoadCatalog(a.catalogPath())
	if err != nil {
		logger.Warn("could not load catalog, using sample products", "err", err)
		a.catalog = model.DefaultCatalog()
	}

	t := a.templates.FindByID(config.DefaultTemplateID)
	if t == nil {
		t = &a.templates.Templates[0]
	}
	a.plan = planogram.New(t.Config, planogram.WithLogger(logger))
	return a
}

func (a *App) configPath() string    { return filepath.Join(a.configDir, "config.json") }
func (a *App) templatesPath() string { return filepath.Join(a.configDir, "racks.json") }
func (a *App) catalogPath() string   { return filepath.Join(a.configDir, "catalog.json") }

// Theme returns the theme selected in the settings.
func (a *App) Theme() fyne.Theme {
	return themeFromConfig(a.config.Theme)
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Rack", func() {
			a.clearRack()
		}),
		fyne.NewMenuItem("Open Fill Plan...", func() {
			a.openFillPlan()
		}),
		fyne.NewMenuItem("Save Fill Plan...", func() {
			a.saveFillPlan()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Catalog (CSV/Excel)...", func() {
			a.importCatalogFile()
		}),
		fyne.NewMenuItem("Export Catalog to Excel...", func() {
			a.exportCatalogExcel()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Planogram PDF...", func() {
			a.exportPDF()
		}),
		fyne.NewMenuItem("Export Shelf Labels...", func() {
			a.exportLabels()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			a.window.Close()
		}),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Remove Selected Product from Shelf", func() {
			a.removeSelectedFromShelf()
		}),
		fyne.NewMenuItem("Edit Rack...", func() {
			a.showEditRackDialog()
		}),
		fyne.NewMenuItem("Reset Gaps", func() {
			a.resetGaps()
		}),
		fyne.NewMenuItem("Clear Rack", func() {
			a.clearRack()
		}),
	)

	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Catalog Manager...", func() {
			a.showCatalogManager()
		}),
		fyne.NewMenuItem("Rack Templates...", func() {
			a.showTemplateManager()
		}),
		fyne.NewMenuItem("Compare Racks...", func() {
			a.showCompareDialog()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Settings...", func() {
			a.showSettingsDialog()
		}),
		fyne.NewMenuItem("Import / Export Data...", func() {
			a.showImportExportDialog()
		}),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() {
			a.showAboutDialog()
		}),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, toolsMenu, helpMenu))
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About ShelfPlan",
		"ShelfPlan - Planogram Editor\n\n"+
			"Place products on promo rack shelves, check what fits,\n"+
			"and export planograms and shelf-edge labels.",
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	a.statusLabel = widget.NewLabel("Select a product, then tap a shelf to place it.")
	a.statusLabel.Wrapping = fyne.TextWrapWord
	a.summaryLabel = widget.NewLabel("")

	split := container.NewHSplit(a.buildCatalogPanel(), a.buildRackPanel())
	split.SetOffset(0.28)

	a.refreshRack()
	return container.NewBorder(nil, container.NewVBox(widget.NewSeparator(), a.statusLabel), nil, nil, split)
}

// ─── Catalog Panel ─────────────────────────────────────────

func (a *App) buildCatalogPanel() fyne.CanvasObject {
	a.searchEntry = widget.NewEntry()
	a.searchEntry.SetPlaceHolder("Search products...")
	a.searchEntry.OnChanged = func(string) { a.refreshCatalogList() }

	a.visible = a.catalog.Filter("")
	a.productList = widget.NewList(
		func() int {
			return len(a.visible)
		},
		func() fyne.CanvasObject {
			return container.NewHBox(
				widget.NewLabel("Product Name"),
				layout.NewSpacer(),
				widget.NewLabel("00 x 00 cm"),
			)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			box := obj.(*fyne.Container)
			p := a.visible[id]
			box.Objects[0].(*widget.Label).SetText(p.Name)
			box.Objects[2].(*widget.Label).SetText(fmt.Sprintf("%g x %g cm", p.WidthCm, p.HeightCm))
		},
	)
	a.productList.OnSelected = func(id widget.ListItemID) {
		a.selectProduct(a.visible[id].ID)
	}

	importBtn := newIconButtonWithTooltip(theme.FolderOpenIcon(), "Import products from CSV or Excel", func() {
		a.importCatalogFile()
	})
	manageBtn := newIconButtonWithTooltip(theme.DocumentCreateIcon(), "Manage catalog", func() {
		a.showCatalogManager()
	})

	return container.NewBorder(
		container.NewVBox(
			container.NewHBox(
				widget.NewLabelWithStyle("Products", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
				layout.NewSpacer(),
				importBtn,
				manageBtn,
			),
			a.searchEntry,
		),
		nil, nil, nil,
		a.productList,
	)
}

func (a *App) refreshCatalogList() {
	query := ""
	if a.searchEntry != nil {
		query = a.searchEntry.Text
	}
	a.visible = a.catalog.Filter(query)
	if a.productList != nil {
		a.productList.UnselectAll()
		a.productList.Refresh()
	}
}

// ─── Rack Panel ────────────────────────────────────────────

func (a *App) buildRackPanel() fyne.CanvasObject {
	a.templateSelect = widget.NewSelect(a.templates.Names(), func(name string) {
		if t := a.templates.FindByName(name); t != nil && t.ID != a.plan.Rack().ID {
			a.selectTemplate(*t)
		}
	})
	a.templateSelect.SetSelected(a.plan.Rack().Name)

	a.marginEntry = widget.NewEntry()
	a.marginEntry.OnSubmitted = func(text string) { a.applyGapEntry(text, true) }
	a.gapEntry = widget.NewEntry()
	a.gapEntry.OnSubmitted = func(text string) { a.applyGapEntry(text, false) }

	resetBtn := widget.NewButtonWithIcon("Reset", theme.ViewRefreshIcon(), func() {
		a.resetGaps()
	})
	editBtn := newIconButtonWithTooltip(theme.SettingsIcon(), "Edit rack width and shelves", func() {
		a.showEditRackDialog()
	})
	removeBtn := newIconButtonWithTooltip(theme.DeleteIcon(), "Remove the selected product from the selected shelf", func() {
		a.removeSelectedFromShelf()
	})

	toolbar := container.NewHBox(
		widget.NewLabel("Rack"), a.templateSelect, editBtn,
		widget.NewSeparator(),
		widget.NewLabel("Edge margin (cm)"), container.NewGridWrap(fyne.NewSize(60, a.marginEntry.MinSize().Height), a.marginEntry),
		widget.NewLabel("Gap (cm)"), container.NewGridWrap(fyne.NewSize(60, a.gapEntry.MinSize().Height), a.gapEntry),
		resetBtn,
		layout.NewSpacer(),
		removeBtn,
	)

	a.rackCanvas = widgets.NewRackCanvas(a.config.PixelsPerCm)
	a.rackCanvas.OnShelfTapped = a.dropOnShelf
	a.rackCanvas.OnProductSecondary = func(shelfIndex int, productID string) {
		a.confirmRemove(shelfIndex, productID)
	}

	return container.NewBorder(
		toolbar,
		a.summaryLabel,
		nil, nil,
		container.NewScroll(container.NewCenter(a.rackCanvas)),
	)
}

// refreshRack redraws the rack and syncs the toolbar with the planogram.
func (a *App) refreshRack() {
	rack := a.plan.Rack()
	if a.marginEntry != nil {
		a.marginEntry.SetText(strconv.FormatFloat(rack.EdgeMarginCm, 'f', -1, 64))
		a.gapEntry.SetText(strconv.FormatFloat(rack.InterProductGapCm, 'f', -1, 64))
	}
	if a.rackCanvas != nil {
		a.rackCanvas.SetLayout(rack, a.plan.Shelves(), a.catalog)
		a.rackCanvas.SetSelectedShelf(a.selectedShelf)
	}
	if a.summaryLabel != nil {
		summaries, fill := a.plan.Summary(a.catalog)
		placed := 0
		for _, s := range summaries {
			placed += s.Resolved
		}
		a.summaryLabel.SetText(fmt.Sprintf("%s: %g cm wide, %d shelves x %g cm | %d products placed | %.1f%% filled",
			rack.Name, rack.WidthCm, rack.NumberOfShelves, rack.ShelfHeightCm, placed, fill))
	}
}

func (a *App) setStatus(format string, args ...any) {
	if a.statusLabel != nil {
		a.statusLabel.SetText(fmt.Sprintf(format, args...))
	}
}

// ─── Actions ───────────────────────────────────────────────

func (a *App) selectProduct(id string) {
	p, ok := a.catalog.Lookup(id)
	if !ok {
		return
	}
	a.selectedProduct = id
	a.setStatus("%s selected. Tap a shelf to place it.", p.Name)
}

// dropOnShelf places the selected product on shelf i, or only selects the
// shelf when no product is selected.
func (a *App) dropOnShelf(i int) {
	a.selectedShelf = i
	if a.selectedProduct == "" {
		a.refreshRack()
		a.setStatus("Shelf %d selected. Select a product to place it here.", i+1)
		return
	}

	pl, err := a.plan.AddPlacement(i, a.selectedProduct, a.catalog)
	a.refreshRack()
	if err != nil {
		var rejection *planogram.RejectionError
		if errors.As(err, &rejection) {
			a.setStatus("Cannot place product on shelf %d: %s", i+1, rejection.Fit.Reason)
		} else {
			a.setStatus("Cannot place product: %v", err)
		}
		return
	}

	p, _ := a.catalog.Lookup(pl.ProductID)
	shelf, _ := a.plan.Shelf(i)
	more := engine.Facings(p, shelf, a.catalog, a.plan.Rack())
	a.setStatus("Placed %s on shelf %d at %.1f cm. Room for %d more.", p.Name, i+1, pl.XPositionCm, more)
}

func (a *App) confirmRemove(shelfIndex int, productID string) {
	p, _ := a.catalog.Lookup(productID)
	dialog.ShowConfirm("Remove Product",
		fmt.Sprintf("Remove every %s from shelf %d?", p.Name, shelfIndex+1),
		func(ok bool) {
			if ok {
				a.removeFromShelf(shelfIndex, productID)
			}
		},
		a.window,
	)
}

func (a *App) removeFromShelf(shelfIndex int, productID string) {
	removed := a.plan.RemovePlacement(model.ShelfID(shelfIndex), productID)
	a.refreshRack()
	a.setStatus("Removed %d placement(s) of %s from shelf %d.", removed, productID, shelfIndex+1)
}

func (a *App) removeSelectedFromShelf() {
	if a.selectedShelf < 0 || a.selectedProduct == "" {
		dialog.ShowInformation("Nothing selected", "Select a product and a shelf first.", a.window)
		return
	}
	a.removeFromShelf(a.selectedShelf, a.selectedProduct)
}

func (a *App) selectTemplate(t model.RackTemplate) {
	a.plan.SelectTemplate(t)
	a.selectedShelf = -1
	a.refreshRack()
	a.setStatus("Switched to %s. The rack was cleared.", t.Name)
}

func (a *App) clearRack() {
	a.plan = planogram.New(a.plan.Rack(), planogram.WithLogger(a.logger))
	a.selectedShelf = -1
	a.refreshRack()
	a.setStatus("Rack cleared.")
}

func (a *App) applyGapEntry(text string, margin bool) {
	v, err := parseField("value", text)
	if err == nil {
		u := planogram.RackUpdate{InterProductGapCm: &v}
		if margin {
			u = planogram.RackUpdate{EdgeMarginCm: &v}
		}
		err = a.plan.UpdateRack(u)
	}
	a.refreshRack()
	if err != nil {
		a.logger.Debug("gap entry rejected", "text", text, "err", err)
		a.setStatus("Enter a non-negative number of centimetres.")
	}
}

// parseField parses a form field holding a number of centimetres. Range
// checks are left to the caller.
func parseField(label, text string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q is not a number", label, strings.TrimSpace(text))
	}
	return v, nil
}

// parseCount parses a whole-number form field.
func parseCount(label, text string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("%s %q is not a whole number", label, strings.TrimSpace(text))
	}
	return n, nil
}

func (a *App) resetGaps() {
	a.plan.ResetGaps(a.config)
	a.refreshRack()
	a.setStatus("Edge margin and gap reset to %g cm and %g cm.", a.config.DefaultEdgeMargin, a.config.DefaultGap)
}

func (a *App) showEditRackDialog() {
	rack := a.plan.Rack()

	widthEntry := widget.NewEntry()
	widthEntry.SetText(strconv.FormatFloat(rack.WidthCm, 'f', -1, 64))
	shelvesEntry := widget.NewEntry()
	shelvesEntry.SetText(strconv.Itoa(rack.NumberOfShelves))
	heightEntry := widget.NewEntry()
	heightEntry.SetText(strconv.FormatFloat(rack.ShelfHeightCm, 'f', -1, 64))

	form := dialog.NewForm("Edit Rack", "Apply", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Width (cm)", widthEntry),
			widget.NewFormItem("Shelves", shelvesEntry),
			widget.NewFormItem("Shelf Height (cm)", heightEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			if err := a.editRack(widthEntry.Text, shelvesEntry.Text, heightEntry.Text); err != nil {
				dialog.ShowError(err, a.window)
			}
		},
		a.window,
	)
	form.Resize(fyne.NewSize(360, 250))
	form.Show()
}

// editRack applies the Edit Rack form. Nothing changes unless every field
// parses and the rack accepts the values.
func (a *App) editRack(width, shelves, shelfHeight string) error {
	w, errW := parseField("width", width)
	n, errN := parseCount("shelves", shelves)
	h, errH := parseField("shelf height", shelfHeight)
	if err := errors.Join(errW, errN, errH); err != nil {
		return err
	}
	if err := a.plan.UpdateRack(planogram.RackUpdate{WidthCm: &w, NumberOfShelves: &n, ShelfHeightCm: &h}); err != nil {
		return err
	}
	a.selectedShelf = -1
	a.refreshRack()
	return nil
}

func (a *App) showCompareDialog() {
	results := engine.CompareRacks(a.plan.Requests(), a.catalog, a.templates.Templates)

	rows := container.NewGridWithColumns(4,
		widget.NewLabelWithStyle("Rack", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Placed", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Rejected", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Fill", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
	)
	for _, r := range results {
		rows.Add(widget.NewLabel(r.Name))
		rows.Add(widget.NewLabel(strconv.Itoa(r.Result.Placed)))
		rows.Add(widget.NewLabel(strconv.Itoa(len(r.Result.Rejected))))
		rows.Add(widget.NewLabel(fmt.Sprintf("%.1f%%", r.Result.FillPercent)))
	}

	content := container.NewVBox(
		widget.NewLabel("The current shelf contents replayed on every rack template:"),
		rows,
	)
	d := dialog.NewCustom("Compare Racks", "Close", container.NewVScroll(content), a.window)
	d.Resize(fyne.NewSize(520, 320))
	d.Show()
}

// saveConfig persists the current app config to disk.
func (a *App) saveConfig() error {
	return project.SaveAppConfig(a.configPath(), a.config)
}
