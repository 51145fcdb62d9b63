package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/ShelfPlan/internal/model"
	"github.com/piwi3910/ShelfPlan/internal/project"
)

// ─── Catalog Manager Dialog ────────────────────────────────

func (a *App) showCatalogManager() {
	productList := container.NewVBox()
	var refreshList func()

	refreshList = func() {
		productList.RemoveAll()

		products := a.catalog.Products()
		if len(products) == 0 {
			productList.Add(widget.NewLabel("The catalog is empty."))
			return
		}

		header := container.NewGridWithColumns(6,
			widget.NewLabelWithStyle("Name", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("ID", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("Width", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("Height", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
			widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
		)
		productList.Add(header)
		productList.Add(widget.NewSeparator())

		for _, p := range products {
			p := p
			row := container.NewGridWithColumns(6,
				widget.NewLabel(p.Name),
				widget.NewLabel(p.ID),
				widget.NewLabel(fmt.Sprintf("%g cm", p.WidthCm)),
				widget.NewLabel(fmt.Sprintf("%g cm", p.HeightCm)),
				widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), func() {
					a.showProductDialog(&p, refreshList)
				}),
				widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
					dialog.ShowConfirm("Delete Product",
						fmt.Sprintf("Delete %s? Placements of it stay on the rack but are no longer drawn.", p.Name),
						func(ok bool) {
							if !ok {
								return
							}
							a.deleteProduct(p.ID)
							refreshList()
						},
						a.window,
					)
				}),
			)
			productList.Add(row)
		}
	}

	refreshList()

	addBtn := widget.NewButtonWithIcon("Add Product", theme.ContentAddIcon(), func() {
		a.showProductDialog(nil, refreshList)
	})

	importBtn := widget.NewButtonWithIcon("Import...", theme.FolderOpenIcon(), func() {
		d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
			if err != nil || reader == nil {
				return
			}
			defer reader.Close()
			if err := a.importCatalogPath(reader.URI().Path()); err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			refreshList()
		}, a.window)
		d.SetFilter(storage.NewExtensionFileFilter([]string{".json", ".csv", ".xlsx", ".xls"}))
		d.Show()
	})

	exportBtn := widget.NewButtonWithIcon("Export...", theme.DocumentSaveIcon(), func() {
		a.exportCatalogJSON()
	})

	toolbar := container.NewHBox(addBtn, layout.NewSpacer(), importBtn, exportBtn)

	content := container.NewBorder(
		toolbar,
		nil, nil, nil,
		container.NewVScroll(productList),
	)

	d := dialog.NewCustom("Product Catalog", "Close", content, a.window)
	d.Resize(fyne.NewSize(700, 500))
	d.Show()
}

// showProductDialog adds a product, or edits p when it is not nil. The ID of
// an existing product never changes so placements keep resolving.
func (a *App) showProductDialog(p *model.Product, onDone func()) {
	title, confirm := "Add Product", "Add"
	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder("Product name")
	widthEntry := widget.NewEntry()
	widthEntry.SetText("10")
	heightEntry := widget.NewEntry()
	heightEntry.SetText("20")
	imageEntry := widget.NewEntry()
	imageEntry.SetPlaceHolder("Image path or URL (optional)")

	if p != nil {
		title, confirm = "Edit Product", "Save"
		nameEntry.SetText(p.Name)
		widthEntry.SetText(strconv.FormatFloat(p.WidthCm, 'f', -1, 64))
		heightEntry.SetText(strconv.FormatFloat(p.HeightCm, 'f', -1, 64))
		imageEntry.SetText(p.ImageRef)
	}

	form := dialog.NewForm(title, confirm, "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
			widget.NewFormItem("Width (cm)", widthEntry),
			widget.NewFormItem("Height (cm)", heightEntry),
			widget.NewFormItem("Image", imageEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			product, err := productFromForm(nameEntry.Text, widthEntry.Text, heightEntry.Text, imageEntry.Text)
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			if p != nil {
				product.ID = p.ID
			}
			a.saveProduct(product)
			onDone()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(420, 300))
	form.Show()
}

// productFromForm builds a product from the product form's fields.
func productFromForm(name, width, height, image string) (model.Product, error) {
	w, errW := parseField("width", width)
	h, errH := parseField("height", height)
	if err := errors.Join(errW, errH); err != nil {
		return model.Product{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Product{}, errors.New("product name is required")
	}
	product := model.NewProduct(name, w, h)
	if err := product.Validate(); err != nil {
		return model.Product{}, err
	}
	product.ImageRef = strings.TrimSpace(image)
	return product, nil
}

// saveProduct adds or replaces a product and persists the catalog.
func (a *App) saveProduct(p model.Product) {
	a.catalog[p.ID] = p
	a.saveCatalog()
}

func (a *App) deleteProduct(id string) {
	delete(a.catalog, id)
	if a.selectedProduct == id {
		a.selectedProduct = ""
	}
	a.saveCatalog()
}

func (a *App) saveCatalog() {
	if err := project.SaveCatalog(a.catalogPath(), a.catalog); err != nil {
		a.logger.Error("could not save catalog", "err", err)
		if a.window != nil {
			dialog.ShowError(fmt.Errorf("failed to save catalog: %w", err), a.window)
		}
	}
	a.refreshCatalogList()
	a.refreshRack()
}

func (a *App) exportCatalogJSON() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		if err := project.SaveCatalog(path, a.catalog); err != nil {
			dialog.ShowError(err, a.window)
		} else {
			dialog.ShowInformation("Export Complete",
				fmt.Sprintf("Catalog exported to:\n%s", path), a.window)
		}
	}, a.window)
	d.SetFileName("catalog.json")
	d.Show()
}
