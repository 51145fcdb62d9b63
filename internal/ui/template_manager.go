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
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/ShelfPlan/internal/model"
	"github.com/piwi3910/ShelfPlan/internal/project"
)

var errBuiltInTemplate = errors.New("built-in templates are read-only")

// showTemplateManager opens the rack template window where users can view,
// create, edit, duplicate and delete rack templates.
func (a *App) showTemplateManager() {
	w := fyne.CurrentApp().NewWindow("Rack Templates")
	w.Resize(fyne.NewSize(700, 450))

	var listWidget *widget.List
	selectedIdx := -1
	detailContainer := container.NewVBox(
		widget.NewLabel("Select a rack template to view details."),
	)

	resetDetail := func() {
		selectedIdx = -1
		listWidget.UnselectAll()
		listWidget.Refresh()
		detailContainer.RemoveAll()
		detailContainer.Add(widget.NewLabel("Select a rack template to view details."))
		detailContainer.Refresh()
		a.refreshTemplateSelect()
	}

	listWidget = widget.NewList(
		func() int {
			return len(a.templates.Templates)
		},
		func() fyne.CanvasObject {
			return container.NewHBox(
				widget.NewIcon(theme.GridIcon()),
				widget.NewLabel("Template Name"),
				layout.NewSpacer(),
				widget.NewLabel("(built-in)"),
			)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			box := obj.(*fyne.Container)
			t := a.templates.Templates[id]
			box.Objects[1].(*widget.Label).SetText(t.Name)
			if t.BuiltIn {
				box.Objects[3].(*widget.Label).SetText("(built-in)")
			} else {
				box.Objects[3].(*widget.Label).SetText("(custom)")
			}
		},
	)

	listWidget.OnSelected = func(id widget.ListItemID) {
		selectedIdx = id
		a.showTemplateDetail(detailContainer, a.templates.Templates[id], w, resetDetail)
	}

	newBtn := widget.NewButtonWithIcon("New", theme.ContentAddIcon(), func() {
		base := a.plan.Rack()
		a.showTemplateDialog(w, "New Rack Template", model.RackTemplate{Name: "My Rack", Config: base}, false, resetDetail)
	})

	duplicateBtn := widget.NewButtonWithIcon("Duplicate", theme.ContentCopyIcon(), func() {
		if selectedIdx < 0 || selectedIdx >= len(a.templates.Templates) {
			dialog.ShowInformation("No Selection", "Select a template to duplicate.", w)
			return
		}
		src := a.templates.Templates[selectedIdx]
		dup := model.RackTemplate{
			Name:        src.Name + " (Copy)",
			Description: "Copy of " + src.Name,
			Config:      src.Config,
		}
		a.showTemplateDialog(w, "Duplicate Rack Template", dup, false, resetDetail)
	})

	deleteBtn := widget.NewButtonWithIcon("Delete", theme.DeleteIcon(), func() {
		if selectedIdx < 0 || selectedIdx >= len(a.templates.Templates) {
			dialog.ShowInformation("No Selection", "Select a template to delete.", w)
			return
		}
		t := a.templates.Templates[selectedIdx]
		if t.BuiltIn {
			dialog.ShowInformation("Cannot Delete", "Built-in templates cannot be deleted.", w)
			return
		}
		dialog.ShowConfirm("Delete Template",
			fmt.Sprintf("Delete rack template %q?", t.Name),
			func(ok bool) {
				if !ok {
					return
				}
				if err := a.deleteTemplate(t.ID); err != nil {
					dialog.ShowError(err, w)
					return
				}
				resetDetail()
			},
			w,
		)
	})

	toolbar := container.NewHBox(newBtn, duplicateBtn, deleteBtn)

	listPanel := container.NewBorder(
		widget.NewLabelWithStyle("Templates", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		toolbar,
		nil, nil,
		listWidget,
	)

	detailPanel := container.NewBorder(
		widget.NewLabelWithStyle("Template Details", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		nil, nil, nil,
		container.NewVScroll(detailContainer),
	)

	split := container.NewHSplit(listPanel, detailPanel)
	split.SetOffset(0.4)

	w.SetContent(split)
	w.Show()
}

// showTemplateDetail populates the detail pane with the template's rack figures.
func (a *App) showTemplateDetail(c *fyne.Container, t model.RackTemplate, w fyne.Window, onChanged func()) {
	c.RemoveAll()

	r := t.Config
	info := container.NewVBox(
		widget.NewLabelWithStyle(t.Name, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel(t.Description),
		widget.NewSeparator(),
		container.NewGridWithColumns(2,
			widget.NewLabel("Width:"), widget.NewLabel(fmt.Sprintf("%g cm", r.WidthCm)),
			widget.NewLabel("Total Height:"), widget.NewLabel(fmt.Sprintf("%g cm", r.TotalHeightCm)),
			widget.NewLabel("Shelves:"), widget.NewLabel(strconv.Itoa(r.NumberOfShelves)),
			widget.NewLabel("Shelf Height:"), widget.NewLabel(fmt.Sprintf("%g cm", r.ShelfHeightCm)),
			widget.NewLabel("Edge Margin:"), widget.NewLabel(fmt.Sprintf("%g cm", r.EdgeMarginCm)),
			widget.NewLabel("Gap:"), widget.NewLabel(fmt.Sprintf("%g cm", r.InterProductGapCm)),
		),
	)

	useBtn := widget.NewButtonWithIcon("Use This Rack", theme.ConfirmIcon(), func() {
		a.selectTemplate(t)
		if a.templateSelect != nil {
			a.templateSelect.SetSelected(t.Name)
		}
	})

	if t.BuiltIn {
		c.Add(container.NewHBox(useBtn))
		c.Add(widget.NewLabel("Built-in templates are read-only. Duplicate to customize."))
	} else {
		editBtn := widget.NewButtonWithIcon("Edit Template", theme.DocumentCreateIcon(), func() {
			a.showTemplateDialog(w, "Edit Rack Template", t, true, onChanged)
		})
		c.Add(container.NewHBox(useBtn, editBtn))
	}

	c.Add(info)
	c.Refresh()
}

// showTemplateDialog edits the name, description and rack figures of t. When
// existing is true the template keeps its ID; otherwise a new one is created.
func (a *App) showTemplateDialog(w fyne.Window, title string, t model.RackTemplate, existing bool, onSaved func()) {
	nameEntry := widget.NewEntry()
	nameEntry.SetText(t.Name)
	descEntry := widget.NewEntry()
	descEntry.SetText(t.Description)

	floatEntry := func(v float64) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(strconv.FormatFloat(v, 'f', -1, 64))
		return e
	}
	widthEntry := floatEntry(t.Config.WidthCm)
	shelvesEntry := widget.NewEntry()
	shelvesEntry.SetText(strconv.Itoa(t.Config.NumberOfShelves))
	shelfHeightEntry := floatEntry(t.Config.ShelfHeightCm)
	marginEntry := floatEntry(t.Config.EdgeMarginCm)
	gapEntry := floatEntry(t.Config.InterProductGapCm)

	form := dialog.NewForm(title, "Save", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
			widget.NewFormItem("Description", descEntry),
			widget.NewFormItem("Width (cm)", widthEntry),
			widget.NewFormItem("Shelves", shelvesEntry),
			widget.NewFormItem("Shelf Height (cm)", shelfHeightEntry),
			widget.NewFormItem("Edge Margin (cm)", marginEntry),
			widget.NewFormItem("Gap (cm)", gapEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			config, err := rackFromForm(t.Config, widthEntry.Text, shelvesEntry.Text, shelfHeightEntry.Text, marginEntry.Text, gapEntry.Text)
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			name := strings.TrimSpace(nameEntry.Text)
			desc := strings.TrimSpace(descEntry.Text)

			if existing {
				err = a.updateTemplate(t.ID, name, desc, config)
			} else {
				_, err = a.addTemplate(name, desc, config)
			}
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			onSaved()
		},
		w,
	)
	form.Resize(fyne.NewSize(420, 420))
	form.Show()
}

// rackFromForm applies the template form's fields to base. Every field must
// parse; range checks happen when the template is saved.
func rackFromForm(base model.RackConfig, width, shelves, shelfHeight, margin, gap string) (model.RackConfig, error) {
	w, errW := parseField("width", width)
	n, errN := parseCount("shelves", shelves)
	h, errH := parseField("shelf height", shelfHeight)
	m, errM := parseField("edge margin", margin)
	g, errG := parseField("gap", gap)
	if err := errors.Join(errW, errN, errH, errM, errG); err != nil {
		return model.RackConfig{}, err
	}
	return base.WithWidth(w).WithShelves(n, h).WithEdgeMargin(m).WithGap(g), nil
}

// addTemplate validates and stores a new custom template.
func (a *App) addTemplate(name, description string, config model.RackConfig) (model.RackTemplate, error) {
	if err := a.checkTemplate("", name, config); err != nil {
		return model.RackTemplate{}, err
	}
	t := model.NewRackTemplate(name, description, config)
	a.templates.Add(t)
	return t, a.saveTemplates()
}

// updateTemplate replaces the figures of a custom template, keeping its ID.
func (a *App) updateTemplate(id, name, description string, config model.RackConfig) error {
	existing := a.templates.FindByID(id)
	if existing == nil {
		return fmt.Errorf("rack template %q not found", id)
	}
	if existing.BuiltIn {
		return errBuiltInTemplate
	}
	if err := a.checkTemplate(id, name, config); err != nil {
		return err
	}
	config.ID = id
	config.Name = name
	existing.Name = name
	existing.Description = description
	existing.Config = config
	return a.saveTemplates()
}

func (a *App) deleteTemplate(id string) error {
	t := a.templates.FindByID(id)
	if t == nil {
		return fmt.Errorf("rack template %q not found", id)
	}
	if t.BuiltIn {
		return errBuiltInTemplate
	}
	a.templates.Remove(id)
	return a.saveTemplates()
}

// checkTemplate rejects invalid racks and names already used by another template.
func (a *App) checkTemplate(id, name string, config model.RackConfig) error {
	if name == "" {
		return errors.New("template name cannot be empty")
	}
	if other := a.templates.FindByName(name); other != nil && other.ID != id {
		return fmt.Errorf("a rack template named %q already exists", name)
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid rack: %w", err)
	}
	return nil
}

func (a *App) saveTemplates() error {
	if err := project.SaveRackTemplates(a.templatesPath(), a.templates); err != nil {
		return fmt.Errorf("failed to save rack templates: %w", err)
	}
	a.refreshTemplateSelect()
	return nil
}

// refreshTemplateSelect reloads the rack selector after the templates changed.
func (a *App) refreshTemplateSelect() {
	if a.templateSelect == nil {
		return
	}
	a.templateSelect.Options = a.templates.Names()
	a.templateSelect.Refresh()
}
