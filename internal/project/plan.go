package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/piwi3910/ShelfPlan/internal/model"
)

// Plan is a fill plan: a rack template, optional overrides and, per shelf, the
// products to drop in order. It records intent only. Positions are always
// recomputed by the placement engine when the plan is applied.
//
//	name     = "Spring promo"
//	template = "standard-promo"
//	catalog  = "products.xlsx"
//
//	[rack]
//	edge_margin_cm = 3
//
//	[[shelf]]
//	index    = 0
//	products = ["lipstick-01", "lipstick-01", "mascara-01"]
type Plan struct {
	Name     string        `toml:"name"`
	Template string        `toml:"template"`
	Catalog  string        `toml:"catalog,omitempty"` // optional CSV, XLSX or JSON catalog, relative to the plan
	Rack     RackOverrides `toml:"rack"`
	Shelves  []PlanShelf   `toml:"shelf"`

	dir string
}

// RackOverrides changes individual template values. Unset keys keep the
// template's value.
type RackOverrides struct {
	WidthCm           *float64 `toml:"width_cm,omitempty"`
	NumberOfShelves   *int     `toml:"number_of_shelves,omitempty"`
	ShelfHeightCm     *float64 `toml:"shelf_height_cm,omitempty"`
	EdgeMarginCm      *float64 `toml:"edge_margin_cm,omitempty"`
	InterProductGapCm *float64 `toml:"inter_product_gap_cm,omitempty"`
}

// PlanShelf lists the products dropped on one shelf, bottom shelf = 0.
type PlanShelf struct {
	Index    int      `toml:"index"`
	Products []string `toml:"products"`
}

// LoadPlan reads and validates a TOML fill plan.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var plan Plan
	md, err := toml.Decode(string(data), &plan)
	if err != nil {
		return nil, fmt.Errorf("parse plan %s: %w", filepath.Base(path), err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("plan %s: unknown key %q", filepath.Base(path), undecoded[0].String())
	}
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("plan %s: %w", filepath.Base(path), err)
	}
	plan.dir = filepath.Dir(path)
	return &plan, nil
}

// Validate checks the plan for structural errors. Shelf indexes must lie in
// [0, model.MaxShelves) and overrides must be finite measurements.
func (p *Plan) Validate() error {
	var errs []error
	if p.Template == "" {
		errs = append(errs, errors.New("template is required"))
	}
	for i, s := range p.Shelves {
		switch {
		case s.Index < 0:
			errs = append(errs, fmt.Errorf("shelf %d: negative index %d", i+1, s.Index))
		case s.Index >= model.MaxShelves:
			errs = append(errs, fmt.Errorf("shelf %d: index %d exceeds the %d shelf limit", i+1, s.Index, model.MaxShelves))
		}
	}
	return errors.Join(append(errs, p.Rack.Validate())...)
}

// Validate checks each set override on its own. Whether the overridden rack
// is consistent is left to the rack it is applied to.
func (o RackOverrides) Validate() error {
	var errs []error
	if o.WidthCm != nil && !model.ValidSize(*o.WidthCm) {
		errs = append(errs, fmt.Errorf("rack: width_cm must be positive, got %g", *o.WidthCm))
	}
	if o.NumberOfShelves != nil && (*o.NumberOfShelves < 1 || *o.NumberOfShelves > model.MaxShelves) {
		errs = append(errs, fmt.Errorf("rack: number_of_shelves must be 1 to %d, got %d", model.MaxShelves, *o.NumberOfShelves))
	}
	if o.ShelfHeightCm != nil && !model.ValidSize(*o.ShelfHeightCm) {
		errs = append(errs, fmt.Errorf("rack: shelf_height_cm must be positive, got %g", *o.ShelfHeightCm))
	}
	if o.EdgeMarginCm != nil && !model.ValidLength(*o.EdgeMarginCm) {
		errs = append(errs, fmt.Errorf("rack: edge_margin_cm must not be negative, got %g", *o.EdgeMarginCm))
	}
	if o.InterProductGapCm != nil && !model.ValidLength(*o.InterProductGapCm) {
		errs = append(errs, fmt.Errorf("rack: inter_product_gap_cm must not be negative, got %g", *o.InterProductGapCm))
	}
	return errors.Join(errs...)
}

// CatalogPath returns the plan's catalog path resolved against the plan's
// directory, or "" if the plan names none.
func (p *Plan) CatalogPath() string {
	if p.Catalog == "" || filepath.IsAbs(p.Catalog) || p.dir == "" {
		return p.Catalog
	}
	return filepath.Join(p.dir, p.Catalog)
}

// ResolveRack looks up the plan's template by ID, then by name, and applies
// the overrides.
func (p *Plan) ResolveRack(store model.TemplateStore) (model.RackConfig, error) {
	t := store.FindByID(p.Template)
	if t == nil {
		t = store.FindByName(p.Template)
	}
	if t == nil {
		return model.RackConfig{}, fmt.Errorf("rack template %q not found", p.Template)
	}
	return p.Rack.Apply(t.Config), nil
}

// Apply returns rack with the overrides applied. The total height follows
// the shelf count and shelf height.
func (o RackOverrides) Apply(rack model.RackConfig) model.RackConfig {
	if o.WidthCm != nil {
		rack = rack.WithWidth(*o.WidthCm)
	}
	if o.EdgeMarginCm != nil {
		rack = rack.WithEdgeMargin(*o.EdgeMarginCm)
	}
	if o.InterProductGapCm != nil {
		rack = rack.WithGap(*o.InterProductGapCm)
	}
	if o.NumberOfShelves != nil || o.ShelfHeightCm != nil {
		n, h := rack.NumberOfShelves, rack.ShelfHeightCm
		if o.NumberOfShelves != nil {
			n = *o.NumberOfShelves
		}
		if o.ShelfHeightCm != nil {
			h = *o.ShelfHeightCm
		}
		rack = rack.WithShelves(n, h)
	}
	return rack
}

// OverridesFrom records where rack differs from base, the template it was
// derived from, so that saving and reloading a plan reproduces rack.
func OverridesFrom(base, rack model.RackConfig) RackOverrides {
	var o RackOverrides
	if rack.WidthCm != base.WidthCm {
		o.WidthCm = &rack.WidthCm
	}
	if rack.NumberOfShelves != base.NumberOfShelves {
		o.NumberOfShelves = &rack.NumberOfShelves
	}
	if rack.ShelfHeightCm != base.ShelfHeightCm {
		o.ShelfHeightCm = &rack.ShelfHeightCm
	}
	if rack.EdgeMarginCm != base.EdgeMarginCm {
		o.EdgeMarginCm = &rack.EdgeMarginCm
	}
	if rack.InterProductGapCm != base.InterProductGapCm {
		o.InterProductGapCm = &rack.InterProductGapCm
	}
	return o
}

// Requests converts the plan into per-shelf drop requests indexed by shelf.
// Entries for the same index are concatenated in file order. Indexes outside
// [0, model.MaxShelves) are skipped.
func (p *Plan) Requests() [][]string {
	size := 0
	for _, s := range p.Shelves {
		if s.Index >= 0 && s.Index < model.MaxShelves && s.Index+1 > size {
			size = s.Index + 1
		}
	}
	requests := make([][]string, size)
	for _, s := range p.Shelves {
		if s.Index < 0 || s.Index >= model.MaxShelves {
			continue
		}
		requests[s.Index] = append(requests[s.Index], s.Products...)
	}
	return requests
}

// SavePlan writes a plan as TOML.
func SavePlan(path string, plan *Plan) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(plan); err != nil {
		f.Close()
		return fmt.Errorf("encode plan: %w", err)
	}
	return f.Close()
}

// PlanFromRequests builds a plan for template from per-shelf drop requests,
// skipping empty shelves.
func PlanFromRequests(name, template string, requests [][]string) *Plan {
	plan := &Plan{Name: name, Template: template}
	for i, ids := range requests {
		if len(ids) == 0 {
			continue
		}
		plan.Shelves = append(plan.Shelves, PlanShelf{Index: i, Products: append([]string(nil), ids...)})
	}
	return plan
}
