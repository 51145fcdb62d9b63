// Package planogram owns the editable state of one rack: its configuration and
// its shelves. It serializes drop requests through the placement engine and
// commits only what the engine accepts.
//
// A Planogram is not safe for concurrent use. Callers such as the desktop UI
// apply events one at a time on a single goroutine.
package planogram

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/piwi3910/ShelfPlan/internal/engine"
	"github.com/piwi3910/ShelfPlan/internal/model"
)

var (
	// ErrShelfOutOfRange is returned when a shelf index does not exist on the rack.
	ErrShelfOutOfRange = errors.New("shelf index out of range")
	// ErrUnknownProduct is returned when a product ID is not in the catalog.
	ErrUnknownProduct = errors.New("unknown product")
	// ErrDoesNotFit is wrapped by every RejectionError.
	ErrDoesNotFit = errors.New("product does not fit")
	// ErrInvalidRack is returned when an update would leave the rack without
	// shelves, with too many shelves, or with a measurement that is not a
	// finite number.
	ErrInvalidRack = errors.New("invalid rack configuration")
)

// RejectionError reports a drop refused by the fit check.
type RejectionError struct {
	ShelfID   string
	ProductID string
	Fit       engine.FitResult
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s on %s: %s", e.ProductID, e.ShelfID, e.Fit.Reason)
}

func (e *RejectionError) Unwrap() error {
	return ErrDoesNotFit
}

// Option configures a Planogram.
type Option func(*Planogram)

// WithLogger sets the logger used for drop events.
func WithLogger(l *log.Logger) Option {
	return func(p *Planogram) {
		if l != nil {
			p.logger = l
		}
	}
}

// Planogram is one rack configuration with its shelves.
type Planogram struct {
	rack    model.RackConfig
	shelves []model.Shelf
	logger  *log.Logger
}

// New creates a planogram with empty shelves for rack.
func New(rack model.RackConfig, opts ...Option) *Planogram {
	p := &Planogram{
		rack:    rack,
		shelves: model.NewShelves(rack.NumberOfShelves),
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Rack returns the current rack configuration.
func (p *Planogram) Rack() model.RackConfig {
	return p.rack
}

// Shelves returns a copy of all shelves, bottom shelf first.
func (p *Planogram) Shelves() []model.Shelf {
	out := make([]model.Shelf, len(p.shelves))
	for i, s := range p.shelves {
		out[i] = s.Clone()
	}
	return out
}

// Shelf returns a copy of the shelf at index i.
func (p *Planogram) Shelf(i int) (model.Shelf, error) {
	if i < 0 || i >= len(p.shelves) {
		return model.Shelf{}, fmt.Errorf("shelf %d of %d: %w", i, len(p.shelves), ErrShelfOutOfRange)
	}
	return p.shelves[i].Clone(), nil
}

// AddPlacement drops productID onto the shelf at shelfIndex. The engine decides
// whether it fits and where it goes; on success the new placement is appended
// and returned.
func (p *Planogram) AddPlacement(shelfIndex int, productID string, catalog model.Catalog) (model.ShelfPlacement, error) {
	if shelfIndex < 0 || shelfIndex >= len(p.shelves) {
		return model.ShelfPlacement{}, fmt.Errorf("shelf %d of %d: %w", shelfIndex, len(p.shelves), ErrShelfOutOfRange)
	}
	product, ok := catalog.Lookup(productID)
	if !ok {
		return model.ShelfPlacement{}, fmt.Errorf("product %q: %w", productID, ErrUnknownProduct)
	}

	shelf := &p.shelves[shelfIndex]
	fit := engine.CanFit(product, *shelf, catalog, p.rack)
	if !fit.Fits {
		p.logger.Debug("drop rejected", "shelf", shelf.ID, "product", productID, "reason", fit.Reason)
		return model.ShelfPlacement{}, &RejectionError{ShelfID: shelf.ID, ProductID: productID, Fit: fit}
	}

	x, _ := engine.NextPosition(product, *shelf, catalog, p.rack)
	placement := model.ShelfPlacement{ProductID: productID, XPositionCm: x}
	shelf.Placements = append(shelf.Placements, placement)

	p.logger.Debug("drop accepted", "shelf", shelf.ID, "product", productID, "x", x)
	return placement, nil
}

// RemovePlacement deletes every placement of productID on the shelf with the
// given ID and returns how many were removed. The remaining placements keep
// their positions.
func (p *Planogram) RemovePlacement(shelfID, productID string) int {
	for i := range p.shelves {
		shelf := &p.shelves[i]
		if shelf.ID != shelfID {
			continue
		}
		kept := make([]model.ShelfPlacement, 0, len(shelf.Placements))
		for _, pl := range shelf.Placements {
			if pl.ProductID != productID {
				kept = append(kept, pl)
			}
		}
		removed := len(shelf.Placements) - len(kept)
		shelf.Placements = kept
		if removed > 0 {
			p.logger.Debug("placements removed", "shelf", shelfID, "product", productID, "count", removed)
		}
		return removed
	}
	return 0
}

// RackUpdate is a partial rack change. Nil fields are left as they are.
type RackUpdate struct {
	Name              *string
	WidthCm           *float64
	NumberOfShelves   *int
	ShelfHeightCm     *float64
	EdgeMarginCm      *float64
	InterProductGapCm *float64
}

// UpdateRack applies u to the rack configuration. A change of shelf count or
// shelf height recomputes the total height. Added shelves are empty and go on
// top; removing shelves drops the top ones. Placements are never moved, even
// if a narrower rack leaves them overhanging. An invalid value leaves the
// rack unchanged. Margins wider than the rack are accepted; nothing fits.
func (p *Planogram) UpdateRack(u RackUpdate) error {
	rack := p.rack
	if u.Name != nil {
		rack.Name = *u.Name
	}
	if u.WidthCm != nil {
		if !model.ValidSize(*u.WidthCm) {
			return fmt.Errorf("width %gcm: %w", *u.WidthCm, ErrInvalidRack)
		}
		rack = rack.WithWidth(*u.WidthCm)
	}
	if u.EdgeMarginCm != nil {
		if !model.ValidLength(*u.EdgeMarginCm) {
			return fmt.Errorf("edge margin %gcm: %w", *u.EdgeMarginCm, ErrInvalidRack)
		}
		rack = rack.WithEdgeMargin(*u.EdgeMarginCm)
	}
	if u.InterProductGapCm != nil {
		if !model.ValidLength(*u.InterProductGapCm) {
			return fmt.Errorf("gap %gcm: %w", *u.InterProductGapCm, ErrInvalidRack)
		}
		rack = rack.WithGap(*u.InterProductGapCm)
	}
	if u.NumberOfShelves != nil || u.ShelfHeightCm != nil {
		n, h := rack.NumberOfShelves, rack.ShelfHeightCm
		if u.NumberOfShelves != nil {
			n = *u.NumberOfShelves
		}
		if u.ShelfHeightCm != nil {
			h = *u.ShelfHeightCm
		}
		if n < 1 || n > model.MaxShelves || !model.ValidSize(h) {
			return fmt.Errorf("%d shelves of %gcm: %w", n, h, ErrInvalidRack)
		}
		rack = rack.WithShelves(n, h)
	}

	p.rack = rack
	p.resizeShelves(rack.NumberOfShelves)
	return nil
}

func (p *Planogram) resizeShelves(n int) {
	switch {
	case n < len(p.shelves):
		p.shelves = p.shelves[:n]
	case n > len(p.shelves):
		for i := len(p.shelves); i < n; i++ {
			p.shelves = append(p.shelves, model.Shelf{ID: model.ShelfID(i), Placements: []model.ShelfPlacement{}})
		}
	}
}

// SelectTemplate replaces the rack with the template's configuration and
// starts over with empty shelves.
func (p *Planogram) SelectTemplate(t model.RackTemplate) {
	p.rack = t.Config
	p.shelves = model.NewShelves(t.Config.NumberOfShelves)
	p.logger.Debug("template selected", "template", t.ID, "shelves", t.Config.NumberOfShelves)
}

// ResetGaps restores the default edge margin and inter-product gap.
func (p *Planogram) ResetGaps(cfg model.AppConfig) {
	p.rack = cfg.ApplyGaps(p.rack)
}

// Requests returns the product IDs on each shelf in drop order. Replaying
// them with engine.Replay on the same rack rebuilds the current layout as
// long as nothing has been removed.
func (p *Planogram) Requests() [][]string {
	out := make([][]string, len(p.shelves))
	for i, s := range p.shelves {
		ids := make([]string, len(s.Placements))
		for j, pl := range s.Placements {
			ids[j] = pl.ProductID
		}
		out[i] = ids
	}
	return out
}

// Summary returns the per-shelf geometry figures and overall fill percentage.
func (p *Planogram) Summary(catalog model.Catalog) ([]engine.ShelfSummary, float64) {
	return engine.SummarizeRack(p.shelves, catalog, p.rack)
}
