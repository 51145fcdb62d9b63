package engine

import (
	"sort"

	"github.com/piwi3910/ShelfPlan/internal/model"
)

// PlacedProduct pairs a placement with the catalog product it references.
type PlacedProduct struct {
	Placement model.ShelfPlacement
	Product   model.Product
}

// Left returns the left edge of the placed product.
func (pp PlacedProduct) Left() float64 {
	return pp.Placement.XPositionCm
}

// Right returns the right edge of the placed product.
func (pp PlacedProduct) Right() float64 {
	return pp.Placement.XPositionCm + pp.Product.WidthCm
}

// SortedPlacements returns the shelf's resolvable placements ordered left to
// right by X. Placements with unknown products are dropped. Equal X values
// keep their insertion order.
func SortedPlacements(shelf model.Shelf, catalog model.Catalog) []PlacedProduct {
	result := make([]PlacedProduct, 0, len(shelf.Placements))
	for _, pl := range shelf.Placements {
		p, ok := catalog.Lookup(pl.ProductID)
		if !ok {
			continue
		}
		result = append(result, PlacedProduct{Placement: pl, Product: p})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Placement.XPositionCm < result[j].Placement.XPositionCm
	})
	return result
}

// NextPosition returns the X at which product would be appended to shelf, and
// false when the product does not pass CanFit.
//
// An empty shelf yields 0. Otherwise the product goes one gap to the right of
// the rightmost resolvable placement. Interior gaps left by removals are never
// reused. If no placement resolves, 0 is returned.
func NextPosition(product model.Product, shelf model.Shelf, catalog model.Catalog, rack model.RackConfig) (float64, bool) {
	if !CanFit(product, shelf, catalog, rack).Fits {
		return 0, false
	}
	if len(shelf.Placements) == 0 {
		return 0, true
	}

	sorted := SortedPlacements(shelf, catalog)
	if len(sorted) == 0 {
		// TODO: a shelf holding only dangling placements lands the product at 0,
		// which can overlap them if their products come back into the catalog.
		return 0, true
	}
	last := sorted[len(sorted)-1]
	return last.Right() + rack.InterProductGapCm, true
}

// IsPositionValid reports whether a product of width productWidthCm placed at
// x stays clear of every resolvable placement by at least the inter-product
// gap. Touching an exclusion interval's edge is allowed.
func IsPositionValid(x, productWidthCm float64, shelf model.Shelf, catalog model.Catalog, rack model.RackConfig) bool {
	if len(shelf.Placements) == 0 {
		return true
	}

	gap := rack.InterProductGapCm
	newLeft := x
	newRight := x + productWidthCm

	for _, pl := range shelf.Placements {
		existing, ok := catalog.Lookup(pl.ProductID)
		if !ok {
			continue
		}
		exclusionLeft := pl.XPositionCm - gap
		exclusionRight := pl.XPositionCm + existing.WidthCm + gap
		if newLeft < exclusionRight && newRight > exclusionLeft {
			return false
		}
	}
	return true
}
