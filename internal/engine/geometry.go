// Package engine is the shelf placement engine: pure geometry over a rack
// configuration, a shelf and a product catalog. It decides whether a product
// fits on a shelf and where it lands, and never mutates its inputs.
//
// All widths are in centimeters. X positions are measured from the start of
// the shelf's usable area, i.e. already past the left edge margin.
package engine

import (
	"github.com/piwi3910/ShelfPlan/internal/model"
)

// UsableWidth returns the rack width minus both edge margins. It may be zero
// or negative for a misconfigured rack, in which case nothing fits.
func UsableWidth(rack model.RackConfig) float64 {
	return rack.WidthCm - 2*rack.EdgeMarginCm
}

// OccupiedWidth returns the width taken by the shelf's resolvable placements
// plus one inter-product gap between each adjacent pair. Placements whose
// product is missing from the catalog add neither width nor a gap.
func OccupiedWidth(shelf model.Shelf, catalog model.Catalog, rack model.RackConfig) float64 {
	var total float64
	resolved := 0
	for _, pl := range shelf.Placements {
		p, ok := catalog.Lookup(pl.ProductID)
		if !ok {
			continue
		}
		total += p.WidthCm
		resolved++
	}
	if resolved == 0 {
		return 0
	}
	return total + float64(resolved-1)*rack.InterProductGapCm
}

// RemainingSpace returns the width still available for one more product.
//
// An empty shelf offers its full usable width. A non-empty shelf additionally
// reserves the gap that must precede the next product, so anything accepted
// against this value lands with a real gap from its left neighbour. The
// result may be negative.
func RemainingSpace(shelf model.Shelf, catalog model.Catalog, rack model.RackConfig) float64 {
	usable := UsableWidth(rack)
	if len(shelf.Placements) == 0 {
		return usable
	}
	return usable - OccupiedWidth(shelf, catalog, rack) - rack.InterProductGapCm
}
