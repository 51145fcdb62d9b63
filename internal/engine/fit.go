package engine

import (
	"fmt"
	"strconv"

	"github.com/piwi3910/ShelfPlan/internal/model"
)

// Rejection classifies why a product does not fit on a shelf.
type Rejection int

const (
	RejectNone   Rejection = iota // Product fits
	RejectHeight                  // Taller than the shelf
	RejectWidth                   // Wider than the remaining space
)

func (r Rejection) String() string {
	switch r {
	case RejectHeight:
		return "height"
	case RejectWidth:
		return "width"
	default:
		return "none"
	}
}

// FitResult is the outcome of a fit check. Reason is only set when Fits is false.
type FitResult struct {
	Fits        bool      `json:"fits"`
	Reason      string    `json:"reason,omitempty"`
	Rejection   Rejection `json:"rejection"`
	RemainingCm float64   `json:"remaining_cm"` // remaining space at check time; 0 when rejected on height
}

// CanFit checks whether product may be appended to shelf. Height is checked
// first, then width against RemainingSpace. Comparisons are exact: a product
// exactly as wide as the remaining space fits. A measurement that is NaN
// never fits.
func CanFit(product model.Product, shelf model.Shelf, catalog model.Catalog, rack model.RackConfig) FitResult {
	if !(product.HeightCm <= rack.ShelfHeightCm) {
		return FitResult{
			Rejection: RejectHeight,
			Reason: fmt.Sprintf("Product height (%scm) exceeds shelf height (%scm)",
				formatCm(product.HeightCm), formatCm(rack.ShelfHeightCm)),
		}
	}

	remaining := RemainingSpace(shelf, catalog, rack)
	if !(product.WidthCm <= remaining) {
		return FitResult{
			Rejection:   RejectWidth,
			RemainingCm: remaining,
			Reason: fmt.Sprintf("Product width (%scm) exceeds remaining shelf width (%.1fcm)",
				formatCm(product.WidthCm), remaining),
		}
	}

	return FitResult{Fits: true, RemainingCm: remaining}
}

// formatCm prints a measurement with the fewest digits that represent it exactly.
func formatCm(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
