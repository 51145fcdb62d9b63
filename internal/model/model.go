package model

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Product is a catalog item that can be placed on a shelf.
type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	WidthCm  float64 `json:"width_cm"`
	HeightCm float64 `json:"height_cm"`
	ImageRef string  `json:"image_ref,omitempty"` // local path or URL of the product image
}

func NewProduct(name string, w, h float64) Product {
	return Product{
		ID:       uuid.New().String()[:8],
		Name:     name,
		WidthCm:  w,
		HeightCm: h,
	}
}

// Catalog maps product IDs to products. It is the source of truth that
// placements reference; the engine receives it on every call.
type Catalog map[string]Product

// NewCatalog builds a catalog from a product list. When two products share
// an ID the later one wins.
func NewCatalog(products ...Product) Catalog {
	c := make(Catalog, len(products))
	for _, p := range products {
		c[p.ID] = p
	}
	return c
}

// Lookup resolves a product by ID.
func (c Catalog) Lookup(id string) (Product, bool) {
	p, ok := c[id]
	return p, ok
}

// Products returns the catalog contents sorted by name, then ID.
func (c Catalog) Products() []Product {
	out := make([]Product, 0, len(c))
	for _, p := range c {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Filter returns the products whose name or ID contains query, ignoring case.
// An empty query returns every product.
func (c Catalog) Filter(query string) []Product {
	q := strings.ToLower(strings.TrimSpace(query))
	all := c.Products()
	if q == "" {
		return all
	}
	var out []Product
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.ID), q) {
			out = append(out, p)
		}
	}
	return out
}

// Merge adds products whose IDs are not yet present and reports how many were added.
func (c Catalog) Merge(products []Product) int {
	added := 0
	for _, p := range products {
		if _, exists := c[p.ID]; exists {
			continue
		}
		c[p.ID] = p
		added++
	}
	return added
}

// ShelfPlacement puts one product on a shelf. XPositionCm is the product's
// left edge measured from the start of the shelf's usable area, i.e. already
// past the left edge margin.
type ShelfPlacement struct {
	ProductID   string  `json:"product_id"`
	XPositionCm float64 `json:"x_position_cm"`
}

// Shelf is one horizontal band of a rack. Placements are kept in insertion order.
type Shelf struct {
	ID         string           `json:"id"`
	Placements []ShelfPlacement `json:"placements"`
}

// ShelfID returns the conventional ID of the shelf at index i (0 = bottom).
func ShelfID(i int) string {
	return fmt.Sprintf("shelf-%d", i)
}

// NewShelves creates n empty shelves, indexed bottom to top.
func NewShelves(n int) []Shelf {
	if n < 0 {
		n = 0
	}
	shelves := make([]Shelf, n)
	for i := range shelves {
		shelves[i] = Shelf{ID: ShelfID(i), Placements: []ShelfPlacement{}}
	}
	return shelves
}

// Clone returns a copy of the shelf that shares no memory with the original.
func (s Shelf) Clone() Shelf {
	cp := Shelf{ID: s.ID, Placements: make([]ShelfPlacement, len(s.Placements))}
	copy(cp.Placements, s.Placements)
	return cp
}

// RackConfig describes one rack layout. It is a value type: the With* helpers
// return modified copies so placements computed against an older config stay
// reproducible.
type RackConfig struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	WidthCm           float64 `json:"width_cm"`
	TotalHeightCm     float64 `json:"total_height_cm"`
	NumberOfShelves   int     `json:"number_of_shelves"`
	ShelfHeightCm     float64 `json:"shelf_height_cm"` // uniform height of every shelf
	EdgeMarginCm      float64 `json:"edge_margin_cm"`
	InterProductGapCm float64 `json:"inter_product_gap_cm"`
}

// heightTolerance absorbs rounding in TotalHeightCm vs shelves × shelf height.
const heightTolerance = 0.01

// MaxShelves bounds the shelf count of a rack and the shelf indexes of a plan.
const MaxShelves = 50

// ValidLength reports whether v is a finite length of zero or more centimeters.
func ValidLength(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}

// ValidSize reports whether v is a finite, strictly positive length.
func ValidSize(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// Validate reports a width or height that is not a positive, finite number.
func (p Product) Validate() error {
	var errs []error
	if !ValidSize(p.WidthCm) {
		errs = append(errs, fmt.Errorf("product width must be a positive number, got %g", p.WidthCm))
	}
	if !ValidSize(p.HeightCm) {
		errs = append(errs, fmt.Errorf("product height must be a positive number, got %g", p.HeightCm))
	}
	return errors.Join(errs...)
}

// Validate reports every violated rack invariant. A rack that fails validation
// is still usable by the placement engine; it just degrades to "nothing fits".
func (r RackConfig) Validate() error {
	var errs []error
	if !ValidSize(r.WidthCm) {
		errs = append(errs, fmt.Errorf("rack width must be a positive number, got %g", r.WidthCm))
	}
	if r.NumberOfShelves < 1 || r.NumberOfShelves > MaxShelves {
		errs = append(errs, fmt.Errorf("rack needs 1 to %d shelves, got %d", MaxShelves, r.NumberOfShelves))
	}
	if !ValidSize(r.ShelfHeightCm) {
		errs = append(errs, fmt.Errorf("shelf height must be a positive number, got %g", r.ShelfHeightCm))
	}
	if !ValidLength(r.EdgeMarginCm) {
		errs = append(errs, fmt.Errorf("edge margin must be zero or more, got %g", r.EdgeMarginCm))
	}
	if !ValidLength(r.InterProductGapCm) {
		errs = append(errs, fmt.Errorf("inter-product gap must be zero or more, got %g", r.InterProductGapCm))
	}
	if r.WidthCm <= 2*r.EdgeMarginCm {
		errs = append(errs, fmt.Errorf("edge margins (2 x %g) leave no usable width on a %g cm rack", r.EdgeMarginCm, r.WidthCm))
	}
	if want := float64(r.NumberOfShelves) * r.ShelfHeightCm; !(math.Abs(r.TotalHeightCm-want) <= heightTolerance) {
		errs = append(errs, fmt.Errorf("total height %g does not match %d shelves x %g", r.TotalHeightCm, r.NumberOfShelves, r.ShelfHeightCm))
	}
	return errors.Join(errs...)
}

// WithEdgeMargin returns a copy with a new edge margin.
func (r RackConfig) WithEdgeMargin(cm float64) RackConfig {
	r.EdgeMarginCm = cm
	return r
}

// WithGap returns a copy with a new inter-product gap.
func (r RackConfig) WithGap(cm float64) RackConfig {
	r.InterProductGapCm = cm
	return r
}

// WithWidth returns a copy with a new rack width.
func (r RackConfig) WithWidth(cm float64) RackConfig {
	r.WidthCm = cm
	return r
}

// WithShelves returns a copy with a new shelf count and height. The total
// height is recomputed so the uniform-shelf invariant keeps holding.
func (r RackConfig) WithShelves(n int, shelfHeightCm float64) RackConfig {
	r.NumberOfShelves = n
	r.ShelfHeightCm = shelfHeightCm
	r.TotalHeightCm = float64(n) * shelfHeightCm
	return r
}
