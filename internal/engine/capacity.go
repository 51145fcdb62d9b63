package engine

import (
	"github.com/piwi3910/ShelfPlan/internal/model"
)

// maxFacings bounds Facings for degenerate products with no width and no gap.
const maxFacings = 1000

// Facings returns how many more copies of product the shelf accepts when
// they are appended one after another. It replays the real fit check and
// position assigner, so the answer always agrees with what a user would get
// by dropping the product repeatedly.
func Facings(product model.Product, shelf model.Shelf, catalog model.Catalog, rack model.RackConfig) int {
	// Copies of the product must resolve even if it is not in the catalog yet.
	lookup := make(model.Catalog, len(catalog)+1)
	for id, p := range catalog {
		lookup[id] = p
	}
	lookup[product.ID] = product

	sim := shelf.Clone()
	count := 0
	for count < maxFacings {
		x, ok := NextPosition(product, sim, lookup, rack)
		if !ok {
			break
		}
		sim.Placements = append(sim.Placements, model.ShelfPlacement{ProductID: product.ID, XPositionCm: x})
		count++
	}
	return count
}
