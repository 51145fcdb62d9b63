package engine

import (
	"github.com/piwi3910/ShelfPlan/internal/model"
)

// Drop is one replayed drop request that was not placed.
type Drop struct {
	ShelfIndex int    `json:"shelf_index"`
	ProductID  string `json:"product_id"`
	Reason     string `json:"reason"`
}

// ReplayResult is the layout produced by replaying drop requests on a rack.
type ReplayResult struct {
	Rack        model.RackConfig `json:"rack"`
	Shelves     []model.Shelf    `json:"shelves"`
	Placed      int              `json:"placed"`
	Rejected    []Drop           `json:"rejected"`
	FillPercent float64          `json:"fill_percent"`
}

// Replay appends the requested products shelf by shelf on fresh, empty
// shelves of rack, accepting exactly what CanFit and NextPosition accept.
// requests[i] lists product IDs for shelf i in drop order. Requests for
// shelves the rack does not have and unknown product IDs are rejected.
func Replay(requests [][]string, catalog model.Catalog, rack model.RackConfig) ReplayResult {
	result := ReplayResult{
		Rack:    rack,
		Shelves: model.NewShelves(rack.NumberOfShelves),
	}

	for shelfIdx, ids := range requests {
		for _, id := range ids {
			if shelfIdx >= len(result.Shelves) {
				result.Rejected = append(result.Rejected, Drop{ShelfIndex: shelfIdx, ProductID: id, Reason: "rack has no such shelf"})
				continue
			}
			product, ok := catalog.Lookup(id)
			if !ok {
				result.Rejected = append(result.Rejected, Drop{ShelfIndex: shelfIdx, ProductID: id, Reason: "unknown product"})
				continue
			}

			shelf := &result.Shelves[shelfIdx]
			fit := CanFit(product, *shelf, catalog, rack)
			if !fit.Fits {
				result.Rejected = append(result.Rejected, Drop{ShelfIndex: shelfIdx, ProductID: id, Reason: fit.Reason})
				continue
			}
			x, _ := NextPosition(product, *shelf, catalog, rack)
			shelf.Placements = append(shelf.Placements, model.ShelfPlacement{ProductID: id, XPositionCm: x})
			result.Placed++
		}
	}

	_, result.FillPercent = SummarizeRack(result.Shelves, catalog, rack)
	return result
}

// RackComparison is the replay outcome for one candidate rack.
type RackComparison struct {
	Name   string       `json:"name"`
	Result ReplayResult `json:"result"`
}

// CompareRacks replays the same drop requests on every template so a user
// can see which rack holds the assortment best.
func CompareRacks(requests [][]string, catalog model.Catalog, templates []model.RackTemplate) []RackComparison {
	results := make([]RackComparison, 0, len(templates))
	for _, t := range templates {
		results = append(results, RackComparison{
			Name:   t.Name,
			Result: Replay(requests, catalog, t.Config),
		})
	}
	return results
}
