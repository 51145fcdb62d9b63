package engine

import (
	"github.com/piwi3910/ShelfPlan/internal/model"
)

// ShelfSummary holds the geometry figures a renderer shows for one shelf.
type ShelfSummary struct {
	ShelfID     string  `json:"shelf_id"`
	UsableCm    float64 `json:"usable_cm"`
	OccupiedCm  float64 `json:"occupied_cm"`
	RemainingCm float64 `json:"remaining_cm"`
	Resolved    int     `json:"resolved"` // placements whose product is in the catalog
	Dangling    int     `json:"dangling"` // placements referencing unknown products
	FillPercent float64 `json:"fill_percent"`
}

// Summarize computes the geometry figures of one shelf.
func Summarize(shelf model.Shelf, catalog model.Catalog, rack model.RackConfig) ShelfSummary {
	resolved := len(SortedPlacements(shelf, catalog))
	usable := UsableWidth(rack)
	occupied := OccupiedWidth(shelf, catalog, rack)

	fill := 0.0
	if usable > 0 {
		fill = (occupied / usable) * 100.0
	}

	return ShelfSummary{
		ShelfID:     shelf.ID,
		UsableCm:    usable,
		OccupiedCm:  occupied,
		RemainingCm: RemainingSpace(shelf, catalog, rack),
		Resolved:    resolved,
		Dangling:    len(shelf.Placements) - resolved,
		FillPercent: fill,
	}
}

// SummarizeRack summarizes every shelf and returns the overall fill
// percentage of the rack's usable shelf width.
func SummarizeRack(shelves []model.Shelf, catalog model.Catalog, rack model.RackConfig) ([]ShelfSummary, float64) {
	summaries := make([]ShelfSummary, len(shelves))
	var occupied, usable float64
	for i, s := range shelves {
		summaries[i] = Summarize(s, catalog, rack)
		occupied += summaries[i].OccupiedCm
		usable += summaries[i].UsableCm
	}
	if usable <= 0 {
		return summaries, 0
	}
	return summaries, (occupied / usable) * 100.0
}

// Segment is an empty stretch of a shelf's usable band.
type Segment struct {
	StartCm float64 `json:"start_cm"`
	EndCm   float64 `json:"end_cm"`
}

// Width returns the length of the segment.
func (s Segment) Width() float64 {
	return s.EndCm - s.StartCm
}

// FreeSegments lists the empty stretches of the usable band from left to
// right: before the first product, between products (including holes left by
// removals) and after the last one. Gap requirements are not subtracted.
// The position assigner never fills interior segments; they are reported for
// display only.
func FreeSegments(shelf model.Shelf, catalog model.Catalog, rack model.RackConfig) []Segment {
	usable := UsableWidth(rack)
	if usable <= 0 {
		return nil
	}

	var segments []Segment
	cursor := 0.0
	for _, pp := range SortedPlacements(shelf, catalog) {
		if pp.Left() > cursor {
			segments = append(segments, Segment{StartCm: cursor, EndCm: pp.Left()})
		}
		if pp.Right() > cursor {
			cursor = pp.Right()
		}
	}
	if usable > cursor {
		segments = append(segments, Segment{StartCm: cursor, EndCm: usable})
	}
	return segments
}
