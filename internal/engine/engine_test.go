package engine

import (
	"math"
	"testing"

	"github.com/piwi3910/ShelfPlan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRack() model.RackConfig {
	return model.RackConfig{
		ID:                "rack-1",
		Name:              "Standard Rack",
		WidthCm:           120,
		TotalHeightCm:     180,
		NumberOfShelves:   5,
		ShelfHeightCm:     36,
		EdgeMarginCm:      2,
		InterProductGapCm: 2,
	}
}

func testProduct(id string, w, h float64) model.Product {
	return model.Product{ID: id, Name: "Product " + id, WidthCm: w, HeightCm: h}
}

func testShelf(placements ...model.ShelfPlacement) model.Shelf {
	if placements == nil {
		placements = []model.ShelfPlacement{}
	}
	return model.Shelf{ID: "shelf-1", Placements: placements}
}

func at(id string, x float64) model.ShelfPlacement {
	return model.ShelfPlacement{ProductID: id, XPositionCm: x}
}

var (
	p1 = testProduct("p1", 10, 20)
	p2 = testProduct("p2", 12, 25)
)

func testCatalog() model.Catalog {
	return model.NewCatalog(p1, p2)
}

// ─── UsableWidth ───────────────────────────────────────────

func TestUsableWidth_SubtractsBothMargins(t *testing.T) {
	assert.Equal(t, 116.0, UsableWidth(testRack()))
}

func TestUsableWidth_ZeroMarginIsFullWidth(t *testing.T) {
	assert.Equal(t, 120.0, UsableWidth(testRack().WithEdgeMargin(0)))
}

func TestUsableWidth_MisconfiguredRackGoesNegative(t *testing.T) {
	assert.Equal(t, -20.0, UsableWidth(testRack().WithEdgeMargin(70)))
}

// ─── OccupiedWidth ─────────────────────────────────────────

func TestOccupiedWidth_EmptyShelf(t *testing.T) {
	assert.Equal(t, 0.0, OccupiedWidth(testShelf(), testCatalog(), testRack()))
}

func TestOccupiedWidth_SingleProductHasNoGap(t *testing.T) {
	shelf := testShelf(at("p1", 0))
	assert.Equal(t, 10.0, OccupiedWidth(shelf, testCatalog(), testRack()))
}

func TestOccupiedWidth_GapsBetweenProducts(t *testing.T) {
	shelf := testShelf(at("p1", 0), at("p2", 12))
	assert.Equal(t, 24.0, OccupiedWidth(shelf, testCatalog(), testRack()))

	shelf = testShelf(at("p1", 0), at("p2", 12), at("p1", 26))
	assert.Equal(t, 10.0+12+10+2*2, OccupiedWidth(shelf, testCatalog(), testRack()))
}

func TestOccupiedWidth_DanglingPlacementsAddNoWidthOrGap(t *testing.T) {
	shelf := testShelf(at("p1", 0), at("ghost", 12), at("p2", 30))
	// Only p1 and p2 resolve: 10 + 12 + one gap.
	assert.Equal(t, 24.0, OccupiedWidth(shelf, testCatalog(), testRack()))
}

func TestOccupiedWidth_OnlyDanglingPlacements(t *testing.T) {
	shelf := testShelf(at("ghost", 0), at("phantom", 5))
	assert.Equal(t, 0.0, OccupiedWidth(shelf, testCatalog(), testRack()))
}

// ─── RemainingSpace ────────────────────────────────────────

func TestRemainingSpace_EmptyShelfReservesNoGap(t *testing.T) {
	assert.Equal(t, 116.0, RemainingSpace(testShelf(), testCatalog(), testRack()))
}

func TestRemainingSpace_ReservesOneExtraGap(t *testing.T) {
	shelf := testShelf(at("p1", 0))
	assert.Equal(t, 104.0, RemainingSpace(shelf, testCatalog(), testRack()))

	shelf = testShelf(at("p1", 0), at("p2", 12))
	assert.Equal(t, 116.0-24-2, RemainingSpace(shelf, testCatalog(), testRack()))
}

func TestRemainingSpace_CanBeNegative(t *testing.T) {
	rack := testRack().WithWidth(14)
	shelf := testShelf(at("p1", 0))
	assert.Equal(t, 10.0-10-2, RemainingSpace(shelf, testCatalog(), rack))
}

func TestRemainingSpace_DanglingOnlyShelfStillReservesGap(t *testing.T) {
	shelf := testShelf(at("ghost", 0))
	assert.Equal(t, 114.0, RemainingSpace(shelf, testCatalog(), testRack()))
}

// ─── CanFit ────────────────────────────────────────────────

func TestCanFit_ExactRemainingWidthFits(t *testing.T) {
	shelf := testShelf(at("p1", 0))
	result := CanFit(testProduct("wide", 104, 20), shelf, testCatalog(), testRack())

	assert.True(t, result.Fits)
	assert.Empty(t, result.Reason)
	assert.Equal(t, RejectNone, result.Rejection)
	assert.Equal(t, 104.0, result.RemainingCm)
}

func TestCanFit_AnyExcessWidthIsRejected(t *testing.T) {
	shelf := testShelf(at("p1", 0))
	catalog := testCatalog()

	for _, width := range []float64{104.1, 104.0001, 104.0000001} {
		result := CanFit(testProduct("wide", width, 20), shelf, catalog, testRack())
		assert.False(t, result.Fits, "width %v should not fit", width)
		assert.Equal(t, RejectWidth, result.Rejection)
	}
}

func TestCanFit_WidthReasonShowsRoundedRemaining(t *testing.T) {
	shelf := testShelf(at("p1", 0))
	result := CanFit(testProduct("wide", 104.1, 20), shelf, testCatalog(), testRack())

	require.False(t, result.Fits)
	assert.Equal(t, "Product width (104.1cm) exceeds remaining shelf width (104.0cm)", result.Reason)
}

func TestCanFit_TooTallRejectedOnHeight(t *testing.T) {
	result := CanFit(testProduct("tall", 5, 40), testShelf(), testCatalog(), testRack())

	assert.False(t, result.Fits)
	assert.Equal(t, RejectHeight, result.Rejection)
	assert.Equal(t, "Product height (40cm) exceeds shelf height (36cm)", result.Reason)
}

func TestCanFit_HeightReportedEvenWhenWidthAlsoFails(t *testing.T) {
	result := CanFit(testProduct("huge", 500, 40), testShelf(), testCatalog(), testRack())

	assert.False(t, result.Fits)
	assert.Equal(t, RejectHeight, result.Rejection)
	assert.Contains(t, result.Reason, "height")
}

func TestCanFit_ExactShelfHeightFits(t *testing.T) {
	result := CanFit(testProduct("snug", 5, 36), testShelf(), testCatalog(), testRack())
	assert.True(t, result.Fits)
}

func TestCanFit_MisconfiguredRackFitsNothing(t *testing.T) {
	rack := testRack().WithEdgeMargin(60)
	result := CanFit(testProduct("tiny", 0.1, 1), testShelf(), testCatalog(), rack)

	assert.False(t, result.Fits)
	assert.Equal(t, RejectWidth, result.Rejection)
}

func TestCanFit_NaNNeverFits(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name    string
		product model.Product
		shelf   model.Shelf
		catalog model.Catalog
		rack    model.RackConfig
		want    Rejection
	}{
		{"NaN shelf height", testProduct("tall", 5, 500), testShelf(), testCatalog(), testRack().WithShelves(5, nan), RejectHeight},
		{"NaN product height", testProduct("odd", 5, nan), testShelf(), testCatalog(), testRack(), RejectHeight},
		{"NaN product width", testProduct("odd", nan, 10), testShelf(), testCatalog(), testRack(), RejectWidth},
		{"NaN gap", testProduct("wide", 500, 10), testShelf(at("p1", 0)), testCatalog(), testRack().WithGap(nan), RejectWidth},
		{
			"NaN-wide product already on the shelf",
			testProduct("wide", 500, 10),
			testShelf(at("bad", 0)),
			model.NewCatalog(testProduct("bad", nan, nan)),
			testRack(),
			RejectWidth,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanFit(tt.product, tt.shelf, tt.catalog, tt.rack)
			assert.False(t, result.Fits)
			assert.Equal(t, tt.want, result.Rejection)
			assert.NotEmpty(t, result.Reason)

			_, ok := NextPosition(tt.product, tt.shelf, tt.catalog, tt.rack)
			assert.False(t, ok)
		})
	}
}

func TestRejectionString(t *testing.T) {
	assert.Equal(t, "none", RejectNone.String())
	assert.Equal(t, "height", RejectHeight.String())
	assert.Equal(t, "width", RejectWidth.String())
}

// ─── NextPosition ──────────────────────────────────────────

func TestNextPosition_EmptyShelfIsZero(t *testing.T) {
	x, ok := NextPosition(p1, testShelf(), testCatalog(), testRack())
	require.True(t, ok)
	assert.Equal(t, 0.0, x)
}

func TestNextPosition_AppendsAfterRightmost(t *testing.T) {
	shelf := testShelf(at("p1", 0))
	x, ok := NextPosition(testProduct("wide", 104, 20), shelf, testCatalog(), testRack())
	require.True(t, ok)
	assert.Equal(t, 12.0, x)
}

func TestNextPosition_UsesRightmostByPositionNotInsertion(t *testing.T) {
	// p2 was inserted first but sits further right.
	shelf := testShelf(at("p2", 30), at("p1", 0))
	x, ok := NextPosition(testProduct("small", 5, 10), shelf, testCatalog(), testRack())
	require.True(t, ok)
	assert.Equal(t, 30.0+12+2, x)
}

func TestNextPosition_DoesNotReuseInteriorGaps(t *testing.T) {
	// A hole between 12 and 50 is left unused.
	shelf := testShelf(at("p1", 0), at("p2", 50))
	x, ok := NextPosition(testProduct("small", 5, 10), shelf, testCatalog(), testRack())
	require.True(t, ok)
	assert.Equal(t, 64.0, x)
}

func TestNextPosition_NoPositionWhenItDoesNotFit(t *testing.T) {
	shelf := testShelf(at("p1", 0))

	_, ok := NextPosition(testProduct("wide", 104.1, 20), shelf, testCatalog(), testRack())
	assert.False(t, ok)

	_, ok = NextPosition(testProduct("tall", 1, 40), testShelf(), testCatalog(), testRack())
	assert.False(t, ok)
}

func TestNextPosition_DanglingOnlyShelfFallsBackToZero(t *testing.T) {
	shelf := testShelf(at("ghost", 40))
	x, ok := NextPosition(p1, shelf, testCatalog(), testRack())
	require.True(t, ok)
	assert.Equal(t, 0.0, x)
}

func TestNextPosition_IgnoresDanglingRightmost(t *testing.T) {
	shelf := testShelf(at("p1", 0), at("ghost", 80))
	x, ok := NextPosition(p2, shelf, testCatalog(), testRack())
	require.True(t, ok)
	assert.Equal(t, 12.0, x)
}

// ─── IsPositionValid ───────────────────────────────────────

func TestIsPositionValid_EmptyShelfAcceptsAnything(t *testing.T) {
	assert.True(t, IsPositionValid(-50, 500, testShelf(), testCatalog(), testRack()))
}

func TestIsPositionValid(t *testing.T) {
	// p1 occupies [20, 30]; with a 2 cm gap the exclusion zone is [18, 32].
	shelf := testShelf(at("p1", 20))

	tests := []struct {
		name  string
		x     float64
		width float64
		want  bool
	}{
		{"well to the left", 0, 10, true},
		{"touching left exclusion edge", 8, 10, true},
		{"inside left gap", 8.5, 10, false},
		{"overlapping product", 25, 3, false},
		{"covering everything", 0, 100, false},
		{"touching right exclusion edge", 32, 5, true},
		{"inside right gap", 31.9, 5, false},
		{"well to the right", 60, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsPositionValid(tt.x, tt.width, shelf, testCatalog(), testRack())
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsPositionValid_SkipsDanglingPlacements(t *testing.T) {
	shelf := testShelf(at("ghost", 20))
	assert.True(t, IsPositionValid(20, 10, shelf, testCatalog(), testRack()))
}

func TestIsPositionValid_AgreesWithNextPosition(t *testing.T) {
	shelf := testShelf(at("p1", 0), at("p2", 12))
	product := testProduct("next", 8, 10)
	x, ok := NextPosition(product, shelf, testCatalog(), testRack())
	require.True(t, ok)
	assert.True(t, IsPositionValid(x, product.WidthCm, shelf, testCatalog(), testRack()))
}

// ─── SortedPlacements ──────────────────────────────────────

func TestSortedPlacements_OrdersLeftToRight(t *testing.T) {
	shelf := testShelf(at("p2", 40), at("p1", 0), at("p1", 20))
	sorted := SortedPlacements(shelf, testCatalog())

	require.Len(t, sorted, 3)
	for i := 1; i < len(sorted); i++ {
		assert.LessOrEqual(t, sorted[i-1].Placement.XPositionCm, sorted[i].Placement.XPositionCm)
	}
	assert.Equal(t, "p2", sorted[2].Product.ID)
	assert.Equal(t, 52.0, sorted[2].Right())
}

func TestSortedPlacements_DropsUnresolvable(t *testing.T) {
	shelf := testShelf(at("ghost", 5), at("p1", 10))
	sorted := SortedPlacements(shelf, testCatalog())

	require.Len(t, sorted, 1)
	assert.Equal(t, "p1", sorted[0].Placement.ProductID)
}

func TestSortedPlacements_StableForEqualPositions(t *testing.T) {
	shelf := testShelf(at("p2", 0), at("p1", 0))
	sorted := SortedPlacements(shelf, testCatalog())

	require.Len(t, sorted, 2)
	assert.Equal(t, "p2", sorted[0].Product.ID)
	assert.Equal(t, "p1", sorted[1].Product.ID)
}

func TestEngineDoesNotMutateInputs(t *testing.T) {
	shelf := testShelf(at("p2", 40), at("p1", 0))
	before := shelf.Clone()
	catalog := testCatalog()
	rack := testRack()

	SortedPlacements(shelf, catalog)
	NextPosition(p1, shelf, catalog, rack)
	CanFit(p1, shelf, catalog, rack)
	Facings(p1, shelf, catalog, rack)

	assert.Equal(t, before, shelf)
	assert.Len(t, catalog, 2)
	assert.Equal(t, testRack(), rack)
}

// ─── Scenarios ─────────────────────────────────────────────

func TestScenario_StandardRackSecondProduct(t *testing.T) {
	rack := testRack()
	catalog := testCatalog()
	shelf := testShelf(at("p1", 0))

	assert.Equal(t, 116.0, UsableWidth(rack))
	assert.Equal(t, 10.0, OccupiedWidth(shelf, catalog, rack))
	assert.Equal(t, 104.0, RemainingSpace(shelf, catalog, rack))

	x, ok := NextPosition(testProduct("exact", 104, 30), shelf, catalog, rack)
	require.True(t, ok)
	assert.Equal(t, 12.0, x)

	assert.False(t, CanFit(testProduct("over", 104.1, 30), shelf, catalog, rack).Fits)
}

func TestScenario_TallProductOnEmptyShelf(t *testing.T) {
	for _, width := range []float64{1, 50, 116, 200} {
		result := CanFit(testProduct("tall", width, 40), testShelf(), testCatalog(), testRack())
		assert.False(t, result.Fits)
		assert.Equal(t, RejectHeight, result.Rejection, "width %v", width)
	}
}

func TestScenario_FillShelfUntilFull(t *testing.T) {
	rack := testRack()
	catalog := testCatalog()
	shelf := testShelf()

	placed := 0
	for {
		x, ok := NextPosition(p1, shelf, catalog, rack)
		if !ok {
			break
		}
		require.True(t, IsPositionValid(x, p1.WidthCm, shelf, catalog, rack))
		shelf.Placements = append(shelf.Placements, at("p1", x))
		placed++
	}

	// 116 usable: n*10 + (n-1)*2 <= 116 → n = 9 (106 cm), a 10th needs 118.
	assert.Equal(t, 9, placed)
	assert.Equal(t, 106.0, OccupiedWidth(shelf, catalog, rack))
}
