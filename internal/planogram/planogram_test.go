package planogram

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/ShelfPlan/internal/engine"
	"github.com/piwi3910/ShelfPlan/internal/model"
)

func standardRack() model.RackConfig {
	for _, t := range model.DefaultRackTemplates() {
		if t.ID == model.DefaultTemplateID {
			return t.Config
		}
	}
	panic("standard template missing")
}

func testCatalog() model.Catalog {
	return model.NewCatalog(
		model.Product{ID: "p1", Name: "Lipstick", WidthCm: 10, HeightCm: 20},
		model.Product{ID: "p2", Name: "Mascara", WidthCm: 12, HeightCm: 25},
		model.Product{ID: "tall", Name: "Gift Box", WidthCm: 5, HeightCm: 40},
		model.Product{ID: "wide", Name: "Display", WidthCm: 104, HeightCm: 30},
	)
}

func TestNew_CreatesEmptyShelves(t *testing.T) {
	p := New(standardRack())

	shelves := p.Shelves()
	require.Len(t, shelves, 5)
	for i, s := range shelves {
		assert.Equal(t, model.ShelfID(i), s.ID)
		assert.Empty(t, s.Placements)
	}
}

func TestAddPlacement_AppendsAtEngineChosenPosition(t *testing.T) {
	p := New(standardRack())
	catalog := testCatalog()

	first, err := p.AddPlacement(0, "p1", catalog)
	require.NoError(t, err)
	assert.Equal(t, 0.0, first.XPositionCm)

	second, err := p.AddPlacement(0, "wide", catalog)
	require.NoError(t, err)
	assert.Equal(t, 12.0, second.XPositionCm)

	shelf, err := p.Shelf(0)
	require.NoError(t, err)
	assert.Equal(t, []model.ShelfPlacement{first, second}, shelf.Placements)
}

func TestAddPlacement_RejectedDropLeavesShelfUnchanged(t *testing.T) {
	p := New(standardRack())
	catalog := testCatalog()

	_, err := p.AddPlacement(1, "tall", catalog)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDoesNotFit))

	var rej *RejectionError
	require.True(t, errors.As(err, &rej))
	assert.Equal(t, "shelf-1", rej.ShelfID)
	assert.Equal(t, engine.RejectHeight, rej.Fit.Rejection)
	assert.Contains(t, err.Error(), "exceeds shelf height")

	shelf, _ := p.Shelf(1)
	assert.Empty(t, shelf.Placements)
}

func TestAddPlacement_WidthRejection(t *testing.T) {
	p := New(standardRack())
	catalog := testCatalog()
	catalog["wider"] = model.Product{ID: "wider", Name: "Wider", WidthCm: 104.1, HeightCm: 30}

	_, err := p.AddPlacement(0, "p1", catalog)
	require.NoError(t, err)

	_, err = p.AddPlacement(0, "wider", catalog)
	var rej *RejectionError
	require.True(t, errors.As(err, &rej))
	assert.Equal(t, engine.RejectWidth, rej.Fit.Rejection)
	assert.Equal(t, 104.0, rej.Fit.RemainingCm)
}

func TestAddPlacement_Errors(t *testing.T) {
	p := New(standardRack())
	catalog := testCatalog()

	_, err := p.AddPlacement(5, "p1", catalog)
	assert.ErrorIs(t, err, ErrShelfOutOfRange)

	_, err = p.AddPlacement(-1, "p1", catalog)
	assert.ErrorIs(t, err, ErrShelfOutOfRange)

	_, err = p.AddPlacement(0, "nope", catalog)
	assert.ErrorIs(t, err, ErrUnknownProduct)
}

func TestRemovePlacement_RemovesEveryCopyOnThatShelfOnly(t *testing.T) {
	p := New(standardRack())
	catalog := testCatalog()
	for _, id := range []string{"p1", "p2", "p1"} {
		_, err := p.AddPlacement(0, id, catalog)
		require.NoError(t, err)
	}
	_, err := p.AddPlacement(1, "p1", catalog)
	require.NoError(t, err)

	removed := p.RemovePlacement("shelf-0", "p1")
	assert.Equal(t, 2, removed)

	shelf, _ := p.Shelf(0)
	require.Len(t, shelf.Placements, 1)
	assert.Equal(t, model.ShelfPlacement{ProductID: "p2", XPositionCm: 12}, shelf.Placements[0])

	other, _ := p.Shelf(1)
	assert.Len(t, other.Placements, 1)
}

func TestRemovePlacement_LeavesHoleThatIsNotReused(t *testing.T) {
	p := New(standardRack())
	catalog := testCatalog()
	for _, id := range []string{"p1", "p2"} {
		_, err := p.AddPlacement(0, id, catalog)
		require.NoError(t, err)
	}
	p.RemovePlacement("shelf-0", "p1")

	next, err := p.AddPlacement(0, "p1", catalog)
	require.NoError(t, err)
	assert.Equal(t, 26.0, next.XPositionCm)
}

func TestRemovePlacement_UnknownShelfOrProduct(t *testing.T) {
	p := New(standardRack())
	assert.Equal(t, 0, p.RemovePlacement("shelf-99", "p1"))
	assert.Equal(t, 0, p.RemovePlacement("shelf-0", "p1"))
}

func TestShelvesReturnsCopies(t *testing.T) {
	p := New(standardRack())
	_, err := p.AddPlacement(0, "p1", testCatalog())
	require.NoError(t, err)

	shelves := p.Shelves()
	shelves[0].Placements[0].XPositionCm = 99

	shelf, _ := p.Shelf(0)
	assert.Equal(t, 0.0, shelf.Placements[0].XPositionCm)
}

func TestShelf_OutOfRange(t *testing.T) {
	_, err := New(standardRack()).Shelf(7)
	assert.ErrorIs(t, err, ErrShelfOutOfRange)
}

func TestUpdateRack_GrowAndShrinkShelves(t *testing.T) {
	p := New(standardRack())
	catalog := testCatalog()
	_, err := p.AddPlacement(0, "p1", catalog)
	require.NoError(t, err)
	_, err = p.AddPlacement(4, "p2", catalog)
	require.NoError(t, err)

	seven := 7
	require.NoError(t, p.UpdateRack(RackUpdate{NumberOfShelves: &seven}))
	assert.Equal(t, 7, p.Rack().NumberOfShelves)
	assert.Equal(t, 7*36.0, p.Rack().TotalHeightCm)
	shelves := p.Shelves()
	require.Len(t, shelves, 7)
	assert.Equal(t, "shelf-6", shelves[6].ID)
	assert.Empty(t, shelves[6].Placements)
	assert.Len(t, shelves[4].Placements, 1)

	two := 2
	require.NoError(t, p.UpdateRack(RackUpdate{NumberOfShelves: &two}))
	shelves = p.Shelves()
	require.Len(t, shelves, 2)
	assert.Len(t, shelves[0].Placements, 1)
	assert.Equal(t, 72.0, p.Rack().TotalHeightCm)
	assert.NoError(t, p.Rack().Validate())
}

func TestUpdateRack_ShelfHeightKeepsTotalInSync(t *testing.T) {
	p := New(standardRack())
	h := 40.0
	require.NoError(t, p.UpdateRack(RackUpdate{ShelfHeightCm: &h}))
	assert.Equal(t, 200.0, p.Rack().TotalHeightCm)

	_, err := p.AddPlacement(0, "tall", testCatalog())
	assert.NoError(t, err)
}

func TestUpdateRack_WidthAndGapsDoNotMovePlacements(t *testing.T) {
	p := New(standardRack())
	catalog := testCatalog()
	for _, id := range []string{"p1", "p2"} {
		_, err := p.AddPlacement(0, id, catalog)
		require.NoError(t, err)
	}

	width, gap, margin, name := 60.0, 5.0, 1.0, "Narrow"
	require.NoError(t, p.UpdateRack(RackUpdate{Name: &name, WidthCm: &width, InterProductGapCm: &gap, EdgeMarginCm: &margin}))

	rack := p.Rack()
	assert.Equal(t, "Narrow", rack.Name)
	assert.Equal(t, 60.0, rack.WidthCm)
	assert.Equal(t, 5.0, rack.InterProductGapCm)
	assert.Equal(t, 1.0, rack.EdgeMarginCm)

	shelf, _ := p.Shelf(0)
	assert.Equal(t, 12.0, shelf.Placements[1].XPositionCm)

	next, err := p.AddPlacement(0, "p1", catalog)
	require.NoError(t, err)
	assert.Equal(t, 12.0+12+5, next.XPositionCm)
}

func TestUpdateRack_RejectsEmptyRack(t *testing.T) {
	p := New(standardRack())
	zero := 0
	err := p.UpdateRack(RackUpdate{NumberOfShelves: &zero})
	assert.ErrorIs(t, err, ErrInvalidRack)
	assert.Equal(t, 5, p.Rack().NumberOfShelves)

	neg := -3.0
	err = p.UpdateRack(RackUpdate{ShelfHeightCm: &neg})
	assert.ErrorIs(t, err, ErrInvalidRack)
}

func TestUpdateRack_RejectsNonFiniteAndOutOfRangeValues(t *testing.T) {
	nan, inf, neg := math.NaN(), math.Inf(1), -1.0
	tooMany := model.MaxShelves + 1

	tests := []struct {
		name   string
		update RackUpdate
	}{
		{"NaN gap", RackUpdate{InterProductGapCm: &nan}},
		{"NaN shelf height", RackUpdate{ShelfHeightCm: &nan}},
		{"NaN gap and shelf height", RackUpdate{InterProductGapCm: &nan, ShelfHeightCm: &nan}},
		{"NaN margin", RackUpdate{EdgeMarginCm: &nan}},
		{"NaN width", RackUpdate{WidthCm: &nan}},
		{"infinite width", RackUpdate{WidthCm: &inf}},
		{"infinite gap", RackUpdate{InterProductGapCm: &inf}},
		{"negative gap", RackUpdate{InterProductGapCm: &neg}},
		{"negative margin", RackUpdate{EdgeMarginCm: &neg}},
		{"too many shelves", RackUpdate{NumberOfShelves: &tooMany}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(standardRack())
			err := p.UpdateRack(tt.update)
			assert.ErrorIs(t, err, ErrInvalidRack)
			assert.Equal(t, standardRack(), p.Rack())
			assert.Len(t, p.Shelves(), 5)
		})
	}
}

func TestUpdateRack_RejectedNaNKeepsOverflowRejection(t *testing.T) {
	p := New(standardRack())
	nan := math.NaN()
	require.Error(t, p.UpdateRack(RackUpdate{InterProductGapCm: &nan, ShelfHeightCm: &nan}))

	catalog := model.NewCatalog(model.Product{ID: "giant", Name: "Giant", WidthCm: 10, HeightCm: 500})
	_, err := p.AddPlacement(0, "giant", catalog)
	assert.ErrorIs(t, err, ErrDoesNotFit)
}

func TestUpdateRack_MisconfiguredMarginIsAllowedButFitsNothing(t *testing.T) {
	p := New(standardRack())
	margin := 60.0
	require.NoError(t, p.UpdateRack(RackUpdate{EdgeMarginCm: &margin}))

	_, err := p.AddPlacement(0, "p1", testCatalog())
	assert.ErrorIs(t, err, ErrDoesNotFit)
}

func TestSelectTemplate_ClearsShelves(t *testing.T) {
	p := New(standardRack())
	_, err := p.AddPlacement(0, "p1", testCatalog())
	require.NoError(t, err)

	large := model.DefaultRackTemplates()[2]
	p.SelectTemplate(large)

	assert.Equal(t, large.Config, p.Rack())
	shelves := p.Shelves()
	require.Len(t, shelves, large.Config.NumberOfShelves)
	for _, s := range shelves {
		assert.Empty(t, s.Placements)
	}
}

func TestResetGaps(t *testing.T) {
	p := New(standardRack())
	gap, margin := 7.0, 9.0
	require.NoError(t, p.UpdateRack(RackUpdate{InterProductGapCm: &gap, EdgeMarginCm: &margin}))

	p.ResetGaps(model.DefaultAppConfig())
	assert.Equal(t, model.DefaultEdgeMarginCm, p.Rack().EdgeMarginCm)
	assert.Equal(t, model.DefaultInterProductGapCm, p.Rack().InterProductGapCm)
}

func TestRequestsReplayToSameLayout(t *testing.T) {
	p := New(standardRack())
	catalog := testCatalog()
	drops := []struct {
		shelf int
		id    string
	}{{0, "p1"}, {0, "p2"}, {2, "wide"}, {2, "p1"}, {0, "p1"}}
	for _, d := range drops {
		_, _ = p.AddPlacement(d.shelf, d.id, catalog)
	}

	requests := p.Requests()
	require.Len(t, requests, 5)
	assert.Equal(t, []string{"p1", "p2", "p1"}, requests[0])
	assert.Empty(t, requests[1])

	replayed := engine.Replay(requests, catalog, p.Rack())
	assert.Equal(t, p.Shelves(), replayed.Shelves)
	assert.Empty(t, replayed.Rejected)
}

func TestSummary(t *testing.T) {
	p := New(standardRack())
	_, err := p.AddPlacement(0, "p1", testCatalog())
	require.NoError(t, err)

	summaries, fill := p.Summary(testCatalog())
	require.Len(t, summaries, 5)
	assert.Equal(t, 10.0, summaries[0].OccupiedCm)
	assert.InDelta(t, 10.0/(116*5)*100, fill, 1e-9)
}

func TestWithLogger_LogsDropsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	p := New(standardRack(), WithLogger(logger))

	_, err := p.AddPlacement(0, "p1", testCatalog())
	require.NoError(t, err)
	_, _ = p.AddPlacement(0, "tall", testCatalog())

	out := buf.String()
	assert.Contains(t, out, "drop accepted")
	assert.Contains(t, out, "drop rejected")
}

func TestWithLogger_NilKeepsDefault(t *testing.T) {
	p := New(standardRack(), WithLogger(nil))
	assert.NotNil(t, p.logger)
}
