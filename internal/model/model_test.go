package model

import (
	"math"
	"testing"
)

func TestNewProductAssignsShortID(t *testing.T) {
	p := NewProduct("Lipstick", 3, 8)
	if len(p.ID) != 8 {
		t.Errorf("expected 8-char ID, got %q", p.ID)
	}
	if p.WidthCm != 3 || p.HeightCm != 8 {
		t.Errorf("unexpected dimensions: %+v", p)
	}

	other := NewProduct("Lipstick", 3, 8)
	if other.ID == p.ID {
		t.Error("expected distinct IDs for separate products")
	}
}

func TestNewCatalogLaterDuplicateWins(t *testing.T) {
	c := NewCatalog(
		Product{ID: "a", Name: "First", WidthCm: 1},
		Product{ID: "a", Name: "Second", WidthCm: 2},
	)
	if len(c) != 1 {
		t.Fatalf("expected 1 product, got %d", len(c))
	}
	p, ok := c.Lookup("a")
	if !ok {
		t.Fatal("expected product a to resolve")
	}
	if p.Name != "Second" {
		t.Errorf("expected later duplicate to win, got %s", p.Name)
	}
}

func TestCatalogLookupMissing(t *testing.T) {
	c := NewCatalog()
	if _, ok := c.Lookup("ghost"); ok {
		t.Error("expected missing product to be unresolved")
	}
}

func TestCatalogProductsSortedByName(t *testing.T) {
	c := NewCatalog(
		Product{ID: "3", Name: "Serum"},
		Product{ID: "1", Name: "Lipstick"},
		Product{ID: "2", Name: "Mascara"},
	)
	got := c.Products()
	want := []string{"Lipstick", "Mascara", "Serum"}
	for i, p := range got {
		if p.Name != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], p.Name)
		}
	}
}

func TestCatalogFilter(t *testing.T) {
	c := DefaultCatalog()

	tests := []struct {
		query string
		count int
	}{
		{"", len(SampleProducts())},
		{"bottle", 5},
		{"BOTTLE", 5},
		{"lipstick-01", 1},
		{"  tube ", 2},
		{"nothing-matches", 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := c.Filter(tt.query)
			if len(got) != tt.count {
				t.Errorf("Filter(%q) returned %d products, want %d", tt.query, len(got), tt.count)
			}
		})
	}
}

func TestCatalogMergeSkipsExistingIDs(t *testing.T) {
	c := NewCatalog(Product{ID: "a", Name: "Original"})
	added := c.Merge([]Product{
		{ID: "a", Name: "Replacement"},
		{ID: "b", Name: "New"},
	})
	if added != 1 {
		t.Errorf("expected 1 product added, got %d", added)
	}
	if c["a"].Name != "Original" {
		t.Errorf("existing product should be kept, got %s", c["a"].Name)
	}
	if _, ok := c["b"]; !ok {
		t.Error("new product should be merged")
	}
}

func TestNewShelves(t *testing.T) {
	shelves := NewShelves(3)
	if len(shelves) != 3 {
		t.Fatalf("expected 3 shelves, got %d", len(shelves))
	}
	for i, s := range shelves {
		if s.ID != ShelfID(i) {
			t.Errorf("shelf %d: expected ID %s, got %s", i, ShelfID(i), s.ID)
		}
		if s.Placements == nil || len(s.Placements) != 0 {
			t.Errorf("shelf %d should start empty and non-nil", i)
		}
	}
	if len(NewShelves(-1)) != 0 {
		t.Error("negative shelf count should produce no shelves")
	}
}

func TestShelfCloneIsIndependent(t *testing.T) {
	s := Shelf{ID: "shelf-0", Placements: []ShelfPlacement{{ProductID: "a", XPositionCm: 0}}}
	cp := s.Clone()
	cp.Placements[0].XPositionCm = 42

	if s.Placements[0].XPositionCm != 0 {
		t.Error("mutating the clone changed the original shelf")
	}
}

func TestRackConfigWithHelpersDoNotMutate(t *testing.T) {
	rack := DefaultRackTemplates()[1].Config

	wider := rack.WithWidth(200)
	gapless := rack.WithGap(0)
	marginless := rack.WithEdgeMargin(0)

	if rack.WidthCm != 120 || rack.InterProductGapCm != 2 || rack.EdgeMarginCm != 2 {
		t.Errorf("original rack was mutated: %+v", rack)
	}
	if wider.WidthCm != 200 {
		t.Errorf("expected width 200, got %g", wider.WidthCm)
	}
	if gapless.InterProductGapCm != 0 {
		t.Errorf("expected gap 0, got %g", gapless.InterProductGapCm)
	}
	if marginless.EdgeMarginCm != 0 {
		t.Errorf("expected margin 0, got %g", marginless.EdgeMarginCm)
	}
}

func TestRackConfigWithShelvesKeepsHeightInvariant(t *testing.T) {
	rack := DefaultRackTemplates()[0].Config.WithShelves(6, 30)
	if rack.TotalHeightCm != 180 {
		t.Errorf("expected total height 180, got %g", rack.TotalHeightCm)
	}
	if err := rack.Validate(); err != nil {
		t.Errorf("expected valid rack, got %v", err)
	}
}

func TestRackConfigValidate(t *testing.T) {
	valid := DefaultRackTemplates()[1].Config

	tests := []struct {
		name    string
		mutate  func(RackConfig) RackConfig
		wantErr bool
	}{
		{"valid template", func(r RackConfig) RackConfig { return r }, false},
		{"margins swallow width", func(r RackConfig) RackConfig { return r.WithEdgeMargin(60) }, true},
		{"negative gap", func(r RackConfig) RackConfig { return r.WithGap(-1) }, true},
		{"negative margin", func(r RackConfig) RackConfig { return r.WithEdgeMargin(-0.5) }, true},
		{"height mismatch", func(r RackConfig) RackConfig { r.TotalHeightCm = 100; return r }, true},
		{"no shelves", func(r RackConfig) RackConfig { return r.WithShelves(0, 36) }, true},
		{"zero width", func(r RackConfig) RackConfig { return r.WithWidth(0) }, true},
		{"NaN gap", func(r RackConfig) RackConfig { return r.WithGap(math.NaN()) }, true},
		{"NaN margin", func(r RackConfig) RackConfig { return r.WithEdgeMargin(math.NaN()) }, true},
		{"NaN shelf height", func(r RackConfig) RackConfig { return r.WithShelves(5, math.NaN()) }, true},
		{"infinite width", func(r RackConfig) RackConfig { return r.WithWidth(math.Inf(1)) }, true},
		{"infinite gap", func(r RackConfig) RackConfig { return r.WithGap(math.Inf(1)) }, true},
		{"too many shelves", func(r RackConfig) RackConfig { return r.WithShelves(MaxShelves+1, 1) }, true},
		{"most shelves allowed", func(r RackConfig) RackConfig { return r.WithShelves(MaxShelves, 3.6) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mutate(valid).Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestProductValidate(t *testing.T) {
	tests := []struct {
		name    string
		w, h    float64
		wantErr bool
	}{
		{"valid", 5, 10, false},
		{"zero width", 0, 10, true},
		{"negative height", 5, -1, true},
		{"NaN width", math.NaN(), 10, true},
		{"NaN height", 5, math.NaN(), true},
		{"infinite width", math.Inf(1), 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Product{ID: "p", Name: "P", WidthCm: tt.w, HeightCm: tt.h}.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidLengthAndSize(t *testing.T) {
	if !ValidLength(0) || ValidSize(0) {
		t.Error("zero is a valid length but not a valid size")
	}
	if ValidLength(math.NaN()) || ValidSize(math.NaN()) {
		t.Error("NaN must be rejected")
	}
	if ValidLength(math.Inf(1)) || ValidSize(math.Inf(-1)) {
		t.Error("infinities must be rejected")
	}
	if ValidLength(-0.1) {
		t.Error("negative lengths must be rejected")
	}
}

func TestUnitConversion(t *testing.T) {
	if got := CmToPx(10, PixelsPerCm); got != 50 {
		t.Errorf("expected 50px, got %g", got)
	}
	if got := PxToCm(50, PixelsPerCm); got != 10 {
		t.Errorf("expected 10cm, got %g", got)
	}
	if got := PxToCm(50, 0); got != 0 {
		t.Errorf("expected 0 for zero zoom, got %g", got)
	}
}
