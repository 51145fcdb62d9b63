package widgets

import (
	"fmt"
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/ShelfPlan/internal/engine"
	"github.com/piwi3910/ShelfPlan/internal/model"
)

// Product colors, cycled in order of first appearance so a product keeps its
// color on every shelf.
var productColors = []color.NRGBA{
	{R: 76, G: 175, B: 80, A: 200},  // green
	{R: 33, G: 150, B: 243, A: 200}, // blue
	{R: 255, G: 152, B: 0, A: 200},  // orange
	{R: 156, G: 39, B: 176, A: 200}, // purple
	{R: 0, G: 188, B: 212, A: 200},  // cyan
	{R: 244, G: 67, B: 54, A: 200},  // red
	{R: 255, G: 235, B: 59, A: 200}, // yellow
	{R: 121, G: 85, B: 72, A: 200},  // brown
}

var (
	rackColor      = color.NRGBA{R: 235, G: 235, B: 235, A: 255}
	marginColor    = color.NRGBA{R: 200, G: 200, B: 200, A: 255}
	shelfLineColor = color.NRGBA{R: 90, G: 90, B: 90, A: 255}
	selectedColor  = color.NRGBA{R: 33, G: 150, B: 243, A: 60}
)

// ShelfIndexAt maps a vertical offset inside the rack drawing to a shelf
// index. Shelves are drawn bottom to top, so relY = 0 is the top shelf.
// Offsets above or below the rack clamp to the top or bottom shelf. It
// returns -1 for a rack without shelves.
func ShelfIndexAt(relY, rackHeight float32, numberOfShelves int) int {
	if numberOfShelves < 1 {
		return -1
	}
	if rackHeight <= 0 {
		return 0
	}
	shelfH := rackHeight / float32(numberOfShelves)
	fromTop := int(math.Floor(float64(relY / shelfH)))
	idx := numberOfShelves - 1 - fromTop
	if idx < 0 {
		return 0
	}
	if idx > numberOfShelves-1 {
		return numberOfShelves - 1
	}
	return idx
}

// ProductAt returns the ID of the product drawn under xCm, measured from
// the rack's left edge, on shelf.
func ProductAt(shelf model.Shelf, catalog model.Catalog, rack model.RackConfig, xCm float64) (string, bool) {
	x := xCm - rack.EdgeMarginCm
	for _, pp := range engine.SortedPlacements(shelf, catalog) {
		if x >= pp.Left() && x < pp.Right() {
			return pp.Product.ID, true
		}
	}
	return "", false
}

// RackCanvas draws a rack front view: shelves bottom to top, each product at
// edge margin + X, and the remaining space of every shelf. Tapping a shelf
// reports its index; a secondary tap on a product reports the product.
type RackCanvas struct {
	widget.BaseWidget

	rack     model.RackConfig
	shelves  []model.Shelf
	catalog  model.Catalog
	pxPerCm  float32
	selected int

	OnShelfTapped      func(shelfIndex int)
	OnProductSecondary func(shelfIndex int, productID string)
}

// NewRackCanvas creates an empty rack canvas drawn at pxPerCm.
func NewRackCanvas(pxPerCm float64) *RackCanvas {
	if pxPerCm <= 0 {
		pxPerCm = model.PixelsPerCm
	}
	rc := &RackCanvas{pxPerCm: float32(pxPerCm), selected: -1}
	rc.ExtendBaseWidget(rc)
	return rc
}

// SetLayout replaces the drawn rack and redraws.
func (rc *RackCanvas) SetLayout(rack model.RackConfig, shelves []model.Shelf, catalog model.Catalog) {
	rc.rack = rack
	rc.shelves = shelves
	rc.catalog = catalog
	if rc.selected >= len(shelves) {
		rc.selected = -1
	}
	rc.Refresh()
}

// SetSelectedShelf highlights one shelf; -1 clears the highlight.
func (rc *RackCanvas) SetSelectedShelf(i int) {
	rc.selected = i
	rc.Refresh()
}

// SetZoom changes the drawing scale.
func (rc *RackCanvas) SetZoom(pxPerCm float64) {
	if pxPerCm > 0 {
		rc.pxPerCm = float32(pxPerCm)
		rc.Refresh()
	}
}

func (rc *RackCanvas) px(cm float64) float32 {
	return float32(model.CmToPx(cm, float64(rc.pxPerCm)))
}

func (rc *RackCanvas) size() fyne.Size {
	return fyne.NewSize(rc.px(rc.rack.WidthCm), rc.px(rc.rack.ShelfHeightCm)*float32(len(rc.shelves)))
}

func (rc *RackCanvas) shelfAt(pos fyne.Position) int {
	return ShelfIndexAt(pos.Y, rc.size().Height, len(rc.shelves))
}

// Tapped implements fyne.Tappable.
func (rc *RackCanvas) Tapped(ev *fyne.PointEvent) {
	idx := rc.shelfAt(ev.Position)
	if idx < 0 {
		return
	}
	if rc.OnShelfTapped != nil {
		rc.OnShelfTapped(idx)
	}
}

// TappedSecondary implements fyne.SecondaryTappable.
func (rc *RackCanvas) TappedSecondary(ev *fyne.PointEvent) {
	idx := rc.shelfAt(ev.Position)
	if idx < 0 || rc.OnProductSecondary == nil {
		return
	}
	xCm := model.PxToCm(float64(ev.Position.X), float64(rc.pxPerCm))
	if id, ok := ProductAt(rc.shelves[idx], rc.catalog, rc.rack, xCm); ok {
		rc.OnProductSecondary(idx, id)
	}
}

func (rc *RackCanvas) CreateRenderer() fyne.WidgetRenderer {
	r := &rackCanvasRenderer{rc: rc}
	r.rebuild()
	return r
}

type rackCanvasRenderer struct {
	rc      *RackCanvas
	objects []fyne.CanvasObject
}

func (r *rackCanvasRenderer) rebuild() {
	r.objects = nil
	rc := r.rc
	if len(rc.shelves) == 0 {
		return
	}

	size := rc.size()
	shelfH := rc.px(rc.rack.ShelfHeightCm)
	margin := rc.px(rc.rack.EdgeMarginCm)

	bg := canvas.NewRectangle(rackColor)
	bg.StrokeColor = shelfLineColor
	bg.StrokeWidth = 2
	bg.Resize(size)
	r.objects = append(r.objects, bg)

	for _, x := range []float32{0, size.Width - margin} {
		m := canvas.NewRectangle(marginColor)
		m.Resize(fyne.NewSize(margin, size.Height))
		m.Move(fyne.NewPos(x, 0))
		r.objects = append(r.objects, m)
	}

	colors := make(map[string]color.NRGBA)
	for _, s := range rc.shelves {
		for _, pl := range s.Placements {
			if _, ok := colors[pl.ProductID]; !ok {
				colors[pl.ProductID] = productColors[len(colors)%len(productColors)]
			}
		}
	}

	for i, shelf := range rc.shelves {
		bottom := size.Height - float32(i)*shelfH
		top := bottom - shelfH

		if i == rc.selected {
			hl := canvas.NewRectangle(selectedColor)
			hl.Resize(fyne.NewSize(size.Width, shelfH))
			hl.Move(fyne.NewPos(0, top))
			r.objects = append(r.objects, hl)
		}

		board := canvas.NewLine(shelfLineColor)
		board.StrokeWidth = 3
		board.Position1 = fyne.NewPos(0, bottom)
		board.Position2 = fyne.NewPos(size.Width, bottom)
		r.objects = append(r.objects, board)

		for _, pp := range engine.SortedPlacements(shelf, rc.catalog) {
			pw := rc.px(pp.Product.WidthCm)
			ph := rc.px(pp.Product.HeightCm)
			px := margin + rc.px(pp.Left())

			rect := canvas.NewRectangle(colors[pp.Product.ID])
			rect.StrokeColor = color.NRGBA{R: 30, G: 30, B: 30, A: 255}
			rect.StrokeWidth = 1
			rect.Resize(fyne.NewSize(pw, ph))
			rect.Move(fyne.NewPos(px, bottom-ph))
			r.objects = append(r.objects, rect)

			if pw > 30 && ph > 16 {
				label := canvas.NewText(pp.Product.Name, color.Black)
				label.TextSize = 9
				label.Move(fyne.NewPos(px+2, bottom-ph+1))
				r.objects = append(r.objects, label)
			}
		}

		free := engine.RemainingSpace(shelf, rc.catalog, rc.rack)
		caption := canvas.NewText(fmt.Sprintf("Shelf %d  %.1f cm free", i+1, free), shelfLineColor)
		caption.TextSize = 10
		caption.Move(fyne.NewPos(margin+4, top+2))
		r.objects = append(r.objects, caption)
	}
}

func (r *rackCanvasRenderer) Layout(size fyne.Size)        {}
func (r *rackCanvasRenderer) Refresh()                     { r.rebuild() }
func (r *rackCanvasRenderer) Destroy()                     {}
func (r *rackCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *rackCanvasRenderer) MinSize() fyne.Size           { return r.rc.size() }
