// Package export writes planogram layouts to PDF: a scaled rack drawing with
// a summary page, and QR-coded shelf-edge labels.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/ShelfPlan/internal/engine"
	"github.com/piwi3910/ShelfPlan/internal/model"
)

// Layout is a rack with its shelves and the catalog their placements
// reference, ready to be exported.
type Layout struct {
	Title    string
	Rack     model.RackConfig
	Shelves  []model.Shelf
	Catalog  model.Catalog
	Rejected []engine.Drop
}

// LayoutFromReplay wraps a replayed plan for export.
func LayoutFromReplay(title string, r engine.ReplayResult, catalog model.Catalog) Layout {
	return Layout{
		Title:    title,
		Rack:     r.Rack,
		Shelves:  r.Shelves,
		Catalog:  catalog,
		Rejected: r.Rejected,
	}
}

// productColor represents an RGB fill color for a placed product.
type productColor struct {
	R, G, B int
}

// productColors mirrors the color scheme used by the rack canvas widget.
var productColors = []productColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// colorIndex assigns each product ID a palette slot in order of first
// appearance, bottom shelf first, so a product keeps its color on every shelf.
func colorIndex(shelves []model.Shelf) map[string]int {
	idx := make(map[string]int)
	for _, s := range shelves {
		for _, pl := range s.Placements {
			if _, ok := idx[pl.ProductID]; !ok {
				idx[pl.ProductID] = len(idx) % len(productColors)
			}
		}
	}
	return idx
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	captionWidth = 40.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF writes the layout as a two-page PDF: the rack drawing followed by
// a summary of fill figures and rejected drops.
func ExportPDF(path string, layout Layout) error {
	if len(layout.Shelves) == 0 {
		return fmt.Errorf("no shelves to export")
	}
	if layout.Rack.WidthCm <= 0 || layout.Rack.ShelfHeightCm <= 0 {
		return fmt.Errorf("rack %q has no drawable size", layout.Rack.Name)
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderRackPage(pdf, layout)

	pdf.AddPage()
	renderSummaryPage(pdf, layout)

	return pdf.OutputFileAndClose(path)
}

func layoutTitle(layout Layout) string {
	if layout.Title != "" {
		return layout.Title
	}
	return layout.Rack.Name
}

// renderRackPage draws the rack front view with shelves stacked bottom to top.
func renderRackPage(pdf *fpdf.Fpdf, layout Layout) {
	rack := layout.Rack

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("%s: %s (%.0f x %.0f cm)", layoutTitle(layout), rack.Name, rack.WidthCm, rack.TotalHeightCm)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	_, fill := engine.SummarizeRack(layout.Shelves, layout.Catalog, rack)
	stats := fmt.Sprintf("Shelves: %d | Edge margin: %.1f cm | Gap: %.1f cm | Fill: %.1f%%",
		len(layout.Shelves), rack.EdgeMarginCm, rack.InterProductGapCm, fill)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight - captionWidth
	drawHeight := pageHeight - drawAreaTop - marginBottom - 8

	rackHeight := float64(len(layout.Shelves)) * rack.ShelfHeightCm
	scale := math.Min(drawWidth/rack.WidthCm, drawHeight/rackHeight)

	canvasW := rack.WidthCm * scale
	canvasH := rackHeight * scale
	offsetX := marginLeft
	offsetY := drawAreaTop

	// Rack body
	pdf.SetFillColor(245, 245, 245)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	// Edge margins
	if m := rack.EdgeMarginCm * scale; m > 0 {
		pdf.SetFillColor(220, 220, 220)
		pdf.Rect(offsetX, offsetY, m, canvasH, "F")
		pdf.Rect(offsetX+canvasW-m, offsetY, m, canvasH, "F")
	}

	colors := colorIndex(layout.Shelves)
	shelfH := rack.ShelfHeightCm * scale
	n := len(layout.Shelves)

	for i, shelf := range layout.Shelves {
		// Shelf 0 is the bottom band.
		top := offsetY + float64(n-1-i)*shelfH
		floor := top + shelfH

		pdf.SetDrawColor(60, 60, 60)
		pdf.SetLineWidth(0.6)
		pdf.Line(offsetX, floor, offsetX+canvasW, floor)

		for _, pp := range engine.SortedPlacements(shelf, layout.Catalog) {
			col := productColors[colors[pp.Product.ID]]
			pw := pp.Product.WidthCm * scale
			ph := math.Min(pp.Product.HeightCm, rack.ShelfHeightCm) * scale
			px := offsetX + (rack.EdgeMarginCm+pp.Left())*scale
			py := floor - ph

			pdf.SetFillColor(col.R, col.G, col.B)
			pdf.SetDrawColor(30, 30, 30)
			pdf.SetLineWidth(0.2)
			pdf.Rect(px, py, pw, ph, "FD")

			if pw > 8 && ph > 6 {
				pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
				pdf.SetTextColor(0, 0, 0)
				name := fitText(pdf, pp.Product.Name, pw-1)
				if name != "" {
					nameW := pdf.GetStringWidth(name)
					pdf.SetXY(px+(pw-nameW)/2, py+ph/2-2)
					pdf.CellFormat(nameW, 4, name, "", 0, "C", false, 0, "")
				}
			}
		}

		s := engine.Summarize(shelf, layout.Catalog, rack)
		pdf.SetFont("Helvetica", "", 7)
		pdf.SetTextColor(80, 80, 80)
		pdf.SetXY(offsetX+canvasW+3, top+shelfH/2-4)
		pdf.CellFormat(captionWidth-3, 4, fmt.Sprintf("Shelf %d", i+1), "", 2, "L", false, 0, "")
		pdf.SetX(offsetX + canvasW + 3)
		pdf.CellFormat(captionWidth-3, 4, fmt.Sprintf("%.1f cm free", math.Max(0, s.RemainingCm)), "", 0, "L", false, 0, "")
	}

	// Width annotation
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)
	widthLabel := fmt.Sprintf("%.0f cm", rack.WidthCm)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
}

// renderSummaryPage draws per-shelf figures, rejected drops and rack settings.
func renderSummaryPage(pdf *fpdf.Fpdf, layout Layout) {
	rack := layout.Rack

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Planogram Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	summaries, fill := engine.SummarizeRack(layout.Shelves, layout.Catalog, rack)
	placed, dangling := 0, 0
	for _, s := range summaries {
		placed += s.Resolved
		dangling += s.Dangling
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall", "", 0, "L", false, 0, "")
	y += 9

	overall := []struct {
		label string
		value string
	}{
		{"Products Placed", fmt.Sprintf("%d", placed)},
		{"Rack Fill", fmt.Sprintf("%.1f%%", fill)},
		{"Rejected Drops", fmt.Sprintf("%d", len(layout.Rejected))},
		{"Unknown Products", fmt.Sprintf("%d", dangling)},
	}
	y = drawKeyValues(pdf, overall, y, 10, 7)
	y += 5

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Shelf Breakdown", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{25, 30, 40, 40, 40, 30}
	headers := []string{"Shelf", "Products", "Usable", "Occupied", "Remaining", "Fill"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, s := range summaries {
		xPos = marginLeft
		row := []string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", s.Resolved),
			fmt.Sprintf("%.1f cm", s.UsableCm),
			fmt.Sprintf("%.1f cm", s.OccupiedCm),
			fmt.Sprintf("%.1f cm", s.RemainingCm),
			fmt.Sprintf("%.1f%%", s.FillPercent),
		}
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		for j, cell := range row {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	if len(layout.Rejected) > 0 {
		y += 8
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "Rejected Drops", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, d := range layout.Rejected {
			if y > pageHeight-marginBottom-10 {
				pdf.SetXY(marginLeft+5, y)
				pdf.CellFormat(200, 5, "...", "", 0, "L", false, 0, "")
				y += 5
				break
			}
			pdf.SetXY(marginLeft+5, y)
			text := fmt.Sprintf("- Shelf %d, %s: %s", d.ShelfIndex+1, d.ProductID, d.Reason)
			pdf.CellFormat(250, 5, text, "", 0, "L", false, 0, "")
			y += 5
		}
	}

	y += 8
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Rack Settings", "", 0, "L", false, 0, "")
	y += 9

	settings := []struct {
		label string
		value string
	}{
		{"Width", fmt.Sprintf("%.1f cm", rack.WidthCm)},
		{"Shelf Height", fmt.Sprintf("%.1f cm", rack.ShelfHeightCm)},
		{"Edge Margin", fmt.Sprintf("%.1f cm", rack.EdgeMarginCm)},
		{"Inter-product Gap", fmt.Sprintf("%.1f cm", rack.InterProductGapCm)},
	}
	drawKeyValues(pdf, settings, y, 9, 5)

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by ShelfPlan - Planogram Editor", "", 0, "C", false, 0, "")
}

func drawKeyValues(pdf *fpdf.Fpdf, items []struct{ label, value string }, y, fontSize, lineH float64) float64 {
	for _, item := range items {
		pdf.SetFont("Helvetica", "", fontSize)
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, lineH-1, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", fontSize)
		pdf.CellFormat(40, lineH-1, item.value, "", 0, "L", false, 0, "")
		y += lineH
	}
	return y
}

// fitText truncates s with an ellipsis until it fits maxW, or returns "" if
// not even one character fits.
func fitText(pdf *fpdf.Fpdf, s string, maxW float64) string {
	if pdf.GetStringWidth(s) <= maxW {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > maxW {
		s = s[:len(s)-1]
	}
	if s == "" {
		return ""
	}
	return s + "..."
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 30:
		return 8
	case minDim > 15:
		return 7
	default:
		return 5
	}
}
