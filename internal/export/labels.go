package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/ShelfPlan/internal/engine"
)

// LabelInfo holds the data encoded into each shelf-edge label's QR code.
type LabelInfo struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"name"`
	WidthCm     float64 `json:"width_cm"`
	HeightCm    float64 `json:"height_cm"`
	Rack        string  `json:"rack"`
	ShelfIndex  int     `json:"shelf"` // 1-based, bottom shelf = 1
	ShelfID     string  `json:"shelf_id"`
	XCm         float64 `json:"x_cm"`
	Facing      int     `json:"facing"` // 1-based position from the left
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelPageWidth  = 215.9 // US Letter width in mm
	labelPageHeight = 279.4 // US Letter height in mm
	labelMarginTop  = 12.7  // mm
	labelMarginLeft = 4.8   // mm
	labelWidth      = 66.7  // mm per label
	labelHeight     = 25.4  // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// CollectLabelInfos lists one label per resolvable placement, bottom shelf
// first and left to right within a shelf.
func CollectLabelInfos(layout Layout) []LabelInfo {
	var labels []LabelInfo
	for shelfIdx, shelf := range layout.Shelves {
		for i, pp := range engine.SortedPlacements(shelf, layout.Catalog) {
			labels = append(labels, LabelInfo{
				ProductID:   pp.Product.ID,
				ProductName: pp.Product.Name,
				WidthCm:     pp.Product.WidthCm,
				HeightCm:    pp.Product.HeightCm,
				Rack:        layout.Rack.Name,
				ShelfIndex:  shelfIdx + 1,
				ShelfID:     shelf.ID,
				XCm:         pp.Left(),
				Facing:      i + 1,
			})
		}
	}
	return labels
}

// ExportLabels generates a PDF of QR-coded shelf-edge labels, one per placed
// product, on a standard label sheet (Avery 5160 / 3 columns x 10 rows on
// US Letter).
func ExportLabels(path string, layout Layout) error {
	labels := CollectLabelInfos(layout)
	if len(labels) == 0 {
		return fmt.Errorf("no products placed to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.ProductID, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	// Image names must be unique per label.
	imgName := fmt.Sprintf("qr_%s_%d_%d", info.ShelfID, info.Facing, int(info.XCm*1000))
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, fitText(pdf, info.ProductName, textW), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	pdf.CellFormat(textW, 3.5, fmt.Sprintf("%s  %g x %g cm", info.ProductID, info.WidthCm, info.HeightCm), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	pdf.CellFormat(textW, 3, fmt.Sprintf("Shelf %d, facing %d @ %.1f cm", info.ShelfIndex, info.Facing, info.XCm), "", 1, "L", false, 0, "")

	if info.Rack != "" {
		pdf.SetXY(textX, y+labelPadding+12.5)
		pdf.CellFormat(textW, 3, fitText(pdf, info.Rack, textW), "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	return nil
}
