package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/ShedCraft/internal/geom"
	qrcode "github.com/skip2/go-qrcode"
)

// LabelInfo holds the data encoded into each accessory label's QR code.
type LabelInfo struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Label     string  `json:"label"`
	Wall      string  `json:"wall"`
	Offset    float64 `json:"offset_cm"`
	Elevation float64 `json:"elevation_cm"`
	Width     float64 `json:"width_cm"`
	Height    float64 `json:"height_cm"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// CollectLabelInfos converts schedule rows to label data. Plan items get no
// label since they are not mounted on a wall.
func CollectLabelInfos(rows []ScheduleRow) []LabelInfo {
	var labels []LabelInfo
	for _, r := range rows {
		if r.PlanItem {
			continue
		}
		labels = append(labels, LabelInfo{
			ID:        r.ID,
			Type:      r.Type,
			Label:     r.Label,
			Wall:      r.Wall,
			Offset:    r.Offset,
			Elevation: r.Elevation,
			Width:     r.Width,
			Height:    r.Height,
		})
	}
	return labels
}

// ExportLabels generates a PDF of QR-coded labels, one per accessory, laid
// out on an Avery 5160 sheet (3 columns x 10 rows on US Letter). The QR
// code carries the label data as JSON so the installer can scan where each
// accessory goes.
func ExportLabels(path string, rows []ScheduleRow) error {
	labels := CollectLabelInfos(rows)
	if len(labels) == 0 {
		return fmt.Errorf("no accessories to generate labels for")
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
			return fmt.Errorf("failed to render label for %q: %w", label.ID, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	// Light border as a cutting guide
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

	imgName := "qr_" + info.ID
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, truncate(pdf, info.Label, textW), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	dims := fmt.Sprintf("%s x %s", geom.FormatFeetInches(info.Width), geom.FormatFeetInches(info.Height))
	pdf.CellFormat(textW, 3.5, dims, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	where := fmt.Sprintf("%s @ %s", info.Wall, geom.FormatFeetInches(info.Offset))
	pdf.CellFormat(textW, 3, truncate(pdf, where, textW), "", 1, "L", false, 0, "")

	if info.Elevation > 0 {
		pdf.SetXY(textX, y+labelPadding+12.5)
		pdf.CellFormat(textW, 3, "Sill "+geom.FormatFeetInches(info.Elevation), "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// truncate shortens s with an ellipsis until it fits width w.
func truncate(pdf *fpdf.Fpdf, s string, w float64) string {
	if pdf.GetStringWidth(s) <= w {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > w {
		s = s[:len(s)-1]
	}
	return s + "..."
}
