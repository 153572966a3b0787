package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/ShedCraft/internal/clip"
	"github.com/piwi3910/ShedCraft/internal/engine"
	"github.com/piwi3910/ShedCraft/internal/geom"
	"github.com/piwi3910/ShedCraft/internal/model"
)

// accessoryColor represents an RGB color for a drawn accessory.
type accessoryColor struct {
	R, G, B int
}

var accessoryColors = []accessoryColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth     = 297.0
	pageHeight    = 210.0
	marginLeft    = 15.0
	marginRight   = 15.0
	marginTop     = 15.0
	marginBottom  = 15.0
	headerHeight  = 12.0
	legendHeight  = 30.0
	drawAreaTop   = marginTop + headerHeight + 5.0
	dimensionSize = 10.0 // room below the wall for measurement labels
)

// ExportPDF renders one elevation page per wall and roof plane: the wall
// face with its openings and trim, the accessories on it and the free-span
// measurements below. A final page lists every accessory and the trim.
func ExportPDF(path string, b *model.Building, catalog *model.Catalog, objects []model.PlacedObject, settings model.PlacementSettings) error {
	if b == nil || len(b.Walls) == 0 {
		return fmt.Errorf("no walls to export")
	}
	settings = settings.Normalized()
	rows := CollectSchedule(b, catalog, objects)
	partitioner := engine.NewPartitioner(settings)

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for _, w := range append(append([]*model.Wall{}, b.Walls...), b.Roofs...) {
		onWall := model.ObjectsOnWall(objects, w.ID, "")
		if w.IsRoofPlane && len(onWall) == 0 {
			continue
		}
		pdf.AddPage()
		renderWallPage(pdf, w, rowsOn(rows, w.ID), partitioner.Partition(w, onWall), settings.TrimWidth)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, b, rows, CollectTrim(b, settings.TrimWidth))

	return pdf.OutputFileAndClose(path)
}

func rowsOn(rows []ScheduleRow, wallID string) []ScheduleRow {
	var out []ScheduleRow
	for _, r := range rows {
		if r.WallID == wallID && !r.PlanItem {
			out = append(out, r)
		}
	}
	return out
}

// elevation maps wall-local (u, v) onto the page.
type elevation struct {
	scale, originX, baseY float64
}

func (e elevation) x(u float64) float64 { return e.originX + u*e.scale }
func (e elevation) y(v float64) float64 { return e.baseY - v*e.scale }

func renderWallPage(pdf *fpdf.Fpdf, w *model.Wall, rows []ScheduleRow, areas []model.Area, trimWidth float64) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	kind := w.Quadrant().String() + " wall"
	if w.IsRoofPlane {
		kind = "roof plane"
	} else if w.IsDiagonal() {
		kind = "corner wall"
	}
	title := fmt.Sprintf("%s (%s): %s x %s", w.Label, kind, geom.FormatFeetInches(w.Width), geom.FormatFeetInches(w.Height))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	boundary := w.Boundary()
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Accessories: %d | Openings: %d | Net face: %.2f m²",
		len(rows), len(boundary.Cuts), boundary.NetArea()/10000)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	top := w.Height
	if len(w.Gable) > 0 {
		_, max := w.Gable.BoundingBox()
		top = math.Max(top, max.Y)
	}

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight - dimensionSize
	scale := math.Min(drawWidth/w.Width, drawHeight/top)
	e := elevation{
		scale:   scale,
		originX: marginLeft + drawWidth/2,
		baseY:   drawAreaTop + top*scale,
	}

	if len(w.Gable) > 0 {
		pdf.SetFillColor(235, 215, 185)
		pdf.SetDrawColor(100, 100, 100)
		pdf.SetLineWidth(0.3)
		pdf.Polygon(e.points(w.Gable), "FD")
	}

	// Wall face (wood color)
	pdf.SetFillColor(210, 180, 140)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(e.x(-w.Width/2), e.y(w.Height), w.Width*scale, w.Height*scale, "FD")

	drawOpenings(pdf, e, boundary)
	drawTrim(pdf, e, clip.BuildTrim(boundary, trimWidth))

	for i, r := range rows {
		if r.Structure != "" {
			continue // drawn as its opening
		}
		col := accessoryColors[i%len(accessoryColors)]
		px, py := e.x(r.Offset-r.Width/2), e.y(r.Elevation+r.Height)
		pw, ph := r.Width*scale, r.Height*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		if pw > 12 && ph > 6 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)
			label := r.Label
			if lw := pdf.GetStringWidth(label); lw < pw-2 {
				pdf.SetXY(px+(pw-lw)/2, py+ph/2-2)
				pdf.CellFormat(lw, 4, label, "", 0, "C", false, 0, "")
			}
		}
	}

	drawMeasurements(pdf, e, engine.Measurements(areas))
	drawLegend(pdf, rows, e.baseY+dimensionSize+2)
}

func (e elevation) points(o geom.Outline) []fpdf.PointType {
	pts := make([]fpdf.PointType, len(o))
	for i, p := range o {
		pts[i] = fpdf.PointType{X: e.x(p.X), Y: e.y(p.Y)}
	}
	return pts
}

// drawOpenings blanks out every cut region of the boundary.
func drawOpenings(pdf *fpdf.Fpdf, e elevation, b clip.Boundary) {
	pdf.SetFillColor(255, 255, 255)
	pdf.SetDrawColor(120, 120, 120)
	pdf.SetLineWidth(0.3)
	for _, c := range b.Cuts {
		if c.Kind == clip.RegionPolygon {
			pdf.Polygon(e.points(c.Outline), "FD")
			continue
		}
		span := c.Span().Intersect(b.Base())
		vs := c.VerticalSpan(b.Height)
		pdf.Rect(e.x(span.Lo), e.y(vs.Hi), span.Width()*e.scale, vs.Width()*e.scale, "FD")
	}
}

func drawTrim(pdf *fpdf.Fpdf, e elevation, pieces []clip.TrimPiece) {
	pdf.SetDrawColor(90, 60, 30)
	for _, p := range pieces {
		pdf.SetLineWidth(math.Max(0.2, p.Width*e.scale))
		pdf.Line(e.x(p.From.X), e.y(p.From.Y), e.x(p.To.X), e.y(p.To.Y))
	}
	pdf.SetLineWidth(0.3)
}

// drawMeasurements adds a dimension line and a feet-inches label below
// every free span.
func drawMeasurements(pdf *fpdf.Fpdf, e elevation, ms []engine.Measurement) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)
	pdf.SetDrawColor(80, 80, 80)
	pdf.SetLineWidth(0.2)

	y := e.baseY + 3
	for _, m := range ms {
		lo, hi := e.x(m.Center-m.Width/2), e.x(m.Center+m.Width/2)
		pdf.Line(lo, y, hi, y)
		pdf.Line(lo, y-1.5, lo, y+1.5)
		pdf.Line(hi, y-1.5, hi, y+1.5)

		lw := pdf.GetStringWidth(m.Label)
		if lw < hi-lo {
			pdf.SetXY(e.x(m.Center)-lw/2, y+1)
			pdf.CellFormat(lw, 4, m.Label, "", 0, "C", false, 0, "")
		}
	}
	pdf.SetTextColor(0, 0, 0)
}

// drawLegend renders a compact legend of the wall's accessories.
func drawLegend(pdf *fpdf.Fpdf, rows []ScheduleRow, startY float64) {
	if len(rows) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Accessories:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for i, r := range rows {
		col := accessoryColors[i%len(accessoryColors)]
		label := fmt.Sprintf("%s @ %s", r.Label, geom.FormatFeetInches(r.Offset))
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		if r.Structure == "" {
			pdf.SetFillColor(col.R, col.G, col.B)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.Rect(xPos, startY+0.5, 3, 3, "FD")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage lists every accessory and the trim totals.
func renderSummaryPage(pdf *fpdf.Fpdf, b *model.Building, rows []ScheduleRow, trim []TrimRow) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, b.Name+": Accessory Schedule", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18
	colWidths := []float64{50, 50, 30, 35, 35, 35, 32}
	headers := []string{"Accessory", "Wall", "Structure", "Offset", "Elevation", "Width", "Height"}
	y = tableHeader(pdf, y, colWidths, headers)

	pdf.SetFont("Helvetica", "", 9)
	for i, r := range rows {
		wall := r.Wall
		if r.PlanItem {
			wall += " (plan)"
		}
		y = tableRow(pdf, y, i, colWidths, []string{
			r.Label,
			wall,
			r.Structure,
			geom.FormatFeetInches(r.Offset),
			geom.FormatFeetInches(r.Elevation),
			geom.FormatFeetInches(r.Width),
			geom.FormatFeetInches(r.Height),
		})
		if y > pageHeight-marginBottom-10 {
			pdf.AddPage()
			y = tableHeader(pdf, marginTop, colWidths, headers)
			pdf.SetFont("Helvetica", "", 9)
		}
	}

	if len(trim) > 0 {
		y += 8
		if y > pageHeight-marginBottom-30 {
			pdf.AddPage()
			y = marginTop
		}
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(100, 7, "Trim", "", 0, "L", false, 0, "")
		y += 9

		trimWidths := []float64{60, 40, 30, 40}
		y = tableHeader(pdf, y, trimWidths, []string{"Wall", "Kind", "Pieces", "Length"})
		pdf.SetFont("Helvetica", "", 9)
		for i, t := range trim {
			y = tableRow(pdf, y, i, trimWidths, []string{t.Wall, t.Kind, fmt.Sprintf("%d", t.Pieces), geom.FormatFeetInches(t.Length)})
		}
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by ShedCraft", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func tableHeader(pdf *fpdf.Fpdf, y float64, widths []float64, headers []string) float64 {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, h := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(widths[i], 6, h, "1", 0, "C", true, 0, "")
		xPos += widths[i]
	}
	return y + 6
}

func tableRow(pdf *fpdf.Fpdf, y float64, index int, widths []float64, cells []string) float64 {
	if index%2 == 0 {
		pdf.SetFillColor(245, 245, 245)
	} else {
		pdf.SetFillColor(255, 255, 255)
	}
	xPos := marginLeft
	for j, cell := range cells {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(widths[j], 6, cell, "1", 0, "C", true, 0, "")
		xPos += widths[j]
	}
	return y + 6
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
