// Package export writes a placed building out as wall elevations (PDF),
// accessory labels with QR codes (PDF), an accessory schedule (Excel) and a
// floor plan (DXF).
package export

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/piwi3910/ShedCraft/internal/clip"
	"github.com/piwi3910/ShedCraft/internal/geom"
	"github.com/piwi3910/ShedCraft/internal/model"
	"github.com/xuri/excelize/v2"
)

// ScheduleRow describes one placed accessory in wall-local terms.
type ScheduleRow struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Label     string  `json:"label"`
	WallID    string  `json:"wall_id"`
	Wall      string  `json:"wall"`
	Structure string  `json:"structure,omitempty"`
	Offset    float64 `json:"offset_cm"`    // along-wall centre
	Elevation float64 `json:"elevation_cm"` // bottom edge above the wall base (up the slope on roofs)
	Width     float64 `json:"width_cm"`
	Height    float64 `json:"height_cm"`
	PlanItem  bool    `json:"plan_item,omitempty"`
}

// CollectSchedule converts placed objects into schedule rows, in the order
// given. Catalog labels are used when the type is known.
func CollectSchedule(b *model.Building, catalog *model.Catalog, objects []model.PlacedObject) []ScheduleRow {
	rows := make([]ScheduleRow, 0, len(objects))
	for _, o := range objects {
		row := ScheduleRow{
			ID:       o.ID,
			Type:     o.Type,
			Label:    o.Type,
			WallID:   o.CurrentWall,
			Width:    o.Width,
			Height:   o.Height,
			PlanItem: o.IsPlanItem,
		}
		if o.Structure != model.StructureNone {
			row.Structure = o.Structure.String()
		}
		if catalog != nil {
			if caps, ok := catalog.Lookup(o.Type); ok {
				row.Label = caps.Label
			}
		}
		if w := b.Wall(o.CurrentWall); w != nil {
			row.Wall = w.Label
			if w.IsRoofPlane {
				u, v := w.SlopeLocal(mgl64.Vec3{o.X, o.Y, o.Z})
				row.Offset, row.Elevation = u, v-o.Height/2
			} else {
				row.Offset, _ = w.ToLocal(o.X, o.Z)
				row.Elevation = o.Y - w.Y
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// TrimRow totals the opening trim of one wall by kind.
type TrimRow struct {
	Wall   string
	Kind   string
	Pieces int
	Length float64
}

// CollectTrim derives the trim of every wall from its current boundary.
func CollectTrim(b *model.Building, width float64) []TrimRow {
	var rows []TrimRow
	for _, w := range b.Walls {
		byKind := map[clip.TrimKind]*TrimRow{}
		for _, p := range clip.BuildTrim(w.Boundary(), width) {
			r, ok := byKind[p.Kind]
			if !ok {
				r = &TrimRow{Wall: w.Label, Kind: p.Kind.String()}
				byKind[p.Kind] = r
			}
			r.Pieces++
			r.Length += p.Length()
		}
		kinds := make([]clip.TrimKind, 0, len(byKind))
		for k := range byKind {
			kinds = append(kinds, k)
		}
		sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
		for _, k := range kinds {
			rows = append(rows, *byKind[k])
		}
	}
	return rows
}

var scheduleHeaders = []string{"ID", "Type", "Label", "Wall", "Structure", "Offset (cm)", "Elevation (cm)", "Width (cm)", "Height (cm)", "Width (ft-in)"}

// ExportSchedule writes the accessory schedule and the trim list to an
// Excel workbook with one sheet each.
func ExportSchedule(path string, rows []ScheduleRow, trim []TrimRow) error {
	if len(rows) == 0 {
		return fmt.Errorf("no accessories to schedule")
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Schedule"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name schedule sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeRow(f, sheet, 1, toCells(scheduleHeaders)); err != nil {
		return err
	}
	for i, r := range rows {
		cells := []interface{}{
			r.ID, r.Type, r.Label, r.Wall, r.Structure,
			round2(r.Offset), round2(r.Elevation), round2(r.Width), round2(r.Height),
			geom.FormatFeetInches(r.Width),
		}
		if err := writeRow(f, sheet, i+2, cells); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(scheduleHeaders), 1)
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	if err := f.SetColWidth(sheet, "A", "J", 14); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}

	if len(trim) > 0 {
		const trimSheet = "Trim"
		if _, err := f.NewSheet(trimSheet); err != nil {
			return fmt.Errorf("failed to add trim sheet: %w", err)
		}
		if err := writeRow(f, trimSheet, 1, []interface{}{"Wall", "Kind", "Pieces", "Length (cm)"}); err != nil {
			return err
		}
		for i, t := range trim {
			if err := writeRow(f, trimSheet, i+2, []interface{}{t.Wall, t.Kind, t.Pieces, round2(t.Length)}); err != nil {
				return err
			}
		}
		if err := f.SetCellStyle(trimSheet, "A1", "D1", bold); err != nil {
			return fmt.Errorf("failed to style trim header: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save schedule: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	for col, v := range cells {
		ref, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("failed to address cell: %w", err)
		}
		if err := f.SetCellValue(sheet, ref, v); err != nil {
			return fmt.Errorf("failed to write %s!%s: %w", sheet, ref, err)
		}
	}
	return nil
}

func toCells(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
