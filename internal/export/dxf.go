package export

import (
	"fmt"

	"github.com/piwi3910/ShedCraft/internal/geom"
	"github.com/piwi3910/ShedCraft/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
	"github.com/yofu/dxf/table"
)

// DXF layer names.
const (
	LayerWalls       = "WALLS"
	LayerOpenings    = "OPENINGS"
	LayerAccessories = "ACCESSORIES"
	LayerText        = "TEXT"
)

const textHeight = 8.0 // cm

// ExportDXF writes the floor plan: every wall as its thickness rectangle,
// wall openings as lines across the wall, and each accessory as its
// footprint in front of the wall face. Units are centimetres; plan +Y
// points toward the back of the building (world -z).
func ExportDXF(path string, b *model.Building, objects []model.PlacedObject) error {
	if b == nil || len(b.Walls) == 0 {
		return fmt.Errorf("no walls to export")
	}

	d := dxf.NewDrawing()
	layers := []struct {
		name string
		col  color.ColorNumber
		lt   *table.LineType
	}{
		{LayerWalls, color.White, table.LT_CONTINUOUS},
		{LayerOpenings, color.Red, table.LT_HIDDEN},
		{LayerAccessories, color.Green, table.LT_CONTINUOUS},
		{LayerText, color.Cyan, table.LT_CONTINUOUS},
	}
	for _, l := range layers {
		if _, err := d.AddLayer(l.name, l.col, l.lt, false); err != nil {
			return fmt.Errorf("failed to add layer %s: %w", l.name, err)
		}
	}

	p := &plan{d: d}
	for _, w := range b.Walls {
		p.layer(LayerWalls)
		t := w.Thickness / 2
		p.rect(w, geom.Span(0, w.Width), -t, t)

		p.layer(LayerOpenings)
		for _, o := range w.Boundary().Openings() {
			p.segment(w, o.Lo, -t, o.Lo, t)
			p.segment(w, o.Hi, -t, o.Hi, t)
		}

		p.layer(LayerText)
		p.text(w, 0, -t-2*textHeight, w.Label)
	}

	for _, o := range objects {
		w := b.Wall(o.CurrentWall)
		if w == nil || w.IsRoofPlane || o.IsGableObject {
			continue
		}
		u, _ := w.ToLocal(o.X, o.Z)
		t := w.Thickness / 2
		p.layer(LayerAccessories)
		p.rect(w, o.Footprint(u), t, t+o.Depth)
		p.layer(LayerText)
		p.text(w, u, t+o.Depth+textHeight, o.Type)
	}

	if p.err != nil {
		return fmt.Errorf("failed to draw floor plan: %w", p.err)
	}
	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}

// plan draws in wall-local (u, n) coordinates and keeps the first error.
type plan struct {
	d   *drawing.Drawing
	err error
}

func (p *plan) layer(name string) {
	if p.err == nil {
		p.err = p.d.ChangeLayer(name)
	}
}

func (p *plan) segment(w *model.Wall, u1, n1, u2, n2 float64) {
	if p.err != nil {
		return
	}
	x1, z1 := w.ToWorld(u1, n1)
	x2, z2 := w.ToWorld(u2, n2)
	_, p.err = p.d.Line(x1, -z1, 0, x2, -z2, 0)
}

func (p *plan) rect(w *model.Wall, span geom.Interval, n1, n2 float64) {
	p.segment(w, span.Lo, n1, span.Hi, n1)
	p.segment(w, span.Hi, n1, span.Hi, n2)
	p.segment(w, span.Hi, n2, span.Lo, n2)
	p.segment(w, span.Lo, n2, span.Lo, n1)
}

func (p *plan) text(w *model.Wall, u, n float64, s string) {
	if p.err != nil {
		return
	}
	x, z := w.ToWorld(u, n)
	_, p.err = p.d.Text(s, x, -z, 0, textHeight)
}
