// Package engine implements the placement core: wall-area partitioning, the
// clamping solver for straight, diagonal, gable and roof surfaces, and the
// collision resolver for linear accessories.
package engine

import (
	"math"
	"sort"

	"github.com/piwi3910/ShedCraft/internal/geom"
	"github.com/piwi3910/ShedCraft/internal/model"
	"github.com/samber/lo"
)

// Partitioner splits a wall into alternating free and occupied spans.
type Partitioner struct {
	Epsilon float64 // spans narrower than this are dropped
}

func NewPartitioner(settings model.PlacementSettings) *Partitioner {
	return &Partitioner{Epsilon: settings.Normalized().AreaEpsilon}
}

// occupied is one blocked interval before merging.
type occupied struct {
	span    geom.Interval
	kind    model.AreaKind
	ownerID string
}

// deckSpan selects which footprint dimension of a deck lies along a wall.
type deckSpan int

const (
	spanWidth deckSpan = iota
	spanDepth
)

// deckSpanTable maps (deck quadrant, wall quadrant) to the deck dimension
// occupying the wall. A deck rotated a quarter turn from the wall, such as
// the return leg of a wrap-around porch, covers its depth instead of its
// width. Indexed by geom.Quadrant: Front, Right, Back, Left.
var deckSpanTable = [4][4]deckSpan{
	geom.QuadrantFront: {spanWidth, spanDepth, spanWidth, spanDepth},
	geom.QuadrantRight: {spanDepth, spanWidth, spanDepth, spanWidth},
	geom.QuadrantBack:  {spanWidth, spanDepth, spanWidth, spanDepth},
	geom.QuadrantLeft:  {spanDepth, spanWidth, spanDepth, spanWidth},
}

// Partition computes the area list for a wall. Objects are the accessories
// attached to the wall (plan items and gable objects are ignored); the
// wall's applied clip regions block their spans too. The result is ordered
// from the negative end of the wall and tiles it completely, apart from
// spans narrower than Epsilon.
func (p *Partitioner) Partition(wall *model.Wall, objects []model.PlacedObject) []model.Area {
	base := wall.Span()
	blocked := p.blockedSpans(wall, objects)
	if len(blocked) == 0 {
		return []model.Area{{Center: 0, Width: wall.Width, Kind: model.AreaFree}}
	}

	sort.SliceStable(blocked, func(i, j int) bool { return blocked[i].span.Lo < blocked[j].span.Lo })
	merged := []occupied{blocked[0]}
	for _, b := range blocked[1:] {
		last := &merged[len(merged)-1]
		if b.span.Lo <= last.span.Hi {
			last.span.Hi = math.Max(last.span.Hi, b.span.Hi)
			if b.kind == model.AreaObject {
				last.kind = model.AreaObject
			}
			continue
		}
		merged = append(merged, b)
	}

	var areas []model.Area
	cursor := base.Lo
	for _, m := range merged {
		areas = p.appendSpan(areas, geom.Interval{Lo: cursor, Hi: m.span.Lo}, model.AreaFree, "")
		areas = p.appendSpan(areas, m.span, m.kind, m.ownerID)
		cursor = m.span.Hi
	}
	areas = p.appendSpan(areas, geom.Interval{Lo: cursor, Hi: base.Hi}, model.AreaFree, "")
	return areas
}

func (p *Partitioner) appendSpan(areas []model.Area, s geom.Interval, kind model.AreaKind, owner string) []model.Area {
	if s.Width() < p.Epsilon {
		return areas
	}
	return append(areas, model.Area{Center: s.Center(), Width: s.Width(), Kind: kind, OwnerID: owner})
}

// blockedSpans collects object and opening intervals clipped to the wall.
func (p *Partitioner) blockedSpans(wall *model.Wall, objects []model.PlacedObject) []occupied {
	base := wall.Span()
	var out []occupied
	for _, o := range objects {
		if o.IsPlanItem || o.IsGableObject {
			continue
		}
		s := OccupiedSpan(wall, o).Intersect(base)
		if s.Empty() {
			continue
		}
		out = append(out, occupied{span: s, kind: model.AreaObject, ownerID: o.ID})
	}
	if wall.IsRoofPlane {
		return out
	}
	for _, c := range wall.Boundary().Cuts {
		s := c.Span().Intersect(base)
		if s.Empty() {
			continue
		}
		out = append(out, occupied{span: s, kind: model.AreaOpening, ownerID: c.Key})
	}
	return out
}

// OccupiedSpan returns the interval an object covers along the wall's
// local axis.
func OccupiedSpan(wall *model.Wall, o model.PlacedObject) geom.Interval {
	u, _ := wall.ToLocal(o.X, o.Z)
	if o.WrapWall == wall.ID && o.CurrentWall != wall.ID {
		return WrapLegSpan(wall, u, o.Depth)
	}
	return geom.Span(u, spanLength(wall, o))
}

// WrapLegSpan is the return leg of a wrap-around porch on the wall it
// continues onto: the porch depth measured from the wall end nearest to u,
// the porch position projected onto that wall.
func WrapLegSpan(wall *model.Wall, u, depth float64) geom.Interval {
	end := wall.Width / 2
	if u < 0 {
		return geom.Interval{Lo: -end, Hi: math.Min(-end+depth, end)}
	}
	return geom.Interval{Lo: math.Max(end-depth, -end), Hi: end}
}

func spanLength(wall *model.Wall, o model.PlacedObject) float64 {
	if !o.IsDeck || geom.AnglesEqual(o.Rotation, wall.Angle) {
		return o.Width
	}
	if geom.IsCardinal(o.Rotation) && geom.IsCardinal(wall.Angle) {
		if deckSpanTable[geom.QuadrantOf(o.Rotation)][wall.Quadrant()] == spanDepth {
			return o.Depth
		}
		return o.Width
	}
	// Off-grid pairs: project the deck rectangle onto the wall axis.
	d := o.Rotation - wall.Angle
	return math.Abs(math.Cos(d))*o.Width + math.Abs(math.Sin(d))*o.Depth
}

// FreeAreas filters an area list down to its free spans.
func FreeAreas(areas []model.Area) []model.Area {
	return lo.Filter(areas, func(a model.Area, _ int) bool { return a.Free() })
}

// AreaAt returns the first free area containing u, scanning from the wall's
// negative end.
func AreaAt(areas []model.Area, u float64) (model.Area, bool) {
	for _, a := range areas {
		if a.Free() && a.Contains(u) {
			return a, true
		}
	}
	return model.Area{}, false
}

// Measurement is a dimension label for one free span.
type Measurement struct {
	Center float64 `json:"center"`
	Width  float64 `json:"width"`
	Label  string  `json:"label"`
}

// Measurements labels every free span of an area list in feet and inches.
func Measurements(areas []model.Area) []Measurement {
	free := FreeAreas(areas)
	out := make([]Measurement, len(free))
	for i, a := range free {
		out[i] = Measurement{Center: a.Center, Width: a.Width, Label: geom.FormatFeetInches(a.Width)}
	}
	return out
}

// TotalWidth sums the widths of an area list.
func TotalWidth(areas []model.Area) float64 {
	return lo.SumBy(areas, func(a model.Area) float64 { return a.Width })
}
