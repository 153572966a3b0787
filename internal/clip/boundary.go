package clip

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/piwi3910/ShedCraft/internal/geom"
	"github.com/zeebo/xxh3"
)

// Boundary is a wall face: the unclipped base rectangle plus the cut
// regions currently applied, in push order.
type Boundary struct {
	Width  float64  `json:"width"`
	Height float64  `json:"height"`
	Cuts   []Region `json:"cuts,omitempty"`
}

// Base returns the unclipped wall span centred at 0.
func (b Boundary) Base() geom.Interval {
	return geom.Span(0, b.Width)
}

// Outline returns the unclipped wall face as a rectangle in (u, v).
func (b Boundary) Outline() geom.Outline {
	return geom.Outline{
		{X: -b.Width / 2, Y: 0},
		{X: b.Width / 2, Y: 0},
		{X: b.Width / 2, Y: b.Height},
		{X: -b.Width / 2, Y: b.Height},
	}
}

// Solid reports whether (u, v) lies on the remaining wall face, i.e. inside
// the base rectangle and outside every cut.
func (b Boundary) Solid(u, v float64) bool {
	if !b.Base().Contains(u) || v < 0 || v > b.Height {
		return false
	}
	for _, c := range b.Cuts {
		if c.Contains(u, v, b.Height) {
			return false
		}
	}
	return true
}

// Openings returns the along-wall spans covered by cuts, clipped to the
// wall, sorted and merged.
func (b Boundary) Openings() []geom.Interval {
	if len(b.Cuts) == 0 {
		return nil
	}
	base := b.Base()
	spans := make([]geom.Interval, 0, len(b.Cuts))
	for _, c := range b.Cuts {
		s := c.Span().Intersect(base)
		if !s.Empty() {
			spans = append(spans, s)
		}
	}
	return merge(spans)
}

// merge sorts spans and joins the ones that overlap or touch.
func merge(spans []geom.Interval) []geom.Interval {
	sort.Slice(spans, func(i, j int) bool { return spans[i].Lo < spans[j].Lo })
	var merged []geom.Interval
	for _, s := range spans {
		if n := len(merged); n > 0 && s.Lo <= merged[n-1].Hi {
			merged[n-1].Hi = math.Max(merged[n-1].Hi, s.Hi)
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

// SolidSpans returns the along-wall spans not covered by any opening.
// With no cuts the result is exactly the base span.
func (b Boundary) SolidSpans() []geom.Interval {
	base := b.Base()
	openings := b.Openings()
	if len(openings) == 0 {
		return []geom.Interval{base}
	}
	var solid []geom.Interval
	cursor := base.Lo
	for _, o := range openings {
		if o.Lo > cursor {
			solid = append(solid, geom.Interval{Lo: cursor, Hi: o.Lo})
		}
		cursor = math.Max(cursor, o.Hi)
	}
	if cursor < base.Hi {
		solid = append(solid, geom.Interval{Lo: cursor, Hi: base.Hi})
	}
	return solid
}

// NetArea returns the face area left after removing every cut. Where cuts
// overlap the shared part is removed once.
func (b Boundary) NetArea() float64 {
	return math.Max(0, b.Width*b.Height-b.cutArea())
}

// polygonSteps subdivides the slabs a polygon cut passes through.
const polygonSteps = 16

// cutArea integrates the union of the cuts across the face, one slab at a
// time between the u breakpoints of the cuts.
func (b Boundary) cutArea() float64 {
	base := b.Base()
	var xs []float64
	for _, c := range b.Cuts {
		s := c.Span().Intersect(base)
		if s.Empty() {
			continue
		}
		xs = append(xs, s.Lo, s.Hi)
		for _, p := range c.Outline {
			if s.Contains(p.X) {
				xs = append(xs, p.X)
			}
		}
	}
	sort.Float64s(xs)

	var area float64
	for i := 1; i < len(xs); i++ {
		slab := geom.Interval{Lo: xs[i-1], Hi: xs[i]}
		if slab.Empty() {
			continue
		}
		steps := 1
		for _, c := range b.Cuts {
			if c.Kind == RegionPolygon && c.Span().Overlaps(slab) {
				steps = polygonSteps
				break
			}
		}
		dx := slab.Width() / float64(steps)
		for k := 0; k < steps; k++ {
			area += dx * b.cutHeight(slab.Lo+(float64(k)+0.5)*dx)
		}
	}
	return area
}

// cutHeight is the length of the union of the cuts' vertical sections at u.
func (b Boundary) cutHeight(u float64) float64 {
	face := geom.Interval{Lo: 0, Hi: b.Height}
	var sections []geom.Interval
	for _, c := range b.Cuts {
		s, ok := c.section(u, b.Height)
		if !ok {
			continue
		}
		if s = s.Intersect(face); !s.Empty() {
			sections = append(sections, s)
		}
	}
	var h float64
	for _, s := range merge(sections) {
		h += s.Width()
	}
	return h
}

// Fingerprint hashes the exact float bits of the boundary. Two boundaries
// share a fingerprint only if they were built from identical values.
func (b Boundary) Fingerprint() uint64 {
	buf := make([]byte, 0, 16+len(b.Cuts)*64)
	buf = appendFloat(buf, b.Width)
	buf = appendFloat(buf, b.Height)
	for _, c := range b.Cuts {
		buf = append(buf, c.Key...)
		buf = append(buf, 0, byte(c.Kind))
		buf = appendFloat(buf, c.Start)
		buf = appendFloat(buf, c.End)
		buf = appendFloat(buf, c.Bottom)
		buf = appendFloat(buf, c.Top)
		for _, p := range c.Outline {
			buf = appendFloat(buf, p.X)
			buf = appendFloat(buf, p.Y)
		}
	}
	return xxh3.Hash(buf)
}

func appendFloat(buf []byte, f float64) []byte {
	return binary.LittleEndian.AppendUint64(buf, math.Float64bits(f))
}
