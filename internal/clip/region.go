// Package clip maintains the cut-outs applied to a wall's face by structural
// attachments. A Stack stores the regions themselves, in push order, so the
// wall's boundary is always rebuilt from the untouched base rectangle and
// removing a region restores the previous boundary exactly.
package clip

import (
	"math"

	"github.com/piwi3910/ShedCraft/internal/geom"
)

// RegionKind distinguishes rectangular deck openings from polygon outlines.
type RegionKind int

const (
	RegionRect    RegionKind = iota // [Start, End] span, optionally bounded vertically
	RegionPolygon                   // Ordered outline in wall-local (u, v)
)

func (k RegionKind) String() string {
	if k == RegionPolygon {
		return "polygon"
	}
	return "rect"
}

// Region is one cut-out. Coordinates are wall-local: u along the wall
// centred at 0, v up from the wall base.
type Region struct {
	Key     string       `json:"key"`
	Kind    RegionKind   `json:"kind"`
	Start   float64      `json:"start"`
	End     float64      `json:"end"`
	Bottom  float64      `json:"bottom"`
	Top     float64      `json:"top"` // 0 = up to the full wall height
	Outline geom.Outline `json:"outline,omitempty"`
}

// Rect creates a full-height rectangular region between start and end.
func Rect(key string, start, end float64) Region {
	if end < start {
		start, end = end, start
	}
	return Region{Key: key, Kind: RegionRect, Start: start, End: end}
}

// RectWithHeight creates a rectangular region spanning bottom..top.
func RectWithHeight(key string, start, end, bottom, top float64) Region {
	r := Rect(key, start, end)
	r.Bottom = bottom
	r.Top = top
	return r
}

// Polygon creates a polygon region from an outline. The outline is copied.
func Polygon(key string, outline geom.Outline) Region {
	cp := make(geom.Outline, len(outline))
	copy(cp, outline)
	return Region{Key: key, Kind: RegionPolygon, Outline: cp}
}

// Span returns the region's extent along the wall.
func (r Region) Span() geom.Interval {
	if r.Kind == RegionPolygon {
		min, max := r.Outline.BoundingBox()
		return geom.Interval{Lo: min.X, Hi: max.X}
	}
	return geom.Interval{Lo: r.Start, Hi: r.End}
}

// VerticalSpan returns the region's vertical extent on a wall of the given height.
func (r Region) VerticalSpan(wallHeight float64) geom.Interval {
	if r.Kind == RegionPolygon {
		min, max := r.Outline.BoundingBox()
		return geom.Interval{Lo: min.Y, Hi: max.Y}
	}
	top := r.Top
	if top <= 0 || top > wallHeight {
		top = wallHeight
	}
	return geom.Interval{Lo: math.Max(0, r.Bottom), Hi: top}
}

func (r Region) clone() Region {
	if r.Outline != nil {
		cp := make(geom.Outline, len(r.Outline))
		copy(cp, r.Outline)
		r.Outline = cp
	}
	return r
}

// Contains reports whether the wall-local point (u, v) lies inside the
// region on a wall of the given height. Points on the edge count as inside.
func (r Region) Contains(u, v, wallHeight float64) bool {
	if r.Kind == RegionPolygon {
		return r.Outline.Contains(geom.Point2D{X: u, Y: v})
	}
	return r.Span().Contains(u) && r.VerticalSpan(wallHeight).Contains(v)
}

// section returns the vertical extent of the region at u. Polygon outlines
// are convex, so the extent runs between the lowest and highest edge
// crossing.
func (r Region) section(u, wallHeight float64) (geom.Interval, bool) {
	if !r.Span().Contains(u) {
		return geom.Interval{}, false
	}
	if r.Kind != RegionPolygon {
		return r.VerticalSpan(wallHeight), true
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	n := len(r.Outline)
	for i := range r.Outline {
		a, b := r.Outline[i], r.Outline[(i+1)%n]
		if u < math.Min(a.X, b.X) || u > math.Max(a.X, b.X) {
			continue
		}
		if a.X == b.X {
			lo, hi = math.Min(lo, math.Min(a.Y, b.Y)), math.Max(hi, math.Max(a.Y, b.Y))
			continue
		}
		y := a.Y + (u-a.X)/(b.X-a.X)*(b.Y-a.Y)
		lo, hi = math.Min(lo, y), math.Max(hi, y)
	}
	if lo > hi {
		return geom.Interval{}, false
	}
	return geom.Interval{Lo: lo, Hi: hi}, true
}
