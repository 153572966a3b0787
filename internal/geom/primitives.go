package geom

import "math"

// Interval is a closed span [Lo, Hi] along a single axis.
type Interval struct {
	Lo float64 `json:"lo"`
	Hi float64 `json:"hi"`
}

// Span builds the interval centred on c with the given width.
func Span(c, width float64) Interval {
	return Interval{Lo: c - width/2, Hi: c + width/2}
}

func (i Interval) Width() float64  { return i.Hi - i.Lo }
func (i Interval) Center() float64 { return (i.Lo + i.Hi) / 2 }

// Empty reports whether the interval has no positive extent.
func (i Interval) Empty() bool { return i.Hi <= i.Lo }

// Contains reports whether v lies inside the interval (inclusive).
func (i Interval) Contains(v float64) bool { return v >= i.Lo && v <= i.Hi }

// Overlaps reports whether two intervals share more than a touching edge.
func (i Interval) Overlaps(o Interval) bool {
	return i.Lo < o.Hi && o.Lo < i.Hi
}

// Intersect returns the common part of two intervals; the result may be Empty.
func (i Interval) Intersect(o Interval) Interval {
	return Interval{Lo: math.Max(i.Lo, o.Lo), Hi: math.Min(i.Hi, o.Hi)}
}

// Shrink removes d from both ends.
func (i Interval) Shrink(d float64) Interval {
	return Interval{Lo: i.Lo + d, Hi: i.Hi - d}
}

// Clamp limits v to the interval. The interval must not be Empty.
func (i Interval) Clamp(v float64) float64 {
	if v < i.Lo {
		return i.Lo
	}
	if v > i.Hi {
		return i.Hi
	}
	return v
}

// Point2D is a 2D coordinate. In wall-local space X is the along-wall u
// coordinate and Y the height above the wall base.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Outline represents a closed polygon as a sequence of 2D points.
// The outline is implicitly closed: the last point connects back to the first.
type Outline []Point2D

// BoundingBox returns the min and max corners of the outline.
func (o Outline) BoundingBox() (min, max Point2D) {
	if len(o) == 0 {
		return Point2D{}, Point2D{}
	}
	min, max = o[0], o[0]
	for _, p := range o[1:] {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return min, max
}

// Translate shifts all points by dx, dy.
func (o Outline) Translate(dx, dy float64) Outline {
	result := make(Outline, len(o))
	for i, p := range o {
		result[i] = Point2D{X: p.X + dx, Y: p.Y + dy}
	}
	return result
}

// Area returns the absolute polygon area (shoelace formula).
func (o Outline) Area() float64 {
	n := len(o)
	if n < 3 {
		return 0
	}
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += o[i].X*o[j].Y - o[j].X*o[i].Y
	}
	return math.Abs(area) / 2
}

// Contains reports whether p lies inside the polygon or on its boundary.
func (o Outline) Contains(p Point2D) bool {
	n := len(o)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := o[i], o[j]
		if onSegment(p, a, b) {
			return true
		}
		if (a.Y > p.Y) != (b.Y > p.Y) {
			xCross := a.X + (p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if p.X < xCross {
				inside = !inside
			}
		}
	}
	return inside
}

func onSegment(p, a, b Point2D) bool {
	const eps = 1e-9
	cross := (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
	if math.Abs(cross) > eps*math.Max(1, math.Hypot(b.X-a.X, b.Y-a.Y)) {
		return false
	}
	return p.X >= math.Min(a.X, b.X)-eps && p.X <= math.Max(a.X, b.X)+eps &&
		p.Y >= math.Min(a.Y, b.Y)-eps && p.Y <= math.Max(a.Y, b.Y)+eps
}

// RectOutline builds the axis-aligned rectangle centred on (cx, cy).
func RectOutline(cx, cy, w, h float64) Outline {
	return Outline{
		{X: cx - w/2, Y: cy - h/2},
		{X: cx + w/2, Y: cy - h/2},
		{X: cx + w/2, Y: cy + h/2},
		{X: cx - w/2, Y: cy + h/2},
	}
}

// ChamferedOutline builds a rectangle standing on y=bottom whose top corners
// are cut at 45° by chamfer. Stall openings use this profile.
func ChamferedOutline(cx, bottom, w, h, chamfer float64) Outline {
	chamfer = math.Min(chamfer, math.Min(w/2, h))
	return Outline{
		{X: cx - w/2, Y: bottom},
		{X: cx + w/2, Y: bottom},
		{X: cx + w/2, Y: bottom + h - chamfer},
		{X: cx + w/2 - chamfer, Y: bottom + h},
		{X: cx - w/2 + chamfer, Y: bottom + h},
		{X: cx - w/2, Y: bottom + h - chamfer},
	}
}

// GableOutline builds the triangular truss face above a wall of the given
// width whose eave sits at eaveHeight and ridge rises by rise.
func GableOutline(width, eaveHeight, rise float64) Outline {
	return Outline{
		{X: -width / 2, Y: eaveHeight},
		{X: width / 2, Y: eaveHeight},
		{X: 0, Y: eaveHeight + rise},
	}
}

// Line is a 2D segment in the world (x, z) plane.
type Line struct {
	A Point2D `json:"a"`
	B Point2D `json:"b"`
}

func (l Line) Length() float64 { return math.Hypot(l.B.X-l.A.X, l.B.Y-l.A.Y) }

func (l Line) Midpoint() Point2D {
	return Point2D{X: (l.A.X + l.B.X) / 2, Y: (l.A.Y + l.B.Y) / 2}
}

// DistanceTo returns the distance from p to the closest point of the segment.
func (l Line) DistanceTo(p Point2D) float64 {
	dx, dy := l.B.X-l.A.X, l.B.Y-l.A.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(p.X-l.A.X, p.Y-l.A.Y)
	}
	t := ((p.X-l.A.X)*dx + (p.Y-l.A.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p.X-(l.A.X+t*dx), p.Y-(l.A.Y+t*dy))
}
