package engine

import (
	"github.com/piwi3910/ShedCraft/internal/geom"
	"github.com/piwi3910/ShedCraft/internal/model"
)

// placeOnRoof clamps along the ridge using the roof plane's free areas and
// up the slope against the plane's slope length.
func (s *Solver) placeOnRoof(res Result, hit model.Intersection, obj model.PlacedObject, padding float64, areas []model.Area) Result {
	roof := res.Wall
	u, v := roof.SlopeLocal(hit.Point)

	area, ok := AreaAt(areas, u)
	if !ok {
		res.Rejection = RejectNoArea
		return res
	}
	res.Area = area
	res.PlaneWidth = area.Width

	along := area.Interval().Shrink(obj.Width/2 + padding)
	slope := geom.Interval{Lo: 0, Hi: roof.Height}.Shrink(obj.Height/2 + padding)
	if along.Hi < along.Lo || slope.Hi < slope.Lo {
		res.Rejection = RejectZeroWidth
		return res
	}
	u = along.Clamp(u)
	v = slope.Clamp(v)

	p := roof.SlopePoint(u, v)
	res.Placement = model.Placement{
		X:        p.X(),
		Y:        p.Y(),
		Z:        p.Z(),
		HasY:     true,
		U:        u,
		Rotation: Rotation(roof, obj),
		WallID:   roof.ID,
	}
	return res
}

// placeOnGable validates the padded footprint against the truss outline.
// Gable objects are not clamped: every corner must lie inside the outline
// or the drag is rejected.
func (s *Solver) placeOnGable(res Result, hit model.Intersection, obj model.PlacedObject, padding float64) Result {
	wall := res.Wall
	u, n := wall.ToLocal(hit.Point.X(), hit.Point.Z())
	v := hit.Point.Y() - wall.Y

	corners := GableCorners(u, v, obj.Width+2*padding, obj.Height+2*padding)
	for _, c := range corners {
		if !wall.Gable.Contains(c) {
			res.Rejection = RejectGableBounds
			return res
		}
	}
	min, max := wall.Gable.BoundingBox()
	res.Area = model.Area{Center: (min.X + max.X) / 2, Width: max.X - min.X}
	res.PlaneWidth = res.Area.Width

	x, z := wall.ToWorld(u, n)
	res.Placement = model.Placement{
		X:        x,
		Y:        wall.Y + v - obj.Height/2,
		Z:        z,
		HasY:     true,
		U:        u,
		Rotation: Rotation(wall, obj),
		WallID:   wall.ID,
	}
	return res
}

// GableCorners returns the four corners of a w×h footprint centred on (u, v).
func GableCorners(u, v, w, h float64) [4]geom.Point2D {
	return [4]geom.Point2D{
		{X: u - w/2, Y: v - h/2},
		{X: u + w/2, Y: v - h/2},
		{X: u + w/2, Y: v + h/2},
		{X: u - w/2, Y: v + h/2},
	}
}
