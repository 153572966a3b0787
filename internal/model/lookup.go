package model

import (
	"math"

	"github.com/piwi3910/ShedCraft/internal/geom"
	"github.com/samber/lo"
)

// lookupSlack is how far a saved point may sit off a wall's line or beyond
// its ends and still resolve to it.
const lookupSlack = 1.0

// FindWall re-resolves the wall owning a saved object position. Walls with
// a different angle are ignored; among the rest the wall whose centre line
// passes closest to (x, z) wins. Returns nil if no wall matches.
func FindWall(walls []*Wall, x, z, angle float64) *Wall {
	var best *Wall
	bestDist := math.Inf(1)
	for _, w := range walls {
		if w.IsRoofPlane || !geom.AnglesEqual(w.Angle, angle) {
			continue
		}
		u, n := w.ToLocal(x, z)
		if math.Abs(u) > w.Width/2+lookupSlack {
			continue
		}
		if d := math.Abs(n); d < bestDist {
			best, bestDist = w, d
		}
	}
	return best
}

// FindRoofPlane is FindWall for roof planes; the height of the point is
// used to measure its distance from each plane.
func FindRoofPlane(roofs []*Wall, x, y, z, angle float64) *Wall {
	var best *Wall
	bestDist := math.Inf(1)
	for _, r := range roofs {
		if !r.IsRoofPlane || !geom.AnglesEqual(r.Angle, angle) {
			continue
		}
		u, n := r.ToLocal(x, z)
		if math.Abs(u) > r.Width/2+lookupSlack {
			continue
		}
		// Signed distance from the plane along its normal.
		nUp := math.Cos(r.Pitch)
		nOut := math.Sin(r.Pitch)
		d := math.Abs(n*nOut + (y-r.Y)*nUp)
		if d < bestDist {
			best, bestDist = r, d
		}
	}
	return best
}

// NearestGableWall returns the gable-bearing wall whose base line passes
// closest to (x, z).
func NearestGableWall(walls []*Wall, x, z float64) *Wall {
	var best *Wall
	bestDist := math.Inf(1)
	p := geom.Point2D{X: x, Y: z}
	for _, w := range walls {
		if len(w.Gable) == 0 {
			continue
		}
		if d := w.Endpoints().DistanceTo(p); d < bestDist {
			best, bestDist = w, d
		}
	}
	return best
}

// ObjectsOnWall returns the objects attached to the given wall, including
// wrap-around porches continuing onto it, skipping the object with ID
// except (pass "" to keep all).
func ObjectsOnWall(objects []PlacedObject, wallID, except string) []PlacedObject {
	return lo.Filter(objects, func(o PlacedObject, _ int) bool {
		if except != "" && o.ID == except {
			return false
		}
		return o.CurrentWall == wallID || (o.WrapWall != "" && o.WrapWall == wallID)
	})
}

// WrapNeighbour returns the wall sharing the corner nearest to the
// along-wall position u of wall: the wall a wrap-around porch continues
// onto. Roof planes are ignored.
func WrapNeighbour(walls []*Wall, wall *Wall, u float64) *Wall {
	end := wall.Width / 2
	if u < 0 {
		end = -end
	}
	cx, cz := wall.ToWorld(end, 0)

	var best *Wall
	bestDist := math.Inf(1)
	for _, w := range walls {
		if w == wall || w.IsRoofPlane {
			continue
		}
		l := w.Endpoints()
		d := math.Min(math.Hypot(l.A.X-cx, l.A.Y-cz), math.Hypot(l.B.X-cx, l.B.Y-cz))
		if d < bestDist {
			best, bestDist = w, d
		}
	}
	return best
}
