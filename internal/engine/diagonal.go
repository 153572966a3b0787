package engine

import (
	"math"

	"github.com/piwi3910/ShedCraft/internal/geom"
	"github.com/piwi3910/ShedCraft/internal/model"
)

// diagonalTolerance absorbs the rounding of cos/sin(π/4) when a clamped
// point is re-validated against the band.
const diagonalTolerance = 1e-6

// clampDiagonal clamps (x, z) in the world frame so the object's centre
// stays on the line n = n0 between the ends of the allowed local interval.
// A clamped axis is followed by recomputing the other along the diagonal;
// both axes are then re-validated once. ok is false if the point still lies
// outside the band after that single correction.
func clampDiagonal(wall *model.Wall, allowed geom.Interval, n0, x, z float64) (float64, float64, bool) {
	if math.Abs(n0) > wall.Thickness/2+diagonalBand {
		return 0, 0, false
	}
	ax, az := geom.AxisOf(wall.Angle)
	x0, z0 := wall.ToWorld(allowed.Lo, n0)
	x1, z1 := wall.ToWorld(allowed.Hi, n0)
	xr := geom.Interval{Lo: math.Min(x0, x1), Hi: math.Max(x0, x1)}
	zr := geom.Interval{Lo: math.Min(z0, z1), Hi: math.Max(z0, z1)}

	// The candidate is moved onto the constraint line first; hits on the
	// wall face are already on it.
	u, _ := wall.ToLocal(x, z)
	x, z = wall.ToWorld(u, n0)

	zAt := func(x float64) float64 { return z0 + (x-x0)/ax*az }
	xAt := func(z float64) float64 { return x0 + (z-z0)/az*ax }

	if !within(xr, x) {
		x = xr.Clamp(x)
		z = zAt(x)
	}
	if !within(zr, z) {
		z = zr.Clamp(z)
		x = xAt(z)
	}
	if !within(xr, x) || !within(zr, z) {
		return 0, 0, false
	}
	return x, z, true
}

// diagonalBand is how far in front of or behind a corner wall's face a
// point may sit and still be projected onto it.
const diagonalBand = 30.0

func within(i geom.Interval, v float64) bool {
	return v >= i.Lo-diagonalTolerance && v <= i.Hi+diagonalTolerance
}

// quantize snaps u to the nearest multiple of step measured from the wall
// centre, staying inside allowed. If no grid point is inside, u is returned
// unchanged and moved is false.
func quantize(u, step float64, allowed geom.Interval) (q float64, moved bool) {
	if step <= 0 {
		return u, false
	}
	q = math.Round(u/step) * step
	if !allowed.Contains(q) {
		switch {
		case allowed.Contains(q - step):
			q -= step
		case allowed.Contains(q + step):
			q += step
		default:
			return u, false
		}
	}
	return q, q != u
}
