// Package geom holds the small geometric helpers shared by the placement
// engine: angle normalisation, exact cardinal axes, unit conversion and
// interval/outline primitives. All lengths are centimetres, all angles are
// radians about the world Y axis.
package geom

import "math"

// AngleTolerance is the slack used when comparing wall rotations.
const AngleTolerance = 1e-6

// Quadrant identifies one of the four cardinal wall orientations.
type Quadrant int

const (
	QuadrantFront Quadrant = iota // angle 0
	QuadrantRight                 // angle +π/2, outward normal +x
	QuadrantBack                  // angle π
	QuadrantLeft                  // angle -π/2
)

func (q Quadrant) String() string {
	switch q {
	case QuadrantLeft:
		return "Left"
	case QuadrantBack:
		return "Back"
	case QuadrantRight:
		return "Right"
	default:
		return "Front"
	}
}

// NormalizeAngle maps an angle into (-π, π].
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	} else if a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}

// AnglesEqual reports whether two angles describe the same orientation.
func AnglesEqual(a, b float64) bool {
	d := math.Abs(NormalizeAngle(a - b))
	return d < AngleTolerance || math.Abs(d-2*math.Pi) < AngleTolerance
}

// IsCardinal reports whether the angle is a multiple of π/2.
func IsCardinal(a float64) bool {
	q := NormalizeAngle(a) / (math.Pi / 2)
	return math.Abs(q-math.Round(q)) < AngleTolerance
}

// IsAlongX reports whether angle % π == 0, i.e. the wall runs along world X.
func IsAlongX(a float64) bool {
	return IsCardinal(a) && math.Abs(math.Sin(a)) < AngleTolerance
}

// IsAlongZ reports whether |angle| == π/2, i.e. the wall runs along world Z.
func IsAlongZ(a float64) bool {
	return IsCardinal(a) && !IsAlongX(a)
}

// IsDiagonal reports whether the angle is an odd multiple of π/4.
func IsDiagonal(a float64) bool {
	if IsCardinal(a) {
		return false
	}
	q := NormalizeAngle(a) / (math.Pi / 4)
	return math.Abs(q-math.Round(q)) < AngleTolerance
}

// QuadrantOf returns the cardinal quadrant nearest to the angle.
func QuadrantOf(a float64) Quadrant {
	q := int(math.Round(NormalizeAngle(a) / (math.Pi / 2)))
	switch q {
	case 1:
		return QuadrantRight
	case 2, -2:
		return QuadrantBack
	case -1:
		return QuadrantLeft
	default:
		return QuadrantFront
	}
}

// AxisOf returns the world (x, z) direction of a wall's local +u axis.
// Cardinal angles return exact unit components so that axis-aligned clamps
// never pick up trigonometric noise.
func AxisOf(a float64) (ax, az float64) {
	if IsCardinal(a) {
		switch QuadrantOf(a) {
		case QuadrantRight:
			return 0, -1
		case QuadrantBack:
			return -1, 0
		case QuadrantLeft:
			return 0, 1
		default:
			return 1, 0
		}
	}
	return math.Cos(a), -math.Sin(a)
}

// NormalOf returns the outward (x, z) normal of a wall at the given angle.
func NormalOf(a float64) (nx, nz float64) {
	ax, az := AxisOf(a)
	return -az, ax
}

// ToLocal converts a world (x, z) point into wall-local (u, n) coordinates
// for a wall centred at (cx, cz) with the given angle. u runs along the wall,
// n is the signed distance from the wall's centre line.
func ToLocal(cx, cz, angle, x, z float64) (u, n float64) {
	ax, az := AxisOf(angle)
	nx, nz := NormalOf(angle)
	dx, dz := x-cx, z-cz
	return dx*ax + dz*az, dx*nx + dz*nz
}

// ToWorld is the inverse of ToLocal.
func ToWorld(cx, cz, angle, u, n float64) (x, z float64) {
	ax, az := AxisOf(angle)
	nx, nz := NormalOf(angle)
	return cx + u*ax + n*nx, cz + u*az + n*nz
}

func DegToRad(d float64) float64 { return d * math.Pi / 180 }

func RadToDeg(r float64) float64 { return r * 180 / math.Pi }
