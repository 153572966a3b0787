package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAngle(t *testing.T) {
	assert.InDelta(t, math.Pi, NormalizeAngle(-math.Pi), 1e-12)
	assert.InDelta(t, -math.Pi/2, NormalizeAngle(3*math.Pi/2), 1e-12)
	assert.InDelta(t, 0.0, NormalizeAngle(4*math.Pi), 1e-12)
}

func TestAngleClassification(t *testing.T) {
	assert.True(t, IsAlongX(0))
	assert.True(t, IsAlongX(math.Pi))
	assert.True(t, IsAlongX(-math.Pi))
	assert.True(t, IsAlongZ(math.Pi/2))
	assert.True(t, IsAlongZ(-math.Pi/2))
	assert.False(t, IsCardinal(math.Pi/4))
	assert.True(t, IsDiagonal(math.Pi/4))
	assert.True(t, IsDiagonal(-3*math.Pi/4))
	assert.False(t, IsDiagonal(math.Pi/6))
}

func TestAxisOfCardinalIsExact(t *testing.T) {
	ax, az := AxisOf(math.Pi / 2)
	assert.Equal(t, 0.0, ax)
	assert.Equal(t, -1.0, az)

	ax, az = AxisOf(math.Pi)
	assert.Equal(t, -1.0, ax)
	assert.Equal(t, 0.0, az)
}

func TestLocalWorldRoundTrip(t *testing.T) {
	for _, angle := range []float64{0, math.Pi / 2, math.Pi, -math.Pi / 2, math.Pi / 4, -3 * math.Pi / 4} {
		u, n := ToLocal(10, -20, angle, 57, 31)
		x, z := ToWorld(10, -20, angle, u, n)
		assert.InDelta(t, 57.0, x, 1e-9, "angle %v", angle)
		assert.InDelta(t, 31.0, z, 1e-9, "angle %v", angle)
	}
}

func TestFormatFeetInches(t *testing.T) {
	assert.Equal(t, "1' 0\"", FormatFeetInches(30.48))
	assert.Equal(t, "6\"", FormatFeetInches(15.24))
	assert.Equal(t, "7' 4\"", FormatFeetInches(FeetToCM(7)+InchesToCM(4)))
	assert.Equal(t, "-2' 0\"", FormatFeetInches(-60.96))
}

func TestIntervalOps(t *testing.T) {
	a := Span(0, 100)
	assert.Equal(t, Interval{Lo: -50, Hi: 50}, a)
	assert.True(t, a.Overlaps(Interval{Lo: 40, Hi: 60}))
	assert.False(t, a.Overlaps(Interval{Lo: 50, Hi: 60}), "touching edges do not overlap")
	assert.Equal(t, 30.0, a.Clamp(30))
	assert.Equal(t, 50.0, a.Clamp(80))
	assert.True(t, a.Shrink(60).Empty())
}

func TestOutlineContains(t *testing.T) {
	tri := GableOutline(400, 200, 100)
	assert.True(t, tri.Contains(Point2D{X: 0, Y: 250}))
	assert.True(t, tri.Contains(Point2D{X: -200, Y: 200}), "vertex counts as inside")
	assert.False(t, tri.Contains(Point2D{X: 150, Y: 280}))
	assert.InDelta(t, 20000.0, tri.Area(), 1e-9)
}

func TestLineDistance(t *testing.T) {
	l := Line{A: Point2D{X: 0, Y: 0}, B: Point2D{X: 10, Y: 0}}
	assert.InDelta(t, 5.0, l.DistanceTo(Point2D{X: 5, Y: 5}), 1e-12)
	assert.InDelta(t, 5.0, l.DistanceTo(Point2D{X: 15, Y: 0}), 1e-12)
}
