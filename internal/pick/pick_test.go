package pick

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/piwi3910/ShedCraft/internal/clip"
	"github.com/piwi3910/ShedCraft/internal/geom"
	"github.com/piwi3910/ShedCraft/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// float32 tracing loses a little precision at scene scale.
const tol = 0.05

func box() *model.Building {
	front := model.NewWall("Front", 400, 240, 0, 200, 0)
	back := model.NewWall("Back", 400, 240, 0, -200, math.Pi)
	right := model.NewWall("Right", 400, 240, 200, 0, math.Pi/2)
	right.Gable = geom.GableOutline(400, 240, 100)
	left := model.NewWall("Left", 400, 240, -200, 0, -math.Pi/2)
	return &model.Building{Name: "box", Walls: []*model.Wall{front, right, back, left}}
}

func frontResolver() *Resolver {
	cam := NewCamera(mgl64.Vec3{0, 100, 1000}, mgl64.Vec3{0, 100, 0})
	return NewResolver(cam, Viewport{Width: 800, Height: 600}, nil)
}

func TestViewportNDC(t *testing.T) {
	vp := Viewport{Left: 10, Top: 20, Width: 800, Height: 600}
	x, y, ok := vp.NDC(410, 320)
	require.True(t, ok)
	assert.InDelta(t, 0, x, 1e-12)
	assert.InDelta(t, 0, y, 1e-12)

	x, y, _ = vp.NDC(10, 20)
	assert.InDelta(t, -1, x, 1e-12)
	assert.InDelta(t, 1, y, 1e-12, "top edge maps to +1")

	_, _, ok = Viewport{Width: 0, Height: 600}.NDC(0, 0)
	assert.False(t, ok)
}

func TestPointerEventPrefersFirstTouch(t *testing.T) {
	ev := PointerEvent{X: 1, Y: 2, Touches: []Touch{{X: 30, Y: 40}, {X: 50, Y: 60}}}
	x, y := ev.Position()
	assert.Equal(t, 30.0, x)
	assert.Equal(t, 40.0, y)

	x, y = PointerEvent{X: 1, Y: 2}.Position()
	assert.Equal(t, 1.0, x)
	assert.Equal(t, 2.0, y)
}

func TestCameraCentreRay(t *testing.T) {
	r := frontResolver()
	ray, ok := r.Ray(PointerEvent{X: 400, Y: 300})
	require.True(t, ok)
	assert.InDelta(t, 0, ray.Dir.X(), 1e-9)
	assert.InDelta(t, 0, ray.Dir.Y(), 1e-9)
	assert.InDelta(t, -1, ray.Dir.Z(), 1e-9)
	assert.InDelta(t, 999, ray.Origin.Z(), 1e-6, "origin on the near plane")

	top, _ := r.Ray(PointerEvent{X: 400, Y: 0})
	assert.Greater(t, top.Dir.Y(), 0.0)
}

func TestResolveSortsNearestFirst(t *testing.T) {
	b := box()
	hits := frontResolver().Resolve(SurfacesFor(b, DragWall), PointerEvent{X: 400, Y: 300})
	require.Len(t, hits, 2)

	assert.Equal(t, b.Walls[0].ID, hits[0].SurfaceID)
	assert.Equal(t, model.SurfaceWall, hits[0].SurfaceKind)
	assert.InDelta(t, 205, hits[0].Point.Z(), tol, "outer face of the front wall")
	assert.InDelta(t, 100, hits[0].Point.Y(), tol)
	assert.InDelta(t, 794, hits[0].Distance, tol)

	assert.Equal(t, b.Walls[2].ID, hits[1].SurfaceID)
	assert.InDelta(t, -195, hits[1].Point.Z(), tol)
}

func TestTouchResolvesLikePointer(t *testing.T) {
	b := box()
	r := frontResolver()
	mouse := r.Resolve(SurfacesFor(b, DragWall), PointerEvent{X: 400, Y: 300})
	touch := r.Resolve(SurfacesFor(b, DragWall), PointerEvent{X: -5, Y: -5, Touches: []Touch{{X: 400, Y: 300}}})
	assert.Equal(t, mouse, touch)
}

func TestRayPassesThroughOpening(t *testing.T) {
	b := box()
	b.Walls[0].Clips.Push(clip.Rect("deck", -50, 50))

	hits := frontResolver().Resolve(SurfacesFor(b, DragWall), PointerEvent{X: 400, Y: 300})
	require.Len(t, hits, 1)
	assert.Equal(t, b.Walls[2].ID, hits[0].SurfaceID, "front wall is open at the pointer")
}

func TestResolveMissAndEmptyViewport(t *testing.T) {
	b := box()
	r := frontResolver()
	sky := Ray{Origin: mgl64.Vec3{0, 100, 1000}, Dir: mgl64.Vec3{0, 1, 0}}
	assert.Empty(t, r.Cast(SurfacesFor(b, DragWall), sky))

	r.Viewport = Viewport{}
	assert.Nil(t, r.Resolve(SurfacesFor(b, DragWall), PointerEvent{X: 1, Y: 1}))
	assert.Nil(t, r.Resolve(nil, PointerEvent{}))
}

func TestRailZoneInFrontOfWall(t *testing.T) {
	b := box()
	ray := Ray{Origin: mgl64.Vec3{50, 10, 1000}, Dir: mgl64.Vec3{0, 0, -1}}
	hits := frontResolver().Cast(SurfacesFor(b, DragDeck), ray)
	require.GreaterOrEqual(t, len(hits), 2)
	assert.Equal(t, model.SurfaceRail, hits[0].SurfaceKind)
	assert.Equal(t, b.Walls[0].ID, hits[0].SurfaceID)
	assert.InDelta(t, 235, hits[0].Point.Z(), tol)
	assert.Equal(t, model.SurfaceWall, hits[1].SurfaceKind)

	for _, h := range frontResolver().Cast(SurfacesFor(b, DragWall), ray) {
		assert.NotEqual(t, model.SurfaceRail, h.SurfaceKind)
	}
}

func TestTrussMaskFollowsGableTriangle(t *testing.T) {
	b := box()
	right := b.Walls[1]
	surfaces := SurfacesFor(b, DragGable)
	require.Len(t, surfaces, 1)
	r := frontResolver()

	// u = -z on the right wall.
	inside := Ray{Origin: mgl64.Vec3{1000, 280, 0}, Dir: mgl64.Vec3{-1, 0, 0}}
	hits := r.Cast(surfaces, inside)
	require.Len(t, hits, 1)
	assert.Equal(t, right.ID, hits[0].SurfaceID)
	assert.Equal(t, model.SurfaceTruss, hits[0].SurfaceKind)
	assert.InDelta(t, 205, hits[0].Point.X(), tol)

	corner := Ray{Origin: mgl64.Vec3{1000, 330, -180}, Dir: mgl64.Vec3{-1, 0, 0}}
	assert.Empty(t, r.Cast(surfaces, corner), "inside the bounding box but outside the triangle")

	above := Ray{Origin: mgl64.Vec3{1000, 280, 0}, Dir: mgl64.Vec3{-1, 0, 0}}
	for _, h := range r.Cast(SurfacesFor(b, DragWall), above) {
		assert.NotEqual(t, right.ID, h.SurfaceID, "wall face ends at the eave")
	}
}

func TestRoofSurfaceHitMapsToSlope(t *testing.T) {
	pitch := mgl64.DegToRad(30)
	roof := model.NewRoofPlane("Front Roof", 400, 200, 0, 240, 200, 0, pitch)
	b := &model.Building{Roofs: []*model.Wall{roof}}

	ray := Ray{Origin: mgl64.Vec3{0, 1000, 150}, Dir: mgl64.Vec3{0, -1, 0}}
	hits := frontResolver().Cast(SurfacesFor(b, DragRoof), ray)
	require.Len(t, hits, 1)
	assert.Equal(t, model.SurfaceRoof, hits[0].SurfaceKind)

	u, v := roof.SlopeLocal(hits[0].Point)
	assert.InDelta(t, 0, u, tol)
	assert.InDelta(t, 50/math.Cos(pitch), v, tol)
}

func TestFloorSurfaceCoversFootprint(t *testing.T) {
	b := box()
	surfaces := SurfacesFor(b, DragPlan)
	require.Len(t, surfaces, 1)

	down := Ray{Origin: mgl64.Vec3{120, 500, -80}, Dir: mgl64.Vec3{0, -1, 0}}
	hits := frontResolver().Cast(surfaces, down)
	require.Len(t, hits, 1)
	assert.Equal(t, FloorID, hits[0].SurfaceID)
	assert.InDelta(t, 0, hits[0].Point.Y(), tol)
	assert.InDelta(t, 120, hits[0].Point.X(), tol)

	outside := Ray{Origin: mgl64.Vec3{500, 500, 0}, Dir: mgl64.Vec3{0, -1, 0}}
	assert.Empty(t, frontResolver().Cast(surfaces, outside))
}

func TestModeFor(t *testing.T) {
	cat := model.DefaultCatalog()
	cases := map[string]DragMode{
		"window-24x36": DragWall,
		"skylight":     DragRoof,
		"gable-vent":   DragGable,
		"loft":         DragPlan,
		"deck":         DragDeck,
	}
	for typ, want := range cases {
		caps, ok := cat.Lookup(typ)
		require.True(t, ok, typ)
		assert.Equal(t, want, ModeFor(caps), typ)
	}
	assert.Nil(t, SurfacesFor(nil, DragWall))
}

func TestSurfaceLocalRoundTrip(t *testing.T) {
	w := model.NewWall("Corner", 200, 240, 100, 100, math.Pi/4)
	s := WallSurface(w)
	p := mgl64.Vec3{37, 80, -12}
	back := s.World(s.Local(p))
	assert.InDelta(t, p.X(), back.X(), 1e-9)
	assert.InDelta(t, p.Y(), back.Y(), 1e-9)
	assert.InDelta(t, p.Z(), back.Z(), 1e-9)

	l := s.Local(mgl64.Vec3{w.X, 0, w.Z})
	u, n := w.ToLocal(w.X, w.Z)
	assert.InDelta(t, u, l.X(), 1e-9)
	assert.InDelta(t, n, l.Z(), 1e-9)
}
