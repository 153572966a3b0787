package pick

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/ethaniccc/float32-cube/cube/trace"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/piwi3910/ShedCraft/internal/geom"
	"github.com/piwi3910/ShedCraft/internal/model"
)

const (
	// minHalfThickness keeps zero-depth surfaces traceable.
	minHalfThickness float32 = 0.5

	railHeight = 15.0
	railDepth  = 30.0

	// FloorID is the surface ID of the floor-plan surface.
	FloorID = "floor"
)

// Surface is a pickable box. Min and Max bound it in the local frame whose
// axes are U (along), V (up or up-slope) and N (outward), anchored at Origin.
type Surface struct {
	ID     string
	Kind   model.SurfaceKind
	Origin mgl64.Vec3
	U, V   mgl64.Vec3
	N      mgl64.Vec3
	Min    mgl64.Vec3
	Max    mgl64.Vec3

	// mask rejects hits on the box that are not part of the surface, such
	// as wall openings or the corners outside a gable triangle.
	mask func(u, v float64) bool
}

// Local converts a world point into the surface frame.
func (s Surface) Local(p mgl64.Vec3) mgl64.Vec3 {
	d := p.Sub(s.Origin)
	return mgl64.Vec3{d.Dot(s.U), d.Dot(s.V), d.Dot(s.N)}
}

// World converts a local point back into world space.
func (s Surface) World(l mgl64.Vec3) mgl64.Vec3 {
	return s.Origin.Add(s.U.Mul(l[0])).Add(s.V.Mul(l[1])).Add(s.N.Mul(l[2]))
}

// box returns the local box in float32, widened along N to the minimum
// traceable thickness.
func (s Surface) box() cube.BBox {
	lo, hi := to32(s.Min), to32(s.Max)
	mid := (lo[2] + hi[2]) / 2
	half := math32.Max((hi[2]-lo[2])/2, minHalfThickness)
	return cube.Box(lo[0], lo[1], mid-half, hi[0], hi[1], mid+half)
}

// Intersect traces the ray segment [0, maxDist] against the surface.
func (s Surface) Intersect(r Ray, maxDist float64) (model.Intersection, bool) {
	start := to32(s.Local(r.Origin))
	end := to32(s.Local(r.At(maxDist)))
	res, ok := trace.BBoxIntercept(s.box(), start, end)
	if !ok {
		return model.Intersection{}, false
	}
	local := to64(res.Position())
	if s.mask != nil && !s.mask(local[0], local[1]) {
		return model.Intersection{}, false
	}
	p := s.World(local)
	return model.Intersection{
		Point:       p,
		SurfaceID:   s.ID,
		SurfaceKind: s.Kind,
		Distance:    p.Sub(r.Origin).Len(),
	}, true
}

func to32(v mgl64.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}

func to64(v mgl32.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}
}

// frame returns the along and outward axes of a wall in world space.
func frame(w *model.Wall) (u, n mgl64.Vec3) {
	ax, az := geom.AxisOf(w.Angle)
	nx, nz := geom.NormalOf(w.Angle)
	return mgl64.Vec3{ax, 0, az}, mgl64.Vec3{nx, 0, nz}
}

var up = mgl64.Vec3{0, 1, 0}

// WallSurface is the wall face. Hits inside clip openings fall through.
func WallSurface(w *model.Wall) Surface {
	u, n := frame(w)
	boundary := w.Boundary()
	return Surface{
		ID:     w.ID,
		Kind:   model.SurfaceWall,
		Origin: mgl64.Vec3{w.X, w.Y, w.Z},
		U:      u,
		V:      up,
		N:      n,
		Min:    mgl64.Vec3{-w.Width / 2, 0, -w.Thickness / 2},
		Max:    mgl64.Vec3{w.Width / 2, w.Height, w.Thickness / 2},
		mask:   boundary.Solid,
	}
}

// RoofSurface is a roof plane; V runs up the slope from the eave. The box
// hangs below the plane so hits land on the plane itself.
func RoofSurface(w *model.Wall) Surface {
	u, n := frame(w)
	c, s := math.Cos(w.Pitch), math.Sin(w.Pitch)
	slope := n.Mul(-c).Add(up.Mul(s))
	normal := n.Mul(s).Add(up.Mul(c))
	return Surface{
		ID:     w.ID,
		Kind:   model.SurfaceRoof,
		Origin: mgl64.Vec3{w.X, w.Y, w.Z},
		U:      u,
		V:      slope,
		N:      normal,
		Min:    mgl64.Vec3{-w.Width / 2, 0, -w.Thickness},
		Max:    mgl64.Vec3{w.Width / 2, w.Height, 0},
	}
}

// TrussSurface is the gable triangle above a wall. It shares the wall's ID.
func TrussSurface(w *model.Wall) (Surface, bool) {
	if len(w.Gable) == 0 {
		return Surface{}, false
	}
	u, n := frame(w)
	min, max := w.Gable.BoundingBox()
	gable := w.Gable
	return Surface{
		ID:     w.ID,
		Kind:   model.SurfaceTruss,
		Origin: mgl64.Vec3{w.X, w.Y, w.Z},
		U:      u,
		V:      up,
		N:      n,
		Min:    mgl64.Vec3{min.X, min.Y, -w.Thickness / 2},
		Max:    mgl64.Vec3{max.X, max.Y, w.Thickness / 2},
		mask: func(u, v float64) bool {
			return gable.Contains(geom.Point2D{X: u, Y: v})
		},
	}, true
}

// RailSurface is the low strip just outside a wall where decks attach.
func RailSurface(w *model.Wall) Surface {
	u, n := frame(w)
	return Surface{
		ID:     w.ID,
		Kind:   model.SurfaceRail,
		Origin: mgl64.Vec3{w.X, w.Y, w.Z},
		U:      u,
		V:      up,
		N:      n,
		Min:    mgl64.Vec3{-w.Width / 2, 0, w.Thickness / 2},
		Max:    mgl64.Vec3{w.Width / 2, railHeight, w.Thickness/2 + railDepth},
	}
}

// FloorSurface covers the footprint of the walls at y = 0.
func FloorSurface(walls []*model.Wall) (Surface, bool) {
	if len(walls) == 0 {
		return Surface{}, false
	}
	minX, minZ := math.Inf(1), math.Inf(1)
	maxX, maxZ := math.Inf(-1), math.Inf(-1)
	for _, w := range walls {
		l := w.Endpoints()
		for _, p := range []geom.Point2D{l.A, l.B} {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minZ, maxZ = math.Min(minZ, p.Y), math.Max(maxZ, p.Y)
		}
	}
	return Surface{
		ID:     FloorID,
		Kind:   model.SurfaceFloor,
		U:      mgl64.Vec3{1, 0, 0},
		V:      mgl64.Vec3{0, 0, 1},
		N:      up,
		Min:    mgl64.Vec3{minX, minZ, -1},
		Max:    mgl64.Vec3{maxX, maxZ, 0},
	}, true
}

// DragMode selects which surfaces are pickable during a drag.
type DragMode int

const (
	DragWall  DragMode = iota // Wall faces
	DragDeck                  // Wall faces and rail zones
	DragRoof                  // Roof planes
	DragGable                 // Gable trusses
	DragPlan                  // Floor plan
)

func (m DragMode) String() string {
	switch m {
	case DragDeck:
		return "deck"
	case DragRoof:
		return "roof"
	case DragGable:
		return "gable"
	case DragPlan:
		return "plan"
	default:
		return "wall"
	}
}

// ModeFor picks the drag mode for an accessory type.
func ModeFor(caps model.Capabilities) DragMode {
	switch {
	case caps.Roof:
		return DragRoof
	case caps.IsGableObject:
		return DragGable
	case caps.IsPlanItem:
		return DragPlan
	case caps.IsDeck:
		return DragDeck
	}
	return DragWall
}

// SurfacesFor builds the pickable set of a building for a drag mode.
func SurfacesFor(b *model.Building, mode DragMode) []Surface {
	if b == nil {
		return nil
	}
	var out []Surface
	switch mode {
	case DragRoof:
		for _, r := range b.Roofs {
			out = append(out, RoofSurface(r))
		}
	case DragGable:
		for _, w := range b.Walls {
			if s, ok := TrussSurface(w); ok {
				out = append(out, s)
			}
		}
	case DragPlan:
		if s, ok := FloorSurface(b.Walls); ok {
			out = append(out, s)
		}
	default:
		for _, w := range b.Walls {
			out = append(out, WallSurface(w))
			if mode == DragDeck {
				out = append(out, RailSurface(w))
			}
		}
	}
	return out
}
