package engine

import (
	"log/slog"
	"math"

	"github.com/piwi3910/ShedCraft/internal/geom"
	"github.com/piwi3910/ShedCraft/internal/model"
)

// Rejection explains why a drag position has no legal placement. Rejections
// are ordinary results: the caller flags the object and keeps dragging.
type Rejection int

const (
	RejectNone       Rejection = iota // Accepted
	RejectNoSurface                   // Hit did not resolve to a wall or roof plane
	RejectNoArea                      // Projected hit is not inside any free area
	RejectZeroWidth                   // Padded footprint does not fit the area
	RejectOutOfBand                   // Diagonal clamp could not satisfy both axes
	RejectWallKind                    // Object cannot fit this side/front/diagonal wall
	RejectGableBounds                 // A footprint corner lies outside the gable outline
	RejectSurfaceKind                 // Roof object on a wall or wall object on a roof
	RejectWrapBlocked                 // A wrap-around leg would cut through an object on the neighbour wall
)

var rejectionNames = [...]string{
	RejectNone:        "none",
	RejectNoSurface:   "no surface",
	RejectNoArea:      "no free area",
	RejectZeroWidth:   "footprint does not fit",
	RejectOutOfBand:   "outside diagonal band",
	RejectWallKind:    "wall kind not allowed",
	RejectGableBounds: "outside gable",
	RejectSurfaceKind: "wrong surface kind",
	RejectWrapBlocked: "wrap-around blocked",
}

func (r Rejection) String() string {
	if int(r) < len(rejectionNames) {
		return rejectionNames[r]
	}
	return "unknown"
}

// Result is the outcome of one clamp.
type Result struct {
	Placement  model.Placement
	Rejection  Rejection
	Wall       *model.Wall // resolved target, set whenever a wall was found
	Area       model.Area  // free area the object was clamped into
	PlaneWidth float64     // width of that area; 0 when rejected for lack of one
}

func (r Result) OK() bool { return r.Rejection == RejectNone }

// Solver clamps dragged objects onto the building's surfaces.
type Solver struct {
	Building *model.Building
	Catalog  *model.Catalog
	Settings model.PlacementSettings

	partitioner *Partitioner
	logger      *slog.Logger
}

// NewSolver creates a solver. A nil catalog falls back to the capability
// flags carried by each object; a nil logger uses slog.Default().
func NewSolver(b *model.Building, catalog *model.Catalog, settings model.PlacementSettings, logger *slog.Logger) *Solver {
	if logger == nil {
		logger = slog.Default()
	}
	settings = settings.Normalized()
	return &Solver{
		Building:    b,
		Catalog:     catalog,
		Settings:    settings,
		partitioner: NewPartitioner(settings),
		logger:      logger,
	}
}

func (s *Solver) Partitioner() *Partitioner { return s.partitioner }

// capabilities returns the catalog entry for the object's type, or one
// derived from the object's own flags for types the catalog lacks.
func (s *Solver) capabilities(obj model.PlacedObject) model.Capabilities {
	if s.Catalog != nil {
		if caps, ok := s.Catalog.Lookup(obj.Type); ok {
			return caps
		}
	}
	return model.Capabilities{
		Type:            obj.Type,
		Width:           obj.Width,
		Height:          obj.Height,
		Depth:           obj.Depth,
		CanVMove:        obj.CanVMove,
		CanFitSideWall:  obj.CanFitSideWall,
		CanFitFrontWall: obj.CanFitFrontWall,
		IsDeck:          obj.IsDeck,
		IsPlanItem:      obj.IsPlanItem,
		IsGableObject:   obj.IsGableObject,
		IsLinear:        obj.IsLinear,
		Roof:            obj.IsRoofObject,
		Structure:       obj.Structure,
	}
}

// Place clamps obj to the nearest legal position around hit. Others are the
// committed objects of the building; only those on the target wall are
// considered, and obj itself is skipped.
func (s *Solver) Place(hit model.Intersection, obj model.PlacedObject, padding float64, others []model.PlacedObject) Result {
	caps := s.capabilities(obj)
	res := s.place(hit, obj, caps, padding, others)
	if !res.OK() {
		wallID := ""
		if res.Wall != nil {
			wallID = res.Wall.ID
		}
		s.logger.Debug("placement rejected",
			"object", obj.ID,
			"type", obj.Type,
			"surface", hit.SurfaceID,
			"wall", wallID,
			"reason", res.Rejection.String())
	}
	return res
}

func (s *Solver) place(hit model.Intersection, obj model.PlacedObject, caps model.Capabilities, padding float64, others []model.PlacedObject) Result {
	wall := s.targetWall(hit, caps)
	if wall == nil {
		return Result{Rejection: RejectNoSurface}
	}
	res := Result{Wall: wall}

	if caps.Roof != wall.IsRoofPlane {
		res.Rejection = RejectSurfaceKind
		return res
	}
	if r := wallKindAllowed(wall, caps); r != RejectNone {
		res.Rejection = r
		return res
	}

	if caps.IsGableObject {
		return s.placeOnGable(res, hit, obj, padding)
	}

	siblings := s.siblings(wall, obj, others)
	areas := s.partitioner.Partition(wall, siblings)

	if wall.IsRoofPlane {
		return s.placeOnRoof(res, hit, obj, padding, areas)
	}

	u0, n0 := wall.ToLocal(hit.Point.X(), hit.Point.Z())

	if s.Settings.CenterItems && !caps.IsDeck {
		res.Area = model.Area{Center: 0, Width: wall.Width}
		res.PlaneWidth = wall.Width
		x, z := wall.ToWorld(0, n0)
		res.Placement = s.finish(wall, obj, caps, hit, padding, 0, x, z)
		return res
	}

	area, ok := AreaAt(areas, u0)
	if !ok {
		res.Rejection = RejectNoArea
		return res
	}
	res.Area = area
	res.PlaneWidth = area.Width

	half := obj.Width/2 + padding
	allowed := area.Interval().Shrink(half)
	if allowed.Hi < allowed.Lo {
		res.Rejection = RejectZeroWidth
		return res
	}

	var x, z, u float64
	switch {
	case geom.IsAlongX(wall.Angle):
		ax, _ := geom.AxisOf(wall.Angle)
		xr := worldRange(wall.X, ax, allowed)
		x, z = xr.Clamp(hit.Point.X()), hit.Point.Z()
		u = (x - wall.X) * ax
	case geom.IsAlongZ(wall.Angle):
		_, az := geom.AxisOf(wall.Angle)
		zr := worldRange(wall.Z, az, allowed)
		x, z = hit.Point.X(), zr.Clamp(hit.Point.Z())
		u = (z - wall.Z) * az
	default:
		var ok bool
		x, z, ok = clampDiagonal(wall, allowed, n0, hit.Point.X(), hit.Point.Z())
		if !ok {
			res.Rejection = RejectOutOfBand
			return res
		}
		u, _ = wall.ToLocal(x, z)
		if q, moved := quantize(u, s.Settings.DiagonalStep, allowed); moved {
			u = q
			x, z = wall.ToWorld(u, n0)
		}
	}

	if caps.CanVMove && wall.Height < obj.Height+2*padding {
		res.Rejection = RejectZeroWidth
		return res
	}
	res.Placement = s.finish(wall, obj, caps, hit, padding, u, x, z)
	if caps.Structure == model.StructureWrapAround {
		res.Rejection = s.wrapAround(wall, obj, &res.Placement, others)
	}
	return res
}

// wrapAround picks the wall a porch continues onto and checks that the
// return leg does not cut through a fixed accessory there. Linear
// accessories are left to the collision resolver.
func (s *Solver) wrapAround(wall *model.Wall, obj model.PlacedObject, p *model.Placement, others []model.PlacedObject) Rejection {
	n := model.WrapNeighbour(s.Building.Walls, wall, p.U)
	if n == nil {
		return RejectNone
	}
	p.WrapWall = n.ID

	leg := obj
	p.Apply(&leg)
	leg.CurrentWall, leg.WrapWall = wall.ID, n.ID
	span := OccupiedSpan(n, leg).Intersect(n.Span())
	top := math.Min(obj.Height, n.Height)

	for _, o := range others {
		if o.ID == obj.ID || o.IsLinear || o.IsPlanItem || o.IsGableObject {
			continue
		}
		if o.CurrentWall != n.ID && o.WrapWall != n.ID {
			continue
		}
		if !OccupiedSpan(n, o).Overlaps(span) || o.Y-n.Y >= top {
			continue
		}
		s.logger.Debug("wrap-around leg blocked", "object", obj.ID, "wall", n.ID, "by", o.ID)
		return RejectWrapBlocked
	}
	return RejectNone
}

// finish fills in rotation and the vertical coordinate.
func (s *Solver) finish(wall *model.Wall, obj model.PlacedObject, caps model.Capabilities, hit model.Intersection, padding, u, x, z float64) model.Placement {
	p := model.Placement{
		X:        x,
		Z:        z,
		U:        u,
		Rotation: Rotation(wall, obj),
		WallID:   wall.ID,
	}
	if caps.CanVMove {
		// The pointer marks the object's centre; Y is its bottom edge.
		bottom := hit.Point.Y() - wall.Y - obj.Height/2
		band := geom.Interval{Lo: padding, Hi: wall.Height - obj.Height - padding}
		p.Y = wall.Y + band.Clamp(bottom)
		p.HasY = true
	}
	return p
}

// Rotation is the wall angle plus any offset inherited from a parent deck.
// An object turned end for end keeps its half turn while it stays on the
// same wall.
func Rotation(wall *model.Wall, obj model.PlacedObject) float64 {
	r := wall.Angle
	switch {
	case obj.ParentDeck != "":
		r += obj.ParentAngle
	case obj.CurrentWall == wall.ID && geom.AnglesEqual(obj.Rotation-wall.Angle, math.Pi):
		r += math.Pi
	}
	return geom.NormalizeAngle(r)
}

// targetWall resolves the surface an intersection should place onto.
func (s *Solver) targetWall(hit model.Intersection, caps model.Capabilities) *model.Wall {
	if s.Building == nil {
		return nil
	}
	p := hit.Point
	switch {
	case caps.IsGableObject || hit.SurfaceKind == model.SurfaceTruss:
		return model.NearestGableWall(s.Building.Walls, p.X(), p.Z())
	case hit.SurfaceKind == model.SurfaceFloor:
		return nearestWall(s.Building.Walls, p.X(), p.Z())
	}
	return s.Building.Wall(hit.SurfaceID)
}

func nearestWall(walls []*model.Wall, x, z float64) *model.Wall {
	var best *model.Wall
	bestDist := math.Inf(1)
	pt := geom.Point2D{X: x, Y: z}
	for _, w := range walls {
		if d := w.Endpoints().DistanceTo(pt); d < bestDist {
			best, bestDist = w, d
		}
	}
	return best
}

// wallKindAllowed applies the side/front capability flags. Diagonal corner
// segments face the front and need CanFitFrontWall.
func wallKindAllowed(wall *model.Wall, caps model.Capabilities) Rejection {
	if wall.IsRoofPlane || caps.IsGableObject {
		return RejectNone
	}
	switch {
	case wall.IsSideWall() && !caps.CanFitSideWall:
		return RejectWallKind
	case !wall.IsSideWall() && !caps.CanFitFrontWall:
		return RejectWallKind
	}
	return RejectNone
}

// siblings returns the committed objects sharing the wall with obj,
// including wrap-around porches that continue onto it.
func (s *Solver) siblings(wall *model.Wall, obj model.PlacedObject, others []model.PlacedObject) []model.PlacedObject {
	var out []model.PlacedObject
	for _, o := range others {
		if o.ID == obj.ID {
			continue
		}
		if o.CurrentWall == wall.ID || (o.WrapWall != "" && o.WrapWall == wall.ID) {
			out = append(out, o)
		}
	}
	return out
}

// worldRange maps a local interval to world coordinates along one axis
// component (±1 for cardinal walls).
func worldRange(origin, axis float64, local geom.Interval) geom.Interval {
	a, b := origin+axis*local.Lo, origin+axis*local.Hi
	if a > b {
		a, b = b, a
	}
	return geom.Interval{Lo: a, Hi: b}
}
