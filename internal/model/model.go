package model

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/piwi3910/ShedCraft/internal/clip"
	"github.com/piwi3910/ShedCraft/internal/geom"
)

// SurfaceKind identifies what kind of geometry a pointer ray struck.
type SurfaceKind int

const (
	SurfaceWall  SurfaceKind = iota // Vertical wall face
	SurfaceRoof                     // Sloped roof plane
	SurfaceTruss                    // Gable truss above a wall
	SurfaceRail                     // Rail zone in front of a wall
	SurfaceFloor                    // Floor-plan surface
)

func (k SurfaceKind) String() string {
	switch k {
	case SurfaceRoof:
		return "Roof"
	case SurfaceTruss:
		return "Truss"
	case SurfaceRail:
		return "Rail"
	case SurfaceFloor:
		return "Floor"
	default:
		return "Wall"
	}
}

// StructureKind tags the structural attachments that cut into a wall.
type StructureKind int

const (
	StructureNone       StructureKind = iota // Regular accessory
	StructureDeck                            // Deck: rectangular cut of the wall section behind it
	StructureWrapAround                      // Wrap-around porch: deck continuing onto the neighbour wall
	StructureStall                           // Stall: chamfered polygon opening
)

var structureNames = map[StructureKind]string{
	StructureNone:       "none",
	StructureDeck:       "deck",
	StructureWrapAround: "wrap-around",
	StructureStall:      "stall",
}

func (k StructureKind) String() string {
	if s, ok := structureNames[k]; ok {
		return s
	}
	return "none"
}

// ParseStructureKind accepts the names produced by String. Empty means none.
func ParseStructureKind(s string) (StructureKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return StructureNone, nil
	}
	for k, name := range structureNames {
		if name == s {
			return k, nil
		}
	}
	return StructureNone, fmt.Errorf("unknown structure kind %q", s)
}

func (k StructureKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *StructureKind) UnmarshalText(b []byte) error {
	v, err := ParseStructureKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// CutsWall reports whether attaching the structure removes wall geometry.
func (k StructureKind) CutsWall() bool {
	return k != StructureNone
}

// Wall is one vertical wall segment or roof plane of the building.
//
// Local coordinates: u runs along the wall from -Width/2 to +Width/2, v
// runs up from the wall base (Y). For roof planes v runs up the slope from
// the eave and Height is the slope length.
type Wall struct {
	ID          string       `json:"id"`
	Label       string       `json:"label"`
	Width       float64      `json:"width"`     // cm
	Height      float64      `json:"height"`    // cm
	Thickness   float64      `json:"thickness"` // cm
	X           float64      `json:"x"`
	Y           float64      `json:"y"` // base (eave for roof planes)
	Z           float64      `json:"z"`
	Angle       float64      `json:"angle"` // radians about world Y
	IsRoofPlane bool         `json:"is_roof_plane"`
	Pitch       float64      `json:"pitch,omitempty"` // roof planes: slope from horizontal, radians
	Gable       geom.Outline `json:"gable,omitempty"` // truss face above the wall, wall-local (u, v)
	Clips       *clip.Stack  `json:"-"`
}

// NewWall creates a wall centred at (x, z) with an empty clip stack.
func NewWall(label string, width, height, x, z, angle float64) *Wall {
	return &Wall{
		ID:        uuid.New().String()[:8],
		Label:     label,
		Width:     width,
		Height:    height,
		Thickness: 10,
		X:         x,
		Z:         z,
		Angle:     angle,
		Clips:     clip.NewStack(width, height),
	}
}

// NewRoofPlane creates a roof plane whose eave runs through (x, y, z).
// slopeLength is the plane's extent up the slope.
func NewRoofPlane(label string, width, slopeLength, x, y, z, angle, pitch float64) *Wall {
	w := NewWall(label, width, slopeLength, x, z, angle)
	w.Y = y
	w.IsRoofPlane = true
	w.Pitch = pitch
	return w
}

// Boundary returns the wall's current face, including applied cuts.
func (w *Wall) Boundary() clip.Boundary {
	if w.Clips == nil {
		return clip.Boundary{Width: w.Width, Height: w.Height}
	}
	return w.Clips.CurrentBoundary()
}

// EnsureClips attaches an empty clip stack to walls decoded from JSON.
func (w *Wall) EnsureClips() {
	if w.Clips == nil {
		w.Clips = clip.NewStack(w.Width, w.Height)
	}
}

func (w *Wall) Quadrant() geom.Quadrant { return geom.QuadrantOf(w.Angle) }

func (w *Wall) IsDiagonal() bool { return geom.IsDiagonal(w.Angle) }

// IsSideWall reports whether the wall runs along world Z.
func (w *Wall) IsSideWall() bool { return geom.IsAlongZ(w.Angle) }

// IsFrontWall reports whether the wall runs along world X.
func (w *Wall) IsFrontWall() bool { return geom.IsAlongX(w.Angle) }

// Span returns the wall's local extent, centred at 0.
func (w *Wall) Span() geom.Interval { return geom.Span(0, w.Width) }

// ToLocal converts a world (x, z) point to (u, n) relative to the wall.
func (w *Wall) ToLocal(x, z float64) (u, n float64) {
	return geom.ToLocal(w.X, w.Z, w.Angle, x, z)
}

// ToWorld converts local (u, n) back to world (x, z).
func (w *Wall) ToWorld(u, n float64) (x, z float64) {
	return geom.ToWorld(w.X, w.Z, w.Angle, u, n)
}

// SlopePoint returns the world point at (u, v) on a roof plane.
func (w *Wall) SlopePoint(u, v float64) mgl64.Vec3 {
	ax, az := geom.AxisOf(w.Angle)
	nx, nz := geom.NormalOf(w.Angle)
	run := v * math.Cos(w.Pitch)
	rise := v * math.Sin(w.Pitch)
	return mgl64.Vec3{
		w.X + u*ax - run*nx,
		w.Y + rise,
		w.Z + u*az - run*nz,
	}
}

// SlopeLocal is the inverse of SlopePoint for points on the plane.
func (w *Wall) SlopeLocal(p mgl64.Vec3) (u, v float64) {
	u, n := w.ToLocal(p.X(), p.Z())
	c, s := math.Cos(w.Pitch), math.Sin(w.Pitch)
	// Project onto the slope direction (-normal * cos, up * sin).
	v = -n*c + (p.Y()-w.Y)*s
	return u, v
}

// Endpoints returns the wall's base line in the (x, z) plane.
func (w *Wall) Endpoints() geom.Line {
	ax, az := w.ToWorld(-w.Width/2, 0)
	bx, bz := w.ToWorld(w.Width/2, 0)
	return geom.Line{A: geom.Point2D{X: ax, Y: az}, B: geom.Point2D{X: bx, Y: bz}}
}

// Area is a free or occupied span along a wall's local axis.
type Area struct {
	Center  float64  `json:"center"`
	Width   float64  `json:"width"`
	Kind    AreaKind `json:"kind"`
	OwnerID string   `json:"owner_id,omitempty"` // object or clip key occupying the span
}

// AreaKind distinguishes free spans from occupied ones.
type AreaKind int

const (
	AreaFree    AreaKind = iota
	AreaObject           // Occupied by a placed object
	AreaOpening          // Removed by a clip region
)

func (k AreaKind) String() string {
	switch k {
	case AreaObject:
		return "object"
	case AreaOpening:
		return "opening"
	default:
		return "free"
	}
}

func (a Area) Free() bool { return a.Kind == AreaFree }

func (a Area) Interval() geom.Interval { return geom.Span(a.Center, a.Width) }

// Contains reports whether u lies within the area (inclusive).
func (a Area) Contains(u float64) bool { return a.Interval().Contains(u) }

// PlacedObject is an accessory committed to (or being dragged onto) a wall.
type PlacedObject struct {
	ID       string  `json:"id"`
	Type     string  `json:"type"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
	HasY     bool    `json:"has_y"`
	Rotation float64 `json:"rotation"` // world angle; equals the wall angle once placed
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Depth    float64 `json:"depth"`

	CurrentWall string  `json:"current_wall,omitempty"`
	WrapWall    string  `json:"wrap_wall,omitempty"` // neighbour wall a wrap-around porch continues onto
	ParentDeck  string  `json:"parent_deck,omitempty"`
	ParentAngle float64 `json:"parent_angle,omitempty"` // rotation offset inherited from the parent deck

	IsDeck          bool          `json:"is_deck"`
	IsPlanItem      bool          `json:"is_plan_item"`
	IsGableObject   bool          `json:"is_gable_object"`
	IsLinear        bool          `json:"is_linear"`
	IsRoofObject    bool          `json:"is_roof_object"`
	CanFitSideWall  bool          `json:"can_fit_side_wall"`
	CanFitFrontWall bool          `json:"can_fit_front_wall"`
	CanVMove        bool          `json:"can_v_move"`
	Structure       StructureKind `json:"structure"`

	// PlacementForbidden is a visual-only flag set while a drag is rejected.
	PlacementForbidden bool `json:"-"`
}

// Footprint returns the object's along-wall span centred at u.
func (o PlacedObject) Footprint(u float64) geom.Interval {
	return geom.Span(u, o.Width)
}

// Placement is the committed outcome of a successful clamp.
type Placement struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
	HasY     bool    `json:"has_y"`
	Rotation float64 `json:"rotation"`
	WallID   string  `json:"wall_id"`
	WrapWall string  `json:"wrap_wall,omitempty"` // wrap-around porches only
	U        float64 `json:"u"`                   // along-wall coordinate of the object centre
}

// Apply copies the placement onto an object.
func (p Placement) Apply(o *PlacedObject) {
	o.X, o.Z = p.X, p.Z
	if p.HasY {
		o.Y = p.Y
		o.HasY = true
	}
	o.Rotation = p.Rotation
	o.CurrentWall = p.WallID
	if o.Structure == StructureWrapAround {
		o.WrapWall = p.WrapWall
	}
}

// Intersection is one ray hit against a pickable surface.
type Intersection struct {
	Point       mgl64.Vec3  `json:"point"`
	SurfaceID   string      `json:"surface_id"`
	SurfaceKind SurfaceKind `json:"surface_kind"`
	Distance    float64     `json:"distance"`
}

// Building is the parametric model: ordered walls and roof planes.
type Building struct {
	Name  string  `json:"name"`
	Walls []*Wall `json:"walls"`
	Roofs []*Wall `json:"roofs"`
}

// Wall returns the wall or roof plane with the given ID, or nil.
func (b *Building) Wall(id string) *Wall {
	for _, w := range b.Walls {
		if w.ID == id {
			return w
		}
	}
	for _, w := range b.Roofs {
		if w.ID == id {
			return w
		}
	}
	return nil
}

// GableWalls returns the walls carrying a truss outline.
func (b *Building) GableWalls() []*Wall {
	var out []*Wall
	for _, w := range b.Walls {
		if len(w.Gable) > 0 {
			out = append(out, w)
		}
	}
	return out
}
