package engine

import (
	"log/slog"
	"math"
	"sort"

	"github.com/piwi3910/ShedCraft/internal/geom"
	"github.com/piwi3910/ShedCraft/internal/model"
)

// Outcome is the verdict of the collision resolver.
type Outcome int

const (
	OutcomeUnchanged Outcome = iota // No sibling overlapped
	OutcomeResized                  // Shortened and/or moved to clear siblings
	OutcomeRemove                   // Would fall below the minimum length; delete the object
)

func (o Outcome) String() string {
	switch o {
	case OutcomeResized:
		return "resized"
	case OutcomeRemove:
		return "remove"
	default:
		return "unchanged"
	}
}

// Resize is the collision-free extent of a linear accessory.
type Resize struct {
	Outcome Outcome
	Center  float64 // along-wall centre
	Length  float64
	X, Z    float64 // world position of the new centre
}

// CollisionResolver keeps linear accessories (workbenches, shelves) from
// overlapping their neighbours on a wall.
type CollisionResolver struct {
	MinLength float64
	logger    *slog.Logger
}

func NewCollisionResolver(settings model.PlacementSettings, logger *slog.Logger) *CollisionResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &CollisionResolver{MinLength: settings.Normalized().MinLinearLength, logger: logger}
}

// direction is +1 when the object runs along the wall's +u axis and -1 when
// it is turned around. The start of its interval is the end it grows from.
func direction(wall *model.Wall, self model.PlacedObject) float64 {
	if geom.AnglesEqual(self.Rotation-wall.Angle, math.Pi) {
		return -1
	}
	return 1
}

// selfInterval returns the object's start and end along the wall; end lies
// in the object's direction from start.
func selfInterval(wall *model.Wall, self model.PlacedObject) (start, end, dir float64) {
	u, _ := wall.ToLocal(self.X, self.Z)
	dir = direction(wall, self)
	return u - dir*self.Width/2, u + dir*self.Width/2, dir
}

// obstacles lists the spans of the siblings on the wall and the wall's
// openings, sorted by lower bound.
func obstacles(wall *model.Wall, self model.PlacedObject, siblings []model.PlacedObject) []geom.Interval {
	var out []geom.Interval
	for _, o := range siblings {
		if o.ID == self.ID || o.IsPlanItem || o.IsGableObject {
			continue
		}
		if o.CurrentWall != wall.ID && o.WrapWall != wall.ID {
			continue
		}
		out = append(out, OccupiedSpan(wall, o))
	}
	if !wall.IsRoofPlane {
		for _, c := range wall.Boundary().Cuts {
			out = append(out, c.Span())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Lo < out[j].Lo })
	return out
}

// Resolve shrinks self clear of every overlapping sibling. For each overlap
// the part of self on the side with more room is kept. The result is also
// clamped to the wall; anything shorter than MinLength is OutcomeRemove.
func (c *CollisionResolver) Resolve(wall *model.Wall, self model.PlacedObject, siblings []model.PlacedObject) Resize {
	start, end, dir := selfInterval(wall, self)
	cur := geom.Interval{Lo: math.Min(start, end), Hi: math.Max(start, end)}
	orig := cur

	for _, ob := range obstacles(wall, self, siblings) {
		if !cur.Overlaps(ob) {
			continue
		}
		left := ob.Lo - cur.Lo
		right := cur.Hi - ob.Hi
		if left >= right {
			cur.Hi = math.Min(cur.Hi, ob.Lo)
		} else {
			cur.Lo = math.Max(cur.Lo, ob.Hi)
		}
	}
	cur = cur.Intersect(wall.Span())

	res := c.result(wall, self, cur)
	if res.Outcome != OutcomeRemove && cur == orig {
		res.Outcome = OutcomeUnchanged
	}
	c.logger.Debug("collision resolved",
		"object", self.ID,
		"wall", wall.ID,
		"direction", dir,
		"outcome", res.Outcome.String(),
		"length", res.Length)
	return res
}

// Grow extends self from its start end toward its direction to the
// requested length, stopping at the wall end or the first obstacle ahead.
func (c *CollisionResolver) Grow(wall *model.Wall, self model.PlacedObject, length float64, siblings []model.PlacedObject) Resize {
	start, _, dir := selfInterval(wall, self)
	base := wall.Span()
	start = base.Clamp(start)

	limit := base.Hi - start
	if dir < 0 {
		limit = start - base.Lo
	}
	for _, ob := range obstacles(wall, self, siblings) {
		var gap float64
		if dir > 0 {
			if ob.Hi <= start {
				continue
			}
			gap = ob.Lo - start
		} else {
			if ob.Lo >= start {
				continue
			}
			gap = start - ob.Hi
		}
		limit = math.Min(limit, math.Max(0, gap))
	}
	requested := length
	length = math.Min(length, limit)

	end := start + dir*length
	cur := geom.Interval{Lo: math.Min(start, end), Hi: math.Max(start, end)}
	res := c.result(wall, self, cur)
	c.logger.Debug("linear accessory grown",
		"object", self.ID,
		"wall", wall.ID,
		"requested", requested,
		"length", length,
		"outcome", res.Outcome.String())
	return res
}

func (c *CollisionResolver) result(wall *model.Wall, self model.PlacedObject, cur geom.Interval) Resize {
	if cur.Width() < c.MinLength {
		return Resize{Outcome: OutcomeRemove}
	}
	_, n := wall.ToLocal(self.X, self.Z)
	x, z := wall.ToWorld(cur.Center(), n)
	return Resize{
		Outcome: OutcomeResized,
		Center:  cur.Center(),
		Length:  cur.Width(),
		X:       x,
		Z:       z,
	}
}

// Apply writes a resize back onto the object.
func (r Resize) Apply(o *model.PlacedObject) {
	if r.Outcome == OutcomeRemove {
		return
	}
	o.X, o.Z = r.X, r.Z
	o.Width = r.Length
}
