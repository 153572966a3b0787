package session

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/piwi3910/ShedCraft/internal/model"
)

// Request places one accessory by wall-local coordinates, the form used by
// accessory lists. Elevation is the bottom edge above the wall base (up the
// slope on roof planes) and only applies when HasElevation is set.
type Request struct {
	Type         string
	Wall         string // label or ID
	Offset       float64
	Elevation    float64
	HasElevation bool
	Length       float64 // linear accessories only; 0 keeps the catalog width
}

// FindWall resolves a wall or roof plane by ID or case-insensitive label.
func (p *Planner) FindWall(ref string) *model.Wall {
	if w := p.Building.Wall(ref); w != nil {
		return w
	}
	ref = strings.TrimSpace(ref)
	for _, group := range [][]*model.Wall{p.Building.Walls, p.Building.Roofs} {
		for _, w := range group {
			if strings.EqualFold(w.Label, ref) {
				return w
			}
		}
	}
	return nil
}

// HitFor synthesizes the intersection a pointer would produce when aiming
// at offset along wall for obj.
func (p *Planner) HitFor(wall *model.Wall, obj model.PlacedObject, offset, elevation float64, hasElevation bool) model.Intersection {
	caps := p.capabilities(obj)
	switch {
	case wall.IsRoofPlane:
		v := wall.Height / 2
		if hasElevation {
			v = elevation + obj.Height/2
		}
		return model.Intersection{Point: wall.SlopePoint(offset, v), SurfaceID: wall.ID, SurfaceKind: model.SurfaceRoof}
	case caps.IsGableObject:
		min, max := wall.Gable.BoundingBox()
		v := min.Y + (max.Y-min.Y)/3
		if hasElevation {
			v = elevation + obj.Height/2
		}
		x, z := wall.ToWorld(offset, wall.Thickness/2)
		return model.Intersection{Point: mgl64.Vec3{x, wall.Y + v, z}, SurfaceID: wall.ID, SurfaceKind: model.SurfaceTruss}
	case caps.IsPlanItem:
		// Just inside the wall so the floor hit resolves to it.
		x, z := wall.ToWorld(offset, -wall.Thickness)
		return model.Intersection{Point: mgl64.Vec3{x, 0, z}, SurfaceID: "floor", SurfaceKind: model.SurfaceFloor}
	}
	bottom := obj.Y - wall.Y
	if hasElevation && caps.CanVMove {
		bottom = elevation
	}
	x, z := wall.ToWorld(offset, wall.Thickness/2)
	return model.Intersection{
		Point:       mgl64.Vec3{x, wall.Y + bottom + obj.Height/2, z},
		SurfaceID:   wall.ID,
		SurfaceKind: model.SurfaceWall,
	}
}

// Place runs one request through the same drag and drop path as an
// interactive placement. A rejected request leaves the planner unchanged.
func (p *Planner) Place(r Request) (Commit, error) {
	d, err := p.BeginDrag(r.Type)
	if err != nil {
		return Commit{}, err
	}
	wall := p.FindWall(r.Wall)
	if wall == nil {
		p.Cancel()
		return Commit{}, fmt.Errorf("%w: %s", ErrUnknownWall, r.Wall)
	}
	hit := p.HitFor(wall, d.Object, r.Offset, r.Elevation, r.HasElevation)
	if _, err := p.DragOver([]model.Intersection{hit}); err != nil {
		p.Cancel()
		return Commit{}, err
	}
	c, err := p.Drop()
	if err != nil {
		return Commit{}, fmt.Errorf("%s on %s at %.1f: %w", r.Type, wall.Label, r.Offset, err)
	}
	if r.Length <= 0 || c.Deleted {
		return c, nil
	}
	if !c.Object.IsLinear {
		return c, fmt.Errorf("%s: %w", r.Type, ErrNotLinear)
	}
	resized, err := p.ResizeLinear(c.Object.ID, r.Length)
	if err != nil {
		return c, err
	}
	resized.Resized = append(c.Resized, resized.Resized...)
	resized.Removed = append(c.Removed, resized.Removed...)
	return resized, nil
}

// PlaceAll places every request in order and collects the failures. The
// committed results are returned for the requests that succeeded.
func (p *Planner) PlaceAll(reqs []Request) ([]Commit, []error) {
	var (
		commits []Commit
		errs    []error
	)
	for i, r := range reqs {
		c, err := p.Place(r)
		if err != nil {
			p.logger.Warn("accessory not placed", "index", i, "type", r.Type, "wall", r.Wall, "error", err)
			errs = append(errs, fmt.Errorf("request %d: %w", i+1, err))
			if c.Object.ID == "" {
				continue
			}
		}
		commits = append(commits, c)
	}
	return commits, errs
}
