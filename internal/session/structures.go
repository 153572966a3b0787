package session

import (
	"math"

	"github.com/piwi3910/ShedCraft/internal/clip"
	"github.com/piwi3910/ShedCraft/internal/engine"
	"github.com/piwi3910/ShedCraft/internal/geom"
	"github.com/piwi3910/ShedCraft/internal/model"
)

// cut is one region a structure applies to one wall.
type cut struct {
	wall   *model.Wall
	region clip.Region
}

// structureCuts dispatches on the structural kind. Regions are keyed by the
// object's ID so they can be removed again without recomputation.
func (p *Planner) structureCuts(obj model.PlacedObject) []cut {
	if !obj.Structure.CutsWall() {
		return nil
	}
	wall := p.Building.Wall(obj.CurrentWall)
	if wall == nil || wall.IsRoofPlane {
		return nil
	}
	switch obj.Structure {
	case model.StructureDeck:
		return deckCut(nil, wall, obj)
	case model.StructureWrapAround:
		cuts := deckCut(nil, wall, obj)
		if wrap := p.Building.Wall(obj.WrapWall); wrap != nil && wrap != wall {
			cuts = deckCut(cuts, wrap, obj)
		}
		return cuts
	case model.StructureStall:
		u, _ := wall.ToLocal(obj.X, obj.Z)
		h := math.Min(obj.Height, wall.Height)
		outline := geom.ChamferedOutline(u, 0, obj.Width, h, p.capabilities(obj).Chamfer)
		return []cut{{wall: wall, region: clip.Polygon(obj.ID, outline)}}
	}
	return nil
}

// deckCut opens the wall section behind a deck up to the deck's height.
func deckCut(cuts []cut, wall *model.Wall, obj model.PlacedObject) []cut {
	span := engine.OccupiedSpan(wall, obj).Intersect(wall.Span())
	if span.Empty() {
		return cuts
	}
	top := math.Min(obj.Height, wall.Height)
	return append(cuts, cut{wall: wall, region: clip.RectWithHeight(obj.ID, span.Lo, span.Hi, 0, top)})
}

// applyStructure replaces any cuts of obj with ones at its current place.
func (p *Planner) applyStructure(obj model.PlacedObject) {
	p.removeStructure(obj.ID)
	for _, c := range p.structureCuts(obj) {
		c.wall.Clips.Push(c.region)
		p.logger.Debug("clip pushed",
			"wall", c.wall.ID,
			"key", c.region.Key,
			"kind", c.region.Kind.String(),
			"depth", c.wall.Clips.Len())
	}
}

// removeStructure lifts every cut keyed by id.
func (p *Planner) removeStructure(id string) {
	for _, w := range p.Building.Walls {
		if w.Clips == nil || !w.Clips.Has(id) {
			continue
		}
		w.Clips.Remove(id)
		p.logger.Debug("clip removed", "wall", w.ID, "key", id, "depth", w.Clips.Len())
	}
}
