// Package session drives interactive placement: it owns the committed
// objects of a building, runs drags through the placement solver and
// applies the wall cuts of structural attachments on commit.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/piwi3910/ShedCraft/internal/clip"
	"github.com/piwi3910/ShedCraft/internal/engine"
	"github.com/piwi3910/ShedCraft/internal/geom"
	"github.com/piwi3910/ShedCraft/internal/model"
	"github.com/piwi3910/ShedCraft/internal/pick"
)

var (
	ErrUnknownObject = errors.New("unknown object")
	ErrUnknownWall   = errors.New("unknown wall")
	ErrNoActiveDrag  = errors.New("no active drag")
	ErrRejected      = errors.New("placement rejected")
	ErrNotLinear     = errors.New("object is not a linear accessory")
	ErrCannotRotate  = errors.New("object cannot be rotated")
	ErrNotNestable   = errors.New("object cannot be nested in that deck")
)

// Drag is an accessory being dragged. Object is a working copy; the
// registry is only touched on drop.
type Drag struct {
	Object model.PlacedObject
	Mode   pick.DragMode
	Result engine.Result

	original *model.PlacedObject // committed state when moving an existing object
}

// Commit reports what a committing command did.
type Commit struct {
	Object model.PlacedObject
	// Deleted is set when the object itself was too short to keep after
	// collision resolution and has been removed.
	Deleted bool
	// Resized and Removed list linear siblings that yielded space.
	Resized []string
	Removed []string
}

// Planner owns the committed objects of one building.
//
// A Planner is not safe for concurrent use.
type Planner struct {
	Building *model.Building
	Catalog  *model.Catalog
	Settings model.PlacementSettings

	solver     *engine.Solver
	collisions *engine.CollisionResolver
	objects    *orderedmap.OrderedMap[string, model.PlacedObject]
	trims      map[string]*clip.TrimCache
	history    *History
	frames     *FrameBudget
	drag       *Drag
	logger     *slog.Logger
}

// NewPlanner attaches a planner to a building. Trim caches and frame
// requests are subscribed to every wall's clip stack.
func NewPlanner(b *model.Building, catalog *model.Catalog, settings model.PlacementSettings, historyDepth int, logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.Default()
	}
	if catalog == nil {
		catalog = model.DefaultCatalog()
	}
	settings = settings.Normalized()
	p := &Planner{
		Building:   b,
		Catalog:    catalog,
		Settings:   settings,
		solver:     engine.NewSolver(b, catalog, settings, logger),
		collisions: engine.NewCollisionResolver(settings, logger),
		objects:    orderedmap.NewOrderedMap[string, model.PlacedObject](),
		trims:      make(map[string]*clip.TrimCache),
		history:    NewHistory(historyDepth),
		frames:     &FrameBudget{},
		logger:     logger,
	}
	for _, w := range b.Walls {
		w.EnsureClips()
		trim := clip.NewTrimCache(w.ID, settings.TrimWidth, logger)
		trim.Attach(w.Clips)
		p.trims[w.ID] = trim
		w.Clips.OnChange(func(clip.Boundary) { p.frames.Request(p.Settings.FrameBudget) })
	}
	for _, r := range b.Roofs {
		r.EnsureClips()
	}
	return p
}

func (p *Planner) Solver() *engine.Solver { return p.solver }

func (p *Planner) Frames() *FrameBudget { return p.frames }

func (p *Planner) History() *History { return p.history }

// Drag returns the active drag, or nil.
func (p *Planner) Drag() *Drag { return p.drag }

func (p *Planner) Len() int { return p.objects.Len() }

// Objects returns the committed objects in commit order.
func (p *Planner) Objects() []model.PlacedObject {
	out := make([]model.PlacedObject, 0, p.objects.Len())
	for el := p.objects.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value)
	}
	return out
}

func (p *Planner) Object(id string) (model.PlacedObject, bool) {
	return p.objects.Get(id)
}

// Areas returns the current partition of a wall.
func (p *Planner) Areas(wallID string) ([]model.Area, error) {
	w := p.Building.Wall(wallID)
	if w == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownWall, wallID)
	}
	return p.solver.Partitioner().Partition(w, model.ObjectsOnWall(p.Objects(), w.ID, "")), nil
}

// Trim returns the trim pieces of a wall; nil for roof planes.
func (p *Planner) Trim(wallID string) []clip.TrimPiece {
	if t, ok := p.trims[wallID]; ok {
		return t.Pieces()
	}
	return nil
}

// Surfaces returns the pickable set for the active drag.
func (p *Planner) Surfaces() []pick.Surface {
	if p.drag == nil {
		return nil
	}
	return pick.SurfacesFor(p.Building, p.drag.Mode)
}

func (p *Planner) capabilities(obj model.PlacedObject) model.Capabilities {
	caps, _ := p.Catalog.Lookup(obj.Type)
	return caps
}

// BeginDrag starts dragging a new accessory of the given type. An active
// drag is cancelled first.
func (p *Planner) BeginDrag(typ string) (*Drag, error) {
	obj, err := p.Catalog.NewObject(typ)
	if err != nil {
		return nil, fmt.Errorf("failed to begin drag: %w", err)
	}
	p.Cancel()
	p.drag = &Drag{Object: obj, Mode: pick.ModeFor(p.capabilities(obj))}
	p.logger.Debug("drag started", "object", obj.ID, "type", typ, "mode", p.drag.Mode.String())
	return p.drag, nil
}

// BeginMove starts dragging a committed object. Its wall cuts are lifted
// for the duration of the drag so it does not collide with its own opening.
func (p *Planner) BeginMove(id string) (*Drag, error) {
	obj, ok := p.objects.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownObject, id)
	}
	p.Cancel()
	p.removeStructure(id)
	orig := obj
	p.drag = &Drag{Object: obj, Mode: pick.ModeFor(p.capabilities(obj)), original: &orig}
	p.logger.Debug("move started", "object", id, "type", obj.Type)
	return p.drag, nil
}

// DragOver clamps the dragged object against the nearest hit. A rejection
// marks the object PlacementForbidden and keeps the drag alive.
func (p *Planner) DragOver(hits []model.Intersection) (engine.Result, error) {
	d := p.drag
	if d == nil {
		return engine.Result{}, ErrNoActiveDrag
	}
	defer p.frames.Request(p.Settings.FrameBudget)

	hit, ok := pick.Nearest(hits)
	if !ok {
		d.Result = engine.Result{Rejection: engine.RejectNoSurface}
		d.Object.PlacementForbidden = true
		d.Object.CurrentWall = ""
		return d.Result, nil
	}
	res := p.solver.Place(hit, d.Object, p.Settings.Padding, p.Objects())
	d.Result = res
	if res.Wall != nil {
		d.Object.CurrentWall = res.Wall.ID
	}
	d.Object.PlacementForbidden = !res.OK()
	if res.OK() {
		res.Placement.Apply(&d.Object)
	}
	return res, nil
}

// Cancel abandons the active drag. A moved object keeps its committed
// state and gets its wall cuts back.
func (p *Planner) Cancel() {
	d := p.drag
	if d == nil {
		return
	}
	d.Object.PlacementForbidden = false
	d.Object.CurrentWall = ""
	if d.original != nil {
		p.applyStructure(*d.original)
	}
	p.drag = nil
	p.logger.Debug("drag cancelled", "object", d.Object.ID)
}

// Drop commits the active drag at its last accepted placement.
func (p *Planner) Drop() (Commit, error) {
	d := p.drag
	if d == nil {
		return Commit{}, ErrNoActiveDrag
	}
	rej := d.Result.Rejection
	if rej == engine.RejectNone && d.Result.Wall == nil {
		rej = engine.RejectNoSurface
	}
	if rej != engine.RejectNone {
		p.Cancel()
		return Commit{}, fmt.Errorf("%w: %s", ErrRejected, rej)
	}
	p.drag = nil
	label := "Place " + d.Object.Type
	if d.original != nil {
		label = "Move " + d.Object.Type
	}
	return p.commit(d.Object, label), nil
}

// MovePlacedObject relocates a committed object to the placement solved
// for hit. On rejection the object and its cuts are left as they were.
func (p *Planner) MovePlacedObject(id string, hit model.Intersection) (Commit, error) {
	obj, ok := p.objects.Get(id)
	if !ok {
		return Commit{}, fmt.Errorf("%w: %s", ErrUnknownObject, id)
	}
	p.removeStructure(id)
	res := p.solver.Place(hit, obj, p.Settings.Padding, p.Objects())
	if !res.OK() {
		p.applyStructure(obj)
		return Commit{}, fmt.Errorf("%w: %s", ErrRejected, res.Rejection)
	}
	moved := obj
	res.Placement.Apply(&moved)
	return p.commit(moved, "Move "+obj.Type), nil
}

// RemovePlacedObject deletes a committed object and its wall cuts.
func (p *Planner) RemovePlacedObject(id string) error {
	obj, ok := p.objects.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownObject, id)
	}
	p.history.Push(MakeSnapshot(p.Objects(), "Remove "+obj.Type))
	p.deleteObject(id)
	p.frames.Request(p.Settings.FrameBudget)
	p.logger.Info("object removed", "object", id, "type", obj.Type, "wall", obj.CurrentWall)
	return nil
}

// ResizeLinear grows or shrinks a linear accessory from its start end,
// stopping at the wall end or the next obstacle.
func (p *Planner) ResizeLinear(id string, length float64) (Commit, error) {
	obj, ok := p.objects.Get(id)
	if !ok {
		return Commit{}, fmt.Errorf("%w: %s", ErrUnknownObject, id)
	}
	if !obj.IsLinear {
		return Commit{}, fmt.Errorf("%w: %s", ErrNotLinear, id)
	}
	wall := p.Building.Wall(obj.CurrentWall)
	if wall == nil {
		return Commit{}, fmt.Errorf("%w: %s", ErrUnknownWall, obj.CurrentWall)
	}
	p.history.Push(MakeSnapshot(p.Objects(), "Resize "+obj.Type))
	r := p.collisions.Grow(wall, obj, length, p.Objects())
	p.frames.Request(p.Settings.FrameBudget)
	if r.Outcome == engine.OutcomeRemove {
		p.deleteObject(id)
		p.logger.Info("object removed", "object", id, "type", obj.Type, "reason", "too short")
		return Commit{Object: obj, Deleted: true}, nil
	}
	r.Apply(&obj)
	p.objects.Set(id, obj)
	p.logger.Info("object resized", "object", id, "length", obj.Width)
	return Commit{Object: obj}, nil
}

// RotatePlacedObject turns a rotatable accessory end for end. A linear
// accessory then grows from its other end and is resolved again against
// its neighbours.
func (p *Planner) RotatePlacedObject(id string) (Commit, error) {
	obj, ok := p.objects.Get(id)
	if !ok {
		return Commit{}, fmt.Errorf("%w: %s", ErrUnknownObject, id)
	}
	if !p.capabilities(obj).CanRotate {
		return Commit{}, fmt.Errorf("%w: %s", ErrCannotRotate, id)
	}
	wall := p.Building.Wall(obj.CurrentWall)
	if wall == nil {
		return Commit{}, fmt.Errorf("%w: %s", ErrUnknownWall, obj.CurrentWall)
	}
	p.history.Push(MakeSnapshot(p.Objects(), "Rotate "+obj.Type))
	defer p.frames.Request(p.Settings.FrameBudget)

	obj.Rotation = geom.NormalizeAngle(obj.Rotation + math.Pi)
	if obj.ParentDeck != "" {
		obj.ParentAngle = geom.NormalizeAngle(obj.ParentAngle + math.Pi)
	}
	if obj.IsLinear {
		r := p.collisions.Resolve(wall, obj, p.Objects())
		if r.Outcome == engine.OutcomeRemove {
			p.deleteObject(id)
			p.logger.Info("object removed", "object", id, "type", obj.Type, "reason", "no room")
			return Commit{Object: obj, Deleted: true}, nil
		}
		r.Apply(&obj)
	}
	p.objects.Set(id, obj)
	p.logger.Info("object rotated", "object", id, "rotation", obj.Rotation)
	return Commit{Object: obj}, nil
}

// NestInDeck attaches an accessory to a deck on the same wall, or on the
// wall a wrap-around porch continues onto, so it faces the way the deck
// does. An empty deckID detaches it again.
func (p *Planner) NestInDeck(id, deckID string) (Commit, error) {
	obj, ok := p.objects.Get(id)
	if !ok {
		return Commit{}, fmt.Errorf("%w: %s", ErrUnknownObject, id)
	}
	wall := p.Building.Wall(obj.CurrentWall)
	if wall == nil {
		return Commit{}, fmt.Errorf("%w: %s", ErrUnknownWall, obj.CurrentWall)
	}
	if deckID == "" {
		p.history.Push(MakeSnapshot(p.Objects(), "Detach "+obj.Type))
		obj = detach(obj, wall)
		p.objects.Set(id, obj)
		return Commit{Object: obj}, nil
	}
	deck, ok := p.objects.Get(deckID)
	if !ok {
		return Commit{}, fmt.Errorf("%w: %s", ErrUnknownObject, deckID)
	}
	if !deck.IsDeck || obj.IsDeck || (obj.CurrentWall != deck.CurrentWall && obj.CurrentWall != deck.WrapWall) {
		return Commit{}, fmt.Errorf("%w: %s in %s", ErrNotNestable, id, deckID)
	}
	p.history.Push(MakeSnapshot(p.Objects(), "Nest "+obj.Type))
	obj.ParentDeck = deck.ID
	obj.ParentAngle = geom.NormalizeAngle(deck.Rotation - wall.Angle)
	obj.Rotation = engine.Rotation(wall, obj)
	p.objects.Set(id, obj)
	p.logger.Info("object nested", "object", id, "deck", deckID, "rotation", obj.Rotation)
	return Commit{Object: obj}, nil
}

func detach(o model.PlacedObject, wall *model.Wall) model.PlacedObject {
	o.ParentDeck, o.ParentAngle = "", 0
	if wall != nil {
		o.Rotation = wall.Angle
	}
	return o
}

// commit stores obj, applies its wall cuts and lets linear accessories on
// the affected walls yield space. A new linear accessory with no room is
// dropped without an undo step.
func (p *Planner) commit(obj model.PlacedObject, label string) Commit {
	defer p.frames.Request(p.Settings.FrameBudget)

	obj.PlacementForbidden = false
	wall := p.Building.Wall(obj.CurrentWall)
	if obj.IsLinear && wall != nil {
		r := p.collisions.Resolve(wall, obj, p.Objects())
		if r.Outcome == engine.OutcomeRemove {
			if _, ok := p.objects.Get(obj.ID); ok {
				p.history.Push(MakeSnapshot(p.Objects(), label))
				p.deleteObject(obj.ID)
			}
			p.logger.Info("object removed", "object", obj.ID, "type", obj.Type, "reason", "no room")
			return Commit{Object: obj, Deleted: true}
		}
		r.Apply(&obj)
	}
	if obj.Structure != model.StructureWrapAround {
		obj.WrapWall = ""
	}
	p.history.Push(MakeSnapshot(p.Objects(), label))

	p.objects.Set(obj.ID, obj)
	p.applyStructure(obj)

	c := Commit{Object: obj}
	for _, wallID := range []string{obj.CurrentWall, obj.WrapWall} {
		if w := p.Building.Wall(wallID); w != nil {
			p.yield(w, obj.ID, &c)
		}
	}
	p.logger.Info("object committed",
		"object", obj.ID,
		"type", obj.Type,
		"wall", obj.CurrentWall,
		"x", obj.X,
		"z", obj.Z)
	return c
}

// yield resolves every linear accessory on wall, other than except,
// against the rest of the wall.
func (p *Planner) yield(wall *model.Wall, except string, c *Commit) {
	for _, s := range model.ObjectsOnWall(p.Objects(), wall.ID, except) {
		if !s.IsLinear {
			continue
		}
		r := p.collisions.Resolve(wall, s, p.Objects())
		switch r.Outcome {
		case engine.OutcomeRemove:
			p.deleteObject(s.ID)
			c.Removed = append(c.Removed, s.ID)
			p.logger.Info("object removed", "object", s.ID, "type", s.Type, "reason", "displaced")
		case engine.OutcomeResized:
			r.Apply(&s)
			p.objects.Set(s.ID, s)
			c.Resized = append(c.Resized, s.ID)
		}
	}
}

// deleteObject removes id and its cuts. Accessories nested in it are
// detached and face their wall again.
func (p *Planner) deleteObject(id string) {
	p.removeStructure(id)
	p.objects.Delete(id)
	for _, o := range p.Objects() {
		if o.ParentDeck == id {
			p.objects.Set(o.ID, detach(o, p.Building.Wall(o.CurrentWall)))
		}
	}
}

// Undo restores the objects before the last committing command.
func (p *Planner) Undo() bool {
	snap, ok := p.history.Undo(MakeSnapshot(p.Objects(), "current"))
	if !ok {
		return false
	}
	p.restore(snap.Objects)
	p.logger.Info("undo", "label", snap.Label, "objects", len(snap.Objects))
	return true
}

func (p *Planner) Redo() bool {
	snap, ok := p.history.Redo(MakeSnapshot(p.Objects(), "current"))
	if !ok {
		return false
	}
	p.restore(snap.Objects)
	p.logger.Info("redo", "objects", len(snap.Objects))
	return true
}

// restore replaces the registry and replays the wall cuts in commit order.
func (p *Planner) restore(objects []model.PlacedObject) {
	p.Cancel()
	for el := p.objects.Front(); el != nil; el = el.Next() {
		p.removeStructure(el.Key)
	}
	p.objects = orderedmap.NewOrderedMap[string, model.PlacedObject]()
	for _, o := range objects {
		p.objects.Set(o.ID, o)
		p.applyStructure(o)
	}
	p.frames.Request(p.Settings.FrameBudget)
}

// Load replaces the committed objects, typically from a saved scene.
// Objects without a wall reference are re-attached from their coordinates.
// History is cleared.
func (p *Planner) Load(objects []model.PlacedObject) error {
	resolved := make([]model.PlacedObject, 0, len(objects))
	for _, o := range objects {
		if o.ID == "" {
			return fmt.Errorf("object of type %q has no id", o.Type)
		}
		if o.CurrentWall == "" && !o.IsPlanItem {
			var w *model.Wall
			if o.IsRoofObject {
				w = model.FindRoofPlane(p.Building.Roofs, o.X, o.Y, o.Z, o.Rotation)
			} else {
				w = model.FindWall(p.Building.Walls, o.X, o.Z, o.Rotation)
			}
			if w == nil {
				return fmt.Errorf("object %s: %w at (%.1f, %.1f)", o.ID, ErrUnknownWall, o.X, o.Z)
			}
			o.CurrentWall = w.ID
		}
		if o.CurrentWall != "" && p.Building.Wall(o.CurrentWall) == nil {
			return fmt.Errorf("object %s: %w: %s", o.ID, ErrUnknownWall, o.CurrentWall)
		}
		if o.Structure == model.StructureWrapAround && o.WrapWall == "" {
			if w := p.Building.Wall(o.CurrentWall); w != nil {
				u, _ := w.ToLocal(o.X, o.Z)
				if n := model.WrapNeighbour(p.Building.Walls, w, u); n != nil {
					o.WrapWall = n.ID
				}
			}
		}
		resolved = append(resolved, o)
	}
	p.restore(resolved)
	p.history.Clear()
	p.logger.Info("scene loaded", "objects", len(resolved))
	return nil
}
