package pick

import (
	"log/slog"
	"sort"

	"github.com/piwi3910/ShedCraft/internal/model"
)

const defaultMaxDistance = 20000.0

// Touch is one contact point of a touch event, in client coordinates.
type Touch struct {
	X, Y float64
}

// PointerEvent is a mouse or touch event. When Touches is non-empty the
// first touch point is used and X, Y are ignored.
type PointerEvent struct {
	X, Y    float64
	Touches []Touch
}

// Position returns the client position the event refers to.
func (e PointerEvent) Position() (x, y float64) {
	if len(e.Touches) > 0 {
		return e.Touches[0].X, e.Touches[0].Y
	}
	return e.X, e.Y
}

// Resolver casts pointer rays from a camera into the scene.
type Resolver struct {
	Camera   Camera
	Viewport Viewport
	// MaxDistance is the length of the traced segment; 0 uses Camera.Far.
	MaxDistance float64

	logger *slog.Logger
}

func NewResolver(cam Camera, vp Viewport, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{Camera: cam, Viewport: vp, logger: logger}
}

// Ray returns the world ray under the pointer. ok is false when the
// viewport has no area.
func (r *Resolver) Ray(ev PointerEvent) (Ray, bool) {
	x, y := ev.Position()
	nx, ny, ok := r.Viewport.NDC(x, y)
	if !ok {
		return Ray{}, false
	}
	return r.Camera.RayAt(r.Viewport, nx, ny), true
}

// Resolve returns the intersections of the pointer ray with the candidate
// surfaces, nearest first. An empty result means nothing was hit.
func (r *Resolver) Resolve(candidates []Surface, ev PointerEvent) []model.Intersection {
	ray, ok := r.Ray(ev)
	if !ok {
		r.logger.Debug("pointer ignored, empty viewport")
		return nil
	}
	return r.Cast(candidates, ray)
}

// Cast intersects an explicit ray with the candidates, nearest first.
func (r *Resolver) Cast(candidates []Surface, ray Ray) []model.Intersection {
	maxDist := r.MaxDistance
	if maxDist <= 0 {
		maxDist = r.Camera.Far
	}
	if maxDist <= 0 {
		maxDist = defaultMaxDistance
	}
	var hits []model.Intersection
	for _, s := range candidates {
		if hit, ok := s.Intersect(ray, maxDist); ok {
			hits = append(hits, hit)
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits
}

// Nearest returns the closest hit, if any.
func Nearest(hits []model.Intersection) (model.Intersection, bool) {
	if len(hits) == 0 {
		return model.Intersection{}, false
	}
	return hits[0], true
}
