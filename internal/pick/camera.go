// Package pick turns pointer input into ranked surface hits. The camera
// unprojects the pointer into a world ray, and every pickable surface is a
// thin box in its own local frame that the ray is traced against.
package pick

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Viewport is the on-screen rectangle the scene is rendered into, in the
// same client coordinates as pointer events.
type Viewport struct {
	Left, Top     float64
	Width, Height float64
}

// NDC converts a client position to normalised device coordinates. Y is
// flipped so +1 is the top edge. ok is false for a degenerate viewport.
func (v Viewport) NDC(x, y float64) (nx, ny float64, ok bool) {
	if v.Width <= 0 || v.Height <= 0 {
		return 0, 0, false
	}
	nx = (x-v.Left)/v.Width*2 - 1
	ny = -(y-v.Top)/v.Height*2 + 1
	return nx, ny, true
}

// Camera is a perspective camera in world space (cm, Y up).
type Camera struct {
	Eye    mgl64.Vec3
	Target mgl64.Vec3
	Up     mgl64.Vec3
	FovY   float64 // radians
	Near   float64
	Far    float64
}

// NewCamera returns a 45° camera at eye looking at target.
func NewCamera(eye, target mgl64.Vec3) Camera {
	return Camera{
		Eye:    eye,
		Target: target,
		Up:     mgl64.Vec3{0, 1, 0},
		FovY:   mgl64.DegToRad(45),
		Near:   1,
		Far:    20000,
	}
}

// ViewProjection returns projection * view for the given viewport.
func (c Camera) ViewProjection(vp Viewport) mgl64.Mat4 {
	aspect := 1.0
	if vp.Height > 0 {
		aspect = vp.Width / vp.Height
	}
	proj := mgl64.Perspective(c.FovY, aspect, c.Near, c.Far)
	view := mgl64.LookAtV(c.Eye, c.Target, c.Up)
	return proj.Mul4(view)
}

// Ray is a half-line in world space. Dir is unit length.
type Ray struct {
	Origin mgl64.Vec3
	Dir    mgl64.Vec3
}

// At returns the point t units along the ray.
func (r Ray) At(t float64) mgl64.Vec3 { return r.Origin.Add(r.Dir.Mul(t)) }

// RayAt unprojects an NDC position through the near and far planes.
func (c Camera) RayAt(vp Viewport, nx, ny float64) Ray {
	inv := c.ViewProjection(vp).Inv()
	near := unproject(inv, nx, ny, -1)
	far := unproject(inv, nx, ny, 1)
	return Ray{Origin: near, Dir: far.Sub(near).Normalize()}
}

func unproject(inv mgl64.Mat4, nx, ny, nz float64) mgl64.Vec3 {
	p := inv.Mul4x1(mgl64.Vec4{nx, ny, nz, 1})
	return p.Vec3().Mul(1 / p.W())
}
