package geometry

import (
	"github.com/df07/go-progressive-photonmapper/pkg/core"
	"github.com/df07/go-progressive-photonmapper/pkg/material"
)

// Emitter is implemented by light sources attached to a surface
type Emitter interface {
	// Radiance returns the radiance leaving point (with outward normal) toward origin
	Radiance(origin, point, normal core.Vec3) core.Vec3
}

// SurfaceInteraction contains information about a ray-object intersection
type SurfaceInteraction struct {
	Point     core.Vec3         // Point of intersection
	Normal    core.Vec3         // Outward geometric normal
	Frame     core.Frame        // Shading frame built around Normal
	T         float64           // Parameter t along the ray
	FrontFace bool              // Whether ray hit the front face
	Material  material.Material // Material of the hit object
	Emitter   Emitter           // Light attached to the surface, nil for non-emitters
}

// IsEmitter reports whether the hit surface emits light
func (h *SurfaceInteraction) IsEmitter() bool {
	return h.Emitter != nil
}

// setNormal records the outward normal, its frame and which side the ray arrived from
func (h *SurfaceInteraction) setNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	h.Normal = outwardNormal
	h.Frame = core.NewFrame(outwardNormal)
}

// Shape interface for objects that can be hit by rays
type Shape interface {
	// Hit fills hit and returns true for the nearest intersection in (tMin, tMax)
	Hit(ray core.Ray, tMin, tMax float64, hit *SurfaceInteraction) bool
	BoundingBox() core.AABB
}
