package material

import (
	"math"

	"github.com/df07/go-progressive-photonmapper/pkg/core"
)

// Lambertian represents a perfectly diffuse, two-sided material
type Lambertian struct {
	Albedo core.Vec3 // Base color/reflectance
}

// NewLambertian creates a new lambertian material
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Albedo: albedo}
}

// Sample draws a cosine-weighted direction on the side of the surface wo lies on
func (l *Lambertian) Sample(wo core.Vec3, sample core.Vec2) (core.Vec3, core.Vec3) {
	if wo.Z == 0 {
		return core.Vec3{}, core.Vec3{}
	}

	wi := core.SampleCosineHemisphere(sample)
	if wo.Z < 0 {
		wi.Z = -wi.Z
	}

	// BRDF·cos/pdf = (albedo/π)·cosθ / (cosθ/π) = albedo
	return wi, l.Albedo
}

// Evaluate returns albedo/π when both directions lie on the same side of the surface
func (l *Lambertian) Evaluate(wi, wo core.Vec3) core.Vec3 {
	if !sameHemisphere(wi, wo) {
		return core.Vec3{}
	}
	return l.Albedo.Multiply(1.0 / math.Pi)
}

// IsDiffuse is always true for lambertian surfaces
func (l *Lambertian) IsDiffuse() bool {
	return true
}
