package material

import (
	"github.com/df07/go-progressive-photonmapper/pkg/core"
)

// Metal represents a metallic material with specular reflection
type Metal struct {
	Albedo   core.Vec3 // Metal color
	Fuzzness float64   // 0.0 = perfect mirror, 1.0 = very fuzzy
}

// NewMetal creates a new metal material
func NewMetal(albedo core.Vec3, fuzzness float64) *Metal {
	return &Metal{Albedo: albedo, Fuzzness: max(0.0, min(1.0, fuzzness))}
}

// NewMirror creates a perfect mirror
func NewMirror(albedo core.Vec3) *Metal {
	return NewMetal(albedo, 0)
}

// Sample reflects wo about the normal, perturbed by the fuzz radius
func (m *Metal) Sample(wo core.Vec3, sample core.Vec2) (core.Vec3, core.Vec3) {
	wi := reflectLocal(wo)
	if m.Fuzzness > 0 {
		wi = wi.Add(core.SampleOnUnitSphere(sample).Multiply(m.Fuzzness)).Normalize()
	}

	// Fuzzed directions that dip below the surface are absorbed
	if !sameHemisphere(wi, wo) {
		return core.Vec3{}, core.Vec3{}
	}
	return wi, m.Albedo
}

// Evaluate is zero: reflection is a delta distribution
func (m *Metal) Evaluate(wi, wo core.Vec3) core.Vec3 {
	return core.Vec3{}
}

// IsDiffuse is false; metal surfaces never hold photons
func (m *Metal) IsDiffuse() bool {
	return false
}
