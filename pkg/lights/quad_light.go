package lights

import (
	"math"

	"github.com/df07/go-progressive-photonmapper/pkg/core"
	"github.com/df07/go-progressive-photonmapper/pkg/geometry"
)

// QuadLight represents a rectangular area light emitting from the side its normal points to
type QuadLight struct {
	*geometry.Quad           // Embed quad for hit testing
	Emission       core.Vec3 // Emitted radiance
}

// NewQuadLight creates a new quad light. The emitting side is U × V.
func NewQuadLight(corner, u, v core.Vec3, emission core.Vec3) *QuadLight {
	quad := geometry.NewQuad(corner, u, v, surfaceMaterial)
	light := &QuadLight{
		Quad:     quad,
		Emission: emission,
	}
	quad.Emitter = light
	return light
}

func (ql *QuadLight) Type() LightType {
	return LightTypeQuad
}

// Shape returns the quad hit by rays
func (ql *QuadLight) Shape() geometry.Shape {
	return ql.Quad
}

// Radiance returns the emitted radiance seen from origin
func (ql *QuadLight) Radiance(origin, point, normal core.Vec3) core.Vec3 {
	return frontSideRadiance(ql.Emission, origin, point, normal)
}

// Power returns L·π·A
func (ql *QuadLight) Power() core.Vec3 {
	return ql.Emission.Multiply(math.Pi * ql.Area())
}

// SampleEmission picks a uniform point on the quad and a cosine-weighted direction
func (ql *QuadLight) SampleEmission(sampler core.Sampler, selectionPDF float64) EmissionSample {
	uv := sampler.Get2D()
	return sampleAreaEmission(ql.PointAt(uv.X, uv.Y), ql.Normal, ql.Emission, ql.Area(), sampler, selectionPDF)
}
