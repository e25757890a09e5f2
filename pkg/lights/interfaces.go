package lights

import (
	"math"

	"github.com/df07/go-progressive-photonmapper/pkg/core"
	"github.com/df07/go-progressive-photonmapper/pkg/geometry"
	"github.com/df07/go-progressive-photonmapper/pkg/material"
)

type LightType string

const (
	LightTypeQuad   LightType = "quad"
	LightTypeSphere LightType = "sphere"
)

// Light is an emitting surface that photons can be launched from
type Light interface {
	geometry.Emitter

	Type() LightType

	// SampleEmission samples an emission event on the light surface.
	// selectionPDF is the probability with which this light was picked; the
	// returned power is already divided by it.
	SampleEmission(sampler core.Sampler, selectionPDF float64) EmissionSample

	// Power returns the total flux leaving the light
	Power() core.Vec3

	// Shape returns the geometry that makes the light visible to rays
	Shape() geometry.Shape
}

// EmissionSample contains a sampled photon emission event
type EmissionSample struct {
	Origin    core.Vec3 // Point on the light surface
	Normal    core.Vec3 // Outward surface normal at Origin
	Direction core.Vec3 // Emission direction FROM the surface (cosine-weighted)
	Power     core.Vec3 // Photon power
}

// Ray returns the ray the photon travels along
func (e EmissionSample) Ray() core.Ray {
	return core.NewRay(e.Origin, e.Direction)
}

// surfaceMaterial is the material light surfaces expose to the integrators.
// Lights are diffuse and absorb everything that hits them.
var surfaceMaterial = material.NewLambertian(core.Vec3{})

// frontSideRadiance returns emission if origin lies on the emitting side of the surface
func frontSideRadiance(emission, origin, point, normal core.Vec3) core.Vec3 {
	if origin.Subtract(point).Dot(normal) <= 0 {
		return core.Vec3{}
	}
	return emission
}

// sampleAreaEmission launches a cosine-distributed photon from a point on a diffuse area emitter
func sampleAreaEmission(point, normal, emission core.Vec3, area float64, sampler core.Sampler, selectionPDF float64) EmissionSample {
	local := core.SampleCosineHemisphere(sampler.Get2D())
	direction := core.NewFrame(normal).ToWorld(local).Normalize()

	// L·cosθ / (pdfArea · pdfDir) with pdfArea = 1/A and pdfDir = cosθ/π
	power := emission.Multiply(math.Pi * area / selectionPDF)

	return EmissionSample{
		Origin:    point,
		Normal:    normal,
		Direction: direction,
		Power:     power,
	}
}
