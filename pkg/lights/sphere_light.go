package lights

import (
	"math"

	"github.com/df07/go-progressive-photonmapper/pkg/core"
	"github.com/df07/go-progressive-photonmapper/pkg/geometry"
)

// SphereLight is a spherical area light emitting outwards
type SphereLight struct {
	*geometry.Sphere
	Emission core.Vec3
}

// NewSphereLight creates a new sphere light
func NewSphereLight(center core.Vec3, radius float64, emission core.Vec3) *SphereLight {
	sphere := geometry.NewSphere(center, radius, surfaceMaterial)
	light := &SphereLight{Sphere: sphere, Emission: emission}
	sphere.Emitter = light
	return light
}

func (sl *SphereLight) Type() LightType {
	return LightTypeSphere
}

// Shape returns the sphere hit by rays
func (sl *SphereLight) Shape() geometry.Shape {
	return sl.Sphere
}

// Radiance returns the emitted radiance seen from origin
func (sl *SphereLight) Radiance(origin, point, normal core.Vec3) core.Vec3 {
	return frontSideRadiance(sl.Emission, origin, point, normal)
}

// Power returns L·π·A
func (sl *SphereLight) Power() core.Vec3 {
	return sl.Emission.Multiply(math.Pi * sl.Area())
}

// SampleEmission picks a uniform point on the sphere and a cosine-weighted outward direction
func (sl *SphereLight) SampleEmission(sampler core.Sampler, selectionPDF float64) EmissionSample {
	normal := core.SampleOnUnitSphere(sampler.Get2D())
	point := sl.Center.Add(normal.Multiply(sl.Radius))
	return sampleAreaEmission(point, normal, sl.Emission, sl.Area(), sampler, selectionPDF)
}
