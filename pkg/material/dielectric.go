package material

import (
	"math"

	"github.com/df07/go-progressive-photonmapper/pkg/core"
)

// Dielectric represents a transparent material like glass that can both reflect and refract
type Dielectric struct {
	RefractiveIndex float64 // Index of refraction (e.g., 1.5 for glass)
}

// NewDielectric creates a new dielectric material
func NewDielectric(refractiveIndex float64) *Dielectric {
	return &Dielectric{RefractiveIndex: refractiveIndex}
}

// Sample chooses between reflection and refraction using sample.X against the Fresnel term.
// A positive wo.Z means the path arrives from outside the medium.
func (d *Dielectric) Sample(wo core.Vec3, sample core.Vec2) (core.Vec3, core.Vec3) {
	cosTheta := wo.Z
	refractionRatio := 1.0 / d.RefractiveIndex
	if cosTheta < 0 {
		refractionRatio = d.RefractiveIndex
	}

	absCos := math.Min(math.Abs(cosTheta), 1.0)
	sin2Theta := refractionRatio * refractionRatio * (1.0 - absCos*absCos)

	// Clear glass does not tint
	attenuation := core.NewVec3(1, 1, 1)

	if sin2Theta > 1.0 || Reflectance(absCos, refractionRatio) > sample.X {
		return reflectLocal(wo), attenuation
	}

	cosThetaT := math.Sqrt(1.0 - sin2Theta)
	wi := core.NewVec3(-refractionRatio*wo.X, -refractionRatio*wo.Y, -math.Copysign(cosThetaT, cosTheta))
	return wi, attenuation
}

// Evaluate is zero: both lobes are delta distributions
func (d *Dielectric) Evaluate(wi, wo core.Vec3) core.Vec3 {
	return core.Vec3{}
}

// IsDiffuse is false for glass
func (d *Dielectric) IsDiffuse() bool {
	return false
}

// Reflectance calculates the Fresnel reflectance using Schlick's approximation
func Reflectance(cosine, refractionRatio float64) float64 {
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
