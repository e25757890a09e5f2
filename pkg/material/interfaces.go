package material

import (
	"github.com/df07/go-progressive-photonmapper/pkg/core"
)

// Material is the scattering capability of a surface. All directions are expressed in the
// local shading frame of the hit (Z is the outward geometric normal) and point away from the surface.
type Material interface {
	// Sample draws an incident direction wi for the outgoing direction wo.
	// The returned albedo is the sampling weight f·|cosθ|/pdf; a zero albedo means the path is absorbed.
	Sample(wo core.Vec3, sample core.Vec2) (wi core.Vec3, albedo core.Vec3)

	// Evaluate returns the BSDF value for a pair of directions.
	// Delta (specular) materials always return zero.
	Evaluate(wi, wo core.Vec3) core.Vec3

	// IsDiffuse reports whether photons are stored on and gathered at this surface
	IsDiffuse() bool
}

// reflectLocal mirrors a local direction about the normal
func reflectLocal(wo core.Vec3) core.Vec3 {
	return core.NewVec3(-wo.X, -wo.Y, wo.Z)
}

func sameHemisphere(a, b core.Vec3) bool {
	return a.Z*b.Z > 0
}
