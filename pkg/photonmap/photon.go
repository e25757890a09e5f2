package photonmap

import "github.com/df07/go-progressive-photonmapper/pkg/core"

// Photon is a unit of light energy deposited on a diffuse surface
type Photon struct {
	Position  core.Vec3 // Hit point
	Direction core.Vec3 // Direction the light arrived from (reverse of the travel direction)
	Power     core.Vec3 // Carried power, never negative
}

// NewPhoton creates a photon at position that travelled along travelDir
func NewPhoton(position, travelDir, power core.Vec3) Photon {
	return Photon{
		Position:  position,
		Direction: travelDir.Negate(),
		Power:     power,
	}
}
