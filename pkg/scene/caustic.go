package scene

import (
	"github.com/df07/go-progressive-photonmapper/pkg/core"
	"github.com/df07/go-progressive-photonmapper/pkg/geometry"
	"github.com/df07/go-progressive-photonmapper/pkg/material"
)

// NewCausticScene creates a glass sphere resting over a diffuse floor, lit by a small sphere light.
// Light focused through the glass forms a caustic that only the photon pass can resolve.
func NewCausticScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	config := geometry.CameraConfig{
		Center:      core.NewVec3(0, 3, 6),
		LookAt:      core.NewVec3(0, 0.8, 0),
		Up:          core.NewVec3(0, 1, 0),
		Width:       400,
		AspectRatio: 16.0 / 9.0,
		VFov:        40.0,
	}

	s := newScene("caustic", config, cameraOverrides)
	s.RecommendedRadius = 0.15

	floor := NewGroundQuad(core.NewVec3(0, 0, 0), 10.0, material.NewLambertian(core.NewVec3(0.8, 0.8, 0.8)))
	backWall := geometry.NewQuad(
		core.NewVec3(-5, 0, -3),
		core.NewVec3(10, 0, 0),
		core.NewVec3(0, 5, 0),
		material.NewLambertian(core.NewVec3(0.4, 0.5, 0.7)),
	)
	glass := geometry.NewSphere(core.NewVec3(0, 1, 0), 1.0, material.NewDielectric(1.5))
	s.Shapes = append(s.Shapes, floor, backWall, glass)

	s.AddSphereLight(core.NewVec3(1.5, 5, 1), 0.4, core.NewVec3(40, 38, 34))

	return s
}
