package scene

import (
	"github.com/df07/go-progressive-photonmapper/pkg/core"
	"github.com/df07/go-progressive-photonmapper/pkg/geometry"
	"github.com/df07/go-progressive-photonmapper/pkg/material"
)

// NewGroundScene creates a single diffuse ground plane lit by a quad light directly above it
func NewGroundScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	config := geometry.CameraConfig{
		Center:      core.NewVec3(0, 3, 3),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		Width:       320,
		AspectRatio: 4.0 / 3.0,
		VFov:        50.0,
	}

	s := newScene("ground", config, cameraOverrides)
	s.RecommendedRadius = 0.1

	s.Shapes = append(s.Shapes, NewGroundQuad(core.NewVec3(0, 0, 0), 4.0, material.NewLambertian(core.NewVec3(0.7, 0.7, 0.7))))

	// 1x1 light two units above the origin, facing down
	s.AddQuadLight(
		core.NewVec3(-0.5, 2, -0.5),
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, 0, 1),
		core.NewVec3(10, 10, 10),
	)

	return s
}
