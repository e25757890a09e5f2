package scene

import (
	"math"

	"github.com/df07/go-progressive-photonmapper/pkg/core"
	"github.com/df07/go-progressive-photonmapper/pkg/geometry"
	"github.com/df07/go-progressive-photonmapper/pkg/lights"
	"github.com/df07/go-progressive-photonmapper/pkg/material"
)

// RayEpsilon is the minimum hit distance, keeping secondary rays off their own surface
const RayEpsilon = 0.001

// Scene contains all the elements needed for rendering
type Scene struct {
	Name              string
	Camera            *geometry.Camera
	CameraConfig      geometry.CameraConfig
	Shapes            []geometry.Shape    // Objects in the scene, light surfaces included
	Lights            []lights.Light      // Emitters in the scene
	LightSampler      lights.LightSampler // Emitter selection, set by Preprocess
	BVH               *geometry.BVH       // Acceleration structure for ray-object intersection
	RecommendedRadius float64             // Initial photon search radius suited to the scene scale
}

// NewGroundQuad creates a horizontal quad centered at the given point with normal pointing up (0,1,0)
func NewGroundQuad(center core.Vec3, size float64, material material.Material) *geometry.Quad {
	corner := core.NewVec3(center.X-size/2, center.Y, center.Z-size/2)
	// u × v = (0,0,size) × (size,0,0) = (0,size²,0)
	u := core.NewVec3(0, 0, size)
	v := core.NewVec3(size, 0, 0)
	return geometry.NewQuad(corner, u, v, material)
}

// Preprocess builds the BVH and the emitter sampler for the given selection strategy
func (s *Scene) Preprocess(selection lights.Selection) error {
	s.BVH = geometry.NewBVH(s.Shapes)

	sampler, err := lights.NewLightSampler(selection, s.Lights)
	if err != nil {
		return err
	}
	s.LightSampler = sampler
	return nil
}

// Intersect finds the nearest surface hit along ray
func (s *Scene) Intersect(ray core.Ray, hit *geometry.SurfaceInteraction) bool {
	if s.BVH == nil {
		return false
	}
	return s.BVH.Hit(ray, RayEpsilon, math.Inf(1), hit)
}

// Width returns the image width in pixels
func (s *Scene) Width() int {
	return s.Camera.Width()
}

// Height returns the image height in pixels
func (s *Scene) Height() int {
	return s.Camera.Height()
}

// AddSphereLight adds a spherical light to the scene
func (s *Scene) AddSphereLight(center core.Vec3, radius float64, emission core.Vec3) *lights.SphereLight {
	sphereLight := lights.NewSphereLight(center, radius, emission)
	s.Lights = append(s.Lights, sphereLight)
	s.Shapes = append(s.Shapes, sphereLight.Shape())
	return sphereLight
}

// AddQuadLight adds a rectangular area light to the scene, emitting towards u × v
func (s *Scene) AddQuadLight(corner, u, v core.Vec3, emission core.Vec3) *lights.QuadLight {
	quadLight := lights.NewQuadLight(corner, u, v, emission)
	s.Lights = append(s.Lights, quadLight)
	s.Shapes = append(s.Shapes, quadLight.Shape())
	return quadLight
}

// newScene creates an empty scene for the given camera configuration
func newScene(name string, cameraConfig geometry.CameraConfig, cameraOverrides []geometry.CameraConfig) *Scene {
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(cameraConfig, cameraOverrides[0])
	}

	return &Scene{
		Name:         name,
		Camera:       geometry.NewCamera(cameraConfig),
		CameraConfig: cameraConfig,
		Shapes:       make([]geometry.Shape, 0),
		Lights:       make([]lights.Light, 0),
	}
}
