package integrator

import (
	"github.com/df07/go-progressive-photonmapper/pkg/core"
	"github.com/df07/go-progressive-photonmapper/pkg/geometry"
	"github.com/df07/go-progressive-photonmapper/pkg/scene"
)

// Viewpoint is the terminal vertex of an eye path: an emitter or a diffuse surface
type Viewpoint struct {
	Hit        geometry.SurfaceInteraction
	Outgoing   core.Vec3 // World direction back toward the camera
	Throughput core.Vec3 // Product of the specular albedos along the path
	Emitted    core.Vec3 // Radiance seen on an emitter, zero otherwise
	IsEmitter  bool
}

// Direct returns the emitted contribution of the viewpoint
func (v Viewpoint) Direct() core.Vec3 {
	return v.Emitted.MultiplyVec(v.Throughput)
}

// EyePathTracer follows camera rays through specular surfaces to their first diffuse or emitting hit
type EyePathTracer struct {
	scene      *scene.Scene
	minBounces int
}

// NewEyePathTracer creates an eye path tracer for a preprocessed scene
func NewEyePathTracer(s *scene.Scene, minBounces int) *EyePathTracer {
	return &EyePathTracer{scene: s, minBounces: minBounces}
}

// Collect traces the camera ray through pixelSample (image coordinates, y down).
// It returns false when the path escapes the scene or is absorbed before reaching a recordable surface.
func (et *EyePathTracer) Collect(sampler core.Sampler, pixelSample core.Vec2) (Viewpoint, bool) {
	ray := et.scene.Camera.GetRay(pixelSample)
	throughput := core.NewVec3(1, 1, 1)

	for depth := 0; depth < MaxPathDepth; depth++ {
		var hit geometry.SurfaceInteraction
		if !et.scene.Intersect(ray, &hit) {
			return Viewpoint{}, false
		}

		if hit.IsEmitter() {
			return Viewpoint{
				Hit:        hit,
				Outgoing:   ray.Direction.Negate(),
				Throughput: throughput,
				Emitted:    hit.Emitter.Radiance(ray.Origin, hit.Point, hit.Normal),
				IsEmitter:  true,
			}, true
		}

		if hit.Material == nil {
			return Viewpoint{}, false
		}
		if hit.Material.IsDiffuse() {
			return Viewpoint{
				Hit:        hit,
				Outgoing:   ray.Direction.Negate(),
				Throughput: throughput,
			}, true
		}

		// Specular: follow the sampled direction
		wo := hit.Frame.ToLocal(ray.Direction.Negate())
		wi, albedo := hit.Material.Sample(wo, sampler.Get2D())
		if albedo.MaxComponent() == 0 {
			return Viewpoint{}, false
		}
		throughput = throughput.MultiplyVec(albedo)
		ray = core.NewRay(hit.Point, hit.Frame.ToWorld(wi))

		if depth >= et.minBounces {
			var survived bool
			if throughput, survived = core.RussianRoulette(throughput, sampler.Get1D()); !survived {
				return Viewpoint{}, false
			}
		}
	}

	return Viewpoint{}, false
}
