package integrator

import (
	"github.com/df07/go-progressive-photonmapper/pkg/core"
	"github.com/df07/go-progressive-photonmapper/pkg/geometry"
	"github.com/df07/go-progressive-photonmapper/pkg/photonmap"
	"github.com/df07/go-progressive-photonmapper/pkg/scene"
)

// MaxPathDepth bounds every traced path. Lossless dielectrics never lower the roulette
// survival probability, so a ray trapped by total internal reflection would otherwise bounce forever.
const MaxPathDepth = 512

// BatchResult is the outcome of tracing one photon batch
type BatchResult struct {
	Photons []photonmap.Photon // Stored photons, in trace order
	Emitted int64              // Light paths launched, whether or not they stored anything
	Capped  bool               // The batch stopped at the path cap before reaching its target
}

// LightPathTracer launches photons from the scene lights and records their diffuse hits
type LightPathTracer struct {
	scene             *scene.Scene
	minBounces        int
	maxPathsPerPhoton int
}

// NewLightPathTracer creates a tracer for a preprocessed scene
func NewLightPathTracer(s *scene.Scene, minBounces, maxPathsPerPhoton int) *LightPathTracer {
	return &LightPathTracer{
		scene:             s,
		minBounces:        minBounces,
		maxPathsPerPhoton: maxPathsPerPhoton,
	}
}

// TraceBatch traces light paths until target photons are stored, appending them to buffer.
// A scene without lights returns immediately. Paths are capped at target × maxPathsPerPhoton
// so scenes where light never reaches a diffuse surface still terminate.
func (lt *LightPathTracer) TraceBatch(sampler core.Sampler, target int, buffer []photonmap.Photon) BatchResult {
	result := BatchResult{Photons: buffer}

	lightSampler := lt.scene.LightSampler
	if target <= 0 || lightSampler == nil || lightSampler.Count() == 0 {
		return result
	}

	maxPaths := int64(target) * int64(max(1, lt.maxPathsPerPhoton))
	stored := 0
	for stored < target {
		if result.Emitted >= maxPaths {
			result.Capped = true
			break
		}

		light, selectionPDF, _ := lightSampler.Sample(sampler.Get1D())
		if light == nil {
			break
		}
		emission := light.SampleEmission(sampler, selectionPDF)
		result.Emitted++

		before := len(result.Photons)
		result.Photons = lt.tracePhoton(emission.Ray(), emission.Power, sampler, result.Photons)
		stored += len(result.Photons) - before
	}

	return result
}

// tracePhoton follows one light path, appending a photon at every diffuse hit
func (lt *LightPathTracer) tracePhoton(ray core.Ray, power core.Vec3, sampler core.Sampler, photons []photonmap.Photon) []photonmap.Photon {
	throughput := core.NewVec3(1, 1, 1)

	for depth := 0; depth < MaxPathDepth; depth++ {
		var hit geometry.SurfaceInteraction
		if !lt.scene.Intersect(ray, &hit) || hit.Material == nil {
			break
		}

		if hit.Material.IsDiffuse() {
			photons = append(photons, photonmap.NewPhoton(hit.Point, ray.Direction, power.MultiplyVec(throughput)))
		}

		wo := hit.Frame.ToLocal(ray.Direction.Negate())
		wi, albedo := hit.Material.Sample(wo, sampler.Get2D())
		if albedo.MaxComponent() == 0 {
			break
		}
		throughput = throughput.MultiplyVec(albedo)
		ray = core.NewRay(hit.Point, hit.Frame.ToWorld(wi))

		if depth >= lt.minBounces {
			var survived bool
			if throughput, survived = core.RussianRoulette(throughput, sampler.Get1D()); !survived {
				break
			}
		}
	}

	return photons
}

// BatchShares splits budget into batches near-equal shares; earlier batches take the remainder
func BatchShares(budget, batches int) []int {
	if batches <= 0 || budget <= 0 {
		return nil
	}
	if batches > budget {
		batches = budget
	}

	shares := make([]int, batches)
	base, remainder := budget/batches, budget%batches
	for i := range shares {
		shares[i] = base
		if i < remainder {
			shares[i]++
		}
	}
	return shares
}
