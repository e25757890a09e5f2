package integrator

import (
	"math"

	"github.com/df07/go-progressive-photonmapper/pkg/core"
	"github.com/df07/go-progressive-photonmapper/pkg/geometry"
	"github.com/df07/go-progressive-photonmapper/pkg/photonmap"
)

// MinRadius keeps the search radius, and with it the density denominator, above zero
const MinRadius = 1e-9

// Estimate holds the progressive statistics of one record
type Estimate struct {
	Radius float64   // Current search radius
	Count  float64   // Effective photon count N
	Flux   core.Vec3 // Accumulated BSDF-weighted photon power
}

// NewEstimate creates an empty estimate with the given initial radius
func NewEstimate(radius float64) Estimate {
	return Estimate{Radius: math.Max(radius, MinRadius)}
}

// Update folds found photons into the estimate. found is the sum of BSDF × photon power over
// the m photons within the current radius. Nothing changes when m is zero.
//
//	N' = N + αM
//	r' = r·sqrt(N' / (N+M))
//	Φ' = (Φ + found)·(N' / (N+M))·throughput
func (e *Estimate) Update(m int, found core.Vec3, alpha float64, throughput core.Vec3) {
	if m <= 0 {
		return
	}

	found = found.Clamp(0, math.Inf(1))
	n := e.Count
	newCount := n + alpha*float64(m)
	ratio := newCount / (n + float64(m))

	e.Radius = math.Max(e.Radius*math.Sqrt(ratio), MinRadius)
	e.Count = newCount
	e.Flux = e.Flux.Add(found).Multiply(ratio).MultiplyVec(throughput)
}

// Radiance normalizes the accumulated flux: Φ / (π r² totalEmitted)
func (e *Estimate) Radiance(totalEmitted int64) core.Vec3 {
	if totalEmitted <= 0 {
		return core.Vec3{}
	}
	return e.Flux.Multiply(1.0 / (math.Pi * e.Radius * e.Radius * float64(totalEmitted)))
}

// Gatherer performs the radius query and BSDF weighting for records of one tile.
// It owns a scratch buffer and must not be shared between goroutines.
type Gatherer struct {
	Alpha   float64
	indices []int
}

// NewGatherer creates a gatherer with the given decay constant
func NewGatherer(alpha float64) *Gatherer {
	return &Gatherer{Alpha: alpha}
}

// Gather queries photons around the hit and applies the progressive update to est.
// It returns the number of photons found.
func (g *Gatherer) Gather(photons *photonmap.PointIndex, hit *geometry.SurfaceInteraction, outgoing, throughput core.Vec3, est *Estimate) int {
	g.indices = photons.Query(hit.Point, est.Radius, g.indices[:0])
	if len(g.indices) == 0 {
		return 0
	}

	wo := hit.Frame.ToLocal(outgoing)
	found := core.Vec3{}
	for _, i := range g.indices {
		photon := photons.At(i)
		wi := hit.Frame.ToLocal(photon.Direction)
		found = found.Add(hit.Material.Evaluate(wi, wo).MultiplyVec(photon.Power))
	}

	est.Update(len(g.indices), found, g.Alpha, throughput)
	return len(g.indices)
}
