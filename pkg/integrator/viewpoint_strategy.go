package integrator

import (
	"image"

	"github.com/df07/go-progressive-photonmapper/pkg/core"
	"github.com/df07/go-progressive-photonmapper/pkg/geometry"
)

type viewpointKind uint8

const (
	viewpointDiffuse viewpointKind = iota
	viewpointEmitter
	viewpointEscaped // keeps the pixel average honest for samples that found nothing
)

// ViewpointRecord is a cached eye path endpoint with its progressive statistics
type ViewpointRecord struct {
	X, Y       int
	Hit        geometry.SurfaceInteraction
	Outgoing   core.Vec3
	Throughput core.Vec3
	Direct     core.Vec3 // Emitted radiance × throughput for emitter records
	Estimate   Estimate
	kind       viewpointKind
}

// ViewpointStrategy traces samplesPerPixel viewpoints per pixel once and reuses them every pass
type ViewpointStrategy struct {
	tracer *EyePathTracer
	config StrategyConfig
}

// NewViewpointStrategy creates the precomputed-viewpoint strategy
func NewViewpointStrategy(tracer *EyePathTracer, config StrategyConfig) *ViewpointStrategy {
	if config.SamplesPerPixel < 1 {
		config.SamplesPerPixel = 1
	}
	return &ViewpointStrategy{tracer: tracer, config: config}
}

func (s *ViewpointStrategy) Name() StrategyName { return StrategyPPM }

// Collect traces the viewpoints of every pixel in bounds
func (s *ViewpointStrategy) Collect(bounds image.Rectangle, sampler core.Sampler) RecordSet {
	set := &ViewpointSet{
		records:  make([]ViewpointRecord, 0, bounds.Dx()*bounds.Dy()*s.config.SamplesPerPixel),
		gatherer: NewGatherer(s.config.Alpha),
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			for i := 0; i < s.config.SamplesPerPixel; i++ {
				record := ViewpointRecord{X: x, Y: y, Estimate: NewEstimate(s.config.InitialRadius)}

				vp, ok := s.tracer.Collect(sampler, jitter(x, y, sampler))
				switch {
				case !ok:
					record.kind = viewpointEscaped
				case vp.IsEmitter:
					record.kind = viewpointEmitter
					record.Direct = vp.Direct()
				default:
					record.kind = viewpointDiffuse
					record.Hit = vp.Hit
					record.Outgoing = vp.Outgoing
					record.Throughput = vp.Throughput
				}
				set.records = append(set.records, record)
			}
		}
	}

	return set
}

// ViewpointSet is the flat record arena of one tile
type ViewpointSet struct {
	records  []ViewpointRecord
	gatherer *Gatherer
}

func (vs *ViewpointSet) Len() int { return len(vs.records) }

// Records exposes the arena for inspection
func (vs *ViewpointSet) Records() []ViewpointRecord { return vs.records }

// Gather updates every viewpoint against the pass photons and writes its estimate
func (vs *ViewpointSet) Gather(pass PassContext) GatherStats {
	stats := GatherStats{Records: len(vs.records)}

	for i := range vs.records {
		record := &vs.records[i]

		switch record.kind {
		case viewpointEscaped:
			stats.Unmatched++
			pass.Output.Accumulate(record.X, record.Y, core.Vec3{})
		case viewpointEmitter:
			stats.Emitters++
			pass.Output.Accumulate(record.X, record.Y, record.Direct)
		default:
			found := vs.gatherer.Gather(pass.Photons, &record.Hit, record.Outgoing, record.Throughput, &record.Estimate)
			if found > 0 {
				stats.Updated++
				stats.Photons += int64(found)
			}
			pass.Output.Accumulate(record.X, record.Y, record.Estimate.Radiance(pass.TotalEmitted))
		}
	}

	return stats
}
