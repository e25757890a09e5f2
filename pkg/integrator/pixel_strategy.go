package integrator

import (
	"image"

	"github.com/df07/go-progressive-photonmapper/pkg/core"
)

// PixelRecord keeps the statistics of one pixel; its eye path is retraced every pass
type PixelRecord struct {
	X, Y      int
	Estimate  Estimate
	DirectSum core.Vec3 // Emitted radiance seen directly, summed over passes
	Passes    int       // Eye paths traced for this pixel
}

// Radiance returns the running direct average plus the indirect density estimate
func (r *PixelRecord) Radiance(totalEmitted int64) core.Vec3 {
	result := r.Estimate.Radiance(totalEmitted)
	if r.Passes > 0 {
		result = result.Add(r.DirectSum.Multiply(1.0 / float64(r.Passes)))
	}
	return result
}

// PixelStrategy keeps one record per pixel and retraces a jittered eye path each pass
type PixelStrategy struct {
	tracer *EyePathTracer
	config StrategyConfig
}

// NewPixelStrategy creates the per-pass resampled strategy
func NewPixelStrategy(tracer *EyePathTracer, config StrategyConfig) *PixelStrategy {
	return &PixelStrategy{tracer: tracer, config: config}
}

func (s *PixelStrategy) Name() StrategyName { return StrategySPPM }

// Collect creates the pixel records for bounds; no paths are traced until the first pass
func (s *PixelStrategy) Collect(bounds image.Rectangle, sampler core.Sampler) RecordSet {
	set := &PixelSet{
		tracer:   s.tracer,
		records:  make([]PixelRecord, 0, bounds.Dx()*bounds.Dy()),
		gatherer: NewGatherer(s.config.Alpha),
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			set.records = append(set.records, PixelRecord{X: x, Y: y, Estimate: NewEstimate(s.config.InitialRadius)})
		}
	}
	return set
}

// PixelSet is the flat record arena of one tile
type PixelSet struct {
	tracer   *EyePathTracer
	records  []PixelRecord
	gatherer *Gatherer
}

func (ps *PixelSet) Len() int { return len(ps.records) }

// Records exposes the arena for inspection
func (ps *PixelSet) Records() []PixelRecord { return ps.records }

// Gather retraces each pixel, updates its statistics and writes its estimate
func (ps *PixelSet) Gather(pass PassContext) GatherStats {
	stats := GatherStats{Records: len(ps.records)}

	for i := range ps.records {
		record := &ps.records[i]
		record.Passes++

		vp, ok := ps.tracer.Collect(pass.Sampler, jitter(record.X, record.Y, pass.Sampler))
		switch {
		case !ok:
			stats.Unmatched++
		case vp.IsEmitter:
			stats.Emitters++
			record.DirectSum = record.DirectSum.Add(vp.Direct())
		default:
			found := ps.gatherer.Gather(pass.Photons, &vp.Hit, vp.Outgoing, vp.Throughput, &record.Estimate)
			if found > 0 {
				stats.Updated++
				stats.Photons += int64(found)
			}
		}

		pass.Output.Accumulate(record.X, record.Y, record.Radiance(pass.TotalEmitted))
	}

	return stats
}
