package integrator

import (
	"errors"
	"fmt"
	"image"

	"github.com/df07/go-progressive-photonmapper/pkg/core"
	"github.com/df07/go-progressive-photonmapper/pkg/photonmap"
)

// StrategyName selects how eye paths are collected
type StrategyName string

const (
	StrategyPPM  StrategyName = "ppm"  // viewpoints traced once and reused every pass
	StrategySPPM StrategyName = "sppm" // eye paths retraced every pass
)

var ErrUnknownStrategy = errors.New("integrator: unknown strategy")

// Accumulator receives per-pixel estimates
type Accumulator interface {
	Accumulate(x, y int, color core.Vec3)
}

// GatherStats summarizes one pass over a record set
type GatherStats struct {
	Records   int   // Records visited
	Emitters  int   // Records that deposited direct emission
	Updated   int   // Records whose query found photons
	Photons   int64 // Photons found over all queries
	Unmatched int   // Eye paths that produced no record this pass
}

// Add accumulates other into s
func (s *GatherStats) Add(other GatherStats) {
	s.Records += other.Records
	s.Emitters += other.Emitters
	s.Updated += other.Updated
	s.Photons += other.Photons
	s.Unmatched += other.Unmatched
}

// PassContext is everything a record set needs for one pass
type PassContext struct {
	Photons      *photonmap.PointIndex // Built index for this pass
	TotalEmitted int64                 // Photons emitted since the render began, this pass included
	Sampler      core.Sampler          // Sampler for eye paths traced during the pass
	Output       Accumulator
}

// RecordSet holds the records of one tile across passes
type RecordSet interface {
	Len() int

	// Gather runs the density estimate for every record and writes the current estimates
	Gather(pass PassContext) GatherStats
}

// Strategy creates the record sets for image tiles
type Strategy interface {
	Name() StrategyName

	// Collect creates the records for the pixels inside bounds
	Collect(bounds image.Rectangle, sampler core.Sampler) RecordSet
}

// StrategyConfig holds the parameters shared by both strategies
type StrategyConfig struct {
	InitialRadius   float64
	Alpha           float64
	SamplesPerPixel int // Viewpoints per pixel, ppm only
}

// NewStrategy creates the named strategy
func NewStrategy(name StrategyName, tracer *EyePathTracer, config StrategyConfig) (Strategy, error) {
	switch name {
	case StrategyPPM:
		return NewViewpointStrategy(tracer, config), nil
	case StrategySPPM:
		return NewPixelStrategy(tracer, config), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// jitter returns a uniformly jittered sample inside pixel (x, y)
func jitter(x, y int, sampler core.Sampler) core.Vec2 {
	offset := sampler.Get2D()
	return core.NewVec2(float64(x)+offset.X, float64(y)+offset.Y)
}
