package lights

import (
	"fmt"
	"strings"
)

// LightSampler selects the emitter a photon is launched from
type LightSampler interface {
	// Sample picks a light for u in [0,1) and returns it with its selection probability and index
	Sample(u float64) (Light, float64, int)

	// Probability returns the selection probability of the light at index
	Probability(index int) float64

	// Count returns the number of lights in this sampler
	Count() int
}

// WeightedLightSampler selects lights with fixed, normalized weights
type WeightedLightSampler struct {
	lights  []Light
	weights []float64
}

// NewWeightedLightSampler creates a light sampler with the given weights, normalized to sum to 1.
// Negative weights are treated as zero; all-zero weights fall back to uniform selection.
func NewWeightedLightSampler(lights []Light, weights []float64) *WeightedLightSampler {
	if len(lights) != len(weights) {
		panic(fmt.Sprintf("lights length (%d) must match weights length (%d)", len(lights), len(weights)))
	}

	totalWeight := 0.0
	for _, weight := range weights {
		if weight > 0 {
			totalWeight += weight
		}
	}

	normalized := make([]float64, len(weights))
	for i, weight := range weights {
		switch {
		case totalWeight == 0:
			normalized[i] = 1.0 / float64(len(weights))
		case weight > 0:
			normalized[i] = weight / totalWeight
		}
	}

	return &WeightedLightSampler{lights: lights, weights: normalized}
}

// NewUniformLightSampler picks every light with equal probability
func NewUniformLightSampler(lights []Light) *WeightedLightSampler {
	return NewWeightedLightSampler(lights, make([]float64, len(lights)))
}

// NewPowerLightSampler picks lights proportionally to the luminance of their emitted power
func NewPowerLightSampler(lights []Light) *WeightedLightSampler {
	weights := make([]float64, len(lights))
	for i, light := range lights {
		weights[i] = light.Power().Luminance()
	}
	return NewWeightedLightSampler(lights, weights)
}

// Sample selects a light using the cumulative weights
func (s *WeightedLightSampler) Sample(u float64) (Light, float64, int) {
	if len(s.lights) == 0 {
		return nil, 0, -1
	}

	cumulative := 0.0
	for i, weight := range s.weights {
		cumulative += weight
		if u < cumulative && weight > 0 {
			return s.lights[i], weight, i
		}
	}

	// Rounding left u past the last boundary; take the last light that can be picked
	for i := len(s.weights) - 1; i >= 0; i-- {
		if s.weights[i] > 0 {
			return s.lights[i], s.weights[i], i
		}
	}
	return nil, 0, -1
}

// Probability returns the selection probability for the light at index
func (s *WeightedLightSampler) Probability(index int) float64 {
	if index < 0 || index >= len(s.weights) {
		return 0
	}
	return s.weights[index]
}

// Count returns the number of lights in this sampler
func (s *WeightedLightSampler) Count() int {
	return len(s.lights)
}

// String returns a string representation for debugging
func (s *WeightedLightSampler) String() string {
	if len(s.lights) == 0 {
		return "WeightedLightSampler{no lights}"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "WeightedLightSampler{%d lights:", len(s.lights))
	for i, light := range s.lights {
		fmt.Fprintf(&b, " [%d] %s %.1f%%", i, light.Type(), s.weights[i]*100)
	}
	b.WriteString("}")
	return b.String()
}
