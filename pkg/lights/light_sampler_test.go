package lights

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-progressive-photonmapper/pkg/core"
)

func testLights() []Light {
	return []Light{
		NewQuadLight(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), core.NewVec3(1, 1, 1)),
		NewQuadLight(core.NewVec3(0, 0, 1), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), core.NewVec3(3, 3, 3)),
	}
}

func TestUniformLightSampler(t *testing.T) {
	sampler := NewUniformLightSampler(testLights())

	if sampler.Count() != 2 {
		t.Fatalf("Expected 2 lights, got %d", sampler.Count())
	}

	tests := []struct {
		u     float64
		index int
	}{
		{0.0, 0},
		{0.49, 0},
		{0.5, 1},
		{0.999999, 1},
		{1.0, 1},
	}

	for _, tt := range tests {
		light, pdf, index := sampler.Sample(tt.u)
		if light == nil || index != tt.index {
			t.Errorf("Sample(%f) picked index %d, want %d", tt.u, index, tt.index)
		}
		if math.Abs(pdf-0.5) > 1e-12 {
			t.Errorf("Sample(%f) pdf = %f, want 0.5", tt.u, pdf)
		}
	}
}

func TestPowerLightSampler(t *testing.T) {
	sampler := NewPowerLightSampler(testLights())

	if math.Abs(sampler.Probability(0)-0.25) > 1e-9 || math.Abs(sampler.Probability(1)-0.75) > 1e-9 {
		t.Errorf("Expected probabilities 0.25/0.75, got %f/%f", sampler.Probability(0), sampler.Probability(1))
	}

	random := rand.New(rand.NewSource(42))
	counts := make([]int, 2)
	const trials = 100000
	for i := 0; i < trials; i++ {
		_, _, index := sampler.Sample(random.Float64())
		counts[index]++
	}

	ratio := float64(counts[1]) / trials
	if math.Abs(ratio-0.75) > 0.01 {
		t.Errorf("Expected brighter light to be picked ~75%% of the time, got %.3f", ratio)
	}
}

func TestWeightedLightSampler_EdgeCases(t *testing.T) {
	t.Run("no lights", func(t *testing.T) {
		sampler := NewUniformLightSampler(nil)
		light, pdf, index := sampler.Sample(0.3)
		if light != nil || pdf != 0 || index != -1 {
			t.Errorf("Expected no selection, got %v %f %d", light, pdf, index)
		}
	})

	t.Run("zero weight never picked", func(t *testing.T) {
		sampler := NewWeightedLightSampler(testLights(), []float64{0, 1})
		for _, u := range []float64{0, 0.25, 0.75, 1} {
			if _, _, index := sampler.Sample(u); index != 1 {
				t.Errorf("Sample(%f) picked zero-weight light", u)
			}
		}
	})

	t.Run("out of range probability", func(t *testing.T) {
		sampler := NewUniformLightSampler(testLights())
		if sampler.Probability(-1) != 0 || sampler.Probability(2) != 0 {
			t.Error("Expected zero probability for invalid indices")
		}
	})

	t.Run("mismatched weights panic", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("Expected panic for mismatched weights")
			}
		}()
		NewWeightedLightSampler(testLights(), []float64{1})
	})
}

func TestNewLightSampler(t *testing.T) {
	tests := []struct {
		selection Selection
		wantErr   bool
		prob0     float64
	}{
		{SelectionUniform, false, 0.5},
		{"", false, 0.5},
		{SelectionPower, false, 0.25},
		{"brightest", true, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.selection), func(t *testing.T) {
			sampler, err := NewLightSampler(tt.selection, testLights())
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownSelection) {
					t.Errorf("Expected ErrUnknownSelection, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if math.Abs(sampler.Probability(0)-tt.prob0) > 1e-9 {
				t.Errorf("Expected probability %f for first light, got %f", tt.prob0, sampler.Probability(0))
			}
		})
	}
}
