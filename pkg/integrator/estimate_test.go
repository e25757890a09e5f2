package integrator

import (
	"math"
	"testing"

	"github.com/df07/go-progressive-photonmapper/pkg/core"
	"github.com/df07/go-progressive-photonmapper/pkg/geometry"
	"github.com/df07/go-progressive-photonmapper/pkg/material"
	"github.com/df07/go-progressive-photonmapper/pkg/photonmap"
)

func TestEstimate_Update(t *testing.T) {
	one := core.NewVec3(1, 1, 1)

	tests := []struct {
		name       string
		start      Estimate
		m          int
		found      core.Vec3
		alpha      float64
		throughput core.Vec3
		wantCount  float64
		wantRadius float64
		wantFlux   core.Vec3
	}{
		{
			name:       "first pass",
			start:      NewEstimate(1.0),
			m:          10,
			found:      core.NewVec3(2, 4, 6),
			alpha:      0.7,
			throughput: one,
			wantCount:  7,
			wantRadius: math.Sqrt(0.7),
			wantFlux:   core.NewVec3(1.4, 2.8, 4.2),
		},
		{
			name:       "accumulated",
			start:      Estimate{Radius: 0.5, Count: 7, Flux: core.NewVec3(1, 1, 1)},
			m:          3,
			found:      core.NewVec3(1, 0, 0),
			alpha:      0.5,
			throughput: one,
			wantCount:  8.5,
			wantRadius: 0.5 * math.Sqrt(0.85),
			wantFlux:   core.NewVec3(1.7, 0.85, 0.85),
		},
		{
			// (Φ + found)·ratio·throughput, channel by channel
			name:       "colored throughput",
			start:      Estimate{Radius: 1.0, Count: 0, Flux: core.Vec3{}},
			m:          10,
			found:      core.NewVec3(2, 4, 6),
			alpha:      0.7,
			throughput: core.NewVec3(0.5, 1, 2),
			wantCount:  7,
			wantRadius: math.Sqrt(0.7),
			wantFlux:   core.NewVec3(0.7, 2.8, 8.4),
		},
		{
			name:       "throughput scales accumulated flux",
			start:      Estimate{Radius: 0.5, Count: 7, Flux: core.NewVec3(1, 1, 1)},
			m:          3,
			found:      core.NewVec3(1, 0, 0),
			alpha:      0.5,
			throughput: core.NewVec3(0.8, 0.8, 0.8),
			wantCount:  8.5,
			wantRadius: 0.5 * math.Sqrt(0.85),
			wantFlux:   core.NewVec3(1.36, 0.68, 0.68),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est := tt.start
			est.Update(tt.m, tt.found, tt.alpha, tt.throughput)

			if math.Abs(est.Count-tt.wantCount) > 1e-9 {
				t.Errorf("Count = %f, want %f", est.Count, tt.wantCount)
			}
			if math.Abs(est.Radius-tt.wantRadius) > 1e-9 {
				t.Errorf("Radius = %f, want %f", est.Radius, tt.wantRadius)
			}
			if est.Flux.Subtract(tt.wantFlux).Length() > 1e-9 {
				t.Errorf("Flux = %v, want %v", est.Flux, tt.wantFlux)
			}
		})
	}
}

func TestEstimate_RadiusShrinksMonotonically(t *testing.T) {
	for _, alpha := range []float64{0.1, 0.5, 0.7, 0.99} {
		est := NewEstimate(1.0)
		for pass := 0; pass < 200; pass++ {
			before := est.Radius
			est.Update(1+pass%7, core.NewVec3(1, 1, 1), alpha, core.NewVec3(1, 1, 1))
			if est.Radius > before {
				t.Fatalf("alpha=%f pass %d: radius grew from %g to %g", alpha, pass, before, est.Radius)
			}
			if est.Radius <= 0 {
				t.Fatalf("alpha=%f pass %d: radius reached %g", alpha, pass, est.Radius)
			}
		}
	}
}

func TestEstimate_CountIncreasesOnlyWithPhotons(t *testing.T) {
	est := NewEstimate(0.3)
	est.Update(4, core.NewVec3(1, 1, 1), 0.7, core.NewVec3(1, 1, 1))
	before := est

	est.Update(0, core.NewVec3(100, 100, 100), 0.7, core.NewVec3(1, 1, 1))
	if est != before {
		t.Errorf("Update with no photons changed the estimate: %+v -> %+v", before, est)
	}

	est.Update(1, core.Vec3{}, 0.7, core.NewVec3(1, 1, 1))
	if est.Count <= before.Count {
		t.Errorf("Count should increase when photons are found, got %f -> %f", before.Count, est.Count)
	}
}

func TestEstimate_FluxNeverNegative(t *testing.T) {
	est := NewEstimate(1.0)
	est.Update(3, core.NewVec3(-1, 2, 0), 0.7, core.NewVec3(0.5, 1, 0))

	if est.Flux.X < 0 || est.Flux.Y < 0 || est.Flux.Z < 0 {
		t.Errorf("Flux has a negative channel: %v", est.Flux)
	}
}

func TestEstimate_Radiance(t *testing.T) {
	est := Estimate{Radius: 2, Count: 5, Flux: core.NewVec3(4*math.Pi, 0, 8*math.Pi)}

	got := est.Radiance(10)
	want := core.NewVec3(0.1, 0, 0.2)
	if got.Subtract(want).Length() > 1e-12 {
		t.Errorf("Radiance = %v, want %v", got, want)
	}

	if !est.Radiance(0).IsZero() {
		t.Error("Radiance with no emitted photons should be zero")
	}
}

func TestNewEstimate_FloorsRadius(t *testing.T) {
	if est := NewEstimate(0); est.Radius != MinRadius {
		t.Errorf("Expected radius floor %g, got %g", MinRadius, est.Radius)
	}
}

func TestGatherer_Gather(t *testing.T) {
	white := material.NewLambertian(core.NewVec3(1, 1, 1))
	frame := core.NewFrame(core.NewVec3(0, 1, 0))
	hit := geometry.SurfaceInteraction{
		Point:    core.NewVec3(0, 0, 0),
		Normal:   frame.N,
		Frame:    frame,
		Material: white,
	}
	outgoing := core.NewVec3(0, 1, 0)

	idx := photonmap.NewPointIndex(4)
	idx.Append(photonmap.NewPhoton(core.NewVec3(0.1, 0, 0), core.NewVec3(0, -1, 0), core.NewVec3(math.Pi, math.Pi, math.Pi)))
	idx.Append(photonmap.NewPhoton(core.NewVec3(0, 0, 0.2), core.NewVec3(0, -1, 0), core.NewVec3(math.Pi, math.Pi, math.Pi)))
	// Arrives from below the surface: found but contributes nothing
	idx.Append(photonmap.NewPhoton(core.NewVec3(-0.1, 0, 0), core.NewVec3(0, 1, 0), core.NewVec3(math.Pi, math.Pi, math.Pi)))
	// Outside the radius
	idx.Append(photonmap.NewPhoton(core.NewVec3(2, 0, 0), core.NewVec3(0, -1, 0), core.NewVec3(math.Pi, math.Pi, math.Pi)))
	idx.Build()

	gatherer := NewGatherer(0.5)
	est := NewEstimate(0.5)
	found := gatherer.Gather(idx, &hit, outgoing, core.NewVec3(1, 1, 1), &est)

	if found != 3 {
		t.Fatalf("Expected 3 photons within radius, got %d", found)
	}

	// Σ f·Φ = 2 × (1/π)·π = 2; ratio = 1.5/3
	wantFlux := core.NewVec3(1, 1, 1)
	if est.Flux.Subtract(wantFlux).Length() > 1e-9 {
		t.Errorf("Flux = %v, want %v", est.Flux, wantFlux)
	}

	t.Run("empty index leaves estimate untouched", func(t *testing.T) {
		empty := photonmap.NewPointIndex(0)
		empty.Build()

		before := est
		if n := gatherer.Gather(empty, &hit, outgoing, core.NewVec3(1, 1, 1), &est); n != 0 {
			t.Errorf("Expected no photons, got %d", n)
		}
		if est != before {
			t.Errorf("Estimate changed: %+v -> %+v", before, est)
		}
	})
}
