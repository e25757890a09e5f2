package renderer

import (
	"context"
	"errors"
	"testing"

	"github.com/df07/go-progressive-photonmapper/pkg/core"
	"github.com/df07/go-progressive-photonmapper/pkg/geometry"
	"github.com/df07/go-progressive-photonmapper/pkg/integrator"
	"github.com/df07/go-progressive-photonmapper/pkg/log"
	"github.com/df07/go-progressive-photonmapper/pkg/material"
	"github.com/df07/go-progressive-photonmapper/pkg/scene"
)

var testLogger = log.New("test")

// smallConfig is a fast configuration for tests
func smallConfig() PhotonConfig {
	config := DefaultPhotonConfig()
	config.PhotonsPerPass = 2000
	config.Iterations = 3
	config.InitialRadius = 0.3
	config.PhotonBatches = 8
	config.TileSize = 8
	config.NumWorkers = 2
	return config
}

func newTestRenderer(t *testing.T, s *scene.Scene, config PhotonConfig) *ProgressiveRenderer {
	t.Helper()
	pr, err := NewProgressiveRenderer(s, config, testLogger)
	if err != nil {
		t.Fatalf("NewProgressiveRenderer failed: %v", err)
	}
	return pr
}

// drain collects every pass result and the final error
func drain(passChan <-chan PassResult, errChan <-chan error) ([]PassResult, error) {
	var results []PassResult
	for result := range passChan {
		results = append(results, result)
	}
	return results, <-errChan
}

func TestNewProgressiveRenderer_InvalidConfig(t *testing.T) {
	config := smallConfig()
	config.Alpha = 2

	if _, err := NewProgressiveRenderer(scene.NewGroundScene(), config, testLogger); !errors.Is(err, ErrInvalidAlpha) {
		t.Errorf("Expected ErrInvalidAlpha, got %v", err)
	}
}

func TestProgressiveRenderer_Preprocess(t *testing.T) {
	tests := []struct {
		name     string
		strategy integrator.StrategyName
		spp      int
	}{
		{"ppm", integrator.StrategyPPM, 2},
		{"sppm", integrator.StrategySPPM, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := scene.NewGroundScene(geometry.CameraConfig{Width: 20})
			config := smallConfig()
			config.Strategy = tt.strategy
			config.SamplesPerPixel = tt.spp

			pr := newTestRenderer(t, s, config)
			defer pr.Close()

			if err := pr.Preprocess(context.Background()); err != nil {
				t.Fatalf("Preprocess failed: %v", err)
			}

			records := 0
			for _, tile := range pr.Tiles() {
				if tile.Records == nil {
					t.Fatalf("Tile %d has no records", tile.ID)
				}
				records += tile.Records.Len()
			}

			want := s.Width() * s.Height() * tt.spp
			if records != want {
				t.Errorf("Expected %d records, got %d", want, records)
			}

			// Calling again is a no-op
			if err := pr.Preprocess(context.Background()); err != nil {
				t.Errorf("Second Preprocess failed: %v", err)
			}
		})
	}
}

func TestProgressiveRenderer_RenderProgressive(t *testing.T) {
	for _, strategy := range []integrator.StrategyName{integrator.StrategyPPM, integrator.StrategySPPM} {
		t.Run(string(strategy), func(t *testing.T) {
			s := scene.NewGroundScene(geometry.CameraConfig{Width: 16})
			config := smallConfig()
			config.Strategy = strategy

			pr := newTestRenderer(t, s, config)
			results, err := drain(pr.RenderProgressive(context.Background()))
			if err != nil {
				t.Fatalf("RenderProgressive failed: %v", err)
			}
			if len(results) != config.Iterations {
				t.Fatalf("Expected %d passes, got %d", config.Iterations, len(results))
			}

			var lastEmitted int64
			for i, result := range results {
				if result.PassNumber != i+1 {
					t.Errorf("Expected pass %d, got %d", i+1, result.PassNumber)
				}
				if result.IsLast != (i == len(results)-1) {
					t.Errorf("Pass %d: IsLast = %v", result.PassNumber, result.IsLast)
				}
				if result.Stats.PhotonsStored < config.PhotonsPerPass {
					t.Errorf("Pass %d stored %d photons, want at least %d", result.PassNumber, result.Stats.PhotonsStored, config.PhotonsPerPass)
				}
				if result.Stats.TotalEmitted <= lastEmitted {
					t.Errorf("Total emitted did not grow: %d after %d", result.Stats.TotalEmitted, lastEmitted)
				}
				lastEmitted = result.Stats.TotalEmitted
				if result.Image == nil || result.Image.Bounds().Dx() != s.Width() {
					t.Errorf("Pass %d: unexpected image", result.PassNumber)
				}
			}

			if pr.TotalEmitted() != lastEmitted {
				t.Errorf("TotalEmitted() = %d, want %d", pr.TotalEmitted(), lastEmitted)
			}
			if results[len(results)-1].Stats.AverageLuminance <= 0 {
				t.Error("Expected a lit image")
			}

			// The ground right under the light is lit
			var hit geometry.SurfaceInteraction
			lit := 0
			for y := 0; y < s.Height(); y++ {
				for x := 0; x < s.Width(); x++ {
					ray := s.Camera.GetRay(core.NewVec2(float64(x)+0.5, float64(y)+0.5))
					if !s.Intersect(ray, &hit) || hit.IsEmitter() {
						continue
					}
					if hit.Point.X*hit.Point.X+hit.Point.Z*hit.Point.Z > 0.09 {
						continue
					}
					lit++
					if pr.Film().Pixel(x, y).IsZero() {
						t.Errorf("Pixel (%d,%d) under the light is black", x, y)
					}
				}
			}
			if lit == 0 {
				t.Error("Expected pixels under the light")
			}
		})
	}
}

func TestProgressiveRenderer_DeterministicAcrossWorkers(t *testing.T) {
	render := func(workers int) *Film {
		config := smallConfig()
		config.Iterations = 2
		config.NumWorkers = workers
		config.Strategy = integrator.StrategySPPM

		pr := newTestRenderer(t, scene.NewGroundScene(geometry.CameraConfig{Width: 12}), config)
		if _, err := drain(pr.RenderProgressive(context.Background())); err != nil {
			t.Fatalf("Render with %d workers failed: %v", workers, err)
		}
		return pr.Film()
	}

	a, b := render(1), render(4)
	for y := 0; y < a.Height(); y++ {
		for x := 0; x < a.Width(); x++ {
			if a.Pixel(x, y) != b.Pixel(x, y) {
				t.Fatalf("Pixel (%d,%d) differs: %v vs %v", x, y, a.Pixel(x, y), b.Pixel(x, y))
			}
		}
	}
}

func TestProgressiveRenderer_NoEmitters(t *testing.T) {
	cameraConfig := geometry.CameraConfig{
		Center:      core.NewVec3(0, 3, 3),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		Width:       8,
		AspectRatio: 1,
		VFov:        50,
	}
	s := &scene.Scene{
		Name:         "dark",
		Camera:       geometry.NewCamera(cameraConfig),
		CameraConfig: cameraConfig,
		Shapes: []geometry.Shape{
			scene.NewGroundQuad(core.Vec3{}, 4, material.NewLambertian(core.NewVec3(0.7, 0.7, 0.7))),
		},
	}

	pr := newTestRenderer(t, s, smallConfig())
	defer pr.Close()

	stats, err := pr.RenderPass(context.Background(), 1)
	if err != nil {
		t.Fatalf("RenderPass failed: %v", err)
	}
	if stats.PhotonsStored != 0 || stats.TotalEmitted != 0 {
		t.Errorf("Expected no photons without emitters, got %+v", stats)
	}
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if !pr.Film().Pixel(x, y).IsZero() {
				t.Errorf("Pixel (%d,%d) lit without emitters", x, y)
			}
		}
	}
}

func TestProgressiveRenderer_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pr := newTestRenderer(t, scene.NewGroundScene(geometry.CameraConfig{Width: 8}), smallConfig())
	results, err := drain(pr.RenderProgressive(ctx))

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected no passes, got %d", len(results))
	}
}

func TestProgressiveRenderer_Closed(t *testing.T) {
	pr := newTestRenderer(t, scene.NewGroundScene(geometry.CameraConfig{Width: 8}), smallConfig())
	pr.Close()

	if _, err := pr.RenderPass(context.Background(), 1); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed, got %v", err)
	}
}
