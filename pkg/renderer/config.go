package renderer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/df07/go-progressive-photonmapper/pkg/integrator"
	"github.com/df07/go-progressive-photonmapper/pkg/lights"
)

var (
	ErrInvalidPhotons    = errors.New("renderer: photons per pass must be positive")
	ErrInvalidIterations = errors.New("renderer: iterations must not be negative")
	ErrInvalidRadius     = errors.New("renderer: initial radius must be positive")
	ErrInvalidAlpha      = errors.New("renderer: alpha must be in (0, 1)")
	ErrInvalidSamples    = errors.New("renderer: samples per pixel must be positive")
	ErrInvalidTileSize   = errors.New("renderer: tile size must be positive")
	ErrInvalidBatches    = errors.New("renderer: photon batches must be positive")
	ErrInvalidBounces    = errors.New("renderer: min bounces must not be negative")
	ErrInvalidPathCap    = errors.New("renderer: max paths per photon must be positive")
)

// PhotonConfig contains configuration for progressive photon mapping
type PhotonConfig struct {
	PhotonsPerPass    int                     `json:"photonsPerPass"`    // Photons stored per pass
	Iterations        int                     `json:"iterations"`        // Number of passes
	InitialRadius     float64                 `json:"initialRadius"`     // Starting search radius
	Alpha             float64                 `json:"alpha"`             // Fraction of new photons kept each pass
	SamplesPerPixel   int                     `json:"samplesPerPixel"`   // Viewpoints per pixel (ppm)
	MinBounces        int                     `json:"minBounces"`        // Bounces before Russian roulette
	Strategy          integrator.StrategyName `json:"strategy"`          // "ppm" or "sppm"
	EmitterSelection  lights.Selection        `json:"emitterSelection"`  // "uniform" or "power"
	TileSize          int                     `json:"tileSize"`          // Size of each tile in pixels
	NumWorkers        int                     `json:"numWorkers"`        // Number of parallel workers (0 = use CPU count)
	PhotonBatches     int                     `json:"photonBatches"`     // Fixed shares of the photon budget
	Seed              int64                   `json:"seed"`              // Base seed for every sample stream
	MaxPathsPerPhoton int                     `json:"maxPathsPerPhoton"` // Light paths allowed per stored photon
}

// DefaultPhotonConfig returns sensible default values
func DefaultPhotonConfig() PhotonConfig {
	return PhotonConfig{
		PhotonsPerPass:    10000,
		Iterations:        1,
		InitialRadius:     0.1,
		Alpha:             0.7,
		SamplesPerPixel:   1,
		MinBounces:        5,
		Strategy:          integrator.StrategyPPM,
		EmitterSelection:  lights.SelectionUniform,
		TileSize:          64,
		NumWorkers:        0, // Auto-detect CPU count
		PhotonBatches:     64,
		Seed:              42,
		MaxPathsPerPhoton: 64,
	}
}

// LoadPhotonConfig reads a JSON config file. Fields missing from the file keep their defaults.
func LoadPhotonConfig(path string) (PhotonConfig, error) {
	config := DefaultPhotonConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("renderer: reading config: %w", err)
	}
	if err := json.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("renderer: parsing config %s: %w", path, err)
	}

	return config, config.Validate()
}

// Validate reports the first invalid setting
func (c PhotonConfig) Validate() error {
	switch {
	case c.PhotonsPerPass <= 0:
		return fmt.Errorf("%w: %d", ErrInvalidPhotons, c.PhotonsPerPass)
	case c.Iterations < 0:
		return fmt.Errorf("%w: %d", ErrInvalidIterations, c.Iterations)
	case !(c.InitialRadius > 0):
		return fmt.Errorf("%w: %g", ErrInvalidRadius, c.InitialRadius)
	case !(c.Alpha > 0 && c.Alpha < 1):
		return fmt.Errorf("%w: %g", ErrInvalidAlpha, c.Alpha)
	case c.SamplesPerPixel <= 0:
		return fmt.Errorf("%w: %d", ErrInvalidSamples, c.SamplesPerPixel)
	case c.MinBounces < 0:
		return fmt.Errorf("%w: %d", ErrInvalidBounces, c.MinBounces)
	case c.TileSize <= 0:
		return fmt.Errorf("%w: %d", ErrInvalidTileSize, c.TileSize)
	case c.PhotonBatches <= 0:
		return fmt.Errorf("%w: %d", ErrInvalidBatches, c.PhotonBatches)
	case c.MaxPathsPerPhoton <= 0:
		return fmt.Errorf("%w: %d", ErrInvalidPathCap, c.MaxPathsPerPhoton)
	}

	switch c.Strategy {
	case integrator.StrategyPPM, integrator.StrategySPPM:
	default:
		return fmt.Errorf("%w: %q", integrator.ErrUnknownStrategy, c.Strategy)
	}

	switch c.EmitterSelection {
	case lights.SelectionUniform, lights.SelectionPower:
	default:
		return fmt.Errorf("%w: %q", lights.ErrUnknownSelection, c.EmitterSelection)
	}

	return nil
}
