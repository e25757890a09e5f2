package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/google/uuid"

	"github.com/df07/go-progressive-photonmapper/pkg/core"
	"github.com/df07/go-progressive-photonmapper/pkg/integrator"
	"github.com/df07/go-progressive-photonmapper/pkg/log"
	"github.com/df07/go-progressive-photonmapper/pkg/photonmap"
	"github.com/df07/go-progressive-photonmapper/pkg/scene"
)

var (
	ErrPoolClosed = errors.New("renderer: worker pool closed unexpectedly")
	ErrClosed     = errors.New("renderer: renderer is closed")
)

// ProgressiveRenderer runs photon passes over a scene, refining a film after every pass
type ProgressiveRenderer struct {
	scene        *scene.Scene
	config       PhotonConfig
	strategy     integrator.Strategy
	lightTracer  *integrator.LightPathTracer
	tiles        []*Tile
	film         *Film
	workerPool   *WorkerPool
	logger       log.Logger
	runID        uuid.UUID
	shares       []int                // Photon budget of each batch
	batches      [][]photonmap.Photon // Per-batch photon buffers, reused across passes
	totalEmitted int64                // Light paths launched since the render began
	currentPass  int
	preprocessed bool
	closed       bool
}

// NewProgressiveRenderer creates a renderer for s. The scene is preprocessed by Preprocess.
func NewProgressiveRenderer(s *scene.Scene, config PhotonConfig, logger log.Logger) (*ProgressiveRenderer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	strategy, err := integrator.NewStrategy(config.Strategy, integrator.NewEyePathTracer(s, config.MinBounces), integrator.StrategyConfig{
		InitialRadius:   config.InitialRadius,
		Alpha:           config.Alpha,
		SamplesPerPixel: config.SamplesPerPixel,
	})
	if err != nil {
		return nil, err
	}

	width, height := s.Width(), s.Height()
	tiles := NewTileGrid(width, height, config.TileSize, config.Seed)
	shares := integrator.BatchShares(config.PhotonsPerPass, config.PhotonBatches)

	return &ProgressiveRenderer{
		scene:       s,
		config:      config,
		strategy:    strategy,
		lightTracer: integrator.NewLightPathTracer(s, config.MinBounces, config.MaxPathsPerPhoton),
		tiles:       tiles,
		film:        NewFilm(width, height),
		workerPool:  NewWorkerPool(config.NumWorkers, max(len(tiles), len(shares))),
		logger:      logger,
		runID:       uuid.New(),
		shares:      shares,
		batches:     make([][]photonmap.Photon, len(shares)),
	}, nil
}

// RunID identifies this render in logs and output names
func (pr *ProgressiveRenderer) RunID() uuid.UUID { return pr.runID }

// Film returns the image buffer the records write into
func (pr *ProgressiveRenderer) Film() *Film { return pr.film }

// Tiles returns the tile grid
func (pr *ProgressiveRenderer) Tiles() []*Tile { return pr.tiles }

// TotalEmitted returns the number of light paths launched since the render began
func (pr *ProgressiveRenderer) TotalEmitted() int64 { return pr.totalEmitted }

// Config returns the validated configuration
func (pr *ProgressiveRenderer) Config() PhotonConfig { return pr.config }

// Preprocess prepares the scene, collects the eye-path records of every tile and
// reserves the photon buffers. It runs once; later calls do nothing.
func (pr *ProgressiveRenderer) Preprocess(ctx context.Context) error {
	if pr.preprocessed {
		return nil
	}
	if pr.closed {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	startTime := time.Now()
	if err := pr.scene.Preprocess(pr.config.EmitterSelection); err != nil {
		return fmt.Errorf("renderer: preprocessing scene %q: %w", pr.scene.Name, err)
	}

	tasks := make([]Task, len(pr.tiles))
	for i, tile := range pr.tiles {
		tile := tile
		tasks[i] = Task{Run: func() error {
			tile.Records = pr.strategy.Collect(tile.Bounds, tile.Sampler)
			return nil
		}}
	}
	if _, err := pr.workerPool.RunAll(tasks); err != nil {
		return err
	}

	records := 0
	for _, tile := range pr.tiles {
		records += tile.Records.Len()
	}

	for i, share := range pr.shares {
		pr.batches[i] = make([]photonmap.Photon, 0, share)
	}

	pr.preprocessed = true
	pr.logger.Noticef("[%s] %s: collected %d %s records over %d tiles in %v", pr.shortID(), pr.scene.Name, records, pr.strategy.Name(), len(pr.tiles), time.Since(startTime))
	pr.logger.Noticef("[%s] %d iterations of %d photons (%d batches, %d workers, %d emitters)",
		pr.shortID(), pr.config.Iterations, pr.config.PhotonsPerPass, len(pr.shares), pr.workerPool.GetNumWorkers(), len(pr.scene.Lights))

	return nil
}

// RenderPass runs one photon pass: trace the photon batches, build the pass index,
// then update and write every record. Cancellation is only observed before the pass starts.
func (pr *ProgressiveRenderer) RenderPass(ctx context.Context, passNumber int) (PassStats, error) {
	if err := pr.Preprocess(ctx); err != nil {
		return PassStats{}, err
	}
	if pr.closed {
		return PassStats{}, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return PassStats{}, err
	}

	pr.currentPass = passNumber
	stats := PassStats{Pass: passNumber}
	passStart := time.Now()

	photons, err := pr.tracePhotons(passNumber, &stats)
	if err != nil {
		return stats, err
	}

	gatherStart := time.Now()
	pr.film.BeginPass()
	if err := pr.gather(photons, &stats); err != nil {
		return stats, err
	}
	stats.GatherTime = time.Since(gatherStart)
	stats.Duration = time.Since(passStart)
	stats.MemUsedPercent = memUsedPercent()

	pr.logger.Infof("[%s] pass %d took %v (%d photons stored, %d emitted, %d/%d records updated)",
		pr.shortID(), passNumber, stats.Duration, stats.PhotonsStored, stats.PhotonsEmitted, stats.Updated, stats.Records)
	pr.logger.Debugf("[%s] pass %d: trace %v, build %v, gather %v", pr.shortID(), passNumber, stats.TraceTime, stats.BuildTime, stats.GatherTime)

	return stats, nil
}

// tracePhotons traces every batch on the pool and merges the buffers, in batch order, into a new index
func (pr *ProgressiveRenderer) tracePhotons(passNumber int, stats *PassStats) (*photonmap.PointIndex, error) {
	traceStart := time.Now()

	results := make([]integrator.BatchResult, len(pr.shares))
	tasks := make([]Task, len(pr.shares))
	for i, share := range pr.shares {
		i, share := i, share
		tasks[i] = Task{Run: func() error {
			sampler := core.NewSeededSampler(core.StreamSeed(pr.config.Seed, passNumber, i))
			results[i] = pr.lightTracer.TraceBatch(sampler, share, pr.batches[i][:0])
			return nil
		}}
	}
	if _, err := pr.workerPool.RunAll(tasks); err != nil {
		return nil, err
	}
	stats.TraceTime = time.Since(traceStart)

	buildStart := time.Now()
	stored := 0
	for i, result := range results {
		pr.batches[i] = result.Photons
		stored += len(result.Photons)
		stats.PhotonsEmitted += result.Emitted
		if result.Capped {
			stats.CappedBatches++
		}
	}

	index := photonmap.NewPointIndex(stored)
	for _, result := range results {
		index.AppendAll(result.Photons)
	}
	index.Build()
	stats.BuildTime = time.Since(buildStart)

	if stats.CappedBatches > 0 {
		pr.logger.Warningf("[%s] pass %d: %d photon batches hit the path cap of %d paths per photon",
			pr.shortID(), passNumber, stats.CappedBatches, pr.config.MaxPathsPerPhoton)
	}

	pr.totalEmitted += stats.PhotonsEmitted
	stats.PhotonsStored = stored
	stats.TotalEmitted = pr.totalEmitted

	return index, nil
}

// gather runs the density estimate of every tile on the pool
func (pr *ProgressiveRenderer) gather(photons *photonmap.PointIndex, stats *PassStats) error {
	tileStats := make([]integrator.GatherStats, len(pr.tiles))
	tasks := make([]Task, len(pr.tiles))
	for i, tile := range pr.tiles {
		i, tile := i, tile
		tasks[i] = Task{Run: func() error {
			tileStats[i] = tile.Records.Gather(integrator.PassContext{
				Photons:      photons,
				TotalEmitted: pr.totalEmitted,
				Sampler:      tile.Sampler,
				Output:       pr.film,
			})
			// Each tile has non-overlapping bounds, so film writes need no locking
			tile.PassesCompleted++
			return nil
		}}
	}
	if _, err := pr.workerPool.RunAll(tasks); err != nil {
		return err
	}

	for _, ts := range tileStats {
		stats.GatherStats.Add(ts)
	}
	return nil
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Image      *image.RGBA
	Stats      PassStats
	IsLast     bool
}

// RenderProgressive renders every configured pass with channel-based communication.
// The caller should read from both channels; the pass channel closes when rendering ends,
// and cancellation is honored between passes. The renderer is closed when rendering ends.
func (pr *ProgressiveRenderer) RenderProgressive(ctx context.Context) (<-chan PassResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	errChan := make(chan error, 1)

	go func() {
		defer close(passChan)
		defer close(errChan)
		defer pr.Close()

		if err := pr.Preprocess(ctx); err != nil {
			errChan <- err
			return
		}

		pr.logger.Infof("[%s] starting progressive rendering with %d passes", pr.shortID(), pr.config.Iterations)

		for pass := 1; pass <= pr.config.Iterations; pass++ {
			// Check for cancellation before starting this pass
			select {
			case <-ctx.Done():
				pr.logger.Noticef("[%s] rendering cancelled before pass %d", pr.shortID(), pass)
				errChan <- ctx.Err()
				return
			default:
			}

			stats, err := pr.RenderPass(ctx, pass)
			if err != nil {
				errChan <- err
				return
			}

			img := pr.film.Image()
			stats.AverageLuminance = CalculateAverageLuminance(img)

			result := PassResult{
				PassNumber: pass,
				Image:      img,
				Stats:      stats,
				IsLast:     pass == pr.config.Iterations,
			}

			select {
			case passChan <- result:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}
		}
	}()

	return passChan, errChan
}

// Close stops the worker pool. The renderer cannot run passes afterwards.
func (pr *ProgressiveRenderer) Close() {
	pr.closed = true
	pr.workerPool.Stop()
}

// shortID is the run ID prefix used in log lines
func (pr *ProgressiveRenderer) shortID() string {
	return pr.runID.String()[:8]
}
