package renderer

import (
	"image"

	"github.com/df07/go-progressive-photonmapper/pkg/core"
	"github.com/df07/go-progressive-photonmapper/pkg/integrator"
)

// Tile represents a rectangular region of the image and the records collected for it
type Tile struct {
	ID              int                  // Unique tile identifier
	Bounds          image.Rectangle      // Pixel bounds (x0,y0,x1,y1)
	PassesCompleted int                  // Number of passes completed for this tile
	Sampler         core.Sampler         // Tile-specific sampler for deterministic results
	Records         integrator.RecordSet // Records of the pixels inside Bounds, nil until collected
}

// NewTile creates a new tile with the specified bounds.
// The tile sampler is seeded from the base seed and the tile ID.
func NewTile(id int, bounds image.Rectangle, seed int64) *Tile {
	return &Tile{
		ID:      id,
		Bounds:  bounds,
		Sampler: core.NewSeededSampler(core.StreamSeed(seed, tileStream, id+42)),
	}
}

// tileStream keeps tile samplers apart from the per-pass photon batch streams
const tileStream = -1

// NewTileGrid creates a grid of tiles covering the entire image
func NewTileGrid(width, height, tileSize int, seed int64) []*Tile {
	var tiles []*Tile
	tileID := 0

	// Calculate number of tiles in each dimension
	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width) // Don't exceed image bounds
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, NewTile(tileID, image.Rect(x0, y0, x1, y1), seed))
			tileID++
		}
	}

	return tiles
}
