package renderer

import (
	"image"
	"image/color"

	"github.com/df07/go-progressive-photonmapper/pkg/core"
)

// filmPixel averages the writes a pixel received during its latest pass
type filmPixel struct {
	sum   core.Vec3
	count int
	pass  int // Pass of the latest write
}

// Film is the image buffer records write their estimates into.
// Writes to a pixel within one pass are averaged; a pixel written in a later pass
// drops its earlier value. Concurrent writers must touch disjoint pixels.
type Film struct {
	width, height int
	pass          int
	pixels        []filmPixel
}

// NewFilm creates a black film
func NewFilm(width, height int) *Film {
	return &Film{
		width:  width,
		height: height,
		pixels: make([]filmPixel, width*height),
	}
}

func (f *Film) Width() int  { return f.width }
func (f *Film) Height() int { return f.height }

// Pass returns the number of passes begun so far
func (f *Film) Pass() int { return f.pass }

// BeginPass starts a new pass; must not run concurrently with Accumulate
func (f *Film) BeginPass() {
	f.pass++
}

// Accumulate adds one estimate for pixel (x, y). Writes outside the film are dropped.
func (f *Film) Accumulate(x, y int, value core.Vec3) {
	if x < 0 || y < 0 || x >= f.width || y >= f.height {
		return
	}

	p := &f.pixels[y*f.width+x]
	if p.pass != f.pass {
		*p = filmPixel{pass: f.pass}
	}
	p.sum = p.sum.Add(value)
	p.count++
}

// Pixel returns the current linear color of pixel (x, y)
func (f *Film) Pixel(x, y int) core.Vec3 {
	p := &f.pixels[y*f.width+x]
	if p.count == 0 {
		return core.Vec3{}
	}
	return p.sum.Multiply(1.0 / float64(p.count))
}

// Image converts the film to 8-bit RGBA
func (f *Film) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.width, f.height))
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			img.SetRGBA(x, y, vec3ToColor(f.Pixel(x, y)))
		}
	}
	return img
}

// vec3ToColor converts a Vec3 color to RGBA with proper clamping and gamma correction
func vec3ToColor(colorVec core.Vec3) color.RGBA {
	// Apply gamma correction (gamma = 2.0)
	colorVec = colorVec.GammaCorrect(2.0)

	// Clamp to valid color range
	colorVec = colorVec.Clamp(0.0, 1.0)

	return color.RGBA{
		R: uint8(255 * colorVec.X),
		G: uint8(255 * colorVec.Y),
		B: uint8(255 * colorVec.Z),
		A: 255,
	}
}
