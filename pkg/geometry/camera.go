package geometry

import (
	"math"

	"github.com/df07/go-progressive-photonmapper/pkg/core"
)

// CameraConfig contains all camera configuration parameters
type CameraConfig struct {
	Center      core.Vec3 `json:"center"`      // Camera position
	LookAt      core.Vec3 `json:"lookAt"`      // Point the camera is looking at
	Up          core.Vec3 `json:"up"`          // Up direction
	Width       int       `json:"width"`       // Image width in pixels
	AspectRatio float64   `json:"aspectRatio"` // Width / height
	VFov        float64   `json:"vfov"`        // Vertical field of view in degrees
}

// Camera is a pinhole camera that maps image pixel coordinates to primary rays
type Camera struct {
	config      CameraConfig
	height      int
	origin      core.Vec3
	upperLeft   core.Vec3 // World position of pixel (0, 0)
	pixelDeltaU core.Vec3
	pixelDeltaV core.Vec3
	forward     core.Vec3
}

// NewCamera creates a camera from the given configuration
func NewCamera(config CameraConfig) *Camera {
	if config.AspectRatio <= 0 {
		config.AspectRatio = 1.0
	}
	height := int(float64(config.Width) / config.AspectRatio)
	if height < 1 {
		height = 1
	}

	theta := config.VFov * math.Pi / 180.0
	viewportHeight := 2.0 * math.Tan(theta/2)
	viewportWidth := viewportHeight * float64(config.Width) / float64(height)

	// Orthonormal basis: w points backwards, u right, v up
	w := config.Center.Subtract(config.LookAt).Normalize()
	u := config.Up.Cross(w).Normalize()
	v := w.Cross(u)

	viewportU := u.Multiply(viewportWidth)
	viewportV := v.Multiply(-viewportHeight) // image rows grow downwards

	upperLeft := config.Center.
		Subtract(w).
		Subtract(viewportU.Multiply(0.5)).
		Subtract(viewportV.Multiply(0.5))

	return &Camera{
		config:      config,
		height:      height,
		origin:      config.Center,
		upperLeft:   upperLeft,
		pixelDeltaU: viewportU.Multiply(1.0 / float64(config.Width)),
		pixelDeltaV: viewportV.Multiply(1.0 / float64(height)),
		forward:     w.Negate(),
	}
}

// Width returns the image width in pixels
func (c *Camera) Width() int { return c.config.Width }

// Height returns the image height in pixels
func (c *Camera) Height() int { return c.height }

// GetCameraForward returns the viewing direction
func (c *Camera) GetCameraForward() core.Vec3 { return c.forward }

// GetRay returns the primary ray through a continuous pixel position.
// (0,0) is the top-left corner of the image and (Width, Height) the bottom-right.
func (c *Camera) GetRay(pixelSample core.Vec2) core.Ray {
	target := c.upperLeft.
		Add(c.pixelDeltaU.Multiply(pixelSample.X)).
		Add(c.pixelDeltaV.Multiply(pixelSample.Y))
	return core.NewRay(c.origin, target.Subtract(c.origin).Normalize())
}

// MergeCameraConfig returns base with every non-zero field of override applied
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base
	if !override.Center.IsZero() {
		result.Center = override.Center
	}
	if !override.LookAt.IsZero() {
		result.LookAt = override.LookAt
	}
	if !override.Up.IsZero() {
		result.Up = override.Up
	}
	if override.Width > 0 {
		result.Width = override.Width
	}
	if override.AspectRatio > 0 {
		result.AspectRatio = override.AspectRatio
	}
	if override.VFov > 0 {
		result.VFov = override.VFov
	}
	return result
}
