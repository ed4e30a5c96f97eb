package renderer

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// CameraConfig describes a simple pinhole camera looking down -Z
type CameraConfig struct {
	ViewportHeight float64   // Height of the viewport in world units
	AspectRatio    float64   // Viewport width / height
	FocalLength    float64   // Distance from position to the viewport plane
	Position       core.Vec3 // Camera origin
}

// DefaultCameraConfig returns a 16:9 camera at the origin
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		ViewportHeight: 2.0,
		AspectRatio:    16.0 / 9.0,
		FocalLength:    1.0,
		Position:       core.NewVec3(0, 0, 0),
	}
}

// Camera generates rays for rendering
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
}

// NewCamera creates a camera from the given configuration
func NewCamera(config CameraConfig) *Camera {
	viewportWidth := config.AspectRatio * config.ViewportHeight

	origin := config.Position
	horizontal := core.NewVec3(viewportWidth, 0, 0)
	vertical := core.NewVec3(0, config.ViewportHeight, 0)
	lowerLeftCorner := origin.Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(core.NewVec3(0, 0, config.FocalLength))

	return &Camera{
		origin:          origin,
		horizontal:      horizontal,
		vertical:        vertical,
		lowerLeftCorner: lowerLeftCorner,
	}
}

// GetRay generates a ray for screen coordinates (s, t) where 0 <= s,t <= 1
// and (0, 0) is the lower left corner
func (c *Camera) GetRay(s, t float64) core.Ray {
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(c.origin)

	return core.NewRay(c.origin, direction)
}
