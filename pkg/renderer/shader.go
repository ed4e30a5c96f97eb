package renderer

import (
	"image/color"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// ShadingMode selects how a surface hit is coloured
type ShadingMode int

const (
	// ShadeNormal maps the surface normal into RGB
	ShadeNormal ShadingMode = iota
	// ShadeFlat paints every hit solid red
	ShadeFlat
	// ShadeSky ignores geometry and renders only the background
	ShadeSky
)

// String returns the mode name used on the command line
func (m ShadingMode) String() string {
	switch m {
	case ShadeNormal:
		return "normal"
	case ShadeFlat:
		return "flat"
	case ShadeSky:
		return "sky"
	default:
		return "unknown"
	}
}

var (
	white   = core.NewVec3(1.0, 1.0, 1.0)
	skyBlue = core.NewVec3(0.5, 0.7, 1.0)
	red     = core.NewVec3(1.0, 0.0, 0.0)
)

// Background returns the vertical white-to-blue gradient for a ray that hit nothing
func Background(r core.Ray) core.Vec3 {
	unitDirection := r.Direction.Normalize()

	// Map y from [-1,1] to [0,1]
	t := 0.5 * (unitDirection.Y + 1.0)

	return core.Lerp(white, skyBlue, t)
}

// NormalColor maps a unit normal with components in [-1,1] to a color in [0,1]
func NormalColor(normal core.Vec3) core.Vec3 {
	return normal.Add(white).Multiply(0.5)
}

// RayColor returns the [0,1] color seen along a ray.
// Only the nearest hit in [0, +Inf] is considered; no secondary rays are traced.
func RayColor(r core.Ray, world core.Hittable, mode ShadingMode) core.Vec3 {
	if mode == ShadeSky || world == nil {
		return Background(r)
	}

	hit, isHit := world.Hit(r, core.Universe())
	if !isHit {
		return Background(r)
	}

	if mode == ShadeFlat {
		return red
	}
	return NormalColor(hit.Normal)
}

// ToRGBA converts a [0,1] color to 8-bit channels using 255.999 scaling
func ToRGBA(colorVec core.Vec3) color.RGBA {
	scaled := colorVec.Clamp(0.0, 1.0).Color()

	return color.RGBA{
		R: uint8(scaled.X),
		G: uint8(scaled.Y),
		B: uint8(scaled.Z),
		A: 255,
	}
}
