package renderer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/ppm"
)

// ErrImageSize is returned for images too small to map pixels onto the viewport
var ErrImageSize = errors.New("image must be at least 2x2 pixels")

// ProgressFunc is called after each completed row with the number of pixels done so far
type ProgressFunc func(pixelsDone, totalPixels int)

// Raytracer drives one ray per pixel through the camera into the world
type Raytracer struct {
	world    core.Hittable
	camera   *Camera
	width    int
	height   int
	mode     ShadingMode
	logger   core.Logger
	progress ProgressFunc
}

// NewRaytracer creates a new raytracer
func NewRaytracer(world core.Hittable, camera *Camera, width, height int) *Raytracer {
	return &Raytracer{
		world:  world,
		camera: camera,
		width:  width,
		height: height,
		mode:   ShadeNormal,
		logger: core.NopLogger{},
	}
}

// SetShadingMode selects how hits are coloured
func (rt *Raytracer) SetShadingMode(mode ShadingMode) {
	rt.mode = mode
}

// SetLogger sets the logger receiving render messages
func (rt *Raytracer) SetLogger(logger core.Logger) {
	if logger == nil {
		logger = core.NopLogger{}
	}
	rt.logger = logger
}

// SetProgress installs a per-row progress callback
func (rt *Raytracer) SetProgress(progress ProgressFunc) {
	rt.progress = progress
}

// Render traces every pixel and returns the image. Rows are produced from the
// bottom of the viewport up and flipped so row 0 is the top of the image.
// The context is checked between rows.
func (rt *Raytracer) Render(ctx context.Context) (*ppm.Image, error) {
	if rt.width < 2 || rt.height < 2 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrImageSize, rt.width, rt.height)
	}

	rt.logger.Printf("Rendering %dx%d (%s shading)\n", rt.width, rt.height, rt.mode)
	startTime := time.Now()

	img := ppm.New(rt.width, rt.height)
	totalPixels := rt.width * rt.height
	pixelsDone := 0

	for j := rt.height - 1; j >= 0; j-- {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("render cancelled: %w", err)
		}

		for i := 0; i < rt.width; i++ {
			u := float64(i) / float64(rt.width-1)
			v := float64(j) / float64(rt.height-1)

			ray := rt.camera.GetRay(u, v)
			img.Set(i, rt.height-j-1, ToRGBA(RayColor(ray, rt.world, rt.mode)))
		}

		pixelsDone += rt.width
		if rt.progress != nil {
			rt.progress(pixelsDone, totalPixels)
		}
	}

	rt.logger.Printf("Render completed in %v\n", time.Since(startTime))
	return img, nil
}
