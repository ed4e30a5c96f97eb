package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

// DefaultWidth is the image width used when none is requested
const DefaultWidth = 400

// ErrUnknownScene is returned for a scene name with no registered preset
var ErrUnknownScene = errors.New("unknown scene")

// Scene contains all the elements needed for rendering
type Scene struct {
	Name         string
	World        *geometry.World
	CameraConfig renderer.CameraConfig
	Shading      renderer.ShadingMode
	Width        int
	Height       int
}

// SceneInfo describes a registered preset
type SceneInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
}

type preset struct {
	info  SceneInfo
	build func(s *Scene)
}

var presets = map[string]preset{
	"sky": {
		info: SceneInfo{ID: "sky", DisplayName: "Sky", Description: "Background gradient only"},
		build: func(s *Scene) {
			s.Shading = renderer.ShadeSky
		},
	},
	"sphere": {
		info: SceneInfo{ID: "sphere", DisplayName: "Sphere", Description: "Flat red sphere in front of the camera"},
		build: func(s *Scene) {
			s.Shading = renderer.ShadeFlat
			s.World.Add(geometry.MustSphere(core.NewVec3(0, 0, -1), 0.5))
		},
	},
	"normal-sphere": {
		info: SceneInfo{ID: "normal-sphere", DisplayName: "Normal sphere", Description: "Sphere shaded by its surface normal"},
		build: func(s *Scene) {
			s.World.Add(geometry.MustSphere(core.NewVec3(0, 0, -1), 0.5))
		},
	},
	"spheres": {
		info: SceneInfo{ID: "spheres", DisplayName: "Spheres", Description: "Normal sphere resting on a large ground sphere"},
		build: func(s *Scene) {
			s.World.Add(
				geometry.MustSphere(core.NewVec3(0, 0, -1), 0.5),
				geometry.MustSphere(core.NewVec3(0, -100.5, -1), 100),
			)
		},
	},
}

// New builds the named preset at the given width. The height follows the
// camera aspect ratio; a non-positive width selects DefaultWidth.
func New(name string, width int) (*Scene, error) {
	p, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}

	if width <= 0 {
		width = DefaultWidth
	}

	cameraConfig := renderer.DefaultCameraConfig()
	s := &Scene{
		Name:         name,
		World:        geometry.NewWorld(),
		CameraConfig: cameraConfig,
		Shading:      renderer.ShadeNormal,
		Width:        width,
		Height:       int(float64(width) / cameraConfig.AspectRatio),
	}
	p.build(s)

	return s, nil
}

// List returns the registered presets sorted by ID
func List() []SceneInfo {
	infos := make([]SceneInfo, 0, len(presets))
	for _, p := range presets {
		infos = append(infos, p.info)
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].ID < infos[j].ID
	})
	return infos
}

// NewRaytracer creates a raytracer configured for this scene
func (s *Scene) NewRaytracer() *renderer.Raytracer {
	rt := renderer.NewRaytracer(s.World, renderer.NewCamera(s.CameraConfig), s.Width, s.Height)
	rt.SetShadingMode(s.Shading)
	return rt
}
