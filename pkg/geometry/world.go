package geometry

import "github.com/df07/go-sphere-raytracer/pkg/core"

// World is an ordered collection of hittable objects that answers hit tests
// as a single object, reporting the nearest intersection.
type World struct {
	objects []core.Hittable
}

// NewWorld creates a world containing the given objects
func NewWorld(objects ...core.Hittable) *World {
	w := &World{}
	w.Add(objects...)
	return w
}

// Add appends objects to the world. No deduplication is done.
func (w *World) Add(objects ...core.Hittable) {
	w.objects = append(w.objects, objects...)
}

// Clear removes all objects
func (w *World) Clear() {
	w.objects = nil
}

// Len returns the number of objects in the world
func (w *World) Len() int {
	return len(w.objects)
}

// Objects returns a copy of the world's objects in insertion order
func (w *World) Objects() []core.Hittable {
	return append([]core.Hittable(nil), w.objects...)
}

// Hit returns the nearest intersection among all objects within rng.
// On equal t the earliest added object wins.
func (w *World) Hit(ray core.Ray, rng core.Interval) (*core.HitRecord, bool) {
	var closestHit *core.HitRecord
	closestSoFar := rng.Max

	for _, object := range w.objects {
		hit, isHit := object.Hit(ray, rng.WithMax(closestSoFar))
		// The range is inclusive, so an equal t must not displace an earlier hit
		if isHit && (closestHit == nil || hit.T < closestSoFar) {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}
