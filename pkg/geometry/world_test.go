package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// fixedHit reports a hit at a fixed t, tagged through its normal
type fixedHit struct {
	t   float64
	tag core.Vec3
}

func (f fixedHit) Hit(ray core.Ray, rng core.Interval) (*core.HitRecord, bool) {
	if !rng.Contains(f.t) {
		return nil, false
	}
	return &core.HitRecord{T: f.t, Point: ray.At(f.t), Normal: f.tag}, true
}

func TestWorld_Empty(t *testing.T) {
	world := NewWorld()
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	if hit, isHit := world.Hit(ray, core.Universe()); isHit || hit != nil {
		t.Errorf("Expected no hit from empty world, got %v", hit)
	}
}

func TestWorld_NearestHit(t *testing.T) {
	near := MustSphere(core.NewVec3(0, 0, -1.5), 1)
	far := MustSphere(core.NewVec3(0, 0, -3), 1)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	tests := []struct {
		name    string
		objects []core.Hittable
	}{
		{"near first", []core.Hittable{near, far}},
		{"far first", []core.Hittable{far, near}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			world := NewWorld(tt.objects...)
			hit, isHit := world.Hit(ray, core.Universe())
			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}
			if math.Abs(hit.T-0.5) > 1e-9 {
				t.Errorf("Expected nearest hit at t=0.5, got t=%f", hit.T)
			}
		})
	}
}

func TestWorld_MatchesMinimumOverMembers(t *testing.T) {
	world := NewWorld(
		MustSphere(core.NewVec3(0, 0, -10), 2),
		MustSphere(core.NewVec3(0.5, 0, -4), 1),
		MustSphere(core.NewVec3(0, -100.5, -1), 100),
		MustSphere(core.NewVec3(-0.3, 0.2, -6), 0.5),
	)

	directions := []core.Vec3{
		core.NewVec3(0, 0, -1),
		core.NewVec3(0.1, -0.05, -1),
		core.NewVec3(0, -1, -1),
		core.NewVec3(-0.05, 0.03, -1),
		core.NewVec3(0, 1, 0),
	}

	for _, dir := range directions {
		ray := core.NewRay(core.NewVec3(0, 0, 0), dir)
		rng := core.NewInterval(0.001, 100)

		expectedT := math.Inf(1)
		for _, object := range world.Objects() {
			if hit, isHit := object.Hit(ray, rng); isHit && hit.T < expectedT {
				expectedT = hit.T
			}
		}

		hit, isHit := world.Hit(ray, rng)
		if math.IsInf(expectedT, 1) {
			if isHit {
				t.Errorf("Direction %v: expected miss, got t=%f", dir, hit.T)
			}
			continue
		}
		if !isHit {
			t.Fatalf("Direction %v: expected hit at t=%f, got miss", dir, expectedT)
		}
		if hit.T != expectedT {
			t.Errorf("Direction %v: expected t=%f, got t=%f", dir, expectedT, hit.T)
		}
	}
}

func TestWorld_TieKeepsFirstObject(t *testing.T) {
	first := fixedHit{t: 2, tag: core.NewVec3(1, 0, 0)}
	second := fixedHit{t: 2, tag: core.NewVec3(0, 1, 0)}
	world := NewWorld(first, second)

	hit, isHit := world.Hit(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), core.Universe())
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}
	if hit.Normal != first.tag {
		t.Errorf("Expected first object to win tie, got normal %v", hit.Normal)
	}
}

func TestWorld_RespectsRange(t *testing.T) {
	world := NewWorld(fixedHit{t: 5}, fixedHit{t: -1})
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1))

	if hit, isHit := world.Hit(ray, core.NewInterval(0, 4)); isHit {
		t.Errorf("Expected miss within [0,4], got t=%f", hit.T)
	}
	hit, isHit := world.Hit(ray, core.NewInterval(0, 5))
	if !isHit || hit.T != 5 {
		t.Errorf("Expected hit at inclusive bound t=5, got %v %v", hit, isHit)
	}
}

func TestWorld_AddClearAndNesting(t *testing.T) {
	world := NewWorld()
	world.Add(MustSphere(core.NewVec3(0, 0, -1), 0.5))
	world.Add(MustSphere(core.NewVec3(0, 0, -1), 0.5))
	if world.Len() != 2 {
		t.Errorf("Expected 2 objects without dedup, got %d", world.Len())
	}

	objects := world.Objects()
	objects[0] = nil
	if world.Objects()[0] == nil {
		t.Error("Objects should return a copy")
	}

	outer := NewWorld(world)
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1))
	if _, isHit := outer.Hit(ray, core.Universe()); !isHit {
		t.Error("Expected nested world to be hittable")
	}

	world.Clear()
	if world.Len() != 0 {
		t.Errorf("Expected empty world after Clear, got %d", world.Len())
	}
	if _, isHit := outer.Hit(ray, core.Universe()); isHit {
		t.Error("Expected miss after clearing nested world")
	}
}
