package core

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     Vec3    // Point of intersection
	Normal    Vec3    // Unit surface normal, always opposing the ray
	T         float64 // Parameter t along the ray
	FrontFace bool    // Whether ray hit the outside of the surface
}

// SetFaceNormal orients the normal against the incoming ray.
// outwardNormal must be unit length.
func (h *HitRecord) SetFaceNormal(ray Ray, outwardNormal Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// Hittable is implemented by anything a ray can be tested against.
// A successful hit has T inside rng.
type Hittable interface {
	Hit(ray Ray, rng Interval) (*HitRecord, bool)
}
