package math

// Box3 is an axis-aligned bounding box.
type Box3 struct {
	Min Vec3 `json:"min"`
	Max Vec3 `json:"max"`
}

// BoundsOf returns the box enclosing every point. The second result is
// false when points is empty.
func BoundsOf(points []Vec3) (Box3, bool) {
	if len(points) == 0 {
		return Box3{}, false
	}
	box := Box3{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box = box.Extend(p)
	}
	return box, true
}

// Extend returns the box grown to include p.
func (b Box3) Extend(p Vec3) Box3 {
	return Box3{Min: b.Min.Min(p), Max: b.Max.Max(p)}
}
