package math

// Vec2 is a 2D vector, used for texture coordinates.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
