package tree

// Point represents a vector in the cover tree. Index is the caller's handle
// assigned on insert.
type Point struct {
	index     int32
	Magnitude float32
	Vector    []float32
}

// Index returns the handle assigned when the point was inserted, or -1.
func (p *Point) Index() int32 {
	if p == nil {
		return -1
	}
	return p.index
}

// NewPoint constructs a point for the given vector.
func NewPoint(vector ...float32) *Point {
	return &Point{index: -1, Vector: vector}
}
