package qc

// Series is an ordered run of control values. Index 0 holds point 1.
type Series []float64

// Point pairs a 1-based day with its value.
type Point struct {
	Day   int
	Value float64
}

// Points returns the series as (day, value) pairs for export adapters.
func (s Series) Points() []Point {
	out := make([]Point, len(s))
	for i, v := range s {
		out[i] = Point{Day: i + 1, Value: v}
	}
	return out
}

// Clone returns an independent copy of s.
func (s Series) Clone() Series {
	if s == nil {
		return nil
	}
	out := make(Series, len(s))
	copy(out, s)
	return out
}

// Side reports which side of target v falls on: 1 above, -1 below, 0 on target.
func Side(v, target float64) int {
	switch {
	case v > target:
		return 1
	case v < target:
		return -1
	default:
		return 0
	}
}
