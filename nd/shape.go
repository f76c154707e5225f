package nd

import "fmt"

// Shape holds the dimension sizes of an array, outermost axis first. Which
// axis means state, time or sample is assigned by the layout package; Shape
// itself is pure geometry.
type Shape []int

// NumElements returns the product of all dimensions. An empty shape describes
// a scalar and reports 1; any zero dimension reports 0.
func (s Shape) NumElements() int {
	n := 1
	for _, d := range s {
		n *= d
	}
	return n
}

// Equal reports whether two shapes have the same rank and dimensions.
func (s Shape) Equal(o Shape) bool {
	if len(s) != len(o) {
		return false
	}
	for i, d := range s {
		if d != o[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the shape.
func (s Shape) Clone() Shape {
	out := make(Shape, len(s))
	copy(out, s)
	return out
}

// Validate checks that every dimension is non-negative.
func (s Shape) Validate() error {
	for i, d := range s {
		if d < 0 {
			return fmt.Errorf("%w: axis %d has negative size %d", ErrConfiguration, i, d)
		}
	}
	return nil
}

// contiguousStrides computes row-major element strides for a shape: the last
// axis is contiguous and each earlier axis strides over everything inside it.
func contiguousStrides(s Shape) []int {
	if len(s) == 0 {
		return nil
	}
	strides := make([]int, len(s))
	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}
