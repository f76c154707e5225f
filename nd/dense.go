// Package nd provides the dense N-dimensional array, strided views and
// element-type codec underlying the layout, window, temporal and batch
// packages. Arrays are row-major float64; views alias the backing slice
// without copying.
package nd

import "fmt"

// Dense is a row-major N-dimensional array backed by a contiguous float64
// slice. The zero value is not usable; construct with NewDense or FromSlice.
type Dense struct {
	shape Shape
	data  []float64
}

// NewDense allocates a zero-filled array of the given shape.
func NewDense(shape Shape) (*Dense, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	return &Dense{
		shape: shape.Clone(),
		data:  make([]float64, shape.NumElements()),
	}, nil
}

// FromSlice wraps an existing value slice, whose length must match the shape
// exactly. The slice is not copied; the returned array aliases it.
func FromSlice(shape Shape, values []float64) (*Dense, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if len(values) != shape.NumElements() {
		return nil, fmt.Errorf("%w: %d values for shape %v (%d elements)",
			ErrShapeMismatch, len(values), shape, shape.NumElements())
	}
	return &Dense{shape: shape.Clone(), data: values}, nil
}

// MustDense is NewDense for shapes known valid at the call site; it panics on
// error. Intended for tests and literals.
func MustDense(shape Shape) *Dense {
	d, err := NewDense(shape)
	if err != nil {
		panic(err)
	}
	return d
}

// Shape returns the array's shape. The caller must not modify it.
func (d *Dense) Shape() Shape { return d.shape }

// NumDims returns the rank of the array.
func (d *Dense) NumDims() int { return len(d.shape) }

// NumElements returns the total element count.
func (d *Dense) NumElements() int { return len(d.data) }

// Data exposes the backing slice in row-major order. Mutations are visible to
// every view of the array.
func (d *Dense) Data() []float64 { return d.data }

// At returns the element at the given multi-index.
func (d *Dense) At(idx ...int) float64 { return d.data[d.offsetOf(idx)] }

// Set stores v at the given multi-index.
func (d *Dense) Set(v float64, idx ...int) { d.data[d.offsetOf(idx)] = v }

func (d *Dense) offsetOf(idx []int) int {
	if len(idx) != len(d.shape) {
		panic(fmt.Sprintf("nd: %d indices for rank-%d array", len(idx), len(d.shape)))
	}
	off := 0
	stride := 1
	for i := len(idx) - 1; i >= 0; i-- {
		if idx[i] < 0 || idx[i] >= d.shape[i] {
			panic(fmt.Sprintf("nd: index %d out of range for axis %d (size %d)", idx[i], i, d.shape[i]))
		}
		off += idx[i] * stride
		stride *= d.shape[i]
	}
	return off
}

// View returns a full aliasing view of the array.
func (d *Dense) View() View {
	return View{
		data:    d.data,
		shape:   d.shape.Clone(),
		strides: contiguousStrides(d.shape),
	}
}

// Clone returns a deep copy.
func (d *Dense) Clone() *Dense {
	data := make([]float64, len(d.data))
	copy(data, d.data)
	return &Dense{shape: d.shape.Clone(), data: data}
}

// Reshape returns an array of the new shape sharing this array's backing
// slice. The element count must be unchanged.
func (d *Dense) Reshape(shape Shape) (*Dense, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() != len(d.data) {
		return nil, fmt.Errorf("%w: cannot reshape %v (%d elements) to %v (%d elements)",
			ErrShapeMismatch, d.shape, len(d.data), shape, shape.NumElements())
	}
	return &Dense{shape: shape.Clone(), data: d.data}, nil
}

// Equal reports exact (bitwise) equality of shape and elements.
func (d *Dense) Equal(o *Dense) bool {
	if !d.shape.Equal(o.shape) {
		return false
	}
	for i, v := range d.data {
		if v != o.data[i] {
			return false
		}
	}
	return true
}
