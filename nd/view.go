package nd

import "fmt"

// View is a strided window into a Dense array's backing slice: an offset plus
// per-axis element strides. Slicing and picking re-describe the same storage;
// Materialize copies out, Assign and Fill write through. A View stays valid
// for as long as the array it was derived from.
type View struct {
	data    []float64
	shape   Shape
	strides []int
	offset  int
}

// Shape returns the view's shape. The caller must not modify it.
func (v View) Shape() Shape { return v.shape }

// NumDims returns the rank of the view.
func (v View) NumDims() int { return len(v.shape) }

// NumElements returns the number of elements the view spans.
func (v View) NumElements() int { return v.shape.NumElements() }

// At returns the element at the given multi-index.
func (v View) At(idx ...int) float64 { return v.data[v.offsetOf(idx)] }

// Set stores x at the given multi-index, writing through to the backing array.
func (v View) Set(x float64, idx ...int) { v.data[v.offsetOf(idx)] = x }

func (v View) offsetOf(idx []int) int {
	if len(idx) != len(v.shape) {
		panic(fmt.Sprintf("nd: %d indices for rank-%d view", len(idx), len(v.shape)))
	}
	off := v.offset
	for i, j := range idx {
		if j < 0 || j >= v.shape[i] {
			panic(fmt.Sprintf("nd: index %d out of range for axis %d (size %d)", j, i, v.shape[i]))
		}
		off += j * v.strides[i]
	}
	return off
}

// Slice restricts one axis to the half-open range [from, to), keeping the
// axis in place.
func (v View) Slice(axis, from, to int) (View, error) {
	if axis < 0 || axis >= len(v.shape) {
		return View{}, fmt.Errorf("%w: axis %d of rank-%d view", ErrIndexOutOfRange, axis, len(v.shape))
	}
	if from < 0 || to < from || to > v.shape[axis] {
		return View{}, fmt.Errorf("%w: slice [%d, %d) on axis %d (size %d)",
			ErrIndexOutOfRange, from, to, axis, v.shape[axis])
	}
	out := View{
		data:    v.data,
		shape:   v.shape.Clone(),
		strides: append([]int(nil), v.strides...),
		offset:  v.offset + from*v.strides[axis],
	}
	out.shape[axis] = to - from
	return out, nil
}

// Pick selects index i along one axis and removes that axis, reducing the
// rank by one.
func (v View) Pick(axis, i int) (View, error) {
	if axis < 0 || axis >= len(v.shape) {
		return View{}, fmt.Errorf("%w: axis %d of rank-%d view", ErrIndexOutOfRange, axis, len(v.shape))
	}
	if i < 0 || i >= v.shape[axis] {
		return View{}, fmt.Errorf("%w: index %d on axis %d (size %d)",
			ErrIndexOutOfRange, i, axis, v.shape[axis])
	}
	shape := make(Shape, 0, len(v.shape)-1)
	strides := make([]int, 0, len(v.shape)-1)
	for k := range v.shape {
		if k == axis {
			continue
		}
		shape = append(shape, v.shape[k])
		strides = append(strides, v.strides[k])
	}
	return View{
		data:    v.data,
		shape:   shape,
		strides: strides,
		offset:  v.offset + i*v.strides[axis],
	}, nil
}

// Materialize copies the view's elements into a fresh contiguous array.
func (v View) Materialize() *Dense {
	out := &Dense{
		shape: v.shape.Clone(),
		data:  make([]float64, v.shape.NumElements()),
	}
	i := 0
	v.walk(func(off int) {
		out.data[i] = v.data[off]
		i++
	})
	return out
}

// Assign copies src's elements into the view, writing through to the backing
// array. Shapes must match exactly.
func (v View) Assign(src View) error {
	if !v.shape.Equal(src.shape) {
		return fmt.Errorf("%w: assigning %v into view %v", ErrShapeMismatch, src.shape, v.shape)
	}
	it := newOffsetIter(src)
	v.walk(func(off int) {
		srcOff, _ := it.next()
		v.data[off] = src.data[srcOff]
	})
	return nil
}

// AssignDense copies a dense array into the view. Shapes must match exactly.
func (v View) AssignDense(src *Dense) error {
	return v.Assign(src.View())
}

// Fill sets every element of the view to x.
func (v View) Fill(x float64) {
	v.walk(func(off int) { v.data[off] = x })
}

// walk visits every element offset in row-major order of the view's shape
// (last axis fastest).
func (v View) walk(fn func(off int)) {
	if v.shape.NumElements() == 0 {
		return
	}
	if len(v.shape) == 0 {
		fn(v.offset)
		return
	}
	idx := make([]int, len(v.shape))
	off := v.offset
	for {
		fn(off)
		k := len(idx) - 1
		for ; k >= 0; k-- {
			idx[k]++
			off += v.strides[k]
			if idx[k] < v.shape[k] {
				break
			}
			idx[k] = 0
			off -= v.shape[k] * v.strides[k]
		}
		if k < 0 {
			return
		}
	}
}

// offsetIter steps through a view's element offsets in row-major order.
type offsetIter struct {
	v    View
	idx  []int
	off  int
	done bool
}

func newOffsetIter(v View) *offsetIter {
	return &offsetIter{
		v:    v,
		idx:  make([]int, len(v.shape)),
		off:  v.offset,
		done: v.shape.NumElements() == 0,
	}
}

func (it *offsetIter) next() (int, bool) {
	if it.done {
		return 0, false
	}
	off := it.off
	if len(it.idx) == 0 {
		it.done = true
		return off, true
	}
	k := len(it.idx) - 1
	for ; k >= 0; k-- {
		it.idx[k]++
		it.off += it.v.strides[k]
		if it.idx[k] < it.v.shape[k] {
			break
		}
		it.idx[k] = 0
		it.off -= it.v.shape[k] * it.v.strides[k]
	}
	if k < 0 {
		it.done = true
	}
	return off, true
}
