package layout

import (
	"fmt"

	"github.com/imu-dev/nnlib-go/nd"
)

// SkipFirstTimestep returns a view of a with the first slice along timeAxis
// removed. The returned view aliases a's storage.
func SkipFirstTimestep(a *nd.Dense, timeAxis int) (nd.View, error) {
	if err := checkTimeAxis(a, timeAxis); err != nil {
		return nd.View{}, err
	}
	return a.View().Slice(timeAxis, 1, a.Shape()[timeAxis])
}

// SelectFirstTimestep returns a view of the first slice along timeAxis, with
// that axis removed. The returned view aliases a's storage.
func SelectFirstTimestep(a *nd.Dense, timeAxis int) (nd.View, error) {
	if err := checkTimeAxis(a, timeAxis); err != nil {
		return nd.View{}, err
	}
	return a.View().Pick(timeAxis, 0)
}

// PeelFirstTimestep splits a at timeAxis into the first timestep (axis
// removed) and the remaining steps. Both views alias a's storage.
func PeelFirstTimestep(a *nd.Dense, timeAxis int) (first, rest nd.View, err error) {
	first, err = SelectFirstTimestep(a, timeAxis)
	if err != nil {
		return nd.View{}, nd.View{}, err
	}
	rest, err = SkipFirstTimestep(a, timeAxis)
	if err != nil {
		return nd.View{}, nd.View{}, err
	}
	return first, rest, nil
}

func checkTimeAxis(a *nd.Dense, timeAxis int) error {
	if timeAxis < 0 || timeAxis >= a.NumDims() {
		return fmt.Errorf("%w: time axis %d of rank-%d array", nd.ErrIndexOutOfRange, timeAxis, a.NumDims())
	}
	if a.Shape()[timeAxis] == 0 {
		return fmt.Errorf("%w: time axis %d has length 0", nd.ErrDimension, timeAxis)
	}
	return nil
}

// SelectAlongTrailingAxis returns a view of slice i along the last axis, with
// that axis removed. The returned view aliases a's storage.
func SelectAlongTrailingAxis(a *nd.Dense, i int) (nd.View, error) {
	if a.NumDims() == 0 {
		return nd.View{}, fmt.Errorf("%w: scalar has no trailing axis", nd.ErrDimension)
	}
	return a.View().Pick(a.NumDims()-1, i)
}

// MergeAlongTrailingAxis concatenates the inputs along their last axis. All
// inputs must agree on every non-trailing axis. The output is preallocated
// and filled slice by slice rather than grown by repeated concatenation, so
// the peak overhead is one output array regardless of the collection size.
func MergeAlongTrailingAxis(seq []*nd.Dense) (*nd.Dense, error) {
	if len(seq) == 0 {
		return nil, fmt.Errorf("%w: merging an empty collection", nd.ErrDimension)
	}
	first := seq[0].Shape()
	if len(first) == 0 {
		return nil, fmt.Errorf("%w: scalar has no trailing axis", nd.ErrDimension)
	}
	lead := first[:len(first)-1]
	total := 0
	for i, a := range seq {
		shape := a.Shape()
		if len(shape) != len(first) || !shape[:len(shape)-1].Equal(lead) {
			return nil, fmt.Errorf("%w: input %d has shape %v, want leading axes %v",
				nd.ErrShapeMismatch, i, shape, lead)
		}
		total += shape[len(shape)-1]
	}

	outShape := append(lead.Clone(), total)
	out, err := nd.NewDense(outShape)
	if err != nil {
		return nil, err
	}
	axis := len(outShape) - 1
	pos := 0
	for _, a := range seq {
		n := a.Shape()[axis]
		dst, err := out.View().Slice(axis, pos, pos+n)
		if err != nil {
			return nil, err
		}
		if err := dst.AssignDense(a); err != nil {
			return nil, err
		}
		pos += n
	}
	return out, nil
}

// FlattenForBatch collapses all leading axes of a into one, keeping the
// trailing (sample) axis, for consumption by feed-forward models. The result
// shares a's backing storage.
func FlattenForBatch(a *nd.Dense) (*nd.Dense, error) {
	shape := a.Shape()
	if len(shape) == 0 {
		return nil, fmt.Errorf("%w: scalar has no trailing axis", nd.ErrDimension)
	}
	lead := 1
	for _, d := range shape[:len(shape)-1] {
		lead *= d
	}
	return a.Reshape(nd.Shape{lead, shape[len(shape)-1]})
}
