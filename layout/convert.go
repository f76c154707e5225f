package layout

import (
	"fmt"

	"github.com/imu-dev/nnlib-go/nd"
)

// StackedToSeries slices a StackedArray (*state, time, sample) along its time
// axis into a Timeseries collection of (*state, sample) arrays. Each element
// is an independent copy; SeriesToStacked inverts the operation exactly.
func StackedToSeries(a *nd.Dense) ([]*nd.Dense, error) {
	shape := a.Shape()
	if len(shape) < 2 {
		return nil, fmt.Errorf("%w: StackedArray needs at least 2 axes, got shape %v", nd.ErrDimension, shape)
	}
	timeAxis := len(shape) - 2
	out := make([]*nd.Dense, shape[timeAxis])
	for t := range out {
		slice, err := a.View().Pick(timeAxis, t)
		if err != nil {
			return nil, err
		}
		out[t] = slice.Materialize()
	}
	return out, nil
}

// SeriesToStacked packs a Timeseries collection of (*state, sample) arrays
// into a StackedArray (*state, time, sample). The output is preallocated and
// each timestep is copied into place.
func SeriesToStacked(seq []*nd.Dense) (*nd.Dense, error) {
	if len(seq) == 0 {
		return nil, fmt.Errorf("%w: empty timeseries collection", nd.ErrDimension)
	}
	elem := seq[0].Shape()
	if len(elem) < 1 {
		return nil, fmt.Errorf("%w: timeseries elements need at least 1 axis", nd.ErrDimension)
	}
	for i, a := range seq {
		if !a.Shape().Equal(elem) {
			return nil, fmt.Errorf("%w: element %d has shape %v, want %v",
				nd.ErrShapeMismatch, i, a.Shape(), elem)
		}
	}

	state := elem[:len(elem)-1]
	samples := elem[len(elem)-1]
	outShape := append(state.Clone(), len(seq), samples)
	out, err := nd.NewDense(outShape)
	if err != nil {
		return nil, err
	}
	timeAxis := len(outShape) - 2
	for t, a := range seq {
		dst, err := out.View().Pick(timeAxis, t)
		if err != nil {
			return nil, err
		}
		if err := dst.AssignDense(a); err != nil {
			return nil, err
		}
	}
	return out, nil
}
