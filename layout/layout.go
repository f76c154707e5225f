// Package layout defines the closed set of data layout conventions used to
// arrange state, time and sample axes inside an array or a collection of
// arrays, together with shape queries, axis utilities and the explicit
// conversions between layouts.
//
// The four layouts are:
//
//   - SingleTimeseries: one array, trailing axis = time, one implicit sample.
//   - Timeseries: an ordered []*nd.Dense, one element per timepoint, each
//     element's trailing axis = sample.
//   - SingleObsTimeseries: one element of a Timeseries collection
//     (state x sample, no time axis).
//   - StackedArray: one array, last axis = sample, second-to-last = time,
//     leading axes = state space.
//
// Layout identity never changes implicitly: every conversion is a named
// function between two specific layouts.
package layout

import (
	"fmt"

	"github.com/imu-dev/nnlib-go/nd"
)

// Kind tags one of the four array layouts. Timeseries data is a collection
// rather than a single array, so its queries live in the *Series functions.
type Kind int

const (
	SingleTimeseries Kind = iota
	Timeseries
	SingleObsTimeseries
	StackedArray
)

func (k Kind) String() string {
	switch k {
	case SingleTimeseries:
		return "SingleTimeseries"
	case Timeseries:
		return "Timeseries"
	case SingleObsTimeseries:
		return "SingleObsTimeseries"
	case StackedArray:
		return "StackedArray"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// StateDim returns the state-space axes of a: every axis except the time and
// sample axes of the given layout. Timeseries data is a collection; use
// StateDimSeries for it.
func StateDim(k Kind, a *nd.Dense) (nd.Shape, error) {
	shape := a.Shape()
	switch k {
	case SingleTimeseries, SingleObsTimeseries:
		if len(shape) < 1 {
			return nil, fmt.Errorf("%w: %s needs at least 1 axis, got shape %v", nd.ErrDimension, k, shape)
		}
		return shape[:len(shape)-1].Clone(), nil
	case StackedArray:
		if len(shape) < 2 {
			return nil, fmt.Errorf("%w: %s needs at least 2 axes, got shape %v", nd.ErrDimension, k, shape)
		}
		return shape[:len(shape)-2].Clone(), nil
	case Timeseries:
		return nil, fmt.Errorf("%w: %s is a collection layout, use StateDimSeries", nd.ErrConfiguration, k)
	default:
		return nil, fmt.Errorf("%w: unknown layout %s", nd.ErrConfiguration, k)
	}
}

// StateDimSeries returns the state-space axes of a Timeseries collection by
// delegating to its first element.
func StateDimSeries(seq []*nd.Dense) (nd.Shape, error) {
	if len(seq) == 0 {
		return nil, fmt.Errorf("%w: empty timeseries collection", nd.ErrDimension)
	}
	return StateDim(SingleObsTimeseries, seq[0])
}

// NumSamples returns the sample count of a under the given layout. A
// SingleTimeseries carries exactly one sample.
func NumSamples(k Kind, a *nd.Dense) (int, error) {
	shape := a.Shape()
	switch k {
	case SingleTimeseries:
		return 1, nil
	case SingleObsTimeseries, StackedArray:
		if len(shape) < 1 {
			return 0, fmt.Errorf("%w: %s needs at least 1 axis, got shape %v", nd.ErrDimension, k, shape)
		}
		return shape[len(shape)-1], nil
	case Timeseries:
		return 0, fmt.Errorf("%w: %s is a collection layout, use NumSamplesSeries", nd.ErrConfiguration, k)
	default:
		return 0, fmt.Errorf("%w: unknown layout %s", nd.ErrConfiguration, k)
	}
}

// NumSamplesSeries returns the sample count of a Timeseries collection.
func NumSamplesSeries(seq []*nd.Dense) (int, error) {
	if len(seq) == 0 {
		return 0, fmt.Errorf("%w: empty timeseries collection", nd.ErrDimension)
	}
	return NumSamples(SingleObsTimeseries, seq[0])
}

// NumTimepoints returns the timepoint count of a under the given layout. A
// SingleObsTimeseries is a single timepoint.
func NumTimepoints(k Kind, a *nd.Dense) (int, error) {
	shape := a.Shape()
	switch k {
	case SingleTimeseries:
		if len(shape) < 1 {
			return 0, fmt.Errorf("%w: %s needs at least 1 axis, got shape %v", nd.ErrDimension, k, shape)
		}
		return shape[len(shape)-1], nil
	case SingleObsTimeseries:
		return 1, nil
	case StackedArray:
		if len(shape) < 2 {
			return 0, fmt.Errorf("%w: %s needs at least 2 axes, got shape %v", nd.ErrDimension, k, shape)
		}
		return shape[len(shape)-2], nil
	case Timeseries:
		return 0, fmt.Errorf("%w: %s is a collection layout, use NumTimepointsSeries", nd.ErrConfiguration, k)
	default:
		return 0, fmt.Errorf("%w: unknown layout %s", nd.ErrConfiguration, k)
	}
}

// NumTimepointsSeries returns the timepoint count of a Timeseries collection,
// which is its length.
func NumTimepointsSeries(seq []*nd.Dense) (int, error) {
	return len(seq), nil
}
