// Package temporal splits time-aligned state and observation recordings into
// per-timestep collections, supports batch-indexed retrieval, and walks the
// two collections with a policy-driven iterator.
package temporal

import (
	"fmt"

	"github.com/imu-dev/nnlib-go/layout"
	"github.com/imu-dev/nnlib-go/nd"
)

// Data owns a state sequence xx and an observation sequence yy (Timeseries
// collection layout: one array per timestep, trailing axis = sample), plus an
// optional time-zero pair x0/y0. It is built once from raw arrays and
// immutable afterwards.
type Data struct {
	xx, yy []*nd.Dense
	x0, y0 *nd.Dense
}

type options struct {
	skipFirst bool
	x0, y0    *nd.Dense
}

// Option configures New.
type Option func(*options)

// WithSkipFirst peels the first timestep of both inputs off into the x0/y0
// pair instead of keeping it in the sequences.
func WithSkipFirst() Option {
	return func(o *options) { o.skipFirst = true }
}

// WithInitialState supplies an explicit initial state. An explicit value
// always wins over the one peeled off by WithSkipFirst.
func WithInitialState(x0 *nd.Dense) Option {
	return func(o *options) { o.x0 = x0 }
}

// WithInitialObservation supplies an explicit initial observation. An
// explicit value always wins over the one peeled off by WithSkipFirst.
func WithInitialObservation(y0 *nd.Dense) Option {
	return func(o *options) { o.y0 = y0 }
}

// New splits the state array x and observation array y (trailing axis = time,
// second-to-last axis = sample) into per-timestep collections. With
// WithSkipFirst the first timestep of each input becomes the initial pair.
// The initial pair is all-or-nothing: a container either has both x0 and y0
// or neither.
func New(x, y *nd.Dense, opts ...Option) (*Data, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	xx, x0, err := split(x, o.skipFirst)
	if err != nil {
		return nil, fmt.Errorf("state input: %w", err)
	}
	yy, y0, err := split(y, o.skipFirst)
	if err != nil {
		return nil, fmt.Errorf("observation input: %w", err)
	}
	// Explicit initial values override the peeled ones.
	if o.x0 != nil {
		x0 = o.x0
	}
	if o.y0 != nil {
		y0 = o.y0
	}
	if (x0 == nil) != (y0 == nil) {
		return nil, fmt.Errorf("%w: initial state and observation must both be set or both be absent",
			nd.ErrConfiguration)
	}
	return &Data{xx: xx, yy: yy, x0: x0, y0: y0}, nil
}

// NewFromSeries builds a container directly from per-timestep collections.
// Explicit initial values may be supplied through options; WithSkipFirst
// peels the first element of each collection.
func NewFromSeries(xx, yy []*nd.Dense, opts ...Option) (*Data, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	var x0, y0 *nd.Dense
	if o.skipFirst {
		if len(xx) == 0 || len(yy) == 0 {
			return nil, fmt.Errorf("%w: cannot skip the first timestep of an empty sequence", nd.ErrDimension)
		}
		x0, xx = xx[0], xx[1:]
		y0, yy = yy[0], yy[1:]
	}
	if o.x0 != nil {
		x0 = o.x0
	}
	if o.y0 != nil {
		y0 = o.y0
	}
	if (x0 == nil) != (y0 == nil) {
		return nil, fmt.Errorf("%w: initial state and observation must both be set or both be absent",
			nd.ErrConfiguration)
	}
	return &Data{xx: xx, yy: yy, x0: x0, y0: y0}, nil
}

// split slices a (*state, sample, time) array along its trailing time axis
// into a collection of (*state, sample) arrays, optionally peeling off the
// first timestep.
func split(a *nd.Dense, skipFirst bool) (seq []*nd.Dense, first *nd.Dense, err error) {
	shape := a.Shape()
	if len(shape) < 1 {
		return nil, nil, fmt.Errorf("%w: input needs a time axis", nd.ErrDimension)
	}
	timeAxis := len(shape) - 1
	steps := shape[timeAxis]
	if skipFirst {
		fv, _, err := layout.PeelFirstTimestep(a, timeAxis)
		if err != nil {
			return nil, nil, err
		}
		first = fv.Materialize()
	}
	start := 0
	if skipFirst {
		start = 1
	}
	seq = make([]*nd.Dense, 0, steps-start)
	for t := start; t < steps; t++ {
		slice, err := a.View().Pick(timeAxis, t)
		if err != nil {
			return nil, nil, err
		}
		seq = append(seq, slice.Materialize())
	}
	return seq, first, nil
}

// XX returns the state sequence. The caller must not modify it.
func (d *Data) XX() []*nd.Dense { return d.xx }

// YY returns the observation sequence. The caller must not modify it.
func (d *Data) YY() []*nd.Dense { return d.yy }

// X0 returns the initial state, or nil when the container has none.
func (d *Data) X0() *nd.Dense { return d.x0 }

// Y0 returns the initial observation, or nil when the container has none.
func (d *Data) Y0() *nd.Dense { return d.y0 }

// HasInitial reports whether the container carries an initial pair.
func (d *Data) HasInitial() bool { return d.x0 != nil }

// NumSamplesTotal returns the sample count shared by the per-timestep arrays.
func (d *Data) NumSamplesTotal() int {
	switch {
	case len(d.xx) > 0:
		n, err := layout.NumSamplesSeries(d.xx)
		if err != nil {
			return 0
		}
		return n
	case len(d.yy) > 0:
		n, err := layout.NumSamplesSeries(d.yy)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// Sample holds the slices of one sample (or sample range) of a container. X0
// and Y0 are nil when the container has no initial pair.
type Sample struct {
	X0, Y0 *nd.Dense
	XX, YY []*nd.Dense
}

// Observations returns copies of sample i's slice of every per-timestep array
// and, when present, of the initial pair.
func (d *Data) Observations(i int) (*Sample, error) {
	n := d.NumSamplesTotal()
	if i < 0 || i >= n {
		return nil, fmt.Errorf("%w: sample %d of %d", nd.ErrIndexOutOfRange, i, n)
	}
	pick := func(a *nd.Dense) (*nd.Dense, error) {
		v, err := layout.SelectAlongTrailingAxis(a, i)
		if err != nil {
			return nil, err
		}
		return v.Materialize(), nil
	}
	return d.gather(pick)
}

// ObservationsRange returns copies of the samples in the half-open range
// [from, to) of every per-timestep array and, when present, of the initial
// pair. The sample axis is retained.
func (d *Data) ObservationsRange(from, to int) (*Sample, error) {
	n := d.NumSamplesTotal()
	if from < 0 || to < from || to > n {
		return nil, fmt.Errorf("%w: sample range [%d, %d) of %d", nd.ErrIndexOutOfRange, from, to, n)
	}
	pick := func(a *nd.Dense) (*nd.Dense, error) {
		v, err := a.View().Slice(a.NumDims()-1, from, to)
		if err != nil {
			return nil, err
		}
		return v.Materialize(), nil
	}
	return d.gather(pick)
}

func (d *Data) gather(pick func(*nd.Dense) (*nd.Dense, error)) (*Sample, error) {
	out := &Sample{
		XX: make([]*nd.Dense, len(d.xx)),
		YY: make([]*nd.Dense, len(d.yy)),
	}
	var err error
	if d.x0 != nil {
		if out.X0, err = pick(d.x0); err != nil {
			return nil, err
		}
		if out.Y0, err = pick(d.y0); err != nil {
			return nil, err
		}
	}
	for t, a := range d.xx {
		if out.XX[t], err = pick(a); err != nil {
			return nil, err
		}
	}
	for t, a := range d.yy {
		if out.YY[t], err = pick(a); err != nil {
			return nil, err
		}
	}
	return out, nil
}
