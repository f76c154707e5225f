// Package batch wraps dense arrays with logical batch indexing: the trailing
// sample axis is addressed in contiguous groups of up to batchSize samples.
// View operations alias the backing array; get operations copy.
package batch

import (
	"fmt"

	"github.com/imu-dev/nnlib-go/nd"
)

// DelimitedArray wraps an existing dense array whose trailing axis is the
// sample axis, without copying. The last batch may be short when the sample
// count is not a multiple of the batch size.
type DelimitedArray struct {
	data      *nd.Dense
	batchSize int
}

// NewDelimitedArray wraps data (trailing axis = sample) for batch indexing.
func NewDelimitedArray(data *nd.Dense, batchSize int) (*DelimitedArray, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("%w: batch size must be positive, got %d", nd.ErrConfiguration, batchSize)
	}
	if data.NumDims() < 1 {
		return nil, fmt.Errorf("%w: batched array needs a sample axis", nd.ErrDimension)
	}
	return &DelimitedArray{data: data, batchSize: batchSize}, nil
}

// Data returns the backing array.
func (b *DelimitedArray) Data() *nd.Dense { return b.data }

// BatchSize returns the configured batch size.
func (b *DelimitedArray) BatchSize() int { return b.batchSize }

// NumSamples returns the size of the trailing sample axis.
func (b *DelimitedArray) NumSamples() int {
	shape := b.data.Shape()
	return shape[len(shape)-1]
}

// NumBatches returns ceil(NumSamples / batchSize).
func (b *DelimitedArray) NumBatches() int {
	return (b.NumSamples() + b.batchSize - 1) / b.batchSize
}

// sampleRange returns the half-open sample range of batch i.
func (b *DelimitedArray) sampleRange(i int) (from, to int, err error) {
	if i < 0 || i >= b.NumBatches() {
		return 0, 0, fmt.Errorf("%w: batch %d of %d", nd.ErrIndexOutOfRange, i, b.NumBatches())
	}
	from = i * b.batchSize
	to = from + b.batchSize
	if n := b.NumSamples(); to > n {
		to = n
	}
	return from, to, nil
}

// ViewBatch returns an aliasing view over batch i's samples.
func (b *DelimitedArray) ViewBatch(i int) (nd.View, error) {
	from, to, err := b.sampleRange(i)
	if err != nil {
		return nd.View{}, err
	}
	return b.data.View().Slice(b.data.NumDims()-1, from, to)
}

// Batch returns a copy of batch i's samples.
func (b *DelimitedArray) Batch(i int) (*nd.Dense, error) {
	v, err := b.ViewBatch(i)
	if err != nil {
		return nil, err
	}
	return v.Materialize(), nil
}

// SetBatch writes value into batch i's samples in place. A value shaped like
// the batch view is copied elementwise; a single-element value is broadcast
// across the whole batch.
func (b *DelimitedArray) SetBatch(i int, value *nd.Dense) error {
	v, err := b.ViewBatch(i)
	if err != nil {
		return err
	}
	return assignBroadcast(v, value)
}

func assignBroadcast(dst nd.View, value *nd.Dense) error {
	if value.NumElements() == 1 && dst.NumElements() != 1 {
		dst.Fill(value.Data()[0])
		return nil
	}
	return dst.AssignDense(value)
}

// TemporalContainer is a preallocated, zero-filled dense array whose trailing
// two axes are time then sample, used to collect arranger or model output by
// logical batch (and optionally timestep) index. Allocated once; mutated in
// place; never resized.
type TemporalContainer struct {
	arr *DelimitedArray
}

// NewTemporalContainer preallocates a zero-filled array of the given shape
// (second-to-last axis = time, last axis = sample).
func NewTemporalContainer(shape nd.Shape, batchSize int) (*TemporalContainer, error) {
	if len(shape) < 2 {
		return nil, fmt.Errorf("%w: temporal container needs a time axis and a sample axis, got shape %v",
			nd.ErrDimension, shape)
	}
	data, err := nd.NewDense(shape)
	if err != nil {
		return nil, err
	}
	arr, err := NewDelimitedArray(data, batchSize)
	if err != nil {
		return nil, err
	}
	return &TemporalContainer{arr: arr}, nil
}

// Data returns the backing array (StackedArray layout).
func (c *TemporalContainer) Data() *nd.Dense { return c.arr.Data() }

// BatchSize returns the configured batch size.
func (c *TemporalContainer) BatchSize() int { return c.arr.BatchSize() }

// NumSamples returns the size of the trailing sample axis.
func (c *TemporalContainer) NumSamples() int { return c.arr.NumSamples() }

// NumTimepoints returns the size of the time axis.
func (c *TemporalContainer) NumTimepoints() int {
	shape := c.arr.Data().Shape()
	return shape[len(shape)-2]
}

// NumBatches returns ceil(NumSamples / batchSize).
func (c *TemporalContainer) NumBatches() int { return c.arr.NumBatches() }

// ViewBatch returns an aliasing view over batch i's samples across all
// timepoints.
func (c *TemporalContainer) ViewBatch(i int) (nd.View, error) { return c.arr.ViewBatch(i) }

// Batch returns a copy of batch i's samples across all timepoints.
func (c *TemporalContainer) Batch(i int) (*nd.Dense, error) { return c.arr.Batch(i) }

// SetBatch writes value into batch i across all timepoints.
func (c *TemporalContainer) SetBatch(i int, value *nd.Dense) error { return c.arr.SetBatch(i, value) }

// ViewBatchAt returns an aliasing view over batch i at timestep t, with the
// time axis removed.
func (c *TemporalContainer) ViewBatchAt(i, t int) (nd.View, error) {
	v, err := c.arr.ViewBatch(i)
	if err != nil {
		return nd.View{}, err
	}
	timeAxis := v.NumDims() - 2
	if t < 0 || t >= c.NumTimepoints() {
		return nd.View{}, fmt.Errorf("%w: timestep %d of %d", nd.ErrIndexOutOfRange, t, c.NumTimepoints())
	}
	return v.Pick(timeAxis, t)
}

// BatchAt returns a copy of batch i at timestep t.
func (c *TemporalContainer) BatchAt(i, t int) (*nd.Dense, error) {
	v, err := c.ViewBatchAt(i, t)
	if err != nil {
		return nil, err
	}
	return v.Materialize(), nil
}

// SetBatchAt writes value into batch i at timestep t in place.
func (c *TemporalContainer) SetBatchAt(i, t int, value *nd.Dense) error {
	v, err := c.ViewBatchAt(i, t)
	if err != nil {
		return err
	}
	return assignBroadcast(v, value)
}
