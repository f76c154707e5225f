package batch

import (
	"errors"
	"testing"

	"github.com/imu-dev/nnlib-go/nd"
)

func ramp(shape nd.Shape) *nd.Dense {
	vals := make([]float64, shape.NumElements())
	for i := range vals {
		vals[i] = float64(i)
	}
	d, err := nd.FromSlice(shape, vals)
	if err != nil {
		panic(err)
	}
	return d
}

func TestDelimitedArray_Batching(t *testing.T) {
	// 10 samples, batch size 3: batches of 3, 3, 3 and a short final 1.
	b, err := NewDelimitedArray(ramp(nd.Shape{2, 10}), 3)
	if err != nil {
		t.Fatal(err)
	}
	if b.NumBatches() != 4 {
		t.Fatalf("NumBatches = %d, want 4", b.NumBatches())
	}
	if b.NumSamples() != 10 {
		t.Fatalf("NumSamples = %d, want 10", b.NumSamples())
	}

	first, err := b.Batch(0)
	if err != nil {
		t.Fatal(err)
	}
	if !first.Shape().Equal(nd.Shape{2, 3}) {
		t.Errorf("batch 0 shape = %v, want [2 3]", first.Shape())
	}

	last, err := b.Batch(3)
	if err != nil {
		t.Fatal(err)
	}
	if !last.Shape().Equal(nd.Shape{2, 1}) {
		t.Errorf("final batch shape = %v, want [2 1]", last.Shape())
	}
	// Sample 9 of a (2, 10) ramp: values 9 and 19.
	if last.At(0, 0) != 9 || last.At(1, 0) != 19 {
		t.Errorf("final batch values = (%v, %v), want (9, 19)", last.At(0, 0), last.At(1, 0))
	}

	if _, err := b.Batch(4); !errors.Is(err, nd.ErrIndexOutOfRange) {
		t.Errorf("Batch(4) error = %v, want ErrIndexOutOfRange", err)
	}
	if _, err := b.Batch(-1); !errors.Is(err, nd.ErrIndexOutOfRange) {
		t.Errorf("Batch(-1) error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestDelimitedArray_ViewAliases(t *testing.T) {
	data := ramp(nd.Shape{2, 6})
	b, _ := NewDelimitedArray(data, 2)

	v, err := b.ViewBatch(1)
	if err != nil {
		t.Fatal(err)
	}
	v.Set(-1, 0, 0)
	if data.At(0, 2) != -1 {
		t.Error("ViewBatch should alias the backing array")
	}

	// Batch returns a copy.
	c, _ := b.Batch(1)
	c.Set(77, 0, 0)
	if data.At(0, 2) == 77 {
		t.Error("Batch should copy, not alias")
	}
}

func TestDelimitedArray_SetBatch(t *testing.T) {
	data, _ := nd.NewDense(nd.Shape{2, 5})
	b, _ := NewDelimitedArray(data, 2)

	val, _ := nd.FromSlice(nd.Shape{2, 2}, []float64{1, 2, 3, 4})
	if err := b.SetBatch(1, val); err != nil {
		t.Fatal(err)
	}
	if data.At(0, 2) != 1 || data.At(1, 3) != 4 {
		t.Errorf("SetBatch wrote wrong values: %v", data.Data())
	}

	// Single-element values broadcast across the batch.
	scalar, _ := nd.FromSlice(nd.Shape{1}, []float64{9})
	if err := b.SetBatch(0, scalar); err != nil {
		t.Fatal(err)
	}
	if data.At(0, 0) != 9 || data.At(1, 1) != 9 {
		t.Errorf("broadcast SetBatch wrote wrong values: %v", data.Data())
	}

	// Shape mismatches are rejected before any mutation.
	bad, _ := nd.NewDense(nd.Shape{3, 2})
	if err := b.SetBatch(0, bad); !errors.Is(err, nd.ErrShapeMismatch) {
		t.Errorf("SetBatch shape error = %v, want ErrShapeMismatch", err)
	}
}

func TestNewDelimitedArray_Validation(t *testing.T) {
	if _, err := NewDelimitedArray(ramp(nd.Shape{2, 4}), 0); !errors.Is(err, nd.ErrConfiguration) {
		t.Errorf("zero batch size error = %v, want ErrConfiguration", err)
	}
}

func TestTemporalContainer(t *testing.T) {
	// (state 2, time 3, sample 5), batch size 2.
	c, err := NewTemporalContainer(nd.Shape{2, 3, 5}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if c.NumBatches() != 3 {
		t.Fatalf("NumBatches = %d, want 3", c.NumBatches())
	}
	if c.NumTimepoints() != 3 {
		t.Fatalf("NumTimepoints = %d, want 3", c.NumTimepoints())
	}

	// Container starts zero-filled.
	for _, v := range c.Data().Data() {
		if v != 0 {
			t.Fatal("container should be zero-filled")
		}
	}

	// Write batch 1 at timestep 2, read it back.
	val, _ := nd.FromSlice(nd.Shape{2, 2}, []float64{1, 2, 3, 4})
	if err := c.SetBatchAt(1, 2, val); err != nil {
		t.Fatal(err)
	}
	got, err := c.BatchAt(1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(val) {
		t.Errorf("BatchAt(1,2) = %v, want %v", got.Data(), val.Data())
	}
	// Backing array saw the write at (state, time 2, samples 2..3).
	if c.Data().At(0, 2, 2) != 1 || c.Data().At(1, 2, 3) != 4 {
		t.Error("SetBatchAt did not write through to the backing array")
	}
	// Other timesteps stay untouched.
	if c.Data().At(0, 0, 2) != 0 {
		t.Error("SetBatchAt leaked into other timesteps")
	}

	if _, err := c.BatchAt(1, 3); !errors.Is(err, nd.ErrIndexOutOfRange) {
		t.Errorf("BatchAt bad timestep error = %v, want ErrIndexOutOfRange", err)
	}
	if _, err := c.Batch(3); !errors.Is(err, nd.ErrIndexOutOfRange) {
		t.Errorf("Batch(3) error = %v, want ErrIndexOutOfRange", err)
	}

	// Final short batch holds one sample.
	lastBatch, err := c.Batch(2)
	if err != nil {
		t.Fatal(err)
	}
	if !lastBatch.Shape().Equal(nd.Shape{2, 3, 1}) {
		t.Errorf("final batch shape = %v, want [2 3 1]", lastBatch.Shape())
	}
}
