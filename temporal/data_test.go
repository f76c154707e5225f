package temporal

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

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

// offsetRamp is ramp shifted so the two inputs are distinguishable.
func offsetRamp(shape nd.Shape, offset float64) *nd.Dense {
	d := ramp(shape)
	for i := range d.Data() {
		d.Data()[i] += offset
	}
	return d
}

func TestNew_SkipFirst(t *testing.T) {
	// (state 3, sample 4, time 5)
	a := ramp(nd.Shape{3, 4, 5})
	b := offsetRamp(nd.Shape{3, 4, 5}, 1000)

	td, err := New(a, b, WithSkipFirst())
	if err != nil {
		t.Fatal(err)
	}
	if !td.HasInitial() {
		t.Fatal("container should carry an initial pair")
	}
	if !td.X0().Shape().Equal(nd.Shape{3, 4}) {
		t.Fatalf("x0 shape = %v, want [3 4]", td.X0().Shape())
	}
	// x0 equals a[:, :, 0].
	for i := 0; i < 3; i++ {
		for j := 0; j < 4; j++ {
			if td.X0().At(i, j) != a.At(i, j, 0) {
				t.Fatalf("x0(%d,%d) = %v, want %v", i, j, td.X0().At(i, j), a.At(i, j, 0))
			}
		}
	}
	// xx holds timesteps 1..4.
	if len(td.XX()) != 4 {
		t.Fatalf("len(xx) = %d, want 4", len(td.XX()))
	}
	for ti, x := range td.XX() {
		for i := 0; i < 3; i++ {
			for j := 0; j < 4; j++ {
				if x.At(i, j) != a.At(i, j, ti+1) {
					t.Fatalf("xx[%d](%d,%d) = %v, want %v", ti, i, j, x.At(i, j), a.At(i, j, ti+1))
				}
			}
		}
	}
	if td.NumSamplesTotal() != 4 {
		t.Errorf("NumSamplesTotal = %d, want 4", td.NumSamplesTotal())
	}
}

func TestNew_WithoutSkipFirst(t *testing.T) {
	a := ramp(nd.Shape{2, 3, 4})
	b := ramp(nd.Shape{2, 3, 4})
	td, err := New(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if td.HasInitial() {
		t.Error("container should have no initial pair")
	}
	if len(td.XX()) != 4 {
		t.Errorf("len(xx) = %d, want 4", len(td.XX()))
	}
}

func TestNew_ExplicitInitialOverridesPeeled(t *testing.T) {
	a := ramp(nd.Shape{3, 4, 5})
	b := ramp(nd.Shape{3, 4, 5})
	explicit := offsetRamp(nd.Shape{3, 4}, 500)

	// The explicit argument must win over the value derived from skipping.
	td, err := New(a, b, WithSkipFirst(), WithInitialState(explicit))
	if err != nil {
		t.Fatal(err)
	}
	if !td.X0().Equal(explicit) {
		t.Error("explicit initial state should override the peeled one")
	}
	// y0 still comes from peeling; xx still skips the first timestep.
	if td.Y0().At(0, 0) != b.At(0, 0, 0) {
		t.Error("y0 should still be the peeled first observation")
	}
	if len(td.XX()) != 4 {
		t.Errorf("len(xx) = %d, want 4", len(td.XX()))
	}
}

func TestNew_InitialPairAllOrNothing(t *testing.T) {
	a := ramp(nd.Shape{3, 4, 5})
	b := ramp(nd.Shape{3, 4, 5})
	_, err := New(a, b, WithInitialState(ramp(nd.Shape{3, 4})))
	if !errors.Is(err, nd.ErrConfiguration) {
		t.Errorf("lone initial state error = %v, want ErrConfiguration", err)
	}
}

func TestObservations(t *testing.T) {
	a := ramp(nd.Shape{3, 4, 5})
	b := offsetRamp(nd.Shape{3, 4, 5}, 1000)
	td, err := New(a, b, WithSkipFirst())
	if err != nil {
		t.Fatal(err)
	}

	s, err := td.Observations(0)
	if err != nil {
		t.Fatal(err)
	}
	// x0 slice of sample 0 equals a[:, 0, 0].
	wantX0 := []float64{a.At(0, 0, 0), a.At(1, 0, 0), a.At(2, 0, 0)}
	if diff := cmp.Diff(wantX0, s.X0.Data()); diff != "" {
		t.Errorf("x0 sample mismatch (-want +got):\n%s", diff)
	}
	if len(s.XX) != 4 || len(s.YY) != 4 {
		t.Fatalf("sample sequences have lengths %d, %d; want 4, 4", len(s.XX), len(s.YY))
	}
	// xx[ti] slice of sample 0 equals a[:, 0, ti+1].
	for ti := 0; ti < 4; ti++ {
		want := []float64{a.At(0, 0, ti+1), a.At(1, 0, ti+1), a.At(2, 0, ti+1)}
		if diff := cmp.Diff(want, s.XX[ti].Data()); diff != "" {
			t.Errorf("xx[%d] sample mismatch (-want +got):\n%s", ti, diff)
		}
	}

	if _, err := td.Observations(4); !errors.Is(err, nd.ErrIndexOutOfRange) {
		t.Errorf("Observations(4) error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestObservationsRange(t *testing.T) {
	a := ramp(nd.Shape{2, 5, 3})
	b := ramp(nd.Shape{2, 5, 3})
	td, err := New(a, b)
	if err != nil {
		t.Fatal(err)
	}

	s, err := td.ObservationsRange(1, 4)
	if err != nil {
		t.Fatal(err)
	}
	if !s.XX[0].Shape().Equal(nd.Shape{2, 3}) {
		t.Fatalf("range slice shape = %v, want [2 3]", s.XX[0].Shape())
	}
	if s.XX[0].At(0, 0) != a.At(0, 1, 0) {
		t.Errorf("range slice (0,0) = %v, want %v", s.XX[0].At(0, 0), a.At(0, 1, 0))
	}

	if _, err := td.ObservationsRange(3, 6); !errors.Is(err, nd.ErrIndexOutOfRange) {
		t.Errorf("out-of-range error = %v, want ErrIndexOutOfRange", err)
	}
}
