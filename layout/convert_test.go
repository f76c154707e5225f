package layout

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/imu-dev/nnlib-go/nd"
)

func TestStackedSeriesRoundTrip(t *testing.T) {
	// (*state 2x3, time 4, sample 5)
	stacked := ramp(nd.Shape{2, 3, 4, 5})

	seq, err := StackedToSeries(stacked)
	if err != nil {
		t.Fatal(err)
	}
	if len(seq) != 4 {
		t.Fatalf("series length = %d, want 4", len(seq))
	}
	for t2, a := range seq {
		if !a.Shape().Equal(nd.Shape{2, 3, 5}) {
			t.Fatalf("element %d shape = %v, want [2 3 5]", t2, a.Shape())
		}
	}

	back, err := SeriesToStacked(seq)
	if err != nil {
		t.Fatal(err)
	}
	if !back.Shape().Equal(stacked.Shape()) {
		t.Fatalf("round-trip shape = %v, want %v", back.Shape(), stacked.Shape())
	}
	if diff := cmp.Diff(stacked.Data(), back.Data()); diff != "" {
		t.Errorf("round-trip values mismatch (-want +got):\n%s", diff)
	}
}

func TestStackedToSeries_Values(t *testing.T) {
	// (1 state, 2 time, 3 sample): values 0..5 row-major.
	stacked := ramp(nd.Shape{1, 2, 3})
	seq, err := StackedToSeries(stacked)
	if err != nil {
		t.Fatal(err)
	}
	want := [][]float64{{0, 1, 2}, {3, 4, 5}}
	for ti, w := range want {
		if diff := cmp.Diff(w, seq[ti].Data()); diff != "" {
			t.Errorf("timestep %d mismatch (-want +got):\n%s", ti, diff)
		}
	}
}

func TestSeriesToStacked_Errors(t *testing.T) {
	if _, err := SeriesToStacked(nil); !errors.Is(err, nd.ErrDimension) {
		t.Errorf("empty series error = %v, want ErrDimension", err)
	}
	seq := []*nd.Dense{ramp(nd.Shape{2, 3}), ramp(nd.Shape{2, 4})}
	if _, err := SeriesToStacked(seq); !errors.Is(err, nd.ErrShapeMismatch) {
		t.Errorf("ragged series error = %v, want ErrShapeMismatch", err)
	}
}
