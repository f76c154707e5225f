package layout

import (
	"errors"
	"testing"

	"github.com/imu-dev/nnlib-go/nd"
)

func TestShapeQueries(t *testing.T) {
	single := nd.MustDense(nd.Shape{3, 4, 10})  // (*state, time)
	obs := nd.MustDense(nd.Shape{3, 4, 8})      // (*state, sample)
	stacked := nd.MustDense(nd.Shape{3, 5, 16}) // (*state, time, sample)

	cases := []struct {
		name       string
		kind       Kind
		data       *nd.Dense
		state      nd.Shape
		samples    int
		timepoints int
	}{
		{"single timeseries", SingleTimeseries, single, nd.Shape{3, 4}, 1, 10},
		{"single obs timeseries", SingleObsTimeseries, obs, nd.Shape{3, 4}, 8, 1},
		{"stacked array", StackedArray, stacked, nd.Shape{3}, 16, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			state, err := StateDim(tc.kind, tc.data)
			if err != nil {
				t.Fatal(err)
			}
			if !state.Equal(tc.state) {
				t.Errorf("StateDim = %v, want %v", state, tc.state)
			}
			samples, err := NumSamples(tc.kind, tc.data)
			if err != nil {
				t.Fatal(err)
			}
			if samples != tc.samples {
				t.Errorf("NumSamples = %d, want %d", samples, tc.samples)
			}
			timepoints, err := NumTimepoints(tc.kind, tc.data)
			if err != nil {
				t.Fatal(err)
			}
			if timepoints != tc.timepoints {
				t.Errorf("NumTimepoints = %d, want %d", timepoints, tc.timepoints)
			}
		})
	}
}

func TestShapeQueries_Series(t *testing.T) {
	seq := []*nd.Dense{
		nd.MustDense(nd.Shape{3, 4, 8}),
		nd.MustDense(nd.Shape{3, 4, 8}),
		nd.MustDense(nd.Shape{3, 4, 8}),
	}
	state, err := StateDimSeries(seq)
	if err != nil {
		t.Fatal(err)
	}
	if !state.Equal(nd.Shape{3, 4}) {
		t.Errorf("StateDimSeries = %v, want [3 4]", state)
	}
	samples, err := NumSamplesSeries(seq)
	if err != nil {
		t.Fatal(err)
	}
	if samples != 8 {
		t.Errorf("NumSamplesSeries = %d, want 8", samples)
	}
	timepoints, err := NumTimepointsSeries(seq)
	if err != nil {
		t.Fatal(err)
	}
	if timepoints != 3 {
		t.Errorf("NumTimepointsSeries = %d, want 3", timepoints)
	}
}

func TestShapeQueries_Errors(t *testing.T) {
	if _, err := StateDimSeries(nil); !errors.Is(err, nd.ErrDimension) {
		t.Errorf("StateDimSeries(nil) error = %v, want ErrDimension", err)
	}
	if _, err := StateDim(Timeseries, nd.MustDense(nd.Shape{2})); !errors.Is(err, nd.ErrConfiguration) {
		t.Errorf("StateDim(Timeseries, ...) error = %v, want ErrConfiguration", err)
	}
	if _, err := StateDim(StackedArray, nd.MustDense(nd.Shape{2})); !errors.Is(err, nd.ErrDimension) {
		t.Errorf("StateDim on rank-1 stacked array error = %v, want ErrDimension", err)
	}
}
