package window

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/imu-dev/nnlib-go/nd"
)

// ChannelStat summarizes one leading state channel of a recording.
type ChannelStat struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// ChannelStats computes mean and sample standard deviation per leading state
// channel of a SingleTimeseries array (first axis = channel, trailing axis =
// time). Used for the catalog record written alongside each arrangement.
func ChannelStats(a *nd.Dense) ([]ChannelStat, error) {
	shape := a.Shape()
	if len(shape) < 2 {
		return nil, fmt.Errorf("%w: channel stats need a channel axis and a time axis, got shape %v",
			nd.ErrDimension, shape)
	}
	out := make([]ChannelStat, shape[0])
	for c := range out {
		channel, err := a.View().Pick(0, c)
		if err != nil {
			return nil, err
		}
		vals := channel.Materialize().Data()
		out[c] = ChannelStat{
			Mean:   stat.Mean(vals, nil),
			StdDev: stat.StdDev(vals, nil),
		}
	}
	return out, nil
}
