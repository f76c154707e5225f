// Package window carves a single long recording (SingleTimeseries layout,
// trailing axis = time) into fixed-size, optionally padded, overlapping
// frames, producing a StackedArray (*state, paddedWindow, numFrames) either
// in memory or streamed to a binary sink.
package window

import (
	"fmt"

	"github.com/imu-dev/nnlib-go/nd"
)

// Pad is the number of extra timesteps attached to each side of a window.
// Negative values trim the window instead.
type Pad struct {
	Left  int
	Right int
}

// SlidingWindow describes how to cut a recording into frames. It is stateless
// across invocations: every method is a pure function of the input length.
type SlidingWindow struct {
	stride int
	window int
	pad    Pad
}

// New validates the window parameters. Stride and window must be positive and
// the padded window (window + left + right) must cover at least one timestep.
func New(stride, window int, pad Pad) (*SlidingWindow, error) {
	if stride <= 0 {
		return nil, fmt.Errorf("%w: stride must be positive, got %d", nd.ErrConfiguration, stride)
	}
	if window <= 0 {
		return nil, fmt.Errorf("%w: window must be positive, got %d", nd.ErrConfiguration, window)
	}
	if window+pad.Left+pad.Right < 1 {
		return nil, fmt.Errorf("%w: padded window %d+%d+%d is empty",
			nd.ErrConfiguration, window, pad.Left, pad.Right)
	}
	return &SlidingWindow{stride: stride, window: window, pad: pad}, nil
}

// Stride returns the distance between consecutive frame starts.
func (w *SlidingWindow) Stride() int { return w.stride }

// Window returns the core (unpadded) window length.
func (w *SlidingWindow) Window() int { return w.window }

// Pad returns the left/right padding.
func (w *SlidingWindow) Pad() Pad { return w.pad }

// PaddedWindow returns the full frame length: window + left + right padding.
func (w *SlidingWindow) PaddedWindow() int {
	return w.window + w.pad.Left + w.pad.Right
}

// FrameStarts returns the 0-based core-window start positions for a recording
// of length L: 0, stride, 2*stride, ... while the core window still fits.
// A recording shorter than the padded window cannot hold even one frame and
// is rejected.
func (w *SlidingWindow) FrameStarts(length int) ([]int, error) {
	if length < w.PaddedWindow() {
		return nil, fmt.Errorf("%w: recording length %d is shorter than padded window %d",
			nd.ErrConfiguration, length, w.PaddedWindow())
	}
	var starts []int
	for s := 0; s+w.window <= length; s += w.stride {
		starts = append(starts, s)
	}
	return starts, nil
}

// NumFrames returns the number of frames a recording of the given length
// produces.
func (w *SlidingWindow) NumFrames(length int) (int, error) {
	starts, err := w.FrameStarts(length)
	if err != nil {
		return 0, err
	}
	return len(starts), nil
}

// PaddedFrameRange returns the inclusive timestep range [from, to] of the
// padded frame whose core window starts at start. The range always has length
// exactly PaddedWindow. Nominally it is [start-left, start-left+padded-1];
// when that would leave [0, length), the whole range is shifted back inside
// rather than clipped. Near a boundary the padding therefore silently jumps
// to the opposite side of the core window: the frame length is preserved but
// which timesteps count as padding changes. Callers relying on pad position
// must stay clear of the recording edges.
func (w *SlidingWindow) PaddedFrameRange(start, length int) (from, to int) {
	padded := w.PaddedWindow()
	from = start - w.pad.Left
	if from < 0 {
		from = 0
	}
	if from+padded > length {
		from = length - padded
	}
	return from, from + padded - 1
}

// Arrange cuts a SingleTimeseries array (trailing axis = time) into padded
// frames, returning a StackedArray of shape (*state, paddedWindow, numFrames).
func (w *SlidingWindow) Arrange(a *nd.Dense) (*nd.Dense, error) {
	shape := a.Shape()
	if len(shape) < 1 {
		return nil, fmt.Errorf("%w: input needs a time axis", nd.ErrDimension)
	}
	timeAxis := len(shape) - 1
	length := shape[timeAxis]
	starts, err := w.FrameStarts(length)
	if err != nil {
		return nil, err
	}

	padded := w.PaddedWindow()
	state := shape[:timeAxis]
	outShape := append(state.Clone(), padded, len(starts))
	out, err := nd.NewDense(outShape)
	if err != nil {
		return nil, err
	}

	src := a.View()
	for f, s := range starts {
		from, _ := w.PaddedFrameRange(s, length)
		frame, err := out.View().Pick(len(outShape)-1, f)
		if err != nil {
			return nil, err
		}
		for t := 0; t < padded; t++ {
			sv, err := src.Pick(timeAxis, from+t)
			if err != nil {
				return nil, err
			}
			dv, err := frame.Pick(frame.NumDims()-1, t)
			if err != nil {
				return nil, err
			}
			if err := dv.Assign(sv); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}
