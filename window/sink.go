package window

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/imu-dev/nnlib-go/nd"
)

// Binary frame sink format: a native-endian int64 header followed by raw
// frame payloads.
//
//	int64   numStateDims
//	int64 x numStateDims   state-space shape
//	int64   numTimepoints  (padded window length)
//	int64   numSamples     (frame count)
//
// Each frame is a contiguous block of product(state shape) * numTimepoints
// elements of the declared element type, state axes fastest-varying and time
// slowest-varying. The header fully determines parsing; there are no frame
// delimiters or checksums. The element type is not recorded in the header, so
// reader and writer must agree on it out of band.

// maxHeaderRank bounds the state rank accepted by the reader, guarding
// against garbage headers from truncated or foreign files.
const maxHeaderRank = 32

// FrameWriter streams frames to a binary sink one at a time. Writes are
// synchronous and ordered; a failed write leaves the sink truncated and the
// whole arrangement must be discarded and retried.
type FrameWriter struct {
	w          io.Writer
	dtype      nd.DType
	frameShape nd.Shape // (*state, timepoints)
	declared   int
	written    int
	buf        []byte
}

// NewFrameWriter writes the sink header and returns a writer expecting
// exactly frames frames of shape (*state, timepoints).
func NewFrameWriter(w io.Writer, stateShape nd.Shape, timepoints, frames int, dtype nd.DType) (*FrameWriter, error) {
	if timepoints < 1 {
		return nil, fmt.Errorf("%w: sink needs at least 1 timepoint, got %d", nd.ErrConfiguration, timepoints)
	}
	if frames < 0 {
		return nil, fmt.Errorf("%w: negative frame count %d", nd.ErrConfiguration, frames)
	}
	header := make([]int64, 0, len(stateShape)+3)
	header = append(header, int64(len(stateShape)))
	for _, d := range stateShape {
		header = append(header, int64(d))
	}
	header = append(header, int64(timepoints), int64(frames))
	if err := binary.Write(w, binary.NativeEndian, header); err != nil {
		return nil, fmt.Errorf("writing sink header: %w", err)
	}
	return &FrameWriter{
		w:          w,
		dtype:      dtype,
		frameShape: append(stateShape.Clone(), timepoints),
		declared:   frames,
	}, nil
}

// WriteFrame encodes one frame of shape (*state, timepoints) and writes it to
// the sink, cast to the writer's element type.
func (fw *FrameWriter) WriteFrame(frame nd.View) error {
	if fw.written >= fw.declared {
		return fmt.Errorf("%w: frame %d exceeds declared count %d", nd.ErrIndexOutOfRange, fw.written, fw.declared)
	}
	if !frame.Shape().Equal(fw.frameShape) {
		return fmt.Errorf("%w: frame shape %v, want %v", nd.ErrShapeMismatch, frame.Shape(), fw.frameShape)
	}
	timeAxis := frame.NumDims() - 1
	timepoints := fw.frameShape[timeAxis]
	fw.buf = fw.buf[:0]
	// Time slowest, state fastest: one contiguous state block per timestep.
	for t := 0; t < timepoints; t++ {
		slice, err := frame.Pick(timeAxis, t)
		if err != nil {
			return err
		}
		fw.buf = fw.dtype.EncodeSlice(fw.buf, slice.Materialize().Data())
	}
	if _, err := fw.w.Write(fw.buf); err != nil {
		return fmt.Errorf("writing frame %d: %w", fw.written, err)
	}
	fw.written++
	return nil
}

// Close verifies that every declared frame was written. It does not close the
// underlying writer.
func (fw *FrameWriter) Close() error {
	if fw.written != fw.declared {
		return fmt.Errorf("%w: wrote %d of %d declared frames", nd.ErrConfiguration, fw.written, fw.declared)
	}
	return nil
}

// Stream arranges a SingleTimeseries array exactly like Arrange but writes
// each frame sequentially to the sink instead of materializing the stacked
// output.
func (w *SlidingWindow) Stream(dst io.Writer, a *nd.Dense, dtype nd.DType) error {
	shape := a.Shape()
	if len(shape) < 1 {
		return fmt.Errorf("%w: input needs a time axis", nd.ErrDimension)
	}
	timeAxis := len(shape) - 1
	length := shape[timeAxis]
	starts, err := w.FrameStarts(length)
	if err != nil {
		return err
	}

	padded := w.PaddedWindow()
	state := shape[:timeAxis].Clone()
	fw, err := NewFrameWriter(dst, state, padded, len(starts), dtype)
	if err != nil {
		return err
	}
	src := a.View()
	for _, s := range starts {
		from, to := w.PaddedFrameRange(s, length)
		frame, err := src.Slice(timeAxis, from, to+1)
		if err != nil {
			return err
		}
		if err := fw.WriteFrame(frame); err != nil {
			return err
		}
	}
	return fw.Close()
}

// ReadFrames parses a sink produced by Stream or WriteFrames, returning the
// frames as a StackedArray (*state, timepoints, frames). The element type is
// not part of the header and must match what the writer used.
func ReadFrames(r io.Reader, dtype nd.DType) (*nd.Dense, error) {
	readInt := func(what string) (int64, error) {
		var v int64
		if err := binary.Read(r, binary.NativeEndian, &v); err != nil {
			return 0, fmt.Errorf("reading sink %s: %w", what, err)
		}
		return v, nil
	}

	rank, err := readInt("state rank")
	if err != nil {
		return nil, err
	}
	if rank < 0 || rank > maxHeaderRank {
		return nil, fmt.Errorf("%w: implausible state rank %d in sink header", nd.ErrConfiguration, rank)
	}
	state := make(nd.Shape, rank)
	for i := range state {
		d, err := readInt("state shape")
		if err != nil {
			return nil, err
		}
		if d < 0 {
			return nil, fmt.Errorf("%w: negative state dimension %d in sink header", nd.ErrConfiguration, d)
		}
		state[i] = int(d)
	}
	timepoints, err := readInt("timepoint count")
	if err != nil {
		return nil, err
	}
	frames, err := readInt("frame count")
	if err != nil {
		return nil, err
	}
	if timepoints < 1 || frames < 0 {
		return nil, fmt.Errorf("%w: sink header declares %d timepoints, %d frames",
			nd.ErrConfiguration, timepoints, frames)
	}

	outShape := append(state.Clone(), int(timepoints), int(frames))
	out, err := nd.NewDense(outShape)
	if err != nil {
		return nil, err
	}
	stateElems := state.NumElements()
	frameBytes := stateElems * int(timepoints) * dtype.Size()
	raw := make([]byte, frameBytes)
	vals := make([]float64, stateElems)
	frameAxis := len(outShape) - 1
	for f := 0; f < int(frames); f++ {
		if _, err := io.ReadFull(r, raw); err != nil {
			return nil, fmt.Errorf("reading frame %d: %w", f, err)
		}
		frame, err := out.View().Pick(frameAxis, f)
		if err != nil {
			return nil, err
		}
		timeAxis := frame.NumDims() - 1
		for t := 0; t < int(timepoints); t++ {
			if err := dtype.DecodeSlice(vals, raw[t*stateElems*dtype.Size():]); err != nil {
				return nil, err
			}
			block, err := nd.FromSlice(state, vals)
			if err != nil {
				return nil, err
			}
			dst, err := frame.Pick(timeAxis, t)
			if err != nil {
				return nil, err
			}
			if err := dst.AssignDense(block); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// WriteFrames is the materialize-free convenience wrapper around Stream for a
// whole recording.
func WriteFrames(dst io.Writer, w *SlidingWindow, a *nd.Dense, dtype nd.DType) error {
	return w.Stream(dst, a, dtype)
}
