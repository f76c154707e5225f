// Command arrange windows a recorded timeseries into padded frames and writes
// them to a binary frame-sink file. The run can optionally be registered in a
// SQLite catalog and summarized as an HTML coverage chart.
//
// The input file uses the same binary container format as the output, holding
// the whole recording as a single sample: header (state shape, recording
// length, sample count 1) followed by the raw elements.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/imu-dev/nnlib-go/internal/store"
	"github.com/imu-dev/nnlib-go/nd"
	"github.com/imu-dev/nnlib-go/window"
)

func main() {
	var (
		inPath    = flag.String("input", "", "input recording file (binary container, single sample)")
		outPath   = flag.String("output", "", "output frame-sink file")
		stride    = flag.Int("stride", 1, "distance between consecutive frame starts")
		windowLen = flag.Int("window", 0, "core window length in timesteps")
		padLeft   = flag.Int("pad-left", 0, "padding timesteps before each window")
		padRight  = flag.Int("pad-right", 0, "padding timesteps after each window")
		dtypeFlag = flag.String("dtype", "float64", "element type of input and output (float32|float64)")
		dbPath    = flag.String("db", "", "optional arrangement catalog (SQLite) to register the run in")
		chartPath = flag.String("chart", "", "optional HTML file for a frame-coverage chart")
	)
	flag.Parse()

	if *inPath == "" || *outPath == "" || *windowLen <= 0 {
		flag.Usage()
		os.Exit(2)
	}

	dtype, err := nd.ParseDType(*dtypeFlag)
	if err != nil {
		log.Fatalf("invalid -dtype: %v", err)
	}

	recording, err := readRecording(*inPath, dtype)
	if err != nil {
		log.Fatalf("reading %s: %v", *inPath, err)
	}
	length := recording.Shape()[recording.NumDims()-1]
	log.Printf("loaded recording %s: shape %v (%d timesteps)", *inPath, recording.Shape(), length)

	w, err := window.New(*stride, *windowLen, window.Pad{Left: *padLeft, Right: *padRight})
	if err != nil {
		log.Fatalf("invalid window parameters: %v", err)
	}
	starts, err := w.FrameStarts(length)
	if err != nil {
		log.Fatalf("windowing %s: %v", *inPath, err)
	}

	out, err := os.Create(*outPath)
	if err != nil {
		log.Fatalf("creating %s: %v", *outPath, err)
	}
	if err := w.Stream(out, recording, dtype); err != nil {
		out.Close()
		os.Remove(*outPath)
		log.Fatalf("arranging %s: %v", *inPath, err)
	}
	if err := out.Close(); err != nil {
		log.Fatalf("closing %s: %v", *outPath, err)
	}
	log.Printf("wrote %d frames of %d timesteps to %s", len(starts), w.PaddedWindow(), *outPath)

	stats, err := window.ChannelStats(recording)
	if err != nil {
		// Rank-1 recordings have no channel axis; skip stats rather than fail.
		log.Printf("channel stats unavailable: %v", err)
	}
	for c, st := range stats {
		log.Printf("channel %d: mean %.6g, stddev %.6g", c, st.Mean, st.StdDev)
	}

	if *dbPath != "" {
		if err := register(*dbPath, *inPath, *outPath, w, recording, len(starts), dtype, stats); err != nil {
			log.Fatalf("registering run: %v", err)
		}
	}

	if *chartPath != "" {
		if err := writeCoverageChart(*chartPath, w, starts, length); err != nil {
			log.Fatalf("writing chart: %v", err)
		}
		log.Printf("wrote coverage chart to %s", *chartPath)
	}
}

// readRecording loads a single-sample binary container and strips the sample
// axis, returning a SingleTimeseries array (*state, length).
func readRecording(path string, dtype nd.DType) (*nd.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stacked, err := window.ReadFrames(f, dtype)
	if err != nil {
		return nil, err
	}
	shape := stacked.Shape()
	if shape[len(shape)-1] != 1 {
		return nil, fmt.Errorf("%w: recording must hold exactly 1 sample, got %d",
			nd.ErrConfiguration, shape[len(shape)-1])
	}
	v, err := stacked.View().Pick(len(shape)-1, 0)
	if err != nil {
		return nil, err
	}
	return v.Materialize(), nil
}

func register(dbPath, source, output string, w *window.SlidingWindow, recording *nd.Dense, frames int, dtype nd.DType, stats []window.ChannelStat) error {
	s, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	var statsJSON json.RawMessage
	if len(stats) > 0 {
		statsJSON, err = json.Marshal(stats)
		if err != nil {
			return fmt.Errorf("encoding channel stats: %w", err)
		}
	}
	shape := recording.Shape()
	id, err := s.Insert(store.ArrangementRecord{
		Source:       source,
		OutputPath:   output,
		Stride:       w.Stride(),
		Window:       w.Window(),
		PadLeft:      w.Pad().Left,
		PadRight:     w.Pad().Right,
		StateShape:   shape[:len(shape)-1],
		PaddedWindow: w.PaddedWindow(),
		NumFrames:    frames,
		DType:        dtype.String(),
		ChannelStats: statsJSON,
	})
	if err != nil {
		return err
	}
	log.Printf("registered arrangement %s in %s", id, dbPath)
	return nil
}
