package main

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/imu-dev/nnlib-go/window"
)

// writeCoverageChart renders how many padded frames include each timestep of
// the recording. Dips at the edges (or none at all) make the shift-not-clip
// boundary behaviour easy to eyeball.
func writeCoverageChart(path string, w *window.SlidingWindow, starts []int, length int) error {
	coverage := make([]int, length)
	for _, s := range starts {
		from, to := w.PaddedFrameRange(s, length)
		for t := from; t <= to; t++ {
			coverage[t]++
		}
	}

	x := make([]string, length)
	y := make([]opts.LineData, length)
	for t := 0; t < length; t++ {
		x[t] = fmt.Sprintf("%d", t)
		y[t] = opts.LineData{Value: coverage[t]}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Frame coverage", Width: "1200px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Frame coverage per timestep",
			Subtitle: fmt.Sprintf("stride=%d window=%d pad=(%d,%d) frames=%d", w.Stride(), w.Window(), w.Pad().Left, w.Pad().Right, len(starts)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "timestep"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "frames"}),
	)
	line.SetXAxis(x).AddSeries("coverage", y)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return line.Render(f)
}
