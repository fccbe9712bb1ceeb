// Package chart renders a price series as a PNG area chart.
package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/huangsam/birkin/schema"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrEmptySeries is returned when there is nothing to draw.
var ErrEmptySeries = errors.New("series has no points to chart")

// yTickCount is the number of y-axis gridlines, including zero.
const yTickCount = 5

var (
	strokeColor = drawing.ColorFromHex("f97316")
	fillColor   = drawing.ColorFromHex("f97316").WithAlpha(48)
	gridColor   = drawing.ColorFromHex("e5e7eb")
)

// WriteSeriesPNG renders result into a new PNG file at path.
func WriteSeriesPNG(path string, result *schema.SeriesResult, width, height int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return RenderSeries(f, result, width, height)
}

// RenderSeries draws result as an orange area chart with one x tick per label
// and "$Nk" y ticks.
func RenderSeries(w io.Writer, result *schema.SeriesResult, width, height int) error {
	if result == nil || len(result.Points) == 0 {
		return ErrEmptySeries
	}
	xs, ys, xTicks := seriesValues(result.Points)
	yMax, yTicks := priceTicks(ys)

	xMax := xs[len(xs)-1]
	if xMax == 0 {
		xMax = 1
	}
	ch := gochart.Chart{
		Title:  title(result.Selection),
		Width:  width,
		Height: height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 16, Right: 24, Bottom: 16},
		},
		XAxis: gochart.XAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: xMax},
			Ticks: xTicks,
		},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: yMax},
			Ticks: yTicks,
			GridMajorStyle: gochart.Style{
				StrokeColor: gridColor,
				StrokeWidth: 1,
			},
		},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name:    result.Selection.Key().String(),
				XValues: xs,
				YValues: ys,
				Style: gochart.Style{
					StrokeColor: strokeColor,
					StrokeWidth: 2,
					FillColor:   fillColor,
				},
			},
		},
	}
	if err := ch.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// seriesValues maps points to x positions. A single point is drawn as a
// flat segment so the x range is never zero.
func seriesValues(points []schema.DisplayPoint) ([]float64, []float64, []gochart.Tick) {
	xs := make([]float64, 0, len(points)+1)
	ys := make([]float64, 0, len(points)+1)
	ticks := make([]gochart.Tick, 0, len(points))
	for i, p := range points {
		xs = append(xs, float64(i))
		ys = append(ys, float64(p.Price))
		ticks = append(ticks, gochart.Tick{Value: float64(i), Label: p.Label})
	}
	if len(points) == 1 {
		xs = append(xs, 1)
		ys = append(ys, ys[0])
	}
	return xs, ys, ticks
}

// priceTicks returns a rounded axis maximum and evenly spaced "$Nk" ticks.
func priceTicks(ys []float64) (float64, []gochart.Tick) {
	peak := 0.0
	for _, y := range ys {
		peak = math.Max(peak, y)
	}
	step := math.Ceil(peak*1.1/float64(yTickCount-1)/1000) * 1000
	if step <= 0 {
		step = 1000
	}
	ticks := make([]gochart.Tick, 0, yTickCount)
	for i := 0; i < yTickCount; i++ {
		v := step * float64(i)
		ticks = append(ticks, gochart.Tick{Value: v, Label: TickLabel(v)})
	}
	return step * float64(yTickCount-1), ticks
}

// TickLabel renders a price as "$Nk".
func TickLabel(v float64) string {
	return fmt.Sprintf("$%dk", int64(math.Round(v/1000)))
}

func title(sel schema.Selection) string {
	return fmt.Sprintf("%s (%s, %s)", sel.Key(), sel.Regime, sel.Listing)
}
