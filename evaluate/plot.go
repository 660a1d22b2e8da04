package evaluate

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const histogramBins = 20

// WritePlots writes a PNG with the score of every successful sample in
// order (left) and the score distribution (right).
func (r *Report) WritePlots(path string) error {
	scores := r.Scores()
	if len(scores) == 0 {
		return ErrNoResults
	}

	curve := plot.New()
	curve.Title.Text = fmt.Sprintf("GEO-BLEU by sample (%s)", r.Model)
	curve.X.Label.Text = "sample"
	curve.Y.Label.Text = "score"
	xys := make(plotter.XYs, len(scores))
	for i, s := range scores {
		xys[i] = plotter.XY{X: float64(i), Y: s}
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return fmt.Errorf("score line: %w", err)
	}
	line.Color = color.RGBA{R: 20, G: 80, B: 200, A: 180}
	line.Width = vg.Points(1)
	curve.Add(line, dashedGrid())

	dist := plot.New()
	dist.Title.Text = "Score distribution"
	dist.X.Label.Text = "score"
	dist.Y.Label.Text = "samples"
	hist, err := plotter.NewHist(plotter.Values(scores), histogramBins)
	if err != nil {
		return fmt.Errorf("score histogram: %w", err)
	}
	hist.FillColor = color.RGBA{R: 40, G: 160, B: 40, A: 180}
	dist.Add(hist, dashedGrid())

	plots := [][]*plot.Plot{{curve, dist}}
	img := vgimg.New(12*vg.Inch, 6*vg.Inch)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      1,
		Cols:      2,
		PadX:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	canvases := plot.Align(plots, tiles, dc)
	for j := range plots {
		for i := range plots[j] {
			plots[j][i].Draw(canvases[j][i])
		}
	}

	f, err := create(path)
	if err != nil {
		return err
	}
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("encode png %s: %w", path, err)
	}
	return f.Close()
}

func dashedGrid() *plotter.Grid {
	g := plotter.NewGrid()
	g.Vertical.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	g.Horizontal.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	return g
}
