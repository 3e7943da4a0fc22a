package gpr

import (
	"fmt"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

//////
// Heatmap rendering.
//////

// unitGridXYZ adapts a row-major surface over the unit square to the
// plotter.GridXYZ interface. Row index maps to the first coordinate, column
// index to the second, matching UnitGrid's ordering.
type unitGridXYZ struct {
	z    []float64
	rows int
	cols int
}

func (g unitGridXYZ) Dims() (c, r int) { return g.cols, g.rows }

func (g unitGridXYZ) Z(c, r int) float64 { return g.z[r*g.cols+c] }

func (g unitGridXYZ) X(c int) float64 { return float64(c) / float64(g.cols-1) }

func (g unitGridXYZ) Y(r int) float64 { return float64(r) / float64(g.rows-1) }

// SaveHeatmap renders a row-major surface over the unit square as a PNG
// heatmap with a color scale legend.
//
// Parameters:
// - path: Output PNG file path
// - title: Plot title
// - z: Surface values, row-major with the given shape
// - rows, cols: Surface shape; len(z) must equal rows·cols, both at least 2
//
// Returns:
// - error: ErrGridSize for a degenerate shape, ErrLengthMismatch if len(z)
//   does not match, or a wrapped I/O error
//
// Usage example:
//
//	err := gpr.SaveHeatmap("predicted.png", "Predicted values", pred, 25, 25)
func SaveHeatmap(path, title string, z []float64, rows, cols int) error {
	if rows < 2 || cols < 2 {
		return ErrGridSize
	}

	if len(z) != rows*cols {
		return ErrLengthMismatch
	}

	pal := palette.Heat(12, 1)

	h := plotter.NewHeatMap(unitGridXYZ{z: z, rows: rows, cols: cols}, pal)

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x1"
	p.Y.Label.Text = "x0"

	p.Add(h)

	// Build a color scale legend from the palette, labeling the extremes
	// with the data range.
	thumbs := plotter.PaletteThumbnailers(pal)
	for i := len(thumbs) - 1; i >= 0; i-- {
		t := thumbs[i]

		if i != 0 && i != len(thumbs)-1 {
			p.Legend.Add("", t)

			continue
		}

		var val float64

		switch i {
		case 0:
			val = h.Min
		case len(thumbs) - 1:
			val = h.Max
		}

		p.Legend.Add(fmt.Sprintf("%.2g", val), t)
	}

	p.Legend.Top = true

	// Reserve room on the right so the legend does not overlap the map.
	const legendWidth = vg.Centimeter

	p.Legend.XOffs = legendWidth

	img := vgimg.New(6*vg.Inch, 5*vg.Inch)

	dc := draw.New(img)
	dc = draw.Crop(dc, 0, -legendWidth, 0, 0)

	p.Draw(dc)

	w, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer w.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(w); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}
