package plot

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ErrEmpty is returned when no point survives filtering.
var ErrEmpty = errors.New("nothing to plot")

// Default figure size.
const (
	DefaultWidth  = 16 * vg.Centimeter
	DefaultHeight = 12 * vg.Centimeter
)

// Axis describes one plot axis.
type Axis struct {
	Label string
	// Log selects a logarithmic axis. Non-positive values are dropped.
	Log bool
}

// Column is one plotted quantity.
type Column struct {
	Axis
	Values []float64
}

// Size is the output figure size. The zero value selects the defaults.
type Size struct {
	Width, Height vg.Length
}

func (s Size) orDefault() Size {
	if s.Width <= 0 {
		s.Width = DefaultWidth
	}
	if s.Height <= 0 {
		s.Height = DefaultHeight
	}
	return s
}

// usable reports whether v can be placed on a.
func (a Axis) usable(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return !a.Log || v > 0
}

// points keeps the rows for which every column holds a usable value.
// It returns the kept row indices.
func points(cols ...Column) ([]int, error) {
	if len(cols) == 0 {
		return nil, ErrEmpty
	}
	n := len(cols[0].Values)
	for _, c := range cols[1:] {
		if len(c.Values) != n {
			return nil, fmt.Errorf("column %q has %d values, want %d", c.Label, len(c.Values), n)
		}
	}

	var kept []int
rows:
	for i := 0; i < n; i++ {
		for _, c := range cols {
			if !c.usable(c.Values[i]) {
				continue rows
			}
		}
		kept = append(kept, i)
	}
	if len(kept) == 0 {
		return nil, ErrEmpty
	}
	return kept, nil
}

func xys(x, y Column, rows []int) plotter.XYs {
	pts := make(plotter.XYs, len(rows))
	for i, row := range rows {
		pts[i].X = x.Values[row]
		pts[i].Y = y.Values[row]
	}
	return pts
}

func setAxis(axis *gplot.Axis, a Axis) {
	axis.Label.Text = a.Label
	if a.Log {
		axis.Scale = gplot.LogScale{}
		axis.Tick.Marker = gplot.LogTicks{Prec: -1}
	}
}

// format returns the image format selected by the extension of path.
func format(path string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "eps", "jpg", "jpeg", "pdf", "png", "svg", "tex", "tif", "tiff":
		return ext, nil
	case "":
		return "", fmt.Errorf("output %q has no extension", path)
	default:
		return "", fmt.Errorf("output %q: unsupported format %q", path, ext)
	}
}

// render draws onto a canvas of the given size and writes it to path.
func render(path string, size Size, drawFn func(dc draw.Canvas)) error {
	ext, err := format(path)
	if err != nil {
		return err
	}
	size = size.orDefault()

	c, err := draw.NewFormattedCanvas(size.Width, size.Height, ext)
	if err != nil {
		return fmt.Errorf("create canvas: %w", err)
	}
	drawFn(draw.New(c))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := c.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
