package plot

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	"gonum.org/v1/gonum/floats"
	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// colorBarFraction is the share of the figure width given to the colour bar.
const colorBarFraction = 0.2

// Scatter2D renders y against x, each point coloured by c, with a vertical
// colour bar labelled with c. Rows with an unusable value in any column are
// dropped. A logarithmic c is coloured by log10(c).
func Scatter2D(path string, x, y, c Column, size Size) error {
	rows, err := points(x, y, c)
	if err != nil {
		return err
	}

	shade := make([]float64, len(rows))
	for i, row := range rows {
		shade[i] = c.Values[row]
		if c.Log {
			shade[i] = math.Log10(shade[i])
		}
	}
	// The colour scale spans the data range, not a fixed [0, 1], so values
	// outside [0, 1] still get distinct colours.
	cm := NewRainbow(floats.Min(shade), floats.Max(shade))

	p := gplot.New()
	setAxis(&p.X, x.Axis)
	setAxis(&p.Y, y.Axis)

	sc, err := plotter.NewScatter(xys(x, y, rows))
	if err != nil {
		return fmt.Errorf("scatter: %w", err)
	}
	sc.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		col, _ := cm.At(shade[i])
		return draw.GlyphStyle{Color: col, Radius: vg.Points(3), Shape: draw.CircleGlyph{}}
	}
	p.Add(sc, plotter.NewGrid())

	bar := gplot.New()
	bar.Add(&plotter.ColorBar{ColorMap: cm, Vertical: true})
	bar.HideX()
	bar.Y.Label.Text = c.Label
	if c.Log {
		bar.Y.Label.Text = "log10(" + c.Label + ")"
	}

	return render(path, size, func(dc draw.Canvas) {
		width := dc.Max.X - dc.Min.X
		barWidth := width * colorBarFraction
		p.Draw(draw.Crop(dc, 0, -barWidth, 0, 0))
		bar.Draw(draw.Crop(dc, width-barWidth, 0, 0, 0))
	})
}

// View is the orientation of a 3D projection, in degrees.
type View struct {
	Azimuth   float64
	Elevation float64
}

// DefaultView looks at the unit cube from the front left and above.
var DefaultView = View{Azimuth: -60, Elevation: 30}

// project maps a point of the unit cube, centred on the origin, onto the
// view plane with an orthographic projection.
func (v View) project(x, y, z float64) (px, py float64) {
	az := v.Azimuth * math.Pi / 180
	el := v.Elevation * math.Pi / 180
	px = -x*math.Sin(az) + y*math.Cos(az)
	py = z*math.Cos(el) - (x*math.Cos(az)+y*math.Sin(az))*math.Sin(el)
	return px, py
}

// unit rescales values to [0, 1]. A constant column maps to 0.5.
func unit(values []float64) []float64 {
	lo, hi := floats.Min(values), floats.Max(values)
	out := make([]float64, len(values))
	for i, v := range values {
		if hi == lo {
			out[i] = 0.5
			continue
		}
		out[i] = (v - lo) / (hi - lo)
	}
	return out
}

// Scatter3D renders x, y and z as a projected 3D scatter inside the unit
// cube. Each column is rescaled to [0, 1] after an optional log10, and its
// axis is labelled with its name and data range.
func Scatter3D(path string, x, y, z Column, view View, size Size) error {
	rows, err := points(x, y, z)
	if err != nil {
		return err
	}

	cols := [3]Column{x, y, z}
	var norm [3][]float64
	var ranges [3]string
	for k, c := range cols {
		vals := make([]float64, len(rows))
		for i, row := range rows {
			vals[i] = c.Values[row]
			if c.Log {
				vals[i] = math.Log10(vals[i])
			}
		}
		ranges[k] = axisText(c, floats.Min(vals), floats.Max(vals))
		norm[k] = unit(vals)
	}

	p := gplot.New()
	p.HideAxes()

	for _, edge := range cubeEdges() {
		pts := make(plotter.XYs, 2)
		for i, v := range edge {
			pts[i].X, pts[i].Y = view.project(v[0]-0.5, v[1]-0.5, v[2]-0.5)
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("cube edge: %w", err)
		}
		l.LineStyle.Color = edgeColor
		l.LineStyle.Width = vg.Points(0.5)
		p.Add(l)
	}

	pts := make(plotter.XYs, len(rows))
	for i := range rows {
		pts[i].X, pts[i].Y = view.project(norm[0][i]-0.5, norm[1][i]-0.5, norm[2][i]-0.5)
	}
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("scatter: %w", err)
	}
	cm := NewRainbow(0, 1)
	sc.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		col, _ := cm.At(norm[2][i])
		return draw.GlyphStyle{Color: col, Radius: vg.Points(3), Shape: draw.TriangleGlyph{}}
	}
	p.Add(sc)

	// Axis labels sit at the middle of the three edges leaving the origin.
	var anchors plotter.XYs
	for k := range cols {
		mid := [3]float64{-0.5, -0.5, -0.5}
		mid[k] = 0
		var pt plotter.XY
		pt.X, pt.Y = view.project(mid[0], mid[1], mid[2])
		anchors = append(anchors, pt)
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: anchors, Labels: ranges[:]})
	if err != nil {
		return fmt.Errorf("axis labels: %w", err)
	}
	p.Add(labels)

	return render(path, size, func(dc draw.Canvas) {
		p.Draw(dc)
	})
}

var edgeColor = color.Gray{Y: 0x80}

// cubeEdges returns the twelve edges of the unit cube.
func cubeEdges() [][2][3]float64 {
	var edges [][2][3]float64
	for a := 0; a < 8; a++ {
		for k := 0; k < 3; k++ {
			bit := 1 << k
			if a&bit != 0 {
				continue
			}
			b := a | bit
			edges = append(edges, [2][3]float64{corner(a), corner(b)})
		}
	}
	return edges
}

func corner(i int) [3]float64 {
	return [3]float64{float64(i & 1), float64(i>>1&1), float64(i>>2&1)}
}

func axisText(c Column, lo, hi float64) string {
	name := c.Label
	if c.Log {
		name = "log10(" + name + ")"
	}
	return fmt.Sprintf("%s [%s, %s]", name,
		strconv.FormatFloat(lo, 'g', 3, 64), strconv.FormatFloat(hi, 'g', 3, 64))
}
