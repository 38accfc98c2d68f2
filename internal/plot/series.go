package plot

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg/draw"
)

// Series is one named curve.
type Series struct {
	Name string
	X, Y []float64
}

// Style returns the colour and marker of the i-th series. Styles cycle
// through a fixed palette, so any number of series can be drawn.
func Style(i int) (draw.LineStyle, draw.GlyphStyle) {
	c := plotutil.Color(i)
	line := draw.LineStyle{Color: c, Width: plotter.DefaultLineStyle.Width, Dashes: plotutil.Dashes(i / len(plotutil.DefaultColors))}
	glyph := draw.GlyphStyle{Color: c, Radius: plotter.DefaultGlyphStyle.Radius, Shape: plotutil.Shape(i)}
	return line, glyph
}

// Lines renders every series as a line with point markers, with a legend.
// Series left without usable points are skipped; ErrEmpty is returned when
// none remain.
func Lines(path, title string, x, y Axis, series []Series, size Size) error {
	p, err := linePlot(title, x, y, series, true)
	if err != nil {
		return err
	}
	return render(path, size, func(dc draw.Canvas) { p.Draw(dc) })
}

// Profile is a family of radial profiles: column j of R and V is the curve
// at colatitude Th[j].
type Profile struct {
	Name string
	R, V mat.Matrix
	Th   []float64
}

// series splits the profile into one series per colatitude.
func (pr Profile) series() ([]Series, error) {
	nr, nth := pr.R.Dims()
	vr, vth := pr.V.Dims()
	if nr != vr || nth != vth {
		return nil, fmt.Errorf("profile %s: grid %dx%d, values %dx%d", pr.Name, nr, nth, vr, vth)
	}
	if len(pr.Th) != nth {
		return nil, fmt.Errorf("profile %s: %d colatitudes for %d columns", pr.Name, len(pr.Th), nth)
	}
	out := make([]Series, nth)
	for j := 0; j < nth; j++ {
		name := pr.Name
		if nth > 1 {
			name = fmt.Sprintf("%s th=%.1f", pr.Name, pr.Th[j]*180/math.Pi)
		}
		out[j] = Series{
			Name: name,
			X:    mat.Col(nil, j, pr.R),
			Y:    mat.Col(nil, j, pr.V),
		}
	}
	return out, nil
}

// Profiles renders each profile as one line per colatitude.
func Profiles(path, title string, x, y Axis, profiles []Profile, size Size) error {
	var all []Series
	for _, pr := range profiles {
		s, err := pr.series()
		if err != nil {
			return err
		}
		all = append(all, s...)
	}
	p, err := linePlot(title, x, y, all, false)
	if err != nil {
		return err
	}
	return render(path, size, func(dc draw.Canvas) { p.Draw(dc) })
}

func linePlot(title string, x, y Axis, series []Series, marks bool) (*gplot.Plot, error) {
	p := gplot.New()
	p.Title.Text = title
	setAxis(&p.X, x)
	setAxis(&p.Y, y)
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	drawn := 0
	for i, s := range series {
		if len(s.X) != len(s.Y) {
			return nil, fmt.Errorf("series %q: %d x values, %d y values", s.Name, len(s.X), len(s.Y))
		}
		rows, err := points(Column{Axis: x, Values: s.X}, Column{Axis: y, Values: s.Y})
		if err != nil {
			continue
		}
		pts := make(plotter.XYs, len(rows))
		for k, row := range rows {
			pts[k].X, pts[k].Y = s.X[row], s.Y[row]
		}

		lineStyle, glyphStyle := Style(i)
		l, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("series %q: %w", s.Name, err)
		}
		l.LineStyle = lineStyle
		p.Add(l)
		thumbs := []gplot.Thumbnailer{l}

		if marks {
			sc, err := plotter.NewScatter(pts)
			if err != nil {
				return nil, fmt.Errorf("series %q: %w", s.Name, err)
			}
			sc.GlyphStyle = glyphStyle
			p.Add(sc)
			thumbs = append(thumbs, sc)
		}
		p.Legend.Add(s.Name, thumbs...)
		drawn++
	}
	if drawn == 0 {
		return nil, ErrEmpty
	}
	return p, nil
}
