package plot

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot/palette"
)

// rainbowStops are the control colours of the scatter colour map, from the
// lowest value to the highest.
var rainbowStops = []color.NRGBA{
	{R: 0x80, G: 0x00, B: 0x80, A: 0xff}, // purple
	{R: 0x00, G: 0xff, B: 0xff, A: 0xff}, // cyan
	{R: 0x00, G: 0x00, B: 0xff, A: 0xff}, // blue
	{R: 0x00, G: 0x80, B: 0x00, A: 0xff}, // green
	{R: 0xff, G: 0xff, B: 0x00, A: 0xff}, // yellow
	{R: 0xff, G: 0x00, B: 0x00, A: 0xff}, // red
}

// Rainbow is a palette.ColorMap interpolating linearly between the
// purple, cyan, blue, green, yellow and red stops.
type Rainbow struct {
	min, max float64
	alpha    float64
}

var _ palette.ColorMap = (*Rainbow)(nil)

// NewRainbow returns a colour map over [min, max]. A degenerate range is
// widened by one unit on each side so the map stays usable.
func NewRainbow(min, max float64) *Rainbow {
	if max < min {
		min, max = max, min
	}
	if max == min {
		min, max = min-1, max+1
	}
	return &Rainbow{min: min, max: max, alpha: 1}
}

// At implements palette.ColorMap.
func (r *Rainbow) At(v float64) (color.Color, error) {
	switch {
	case math.IsNaN(v):
		return nil, fmt.Errorf("colour map: NaN value")
	case v < r.min:
		return nil, palette.ErrUnderflow
	case v > r.max:
		return nil, palette.ErrOverflow
	}

	pos := (v - r.min) / (r.max - r.min) * float64(len(rainbowStops)-1)
	i := int(pos)
	if i >= len(rainbowStops)-1 {
		i = len(rainbowStops) - 2
	}
	frac := pos - float64(i)
	lo, hi := rainbowStops[i], rainbowStops[i+1]
	return color.NRGBA{
		R: lerp(lo.R, hi.R, frac),
		G: lerp(lo.G, hi.G, frac),
		B: lerp(lo.B, hi.B, frac),
		A: uint8(math.Round(r.alpha * 0xff)),
	}, nil
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}

// Max implements palette.ColorMap.
func (r *Rainbow) Max() float64 { return r.max }

// Min implements palette.ColorMap.
func (r *Rainbow) Min() float64 { return r.min }

// SetMax implements palette.ColorMap.
func (r *Rainbow) SetMax(v float64) { r.max = v }

// SetMin implements palette.ColorMap.
func (r *Rainbow) SetMin(v float64) { r.min = v }

// Alpha implements palette.ColorMap.
func (r *Rainbow) Alpha() float64 { return r.alpha }

// SetAlpha implements palette.ColorMap.
func (r *Rainbow) SetAlpha(a float64) { r.alpha = a }

// Palette implements palette.ColorMap, sampling n evenly spaced colours.
func (r *Rainbow) Palette(n int) palette.Palette {
	colors := make(colorList, n)
	for i := range colors {
		v := r.min
		if n > 1 {
			v += (r.max - r.min) * float64(i) / float64(n-1)
		}
		v = math.Min(v, r.max)
		colors[i], _ = r.At(v)
	}
	return colors
}

type colorList []color.Color

func (c colorList) Colors() []color.Color { return c }
