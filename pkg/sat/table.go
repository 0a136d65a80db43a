package sat

// A summed area table over the luminance of an HDR image. Built once, then
// answers sums over any axis-aligned rectangle with four lookups.

import(
	"errors"
	"fmt"
	"math"

	"github.com/abworrall/envlights/pkg/emath"
)

var ErrInvalidInput = errors.New("sat: invalid input image")

// Rec. 709 luminance weights
const(
	WeightR = 0.2126
	WeightG = 0.7152
	WeightB = 0.0722
)

func Luminance(r, g, b float64) float64 { return WeightR*r + WeightG*g + WeightB*b }

// Stats holds the six sums over a rectangle. Count is the number of pixels that
// carried finite values; a pixel with a NaN or Inf channel adds nothing to any sum.
type Stats struct {
	Sum   float64 // luminance
	SumSq float64 // luminance squared
	R,G,B float64
	Count float64
}

func (s Stats)Variance() float64 {
	if s.Count <= 0 {
		return 0
	}
	mean := s.Sum / s.Count
	v := s.SumSq / s.Count - mean*mean
	if v < 0 {
		v = 0 // floating point cancellation
	}
	return v
}

func (s Stats)AvgLum() float64 {
	if s.Count <= 0 { return 0 }
	return s.Sum / s.Count
}

func (s Stats)AvgColor() (float64, float64, float64) {
	if s.Count <= 0 { return 0, 0, 0 }
	return s.R / s.Count, s.G / s.Count, s.B / s.Count
}

func (s Stats)IsFinite() bool {
	return emath.IsFinite(s.Sum, s.SumSq, s.R, s.G, s.B, s.Count)
}

func (s Stats)String() string {
	return fmt.Sprintf("{sum:%g sumsq:%g rgb:[%g,%g,%g] n:%g}", s.Sum, s.SumSq, s.R, s.G, s.B, s.Count)
}

// Table is the summed area table. Each grid is one cell larger than the image in
// each dimension; cell (x+1,y+1) holds the total over pixels [0,x]x[0,y].
type Table struct {
	width, height int

	lum   emath.FloatGrid
	lumSq emath.FloatGrid
	r     emath.FloatGrid
	g     emath.FloatGrid
	b     emath.FloatGrid
	count emath.FloatGrid

	minLum, maxLum float64
}

// Build computes the table from a flat row-major buffer of `channels` floats per
// pixel. Only the first three channels are read; alpha is ignored.
func Build(pix []float32, width, height, channels int) (*Table, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidInput, width, height)
	} else if channels < 3 {
		return nil, fmt.Errorf("%w: %d channels, need at least 3", ErrInvalidInput, channels)
	} else if len(pix) < width*height*channels {
		return nil, fmt.Errorf("%w: %d samples for %dx%dx%d", ErrInvalidInput, len(pix), width, height, channels)
	}

	t := Table{
		width: width,
		height: height,
		lum: emath.NewFloatGrid(width+1, height+1),
		lumSq: emath.NewFloatGrid(width+1, height+1),
		r: emath.NewFloatGrid(width+1, height+1),
		g: emath.NewFloatGrid(width+1, height+1),
		b: emath.NewFloatGrid(width+1, height+1),
		count: emath.NewFloatGrid(width+1, height+1),
		minLum: math.MaxFloat64,
		maxLum: -math.MaxFloat64,
	}

	grids := []*emath.FloatGrid{&t.lum, &t.lumSq, &t.r, &t.g, &t.b, &t.count}
	vals := make([]float64, len(grids))

	for y:=0; y<height; y++ {
		for x:=0; x<width; x++ {
			i := (y*width + x) * channels
			r, g, b := float64(pix[i]), float64(pix[i+1]), float64(pix[i+2])
			lum := Luminance(r, g, b)

			if emath.IsFinite(r, g, b, lum*lum) {
				vals[0], vals[1], vals[2], vals[3], vals[4], vals[5] = lum, lum*lum, r, g, b, 1
				if lum < t.minLum { t.minLum = lum }
				if lum > t.maxLum { t.maxLum = lum }
			} else {
				vals[0], vals[1], vals[2], vals[3], vals[4], vals[5] = 0, 0, 0, 0, 0, 0
			}

			// own + left + above - diagonal; row 0 and column 0 are the zero padding
			for j, grid := range grids {
				v := vals[j] + grid.Get(x, y+1) + grid.Get(x+1, y) - grid.Get(x, y)
				grid.Set(x+1, y+1, v)
			}
		}
	}

	if t.maxLum < t.minLum {
		t.minLum, t.maxLum = 0, 0 // nothing finite at all
	}

	return &t, nil
}

func (t *Table)Width() int       { return t.width }
func (t *Table)Height() int      { return t.height }
func (t *Table)MinLum() float64  { return t.minLum }
func (t *Table)MaxLum() float64  { return t.maxLum }

// Sum is the total luminance of the image.
func (t *Table)Sum() float64     { return t.lum.Get(t.width, t.height) }

// Whole returns the stats for the entire image.
func (t *Table)Whole() Stats     { return t.Query(0, 0, t.width-1, t.height-1) }

func rect(g *emath.FloatGrid, x0, y0, x1, y1 int) float64 {
	return g.Get(x1+1, y1+1) - g.Get(x0, y1+1) - g.Get(x1+1, y0) + g.Get(x0, y0)
}

// Query returns the sums over the closed pixel rectangle [x0,x1]x[y0,y1]. The
// caller clamps; out of range coords panic.
func (t *Table)Query(x0, y0, x1, y1 int) Stats {
	if x1 < x0 || y1 < y0 {
		return Stats{}
	}
	return Stats{
		Sum:   rect(&t.lum,   x0, y0, x1, y1),
		SumSq: rect(&t.lumSq, x0, y0, x1, y1),
		R:     rect(&t.r,     x0, y0, x1, y1),
		G:     rect(&t.g,     x0, y0, x1, y1),
		B:     rect(&t.b,     x0, y0, x1, y1),
		Count: rect(&t.count, x0, y0, x1, y1),
	}
}

func (t *Table)String() string {
	return fmt.Sprintf("sat[%dx%d, lum{%g..%g}, sum %g]", t.width, t.height, t.minLum, t.maxLum, t.Sum())
}
