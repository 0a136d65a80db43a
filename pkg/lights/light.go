package lights

import(
	"fmt"
	"math"

	"github.com/abworrall/envlights/pkg/emath"
)

// Rect is an axis aligned box in normalized image coords, [0,1] on both axes.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

func (r Rect)Dx() float64 { return r.MaxX - r.MinX }
func (r Rect)Dy() float64 { return r.MaxY - r.MinY }

func (r Rect)Union(s Rect) Rect {
	return Rect{
		MinX: math.Min(r.MinX, s.MinX),
		MinY: math.Min(r.MinY, s.MinY),
		MaxX: math.Max(r.MaxX, s.MaxX),
		MaxY: math.Max(r.MaxY, s.MaxY),
	}
}

// A Light approximates part of the env map as a directional light. Candidate
// lights come straight from one leaf region; main lights are the result of
// merging, with Merged counting the candidates they represent.
type Light struct {
	X, Y     float64   // centroid, normalized
	W, H     float64   // extent, normalized
	Bounds   Rect

	R, G, B  float64   // average color
	Lum      float64   // average luminance
	Sum      float64   // total luminance, i.e. the light's relative power
	Variance float64
	Count    float64   // pixels with finite values
	Peak     float64   // brightest single pixel luminance

	Error    bool      // statistics were degenerate, or power at/below threshold
	Merged   int
}

func (l Light)Area() float64    { return l.W * l.H }
func (l Light)MaxSide() float64 { return math.Max(l.W, l.H) }

func (l Light)Direction() emath.Vec3 { return emath.Direction(l.X, l.Y) }

func (l Light)String() string {
	return fmt.Sprintf("light(%.4f,%.4f %.4fx%.4f) sum=%g lum=%g rgb=[%g,%g,%g] var=%g err=%v merged=%d",
		l.X, l.Y, l.W, l.H, l.Sum, l.Lum, l.R, l.G, l.B, l.Variance, l.Error, l.Merged)
}

// ByAreaAscending orders smaller lights first; in env maps the small regions
// tend to be the intense ones. For slices.SortStableFunc.
func ByAreaAscending(a, b Light) int {
	switch {
	case a.Area() < b.Area(): return -1
	case a.Area() > b.Area(): return 1
	}
	return 0
}

// ByPowerDescending orders the most powerful lights first.
func ByPowerDescending(a, b Light) int {
	switch {
	case a.Sum > b.Sum: return -1
	case a.Sum < b.Sum: return 1
	}
	return 0
}
