package lights

import(
	"github.com/abworrall/envlights/pkg/emath"
	"github.com/abworrall/envlights/pkg/envmap"
	"github.com/abworrall/envlights/pkg/sat"
)

// PowerFloorRatio scales the env map's total luminance into the floor below
// which a candidate's power counts as numerically nothing.
const PowerFloorRatio = 1e-9

// Synthesize turns each leaf region into a candidate light, keeping the order.
// A light whose power is at or below powerFloor, or that has no finite pixels or
// non-finite stats, is kept but flagged with Error. img is only read.
func Synthesize(regions []sat.Region, t *sat.Table, img *envmap.Image, powerFloor float64) []Light {
	out := make([]Light, 0, len(regions))
	if len(regions) == 0 {
		return out
	}

	fw, fh := float64(t.Width()), float64(t.Height())

	for _, r := range regions {
		s := t.Query(r.X, r.Y, r.X+r.W-1, r.Y+r.H-1)
		l := Light{
			X: (float64(r.X) + float64(r.W)/2.0) / fw,
			Y: (float64(r.Y) + float64(r.H)/2.0) / fh,
			W: float64(r.W) / fw,
			H: float64(r.H) / fh,
			Bounds: Rect{
				MinX: float64(r.X) / fw,
				MinY: float64(r.Y) / fh,
				MaxX: float64(r.X + r.W) / fw,
				MaxY: float64(r.Y + r.H) / fh,
			},
			Sum: s.Sum,
			Lum: s.AvgLum(),
			Variance: s.Variance(),
			Count: s.Count,
			Merged: 1,
		}
		l.R, l.G, l.B = s.AvgColor()
		if img != nil {
			l.Peak = peak(img, r)
		}

		l.Error = r.IsDegenerate() || s.Count <= 0 || !s.IsFinite() || s.Sum <= powerFloor
		if l.Sum < 0 || !emath.IsFinite(l.Sum) {
			l.Sum = 0
		}

		out = append(out, l)
	}

	return out
}

func peak(img *envmap.Image, r sat.Region) float64 {
	max := 0.0
	for y:=r.Y; y<r.Y+r.H && y<img.Height; y++ {
		for x:=r.X; x<r.X+r.W && x<img.Width; x++ {
			if lum := sat.Luminance(img.RGB(x, y)); emath.IsFinite(lum) && lum > max {
				max = lum
			}
		}
	}
	return max
}
