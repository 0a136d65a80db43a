package lights

import(
	"math"
	"slices"

	"github.com/abworrall/envlights/pkg/emath"
)

// MergeParams are the thresholds a candidate must be under to be absorbed into
// an existing main light. Areas and lengths are normalized, powers are in
// luminance sum units.
type MergeParams struct {
	AreaSizeMax    float64
	LengthRatioMax float64
	PowerMax       float64
	AngleDegMax    float64
}

// CanJoin says whether the candidate may be absorbed into main.
func (p MergeParams)CanJoin(cand, main Light) bool {
	if cand.Area() > p.AreaSizeMax || cand.MaxSide() > p.LengthRatioMax || cand.Sum > p.PowerMax {
		return false
	}
	return emath.AngleDeg(cand.Direction(), main.Direction()) <= p.AngleDegMax
}

// Merge greedily clusters the candidates, smallest area first. Each candidate
// joins the first existing main light it is eligible for, else starts a new
// one. Returns the main lights (in no useful order; sort them) and how many
// candidates were absorbed.
func Merge(candidates []Light, p MergeParams) ([]Light, int) {
	if len(candidates) == 0 {
		return nil, 0
	}

	sorted := slices.Clone(candidates)
	slices.SortStableFunc(sorted, ByAreaAscending)

	mains := []Light{}
	absorbed := 0

	for _, cand := range sorted {
		cand.Merged = 1
		joined := false
		for i := range mains {
			if p.CanJoin(cand, mains[i]) {
				mains[i] = Absorb(mains[i], cand)
				absorbed++
				joined = true
				break
			}
		}

		if !joined {
			mains = append(mains, cand)
		}
	}

	return mains, absorbed
}

// Absorb returns main grown to take in l. Power adds up exactly; position,
// color, luminance and variance are power weighted; the bounds are the union.
func Absorb(main, l Light) Light {
	wa, wb := main.Sum, l.Sum

	out := Light{
		X: emath.WeightedMean(main.X, wa, l.X, wb),
		Y: emath.WeightedMean(main.Y, wa, l.Y, wb),
		Bounds: main.Bounds.Union(l.Bounds),

		R: emath.WeightedMean(main.R, wa, l.R, wb),
		G: emath.WeightedMean(main.G, wa, l.G, wb),
		B: emath.WeightedMean(main.B, wa, l.B, wb),
		Lum: emath.WeightedMean(main.Lum, wa, l.Lum, wb),
		Sum: main.Sum + l.Sum,
		Variance: emath.WeightedMean(main.Variance, wa, l.Variance, wb),
		Count: main.Count + l.Count,
		Peak: math.Max(main.Peak, l.Peak),

		Error: main.Error && l.Error,
		Merged: main.Merged + l.Merged,
	}
	out.W, out.H = out.Bounds.Dx(), out.Bounds.Dy()

	return out
}
