package lights

import(
	"fmt"
	"slices"
	"strings"

	"github.com/abworrall/envlights/pkg/emath"
)

// Strategy is the post-processing applied to the main lights after the base merge.
type Strategy int

const(
	StrategyMerge Strategy = iota   // base merge only
	StrategySelect                  // then keep only lights small enough to be analytic
	StrategyNearMerge               // then fuse main lights that sit close together
)

var Strategies = []string{"merge", "select", "nearmerge"}

func (s Strategy)String() string {
	switch s {
	case StrategyMerge:     return "merge"
	case StrategySelect:    return "select"
	case StrategyNearMerge: return "nearmerge"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(s) {
	case "", "merge":  return StrategyMerge, nil
	case "select":     return StrategySelect, nil
	case "nearmerge":  return StrategyNearMerge, nil
	}
	return StrategyMerge, fmt.Errorf("no merge strategy named '%s', wanted %v", s, Strategies)
}

// Apply runs the strategy over the main lights and returns a new slice, most
// powerful first.
func Apply(s Strategy, mains []Light, p MergeParams) []Light {
	out := slices.Clone(mains)
	slices.SortStableFunc(out, ByPowerDescending)

	switch s {
	case StrategySelect:
		out = selectLights(out, p)
	case StrategyNearMerge:
		out = mergeNearLights(out, p)
	}

	slices.SortStableFunc(out, ByPowerDescending)
	return out
}

// selectLights drops lights too spread out to stand in for a directional
// light. The most powerful light always survives.
func selectLights(sorted []Light, p MergeParams) []Light {
	out := []Light{}
	for _, l := range sorted {
		if l.Area() <= p.AreaSizeMax {
			out = append(out, l)
		}
	}
	if len(out) == 0 && len(sorted) > 0 {
		out = append(out, sorted[0])
	}
	return out
}

// mergeNearLights fuses main lights within the merge angle of each other, as
// long as the fused extent is still within the area and length limits. Power
// is not limited here.
func mergeNearLights(sorted []Light, p MergeParams) []Light {
	out := []Light{}
	for _, l := range sorted {
		fused := false
		for i := range out {
			if emath.AngleDeg(l.Direction(), out[i].Direction()) > p.AngleDegMax {
				continue
			}
			u := out[i].Bounds.Union(l.Bounds)
			if u.Dx() * u.Dy() > p.AreaSizeMax || max(u.Dx(), u.Dy()) > p.LengthRatioMax {
				continue
			}
			out[i] = Absorb(out[i], l)
			fused = true
			break
		}
		if !fused {
			out = append(out, l)
		}
	}
	return out
}
