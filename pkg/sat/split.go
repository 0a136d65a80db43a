package sat

import(
	"fmt"
	"math"
	"sort"
	"strings"
)

type SplitPolicy int

const(
	SplitMedian SplitPolicy = iota   // halves carry equal luminance
	SplitVariance                    // halves have the least summed variance
)

var SplitPolicies = []string{"median", "variance"}

func (p SplitPolicy)String() string {
	switch p {
	case SplitMedian:   return "median"
	case SplitVariance: return "variance"
	}
	return fmt.Sprintf("SplitPolicy(%d)", int(p))
}

func ParseSplitPolicy(s string) (SplitPolicy, error) {
	switch strings.ToLower(s) {
	case "", "median": return SplitMedian, nil
	case "variance":   return SplitVariance, nil
	}
	return SplitMedian, fmt.Errorf("no split policy named '%s', wanted %v", s, SplitPolicies)
}

// maxPrealloc bounds the up-front leaf allocation for deep cuts.
const maxPrealloc = 1 << 16

type workItem struct {
	r     Region
	depth int // remaining cuts
}

// MedianVarianceCut partitions the whole image into at most 2^maxDepth leaf regions.
// The longer side of each region is cut (width on ties) at the point picked by the
// policy. Leaves come out in depth first order, first child before second. An empty
// table yields no regions.
func MedianVarianceCut(t *Table, maxDepth int, policy SplitPolicy) []Region {
	if t == nil || t.Width() <= 0 || t.Height() <= 0 {
		return nil
	}
	if maxDepth < 0 {
		maxDepth = 0
	}

	capacity := t.Width() * t.Height()
	if maxDepth < 31 && 1<<maxDepth < capacity {
		capacity = 1 << maxDepth
	}
	if capacity > maxPrealloc {
		capacity = maxPrealloc
	}
	leaves := make([]Region, 0, capacity)

	stack := []workItem{{NewRegion(t, 0, 0, t.Width(), t.Height()), maxDepth}}
	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		r := item.r

		// can't split any further?
		if r.W < 2 || r.H < 2 || item.depth == 0 {
			leaves = append(leaves, r)
			continue
		}

		var a, b Region
		if r.W >= r.H {
			a, b = r.SplitW(t, findCut(t, r, true, policy))
		} else {
			a, b = r.SplitH(t, findCut(t, r, false, policy))
		}

		// Push b first so a is handled first. Slivers become leaves straight away.
		for _, child := range []Region{b, a} {
			if child.W <= 2 || child.H <= 2 {
				stack = append(stack, workItem{child, 0})
			} else {
				stack = append(stack, workItem{child, item.depth - 1})
			}
		}
	}

	return leaves
}

// findCut returns the size of the first part, in [1, side-1].
func findCut(t *Table, r Region, alongW bool, policy SplitPolicy) int {
	side := r.H
	if alongW {
		side = r.W
	}

	first := func(cut int) Stats {
		if alongW {
			return t.Query(r.X, r.Y, r.X+cut-1, r.Y+r.H-1)
		}
		return t.Query(r.X, r.Y, r.X+r.W-1, r.Y+cut-1)
	}

	switch policy {
	case SplitVariance:
		return varianceCut(r, side, first)
	default:
		return medianCut(r, side, first)
	}
}

func medianCut(r Region, side int, first func(int) Stats) int {
	if r.Sum <= 0 {
		return side / 2 // no energy to balance
	}

	half := r.Sum / 2.0
	// The prefix sum is monotone in cut (luminance is never negative), so find the first
	// cut whose first part holds at least half, then check if the one before is closer.
	cut := 1 + sort.Search(side-1, func(i int) bool { return first(i+1).Sum >= half })
	if cut > side-1 {
		cut = side - 1
	}
	if cut > 1 {
		over  := first(cut).Sum - half
		under := half - first(cut-1).Sum
		if under < over {
			cut--
		}
	}

	return cut
}

func varianceCut(r Region, side int, first func(int) Stats) int {
	best, bestScore := side/2, math.MaxFloat64

	for cut:=1; cut<side; cut++ {
		a := first(cut)
		b := Stats{
			Sum:   r.Sum - a.Sum,
			SumSq: r.SumSq - a.SumSq,
			Count: r.Count - a.Count,
		}
		score := a.Variance() + b.Variance()

		closer := math.Abs(float64(cut) - float64(side)/2) < math.Abs(float64(best) - float64(side)/2)
		if score < bestScore || (score == bestScore && closer) {
			best, bestScore = cut, score
		}
	}

	return best
}
