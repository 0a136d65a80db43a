package extract

import(
	"fmt"
	"math"

	"github.com/codahale/hdrhistogram"
	"github.com/skypies/util/histogram"

	"github.com/abworrall/envlights/pkg/envmap"
	"github.com/abworrall/envlights/pkg/sat"
)

// Pixel luminances are recorded in thousandths, so the quantiles keep three decimals
const(
	lumScale   = 1000.0
	lumHighest = int64(1e12)
)

// Summary describes the env map's luminance distribution, and how the
// candidate lights' powers spread out. Logged at verbosity 1+.
type Summary struct {
	P50, P90, P99, Max float64      // pixel luminance quantiles
	PowerHist          histogram.Histogram  // log2 of each candidate's power, offset by 32
}

func (s Summary)String() string {
	return fmt.Sprintf("pixel lum p50=%.3f p90=%.3f p99=%.3f max=%.3f\nlog2(power)+32 of candidates: %v",
		s.P50, s.P90, s.P99, s.Max, s.PowerHist)
}

func Summarize(img *envmap.Image, res *Result) Summary {
	h := hdrhistogram.New(1, lumHighest, 3)
	for y:=0; y<img.Height; y++ {
		for x:=0; x<img.Width; x++ {
			lum := sat.Luminance(img.RGB(x, y))
			if math.IsNaN(lum) {
				continue
			}
			v := int64(math.Max(0, math.Min(lum * lumScale, float64(lumHighest))))
			h.RecordValue(v)
		}
	}

	s := Summary{
		P50: float64(h.ValueAtQuantile(50)) / lumScale,
		P90: float64(h.ValueAtQuantile(90)) / lumScale,
		P99: float64(h.ValueAtQuantile(99)) / lumScale,
		Max: float64(h.Max()) / lumScale,
		PowerHist: histogram.Histogram{NumBuckets:64, ValMin:0, ValMax:64},
	}

	if res != nil {
		for _, l := range res.Candidates {
			if l.Sum <= 0 {
				continue
			}
			bucket := int(math.Floor(math.Log2(l.Sum))) + 32
			if bucket < 0  { bucket = 0 }
			if bucket > 63 { bucket = 63 }
			s.PowerHist.Add(histogram.ScalarVal(bucket))
		}
	}

	return s
}
