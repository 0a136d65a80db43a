package lights

import(
	"encoding/json"
	"io"

	"github.com/abworrall/envlights/pkg/emath"
)

type Area struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Record is one light as it is emitted in the JSON output.
type Record struct {
	Direction  [3]float64 `json:"direction"`
	Luminosity float64    `json:"luminosity"`
	Color      [3]float64 `json:"color"`
	Area       Area       `json:"area"`
	Sum        float64    `json:"sum"`
	LumRatio   float64    `json:"lum_ratio"`
	Variance   float64    `json:"variance"`
	Error      int        `json:"error"`
}

func NewRecord(l Light, luminanceSum float64) Record {
	d := l.Direction()
	rec := Record{
		Direction: [3]float64{d[0], d[1], d[2]},
		Luminosity: l.Lum,
		Color: [3]float64{l.R, l.G, l.B},
		Area: Area{X: l.X, Y: l.Y, W: l.W, H: l.H},
		Sum: l.Sum,
		Variance: l.Variance,
	}
	if luminanceSum != 0 {
		rec.LumRatio = l.Sum / luminanceSum
	}
	if l.Error {
		rec.Error = 1
	}
	return rec
}

// Records builds the output list from power sorted main lights. Lights in the
// lower hemisphere are culled, and at most maxLights are emitted (0 means all).
func Records(mains []Light, luminanceSum float64, maxLights int) []Record {
	out := []Record{}
	for _, l := range mains {
		if maxLights > 0 && len(out) >= maxLights {
			break
		}
		if !emath.AboveHorizon(l.Y) {
			continue
		}
		out = append(out, NewRecord(l, luminanceSum))
	}
	return out
}

// WriteJSON emits the records as a JSON array.
func WriteJSON(w io.Writer, recs []Record) error {
	if recs == nil {
		recs = []Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(recs)
}
