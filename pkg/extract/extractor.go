package extract

import(
	"fmt"
	"log"
	"slices"

	"github.com/abworrall/envlights/pkg/envmap"
	"github.com/abworrall/envlights/pkg/lights"
	"github.com/abworrall/envlights/pkg/sat"
)

// Extractor runs the whole pipeline over one env map:
// table -> regions -> candidate lights -> main lights -> records.
type Extractor struct {
	Config
}

func NewExtractor(c Config) Extractor { return Extractor{Config: c} }

// Result holds the output of each stage. Nothing in here aliases the input image.
type Result struct {
	Table        *sat.Table
	Regions      []sat.Region
	Candidates   []lights.Light   // area ascending
	Mains        []lights.Light   // power descending, after the strategy
	Records      []lights.Record
	Absorbed     int

	LuminanceSum float64
	MinLum       float64
	MaxLum       float64
}

func (r Result)String() string {
	return fmt.Sprintf("%d regions, %d candidates, %d main lights (%d absorbed), %d emitted, lum sum %g",
		len(r.Regions), len(r.Candidates), len(r.Mains), r.Absorbed, len(r.Records), r.LuminanceSum)
}

// Params turns the ratios in the config into absolute merge thresholds for an
// env map with the given total luminance.
func (c Config)Params(luminanceSum float64) lights.MergeParams {
	return lights.MergeParams{
		AreaSizeMax: c.AreaRatio,
		LengthRatioMax: c.LengthRatio,
		PowerMax: c.LuminanceRatio * luminanceSum,
		AngleDegMax: c.MergeAngle,
	}
}

func (e Extractor)Run(img *envmap.Image) (*Result, error) {
	if err := e.Config.Validate(); err != nil {
		return nil, err
	}
	if img == nil {
		return nil, fmt.Errorf("%w: no image", ErrInvalidInput)
	}

	table, err := sat.Build(img.Pix, img.Width, img.Height, img.Channels)
	if err != nil {
		return nil, err
	}
	if e.Verbosity > 0 {
		log.Printf("Built %s", table)
	}

	res := Result{
		Table: table,
		LuminanceSum: table.Sum(),
		MinLum: table.MinLum(),
		MaxLum: table.MaxLum(),
	}

	res.Regions = sat.MedianVarianceCut(table, e.Cuts, e.GetSplitPolicy())
	if len(res.Regions) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrExtractionEmpty, img)
	}
	if e.Verbosity > 1 {
		for i, r := range res.Regions {
			log.Printf("region %d: %s", i, r)
		}
	}

	// And he saw that light was good, and separated light from darkness
	params := e.Params(res.LuminanceSum)
	res.Candidates = lights.Synthesize(res.Regions, table, img, res.LuminanceSum * lights.PowerFloorRatio)
	slices.SortStableFunc(res.Candidates, lights.ByAreaAscending)

	mains, absorbed := lights.Merge(res.Candidates, params)
	res.Absorbed = absorbed
	res.Mains = lights.Apply(e.GetStrategy(), mains, params)

	res.Records = lights.Records(res.Mains, res.LuminanceSum, e.Lights)

	if e.Verbosity > 0 {
		log.Printf("Extracted %s: %s", img, res)
	}
	if e.Verbosity > 1 {
		for i, l := range res.Mains {
			log.Printf("main %d: %s", i, l)
		}
	}

	return &res, nil
}
