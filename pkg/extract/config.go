package extract

import(
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/abworrall/envlights/pkg/lights"
	"github.com/abworrall/envlights/pkg/sat"
)

/* Example config file ...

areaRatio: 0.05
lengthRatio: 0.08
luminanceRatio: 0.5
cuts: 8
lights: 3
mergeAngle: 35
strategy: nearmerge
split: median
debug: true
debugDir: /tmp/lights
tonemapper: reinhard05

*/

type Config struct {
	Verbosity       int      `yaml:"verbosity"`

	// Idea is to limit light extraction to analytic directional lights, so we
	// limit the area and power a light may take from the env map
	AreaRatio       float64  `yaml:"areaRatio"`       // max normalized area of a light that may still merge
	LengthRatio     float64  `yaml:"lengthRatio"`     // max normalized longer side of a light that may still merge
	LuminanceRatio  float64  `yaml:"luminanceRatio"`  // max power of a single light, as a ratio of the env total
	Cuts            int      `yaml:"cuts"`            // splitter depth, up to 2^cuts regions
	Lights          int      `yaml:"lights"`          // how many to output, 0 for all
	MergeAngle      float64  `yaml:"mergeAngle"`      // degrees

	Strategy        string   `yaml:"strategy"`
	Split           string   `yaml:"split"`

	Debug           bool     `yaml:"debug"`
	DebugDir        string   `yaml:"debugDir"`
	Tonemapper      string   `yaml:"tonemapper"`
}

func NewConfig() Config {
	return Config{
		AreaRatio: 0.05,
		LengthRatio: 0.08,
		LuminanceRatio: 0.5,
		Cuts: 8,
		Lights: 1,
		MergeAngle: 35.0,
		Strategy: "merge",
		Split: "median",
		DebugDir: ".",
		Tonemapper: "reinhard05",
	}
}

// NewConfigFromYaml starts from the defaults, so the yaml only needs the values it changes.
func NewConfigFromYaml(b []byte) (Config, error) {
	c := NewConfig()
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("%w: parse yaml: %v", ErrConfig, err)
	}
	return c, c.Validate()
}

func LoadConfig(filename string) (Config, error) {
	contents, err := os.ReadFile(filename)
	if err != nil {
		return NewConfig(), fmt.Errorf("%w: config read %s: %v", ErrConfig, filename, err)
	}

	return NewConfigFromYaml(contents)
}

func (c Config)AsYaml() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		log.Printf("Can't marshal config yaml: %v\n", err)
		return ""
	}
	return string(b)
}

// Validate does sanity checks on the values. The tonemapper name is checked by
// the visualize package, when debug output is asked for.
func (c Config)Validate() error {
	bad := func(format string, args ...interface{}) error {
		return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
	}

	switch {
	case c.AreaRatio <= 0 || c.AreaRatio > 1:
		return bad("areaRatio %g not in (0,1]", c.AreaRatio)
	case c.LengthRatio <= 0 || c.LengthRatio > 1:
		return bad("lengthRatio %g not in (0,1]", c.LengthRatio)
	case c.LuminanceRatio < 0 || c.LuminanceRatio > 1:
		return bad("luminanceRatio %g not in [0,1]", c.LuminanceRatio)
	case c.Cuts < 0 || c.Cuts > 30:
		return bad("cuts %d not in [0,30]", c.Cuts)
	case c.Lights < 0:
		return bad("lights %d is negative", c.Lights)
	case c.MergeAngle < 0 || c.MergeAngle > 180:
		return bad("mergeAngle %g not in [0,180]", c.MergeAngle)
	}

	if _, err := lights.ParseStrategy(c.Strategy); err != nil {
		return bad("%v", err)
	}
	if _, err := sat.ParseSplitPolicy(c.Split); err != nil {
		return bad("%v", err)
	}

	return nil
}

func (c Config)GetStrategy() lights.Strategy {
	s, _ := lights.ParseStrategy(c.Strategy)
	return s
}

func (c Config)GetSplitPolicy() sat.SplitPolicy {
	p, _ := sat.ParseSplitPolicy(c.Split)
	return p
}
