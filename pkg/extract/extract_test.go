package extract

import(
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abworrall/envlights/pkg/envmap"
	"github.com/abworrall/envlights/pkg/lights"
	"github.com/abworrall/envlights/pkg/sat"
)

func uniform(w, h int, v float64) *envmap.Image {
	im := envmap.NewImage(w, h, 3)
	for y:=0; y<h; y++ {
		for x:=0; x<w; x++ {
			im.SetRGB(x, y, v, v, v)
		}
	}
	return im
}

func TestConstantImageMergesToOneLight(t *testing.T) {
	c := NewConfig()
	c.Cuts = 1
	c.AreaRatio, c.LengthRatio, c.LuminanceRatio = 1, 1, 1
	c.MergeAngle = 180
	c.Lights = 0

	res, err := NewExtractor(c).Run(uniform(4, 4, 1))
	require.NoError(t, err)

	require.Len(t, res.Regions, 2)
	for _, r := range res.Regions {
		assert.Equal(t, 8, r.Area())
	}

	require.Len(t, res.Candidates, 2)
	a, b := res.Candidates[0], res.Candidates[1]
	assert.InDelta(t, 0.0, a.Variance, 1e-9)
	assert.InDelta(t, 0.0, b.Variance, 1e-9)
	assert.InDelta(t, a.Sum, b.Sum, 1e-9)

	require.Len(t, res.Mains, 1)
	assert.Equal(t, 1, res.Absorbed)
	assert.Equal(t, a.Sum+b.Sum, res.Mains[0].Sum)
	assert.Equal(t, 2, res.Mains[0].Merged)
	assert.InDelta(t, res.LuminanceSum, res.Mains[0].Sum, 1e-9)

	// The merged centroid sits on the horizon, which is culled at output
	assert.InDelta(t, 0.5, res.Mains[0].Y, 1e-12)
	assert.Empty(t, res.Records)
}

func TestBrightPatchStaysDistinct(t *testing.T) {
	const w, h = 32, 16
	const dim = 0.1
	im := uniform(w, h, dim)
	for y:=3; y<5; y++ {
		for x:=8; x<10; x++ {
			im.SetRGB(x, y, 1000, 1000, 1000)
		}
	}

	c := NewConfig()
	c.Cuts = 4
	c.LuminanceRatio = 0.1
	c.Lights = 0

	res, err := NewExtractor(c).Run(im)
	require.NoError(t, err)

	params := c.Params(res.LuminanceSum)
	bright := 0
	for _, l := range res.Candidates {
		if l.Sum > params.PowerMax {
			bright++
		}
	}
	require.Greater(t, bright, 0)

	// Over the power limit means never absorbed, so every bright candidate seeds its own main light
	assert.GreaterOrEqual(t, len(res.Mains), bright)

	top := res.Mains[0]
	assert.Greater(t, top.Sum, params.PowerMax)
	assert.Greater(t, top.Lum, 10*sat.Luminance(dim, dim, dim))
	assert.Less(t, top.Y, 0.5)

	require.NotEmpty(t, res.Records)
	assert.Equal(t, top.Sum, res.Records[0].Sum)
	assert.Greater(t, res.Records[0].LumRatio, c.LuminanceRatio)

	for i:=1; i<len(res.Mains); i++ {
		assert.GreaterOrEqual(t, res.Mains[i-1].Sum, res.Mains[i].Sum)
	}
}

func TestLightCountCap(t *testing.T) {
	im := uniform(64, 32, 0.5)
	for y:=6; y<10; y++ {
		for x:=10; x<14; x++ {
			im.SetRGB(x, y, 50, 40, 30)
		}
		for x:=40; x<44; x++ {
			im.SetRGB(x, y, 30, 40, 50)
		}
	}

	c := NewConfig()
	c.Lights = 1
	res, err := NewExtractor(c).Run(im)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)

	c.Lights = 0
	all, err := NewExtractor(c).Run(im)
	require.NoError(t, err)
	assert.Greater(t, len(all.Records), 1)
	assert.Equal(t, res.Records[0], all.Records[0])
}

func TestStrategiesRun(t *testing.T) {
	im := uniform(32, 16, 1)
	im.SetRGB(5, 5, 500, 500, 500)

	for _, name := range lights.Strategies {
		t.Run(name, func(t *testing.T) {
			c := NewConfig()
			c.Strategy = name
			c.Lights = 0
			res, err := NewExtractor(c).Run(im)
			require.NoError(t, err)
			require.NotEmpty(t, res.Mains)
		})
	}
}

func TestRunErrors(t *testing.T) {
	bad := envmap.NewImage(2, 2, 2)
	_, err := NewExtractor(NewConfig()).Run(bad)
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, ExitInvalidInput, ExitCode(err))

	_, err = NewExtractor(NewConfig()).Run(envmap.NewImage(0, 4, 3))
	require.ErrorIs(t, err, ErrInvalidInput)

	c := NewConfig()
	c.Cuts = -1
	_, err = NewExtractor(c).Run(uniform(4, 4, 1))
	require.ErrorIs(t, err, ErrConfig)
	assert.Equal(t, ExitConfig, ExitCode(err))
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err      error
		expected int
	}{
		{nil, ExitOK},
		{errors.New("boom"), ExitOther},
		{fmt.Errorf("load: %w", ErrDecodeFailure), ExitDecode},
		{fmt.Errorf("cut: %w", ErrExtractionEmpty), ExitEmpty},
		{fmt.Errorf("flags: %w", ErrConfig), ExitConfig},
		{fmt.Errorf("table: %w", ErrInvalidInput), ExitInvalidInput},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, ExitCode(tt.err), "%v", tt.err)
	}
}

func TestConfigYaml(t *testing.T) {
	c, err := NewConfigFromYaml([]byte("cuts: 5\nstrategy: nearmerge\n"))
	require.NoError(t, err)
	assert.Equal(t, 5, c.Cuts)
	assert.Equal(t, lights.StrategyNearMerge, c.GetStrategy())
	assert.Equal(t, 0.05, c.AreaRatio) // default kept
	assert.Equal(t, sat.SplitMedian, c.GetSplitPolicy())

	round, err := NewConfigFromYaml([]byte(c.AsYaml()))
	require.NoError(t, err)
	assert.Equal(t, c, round)

	_, err = NewConfigFromYaml([]byte("split: kmeans\n"))
	require.ErrorIs(t, err, ErrConfig)

	_, err = NewConfigFromYaml([]byte("cuts: [\n"))
	require.ErrorIs(t, err, ErrConfig)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "lights.yaml")
	require.NoError(t, os.WriteFile(filename, []byte("lights: 4\nmergeAngle: 20\n"), 0644))

	c, err := LoadConfig(filename)
	require.NoError(t, err)
	assert.Equal(t, 4, c.Lights)
	assert.Equal(t, 20.0, c.MergeAngle)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, ErrConfig)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"area", func(c *Config) { c.AreaRatio = 0 }},
		{"length", func(c *Config) { c.LengthRatio = 2 }},
		{"luminance", func(c *Config) { c.LuminanceRatio = -0.1 }},
		{"cuts", func(c *Config) { c.Cuts = 31 }},
		{"lights", func(c *Config) { c.Lights = -1 }},
		{"angle", func(c *Config) { c.MergeAngle = 181 }},
		{"strategy", func(c *Config) { c.Strategy = "nope" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewConfig()
			tt.modify(&c)
			require.ErrorIs(t, c.Validate(), ErrConfig)
		})
	}
	require.NoError(t, NewConfig().Validate())
}

func TestSummarize(t *testing.T) {
	im := uniform(10, 10, 1)
	im.SetRGB(0, 0, 100, 100, 100)

	res, err := NewExtractor(NewConfig()).Run(im)
	require.NoError(t, err)

	s := Summarize(im, res)
	assert.InEpsilon(t, sat.Luminance(1, 1, 1), s.P50, 0.01)
	assert.LessOrEqual(t, s.P50, s.P90)
	assert.LessOrEqual(t, s.P90, s.P99)
	assert.InEpsilon(t, sat.Luminance(100, 100, 100), s.Max, 0.01)
	assert.NotEmpty(t, s.String())
}
