package main

import(
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/abworrall/envlights/pkg/envmap"
	"github.com/abworrall/envlights/pkg/extract"
	"github.com/abworrall/envlights/pkg/lights"
	"github.com/abworrall/envlights/pkg/sat"
	"github.com/abworrall/envlights/pkg/visualize"
)

type options struct {
	Config  extract.Config
	Output  string
	Jobs    int
	Inputs  []string
}

// parseArgs builds the config: defaults, then the config file if given, then any
// flags that were set on the command line.
func parseArgs(args []string) (options, error) {
	opts := options{Config: extract.NewConfig()}
	c := extract.NewConfig()

	fs := pflag.NewFlagSet("envlights", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)

	configFile := fs.StringP("config", "c", "", "yaml config file; flags override its values")
	fs.StringVarP(&opts.Output, "output", "o", "", "write the json here, instead of stdout")
	fs.IntVarP(&opts.Jobs, "jobs", "j", runtime.NumCPU(), "how many env maps to process at once")

	fs.Float64VarP(&c.AreaRatio, "area", "a", c.AreaRatio, "max normalized area of a light that may merge")
	fs.Float64VarP(&c.LengthRatio, "length", "l", c.LengthRatio, "max normalized side of a light that may merge")
	fs.Float64VarP(&c.LuminanceRatio, "ratio", "r", c.LuminanceRatio, "max power of a light, as a ratio of the total")
	fs.IntVarP(&c.Cuts, "cuts", "n", c.Cuts, "splitter depth, up to 2^n regions")
	fs.IntVarP(&c.Lights, "lights", "m", c.Lights, "how many lights to output, 0 for all")
	fs.Float64Var(&c.MergeAngle, "angle", c.MergeAngle, "max angle in degrees between merged lights")
	fs.StringVar(&c.Strategy, "strategy", c.Strategy, fmt.Sprintf("post-merge strategy: %v", lights.Strategies))
	fs.StringVar(&c.Split, "split", c.Split, fmt.Sprintf("where to cut regions: %v", sat.SplitPolicies))
	fs.BoolVarP(&c.Debug, "debug", "d", c.Debug, "write debug images of the regions and lights")
	fs.StringVar(&c.DebugDir, "debugdir", c.DebugDir, "where to write debug images")
	fs.StringVar(&c.Tonemapper, "tonemapper", c.Tonemapper, "tonemapper for debug images: "+visualize.ListTonemappers())
	fs.IntVarP(&c.Verbosity, "verbosity", "v", c.Verbosity, "how verbose to get")

	if err := fs.Parse(args); err != nil {
		return opts, fmt.Errorf("%w: %v", extract.ErrConfig, err)
	}

	if *configFile != "" {
		fileConfig, err := extract.LoadConfig(*configFile)
		if err != nil {
			return opts, err
		}
		opts.Config = fileConfig
	}

	overrides := map[string]func(){
		"area":       func() { opts.Config.AreaRatio = c.AreaRatio },
		"length":     func() { opts.Config.LengthRatio = c.LengthRatio },
		"ratio":      func() { opts.Config.LuminanceRatio = c.LuminanceRatio },
		"cuts":       func() { opts.Config.Cuts = c.Cuts },
		"lights":     func() { opts.Config.Lights = c.Lights },
		"angle":      func() { opts.Config.MergeAngle = c.MergeAngle },
		"strategy":   func() { opts.Config.Strategy = c.Strategy },
		"split":      func() { opts.Config.Split = c.Split },
		"debug":      func() { opts.Config.Debug = c.Debug },
		"debugdir":   func() { opts.Config.DebugDir = c.DebugDir },
		"tonemapper": func() { opts.Config.Tonemapper = c.Tonemapper },
		"verbosity":  func() { opts.Config.Verbosity = c.Verbosity },
	}
	for name, set := range overrides {
		if fs.Changed(name) {
			set()
		}
	}

	if err := opts.Config.Validate(); err != nil {
		return opts, err
	}
	if opts.Config.Debug && !visualize.IsTonemapper(opts.Config.Tonemapper) {
		return opts, fmt.Errorf("%w: tonemapper %q not in %s", extract.ErrConfig, opts.Config.Tonemapper, visualize.ListTonemappers())
	}
	if opts.Jobs < 1 {
		opts.Jobs = 1
	}

	opts.Inputs = fs.Args()
	if len(opts.Inputs) == 0 {
		return opts, fmt.Errorf("%w: no input files", extract.ErrConfig)
	}

	return opts, nil
}

func processFile(c extract.Config, filename string) ([]lights.Record, error) {
	img, err := envmap.Load(filename)
	if err != nil {
		return nil, err
	}
	if c.Verbosity > 0 {
		log.Printf("Loaded %s", img)
	}

	res, err := extract.NewExtractor(c).Run(img)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if c.Verbosity > 0 {
		log.Printf("%s: %s", filename, extract.Summarize(img, res))
	}

	if c.Debug {
		if err := visualize.Debug(img, res, c); err != nil {
			log.Printf("%s: debug images failed: %v", filename, err)
		}
	}

	return res.Records, nil
}

// processAll runs each file in its own goroutine, at most jobs at a time. The
// first failure cancels the files not started yet.
func processAll(ctx context.Context, c extract.Config, files []string, jobs int) (map[string][]lights.Record, error) {
	results := make([][]lights.Record, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			recs, err := processFile(c, file)
			if err != nil {
				return err
			}
			results[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := map[string][]lights.Record{}
	for i, file := range files {
		out[file] = results[i]
	}
	return out, nil
}

// writeOutput writes a single array for one input, and an object keyed by
// filename for several.
func writeOutput(w io.Writer, files []string, results map[string][]lights.Record) error {
	if len(files) == 1 {
		return lights.WriteJSON(w, results[files[0]])
	}

	for _, file := range files {
		if results[file] == nil {
			results[file] = []lights.Record{}
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func run(args []string, stdout io.Writer) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}
	if opts.Config.Verbosity > 0 {
		log.Printf("Final configuration:-\n\n%s\n", opts.Config.AsYaml())
	}

	files, err := envmap.ExpandPaths(opts.Inputs...)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no loadable files in %v", extract.ErrDecodeFailure, opts.Inputs)
	}

	results, err := processAll(context.Background(), opts.Config, files, opts.Jobs)
	if err != nil {
		return err
	}

	w := stdout
	if opts.Output != "" {
		f, err := os.Create(opts.Output)
		if err != nil {
			return fmt.Errorf("open+w '%s': %v", opts.Output, err)
		}
		defer f.Close()
		w = f
	}

	return writeOutput(w, files, results)
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Printf("envlights: %v", err)
		os.Exit(extract.ExitCode(err))
	}
}
