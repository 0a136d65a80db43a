package visualize

// Debug renderings of the extraction: the env map with the split regions on
// it, and with the candidate and main lights on it.

import(
	"fmt"
	"image"
	"image/png"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"

	"github.com/abworrall/envlights/pkg/emath"
	"github.com/abworrall/envlights/pkg/envmap"
	"github.com/abworrall/envlights/pkg/extract"
	"github.com/abworrall/envlights/pkg/lights"
	"github.com/abworrall/envlights/pkg/sat"
)

// MaxWidth is the widest debug image we write; larger env maps are scaled down.
const MaxWidth = 2048

// Palette gives n visually distinct colors, one per main light.
func Palette(n int) []colorful.Color {
	cols := make([]colorful.Color, n)
	for i := range cols {
		cols[i] = colorful.Hsv(float64(i) * 360.0 / float64(max(n, 1)), 0.9, 1.0)
	}
	return cols
}

func WritePNG(img image.Image, filename string) error {
	if writer, err := os.Create(filename); err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	} else {
		defer writer.Close()
		return png.Encode(writer, img)
	}
}

// fitWidth scales the image down (keeping the aspect) if it is wider than width.
func fitWidth(src image.Image, width int) image.Image {
	b := src.Bounds()
	if b.Dx() <= width {
		return src
	}
	h := int(math.Max(1, math.Round(float64(b.Dy()) * float64(width) / float64(b.Dx()))))
	dst := image.NewRGBA(image.Rect(0, 0, width, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

func drawHorizon(dc *gg.Context) {
	y := float64(dc.Height()) * emath.Horizon
	dc.SetRGBA(1, 1, 1, 0.5)
	dc.SetLineWidth(1)
	dc.DrawLine(0, y, float64(dc.Width()), y)
	dc.Stroke()
}

// DrawRegions outlines every leaf region, in pixel coords of the source env map.
func DrawRegions(base image.Image, regions []sat.Region, srcWidth int) *gg.Context {
	dc := gg.NewContextForImage(base)
	scale := float64(dc.Width()) / float64(srcWidth)

	dc.SetLineWidth(1)
	for _, r := range regions {
		dc.SetRGBA(0, 1, 0, 0.6)
		dc.DrawRectangle(float64(r.X)*scale, float64(r.Y)*scale, float64(r.W)*scale, float64(r.H)*scale)
		dc.Stroke()
	}
	drawHorizon(dc)

	return dc
}

// DrawLights marks each candidate centroid, and boxes each main light in its own
// color, with its rank by power.
func DrawLights(base image.Image, candidates, mains []lights.Light) *gg.Context {
	dc := gg.NewContextForImage(base)
	w, h := float64(dc.Width()), float64(dc.Height())

	for _, l := range candidates {
		if l.Error {
			dc.SetRGBA(1, 0, 0, 0.5)
		} else {
			dc.SetRGBA(1, 1, 0, 0.8)
		}
		dc.DrawCircle(l.X*w, l.Y*h, 1.5)
		dc.Fill()
	}

	cols := Palette(len(mains))
	dc.SetLineWidth(2)
	for i, l := range mains {
		c := cols[i]
		dc.SetRGB(c.R, c.G, c.B)
		dc.DrawRectangle(l.Bounds.MinX*w, l.Bounds.MinY*h, l.Bounds.Dx()*w, l.Bounds.Dy()*h)
		dc.Stroke()
		dc.DrawCircle(l.X*w, l.Y*h, 4)
		dc.Fill()
		dc.DrawString(fmt.Sprintf("%d", i), l.X*w + 6, l.Y*h - 6)
	}
	drawHorizon(dc)

	return dc
}

// LuminanceGrid is the log10 luminance of each pixel, for eyeballing the dynamic range.
func LuminanceGrid(img *envmap.Image) emath.FloatGrid {
	g := emath.NewFloatGrid(img.Width, img.Height)
	for y:=0; y<img.Height; y++ {
		for x:=0; x<img.Width; x++ {
			lum := sat.Luminance(img.RGB(x, y))
			if !emath.IsFinite(lum) || lum < 0 {
				lum = 0
			}
			g.Set(x, y, math.Log10(lum + 1e-6))
		}
	}
	return g
}

// DebugFilenames are the files Debug writes for an input, in dir.
func DebugFilenames(dir, input string) (regions, lights, lum string) {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if base == "" {
		base = "envmap"
	}
	return filepath.Join(dir, base + "-regions.png"),
		filepath.Join(dir, base + "-lights.png"),
		filepath.Join(dir, base + "-lum.png")
}

// Debug writes the region and light renderings, plus the luminance dump.
func Debug(img *envmap.Image, res *extract.Result, c extract.Config) error {
	ldr, err := Tonemap(img, c.Tonemapper)
	if err != nil {
		return err
	}
	ldr = fitWidth(ldr, MaxWidth)

	regionsFile, lightsFile, lumFile := DebugFilenames(c.DebugDir, img.Filename)

	if err := DrawRegions(ldr, res.Regions, img.Width).SavePNG(regionsFile); err != nil {
		return fmt.Errorf("debug regions '%s': %v", regionsFile, err)
	}
	if err := DrawLights(ldr, res.Candidates, res.Mains).SavePNG(lightsFile); err != nil {
		return fmt.Errorf("debug lights '%s': %v", lightsFile, err)
	}

	grid := LuminanceGrid(img)
	if err := grid.ToImg(fmt.Sprintf("log10 lum %s", grid.Stats()), lumFile); err != nil {
		return fmt.Errorf("debug lum '%s': %v", lumFile, err)
	}

	log.Printf("Debug images written: %s, %s, %s", regionsFile, lightsFile, lumFile)
	return nil
}
