package envmap

import(
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/codec/rgbe"
	"github.com/mdouchement/hdr/hdrcolor"
)

// Image is a decoded HDR environment map: a flat, row-major buffer of float
// samples, with Channels samples per pixel (3 = RGB, 4 = RGBA). Implements
// the image.Image and hdr.Image interfaces, so it can be fed to the tonemappers.
type Image struct {
	Width    int
	Height   int
	Channels int
	Pix    []float32

	Filename string // Where it was loaded from, if anywhere
}

var _ hdr.Image = &Image{}

func NewImage(w, h, channels int) *Image {
	return &Image{
		Width: w,
		Height: h,
		Channels: channels,
		Pix: make([]float32, w*h*channels),
	}
}

// Implement image.Image
func (im *Image)ColorModel() color.Model       { return hdrcolor.RGBModel }
func (im *Image)Bounds() image.Rectangle       { return image.Rect(0, 0, im.Width, im.Height) }
func (im *Image)At(x, y int) color.Color       { return im.HDRAt(x,y) }

// Implement hdr.Image
func (im *Image)HDRAt(x, y int) hdrcolor.Color {
	r, g, b := im.RGB(x, y)
	return hdrcolor.RGB{R:r, G:g, B:b}
}
func (im *Image)Size() int                     { return im.Width * im.Height }

// Pixel access
func (im *Image)offset(x, y int) int { return (y*im.Width + x) * im.Channels }

func (im *Image)RGB(x, y int) (float64, float64, float64) {
	i := im.offset(x, y)
	return float64(im.Pix[i]), float64(im.Pix[i+1]), float64(im.Pix[i+2])
}

func (im *Image)SetRGB(x, y int, r, g, b float64) {
	i := im.offset(x, y)
	im.Pix[i], im.Pix[i+1], im.Pix[i+2] = float32(r), float32(g), float32(b)
	if im.Channels > 3 {
		im.Pix[i+3] = 1.0
	}
}

func (im *Image)String() string {
	return fmt.Sprintf("envmap[%dx%d, %d channels, %q]", im.Width, im.Height, im.Channels, im.Filename)
}

// FromImage copies any decoded image into an Image. HDR images keep their full
// range; anything else is read as 16-bit linear values scaled into [0,1].
func FromImage(src image.Image) *Image {
	bounds := src.Bounds()
	im := NewImage(bounds.Dx(), bounds.Dy(), 3)

	hdrSrc, isHDR := src.(hdr.Image)
	for y:=0; y<im.Height; y++ {
		for x:=0; x<im.Width; x++ {
			sx, sy := x + bounds.Min.X, y + bounds.Min.Y
			if isHDR {
				r, g, b, _ := hdrSrc.HDRAt(sx, sy).HDRRGBA()
				im.SetRGB(x, y, r, g, b)
			} else {
				r, g, b, _ := src.At(sx, sy).RGBA()
				im.SetRGB(x, y, float64(r) / 0xFFFF, float64(g) / 0xFFFF, float64(b) / 0xFFFF)
			}
		}
	}

	return im
}

// WriteHDR outputs a radiance RGBE file. You can load this into photoshop or other HDR tools.
func (im *Image)WriteHDR(filename string) error {
	if writer, err := os.Create(filename); err != nil {
		return fmt.Errorf("Image.WriteHDR, open+w '%s': %v", filename, err)
	} else {
		defer writer.Close()
		return rgbe.Encode(writer, im)
	}
}
