package envmap

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrjoshuak/go-openexr/exr"

	_ "github.com/mdouchement/hdr/codec/pfm"  // registers "pfm" with image.Decode
	_ "github.com/mdouchement/hdr/codec/rgbe" // registers "hdr" with image.Decode
)

// ErrDecode wraps every failure to turn a file into an Image.
var ErrDecode = errors.New("envmap: decode failed")

// IsLoadable says whether Load knows what to do with a file of this name.
func IsLoadable(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".exr", ".hdr", ".pic", ".rgbe", ".pfm":
		return true
	}
	return false
}

// ExpandPaths walks the args, recursing into directories, and returns the files
// that Load can handle, in the order found.
func ExpandPaths(args ...string) ([]string, error) {
	files := []string{}

	for _, arg := range args {
		item, err := os.Stat(arg)

		switch {

		case err != nil:
			return nil, fmt.Errorf("%w: %s: %v", ErrDecode, arg, err)

		case item.IsDir():
			// Is a dir, recurse into contents
			contents, err := os.ReadDir(arg)
			if err != nil {
				return nil, fmt.Errorf("%w: readdir %s: %v", ErrDecode, arg, err)
			}
			for _, content := range contents {
				sub := filepath.Join(arg, content.Name())
				if !content.IsDir() && !IsLoadable(sub) {
					continue
				}
				found, err := ExpandPaths(sub)
				if err != nil {
					return nil, err
				}
				files = append(files, found...)
			}

		default: // is a file; named explicitly, so let Load complain if it can't cope
			files = append(files, arg)
		}
	}

	return files, nil
}

// Load decodes an EXR or radiance HDR (or PFM) file.
func Load(filename string) (*Image, error) {
	var im *Image
	var err error

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".exr":
		im, err = loadEXR(filename)
	case ".hdr", ".pic", ".rgbe", ".pfm":
		im, err = loadHDR(filename)
	default:
		err = fmt.Errorf("unknown image type %q", filepath.Ext(filename))
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, filename, err)
	}

	im.Filename = filename
	return im, nil
}

func loadHDR(filename string) (*Image, error) {
	reader, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open+r '%s': %v", filename, err)
	}
	defer reader.Close()

	img, _, err := image.Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("hdr loading '%s': %v", filename, err)
	}

	return FromImage(img), nil
}

// loadEXR reads the RGBA layer of a scanline or tiled EXR. Alpha is kept as the
// fourth channel, the luminance code skips it.
func loadEXR(filename string) (*Image, error) {
	f, err := exr.OpenFile(filename)
	if err != nil {
		return nil, fmt.Errorf("open exr '%s': %v", filename, err)
	}
	defer f.Close()

	rgba, err := exr.NewRGBAInputFile(f)
	if err != nil {
		return nil, fmt.Errorf("exr rgba '%s': %v", filename, err)
	}

	img, err := rgba.ReadRGBA()
	if err != nil {
		return nil, fmt.Errorf("exr read '%s': %v", filename, err)
	}

	w, h := img.Rect.Dx(), img.Rect.Dy()
	im := NewImage(w, h, 4)
	for y:=0; y<h; y++ {
		for x:=0; x<w; x++ {
			r, g, b, a := img.RGBA(x, y)
			i := im.offset(x, y)
			im.Pix[i], im.Pix[i+1], im.Pix[i+2], im.Pix[i+3] = float32(r), float32(g), float32(b), float32(a)
		}
	}

	return im, nil
}
