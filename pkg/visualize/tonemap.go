package visualize

import(
	"fmt"
	"image"
	"log"
	"sort"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/tmo"
)

var(
	Tonemappers = []string{"drago03", "durand", "icam06", "linear", "reinhard05"}
)

func ListTonemappers() string {
	return fmt.Sprintf("%v", Tonemappers)
}

func IsTonemapper(name string) bool {
	i := sort.SearchStrings(Tonemappers, name)
	return i < len(Tonemappers) && Tonemappers[i] == name
}

// Tweak the tmo parameters to better handle env maps. By default, they
// almost always overexpose on the small but important bright areas, which are
// exactly the ones we're trying to show.
func SetupTonemapper(name string, img hdr.Image) (tmo.ToneMappingOperator, error) {
	switch name {
	case "drago03":
		op :=  tmo.NewDefaultDrago03(img)
		op.Bias = 1.0            // Otherwise image overexposes, blows out the sun
		return op, nil

	case "durand":
		return tmo.NewDefaultDurand(img), nil

	case "icam06":
		op := tmo.NewDefaultICam06(img)
		op.Contrast    = 0.65
		op.MaxClipping = 0.99999 // Otherwise image overexposes, blows out the sun
		return op, nil

	case "linear":
		return tmo.NewLinear(img), nil

	case "reinhard05":
		op := tmo.NewDefaultReinhard05(img)
		op.Chromatic  = 0.005
		op.Light      = 0.005    // Otherwise image overexposes, blows out the sun
		return op, nil
	}

	return nil, fmt.Errorf("ToneMapper %q not recognized, wanted %s", name, ListTonemappers())
}

func Tonemap(img hdr.Image, name string) (image.Image, error) {
	op, err := SetupTonemapper(name, img)
	if err != nil {
		return nil, err
	}
	log.Printf("Tonemapping: %s", name)
	return op.Perform(), nil
}
