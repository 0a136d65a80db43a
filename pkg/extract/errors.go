package extract

import(
	"errors"

	"github.com/abworrall/envlights/pkg/envmap"
	"github.com/abworrall/envlights/pkg/sat"
)

var(
	ErrInvalidInput    = sat.ErrInvalidInput   // bad dimensions or channel count
	ErrDecodeFailure   = envmap.ErrDecode      // the file couldn't be turned into pixels
	ErrExtractionEmpty = errors.New("extract: could not cut image into light regions")
	ErrConfig          = errors.New("extract: bad configuration")
)

// Process exit statuses, one per fatal error kind
const(
	ExitOK           = 0
	ExitOther        = 1
	ExitDecode       = 2
	ExitEmpty        = 3
	ExitConfig       = 4
	ExitInvalidInput = 5
)

func ExitCode(err error) int {
	switch {
	case err == nil:                          return ExitOK
	case errors.Is(err, ErrDecodeFailure):    return ExitDecode
	case errors.Is(err, ErrExtractionEmpty):  return ExitEmpty
	case errors.Is(err, ErrConfig):           return ExitConfig
	case errors.Is(err, ErrInvalidInput):     return ExitInvalidInput
	}
	return ExitOther
}
