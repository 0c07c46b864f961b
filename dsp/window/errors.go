package window

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-modulation/dsp/core"
)

var (
	errEmptyCoeffs      = fmt.Errorf("window coefficients must not be empty: %w", core.ErrInvalidParameter)
	errZeroCoherentGain = fmt.Errorf("window coherent gain is zero: %w", core.ErrNumericEdge)
	errMismatchedLength = errors.New("samples and coefficients must have same length")
)
