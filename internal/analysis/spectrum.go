package analysis

import (
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/particlesim/internal/dynamo"
)

// PowerSpectrum returns the magnitude of the real FFT of a series after its
// mean is removed. Bin i corresponds to frequency i/(n·dt).
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	centred := make([]float64, len(data))
	copy(centred, data)
	floats.AddConst(-floats.Sum(data)/float64(len(data)), centred)

	fft := fourier.NewFFT(len(centred))
	coeff := fft.Coefficients(nil, centred)
	ps := make([]float64, len(coeff))
	for i, c := range coeff {
		ps[i] = cmplx.Abs(c)
	}
	return ps
}

// DominantFrequency is the frequency of the strongest non-constant bin of a
// series sampled every dt.
func DominantFrequency(data []float64, dt float64) (float64, error) {
	if len(data) < 4 {
		return 0, fmt.Errorf("series of %d samples is too short: %w", len(data), dynamo.ErrInvalidConfig)
	}
	if dt <= 0 {
		return 0, fmt.Errorf("sample interval must be positive, got %g: %w", dt, dynamo.ErrParameterBounds)
	}
	ps := PowerSpectrum(data)
	peak := floats.MaxIdx(ps[1:]) + 1
	return float64(peak) / (float64(len(data)) * dt), nil
}
