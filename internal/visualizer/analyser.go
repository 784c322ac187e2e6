package visualizer

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

const (
	DefaultFFTSize   = 256
	DefaultMinDB     = -100.0
	DefaultMaxDB     = -30.0
	DefaultSmoothing = 0.8
)

// Analyser turns a window of time-domain samples into byte frequency data:
// one value per bin in [0,255], linear over the [MinDB, MaxDB] decibel range.
// Magnitudes are smoothed over successive calls. Not safe for concurrent use.
type Analyser struct {
	size      int
	minDB     float64
	maxDB     float64
	smoothing float64

	fft    *fourier.FFT
	window []float64
	input  []float64
	coeffs []complex128
	smooth []float64
}

func NewAnalyser(fftSize int) *Analyser {
	if fftSize <= 0 || fftSize%2 != 0 {
		fftSize = DefaultFFTSize
	}

	window := make([]float64, fftSize)
	for i := range window {
		// Blackman window
		x := 2 * math.Pi * float64(i) / float64(fftSize)
		window[i] = 0.42 - 0.5*math.Cos(x) + 0.08*math.Cos(2*x)
	}

	return &Analyser{
		size:      fftSize,
		minDB:     DefaultMinDB,
		maxDB:     DefaultMaxDB,
		smoothing: DefaultSmoothing,
		fft:       fourier.NewFFT(fftSize),
		window:    window,
		input:     make([]float64, fftSize),
		coeffs:    make([]complex128, fftSize/2+1),
		smooth:    make([]float64, fftSize/2),
	}
}

func (a *Analyser) FFTSize() int { return a.size }

// BinCount is half the FFT size.
func (a *Analyser) BinCount() int { return a.size / 2 }

// SampleWindow returns a buffer sized for one analysis window.
func (a *Analyser) SampleWindow() []float32 {
	return make([]float32, a.size)
}

// ByteFrequencyData analyses the most recent FFTSize samples and writes up to
// BinCount values into dst. Short input is zero-padded at the front.
func (a *Analyser) ByteFrequencyData(samples []float32, dst []byte) {
	if len(samples) > a.size {
		samples = samples[len(samples)-a.size:]
	}
	pad := a.size - len(samples)
	for i := range a.input {
		v := 0.0
		if i >= pad {
			v = float64(samples[i-pad])
		}
		a.input[i] = v * a.window[i]
	}

	a.coeffs = a.fft.Coefficients(a.coeffs, a.input)

	span := a.maxDB - a.minDB
	for i := 0; i < len(a.smooth); i++ {
		mag := cmplxAbs(a.coeffs[i]) / float64(a.size)
		a.smooth[i] = a.smoothing*a.smooth[i] + (1-a.smoothing)*mag
		if i >= len(dst) {
			continue
		}
		db := math.Inf(-1)
		if a.smooth[i] > 0 {
			db = 20 * math.Log10(a.smooth[i])
		}
		dst[i] = scaleDB(db, a.minDB, span)
	}
}

// Reset clears smoothing history.
func (a *Analyser) Reset() {
	clear(a.smooth)
}

func scaleDB(db, minDB, span float64) byte {
	v := 255 * (db - minDB) / span
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return byte(v)
	}
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}
