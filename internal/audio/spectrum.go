package audio

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
)

// SampleSource is anything that can copy out its most recent stereo samples.
type SampleSource interface {
	Snapshot(dst [][2]float64) int
}

// Spectrum turns the latest fftSize samples of a SampleSource into byte
// magnitudes per frequency bin, like a browser analyser node with its
// smoothing turned off. All buffers are allocated once.
type Spectrum struct {
	src     SampleSource
	fft     *fourier.FFT
	window  []float64
	frames  [][2]float64
	mono    []float64
	coeffs  []complex128
	minDB   float64
	rangeDB float64
}

// NewSpectrum analyses fftSize samples per call and reports fftSize/2 bins
// mapped from [minDB, maxDB] onto 0..255.
func NewSpectrum(src SampleSource, fftSize int, minDB, maxDB float64) *Spectrum {
	ones := make([]float64, fftSize)
	for i := range ones {
		ones[i] = 1
	}
	return &Spectrum{
		src:     src,
		fft:     fourier.NewFFT(fftSize),
		window:  window.Blackman(ones),
		frames:  make([][2]float64, fftSize),
		mono:    make([]float64, fftSize),
		coeffs:  make([]complex128, fftSize/2+1),
		minDB:   minDB,
		rangeDB: maxDB - minDB,
	}
}

// BinCount is the number of frequency bins, half the FFT size.
func (s *Spectrum) BinCount() int { return len(s.mono) / 2 }

// ByteFrequencyData fills dst with up to BinCount byte magnitudes.
func (s *Spectrum) ByteFrequencyData(dst []uint8) {
	if s.src == nil {
		clear(dst)
		return
	}

	n := s.src.Snapshot(s.frames)
	for i := range s.mono {
		if i >= n {
			s.mono[i] = 0
			continue
		}
		s.mono[i] = 0.5 * (s.frames[i][0] + s.frames[i][1]) * s.window[i]
	}
	s.coeffs = s.fft.Coefficients(s.coeffs, s.mono)

	size := float64(len(s.mono))
	for i := range dst {
		if i >= s.BinCount() {
			dst[i] = 0
			continue
		}
		mag := cmplx.Abs(s.coeffs[i]) / size
		dst[i] = s.toByte(20 * math.Log10(mag))
	}
}

func (s *Spectrum) toByte(db float64) uint8 {
	if math.IsInf(db, -1) || math.IsNaN(db) {
		return 0
	}
	v := math.Floor(255 / s.rangeDB * (db - s.minDB))
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
