package audio

import (
	"math"
	"testing"
)

type fixedBins []uint8

func (f fixedBins) ByteFrequencyData(dst []uint8) {
	clear(dst)
	copy(dst, f)
}

type toneSource struct {
	cycles    float64
	amplitude float64
}

func (s toneSource) Snapshot(dst [][2]float64) int {
	for i := range dst {
		v := s.amplitude * math.Sin(2*math.Pi*s.cycles*float64(i)/float64(len(dst)))
		dst[i] = [2]float64{v, v}
	}
	return len(dst)
}

func TestBassStrength(t *testing.T) {
	tests := []struct {
		name     string
		bins     fixedBins
		clamp    bool
		expected float64
	}{
		{"Example", fixedBins{90, 120, 60, 200, 255}, false, (90 + 120 + 60) / 3.0 / 155},
		{"Silence", fixedBins{}, false, 0},
		{"FullScaleUnclamped", fixedBins{255, 255, 255}, false, 255 / 155.0},
		{"FullScaleClamped", fixedBins{255, 255, 255}, true, 1},
		{"OnlyHigherBins", fixedBins{0, 0, 0, 255, 255}, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAnalyzer(tt.bins, AnalyzerOptions{Clamp: tt.clamp})
			got := a.BassStrength()
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("expected %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestBassStrengthExampleValue(t *testing.T) {
	a := NewAnalyzer(fixedBins{90, 120, 60}, AnalyzerOptions{})
	if got := a.BassStrength(); math.Abs(got-0.5806) > 1e-4 {
		t.Errorf("expected ~0.5806, got %f", got)
	}
}

func TestBassStrengthIsInstantaneous(t *testing.T) {
	bins := fixedBins{155, 155, 155}
	a := NewAnalyzer(bins, AnalyzerOptions{})
	if got := a.BassStrength(); math.Abs(got-1) > 1e-9 {
		t.Fatalf("expected 1, got %f", got)
	}
	bins[0], bins[1], bins[2] = 0, 0, 0
	if got := a.BassStrength(); got != 0 {
		t.Errorf("expected no decay from previous frame, got %f", got)
	}
}

func TestNilSourceIsSilent(t *testing.T) {
	a := NewAnalyzer(nil, AnalyzerOptions{})
	if got := a.BassStrength(); got != 0 {
		t.Errorf("expected 0, got %f", got)
	}
}

func TestSpectrum(t *testing.T) {
	t.Run("Silence", func(t *testing.T) {
		s := NewSpectrum(NewTap(&rampStreamer{}, 1024), 512, -100, -30)
		bins := make([]uint8, s.BinCount())
		s.ByteFrequencyData(bins)
		for i, b := range bins {
			if b != 0 {
				t.Fatalf("bin %d: expected 0 before playback, got %d", i, b)
			}
		}
	})

	t.Run("NilSource", func(t *testing.T) {
		s := NewSpectrum(nil, 512, -100, -30)
		bins := []uint8{1, 2, 3}
		s.ByteFrequencyData(bins)
		for i, b := range bins {
			if b != 0 {
				t.Errorf("bin %d: expected 0, got %d", i, b)
			}
		}
	})

	t.Run("LowTone", func(t *testing.T) {
		s := NewSpectrum(toneSource{cycles: 1, amplitude: 0.5}, 512, -100, -30)
		if s.BinCount() != 256 {
			t.Fatalf("expected 256 bins, got %d", s.BinCount())
		}
		a := NewAnalyzer(s, AnalyzerOptions{Bins: s.BinCount()})
		if got := a.BassStrength(); got < 0.5 {
			t.Errorf("expected strong bass for a low tone, got %f", got)
		}
	})

	t.Run("HighTone", func(t *testing.T) {
		s := NewSpectrum(toneSource{cycles: 64, amplitude: 0.5}, 512, -100, -30)
		bins := make([]uint8, s.BinCount())
		s.ByteFrequencyData(bins)
		if bins[64] != 255 {
			t.Errorf("expected peak at bin 64, got %d", bins[64])
		}
		a := NewAnalyzer(s, AnalyzerOptions{Bins: s.BinCount()})
		if got := a.BassStrength(); got > 0.05 {
			t.Errorf("expected no bass for a high tone, got %f", got)
		}
	})
}

func TestBassStrengthDoesNotAllocate(t *testing.T) {
	tap := NewTap(&rampStreamer{}, 8192)
	buf := make([][2]float64, 1024)
	tap.Stream(buf)

	spectrum := NewSpectrum(tap, 512, -100, -30)
	a := NewAnalyzer(spectrum, AnalyzerOptions{Bins: spectrum.BinCount()})

	allocs := testing.AllocsPerRun(100, func() {
		tap.Stream(buf[:128])
		a.BassStrength()
	})
	if allocs != 0 {
		t.Errorf("expected no allocations per frame, got %g", allocs)
	}
}
