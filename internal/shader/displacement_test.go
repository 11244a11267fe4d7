package shader

import (
	"math"
	"testing"
)

func TestDisplacementThreshold(t *testing.T) {
	for _, lum := range []float32{0, 0.05, 0.0999, 0.1} {
		for _, bass := range []float32{0, 0.5, 1.6} {
			if d := Displacement(lum, bass); d != 0 {
				t.Errorf("lum=%g bass=%g: expected 0, got %g", lum, bass, d)
			}
		}
	}
	if d := Displacement(0.1001, 0); d <= 0 {
		t.Errorf("expected positive displacement just above threshold, got %g", d)
	}
}

func TestDisplacementMonotonic(t *testing.T) {
	t.Run("Luminance", func(t *testing.T) {
		prev := Displacement(0.11, 0.5)
		for lum := float32(0.12); lum <= 1; lum += 0.01 {
			d := Displacement(lum, 0.5)
			if d <= prev {
				t.Fatalf("lum=%g: %g is not above %g", lum, d, prev)
			}
			prev = d
		}
	})

	t.Run("Bass", func(t *testing.T) {
		prev := Displacement(0.5, 0)
		for bass := float32(0.1); bass <= 2; bass += 0.1 {
			d := Displacement(0.5, bass)
			if d <= prev {
				t.Fatalf("bass=%g: %g is not above %g", bass, d, prev)
			}
			prev = d
		}
	})
}

func TestDisplacementValue(t *testing.T) {
	// 0.5 * (100 + 0.5*200)
	if d := Displacement(0.5, 0.5); math.Abs(float64(d)-100) > 1e-4 {
		t.Errorf("expected 100, got %g", d)
	}
}

func TestPointSize(t *testing.T) {
	const base = 0.5
	if s := PointSize(base, 0); s != 3*base {
		t.Errorf("expected %g at luminance 0, got %g", 3*base, s)
	}
	if s := PointSize(base, 1); s != 9*base {
		t.Errorf("expected %g at luminance 1, got %g", 9*base, s)
	}
}

func TestLuminance(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b float32
		want    float32
	}{
		{"Black", 0, 0, 0, 0},
		{"White", 1, 1, 1, 1},
		{"Red", 1, 0, 0, 1.0 / 3},
		{"Mixed", 0.2, 0.4, 0.6, 0.4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Luminance(tt.r, tt.g, tt.b); math.Abs(float64(got-tt.want)) > 1e-6 {
				t.Errorf("expected %g, got %g", tt.want, got)
			}
		})
	}
}

func TestTransform(t *testing.T) {
	u := &Uniforms{PointSizeScale: 0.5, BassStrength: 1}

	t.Run("Dark", func(t *testing.T) {
		x, y, z, size := Transform(3, 4, 0, 10, 10, 10, u)
		if x != 3 || y != 4 || z != 0 {
			t.Errorf("dark point moved to (%g,%g,%g)", x, y, z)
		}
		if size <= 1.5 || size > 1.7 {
			t.Errorf("expected size just above the 1.5 floor, got %g", size)
		}
	})

	t.Run("White", func(t *testing.T) {
		_, _, z, size := Transform(0, 0, 0, 255, 255, 255, u)
		if math.Abs(float64(z)-300) > 1e-3 {
			t.Errorf("expected z=300, got %g", z)
		}
		if math.Abs(float64(size)-4.5) > 1e-5 {
			t.Errorf("expected size 4.5, got %g", size)
		}
	})
}
