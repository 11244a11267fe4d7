package postfx

import (
	"image"
	"math"
	"testing"
)

func TestLevelFactors(t *testing.T) {
	tests := []struct {
		name   string
		radius float64
		levels int
		want   []float64
	}{
		{"RadiusZero", 0, 5, []float64{1.0, 0.8, 0.6, 0.4, 0.2}},
		{"RadiusOne", 1, 5, []float64{0.2, 0.4, 0.6, 0.8, 1.0}},
		{"Default", 0.4, 3, []float64{0.68, 0.64, 0.6}},
		{"TooManyLevels", 0, 9, []float64{1.0, 0.8, 0.6, 0.4, 0.2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LevelFactors(tt.radius, tt.levels)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d factors, got %d", len(tt.want), len(got))
			}
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-9 {
					t.Errorf("factor %d: expected %g, got %g", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestStackResize(t *testing.T) {
	s := New(Bloom{Strength: 1.2, Radius: 0.4, Threshold: 0.6, Levels: 3}, 800, 600)
	if w, h := s.Size(); w != 800 || h != 600 {
		t.Fatalf("expected 800x600, got %dx%d", w, h)
	}

	s.Resize(1024, 768)
	if w, h := s.Size(); w != 1024 || h != 768 {
		t.Errorf("expected 1024x768, got %dx%d", w, h)
	}
	if !s.stale {
		t.Error("expected targets to be marked for reallocation")
	}

	want := []image.Point{{512, 384}, {256, 192}, {128, 96}}
	got := s.BloomSizes()
	if len(got) != len(want) {
		t.Fatalf("expected %d bloom levels, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("level %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestStackBloomSizesNeverEmpty(t *testing.T) {
	s := New(Bloom{Levels: 5}, 6, 3)
	for i, p := range s.BloomSizes() {
		if p.X < 1 || p.Y < 1 {
			t.Errorf("level %d is empty: %v", i, p)
		}
	}
}

func TestStackResizeRejectsEmptyViewport(t *testing.T) {
	s := New(Bloom{Levels: 1}, 10, 10)
	defer func() {
		if recover() == nil {
			t.Error("expected panic on empty viewport")
		}
	}()
	s.Resize(0, 10)
}

func TestStackDisposeTwice(t *testing.T) {
	s := New(Bloom{Levels: 2}, 10, 10)
	s.Dispose()
	s.Dispose()
}
