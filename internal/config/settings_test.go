package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSettings(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Run("NoPath", func(t *testing.T) {
		s, err := Load("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s != Default() {
			t.Errorf("expected defaults, got %+v", s)
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		s, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.Grid.Size != GridSize {
			t.Errorf("expected grid size %d, got %d", GridSize, s.Grid.Size)
		}
	})

	t.Run("EmptyFile", func(t *testing.T) {
		s, err := Load(writeSettings(t, "\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s != Default() {
			t.Errorf("expected defaults, got %+v", s)
		}
	})
}

func TestLoadOverrides(t *testing.T) {
	path := writeSettings(t, `
media:
  video: clip.gif
grid:
  size: 64
audio:
  clamp_bass: true
orientation:
  permission: implicit
bloom:
  levels: 3
`)
	s, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Media.Video != "clip.gif" {
		t.Errorf("expected video clip.gif, got %q", s.Media.Video)
	}
	if s.Grid.Size != 64 {
		t.Errorf("expected grid size 64, got %d", s.Grid.Size)
	}
	if s.Grid.WorldHeight != WorldHeight {
		t.Errorf("unset field lost its default: %g", s.Grid.WorldHeight)
	}
	if !s.Audio.ClampBass {
		t.Error("expected clamp_bass to be set")
	}
	if s.Orientation.Permission != "implicit" {
		t.Errorf("expected implicit permission, got %q", s.Orientation.Permission)
	}
	if s.Orientation.PitchOffset != PitchOffsetDeg {
		t.Errorf("expected default pitch offset, got %g", s.Orientation.PitchOffset)
	}
	if s.Bloom.Levels != 3 {
		t.Errorf("expected 3 bloom levels, got %d", s.Bloom.Levels)
	}
}

func TestLoadUnknownKeyIsIgnored(t *testing.T) {
	s, err := Load(writeSettings(t, "grid:\n  size: 32\n  sparkle: 9\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Grid.Size != 32 {
		t.Errorf("expected grid size 32, got %d", s.Grid.Size)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"ZeroGrid", func(s *Settings) { s.Grid.Size = 0 }},
		{"NegativeHeight", func(s *Settings) { s.Grid.WorldHeight = -1 }},
		{"OpacityAboveOne", func(s *Settings) { s.Grid.Opacity = 1.5 }},
		{"InvertedDistance", func(s *Settings) { s.Camera.MinDistance = 5000 }},
		{"ZeroDamping", func(s *Settings) { s.Camera.Damping = 0 }},
		{"BadPermission", func(s *Settings) { s.Orientation.Permission = "always" }},
		{"TooManyLevels", func(s *Settings) { s.Bloom.Levels = 9 }},
	}

	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(&s)
			if err := s.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	if _, err := Load(writeSettings(t, "grid:\n  size: -4\n")); err == nil {
		t.Error("expected error for negative grid size")
	}
	if _, err := Load(writeSettings(t, "grid: [1, 2\n")); err == nil {
		t.Error("expected error for malformed yaml")
	}
}
