package config

import (
	"bytes"
	"log"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Settings holds the runtime configuration. Zero-valued fields in a settings
// file keep their defaults.
type Settings struct {
	Media       MediaSettings       `yaml:"media"`
	Sensor      SensorSettings      `yaml:"sensor"`
	Grid        GridSettings        `yaml:"grid"`
	Audio       AudioSettings       `yaml:"audio"`
	Camera      CameraSettings      `yaml:"camera"`
	Orientation OrientationSettings `yaml:"orientation"`
	Bloom       BloomSettings       `yaml:"bloom"`
}

type MediaSettings struct {
	Video string `yaml:"video"`
	Audio string `yaml:"audio"`
}

type SensorSettings struct {
	// Replay is a CSV file of orientation samples (t_ms,alpha,beta,gamma).
	Replay string `yaml:"replay"`
}

type GridSettings struct {
	Size        int     `yaml:"size"`
	WorldHeight float64 `yaml:"world_height"`
	PointSize   float64 `yaml:"point_size"`
	Opacity     float64 `yaml:"opacity"`
}

type AudioSettings struct {
	ClampBass bool `yaml:"clamp_bass"`
}

type CameraSettings struct {
	FieldOfView float64 `yaml:"fov"`
	Distance    float64 `yaml:"distance"`
	MinDistance float64 `yaml:"min_distance"`
	MaxDistance float64 `yaml:"max_distance"`
	Damping     float64 `yaml:"damping"`
}

type OrientationSettings struct {
	// Permission is "prompt" (ask before reading the sensor) or "implicit".
	Permission  string  `yaml:"permission"`
	PitchOffset float64 `yaml:"pitch_offset"`
}

type BloomSettings struct {
	Strength  float64 `yaml:"strength"`
	Radius    float64 `yaml:"radius"`
	Threshold float64 `yaml:"threshold"`
	Levels    int     `yaml:"levels"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Grid: GridSettings{
			Size:        GridSize,
			WorldHeight: WorldHeight,
			PointSize:   PointSizeScale,
			Opacity:     PointOpacity,
		},
		Camera: CameraSettings{
			FieldOfView: FieldOfView,
			Distance:    CameraDistance,
			MinDistance: MinDistance,
			MaxDistance: MaxDistance,
			Damping:     DampingFactor,
		},
		Orientation: OrientationSettings{
			Permission:  PermissionStyle,
			PitchOffset: PitchOffsetDeg,
		},
		Bloom: BloomSettings{
			Strength:  BloomStrength,
			Radius:    BloomRadius,
			Threshold: BloomThreshold,
			Levels:    BloomLevels,
		},
	}
}

// Load reads settings from path on top of Default. A missing file is not an
// error. Unknown keys are reported and ignored.
func Load(path string) (Settings, error) {
	s := Default()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("Settings file %s not found, using defaults", path)
			return s, nil
		}
		return s, errors.Wrap(err, "read settings")
	}
	if err := decode(data, &s); err != nil {
		return Default(), errors.Wrapf(err, "parse settings %s", path)
	}
	if err := s.Validate(); err != nil {
		return Default(), errors.Wrapf(err, "settings %s", path)
	}
	return s, nil
}

func decode(data []byte, s *Settings) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	strict := *s
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	err := dec.Decode(&strict)
	if err == nil {
		*s = strict
		return nil
	}

	log.Printf("Warning: %v", err)
	return yaml.Unmarshal(data, s)
}

// Validate rejects settings the renderer cannot work with.
func (s Settings) Validate() error {
	switch {
	case s.Grid.Size <= 0:
		return errors.Errorf("grid.size must be positive, got %d", s.Grid.Size)
	case s.Grid.WorldHeight <= 0:
		return errors.Errorf("grid.world_height must be positive, got %g", s.Grid.WorldHeight)
	case s.Grid.PointSize <= 0:
		return errors.Errorf("grid.point_size must be positive, got %g", s.Grid.PointSize)
	case s.Grid.Opacity <= 0 || s.Grid.Opacity > 1:
		return errors.Errorf("grid.opacity must be in (0,1], got %g", s.Grid.Opacity)
	case s.Camera.MinDistance <= 0 || s.Camera.MinDistance >= s.Camera.MaxDistance:
		return errors.Errorf("camera distance range [%g, %g] is invalid", s.Camera.MinDistance, s.Camera.MaxDistance)
	case s.Camera.Damping <= 0 || s.Camera.Damping > 1:
		return errors.Errorf("camera.damping must be in (0,1], got %g", s.Camera.Damping)
	case s.Camera.FieldOfView <= 0 || s.Camera.FieldOfView >= 180:
		return errors.Errorf("camera.fov must be in (0,180), got %g", s.Camera.FieldOfView)
	case s.Orientation.Permission != "prompt" && s.Orientation.Permission != "implicit":
		return errors.Errorf("orientation.permission must be prompt or implicit, got %q", s.Orientation.Permission)
	case s.Bloom.Levels < 1 || s.Bloom.Levels > 5:
		return errors.Errorf("bloom.levels must be in [1,5], got %d", s.Bloom.Levels)
	}
	return nil
}
