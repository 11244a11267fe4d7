package config

const (
	WindowWidth  = 1280
	WindowHeight = 720
	WindowTitle  = "Particle Mirror - drag to orbit, O: orientation, Esc/Q: quit"

	// Audio analysis
	VisualRingSize = 8192
	FFTSize        = 512
	BassRange      = 3
	BassNormalizer = 155.0
	MinDecibels    = -100.0
	MaxDecibels    = -30.0

	// Particle grid
	GridSize       = 480
	WorldHeight    = 720.0
	PointSizeScale = 0.5
	PointOpacity   = 1.0

	// Camera
	FieldOfView     = 75.0
	NearPlane       = 1.0
	FarPlane        = 10000.0
	CameraDistance  = 1000.0
	MinDistance     = 200.0
	MaxDistance     = 3000.0
	DampingFactor   = 0.25
	RotateSpeed     = 1.0
	ZoomSpeed       = 1.0
	PitchOffsetDeg  = -90.0
	PermissionStyle = "prompt"

	// Bloom
	BloomStrength  = 1.2
	BloomRadius    = 0.4
	BloomThreshold = 0.6
	BloomLevels    = 5

	// Button dimensions
	ButtonWidth  = 160
	ButtonHeight = 32
	ButtonX      = 12
	ButtonY      = 32
)
