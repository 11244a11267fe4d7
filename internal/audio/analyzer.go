package audio

// BinSource produces byte-scaled frequency magnitudes, lowest bin first.
type BinSource interface {
	ByteFrequencyData(dst []uint8)
}

// Analyzer reduces a frequency snapshot to the bass strength that drives the
// particle displacement.
type Analyzer struct {
	src        BinSource
	bins       []uint8
	bassRange  int
	normalizer float64
	clamp      bool
}

// AnalyzerOptions configures an Analyzer. Zero values select the defaults.
type AnalyzerOptions struct {
	Bins       int
	BassRange  int
	Normalizer float64
	// Clamp bounds the output to [0,1]. Off by default so loud bass can
	// overshoot.
	Clamp bool
}

func NewAnalyzer(src BinSource, opts AnalyzerOptions) *Analyzer {
	if opts.Bins <= 0 {
		opts.Bins = 256
	}
	if opts.BassRange <= 0 {
		opts.BassRange = 3
	}
	if opts.BassRange > opts.Bins {
		opts.BassRange = opts.Bins
	}
	if opts.Normalizer <= 0 {
		opts.Normalizer = 155
	}
	return &Analyzer{
		src:        src,
		bins:       make([]uint8, opts.Bins),
		bassRange:  opts.BassRange,
		normalizer: opts.Normalizer,
		clamp:      opts.Clamp,
	}
}

// BassStrength returns the mean of the lowest bins divided by the
// normalizer. It is an instantaneous value, recomputed on every call.
func (a *Analyzer) BassStrength() float64 {
	if a.src == nil {
		return 0
	}
	a.src.ByteFrequencyData(a.bins)

	var sum float64
	for _, b := range a.bins[:a.bassRange] {
		sum += float64(b)
	}
	v := sum / float64(a.bassRange) / a.normalizer
	if a.clamp {
		v = clamp01(v)
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
