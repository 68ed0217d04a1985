// Package waveform generates synthetic metric values as a deterministic
// function of a fixed per-resource pattern and elapsed time.
//
// A pattern is randomized once when a resource is first observed and never
// mutated afterward. Evolution comes only from the elapsed-time input, so
// identical (pattern, elapsed) inputs always reproduce identical values.
package waveform

import (
	"math"
	"math/rand"
)

// DefaultBase is the base value used when no prior observation exists
const DefaultBase = 50.0

// Pattern holds the fixed oscillation parameters for one resource.
// Treat as immutable after creation.
type Pattern struct {
	Frequency      float64 `json:"frequency"`
	Phase          float64 `json:"phase"`
	BaseValue      float64 `json:"baseValue"`
	Amplitude      float64 `json:"amplitude"`
	NoiseAmplitude float64 `json:"noiseAmplitude"`
	NoiseFrequency float64 `json:"noiseFrequency"`
}

// NewPattern draws randomized oscillation parameters around the given base
// value, typically the resource's last known allocation.
func NewPattern(rng *rand.Rand, base float64) Pattern {
	return Pattern{
		Frequency:      0.2 + rng.Float64()*0.3,
		Phase:          rng.Float64() * 2 * math.Pi,
		BaseValue:      base,
		Amplitude:      15 + rng.Float64()*25,
		NoiseAmplitude: 5 + rng.Float64()*10,
		NoiseFrequency: 0.8 + rng.Float64()*0.4,
	}
}

// Value evaluates the pattern at the given elapsed time in seconds and
// returns an allocation percentage clamped to [0,100].
func Value(p Pattern, elapsed float64) float64 {
	v := p.BaseValue +
		p.Amplitude*math.Sin(2*math.Pi*p.Frequency*elapsed+p.Phase) +
		p.NoiseAmplitude*math.Sin(2*math.Pi*p.NoiseFrequency*elapsed)
	return clamp(v, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
