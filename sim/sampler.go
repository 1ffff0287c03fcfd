package sim

import "math/rand"

// DemandSampler generates one day's demand draw.
type DemandSampler interface {
	// Sample returns a non-negative demand quantity.
	Sample(rng *rand.Rand) float64
}

// EmpiricalSampler bootstraps daily demand uniformly (with replacement)
// from a SKU's observed history. No history means no demand: every draw
// is 0.
type EmpiricalSampler struct {
	observations []float64
}

// NewEmpiricalSampler copies observations into a sampler.
func NewEmpiricalSampler(observations []float64) *EmpiricalSampler {
	obs := make([]float64, len(observations))
	copy(obs, observations)
	return &EmpiricalSampler{observations: obs}
}

func (s *EmpiricalSampler) Sample(rng *rand.Rand) float64 {
	if len(s.observations) == 0 {
		return 0
	}
	return s.observations[rng.Intn(len(s.observations))]
}

// ConstantSampler returns the same demand every day. Useful where the
// demand path must be exact, as in scenario checks.
type ConstantSampler struct {
	value float64
}

// NewConstantSampler creates a sampler that always returns value.
func NewConstantSampler(value float64) *ConstantSampler {
	return &ConstantSampler{value: value}
}

func (s *ConstantSampler) Sample(_ *rand.Rand) float64 {
	return s.value
}
