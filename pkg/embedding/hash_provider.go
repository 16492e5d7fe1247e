package embedding

import (
	"context"
	"hash/fnv"
	"math"
)

// HashProvider produces deterministic unit vectors from a text hash. Identical
// texts embed identically, anything else is close to orthogonal. Meant for
// local runs without an embedding backend and for tests.
type HashProvider struct {
	dimensions int
}

func NewHashProvider(dimensions int) *HashProvider {
	if dimensions <= 0 {
		dimensions = 1024
	}
	return &HashProvider{dimensions: dimensions}
}

func (p *HashProvider) Embed(_ context.Context, text string) ([]float32, error) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()

	vec := make([]float32, p.dimensions)
	for i := range vec {
		// LCG step
		seed = seed*6364136223846793005 + 1442695040888963407
		vec[i] = float32(int64(seed)) / float32(math.MaxInt64)
	}

	return normalizeVector(vec), nil
}
