package embedding

import (
	"context"
	"fmt"

	"github.com/dgraph-io/ristretto"
)

// CachedProvider memoizes embeddings by exact text. Hits come from repeated
// retrieval queries (the same user message across turns or users); stored
// entries carry a "User: " or "Agent: " prefix and so never share a key with
// the query that preceded them.
type CachedProvider struct {
	next  EmbeddingProvider
	cache *ristretto.Cache
}

func NewCachedProvider(next EmbeddingProvider, maxEntries int) (*CachedProvider, error) {
	if maxEntries <= 0 {
		maxEntries = 10000
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: int64(maxEntries) * 10,
		MaxCost:     int64(maxEntries),
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create embedding cache: %w", err)
	}
	return &CachedProvider{next: next, cache: cache}, nil
}

func (p *CachedProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := p.cache.Get(text); ok {
		if vec, ok := v.([]float32); ok {
			return vec, nil
		}
	}

	vec, err := p.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	p.cache.Set(text, vec, 1)
	return vec, nil
}

// Wait blocks until pending cache writes are visible.
func (p *CachedProvider) Wait() {
	p.cache.Wait()
}

func (p *CachedProvider) Close() {
	p.cache.Close()
}
