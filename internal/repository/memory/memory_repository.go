package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"career-mentor-be/internal/entity"
	"career-mentor-be/internal/repository/contract"
)

// MemoryRepository is a process local, append only memory log keyed by user.
// Used when no database is configured and in tests.
type MemoryRepository struct {
	mu     sync.RWMutex
	byUser map[string][]*entity.Memory
}

var _ contract.MemoryRepository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byUser: make(map[string][]*entity.Memory)}
}

func (r *MemoryRepository) Create(_ context.Context, memory *entity.Memory) error {
	stored := cloneMemory(memory)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser[memory.UserId] = append(r.byUser[memory.UserId], stored)
	return nil
}

func (r *MemoryRepository) FindAll(_ context.Context, q contract.MemoryQuery) ([]*entity.Memory, error) {
	r.mu.RLock()
	matched := make([]*entity.Memory, 0)
	for _, m := range r.byUser[q.UserId] {
		if q.Matches(m) {
			matched = append(matched, cloneMemory(m))
		}
	}
	r.mu.RUnlock()

	switch q.Order {
	case contract.MemoryOrderNewestFirst:
		sort.SliceStable(matched, func(i, j int) bool {
			return newer(matched[i], matched[j])
		})
	case contract.MemoryOrderImportanceDesc:
		sort.SliceStable(matched, func(i, j int) bool {
			if matched[i].Importance != matched[j].Importance {
				return matched[i].Importance > matched[j].Importance
			}
			return newer(matched[i], matched[j])
		})
	}

	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

func (r *MemoryRepository) SearchSimilar(_ context.Context, q contract.MemoryQuery, vec []float32, threshold float64, k int) ([]contract.ScoredMemory, error) {
	q.OnlyEmbedded = true

	r.mu.RLock()
	scored := make([]contract.ScoredMemory, 0)
	for _, m := range r.byUser[q.UserId] {
		if !q.Matches(m) {
			continue
		}
		if score := CosineSimilarity(vec, m.Embedding); score >= threshold {
			scored = append(scored, contract.ScoredMemory{Memory: cloneMemory(m), Score: score})
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return newer(scored[i].Memory, scored[j].Memory)
	})

	if k > 0 && len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

func (r *MemoryRepository) Count(_ context.Context, q contract.MemoryQuery) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, m := range r.byUser[q.UserId] {
		if q.Matches(m) {
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepository) CountByType(_ context.Context, userId string) (map[entity.MemoryType]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[entity.MemoryType]int64)
	for _, m := range r.byUser[userId] {
		counts[m.MemoryType]++
	}
	return counts, nil
}

func (r *MemoryRepository) TimeRange(_ context.Context, userId string) (*time.Time, *time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var oldest, newest *time.Time
	for _, m := range r.byUser[userId] {
		t := m.CreatedAt
		if oldest == nil || t.Before(*oldest) {
			oldest = &t
		}
		if newest == nil || t.After(*newest) {
			tt := t
			newest = &tt
		}
	}
	return oldest, newest, nil
}

func newer(a, b *entity.Memory) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.Id.String() > b.Id.String()
}

func cloneMemory(m *entity.Memory) *entity.Memory {
	c := *m
	c.Embedding = append([]float32{}, m.Embedding...)
	c.Tags = append([]string{}, m.Tags...)
	if m.Metadata != nil {
		c.Metadata = make(map[string]interface{}, len(m.Metadata))
		for k, v := range m.Metadata {
			c.Metadata[k] = v
		}
	}
	return &c
}
