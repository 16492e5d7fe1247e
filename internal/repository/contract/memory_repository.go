package contract

import (
	"context"
	"time"

	"career-mentor-be/internal/entity"
)

type MemoryOrder int

const (
	MemoryOrderNone MemoryOrder = iota
	MemoryOrderNewestFirst
	MemoryOrderImportanceDesc
)

// MemoryQuery selects a user's memories. Zero values mean "no constraint".
type MemoryQuery struct {
	UserId        string
	MemoryType    entity.MemoryType
	MinImportance *float64
	CreatedAfter  *time.Time
	OnlyEmbedded  bool
	Order         MemoryOrder
	Limit         int
}

func (q MemoryQuery) Matches(m *entity.Memory) bool {
	if m.UserId != q.UserId {
		return false
	}
	if q.MemoryType != "" && m.MemoryType != q.MemoryType {
		return false
	}
	if q.MinImportance != nil && m.Importance < *q.MinImportance {
		return false
	}
	if q.CreatedAfter != nil && m.CreatedAt.Before(*q.CreatedAfter) {
		return false
	}
	if q.OnlyEmbedded && !m.HasEmbedding() {
		return false
	}
	return true
}

// ScoredMemory is a memory with its cosine similarity to a query vector.
type ScoredMemory struct {
	Memory *entity.Memory
	Score  float64
}

type MemoryRepository interface {
	Create(ctx context.Context, memory *entity.Memory) error
	FindAll(ctx context.Context, query MemoryQuery) ([]*entity.Memory, error)
	// SearchSimilar returns at most k embedded memories matching query whose
	// cosine similarity to vec is at least threshold, best first, ties newest
	// first. Zero-norm and dimension-mismatched embeddings score 0.
	SearchSimilar(ctx context.Context, query MemoryQuery, vec []float32, threshold float64, k int) ([]ScoredMemory, error)
	Count(ctx context.Context, query MemoryQuery) (int64, error)
	CountByType(ctx context.Context, userId string) (map[entity.MemoryType]int64, error)
	// TimeRange returns nil bounds when the user has no memories.
	TimeRange(ctx context.Context, userId string) (oldest, newest *time.Time, err error)
}
