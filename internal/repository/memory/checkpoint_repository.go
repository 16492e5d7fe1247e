package memory

import (
	"context"
	"time"

	"career-mentor-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// CheckpointRepository keeps the last turn state per thread in process memory.
type CheckpointRepository struct {
	cache *cache.Cache
}

func NewCheckpointRepository(ttl time.Duration) *CheckpointRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	// Expired items are purged every 10 minutes
	return &CheckpointRepository{cache: cache.New(ttl, 10*time.Minute)}
}

func (r *CheckpointRepository) Save(_ context.Context, threadID string, state *store.TurnState) error {
	snapshot := *state
	r.cache.Set(threadID, &snapshot, cache.DefaultExpiration)
	return nil
}

func (r *CheckpointRepository) Load(_ context.Context, threadID string) (*store.TurnState, error) {
	if x, found := r.cache.Get(threadID); found {
		snapshot := *x.(*store.TurnState)
		return &snapshot, nil
	}
	return nil, nil
}

func (r *CheckpointRepository) Delete(_ context.Context, threadID string) error {
	r.cache.Delete(threadID)
	return nil
}
