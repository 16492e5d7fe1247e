package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"career-mentor-be/pkg/store"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "mentor:checkpoint:"

// CheckpointRepository stores turn state as JSON so several API replicas see
// the same thread history.
type CheckpointRepository struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewCheckpointRepository(client *goredis.Client, ttl time.Duration) *CheckpointRepository {
	return &CheckpointRepository{client: client, ttl: ttl}
}

func (r *CheckpointRepository) Save(ctx context.Context, threadID string, state *store.TurnState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}
	return r.client.Set(ctx, keyPrefix+threadID, raw, r.ttl).Err()
}

func (r *CheckpointRepository) Load(ctx context.Context, threadID string) (*store.TurnState, error) {
	raw, err := r.client.Get(ctx, keyPrefix+threadID).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var state store.TurnState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("unmarshal checkpoint: %w", err)
	}
	return &state, nil
}

func (r *CheckpointRepository) Delete(ctx context.Context, threadID string) error {
	return r.client.Del(ctx, keyPrefix+threadID).Err()
}
