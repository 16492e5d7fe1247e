// Package memory is the long-term memory of the mentor: an append only log of
// episodic, semantic and feedback entries per user with similarity retrieval.
package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"career-mentor-be/internal/entity"
	"career-mentor-be/internal/pkg/logger"
	"career-mentor-be/internal/repository/contract"
	"career-mentor-be/pkg/apperror"
	"career-mentor-be/pkg/embedding"

	"github.com/google/uuid"
)

const moduleName = "MemoryStore"

type Config struct {
	SimilarityThreshold     float64
	HighImportanceThreshold float64
	FeedbackWindow          time.Duration
	DefaultTopK             int
}

type Store struct {
	repo     contract.MemoryRepository
	embedder embedding.EmbeddingProvider
	cfg      Config
	logger   logger.ILogger
	now      func() time.Time
}

type StoreOption func(*Store)

// WithClock replaces time.Now, used for CreatedAt and the feedback window.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

func NewStore(repo contract.MemoryRepository, embedder embedding.EmbeddingProvider, cfg Config, log logger.ILogger, opts ...StoreOption) *Store {
	if cfg.DefaultTopK <= 0 {
		cfg.DefaultTopK = 5
	}
	if cfg.FeedbackWindow <= 0 {
		cfg.FeedbackWindow = 30 * 24 * time.Hour
	}
	s := &Store{
		repo:     repo,
		embedder: embedder,
		cfg:      cfg,
		logger:   log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type AddInput struct {
	UserID     string
	Content    string
	MemoryType entity.MemoryType
	Importance float64
	Tags       []string
	Metadata   map[string]interface{}
}

// Add persists a new entry. The embedding is best effort: if the embedding
// service fails the entry is stored with an empty embedding and only shows up
// in recency based reads.
func (s *Store) Add(ctx context.Context, in AddInput) (*entity.Memory, error) {
	if strings.TrimSpace(in.UserID) == "" {
		return nil, apperror.InvalidInput("memory.add", "user id is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, apperror.InvalidInput("memory.add", "content is empty")
	}
	if !in.MemoryType.Valid() {
		return nil, apperror.InvalidInput("memory.add", fmt.Sprintf("unknown memory type %q", in.MemoryType))
	}
	if in.Importance < 0 || in.Importance > 1 {
		return nil, apperror.InvalidInput("memory.add", "importance must be within [0, 1]")
	}

	vec, err := s.embedder.Embed(ctx, in.Content)
	if err != nil {
		s.logger.Warn(moduleName, "Embedding failed, storing memory without vector", map[string]interface{}{
			"user_id": in.UserID,
			"type":    in.MemoryType,
			"error":   err.Error(),
		})
		vec = []float32{}
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate memory id: %w", err)
	}

	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	m := &entity.Memory{
		Id:         id,
		UserId:     in.UserID,
		Content:    in.Content,
		MemoryType: in.MemoryType,
		Embedding:  vec,
		Importance: in.Importance,
		Tags:       tags,
		Metadata:   in.Metadata,
		CreatedAt:  s.now().UTC(),
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, apperror.StoreUnavailable("memory.add", err)
	}

	s.logger.Debug(moduleName, "Memory stored", map[string]interface{}{
		"user_id":   in.UserID,
		"memory_id": m.Id.String(),
		"type":      in.MemoryType,
		"embedded":  m.HasEmbedding(),
	})
	return m, nil
}

type ScoredMemory = contract.ScoredMemory

type retrieveOptions struct {
	memoryType    entity.MemoryType
	minImportance *float64
}

type RetrieveOption func(*retrieveOptions)

func WithMemoryType(t entity.MemoryType) RetrieveOption {
	return func(o *retrieveOptions) { o.memoryType = t }
}

func WithMinImportance(v float64) RetrieveOption {
	return func(o *retrieveOptions) { o.minImportance = &v }
}

// RetrieveRelevant returns at most topK memories of the user ranked by cosine
// similarity to query. Ties go to the newer entry. When the query cannot be
// embedded the newest matching entries are returned instead, with score 0.
func (s *Store) RetrieveRelevant(ctx context.Context, userID, query string, topK int, opts ...RetrieveOption) ([]ScoredMemory, error) {
	if topK <= 0 {
		topK = s.cfg.DefaultTopK
	}
	o := &retrieveOptions{}
	for _, opt := range opts {
		opt(o)
	}

	q := contract.MemoryQuery{
		UserId:        userID,
		MemoryType:    o.memoryType,
		MinImportance: o.minImportance,
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil || len(queryVec) == 0 {
		s.logger.Warn(moduleName, "Query embedding failed, falling back to recency", map[string]interface{}{
			"user_id": userID,
			"error":   fmt.Sprint(err),
		})
		return s.recent(ctx, q, topK)
	}

	scored, err := s.repo.SearchSimilar(ctx, q, queryVec, s.cfg.SimilarityThreshold, topK)
	if err != nil {
		return nil, apperror.StoreUnavailable("memory.retrieve", err)
	}

	s.logger.Debug(moduleName, "Memories retrieved", map[string]interface{}{
		"user_id":  userID,
		"returned": len(scored),
	})
	return scored, nil
}

func (s *Store) recent(ctx context.Context, q contract.MemoryQuery, limit int) ([]ScoredMemory, error) {
	q.Order = contract.MemoryOrderNewestFirst
	q.Limit = limit

	entries, err := s.repo.FindAll(ctx, q)
	if err != nil {
		return nil, apperror.StoreUnavailable("memory.recent", err)
	}

	out := make([]ScoredMemory, len(entries))
	for i, m := range entries {
		out[i] = ScoredMemory{Memory: m}
	}
	return out, nil
}

// Recent returns entries created within the last days, newest first.
func (s *Store) Recent(ctx context.Context, userID string, days, limit int) ([]*entity.Memory, error) {
	since := s.now().Add(-time.Duration(days) * 24 * time.Hour)
	entries, err := s.repo.FindAll(ctx, contract.MemoryQuery{
		UserId:       userID,
		CreatedAfter: &since,
		Order:        contract.MemoryOrderNewestFirst,
		Limit:        limit,
	})
	if err != nil {
		return nil, apperror.StoreUnavailable("memory.recent", err)
	}
	return entries, nil
}

// Important returns entries at or above minImportance, most important first.
func (s *Store) Important(ctx context.Context, userID string, minImportance float64, limit int) ([]*entity.Memory, error) {
	entries, err := s.repo.FindAll(ctx, contract.MemoryQuery{
		UserId:        userID,
		MinImportance: &minImportance,
		Order:         contract.MemoryOrderImportanceDesc,
		Limit:         limit,
	})
	if err != nil {
		return nil, apperror.StoreUnavailable("memory.important", err)
	}
	return entries, nil
}

type Summary struct {
	TotalMemories       int64                       `json:"total_memories"`
	ByType              map[entity.MemoryType]int64 `json:"by_type"`
	HighImportanceCount int64                       `json:"high_importance_count"`
	RecentFeedbackCount int64                       `json:"recent_feedback_count"`
	OldestMemory        *time.Time                  `json:"oldest_memory"`
	NewestMemory        *time.Time                  `json:"newest_memory"`
}

// Consolidate summarizes a user's memory. It never writes.
func (s *Store) Consolidate(ctx context.Context, userID string) (*Summary, error) {
	byType, err := s.repo.CountByType(ctx, userID)
	if err != nil {
		return nil, apperror.StoreUnavailable("memory.consolidate", err)
	}

	summary := &Summary{ByType: map[entity.MemoryType]int64{
		entity.MemoryTypeEpisodic: 0,
		entity.MemoryTypeSemantic: 0,
		entity.MemoryTypeFeedback: 0,
	}}
	for t, n := range byType {
		summary.ByType[t] = n
		summary.TotalMemories += n
	}

	threshold := s.cfg.HighImportanceThreshold
	summary.HighImportanceCount, err = s.repo.Count(ctx, contract.MemoryQuery{UserId: userID, MinImportance: &threshold})
	if err != nil {
		return nil, apperror.StoreUnavailable("memory.consolidate", err)
	}

	since := s.now().Add(-s.cfg.FeedbackWindow)
	summary.RecentFeedbackCount, err = s.repo.Count(ctx, contract.MemoryQuery{
		UserId:       userID,
		MemoryType:   entity.MemoryTypeFeedback,
		CreatedAfter: &since,
	})
	if err != nil {
		return nil, apperror.StoreUnavailable("memory.consolidate", err)
	}

	summary.OldestMemory, summary.NewestMemory, err = s.repo.TimeRange(ctx, userID)
	if err != nil {
		return nil, apperror.StoreUnavailable("memory.consolidate", err)
	}

	return summary, nil
}
