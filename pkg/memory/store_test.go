package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"career-mentor-be/internal/entity"
	"career-mentor-be/internal/pkg/logger"
	"career-mentor-be/internal/repository/contract"
	inmemory "career-mentor-be/internal/repository/memory"
	"career-mentor-be/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tableEmbedder maps known texts to fixed vectors and fails on anything else.
type tableEmbedder struct {
	vectors map[string][]float32
	fail    bool
}

func (e *tableEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if e.fail {
		return nil, errors.New("embedding service down")
	}
	if v, ok := e.vectors[text]; ok {
		return v, nil
	}
	return nil, errors.New("unknown text")
}

type brokenRepo struct{ contract.MemoryRepository }

func (brokenRepo) Create(context.Context, *entity.Memory) error { return errors.New("db down") }
func (brokenRepo) FindAll(context.Context, contract.MemoryQuery) ([]*entity.Memory, error) {
	return nil, errors.New("db down")
}
func (brokenRepo) SearchSimilar(context.Context, contract.MemoryQuery, []float32, float64, int) ([]contract.ScoredMemory, error) {
	return nil, errors.New("db down")
}
func (brokenRepo) CountByType(context.Context, string) (map[entity.MemoryType]int64, error) {
	return nil, errors.New("db down")
}

type fixedClock struct{ t time.Time }

func (c *fixedClock) now() time.Time { return c.t }

func (c *fixedClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func defaultConfig() Config {
	return Config{
		SimilarityThreshold:     0.7,
		HighImportanceThreshold: 0.7,
		FeedbackWindow:          30 * 24 * time.Hour,
		DefaultTopK:             5,
	}
}

func newTestStore(embedder *tableEmbedder, clock *fixedClock) (*Store, *inmemory.MemoryRepository) {
	repo := inmemory.NewMemoryRepository()
	s := NewStore(repo, embedder, defaultConfig(), logger.NewNopLogger(), WithClock(clock.now))
	return s, repo
}

func add(t *testing.T, s *Store, userID, content string, typ entity.MemoryType, importance float64) *entity.Memory {
	t.Helper()
	m, err := s.Add(context.Background(), AddInput{UserID: userID, Content: content, MemoryType: typ, Importance: importance})
	require.NoError(t, err)
	return m
}

func TestAdd_Validation(t *testing.T) {
	s, _ := newTestStore(&tableEmbedder{}, &fixedClock{t: time.Now()})
	ctx := context.Background()

	cases := []AddInput{
		{UserID: "", Content: "x", MemoryType: entity.MemoryTypeEpisodic, Importance: 0.5},
		{UserID: "u1", Content: "  ", MemoryType: entity.MemoryTypeEpisodic, Importance: 0.5},
		{UserID: "u1", Content: "x", MemoryType: "procedural", Importance: 0.5},
		{UserID: "u1", Content: "x", MemoryType: entity.MemoryTypeEpisodic, Importance: 1.5},
	}
	for _, in := range cases {
		_, err := s.Add(ctx, in)
		assert.True(t, apperror.IsInvalidInput(err), "input %+v", in)
	}
}

func TestAdd_EmbeddingFailureStoresEmptyVector(t *testing.T) {
	clock := &fixedClock{t: time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)}
	s, repo := newTestStore(&tableEmbedder{fail: true}, clock)

	m := add(t, s, "u1", "User: hi", entity.MemoryTypeEpisodic, 0.5)

	assert.NotNil(t, m.Embedding)
	assert.Empty(t, m.Embedding)
	assert.Equal(t, clock.t, m.CreatedAt)
	assert.Equal(t, byte(7), byte(m.Id.Version()))

	stored, err := repo.FindAll(context.Background(), contract.MemoryQuery{UserId: "u1"})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Empty(t, stored[0].Embedding)
}

func TestRetrieveRelevant_RanksByScoreAndRespectsThreshold(t *testing.T) {
	emb := &tableEmbedder{vectors: map[string][]float32{
		"kubernetes":     {1, 0, 0},
		"k8s deployment": {0.9, 0.1, 0},
		"kubectl":        {0.8, 0.6, 0},
		"cooking":        {0, 0, 1},
	}}
	clock := &fixedClock{t: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)}
	s, _ := newTestStore(emb, clock)

	add(t, s, "u1", "kubectl", entity.MemoryTypeEpisodic, 0.5)
	clock.advance(time.Minute)
	add(t, s, "u1", "k8s deployment", entity.MemoryTypeSemantic, 0.8)
	clock.advance(time.Minute)
	add(t, s, "u1", "cooking", entity.MemoryTypeEpisodic, 0.5)

	got, err := s.RetrieveRelevant(context.Background(), "u1", "kubernetes", 5)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "k8s deployment", got[0].Memory.Content)
	assert.Equal(t, "kubectl", got[1].Memory.Content)
	assert.Greater(t, got[0].Score, got[1].Score)
	for _, r := range got {
		assert.GreaterOrEqual(t, r.Score, 0.7)
	}
}

func TestRetrieveRelevant_TopKAndUserIsolation(t *testing.T) {
	emb := &tableEmbedder{vectors: map[string][]float32{"q": {1, 0}, "m": {1, 0}}}
	clock := &fixedClock{t: time.Now()}
	s, _ := newTestStore(emb, clock)

	for i := 0; i < 8; i++ {
		add(t, s, "u1", "m", entity.MemoryTypeEpisodic, 0.5)
		add(t, s, "u2", "m", entity.MemoryTypeEpisodic, 0.5)
		clock.advance(time.Second)
	}

	got, err := s.RetrieveRelevant(context.Background(), "u1", "q", 3)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	for _, r := range got {
		assert.Equal(t, "u1", r.Memory.UserId)
	}

	none, err := s.RetrieveRelevant(context.Background(), "u3", "q", 3)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRetrieveRelevant_TiesGoToNewerEntry(t *testing.T) {
	emb := &tableEmbedder{vectors: map[string][]float32{"q": {1, 0}, "a": {1, 0}, "b": {2, 0}}}
	clock := &fixedClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	s, _ := newTestStore(emb, clock)

	older := add(t, s, "u1", "a", entity.MemoryTypeEpisodic, 0.5)
	clock.advance(time.Hour)
	newer := add(t, s, "u1", "b", entity.MemoryTypeEpisodic, 0.5)

	first, err := s.RetrieveRelevant(context.Background(), "u1", "q", 5)
	require.NoError(t, err)
	second, err := s.RetrieveRelevant(context.Background(), "u1", "q", 5)
	require.NoError(t, err)

	require.Len(t, first, 2)
	assert.Equal(t, newer.Id, first[0].Memory.Id)
	assert.Equal(t, older.Id, first[1].Memory.Id)
	assert.Equal(t, first, second)
}

func TestRetrieveRelevant_EmptyEmbeddingsOnlyInRecencyFallback(t *testing.T) {
	emb := &tableEmbedder{vectors: map[string][]float32{"q": {1, 0}, "indexed": {1, 0}}}
	clock := &fixedClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	s, _ := newTestStore(emb, clock)

	add(t, s, "u1", "indexed", entity.MemoryTypeEpisodic, 0.5)
	clock.advance(time.Minute)
	unembedded := add(t, s, "u1", "not in the table", entity.MemoryTypeEpisodic, 0.5)
	require.Empty(t, unembedded.Embedding)

	similar, err := s.RetrieveRelevant(context.Background(), "u1", "q", 5)
	require.NoError(t, err)
	require.Len(t, similar, 1)
	assert.Equal(t, "indexed", similar[0].Memory.Content)

	emb.fail = true
	recent, err := s.RetrieveRelevant(context.Background(), "u1", "q", 5)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, unembedded.Id, recent[0].Memory.Id)
	assert.Zero(t, recent[0].Score)
}

func TestRetrieveRelevant_Filters(t *testing.T) {
	emb := &tableEmbedder{vectors: map[string][]float32{"q": {1, 0}, "m": {1, 0}}}
	s, _ := newTestStore(emb, &fixedClock{t: time.Now()})

	add(t, s, "u1", "m", entity.MemoryTypeEpisodic, 0.3)
	add(t, s, "u1", "m", entity.MemoryTypeSemantic, 0.8)
	add(t, s, "u1", "m", entity.MemoryTypeFeedback, 0.9)

	semantic, err := s.RetrieveRelevant(context.Background(), "u1", "q", 5, WithMemoryType(entity.MemoryTypeSemantic))
	require.NoError(t, err)
	require.Len(t, semantic, 1)
	assert.Equal(t, entity.MemoryTypeSemantic, semantic[0].Memory.MemoryType)

	important, err := s.RetrieveRelevant(context.Background(), "u1", "q", 5, WithMinImportance(0.7))
	require.NoError(t, err)
	assert.Len(t, important, 2)
}

func TestStoreOutageIsDistinguishable(t *testing.T) {
	s := NewStore(brokenRepo{}, &tableEmbedder{fail: true}, defaultConfig(), logger.NewNopLogger())
	ctx := context.Background()

	_, err := s.Add(ctx, AddInput{UserID: "u1", Content: "x", MemoryType: entity.MemoryTypeEpisodic, Importance: 0.5})
	assert.True(t, apperror.IsStoreUnavailable(err))

	_, err = s.RetrieveRelevant(ctx, "u1", "q", 5)
	assert.True(t, apperror.IsStoreUnavailable(err))

	_, err = s.Consolidate(ctx, "u1")
	assert.True(t, apperror.IsStoreUnavailable(err))
}

func TestConsolidate_CountsAndIdempotence(t *testing.T) {
	clock := &fixedClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	s, _ := newTestStore(&tableEmbedder{fail: true}, clock)

	first := add(t, s, "u1", "old feedback", entity.MemoryTypeFeedback, 0.9)
	clock.advance(40 * 24 * time.Hour)
	add(t, s, "u1", "fresh feedback", entity.MemoryTypeFeedback, 0.6)
	add(t, s, "u1", "User: hi", entity.MemoryTypeEpisodic, 0.5)
	last := add(t, s, "u1", "Action taken", entity.MemoryTypeSemantic, 0.8)
	add(t, s, "u2", "other user", entity.MemoryTypeFeedback, 1.0)

	summary, err := s.Consolidate(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, int64(4), summary.TotalMemories)
	assert.Equal(t, int64(2), summary.ByType[entity.MemoryTypeFeedback])
	assert.Equal(t, int64(1), summary.ByType[entity.MemoryTypeEpisodic])
	assert.Equal(t, int64(1), summary.ByType[entity.MemoryTypeSemantic])
	assert.Equal(t, int64(2), summary.HighImportanceCount)
	assert.Equal(t, int64(1), summary.RecentFeedbackCount)
	assert.Equal(t, first.CreatedAt, *summary.OldestMemory)
	assert.Equal(t, last.CreatedAt, *summary.NewestMemory)

	again, err := s.Consolidate(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, summary, again)
}

func TestConsolidate_EmptyUser(t *testing.T) {
	s, _ := newTestStore(&tableEmbedder{}, &fixedClock{t: time.Now()})

	summary, err := s.Consolidate(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Zero(t, summary.TotalMemories)
	assert.Nil(t, summary.OldestMemory)
	assert.Nil(t, summary.NewestMemory)
	assert.Len(t, summary.ByType, 3)
}

func TestRecentAndImportant(t *testing.T) {
	clock := &fixedClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	s, _ := newTestStore(&tableEmbedder{fail: true}, clock)

	add(t, s, "u1", "ancient", entity.MemoryTypeSemantic, 0.95)
	clock.advance(10 * 24 * time.Hour)
	add(t, s, "u1", "mid", entity.MemoryTypeEpisodic, 0.5)
	clock.advance(24 * time.Hour)
	add(t, s, "u1", "latest", entity.MemoryTypeSemantic, 0.8)

	recent, err := s.Recent(context.Background(), "u1", 7, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "latest", recent[0].Content)

	important, err := s.Important(context.Background(), "u1", 0.7, 10)
	require.NoError(t, err)
	require.Len(t, important, 2)
	assert.Equal(t, "ancient", important[0].Content)
	assert.Equal(t, "latest", important[1].Content)
}
