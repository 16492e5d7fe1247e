package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"career-mentor-be/internal/entity"
	"career-mentor-be/internal/repository/contract"
	"career-mentor-be/pkg/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemory(userID string, typ entity.MemoryType, importance float64, at time.Time) *entity.Memory {
	return &entity.Memory{
		Id:         uuid.Must(uuid.NewV7()),
		UserId:     userID,
		Content:    "content",
		MemoryType: typ,
		Importance: importance,
		Embedding:  []float32{1, 0},
		CreatedAt:  at,
	}
}

func TestMemoryRepository_FindAllFiltersAndOrders(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, newMemory("u1", entity.MemoryTypeEpisodic, 0.5, base)))
	require.NoError(t, repo.Create(ctx, newMemory("u1", entity.MemoryTypeSemantic, 0.8, base.Add(time.Hour))))
	require.NoError(t, repo.Create(ctx, newMemory("u1", entity.MemoryTypeFeedback, 0.9, base.Add(2*time.Hour))))
	require.NoError(t, repo.Create(ctx, newMemory("u2", entity.MemoryTypeSemantic, 1.0, base)))

	threshold := 0.7
	got, err := repo.FindAll(ctx, contract.MemoryQuery{UserId: "u1", MinImportance: &threshold, Order: contract.MemoryOrderNewestFirst})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, entity.MemoryTypeFeedback, got[0].MemoryType)
	assert.Equal(t, entity.MemoryTypeSemantic, got[1].MemoryType)

	limited, err := repo.FindAll(ctx, contract.MemoryQuery{UserId: "u1", Order: contract.MemoryOrderNewestFirst, Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, base.Add(2*time.Hour), limited[0].CreatedAt)

	byType, err := repo.CountByType(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, map[entity.MemoryType]int64{
		entity.MemoryTypeEpisodic: 1,
		entity.MemoryTypeSemantic: 1,
		entity.MemoryTypeFeedback: 1,
	}, byType)

	oldest, newest, err := repo.TimeRange(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, base, *oldest)
	assert.Equal(t, base.Add(2*time.Hour), *newest)
}

func TestMemoryRepository_StoredCopyIsIsolated(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	m := newMemory("u1", entity.MemoryTypeEpisodic, 0.5, time.Now())
	require.NoError(t, repo.Create(ctx, m))

	m.Embedding[0] = 42

	got, err := repo.FindAll(ctx, contract.MemoryQuery{UserId: "u1"})
	require.NoError(t, err)
	assert.Equal(t, float32(1), got[0].Embedding[0])
}

func TestMemoryRepository_ConcurrentAppends(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.Create(ctx, newMemory("u1", entity.MemoryTypeEpisodic, 0.5, time.Now()))
		}()
	}
	wg.Wait()

	n, err := repo.Count(ctx, contract.MemoryQuery{UserId: "u1"})
	require.NoError(t, err)
	assert.Equal(t, int64(50), n)
}

func TestTimeRange_EmptyUser(t *testing.T) {
	oldest, newest, err := NewMemoryRepository().TimeRange(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, oldest)
	assert.Nil(t, newest)
}

func TestUserProfileRepository_CreateIfAbsentKeepsFirst(t *testing.T) {
	repo := NewUserProfileRepository()
	ctx := context.Background()

	first, err := repo.CreateIfAbsent(ctx, &entity.UserProfile{Id: uuid.New(), UserId: "u1", TargetRole: "ml engineer"})
	require.NoError(t, err)
	second, err := repo.CreateIfAbsent(ctx, &entity.UserProfile{Id: uuid.New(), UserId: "u1", TargetRole: "other"})
	require.NoError(t, err)

	assert.Equal(t, first.Id, second.Id)
	assert.Equal(t, "ml engineer", second.TargetRole)

	require.NoError(t, repo.UpdateSkills(ctx, "u1", []entity.Skill{{Name: "python"}}))
	got, err := repo.FindByUserId(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []entity.Skill{{Name: "python"}}, got.Skills)
	assert.NotNil(t, got.UpdatedAt)
}

func TestApplicationRepository_FindRecent(t *testing.T) {
	repo := NewApplicationRepository()
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	for i, company := range []string{"a", "b", "c", "d"} {
		require.NoError(t, repo.Create(ctx, &entity.Application{
			Id: uuid.New(), UserId: "u1", Company: company, Position: "dev",
			AppliedDate: base.AddDate(0, 0, i),
		}))
	}

	got, err := repo.FindRecent(ctx, "u1", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "d", got[0].Company)
	assert.Equal(t, "b", got[2].Company)
}

func TestCheckpointRepository_RoundTrip(t *testing.T) {
	repo := NewCheckpointRepository(time.Minute)
	ctx := context.Background()

	missing, err := repo.Load(ctx, "t1")
	require.NoError(t, err)
	assert.Nil(t, missing)

	state := store.NewTurnState("u1", nil, "hi")
	state.Iteration = 2
	require.NoError(t, repo.Save(ctx, "t1", state))

	state.Iteration = 99

	got, err := repo.Load(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.Iteration)

	require.NoError(t, repo.Delete(ctx, "t1"))
	gone, _ := repo.Load(ctx, "t1")
	assert.Nil(t, gone)
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"zero norm", []float32{0, 0}, []float32{1, 1}, 0},
		{"empty", []float32{}, []float32{}, 0},
		{"length mismatch", []float32{1, 0}, []float32{1, 0, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestMemoryRepository_SearchSimilar(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	older := newMemory("u1", entity.MemoryTypeEpisodic, 0.5, base)
	newerTwin := newMemory("u1", entity.MemoryTypeEpisodic, 0.5, base.Add(time.Hour))
	nearby := newMemory("u1", entity.MemoryTypeSemantic, 0.8, base)
	nearby.Embedding = []float32{0.9, 0.1}
	far := newMemory("u1", entity.MemoryTypeEpisodic, 0.5, base)
	far.Embedding = []float32{0, 1}
	unembedded := newMemory("u1", entity.MemoryTypeEpisodic, 0.5, base.Add(2*time.Hour))
	unembedded.Embedding = nil
	other := newMemory("u2", entity.MemoryTypeEpisodic, 0.5, base)

	for _, m := range []*entity.Memory{older, newerTwin, nearby, far, unembedded, other} {
		require.NoError(t, repo.Create(ctx, m))
	}

	got, err := repo.SearchSimilar(ctx, contract.MemoryQuery{UserId: "u1"}, []float32{1, 0}, 0.7, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, newerTwin.Id, got[0].Memory.Id)
	assert.Equal(t, older.Id, got[1].Memory.Id)
	assert.Equal(t, nearby.Id, got[2].Memory.Id)
	assert.InDelta(t, 1.0, got[0].Score, 1e-9)

	top, err := repo.SearchSimilar(ctx, contract.MemoryQuery{UserId: "u1", MemoryType: entity.MemoryTypeSemantic}, []float32{1, 0}, 0.7, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, nearby.Id, top[0].Memory.Id)

	mismatched, err := repo.SearchSimilar(ctx, contract.MemoryQuery{UserId: "u1"}, []float32{1, 0, 0}, 0.1, 10)
	require.NoError(t, err)
	assert.Empty(t, mismatched)
}
