package implementation

import (
	"context"
	"time"

	"career-mentor-be/internal/entity"
	"career-mentor-be/internal/mapper"
	"career-mentor-be/internal/model"
	"career-mentor-be/internal/repository/contract"
	"career-mentor-be/internal/repository/specification"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type MemoryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MemoryMapper
}

func NewMemoryRepository(db *gorm.DB) contract.MemoryRepository {
	return &MemoryRepositoryImpl{
		db:     db,
		mapper: mapper.NewMemoryMapper(),
	}
}

func (r *MemoryRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// filterSpecs covers the WHERE part of a query; ordering and limits are added by FindAll.
func filterSpecs(q contract.MemoryQuery) []specification.Specification {
	specs := []specification.Specification{specification.ByUserID{UserID: q.UserId}}
	if q.MemoryType != "" {
		specs = append(specs, specification.ByMemoryType{MemoryType: string(q.MemoryType)})
	}
	if q.MinImportance != nil {
		specs = append(specs, specification.MinImportance{Value: *q.MinImportance})
	}
	if q.CreatedAfter != nil {
		specs = append(specs, specification.CreatedAfter{Time: *q.CreatedAfter})
	}
	if q.OnlyEmbedded {
		specs = append(specs, specification.HasEmbedding{})
	}
	return specs
}

func (r *MemoryRepositoryImpl) Create(ctx context.Context, memory *entity.Memory) error {
	m := r.mapper.ToModel(memory)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*memory = *r.mapper.ToEntity(m)
	return nil
}

func (r *MemoryRepositoryImpl) FindAll(ctx context.Context, q contract.MemoryQuery) ([]*entity.Memory, error) {
	specs := filterSpecs(q)
	switch q.Order {
	case contract.MemoryOrderNewestFirst:
		specs = append(specs,
			specification.OrderBy{Field: "created_at", Desc: true},
			specification.OrderBy{Field: "id", Desc: true})
	case contract.MemoryOrderImportanceDesc:
		specs = append(specs,
			specification.OrderBy{Field: "importance", Desc: true},
			specification.OrderBy{Field: "created_at", Desc: true})
	}
	if q.Limit > 0 {
		specs = append(specs, specification.Pagination{Limit: q.Limit})
	}

	var models []*model.Memory
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

// similarityExpr is cosine similarity via pgvector's cosine distance. Rows of
// another dimension and zero-norm vectors (NaN distance) score 0.
const similarityExpr = "CASE WHEN vector_dims(embedding) = ? THEN COALESCE(NULLIF(1 - (embedding <=> ?), 'NaN'::float8), 0) ELSE 0 END"

func (r *MemoryRepositoryImpl) SearchSimilar(ctx context.Context, q contract.MemoryQuery, vec []float32, threshold float64, k int) ([]contract.ScoredMemory, error) {
	if len(vec) == 0 {
		return []contract.ScoredMemory{}, nil
	}
	q.OnlyEmbedded = true

	type result struct {
		model.Memory
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(vec)

	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Memory{}), filterSpecs(q)...).
		Select("memories.*, "+similarityExpr+" AS similarity", len(vec), queryVector).
		Where(similarityExpr+" >= ?", len(vec), queryVector, threshold).
		Order("similarity DESC").
		Order("created_at DESC").
		Order("id DESC")
	if k > 0 {
		query = query.Limit(k)
	}

	if err := query.Scan(&results).Error; err != nil {
		return nil, err
	}

	scored := make([]contract.ScoredMemory, len(results))
	for i := range results {
		scored[i] = contract.ScoredMemory{
			Memory: r.mapper.ToEntity(&results[i].Memory),
			Score:  results[i].Similarity,
		}
	}
	return scored, nil
}

func (r *MemoryRepositoryImpl) Count(ctx context.Context, q contract.MemoryQuery) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), filterSpecs(q)...)
	err := query.Model(&model.Memory{}).Count(&count).Error
	return count, err
}

func (r *MemoryRepositoryImpl) CountByType(ctx context.Context, userId string) (map[entity.MemoryType]int64, error) {
	var rows []struct {
		MemoryType string
		Total      int64
	}

	err := r.db.WithContext(ctx).
		Model(&model.Memory{}).
		Select("memory_type, COUNT(*) as total").
		Where("user_id = ?", userId).
		Group("memory_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[entity.MemoryType]int64, len(rows))
	for _, row := range rows {
		counts[entity.MemoryType(row.MemoryType)] = row.Total
	}
	return counts, nil
}

func (r *MemoryRepositoryImpl) TimeRange(ctx context.Context, userId string) (*time.Time, *time.Time, error) {
	var result struct {
		Oldest *time.Time
		Newest *time.Time
	}

	err := r.db.WithContext(ctx).
		Model(&model.Memory{}).
		Select("MIN(created_at) as oldest, MAX(created_at) as newest").
		Where("user_id = ?", userId).
		Scan(&result).Error
	if err != nil {
		return nil, nil, err
	}
	return result.Oldest, result.Newest, nil
}
