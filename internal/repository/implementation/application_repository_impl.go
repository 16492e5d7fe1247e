package implementation

import (
	"context"

	"career-mentor-be/internal/entity"
	"career-mentor-be/internal/mapper"
	"career-mentor-be/internal/model"
	"career-mentor-be/internal/repository/contract"
	"career-mentor-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ApplicationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ApplicationMapper
}

func NewApplicationRepository(db *gorm.DB) contract.ApplicationRepository {
	return &ApplicationRepositoryImpl{
		db:     db,
		mapper: mapper.NewApplicationMapper(),
	}
}

func (r *ApplicationRepositoryImpl) Create(ctx context.Context, application *entity.Application) error {
	m := r.mapper.ToModel(application)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*application = *r.mapper.ToEntity(m)
	return nil
}

func (r *ApplicationRepositoryImpl) FindRecent(ctx context.Context, userId string, limit int) ([]*entity.Application, error) {
	specs := []specification.Specification{
		specification.ByUserID{UserID: userId},
		specification.OrderBy{Field: "applied_date", Desc: true},
		specification.Pagination{Limit: limit},
	}

	query := r.db.WithContext(ctx)
	for _, s := range specs {
		query = s.Apply(query)
	}

	var models []*model.Application
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	entities := make([]*entity.Application, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}
