package implementation

import (
	"context"
	"errors"

	"career-mentor-be/internal/entity"
	"career-mentor-be/internal/mapper"
	"career-mentor-be/internal/model"
	"career-mentor-be/internal/repository/contract"
	"career-mentor-be/internal/repository/specification"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserProfileRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserProfileMapper
}

func NewUserProfileRepository(db *gorm.DB) contract.UserProfileRepository {
	return &UserProfileRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserProfileMapper(),
	}
}

func (r *UserProfileRepositoryImpl) FindByUserId(ctx context.Context, userId string) (*entity.UserProfile, error) {
	var m model.UserProfile
	query := specification.ByUserID{UserID: userId}.Apply(r.db.WithContext(ctx))
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *UserProfileRepositoryImpl) CreateIfAbsent(ctx context.Context, profile *entity.UserProfile) (*entity.UserProfile, error) {
	m := r.mapper.ToModel(profile)

	// Two first turns for a new user may race here; the unique index on
	// user_id lets the loser fall through to the read below.
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(m).Error
	if err != nil {
		return nil, err
	}

	return r.FindByUserId(ctx, profile.UserId)
}

func (r *UserProfileRepositoryImpl) UpdateSkills(ctx context.Context, userId string, skills []entity.Skill) error {
	records := datatypes.JSONSlice[model.SkillRecord](r.mapper.SkillRecords(skills))
	return r.db.WithContext(ctx).
		Model(&model.UserProfile{}).
		Where("user_id = ?", userId).
		Update("skills", records).Error
}

func (r *UserProfileRepositoryImpl) Update(ctx context.Context, profile *entity.UserProfile) error {
	m := r.mapper.ToModel(profile)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*profile = *r.mapper.ToEntity(m)
	return nil
}
