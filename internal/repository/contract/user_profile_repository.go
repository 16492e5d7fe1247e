package contract

import (
	"context"

	"career-mentor-be/internal/entity"
)

type UserProfileRepository interface {
	// FindByUserId returns nil, nil when no profile exists.
	FindByUserId(ctx context.Context, userId string) (*entity.UserProfile, error)
	// CreateIfAbsent inserts the profile unless one exists and returns the stored row.
	CreateIfAbsent(ctx context.Context, profile *entity.UserProfile) (*entity.UserProfile, error)
	UpdateSkills(ctx context.Context, userId string, skills []entity.Skill) error
	Update(ctx context.Context, profile *entity.UserProfile) error
}
