package memory

import (
	"context"
	"sync"
	"time"

	"career-mentor-be/internal/entity"
	"career-mentor-be/internal/repository/contract"
)

type UserProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]*entity.UserProfile
}

var _ contract.UserProfileRepository = (*UserProfileRepository)(nil)

func NewUserProfileRepository() *UserProfileRepository {
	return &UserProfileRepository{profiles: make(map[string]*entity.UserProfile)}
}

func (r *UserProfileRepository) FindByUserId(_ context.Context, userId string) (*entity.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[userId]
	if !ok {
		return nil, nil
	}
	return cloneProfile(p), nil
}

func (r *UserProfileRepository) CreateIfAbsent(_ context.Context, profile *entity.UserProfile) (*entity.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.profiles[profile.UserId]; ok {
		return cloneProfile(existing), nil
	}
	stored := cloneProfile(profile)
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	r.profiles[profile.UserId] = stored
	return cloneProfile(stored), nil
}

func (r *UserProfileRepository) UpdateSkills(_ context.Context, userId string, skills []entity.Skill) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[userId]
	if !ok {
		return nil
	}
	p.Skills = append([]entity.Skill{}, skills...)
	now := time.Now()
	p.UpdatedAt = &now
	return nil
}

func (r *UserProfileRepository) Update(_ context.Context, profile *entity.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := cloneProfile(profile)
	now := time.Now()
	stored.UpdatedAt = &now
	r.profiles[profile.UserId] = stored
	return nil
}

func cloneProfile(p *entity.UserProfile) *entity.UserProfile {
	c := *p
	c.Skills = append([]entity.Skill{}, p.Skills...)
	c.CareerGoals = append([]entity.CareerGoal{}, p.CareerGoals...)
	return &c
}
