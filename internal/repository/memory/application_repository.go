package memory

import (
	"context"
	"sort"
	"sync"

	"career-mentor-be/internal/entity"
	"career-mentor-be/internal/repository/contract"
)

type ApplicationRepository struct {
	mu     sync.RWMutex
	byUser map[string][]entity.Application
}

var _ contract.ApplicationRepository = (*ApplicationRepository)(nil)

func NewApplicationRepository() *ApplicationRepository {
	return &ApplicationRepository{byUser: make(map[string][]entity.Application)}
}

func (r *ApplicationRepository) Create(_ context.Context, application *entity.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser[application.UserId] = append(r.byUser[application.UserId], *application)
	return nil
}

func (r *ApplicationRepository) FindRecent(_ context.Context, userId string, limit int) ([]*entity.Application, error) {
	r.mu.RLock()
	apps := make([]*entity.Application, 0, len(r.byUser[userId]))
	for _, a := range r.byUser[userId] {
		a := a
		apps = append(apps, &a)
	}
	r.mu.RUnlock()

	sort.SliceStable(apps, func(i, j int) bool {
		return apps[i].AppliedDate.After(apps[j].AppliedDate)
	})
	if limit > 0 && len(apps) > limit {
		apps = apps[:limit]
	}
	return apps, nil
}
