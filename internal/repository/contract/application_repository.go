package contract

import (
	"context"

	"career-mentor-be/internal/entity"
)

type ApplicationRepository interface {
	Create(ctx context.Context, application *entity.Application) error
	// FindRecent orders by applied date, newest first.
	FindRecent(ctx context.Context, userId string, limit int) ([]*entity.Application, error)
}
