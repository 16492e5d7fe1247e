package mapper

import (
	"career-mentor-be/internal/entity"
	"career-mentor-be/internal/model"
)

type ApplicationMapper struct{}

func NewApplicationMapper() *ApplicationMapper {
	return &ApplicationMapper{}
}

func (m *ApplicationMapper) ToEntity(a *model.Application) *entity.Application {
	if a == nil {
		return nil
	}
	return &entity.Application{
		Id:          a.Id,
		UserId:      a.UserId,
		Company:     a.Company,
		Position:    a.Position,
		Status:      a.Status,
		AppliedDate: a.AppliedDate,
		Feedback:    a.Feedback,
		CreatedAt:   a.CreatedAt,
	}
}

func (m *ApplicationMapper) ToModel(a *entity.Application) *model.Application {
	if a == nil {
		return nil
	}
	return &model.Application{
		Id:          a.Id,
		UserId:      a.UserId,
		Company:     a.Company,
		Position:    a.Position,
		Status:      a.Status,
		AppliedDate: a.AppliedDate,
		Feedback:    a.Feedback,
		CreatedAt:   a.CreatedAt,
	}
}
