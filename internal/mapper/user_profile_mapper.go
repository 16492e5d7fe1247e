package mapper

import (
	"time"

	"career-mentor-be/internal/entity"
	"career-mentor-be/internal/model"
)

type UserProfileMapper struct{}

func NewUserProfileMapper() *UserProfileMapper {
	return &UserProfileMapper{}
}

func (m *UserProfileMapper) ToEntity(p *model.UserProfile) *entity.UserProfile {
	if p == nil {
		return nil
	}

	skills := make([]entity.Skill, len(p.Skills))
	for i, s := range p.Skills {
		skills[i] = entity.Skill{Name: s.Name, Level: s.Level, LastUsed: s.LastUsed}
	}

	goals := make([]entity.CareerGoal, len(p.CareerGoals))
	for i, g := range p.CareerGoals {
		goals[i] = entity.CareerGoal{Title: g.Title, Status: g.Status, TargetDate: g.TargetDate}
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	return &entity.UserProfile{
		Id:              p.Id,
		UserId:          p.UserId,
		Skills:          skills,
		TargetRole:      p.TargetRole,
		CareerGoals:     goals,
		ExperienceYears: p.ExperienceYears,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       updatedAt,
	}
}

func (m *UserProfileMapper) ToModel(p *entity.UserProfile) *model.UserProfile {
	if p == nil {
		return nil
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	return &model.UserProfile{
		Id:              p.Id,
		UserId:          p.UserId,
		Skills:          m.SkillRecords(p.Skills),
		TargetRole:      p.TargetRole,
		CareerGoals:     goalRecords(p.CareerGoals),
		ExperienceYears: p.ExperienceYears,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       updatedAt,
	}
}

func (m *UserProfileMapper) SkillRecords(skills []entity.Skill) []model.SkillRecord {
	records := make([]model.SkillRecord, len(skills))
	for i, s := range skills {
		records[i] = model.SkillRecord{Name: s.Name, Level: s.Level, LastUsed: s.LastUsed}
	}
	return records
}

func goalRecords(goals []entity.CareerGoal) []model.CareerGoalRecord {
	records := make([]model.CareerGoalRecord, len(goals))
	for i, g := range goals {
		records[i] = model.CareerGoalRecord{Title: g.Title, Status: g.Status, TargetDate: g.TargetDate}
	}
	return records
}
