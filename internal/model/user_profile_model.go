package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SkillRecord struct {
	Name     string     `json:"name"`
	Level    string     `json:"level"`
	LastUsed *time.Time `json:"last_used,omitempty"`
}

type CareerGoalRecord struct {
	Title      string     `json:"title"`
	Status     string     `json:"status"`
	TargetDate *time.Time `json:"target_date,omitempty"`
}

type UserProfile struct {
	Id              uuid.UUID                             `gorm:"type:uuid;primaryKey"`
	UserId          string                                `gorm:"type:varchar(255);not null;uniqueIndex"`
	Skills          datatypes.JSONSlice[SkillRecord]      `gorm:"type:jsonb"`
	TargetRole      string                                `gorm:"type:varchar(255)"`
	CareerGoals     datatypes.JSONSlice[CareerGoalRecord] `gorm:"type:jsonb"`
	ExperienceYears float64                               `gorm:"default:0"`
	CreatedAt       time.Time                             `gorm:"autoCreateTime"`
	UpdatedAt       time.Time                             `gorm:"autoUpdateTime"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
