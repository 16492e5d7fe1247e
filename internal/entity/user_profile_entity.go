package entity

import (
	"time"

	"github.com/google/uuid"
)

type Skill struct {
	Name     string
	Level    string
	LastUsed *time.Time
}

type CareerGoal struct {
	Title      string
	Status     string
	TargetDate *time.Time
}

type UserProfile struct {
	Id              uuid.UUID
	UserId          string
	Skills          []Skill
	TargetRole      string
	CareerGoals     []CareerGoal
	ExperienceYears float64
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}
