package dto

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessageDTO struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

type ChatRequest struct {
	UserId  string           `json:"user_id" validate:"required,max=128"`
	Message string           `json:"message" validate:"required,max=4000"`
	History []ChatMessageDTO `json:"history,omitempty" validate:"omitempty,max=50,dive"`
}

type ChatMetadataDTO struct {
	Intent      string `json:"intent"`
	ActionTaken bool   `json:"action_taken"`
	ActionType  string `json:"action_type,omitempty"`
	Iteration   int    `json:"iteration"`
}

type ChatResponse struct {
	Response    string          `json:"response"`
	Suggestions []string        `json:"suggestions"`
	ActionItems []string        `json:"action_items"`
	Metadata    ChatMetadataDTO `json:"metadata"`
}

type SkillDTO struct {
	Name     string     `json:"name" validate:"required,max=100"`
	Level    string     `json:"level,omitempty" validate:"omitempty,oneof=beginner intermediate advanced expert"`
	LastUsed *time.Time `json:"last_used,omitempty"`
}

type UpdateSkillsRequest struct {
	Skills []SkillDTO `json:"skills" validate:"max=200,dive"`
}

type CareerGoalDTO struct {
	Title      string     `json:"title" validate:"required,max=200"`
	Status     string     `json:"status,omitempty" validate:"omitempty,max=50"`
	TargetDate *time.Time `json:"target_date,omitempty"`
}

type UpdateProfileRequest struct {
	TargetRole      string          `json:"target_role" validate:"max=100"`
	CareerGoals     []CareerGoalDTO `json:"career_goals" validate:"max=50,dive"`
	ExperienceYears float64         `json:"experience_years" validate:"gte=0,lte=60"`
}

type LogApplicationRequest struct {
	Company     string     `json:"company" validate:"required,max=200"`
	Position    string     `json:"position" validate:"required,max=200"`
	Status      string     `json:"status" validate:"required,oneof=applied screening interview offer rejected accepted withdrawn"`
	Feedback    string     `json:"feedback,omitempty" validate:"max=4000"`
	AppliedDate *time.Time `json:"applied_date,omitempty"`
}

type ApplicationResponse struct {
	Id          uuid.UUID `json:"id"`
	Company     string    `json:"company"`
	Position    string    `json:"position"`
	Status      string    `json:"status"`
	AppliedDate time.Time `json:"applied_date"`
	MemoryId    uuid.UUID `json:"memory_id"`
}

type ProfileResponse struct {
	UserId          string          `json:"user_id"`
	TargetRole      string          `json:"target_role"`
	ExperienceYears float64         `json:"experience_years"`
	Skills          []SkillDTO      `json:"skills"`
	CareerGoals     []CareerGoalDTO `json:"career_goals"`
	HasActivePlan   bool            `json:"has_active_plan"`
}

type MemoryDTO struct {
	Id         uuid.UUID `json:"id"`
	Content    string    `json:"content"`
	MemoryType string    `json:"memory_type"`
	Importance float64   `json:"importance"`
	Tags       []string  `json:"tags"`
	CreatedAt  time.Time `json:"created_at"`
}

type MemorySummaryDTO struct {
	TotalMemories       int64            `json:"total_memories"`
	ByType              map[string]int64 `json:"by_type"`
	HighImportanceCount int64            `json:"high_importance_count"`
	RecentFeedbackCount int64            `json:"recent_feedback_count"`
	OldestMemory        *time.Time       `json:"oldest_memory"`
	NewestMemory        *time.Time       `json:"newest_memory"`
}

type MemoryInsightsResponse struct {
	Summary           MemorySummaryDTO `json:"summary"`
	ImportantMemories []MemoryDTO      `json:"important_memories"`
	RecentMemories    []MemoryDTO      `json:"recent_memories"`
}
