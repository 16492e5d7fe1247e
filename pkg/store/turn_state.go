package store

import (
	"encoding/json"
	"time"
)

// Stage is a node of the per-turn state machine.
type Stage string

const (
	StageLoadContext      Stage = "load_context"
	StageUnderstandIntent Stage = "understand_intent"
	StageExecuteAction    Stage = "execute_action"
	StageGenerateResponse Stage = "generate_response"
	StageSaveMemory       Stage = "save_memory"
	StageEnd              Stage = "end"
)

// IntentUnclassified is the intent before understand_intent has run.
const IntentUnclassified = "unclassified"

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Skill struct {
	Name     string     `json:"name"`
	Level    string     `json:"level,omitempty"`
	LastUsed *time.Time `json:"last_used,omitempty"`
}

type CareerGoal struct {
	Title      string     `json:"title"`
	Status     string     `json:"status,omitempty"`
	TargetDate *time.Time `json:"target_date,omitempty"`
}

// ProfileSnapshot is the profile as read at the start of a turn.
type ProfileSnapshot struct {
	Skills          []Skill      `json:"skills"`
	TargetRole      string       `json:"target_role"`
	CareerGoals     []CareerGoal `json:"career_goals"`
	ExperienceYears float64      `json:"experience_years"`
}

func (p ProfileSnapshot) SkillNames() []string {
	names := make([]string, len(p.Skills))
	for i, s := range p.Skills {
		names[i] = s.Name
	}
	return names
}

type ApplicationSummary struct {
	Company     string    `json:"company"`
	Position    string    `json:"position"`
	Status      string    `json:"status"`
	AppliedDate time.Time `json:"applied_date"`
	Feedback    string    `json:"feedback,omitempty"`
}

type RetrievedMemory struct {
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	Score     float64   `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// ProjectIdea is one roadmap entry.
type ProjectIdea struct {
	Name           string             `json:"name"`
	Description    string             `json:"description"`
	Skills         []string           `json:"skills"`
	EstimatedHours int                `json:"estimated_hours"`
	Resources      []LearningResource `json:"resources,omitempty"`
	Fallback       bool               `json:"fallback,omitempty"`
}

type LearningResource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Type  string `json:"type"`
}

type MarketAnalysis struct {
	Role                 string   `json:"role"`
	Location             string   `json:"location,omitempty"`
	DemandLevel          string   `json:"demand_level"`
	AvgSalaryRange       string   `json:"avg_salary_range"`
	TopSkills            []string `json:"top_skills_2025"`
	TrendingTechnologies []string `json:"trending_technologies"`
	Advice               string   `json:"advice"`
	Fallback             bool     `json:"fallback,omitempty"`
}

// ActionResult is the payload produced by execute_action. Only the fields of
// the executed action are set.
type ActionResult struct {
	Type           string          `json:"type,omitempty"`
	TargetRole     string          `json:"target_role,omitempty"`
	SkillGaps      []string        `json:"skill_gaps,omitempty"`
	ProjectIdeas   []ProjectIdea   `json:"project_ideas,omitempty"`
	MarketAnalysis *MarketAnalysis `json:"market_analysis,omitempty"`
}

func (r *ActionResult) IsEmpty() bool {
	return r == nil || r.Type == ""
}

func (r *ActionResult) JSON() string {
	if r.IsEmpty() {
		return "{}"
	}
	raw, err := json.Marshal(r)
	if err != nil {
		return "{}"
	}
	return string(raw)
}

// TurnState is threaded through every stage of one turn. Messages only grow.
type TurnState struct {
	UserID             string               `json:"user_id"`
	Messages           []Message            `json:"messages"`
	Profile            ProfileSnapshot      `json:"profile"`
	RecentApplications []ApplicationSummary `json:"recent_applications"`
	RetrievedMemories  []RetrievedMemory    `json:"retrieved_memories"`

	Intent         string        `json:"intent"`
	RequiresAction bool          `json:"requires_action"`
	ActionType     string        `json:"action_type,omitempty"`
	ActionResult   *ActionResult `json:"action_result,omitempty"`
	Reasoning      string        `json:"reasoning,omitempty"`

	ResponseText string   `json:"response_text"`
	Suggestions  []string `json:"suggestions"`
	ActionItems  []string `json:"action_items"`

	Iteration int       `json:"iteration"`
	Stage     Stage     `json:"stage"`
	StartedAt time.Time `json:"started_at"`
}

func NewTurnState(userID string, history []Message, message string) *TurnState {
	messages := make([]Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, Message{Role: "user", Content: message})

	return &TurnState{
		UserID:    userID,
		Messages:  messages,
		Intent:    IntentUnclassified,
		Stage:     StageLoadContext,
		StartedAt: time.Now(),
	}
}

// LatestUserMessage returns the content of the most recent user message.
func (s *TurnState) LatestUserMessage() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == "user" {
			return s.Messages[i].Content
		}
	}
	return ""
}
