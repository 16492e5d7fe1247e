package service

import (
	"context"
	"fmt"

	"career-mentor-be/internal/dto"
	"career-mentor-be/internal/entity"
	"career-mentor-be/internal/pkg/serverutils"
	"career-mentor-be/pkg/apperror"
	"career-mentor-be/pkg/memory"
	"career-mentor-be/pkg/mentor/pipeline"
	"career-mentor-be/pkg/mentor/profile"
	"career-mentor-be/pkg/store"
)

const (
	statusRejected     = "rejected"
	rejectedImportance = 0.9
	outcomeImportance  = 0.6
)

type IMentorService interface {
	Chat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error)
	GetProfile(ctx context.Context, userId string) (*dto.ProfileResponse, error)
	UpdateSkills(ctx context.Context, userId string, request *dto.UpdateSkillsRequest) error
	UpdateProfile(ctx context.Context, userId string, request *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
	LogApplication(ctx context.Context, userId string, request *dto.LogApplicationRequest) (*dto.ApplicationResponse, error)
	GetMemoryInsights(ctx context.Context, userId string) (*dto.MemoryInsightsResponse, error)
}

type TurnRunner interface {
	RunTurn(ctx context.Context, userID, message string, tc *pipeline.TurnContext) (*pipeline.TurnResult, error)
}

type MemoryStore interface {
	Add(ctx context.Context, in memory.AddInput) (*entity.Memory, error)
	Consolidate(ctx context.Context, userID string) (*memory.Summary, error)
	Important(ctx context.Context, userID string, minImportance float64, limit int) ([]*entity.Memory, error)
	Recent(ctx context.Context, userID string, days, limit int) ([]*entity.Memory, error)
}

type ProfileStore interface {
	ReadProfile(ctx context.Context, userID string) (*store.ProfileSnapshot, error)
	ApplySkillUpdates(ctx context.Context, userID string, skills []store.Skill) error
	UpdateProfile(ctx context.Context, userID string, in profile.ProfileUpdate) (*store.ProfileSnapshot, error)
	LogApplication(ctx context.Context, userID string, in profile.ApplicationInput) (*entity.Application, error)
}

type InsightsConfig struct {
	MinImportance float64
	RecentDays    int
	Limit         int
}

type mentorService struct {
	turns    TurnRunner
	memories MemoryStore
	profiles ProfileStore
	insights InsightsConfig
}

func NewMentorService(turns TurnRunner, memories MemoryStore, profiles ProfileStore, insights InsightsConfig) IMentorService {
	if insights.RecentDays <= 0 {
		insights.RecentDays = 7
	}
	if insights.Limit <= 0 {
		insights.Limit = 10
	}
	return &mentorService{
		turns:    turns,
		memories: memories,
		profiles: profiles,
		insights: insights,
	}
}

func (s *mentorService) Chat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error) {
	if err := serverutils.ValidateRequest(request); err != nil {
		return nil, err
	}

	tc := &pipeline.TurnContext{History: make([]store.Message, 0, len(request.History))}
	for _, m := range request.History {
		tc.History = append(tc.History, store.Message{Role: m.Role, Content: m.Content})
	}

	res, err := s.turns.RunTurn(ctx, request.UserId, request.Message, tc)
	if err != nil {
		return nil, err
	}

	return &dto.ChatResponse{
		Response:    res.ResponseText,
		Suggestions: nonNil(res.Suggestions),
		ActionItems: nonNil(res.ActionItems),
		Metadata: dto.ChatMetadataDTO{
			Intent:      res.Metadata.Intent,
			ActionTaken: res.Metadata.ActionTaken,
			ActionType:  res.Metadata.ActionType,
			Iteration:   res.Metadata.Iteration,
		},
	}, nil
}

func (s *mentorService) GetProfile(ctx context.Context, userId string) (*dto.ProfileResponse, error) {
	snap, err := s.profiles.ReadProfile(ctx, userId)
	if err != nil {
		return nil, err
	}
	return toProfileResponse(userId, snap), nil
}

func (s *mentorService) UpdateSkills(ctx context.Context, userId string, request *dto.UpdateSkillsRequest) error {
	if err := serverutils.ValidateRequest(request); err != nil {
		return err
	}

	skills := make([]store.Skill, 0, len(request.Skills))
	for _, sk := range request.Skills {
		skills = append(skills, store.Skill{Name: sk.Name, Level: sk.Level, LastUsed: sk.LastUsed})
	}
	return s.profiles.ApplySkillUpdates(ctx, userId, skills)
}

func (s *mentorService) UpdateProfile(ctx context.Context, userId string, request *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	if err := serverutils.ValidateRequest(request); err != nil {
		return nil, err
	}

	update := profile.ProfileUpdate{
		TargetRole:      request.TargetRole,
		CareerGoals:     make([]store.CareerGoal, 0, len(request.CareerGoals)),
		ExperienceYears: request.ExperienceYears,
	}
	for _, g := range request.CareerGoals {
		update.CareerGoals = append(update.CareerGoals, store.CareerGoal{Title: g.Title, Status: g.Status, TargetDate: g.TargetDate})
	}

	snap, err := s.profiles.UpdateProfile(ctx, userId, update)
	if err != nil {
		return nil, err
	}
	return toProfileResponse(userId, snap), nil
}

// LogApplication stores the application and remembers its outcome as a
// feedback memory. Rejections weigh more so later advice learns from them.
func (s *mentorService) LogApplication(ctx context.Context, userId string, request *dto.LogApplicationRequest) (*dto.ApplicationResponse, error) {
	if err := serverutils.ValidateRequest(request); err != nil {
		return nil, err
	}

	app, err := s.profiles.LogApplication(ctx, userId, profile.ApplicationInput{
		Company:     request.Company,
		Position:    request.Position,
		Status:      request.Status,
		Feedback:    request.Feedback,
		AppliedDate: request.AppliedDate,
	})
	if err != nil {
		return nil, err
	}

	feedback := app.Feedback
	if feedback == "" {
		feedback = "None"
	}
	importance := outcomeImportance
	if app.Status == statusRejected {
		importance = rejectedImportance
	}
	mem, err := s.memories.Add(ctx, memory.AddInput{
		UserID:     userId,
		Content:    fmt.Sprintf("Application to %s for %s: %s. Feedback: %s", app.Company, app.Position, app.Status, feedback),
		MemoryType: entity.MemoryTypeFeedback,
		Importance: importance,
		Tags:       []string{"application", app.Status},
		Metadata:   map[string]interface{}{"application_id": app.Id.String()},
	})
	if err != nil {
		return nil, err
	}

	return &dto.ApplicationResponse{
		Id:          app.Id,
		Company:     app.Company,
		Position:    app.Position,
		Status:      app.Status,
		AppliedDate: app.AppliedDate,
		MemoryId:    mem.Id,
	}, nil
}

func (s *mentorService) GetMemoryInsights(ctx context.Context, userId string) (*dto.MemoryInsightsResponse, error) {
	if userId == "" {
		return nil, apperror.InvalidInput("memory_insights", "user id is required")
	}

	summary, err := s.memories.Consolidate(ctx, userId)
	if err != nil {
		return nil, err
	}
	important, err := s.memories.Important(ctx, userId, s.insights.MinImportance, s.insights.Limit)
	if err != nil {
		return nil, err
	}
	recent, err := s.memories.Recent(ctx, userId, s.insights.RecentDays, s.insights.Limit)
	if err != nil {
		return nil, err
	}

	res := &dto.MemoryInsightsResponse{
		Summary: dto.MemorySummaryDTO{
			TotalMemories:       summary.TotalMemories,
			ByType:              make(map[string]int64, len(summary.ByType)),
			HighImportanceCount: summary.HighImportanceCount,
			RecentFeedbackCount: summary.RecentFeedbackCount,
			OldestMemory:        summary.OldestMemory,
			NewestMemory:        summary.NewestMemory,
		},
		ImportantMemories: toMemoryDTOs(important),
		RecentMemories:    toMemoryDTOs(recent),
	}
	for t, n := range summary.ByType {
		res.Summary.ByType[string(t)] = n
	}
	return res, nil
}

func toProfileResponse(userId string, snap *store.ProfileSnapshot) *dto.ProfileResponse {
	res := &dto.ProfileResponse{
		UserId:          userId,
		TargetRole:      snap.TargetRole,
		ExperienceYears: snap.ExperienceYears,
		Skills:          make([]dto.SkillDTO, 0, len(snap.Skills)),
		CareerGoals:     make([]dto.CareerGoalDTO, 0, len(snap.CareerGoals)),
		HasActivePlan:   profile.HasActivePlan(*snap),
	}
	for _, sk := range snap.Skills {
		res.Skills = append(res.Skills, dto.SkillDTO{Name: sk.Name, Level: sk.Level, LastUsed: sk.LastUsed})
	}
	for _, g := range snap.CareerGoals {
		res.CareerGoals = append(res.CareerGoals, dto.CareerGoalDTO{Title: g.Title, Status: g.Status, TargetDate: g.TargetDate})
	}
	return res
}

func toMemoryDTOs(entries []*entity.Memory) []dto.MemoryDTO {
	out := make([]dto.MemoryDTO, 0, len(entries))
	for _, m := range entries {
		out = append(out, dto.MemoryDTO{
			Id:         m.Id,
			Content:    m.Content,
			MemoryType: string(m.MemoryType),
			Importance: m.Importance,
			Tags:       nonNil(m.Tags),
			CreatedAt:  m.CreatedAt,
		})
	}
	return out
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
