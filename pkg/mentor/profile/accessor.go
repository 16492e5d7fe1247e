// Package profile reads and updates the career profile a turn works from.
package profile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"career-mentor-be/internal/entity"
	"career-mentor-be/internal/pkg/logger"
	"career-mentor-be/internal/repository/contract"
	"career-mentor-be/pkg/apperror"
	"career-mentor-be/pkg/store"

	"github.com/google/uuid"
)

const (
	moduleName          = "ProfileAccessor"
	goalStatusCompleted = "completed"
)

type Accessor struct {
	profiles     contract.UserProfileRepository
	applications contract.ApplicationRepository
	logger       logger.ILogger
}

func NewAccessor(profiles contract.UserProfileRepository, applications contract.ApplicationRepository, log logger.ILogger) *Accessor {
	return &Accessor{profiles: profiles, applications: applications, logger: log}
}

// ReadProfile returns the user's profile, creating an empty one on first read.
func (a *Accessor) ReadProfile(ctx context.Context, userID string) (*store.ProfileSnapshot, error) {
	p, err := a.ensure(ctx, userID, "profile.read")
	if err != nil {
		return nil, err
	}
	return toSnapshot(p), nil
}

// ApplySkillUpdates replaces the skill list. Concurrent writers are not
// merged: the last write wins. Duplicate names keep the later entry.
func (a *Accessor) ApplySkillUpdates(ctx context.Context, userID string, skills []store.Skill) error {
	if strings.TrimSpace(userID) == "" {
		return apperror.InvalidInput("profile.apply_skills", "user id is required")
	}

	records := make([]entity.Skill, 0, len(skills))
	index := make(map[string]int, len(skills))
	for _, s := range skills {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return apperror.InvalidInput("profile.apply_skills", "skill name is empty")
		}
		rec := entity.Skill{Name: name, Level: s.Level, LastUsed: s.LastUsed}
		key := strings.ToLower(name)
		if i, ok := index[key]; ok {
			records[i] = rec
			continue
		}
		index[key] = len(records)
		records = append(records, rec)
	}

	if _, err := a.ensure(ctx, userID, "profile.apply_skills"); err != nil {
		return err
	}
	if err := a.profiles.UpdateSkills(ctx, userID, records); err != nil {
		return apperror.StoreUnavailable("profile.apply_skills", err)
	}

	a.logger.Info(moduleName, "Skills updated", map[string]interface{}{
		"user_id": userID,
		"count":   len(records),
	})
	return nil
}

type ProfileUpdate struct {
	TargetRole      string
	CareerGoals     []store.CareerGoal
	ExperienceYears float64
}

// UpdateProfile overwrites target role, goals and experience. Skills are
// left alone; they change through ApplySkillUpdates.
func (a *Accessor) UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (*store.ProfileSnapshot, error) {
	if in.ExperienceYears < 0 {
		return nil, apperror.InvalidInput("profile.update", "experience years must not be negative")
	}

	goals := make([]entity.CareerGoal, 0, len(in.CareerGoals))
	for _, g := range in.CareerGoals {
		title := strings.TrimSpace(g.Title)
		if title == "" {
			return nil, apperror.InvalidInput("profile.update", "career goal title is empty")
		}
		goals = append(goals, entity.CareerGoal{Title: title, Status: strings.TrimSpace(g.Status), TargetDate: g.TargetDate})
	}

	p, err := a.ensure(ctx, userID, "profile.update")
	if err != nil {
		return nil, err
	}
	p.TargetRole = strings.TrimSpace(in.TargetRole)
	p.CareerGoals = goals
	p.ExperienceYears = in.ExperienceYears
	if err := a.profiles.Update(ctx, p); err != nil {
		return nil, apperror.StoreUnavailable("profile.update", err)
	}

	a.logger.Info(moduleName, "Profile updated", map[string]interface{}{
		"user_id":     userID,
		"target_role": p.TargetRole,
		"goals":       len(goals),
	})
	return toSnapshot(p), nil
}

type ApplicationInput struct {
	Company     string
	Position    string
	Status      string
	Feedback    string
	AppliedDate *time.Time
}

// LogApplication records one job application. AppliedDate defaults to now.
func (a *Accessor) LogApplication(ctx context.Context, userID string, in ApplicationInput) (*entity.Application, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperror.InvalidInput("profile.log_application", "user id is required")
	}
	company, position := strings.TrimSpace(in.Company), strings.TrimSpace(in.Position)
	if company == "" || position == "" {
		return nil, apperror.InvalidInput("profile.log_application", "company and position are required")
	}
	status := strings.ToLower(strings.TrimSpace(in.Status))
	if status == "" {
		return nil, apperror.InvalidInput("profile.log_application", "status is required")
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate application id: %w", err)
	}
	now := time.Now().UTC()
	applied := now
	if in.AppliedDate != nil {
		applied = in.AppliedDate.UTC()
	}

	app := &entity.Application{
		Id:          id,
		UserId:      userID,
		Company:     company,
		Position:    position,
		Status:      status,
		AppliedDate: applied,
		Feedback:    strings.TrimSpace(in.Feedback),
		CreatedAt:   now,
	}
	if err := a.applications.Create(ctx, app); err != nil {
		return nil, apperror.StoreUnavailable("profile.log_application", err)
	}

	a.logger.Info(moduleName, "Application logged", map[string]interface{}{
		"user_id": userID,
		"company": company,
		"status":  status,
	})
	return app, nil
}

// RecentApplications returns up to limit applications, newest first.
func (a *Accessor) RecentApplications(ctx context.Context, userID string, limit int) ([]store.ApplicationSummary, error) {
	apps, err := a.applications.FindRecent(ctx, userID, limit)
	if err != nil {
		return nil, apperror.StoreUnavailable("profile.recent_applications", err)
	}

	out := make([]store.ApplicationSummary, 0, len(apps))
	for _, app := range apps {
		out = append(out, store.ApplicationSummary{
			Company:     app.Company,
			Position:    app.Position,
			Status:      app.Status,
			AppliedDate: app.AppliedDate,
			Feedback:    app.Feedback,
		})
	}
	return out, nil
}

// HasActivePlan reports whether any career goal is still open.
func HasActivePlan(p store.ProfileSnapshot) bool {
	for _, g := range p.CareerGoals {
		if !strings.EqualFold(strings.TrimSpace(g.Status), goalStatusCompleted) {
			return true
		}
	}
	return false
}

func (a *Accessor) ensure(ctx context.Context, userID, op string) (*entity.UserProfile, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperror.InvalidInput(op, "user id is required")
	}

	p, err := a.profiles.FindByUserId(ctx, userID)
	if err != nil {
		return nil, apperror.StoreUnavailable(op, err)
	}
	if p != nil {
		return p, nil
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate profile id: %w", err)
	}
	p, err = a.profiles.CreateIfAbsent(ctx, &entity.UserProfile{
		Id:          id,
		UserId:      userID,
		Skills:      []entity.Skill{},
		CareerGoals: []entity.CareerGoal{},
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return nil, apperror.StoreUnavailable(op, err)
	}

	a.logger.Info(moduleName, "Profile created on first read", map[string]interface{}{
		"user_id": userID,
	})
	return p, nil
}

func toSnapshot(p *entity.UserProfile) *store.ProfileSnapshot {
	snap := &store.ProfileSnapshot{
		Skills:          make([]store.Skill, 0, len(p.Skills)),
		TargetRole:      p.TargetRole,
		CareerGoals:     make([]store.CareerGoal, 0, len(p.CareerGoals)),
		ExperienceYears: p.ExperienceYears,
	}
	for _, s := range p.Skills {
		snap.Skills = append(snap.Skills, store.Skill{Name: s.Name, Level: s.Level, LastUsed: s.LastUsed})
	}
	for _, g := range p.CareerGoals {
		snap.CareerGoals = append(snap.CareerGoals, store.CareerGoal{Title: g.Title, Status: g.Status, TargetDate: g.TargetDate})
	}
	return snap
}
