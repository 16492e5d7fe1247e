// Package action runs the domain actions a turn may require: skill gap
// assessment, roadmap generation and job market lookups.
package action

import (
	"context"
	"strings"

	"career-mentor-be/internal/pkg/logger"
	"career-mentor-be/pkg/llm"
	"career-mentor-be/pkg/mentor/intent"
	"career-mentor-be/pkg/store"
)

const (
	moduleName = "ActionExecutor"

	// DefaultLocation is used for market lookups when none is given.
	DefaultLocation = "Remote"
)

type Input struct {
	ActionType string
	Profile    store.ProfileSnapshot
	Location   string
}

type Executor struct {
	llmProvider llm.LLMProvider
	market      MarketAnalyzer
	logger      logger.ILogger
}

func NewExecutor(llmProvider llm.LLMProvider, market MarketAnalyzer, log logger.ILogger) *Executor {
	if market == nil {
		market = NewStaticMarketAnalyzer()
	}
	return &Executor{llmProvider: llmProvider, market: market, logger: log}
}

// Execute dispatches on the action type. Unknown or empty types produce an
// empty result and no error; collaborator failures are absorbed into
// fallback payloads.
func (e *Executor) Execute(ctx context.Context, in Input) *store.ActionResult {
	targetRole := strings.TrimSpace(in.Profile.TargetRole)
	if targetRole == "" {
		targetRole = DefaultTargetRole
	}

	switch in.ActionType {
	case intent.ActionSkillAssessment:
		gaps := SkillGaps(in.Profile.SkillNames(), targetRole)
		e.logger.Info(moduleName, "Skill assessment done", map[string]interface{}{
			"target_role": targetRole,
			"gaps":        len(gaps),
		})
		return &store.ActionResult{
			Type:       in.ActionType,
			TargetRole: targetRole,
			SkillGaps:  gaps,
		}

	case intent.ActionRoadmapGeneration:
		gaps := SkillGaps(in.Profile.SkillNames(), targetRole)
		projects := e.roadmap(ctx, gaps, targetRole, difficultyFor(in.Profile.ExperienceYears))
		return &store.ActionResult{
			Type:         in.ActionType,
			TargetRole:   targetRole,
			SkillGaps:    gaps,
			ProjectIdeas: projects,
		}

	case intent.ActionJobSearch:
		location := strings.TrimSpace(in.Location)
		if location == "" {
			location = DefaultLocation
		}
		analysis, err := e.market.AnalyzeMarket(ctx, targetRole, location)
		if err != nil || analysis == nil {
			e.logger.Warn(moduleName, "Market analysis failed, using fallback", map[string]interface{}{
				"target_role": targetRole,
				"location":    location,
				"error":       errString(err),
			})
			analysis = fallbackMarketAnalysis(targetRole, location)
		}
		return &store.ActionResult{
			Type:           in.ActionType,
			TargetRole:     targetRole,
			MarketAnalysis: analysis,
		}

	default:
		if in.ActionType != "" {
			e.logger.Warn(moduleName, "Unknown action type, skipping", map[string]interface{}{
				"action_type": in.ActionType,
			})
		}
		return &store.ActionResult{}
	}
}

// roadmap asks for one project per gap, for the first maxRoadmapGaps gaps.
// A gap whose generation fails gets FallbackProject instead.
func (e *Executor) roadmap(ctx context.Context, gaps []string, targetRole, difficulty string) []store.ProjectIdea {
	if len(gaps) > maxRoadmapGaps {
		gaps = gaps[:maxRoadmapGaps]
	}

	projects := make([]store.ProjectIdea, 0, len(gaps))
	for _, gap := range gaps {
		idea, err := generateProjectIdea(ctx, e.llmProvider, gap, targetRole, difficulty)
		if err != nil {
			e.logger.Warn(moduleName, "Project idea generation failed, using fallback", map[string]interface{}{
				"skill":     gap,
				"error":     err.Error(),
				"timeout":   llm.IsTimeout(err),
				"malformed": llm.IsMalformed(err),
			})
			fb := FallbackProject(gap)
			idea = &fb
		}
		idea.Resources = LearningResources(gap)
		projects = append(projects, *idea)
	}
	return projects
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
