package action

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"career-mentor-be/pkg/llm"
	"career-mentor-be/pkg/store"
	"career-mentor-be/pkg/utils"
)

const (
	maxRoadmapGaps         = 3
	fallbackProjectHours   = 20
	difficultyBeginner     = "beginner"
	difficultyIntermediate = "intermediate"
	difficultyAdvanced     = "advanced"
)

type projectIdeaJSON struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Skills         []string `json:"skills"`
	EstimatedHours int      `json:"estimated_hours"`
}

func difficultyFor(experienceYears float64) string {
	switch {
	case experienceYears < 1:
		return difficultyBeginner
	case experienceYears >= 5:
		return difficultyAdvanced
	default:
		return difficultyIntermediate
	}
}

func projectPrompt(skill, targetRole, difficulty string) string {
	var prompt strings.Builder
	prompt.WriteString("<task>\n")
	prompt.WriteString(fmt.Sprintf("Suggest ONE practical project that teaches %q to someone aiming to become a %s.\n", skill, targetRole))
	prompt.WriteString(fmt.Sprintf("Difficulty: %s\n", difficulty))
	prompt.WriteString("</task>\n\n")
	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Respond with ONLY valid JSON:\n")
	prompt.WriteString("{\"name\": \"...\", \"description\": \"2-3 sentences\", \"skills\": [\"...\"], \"estimated_hours\": 20}\n")
	prompt.WriteString("</output_format>")
	return prompt.String()
}

// parseProjectIdea accepts a single object or an array (first element used).
func parseProjectIdea(response, skill string) (*store.ProjectIdea, error) {
	idea, err := decodeProjectIdea(response)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(idea.Name) == "" || strings.TrimSpace(idea.Description) == "" {
		return nil, errors.New("project idea missing name or description")
	}
	if len(idea.Skills) == 0 {
		idea.Skills = []string{skill}
	}
	if idea.EstimatedHours <= 0 {
		idea.EstimatedHours = fallbackProjectHours
	}

	return &store.ProjectIdea{
		Name:           idea.Name,
		Description:    idea.Description,
		Skills:         idea.Skills,
		EstimatedHours: idea.EstimatedHours,
	}, nil
}

func decodeProjectIdea(response string) (projectIdeaJSON, error) {
	var idea projectIdeaJSON
	if obj := utils.ExtractJSONObject(response); obj != "" {
		if err := json.Unmarshal([]byte(obj), &idea); err == nil {
			return idea, nil
		}
	}

	arr := utils.ExtractJSONArray(response)
	if arr == "" {
		return idea, errors.New("no JSON found in response")
	}
	var ideas []projectIdeaJSON
	if err := json.Unmarshal([]byte(arr), &ideas); err != nil {
		return idea, fmt.Errorf("JSON unmarshal failed: %w", err)
	}
	if len(ideas) == 0 {
		return idea, errors.New("empty project list")
	}
	return ideas[0], nil
}

// FallbackProject is the deterministic idea used when generation fails for a skill.
func FallbackProject(skill string) store.ProjectIdea {
	return store.ProjectIdea{
		Name:           fmt.Sprintf("Practical %s Project", skill),
		Description:    fmt.Sprintf("Build a real-world application using %s", skill),
		Skills:         []string{skill},
		EstimatedHours: fallbackProjectHours,
		Fallback:       true,
	}
}

func generateProjectIdea(ctx context.Context, provider llm.LLMProvider, skill, targetRole, difficulty string) (*store.ProjectIdea, error) {
	response, err := provider.Generate(ctx, projectPrompt(skill, targetRole, difficulty), llm.WithTemperature(0.7))
	if err != nil {
		return nil, err
	}
	idea, err := parseProjectIdea(response, skill)
	if err != nil {
		return nil, llm.NewProviderError("project_idea", llm.KindMalformed, err)
	}
	return idea, nil
}
