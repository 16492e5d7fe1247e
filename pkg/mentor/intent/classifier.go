package intent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"career-mentor-be/internal/pkg/logger"
	"career-mentor-be/pkg/llm"
	"career-mentor-be/pkg/utils"
)

const moduleName = "IntentClassifier"

const (
	IntentSkillAssessment = "skill_assessment"
	IntentRoadmapRequest  = "roadmap_request"
	IntentJobSearch       = "job_search"
	IntentApplicationHelp = "application_help"
	IntentMilestoneUpdate = "milestone_update"
	IntentGeneralAdvice   = "general_advice"
	IntentOther           = "other"
)

// Action types the executor knows how to run.
const (
	ActionSkillAssessment   = "skill_assessment"
	ActionRoadmapGeneration = "roadmap_generation"
	ActionJobSearch         = "job_search"
)

var validIntents = map[string]bool{
	IntentSkillAssessment: true,
	IntentRoadmapRequest:  true,
	IntentJobSearch:       true,
	IntentApplicationHelp: true,
	IntentMilestoneUpdate: true,
	IntentGeneralAdvice:   true,
	IntentOther:           true,
}

type Input struct {
	Message       string
	TargetRole    string
	HasActivePlan bool
}

type Result struct {
	Intent         string `json:"intent"`
	RequiresAction bool   `json:"requires_action"`
	ActionType     string `json:"action_type,omitempty"`
	Reasoning      string `json:"reasoning,omitempty"`
	// Fallback is set when the model output could not be used.
	Fallback bool `json:"-"`
}

// rawResult keeps pointers so missing keys can be told apart from zero values.
type rawResult struct {
	Intent         *string `json:"intent"`
	RequiresAction *bool   `json:"requires_action"`
	ActionType     *string `json:"action_type"`
	Reasoning      string  `json:"reasoning"`
}

type Classifier struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewClassifier(llmProvider llm.LLMProvider, log logger.ILogger) *Classifier {
	return &Classifier{llmProvider: llmProvider, logger: log}
}

// Classify never fails: any provider or parse problem yields general_advice
// without an action.
func (c *Classifier) Classify(ctx context.Context, in Input) *Result {
	prompt := c.buildPrompt(in)

	response, err := c.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		c.logger.Warn(moduleName, "Intent classification failed, using fallback", map[string]interface{}{
			"error":     err.Error(),
			"timeout":   llm.IsTimeout(err),
			"malformed": llm.IsMalformed(err),
		})
		return fallback(fmt.Sprintf("provider error: %v", err))
	}

	result, err := parseResult(response)
	if err != nil {
		c.logger.Warn(moduleName, "Intent parsing failed, using fallback", map[string]interface{}{
			"error":    err.Error(),
			"response": utils.Truncate(response, 200),
		})
		return fallback(fmt.Sprintf("malformed output: %v", err))
	}

	c.logger.Info(moduleName, "Intent classified", map[string]interface{}{
		"intent":          result.Intent,
		"requires_action": result.RequiresAction,
		"action_type":     result.ActionType,
	})
	return result
}

func (c *Classifier) buildPrompt(in Input) string {
	var prompt strings.Builder

	prompt.WriteString("<system>\n")
	prompt.WriteString("You classify messages sent to a career mentor assistant.\n")
	prompt.WriteString("You do NOT answer the message. You only classify it.\n")
	prompt.WriteString("</system>\n\n")

	prompt.WriteString("<user_context>\n")
	targetRole := in.TargetRole
	if targetRole == "" {
		targetRole = "Not set"
	}
	prompt.WriteString(fmt.Sprintf("TARGET_ROLE: %s\n", targetRole))
	prompt.WriteString(fmt.Sprintf("HAS_ACTIVE_PLAN: %t\n", in.HasActivePlan))
	prompt.WriteString("</user_context>\n\n")

	prompt.WriteString("<user_message>\n")
	prompt.WriteString(in.Message)
	prompt.WriteString("\n</user_message>\n\n")

	prompt.WriteString("<intent_definitions>\n")
	prompt.WriteString("skill_assessment: user wants to know where their skills stand or what they are missing\n")
	prompt.WriteString("roadmap_request: user wants a learning plan, projects or next steps toward a role\n")
	prompt.WriteString("job_search: user asks about openings, the job market, salaries or demand\n")
	prompt.WriteString("application_help: user wants help with a resume, cover letter or interview\n")
	prompt.WriteString("milestone_update: user reports progress on a goal or project\n")
	prompt.WriteString("general_advice: any other career question\n")
	prompt.WriteString("other: not career related\n")
	prompt.WriteString("</intent_definitions>\n\n")

	prompt.WriteString("<actions>\n")
	prompt.WriteString("Set requires_action to true only when one of these helps answer:\n")
	prompt.WriteString("  skill_assessment: compute skill gaps for the target role\n")
	prompt.WriteString("  roadmap_generation: propose projects for the biggest skill gaps\n")
	prompt.WriteString("  job_search: fetch a market analysis for the target role\n")
	prompt.WriteString("</actions>\n\n")

	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Respond with ONLY valid JSON:\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"intent\": \"skill_assessment|roadmap_request|job_search|application_help|milestone_update|general_advice|other\",\n")
	prompt.WriteString("  \"requires_action\": true,\n")
	prompt.WriteString("  \"action_type\": \"skill_assessment|roadmap_generation|job_search|null\",\n")
	prompt.WriteString("  \"reasoning\": \"Brief explanation\"\n")
	prompt.WriteString("}\n")
	prompt.WriteString("</output_format>")

	return prompt.String()
}

func parseResult(response string) (*Result, error) {
	jsonContent := utils.ExtractJSONObject(response)
	if jsonContent == "" {
		return nil, errors.New("no JSON found in response")
	}

	var raw rawResult
	if err := json.Unmarshal([]byte(jsonContent), &raw); err != nil {
		return nil, fmt.Errorf("JSON unmarshal failed: %w", err)
	}

	if raw.Intent == nil {
		return nil, errors.New("missing intent")
	}
	intent := strings.ToLower(strings.TrimSpace(*raw.Intent))
	if !validIntents[intent] {
		return nil, fmt.Errorf("unknown intent %q", *raw.Intent)
	}
	if raw.RequiresAction == nil {
		return nil, errors.New("missing requires_action")
	}

	result := &Result{
		Intent:         intent,
		RequiresAction: *raw.RequiresAction,
		Reasoning:      raw.Reasoning,
	}
	if raw.ActionType != nil {
		actionType := strings.ToLower(strings.TrimSpace(*raw.ActionType))
		if actionType != "null" && actionType != "none" {
			result.ActionType = actionType
		}
	}
	return result, nil
}

func fallback(reason string) *Result {
	return &Result{
		Intent:         IntentGeneralAdvice,
		RequiresAction: false,
		Reasoning:      "Fallback: " + reason,
		Fallback:       true,
	}
}
