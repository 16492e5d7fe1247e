// Package response turns the accumulated turn state into the reply the user
// sees, plus rule-based suggestions and action items.
package response

import (
	"context"
	"fmt"
	"strings"

	"career-mentor-be/internal/pkg/logger"
	"career-mentor-be/pkg/llm"
	"career-mentor-be/pkg/mentor/intent"
	"career-mentor-be/pkg/store"
)

const (
	moduleName = "ResponseSynthesizer"
	maxItems   = 3
	notSet     = "Not set"
)

type Reply struct {
	Text        string
	Suggestions []string
	ActionItems []string
}

type Synthesizer struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewSynthesizer(llmProvider llm.LLMProvider, log logger.ILogger) *Synthesizer {
	return &Synthesizer{llmProvider: llmProvider, logger: log}
}

// Synthesize always returns a non-empty Text. Suggestions and action items
// only depend on structured state, never on the generated wording.
func (s *Synthesizer) Synthesize(ctx context.Context, state *store.TurnState) *Reply {
	reply := &Reply{
		Suggestions: Suggestions(state),
		ActionItems: ActionItems(state),
	}

	text, err := s.llmProvider.Generate(ctx, buildPrompt(state), llm.WithTemperature(0.7))
	switch {
	case err != nil:
		s.logger.Warn(moduleName, "Response generation failed, using fallback", map[string]interface{}{
			"error":     err.Error(),
			"timeout":   llm.IsTimeout(err),
			"malformed": llm.IsMalformed(err),
			"user_id":   state.UserID,
		})
		text = fallbackText(state)
	case strings.TrimSpace(text) == "":
		s.logger.Warn(moduleName, "Response generation returned blank output, using fallback", map[string]interface{}{
			"user_id": state.UserID,
		})
		text = fallbackText(state)
	}

	reply.Text = strings.TrimSpace(text)
	return reply
}

func buildPrompt(state *store.TurnState) string {
	var prompt strings.Builder

	prompt.WriteString("<system>\n")
	prompt.WriteString("You are an expert AI career mentor. Generate a helpful, personalized response.\n")
	prompt.WriteString("</system>\n\n")

	prompt.WriteString("<context>\n")
	prompt.WriteString(fmt.Sprintf("User message: %s\n", state.LatestUserMessage()))
	prompt.WriteString(fmt.Sprintf("Detected intent: %s\n", state.Intent))
	prompt.WriteString(fmt.Sprintf("Target role: %s\n", targetRole(state)))
	prompt.WriteString(fmt.Sprintf("Current skills: %d skills tracked\n", len(state.Profile.Skills)))
	if n := len(state.RetrievedMemories); n > 0 {
		prompt.WriteString(fmt.Sprintf("Recent relevant context: %d memories\n", n))
	}
	if n := len(state.RecentApplications); n > 0 {
		prompt.WriteString(fmt.Sprintf("Recent job applications: %d\n", n))
	}
	if !state.ActionResult.IsEmpty() {
		prompt.WriteString(fmt.Sprintf("Action results: %s\n", state.ActionResult.JSON()))
	}
	prompt.WriteString("</context>\n\n")

	prompt.WriteString("<instructions>\n")
	prompt.WriteString("- Be encouraging and actionable\n")
	prompt.WriteString("- Reference specific skills and gaps when relevant\n")
	prompt.WriteString("- Suggest concrete next steps\n")
	prompt.WriteString("- Be concise but thorough (3-5 paragraphs max)\n")
	prompt.WriteString("- Use a warm, professional tone\n")
	prompt.WriteString("</instructions>\n\n")
	prompt.WriteString("Generate your response:")

	return prompt.String()
}

// fallbackText is built from the same state the prompt uses so the reply
// still says something specific when generation is down.
func fallbackText(state *store.TurnState) string {
	var b strings.Builder
	b.WriteString("I couldn't put together a full answer right now, but here is where things stand.")

	role := targetRole(state)
	if role != notSet {
		b.WriteString(fmt.Sprintf(" You are working toward %s with %d skills tracked.", role, len(state.Profile.Skills)))
	}

	res := state.ActionResult
	if !res.IsEmpty() {
		if len(res.SkillGaps) > 0 {
			b.WriteString(fmt.Sprintf(" Skills to focus on next: %s.", strings.Join(firstN(res.SkillGaps, maxItems), ", ")))
		}
		if len(res.ProjectIdeas) > 0 {
			b.WriteString(fmt.Sprintf(" A good first project: %s.", res.ProjectIdeas[0].Name))
		}
		if res.MarketAnalysis != nil && res.MarketAnalysis.Advice != "" {
			b.WriteString(" " + res.MarketAnalysis.Advice)
		}
	}

	b.WriteString(" Ask me again in a moment for a more detailed answer.")
	return b.String()
}

// Suggestions derives up to three suggestions from the action type and gaps.
func Suggestions(state *store.TurnState) []string {
	suggestions := []string{}
	res := state.ActionResult

	if actionType(state) == intent.ActionRoadmapGeneration {
		suggestions = append(suggestions,
			"Review your personalized learning roadmap",
			"Start with the first milestone project",
		)
	}
	if !res.IsEmpty() && len(res.SkillGaps) > 0 {
		suggestions = append(suggestions, "Focus on learning: "+strings.Join(firstN(res.SkillGaps, maxItems), ", "))
	}

	return firstN(suggestions, maxItems)
}

// ActionItems derives up to three concrete next steps from the action result.
func ActionItems(state *store.TurnState) []string {
	items := []string{}
	res := state.ActionResult

	switch actionType(state) {
	case intent.ActionJobSearch:
		items = append(items,
			"Review recommended job postings",
			"Update resume with recent projects",
		)
	case intent.ActionSkillAssessment:
		if !res.IsEmpty() && len(res.SkillGaps) > 0 {
			items = append(items, fmt.Sprintf("Add %s to your learning plan", res.SkillGaps[0]))
		}
	case intent.ActionRoadmapGeneration:
		if !res.IsEmpty() && len(res.ProjectIdeas) > 0 {
			items = append(items, "Start project: "+res.ProjectIdeas[0].Name)
		}
	}

	return firstN(items, maxItems)
}

// actionType prefers the executed result's type over the classifier's tag.
func actionType(state *store.TurnState) string {
	if !state.ActionResult.IsEmpty() {
		return state.ActionResult.Type
	}
	return state.ActionType
}

func targetRole(state *store.TurnState) string {
	if res := state.ActionResult; !res.IsEmpty() && res.TargetRole != "" {
		return res.TargetRole
	}
	if role := strings.TrimSpace(state.Profile.TargetRole); role != "" {
		return role
	}
	return notSet
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
