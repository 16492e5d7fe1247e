package intent

import (
	"context"
	"testing"

	"career-mentor-be/internal/pkg/logger"
	"career-mentor-be/pkg/llm/llmtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classifyWith(t *testing.T, response string) *Result {
	t.Helper()
	provider := llmtest.NewScriptedProvider()
	provider.Default = response
	c := NewClassifier(provider, logger.NewNopLogger())
	return c.Classify(context.Background(), Input{Message: "hi", TargetRole: "backend developer"})
}

func TestClassify_ValidOutput(t *testing.T) {
	res := classifyWith(t, "```json\n{\"intent\":\"skill_assessment\",\"requires_action\":true,\"action_type\":\"skill_assessment\",\"reasoning\":\"asks about gaps\"}\n```")

	assert.Equal(t, IntentSkillAssessment, res.Intent)
	assert.True(t, res.RequiresAction)
	assert.Equal(t, ActionSkillAssessment, res.ActionType)
	assert.False(t, res.Fallback)
}

func TestClassify_NullActionType(t *testing.T) {
	res := classifyWith(t, `{"intent":"general_advice","requires_action":false,"action_type":null}`)

	assert.Equal(t, IntentGeneralAdvice, res.Intent)
	assert.Empty(t, res.ActionType)
	assert.False(t, res.Fallback)
}

func TestClassify_UnknownActionTypeIsKept(t *testing.T) {
	res := classifyWith(t, `{"intent":"other","requires_action":true,"action_type":"teleport"}`)

	assert.Equal(t, "teleport", res.ActionType)
	assert.False(t, res.Fallback)
}

func TestClassify_FallsBackOnBadOutput(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"not json", "I think the user wants a roadmap"},
		{"broken json", `{"intent": "job_search", "requires_action": tru`},
		{"unknown intent", `{"intent":"world_domination","requires_action":false}`},
		{"missing intent", `{"requires_action":true}`},
		{"missing requires_action", `{"intent":"job_search"}`},
		{"requires_action not boolean", `{"intent":"job_search","requires_action":"yes"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := classifyWith(t, tt.response)
			assert.Equal(t, IntentGeneralAdvice, res.Intent)
			assert.False(t, res.RequiresAction)
			assert.Empty(t, res.ActionType)
			assert.True(t, res.Fallback)
		})
	}
}

func TestClassify_FallsBackOnProviderError(t *testing.T) {
	c := NewClassifier(llmtest.FailingProvider{}, logger.NewNopLogger())
	res := c.Classify(context.Background(), Input{Message: "hello"})

	require.NotNil(t, res)
	assert.Equal(t, IntentGeneralAdvice, res.Intent)
	assert.False(t, res.RequiresAction)
	assert.True(t, res.Fallback)
}

func TestBuildPrompt_IncludesContext(t *testing.T) {
	c := NewClassifier(llmtest.NewScriptedProvider(), logger.NewNopLogger())

	withRole := c.buildPrompt(Input{Message: "find me jobs", TargetRole: "ml engineer", HasActivePlan: true})
	assert.Contains(t, withRole, "TARGET_ROLE: ml engineer")
	assert.Contains(t, withRole, "HAS_ACTIVE_PLAN: true")
	assert.Contains(t, withRole, "find me jobs")

	noRole := c.buildPrompt(Input{Message: "x"})
	assert.Contains(t, noRole, "TARGET_ROLE: Not set")
}
