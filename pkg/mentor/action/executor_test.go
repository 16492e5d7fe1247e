package action

import (
	"context"
	"errors"
	"testing"

	"career-mentor-be/internal/pkg/logger"
	"career-mentor-be/pkg/llm"
	"career-mentor-be/pkg/llm/llmtest"
	"career-mentor-be/pkg/mentor/intent"
	"career-mentor-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func profile(role string, skills ...string) store.ProfileSnapshot {
	p := store.ProfileSnapshot{TargetRole: role, ExperienceYears: 2}
	for _, s := range skills {
		p.Skills = append(p.Skills, store.Skill{Name: s})
	}
	return p
}

func TestSkillGaps(t *testing.T) {
	tests := []struct {
		name    string
		current []string
		role    string
		want    []string
	}{
		{
			name:    "python vs backend developer",
			current: []string{"python"},
			role:    "backend developer",
			want:    []string{"rest api", "databases", "authentication", "caching", "microservices", "docker", "kubernetes"},
		},
		{
			name:    "case insensitive",
			current: []string{"Python", "SQL"},
			role:    "Data Scientist",
			want:    []string{"pandas", "scikit-learn", "statistics", "ml algorithms", "data visualization"},
		},
		{
			name:    "longer skill name covers",
			current: []string{"Docker Compose", "kubernetes (CKA)", "REST API design"},
			role:    "backend developer",
			want:    []string{"databases", "authentication", "caching", "microservices"},
		},
		{
			name:    "shorter skill name does not cover",
			current: []string{"REST", "auth"},
			role:    "backend developer",
			want:    []string{"rest api", "databases", "authentication", "caching", "microservices", "docker", "kubernetes"},
		},
		{
			name:    "go is not part of algorithms",
			current: []string{"Go"},
			role:    "software engineer",
			want:    []string{"data structures", "algorithms", "system design", "git", "testing", "ci/cd", "cloud platforms"},
		},
		{
			name:    "r is not part of scikit-learn",
			current: []string{"R"},
			role:    "data scientist",
			want:    []string{"python", "pandas", "scikit-learn", "sql", "statistics", "ml algorithms", "data visualization"},
		},
		{
			name:    "c is not part of ci/cd",
			current: []string{"C", "C++"},
			role:    "devops engineer",
			want:    []string{"kubernetes", "docker", "ci/cd", "infrastructure as code", "monitoring", "cloud platforms", "scripting"},
		},
		{
			name:    "punctuation variants match",
			current: []string{"CI/CD pipelines", "Git"},
			role:    "software engineer",
			want:    []string{"data structures", "algorithms", "system design", "testing", "cloud platforms"},
		},
		{
			name:    "fuzzy role key",
			current: []string{"react"},
			role:    "Senior Frontend Developer",
			want:    []string{"typescript", "html/css", "responsive design", "state management", "testing", "performance optimization"},
		},
		{
			name:    "unknown role",
			current: []string{"python"},
			role:    "astronaut",
			want:    []string{},
		},
		{
			name:    "blank skills ignored",
			current: []string{"", "  "},
			role:    "devops engineer",
			want:    []string{"kubernetes", "docker", "ci/cd", "infrastructure as code", "monitoring", "cloud platforms", "scripting"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SkillGaps(tt.current, tt.role))
		})
	}
}

func TestSkillGaps_CaseOfCurrentSkillDoesNotMatter(t *testing.T) {
	upper := SkillGaps([]string{"Python"}, "data scientist")
	lower := SkillGaps([]string{"python"}, "data scientist")
	assert.Equal(t, lower, upper)
}

func TestRequiredSkills_FuzzyPrefersLongestKey(t *testing.T) {
	assert.Equal(t, roleRequirements["software engineer"], RequiredSkills("software engineer"))
	assert.Equal(t, roleRequirements["ml engineer"], RequiredSkills("Staff ML Engineer"))
	assert.Nil(t, RequiredSkills(""))
}

func TestExecute_SkillAssessmentDefaultsRole(t *testing.T) {
	e := NewExecutor(llmtest.NewScriptedProvider(), nil, logger.NewNopLogger())

	res := e.Execute(context.Background(), Input{
		ActionType: intent.ActionSkillAssessment,
		Profile:    profile("", "git", "testing"),
	})

	assert.Equal(t, DefaultTargetRole, res.TargetRole)
	assert.Equal(t, []string{"data structures", "algorithms", "system design", "ci/cd", "cloud platforms"}, res.SkillGaps)
}

func TestExecute_RoadmapTopThreeGapsWithPerGapFallback(t *testing.T) {
	provider := llmtest.NewScriptedProvider().
		On(`"rest api"`, `{"name":"Bookstore API","description":"Build a REST API for a bookstore.","skills":["rest api"],"estimated_hours":15}`).
		On(`"databases"`, `this is not json`).
		FailOn(`"authentication"`, errors.New("timeout"))

	e := NewExecutor(provider, nil, logger.NewNopLogger())
	res := e.Execute(context.Background(), Input{
		ActionType: intent.ActionRoadmapGeneration,
		Profile:    profile("backend developer", "python"),
	})

	require.Len(t, res.ProjectIdeas, 3)
	assert.Len(t, provider.Prompts(), 3)

	assert.Equal(t, "Bookstore API", res.ProjectIdeas[0].Name)
	assert.False(t, res.ProjectIdeas[0].Fallback)
	assert.Equal(t, 15, res.ProjectIdeas[0].EstimatedHours)

	assert.Equal(t, FallbackProject("databases").Name, res.ProjectIdeas[1].Name)
	assert.True(t, res.ProjectIdeas[1].Fallback)
	assert.Equal(t, "Practical authentication Project", res.ProjectIdeas[2].Name)
	assert.Equal(t, "Build a real-world application using authentication", res.ProjectIdeas[2].Description)
	assert.Equal(t, 20, res.ProjectIdeas[2].EstimatedHours)

	for _, p := range res.ProjectIdeas {
		assert.NotEmpty(t, p.Resources)
	}
}

func TestExecute_RoadmapWithNoGapsIsEmpty(t *testing.T) {
	e := NewExecutor(llmtest.NewScriptedProvider(), nil, logger.NewNopLogger())
	res := e.Execute(context.Background(), Input{
		ActionType: intent.ActionRoadmapGeneration,
		Profile:    profile("astronaut"),
	})

	assert.Equal(t, intent.ActionRoadmapGeneration, res.Type)
	assert.Empty(t, res.ProjectIdeas)
}

type failingMarket struct{}

func (failingMarket) AnalyzeMarket(context.Context, string, string) (*store.MarketAnalysis, error) {
	return nil, errors.New("api down")
}

func TestExecute_JobSearch(t *testing.T) {
	e := NewExecutor(llmtest.NewScriptedProvider(), nil, logger.NewNopLogger())
	res := e.Execute(context.Background(), Input{ActionType: intent.ActionJobSearch, Profile: profile("ml engineer")})

	require.NotNil(t, res.MarketAnalysis)
	assert.Equal(t, "high", res.MarketAnalysis.DemandLevel)
	assert.Equal(t, "$80k - $150k", res.MarketAnalysis.AvgSalaryRange)
	assert.Equal(t, "Strong demand for ml engineer roles. Focus on hands-on projects and system design.", res.MarketAnalysis.Advice)

	degraded := NewExecutor(llmtest.NewScriptedProvider(), failingMarket{}, logger.NewNopLogger()).
		Execute(context.Background(), Input{ActionType: intent.ActionJobSearch, Profile: profile("ml engineer")})
	require.NotNil(t, degraded.MarketAnalysis)
	assert.True(t, degraded.MarketAnalysis.Fallback)
}

type recordingMarket struct {
	locations []string
}

func (m *recordingMarket) AnalyzeMarket(_ context.Context, role, location string) (*store.MarketAnalysis, error) {
	m.locations = append(m.locations, location)
	return &store.MarketAnalysis{Role: role, Location: location}, nil
}

func TestExecute_JobSearchLocation(t *testing.T) {
	market := &recordingMarket{}
	e := NewExecutor(llmtest.NewScriptedProvider(), market, logger.NewNopLogger())

	res := e.Execute(context.Background(), Input{ActionType: intent.ActionJobSearch, Profile: profile("ml engineer")})
	assert.Equal(t, DefaultLocation, res.MarketAnalysis.Location)

	e.Execute(context.Background(), Input{ActionType: intent.ActionJobSearch, Profile: profile("ml engineer"), Location: " Berlin "})
	assert.Equal(t, []string{"Remote", "Berlin"}, market.locations)

	degraded := NewExecutor(llmtest.NewScriptedProvider(), failingMarket{}, logger.NewNopLogger()).
		Execute(context.Background(), Input{ActionType: intent.ActionJobSearch, Profile: profile("ml engineer")})
	assert.Equal(t, DefaultLocation, degraded.MarketAnalysis.Location)
}

func TestExecute_UnknownActionIsNoop(t *testing.T) {
	e := NewExecutor(llmtest.NewScriptedProvider(), nil, logger.NewNopLogger())

	for _, actionType := range []string{"", "teleport"} {
		res := e.Execute(context.Background(), Input{ActionType: actionType, Profile: profile("ml engineer")})
		require.NotNil(t, res)
		assert.True(t, res.IsEmpty())
	}
}

func TestLearningResources(t *testing.T) {
	assert.Len(t, LearningResources("React"), 3)

	fallback := LearningResources("rust")
	require.Len(t, fallback, 1)
	assert.Equal(t, "search", fallback[0].Type)
	assert.Equal(t, "https://www.google.com/search?q=rust+tutorial", fallback[0].URL)
}

func TestParseProjectIdea_ArrayTakesFirst(t *testing.T) {
	idea, err := parseProjectIdea(`[{"name":"A","description":"first"},{"name":"B","description":"second"}]`, "go")
	require.NoError(t, err)
	assert.Equal(t, "A", idea.Name)
	assert.Equal(t, []string{"go"}, idea.Skills)
	assert.Equal(t, 20, idea.EstimatedHours)
}

func TestGenerateProjectIdea_ErrorKinds(t *testing.T) {
	garbled := llmtest.NewScriptedProvider()
	garbled.Default = "I would suggest building a CLI tool."
	_, err := generateProjectIdea(context.Background(), garbled, "go", "backend engineer", difficultyBeginner)
	require.Error(t, err)
	assert.True(t, llm.IsMalformed(err))
	assert.False(t, llm.IsTimeout(err))

	_, err = generateProjectIdea(context.Background(), llmtest.FailingProvider{}, "go", "backend engineer", difficultyBeginner)
	require.Error(t, err)
	assert.False(t, llm.IsMalformed(err))
}
