package action

import (
	"context"
	"fmt"

	"career-mentor-be/pkg/store"
)

// MarketAnalyzer reports demand and trends for a role.
type MarketAnalyzer interface {
	AnalyzeMarket(ctx context.Context, role, location string) (*store.MarketAnalysis, error)
}

// StaticMarketAnalyzer serves a fixed snapshot for every role.
type StaticMarketAnalyzer struct{}

func NewStaticMarketAnalyzer() *StaticMarketAnalyzer {
	return &StaticMarketAnalyzer{}
}

func (StaticMarketAnalyzer) AnalyzeMarket(_ context.Context, role, location string) (*store.MarketAnalysis, error) {
	return &store.MarketAnalysis{
		Role:           role,
		Location:       location,
		DemandLevel:    "high",
		AvgSalaryRange: "$80k - $150k",
		TopSkills: []string{
			"AI/ML integration",
			"Cloud platforms (AWS/Azure)",
			"System design",
			"Performance optimization",
		},
		TrendingTechnologies: []string{
			"LangChain/LangGraph",
			"Vector databases",
			"Real-time systems",
		},
		Advice: fmt.Sprintf("Strong demand for %s roles. Focus on hands-on projects and system design.", role),
	}, nil
}

func fallbackMarketAnalysis(role, location string) *store.MarketAnalysis {
	return &store.MarketAnalysis{
		Role:                 role,
		Location:             location,
		DemandLevel:          "unknown",
		AvgSalaryRange:       "unknown",
		TopSkills:            []string{},
		TrendingTechnologies: []string{},
		Advice:               "Market data is unavailable right now. Focus on hands-on projects for your target role.",
		Fallback:             true,
	}
}
