package action

import (
	"fmt"
	"net/url"
	"strings"

	"career-mentor-be/pkg/store"
)

var curatedResources = map[string][]store.LearningResource{
	"react": {
		{Type: "docs", Title: "React Official Docs", URL: "https://react.dev"},
		{Type: "course", Title: "Frontend Masters React", URL: "https://frontendmasters.com"},
		{Type: "practice", Title: "React Challenges", URL: "https://github.com/topics/react-challenges"},
	},
	"python": {
		{Type: "docs", Title: "Python.org Tutorial", URL: "https://docs.python.org/3/tutorial/"},
		{Type: "practice", Title: "LeetCode Python", URL: "https://leetcode.com"},
		{Type: "book", Title: "Fluent Python", URL: "https://www.oreilly.com"},
	},
	"system design": {
		{Type: "course", Title: "System Design Primer", URL: "https://github.com/donnemartin/system-design-primer"},
		{Type: "book", Title: "Designing Data-Intensive Applications", URL: "https://dataintensive.net"},
		{Type: "practice", Title: "System Design Interview", URL: "https://www.designgurus.io"},
	},
}

// LearningResources returns curated material for a skill, or a web search
// link when nothing is curated.
func LearningResources(skill string) []store.LearningResource {
	if res, ok := curatedResources[strings.ToLower(strings.TrimSpace(skill))]; ok {
		return append([]store.LearningResource{}, res...)
	}
	return []store.LearningResource{{
		Type:  "search",
		Title: fmt.Sprintf("Search '%s tutorial'", skill),
		URL:   "https://www.google.com/search?q=" + url.QueryEscape(skill+" tutorial"),
	}}
}
