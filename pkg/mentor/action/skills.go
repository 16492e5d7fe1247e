package action

import (
	"slices"
	"sort"
	"strings"
	"unicode"
)

// DefaultTargetRole is assumed when the profile has no target role.
const DefaultTargetRole = "software engineer"

// roleRequirements is the reference skill list per role. Keys are lower case.
var roleRequirements = map[string][]string{
	"software engineer": {
		"data structures", "algorithms", "system design", "git",
		"testing", "ci/cd", "cloud platforms",
	},
	"frontend developer": {
		"react", "typescript", "html/css", "responsive design",
		"state management", "testing", "performance optimization",
	},
	"backend developer": {
		"rest api", "databases", "authentication", "caching",
		"microservices", "docker", "kubernetes",
	},
	"fullstack developer": {
		"react", "node.js", "databases", "rest api",
		"docker", "ci/cd", "system design",
	},
	"data scientist": {
		"python", "pandas", "scikit-learn", "sql",
		"statistics", "ml algorithms", "data visualization",
	},
	"ml engineer": {
		"python", "tensorflow/pytorch", "mlops", "docker",
		"model deployment", "distributed training", "monitoring",
	},
	"devops engineer": {
		"kubernetes", "docker", "ci/cd", "infrastructure as code",
		"monitoring", "cloud platforms", "scripting",
	},
}

// roleKeysByLength orders keys longest first so fuzzy lookup prefers the most
// specific role, then alphabetically for a stable result.
var roleKeysByLength = func() []string {
	keys := make([]string, 0, len(roleRequirements))
	for k := range roleRequirements {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

// RequiredSkills resolves a role to its reference list: exact match first,
// then a key contained in the role (or the role in a key). Unknown roles get
// an empty list.
func RequiredSkills(role string) []string {
	normalized := strings.ToLower(strings.TrimSpace(role))
	if normalized == "" {
		return nil
	}

	if skills, ok := roleRequirements[normalized]; ok {
		return skills
	}

	for _, key := range roleKeysByLength {
		if strings.Contains(normalized, key) || strings.Contains(key, normalized) {
			return roleRequirements[key]
		}
	}
	return nil
}

// SkillGaps lists required skills of role not covered by current, in the
// reference order. A current skill covers a required one when the required
// name appears in it as a whole run of tokens, case-insensitively: "REST API
// design" covers "rest api", while "Go" does not cover "algorithms".
func SkillGaps(current []string, role string) []string {
	required := RequiredSkills(role)
	if len(required) == 0 {
		return []string{}
	}

	have := make([][]string, 0, len(current))
	for _, s := range current {
		if tokens := skillTokens(s); len(tokens) > 0 {
			have = append(have, tokens)
		}
	}

	gaps := make([]string, 0, len(required))
	for _, req := range required {
		if !covered(skillTokens(req), have) {
			gaps = append(gaps, req)
		}
	}
	return gaps
}

// skillTokens lower-cases a skill name and splits it on anything that is not
// a letter, digit, '+' or '#', so "C++" and "C#" stay distinct from "C".
func skillTokens(skill string) []string {
	return strings.FieldsFunc(strings.ToLower(skill), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
	})
}

func covered(required []string, have [][]string) bool {
	if len(required) == 0 {
		return true
	}
	for _, h := range have {
		if containsRun(h, required) {
			return true
		}
	}
	return false
}

func containsRun(tokens, run []string) bool {
	for i := 0; i+len(run) <= len(tokens); i++ {
		if slices.Equal(tokens[i:i+len(run)], run) {
			return true
		}
	}
	return false
}
