// Package llmtest provides LLMProvider doubles for tests.
package llmtest

import (
	"context"
	"errors"
	"strings"
	"sync"

	"career-mentor-be/pkg/llm"
)

// ErrUnreachable is what FailingProvider returns.
var ErrUnreachable = llm.NewProviderError("fake", llm.KindUnavailable, errors.New("connection refused"))

// ScriptedProvider answers each prompt with the first rule whose marker is
// contained in the prompt, or Default when none match.
type ScriptedProvider struct {
	mu      sync.Mutex
	rules   []rule
	Default string
	prompts []string
}

type rule struct {
	marker   string
	response string
	err      error
}

func NewScriptedProvider() *ScriptedProvider {
	return &ScriptedProvider{}
}

func (p *ScriptedProvider) On(marker, response string) *ScriptedProvider {
	p.rules = append(p.rules, rule{marker: marker, response: response})
	return p
}

func (p *ScriptedProvider) FailOn(marker string, err error) *ScriptedProvider {
	p.rules = append(p.rules, rule{marker: marker, err: err})
	return p
}

func (p *ScriptedProvider) Prompts() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string{}, p.prompts...)
}

func (p *ScriptedProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	var sb strings.Builder
	for _, m := range history {
		sb.WriteString(m.Content)
		sb.WriteString("\n")
	}
	return p.Generate(ctx, sb.String(), opts...)
}

func (p *ScriptedProvider) Generate(_ context.Context, prompt string, _ ...llm.Option) (string, error) {
	p.mu.Lock()
	p.prompts = append(p.prompts, prompt)
	p.mu.Unlock()

	for _, r := range p.rules {
		if strings.Contains(prompt, r.marker) {
			return r.response, r.err
		}
	}
	return p.Default, nil
}

// FailingProvider always errors, like an unreachable backend.
type FailingProvider struct {
	Err error
}

func (p FailingProvider) Chat(context.Context, []llm.Message, ...llm.Option) (string, error) {
	return "", p.err()
}

func (p FailingProvider) Generate(context.Context, string, ...llm.Option) (string, error) {
	return "", p.err()
}

func (p FailingProvider) err() error {
	if p.Err != nil {
		return p.Err
	}
	return ErrUnreachable
}
