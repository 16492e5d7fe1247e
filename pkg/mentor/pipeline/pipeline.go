// Package pipeline runs one mentor turn as an explicit state machine:
//
//	load_context -> understand_intent -> {execute_action | skip} -> generate_response -> save_memory -> end
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"career-mentor-be/internal/entity"
	"career-mentor-be/internal/pkg/logger"
	"career-mentor-be/pkg/apperror"
	"career-mentor-be/pkg/events"
	"career-mentor-be/pkg/memory"
	"career-mentor-be/pkg/mentor/action"
	"career-mentor-be/pkg/mentor/intent"
	"career-mentor-be/pkg/mentor/profile"
	"career-mentor-be/pkg/mentor/response"
	"career-mentor-be/pkg/store"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	moduleName = "Pipeline"
	tracerName = "career-mentor/pipeline"
)

type ProfileReader interface {
	ReadProfile(ctx context.Context, userID string) (*store.ProfileSnapshot, error)
	RecentApplications(ctx context.Context, userID string, limit int) ([]store.ApplicationSummary, error)
}

type MemoryStore interface {
	Add(ctx context.Context, in memory.AddInput) (*entity.Memory, error)
	RetrieveRelevant(ctx context.Context, userID, query string, topK int, opts ...memory.RetrieveOption) ([]memory.ScoredMemory, error)
}

// Checkpointer persists turn state keyed by thread id (the user id). Load
// returns nil, nil when nothing is stored.
type Checkpointer interface {
	Save(ctx context.Context, threadID string, state *store.TurnState) error
	Load(ctx context.Context, threadID string) (*store.TurnState, error)
}

type Config struct {
	TopK                  int
	RecentApplications    int
	UserMessageImportance float64
	AgentReplyImportance  float64
	ActionImportance      float64
	// MarketLocation scopes job market lookups; empty means action.DefaultLocation.
	MarketLocation        string
}

func DefaultConfig() Config {
	return Config{
		TopK:                  5,
		RecentApplications:    3,
		UserMessageImportance: 0.5,
		AgentReplyImportance:  0.3,
		ActionImportance:      0.8,
	}
}

type Dependencies struct {
	Profiles    ProfileReader
	Memory      MemoryStore
	Classifier  *intent.Classifier
	Executor    *action.Executor
	Synthesizer *response.Synthesizer
	// Optional.
	Checkpointer Checkpointer
	Publisher    events.Publisher
	Logger       logger.ILogger
}

type Pipeline struct {
	deps   Dependencies
	cfg    Config
	tracer trace.Tracer
	now    func() time.Time
}

func New(deps Dependencies, cfg Config) *Pipeline {
	if deps.Publisher == nil {
		deps.Publisher = events.NopPublisher{}
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNopLogger()
	}
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultConfig().TopK
	}
	if cfg.RecentApplications <= 0 {
		cfg.RecentApplications = DefaultConfig().RecentApplications
	}
	return &Pipeline{
		deps:   deps,
		cfg:    cfg,
		tracer: otel.Tracer(tracerName),
		now:    time.Now,
	}
}

// TurnContext carries optional prior turns, oldest first.
type TurnContext struct {
	History []store.Message
}

type Metadata struct {
	Intent      string `json:"intent"`
	ActionTaken bool   `json:"action_taken"`
	ActionType  string `json:"action_type,omitempty"`
	Iteration   int    `json:"iteration"`
}

type TurnResult struct {
	ResponseText string   `json:"response_text"`
	Suggestions  []string `json:"suggestions"`
	ActionItems  []string `json:"action_items"`
	Metadata     Metadata `json:"metadata"`
}

// ShouldExecuteAction is the branch predicate after understand_intent.
func ShouldExecuteAction(state *store.TurnState) bool {
	return state.RequiresAction && state.ActionType != ""
}

// turn is the mutable bookkeeping of one RunTurn call.
type turn struct {
	state           *store.TurnState
	memoriesWritten int
	memoryFailures  int
}

// RunTurn processes one user message. Provider failures are absorbed into
// fallbacks; only invalid input and an unreachable store fail the turn.
func (p *Pipeline) RunTurn(ctx context.Context, userID, message string, tc *TurnContext) (*TurnResult, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperror.InvalidInput("run_turn", "user id is required")
	}
	if strings.TrimSpace(message) == "" {
		return nil, apperror.InvalidInput("run_turn", "message is empty")
	}

	var history []store.Message
	if tc != nil {
		history = tc.History
	}

	t := &turn{state: store.NewTurnState(userID, history, message)}
	t.state.StartedAt = p.now()
	t.state.Iteration = p.previousIteration(ctx, userID)

	for t.state.Stage != store.StageEnd {
		next, err := p.step(ctx, t)
		if err != nil {
			p.deps.Logger.Error(moduleName, "Turn aborted", map[string]interface{}{
				"user_id": userID,
				"stage":   t.state.Stage,
				"error":   err.Error(),
			})
			return nil, err
		}
		t.state.Stage = next
		p.checkpoint(ctx, t.state)
	}

	p.publishCompleted(ctx, t)

	state := t.state
	result := &TurnResult{
		ResponseText: state.ResponseText,
		Suggestions:  state.Suggestions,
		ActionItems:  state.ActionItems,
		Metadata: Metadata{
			Intent:      state.Intent,
			ActionTaken: !state.ActionResult.IsEmpty(),
			Iteration:   state.Iteration,
		},
	}
	if result.Metadata.ActionTaken {
		result.Metadata.ActionType = state.ActionResult.Type
	}

	p.deps.Logger.Info(moduleName, "Turn completed", map[string]interface{}{
		"user_id":          userID,
		"intent":           state.Intent,
		"action_type":      result.Metadata.ActionType,
		"iteration":        state.Iteration,
		"memories_written": t.memoriesWritten,
		"memory_failures":  t.memoryFailures,
		"duration_ms":      p.now().Sub(state.StartedAt).Milliseconds(),
	})
	return result, nil
}

// step runs the current stage inside its own span and returns the next one.
func (p *Pipeline) step(ctx context.Context, t *turn) (store.Stage, error) {
	stage := t.state.Stage
	ctx, span := p.tracer.Start(ctx, string(stage), trace.WithAttributes(
		attribute.String("mentor.user_id", t.state.UserID),
	))
	defer span.End()

	next, err := p.runStage(ctx, t)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return stage, err
	}
	span.SetAttributes(attribute.String("mentor.next_stage", string(next)))
	return next, nil
}

func (p *Pipeline) runStage(ctx context.Context, t *turn) (store.Stage, error) {
	switch t.state.Stage {
	case store.StageLoadContext:
		if err := p.loadContext(ctx, t.state); err != nil {
			return "", err
		}
		return store.StageUnderstandIntent, nil

	case store.StageUnderstandIntent:
		p.understandIntent(ctx, t.state)
		if ShouldExecuteAction(t.state) {
			return store.StageExecuteAction, nil
		}
		return store.StageGenerateResponse, nil

	case store.StageExecuteAction:
		p.executeAction(ctx, t.state)
		return store.StageGenerateResponse, nil

	case store.StageGenerateResponse:
		p.generateResponse(ctx, t.state)
		return store.StageSaveMemory, nil

	case store.StageSaveMemory:
		p.saveMemory(ctx, t)
		return store.StageEnd, nil

	default:
		return "", fmt.Errorf("unknown stage %q", t.state.Stage)
	}
}

// loadContext reads the profile, relevant memories and recent applications
// concurrently. Profile and memory failures abort the turn.
func (p *Pipeline) loadContext(ctx context.Context, state *store.TurnState) error {
	var (
		snapshot *store.ProfileSnapshot
		scored   []memory.ScoredMemory
		apps     []store.ApplicationSummary
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snapshot, err = p.deps.Profiles.ReadProfile(gctx, state.UserID)
		return err
	})
	g.Go(func() error {
		var err error
		scored, err = p.deps.Memory.RetrieveRelevant(gctx, state.UserID, state.LatestUserMessage(), p.cfg.TopK)
		return err
	})
	g.Go(func() error {
		var err error
		apps, err = p.deps.Profiles.RecentApplications(gctx, state.UserID, p.cfg.RecentApplications)
		if err != nil {
			p.deps.Logger.Warn(moduleName, "Recent applications unavailable", map[string]interface{}{
				"user_id": state.UserID,
				"error":   err.Error(),
			})
			apps = nil
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load context: %w", err)
	}

	if snapshot != nil {
		state.Profile = *snapshot
	}
	state.RecentApplications = apps
	state.RetrievedMemories = make([]store.RetrievedMemory, 0, len(scored))
	for _, sm := range scored {
		state.RetrievedMemories = append(state.RetrievedMemories, store.RetrievedMemory{
			Content:   sm.Memory.Content,
			Type:      string(sm.Memory.MemoryType),
			Score:     sm.Score,
			CreatedAt: sm.Memory.CreatedAt,
		})
	}
	state.Iteration++

	p.deps.Logger.Debug(moduleName, "Context loaded", map[string]interface{}{
		"user_id":      state.UserID,
		"skills":       len(state.Profile.Skills),
		"memories":     len(state.RetrievedMemories),
		"applications": len(state.RecentApplications),
		"iteration":    state.Iteration,
	})
	return nil
}

func (p *Pipeline) understandIntent(ctx context.Context, state *store.TurnState) {
	res := p.deps.Classifier.Classify(ctx, intent.Input{
		Message:       state.LatestUserMessage(),
		TargetRole:    state.Profile.TargetRole,
		HasActivePlan: profile.HasActivePlan(state.Profile),
	})
	state.Intent = res.Intent
	state.RequiresAction = res.RequiresAction
	state.ActionType = res.ActionType
	state.Reasoning = res.Reasoning
}

func (p *Pipeline) executeAction(ctx context.Context, state *store.TurnState) {
	state.ActionResult = p.deps.Executor.Execute(ctx, action.Input{
		ActionType: state.ActionType,
		Profile:    state.Profile,
		Location:   p.cfg.MarketLocation,
	})
}

func (p *Pipeline) generateResponse(ctx context.Context, state *store.TurnState) {
	reply := p.deps.Synthesizer.Synthesize(ctx, state)
	state.ResponseText = reply.Text
	state.Suggestions = reply.Suggestions
	state.ActionItems = reply.ActionItems
	state.Messages = append(state.Messages, store.Message{Role: "assistant", Content: reply.Text})
}

// saveMemory always runs. Failed writes are logged and counted, the reply
// already produced stands.
func (p *Pipeline) saveMemory(ctx context.Context, t *turn) {
	state := t.state
	writes := []memory.AddInput{
		{
			UserID:     state.UserID,
			Content:    "User: " + state.LatestUserMessage(),
			MemoryType: entity.MemoryTypeEpisodic,
			Importance: p.cfg.UserMessageImportance,
			Metadata:   map[string]interface{}{"intent": state.Intent},
		},
		{
			UserID:     state.UserID,
			Content:    "Agent: " + state.ResponseText,
			MemoryType: entity.MemoryTypeEpisodic,
			Importance: p.cfg.AgentReplyImportance,
		},
	}

	if res := state.ActionResult; !res.IsEmpty() {
		writes = append(writes, memory.AddInput{
			UserID:     state.UserID,
			Content:    fmt.Sprintf("Action taken: %s - %s", res.Type, res.JSON()),
			MemoryType: entity.MemoryTypeSemantic,
			Importance: p.cfg.ActionImportance,
			Tags:       []string{res.Type},
		})
	}

	for _, in := range writes {
		if _, err := p.deps.Memory.Add(ctx, in); err != nil {
			t.memoryFailures++
			p.deps.Logger.Error(moduleName, "Memory write failed", map[string]interface{}{
				"user_id": state.UserID,
				"type":    in.MemoryType,
				"error":   err.Error(),
			})
			continue
		}
		t.memoriesWritten++
	}
}

func (p *Pipeline) previousIteration(ctx context.Context, userID string) int {
	if p.deps.Checkpointer == nil {
		return 0
	}
	prev, err := p.deps.Checkpointer.Load(ctx, userID)
	if err != nil {
		p.deps.Logger.Warn(moduleName, "Checkpoint load failed, starting fresh", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return 0
	}
	if prev == nil {
		return 0
	}
	return prev.Iteration
}

func (p *Pipeline) checkpoint(ctx context.Context, state *store.TurnState) {
	if p.deps.Checkpointer == nil {
		return
	}
	if err := p.deps.Checkpointer.Save(ctx, state.UserID, state); err != nil {
		p.deps.Logger.Warn(moduleName, "Checkpoint save failed", map[string]interface{}{
			"user_id": state.UserID,
			"stage":   state.Stage,
			"error":   err.Error(),
		})
	}
}

func (p *Pipeline) publishCompleted(ctx context.Context, t *turn) {
	actionType := ""
	if !t.state.ActionResult.IsEmpty() {
		actionType = t.state.ActionResult.Type
	}
	evt := events.TurnCompleted(t.state.UserID, t.state.Intent, actionType, t.state.Iteration, t.memoriesWritten, p.now())
	if err := p.deps.Publisher.Publish(ctx, evt); err != nil {
		p.deps.Logger.Warn(moduleName, "Failed to publish TURN_COMPLETED event", map[string]interface{}{
			"user_id": t.state.UserID,
			"error":   err.Error(),
		})
	}
}
