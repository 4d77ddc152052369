package engine

import (
	"context"
	"encoding/json"

	"goa.design/agentcore/agent"
	"goa.design/agentcore/agentmodel"
	"goa.design/agentcore/events"
	"goa.design/agentcore/handoff"
	"goa.design/agentcore/message"
	"goa.design/agentcore/tool"
)

// RunStep advances state by exactly one engine operation (spec.md §4.7):
//
//   - If status is InProgress, it issues one LLM call and transitions to
//     Complete, WaitingForTools, HandoffRequested, or Failed.
//   - If status is WaitingForTools, it executes the pending tool calls and
//     transitions back to InProgress.
//   - Any other status (Complete, Failed, HandoffRequested) is returned
//     unchanged; those require Run-level handling, not a step.
//
// A non-nil error indicates a programming error: an InvariantViolation, or a
// *PreconditionViolation when a WaitingForTools state has no Assistant
// message. All other failures are represented as a Failed status with a nil
// error.
func RunStep(ctx context.Context, state agent.AgentState, cfg Config) (agent.AgentState, error) {
	switch state.Status().Kind() {
	case agent.StatusInProgress:
		return runLLMStep(ctx, state, cfg)
	case agent.StatusWaitingForTools:
		return runToolStep(ctx, state, cfg)
	default:
		return state, nil
	}
}

func runLLMStep(ctx context.Context, state agent.AgentState, cfg Config) (agent.AgentState, error) {
	req := agentmodel.Request{
		Messages: state.Conversation().Messages(),
		Options:  state.CompletionOptions(),
		Tools:    toolSchemas(state),
	}

	completion, err := complete(ctx, cfg, req)
	if err != nil {
		cfg.Logger.Error(ctx, "llm call failed", "error", err)
		return state.WithStatus(agent.Failed(err.Error())), nil
	}

	assistantMsg := message.Assistant(completion.Content, completion.AssistantToolCalls)
	next, err := state.AppendMessage(assistantMsg)
	if err != nil {
		return state, err
	}
	cfg.emit(events.NewTextComplete(completion.Content))

	calls := assistantMsg.ToolCalls()
	if len(calls) == 0 {
		return finalizeComplete(ctx, next, assistantMsg.Content(), cfg)
	}

	if call, _, reason, ok := handoff.Detect(calls, next.Handoffs()); ok {
		// The matched Handoff itself is re-resolved by Run once it observes
		// HandoffRequested; only the id and reason survive in the status.
		abandoned := len(calls) - 1
		if abandoned > 0 {
			next = next.AppendLog(logAbandonedToolCalls(abandoned))
		}
		return next.WithStatus(agent.HandoffRequested(agent.HandoffID(call.Name), reason)), nil
	}

	return next.WithStatus(agent.WaitingForTools()), nil
}

func finalizeComplete(ctx context.Context, state agent.AgentState, finalContent string, cfg Config) (agent.AgentState, error) {
	if cfg.OutputGuardrail != nil {
		if _, err := cfg.OutputGuardrail.Validate(ctx, finalContent); err != nil {
			return state.WithStatus(agent.Failed(err.Error())), nil
		}
	}
	return state.WithStatus(agent.Complete()), nil
}

func runToolStep(ctx context.Context, state agent.AgentState, cfg Config) (agent.AgentState, error) {
	assistantMsg, ok := state.Conversation().LastAssistant()
	if !ok {
		return state, &PreconditionViolation{Reason: "waiting for tools with no preceding assistant message"}
	}
	calls := assistantMsg.ToolCalls()

	reqs := make([]tool.CallRequest, len(calls))
	for i, c := range calls {
		reqs[i] = tool.CallRequest{Name: c.Name, ArgumentsJSON: c.ArgumentsJSON}
	}

	registry := state.ToolRegistry()
	if registry == nil {
		registry, _ = tool.NewRegistry()
	}

	onStart := func(i int, req tool.CallRequest) {
		cfg.emit(events.NewToolCallStarted(calls[i].ID, req.Name, req.ArgumentsJSON))
	}
	onComplete := func(i int, req tool.CallRequest, res tool.CallResult) {
		if res.Ok() {
			cfg.emit(events.NewToolCallCompleted(calls[i].ID, req.Name, string(res.Result), nil))
			return
		}
		cfg.emit(events.NewToolCallCompleted(calls[i].ID, req.Name, "", res.Err))
	}

	results, err := registry.ExecuteAllObserved(ctx, reqs, cfg.Strategy, onStart, onComplete)
	if err != nil {
		return state.WithStatus(agent.Failed(err.Error())), nil
	}

	next := state
	for i, res := range results {
		content := toolResultContent(res)
		appended, err := next.AppendMessage(message.Tool(content, calls[i].ID))
		if err != nil {
			return state, err
		}
		next = appended
	}
	return next.WithStatus(agent.InProgress()), nil
}

func toolResultContent(res tool.CallResult) string {
	if res.Ok() {
		return string(res.Result)
	}
	return res.Err.Content()
}

// toolSchemas combines the state's registered tools with one synthetic
// tool per registered handoff (spec.md §4.5).
func toolSchemas(state agent.AgentState) []agentmodel.ToolDefinition {
	var defs []agentmodel.ToolDefinition
	if reg := state.ToolRegistry(); reg != nil {
		for _, d := range reg.Definitions() {
			defs = append(defs, agentmodel.ToolDefinition{
				Name:        d.Name,
				Description: d.Description,
				InputSchema: d.ParametersSchema,
			})
		}
	}
	for id, h := range state.Handoffs() {
		t := handoff.SyntheticTool(id, h)
		defs = append(defs, agentmodel.ToolDefinition{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.ParametersSchema,
		})
	}
	return defs
}

func complete(ctx context.Context, cfg Config, req agentmodel.Request) (agentmodel.Completion, error) {
	if cfg.Stream && cfg.Streamer != nil {
		return cfg.Streamer.StreamComplete(ctx, req, func(c agentmodel.Chunk) {
			if c.ContentDelta != "" {
				cfg.emit(events.NewTextDelta(c.ContentDelta))
			}
		})
	}
	return cfg.Client.Complete(ctx, req)
}

func logAbandonedToolCalls(n int) string {
	b, _ := json.Marshal(struct {
		Event     string `json:"event"`
		Abandoned int    `json:"abandonedToolCalls"`
	}{Event: "handoff_abandoned_calls", Abandoned: n})
	return string(b)
}
