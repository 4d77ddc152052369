package engine

import (
	"context"
	"encoding/json"

	"goa.design/agentcore/agent"
	"goa.design/agentcore/events"
	"goa.design/agentcore/handoff"
	"goa.design/agentcore/tool"
)

// RunQuery initializes a fresh AgentState for query and drives it to
// completion (spec.md §4.4, §4.7). It applies cfg.InputGuardrail to query
// before any LLM call and emits AgentStarted/AgentCompleted/AgentFailed
// around the run.
func RunQuery(ctx context.Context, query string, registry *tool.Registry, systemMessage *string, opts agent.CompletionOptions, handoffs map[agent.HandoffID]agent.Handoff, cfg Config) (agent.AgentState, error) {
	cfg = cfg.withDefaults()
	state, err := agent.Initialize(query, registry, systemMessage, opts, handoffs)
	if err != nil {
		return agent.AgentState{}, err
	}

	cfg.emit(events.NewAgentStarted(query))

	if cfg.InputGuardrail != nil {
		if _, gerr := cfg.InputGuardrail.Validate(ctx, query); gerr != nil {
			state = state.WithStatus(agent.Failed(gerr.Error()))
			cfg.emit(events.NewAgentFailed(gerr))
			return state, nil
		}
	}

	return runAndEmitTerminal(ctx, state, cfg)
}

// Run drives state through RunStep until it reaches a terminal status
// (Complete or Failed), max_steps is exhausted, a handoff resolves to a
// terminal result, or the context is cancelled (spec.md §4.7). It does not
// emit AgentStarted/AgentCompleted/AgentFailed; callers that want those use
// RunQuery or ContinueConversation.
func Run(ctx context.Context, state agent.AgentState, cfg Config) (agent.AgentState, error) {
	final, _, err := runLoop(ctx, state, cfg.withDefaults(), 0, 0)
	return final, err
}

// RunWithStrategy is Run with the tool-execution strategy overridden.
func RunWithStrategy(ctx context.Context, state agent.AgentState, strategy tool.Strategy, cfg Config) (agent.AgentState, error) {
	cfg.Strategy = strategy
	return Run(ctx, state, cfg)
}

// RunWithEvents is Run with the event sink overridden.
func RunWithEvents(ctx context.Context, state agent.AgentState, sink events.Sink, cfg Config) (agent.AgentState, error) {
	cfg.EventSink = sink
	return Run(ctx, state, cfg)
}

// RunCollectingEvents is equivalent to RunWithEvents with an accumulator
// sink; it returns every event in emission order alongside the final state
// (spec.md §4.6).
func RunCollectingEvents(ctx context.Context, state agent.AgentState, cfg Config) (agent.AgentState, []events.Event, error) {
	collector := events.NewCollector()
	final, err := RunWithEvents(ctx, state, collector, cfg)
	return final, collector.Events(), err
}

func runAndEmitTerminal(ctx context.Context, state agent.AgentState, cfg Config) (agent.AgentState, error) {
	final, _, err := runLoop(ctx, state, cfg, 0, 0)
	if err != nil {
		return final, err
	}
	if final.Status().Kind() == agent.StatusFailed {
		cfg.emit(events.NewAgentFailed(&runFailure{message: final.Status().ErrorMessage()}))
	} else {
		cfg.emit(events.NewAgentCompleted(final))
	}
	return final, nil
}

// runFailure adapts a Failed status's plain message to the error interface
// for AgentFailed events.
type runFailure struct{ message string }

func (e *runFailure) Error() string { return e.message }

// logStepStarted records the chronological "a step began" entry spec.md §4.6
// requires in AgentState.Logs, in the same JSON-event-entry style as
// logAbandonedToolCalls in step.go.
func logStepStarted(stepIndex int) string {
	b, _ := json.Marshal(struct {
		Event string `json:"event"`
		Step  int    `json:"step"`
	}{Event: "step_started", Step: stepIndex})
	return string(b)
}

// runLoop drives state to a terminal status or a handoff resolution. depth
// counts handoff transitions (bounded by cfg.MaxHandoffDepth); stepIndex
// counts LLM invocations (bounded by cfg.MaxSteps) and carries across a
// handoff, since a handoff target consumes the same step budget as the
// outer run (spec.md §4.5). The updated stepIndex is returned alongside the
// final state; depth is not returned.
func runLoop(ctx context.Context, state agent.AgentState, cfg Config, depth, stepIndex int) (agent.AgentState, int, error) {
	for {
		if ctx.Err() != nil {
			return state.WithStatus(agent.Failed("cancelled")), stepIndex, nil
		}

		switch state.Status().Kind() {
		case agent.StatusComplete, agent.StatusFailed:
			return state, stepIndex, nil

		case agent.StatusHandoffRequested:
			return resolveHandoff(ctx, state, cfg, depth, stepIndex)

		case agent.StatusWaitingForTools:
			next, err := RunStep(ctx, state, cfg)
			if err != nil {
				return state, stepIndex, err
			}
			state = next
			cfg.emit(events.NewStepCompleted(stepIndex - 1))

		default: // StatusInProgress
			if stepIndex >= cfg.MaxSteps {
				return state.WithStatus(agent.Failed("max steps reached")), stepIndex, nil
			}
			cfg.emit(events.NewStepStarted(stepIndex))
			state = state.AppendLog(logStepStarted(stepIndex))
			next, err := RunStep(ctx, state, cfg)
			if err != nil {
				return state, stepIndex, err
			}
			state = next
			stepIndex++
			if state.Status().Kind() != agent.StatusWaitingForTools {
				cfg.emit(events.NewStepCompleted(stepIndex - 1))
			}
		}
	}
}

func resolveHandoff(ctx context.Context, state agent.AgentState, cfg Config, depth, stepIndex int) (agent.AgentState, int, error) {
	id, _ := state.Status().HandoffID()
	reason, _ := state.Status().Reason()

	h, ok := state.Handoff(id)
	if !ok {
		return state.WithStatus(agent.Failed("handoff: unknown handoff id " + string(id))), stepIndex, nil
	}

	nextDepth := depth + 1
	if nextDepth > cfg.MaxHandoffDepth {
		return state.WithStatus(agent.Failed("handoff depth exceeded")), stepIndex, nil
	}

	toID := ""
	if h.Target != nil {
		toID = string(h.Target.ID)
	}
	cfg.emit(events.NewHandoffStarted(string(cfg.AgentID), toID, reason))

	target, err := handoff.BuildTargetState(state, h, reason)
	if err != nil {
		return state, stepIndex, err
	}

	targetCfg := cfg
	targetCfg.AgentID = ""
	if h.Target != nil {
		targetCfg.AgentID = h.Target.ID
	}
	return runLoop(ctx, target, targetCfg, nextDepth, stepIndex)
}
