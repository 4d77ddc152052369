// Package engine implements the step/run state machine (spec component
// C7): given an agent state, it issues one LLM call, detects handoffs,
// schedules tool execution through the tool registry, appends results to
// the conversation, and transitions status. It orchestrates Run,
// RunWithStrategy, RunWithEvents, ContinueConversation, and RunMultiTurn.
package engine

import (
	"fmt"

	"goa.design/agentcore/agent"
	"goa.design/agentcore/agentmodel"
	"goa.design/agentcore/events"
	"goa.design/agentcore/guardrail"
	"goa.design/agentcore/telemetry"
	"goa.design/agentcore/tool"
)

// DefaultMaxSteps is the default step budget (spec.md §4.7: "max_steps
// defaults to 10 and counts LLM invocations only").
const DefaultMaxSteps = 10

// DefaultMaxHandoffDepth is the recommended loop-prevention bound on
// handoff transitions (spec.md §4.5).
const DefaultMaxHandoffDepth = 5

// Config bundles everything a Run needs beyond the agent state itself.
// The zero value is usable except for Client, which is required.
type Config struct {
	// AgentID labels this agent in HandoffStarted events and logs. Optional.
	AgentID agent.AgentID

	// Client performs LLM completions. Required.
	Client agentmodel.Client
	// Streamer performs streaming completions. Optional; when nil,
	// streaming execution is unavailable and Complete is always used.
	Streamer agentmodel.Streamer
	// Stream selects streaming execution when true and Streamer != nil.
	Stream bool

	// Strategy controls tool-call batch dispatch. Zero value is
	// Sequential.
	Strategy tool.Strategy

	// InputGuardrail validates the initial query and continuation
	// messages before any LLM call. Optional.
	InputGuardrail guardrail.Guardrail
	// OutputGuardrail validates the final assistant content before a run
	// reaches Complete. Optional.
	OutputGuardrail guardrail.Guardrail

	// EventSink receives lifecycle events. Optional.
	EventSink events.Sink

	// MaxSteps bounds LLM invocations per run. Zero means DefaultMaxSteps.
	MaxSteps int
	// MaxHandoffDepth bounds handoff-chain transitions. Zero means
	// DefaultMaxHandoffDepth.
	MaxHandoffDepth int

	// ContextPolicy optionally prunes the conversation in
	// ContinueConversation (spec.md §6). Optional.
	ContextPolicy ContextPolicy

	// Logger receives LLM call failures. Metrics and Tracer are carried
	// here but the engine records no metrics and opens no spans. Nil fields
	// default to no-ops.
	Logger  telemetry.Logger
	Metrics telemetry.Metrics
	Tracer  telemetry.Tracer
}

func (c Config) withDefaults() Config {
	if c.MaxSteps <= 0 {
		c.MaxSteps = DefaultMaxSteps
	}
	if c.MaxHandoffDepth <= 0 {
		c.MaxHandoffDepth = DefaultMaxHandoffDepth
	}
	if c.Logger == nil {
		c.Logger = telemetry.NewNoopLogger()
	}
	if c.Metrics == nil {
		c.Metrics = telemetry.NewNoopMetrics()
	}
	if c.Tracer == nil {
		c.Tracer = telemetry.NewNoopTracer()
	}
	return c
}

func (c Config) emit(e events.Event) {
	if c.EventSink == nil {
		return
	}
	defer func() { _ = recover() }()
	c.EventSink.Handle(e)
}

// PreconditionViolation is returned when an operation is invoked on a state
// that does not satisfy its documented precondition (spec.md §7). It
// carries no state change: the input state is returned unmodified alongside
// this error.
type PreconditionViolation struct {
	Reason string
}

func (e *PreconditionViolation) Error() string {
	return fmt.Sprintf("engine: precondition violation: %s", e.Reason)
}
