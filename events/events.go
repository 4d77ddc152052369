// Package events defines the typed event stream the engine emits during a
// run (spec component C6) and the sink every event is delivered through.
// Concrete event types carry typed payloads for each lifecycle phase;
// subscribers type-switch on Event to access them.
package events

import "time"

type (
	// Event is the interface every emitted event implements.
	//
	//	func handle(evt events.Event) {
	//	    switch e := evt.(type) {
	//	    case *events.ToolCallStarted:
	//	        log.Printf("tool %s started", e.Name)
	//	    case *events.AgentCompleted:
	//	        log.Printf("done")
	//	    }
	//	}
	Event interface {
		// Timestamp returns when the event occurred.
		Timestamp() time.Time
	}

	baseEvent struct {
		at time.Time
	}

	// AgentStarted fires once at the beginning of a run.
	AgentStarted struct {
		baseEvent
		Query string
	}

	// StepStarted fires when run_step begins a new LLM-invocation step.
	// StepIndex counts LLM invocations only, matching max_steps.
	StepStarted struct {
		baseEvent
		StepIndex int
	}

	// StepCompleted fires when a step (LLM call plus any tool-execution
	// turn it triggered) finishes.
	StepCompleted struct {
		baseEvent
		StepIndex int
	}

	// TextDelta fires for each incremental chunk of assistant text from a
	// streaming-capable LLM capability. Never emitted for non-streaming
	// completions.
	TextDelta struct {
		baseEvent
		Delta string
	}

	// TextComplete fires once the assistant's full text is known, whether
	// produced by streaming or a single non-streaming completion.
	TextComplete struct {
		baseEvent
		FullText string
	}

	// ToolCallStarted fires immediately before a tool handler is invoked.
	ToolCallStarted struct {
		baseEvent
		ToolCallID string
		Name       string
		Arguments  string
	}

	// ToolCallCompleted fires immediately after a tool handler returns,
	// whether it succeeded or failed. Result is the tool's raw JSON
	// result, or empty when Err is set.
	ToolCallCompleted struct {
		baseEvent
		ToolCallID string
		Name       string
		Result     string
		Err        error
	}

	// HandoffStarted fires once a handoff tool call has been selected and
	// before the target agent's state is constructed.
	HandoffStarted struct {
		baseEvent
		FromID string
		ToID   string
		Reason string
	}

	// AgentCompleted fires once, as the last event of a successful run.
	// FinalState is the terminal agent state (status Complete).
	AgentCompleted struct {
		baseEvent
		FinalState any
	}

	// AgentFailed fires once, as the last event of an unsuccessful run.
	AgentFailed struct {
		baseEvent
		Err error
	}

	// Sink receives events during a run. Implementations must not block
	// indefinitely (spec.md §5's suspension points). The engine calls sinks
	// synchronously and recovers and discards a panic raised by a sink.
	// Under the Parallel and ParallelWithLimit strategies, ToolCallStarted
	// and ToolCallCompleted are delivered from the goroutines running the
	// tool calls, so a sink may then be called concurrently.
	Sink interface {
		Handle(Event)
	}

	// SinkFunc adapts a plain function to Sink.
	SinkFunc func(Event)
)

func (b baseEvent) Timestamp() time.Time { return b.at }

func (f SinkFunc) Handle(e Event) { f(e) }

// NewAgentStarted constructs an AgentStarted event timestamped now.
func NewAgentStarted(query string) *AgentStarted {
	return &AgentStarted{baseEvent: now(), Query: query}
}

// NewStepStarted constructs a StepStarted event timestamped now.
func NewStepStarted(stepIndex int) *StepStarted {
	return &StepStarted{baseEvent: now(), StepIndex: stepIndex}
}

// NewStepCompleted constructs a StepCompleted event timestamped now.
func NewStepCompleted(stepIndex int) *StepCompleted {
	return &StepCompleted{baseEvent: now(), StepIndex: stepIndex}
}

// NewTextDelta constructs a TextDelta event timestamped now.
func NewTextDelta(delta string) *TextDelta {
	return &TextDelta{baseEvent: now(), Delta: delta}
}

// NewTextComplete constructs a TextComplete event timestamped now.
func NewTextComplete(fullText string) *TextComplete {
	return &TextComplete{baseEvent: now(), FullText: fullText}
}

// NewToolCallStarted constructs a ToolCallStarted event timestamped now.
func NewToolCallStarted(toolCallID, name, arguments string) *ToolCallStarted {
	return &ToolCallStarted{baseEvent: now(), ToolCallID: toolCallID, Name: name, Arguments: arguments}
}

// NewToolCallCompleted constructs a ToolCallCompleted event timestamped now.
func NewToolCallCompleted(toolCallID, name, result string, err error) *ToolCallCompleted {
	return &ToolCallCompleted{baseEvent: now(), ToolCallID: toolCallID, Name: name, Result: result, Err: err}
}

// NewHandoffStarted constructs a HandoffStarted event timestamped now.
func NewHandoffStarted(fromID, toID, reason string) *HandoffStarted {
	return &HandoffStarted{baseEvent: now(), FromID: fromID, ToID: toID, Reason: reason}
}

// NewAgentCompleted constructs an AgentCompleted event timestamped now.
func NewAgentCompleted(finalState any) *AgentCompleted {
	return &AgentCompleted{baseEvent: now(), FinalState: finalState}
}

// NewAgentFailed constructs an AgentFailed event timestamped now.
func NewAgentFailed(err error) *AgentFailed {
	return &AgentFailed{baseEvent: now(), Err: err}
}

func now() baseEvent { return baseEvent{at: time.Now()} }
