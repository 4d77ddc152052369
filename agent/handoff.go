package agent

import "goa.design/agentcore/tool"

// HandoffID stably identifies a registered Handoff. It doubles as the name
// of the synthetic tool the handoff mechanism (package handoff) exposes to
// the LLM for this delegation target.
type HandoffID string

// String returns the underlying identifier.
func (h HandoffID) String() string { return string(h) }

// Definition is the static configuration needed to initialize a fresh
// AgentState for an agent: its own tool registry, optional system message,
// completion options, and its own handoff table. Agent graphs may be
// cyclic (a handoff target may itself hand off back to the source); Handoffs
// is populated after construction to allow this (spec.md §9, "cyclic
// references").
type Definition struct {
	ID                AgentID
	SystemMessage      *string
	ToolRegistry       *tool.Registry
	CompletionOptions  CompletionOptions
	Handoffs           map[HandoffID]Handoff
}

// Handoff is a descriptor for delegating execution to another agent (spec
// component C5, spec.md §3). The zero value's PreserveContext is false,
// which does NOT match the documented default of true (its
// TransferSystemMessage default, false, does match); use NewHandoff to get
// the documented defaults.
type Handoff struct {
	// Target is the agent definition control transfers to.
	Target *Definition
	// TransferReason is the human-readable reason surfaced in the
	// synthetic tool's description and, when the LLM supplies one, in the
	// HandoffRequested status and the target's "Received handoff" log
	// entry.
	TransferReason *string
	// PreserveContext, when true (the default), copies the entire
	// conversation into the target's initial state. When false, only the
	// last User message is copied.
	PreserveContext bool
	// TransferSystemMessage, when true, carries the source agent's system
	// message into the target state. Default false: the target's own
	// declared system message (if any) wins.
	TransferSystemMessage bool
}

// NewHandoff constructs a Handoff to target with the spec's documented
// defaults: PreserveContext = true, TransferSystemMessage = false. reason
// may be nil.
func NewHandoff(target *Definition, reason *string) Handoff {
	return Handoff{
		Target:          target,
		TransferReason:  reason,
		PreserveContext: true,
	}
}
