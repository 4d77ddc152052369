// Package agent defines the immutable agent state and status machine (spec
// component C4) along with the JSON snapshot format used for trace/debug
// dumps and session persistence (C8).
package agent

import (
	"goa.design/agentcore/message"
	"goa.design/agentcore/tool"
)

// AgentState is an immutable snapshot of a single agent's run (spec.md §3,
// §4.4). Every mutator returns a new value; the receiver is never modified.
// The zero value is not valid; use Initialize.
type AgentState struct {
	conversation      message.Conversation
	registry          *tool.Registry
	initialQuery      *string
	status            AgentStatus
	logs              []string
	systemMessage     *string
	completionOptions CompletionOptions
	handoffs          map[HandoffID]Handoff
}

// Initialize builds the starting AgentState for query: a conversation of
// `[System?] ++ [User(query)]`, status InProgress, an empty log trail, and
// the supplied tool registry handle and handoff table. registry may be nil
// (an agent with no tools). handoffs may be nil.
func Initialize(query string, registry *tool.Registry, systemMessage *string, opts CompletionOptions, handoffs map[HandoffID]Handoff) (AgentState, error) {
	var msgs []message.Message
	if systemMessage != nil {
		msgs = append(msgs, message.System(*systemMessage))
	}
	msgs = append(msgs, message.User(query))
	conv, err := message.NewConversation(msgs...)
	if err != nil {
		return AgentState{}, err
	}
	q := query
	return AgentState{
		conversation:      conv,
		registry:          registry,
		initialQuery:      &q,
		status:            InProgress(),
		systemMessage:     systemMessage,
		completionOptions: opts,
		handoffs:          copyHandoffs(handoffs),
	}, nil
}

// Conversation returns the agent's message history.
func (s AgentState) Conversation() message.Conversation { return s.conversation }

// ToolRegistry returns the process-local tool registry handle, or nil.
func (s AgentState) ToolRegistry() *tool.Registry { return s.registry }

// InitialQuery returns the query passed to Initialize, and whether one was
// set. It is informational and does not change across continuations.
func (s AgentState) InitialQuery() (string, bool) {
	if s.initialQuery == nil {
		return "", false
	}
	return *s.initialQuery, true
}

// Status returns the agent's current lifecycle status.
func (s AgentState) Status() AgentStatus { return s.status }

// Logs returns the chronological log trail.
func (s AgentState) Logs() []string {
	out := make([]string, len(s.logs))
	copy(out, s.logs)
	return out
}

// SystemMessage returns the agent's system message and whether one was set.
func (s AgentState) SystemMessage() (string, bool) {
	if s.systemMessage == nil {
		return "", false
	}
	return *s.systemMessage, true
}

// CompletionOptions returns the sampling/reasoning options for this agent.
func (s AgentState) CompletionOptions() CompletionOptions { return s.completionOptions }

// Handoffs returns a defensive copy of the handoff table keyed by
// HandoffID.
func (s AgentState) Handoffs() map[HandoffID]Handoff { return copyHandoffs(s.handoffs) }

// Handoff looks up a single registered handoff by id.
func (s AgentState) Handoff(id HandoffID) (Handoff, bool) {
	h, ok := s.handoffs[id]
	return h, ok
}

// WithStatus returns a new AgentState with status replaced.
func (s AgentState) WithStatus(status AgentStatus) AgentState {
	next := s
	next.status = status
	return next
}

// AppendMessage returns a new AgentState with m appended to the
// conversation. It fails with the same *message.InvariantViolation that
// Conversation.Append would.
func (s AgentState) AppendMessage(m message.Message) (AgentState, error) {
	conv, err := s.conversation.Append(m)
	if err != nil {
		return AgentState{}, err
	}
	next := s
	next.conversation = conv
	return next, nil
}

// AppendLog returns a new AgentState with entry appended to the log trail.
func (s AgentState) AppendLog(entry string) AgentState {
	next := s
	next.logs = append(append([]string(nil), s.logs...), entry)
	return next
}

// ClearLogs returns a new AgentState with an empty log trail.
func (s AgentState) ClearLogs() AgentState {
	next := s
	next.logs = nil
	return next
}

// WithConversation returns a new AgentState with the conversation replaced
// wholesale. Used by continue_conversation's context-window pruning
// (spec.md §4.7, §6) where the replacement is already invariant-checked.
func (s AgentState) WithConversation(conv message.Conversation) AgentState {
	next := s
	next.conversation = conv
	return next
}

func copyHandoffs(in map[HandoffID]Handoff) map[HandoffID]Handoff {
	if len(in) == 0 {
		return nil
	}
	out := make(map[HandoffID]Handoff, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
