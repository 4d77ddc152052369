package message

import "fmt"

// InvariantViolation is returned when an Append call would break one of the
// conversation invariants described in the specification (tool-call
// correspondence, at most one leading System message, no User message while
// tool calls are outstanding). Invariant violations are always fatal
// programming errors, never a recoverable runtime condition.
type InvariantViolation struct {
	Reason string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("message: invariant violation: %s", e.Reason)
}

// Conversation is an ordered, append-only sequence of messages.
//
// Conversation is a value type: Append returns a new Conversation and never
// mutates the receiver's backing slice in place, so callers may safely hold
// onto earlier snapshots (spec invariant: Immutability).
type Conversation struct {
	messages []Message
}

// NewConversation builds a Conversation from an ordered slice of messages,
// validating the invariants below. Use this only to reconstruct a
// conversation (e.g., from a snapshot); build one incrementally with Append
// otherwise.
func NewConversation(messages ...Message) (Conversation, error) {
	var c Conversation
	for _, m := range messages {
		var err error
		c, err = c.Append(m)
		if err != nil {
			return Conversation{}, err
		}
	}
	return c, nil
}

// Len returns the number of messages in the conversation.
func (c Conversation) Len() int { return len(c.messages) }

// Messages returns a defensive copy of the ordered messages.
func (c Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// At returns the message at index i.
func (c Conversation) At(i int) Message { return c.messages[i] }

// pendingToolCalls returns the tool call ids from the most recent Assistant
// message that have not yet been satisfied by a following Tool message, in
// the order they were issued. It returns nil once all calls are satisfied or
// the trailing message is not an Assistant message with tool calls.
func (c Conversation) pendingToolCalls() []ToolCall {
	n := len(c.messages)
	if n == 0 {
		return nil
	}
	// Find the last Assistant message.
	lastAssistant := -1
	for i := n - 1; i >= 0; i-- {
		switch c.messages[i].role {
		case RoleAssistant:
			lastAssistant = i
		case RoleTool:
			continue
		default:
		}
		break
	}
	if lastAssistant == -1 {
		return nil
	}
	calls := c.messages[lastAssistant].toolCalls
	if len(calls) == 0 {
		return nil
	}
	satisfied := make(map[string]struct{}, len(calls))
	for _, m := range c.messages[lastAssistant+1:] {
		if m.role != RoleTool {
			// Any non-tool message after the assistant call would already
			// have been rejected at Append time; defensive early return.
			return nil
		}
		satisfied[m.toolCallID] = struct{}{}
	}
	pending := make([]ToolCall, 0, len(calls))
	for _, call := range calls {
		if _, ok := satisfied[call.ID]; !ok {
			pending = append(pending, call)
		}
	}
	if len(pending) == 0 {
		return nil
	}
	return pending
}

// Append returns a new Conversation with m appended, or an InvariantViolation
// error if appending m would break a conversation invariant.
func (c Conversation) Append(m Message) (Conversation, error) {
	switch m.role {
	case RoleSystem:
		if len(c.messages) > 0 {
			return Conversation{}, &InvariantViolation{Reason: "system message must be appended first"}
		}
	case RoleUser:
		if pending := c.pendingToolCalls(); len(pending) > 0 {
			return Conversation{}, &InvariantViolation{Reason: "cannot append user message while tool calls are outstanding"}
		}
	case RoleAssistant:
		if pending := c.pendingToolCalls(); len(pending) > 0 {
			return Conversation{}, &InvariantViolation{Reason: "cannot append assistant message while tool calls are outstanding"}
		}
		if err := validateUniqueToolCallIDs(m.toolCalls); err != nil {
			return Conversation{}, err
		}
	case RoleTool:
		pending := c.pendingToolCalls()
		if !containsCallID(pending, m.toolCallID) {
			return Conversation{}, &InvariantViolation{
				Reason: fmt.Sprintf("tool message references unknown or already-satisfied tool_call_id %q", m.toolCallID),
			}
		}
	default:
		return Conversation{}, &InvariantViolation{Reason: fmt.Sprintf("unknown message role %q", m.role)}
	}

	out := make([]Message, len(c.messages)+1)
	copy(out, c.messages)
	out[len(c.messages)] = m
	return Conversation{messages: out}, nil
}

func validateUniqueToolCallIDs(calls []ToolCall) error {
	seen := make(map[string]struct{}, len(calls))
	for _, call := range calls {
		if _, ok := seen[call.ID]; ok {
			return &InvariantViolation{Reason: fmt.Sprintf("duplicate tool_call id %q in assistant message", call.ID)}
		}
		seen[call.ID] = struct{}{}
	}
	return nil
}

func containsCallID(calls []ToolCall, id string) bool {
	for _, c := range calls {
		if c.ID == id {
			return true
		}
	}
	return false
}

// FilterByRole returns, in order, all messages with the given role.
func (c Conversation) FilterByRole(role Role) []Message {
	var out []Message
	for _, m := range c.messages {
		if m.role == role {
			out = append(out, m)
		}
	}
	return out
}

// LastByRole returns the last message with the given role, if any.
func (c Conversation) LastByRole(role Role) (Message, bool) {
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].role == role {
			return c.messages[i], true
		}
	}
	return Message{}, false
}

// LastAssistant returns the final assistant message, if any.
func (c Conversation) LastAssistant() (Message, bool) {
	return c.LastByRole(RoleAssistant)
}

// PendingToolCalls exposes the outstanding tool calls from the most recent
// Assistant message that have not yet been answered by a Tool message.
func (c Conversation) PendingToolCalls() []ToolCall {
	return c.pendingToolCalls()
}
