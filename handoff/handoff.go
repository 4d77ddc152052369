// Package handoff implements the LLM-directed delegation mechanism (spec
// component C5): deterministic handoff-id derivation, synthetic tool
// synthesis exposing delegation targets to the LLM, detection of handoff
// tool calls in an assistant turn, and construction of the target agent's
// initial state. The step-budget accounting for running the target agent
// (spec.md §4.5 step 2) belongs to the engine, which drives both the source
// and target states through the same run loop.
package handoff

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"goa.design/agentcore/agent"
	"goa.design/agentcore/message"
	"goa.design/agentcore/tool"
)

// namespace seeds the deterministic handoff-id derivation below. It is an
// arbitrary fixed UUID, not tied to any external identifier space.
var namespace = uuid.MustParse("6f8f7e2e-5e7b-4f2a-9a2e-2c6a6f0b8f10")

// DeriveID computes the stable handoff_id for target, derived
// deterministically from its AgentID (spec.md §3: "a stable identifier
// derived deterministically from the target handle"). The same target
// always yields the same id, so handoff tables can be rebuilt across
// process restarts without drifting the synthetic tool name the LLM has
// already seen.
func DeriveID(target *agent.Definition) agent.HandoffID {
	return agent.HandoffID(uuid.NewSHA1(namespace, []byte(target.ID)).String())
}

// reasonSchema is the parameter schema required of every synthetic handoff
// tool: a single required string field "reason" (spec.md §4.5).
var reasonSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"reason": {"type": "string", "description": "Why this handoff is being requested."}
	},
	"required": ["reason"]
}`)

// SyntheticTool builds the tool.Definition exposed to the LLM for h, named
// id. Its handler is a sentinel: the engine detects the handoff by tool
// name before dispatch and never actually invokes this handler for a
// return value.
func SyntheticTool(id agent.HandoffID, h agent.Handoff) tool.Definition {
	desc := "Transfer this conversation to another agent."
	if h.TransferReason != nil && *h.TransferReason != "" {
		desc = fmt.Sprintf("Transfer this conversation to another agent. %s", *h.TransferReason)
	}
	return tool.Definition{
		Name:             string(id),
		Description:      desc,
		ParametersSchema: reasonSchema,
		Handler: func(json.RawMessage) (json.RawMessage, error) {
			return nil, fmt.Errorf("handoff: synthetic tool %q must be intercepted before dispatch", id)
		},
	}
}

// reasonArgs unmarshals the "reason" field of a handoff tool call's
// arguments; a missing or unparsable field yields an empty reason rather
// than an error, since the reason is informational only.
type reasonArgs struct {
	Reason string `json:"reason"`
}

// Detect scans calls for the first one (in order) whose name matches a key
// of handoffs, per spec.md §4.5: "choose the first matching handoff call in
// tool-call order." It returns the matching call, its resolved Handoff, the
// extracted reason, and true. The remaining calls are the caller's to
// abandon.
func Detect(calls []message.ToolCall, handoffs map[agent.HandoffID]agent.Handoff) (message.ToolCall, agent.Handoff, string, bool) {
	for _, c := range calls {
		h, ok := handoffs[agent.HandoffID(c.Name)]
		if !ok {
			continue
		}
		var args reasonArgs
		_ = json.Unmarshal([]byte(c.ArgumentsJSON), &args)
		return c, h, args.Reason, true
	}
	return message.ToolCall{}, agent.Handoff{}, "", false
}

// BuildTargetState constructs the initial AgentState for h.Target per
// spec.md §4.5's context-preservation rules:
//
//   - PreserveContext true copies every non-System message of the source
//     conversation; when the last one is an Assistant message whose tool
//     calls are unanswered (the handoff call and any calls abandoned with
//     it), it is copied without those calls. False copies only the last
//     User message.
//   - TransferSystemMessage true carries the source's system message; the
//     target's own declared system message always wins when set.
//   - A log entry "Received handoff: {reason}" (or "Received handoff:" with
//     no reason) is appended.
func BuildTargetState(source agent.AgentState, h agent.Handoff, reason string) (agent.AgentState, error) {
	var msgs []message.Message

	systemMessage := h.Target.SystemMessage
	if systemMessage == nil && h.TransferSystemMessage {
		if sm, ok := source.SystemMessage(); ok {
			systemMessage = &sm
		}
	}
	if systemMessage != nil {
		msgs = append(msgs, message.System(*systemMessage))
	}

	if h.PreserveContext {
		copied := nonSystemMessages(source.Conversation())
		// The handoff call, and any calls abandoned with it, are never
		// answered by a Tool message. Keep the Assistant turn but drop its
		// calls so the target can append its own Assistant messages.
		if n := len(copied); n > 0 && copied[n-1].Role() == message.RoleAssistant && len(source.Conversation().PendingToolCalls()) > 0 {
			copied[n-1] = message.Assistant(copied[n-1].Content(), nil)
		}
		msgs = append(msgs, copied...)
	} else if last, ok := source.Conversation().LastByRole(message.RoleUser); ok {
		msgs = append(msgs, last)
	}

	conv, err := message.NewConversation(msgs...)
	if err != nil {
		return agent.AgentState{}, err
	}

	query, _ := source.InitialQuery()
	target, err := agent.Initialize(query, h.Target.ToolRegistry, systemMessage, h.Target.CompletionOptions, h.Target.Handoffs)
	if err != nil {
		return agent.AgentState{}, err
	}
	target = target.WithConversation(conv)

	logEntry := "Received handoff:"
	if reason != "" {
		logEntry = fmt.Sprintf("Received handoff: %s", reason)
	}
	return target.AppendLog(logEntry), nil
}

func nonSystemMessages(conv message.Conversation) []message.Message {
	all := conv.Messages()
	out := make([]message.Message, 0, len(all))
	for _, m := range all {
		if m.Role() == message.RoleSystem {
			continue
		}
		out = append(out, m)
	}
	return out
}
