package agent

import (
	"encoding/json"
	"fmt"

	"goa.design/agentcore/message"
	"goa.design/agentcore/tool"
)

// Snapshot serializes s to the JSON format in spec.md §6: conversation,
// initialQuery, status, logs, systemMessage, completionOptions. The tool
// registry handle is never serialized; neither is the handoffs table (a
// Handoff points at another agent's Definition, which is not itself
// serializable). Use FromSnapshot with the same registry to reconstruct an
// equivalent state for any status other than HandoffRequested.
func (s AgentState) Snapshot() ([]byte, error) {
	return json.Marshal(wireState{
		Conversation:      s.conversation,
		InitialQuery:      s.initialQuery,
		Status:            toWireStatus(s.status),
		Logs:              s.logs,
		SystemMessage:     s.systemMessage,
		CompletionOptions: toWireOptions(s.completionOptions),
	})
}

// FromSnapshot reconstructs an AgentState from data produced by Snapshot,
// wiring in registry as the tool registry handle. Missing optional fields
// (reasoning, budgetTokens, or entire older-format objects) deserialize to
// their zero value; unknown fields are ignored by encoding/json. The
// reconstructed state always has a nil handoffs table: a HandoffRequested
// status recovers only its handoff id and reason, never the Handoff object
// itself (spec.md §6).
func FromSnapshot(data []byte, registry *tool.Registry) (AgentState, error) {
	var w wireState
	if err := json.Unmarshal(data, &w); err != nil {
		return AgentState{}, fmt.Errorf("agent: unmarshal snapshot: %w", err)
	}
	status, err := fromWireStatus(w.Status)
	if err != nil {
		return AgentState{}, err
	}
	return AgentState{
		conversation:      w.Conversation,
		registry:          registry,
		initialQuery:      w.InitialQuery,
		status:            status,
		logs:              w.Logs,
		systemMessage:     w.SystemMessage,
		completionOptions: fromWireOptions(w.CompletionOptions),
	}, nil
}

type wireState struct {
	Conversation      message.Conversation `json:"conversation"`
	InitialQuery      *string              `json:"initialQuery"`
	Status            wireStatus           `json:"status"`
	Logs              []string             `json:"logs"`
	SystemMessage     *string              `json:"systemMessage"`
	CompletionOptions wireOptions          `json:"completionOptions"`
}

type wireStatus struct {
	Kind         StatusKind `json:"kind"`
	HandoffID    string     `json:"handoffId,omitempty"`
	Reason       string     `json:"reason,omitempty"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
}

type wireOptions struct {
	Temperature      float64         `json:"temperature"`
	TopP             float64         `json:"topP"`
	MaxTokens        *int            `json:"maxTokens,omitempty"`
	PresencePenalty  float64         `json:"presencePenalty"`
	FrequencyPenalty float64         `json:"frequencyPenalty"`
	ReasoningEffort  ReasoningEffort `json:"reasoning,omitempty"`
	BudgetTokens     *int            `json:"budgetTokens,omitempty"`
}

func toWireStatus(s AgentStatus) wireStatus {
	w := wireStatus{Kind: s.kind}
	if s.kind == StatusHandoffRequested {
		w.HandoffID = string(s.handoffID)
		w.Reason = s.reason
	}
	if s.kind == StatusFailed {
		w.ErrorMessage = s.errorMessage
	}
	return w
}

func fromWireStatus(w wireStatus) (AgentStatus, error) {
	switch w.Kind {
	case "", StatusInProgress:
		return InProgress(), nil
	case StatusWaitingForTools:
		return WaitingForTools(), nil
	case StatusHandoffRequested:
		return HandoffRequested(HandoffID(w.HandoffID), w.Reason), nil
	case StatusComplete:
		return Complete(), nil
	case StatusFailed:
		return Failed(w.ErrorMessage), nil
	default:
		return AgentStatus{}, fmt.Errorf("agent: unknown status kind %q", w.Kind)
	}
}

func toWireOptions(o CompletionOptions) wireOptions {
	return wireOptions{
		Temperature:      o.Temperature,
		TopP:             o.TopP,
		MaxTokens:        o.MaxTokens,
		PresencePenalty:  o.PresencePenalty,
		FrequencyPenalty: o.FrequencyPenalty,
		ReasoningEffort:  o.ReasoningEffort,
		BudgetTokens:     o.BudgetTokens,
	}
}

func fromWireOptions(w wireOptions) CompletionOptions {
	return CompletionOptions{
		Temperature:      w.Temperature,
		TopP:             w.TopP,
		MaxTokens:        w.MaxTokens,
		PresencePenalty:  w.PresencePenalty,
		FrequencyPenalty: w.FrequencyPenalty,
		ReasoningEffort:  w.ReasoningEffort,
		BudgetTokens:     w.BudgetTokens,
	}
}
