package engine

import (
	"context"

	"goa.design/agentcore/agent"
	"goa.design/agentcore/events"
	"goa.design/agentcore/message"
)

type (
	// PruneStrategy selects how ContextPolicy.Prune shortens a conversation
	// (spec.md §6). It is a closed set with one payload-carrying variant
	// (RecentTurnsOnly) and one escape hatch (Custom) for provider-specific
	// policies the core does not standardize.
	PruneStrategy struct {
		kind       pruneStrategyKind
		recentN    int
		customFunc func(message.Conversation, PruneConfig) message.Conversation
	}

	pruneStrategyKind int
)

const (
	pruneOldestFirst pruneStrategyKind = iota
	pruneMiddleOut
	pruneRecentTurnsOnly
	pruneCustom
)

// OldestFirst drops the oldest messages first.
func OldestFirst() PruneStrategy { return PruneStrategy{kind: pruneOldestFirst} }

// MiddleOut drops messages from the middle of the conversation, preserving
// both the earliest and most recent context.
func MiddleOut() PruneStrategy { return PruneStrategy{kind: pruneMiddleOut} }

// RecentTurnsOnly keeps only the n most recent turns.
func RecentTurnsOnly(n int) PruneStrategy { return PruneStrategy{kind: pruneRecentTurnsOnly, recentN: n} }

// CustomPrune delegates entirely to fn.
func CustomPrune(fn func(message.Conversation, PruneConfig) message.Conversation) PruneStrategy {
	return PruneStrategy{kind: pruneCustom, customFunc: fn}
}

// PruneConfig parameterizes a ContextPolicy invocation (spec.md §6).
type PruneConfig struct {
	MaxTokens      *int
	MaxMessages    *int
	PreserveSystem bool
	MinRecentTurns int
	Strategy       PruneStrategy
}

// ContextPolicy prunes a conversation to fit a token/message budget. The
// core treats it as a pure function; concrete strategies are the
// provider's responsibility (spec.md §6) — this package only carries the
// interface and the Custom escape hatch.
type ContextPolicy interface {
	Prune(conv message.Conversation, cfg PruneConfig) message.Conversation
}

// ContinueConversation appends newUserMessage to previousState and resumes
// the run (spec.md §4.7). It succeeds only when previousState.Status() is
// Complete or Failed; otherwise it returns *PreconditionViolation and
// previousState unchanged (Testable Property 8).
func ContinueConversation(ctx context.Context, previousState agent.AgentState, newUserMessage string, pruneCfg *PruneConfig, cfg Config) (agent.AgentState, error) {
	cfg = cfg.withDefaults()
	kind := previousState.Status().Kind()
	if kind != agent.StatusComplete && kind != agent.StatusFailed {
		return previousState, &PreconditionViolation{Reason: "incomplete state"}
	}

	if cfg.InputGuardrail != nil {
		if _, gerr := cfg.InputGuardrail.Validate(ctx, newUserMessage); gerr != nil {
			return previousState.WithStatus(agent.Failed(gerr.Error())), nil
		}
	}

	next, err := previousState.AppendMessage(message.User(newUserMessage))
	if err != nil {
		return previousState, err
	}
	next = next.ClearLogs().WithStatus(agent.InProgress())

	if cfg.ContextPolicy != nil && pruneCfg != nil {
		pruned := cfg.ContextPolicy.Prune(next.Conversation(), *pruneCfg)
		next = next.WithConversation(pruned)
	}

	cfg.emit(events.NewAgentStarted(newUserMessage))
	return runAndEmitTerminal(ctx, next, cfg)
}

// RunMultiTurn folds ContinueConversation over followUps in order, stopping
// at the first failure and returning it (spec.md §4.7).
func RunMultiTurn(ctx context.Context, initial agent.AgentState, followUps []string, pruneCfg *PruneConfig, cfg Config) (agent.AgentState, error) {
	state := initial
	for _, msg := range followUps {
		next, err := ContinueConversation(ctx, state, msg, pruneCfg, cfg)
		if err != nil {
			return next, err
		}
		state = next
		if state.Status().Kind() == agent.StatusFailed {
			return state, nil
		}
	}
	return state, nil
}
