// Package agentmodel defines the provider-agnostic LLM capability the
// engine consumes (spec.md §6), trimmed from the teacher's
// runtime/agent/model package to the subset spec.md names: a non-streaming
// Complete, a streaming StreamComplete with incremental chunks, and the request/
// response/completion types threading through the engine's step loop.
package agentmodel

import (
	"context"
	"encoding/json"

	"goa.design/agentcore/agent"
	"goa.design/agentcore/message"
)

type (
	// ToolDefinition describes one tool (user-registered or synthetic
	// handoff) as presented to the model. InputSchema is the restricted
	// JSON-Schema subset from spec.md §6.
	ToolDefinition struct {
		Name        string
		Description string
		InputSchema json.RawMessage
	}

	// Request captures a single LLM invocation's inputs: the full message
	// list (the conversation as is, whose first message is the System
	// message when one is set), sampling options,
	// and the combined user + synthetic-handoff tool schema list.
	Request struct {
		Messages []message.Message
		Options  agent.CompletionOptions
		Tools    []ToolDefinition
	}

	// Usage reports token consumption for a single completion.
	Usage struct {
		InputTokens  int
		OutputTokens int
		TotalTokens  int
	}

	// Completion is the model's response to a single LLM call (spec.md
	// §3's external-facing Completion).
	Completion struct {
		ID              string
		Content         string
		Model           string
		AssistantToolCalls []message.ToolCall
		Usage           *Usage
		Thinking        string
	}

	// Chunk is one incremental fragment of a streaming completion
	// (spec.md §6's on_chunk payload).
	Chunk struct {
		ContentDelta   string
		ToolCallDelta  *message.ToolCall
		ThinkingDelta  string
		FinishReason   string
	}

	// Client is the provider-agnostic model capability the engine
	// depends on. Implementations translate Request into a concrete
	// provider call; Error results are opaque LLMErrors and are always
	// terminal for the current step (spec.md §7).
	Client interface {
		// Complete performs a single non-streaming invocation.
		Complete(ctx context.Context, req Request) (Completion, error)
	}

	// Streamer is the optional streaming capability. Not every Client
	// implementation supports it; the engine only invokes StreamComplete
	// when a caller explicitly selects streaming execution.
	Streamer interface {
		// StreamComplete performs a streaming invocation, invoking onChunk
		// for each incremental fragment, and returns the final aggregated
		// Completion once the provider signals completion.
		StreamComplete(ctx context.Context, req Request, onChunk func(Chunk)) (Completion, error)
	}
)
