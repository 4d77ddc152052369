package agent

// ReasoningEffort is a closed hint passed through to the LLM capability
// uninterpreted by the engine (spec.md §3, §6).
type ReasoningEffort string

const (
	// ReasoningNone means no reasoning-effort hint is set.
	ReasoningNone ReasoningEffort = ""
	// ReasoningLow requests minimal reasoning.
	ReasoningLow ReasoningEffort = "low"
	// ReasoningMedium requests moderate reasoning.
	ReasoningMedium ReasoningEffort = "medium"
	// ReasoningHigh requests maximal reasoning.
	ReasoningHigh ReasoningEffort = "high"
)

// CompletionOptions carries per-run LLM sampling and reasoning parameters
// (spec component C4, §3). Tools are deliberately not a field here: the
// effective tool schema list (user tools plus synthetic handoff tools) is
// computed by the engine at call time and is never serialized.
type CompletionOptions struct {
	Temperature      float64
	TopP             float64
	MaxTokens        *int
	PresencePenalty  float64
	FrequencyPenalty float64
	ReasoningEffort  ReasoningEffort
	BudgetTokens     *int
}

// DefaultCompletionOptions returns zero-valued sampling parameters with no
// reasoning hint and no token caps. Callers typically override Temperature/
// TopP/MaxTokens for their provider.
func DefaultCompletionOptions() CompletionOptions {
	return CompletionOptions{}
}
