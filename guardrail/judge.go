package guardrail

import (
	"context"
	"fmt"
)

// JudgeProtocolError indicates the judge LLM returned a response that could
// not be interpreted as a numeric score in [0,1] (spec.md §4.3).
type JudgeProtocolError struct {
	Raw string
}

func (e *JudgeProtocolError) Error() string {
	return fmt.Sprintf("guardrail: judge returned non-numeric or out-of-range score: %q", e.Raw)
}

// Scorer is the minimal LLM-call capability an LLM-as-judge guardrail
// depends on: given an evaluation prompt and the candidate value, it returns
// a numeric score. Concrete implementations adapt a provider's chat
// completion capability (spec.md §6's model.Client) to this narrow
// interface; the guardrail package itself has no provider dependency.
type Scorer interface {
	Score(ctx context.Context, model, prompt, value string) (score float64, raw string, err error)
}

// ScorerFunc adapts a plain function to Scorer.
type ScorerFunc func(ctx context.Context, model, prompt, value string) (float64, string, error)

func (f ScorerFunc) Score(ctx context.Context, model, prompt, value string) (float64, string, error) {
	return f(ctx, model, prompt, value)
}

// LLMJudge builds a Guardrail that delegates to scorer to produce a [0,1]
// score and passes iff score >= threshold. judgeModel may be empty, in which
// case the Scorer implementation chooses a default.
func LLMJudge(scorer Scorer, evaluationPrompt string, threshold float64, judgeModel string) Guardrail {
	return Func{
		FuncName: "llm_judge",
		FuncDesc: fmt.Sprintf("LLM-as-judge, threshold=%.2f", threshold),
		Fn: func(ctx context.Context, value string) (string, error) {
			score, raw, err := scorer.Score(ctx, judgeModel, evaluationPrompt, value)
			if err != nil {
				return "", &Error{Name: "llm_judge", Message: err.Error()}
			}
			if score < 0 || score > 1 {
				return "", &JudgeProtocolError{Raw: raw}
			}
			if score < threshold {
				return "", &Error{
					Name:    "llm_judge",
					Message: fmt.Sprintf("score %.3f below threshold %.3f", score, threshold),
				}
			}
			return value, nil
		},
	}
}
