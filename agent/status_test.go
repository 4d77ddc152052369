package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAgentStatusAccessorsByKind(t *testing.T) {
	t.Parallel()

	t.Run("HandoffRequested exposes id and reason only for that kind", func(t *testing.T) {
		t.Parallel()
		s := HandoffRequested("refund-agent", "billing dispute")
		id, ok := s.HandoffID()
		assert.True(t, ok)
		assert.Equal(t, HandoffID("refund-agent"), id)
		reason, ok := s.Reason()
		assert.True(t, ok)
		assert.Equal(t, "billing dispute", reason)

		other := InProgress()
		_, ok = other.HandoffID()
		assert.False(t, ok)
	})

	t.Run("Reason is absent when empty", func(t *testing.T) {
		t.Parallel()
		s := HandoffRequested("refund-agent", "")
		_, ok := s.Reason()
		assert.False(t, ok)
	})

	t.Run("Failed carries the error message", func(t *testing.T) {
		t.Parallel()
		s := Failed("llm call timed out")
		assert.Equal(t, "llm call timed out", s.ErrorMessage())
		assert.True(t, s.IsTerminal())
	})

	t.Run("Complete is terminal, InProgress and WaitingForTools are not", func(t *testing.T) {
		t.Parallel()
		assert.True(t, Complete().IsTerminal())
		assert.False(t, InProgress().IsTerminal())
		assert.False(t, WaitingForTools().IsTerminal())
	})
}
