package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goa.design/agentcore/message"
)

func TestInitializeBuildsConversationWithSystemMessage(t *testing.T) {
	t.Parallel()
	sm := "be terse"
	state, err := Initialize("what's the weather", nil, &sm, DefaultCompletionOptions(), nil)
	require.NoError(t, err)

	msgs := state.Conversation().Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, message.RoleSystem, msgs[0].Role())
	assert.Equal(t, message.RoleUser, msgs[1].Role())
	assert.Equal(t, StatusInProgress, state.Status().Kind())

	got, ok := state.SystemMessage()
	assert.True(t, ok)
	assert.Equal(t, sm, got)

	query, ok := state.InitialQuery()
	assert.True(t, ok)
	assert.Equal(t, "what's the weather", query)
}

func TestInitializeWithoutSystemMessage(t *testing.T) {
	t.Parallel()
	state, err := Initialize("hi", nil, nil, DefaultCompletionOptions(), nil)
	require.NoError(t, err)
	assert.Len(t, state.Conversation().Messages(), 1)
	_, ok := state.SystemMessage()
	assert.False(t, ok)
}

// TestAgentStateImmutability verifies Testable Property 1: every mutator
// returns a new value and never changes what earlier holders observe.
func TestAgentStateImmutability(t *testing.T) {
	t.Parallel()
	state, err := Initialize("hi", nil, nil, DefaultCompletionOptions(), nil)
	require.NoError(t, err)

	before := state

	_ = state.WithStatus(Complete())
	assert.Equal(t, StatusInProgress, before.Status().Kind())

	_, err = state.AppendMessage(message.Assistant("done", nil))
	require.NoError(t, err)
	assert.Equal(t, 1, before.Conversation().Len())

	_ = state.AppendLog("entry")
	assert.Empty(t, before.Logs())
}

func TestAppendLogDoesNotAliasAcrossStates(t *testing.T) {
	t.Parallel()
	state, err := Initialize("hi", nil, nil, DefaultCompletionOptions(), nil)
	require.NoError(t, err)

	a := state.AppendLog("first")
	b := a.AppendLog("second")

	assert.Equal(t, []string{"first"}, a.Logs())
	assert.Equal(t, []string{"first", "second"}, b.Logs())
}

func TestHandoffsDefensiveCopy(t *testing.T) {
	t.Parallel()
	target := &Definition{ID: "refund-agent"}
	handoffs := map[HandoffID]Handoff{
		"h1": NewHandoff(target, nil),
	}
	state, err := Initialize("hi", nil, nil, DefaultCompletionOptions(), handoffs)
	require.NoError(t, err)

	got := state.Handoffs()
	delete(got, "h1")

	_, ok := state.Handoff("h1")
	assert.True(t, ok, "mutating the returned map must not affect the state")
}
