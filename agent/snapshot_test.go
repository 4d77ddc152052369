package agent

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goa.design/agentcore/message"
	"goa.design/agentcore/tool"
)

func TestSnapshotRoundTrip(t *testing.T) {
	t.Parallel()

	sm := "be helpful"
	maxTokens := 512
	state, err := Initialize("hi", nil, &sm, CompletionOptions{
		Temperature:     0.5,
		ReasoningEffort: ReasoningHigh,
		MaxTokens:       &maxTokens,
	}, nil)
	require.NoError(t, err)
	state = state.AppendLog("started")
	state, err = state.AppendMessage(message.Assistant("hello there", nil))
	require.NoError(t, err)
	state = state.WithStatus(Complete())

	data, err := state.Snapshot()
	require.NoError(t, err)

	registry, err := tool.NewRegistry()
	require.NoError(t, err)
	restored, err := FromSnapshot(data, registry)
	require.NoError(t, err)

	assert.Equal(t, state.Conversation().Messages(), restored.Conversation().Messages())
	assert.Equal(t, state.Status().Kind(), restored.Status().Kind())
	assert.Equal(t, state.Logs(), restored.Logs())
	assert.Equal(t, state.CompletionOptions(), restored.CompletionOptions())

	gotSM, ok := restored.SystemMessage()
	assert.True(t, ok)
	assert.Equal(t, sm, gotSM)

	assert.Nil(t, restored.Handoffs(), "handoffs are never part of a snapshot")
	assert.Same(t, registry, restored.ToolRegistry())
}

func TestSnapshotHandoffRequestedStatusRoundTrips(t *testing.T) {
	t.Parallel()
	state, err := Initialize("hi", nil, nil, DefaultCompletionOptions(), nil)
	require.NoError(t, err)
	state = state.WithStatus(HandoffRequested("refund-agent", "billing issue"))

	data, err := state.Snapshot()
	require.NoError(t, err)

	restored, err := FromSnapshot(data, nil)
	require.NoError(t, err)

	id, ok := restored.Status().HandoffID()
	assert.True(t, ok)
	assert.Equal(t, HandoffID("refund-agent"), id)
	reason, ok := restored.Status().Reason()
	assert.True(t, ok)
	assert.Equal(t, "billing issue", reason)
}

// TestSnapshotRoundTripProperty verifies Testable Property 7: for any
// reachable AgentState, Snapshot followed by FromSnapshot with the original
// registry reproduces an equivalent state (modulo the handoffs table, which
// is documented as excluded from the wire format).
func TestSnapshotRoundTripProperty(t *testing.T) {
	t.Parallel()
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	registry, err := tool.NewRegistry()
	require.NoError(t, err)

	properties.Property("conversation and status survive a snapshot round trip", prop.ForAll(
		func(query, logEntry string) bool {
			state, err := Initialize(query, registry, nil, DefaultCompletionOptions(), nil)
			if err != nil {
				return false
			}
			state = state.AppendLog(logEntry)

			data, err := state.Snapshot()
			if err != nil {
				return false
			}
			restored, err := FromSnapshot(data, registry)
			if err != nil {
				return false
			}
			if len(restored.Conversation().Messages()) != len(state.Conversation().Messages()) {
				return false
			}
			if len(restored.Logs()) != 1 || restored.Logs()[0] != logEntry {
				return false
			}
			return restored.Status().Kind() == state.Status().Kind()
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
