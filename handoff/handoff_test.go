package handoff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goa.design/agentcore/agent"
	"goa.design/agentcore/message"
)

func TestDeriveIDIsDeterministic(t *testing.T) {
	t.Parallel()
	target := &agent.Definition{ID: "refund-agent"}
	id1 := DeriveID(target)
	id2 := DeriveID(target)
	assert.Equal(t, id1, id2)

	other := &agent.Definition{ID: "billing-agent"}
	assert.NotEqual(t, id1, DeriveID(other))
}

func TestSyntheticToolDescribesTransferReason(t *testing.T) {
	t.Parallel()
	reason := "route billing disputes"
	h := agent.NewHandoff(&agent.Definition{ID: "billing-agent"}, &reason)
	tool := SyntheticTool("h1", h)
	assert.Equal(t, "h1", tool.Name)
	assert.Contains(t, tool.Description, reason)
	require.NotNil(t, tool.Handler)

	_, err := tool.Handler([]byte(`{"reason":"x"}`))
	require.Error(t, err, "the synthetic handler must never actually run")
}

func TestDetectFindsFirstMatchingCallInOrder(t *testing.T) {
	t.Parallel()
	handoffs := map[agent.HandoffID]agent.Handoff{
		"billing-agent": agent.NewHandoff(&agent.Definition{ID: "billing-agent"}, nil),
	}
	calls := []message.ToolCall{
		{ID: "1", Name: "search", ArgumentsJSON: "{}"},
		{ID: "2", Name: "billing-agent", ArgumentsJSON: `{"reason":"dispute"}`},
		{ID: "3", Name: "billing-agent", ArgumentsJSON: `{"reason":"ignored"}`},
	}

	call, h, reason, ok := Detect(calls, handoffs)
	require.True(t, ok)
	assert.Equal(t, "2", call.ID)
	assert.Equal(t, "dispute", reason)
	assert.Equal(t, handoffs["billing-agent"], h)
}

func TestDetectNoMatch(t *testing.T) {
	t.Parallel()
	calls := []message.ToolCall{{ID: "1", Name: "search", ArgumentsJSON: "{}"}}
	_, _, _, ok := Detect(calls, map[agent.HandoffID]agent.Handoff{})
	assert.False(t, ok)
}

func TestBuildTargetStatePreservesContextByDefault(t *testing.T) {
	t.Parallel()
	source, err := agent.Initialize("help me", nil, nil, agent.DefaultCompletionOptions(), nil)
	require.NoError(t, err)
	source, err = source.AppendMessage(message.Assistant("let me transfer you", nil))
	require.NoError(t, err)

	target := &agent.Definition{ID: "billing-agent"}
	h := agent.NewHandoff(target, nil)

	next, err := BuildTargetState(source, h, "billing dispute")
	require.NoError(t, err)

	assert.Len(t, next.Conversation().Messages(), 2)
	assert.Contains(t, next.Logs()[0], "billing dispute")
}

func TestBuildTargetStateWithoutPreserveContextKeepsOnlyLastUser(t *testing.T) {
	t.Parallel()
	source, err := agent.Initialize("help me", nil, nil, agent.DefaultCompletionOptions(), nil)
	require.NoError(t, err)
	source, err = source.AppendMessage(message.Assistant("routing", nil))
	require.NoError(t, err)

	target := &agent.Definition{ID: "billing-agent"}
	h := agent.Handoff{Target: target, PreserveContext: false}

	next, err := BuildTargetState(source, h, "")
	require.NoError(t, err)

	msgs := next.Conversation().Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, message.RoleUser, msgs[0].Role())
	assert.Equal(t, "help me", msgs[0].Content())
}

func TestBuildTargetStateTargetSystemMessageWins(t *testing.T) {
	t.Parallel()
	sourceSM := "source persona"
	source, err := agent.Initialize("help me", nil, &sourceSM, agent.DefaultCompletionOptions(), nil)
	require.NoError(t, err)

	targetSM := "target persona"
	target := &agent.Definition{ID: "billing-agent", SystemMessage: &targetSM}
	h := agent.Handoff{Target: target, PreserveContext: true, TransferSystemMessage: true}

	next, err := BuildTargetState(source, h, "")
	require.NoError(t, err)

	msgs := next.Conversation().Messages()
	require.NotEmpty(t, msgs)
	assert.Equal(t, message.RoleSystem, msgs[0].Role())
	assert.Equal(t, targetSM, msgs[0].Content())
}

func TestBuildTargetStateTransfersSourceSystemMessageWhenTargetHasNone(t *testing.T) {
	t.Parallel()
	sourceSM := "source persona"
	source, err := agent.Initialize("help me", nil, &sourceSM, agent.DefaultCompletionOptions(), nil)
	require.NoError(t, err)

	target := &agent.Definition{ID: "billing-agent"}
	h := agent.Handoff{Target: target, PreserveContext: true, TransferSystemMessage: true}

	next, err := BuildTargetState(source, h, "")
	require.NoError(t, err)

	msgs := next.Conversation().Messages()
	require.NotEmpty(t, msgs)
	assert.Equal(t, message.RoleSystem, msgs[0].Role())
	assert.Equal(t, sourceSM, msgs[0].Content())
}
