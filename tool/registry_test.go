package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoTool(name string) Definition {
	return Definition{
		Name: name,
		Handler: func(args json.RawMessage) (json.RawMessage, error) {
			return args, nil
		},
	}
}

func failingTool(name string) Definition {
	return Definition{
		Name: name,
		Handler: func(json.RawMessage) (json.RawMessage, error) {
			return nil, fmt.Errorf("boom")
		},
	}
}

func TestNewRegistryRejectsDuplicateNames(t *testing.T) {
	t.Parallel()
	_, err := NewRegistry(echoTool("a"), echoTool("a"))
	require.Error(t, err)
	var dup *DuplicateToolError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "a", dup.Name)
}

func TestExecuteUnknownTool(t *testing.T) {
	t.Parallel()
	reg, err := NewRegistry()
	require.NoError(t, err)
	res := reg.Execute(context.Background(), CallRequest{Name: "missing", ArgumentsJSON: "{}"})
	require.False(t, res.Ok())
	assert.Equal(t, KindUnknownTool, res.Err.Kind)
}

func TestExecuteHandlerPanicIsContained(t *testing.T) {
	t.Parallel()
	reg, err := NewRegistry(Definition{
		Name: "panics",
		Handler: func(json.RawMessage) (json.RawMessage, error) {
			panic("handler exploded")
		},
	})
	require.NoError(t, err)
	res := reg.Execute(context.Background(), CallRequest{Name: "panics", ArgumentsJSON: "{}"})
	require.False(t, res.Ok())
	assert.Equal(t, KindHandlerFailed, res.Err.Kind)
}

func TestExecuteAllOrderPreservedAcrossStrategies(t *testing.T) {
	t.Parallel()
	reg, err := NewRegistry(echoTool("a"), echoTool("b"), failingTool("c"))
	require.NoError(t, err)

	reqs := []CallRequest{
		{Name: "a", ArgumentsJSON: `1`},
		{Name: "c", ArgumentsJSON: `2`},
		{Name: "b", ArgumentsJSON: `3`},
	}

	for _, strat := range []Strategy{Sequential(), Parallel(), ParallelWithLimit(2)} {
		results, err := reg.ExecuteAll(context.Background(), reqs, strat)
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.True(t, results[0].Ok())
		assert.Equal(t, json.RawMessage(`1`), results[0].Result)
		assert.False(t, results[1].Ok())
		assert.True(t, results[2].Ok())
		assert.Equal(t, json.RawMessage(`3`), results[2].Result)
	}
}

// TestExecuteAllStrategyEquivalence verifies that, for any batch of requests
// against pure echo handlers, every strategy produces the same
// index-ordered results regardless of dispatch order.
func TestExecuteAllStrategyEquivalence(t *testing.T) {
	t.Parallel()
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("sequential and parallel agree on result order", prop.ForAll(
		func(n int) bool {
			defs := make([]Definition, n)
			reqs := make([]CallRequest, n)
			for i := 0; i < n; i++ {
				name := fmt.Sprintf("t%d", i)
				defs[i] = echoTool(name)
				reqs[i] = CallRequest{Name: name, ArgumentsJSON: fmt.Sprintf("%d", i)}
			}
			reg, err := NewRegistry(defs...)
			if err != nil {
				return false
			}
			seq, err := reg.ExecuteAll(context.Background(), reqs, Sequential())
			if err != nil {
				return false
			}
			par, err := reg.ExecuteAll(context.Background(), reqs, Parallel())
			if err != nil {
				return false
			}
			if len(seq) != len(par) {
				return false
			}
			for i := range seq {
				if string(seq[i].Result) != string(par[i].Result) {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 20),
	))

	properties.TestingRun(t)
}

func TestExecuteAllObservedHooksFireInOrder(t *testing.T) {
	t.Parallel()
	reg, err := NewRegistry(echoTool("a"), echoTool("b"))
	require.NoError(t, err)

	var started, completed int32
	var order []string
	onStart := func(i int, req CallRequest) {
		atomic.AddInt32(&started, 1)
		order = append(order, fmt.Sprintf("start:%d", i))
	}
	onComplete := func(i int, req CallRequest, res CallResult) {
		atomic.AddInt32(&completed, 1)
		order = append(order, fmt.Sprintf("complete:%d", i))
	}

	reqs := []CallRequest{{Name: "a", ArgumentsJSON: "1"}, {Name: "b", ArgumentsJSON: "2"}}
	results, err := reg.ExecuteAllObserved(context.Background(), reqs, Sequential(), onStart, onComplete)
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.EqualValues(t, 2, started)
	assert.EqualValues(t, 2, completed)
	assert.Equal(t, []string{"start:0", "complete:0", "start:1", "complete:1"}, order)
}

func TestParallelWithLimitPanicsOnInvalidN(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { ParallelWithLimit(0) })
}
