package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"goa.design/agentcore/internal/schema"
)

// Strategy selects how a batch of tool calls is dispatched (spec.md §3, §4.2).
type Strategy struct {
	kind  strategyKind
	limit int
}

type strategyKind int

const (
	strategySequential strategyKind = iota
	strategyParallel
	strategyParallelWithLimit
)

// Sequential executes requests one at a time, in order.
func Sequential() Strategy { return Strategy{kind: strategySequential} }

// Parallel dispatches all requests at once and awaits all of them.
func Parallel() Strategy { return Strategy{kind: strategyParallel} }

// ParallelWithLimit dispatches at most n requests concurrently. n must be >=
// 1; ParallelWithLimit panics on n < 1 since it is always a construction-time
// constant, never derived from untrusted input.
func ParallelWithLimit(n int) Strategy {
	if n < 1 {
		panic("tool: ParallelWithLimit requires n >= 1")
	}
	return Strategy{kind: strategyParallelWithLimit, limit: n}
}

// DuplicateToolError is returned by NewRegistry when two Definitions share a
// Name.
type DuplicateToolError struct {
	Name string
}

func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("tool: duplicate tool name %q", e.Name)
}

// Registry holds a fixed set of tool Definitions and dispatches CallRequests
// against them. A Registry is immutable and safe for concurrent use once
// constructed (spec.md §4.2, §5: "treated as immutable during a run").
type Registry struct {
	byName map[string]Definition
	order  []string
}

// NewRegistry builds a Registry from defs. Construction fails with
// *DuplicateToolError if two definitions share a Name.
func NewRegistry(defs ...Definition) (*Registry, error) {
	byName := make(map[string]Definition, len(defs))
	order := make([]string, 0, len(defs))
	for _, d := range defs {
		if _, dup := byName[d.Name]; dup {
			return nil, &DuplicateToolError{Name: d.Name}
		}
		byName[d.Name] = d
		order = append(order, d.Name)
	}
	return &Registry{byName: byName, order: order}, nil
}

// Definitions returns the registered tool definitions in registration order.
func (r *Registry) Definitions() []Definition {
	out := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Lookup returns the Definition registered under name, if any.
func (r *Registry) Lookup(name string) (Definition, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// Execute dispatches a single CallRequest synchronously.
func (r *Registry) Execute(ctx context.Context, req CallRequest) CallResult {
	def, ok := r.byName[req.Name]
	if !ok {
		return CallResult{Err: NewError(KindUnknownTool, fmt.Sprintf("unknown tool %q", req.Name))}
	}

	var args json.RawMessage
	if err := json.Unmarshal([]byte(req.ArgumentsJSON), &args); err != nil {
		return CallResult{Err: NewError(KindArgumentParse, err.Error())}
	}

	if len(def.ParametersSchema) > 0 {
		if err := schema.Validate(def.ParametersSchema, args); err != nil {
			var se *schema.Error
			if errAs(err, &se) {
				return CallResult{Err: &Error{Kind: KindSchemaMismatch, Message: se.Message, Path: se.Path}}
			}
			return CallResult{Err: NewError(KindSchemaMismatch, err.Error())}
		}
	}

	result, err := runHandler(ctx, def.Handler, args)
	if err != nil {
		if te, ok := err.(*Error); ok {
			return CallResult{Err: te}
		}
		return CallResult{Err: NewHandlerError(err)}
	}
	return CallResult{Result: result}
}

// runHandler invokes the handler, converting a panic into a KindHandlerFailed
// error so a misbehaving tool cannot bring down the engine's step loop
// (spec.md §4.2: "Any exception or error thrown by the handler is captured").
func runHandler(ctx context.Context, h Handler, args json.RawMessage) (result json.RawMessage, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool handler panicked: %v", r)
		}
	}()
	if h == nil {
		return nil, fmt.Errorf("tool has no handler")
	}
	return h(args)
}

// ExecuteAsync dispatches a single CallRequest on its own goroutine and
// returns immediately. The returned channel receives the result once the
// call completes; cancelling ctx does not deliver a result early.
func (r *Registry) ExecuteAsync(ctx context.Context, req CallRequest) <-chan CallResult {
	out := make(chan CallResult, 1)
	go func() {
		out <- r.Execute(ctx, req)
	}()
	return out
}

// ExecuteAll dispatches reqs according to strategy and returns results in the
// same order as reqs, regardless of completion order (spec.md §4.2,
// Testable Property 3).
func (r *Registry) ExecuteAll(ctx context.Context, reqs []CallRequest, strat Strategy) ([]CallResult, error) {
	return r.ExecuteAllObserved(ctx, reqs, strat, nil, nil)
}

// ExecuteAllObserved behaves like ExecuteAll but invokes onStart immediately
// before dispatching request i and onComplete immediately after it finishes,
// regardless of strategy. This lets a caller (the engine) emit per-call
// lifecycle events without re-implementing the dispatch strategies. Either
// hook may be nil.
func (r *Registry) ExecuteAllObserved(ctx context.Context, reqs []CallRequest, strat Strategy, onStart func(i int, req CallRequest), onComplete func(i int, req CallRequest, res CallResult)) ([]CallResult, error) {
	switch strat.kind {
	case strategySequential:
		return r.executeSequential(ctx, reqs, onStart, onComplete), nil
	case strategyParallel:
		return r.executeParallel(ctx, reqs, len(reqs), onStart, onComplete)
	case strategyParallelWithLimit:
		return r.executeParallel(ctx, reqs, strat.limit, onStart, onComplete)
	default:
		return r.executeSequential(ctx, reqs, onStart, onComplete), nil
	}
}

func (r *Registry) executeSequential(ctx context.Context, reqs []CallRequest, onStart func(int, CallRequest), onComplete func(int, CallRequest, CallResult)) []CallResult {
	out := make([]CallResult, len(reqs))
	for i, req := range reqs {
		if onStart != nil {
			onStart(i, req)
		}
		out[i] = r.Execute(ctx, req)
		if onComplete != nil {
			onComplete(i, req, out[i])
		}
	}
	return out
}

// executeParallel fans out reqs with at most `limit` in flight at once, using
// an errgroup for join semantics and a weighted semaphore to bound
// concurrency (the pattern the wider corpus reaches for; the registry itself
// never returns an error from a per-call failure, only from a canceled
// context).
func (r *Registry) executeParallel(ctx context.Context, reqs []CallRequest, limit int, onStart func(int, CallRequest), onComplete func(int, CallRequest, CallResult)) ([]CallResult, error) {
	if limit <= 0 {
		limit = len(reqs)
	}
	out := make([]CallResult, len(reqs))
	sem := semaphore.NewWeighted(int64(limit))
	g, gctx := errgroup.WithContext(ctx)
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)
			if onStart != nil {
				onStart(i, req)
			}
			out[i] = r.Execute(ctx, req)
			if onComplete != nil {
				onComplete(i, req, out[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}
	return out, nil
}

// errAs is a small errors.As wrapper kept local to avoid importing errors
// twice in call sites that already shadow the package name.
func errAs(err error, target **schema.Error) bool {
	se, ok := err.(*schema.Error)
	if !ok {
		return false
	}
	*target = se
	return true
}
