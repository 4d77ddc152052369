// Package telemetry defines the logging, metrics, and tracing seams that
// engine.Config carries (ambient stack, grounded on
// runtime/agent/telemetry in the teacher). Callers wire in a no-op
// implementation (the default), the clue/OTEL-backed implementation in this
// package, or their own.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type (
	// Logger emits structured, leveled log messages keyed by alternating
	// key/value pairs, matching the corpus's convention of passing
	// "component", "run_id", "tool", etc. as keyvals rather than building ad
	// hoc format strings.
	Logger interface {
		Debug(ctx context.Context, msg string, keyvals ...any)
		Info(ctx context.Context, msg string, keyvals ...any)
		Warn(ctx context.Context, msg string, keyvals ...any)
		Error(ctx context.Context, msg string, keyvals ...any)
	}

	// Metrics records counters, timers, and gauges. The engine itself
	// records none.
	Metrics interface {
		IncCounter(name string, value float64, tags ...string)
		RecordTimer(name string, d time.Duration, tags ...string)
		RecordGauge(name string, value float64, tags ...string)
	}

	// Tracer opens spans. The engine itself opens none.
	Tracer interface {
		Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, Span)
	}

	// Span is the subset of an OTEL span that Tracer.Start returns.
	Span interface {
		End(opts ...trace.SpanEndOption)
		AddEvent(name string, keyvals ...any)
		SetStatus(code codes.Code, description string)
		RecordError(err error, opts ...trace.EventOption)
	}
)
