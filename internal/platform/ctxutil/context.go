package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

// Default returns context.Background() when ctx is nil.
func Default(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// Detach keeps the values of ctx (caller, trace ids) but not its deadline or
// cancellation. Background syncs outlive the request that scheduled them.
func Detach(ctx context.Context) context.Context {
	return context.WithoutCancel(Default(ctx))
}

type traceDataKey struct{}

// TraceData correlates log lines and realtime events with the request that caused them.
type TraceData struct {
	TraceID   string
	RequestID string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if ctx == nil {
		return nil
	}
	td, _ := ctx.Value(traceDataKey{}).(*TraceData)
	return td
}

// LogFields returns the key/value pairs identifying the request in ctx, for logger.With
// or for appending to a log call. Empty values are skipped.
func LogFields(ctx context.Context) []interface{} {
	var fields []interface{}
	if td := GetTraceData(ctx); td != nil {
		if td.TraceID != "" {
			fields = append(fields, "trace_id", td.TraceID)
		}
		if td.RequestID != "" {
			fields = append(fields, "request_id", td.RequestID)
		}
	}
	if id := UserID(ctx); id != uuid.Nil {
		fields = append(fields, "user_id", id.String())
	}
	return fields
}
