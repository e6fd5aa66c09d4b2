package ctxutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestRequestData(t *testing.T) {
	if got := UserID(context.Background()); got != uuid.Nil {
		t.Fatalf("empty ctx: want nil uuid, got %s", got)
	}
	id := uuid.New()
	ctx := WithRequestData(context.Background(), &RequestData{UserID: id})
	if got := UserID(ctx); got != id {
		t.Fatalf("UserID: want=%s got=%s", id, got)
	}
	ctx = WithTraceData(ctx, &TraceData{TraceID: "t", RequestID: "r"})
	if td := GetTraceData(ctx); td == nil || td.RequestID != "r" {
		t.Fatalf("trace data lost: %+v", td)
	}
	if Default(nil) == nil {
		t.Fatalf("Default(nil) returned nil")
	}
}

func TestLogFields(t *testing.T) {
	if got := LogFields(context.Background()); len(got) != 0 {
		t.Fatalf("empty ctx: want no fields, got %v", got)
	}
	id := uuid.New()
	ctx := WithRequestData(context.Background(), &RequestData{UserID: id})
	ctx = WithTraceData(ctx, &TraceData{RequestID: "req-1"})
	got := LogFields(ctx)
	want := []interface{}{"request_id", "req-1", "user_id", id.String()}
	if len(got) != len(want) {
		t.Fatalf("fields: want=%v got=%v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("fields[%d]: want=%v got=%v", i, want[i], got[i])
		}
	}
}

func TestDetachKeepsValuesDropsCancel(t *testing.T) {
	id := uuid.New()
	parent, cancel := context.WithTimeout(WithRequestData(context.Background(), &RequestData{UserID: id}), time.Millisecond)
	cancel()

	ctx := Detach(parent)
	if ctx.Err() != nil {
		t.Fatalf("detached ctx inherited cancellation: %v", ctx.Err())
	}
	if _, ok := ctx.Deadline(); ok {
		t.Fatalf("detached ctx inherited deadline")
	}
	if UserID(ctx) != id {
		t.Fatalf("detached ctx lost request data")
	}
}
