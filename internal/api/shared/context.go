package shared

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"time"
)

// ContextKey is the type of request context keys set by the API layer.
type ContextKey string

const (
	// OperatorContextKey holds the authenticated operator's name.
	OperatorContextKey ContextKey = "operator"

	// TraceIDKey is the key for the trace ID in the request context
	TraceIDKey ContextKey = "traceID"

	// TraceIDLength is the number of random bytes in a trace ID.
	TraceIDLength = 16
)

// SetTraceID adds a fresh trace ID to the context.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, generateTraceID())
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, _ := ctx.Value(TraceIDKey).(string)
	return traceID
}

// WithOperator stores the authenticated operator name in ctx.
func WithOperator(ctx context.Context, operator string) context.Context {
	return context.WithValue(ctx, OperatorContextKey, operator)
}

// GetOperator returns the authenticated operator name, if any.
func GetOperator(ctx context.Context) (string, bool) {
	op, ok := ctx.Value(OperatorContextKey).(string)
	return op, ok && op != ""
}

// generateTraceID returns 32 hex characters. If crypto/rand fails it falls
// back to a time-derived value, never a constant.
func generateTraceID() string {
	b := make([]byte, TraceIDLength)
	if _, err := rand.Read(b); err != nil {
		now := time.Now()
		binary.BigEndian.PutUint64(b[:8], uint64(now.UnixNano()))
		binary.BigEndian.PutUint64(b[8:], uint64(now.Unix())^uint64(now.Nanosecond()))
	}
	return hex.EncodeToString(b)
}
