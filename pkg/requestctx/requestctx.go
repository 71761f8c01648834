package requestctx

import "context"

type ctxKey string

const correlationIDKey ctxKey = "correlation_id"

// WithCorrelationID tags a context with a correlation ID. The UI mints one
// per user-initiated fetch so the client's diagnostic logs for a single
// action (primary request plus any fallback requests) group together.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// CorrelationID fetches the correlation ID from the context, if any.
func CorrelationID(ctx context.Context) string {
	v := ctx.Value(correlationIDKey)
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
