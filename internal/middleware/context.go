package middleware

import "context"

type contextKey string

const (
	requestIDKey contextKey = "request_id"
)

// requestIDToContext 将请求ID添加到context
func requestIDToContext(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext 从context获取请求ID
func RequestIDFromContext(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}
