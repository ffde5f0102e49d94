package middleware

import (
	"net/http"

	"github.com/google/uuid"
)

const (
	// RequestIDHeader 请求ID的Header名称
	RequestIDHeader = "X-Request-ID"
)

// RequestIDMiddleware 请求ID中间件
// 为每个请求生成唯一的UUIDv7作为请求ID
func RequestIDMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// 优先沿用调用方携带的请求ID
		requestID := r.Header.Get(RequestIDHeader)

		if requestID == "" {
			id, err := uuid.NewV7()
			if err != nil {
				requestID = "unknown"
			} else {
				requestID = id.String()
			}
		}

		w.Header().Set(RequestIDHeader, requestID)
		r = r.WithContext(requestIDToContext(r.Context(), requestID))

		next(w, r)
	}
}
