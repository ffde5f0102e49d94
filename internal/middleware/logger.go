package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// responseWriter 包装http.ResponseWriter以记录状态码
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	size, err := rw.ResponseWriter.Write(b)
	rw.size += size
	return size, err
}

// LoggerMiddleware 日志中间件
// 记录每个HTTP请求的详细信息
func LoggerMiddleware(logger *zap.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			startTime := time.Now()

			wrapped := &responseWriter{
				ResponseWriter: w,
				statusCode:     200, // 默认状态码
			}

			requestID := RequestIDFromContext(r.Context())

			next(wrapped, r)

			logger.Info("http request",
				zap.String("request_id", requestID),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Int("status", wrapped.statusCode),
				zap.Int("size", wrapped.size),
				zap.Duration("duration", time.Since(startTime)))
		}
	}
}
