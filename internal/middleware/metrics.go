package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/angelxlakra/pulse-be/internal/metrics"
)

// MetricsMiddleware 创建HTTP指标中间件
// 记录每个请求的计数与耗时分布
func MetricsMiddleware(m *metrics.Metrics) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rec := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next(rec, r)

			m.RecordHTTPRequest(
				r.Method,
				r.URL.Path,
				strconv.Itoa(rec.statusCode),
				time.Since(start),
			)
		}
	}
}
