package middleware

import (
	"net/http"

	"github.com/angelxlakra/pulse-be/internal/config"
	"golang.org/x/time/rate"
)

// RateLimitMiddleware 限流中间件
// 令牌桶覆盖整个HTTP入口，包括WebSocket升级请求；
// 已建立的WebSocket连接上的消息不经过这里
func RateLimitMiddleware(cfg config.RateLimitConfig) func(http.HandlerFunc) http.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Burst)

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Retry-After", "1")
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}

			next(w, r)
		}
	}
}
