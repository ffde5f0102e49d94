package middleware

import (
	"net/http"

	"github.com/angelxlakra/pulse-be/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// TracingMiddleware 创建链路追踪中间件
func TracingMiddleware(tracer *tracing.Tracer) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if !tracer.IsEnabled() {
				next(w, r)
				return
			}

			// 从 HTTP 头中提取追踪上下文
			headers := make(map[string][]string)
			for key, values := range r.Header {
				headers[key] = values
			}
			ctx := tracer.ExtractHTTPHeaders(r.Context(), headers)

			spanName := r.Method + " " + r.URL.Path
			ctx, span := tracer.Start(ctx, spanName,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					semconv.HTTPMethod(r.Method),
					semconv.HTTPRoute(r.URL.Path),
					semconv.HTTPTarget(r.URL.RequestURI()),
					semconv.NetHostName(r.Host),
					attribute.String("http.client_ip", r.RemoteAddr),
				),
			)
			defer span.End()

			rec := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			// 将追踪信息添加到响应头
			if traceID := tracer.GetTraceID(ctx); traceID != "" {
				rec.Header().Set("X-Trace-ID", traceID)
			}
			if spanID := tracer.GetSpanID(ctx); spanID != "" {
				rec.Header().Set("X-Span-ID", spanID)
			}

			next(rec, r.WithContext(ctx))

			span.SetAttributes(semconv.HTTPStatusCode(rec.statusCode))
			if rec.statusCode >= 400 {
				span.SetStatus(codes.Error, http.StatusText(rec.statusCode))
			} else {
				span.SetStatus(codes.Ok, "")
			}
		}
	}
}
