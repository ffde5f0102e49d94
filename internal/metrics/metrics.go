package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics 指标收集器
type Metrics struct {
	// HTTP 请求指标
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// WebSocket 指标
	WSConnectionsTotal  *prometheus.CounterVec
	WSActiveConnections prometheus.Gauge
	WSMessagesTotal     *prometheus.CounterVec

	// 业务指标
	JoinsTotal     prometheus.Counter
	SwipesTotal    prometheus.Counter
	MatchesTotal   prometheus.Counter
	ActiveSessions prometheus.Gauge
	ActiveMembers  prometheus.Gauge

	// 系统指标
	ErrorsTotal *prometheus.CounterVec
	GoRoutines  prometheus.Gauge
}

// NewMetrics 创建指标收集器
func NewMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency distributions",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms to ~16s
			},
			[]string{"method", "path"},
		),

		WSConnectionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "websocket_connections_total",
				Help:      "Total number of WebSocket connections",
			},
			[]string{"status"}, // status: connected/disconnected
		),
		WSActiveConnections: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "websocket_active_connections",
				Help:      "Number of active WebSocket connections",
			},
		),
		WSMessagesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "websocket_messages_total",
				Help:      "Total number of WebSocket messages",
			},
			[]string{"type", "direction"}, // direction: sent/received
		),

		JoinsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "joins_total",
				Help:      "Total number of session joins",
			},
		),
		SwipesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "swipes_total",
				Help:      "Total number of recorded swipes",
			},
		),
		MatchesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "matches_total",
				Help:      "Total number of detected matches",
			},
		),
		ActiveSessions: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "active_sessions",
				Help:      "Number of live sessions",
			},
		),
		ActiveMembers: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "active_members",
				Help:      "Number of members across all sessions",
			},
		),

		ErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "errors_total",
				Help:      "Total number of errors",
			},
			[]string{"type"},
		),
		GoRoutines: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "goroutines",
				Help:      "Number of goroutines",
			},
		),
	}
}

// RecordHTTPRequest 记录 HTTP 请求
func (m *Metrics) RecordHTTPRequest(method, path, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordWSConnection 记录 WebSocket 连接
func (m *Metrics) RecordWSConnection(connected bool) {
	if connected {
		m.WSConnectionsTotal.WithLabelValues("connected").Inc()
		m.WSActiveConnections.Inc()
	} else {
		m.WSConnectionsTotal.WithLabelValues("disconnected").Inc()
		m.WSActiveConnections.Dec()
	}
}

// RecordWSMessage 记录 WebSocket 消息
func (m *Metrics) RecordWSMessage(msgType, direction string) {
	m.WSMessagesTotal.WithLabelValues(msgType, direction).Inc()
}

// RecordJoin 记录加入会话
func (m *Metrics) RecordJoin() {
	m.JoinsTotal.Inc()
}

// RecordSwipe 记录滑动，匹配成立时一并计数
func (m *Metrics) RecordSwipe(matched bool) {
	m.SwipesTotal.Inc()
	if matched {
		m.MatchesTotal.Inc()
	}
}

// RecordError 记录错误
func (m *Metrics) RecordError(errType string) {
	m.ErrorsTotal.WithLabelValues(errType).Inc()
}

// SetSessionCounts 更新会话/成员数量
func (m *Metrics) SetSessionCounts(sessions, members int) {
	m.ActiveSessions.Set(float64(sessions))
	m.ActiveMembers.Set(float64(members))
}
