package metrics

import (
	"runtime"
	"time"

	"go.uber.org/zap"
)

// Collector 周期性刷新系统与会话规模指标
type Collector struct {
	metrics *Metrics
	counts  func() (sessions, members int)
	logger  *zap.Logger
	stopCh  chan struct{}
}

// NewCollector 创建指标收集循环，counts 提供当前会话/成员数量
func NewCollector(metrics *Metrics, counts func() (int, int), logger *zap.Logger) *Collector {
	return &Collector{
		metrics: metrics,
		counts:  counts,
		logger:  logger,
		stopCh:  make(chan struct{}),
	}
}

// Start 开始收集
func (c *Collector) Start() {
	go c.collectLoop()
	c.logger.Info("metrics collector started")
}

// Stop 停止收集
func (c *Collector) Stop() {
	close(c.stopCh)
	c.logger.Info("metrics collector stopped")
}

// collectLoop 收集循环
func (c *Collector) collectLoop() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopCh:
			return
		}
	}
}

// collect 采集一轮指标
func (c *Collector) collect() {
	numGoroutines := runtime.NumGoroutine()
	c.metrics.GoRoutines.Set(float64(numGoroutines))

	sessions, members := c.counts()
	c.metrics.SetSessionCounts(sessions, members)

	c.logger.Debug("metrics collected",
		zap.Int("goroutines", numGoroutines),
		zap.Int("sessions", sessions),
		zap.Int("members", members))
}
