package svc

import (
	"context"
	"fmt"
	"time"

	"github.com/angelxlakra/pulse-be/internal/config"
	"github.com/angelxlakra/pulse-be/internal/metrics"
	"github.com/angelxlakra/pulse-be/internal/session"
	"github.com/angelxlakra/pulse-be/internal/tracing"
	"github.com/angelxlakra/pulse-be/internal/websocket"
	"go.uber.org/zap"
)

// ServiceContext 服务上下文
type ServiceContext struct {
	Config    config.Config
	Logger    *zap.Logger
	Store     *session.Store
	WSServer  *websocket.Server
	Metrics   *metrics.Metrics
	Collector *metrics.Collector
	Tracer    *tracing.Tracer
}

// NewServiceContext 创建服务上下文
func NewServiceContext(c config.Config) *ServiceContext {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}

	// 创建会话存储
	store := session.NewStore(&session.StoreConfig{
		GraceWindow: time.Duration(c.Session.GraceWindowSeconds) * time.Second,
		Logger:      logger,
	})

	// 创建指标收集器
	m := metrics.NewMetrics("pulse", "backend")
	collector := metrics.NewCollector(m, store.Counts, logger)
	collector.Start()

	// 创建链路追踪器
	tracer, err := tracing.NewTracer(&c.Tracing, logger)
	if err != nil {
		logger.Error("failed to create tracer", zap.Error(err))
		panic(fmt.Sprintf("tracing initialization failed: %v", err))
	}

	// 创建WebSocket服务器
	wsServer := websocket.NewServer(store, logger, m)

	return &ServiceContext{
		Config:    c,
		Logger:    logger,
		Store:     store,
		WSServer:  wsServer,
		Metrics:   m,
		Collector: collector,
		Tracer:    tracer,
	}
}

// Close 关闭服务上下文
func (ctx *ServiceContext) Close() {
	if ctx.Collector != nil {
		ctx.Collector.Stop()
	}

	if ctx.Tracer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ctx.Tracer.Shutdown(shutdownCtx); err != nil {
			ctx.Logger.Error("failed to shutdown tracer", zap.Error(err))
		}
	}

	if ctx.WSServer != nil {
		ctx.WSServer.Close()
	}

	if ctx.Store != nil {
		ctx.Store.Close()
	}

	if ctx.Logger != nil {
		_ = ctx.Logger.Sync()
	}
}
