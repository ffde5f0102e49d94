package websocket

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// 死连接扫描周期
const sweepInterval = 30 * time.Second

// Hub 连接注册表：connID -> Connection
// 会话成员记录只持有连接ID，连接本体的生命周期由这里管理。
// 后台任务周期性清除已关闭或心跳超时的连接
type Hub struct {
	mu    sync.RWMutex
	conns map[string]*Conn

	logger *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub 创建连接注册表并启动清理任务
func NewHub(logger *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	h := &Hub{
		conns:  make(map[string]*Conn),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}

	go h.sweepTask()

	return h
}

// Register 注册连接
func (h *Hub) Register(conn *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.conns[conn.ID] = conn

	h.logger.Info("connection registered",
		zap.String("conn_id", conn.ID),
		zap.Int("total_connections", len(h.conns)))
}

// Unregister 注销连接
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.conns[connID]; !exists {
		return
	}
	delete(h.conns, connID)

	h.logger.Info("connection unregistered",
		zap.String("conn_id", connID),
		zap.Int("total_connections", len(h.conns)))
}

// Get 获取连接
func (h *Hub) Get(connID string) (*Conn, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conn, exists := h.conns[connID]
	if !exists {
		return nil, ErrConnectionNotFound
	}
	return conn, nil
}

// Count 当前连接数
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// sweepTask 周期性清理死连接
func (h *Hub) sweepTask() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			h.sweepDeadConnections()
		case <-h.ctx.Done():
			return
		}
	}
}

// sweepDeadConnections 移除已关闭或心跳超时的连接
// readPump 的pong处理器持续刷新心跳时间，正常连接不会被误删
func (h *Hub) sweepDeadConnections() {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now()
	timeout := 2 * pongWait

	for connID, conn := range h.conns {
		if !conn.IsClosed() && now.Sub(conn.LastPong()) <= timeout {
			continue
		}

		conn.Close()
		delete(h.conns, connID)

		h.logger.Info("dead connection swept",
			zap.String("conn_id", connID),
			zap.Int("total_connections", len(h.conns)))
	}
}

// Close 停止清理任务并关闭所有连接
func (h *Hub) Close() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, conn := range h.conns {
		conn.Close()
	}

	h.logger.Info("hub closed")
}
