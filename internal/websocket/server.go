package websocket

import (
	"net/http"

	"github.com/angelxlakra/pulse-be/internal/metrics"
	"github.com/angelxlakra/pulse-be/internal/session"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// 客户端来自 Telegram WebApp 等任意来源，放开 Origin 检查
		return true
	},
}

// Server WebSocket服务器
type Server struct {
	hub     *Hub
	router  *Router
	store   *session.Store
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewServer 创建WebSocket服务器
func NewServer(store *session.Store, logger *zap.Logger, m *metrics.Metrics) *Server {
	hub := NewHub(logger)

	return &Server{
		hub:     hub,
		router:  NewRouter(store, hub, logger, m),
		store:   store,
		logger:  logger,
		metrics: m,
	}
}

// Hub 获取连接注册表
func (s *Server) Hub() *Hub {
	return s.hub
}

// HandleWebSocket 处理WebSocket连接升级
func (s *Server) HandleWebSocket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.logger.Error("failed to upgrade connection",
				zap.Error(err),
				zap.String("remote_addr", r.RemoteAddr))
			return
		}

		// 生成连接ID
		connID, err := uuid.NewV7()
		if err != nil {
			s.logger.Error("failed to generate connection ID", zap.Error(err))
			conn.Close()
			return
		}

		c := NewConn(connID.String(), conn, s.logger)
		s.hub.Register(c)
		if s.metrics != nil {
			s.metrics.RecordWSConnection(true)
		}

		s.logger.Info("websocket connection established",
			zap.String("conn_id", c.ID),
			zap.String("remote_addr", r.RemoteAddr))

		// readPump 退出后注销连接并调度延迟清理
		c.Start(s.router, func() {
			s.hub.Unregister(c.ID)
			s.router.HandleDisconnect(c)
			if s.metrics != nil {
				s.metrics.RecordWSConnection(false)
			}
		})
	}
}

// Stats 获取统计信息
func (s *Server) Stats() map[string]any {
	stats := s.store.Stats()
	stats["connections"] = s.hub.Count()
	return stats
}

// Close 关闭服务器
func (s *Server) Close() {
	s.hub.Close()
}
