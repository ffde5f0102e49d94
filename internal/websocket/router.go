package websocket

import (
	"errors"

	"github.com/angelxlakra/pulse-be/internal/metrics"
	"github.com/angelxlakra/pulse-be/internal/session"
	"go.uber.org/zap"
)

// Router 入站事件分发器：解码传输层消息并调用会话存储，
// 把存储返回的结果/错误转换为出站通知。任何失败都只回错误通知，
// 不关闭连接，也不中断后续事件处理
type Router struct {
	store   *session.Store
	hub     *Hub
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewRouter 创建事件分发器，metrics 可为 nil
func NewRouter(store *session.Store, hub *Hub, logger *zap.Logger, m *metrics.Metrics) *Router {
	return &Router{
		store:   store,
		hub:     hub,
		logger:  logger,
		metrics: m,
	}
}

// HandleMessage 处理一条入站消息
func (r *Router) HandleMessage(c *Conn, data []byte) {
	ev, err := DecodeClientEvent(data)
	if err != nil {
		r.logger.Warn("failed to decode message",
			zap.String("conn_id", c.ID),
			zap.Error(err))
		r.sendError(c, err.Error(), "decode")
		return
	}

	if r.metrics != nil {
		r.metrics.RecordWSMessage(string(ev.Type), "received")
	}

	switch ev.Type {
	case EventJoin:
		r.handleJoin(c, ev)

	case EventSwipe:
		r.handleSwipe(c, ev)

	default:
		r.logger.Warn("unknown message type",
			zap.String("conn_id", c.ID),
			zap.String("type", string(ev.Type)))
		r.sendError(c, "unknown message type", "unknown_type")
	}
}

// HandleDisconnect 连接关闭入口：调度延迟清理
func (r *Router) HandleDisconnect(c *Conn) {
	r.store.Disconnect(c.ID)
}

// handleJoin 处理加入会话：成员快照只回给发起连接
func (r *Router) handleJoin(c *Conn, ev *ClientEvent) {
	actor, ok := ev.Actor()
	if !ok {
		r.sendError(c, session.ErrMissingActor.Error(), "missing_actor")
		return
	}

	users := r.store.Join(ev.SessionID, actor.TelegramID, actor.Profile, c.ID)

	if r.metrics != nil {
		r.metrics.RecordJoin()
	}

	r.send(c, NewSessionUpdate(users), EventSessionUpdate)
}

// handleSwipe 处理滑动表态：记录滑动，匹配成立时通知双方
func (r *Router) handleSwipe(c *Conn, ev *ClientEvent) {
	actor, ok := ev.Actor()
	if !ok {
		r.sendError(c, session.ErrMissingActor.Error(), "missing_actor")
		return
	}

	result, err := r.store.RecordSwipe(ev.SessionID, actor, ev.SwipeTarget)
	if err != nil {
		kind := "swipe"
		switch {
		case errors.Is(err, session.ErrTargetNotFound):
			kind = "target_not_found"
		case errors.Is(err, session.ErrMissingActor):
			kind = "missing_actor"
		}
		r.sendError(c, err.Error(), kind)
		return
	}

	if r.metrics != nil {
		r.metrics.RecordSwipe(result.Matched)
	}

	if !result.Matched {
		return
	}

	// 双向投递各自独立，单边失败不回滚已记录的滑动
	r.send(c, NewMatchNotice(result.TargetHandle), EventMatch)

	target, err := r.hub.Get(result.TargetConnID)
	if err != nil {
		r.logger.Warn("match target connection gone",
			zap.String("conn_id", result.TargetConnID))
		return
	}
	r.send(target, NewMatchNotice(result.ActorHandle), EventMatch)
}

// send 出站发送，失败仅记录日志
func (r *Router) send(c *Conn, v any, event EventType) {
	if err := c.Send(v); err != nil {
		r.logger.Warn("failed to send message",
			zap.String("conn_id", c.ID),
			zap.String("type", string(event)),
			zap.Error(err))
		return
	}
	if r.metrics != nil {
		r.metrics.RecordWSMessage(string(event), "sent")
	}
}

// sendError 发送错误通知
func (r *Router) sendError(c *Conn, message, kind string) {
	if r.metrics != nil {
		r.metrics.RecordError(kind)
	}
	r.send(c, NewErrorNotice(message), EventError)
}
