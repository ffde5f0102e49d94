package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var (
	ErrConnectionClosed   = errors.New("connection closed")
	ErrConnectionNotFound = errors.New("connection not found")
	ErrSendChannelFull    = errors.New("send channel full")
)

// 超时配置
const (
	writeWait      = 10 * time.Second    // 写入超时
	pongWait       = 60 * time.Second    // Pong超时
	pingPeriod     = (pongWait * 9) / 10 // Ping间隔 (必须小于pongWait)
	maxMessageSize = 64 * 1024           // 最大消息大小 (64KB)
	sendBufferSize = 256                 // 发送通道容量
)

// Conn WebSocket连接封装
type Conn struct {
	// ID 连接ID (UUIDv7)，会话成员记录以此为键引用连接
	ID string

	// WebSocket连接
	conn *websocket.Conn

	// 发送消息通道，writePump 消费
	send chan []byte

	// 状态
	closed   bool
	lastPong time.Time

	// 同步
	mu     sync.RWMutex
	logger *zap.Logger

	// 上下文
	ctx    context.Context
	cancel context.CancelFunc
}

// NewConn 创建新连接
func NewConn(id string, conn *websocket.Conn, logger *zap.Logger) *Conn {
	ctx, cancel := context.WithCancel(context.Background())

	return &Conn{
		ID:       id,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		lastPong: time.Now(),
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Send 序列化并发送消息，尽力而为：通道满或连接已关闭时返回错误，
// 调用方不应因此中断事件处理
func (c *Conn) Send(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return ErrConnectionClosed
	}
	c.mu.RUnlock()

	select {
	case c.send <- data:
		return nil
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
		c.logger.Warn("send channel full, dropping message",
			zap.String("conn_id", c.ID))
		return ErrSendChannelFull
	}
}

// Close 关闭连接
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	c.cancel()
	close(c.send)

	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsClosed 是否已关闭
func (c *Conn) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// updatePong 更新心跳时间
func (c *Conn) updatePong() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastPong = time.Now()
}

// LastPong 获取最后心跳时间
func (c *Conn) LastPong() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastPong
}

// readPump 读取消息循环，连接关闭或读取出错时退出
func (c *Conn) readPump(router *Router) {
	defer c.Close()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		c.updatePong()
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("websocket read error",
					zap.String("conn_id", c.ID),
					zap.Error(err))
			}
			break
		}

		if router != nil {
			router.HandleMessage(c, data)
		}
	}
}

// writePump 写入消息循环
func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// 通道关闭
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.Error("failed to write message",
					zap.String("conn_id", c.ID),
					zap.Error(err))
				return
			}

		case <-ticker.C:
			// 发送心跳
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// Start 启动连接处理，readPump 退出后回调 onClose（连接注销与延迟清理入口）
func (c *Conn) Start(router *Router, onClose func()) {
	go c.writePump()
	go func() {
		c.readPump(router)
		if onClose != nil {
			onClose()
		}
	}()
}
