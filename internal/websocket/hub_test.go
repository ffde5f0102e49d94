package websocket

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

// createTestConn 创建一个假的连接（仅用于测试，不带真实的websocket.Conn）
func createTestConn(id string) *Conn {
	logger := zap.NewNop()
	ctx, cancel := context.WithCancel(context.Background())

	return &Conn{
		ID:       id,
		send:     make(chan []byte, sendBufferSize),
		lastPong: time.Now(),
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub(zap.NewNop())
	defer hub.Close()

	conn := createTestConn("conn1")

	// 注册连接
	hub.Register(conn)

	if hub.Count() != 1 {
		t.Errorf("Expected 1 connection, got %d", hub.Count())
	}

	// 注销连接
	hub.Unregister("conn1")

	if hub.Count() != 0 {
		t.Errorf("Expected 0 connections, got %d", hub.Count())
	}

	// 重复注销是无害的
	hub.Unregister("conn1")
}

func TestHub_Get(t *testing.T) {
	hub := NewHub(zap.NewNop())
	defer hub.Close()

	conn := createTestConn("conn1")
	hub.Register(conn)

	// 获取存在的连接
	retrieved, err := hub.Get("conn1")
	if err != nil {
		t.Fatalf("Failed to get connection: %v", err)
	}

	if retrieved.ID != "conn1" {
		t.Errorf("Expected conn1, got %s", retrieved.ID)
	}

	// 获取不存在的连接
	_, err = hub.Get("nonexistent")
	if err != ErrConnectionNotFound {
		t.Errorf("Expected ErrConnectionNotFound, got %v", err)
	}
}

func TestHub_SweepDeadConnections(t *testing.T) {
	hub := NewHub(zap.NewNop())
	defer hub.Close()

	stale := createTestConn("stale")
	stale.mu.Lock()
	stale.lastPong = time.Now().Add(-3 * pongWait)
	stale.mu.Unlock()

	closed := createTestConn("closed")
	closed.Close()

	fresh := createTestConn("fresh")

	hub.Register(stale)
	hub.Register(closed)
	hub.Register(fresh)

	hub.sweepDeadConnections()

	if hub.Count() != 1 {
		t.Fatalf("Expected 1 surviving connection, got %d", hub.Count())
	}
	if _, err := hub.Get("fresh"); err != nil {
		t.Error("Fresh connection should survive the sweep")
	}
	if _, err := hub.Get("stale"); err != ErrConnectionNotFound {
		t.Error("Stale connection should be swept")
	}
	if !stale.IsClosed() {
		t.Error("Swept connection should be closed")
	}
}

func TestConn_Send(t *testing.T) {
	conn := createTestConn("conn1")

	err := conn.Send(NewErrorNotice("boom"))
	if err != nil {
		t.Fatalf("Failed to send message: %v", err)
	}

	// 验证消息在通道中
	select {
	case data := <-conn.send:
		if len(data) == 0 {
			t.Error("Expected serialized message")
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("Timeout waiting for message")
	}
}

func TestConn_SendAfterClose(t *testing.T) {
	conn := createTestConn("conn1")

	if err := conn.Close(); err != nil {
		t.Fatalf("Failed to close: %v", err)
	}

	if err := conn.Send(NewErrorNotice("boom")); err != ErrConnectionClosed {
		t.Errorf("Expected ErrConnectionClosed, got %v", err)
	}
}

func TestConn_SendChannelFull(t *testing.T) {
	conn := createTestConn("conn1")

	// 填满发送通道
	for i := 0; i < sendBufferSize; i++ {
		if err := conn.Send(NewErrorNotice("fill")); err != nil {
			t.Fatalf("Failed to fill channel: %v", err)
		}
	}

	if err := conn.Send(NewErrorNotice("overflow")); err != ErrSendChannelFull {
		t.Errorf("Expected ErrSendChannelFull, got %v", err)
	}
}

func TestConn_IsClosed(t *testing.T) {
	conn := createTestConn("conn1")

	if conn.IsClosed() {
		t.Error("Connection should not be closed initially")
	}

	conn.Close()

	if !conn.IsClosed() {
		t.Error("Connection should be closed")
	}

	// 重复关闭是无害的
	if err := conn.Close(); err != nil {
		t.Errorf("Second close should be a no-op, got %v", err)
	}
}

func TestConn_Pong(t *testing.T) {
	conn := createTestConn("conn1")

	first := conn.LastPong()
	time.Sleep(10 * time.Millisecond)

	conn.updatePong()
	second := conn.LastPong()

	if !second.After(first) {
		t.Error("Second pong should be after first pong")
	}
}
