package websocket

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/angelxlakra/pulse-be/internal/session"
	"go.uber.org/zap"
)

func createTestRouter(t *testing.T) (*Router, *Hub, *session.Store) {
	t.Helper()

	logger := zap.NewNop()
	store := session.NewStore(&session.StoreConfig{
		GraceWindow: time.Minute,
		Logger:      logger,
	})
	hub := NewHub(logger)
	router := NewRouter(store, hub, logger, nil)

	t.Cleanup(func() {
		hub.Close()
		store.Close()
	})
	return router, hub, store
}

// receive 从发送通道取出一条出站消息并解析
func receive(t *testing.T, conn *Conn) map[string]any {
	t.Helper()

	select {
	case data := <-conn.send:
		var decoded map[string]any
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("Failed to decode outbound message: %v", err)
		}
		return decoded
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Timeout waiting for outbound message")
		return nil
	}
}

// expectNoMessage 断言发送通道为空
func expectNoMessage(t *testing.T, conn *Conn) {
	t.Helper()

	select {
	case data := <-conn.send:
		t.Fatalf("Unexpected outbound message: %s", data)
	default:
	}
}

func joinEvent(sessionID, telegramID string) []byte {
	return []byte(fmt.Sprintf(
		`{"type":"join","sessionId":%q,"userInfo":{"telegramId":%q}}`,
		sessionID, telegramID))
}

func swipeEvent(sessionID, telegramID, target string) []byte {
	return []byte(fmt.Sprintf(
		`{"type":"swipe","sessionId":%q,"swipeTarget":%q,"userInfo":{"telegramId":%q}}`,
		sessionID, target, telegramID))
}

func TestRouter_InvalidJSON(t *testing.T) {
	router, _, _ := createTestRouter(t)

	conn := createTestConn("conn1")
	router.HandleMessage(conn, []byte("{invalid json"))

	msg := receive(t, conn)
	if msg["type"] != string(EventError) {
		t.Errorf("Expected error notice, got %v", msg["type"])
	}
}

func TestRouter_UnknownType(t *testing.T) {
	router, _, _ := createTestRouter(t)

	conn := createTestConn("conn1")
	router.HandleMessage(conn, []byte(`{"type":"dance"}`))

	msg := receive(t, conn)
	if msg["type"] != string(EventError) {
		t.Errorf("Expected error notice, got %v", msg["type"])
	}
	if msg["message"] != "unknown message type" {
		t.Errorf("Unexpected error message: %v", msg["message"])
	}
}

func TestRouter_Join(t *testing.T) {
	router, _, _ := createTestRouter(t)

	conn1 := createTestConn("conn1")
	conn2 := createTestConn("conn2")

	router.HandleMessage(conn1, joinEvent("s1", "u1"))

	msg := receive(t, conn1)
	if msg["type"] != string(EventSessionUpdate) {
		t.Fatalf("Expected sessionUpdate, got %v", msg["type"])
	}
	users := msg["users"].([]any)
	if len(users) != 1 {
		t.Errorf("Expected 1 member, got %d", len(users))
	}

	// 第二个成员加入：快照只回给发起连接
	router.HandleMessage(conn2, joinEvent("s1", "u2"))

	msg = receive(t, conn2)
	users = msg["users"].([]any)
	if len(users) != 2 {
		t.Errorf("Expected 2 members, got %d", len(users))
	}
	expectNoMessage(t, conn1)
}

func TestRouter_JoinMissingActor(t *testing.T) {
	router, _, _ := createTestRouter(t)

	conn := createTestConn("conn1")
	router.HandleMessage(conn, []byte(`{"type":"join","sessionId":"s1"}`))

	msg := receive(t, conn)
	if msg["type"] != string(EventError) {
		t.Errorf("Expected error notice, got %v", msg["type"])
	}
	if msg["message"] != session.ErrMissingActor.Error() {
		t.Errorf("Unexpected error message: %v", msg["message"])
	}
}

func TestRouter_SwipeTargetNotFound(t *testing.T) {
	router, _, _ := createTestRouter(t)

	conn := createTestConn("conn1")
	router.HandleMessage(conn, joinEvent("s1", "u1"))
	receive(t, conn)

	router.HandleMessage(conn, swipeEvent("s1", "u1", "ghost"))

	msg := receive(t, conn)
	if msg["type"] != string(EventError) {
		t.Errorf("Expected error notice, got %v", msg["type"])
	}
	if msg["message"] != session.ErrTargetNotFound.Error() {
		t.Errorf("Unexpected error message: %v", msg["message"])
	}
}

func TestRouter_SwipeNoMatch(t *testing.T) {
	router, hub, _ := createTestRouter(t)

	conn1 := createTestConn("conn1")
	conn2 := createTestConn("conn2")
	hub.Register(conn1)
	hub.Register(conn2)

	router.HandleMessage(conn1, joinEvent("s1", "u1"))
	router.HandleMessage(conn2, joinEvent("s1", "u2"))
	receive(t, conn1)
	receive(t, conn2)

	// 单向滑动：双方都不应收到消息
	router.HandleMessage(conn1, swipeEvent("s1", "u1", "u2"))

	expectNoMessage(t, conn1)
	expectNoMessage(t, conn2)
}

func TestRouter_SwipeMatchNotifiesBoth(t *testing.T) {
	router, hub, _ := createTestRouter(t)

	conn1 := createTestConn("conn1")
	conn2 := createTestConn("conn2")
	hub.Register(conn1)
	hub.Register(conn2)

	router.HandleMessage(conn1, joinEvent("s1", "u1"))
	router.HandleMessage(conn2, joinEvent("s1", "u2"))
	receive(t, conn1)
	receive(t, conn2)

	router.HandleMessage(conn1, swipeEvent("s1", "u1", "u2"))
	router.HandleMessage(conn2, swipeEvent("s1", "u2", "u1"))

	// 匹配成立：发起方收到对方的资料，对方收到发起方的资料
	msg := receive(t, conn2)
	if msg["type"] != string(EventMatch) {
		t.Fatalf("Expected match notice, got %v", msg["type"])
	}
	handle := msg["handle"].(map[string]any)
	if handle["telegramId"] != "u1" {
		t.Errorf("Expected handle for u1, got %v", handle["telegramId"])
	}

	msg = receive(t, conn1)
	if msg["type"] != string(EventMatch) {
		t.Fatalf("Expected match notice, got %v", msg["type"])
	}
	handle = msg["handle"].(map[string]any)
	if handle["telegramId"] != "u2" {
		t.Errorf("Expected handle for u2, got %v", handle["telegramId"])
	}
}

func TestRouter_SwipeMatchTargetGone(t *testing.T) {
	router, hub, _ := createTestRouter(t)

	conn1 := createTestConn("conn1")
	conn2 := createTestConn("conn2")
	hub.Register(conn1)
	hub.Register(conn2)

	router.HandleMessage(conn1, joinEvent("s1", "u1"))
	router.HandleMessage(conn2, joinEvent("s1", "u2"))
	receive(t, conn1)
	receive(t, conn2)

	router.HandleMessage(conn1, swipeEvent("s1", "u1", "u2"))

	// 对方连接断开但记录还在宽限期内
	hub.Unregister("conn1")

	router.HandleMessage(conn2, swipeEvent("s1", "u2", "u1"))

	// 发起方仍收到匹配通知
	msg := receive(t, conn2)
	if msg["type"] != string(EventMatch) {
		t.Fatalf("Expected match notice, got %v", msg["type"])
	}
}

func TestRouter_RepeatSwipeDoesNotRefire(t *testing.T) {
	router, hub, _ := createTestRouter(t)

	conn1 := createTestConn("conn1")
	conn2 := createTestConn("conn2")
	hub.Register(conn1)
	hub.Register(conn2)

	router.HandleMessage(conn1, joinEvent("s1", "u1"))
	router.HandleMessage(conn2, joinEvent("s1", "u2"))
	receive(t, conn1)
	receive(t, conn2)

	router.HandleMessage(conn1, swipeEvent("s1", "u1", "u2"))
	router.HandleMessage(conn2, swipeEvent("s1", "u2", "u1"))
	receive(t, conn1)
	receive(t, conn2)

	// 重复滑动不再触发匹配通知
	router.HandleMessage(conn2, swipeEvent("s1", "u2", "u1"))

	expectNoMessage(t, conn1)
	expectNoMessage(t, conn2)
}

func TestRouter_HandleDisconnect(t *testing.T) {
	router, _, store := createTestRouter(t)

	conn := createTestConn("conn1")
	router.HandleMessage(conn, joinEvent("s1", "u1"))
	receive(t, conn)

	router.HandleDisconnect(conn)

	// 宽限期内成员仍然存在，清理已入队
	if !store.Exists("u1") {
		t.Error("Member should survive until the grace window elapses")
	}
	if store.Stats()["pending_cleanups"].(int) != 1 {
		t.Error("Expected a pending cleanup")
	}
}
