package websocket

import (
	"encoding/json"
	"fmt"

	"github.com/angelxlakra/pulse-be/internal/session"
)

// EventType 消息类型
type EventType string

const (
	// 入站消息
	EventJoin  EventType = "join"  // 加入会话
	EventSwipe EventType = "swipe" // 滑动表态

	// 出站消息
	EventSessionUpdate EventType = "sessionUpdate" // 会话成员快照
	EventMatch         EventType = "match"         // 匹配成功
	EventError         EventType = "error"         // 错误通知
)

// ClientEvent 客户端入站消息
type ClientEvent struct {
	Type        EventType      `json:"type"`
	SessionID   string         `json:"sessionId,omitempty"`
	SwipeTarget string         `json:"swipeTarget,omitempty"`
	UserInfo    map[string]any `json:"userInfo,omitempty"`
}

// DecodeClientEvent 解析入站消息
func DecodeClientEvent(data []byte) (*ClientEvent, error) {
	var ev ClientEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	return &ev, nil
}

// Actor 从 userInfo 中提取调用方身份信息
// userInfo 缺失或没有可用的 telegramId 时返回 false
func (e *ClientEvent) Actor() (session.SwipeActor, bool) {
	if e.UserInfo == nil {
		return session.SwipeActor{}, false
	}

	telegramID, ok := e.UserInfo["telegramId"].(string)
	if !ok || telegramID == "" {
		return session.SwipeActor{}, false
	}

	swipes := make(map[string]bool)
	if raw, ok := e.UserInfo["swipes"].(map[string]any); ok {
		for id, v := range raw {
			if swiped, ok := v.(bool); ok && swiped {
				swipes[id] = true
			}
		}
	}

	profile := make(session.Profile, len(e.UserInfo))
	for k, v := range e.UserInfo {
		if k == "swipes" {
			continue
		}
		profile[k] = v
	}

	return session.SwipeActor{
		TelegramID: telegramID,
		Profile:    profile,
		Swipes:     swipes,
	}, true
}

// SessionUpdate 会话成员快照，仅发给发起 join 的连接
type SessionUpdate struct {
	Type  EventType            `json:"type"`
	Users []session.MemberView `json:"users"`
}

// NewSessionUpdate 创建成员快照消息
func NewSessionUpdate(users []session.MemberView) *SessionUpdate {
	return &SessionUpdate{Type: EventSessionUpdate, Users: users}
}

// MatchNotice 匹配通知，handle 为对方的成员数据（不含连接句柄）
type MatchNotice struct {
	Type   EventType          `json:"type"`
	Handle session.MemberView `json:"handle"`
}

// NewMatchNotice 创建匹配通知
func NewMatchNotice(handle session.MemberView) *MatchNotice {
	return &MatchNotice{Type: EventMatch, Handle: handle}
}

// ErrorNotice 错误通知
type ErrorNotice struct {
	Type    EventType `json:"type"`
	Message string    `json:"message"`
}

// NewErrorNotice 创建错误通知
func NewErrorNotice(message string) *ErrorNotice {
	return &ErrorNotice{Type: EventError, Message: message}
}
