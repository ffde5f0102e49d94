package websocket

import (
	"encoding/json"
	"testing"
)

func TestDecodeClientEvent(t *testing.T) {
	data := []byte(`{"type":"join","sessionId":"s1","userInfo":{"telegramId":"u1","name":"Alice"}}`)

	ev, err := DecodeClientEvent(data)
	if err != nil {
		t.Fatalf("Failed to decode event: %v", err)
	}

	if ev.Type != EventJoin {
		t.Errorf("Expected type %s, got %s", EventJoin, ev.Type)
	}
	if ev.SessionID != "s1" {
		t.Errorf("Expected session s1, got %s", ev.SessionID)
	}
	if ev.UserInfo["name"] != "Alice" {
		t.Errorf("Expected name Alice, got %v", ev.UserInfo["name"])
	}
}

func TestDecodeClientEvent_Invalid(t *testing.T) {
	invalidJSON := []byte("{invalid json")

	_, err := DecodeClientEvent(invalidJSON)
	if err == nil {
		t.Error("Expected error for invalid JSON, got nil")
	}
}

func TestClientEvent_Actor(t *testing.T) {
	data := []byte(`{
		"type": "swipe",
		"sessionId": "s1",
		"swipeTarget": "u2",
		"userInfo": {
			"telegramId": "u1",
			"name": "Alice",
			"swipes": {"u2": true, "u3": false}
		}
	}`)

	ev, err := DecodeClientEvent(data)
	if err != nil {
		t.Fatalf("Failed to decode event: %v", err)
	}

	actor, ok := ev.Actor()
	if !ok {
		t.Fatal("Expected a usable actor")
	}

	if actor.TelegramID != "u1" {
		t.Errorf("Expected telegramId u1, got %s", actor.TelegramID)
	}

	// swipes 只保留为 true 的表态
	if !actor.Swipes["u2"] {
		t.Error("Expected swipe on u2")
	}
	if _, exists := actor.Swipes["u3"]; exists {
		t.Error("False swipe entries should be dropped")
	}

	// profile 不含 swipes，但保留 telegramId
	if _, exists := actor.Profile["swipes"]; exists {
		t.Error("Profile should not contain the swipes map")
	}
	if actor.Profile["telegramId"] != "u1" {
		t.Errorf("Profile should keep telegramId, got %v", actor.Profile["telegramId"])
	}
	if actor.Profile["name"] != "Alice" {
		t.Errorf("Profile should keep name, got %v", actor.Profile["name"])
	}
}

func TestClientEvent_ActorMissing(t *testing.T) {
	cases := []string{
		`{"type":"swipe","sessionId":"s1","swipeTarget":"u2"}`,
		`{"type":"swipe","sessionId":"s1","userInfo":{}}`,
		`{"type":"swipe","sessionId":"s1","userInfo":{"telegramId":""}}`,
		`{"type":"swipe","sessionId":"s1","userInfo":{"telegramId":123}}`,
	}

	for _, raw := range cases {
		ev, err := DecodeClientEvent([]byte(raw))
		if err != nil {
			t.Fatalf("Failed to decode event: %v", err)
		}
		if _, ok := ev.Actor(); ok {
			t.Errorf("Expected no actor for %s", raw)
		}
	}
}

func TestOutboundMessageJSON(t *testing.T) {
	notice := NewErrorNotice("boom")

	data, err := json.Marshal(notice)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	if decoded["type"] != string(EventError) {
		t.Errorf("Expected type %s, got %v", EventError, decoded["type"])
	}
	if decoded["message"] != "boom" {
		t.Errorf("Expected message boom, got %v", decoded["message"])
	}
}
