package session

import (
	"fmt"
	"testing"
)

func TestNewSessionID(t *testing.T) {
	s := New("telegram", "123456789")
	if s.SessionID != "telegram_123456789" {
		t.Fatalf("expected telegram_123456789, got %s", s.SessionID)
	}
	if len(s.Messages) != 0 {
		t.Fatal("expected new session to have no messages")
	}
}

func TestFIFORotation(t *testing.T) {
	s := New("telegram", "123456789")
	for i := 0; i < 51; i++ {
		s.AddMessage(NewMessage("user", fmtMsg(i)))
	}
	if len(s.Messages) != MaxMessages {
		t.Fatalf("expected %d messages, got %d", MaxMessages, len(s.Messages))
	}
	if s.Messages[0].Content != fmtMsg(1) {
		t.Fatalf("expected oldest retained message to be %q, got %q", fmtMsg(1), s.Messages[0].Content)
	}
	if s.Messages[len(s.Messages)-1].Content != fmtMsg(50) {
		t.Fatalf("expected newest message to be %q, got %q", fmtMsg(50), s.Messages[len(s.Messages)-1].Content)
	}
}

func fmtMsg(i int) string {
	return fmt.Sprintf("Message %d", i)
}

func TestMessageRoleHelpers(t *testing.T) {
	if !NewMessage("user", "hi").IsUser() {
		t.Fatal("expected IsUser true")
	}
	if !NewMessage("assistant", "hi").IsAssistant() {
		t.Fatal("expected IsAssistant true")
	}
	if !ToolResultMessage("call-1", "result").IsToolResult() {
		t.Fatal("expected IsToolResult true")
	}
}
