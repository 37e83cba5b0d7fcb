// Package chattypes defines the wire-level message types shared between
// channel adapters, the hub, and the agent loop.
package chattypes

import (
	"strings"
	"time"
)

// MaxContentLength is the maximum accepted InboundMessage content length,
// in Unicode codepoints (not bytes).
const MaxContentLength = 4000

// InboundMessage is produced by a channel adapter and handed to the hub.
// It is immutable after Sanitize succeeds.
type InboundMessage struct {
	Channel   string                 `json:"channel"`
	ChatID    string                 `json:"chat_id"`
	Content   string                 `json:"content"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewInboundMessage builds an InboundMessage stamped with the current time.
func NewInboundMessage(channel, chatID, content string) InboundMessage {
	return InboundMessage{
		Channel:   channel,
		ChatID:    chatID,
		Content:   content,
		Timestamp: time.Now().UTC(),
		Metadata:  map[string]interface{}{},
	}
}

// WithMetadata returns a copy of the message with the given metadata key set.
func (m InboundMessage) WithMetadata(key string, value interface{}) InboundMessage {
	if m.Metadata == nil {
		m.Metadata = map[string]interface{}{}
	}
	m.Metadata[key] = value
	return m
}

// Sanitize trims whitespace and enforces MaxContentLength on a rune boundary.
// It returns false if the trimmed content is empty, in which case the
// message must be silently dropped by the caller.
func (m *InboundMessage) Sanitize() bool {
	trimmed := strings.TrimSpace(m.Content)
	if trimmed == "" {
		return false
	}

	runes := []rune(trimmed)
	if len(runes) > MaxContentLength {
		m.Content = string(runes[:MaxContentLength])
	} else {
		m.Content = trimmed
	}
	return true
}

// OutboundMessage is produced by the agent loop and consumed by a channel
// adapter.
type OutboundMessage struct {
	Channel  string  `json:"channel"`
	ChatID   string  `json:"chat_id"`
	Content  string  `json:"content"`
	ReplyTo  *string `json:"reply_to,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// NewOutboundMessage builds an OutboundMessage with no reply target.
func NewOutboundMessage(channel, chatID, content string) OutboundMessage {
	return OutboundMessage{Channel: channel, ChatID: chatID, Content: content}
}

// WithReplyTo returns a copy of the message carrying a reply_to reference.
func (m OutboundMessage) WithReplyTo(messageID string) OutboundMessage {
	m.ReplyTo = &messageID
	return m
}

// ToolCall is an opaque, provider-assigned tool invocation request.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}
