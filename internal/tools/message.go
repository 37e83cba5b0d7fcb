package tools

import (
	"context"
	"fmt"
)

// SendFunc delivers a reply to a channel/chat, mirroring the hub's Reply
// helper so the tool stays decoupled from the bus package.
type SendFunc func(channel, chatID, content string)

// MessageTool lets the agent proactively reply on the current channel, or
// an explicitly named one, without waiting for the turn to end. The
// current channel/chat_id come from the ExecutionContext each call carries,
// so the tool itself holds no per-turn mutable state and is safe for
// concurrent invocation.
type MessageTool struct {
	send SendFunc
}

// NewMessageTool builds a MessageTool that delivers through send.
func NewMessageTool(send SendFunc) *MessageTool {
	return &MessageTool{send: send}
}

func (t *MessageTool) Name() string { return "message" }
func (t *MessageTool) Description() string {
	return "Send a message to the user on a chat channel. Use this to communicate something before the turn ends."
}
func (t *MessageTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"content": map[string]interface{}{"type": "string", "description": "The message content to send"},
			"channel": map[string]interface{}{"type": "string", "description": "Optional: target channel, defaults to the current one"},
			"chat_id": map[string]interface{}{"type": "string", "description": "Optional: target chat id, defaults to the current one"},
		},
		"required": []interface{}{"content"},
	}
}

func (t *MessageTool) Execute(ctx context.Context, args map[string]interface{}, execCtx ExecutionContext) (string, *ToolError) {
	content, ok := requireStringArg(args, "content")
	if !ok {
		return "", InvalidArgumentsError(t.Name(), "missing required parameter 'content'")
	}

	channel, _ := requireStringArg(args, "channel")
	chatID, _ := requireStringArg(args, "chat_id")
	if channel == "" {
		channel = execCtx.Channel
	}
	if chatID == "" {
		chatID = execCtx.ChatID
	}

	if channel == "" || chatID == "" {
		return "", ExecutionFailedError(t.Name(), "no target channel/chat specified")
	}
	if t.send == nil {
		return "", ExecutionFailedError(t.Name(), "message sending not configured")
	}

	t.send(channel, chatID, content)
	return fmt.Sprintf("Message sent to %s:%s", channel, chatID), nil
}
