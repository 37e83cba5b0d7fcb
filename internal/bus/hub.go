// Package bus implements ChatHub, the single in-process router between
// channel adapters and the agent loop.
package bus

import (
	"context"
	"fmt"
	"sync"

	"github.com/mattdef/miniclaw/internal/chattypes"
	"github.com/mattdef/miniclaw/internal/logger"
)

// QueueCapacity bounds each of the hub's inbound/outbound queues.
const QueueCapacity = 100

// ErrChannelNotFound is returned by RouteOutbound when no adapter has
// registered for the message's channel.
type ErrChannelNotFound struct{ Channel string }

func (e *ErrChannelNotFound) Error() string {
	return fmt.Sprintf("channel not found: %s", e.Channel)
}

// AgentSink receives every sanitized inbound message. The agent loop
// registers itself as the hub's single sink via RegisterAgent.
type AgentSink func(msg chattypes.InboundMessage)

// ChatHub is the bounded-queue router sitting between channel adapters (one
// inbound producer, many outbound consumers keyed by channel name) and the
// agent loop (a single inbound consumer).
type ChatHub struct {
	inboundCh  chan chattypes.InboundMessage
	outboundCh chan chattypes.OutboundMessage

	mu       sync.RWMutex
	channels map[string]chan chattypes.OutboundMessage

	sinkMu sync.RWMutex
	sink   AgentSink
}

// New creates a ChatHub with QueueCapacity-bounded inbound/outbound queues.
func New() *ChatHub {
	return &ChatHub{
		inboundCh:  make(chan chattypes.InboundMessage, QueueCapacity),
		outboundCh: make(chan chattypes.OutboundMessage, QueueCapacity),
		channels:   make(map[string]chan chattypes.OutboundMessage),
	}
}

// RegisterChannel registers (or replaces) the outbound sender for a named
// channel adapter.
func (h *ChatHub) RegisterChannel(name string, sender chan chattypes.OutboundMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.channels[name] = sender
}

// RegisterAgent sets the sink that receives every sanitized inbound
// message. Only one sink is supported; registering again replaces it.
func (h *ChatHub) RegisterAgent(sink AgentSink) {
	h.sinkMu.Lock()
	defer h.sinkMu.Unlock()
	h.sink = sink
}

// SendInbound sanitizes and enqueues an inbound message. Invalid (empty or
// whitespace-only) messages are silently dropped. If the queue is full,
// the oldest queued message is dropped to make room (drop-oldest overflow
// policy), and a warning is logged.
func (h *ChatHub) SendInbound(msg chattypes.InboundMessage) {
	if !msg.Sanitize() {
		logger.DebugCF("bus", "ignoring empty or whitespace-only message", map[string]interface{}{
			"channel": msg.Channel, "chat_id": msg.ChatID,
		})
		return
	}

	select {
	case h.inboundCh <- msg:
		return
	default:
	}

	logger.WarnCF("bus", "inbound buffer full, dropping oldest message", nil)
	select {
	case <-h.inboundCh:
	default:
	}
	h.inboundCh <- msg
}

// SendOutbound enqueues an outbound message with the same drop-oldest
// overflow policy as SendInbound.
func (h *ChatHub) SendOutbound(msg chattypes.OutboundMessage) {
	select {
	case h.outboundCh <- msg:
		return
	default:
	}

	logger.WarnCF("bus", "outbound buffer full, dropping oldest message", nil)
	select {
	case <-h.outboundCh:
	default:
	}
	h.outboundCh <- msg
}

// Reply is a convenience wrapper building and enqueuing an OutboundMessage.
func (h *ChatHub) Reply(channel, chatID, content string) {
	h.SendOutbound(chattypes.NewOutboundMessage(channel, chatID, content))
}

// ReplyTo is a convenience wrapper for a threaded reply.
func (h *ChatHub) ReplyTo(channel, chatID, content, messageID string) {
	h.SendOutbound(chattypes.NewOutboundMessage(channel, chatID, content).WithReplyTo(messageID))
}

// RouteOutbound delivers msg to the channel adapter registered for
// msg.Channel, or returns ErrChannelNotFound if none is registered.
func (h *ChatHub) RouteOutbound(msg chattypes.OutboundMessage) error {
	h.mu.RLock()
	sender, ok := h.channels[msg.Channel]
	h.mu.RUnlock()

	if !ok {
		return &ErrChannelNotFound{Channel: msg.Channel}
	}
	sender <- msg
	return nil
}

// Run drives the hub's main loop: every inbound message is forwarded to the
// registered agent sink (if any), and every outbound message is routed to
// its channel adapter. Run blocks until ctx is canceled, at which point it
// drains both queues and returns.
func (h *ChatHub) Run(ctx context.Context) {
	for {
		select {
		case msg := <-h.inboundCh:
			h.dispatchInbound(msg)
		case msg := <-h.outboundCh:
			h.dispatchOutbound(msg)
		case <-ctx.Done():
			logger.InfoCF("bus", "shutdown signal received, draining queues", nil)
			h.Shutdown()
			return
		}
	}
}

func (h *ChatHub) dispatchInbound(msg chattypes.InboundMessage) {
	logger.DebugCF("bus", "received inbound message", map[string]interface{}{
		"channel": msg.Channel, "chat_id": msg.ChatID,
	})

	h.sinkMu.RLock()
	sink := h.sink
	h.sinkMu.RUnlock()
	if sink != nil {
		sink(msg)
	}
}

func (h *ChatHub) dispatchOutbound(msg chattypes.OutboundMessage) {
	logger.DebugCF("bus", "routing outbound message", map[string]interface{}{
		"channel": msg.Channel, "chat_id": msg.ChatID,
	})
	if err := h.RouteOutbound(msg); err != nil {
		logger.ErrorCF("bus", "failed to route outbound message", map[string]interface{}{"error": err.Error()})
	}
}

// Shutdown drains the inbound queue (logging only, no forwarding) and the
// outbound queue (best-effort routing each drained message).
func (h *ChatHub) Shutdown() {
	logger.InfoCF("bus", "draining chat hub queues", nil)

	draining := true
	for draining {
		select {
		case msg := <-h.inboundCh:
			logger.DebugCF("bus", "drained inbound message", map[string]interface{}{
				"channel": msg.Channel, "chat_id": msg.ChatID,
			})
		default:
			draining = false
		}
	}

	draining = true
	for draining {
		select {
		case msg := <-h.outboundCh:
			logger.DebugCF("bus", "drained outbound message", map[string]interface{}{
				"channel": msg.Channel, "chat_id": msg.ChatID,
			})
			_ = h.RouteOutbound(msg)
		default:
			draining = false
		}
	}

	logger.InfoCF("bus", "shutdown complete", nil)
}
