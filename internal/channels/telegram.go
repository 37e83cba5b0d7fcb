package channels

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"sync"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"github.com/mattdef/miniclaw/internal/bus"
	"github.com/mattdef/miniclaw/internal/chattypes"
	"github.com/mattdef/miniclaw/internal/logger"
	"github.com/mattdef/miniclaw/internal/security"
)

// telegramOutboundLimit is Telegram's hard per-message character cap; the
// adapter truncates on a rune boundary rather than let the API reject the
// send (spec §6 messaging-bot adapter contract).
const telegramOutboundLimit = 4096

// tokenFormatRe enforces the messaging-bot adapter contract's token shape:
// digits, exactly one colon, then a non-empty remainder.
var tokenFormatRe = regexp.MustCompile(`^[0-9]+:[^:]+$`)

// ValidateTelegramToken reports whether token matches the required
// `<digits>:<non-empty>` shape.
func ValidateTelegramToken(token string) bool {
	return tokenFormatRe.MatchString(token)
}

// TelegramChannel is a messaging-bot adapter backed by Telegram long
// polling. Inbound senders are checked against a Whitelist; unlisted
// senders are dropped silently, per spec.
type TelegramChannel struct {
	bot       *telego.Bot
	hub       *bus.ChatHub
	whitelist *security.Whitelist

	mu       sync.Mutex
	running  bool
	cancel   context.CancelFunc
	done     chan struct{}
	outbound chan chattypes.OutboundMessage
}

// NewTelegramChannel validates token and constructs a TelegramChannel
// gated by whitelist. Returns an error if token fails the adapter
// contract's format check or the bot cannot be constructed.
func NewTelegramChannel(token string, whitelist *security.Whitelist, hub *bus.ChatHub) (*TelegramChannel, error) {
	if !ValidateTelegramToken(token) {
		return nil, fmt.Errorf("invalid telegram token format: expected <digits>:<non-empty>")
	}

	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	c := &TelegramChannel{
		bot:       bot,
		hub:       hub,
		whitelist: whitelist,
		outbound:  make(chan chattypes.OutboundMessage, bus.QueueCapacity),
	}
	hub.RegisterChannel(c.Name(), c.outbound)
	return c, nil
}

// Name returns "telegram".
func (c *TelegramChannel) Name() string { return "telegram" }

// IsRunning reports whether long polling is active.
func (c *TelegramChannel) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Start begins long polling for updates and the outbound reply loop.
func (c *TelegramChannel) Start(ctx context.Context) error {
	pollCtx, cancel := context.WithCancel(ctx)

	updates, err := c.bot.UpdatesViaLongPolling(pollCtx, &telego.GetUpdatesParams{
		Timeout:        30,
		AllowedUpdates: []string{"message"},
	})
	if err != nil {
		cancel()
		return fmt.Errorf("start telegram long polling: %w", err)
	}

	c.mu.Lock()
	c.cancel = cancel
	c.done = make(chan struct{})
	c.running = true
	c.mu.Unlock()

	logger.InfoCF("channels.telegram", "bot connected", map[string]interface{}{"username": c.bot.Username()})

	go c.replyLoop(pollCtx)
	go c.pollLoop(pollCtx, updates)

	return nil
}

func (c *TelegramChannel) pollLoop(ctx context.Context, updates <-chan telego.Update) {
	defer close(c.done)

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message != nil {
				c.handleMessage(update.Message)
			}
		}
	}
}

func (c *TelegramChannel) handleMessage(message *telego.Message) {
	if message.From == nil || message.Text == "" {
		return
	}

	senderID := message.From.ID
	if !c.whitelist.IsAllowed(senderID) {
		logger.DebugCF("channels.telegram", "dropping message from non-whitelisted sender", map[string]interface{}{
			"user_id": senderID,
		})
		return
	}

	chatID := strconv.FormatInt(message.Chat.ID, 10)
	msg := chattypes.NewInboundMessage(c.Name(), chatID, message.Text)
	msg = msg.WithMetadata("message_id", strconv.Itoa(message.MessageID))
	msg = msg.WithMetadata("user_id", strconv.FormatInt(senderID, 10))

	c.hub.SendInbound(msg)
}

func (c *TelegramChannel) replyLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-c.outbound:
			c.send(ctx, msg)
		}
	}
}

func (c *TelegramChannel) send(ctx context.Context, msg chattypes.OutboundMessage) {
	chatID, err := strconv.ParseInt(msg.ChatID, 10, 64)
	if err != nil {
		logger.WarnCF("channels.telegram", "dropping outbound message with invalid chat id", map[string]interface{}{
			"chat_id": msg.ChatID, "error": err.Error(),
		})
		return
	}

	content := truncateOutbound(msg.Content)
	params := tu.Message(tu.ID(chatID), content)

	if _, err := c.bot.SendMessage(ctx, params); err != nil {
		logger.WarnCF("channels.telegram", "failed to send outbound message", map[string]interface{}{"error": err.Error()})
	}
}

// truncateOutbound enforces telegramOutboundLimit on a rune boundary,
// warning when truncation occurs (spec §6 messaging-bot adapter contract).
func truncateOutbound(content string) string {
	runes := []rune(content)
	if len(runes) <= telegramOutboundLimit {
		return content
	}

	logger.WarnCF("channels.telegram", "truncating outbound message over the 4096-character limit", map[string]interface{}{
		"original_length": len(runes),
	})
	return string(runes[:telegramOutboundLimit])
}

// Stop cancels long polling and waits for the poll goroutine to exit.
func (c *TelegramChannel) Stop(ctx context.Context) error {
	c.mu.Lock()
	cancel := c.cancel
	done := c.done
	c.running = false
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
		}
	}
	return nil
}
