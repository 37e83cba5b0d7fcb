package channels

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/chzyer/readline"
	"github.com/google/uuid"

	"github.com/mattdef/miniclaw/internal/bus"
	"github.com/mattdef/miniclaw/internal/chattypes"
	"github.com/mattdef/miniclaw/internal/logger"
)

// cliChatID is the single local chat every CLI turn is keyed under; unlike
// Telegram, the CLI channel has exactly one user and one conversation.
const cliChatID = "local"

// CLIChannel is a local terminal adapter: it reads lines from stdin and
// prints replies to stdout, driven by the `miniclaw agent` / interactive
// mode of the CLI surface (spec §6).
type CLIChannel struct {
	hub *bus.ChatHub

	mu      sync.Mutex
	running bool
	rl      *readline.Instance

	outbound chan chattypes.OutboundMessage
	done     chan struct{}
}

// NewCLIChannel builds a CLIChannel that publishes inbound lines to hub and
// registers itself to receive outbound replies.
func NewCLIChannel(hub *bus.ChatHub) *CLIChannel {
	c := &CLIChannel{
		hub:      hub,
		outbound: make(chan chattypes.OutboundMessage, 1),
		done:     make(chan struct{}),
	}
	hub.RegisterChannel(c.Name(), c.outbound)
	return c
}

// Name returns "cli".
func (c *CLIChannel) Name() string { return "cli" }

// IsRunning reports whether the read loop is active.
func (c *CLIChannel) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Start opens the readline prompt and begins the stdin read loop and the
// stdout reply loop, both in background goroutines.
func (c *CLIChannel) Start(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "miniclaw> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("open readline prompt: %w", err)
	}

	c.mu.Lock()
	c.rl = rl
	c.running = true
	c.mu.Unlock()

	go c.replyLoop(ctx)
	go c.readLoop(ctx)

	return nil
}

func (c *CLIChannel) readLoop(ctx context.Context) {
	defer close(c.done)

	for {
		line, err := c.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if !errors.Is(err, io.EOF) {
				logger.WarnCF("channels.cli", "readline error", map[string]interface{}{"error": err.Error()})
			}
			return
		}

		if ctx.Err() != nil {
			return
		}

		msg := chattypes.NewInboundMessage(c.Name(), cliChatID, line)
		msg = msg.WithMetadata("message_id", uuid.NewString())
		c.hub.SendInbound(msg)
	}
}

func (c *CLIChannel) replyLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-c.outbound:
			fmt.Println(msg.Content)
		}
	}
}

// Stop closes the readline prompt, ending the read loop.
func (c *CLIChannel) Stop(ctx context.Context) error {
	c.mu.Lock()
	rl := c.rl
	c.running = false
	c.mu.Unlock()

	if rl != nil {
		_ = rl.Close()
	}

	select {
	case <-c.done:
	case <-ctx.Done():
	}
	return nil
}
