// Package channels implements the adapters that sit between external chat
// platforms (or the local terminal) and the ChatHub: a CLI channel reading
// from stdin/writing to stdout, and a Telegram long-polling bot channel.
package channels

import "context"

// Channel is the contract every adapter implements: it produces inbound
// messages into the hub and consumes outbound messages routed back to it.
type Channel interface {
	// Name returns the channel identifier used to key sessions and route
	// outbound replies (e.g. "cli", "telegram").
	Name() string

	// Start begins producing inbound messages. It returns once setup
	// succeeds; message production continues in the background until ctx
	// is canceled or Stop is called.
	Start(ctx context.Context) error

	// Stop gracefully shuts the adapter down.
	Stop(ctx context.Context) error

	// IsRunning reports whether the adapter is actively processing messages.
	IsRunning() bool
}
