package channels

import (
	"testing"

	"github.com/mattdef/miniclaw/internal/bus"
)

func TestNewCLIChannelRegistersOutboundChannel(t *testing.T) {
	hub := bus.New()
	c := NewCLIChannel(hub)

	if c.Name() != "cli" {
		t.Fatalf("expected name %q, got %q", "cli", c.Name())
	}
	if c.IsRunning() {
		t.Fatal("expected a freshly constructed channel to not be running yet")
	}
}
