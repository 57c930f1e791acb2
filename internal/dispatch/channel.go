package dispatch

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Channel is the outbound transmission capability the dispatcher
// delegates to. Implementations must be safe for concurrent Send calls.
type Channel interface {
	// Ready resolves whatever the channel needs before a batch (e.g.
	// provider credentials). A Ready error fails the whole dispatch
	// before any per-recipient attempt is made.
	Ready(ctx context.Context) error
	// Send transmits one message and returns a provider delivery id.
	Send(ctx context.Context, to, from, body string) (string, error)
}

// LogChannel is a log-only stand-in for environments without provider
// credentials. It is selected explicitly at wiring time, never as an
// implicit fallback.
type LogChannel struct {
	logger *slog.Logger
}

// NewLogChannel creates a LogChannel. A nil logger uses slog's default.
func NewLogChannel(logger *slog.Logger) *LogChannel {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogChannel{logger: logger}
}

func (c *LogChannel) Ready(_ context.Context) error { return nil }

func (c *LogChannel) Send(_ context.Context, to, from, body string) (string, error) {
	id := "log-" + uuid.NewString()
	c.logger.Info("emergency alert (log-only channel)", "to", to, "from", from, "body", body, "deliveryId", id)
	return id, nil
}
