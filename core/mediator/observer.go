package mediator

import (
	"context"
	"time"

	"github.com/RenFontes/Courier/core/logger"
	"github.com/RenFontes/Courier/pkg/broadcast"
)

// Observation describes one completed broadcast. It is a diagnostic side
// channel and plays no part in delivery.
type Observation struct {
	Message   string
	Payload   any
	Delivered int
	At        time.Time
}

// Observe subscribes to broadcast notifications until ctx is done or the
// returned subscriber is closed. Slow observers miss notifications rather
// than stall broadcasters.
func (m *Mediator) Observe(ctx context.Context) broadcast.Subscriber[Observation] {
	return m.observers.Subscribe(ctx)
}

func (m *Mediator) observe(ctx context.Context, message string, payload any, delivered int) {
	obs := Observation{
		Message:   message,
		Payload:   payload,
		Delivered: delivered,
		At:        m.now(),
	}

	// The observers get a detached context so a cancelled broadcast still reports.
	if err := m.observers.Broadcast(context.WithoutCancel(ctx), broadcast.Message[Observation]{Data: obs}); err != nil {
		m.logger.DebugContext(ctx, "broadcast observation dropped",
			logger.Message(message),
			logger.Error(err))
	}
}
