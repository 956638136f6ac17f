package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain/event"
	"chat-relay/wire"
	"context"
	"fmt"
	"log/slog"
)

// Broadcaster is the Broadcast Engine.
//
// It provides best-effort fan-out with no guarantees regarding delivery
// or retries: a sink that fails is skipped and never aborts the loop.
// Recipients are the connections open when the broadcast begins.
type Broadcaster struct {
	log      *slog.Logger
	registry contract.IRegistry
	history  contract.IHistory
}

func NewBroadcaster(log *slog.Logger, registry contract.IRegistry, history contract.IHistory) *Broadcaster {
	return &Broadcaster{log: log, registry: registry, history: history}
}

// Broadcast encodes the event once and hands the frame to every open connection.
// It returns how many connections accepted it.
func (b *Broadcaster) Broadcast(ctx context.Context, evt event.DomainEvent) (int, error) {
	frame, err := wire.Encode(evt)
	if err != nil {
		return 0, err
	}

	delivered := 0
	for _, sink := range b.registry.AllOpenConnections() {
		if err := sink.Consume(ctx, frame); err != nil {
			b.log.Debug("Skipping recipient", "type", evt.EventType(), "error", err)
			continue
		}
		delivered++
	}
	return delivered, nil
}

// Publish appends persistable events to the history, then broadcasts.
// Typing status is broadcast only.
func (b *Broadcaster) Publish(ctx context.Context, evt event.DomainEvent) error {
	if p, ok := evt.(event.Persistable); ok {
		if err := b.history.Append(p.ToEntry()); err != nil {
			return fmt.Errorf("publish %s: %w", evt.EventType(), err)
		}
	}
	delivered, err := b.Broadcast(ctx, evt)
	if err != nil {
		return fmt.Errorf("publish %s: %w", evt.EventType(), err)
	}
	b.log.Debug("Event published", "type", evt.EventType(), "recipients", delivered)
	return nil
}
