// Package runtime wires the relay together: sessions, history, fan-out and routing.
// It owns the single point of serialization for every inbound event.
package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/moderation"
	"chat-relay/runtime/workers"
	"chat-relay/wire"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

var _ contract.IRelay = (*Orchestrator)(nil)

// Orchestrator is the Connection Lifecycle Manager.
//
// One mutex covers register+snapshot on open, append+broadcast for each
// inbound event and remove+notice on close. A newcomer therefore sees any
// given entry exactly once: either in its chatHistory or live, never both.
// Sinks only enqueue, so nothing inside the lock waits on a socket.
type Orchestrator struct {
	mu             sync.Mutex
	log            *slog.Logger
	supervisor     contract.ISupervisor
	registry       contract.IRegistry
	history        contract.IHistory
	broadcaster    *Broadcaster
	router         *Router
	now            func() time.Time
	metricInterval time.Duration
}

func NewOrchestrator(log *slog.Logger, supervisor contract.ISupervisor,
	registry contract.IRegistry, history contract.IHistory,
	moderator *moderation.Moderator, metricInterval time.Duration) *Orchestrator {
	now := func() time.Time { return time.Now().UTC() }
	broadcaster := NewBroadcaster(log, registry, history)
	return &Orchestrator{
		log:            log,
		supervisor:     supervisor,
		registry:       registry,
		history:        history,
		broadcaster:    broadcaster,
		router:         NewRouter(log, registry, broadcaster, moderator, now),
		now:            now,
		metricInterval: metricInterval,
	}
}

// Open registers a new connection and privately sends it the current history.
func (o *Orchestrator) Open(ctx context.Context, id domain.ConnectionID, sink contract.EventSink) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	entries, err := o.history.Snapshot()
	if err != nil {
		return fmt.Errorf("open %s: %w", id, err)
	}
	frame, err := wire.Encode(event.HistorySnapshot{Entries: entries})
	if err != nil {
		return fmt.Errorf("open %s: %w", id, err)
	}
	o.registry.Register(id, sink)
	if err = sink.Consume(ctx, frame); err != nil {
		o.log.Debug("History snapshot not delivered", "connection", id, "error", err)
	}
	o.log.Debug("Connection opened", "connection", id, "history", len(entries))
	return nil
}

// Receive processes one inbound frame. Frames of a connection must be
// received in order, which the transport guarantees with one read loop.
func (o *Orchestrator) Receive(ctx context.Context, id domain.ConnectionID, raw []byte) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.router.Handle(ctx, id, raw)
}

// Close is terminal for the connection, whether it ended gracefully or not.
func (o *Orchestrator) Close(ctx context.Context, id domain.ConnectionID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	name, ok := o.registry.Remove(id)
	o.log.Debug("Connection closed", "connection", id, "registered", ok)
	if !ok {
		return
	}
	if err := o.broadcaster.Publish(ctx, event.Left(name, o.now())); err != nil {
		o.log.Error("Publish failed", "type", event.SystemType, "error", err)
	}
}

func (o *Orchestrator) Stats() domain.Stats {
	return domain.Stats{
		Participants: o.registry.Len(),
		HistorySize:  o.history.Len(),
	}
}

// Start runs the supervised background workers and blocks until ctx is done.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.supervisor.Add(workers.NewHealthMonitoringWorker(o.log, o.metricInterval, o.Stats))
	o.log.Info("Starting orchestrator and all supervised workers")
	o.supervisor.Run(ctx)
	return nil
}

func (o *Orchestrator) Stop() {
	o.log.Info("Requesting orchestrator shutdown")
	o.supervisor.Stop()
}
