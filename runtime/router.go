package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"chat-relay/moderation"
	"chat-relay/wire"
	"context"
	"log/slog"
	"time"
)

// Router is the Event Router: it decodes inbound frames and dispatches them.
//
// Every failure path is a silent drop for the sender: malformed frames,
// unknown types and chat or typing before registration are logged and ignored.
// Calls must be serialized by the caller.
type Router struct {
	log         *slog.Logger
	registry    contract.IRegistry
	broadcaster *Broadcaster
	moderator   *moderation.Moderator
	now         func() time.Time
}

// NewRouter builds a router. moderator may be nil.
func NewRouter(log *slog.Logger, registry contract.IRegistry, broadcaster *Broadcaster,
	moderator *moderation.Moderator, now func() time.Time) *Router {
	return &Router{
		log:         log,
		registry:    registry,
		broadcaster: broadcaster,
		moderator:   moderator,
		now:         now,
	}
}

func (r *Router) Handle(ctx context.Context, id domain.ConnectionID, raw []byte) {
	cmd, err := wire.DecodeCommand(raw)
	if err != nil {
		r.log.Debug("Dropping inbound frame", "connection", id, "error", err)
		return
	}
	r.Dispatch(ctx, id, cmd)
}

func (r *Router) Dispatch(ctx context.Context, id domain.ConnectionID, cmd domain.Command) {
	switch c := cmd.(type) {
	case domain.RegisterCommand:
		r.register(ctx, id, c)
	case domain.PostMessageCommand:
		r.postMessage(ctx, id, c)
	case domain.TypingCommand:
		r.typing(ctx, id, c)
	}
}

func (r *Router) register(ctx context.Context, id domain.ConnectionID, cmd domain.RegisterCommand) {
	if !r.registry.SetName(id, cmd.Username) {
		r.log.Warn("Registration dropped", "connection", id, "error", errors.ErrUnknownConnection)
		return
	}
	r.publish(ctx, event.Joined(cmd.Username, r.now()))
}

func (r *Router) postMessage(ctx context.Context, id domain.ConnectionID, cmd domain.PostMessageCommand) {
	name, ok := r.registry.Name(id)
	if !ok {
		r.log.Debug("Chat before registration dropped", "connection", id)
		return
	}
	text := cmd.Text
	if r.moderator != nil {
		var words []string
		if text, words = r.moderator.Censor(text); len(words) > 0 {
			r.log.Info("Message censored", "author", name, "words", len(words))
		}
	}
	r.publish(ctx, event.ChatMessage{Author: name, Text: text, At: r.now()})
}

func (r *Router) typing(ctx context.Context, id domain.ConnectionID, cmd domain.TypingCommand) {
	name, ok := r.registry.Name(id)
	if !ok {
		r.log.Debug("Typing before registration dropped", "connection", id)
		return
	}
	r.publish(ctx, event.TypingStatus{User: name, IsTyping: cmd.IsTyping})
}

func (r *Router) publish(ctx context.Context, evt event.DomainEvent) {
	if err := r.broadcaster.Publish(ctx, evt); err != nil {
		r.log.Error("Publish failed", "type", evt.EventType(), "error", err)
	}
}
