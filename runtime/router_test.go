package runtime

import (
	"chat-relay/domain"
	"chat-relay/moderation"
	"chat-relay/repositories"
	"chat-relay/sink"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type routerFixture struct {
	router   *Router
	registry *Registry
	history  *repositories.MemoryHistory
	id       domain.ConnectionID
	sink     *sink.ConnectionSink
}

func newRouterFixture(t *testing.T, moderator *moderation.Moderator) routerFixture {
	t.Helper()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	registry := NewRegistry()
	history := repositories.NewMemoryHistory()
	broadcaster := NewBroadcaster(log, registry, history)
	router := NewRouter(log, registry, broadcaster, moderator, func() time.Time { return fixedNow })

	id := newConnectionID()
	s := sink.NewConnectionSink()
	registry.Register(id, s)
	return routerFixture{router: router, registry: registry, history: history, id: id, sink: s}
}

func TestRouter_Chat_Before_Registration_Is_Dropped(t *testing.T) {
	req := require.New(t)
	f := newRouterFixture(t, nil)

	// When an unregistered connection chats and types
	f.router.Handle(context.Background(), f.id, []byte(`{"type":"chat","text":"hi"}`))
	f.router.Handle(context.Background(), f.id, []byte(`{"type":"typing","isTyping":true}`))

	// Then nothing is broadcast nor stored
	req.Zero(f.sink.Pending())
	req.Zero(f.history.Len())
}

func TestRouter_Registration_Then_Chat(t *testing.T) {
	req := require.New(t)
	f := newRouterFixture(t, nil)
	ctx := context.Background()

	f.router.Handle(ctx, f.id, []byte(`{"type":"username","username":"Alice"}`))
	f.router.Handle(ctx, f.id, []byte(`{"type":"chat","text":"hi"}`))

	// Then the join notice and the message are stored in order
	entries, err := f.history.Snapshot()
	req.NoError(err)
	req.Equal([]domain.Entry{
		{Kind: domain.SystemEntry, Text: "Alice has joined the chat.", At: fixedNow},
		{Kind: domain.ChatEntry, Username: "Alice", Text: "hi", At: fixedNow},
	}, entries)

	// And both are broadcast, timestamped by the server
	frames := drain(t, f.sink)
	req.Len(frames, 2)
	req.Equal("system", string(frames[0].Type))
	req.Equal("Alice has joined the chat.", frames[0].Text)
	req.Equal("chat", string(frames[1].Type))
	req.Equal("Alice", frames[1].Username)
	req.Equal("hi", frames[1].Text)
	req.Equal(fixedNow.UnixMilli(), frames[1].Timestamp)
}

func TestRouter_Reregistration_Overwrites(t *testing.T) {
	req := require.New(t)
	f := newRouterFixture(t, nil)
	ctx := context.Background()

	f.router.Handle(ctx, f.id, []byte(`{"type":"username","username":"Alice"}`))
	f.router.Handle(ctx, f.id, []byte(`{"type":"username","username":"Bob"}`))
	f.router.Handle(ctx, f.id, []byte(`{"type":"chat","text":"who am i"}`))

	entries, err := f.history.Snapshot()
	req.NoError(err)
	req.Len(entries, 3)
	req.Equal("Bob has joined the chat.", entries[1].Text)
	req.Equal("Bob", entries[2].Username)
}

func TestRouter_Typing_Is_Never_Stored(t *testing.T) {
	req := require.New(t)
	f := newRouterFixture(t, nil)
	ctx := context.Background()
	f.router.Handle(ctx, f.id, []byte(`{"type":"username","username":"Alice"}`))
	_ = f.sink.Drain()

	f.router.Handle(ctx, f.id, []byte(`{"type":"typing","isTyping":true}`))
	f.router.Handle(ctx, f.id, []byte(`{"type":"typing","isTyping":false}`))

	req.Equal(1, f.history.Len())
	frames := drain(t, f.sink)
	req.Len(frames, 2)
	req.Equal("typing", string(frames[0].Type))
	req.Equal("Alice", frames[0].User)
	req.True(frames[0].IsTyping)
	req.False(frames[1].IsTyping)
}

func TestRouter_Malformed_Payloads_Are_Dropped(t *testing.T) {
	f := newRouterFixture(t, nil)
	ctx := context.Background()
	f.router.Handle(ctx, f.id, []byte(`{"type":"username","username":"Alice"}`))
	_ = f.sink.Drain()

	payloads := map[string]string{
		"not json":          `hello`,
		"array":             `[1,2]`,
		"null":              `null`,
		"unknown type":      `{"type":"shout","text":"HI"}`,
		"missing type":      `{"text":"hi"}`,
		"wrong typing type": `{"type":"typing","isTyping":"yes"}`,
		"wrong text type":   `{"type":"chat","text":42}`,
	}
	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)
			f.router.Handle(ctx, f.id, []byte(payload))

			req.Zero(f.sink.Pending())
			req.Equal(1, f.history.Len())
		})
	}

	// And the connection is still usable
	f.router.Handle(ctx, f.id, []byte(`{"type":"chat","text":"still here"}`))
	require.Equal(t, 2, f.history.Len())
}

func TestRouter_Empty_Name_Stays_Unregistered(t *testing.T) {
	req := require.New(t)
	f := newRouterFixture(t, nil)
	ctx := context.Background()

	f.router.Handle(ctx, f.id, []byte(`{"type":"username","username":""}`))
	f.router.Handle(ctx, f.id, []byte(`{"type":"chat","text":"hi"}`))

	entries, err := f.history.Snapshot()
	req.NoError(err)
	req.Len(entries, 1)
	req.Equal(" has joined the chat.", entries[0].Text)
}

func TestRouter_Censors_Chat_Text(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	moderator, err := moderation.NewModerator([]string{"badger"}, '*', log)
	req.NoError(err)
	f := newRouterFixture(t, moderator)
	ctx := context.Background()

	f.router.Handle(ctx, f.id, []byte(`{"type":"username","username":"badger"}`))
	f.router.Handle(ctx, f.id, []byte(`{"type":"chat","text":"the badger is here"}`))

	entries, err := f.history.Snapshot()
	req.NoError(err)
	req.Len(entries, 2)
	// Names are never moderated
	req.Equal("badger has joined the chat.", entries[0].Text)
	req.Equal("badger", entries[1].Username)
	req.Equal("the ****** is here", entries[1].Text)
}
