package runtime

import (
	"chat-relay/domain"
	"chat-relay/repositories"
	"chat-relay/runtime/workers"
	"chat-relay/sink"
	"chat-relay/wire"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func newTestOrchestrator(t *testing.T) (*Orchestrator, *repositories.MemoryHistory) {
	t.Helper()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	history := repositories.NewMemoryHistory()
	supervisor := workers.NewSupervisor(log, 10*time.Millisecond)
	return NewOrchestrator(log, supervisor, NewRegistry(), history, nil, time.Second), history
}

func openConnection(t *testing.T, o *Orchestrator) (domain.ConnectionID, *sink.ConnectionSink) {
	t.Helper()
	id := newConnectionID()
	s := sink.NewConnectionSink()
	require.NoError(t, o.Open(context.Background(), id, s))
	return id, s
}

func send(t *testing.T, o *Orchestrator, id domain.ConnectionID, cmd domain.Command) {
	t.Helper()
	raw, err := wire.EncodeCommand(cmd)
	require.NoError(t, err)
	o.Receive(context.Background(), id, raw)
}

// drain decodes every frame queued so far.
func drain(t *testing.T, s *sink.ConnectionSink) []wire.ServerFrame {
	t.Helper()
	var frames []wire.ServerFrame
	for _, raw := range s.Drain() {
		frame, err := wire.DecodeServerFrame(raw)
		require.NoError(t, err)
		frames = append(frames, frame)
	}
	return frames
}

// view rebuilds what a client renders: the history snapshot then live chat and system frames.
func view(frames []wire.ServerFrame) []wire.ServerFrame {
	var rendered []wire.ServerFrame
	for _, f := range frames {
		switch f.Type {
		case "chatHistory":
			rendered = append(rendered, f.Messages...)
		case "chat", "system":
			rendered = append(rendered, f)
		}
	}
	return rendered
}
