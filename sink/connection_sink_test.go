package sink

import (
	"chat-relay/errors"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConnectionSink_Consume_Then_Drain(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	s := NewConnectionSink()

	// When several frames are consumed
	req.NoError(s.Consume(ctx, []byte("1")))
	req.NoError(s.Consume(ctx, []byte("2")))
	req.NoError(s.Consume(ctx, []byte("3")))

	// Then a single wake-up is pending
	select {
	case <-s.Ready():
	case <-time.After(time.Second):
		req.Fail("sink should be ready")
	}
	req.Equal(3, s.Pending())

	// And frames are drained in order
	req.Equal([][]byte{[]byte("1"), []byte("2"), []byte("3")}, s.Drain())
	req.Empty(s.Drain())
	req.Zero(s.Pending())
}

func TestConnectionSink_Never_Blocks(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	s := NewConnectionSink()

	// Given nobody drains the sink
	for i := 0; i < 10_000; i++ {
		req.NoError(s.Consume(ctx, []byte(fmt.Sprintf("%d", i))))
	}

	// Then every frame is kept
	req.Equal(10_000, s.Pending())
}

func TestConnectionSink_Closed(t *testing.T) {
	req := require.New(t)
	s := NewConnectionSink()

	s.Close()
	s.Close()

	select {
	case <-s.Done():
	default:
		req.Fail("done should be closed")
	}
	req.ErrorIs(s.Consume(context.Background(), []byte("late")), errors.ErrConnectionClosed)
	req.Zero(s.Pending())
}

func TestConnectionSink_Concurrent_Consume(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	s := NewConnectionSink()
	var wg sync.WaitGroup

	for w := 0; w < 10; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				_ = s.Consume(ctx, []byte("x"))
			}
		}()
	}
	wg.Wait()

	req.Len(s.Drain(), 1000)
}
