package e2e

import (
	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/wire"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type testChatSuite struct {
	BaseRelaySuite
}

func TestChatSuite(t *testing.T) {
	suite.Run(t, &testChatSuite{})
}

func system(text string) func(wire.ServerFrame) bool {
	return func(f wire.ServerFrame) bool {
		return f.Type == event.SystemType && f.Text == text
	}
}

func (s *testChatSuite) TestFullChatFlow() {
	// Unique names, the relay history is shared across runs
	suffix := uuid.NewString()[:8]
	aliceName, bobName := "alice-"+suffix, "bob-"+suffix
	text := "hello " + suffix

	var alice, bob *Peer

	s.Run("Step 1: Alice connects and receives the history first", func() {
		alice = s.Connect(aliceName)
		first, err := alice.Next()
		s.Require().NoError(err)
		s.Require().Equal(event.HistoryType, first.Type)

		s.Require().NoError(alice.Send(domain.RegisterCommand{Username: aliceName}))
		_, err = alice.WaitFor(system(aliceName + " has joined the chat."))
		s.Require().NoError(err)
	})

	s.Run("Step 2: Alice posts and a newcomer finds it in its snapshot", func() {
		s.Require().NoError(alice.Send(domain.PostMessageCommand{Text: text}))
		chat, err := alice.WaitFor(func(f wire.ServerFrame) bool { return f.Type == event.ChatType && f.Text == text })
		s.Require().NoError(err)
		s.Require().Equal(aliceName, chat.Username)

		bob = s.Connect(bobName)
		snapshot, err := bob.Next()
		s.Require().NoError(err)
		s.Require().Equal(event.HistoryType, snapshot.Type)
		s.Require().NotEmpty(snapshot.Messages)
		last := snapshot.Messages[len(snapshot.Messages)-1]
		s.Require().Equal(text, last.Text)
	})

	s.Run("Step 3: Typing is relayed but never stored", func() {
		s.Require().NoError(bob.Send(domain.RegisterCommand{Username: bobName}))
		_, err := alice.WaitFor(system(bobName + " has joined the chat."))
		s.Require().NoError(err)

		s.Require().NoError(bob.Send(domain.TypingCommand{IsTyping: true}))
		typing, err := alice.WaitFor(func(f wire.ServerFrame) bool { return f.Type == event.TypingType && f.User == bobName })
		s.Require().NoError(err)
		s.Require().True(typing.IsTyping)
	})

	s.Run("Step 4: Abrupt disconnect announces the leave", func() {
		s.Require().NoError(bob.Drop())
		_, err := alice.WaitFor(system(bobName + " has left the chat."))
		s.Require().NoError(err)
	})
}
