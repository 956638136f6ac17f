// Package e2e drives a running relay over real WebSockets.
// The suites are skipped unless RELAY_ADDR is set.
package e2e

import (
	"chat-relay/domain"
	"chat-relay/wire"
	"fmt"
	"testing"
	"time"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"
)

const frameTimeout = 5 * time.Second

type BaseRelaySuite struct {
	suite.Suite
	Config Config
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseRelaySuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.RelayAddr == "" {
		s.T().Skip("RELAY_ADDR not set")
	}
}

// Peer is one client connection, logging its traffic on the test.
type Peer struct {
	t      *testing.T
	name   string
	conn   *websocket.Conn
	config Config
}

// Connect dials the relay and prints a header for the step.
func (s *BaseRelaySuite) Connect(name string) *Peer {
	t := s.T()
	header := fmt.Sprintf("  ====== %s connects ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	t.Log(header)

	conn, _, err := websocket.DefaultDialer.Dial(s.Config.RelayAddr, nil)
	s.Require().NoError(err, "Failed to connect to relay at "+s.Config.RelayAddr)
	t.Cleanup(func() { _ = conn.Close() })
	return &Peer{t: t, name: name, conn: conn, config: s.Config}
}

func (p *Peer) Send(cmd domain.Command) error {
	raw, err := wire.EncodeCommand(cmd)
	if err != nil {
		return err
	}
	if p.config.DebugJSON {
		p.t.Logf("%s >> %s", p.name, raw)
	}
	return p.conn.WriteMessage(websocket.TextMessage, raw)
}

// Next returns the next frame received by the peer.
func (p *Peer) Next() (wire.ServerFrame, error) {
	if err := p.conn.SetReadDeadline(time.Now().Add(frameTimeout)); err != nil {
		return wire.ServerFrame{}, err
	}
	_, raw, err := p.conn.ReadMessage()
	if err != nil {
		return wire.ServerFrame{}, err
	}
	if p.config.DebugJSON {
		p.t.Logf("%s << %s", p.name, raw)
	}
	return wire.DecodeServerFrame(raw)
}

// WaitFor skips frames until one matches.
// The relay may be shared with other clients, so unrelated traffic is expected.
func (p *Peer) WaitFor(match func(wire.ServerFrame) bool) (wire.ServerFrame, error) {
	for {
		frame, err := p.Next()
		if err != nil {
			return wire.ServerFrame{}, err
		}
		if match(frame) {
			return frame, nil
		}
	}
}

// Drop closes the socket without a close handshake.
func (p *Peer) Drop() error {
	return p.conn.UnderlyingConn().Close()
}
