// Package websocket is the relay transport: one WebSocket per client, a read
// loop feeding the relay and a write pump draining the connection sink.
package websocket

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/sink"
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Handler upgrades WebSocket requests on any path and hands every other
// request to the page handler.
type Handler struct {
	log      *slog.Logger
	relay    contract.IRelay
	page     http.Handler
	upgrader websocket.Upgrader
}

func NewHandler(log *slog.Logger, relay contract.IRelay, page http.Handler) *Handler {
	return &Handler{
		log:   log,
		relay: relay,
		page:  page,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !websocket.IsWebSocketUpgrade(r) {
		h.page.ServeHTTP(w, r)
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		h.log.Debug("Upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	// The connection outlives the request context
	ctx := context.WithoutCancel(r.Context())
	id := domain.ConnectionID(uuid.NewString())
	out := sink.NewConnectionSink()

	if err = h.relay.Open(ctx, id, out); err != nil {
		h.log.Error("Unable to open connection", "connection", id, "error", err)
		out.Close()
		_ = conn.Close()
		return
	}
	h.log.Debug("Client connected", "connection", id, "remote", r.RemoteAddr)

	go h.write(id, conn, out)
	h.read(ctx, id, conn, out)
}

// read delivers inbound frames in order until the socket fails or is closed.
func (h *Handler) read(ctx context.Context, id domain.ConnectionID, conn *websocket.Conn, out *sink.ConnectionSink) {
	defer func() {
		h.relay.Close(ctx, id)
		out.Close()
		_ = conn.Close()
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debug("Connection lost", "connection", id, "error", err)
			}
			return
		}
		h.relay.Receive(ctx, id, message)
	}
}

// write is the only writer of the socket.
// A write error closes the socket, which ends the read loop.
func (h *Handler) write(id domain.ConnectionID, conn *websocket.Conn, out *sink.ConnectionSink) {
	for {
		select {
		case <-out.Ready():
			for _, frame := range out.Drain() {
				if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
					h.log.Debug("Write failed", "connection", id, "error", err)
					_ = conn.Close()
					return
				}
			}
		case <-out.Done():
			_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
