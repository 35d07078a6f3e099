// internal/app/features/stream/handler.go
//
// The stream feature bridges the broadcast hub to websocket clients.
// Each connection subscribes on open and unsubscribes on close; frames
// are the hub envelopes serialized as JSON. There is no per-client
// filtering and no replay — a reconnecting client re-fetches state over
// the REST API.
package stream

import (
	"io"
	"net/http"

	"github.com/dalemusser/gatherhub/internal/app/system/broadcast"
	"go.uber.org/zap"
	"golang.org/x/net/websocket"
)

type Handler struct {
	Hub *broadcast.Hub
	Log *zap.Logger
}

func NewHandler(hub *broadcast.Hub, logger *zap.Logger) *Handler {
	return &Handler{
		Hub: hub,
		Log: logger,
	}
}

// ServeWS upgrades the connection and forwards hub envelopes until the
// client goes away.
// GET /ws
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(h.serveConn).ServeHTTP(w, r)
}

func (h *Handler) serveConn(conn *websocket.Conn) {
	defer conn.Close()

	id, ch := h.Hub.Subscribe()
	defer h.Hub.Unsubscribe(id)

	h.Log.Debug("stream subscriber connected", zap.String("subscriber", id))

	// Drain client frames so closes are noticed; the stream is
	// server-to-client only.
	done := make(chan struct{})
	go func() {
		defer close(done)
		var discard string
		for {
			if err := websocket.Message.Receive(conn, &discard); err != nil {
				if err != io.EOF {
					h.Log.Debug("stream read ended", zap.String("subscriber", id), zap.Error(err))
				}
				return
			}
		}
	}()

	for {
		select {
		case env, ok := <-ch:
			if !ok {
				return
			}
			if err := websocket.JSON.Send(conn, env); err != nil {
				h.Log.Debug("stream send failed, dropping subscriber",
					zap.String("subscriber", id),
					zap.Error(err))
				return
			}
		case <-done:
			return
		}
	}
}
