package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/okian/heatcast/internal/broadcast"
	"github.com/okian/heatcast/pkg/logger"
)

// Live connection constants.
const (
	wsReadLimit    = 16 * 1024
	wsWriteTimeout = 10 * time.Second
)

// LiveHandler upgrades GET /heats/{id}/live to a WebSocket and bridges
// it into the broadcast hub.
type LiveHandler struct {
	hub      Hub
	upgrader websocket.Upgrader
}

// NewLiveHandler creates a new live handler.
func NewLiveHandler(hub Hub) *LiveHandler {
	return &LiveHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Viewer traffic is public; authorization is out of scope.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// HandleLive handles the live viewer socket for one heat.
func (h *LiveHandler) HandleLive(w http.ResponseWriter, r *http.Request, heatID string) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		logger.Named("live").Warn(r.Context(), "websocket upgrade failed",
			logger.String("heat_id", heatID), logger.Error(err))
		return
	}
	ws.SetReadLimit(wsReadLimit)

	conn := broadcast.NewWSConn(ws, wsWriteTimeout)
	h.hub.AddConnection(heatID, conn)
	defer h.hub.RemoveConnection(heatID, conn)

	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			return
		}
		h.hub.HandleClientMessage(heatID, conn, raw)
	}
}
