package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/esoccer-insights/stats-api/internal/hub"
)

// Live upgrades to a websocket that receives league snapshots
// @Summary Live League Snapshots
// @Description Websocket; send {"type":"subscribe","leagues":[...]} to filter
// @Tags Live
// @Router /live [get]
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		h.errorResponse(w, http.StatusServiceUnavailable, "Live feed disabled")
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkOrigin,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		h.logger.Debugw("WebSocket upgrade failed", "error", err)
		return
	}

	c := hub.NewClient(uuid.NewString(), conn, h.hub)
	if leagues := r.URL.Query()["league"]; len(leagues) > 0 {
		c.Subscribe(leagues)
	}
	if !h.hub.Register(c) {
		conn.Close()
		return
	}

	// pumps outlive the request
	go c.WritePump(h.liveCtx)
	go c.ReadPump(h.liveCtx)
}

// checkOrigin accepts requests without an Origin header, and otherwise only
// the configured origins unless "*" is configured.
func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.origins) == 0 {
		return true
	}
	if _, ok := h.origins["*"]; ok {
		return true
	}
	_, ok := h.origins[origin]
	return ok
}
