package http

import (
	"log"
	"net/http"

	"quizmaster/internal/app"
	"quizmaster/internal/domain"
	"github.com/gorilla/websocket"
)

// WSHandler streams leaderboard snapshots to clients: the current board on
// connect, then one snapshot per recorded result. The feed is read-only.
type WSHandler struct {
	board    *app.LeaderboardService
	upgrader websocket.Upgrader
}

func NewWSHandler(board *app.LeaderboardService) *WSHandler {
	return &WSHandler{
		board: board,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// ServeWS upgrades the request and pumps board updates until the client
// disconnects.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates, cancel, err := h.board.Subscribe(r.Context())
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[string]{Type: "error", Payload: err.Error()})
		return
	}
	defer cancel()

	// Reader only detects the client closing; all writes happen below.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case board, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(outboundMessage[domain.Leaderboard]{Type: "leaderboard", Payload: board}); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		case <-closed:
			return
		}
	}
}
