package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Dosada05/ryder-manager/scoring"
	"github.com/Dosada05/ryder-manager/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	hub *scoring.Hub
}

func NewWebSocketHandler(hub *scoring.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// ServeMatchWs handles GET /ws/matches/{matchID}: upgrades the connection
// and subscribes the client to the match's live scoring room.
func (h *WebSocketHandler) ServeMatchWs(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", "error", err)
		return
	}

	client := &scoring.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: services.MatchRoom(matchID),
	}
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
