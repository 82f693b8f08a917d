package config

import (
	"net/http"
	"slices"

	"github.com/gorilla/websocket"
)

type WebSocket struct {
	Upgrader websocket.Upgrader
}

// NewWebSocket configures the upgrader used for replay streams. Origins
// are checked against [AllowedOrigins].
func NewWebSocket() *WebSocket {
	allowed := AllowedOrigins()

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			return len(allowed) == 0 || slices.Contains(allowed, r.Header.Get("Origin"))
		},
	}

	return &WebSocket{Upgrader: upgrader}
}
