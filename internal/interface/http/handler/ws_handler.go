package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/koicare/pondflow/internal/auth"
	"github.com/koicare/pondflow/internal/interface/http/response"
	"github.com/koicare/pondflow/internal/ws"
)

// WSHandler upgrades notification connections.
type WSHandler struct {
	hub      *ws.Hub
	tokens   *auth.TokenManager
	upgrader websocket.Upgrader
}

func NewWSHandler(hub *ws.Hub, tokens *auth.TokenManager, allowedOrigins []string) *WSHandler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}
	return &WSHandler{
		hub:    hub,
		tokens: tokens,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || len(allowed) == 0 {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

// Handle serves GET /api/ws?token=...
func (h *WSHandler) Handle(c *gin.Context) {
	raw := c.Query("token")
	if raw == "" {
		response.Unauthorized(c, "access token is required")
		return
	}
	actor, err := h.tokens.ParseAccess(raw)
	if err != nil {
		response.Unauthorized(c, "invalid access token")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		return
	}

	client := ws.NewClient(conn, h.hub, actor.UserID)
	if err := h.hub.Register(client); err != nil {
		conn.Close()
		return
	}
	client.Run(c.Request.Context())
}
