package realtime

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/wayplan/wayplan-backend/services"
	"github.com/wayplan/wayplan-backend/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Auth is token-based, not cookie-based, so cross-origin upgrades
		// carry no ambient credentials.
		return true
	},
}

// Handler upgrades authenticated members onto a trip's chat room.
type Handler struct {
	hub   *Hub
	auth  *services.AuthService
	chat  *services.ChatService
	guard *services.AccessGuard
}

// NewHandler creates a new Handler around an already-running hub. The hub
// is created first so the chat service can broadcast through it.
func NewHandler(hub *Hub, auth *services.AuthService, chat *services.ChatService, members services.MembershipStore) *Handler {
	return &Handler{
		hub:   hub,
		auth:  auth,
		chat:  chat,
		guard: services.NewAccessGuard(members),
	}
}

// Hub exposes the hub for wiring into the chat service's broadcaster.
func (h *Handler) Hub() *Hub {
	return h.hub
}

// HandleTripSocket re-validates the token and active membership before
// upgrading. Browsers cannot set an Authorization header on websocket
// requests, so the token is also accepted as a query parameter.
func (h *Handler) HandleTripSocket(c *gin.Context) {
	token := utils.ExtractBearerToken(c.GetHeader("Authorization"))
	if token == "" {
		token = c.Query("token")
	}
	if token == "" {
		utils.HandleError(c, utils.NewUnauthorizedError("Missing access token"))
		return
	}

	user, err := h.auth.Authenticate(c.Request.Context(), token)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	tripID := c.Param("id")
	if _, _, err := h.guard.Require(c.Request.Context(), tripID, user.ID, services.ActionRead); err != nil {
		utils.HandleError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("websocket upgrade failed")
		return
	}

	client := newClient(h.hub, h.chat, conn, tripID, user)
	h.hub.register <- client

	go client.writePump()
	go client.readPump()
}
