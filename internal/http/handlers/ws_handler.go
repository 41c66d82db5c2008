package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/proposalflow/backend/internal/http/handlers/common"
	"github.com/proposalflow/backend/internal/http/response"
	"github.com/proposalflow/backend/internal/service"
	"github.com/proposalflow/backend/internal/ws"
)

// WSHandler отвечает за установку WebSocket соединений к предложению.
type WSHandler struct {
	hub          *ws.Hub
	tokenManager *service.TokenManager
	proposals    *service.ProposalService
	upgrader     websocket.Upgrader
}

// NewWSHandler создаёт новый хэндлер.
func NewWSHandler(hub *ws.Hub, tokens *service.TokenManager, proposals *service.ProposalService) *WSHandler {
	return &WSHandler{
		hub:          hub,
		tokenManager: tokens,
		proposals:    proposals,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handle обслуживает GET /api/ws/proposals/:id?token=...
// Подписчик получает события изменений предложения, пока другие участники
// его редактируют.
func (h *WSHandler) Handle(c *gin.Context) {
	proposalID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	rawToken := c.Query("token")
	if rawToken == "" {
		response.Unauthorized(c, "access токен обязателен")
		return
	}

	userID, err := h.tokenManager.ParseAccess(rawToken)
	if err != nil || userID == uuid.Nil {
		response.Unauthorized(c, "невалидный access токен")
		return
	}

	proposal, err := h.proposals.Get(c.Request.Context(), proposalID)
	if err != nil {
		response.Error(c, err)
		return
	}

	member := proposal.CreatedBy == userID
	for i := range proposal.Collaborators {
		if proposal.Collaborators[i].UserID == userID {
			member = true
			break
		}
	}
	if !member {
		response.Forbidden(c, "подписка доступна только участникам предложения")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	client := ws.NewClient(conn, h.hub, proposalID, userID)
	h.hub.Register(client)

	client.Run(c.Request.Context())
}
