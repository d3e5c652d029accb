package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wayplan/wayplan-backend/middleware"
	"github.com/wayplan/wayplan-backend/models"
	"github.com/wayplan/wayplan-backend/utils"
)

// SendMessage posts a chat message over HTTP. Idempotent when the request
// carries a client_id the sender has used before.
func SendMessage(c *gin.Context) {
	var request models.SendMessageRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	user := middleware.CurrentUser(c)
	message, err := handlerServices.ChatService.Send(c.Request.Context(), c.Param("id"), user, &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleCreated(c, message)
}

// ChatHistory returns messages in chronological order. Supports ?before=
// (RFC 3339) and ?limit= for paging backwards.
func ChatHistory(c *gin.Context) {
	var before *time.Time
	if raw := c.Query("before"); raw != "" {
		parsed, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			utils.HandleError(c, utils.NewValidationError("before must be an RFC 3339 timestamp"))
			return
		}
		before = &parsed
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			utils.HandleError(c, utils.NewValidationError("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	user := middleware.CurrentUser(c)
	messages, err := handlerServices.ChatService.History(c.Request.Context(), c.Param("id"), user.ID, before, limit)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, messages)
}
