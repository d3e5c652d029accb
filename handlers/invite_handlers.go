package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/wayplan/wayplan-backend/middleware"
	"github.com/wayplan/wayplan-backend/models"
	"github.com/wayplan/wayplan-backend/utils"
)

// CreateInvite issues a pending invite for a trip; owner only
func CreateInvite(c *gin.Context) {
	var request models.CreateInviteRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	user := middleware.CurrentUser(c)
	invite, err := handlerServices.InviteService.Issue(c.Request.Context(), c.Param("id"), user, &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleCreated(c, invite)
}

// ListInvites returns a trip's invites; owner only
func ListInvites(c *gin.Context) {
	user := middleware.CurrentUser(c)
	invites, err := handlerServices.InviteService.List(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, invites)
}

// AcceptInvite redeems an invite token for the authenticated user
func AcceptInvite(c *gin.Context) {
	var request models.AcceptInviteRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	user := middleware.CurrentUser(c)
	invite, err := handlerServices.InviteService.Accept(c.Request.Context(), request.Token, user)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, invite)
}

// RevokeInvite cancels a pending invite; owner only
func RevokeInvite(c *gin.Context) {
	user := middleware.CurrentUser(c)
	invite, err := handlerServices.InviteService.Revoke(c.Request.Context(), c.Param("inviteId"), user)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, invite)
}
