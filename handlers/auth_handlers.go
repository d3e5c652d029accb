package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/wayplan/wayplan-backend/middleware"
	"github.com/wayplan/wayplan-backend/models"
	"github.com/wayplan/wayplan-backend/utils"
)

// Register handles account creation
func Register(c *gin.Context) {
	var request models.RegisterRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	user, err := handlerServices.AuthService.Register(c.Request.Context(), &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleCreated(c, user.Public())
}

// Login exchanges credentials for a token pair
func Login(c *gin.Context) {
	var request models.LoginRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	tokens, err := handlerServices.AuthService.Login(c.Request.Context(), &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, tokens)
}

// Refresh exchanges a refresh token for a fresh token pair
func Refresh(c *gin.Context) {
	var request models.RefreshRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	tokens, err := handlerServices.AuthService.Refresh(c.Request.Context(), request.RefreshToken)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, tokens)
}

// Me returns the authenticated user's profile
func Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	utils.HandleSuccess(c, user.Public())
}
