package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/wayplan/wayplan-backend/middleware"
	"github.com/wayplan/wayplan-backend/models"
	"github.com/wayplan/wayplan-backend/utils"
)

// CreatePoll opens a poll with at least two options
func CreatePoll(c *gin.Context) {
	var request models.CreatePollRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	user := middleware.CurrentUser(c)
	poll, err := handlerServices.PollService.CreatePoll(c.Request.Context(), c.Param("id"), user, &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleCreated(c, poll)
}

// ListPolls returns a trip's polls with vote counts
func ListPolls(c *gin.Context) {
	user := middleware.CurrentUser(c)
	polls, err := handlerServices.PollService.ListPolls(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, polls)
}

// GetPoll returns one poll with vote counts and the caller's vote
func GetPoll(c *gin.Context) {
	user := middleware.CurrentUser(c)
	poll, err := handlerServices.PollService.GetPoll(c.Request.Context(), c.Param("pollId"), user.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, poll)
}

// Vote records or replaces the caller's vote on a poll
func Vote(c *gin.Context) {
	var request models.VoteRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	user := middleware.CurrentUser(c)
	poll, err := handlerServices.PollService.Vote(c.Request.Context(), c.Param("pollId"), user, &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, poll)
}

// UpdatePoll opens or closes a poll; editor or owner
func UpdatePoll(c *gin.Context) {
	var request models.UpdatePollRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	user := middleware.CurrentUser(c)
	poll, err := handlerServices.PollService.SetActive(c.Request.Context(), c.Param("pollId"), user.ID, *request.IsActive)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, poll)
}

// DeletePoll removes a poll and its votes; editor or owner
func DeletePoll(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if err := handlerServices.PollService.DeletePoll(c.Request.Context(), c.Param("pollId"), user.ID); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleNoContent(c)
}
