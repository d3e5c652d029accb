package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/wayplan/wayplan-backend/middleware"
	"github.com/wayplan/wayplan-backend/models"
	"github.com/wayplan/wayplan-backend/utils"
)

// CreateTrip handles the creation of a new trip
func CreateTrip(c *gin.Context) {
	var request models.CreateTripRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	user := middleware.CurrentUser(c)
	trip, err := handlerServices.TripService.CreateTrip(c.Request.Context(), user, &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleCreated(c, trip)
}

// ListTrips returns the trips the caller belongs to
func ListTrips(c *gin.Context) {
	user := middleware.CurrentUser(c)
	trips, err := handlerServices.TripService.ListTrips(c.Request.Context(), user.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, trips)
}

// GetTrip returns a single trip the caller is a member of
func GetTrip(c *gin.Context) {
	user := middleware.CurrentUser(c)
	trip, err := handlerServices.TripService.GetTrip(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, trip)
}

// UpdateTrip patches trip fields; owner only
func UpdateTrip(c *gin.Context) {
	var request models.UpdateTripRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	user := middleware.CurrentUser(c)
	trip, err := handlerServices.TripService.UpdateTrip(c.Request.Context(), c.Param("id"), user.ID, &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, trip)
}

// DeleteTrip removes a trip and everything under it; owner only
func DeleteTrip(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if err := handlerServices.TripService.DeleteTrip(c.Request.Context(), c.Param("id"), user.ID); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleNoContent(c)
}

// ListTripMembers returns the trip's member roster
func ListTripMembers(c *gin.Context) {
	user := middleware.CurrentUser(c)
	members, err := handlerServices.TripService.ListMembers(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, members)
}

// SearchUsers finds accounts by email prefix for inviting; owner only
func SearchUsers(c *gin.Context) {
	user := middleware.CurrentUser(c)
	users, err := handlerServices.TripService.SearchUsers(c.Request.Context(), c.Param("id"), user.ID, c.Query("q"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, users)
}
