package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wayplan/wayplan-backend/middleware"
	"github.com/wayplan/wayplan-backend/models"
	"github.com/wayplan/wayplan-backend/utils"
)

// CreateItineraryItem appends an item to a trip's itinerary
func CreateItineraryItem(c *gin.Context) {
	var request models.CreateItineraryItemRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	user := middleware.CurrentUser(c)
	item, err := handlerServices.ItineraryService.CreateItem(c.Request.Context(), c.Param("id"), user, &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleCreated(c, item)
}

// ListItinerary returns a trip's items in display order
func ListItinerary(c *gin.Context) {
	user := middleware.CurrentUser(c)
	items, err := handlerServices.ItineraryService.List(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, items)
}

// UpdateItineraryItem patches an item's fields
func UpdateItineraryItem(c *gin.Context) {
	var request models.UpdateItineraryItemRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	user := middleware.CurrentUser(c)
	item, err := handlerServices.ItineraryService.UpdateItem(c.Request.Context(), c.Param("itemId"), user.ID, &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, item)
}

// DeleteItineraryItem removes an item
func DeleteItineraryItem(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if err := handlerServices.ItineraryService.DeleteItem(c.Request.Context(), c.Param("itemId"), user.ID); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleNoContent(c)
}

// ReorderItinerary applies a batch of sort_order assignments atomically
func ReorderItinerary(c *gin.Context) {
	var request models.ReorderItineraryRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	user := middleware.CurrentUser(c)
	items, err := handlerServices.ItineraryService.Reorder(c.Request.Context(), c.Param("id"), user.ID, &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, items)
}

// ExportItineraryCalendar streams the itinerary as an .ics download
func ExportItineraryCalendar(c *gin.Context) {
	user := middleware.CurrentUser(c)
	document, filename, err := handlerServices.CalendarService.Export(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(document))
}
