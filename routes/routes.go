package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/wayplan/wayplan-backend/handlers"
	"github.com/wayplan/wayplan-backend/middleware"
	"github.com/wayplan/wayplan-backend/realtime"
)

// SetupRoutes configures all API routes for the application
func SetupRoutes(router *gin.Engine, svcs *handlers.HandlerServices, ws *realtime.Handler) {
	handlers.InitHandlers(svcs)

	auth := middleware.RequireAuth(svcs.AuthService)

	v1 := router.Group("/api/v1")
	{
		// Account endpoints
		v1.POST("/auth/register", handlers.Register)
		v1.POST("/auth/login", handlers.Login)
		v1.POST("/auth/refresh", handlers.Refresh)
		v1.GET("/auth/me", auth, handlers.Me)

		// Invite redemption is account-scoped, not trip-scoped
		v1.POST("/invites/accept", auth, handlers.AcceptInvite)

		trips := v1.Group("/trips", auth)
		{
			trips.POST("", handlers.CreateTrip)
			trips.GET("", handlers.ListTrips)
			trips.GET("/:id", handlers.GetTrip)
			trips.PATCH("/:id", handlers.UpdateTrip)
			trips.DELETE("/:id", handlers.DeleteTrip)
			trips.GET("/:id/members", handlers.ListTripMembers)
			trips.GET("/:id/users/search", handlers.SearchUsers)

			// Invites
			trips.POST("/:id/invites", handlers.CreateInvite)
			trips.GET("/:id/invites", handlers.ListInvites)
			trips.DELETE("/:id/invites/:inviteId", handlers.RevokeInvite)

			// Itinerary
			trips.POST("/:id/itinerary", handlers.CreateItineraryItem)
			trips.GET("/:id/itinerary", handlers.ListItinerary)
			trips.POST("/:id/itinerary/reorder", handlers.ReorderItinerary)
			trips.GET("/:id/itinerary/calendar", handlers.ExportItineraryCalendar)

			// Expenses
			trips.POST("/:id/expenses", handlers.CreateExpense)
			trips.GET("/:id/expenses", handlers.ListExpenses)
			trips.GET("/:id/expenses/summary", handlers.ExpenseSummary)
			trips.GET("/:id/expenses/export", handlers.ExportExpensesToExcel)

			// Polls
			trips.POST("/:id/polls", handlers.CreatePoll)
			trips.GET("/:id/polls", handlers.ListPolls)

			// Chat
			trips.POST("/:id/chat/messages", handlers.SendMessage)
			trips.GET("/:id/chat/messages", handlers.ChatHistory)
		}

		// Item- and poll-scoped endpoints; the resource id carries the trip
		items := v1.Group("/itinerary", auth)
		{
			items.PATCH("/:itemId", handlers.UpdateItineraryItem)
			items.DELETE("/:itemId", handlers.DeleteItineraryItem)
		}

		polls := v1.Group("/polls", auth)
		{
			polls.GET("/:pollId", handlers.GetPoll)
			polls.POST("/:pollId/votes", handlers.Vote)
			polls.PATCH("/:pollId", handlers.UpdatePoll)
			polls.DELETE("/:pollId", handlers.DeletePoll)
		}

		expenses := v1.Group("/expenses", auth)
		{
			expenses.DELETE("/:expenseId", handlers.DeleteExpense)
		}
	}

	// Websocket upgrade does its own token and membership checks so the
	// token can arrive as a query parameter.
	router.GET("/ws/trips/:id", ws.HandleTripSocket)
}
