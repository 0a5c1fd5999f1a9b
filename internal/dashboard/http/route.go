package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	lists := g.Group("/rooming-lists")
	lists.Use(authMiddleware)
	{
		lists.GET("", h.ListRoomingLists)
		lists.GET("/:id", h.GetRoomingList)
		lists.GET("/:id/bookings", h.ListBookings)
	}

	events := g.Group("/events")
	events.Use(authMiddleware)
	{
		events.GET("", h.ListEvents)
	}

	sessions := g.Group("/filter-sessions")
	sessions.Use(authMiddleware)
	{
		sessions.POST("", h.CreateSession)
		sessions.GET("/:id", h.GetSession)
		sessions.DELETE("/:id", h.DeleteSession)
		sessions.POST("/:id/open", h.OpenFilter)
		sessions.POST("/:id/toggle", h.ToggleStatus)
		sessions.POST("/:id/clear", h.ClearFilter)
		sessions.POST("/:id/save", h.SaveFilter)
		sessions.POST("/:id/dismiss", h.DismissFilter)
		sessions.GET("/:id/rooming-lists", h.SessionRoomingLists)
	}

	verifyGroup := g.Group("/verify")
	verifyGroup.Use(authMiddleware)
	{
		verifyGroup.POST("/bookings", h.VerifyBookings)
		verifyGroup.POST("/visible", h.VerifyVisible)
	}
}
