package http

import "github.com/gin-gonic/gin"

// RegisterRoutes registers evidence routes
func RegisterRoutes(r gin.IRouter, h *Handler, authMiddleware gin.HandlerFunc) {
	group := r.Group("/evidence")
	group.Use(authMiddleware)

	group.GET("/reports", h.ListReports)
	group.GET("/reports/:name", h.ServeReport)
	group.GET("/screenshots/:name", h.ServeScreenshot)
	group.GET("/screenshots/:name/thumbnail", h.ServeThumbnail)
	group.DELETE("/screenshots/:name", h.DeleteScreenshot)
}
