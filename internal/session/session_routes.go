package session

import (
	"github.com/khatias/rdbr-project/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	sessions := r.Group("/session")
	sessions.Use(middleware.RequireSession())
	{
		sessions.GET("", handler.Current)
		sessions.PUT("/avatar",
			middleware.RateLimitBySession(1, 3),
			handler.PutAvatar,
		)
		sessions.GET("/events", handler.Events)
	}
}
