package checkout

import (
	"github.com/khatias/rdbr-project/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	checkout := r.Group("/checkout")
	checkout.Use(middleware.RequireSession())
	{
		checkout.GET("/summary", handler.Summary)

		// one order attempt every 5 seconds per session
		checkout.POST("",
			middleware.RateLimitBySession(0.2, 2),
			middleware.Idempotency(handler.rdb),
			handler.Submit,
		)
	}
}
