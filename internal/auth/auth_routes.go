package auth

import (
	"github.com/khatias/rdbr-project/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	auth := r.Group("/auth")
	{
		// brute force guard
		auth.POST("/login",
			middleware.RateLimitByIP(0.2, 5),
			handler.Login,
		)

		// 1 request per 10 seconds
		auth.POST("/signup",
			middleware.RateLimitByIP(0.1, 2),
			handler.Signup,
		)

		auth.POST("/logout", handler.Logout)
	}
}
