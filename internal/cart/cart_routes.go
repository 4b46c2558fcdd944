package cart

import (
	"github.com/khatias/rdbr-project/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the cart under r, which is expected to run the
// Session middleware already.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	carts := r.Group("/cart")
	carts.Use(middleware.RequireSession())
	{
		carts.GET("", handler.State)
		carts.POST("/reload", handler.Reload)
		carts.POST("/open", handler.Open)
		carts.POST("/close", handler.Close)

		items := carts.Group("/items/:productId")
		items.Use(middleware.RateLimitBySession(5, 10))
		{
			items.POST("", handler.AddItem)
			items.PATCH("", handler.UpdateQty)
			items.DELETE("", handler.DeleteItem)
		}
	}

	r.POST("/products/:id/purchase",
		middleware.RequireSession(),
		middleware.RateLimitBySession(5, 10),
		handler.Purchase,
	)
}
