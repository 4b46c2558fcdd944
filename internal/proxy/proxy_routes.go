package proxy

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	cart := r.Group("/cart")
	{
		cart.GET("", handler.GetCart)
		cart.POST("/products/:product", handler.CartProduct)
		cart.PATCH("/products/:product", handler.CartProduct)
		cart.DELETE("/products/:product", handler.DeleteCartProduct)
		cart.POST("/checkout", handler.Checkout)
	}

	products := r.Group("/products")
	{
		products.GET("", handler.ListProducts)
		products.GET("/:product", handler.GetProduct)
	}
}
