package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/junaidrashid-git/cafe-api/controllers/cart"
	orderControllers "github.com/junaidrashid-git/cafe-api/controllers/order"
	productcontroller "github.com/junaidrashid-git/cafe-api/controllers/product"
	"github.com/junaidrashid-git/cafe-api/middleware"
)

// SetupUserRoutes registers what diners use: the public menu, plus cart and
// checkout behind a guest session token.
func SetupUserRoutes(r *gin.Engine, d Deps) {
	// ──────────────── Browse Menu ────────────────
	menu := r.Group("/menu")
	{
		menu.GET("", productcontroller.GetMenu(d.Catalog))
		menu.GET("/addon-categories", productcontroller.GetAddonCategories(d.Catalog))
		menu.GET("/items/:id", productcontroller.GetItem(d.Catalog))
		menu.GET("/items/:id/addons", productcontroller.GetItemAddons(d.Catalog))
		menu.GET("/specials", productcontroller.GetSpecials(d.Catalog))
		menu.GET("/combos", productcontroller.GetCombos(d.Catalog))
	}

	// ──────────────── Shopping Cart ────────────────
	cartGroup := r.Group("/cart")
	cartGroup.Use(middleware.RequireSession(d.Issuer))
	{
		cartGroup.GET("", cartControllers.GetCart(d.Sessions))
		cartGroup.POST("/items", cartControllers.AddItem(d.Sessions, d.Catalog))
		cartGroup.POST("/combos/:id", cartControllers.AddCombo(d.Sessions, d.Catalog))
		cartGroup.POST("/specials/:id", cartControllers.AddSpecial(d.Sessions, d.Catalog))
		cartGroup.PUT("/items/:key", cartControllers.UpdateQuantity(d.Sessions))
		cartGroup.DELETE("/items/:key", cartControllers.RemoveItem(d.Sessions))
		cartGroup.DELETE("", cartControllers.ClearCart(d.Sessions))
		cartGroup.PUT("/order-type", cartControllers.SetOrderType(d.Sessions))
	}

	// ──────────────── Checkout ────────────────
	r.POST("/checkout",
		middleware.RequireSession(d.Issuer),
		middleware.LimitBySession(d.Checkout),
		orderControllers.Checkout(d.Sessions, d.Orders, d.Hub),
	)
}
