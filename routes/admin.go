package routes

import (
	"github.com/gin-gonic/gin"
	adminController "github.com/junaidrashid-git/cafe-api/controllers/admin"
	billControllers "github.com/junaidrashid-git/cafe-api/controllers/bill"
	productcontroller "github.com/junaidrashid-git/cafe-api/controllers/product"
	qrcontroller "github.com/junaidrashid-git/cafe-api/controllers/qr"
	reportControllers "github.com/junaidrashid-git/cafe-api/controllers/report"
	"github.com/junaidrashid-git/cafe-api/middleware"
)

// SetupAdminRoutes registers all “/admin/*” endpoints except orders.
// Requires the API key or an admin JWT.
func SetupAdminRoutes(r *gin.Engine, d Deps) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.RequireAdmin(d.Issuer, d.AdminAPIKey))
	{
		// ─────────── Admin Approval Workflow ───────────
		adminMgmt := adminGroup.Group("/admins")
		adminMgmt.Use(middleware.RequireSuperAdmin)
		{
			adminMgmt.GET("", adminController.GetAllAdmins(d.DB))
			adminMgmt.GET("/pending", adminController.ListPendingAdmins(d.DB))
			adminMgmt.POST("/approve", adminController.ApproveAdmin(d.DB))
			adminMgmt.POST("/reject", adminController.RejectAdmin(d.DB))
		}

		// ─────────── Category Management ───────────
		categoryAdmin := adminGroup.Group("/categories")
		{
			categoryAdmin.POST("", productcontroller.CreateCategory(d.DB, d.Files))
			categoryAdmin.GET("", productcontroller.GetAllCategories(d.DB))
			categoryAdmin.PUT("/reorder", productcontroller.ReorderCategories(d.DB))
			categoryAdmin.PUT("/:id", productcontroller.UpdateCategory(d.DB, d.Files))
			categoryAdmin.DELETE("/:id", productcontroller.DeleteCategory(d.DB, d.Files))
		}

		// ─────────── Menu Items ───────────
		itemAdmin := adminGroup.Group("/items")
		{
			itemAdmin.POST("", productcontroller.CreateItem(d.DB, d.Files))
			itemAdmin.PUT("/:id", productcontroller.UpdateItem(d.DB, d.Files))
			itemAdmin.PATCH("/:id/flags", productcontroller.UpdateItemFlags(d.DB))
			itemAdmin.DELETE("/:id", productcontroller.DeleteItem(d.DB, d.Files))
		}

		menuAdmin := adminGroup.Group("/menu")
		{
			menuAdmin.POST("/import-excel", productcontroller.ImportMenuFromExcel(d.DB))
			menuAdmin.GET("/export-excel", productcontroller.ExportMenuToExcel(d.Catalog))
		}

		// ─────────── Specials, Combos, Add-ons ───────────
		specials := adminGroup.Group("/specials")
		{
			specials.POST("", productcontroller.CreateSpecial(d.DB, d.Files))
			specials.PUT("/:id", productcontroller.UpdateSpecial(d.DB, d.Files))
			specials.DELETE("/:id", productcontroller.DeleteSpecial(d.DB, d.Files))
		}
		combos := adminGroup.Group("/combos")
		{
			combos.POST("", productcontroller.CreateCombo(d.DB, d.Files))
			combos.PUT("/:id", productcontroller.UpdateCombo(d.DB, d.Files))
			combos.DELETE("/:id", productcontroller.DeleteCombo(d.DB, d.Files))
		}
		addons := adminGroup.Group("/addons")
		{
			addons.GET("", productcontroller.GetAllAddons(d.DB))
			addons.POST("", productcontroller.CreateAddon(d.DB, d.Files))
			addons.PUT("/:id", productcontroller.UpdateAddon(d.DB, d.Files))
			addons.DELETE("/:id", productcontroller.DeleteAddon(d.DB, d.Files))
		}

		// ─────────── Table QR Codes ───────────
		qr := adminGroup.Group("/qr")
		{
			qr.POST("", qrcontroller.HandleQRFileUpload(d.DB, d.Files))
			qr.GET("", qrcontroller.ListQRFiles(d.DB))
			qr.DELETE("/:id", qrcontroller.DeleteQRFileHandler(d.DB, d.Files))
		}

		// ─────────── Bills & Reports ───────────
		bills := adminGroup.Group("/bills")
		{
			bills.GET("", billControllers.GetBills(d.Orders))
			bills.POST("/mark-paid", billControllers.MarkPaid(d.Orders, d.Hub))
		}
		reports := adminGroup.Group("/reports")
		{
			reports.GET("/sales", reportControllers.GetSalesReport(d.Orders))
			reports.GET("/sales/export", reportControllers.ExportSalesReport(d.Orders))
		}
	}
}
