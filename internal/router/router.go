package router

import (
	"github.com/keyshop-admin/internal/config"
	"github.com/keyshop-admin/internal/http/handlers"
	"github.com/keyshop-admin/internal/logger"
	"github.com/keyshop-admin/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	handler := handlers.New(c)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	apiV1 := r.Group("/api/v1")
	{
		// 认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", handler.Login)
		}

		// 管理接口（需鉴权）
		admin := apiV1.Group("")
		admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo))
		{
			admin.GET("/me", handler.GetProfile)
			admin.PUT("/me/password", handler.ChangePassword)

			admin.GET("/dashboard", handler.GetDashboardSummary)

			admin.GET("/customers", handler.ListCustomers)
			admin.POST("/customers", handler.CreateCustomer)
			admin.GET("/customers/:id", handler.GetCustomer)
			admin.PUT("/customers/:id", handler.UpdateCustomer)
			admin.GET("/customers/:id/order-count", handler.GetCustomerOrderCount)
			admin.DELETE("/customers/:id", handler.DeleteCustomer)

			admin.GET("/products", handler.ListProducts)
			admin.POST("/products", handler.CreateProduct)
			admin.GET("/products/:id", handler.GetProduct)
			admin.PUT("/products/:id", handler.UpdateProduct)
			admin.GET("/products/:id/deletion-impact", handler.GetProductDeletionImpact)
			admin.DELETE("/products/:id", handler.DeleteProduct)
			admin.GET("/products/:id/stock", handler.GetProductStock)
			admin.GET("/products/:id/inventory", handler.GetProductInventoryHistory)

			admin.GET("/inventory", handler.ListInventoryRecords)
			admin.POST("/inventory", handler.StockIn)
			admin.PUT("/inventory/:id", handler.UpdateInventoryRecord)
			admin.DELETE("/inventory/:id", handler.DeleteInventoryRecord)

			admin.GET("/orders", handler.ListOrders)
			admin.POST("/orders", handler.CreateOrder)
			admin.GET("/orders/:id", handler.GetOrder)
			admin.PUT("/orders/:id/status", handler.UpdateOrderStatus)
			admin.PUT("/orders/:id/items", handler.UpdateOrderItems)
			admin.DELETE("/orders/:id", handler.DeleteOrder)
		}
	}

	return r
}
