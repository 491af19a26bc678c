package routes

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"qrmenu-backend/config"
	"qrmenu-backend/controllers"
	"qrmenu-backend/models"
	"qrmenu-backend/services"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps is everything the router needs, built once in main.
type Deps struct {
	Server   config.ServerConfig
	Logger   *zap.Logger
	Registry *prometheus.Registry
	Store    Pinger

	Auth    *services.AuthService
	Tenants *services.TenantService
	Menu    *services.MenuService
	Tables  *services.TableService
	Orders  *services.OrderService
	Signals *services.SignalService
	Stats   *services.StatsService
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			cfg.AllowCredentials = false
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(d.Server.AllowedOrigins)))
	r.Use(config.PerformanceLogger(d.Logger, d.Server.SlowRequestThreshold))

	if d.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))
	}

	// the web client calls everything under the prefix; bare paths stay for other clients
	registerAPI(&r.RouterGroup, d)
	if prefix := strings.TrimRight(d.Server.APIPrefix, "/"); prefix != "" {
		registerAPI(r.Group(prefix), d)
	}

	return r
}

func registerAPI(r *gin.RouterGroup, d Deps) {
	authCtl := controllers.NewAuthController(d.Auth)
	adminCtl := controllers.NewAdminController(d.Tenants, d.Orders, d.Signals, d.Stats)
	ownerCtl := controllers.NewOwnerController(d.Menu, d.Tables, d.Orders, d.Signals, d.Stats)
	kitchenCtl := controllers.NewKitchenController(d.Orders)
	cashierCtl := controllers.NewCashierController(d.Orders)
	publicCtl := controllers.NewPublicController(d.Menu, d.Orders, d.Signals)
	profileCtl := controllers.NewProfileController(d.Auth, d.Tenants)

	authenticated := controllers.AuthMiddleware(d.Auth)

	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := d.Store.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := r.Group("/auth")
	{
		auth.POST("/login", authCtl.Login)
		auth.GET("/me", authenticated, authCtl.Me)
		auth.PUT("/password", authenticated, profileCtl.ChangePassword)
		auth.POST("/register", authenticated, controllers.RequireRoles(models.RoleAdmin), authCtl.Register)
	}

	admin := r.Group("/admin", authenticated, controllers.RequireRoles(models.RoleAdmin))
	{
		admin.POST("/restaurants", adminCtl.CreateRestaurant)
		admin.GET("/restaurants", adminCtl.ListRestaurants)
		admin.GET("/restaurants/:id", adminCtl.GetRestaurant)
		admin.DELETE("/restaurants/:id", adminCtl.DeleteRestaurant)
		admin.GET("/restaurants/:id/staff", adminCtl.RestaurantStaff)
		admin.GET("/users", adminCtl.ListUsers)
		admin.GET("/stats", adminCtl.Stats)
		admin.GET("/analytics", adminCtl.Analytics)
		admin.GET("/orders", adminCtl.Orders)
		admin.GET("/reviews", adminCtl.Reviews)
	}

	owner := r.Group("/owner", authenticated, controllers.RequireRoles(models.RoleOwner))
	{
		categories := owner.Group("/menu/categories")
		{
			categories.POST("", ownerCtl.CreateCategory)
			categories.GET("", ownerCtl.ListCategories)
			categories.PUT("/:id", ownerCtl.UpdateCategory)
			categories.DELETE("/:id", ownerCtl.DeleteCategory)
		}

		items := owner.Group("/menu/items")
		{
			items.POST("", ownerCtl.CreateItem)
			items.GET("", ownerCtl.ListItems)
			items.PUT("/:id", ownerCtl.UpdateItem)
			items.DELETE("/:id", ownerCtl.DeleteItem)
		}

		tables := owner.Group("/tables")
		{
			tables.POST("", ownerCtl.CreateTable)
			tables.GET("", ownerCtl.ListTables)
			tables.GET("/:id", ownerCtl.GetTable)
			tables.DELETE("/:id", ownerCtl.DeleteTable)
		}

		owner.GET("/restaurant", profileCtl.GetRestaurant)
		owner.PUT("/restaurant", profileCtl.UpdateRestaurant)
		owner.GET("/orders", ownerCtl.Orders)
		owner.GET("/stats", ownerCtl.Stats)
		owner.GET("/reviews", ownerCtl.Reviews)
		owner.GET("/waiter-calls", ownerCtl.WaiterCalls)
		owner.PUT("/waiter-calls/:id/resolve", ownerCtl.ResolveWaiterCall)
	}

	kitchen := r.Group("/kitchen", authenticated, controllers.RequireRoles(models.RoleKitchen))
	{
		kitchen.GET("/orders", kitchenCtl.Orders)
		kitchen.PUT("/orders/:id/status", kitchenCtl.UpdateStatus)
	}

	cashier := r.Group("/cashier", authenticated, controllers.RequireRoles(models.RoleCashier))
	{
		cashier.GET("/orders", cashierCtl.Orders)
		cashier.PUT("/orders/:id/payment", cashierCtl.UpdatePayment)
	}

	// public: the table id is the only key
	r.GET("/public/menu/:tableId", publicCtl.Menu)
	r.GET("/menu/:tableId", publicCtl.Menu)
	r.POST("/orders", publicCtl.CreateOrder)
	r.POST("/reviews", publicCtl.CreateReview)
	r.POST("/waiter-call", publicCtl.CallWaiter)
}
