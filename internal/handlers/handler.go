package handlers

import (
	"net/http"
	"time"
	"workshop_manager/internal/access"
	"workshop_manager/internal/middleware"
	"workshop_manager/internal/redis"
	"workshop_manager/internal/services"

	"github.com/gin-gonic/gin"
)

type Services struct {
	Accounts   services.AccountService
	Customers  services.CustomerService
	Staff      services.StaffService
	WorkOrders services.WorkOrderService
	LogEntries services.LogEntryService
	Budgets    services.BudgetService
	Inventory  services.InventoryService
	Alerts     services.AlertService
	Reports    services.ReportService
}

type Options struct {
	// VerboseAuthErrors reveals why a login failed.
	VerboseAuthErrors bool
	FlashTTL          time.Duration
	SecureCookies     bool
}

type Handler struct {
	svc     Services
	flashes *redis.Client
	opts    Options
}

func NewHandler(svc Services, flashes *redis.Client, opts Options) *Handler {
	return &Handler{svc: svc, flashes: flashes, opts: opts}
}

// RegisterRoutes mounts every endpoint. Everything except login and the
// health check requires an authenticated session.
func (h *Handler) RegisterRoutes(router *gin.Engine, authMiddleware *middleware.AuthMiddleware) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.POST("/auth/login", h.Login)

	protected := api.Group("", authMiddleware.Authenticate())
	protected.POST("/auth/logout", h.Logout)
	protected.GET("/auth/me", h.Me)
	protected.POST("/accounts", middleware.Require(access.ManageStaff), h.CreateAccount)

	protected.GET("/dashboard", h.Dashboard)
	protected.GET("/availability", middleware.Require(access.ViewAvailability), h.Availability)

	customers := protected.Group("/customers")
	customers.GET("", h.ListCustomers)
	customers.POST("", h.CreateCustomer)
	customers.GET("/:id", h.GetCustomer)
	customers.PUT("/:id", h.UpdateCustomer)

	vehicles := protected.Group("/vehicles")
	vehicles.GET("", h.ListVehicles)
	vehicles.POST("", h.CreateVehicle)
	vehicles.GET("/:id", h.GetVehicle)
	vehicles.PUT("/:id", h.UpdateVehicle)

	orders := protected.Group("/work-orders")
	orders.GET("", h.ListWorkOrders)
	orders.POST("", h.CreateWorkOrder)
	orders.GET("/:id", h.GetWorkOrder)
	orders.PUT("/:id", h.UpdateWorkOrder)
	orders.POST("/:id/assign", h.AssignWorkOrder)
	orders.POST("/:id/status", h.UpdateWorkOrderStatus)
	orders.GET("/:id/invoice", h.Invoice)
	orders.GET("/:id/log-entries", h.ListLogEntries)
	orders.POST("/:id/log-entries", h.AddLogEntry)
	orders.GET("/:id/budgets", h.ListBudgets)
	orders.POST("/:id/budgets", h.CreateBudget)

	protected.PUT("/budgets/:id", h.UpdateBudget)

	parts := protected.Group("/parts")
	parts.GET("", h.ListParts)
	parts.POST("", h.CreatePart)
	parts.GET("/:id", h.GetPart)
	parts.PUT("/:id", h.UpdatePart)
	parts.POST("/:id/restock", h.RestockPart)

	alerts := protected.Group("/alerts")
	alerts.GET("", h.ListAlerts)
	alerts.POST("/:id/resolve", h.ResolveAlert)

	protected.GET("/mechanics", h.ListMechanics)
	protected.POST("/mechanics", h.CreateMechanic)
	protected.PUT("/mechanics/:id", h.UpdateMechanic)
	protected.GET("/work-zones", h.ListWorkZones)
	protected.POST("/work-zones", h.CreateWorkZone)
}

func principal(c *gin.Context) access.Principal {
	p, _ := middleware.PrincipalFrom(c)
	return p
}
