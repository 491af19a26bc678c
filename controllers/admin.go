package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"qrmenu-backend/models"
	"qrmenu-backend/services"
	"qrmenu-backend/utils"
)

type CreateRestaurantInput struct {
	Name           string `json:"name" binding:"required"`
	Address        string `json:"address"`
	Phone          string `json:"phone"`
	OwnerEmail     string `json:"owner_email" binding:"required"`
	OwnerPassword  string `json:"owner_password" binding:"required"`
	OwnerFullName  string `json:"owner_full_name" binding:"required"`
	CashierEnabled bool   `json:"cashier_enabled"`
	KitchenEnabled bool   `json:"kitchen_enabled"`
}

// AdminController serves the platform admin surface.
type AdminController struct {
	tenants *services.TenantService
	orders  *services.OrderService
	signals *services.SignalService
	stats   *services.StatsService
}

func NewAdminController(tenants *services.TenantService, orders *services.OrderService, signals *services.SignalService, stats *services.StatsService) *AdminController {
	return &AdminController{tenants: tenants, orders: orders, signals: signals, stats: stats}
}

func (ctl *AdminController) CreateRestaurant(c *gin.Context) {
	var input CreateRestaurantInput
	if !bindJSON(c, &input) {
		return
	}

	tenant, err := ctl.tenants.Create(c.Request.Context(), services.CreateTenantInput{
		Name:           input.Name,
		Address:        input.Address,
		Phone:          input.Phone,
		OwnerEmail:     input.OwnerEmail,
		OwnerPassword:  input.OwnerPassword,
		OwnerFullName:  input.OwnerFullName,
		CashierEnabled: input.CashierEnabled,
		KitchenEnabled: input.KitchenEnabled,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tenant)
}

func (ctl *AdminController) ListRestaurants(c *gin.Context) {
	tenants, err := ctl.tenants.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tenants)
}

func (ctl *AdminController) GetRestaurant(c *gin.Context) {
	tenant, err := ctl.tenants.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tenant)
}

func (ctl *AdminController) DeleteRestaurant(c *gin.Context) {
	if err := ctl.tenants.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Restaurant deleted successfully"})
}

func (ctl *AdminController) RestaurantStaff(c *gin.Context) {
	staff, err := ctl.tenants.Staff(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, staff)
}

func (ctl *AdminController) ListUsers(c *gin.Context) {
	accounts, err := ctl.tenants.Accounts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func (ctl *AdminController) Stats(c *gin.Context) {
	stats, err := ctl.stats.Admin(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (ctl *AdminController) Analytics(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "days must be a whole number")
		return
	}
	analytics, err := ctl.stats.Analytics(c.Request.Context(), days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}

func (ctl *AdminController) Orders(c *gin.Context) {
	orders, err := ctl.orders.ListForRole(c.Request.Context(), currentAccount(c), listFilter(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (ctl *AdminController) Reviews(c *gin.Context) {
	reviews, err := ctl.signals.ListReviews(c.Request.Context(), c.Query("restaurant_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// listFilter reads the optional ?status= and ?limit= query parameters.
func listFilter(c *gin.Context) services.ListFilter {
	limit, _ := strconv.Atoi(c.Query("limit"))
	return services.ListFilter{
		Status: models.OrderStatus(c.Query("status")),
		Limit:  limit,
	}
}
