package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"qrmenu-backend/models"
	"qrmenu-backend/services"
)

type UpdateProfileInput struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// RestaurantView is the owner's restaurant with the remaining subscription time.
type RestaurantView struct {
	*models.Tenant
	SubscriptionDaysLeft int `json:"subscription_days_left"`
}

// ProfileController lets an owner edit the restaurant and any signed-in
// account change its password.
type ProfileController struct {
	auth    *services.AuthService
	tenants *services.TenantService
}

func NewProfileController(auth *services.AuthService, tenants *services.TenantService) *ProfileController {
	return &ProfileController{auth: auth, tenants: tenants}
}

func (ctl *ProfileController) GetRestaurant(c *gin.Context) {
	tenant, err := ctl.tenants.Get(c.Request.Context(), tenantID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, RestaurantView{Tenant: tenant, SubscriptionDaysLeft: ctl.tenants.DaysLeft(tenant)})
}

func (ctl *ProfileController) UpdateRestaurant(c *gin.Context) {
	var input UpdateProfileInput
	if !bindJSON(c, &input) {
		return
	}

	tenant, err := ctl.tenants.UpdateProfile(c.Request.Context(), tenantID(c), services.ProfileInput{
		Name:    input.Name,
		Address: input.Address,
		Phone:   input.Phone,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, RestaurantView{Tenant: tenant, SubscriptionDaysLeft: ctl.tenants.DaysLeft(tenant)})
}

func (ctl *ProfileController) ChangePassword(c *gin.Context) {
	var input ChangePasswordInput
	if !bindJSON(c, &input) {
		return
	}

	err := ctl.auth.ChangePassword(c.Request.Context(), currentAccount(c), input.CurrentPassword, input.NewPassword)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}
