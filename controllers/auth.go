package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"qrmenu-backend/models"
	"qrmenu-backend/services"
)

type RegisterInput struct {
	Email        string      `json:"email" binding:"required"`
	Password     string      `json:"password" binding:"required"`
	FullName     string      `json:"full_name" binding:"required"`
	Role         models.Role `json:"role" binding:"required"`
	RestaurantID string      `json:"restaurant_id"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// Register creates an account of any role. Routed behind the admin role.
func (ctl *AuthController) Register(c *gin.Context) {
	var input RegisterInput
	if !bindJSON(c, &input) {
		return
	}

	account, err := ctl.auth.Register(c.Request.Context(), services.RegisterInput{
		Email:    input.Email,
		Password: input.Password,
		FullName: input.FullName,
		Role:     input.Role,
		TenantID: input.RestaurantID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (ctl *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if !bindJSON(c, &input) {
		return
	}

	session, err := ctl.auth.Authenticate(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (ctl *AuthController) Me(c *gin.Context) {
	c.JSON(http.StatusOK, currentAccount(c))
}
