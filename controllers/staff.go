package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"qrmenu-backend/models"
	"qrmenu-backend/services"
)

type StatusInput struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

type PaymentInput struct {
	PaymentStatus models.PaymentStatus `json:"payment_status" binding:"required"`
}

// KitchenController lists the active queue and moves orders forward.
type KitchenController struct {
	orders *services.OrderService
}

func NewKitchenController(orders *services.OrderService) *KitchenController {
	return &KitchenController{orders: orders}
}

func (ctl *KitchenController) Orders(c *gin.Context) {
	orders, err := ctl.orders.ListForRole(c.Request.Context(), currentAccount(c), listFilter(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (ctl *KitchenController) UpdateStatus(c *gin.Context) {
	var input StatusInput
	if !bindJSON(c, &input) {
		return
	}
	order, err := ctl.orders.SetStatus(c.Request.Context(), tenantID(c), c.Param("id"), input.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// CashierController records payment on cash orders.
type CashierController struct {
	orders *services.OrderService
}

func NewCashierController(orders *services.OrderService) *CashierController {
	return &CashierController{orders: orders}
}

func (ctl *CashierController) Orders(c *gin.Context) {
	orders, err := ctl.orders.ListForRole(c.Request.Context(), currentAccount(c), listFilter(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (ctl *CashierController) UpdatePayment(c *gin.Context) {
	var input PaymentInput
	if !bindJSON(c, &input) {
		return
	}
	order, err := ctl.orders.SetPayment(c.Request.Context(), tenantID(c), c.Param("id"), input.PaymentStatus)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
