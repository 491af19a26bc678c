package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"qrmenu-backend/models"
	"qrmenu-backend/services"
)

type OrderLineInput struct {
	MenuItemID string  `json:"menu_item_id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
	PrepTime   *int    `json:"preparation_time_minutes"`
	PrepAlias  *int    `json:"prep_time"`
}

type CreateOrderInput struct {
	TableID       string               `json:"table_id" binding:"required"`
	Items         []OrderLineInput     `json:"items"`
	PaymentMethod models.PaymentMethod `json:"payment_method" binding:"required"`
}

type CreateReviewInput struct {
	RestaurantID string `json:"restaurant_id"`
	TableID      string `json:"table_id" binding:"required"`
	OrderID      string `json:"order_id"`
	Rating       int    `json:"rating" binding:"required"`
	Comment      string `json:"comment"`
}

type WaiterCallInput struct {
	TableID string `json:"table_id" binding:"required"`
}

// PublicController serves diners. The table id is the only credential.
type PublicController struct {
	menu    *services.MenuService
	orders  *services.OrderService
	signals *services.SignalService
}

func NewPublicController(menu *services.MenuService, orders *services.OrderService, signals *services.SignalService) *PublicController {
	return &PublicController{menu: menu, orders: orders, signals: signals}
}

func (ctl *PublicController) Menu(c *gin.Context) {
	menu, err := ctl.menu.PublicMenu(c.Request.Context(), c.Param("tableId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, menu)
}

func (ctl *PublicController) CreateOrder(c *gin.Context) {
	var input CreateOrderInput
	if !bindJSON(c, &input) {
		return
	}
	lines := make([]services.OrderLineInput, 0, len(input.Items))
	for _, it := range input.Items {
		lines = append(lines, services.OrderLineInput{
			MenuItemID: it.MenuItemID,
			Name:       it.Name,
			Price:      it.Price,
			Quantity:   it.Quantity,
			PrepTime:   firstSet(it.PrepTime, it.PrepAlias),
		})
	}
	order, err := ctl.orders.Create(c.Request.Context(), services.CreateOrderInput{
		TableID:       input.TableID,
		Items:         lines,
		PaymentMethod: input.PaymentMethod,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (ctl *PublicController) CreateReview(c *gin.Context) {
	var input CreateReviewInput
	if !bindJSON(c, &input) {
		return
	}
	review, err := ctl.signals.CreateReview(c.Request.Context(), services.ReviewInput{
		TenantID: input.RestaurantID,
		TableID:  input.TableID,
		OrderID:  input.OrderID,
		Rating:   input.Rating,
		Comment:  input.Comment,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

func (ctl *PublicController) CallWaiter(c *gin.Context) {
	var input WaiterCallInput
	if !bindJSON(c, &input) {
		return
	}
	call, err := ctl.signals.CallWaiter(c.Request.Context(), input.TableID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, call)
}
