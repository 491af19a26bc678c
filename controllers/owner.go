package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"qrmenu-backend/models"
	"qrmenu-backend/services"
)

type CategoryInput struct {
	Name  string `json:"name" binding:"required"`
	Order int    `json:"order"`
}

type MenuItemInput struct {
	CategoryID  string  `json:"category_id" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"min=0"`
	ImageURL    string  `json:"image_url"`
	Available   *bool   `json:"available"`
	PrepTime    *int    `json:"preparation_time_minutes" binding:"omitempty,min=0"`
	PrepAlias   *int    `json:"prep_time" binding:"omitempty,min=0"`
}

func (in MenuItemInput) toService() services.ItemInput {
	available := true
	if in.Available != nil {
		available = *in.Available
	}
	return services.ItemInput{
		CategoryID:  in.CategoryID,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		Available:   available,
		PrepTime:    firstSet(in.PrepTime, in.PrepAlias),
	}
}

type CreateTableInput struct {
	TableNumber string `json:"table_number" binding:"required"`
}

// OwnerController serves a restaurant owner. Every call is scoped to the
// owner's own restaurant.
type OwnerController struct {
	menu    *services.MenuService
	tables  *services.TableService
	orders  *services.OrderService
	signals *services.SignalService
	stats   *services.StatsService
}

func NewOwnerController(menu *services.MenuService, tables *services.TableService, orders *services.OrderService, signals *services.SignalService, stats *services.StatsService) *OwnerController {
	return &OwnerController{menu: menu, tables: tables, orders: orders, signals: signals, stats: stats}
}

// ---------- categories ----------

func (ctl *OwnerController) CreateCategory(c *gin.Context) {
	var input CategoryInput
	if !bindJSON(c, &input) {
		return
	}
	category, err := ctl.menu.CreateCategory(c.Request.Context(), tenantID(c), services.CategoryInput{
		Name:      input.Name,
		SortOrder: input.Order,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (ctl *OwnerController) ListCategories(c *gin.Context) {
	categories, err := ctl.menu.ListCategories(c.Request.Context(), tenantID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (ctl *OwnerController) UpdateCategory(c *gin.Context) {
	var input CategoryInput
	if !bindJSON(c, &input) {
		return
	}
	category, err := ctl.menu.UpdateCategory(c.Request.Context(), tenantID(c), c.Param("id"), services.CategoryInput{
		Name:      input.Name,
		SortOrder: input.Order,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (ctl *OwnerController) DeleteCategory(c *gin.Context) {
	if err := ctl.menu.DeleteCategory(c.Request.Context(), tenantID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}

// ---------- items ----------

func (ctl *OwnerController) CreateItem(c *gin.Context) {
	var input MenuItemInput
	if !bindJSON(c, &input) {
		return
	}
	item, err := ctl.menu.CreateItem(c.Request.Context(), tenantID(c), input.toService())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (ctl *OwnerController) ListItems(c *gin.Context) {
	items, err := ctl.menu.ListItems(c.Request.Context(), tenantID(c), c.Query("category_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (ctl *OwnerController) UpdateItem(c *gin.Context) {
	var input MenuItemInput
	if !bindJSON(c, &input) {
		return
	}
	item, err := ctl.menu.UpdateItem(c.Request.Context(), tenantID(c), c.Param("id"), input.toService())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (ctl *OwnerController) DeleteItem(c *gin.Context) {
	if err := ctl.menu.DeleteItem(c.Request.Context(), tenantID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted successfully"})
}

// ---------- tables ----------

func (ctl *OwnerController) CreateTable(c *gin.Context) {
	var input CreateTableInput
	if !bindJSON(c, &input) {
		return
	}
	table, err := ctl.tables.Create(c.Request.Context(), tenantID(c), input.TableNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, table)
}

func (ctl *OwnerController) ListTables(c *gin.Context) {
	tables, err := ctl.tables.List(c.Request.Context(), tenantID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tables)
}

func (ctl *OwnerController) GetTable(c *gin.Context) {
	table, err := ctl.tables.Get(c.Request.Context(), tenantID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, table)
}

func (ctl *OwnerController) DeleteTable(c *gin.Context) {
	if err := ctl.tables.Delete(c.Request.Context(), tenantID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Table deleted successfully"})
}

// ---------- orders, stats, signals ----------

func (ctl *OwnerController) Orders(c *gin.Context) {
	orders, err := ctl.orders.ListForRole(c.Request.Context(), currentAccount(c), listFilter(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (ctl *OwnerController) Stats(c *gin.Context) {
	stats, err := ctl.stats.Owner(c.Request.Context(), tenantID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (ctl *OwnerController) Reviews(c *gin.Context) {
	reviews, err := ctl.signals.ListReviews(c.Request.Context(), tenantID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func (ctl *OwnerController) WaiterCalls(c *gin.Context) {
	status := models.WaiterCallStatus(c.Query("status"))
	calls, err := ctl.signals.ListWaiterCalls(c.Request.Context(), tenantID(c), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, calls)
}

func (ctl *OwnerController) ResolveWaiterCall(c *gin.Context) {
	call, err := ctl.signals.ResolveWaiterCall(c.Request.Context(), tenantID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, call)
}
