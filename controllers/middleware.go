package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"qrmenu-backend/models"
	"qrmenu-backend/services"
	"qrmenu-backend/utils"
)

const accountKey = "account"

// AuthMiddleware resolves the bearer token to an account and stores it on the context.
func AuthMiddleware(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			utils.RespondWithError(c, http.StatusUnauthorized, "Authorization header required")
			return
		}

		account, err := auth.ResolveSession(c.Request.Context(), utils.BearerToken(header))
		if err != nil {
			respondError(c, err)
			return
		}

		c.Set(accountKey, account)
		c.Set("userId", account.ID)
		c.Set("restaurantId", account.TenantID)
		c.Next()
	}
}

// RequireRoles rejects accounts whose role is not listed. Must run after AuthMiddleware.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		account := currentAccount(c)
		if account == nil {
			utils.RespondWithError(c, http.StatusUnauthorized, "Authentication required")
			return
		}
		for _, r := range roles {
			if account.Role == r {
				c.Next()
				return
			}
		}
		respondError(c, services.ErrForbiddenRole)
	}
}

func currentAccount(c *gin.Context) *models.Account {
	v, ok := c.Get(accountKey)
	if !ok {
		return nil
	}
	account, _ := v.(*models.Account)
	return account
}

// tenantID is always the caller's own restaurant, never a path value.
func tenantID(c *gin.Context) string {
	if account := currentAccount(c); account != nil {
		return account.TenantID
	}
	return ""
}

var kindStatus = map[services.Kind]int{
	services.KindValidation:     http.StatusBadRequest,
	services.KindAuthentication: http.StatusUnauthorized,
	services.KindAuthorization:  http.StatusForbidden,
	services.KindNotFound:       http.StatusNotFound,
	services.KindConflict:       http.StatusConflict,
}

// respondError maps a service error to its HTTP status. Anything unclassified
// is attached to the context for the request logger and reported as a 500.
func respondError(c *gin.Context, err error) {
	if status, ok := kindStatus[services.KindOf(err)]; ok {
		utils.RespondWithError(c, status, err.Error())
		return
	}
	_ = c.Error(err)
	utils.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
}

func bindJSON(c *gin.Context, input interface{}) bool {
	if err := c.ShouldBindJSON(input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return false
	}
	return true
}

// firstSet picks the canonical field and falls back to its older alias.
func firstSet(canonical, alias *int) *int {
	if canonical != nil {
		return canonical
	}
	return alias
}
