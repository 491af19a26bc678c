package utils

import "github.com/gin-gonic/gin"

// RespondWithError aborts the request with the {"error": msg} body.
func RespondWithError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
