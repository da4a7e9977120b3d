package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kpizzy812/saturn-platform-sub000/services"
)

// respondError maps service errors onto the API error envelope.
// Out-of-team lookups surface as the same 404 as missing rows, so
// cross-team existence never leaks.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": err.Error()})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}

// respondBindingError reports gin binding failures with field detail
func respondBindingError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"message": "Invalid request body",
		"errors":  gin.H{"detail": err.Error()},
	})
}
