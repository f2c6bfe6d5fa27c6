package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RishithaRamesh/wolfcafeplus/internal/domain"
	"github.com/RishithaRamesh/wolfcafeplus/pkg/logging"
)

// writeErr maps the error taxonomy to the contractual status codes:
// ValidationError 400, NotFoundError 404, ForbiddenError 403, anything
// else 500.
func writeErr(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case domain.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case domain.IsForbidden(err):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		logging.Log(logging.Fields{Service: "httpapi", Step: c.FullPath(), Status: "error", Error: err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
