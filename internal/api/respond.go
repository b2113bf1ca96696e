package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/safar/go-marketplace/internal/catalog"
)

// respondError maps business error kinds to transport status codes. Anything
// that reaches here unclassified is a server fault and is logged, not leaked.
func respondError(c *gin.Context, err error) {
	var ce *catalog.Error
	if errors.As(err, &ce) {
		switch ce.Kind {
		case catalog.KindNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": ce.Error()})
		case catalog.KindForbidden:
			c.JSON(http.StatusForbidden, gin.H{"error": ce.Error()})
		case catalog.KindInvalidTransition:
			c.JSON(http.StatusConflict, gin.H{"error": ce.Error()})
		case catalog.KindValidationFailed:
			c.JSON(http.StatusBadRequest, gin.H{"errors": ce.Messages})
		case catalog.KindBadInput:
			c.JSON(http.StatusBadRequest, gin.H{"error": ce.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	log.Printf("unhandled error: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
