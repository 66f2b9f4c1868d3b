package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Success writes the 200 envelope shared by every endpoint. Extra fields are
// merged next to "success" so handlers keep the wire format of the mobile
// client (registrados, detalles, recibidas, ...).
func Success(c *gin.Context, payload gin.H) {
	out := gin.H{"success": true}
	for k, v := range payload {
		out[k] = v
	}
	c.JSON(http.StatusOK, out)
}

// Fail aborts the request with the given status and a human-readable message.
func Fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": message})
}
