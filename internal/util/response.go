package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the payload placed under the "data" key.
type Response map[string]interface{}

// Success writes the conventional success envelope {"data": ...}.
func Success(c *gin.Context, data Response) {
	c.JSON(http.StatusOK, gin.H{
		"data": data,
	})
}

// Error writes the conventional error envelope {"error": msg}.
func Error(c *gin.Context, httpStatus int, msg string) {
	c.JSON(httpStatus, gin.H{
		"error": msg,
	})
}

// ValidationError writes a 400 with field-level details:
// {"error": msg, "details": {field: problem}}.
func ValidationError(c *gin.Context, msg string, details map[string]string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   msg,
		"details": details,
	})
}
