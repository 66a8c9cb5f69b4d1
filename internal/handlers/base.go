package handlers

import (
	"github.com/gin-gonic/gin"
)

// Fail writes the uniform error body. Every endpoint returns either its data
// or this shape; there is no partial-success response.
func Fail(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}
