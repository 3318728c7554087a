package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BodyLimit stops reading a request body after limit bytes. Handlers see
// an *http.MaxBytesError from the bind once the limit is hit.
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
