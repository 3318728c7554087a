package middlewares

import (
	"strconv"

	"caloriecam/services"

	"github.com/gin-gonic/gin"
)

// Metrics counts requests per matched route so path parameters do not
// blow up label cardinality.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		services.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
