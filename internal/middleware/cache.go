package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// CacheControl marks responses publicly cacheable for maxAgeSeconds. Used
// on the /uploads static mount; uploaded files get UUID names, so stale
// cache entries cannot shadow new content.
func CacheControl(maxAgeSeconds int) gin.HandlerFunc {
	header := "public, max-age=" + strconv.Itoa(maxAgeSeconds)
	return func(c *gin.Context) {
		c.Header("Cache-Control", header)
		c.Next()
	}
}
