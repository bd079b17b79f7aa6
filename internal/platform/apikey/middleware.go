package apikey

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HeaderAPIKey is the dedicated credential header, checked before the
// query-parameter fallback.
const HeaderAPIKey = "X-API-Key"

// Required returns a Gin middleware function that compares the caller's
// credential against the configured shared secret and restricts access on
// mismatch.
//
// The credential is taken from the X-API-Key header or, as fallback, the
// "key" query parameter. The comparison is exact string equality: case
// sensitive, no trimming. An empty configured secret disables the check
// entirely (open mode).
func Required(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		key := c.GetHeader(HeaderAPIKey)
		if key == "" {
			key = c.Query("key")
		}
		if key != secret {
			// Keep the body generic: do not reveal whether a key was close
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Next()
	}
}
