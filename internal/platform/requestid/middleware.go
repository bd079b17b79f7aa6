package requestid

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderRequestID is the correlation-ID header echoed on every response.
const HeaderRequestID = "X-Request-ID"

// ContextRequestID is the gin context key holding the request ID.
const ContextRequestID = "requestID"

// New returns a Gin middleware function that assigns each request a
// correlation ID. An incoming X-Request-ID is preserved; otherwise a new
// UUID is generated.
func New() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ContextRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}
