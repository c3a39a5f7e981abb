package ginmw

import (
	"net/http"

	"github.com/gin-gonic/gin"

	jsonurl "github.com/jsonurl/jsonurl-go"
	"github.com/jsonurl/jsonurl-go/middleware"
)

// ParseQuery parses the request query with cfg, stores the result in the
// request context, and on failure returns 400 with the Issues payload.
func ParseQuery(cfg middleware.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, err := middleware.ParseQuery(c.Request, cfg)
		if err != nil {
			c.JSON(http.StatusBadRequest, middleware.ErrorPayload(err))
			c.Abort()
			return
		}
		c.Request = c.Request.WithContext(middleware.ContextWithValue(c.Request.Context(), v))
		c.Next()
	}
}

// GetValue fetches the parsed query from gin.Context.
func GetValue(c *gin.Context) (jsonurl.Value, bool) {
	return middleware.ValueFromContext(c.Request.Context())
}

// Bind maps the parsed query onto a T.
func Bind[T any](c *gin.Context) (T, error) {
	return middleware.Bind[T](c.Request.Context())
}
