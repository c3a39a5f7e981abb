package echomw

import (
	"net/http"

	"github.com/labstack/echo/v4"

	jsonurl "github.com/jsonurl/jsonurl-go"
	"github.com/jsonurl/jsonurl-go/middleware"
)

// ParseQuery parses the request query with cfg, stores the result in the
// request context on success, or returns 400 with Issues when the query is
// malformed.
func ParseQuery(cfg middleware.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			v, err := middleware.ParseQuery(c.Request(), cfg)
			if err != nil {
				return c.JSON(http.StatusBadRequest, middleware.ErrorPayload(err))
			}
			ctx := middleware.ContextWithValue(c.Request().Context(), v)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetValue fetches the parsed query from echo.Context.
func GetValue(c echo.Context) (jsonurl.Value, bool) {
	return middleware.ValueFromContext(c.Request().Context())
}

// Bind maps the parsed query onto a T.
func Bind[T any](c echo.Context) (T, error) {
	return middleware.Bind[T](c.Request().Context())
}
