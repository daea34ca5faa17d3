package middleware

import (
	"github.com/labstack/echo/v4"
)

// arrayParams enumerates the query parameters that are intentionally
// allowed to appear multiple times, because the tour listing filters on
// them with IN semantics. Everything else collapses to a single value.
var arrayParams = map[string]bool{
	"duration":        true,
	"ratingsQuantity": true,
	"ratingsAverage":  true,
	"maxGroupSize":    true,
	"difficulty":      true,
	"price":           true,
}

// NormalizeParams defuses HTTP parameter pollution: when a query
// parameter outside the allow-list is supplied more than once, only the
// last value survives. Handlers downstream can therefore treat scalar
// parameters as scalars without checking for injected duplicates.
func NormalizeParams() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			q := c.Request().URL.Query()
			changed := false
			for k, vals := range q {
				if len(vals) > 1 && !arrayParams[k] {
					q[k] = vals[len(vals)-1:]
					changed = true
				}
			}
			if changed {
				c.Request().URL.RawQuery = q.Encode()
			}
			return next(c)
		}
	}
}
