package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tour-booking-api/internal/repository"
)

// HTTPErrorHandler is the single translation point between internal
// errors and the wire. Handlers return repository sentinels or
// *echo.HTTPError values; everything is mapped here to a stable
// {error, message} JSON shape. Unrecognized errors become a generic 500
// — the details are logged, never surfaced.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	errKey := "internal"
	msg := "something went wrong"

	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		code = he.Code
		errKey = http.StatusText(code)
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(code)
		}
	case errors.Is(err, repository.ErrNotFound):
		code, errKey, msg = http.StatusNotFound, "not_found", err.Error()
	case errors.Is(err, repository.ErrEmailExists),
		errors.Is(err, repository.ErrNameExists):
		code, errKey, msg = http.StatusConflict, "conflict", err.Error()
	case errors.Is(err, repository.ErrInvalidEmail),
		errors.Is(err, repository.ErrNameLength),
		errors.Is(err, repository.ErrPasswordTooShort),
		errors.Is(err, repository.ErrPasswordMismatch):
		code, errKey, msg = http.StatusBadRequest, "validation_failed", err.Error()
	case errors.Is(err, repository.ErrResetInvalid):
		// One low-detail message for wrong and expired tokens alike.
		code, errKey, msg = http.StatusUnauthorized, "unauthorized", err.Error()
	default:
		c.Logger().Errorf("unhandled error: %v", err)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, echo.Map{"error": errKey, "message": msg})
}
