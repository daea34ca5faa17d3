package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tour-booking-api/internal/repository"
)

func translate(t *testing.T, err error) (int, map[string]any) {
	t.Helper()
	e := echo.New()
	e.HTTPErrorHandler = HTTPErrorHandler
	e.GET("/x", func(c echo.Context) error { return err })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("error response is not JSON: %v", err)
	}
	return rec.Code, body
}

func TestHTTPErrorHandler_SentinelMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		code int
	}{
		{repository.ErrNotFound, http.StatusNotFound},
		{repository.ErrEmailExists, http.StatusConflict},
		{repository.ErrNameExists, http.StatusConflict},
		{repository.ErrInvalidEmail, http.StatusBadRequest},
		{repository.ErrNameLength, http.StatusBadRequest},
		{repository.ErrPasswordTooShort, http.StatusBadRequest},
		{repository.ErrPasswordMismatch, http.StatusBadRequest},
		{repository.ErrResetInvalid, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		code, body := translate(t, tc.err)
		if code != tc.code {
			t.Fatalf("%v translated to %d, want %d", tc.err, code, tc.code)
		}
		if body["message"] != tc.err.Error() {
			t.Fatalf("%v produced message %q", tc.err, body["message"])
		}
	}
}

func TestHTTPErrorHandler_ResetFailureIsLowDetail(t *testing.T) {
	t.Parallel()

	// Wrong token and expired token must be indistinguishable at the
	// boundary: both are the same sentinel, so both get the same body.
	code, body := translate(t, repository.ErrResetInvalid)
	if code != http.StatusUnauthorized {
		t.Fatalf("code = %d, want 401", code)
	}
	if body["message"] != "token is invalid or has expired" {
		t.Fatalf("message %q leaks detail", body["message"])
	}
}

func TestHTTPErrorHandler_UnknownErrorStaysGeneric(t *testing.T) {
	t.Parallel()

	code, body := translate(t, errors.New("dial tcp 10.0.0.5:3306: connection refused"))
	if code != http.StatusInternalServerError {
		t.Fatalf("code = %d, want 500", code)
	}
	if body["message"] != "something went wrong" {
		t.Fatalf("internal error detail leaked: %q", body["message"])
	}
}

func TestHTTPErrorHandler_EchoHTTPError(t *testing.T) {
	t.Parallel()

	code, body := translate(t, echo.NewHTTPError(http.StatusRequestEntityTooLarge, "request body must not exceed 10KB"))
	if code != http.StatusRequestEntityTooLarge {
		t.Fatalf("code = %d, want 413", code)
	}
	if body["message"] != "request body must not exceed 10KB" {
		t.Fatalf("message = %q", body["message"])
	}
}
