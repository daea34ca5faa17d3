package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"testing"

	"github.com/labstack/echo/v4"
)

func queryAfterNormalize(t *testing.T, target string) url.Values {
	t.Helper()
	e := echo.New()
	e.Use(NormalizeParams())
	var seen url.Values
	e.GET("/x", func(c echo.Context) error {
		seen = c.Request().URL.Query()
		return c.NoContent(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("request failed with %d", rec.Code)
	}
	return seen
}

func TestNormalizeParams_CollapsesDuplicates(t *testing.T) {
	t.Parallel()

	q := queryAfterNormalize(t, "/x?sort=price&sort=rating")
	if got := q["sort"]; !reflect.DeepEqual(got, []string{"rating"}) {
		t.Fatalf("sort = %v, want last value only", got)
	}
}

func TestNormalizeParams_AllowListKeepsArrays(t *testing.T) {
	t.Parallel()

	q := queryAfterNormalize(t, "/x?duration=5&duration=9&difficulty=easy&difficulty=medium")
	if got := q["duration"]; !reflect.DeepEqual(got, []string{"5", "9"}) {
		t.Fatalf("duration = %v, want both values", got)
	}
	if got := q["difficulty"]; !reflect.DeepEqual(got, []string{"easy", "medium"}) {
		t.Fatalf("difficulty = %v, want both values", got)
	}
}

func TestNormalizeParams_SingleValuesUntouched(t *testing.T) {
	t.Parallel()

	q := queryAfterNormalize(t, "/x?sort=price&page=2")
	if got := q.Get("sort"); got != "price" {
		t.Fatalf("sort = %q, want price", got)
	}
	if got := q.Get("page"); got != "2" {
		t.Fatalf("page = %q, want 2", got)
	}
}
