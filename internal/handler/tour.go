package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tour-booking-api/internal/repository"
)

// TourHandler serves the public tour listing. The interesting part is
// upstream of it: by the time this handler runs, the defense pipeline
// has collapsed polluted parameters (except the filter allow-list) and
// stripped operator keys, so the query values can be read naively.
type TourHandler struct {
	Tours *repository.TourRepo
}

func NewTourHandler(t *repository.TourRepo) *TourHandler {
	return &TourHandler{Tours: t}
}

type tourPart struct {
	ID              uint64  `json:"id"`
	Name            string  `json:"name"`
	Duration        int     `json:"duration"`
	MaxGroupSize    int     `json:"maxGroupSize"`
	Difficulty      string  `json:"difficulty"`
	Price           float64 `json:"price"`
	RatingsAverage  float64 `json:"ratingsAverage"`
	RatingsQuantity int     `json:"ratingsQuantity"`
}

// List returns tours filtered by the duration/difficulty/price/rating
// query parameters. duration and difficulty accept repeated values;
// the rest are scalars.
func (h *TourHandler) List(c echo.Context) error {
	f := repository.TourFilter{
		Difficulty: c.QueryParams()["difficulty"],
		Sort:       c.QueryParam("sort"),
	}
	for _, d := range c.QueryParams()["duration"] {
		if n, err := strconv.Atoi(d); err == nil && n > 0 {
			f.Duration = append(f.Duration, n)
		}
	}
	if v := c.QueryParam("price"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			f.MaxPrice = p
		}
	}
	if v := c.QueryParam("ratingsAverage"); v != "" {
		if r, err := strconv.ParseFloat(v, 64); err == nil {
			f.MinRating = r
		}
	}
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.Limit = n
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tours, err := h.Tours.List(ctx, f)
	if err != nil {
		return err
	}

	out := make([]tourPart, 0, len(tours))
	for _, t := range tours {
		out = append(out, tourPart{
			ID:              t.ID,
			Name:            t.Name,
			Duration:        t.Duration,
			MaxGroupSize:    t.MaxGroupSize,
			Difficulty:      t.Difficulty,
			Price:           t.Price,
			RatingsAverage:  t.RatingsAverage,
			RatingsQuantity: t.RatingsQuantity,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"result": len(out), "tours": out})
}
