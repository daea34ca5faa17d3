package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/tour-booking-api/internal/model"
)

// TourRepo reads the 'tours' table for the public listing endpoint.
type TourRepo struct{ DB *sql.DB }

func NewTourRepo(db *sql.DB) *TourRepo { return &TourRepo{DB: db} }

// TourFilter carries the listing filters taken from query parameters.
// Slice fields may hold several values (the parameter-pollution
// normalizer allow-lists them); scalar fields are single-valued.
type TourFilter struct {
	Duration   []int
	Difficulty []string
	MaxPrice   float64
	MinRating  float64
	Sort       string // price | rating | duration, optional "-" prefix for descending
	Limit      int
}

// sortColumns whitelists the ORDER BY targets so a query parameter can
// never reach the SQL text directly.
var sortColumns = map[string]string{
	"price":    "price",
	"rating":   "ratings_average",
	"duration": "duration",
}

// List returns tours matching the filter, newest first unless a sort is
// requested.
func (r *TourRepo) List(ctx context.Context, f TourFilter) ([]model.Tour, error) {
	var (
		where []string
		args  []any
	)
	if len(f.Duration) > 0 {
		ph := make([]string, len(f.Duration))
		for i, d := range f.Duration {
			ph[i] = "?"
			args = append(args, d)
		}
		where = append(where, "duration IN ("+strings.Join(ph, ",")+")")
	}
	if len(f.Difficulty) > 0 {
		ph := make([]string, len(f.Difficulty))
		for i, d := range f.Difficulty {
			ph[i] = "?"
			args = append(args, d)
		}
		where = append(where, "difficulty IN ("+strings.Join(ph, ",")+")")
	}
	if f.MaxPrice > 0 {
		where = append(where, "price <= ?")
		args = append(args, f.MaxPrice)
	}
	if f.MinRating > 0 {
		where = append(where, "ratings_average >= ?")
		args = append(args, f.MinRating)
	}

	q := "SELECT id,name,duration,max_group_size,difficulty,price,ratings_average,ratings_quantity,created_at FROM tours"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}

	order := "created_at DESC"
	if s := strings.TrimSpace(f.Sort); s != "" {
		dir := "ASC"
		if strings.HasPrefix(s, "-") {
			dir = "DESC"
			s = s[1:]
		}
		if col, ok := sortColumns[s]; ok {
			order = col + " " + dir
		}
	}
	q += " ORDER BY " + order

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	q += " LIMIT ?"
	args = append(args, limit)

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Tour
	for rows.Next() {
		var t model.Tour
		if err := rows.Scan(&t.ID, &t.Name, &t.Duration, &t.MaxGroupSize, &t.Difficulty,
			&t.Price, &t.RatingsAverage, &t.RatingsQuantity, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
