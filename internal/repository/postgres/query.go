package postgres

import (
	"strconv"
	"strings"

	repo "github.com/tablefind/tablefind/internal/repository"
)

// buildRestaurantWhere translates a filter into a WHERE clause and its
// positional args. City and cuisine are case-insensitive substring matches;
// minRating is an inclusive lower bound.
func buildRestaurantWhere(f repo.RestaurantFilter) (string, []any) {
	if f.IsZero() {
		return "", nil
	}

	var conds []string
	var args []any

	next := func() string { return "$" + strconv.Itoa(len(args)) }

	if f.City != "" {
		args = append(args, f.City)
		conds = append(conds, "city ILIKE '%'||"+next()+"||'%'")
	}
	if f.Cuisine != "" {
		args = append(args, f.Cuisine)
		conds = append(conds, "EXISTS (SELECT 1 FROM unnest(cuisines) AS c WHERE c ILIKE '%'||"+next()+"||'%')")
	}
	if f.MinRating != nil {
		args = append(args, *f.MinRating)
		conds = append(conds, "rating >= "+next())
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
