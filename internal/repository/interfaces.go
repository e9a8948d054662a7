package repository

import (
	"context"

	"github.com/tablefind/tablefind/internal/models"
)

// RestaurantFilter narrows a listing query. Zero values impose no
// constraint; set fields combine with logical AND.
type RestaurantFilter struct {
	City      string
	Cuisine   string
	MinRating *float64
}

func (f RestaurantFilter) IsZero() bool {
	return f.City == "" && f.Cuisine == "" && f.MinRating == nil
}

type Users interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
}

type Restaurants interface {
	Create(ctx context.Context, r models.Restaurant) (models.Restaurant, error)
	GetByID(ctx context.Context, id string) (models.Restaurant, error)
	Update(ctx context.Context, r models.Restaurant) (models.Restaurant, error)
	Delete(ctx context.Context, id string) error
	// List returns one page ordered by rating desc, name asc.
	List(ctx context.Context, f RestaurantFilter, limit, offset int) ([]models.Restaurant, error)
	Count(ctx context.Context, f RestaurantFilter) (int, error)
}

type AuditLogs interface {
	Create(ctx context.Context, l models.AuditLog) error
}
