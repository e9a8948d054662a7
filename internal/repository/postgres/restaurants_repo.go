package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tablefind/tablefind/internal/models"
	repo "github.com/tablefind/tablefind/internal/repository"
)

type restaurantsRepo struct{ pool *pgxpool.Pool }

const restaurantCols = `id, name, rating, street, city, country, cuisines, amenities, has_wifi,
	image, location, lat, lng, reviews, price_range, avg_cost_for_two, currency, votes,
	COALESCE(created_by::text, ''), created_at, updated_at`

func scanRestaurant(row pgx.Row) (models.Restaurant, error) {
	var r models.Restaurant
	var reviewsJSON []byte
	err := row.Scan(
		&r.ID, &r.Name, &r.Rating, &r.Address.Street, &r.Address.City, &r.Address.Country,
		&r.Cuisines, &r.Amenities, &r.HasWifi, &r.Image, &r.Location, &r.Geo.Lat, &r.Geo.Lng,
		&reviewsJSON, &r.PriceRange, &r.AverageCostForTwo, &r.Currency, &r.Votes,
		&r.CreatedBy, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return models.Restaurant{}, err
	}
	if len(reviewsJSON) > 0 {
		if err := json.Unmarshal(reviewsJSON, &r.Reviews); err != nil {
			return models.Restaurant{}, err
		}
	}
	if r.Reviews == nil {
		r.Reviews = []models.Review{}
	}
	return r, nil
}

func (p *restaurantsRepo) Create(ctx context.Context, r models.Restaurant) (models.Restaurant, error) {
	id := uuid.NewString()
	reviewsJSON, err := json.Marshal(r.Reviews)
	if err != nil {
		return models.Restaurant{}, err
	}
	_, err = p.pool.Exec(ctx,
		`INSERT INTO restaurants(
			id, name, rating, street, city, country, cuisines, amenities, has_wifi,
			image, location, lat, lng, reviews, price_range, avg_cost_for_two, currency, votes, created_by
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,NULLIF($19,'')::uuid)`,
		id, r.Name, r.Rating, r.Address.Street, r.Address.City, r.Address.Country,
		r.Cuisines, r.Amenities, r.HasWifi, r.Image, r.Location, r.Geo.Lat, r.Geo.Lng,
		reviewsJSON, r.PriceRange, r.AverageCostForTwo, r.Currency, r.Votes, r.CreatedBy,
	)
	if err != nil {
		return models.Restaurant{}, err
	}
	return p.GetByID(ctx, id)
}

func (p *restaurantsRepo) GetByID(ctx context.Context, id string) (models.Restaurant, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.Restaurant{}, repo.ErrInvalidID
	}
	row := p.pool.QueryRow(ctx, `SELECT `+restaurantCols+` FROM restaurants WHERE id=$1`, id)
	r, err := scanRestaurant(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Restaurant{}, repo.ErrNotFound
	}
	return r, err
}

func (p *restaurantsRepo) Update(ctx context.Context, r models.Restaurant) (models.Restaurant, error) {
	if _, err := uuid.Parse(r.ID); err != nil {
		return models.Restaurant{}, repo.ErrInvalidID
	}
	reviewsJSON, err := json.Marshal(r.Reviews)
	if err != nil {
		return models.Restaurant{}, err
	}
	tag, err := p.pool.Exec(ctx,
		`UPDATE restaurants SET
			name=$2, rating=$3, street=$4, city=$5, country=$6, cuisines=$7, amenities=$8,
			has_wifi=$9, image=$10, location=$11, lat=$12, lng=$13, reviews=$14,
			price_range=$15, avg_cost_for_two=$16, currency=$17, votes=$18, updated_at=now()
		WHERE id=$1`,
		r.ID, r.Name, r.Rating, r.Address.Street, r.Address.City, r.Address.Country,
		r.Cuisines, r.Amenities, r.HasWifi, r.Image, r.Location, r.Geo.Lat, r.Geo.Lng,
		reviewsJSON, r.PriceRange, r.AverageCostForTwo, r.Currency, r.Votes,
	)
	if err != nil {
		return models.Restaurant{}, err
	}
	if tag.RowsAffected() == 0 {
		return models.Restaurant{}, repo.ErrNotFound
	}
	return p.GetByID(ctx, r.ID)
}

func (p *restaurantsRepo) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return repo.ErrInvalidID
	}
	tag, err := p.pool.Exec(ctx, `DELETE FROM restaurants WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (p *restaurantsRepo) List(ctx context.Context, f repo.RestaurantFilter, limit, offset int) ([]models.Restaurant, error) {
	where, args := buildRestaurantWhere(f)
	n := len(args)
	args = append(args, limit, offset)

	rows, err := p.pool.Query(ctx,
		`SELECT `+restaurantCols+` FROM restaurants`+where+
			` ORDER BY rating DESC, name ASC LIMIT $`+strconv.Itoa(n+1)+` OFFSET $`+strconv.Itoa(n+2),
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Restaurant{}
	for rows.Next() {
		r, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (p *restaurantsRepo) Count(ctx context.Context, f repo.RestaurantFilter) (int, error) {
	where, args := buildRestaurantWhere(f)
	var total int
	err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM restaurants`+where, args...).Scan(&total)
	return total, err
}
