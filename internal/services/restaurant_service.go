package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/tablefind/tablefind/internal/metrics"
	"github.com/tablefind/tablefind/internal/models"
	repo "github.com/tablefind/tablefind/internal/repository"
	"github.com/tablefind/tablefind/internal/worker"
)

// FilterCap bounds the lightweight search endpoint.
const FilterCap = 20

type RestaurantService struct {
	restaurants repo.Restaurants
	audit       repo.AuditLogs
	pool        *worker.Pool
}

func NewRestaurantService(restaurants repo.Restaurants, audit repo.AuditLogs, pool *worker.Pool) *RestaurantService {
	return &RestaurantService{restaurants: restaurants, audit: audit, pool: pool}
}

func (s *RestaurantService) List(ctx context.Context, f repo.RestaurantFilter, p Page) ([]models.Restaurant, Pagination, error) {
	items, err := s.restaurants.List(ctx, f, p.PerPage, p.Offset())
	if err != nil {
		return nil, Pagination{}, err
	}
	total, err := s.restaurants.Count(ctx, f)
	if err != nil {
		return nil, Pagination{}, err
	}
	return items, NewPagination(p, total), nil
}

// SearchByFilters is the lightweight variant: same filter semantics, fixed
// result cap, no count round trip.
func (s *RestaurantService) SearchByFilters(ctx context.Context, f repo.RestaurantFilter) ([]models.Restaurant, error) {
	return s.restaurants.List(ctx, f, FilterCap, 0)
}

func (s *RestaurantService) Get(ctx context.Context, id string) (models.Restaurant, error) {
	return s.restaurants.GetByID(ctx, id)
}

// Create validates the materialized entity before any persistence call; a
// failed constraint returns validate.Errs and persists nothing.
func (s *RestaurantService) Create(ctx context.Context, in models.RestaurantInput, actor string) (models.Restaurant, error) {
	r := in.NewRestaurant()
	r.CreatedBy = actor
	if errs := r.Validate(); len(errs) > 0 {
		return models.Restaurant{}, errs
	}
	created, err := s.restaurants.Create(ctx, r)
	if err != nil {
		return models.Restaurant{}, err
	}
	metrics.RestaurantMutations.WithLabelValues("create").Inc()
	s.submitAudit(created.ID, "create", actor)
	return created, nil
}

func (s *RestaurantService) Update(ctx context.Context, id string, in models.RestaurantInput, actor string) (models.Restaurant, error) {
	existing, err := s.restaurants.GetByID(ctx, id)
	if err != nil {
		return models.Restaurant{}, err
	}
	in.Apply(&existing)
	if errs := existing.Validate(); len(errs) > 0 {
		return models.Restaurant{}, errs
	}
	updated, err := s.restaurants.Update(ctx, existing)
	if err != nil {
		return models.Restaurant{}, err
	}
	metrics.RestaurantMutations.WithLabelValues("update").Inc()
	s.submitAudit(id, "update", actor)
	return updated, nil
}

func (s *RestaurantService) Delete(ctx context.Context, id, actor string) error {
	if err := s.restaurants.Delete(ctx, id); err != nil {
		return err
	}
	metrics.RestaurantMutations.WithLabelValues("delete").Inc()
	s.submitAudit(id, "delete", actor)
	return nil
}

// submitAudit hands the write to the worker pool so the request never waits
// on it. The pool is drained on shutdown.
func (s *RestaurantService) submitAudit(entityID, action, actor string) {
	if s.pool == nil || s.audit == nil {
		return
	}
	l := models.AuditLog{EntityType: "restaurant", EntityID: entityID, Action: action, Actor: actor}
	metrics.AuditQueueDepth.Inc()
	s.pool.Submit(func() {
		defer metrics.AuditQueueDepth.Dec()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.audit.Create(ctx, l); err != nil {
			slog.Error("audit write", "err", err, "entity_id", l.EntityID, "action", l.Action)
		}
	})
}
