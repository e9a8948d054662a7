package services

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablefind/tablefind/internal/api/validate"
	"github.com/tablefind/tablefind/internal/models"
	repo "github.com/tablefind/tablefind/internal/repository"
	"github.com/tablefind/tablefind/internal/worker"
)

type stubRestaurants struct {
	items      map[string]models.Restaurant
	seq        int
	lastLimit  int
	lastOffset int
}

func newStubRestaurants() *stubRestaurants {
	return &stubRestaurants{items: map[string]models.Restaurant{}}
}

func (s *stubRestaurants) Create(_ context.Context, r models.Restaurant) (models.Restaurant, error) {
	s.seq++
	r.ID = "r-" + strconv.Itoa(s.seq)
	s.items[r.ID] = r
	return r, nil
}

func (s *stubRestaurants) GetByID(_ context.Context, id string) (models.Restaurant, error) {
	r, ok := s.items[id]
	if !ok {
		return models.Restaurant{}, repo.ErrNotFound
	}
	return r, nil
}

func (s *stubRestaurants) Update(_ context.Context, r models.Restaurant) (models.Restaurant, error) {
	if _, ok := s.items[r.ID]; !ok {
		return models.Restaurant{}, repo.ErrNotFound
	}
	s.items[r.ID] = r
	return r, nil
}

func (s *stubRestaurants) Delete(_ context.Context, id string) error {
	if _, ok := s.items[id]; !ok {
		return repo.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *stubRestaurants) List(_ context.Context, _ repo.RestaurantFilter, limit, offset int) ([]models.Restaurant, error) {
	s.lastLimit, s.lastOffset = limit, offset
	return nil, nil
}

func (s *stubRestaurants) Count(_ context.Context, _ repo.RestaurantFilter) (int, error) {
	return len(s.items), nil
}

type stubAudit struct {
	mu   sync.Mutex
	logs []models.AuditLog
}

func (s *stubAudit) Create(_ context.Context, l models.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, l)
	return nil
}

func validRestaurantInput() models.RestaurantInput {
	name := "Chez Teste"
	rating := 4.5
	street, city, country := "1 Rue de Test", "Paris", "France"
	cuisines := []string{"French"}
	location := "Le Marais"
	lat, lng := 48.8566, 2.3522
	priceRange := "$$$"
	cost := 90
	currency := "EUR"
	return models.RestaurantInput{
		Name:              &name,
		Rating:            &rating,
		Address:           &models.AddressInput{Street: &street, City: &city, Country: &country},
		Cuisines:          &cuisines,
		Location:          &location,
		Geo:               &models.GeoInput{Lat: &lat, Lng: &lng},
		PriceRange:        &priceRange,
		AverageCostForTwo: &cost,
		Currency:          &currency,
	}
}

func TestCreateRejectsInvalidWithoutPersisting(t *testing.T) {
	restaurants := newStubRestaurants()
	svc := NewRestaurantService(restaurants, nil, nil)

	in := validRestaurantInput()
	in.Geo.Lat = nil

	_, err := svc.Create(context.Background(), in, "u-1")

	var errs validate.Errs
	require.ErrorAs(t, err, &errs)
	assert.Empty(t, restaurants.items)
}

func TestCreateWritesAuditAsync(t *testing.T) {
	restaurants := newStubRestaurants()
	audit := &stubAudit{}
	pool := worker.NewPool(1)
	svc := NewRestaurantService(restaurants, audit, pool)

	created, err := svc.Create(context.Background(), validRestaurantInput(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", created.CreatedBy)

	pool.Stop()
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditLog{
		EntityType: "restaurant",
		EntityID:   created.ID,
		Action:     "create",
		Actor:      "u-1",
	}, audit.logs[0])
}

func TestListPassesPageWindow(t *testing.T) {
	restaurants := newStubRestaurants()
	svc := NewRestaurantService(restaurants, nil, nil)

	for i := 0; i < 12; i++ {
		_, err := svc.Create(context.Background(), validRestaurantInput(), "u-1")
		require.NoError(t, err)
	}

	_, pagination, err := svc.List(context.Background(), repo.RestaurantFilter{}, Page{Page: 2, PerPage: 5})
	require.NoError(t, err)

	assert.Equal(t, 5, restaurants.lastLimit)
	assert.Equal(t, 5, restaurants.lastOffset)
	assert.Equal(t, Pagination{Page: 2, PerPage: 5, Total: 12, TotalPages: 3, HasNext: true, HasPrev: true}, pagination)
}

func TestSearchByFiltersIsCapped(t *testing.T) {
	restaurants := newStubRestaurants()
	svc := NewRestaurantService(restaurants, nil, nil)

	_, err := svc.SearchByFilters(context.Background(), repo.RestaurantFilter{City: "paris"})
	require.NoError(t, err)
	assert.Equal(t, FilterCap, restaurants.lastLimit)
	assert.Equal(t, 0, restaurants.lastOffset)
}

func TestUpdateValidatesMergedEntity(t *testing.T) {
	restaurants := newStubRestaurants()
	svc := NewRestaurantService(restaurants, nil, nil)

	created, err := svc.Create(context.Background(), validRestaurantInput(), "u-1")
	require.NoError(t, err)

	bad := 9.9
	_, err = svc.Update(context.Background(), created.ID, models.RestaurantInput{Rating: &bad}, "u-1")

	var errs validate.Errs
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "rating", errs[0].Field)

	unchanged, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.5, unchanged.Rating)
}

func TestDeleteMissing(t *testing.T) {
	svc := NewRestaurantService(newStubRestaurants(), nil, nil)
	err := svc.Delete(context.Background(), "r-404", "u-1")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}
