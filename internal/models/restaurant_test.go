package models

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablefind/tablefind/internal/api/validate"
)

func validInput() RestaurantInput {
	name := "Chez Teste"
	rating := 4.5
	street, city, country := "1 Rue de Test", "Paris", "France"
	cuisines := []string{"French", "Bistro"}
	location := "Le Marais"
	lat, lng := 48.8566, 2.3522
	priceRange := "$$$"
	cost := 90
	currency := "EUR"
	return RestaurantInput{
		Name:       &name,
		Rating:     &rating,
		Address:    &AddressInput{Street: &street, City: &city, Country: &country},
		Cuisines:   &cuisines,
		Location:   &location,
		Geo:        &GeoInput{Lat: &lat, Lng: &lng},
		PriceRange: &priceRange,
		AverageCostForTwo: &cost,
		Currency:   &currency,
	}
}

func TestNewRestaurantDefaults(t *testing.T) {
	r := validInput().NewRestaurant()
	require.Empty(t, r.Validate())

	assert.Equal(t, DefaultImage, r.Image)
	assert.Equal(t, 0, r.Votes)
	assert.Empty(t, r.Reviews)
}

func TestValidateMissingLatitude(t *testing.T) {
	in := validInput()
	in.Geo.Lat = nil

	errs := in.NewRestaurant().Validate()
	require.Len(t, errs, 1)
	assert.Equal(t, "geo.lat", errs[0].Field)
}

func TestValidateMissingGeo(t *testing.T) {
	in := validInput()
	in.Geo = nil

	errs := in.NewRestaurant().Validate()
	fields := fieldNames(errs)
	assert.Contains(t, fields, "geo.lat")
	assert.Contains(t, fields, "geo.lng")
}

func TestValidateRanges(t *testing.T) {
	in := validInput()
	*in.Rating = 5.5
	*in.Geo.Lat = 91
	*in.Geo.Lng = -181
	*in.PriceRange = "$$$$$"
	*in.AverageCostForTwo = -1

	errs := in.NewRestaurant().Validate()
	fields := fieldNames(errs)
	assert.ElementsMatch(t, []string{"rating", "geo.lat", "geo.lng", "priceRange", "averageCostForTwo"}, fields)
}

func TestValidateRequiredFields(t *testing.T) {
	errs := RestaurantInput{}.NewRestaurant().Validate()
	fields := fieldNames(errs)

	for _, f := range []string{"name", "address.street", "address.city", "address.country",
		"cuisines", "location", "geo.lat", "geo.lng", "priceRange", "currency"} {
		assert.Contains(t, fields, f)
	}
}

func TestValidateRejectsNaNRating(t *testing.T) {
	in := validInput()
	*in.Rating = math.NaN()

	errs := in.NewRestaurant().Validate()
	require.Len(t, errs, 1)
	assert.Equal(t, "rating", errs[0].Field)
}

func TestValidateNameTooLong(t *testing.T) {
	in := validInput()
	long := make([]byte, 101)
	for i := range long {
		long[i] = 'x'
	}
	*in.Name = string(long)

	errs := in.NewRestaurant().Validate()
	require.Len(t, errs, 1)
	assert.Equal(t, "name", errs[0].Field)
}

func TestValidateImageURL(t *testing.T) {
	in := validInput()
	bad := "not-a-url"
	in.Image = &bad
	assert.NotEmpty(t, in.NewRestaurant().Validate())

	good := "https://example.com/image.jpg"
	in.Image = &good
	assert.Empty(t, in.NewRestaurant().Validate())

	empty := ""
	in.Image = &empty
	assert.Empty(t, in.NewRestaurant().Validate())
}

func TestValidateReviews(t *testing.T) {
	r := validInput().NewRestaurant()
	r.Reviews = []Review{{UserID: "u-1", Stars: 6, Text: "great", Date: time.Now()}}

	errs := r.Validate()
	require.NotEmpty(t, errs)
	assert.Equal(t, "reviews.stars", errs[0].Field)
}

func TestValidateReportsEveryBadReview(t *testing.T) {
	r := validInput().NewRestaurant()
	r.Reviews = []Review{
		{UserID: "u-1", Stars: 6, Text: "great", Date: time.Now()},
		{UserID: "u-2", Stars: 3, Date: time.Now()},
	}

	fields := fieldNames(r.Validate())
	assert.Contains(t, fields, "reviews.stars")
	assert.Contains(t, fields, "reviews.text")
}

func TestApplyPartialUpdate(t *testing.T) {
	r := validInput().NewRestaurant()
	newName := "Renamed"
	wifi := true
	RestaurantInput{Name: &newName, HasWifi: &wifi}.Apply(&r)

	assert.Equal(t, "Renamed", r.Name)
	assert.True(t, r.HasWifi)
	assert.Equal(t, "Paris", r.Address.City)
	assert.Equal(t, 48.8566, r.Geo.Lat)
	assert.Empty(t, r.Validate())
}

func fieldNames(errs validate.Errs) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}
