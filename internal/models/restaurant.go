package models

import (
	"math"
	"strings"
	"time"

	"github.com/tablefind/tablefind/internal/api/validate"
)

// DefaultImage is used when a restaurant is created without an image URL.
const DefaultImage = "https://picsum.photos/400/300?food"

var PriceRanges = []string{"$", "$$", "$$$", "$$$$"}

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	Country string `json:"country"`
}

type Geo struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Review is embedded in its restaurant; it has no independent lifecycle.
type Review struct {
	UserID string    `json:"userId"`
	Stars  int       `json:"stars"`
	Text   string    `json:"text"`
	Date   time.Time `json:"date"`
}

type Restaurant struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Rating            float64   `json:"rating"`
	Address           Address   `json:"address"`
	Cuisines          []string  `json:"cuisines"`
	Amenities         []string  `json:"amenities"`
	HasWifi           bool      `json:"hasWifi"`
	Image             string    `json:"image"`
	Location          string    `json:"location"`
	Geo               Geo       `json:"geo"`
	Reviews           []Review  `json:"reviews"`
	PriceRange        string    `json:"priceRange"`
	AverageCostForTwo int       `json:"averageCostForTwo"`
	Currency          string    `json:"currency"`
	Votes             int       `json:"votes"`
	CreatedBy         string    `json:"createdBy,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Validate runs the full schema check and returns every violation. Entities
// reach the repository layer only after a clean pass.
func (r Restaurant) Validate() validate.Errs {
	var errs validate.Errs
	add := func(e *validate.ErrField) {
		if e != nil {
			errs = append(errs, *e)
		}
	}

	add(validate.Required("name", r.Name))
	add(validate.MaxLen("name", r.Name, 100))
	add(validate.FloatRange("rating", r.Rating, 0, 5))
	add(validate.Required("address.street", r.Address.Street))
	add(validate.Required("address.city", r.Address.City))
	add(validate.Required("address.country", r.Address.Country))

	if len(r.Cuisines) == 0 {
		errs = append(errs, validate.ErrField{Field: "cuisines", Msg: "at least one cuisine is required"})
	}
	for _, c := range r.Cuisines {
		if strings.TrimSpace(c) == "" {
			errs = append(errs, validate.ErrField{Field: "cuisines", Msg: "cuisine cannot be empty"})
			break
		}
	}

	add(validate.HTTPURL("image", r.Image))
	add(validate.Required("location", r.Location))

	if math.IsNaN(r.Geo.Lat) || r.Geo.Lat < -90 || r.Geo.Lat > 90 {
		errs = append(errs, validate.ErrField{Field: "geo.lat", Msg: "valid latitude is required"})
	}
	if math.IsNaN(r.Geo.Lng) || r.Geo.Lng < -180 || r.Geo.Lng > 180 {
		errs = append(errs, validate.ErrField{Field: "geo.lng", Msg: "valid longitude is required"})
	}

	add(validate.OneOf("priceRange", r.PriceRange, PriceRanges...))
	if r.AverageCostForTwo < 0 {
		errs = append(errs, validate.ErrField{Field: "averageCostForTwo", Msg: "must be a positive number"})
	}
	add(validate.Required("currency", r.Currency))
	if r.Votes < 0 {
		errs = append(errs, validate.ErrField{Field: "votes", Msg: "cannot be negative"})
	}

	for _, rev := range r.Reviews {
		errs = append(errs, rev.validate()...)
	}
	return errs
}

func (rv Review) validate() validate.Errs {
	var errs validate.Errs
	if rv.UserID == "" {
		errs = append(errs, validate.ErrField{Field: "reviews.userId", Msg: "required"})
	}
	if rv.Stars < 1 || rv.Stars > 5 {
		errs = append(errs, validate.ErrField{Field: "reviews.stars", Msg: "must be between 1 and 5"})
	}
	if rv.Text == "" {
		errs = append(errs, validate.ErrField{Field: "reviews.text", Msg: "required"})
	} else if len(rv.Text) > 500 {
		errs = append(errs, validate.ErrField{Field: "reviews.text", Msg: "must be at most 500 characters"})
	}
	return errs
}
