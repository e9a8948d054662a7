package models

import (
	"math"
	"strings"
)

// RestaurantInput is the loosely-typed request body (JSON or decoded form)
// for create and update. Pointer fields distinguish "absent" from zero so
// partial updates never clobber stored values and missing required numbers
// are caught by validation instead of defaulting into range.
type RestaurantInput struct {
	Name              *string       `json:"name"`
	Rating            *float64      `json:"rating"`
	Address           *AddressInput `json:"address"`
	Cuisines          *[]string     `json:"cuisines"`
	Amenities         *[]string     `json:"amenities"`
	HasWifi           *bool         `json:"hasWifi"`
	Image             *string       `json:"image"`
	Location          *string       `json:"location"`
	Geo               *GeoInput     `json:"geo"`
	PriceRange        *string       `json:"priceRange"`
	AverageCostForTwo *int          `json:"averageCostForTwo"`
	Currency          *string       `json:"currency"`
}

type AddressInput struct {
	Street  *string `json:"street"`
	City    *string `json:"city"`
	Country *string `json:"country"`
}

type GeoInput struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// NewRestaurant materializes a full entity from a create payload, applying
// defaults. Absent coordinates become NaN so Validate reports them as
// missing rather than passing a zero value in range.
func (in RestaurantInput) NewRestaurant() Restaurant {
	r := Restaurant{
		Image:    DefaultImage,
		Geo:      Geo{Lat: math.NaN(), Lng: math.NaN()},
		Reviews:  []Review{},
		Cuisines: []string{},
	}
	in.Apply(&r)
	return r
}

// Apply overlays the provided fields onto an existing entity. Address and
// geo are replaced wholesale when present; their missing members surface as
// validation errors on the merged entity.
func (in RestaurantInput) Apply(r *Restaurant) {
	if in.Name != nil {
		r.Name = strings.TrimSpace(*in.Name)
	}
	if in.Rating != nil {
		r.Rating = *in.Rating
	}
	if in.Address != nil {
		r.Address = Address{}
		if in.Address.Street != nil {
			r.Address.Street = strings.TrimSpace(*in.Address.Street)
		}
		if in.Address.City != nil {
			r.Address.City = strings.TrimSpace(*in.Address.City)
		}
		if in.Address.Country != nil {
			r.Address.Country = strings.TrimSpace(*in.Address.Country)
		}
	}
	if in.Cuisines != nil {
		r.Cuisines = trimAll(*in.Cuisines)
	}
	if in.Amenities != nil {
		r.Amenities = trimAll(*in.Amenities)
	}
	if in.HasWifi != nil {
		r.HasWifi = *in.HasWifi
	}
	if in.Image != nil {
		r.Image = strings.TrimSpace(*in.Image)
	}
	if in.Location != nil {
		r.Location = strings.TrimSpace(*in.Location)
	}
	if in.Geo != nil {
		r.Geo = Geo{Lat: math.NaN(), Lng: math.NaN()}
		if in.Geo.Lat != nil {
			r.Geo.Lat = *in.Geo.Lat
		}
		if in.Geo.Lng != nil {
			r.Geo.Lng = *in.Geo.Lng
		}
	}
	if in.PriceRange != nil {
		r.PriceRange = *in.PriceRange
	}
	if in.AverageCostForTwo != nil {
		r.AverageCostForTwo = *in.AverageCostForTwo
	}
	if in.Currency != nil {
		r.Currency = strings.TrimSpace(*in.Currency)
	}
}

func trimAll(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}
