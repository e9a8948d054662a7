package web

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/tablefind/tablefind/internal/models"
)

// DecodeRestaurantForm maps the bracketed form fields (`address[city]`,
// `geo[lat]`, comma-separated cuisines, `hasWifi=on`) onto the same typed
// input the JSON API uses, so both surfaces share one validation pass.
// Unparsable coordinates are left unset and surface as validation errors.
func DecodeRestaurantForm(v url.Values) models.RestaurantInput {
	in := models.RestaurantInput{
		Name:     strPtr(v.Get("name")),
		Location: strPtr(v.Get("location")),
		Currency: strPtr(v.Get("currency")),
		Address: &models.AddressInput{
			Street:  strPtr(v.Get("address[street]")),
			City:    strPtr(v.Get("address[city]")),
			Country: strPtr(v.Get("address[country]")),
		},
		Geo: &models.GeoInput{
			Lat: floatPtr(v.Get("geo[lat]")),
			Lng: floatPtr(v.Get("geo[lng]")),
		},
	}

	if pr := v.Get("priceRange"); pr != "" {
		in.PriceRange = &pr
	}

	// A blank image stays unset so the placeholder default applies.
	if img := strings.TrimSpace(v.Get("image")); img != "" {
		in.Image = &img
	}

	rating := 0.0
	if f, err := strconv.ParseFloat(v.Get("rating"), 64); err == nil {
		rating = f
	}
	in.Rating = &rating

	cuisines := splitCSV(v.Get("cuisines"))
	in.Cuisines = &cuisines
	amenities := splitCSV(v.Get("amenities"))
	in.Amenities = &amenities

	hasWifi := v.Get("hasWifi") == "on"
	in.HasWifi = &hasWifi

	cost := 0
	if n, err := strconv.Atoi(v.Get("averageCostForTwo")); err == nil {
		cost = n
	}
	in.AverageCostForTwo = &cost

	return in
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func strPtr(s string) *string { return &s }

func floatPtr(s string) *float64 {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
