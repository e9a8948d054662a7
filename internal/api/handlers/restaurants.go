package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tablefind/tablefind/internal/api/httpx"
	"github.com/tablefind/tablefind/internal/api/validate"
	"github.com/tablefind/tablefind/internal/middleware"
	"github.com/tablefind/tablefind/internal/models"
	repo "github.com/tablefind/tablefind/internal/repository"
	"github.com/tablefind/tablefind/internal/services"
)

type RestaurantHandler struct {
	svc *services.RestaurantService
}

func NewRestaurantHandler(svc *services.RestaurantService) *RestaurantHandler {
	return &RestaurantHandler{svc: svc}
}

// parseListQuery is the strict variant used by the JSON API: malformed
// numerics are rejected with field errors before any query executes.
func parseListQuery(q url.Values) (repo.RestaurantFilter, services.Page, validate.Errs) {
	var errs validate.Errs
	page, perPage := services.DefaultPage, services.DefaultPerPage

	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			errs = append(errs, validate.ErrField{Field: "page", Msg: "must be a positive integer"})
		} else {
			page = n
		}
	}
	if v := q.Get("perPage"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > services.MaxPerPage {
			errs = append(errs, validate.ErrField{Field: "perPage", Msg: "must be between 1 and 100"})
		} else {
			perPage = n
		}
	}

	var f repo.RestaurantFilter
	if q.Has("city") {
		city := strings.TrimSpace(q.Get("city"))
		if city == "" {
			errs = append(errs, validate.ErrField{Field: "city", Msg: "must not be empty"})
		}
		f.City = city
	}
	if q.Has("cuisine") {
		cuisine := strings.TrimSpace(q.Get("cuisine"))
		if cuisine == "" {
			errs = append(errs, validate.ErrField{Field: "cuisine", Msg: "must not be empty"})
		}
		f.Cuisine = cuisine
	}
	if v := q.Get("minRating"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		// the negated form also rejects NaN, which ParseFloat accepts
		if err != nil || !(n >= 0 && n <= 5) {
			errs = append(errs, validate.ErrField{Field: "minRating", Msg: "must be between 0 and 5"})
		} else {
			f.MinRating = &n
		}
	}

	return f, services.NormalizePage(page, perPage), errs
}

func (h *RestaurantHandler) List(w http.ResponseWriter, r *http.Request) {
	f, page, errs := parseListQuery(r.URL.Query())
	if len(errs) > 0 {
		httpx.FailFields(w, errs)
		return
	}

	items, pagination, err := h.svc.List(r.Context(), f, page)
	if err != nil {
		slog.Error("list restaurants", "err", err)
		httpx.Fail(w, http.StatusInternalServerError, "Server error while fetching restaurants")
		return
	}

	httpx.Success(w, http.StatusOK, httpx.M{"data": items, "pagination": pagination})
}

// SearchFilters is the lightweight search: same filters, capped results,
// no pagination metadata.
func (h *RestaurantHandler) SearchFilters(w http.ResponseWriter, r *http.Request) {
	f, _, errs := parseListQuery(r.URL.Query())
	if len(errs) > 0 {
		httpx.FailFields(w, errs)
		return
	}

	items, err := h.svc.SearchByFilters(r.Context(), f)
	if err != nil {
		slog.Error("search restaurants", "err", err)
		httpx.Fail(w, http.StatusInternalServerError, "Server error while searching restaurants")
		return
	}

	httpx.Success(w, http.StatusOK, httpx.M{"data": items})
}

func (h *RestaurantHandler) Get(w http.ResponseWriter, r *http.Request) {
	restaurant, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeErr(w, err, "fetching")
		return
	}
	httpx.Success(w, http.StatusOK, httpx.M{"data": restaurant})
}

func (h *RestaurantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.RestaurantInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	actor := middleware.FromCtx(r.Context()).UserID
	restaurant, err := h.svc.Create(r.Context(), in, actor)
	if err != nil {
		h.writeErr(w, err, "creating")
		return
	}

	httpx.Success(w, http.StatusCreated, httpx.M{
		"message": "Restaurant created successfully",
		"data":    restaurant,
	})
}

func (h *RestaurantHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in models.RestaurantInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	actor := middleware.FromCtx(r.Context()).UserID
	restaurant, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), in, actor)
	if err != nil {
		h.writeErr(w, err, "updating")
		return
	}

	httpx.Success(w, http.StatusOK, httpx.M{
		"message": "Restaurant updated successfully",
		"data":    restaurant,
	})
}

func (h *RestaurantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.FromCtx(r.Context()).UserID
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"), actor); err != nil {
		h.writeErr(w, err, "deleting")
		return
	}
	httpx.Success(w, http.StatusOK, httpx.M{"message": "Restaurant deleted successfully"})
}

func (h *RestaurantHandler) writeErr(w http.ResponseWriter, err error, verb string) {
	var errs validate.Errs
	switch {
	case errors.As(err, &errs):
		httpx.FailFields(w, errs)
	case errors.Is(err, repo.ErrInvalidID):
		httpx.Fail(w, http.StatusBadRequest, "Invalid restaurant ID")
	case errors.Is(err, repo.ErrNotFound):
		httpx.Fail(w, http.StatusNotFound, "Restaurant not found")
	default:
		slog.Error("restaurant "+verb, "err", err)
		httpx.Fail(w, http.StatusInternalServerError, "Server error while "+verb+" restaurant")
	}
}
