package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tablefind/tablefind/internal/api/httpx"
	"github.com/tablefind/tablefind/internal/api/validate"
	"github.com/tablefind/tablefind/internal/config"
	"github.com/tablefind/tablefind/internal/middleware"
	"github.com/tablefind/tablefind/internal/models"
	repo "github.com/tablefind/tablefind/internal/repository"
	"github.com/tablefind/tablefind/internal/services"
)

const loginRedirect = "/auth/login?error=Please+login+to+continue"

// Pinger reports whether the store is reachable; checked before
// page-rendering queries so a down database becomes an error view, not a
// raw failure. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	restaurants *services.RestaurantService
	cfg         config.Config
	tmpl        *template.Template
	db          Pinger
}

func NewHandler(restaurants *services.RestaurantService, cfg config.Config, db Pinger) *Handler {
	return &Handler{
		restaurants: restaurants,
		cfg:         cfg,
		tmpl:        newTemplates(),
		db:          db,
	}
}

// Routes mounts the server-rendered surface. Identity is already resolved
// by the global middleware; per-route tier checks happen in the handlers.
func (h *Handler) Routes(r chi.Router) {
	mountStatic(r)

	r.Get("/", h.Home)
	r.Get("/auth/login", h.LoginPage)
	r.Get("/auth/register", h.RegisterPage)
	r.Get("/auth/logout", h.Logout)
	r.Get("/auth/check", h.Check)
	r.Post("/auth/set-session", h.SetSession)

	r.Get("/restaurants/search", h.SearchPage)
	r.Get("/restaurants/search/results", h.SearchResults)
	r.Get("/restaurants/create", h.CreatePage)
	r.Post("/restaurants", h.CreateSubmit)
	r.Get("/restaurants/{id}", h.Detail)
	r.Get("/restaurants/{id}/edit", h.EditPage)
	r.Post("/restaurants/{id}/update", h.UpdateSubmit)
	r.Get("/restaurants/{id}/delete", h.DeletePage)
	r.Post("/restaurants/{id}/delete", h.DeleteSubmit)
}

type PageData struct {
	Title string
	User  middleware.UserCtx
	Error string
}

func (h *Handler) page(r *http.Request, title string) PageData {
	return PageData{
		Title: title,
		User:  middleware.FromCtx(r.Context()),
		Error: r.URL.Query().Get("error"),
	}
}

func (h *Handler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("render", "template", name, "err", err)
	}
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	data := struct {
		PageData
		Message string
	}{h.page(r, "Error"), msg}
	if err := h.tmpl.ExecuteTemplate(w, "error.html", data); err != nil {
		slog.Error("render", "template", "error.html", "err", err)
	}
}

// NotFound serves both surfaces: JSON under /api, error page elsewhere.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		httpx.Fail(w, http.StatusNotFound, "Not found")
		return
	}
	h.renderError(w, r, http.StatusNotFound, "Page not found")
}

func (h *Handler) dbAvailable(w http.ResponseWriter, r *http.Request) bool {
	if h.db == nil {
		return true
	}
	if err := h.db.Ping(r.Context()); err != nil {
		slog.Error("db ping", "err", err)
		h.renderError(w, r, http.StatusServiceUnavailable, "Database not available. Please try again later.")
		return false
	}
	return true
}

func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request) (middleware.UserCtx, bool) {
	u := middleware.FromCtx(r.Context())
	if !u.IsAuthenticated() {
		http.Redirect(w, r, loginRedirect, http.StatusFound)
		return u, false
	}
	return u, true
}

func (h *Handler) requireAdmin(w http.ResponseWriter, r *http.Request) (middleware.UserCtx, bool) {
	u, ok := h.requireUser(w, r)
	if !ok {
		return u, false
	}
	if !u.IsAdmin() {
		h.renderError(w, r, http.StatusForbidden, "Access denied. Only admins can manage restaurants.")
		return u, false
	}
	return u, true
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, "index.html", h.page(r, "Home"))
}

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "login.html", h.page(r, "Login"))
}

func (h *Handler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "register.html", h.page(r, "Register"))
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearSessionCookies(w)
	http.Redirect(w, r, "/", http.StatusFound)
}

// Check is the quick login probe used by client scripts.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	u := middleware.FromCtx(r.Context())
	if !u.IsAuthenticated() {
		httpx.WriteJSON(w, http.StatusOK, httpx.M{"loggedIn": false})
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.M{
		"loggedIn": true,
		"user":     httpx.M{"id": u.UserID, "role": u.Role, "email": u.Email},
	})
}

// SetSession stores the freshly issued token in cookies so server-rendered
// pages see the session. The user cookie is readable by scripts; trust
// always comes from the verified token, never from it.
func (h *Handler) SetSession(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/auth/login?error=Session+failed", http.StatusFound)
		return
	}
	token := r.PostFormValue("token")
	user := r.PostFormValue("user")
	if token == "" {
		http.Redirect(w, r, "/auth/login?error=Session+failed", http.StatusFound)
		return
	}

	maxAge := int(h.cfg.JWTExpiry.Seconds())
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cfg.IsProd(),
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.UserCookie,
		Value:    url.QueryEscape(user),
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: false,
		Secure:   h.cfg.IsProd(),
		SameSite: http.SameSiteStrictMode,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}

type searchParams struct {
	City      string
	Cuisine   string
	MinRating string
}

type searchPageData struct {
	PageData
	Params searchParams
	Errors []string
}

func (h *Handler) SearchPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "search.html", searchPageData{
		PageData: h.page(r, "Search"),
		Params:   readSearchParams(r.URL.Query()),
	})
}

func readSearchParams(q url.Values) searchParams {
	return searchParams{
		City:      strings.TrimSpace(q.Get("city")),
		Cuisine:   strings.TrimSpace(q.Get("cuisine")),
		MinRating: strings.TrimSpace(q.Get("minRating")),
	}
}

// parseSearchQuery is the permissive variant: malformed numerics fall back
// to defaults instead of rejecting the request.
func parseSearchQuery(q url.Values) (repo.RestaurantFilter, services.Page) {
	params := readSearchParams(q)
	f := repo.RestaurantFilter{City: params.City, Cuisine: params.Cuisine}
	if v, err := strconv.ParseFloat(params.MinRating, 64); err == nil && v >= 0 && v <= 5 {
		f.MinRating = &v
	}
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("perPage"))
	return f, services.NormalizePage(page, perPage)
}

type pageLink struct {
	Number int
	Active bool
	URL    string
}

type resultsPageData struct {
	PageData
	Params      searchParams
	Restaurants []models.Restaurant
	Pagination  services.Pagination
	Pages       []pageLink
	PrevURL     string
	NextURL     string
}

func (h *Handler) SearchResults(w http.ResponseWriter, r *http.Request) {
	if !h.dbAvailable(w, r) {
		return
	}

	f, page := parseSearchQuery(r.URL.Query())
	items, pagination, err := h.restaurants.List(r.Context(), f, page)
	if err != nil {
		slog.Error("search results", "err", err)
		h.render(w, "search.html", searchPageData{
			PageData: h.page(r, "Search"),
			Params:   readSearchParams(r.URL.Query()),
			Errors:   []string{"Error performing search"},
		})
		return
	}

	params := readSearchParams(r.URL.Query())
	buildURL := func(n int) string {
		u := fmt.Sprintf("/restaurants/search/results?page=%d&perPage=%d", n, page.PerPage)
		if params.City != "" {
			u += "&city=" + url.QueryEscape(params.City)
		}
		if params.Cuisine != "" {
			u += "&cuisine=" + url.QueryEscape(params.Cuisine)
		}
		if params.MinRating != "" {
			u += "&minRating=" + url.QueryEscape(params.MinRating)
		}
		return u
	}

	links := make([]pageLink, 0, pagination.TotalPages)
	for i := 1; i <= pagination.TotalPages; i++ {
		links = append(links, pageLink{Number: i, Active: i == page.Page, URL: buildURL(i)})
	}

	h.render(w, "results.html", resultsPageData{
		PageData:    h.page(r, "Results"),
		Params:      params,
		Restaurants: items,
		Pagination:  pagination,
		Pages:       links,
		PrevURL:     buildURL(page.Page - 1),
		NextURL:     buildURL(page.Page + 1),
	})
}

type detailPageData struct {
	PageData
	Restaurant models.Restaurant
}

func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	if !h.dbAvailable(w, r) {
		return
	}
	restaurant, err := h.restaurants.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.renderRepoErr(w, r, err, "Error loading restaurant")
		return
	}
	h.render(w, "detail.html", detailPageData{h.page(r, restaurant.Name), restaurant})
}

type formPageData struct {
	PageData
	Restaurant  models.Restaurant
	PriceRanges []string
	Errors      validate.Errs
}

func (h *Handler) formData(r *http.Request, title string, restaurant models.Restaurant, errs validate.Errs) formPageData {
	// NaN coordinates come from absent form values; blank them for re-render
	if math.IsNaN(restaurant.Geo.Lat) {
		restaurant.Geo.Lat = 0
	}
	if math.IsNaN(restaurant.Geo.Lng) {
		restaurant.Geo.Lng = 0
	}
	return formPageData{
		PageData:    h.page(r, title),
		Restaurant:  restaurant,
		PriceRanges: models.PriceRanges,
		Errors:      errs,
	}
}

func (h *Handler) CreatePage(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUser(w, r); !ok {
		return
	}
	h.render(w, "create.html", h.formData(r, "Add restaurant", models.Restaurant{Image: models.DefaultImage}, nil))
}

func (h *Handler) CreateSubmit(w http.ResponseWriter, r *http.Request) {
	u, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	if !h.dbAvailable(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Invalid form submission")
		return
	}

	in := DecodeRestaurantForm(r.PostForm)
	created, err := h.restaurants.Create(r.Context(), in, u.UserID)
	if err != nil {
		var errs validate.Errs
		if errors.As(err, &errs) {
			h.render(w, "create.html", h.formData(r, "Add restaurant", in.NewRestaurant(), errs))
			return
		}
		slog.Error("create restaurant", "err", err)
		h.renderError(w, r, http.StatusInternalServerError, "Error creating restaurant")
		return
	}
	http.Redirect(w, r, "/restaurants/"+created.ID, http.StatusFound)
}

func (h *Handler) EditPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r); !ok {
		return
	}
	if !h.dbAvailable(w, r) {
		return
	}
	restaurant, err := h.restaurants.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.renderRepoErr(w, r, err, "Error loading restaurant for editing")
		return
	}
	h.render(w, "edit.html", h.formData(r, "Edit restaurant", restaurant, nil))
}

func (h *Handler) UpdateSubmit(w http.ResponseWriter, r *http.Request) {
	u, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	if !h.dbAvailable(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Invalid form submission")
		return
	}

	id := chi.URLParam(r, "id")
	in := DecodeRestaurantForm(r.PostForm)
	_, err := h.restaurants.Update(r.Context(), id, in, u.UserID)
	if err != nil {
		var errs validate.Errs
		if errors.As(err, &errs) {
			merged := models.Restaurant{ID: id}
			in.Apply(&merged)
			h.render(w, "edit.html", h.formData(r, "Edit restaurant", merged, errs))
			return
		}
		h.renderRepoErr(w, r, err, "Error updating restaurant")
		return
	}
	http.Redirect(w, r, "/restaurants/"+id, http.StatusFound)
}

func (h *Handler) DeletePage(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r); !ok {
		return
	}
	if !h.dbAvailable(w, r) {
		return
	}
	restaurant, err := h.restaurants.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.renderRepoErr(w, r, err, "Error loading restaurant for deletion")
		return
	}
	h.render(w, "delete.html", detailPageData{h.page(r, "Delete restaurant"), restaurant})
}

func (h *Handler) DeleteSubmit(w http.ResponseWriter, r *http.Request) {
	u, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	if err := h.restaurants.Delete(r.Context(), chi.URLParam(r, "id"), u.UserID); err != nil {
		h.renderRepoErr(w, r, err, "Error deleting restaurant")
		return
	}
	http.Redirect(w, r, "/restaurants/search/results", http.StatusFound)
}

func (h *Handler) renderRepoErr(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, repo.ErrInvalidID):
		h.renderError(w, r, http.StatusBadRequest, "Invalid restaurant ID")
	case errors.Is(err, repo.ErrNotFound):
		h.renderError(w, r, http.StatusNotFound, "Restaurant not found")
	default:
		slog.Error("page query", "err", err)
		h.renderError(w, r, http.StatusInternalServerError, fallback)
	}
}
