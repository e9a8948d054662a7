package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tablefind/tablefind/internal/api/httpx"
	"github.com/tablefind/tablefind/internal/api/validate"
	"github.com/tablefind/tablefind/internal/middleware"
	"github.com/tablefind/tablefind/internal/services"
)

type AuthHandler struct {
	users *services.UserService
}

func NewAuthHandler(users *services.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := h.users.Register(r.Context(), req.Username, req.Email, req.Password, req.Role)
	if err != nil {
		var errs validate.Errs
		switch {
		case errors.As(err, &errs):
			httpx.FailFields(w, errs)
		case errors.Is(err, services.ErrUserExists):
			httpx.Fail(w, http.StatusBadRequest, "User already exists")
		default:
			slog.Error("register", "err", err)
			httpx.Fail(w, http.StatusInternalServerError, "Registration failed")
		}
		return
	}

	httpx.Success(w, http.StatusCreated, httpx.M{
		"message": "User registered successfully",
		"token":   token,
		"user":    user,
	})
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			httpx.Fail(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		slog.Error("login", "err", err)
		httpx.Fail(w, http.StatusInternalServerError, "Login failed")
		return
	}

	httpx.Success(w, http.StatusOK, httpx.M{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// Logout is a no-op acknowledgment: tokens are stateless, clients just drop
// them.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	httpx.Success(w, http.StatusOK, httpx.M{"message": "Logged out successfully"})
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	u := middleware.FromCtx(r.Context())
	user, err := h.users.Profile(r.Context(), u.UserID)
	if err != nil {
		slog.Error("profile", "err", err, "user_id", u.UserID)
		httpx.Fail(w, http.StatusInternalServerError, "Failed to fetch profile")
		return
	}
	httpx.Success(w, http.StatusOK, httpx.M{"user": user})
}
