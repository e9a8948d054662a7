package middleware

import (
	"net/http"
	"strings"

	"github.com/tablefind/tablefind/internal/api/httpx"
	"github.com/tablefind/tablefind/internal/auth"
	"github.com/tablefind/tablefind/internal/metrics"
)

const (
	TokenCookie = "token"
	UserCookie  = "user"
)

// TokenExtractor pulls a candidate token out of a request; empty means the
// source had nothing.
type TokenExtractor func(*http.Request) string

func FromBearerHeader(r *http.Request) string {
	ah := r.Header.Get("Authorization")
	if ah == "" || !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
		return ""
	}
	return strings.TrimSpace(ah[len("Bearer "):])
}

func FromCookie(r *http.Request) string {
	c, err := r.Cookie(TokenCookie)
	if err != nil {
		return ""
	}
	return c.Value
}

func FromQuery(r *http.Request) string {
	return r.URL.Query().Get(TokenCookie)
}

// Resolver resolves an optional identity from an ordered list of token
// sources. First non-empty source wins; sources are never merged.
type Resolver struct {
	tm         *auth.TokenManager
	extractors []TokenExtractor
}

func NewResolver(tm *auth.TokenManager) *Resolver {
	return &Resolver{
		tm:         tm,
		extractors: []TokenExtractor{FromBearerHeader, FromCookie, FromQuery},
	}
}

func (rs *Resolver) Token(r *http.Request) string {
	for _, ex := range rs.extractors {
		if tok := ex(r); tok != "" {
			return tok
		}
	}
	return ""
}

// Resolve verifies the first token found and returns the identity. A
// missing or invalid token yields a zero UserCtx, not an error.
func (rs *Resolver) Resolve(r *http.Request) (UserCtx, bool) {
	tok := rs.Token(r)
	if tok == "" {
		return UserCtx{}, true
	}
	claims, err := rs.tm.Parse(tok)
	if err != nil {
		metrics.AuthFailures.Inc()
		return UserCtx{}, false
	}
	return UserCtx{UserID: claims.UserID, Role: claims.Role, Email: claims.Email}, true
}

// Optional runs on every request. Unauthenticated requests pass through
// untouched; a dead token on a page route additionally clears the session
// cookies so the browser stops presenting it.
func (rs *Resolver) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := rs.Resolve(r)
		if !ok && !strings.HasPrefix(r.URL.Path, "/api/") {
			ClearSessionCookies(w)
		}
		if u.IsAuthenticated() {
			r = r.WithContext(WithUser(r.Context(), u))
		}
		next.ServeHTTP(w, r)
	})
}

func ClearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{TokenCookie, UserCookie} {
		http.SetCookie(w, &http.Cookie{Name: name, Value: "", Path: "/", MaxAge: -1})
	}
}

// RequireAuth guards API routes: 401 when no verifiable identity is present.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !FromCtx(r.Context()).IsAuthenticated() {
			httpx.Fail(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin guards API routes that mutate the directory.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := FromCtx(r.Context())
		if !u.IsAuthenticated() {
			httpx.Fail(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		if !u.IsAdmin() {
			httpx.Fail(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
