package middleware

import "context"

type userKey struct{}

// UserCtx is the identity resolved from a verified token.
type UserCtx struct {
	UserID string
	Role   string
	Email  string
}

func (u UserCtx) IsAuthenticated() bool { return u.UserID != "" }
func (u UserCtx) IsAdmin() bool         { return u.Role == "admin" }

func WithUser(ctx context.Context, u UserCtx) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

func FromCtx(ctx context.Context) UserCtx {
	if v := ctx.Value(userKey{}); v != nil {
		if u, ok := v.(UserCtx); ok {
			return u
		}
	}
	return UserCtx{}
}
