package models

import (
	"strings"
	"time"

	"github.com/tablefind/tablefind/internal/api/validate"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Normalize trims username/email and lowercases the email before any
// uniqueness check or persistence.
func (u *User) Normalize() {
	u.Username = strings.TrimSpace(u.Username)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Role != RoleUser && u.Role != RoleAdmin {
		u.Role = RoleUser
	}
}

func (u *User) Validate() validate.Errs {
	var errs validate.Errs
	if e := validate.MinLen("username", u.Username, 3); e != nil {
		errs = append(errs, *e)
	}
	if !strings.Contains(u.Email, "@") {
		errs = append(errs, validate.ErrField{Field: "email", Msg: "must be a valid email address"})
	}
	return errs
}
