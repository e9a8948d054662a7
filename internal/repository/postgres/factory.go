package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	repo "github.com/tablefind/tablefind/internal/repository"
)

type Repositories struct {
	Users       repo.Users
	Restaurants repo.Restaurants
	AuditLogs   repo.AuditLogs
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Users:       &usersRepo{pool},
		Restaurants: &restaurantsRepo{pool},
		AuditLogs:   &auditLogsRepo{pool},
	}
}
