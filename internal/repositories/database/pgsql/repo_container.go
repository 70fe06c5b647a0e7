package pgsql

import (
	portsrepo "github.com/N7ghtm4r3/Neutron/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the pgx-backed repositories to one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		RevenueRepo: newPgxRevenueRepository(dbPool),
		UserRepo:    newPgxUserRepository(dbPool),
	}
}
