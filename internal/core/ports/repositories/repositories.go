package repositories

// RepositoryProvider bundles the concrete repositories wired by a storage
// backend (pgsql or the embedded sqlite store).
type RepositoryProvider struct {
	RevenueRepo RevenueRepositoryFacade
	UserRepo    UserRepositoryFacade
}
