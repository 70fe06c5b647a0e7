package services

import (
	portsrepo "github.com/N7ghtm4r3/Neutron/internal/core/ports/repositories"
	portssvc "github.com/N7ghtm4r3/Neutron/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Revenue: NewRevenueService(repos.RevenueRepo),
		Wallet:  NewWalletService(repos.RevenueRepo),
		User:    NewUserService(repos.UserRepo),
	}
}
