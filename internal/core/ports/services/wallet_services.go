package services

import (
	"context"

	"github.com/N7ghtm4r3/Neutron/internal/core/domain"
	"github.com/N7ghtm4r3/Neutron/internal/dto"
)

// WalletSvcFacade summarizes a user's earnings.
type WalletSvcFacade interface {
	// GetWalletStatus returns the total earnings over the requested period and
	// the trend percentage against the preceding period. The total of a project
	// revenue is always its derived value.
	GetWalletStatus(ctx context.Context, userID string, params dto.WalletParams) (*domain.WalletStatus, error)
}
