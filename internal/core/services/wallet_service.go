package services

import (
	"context"
	"log/slog"

	"github.com/N7ghtm4r3/Neutron/internal/apperrors"
	"github.com/N7ghtm4r3/Neutron/internal/core/domain"
	portsrepo "github.com/N7ghtm4r3/Neutron/internal/core/ports/repositories"
	portssvc "github.com/N7ghtm4r3/Neutron/internal/core/ports/services"
	"github.com/N7ghtm4r3/Neutron/internal/dto"
	"github.com/shopspring/decimal"
)

// walletService implements the WalletSvcFacade interface
type walletService struct {
	BaseService
	revenueRepo portsrepo.RevenueRepositoryFacade
	now         func() int64
}

// NewWalletService creates a new wallet service backed by the revenue repository.
func NewWalletService(repo portsrepo.RevenueRepositoryFacade) portssvc.WalletSvcFacade {
	return &walletService{
		revenueRepo: repo,
		now:         nowMillis,
	}
}

// Ensure walletService implements the WalletSvcFacade interface
var _ portssvc.WalletSvcFacade = (*walletService)(nil)

// sumEarnings totals the user's revenues inserted in [fromDate, beforeDate).
// beforeDate 0 leaves the range open ended. Project revenues contribute their
// derived value.
func (s *walletService) sumEarnings(ctx context.Context, userID string, params dto.WalletParams, fromDate, beforeDate int64) (decimal.Decimal, error) {
	total := decimal.Zero

	if params.GeneralRevenues {
		generals, err := s.revenueRepo.ListGeneralRevenues(ctx, userID, fromDate, params.Labels, 0, 0)
		if err != nil {
			return decimal.Zero, err
		}
		for _, revenue := range generals {
			if beforeDate > 0 && revenue.RevenueDate >= beforeDate {
				continue
			}
			total = total.Add(revenue.Value)
		}
	}

	if params.ProjectRevenues {
		projects, err := s.revenueRepo.ListProjectRevenues(ctx, userID, fromDate, 0, 0)
		if err != nil {
			return decimal.Zero, err
		}
		for _, project := range projects {
			if beforeDate > 0 && project.RevenueDate >= beforeDate {
				continue
			}
			total = total.Add(project.TotalValue())
		}
	}

	return total, nil
}

func (s *walletService) GetWalletStatus(ctx context.Context, userID string, params dto.WalletParams) (*domain.WalletStatus, error) {
	period, ok := domain.ParseRevenuePeriod(params.Period)
	if !ok {
		return nil, apperrors.NewValidationError("period", "is not a supported revenue period")
	}

	now := s.now()
	currentFrom := period.FromDate(now, 1)

	total, err := s.sumEarnings(ctx, userID, params, currentFrom, 0)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute wallet earnings", slog.String("user_id", userID))
		return nil, err
	}

	status := &domain.WalletStatus{
		TotalEarnings: total.Round(2),
		Trend:         decimal.Zero,
	}

	// The whole history has no preceding period to compare against.
	if period == domain.AllPeriods {
		return status, nil
	}

	previousFrom := period.FromDate(now, 2)
	previous, err := s.sumEarnings(ctx, userID, params, previousFrom, currentFrom)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute previous period earnings", slog.String("user_id", userID))
		return nil, err
	}

	if !previous.IsZero() {
		status.Trend = total.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return status, nil
}
