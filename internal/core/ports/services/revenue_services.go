package services

import (
	"context"

	"github.com/N7ghtm4r3/Neutron/internal/core/domain"
	"github.com/N7ghtm4r3/Neutron/internal/dto"
	"github.com/shopspring/decimal"
)

// RevenueSvcFacade exposes every operation on the revenue aggregate model.
type RevenueSvcFacade interface {
	// CreateRevenue validates the payload and creates either a project revenue
	// (with its initial revenue, atomically) or a general revenue (with its
	// labels, atomically). It returns the new identifier.
	CreateRevenue(ctx context.Context, userID string, req dto.CreateRevenueRequest) (string, error)

	// EditRevenue rewrites an existing revenue of either kind.
	EditRevenue(ctx context.Context, userID, revenueID string, req dto.CreateRevenueRequest) error

	// ListRevenues returns a page of the user's revenues filtered by period,
	// kind and labels, newest first.
	ListRevenues(ctx context.Context, userID string, params dto.ListRevenuesParams) (*dto.PaginatedRevenues, error)

	// GetRevenue returns one revenue of either kind.
	GetRevenue(ctx context.Context, userID, revenueID string) (*dto.RevenueResponse, error)

	// DeleteRevenue removes one revenue of either kind; the storage cascade
	// removes its dependents.
	DeleteRevenue(ctx context.Context, userID, revenueID string) error

	// ListLabels returns the distinct labels of the user's revenues.
	ListLabels(ctx context.Context, userID string) ([]domain.RevenueLabel, error)

	// GetProjectRevenue returns one fully loaded project aggregate.
	GetProjectRevenue(ctx context.Context, userID, projectID string) (*domain.ProjectRevenue, error)

	// GetProjectBalance returns the derived balance of a project over a period.
	GetProjectBalance(ctx context.Context, userID, projectID string, params dto.ProjectBalanceParams) (decimal.Decimal, error)

	// AddTicket opens a new ticket on a project and returns its identifier.
	AddTicket(ctx context.Context, userID, projectID string, req dto.CreateTicketRequest) (string, error)

	// EditTicket rewrites an open ticket; closed tickets are immutable.
	EditTicket(ctx context.Context, userID, projectID, ticketID string, req dto.CreateTicketRequest) error

	// ListTickets returns a page of a project's tickets.
	ListTickets(ctx context.Context, userID, projectID string, params dto.ListTicketsParams) (*dto.PaginatedTickets, error)

	// CloseTicket performs the one-way OPEN to CLOSED transition.
	CloseTicket(ctx context.Context, userID, projectID, ticketID string) error

	// DeleteTicket removes one ticket without touching its project.
	DeleteTicket(ctx context.Context, userID, projectID, ticketID string) error
}
