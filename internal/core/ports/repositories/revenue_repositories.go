package repositories

import (
	"context"

	"github.com/N7ghtm4r3/Neutron/internal/core/domain"
)

// TicketFilter narrows ticket queries by state and insertion date.
type TicketFilter struct {
	FromDate       int64
	IncludePending bool
	IncludeClosed  bool
	Limit          int
	Offset         int
}

// RevenueReader defines read operations on the revenue aggregate model.
// Every lookup is scoped by the owning user id: an id belonging to another
// user behaves exactly like a missing row.
type RevenueReader interface {
	// FindProjectRevenueByID loads a project with its initial revenue and all tickets.
	FindProjectRevenueByID(ctx context.Context, userID, projectID string) (*domain.ProjectRevenue, error)

	// FindGeneralRevenueByID loads a general revenue with its labels.
	FindGeneralRevenueByID(ctx context.Context, userID, revenueID string) (*domain.GeneralRevenue, error)

	// FindTicketByID loads a ticket scoped to one project of the user.
	FindTicketByID(ctx context.Context, userID, projectID, ticketID string) (*domain.TicketRevenue, error)

	// ListGeneralRevenues returns the user's general revenues inserted at or
	// after fromDate, newest first. A non-empty labels slice keeps only revenues
	// carrying at least one of those label texts.
	ListGeneralRevenues(ctx context.Context, userID string, fromDate int64, labels []string, limit, offset int) ([]domain.GeneralRevenue, error)

	// CountGeneralRevenues counts the rows ListGeneralRevenues would return without paging.
	CountGeneralRevenues(ctx context.Context, userID string, fromDate int64, labels []string) (int64, error)

	// ListProjectRevenues returns fully loaded project aggregates, newest first.
	ListProjectRevenues(ctx context.Context, userID string, fromDate int64, limit, offset int) ([]domain.ProjectRevenue, error)

	// CountProjectRevenues counts the rows ListProjectRevenues would return without paging.
	CountProjectRevenues(ctx context.Context, userID string, fromDate int64) (int64, error)

	// ListTickets returns the tickets of one project matching the filter, newest first.
	ListTickets(ctx context.Context, projectID string, filter TicketFilter) ([]domain.TicketRevenue, error)

	// CountTickets counts the rows ListTickets would return without paging.
	CountTickets(ctx context.Context, projectID string, filter TicketFilter) (int64, error)

	// ListRevenueLabels returns the distinct labels attached to the user's revenues.
	ListRevenueLabels(ctx context.Context, userID string) ([]domain.RevenueLabel, error)
}

// RevenueWriter defines write operations on the revenue aggregate model.
// Multi-row writes are atomic: either every row of the logical operation is
// persisted or none is.
type RevenueWriter interface {
	// SaveProjectRevenue persists the project row and its initial revenue in one transaction.
	SaveProjectRevenue(ctx context.Context, project domain.ProjectRevenue) error

	// UpdateProjectRevenue updates the project row and its initial revenue in one transaction.
	UpdateProjectRevenue(ctx context.Context, project domain.ProjectRevenue) error

	// SaveGeneralRevenue persists the revenue row and all its labels in one transaction.
	SaveGeneralRevenue(ctx context.Context, revenue domain.GeneralRevenue) error

	// UpdateGeneralRevenue updates the revenue row and reconciles its labels in
	// one transaction: labels absent from revenue.Labels are removed.
	UpdateGeneralRevenue(ctx context.Context, revenue domain.GeneralRevenue) error

	// SaveTicket persists a new ticket on its project.
	SaveTicket(ctx context.Context, ticket domain.TicketRevenue) error

	// UpdateTicket rewrites the mutable fields of an open ticket.
	UpdateTicket(ctx context.Context, ticket domain.TicketRevenue) error

	// CloseTicket sets the closing date of a ticket.
	CloseTicket(ctx context.Context, ticketID string, closingDate int64) error

	// DeleteTicket removes one ticket; the owning project is untouched.
	DeleteTicket(ctx context.Context, ticketID string) error

	// DeleteProjectRevenue removes a project; the storage cascade removes its
	// initial revenue and tickets.
	DeleteProjectRevenue(ctx context.Context, userID, projectID string) error

	// DeleteGeneralRevenue removes a general revenue; the storage cascade
	// removes its labels.
	DeleteGeneralRevenue(ctx context.Context, userID, revenueID string) error
}

// RevenueRepositoryFacade combines all revenue repository interfaces.
type RevenueRepositoryFacade interface {
	RevenueReader
	RevenueWriter
}
