package domain

import (
	"github.com/shopspring/decimal"
)

const (
	// RevenueTitleMaxLength is the max valid length for a revenue title.
	RevenueTitleMaxLength = 30

	// RevenueDescriptionMaxLength is the max valid length for a revenue description.
	RevenueDescriptionMaxLength = 250

	// MaxRevenueLabels is the max number of labels attachable to a general revenue.
	MaxRevenueLabels = 5

	// OpenTicketClosingDate is the sentinel closing date of a ticket still open.
	OpenTicketClosingDate int64 = -1
)

const (
	// PendingTicketLabelColor is the conventional color used to render an open ticket.
	PendingTicketLabelColor = "#B5A422"

	// ClosedTicketLabelColor is the conventional color used to render a closed ticket.
	ClosedTicketLabelColor = "#12b543"
)

// Revenue holds the identity and fields shared by every revenue variant.
type Revenue struct {
	ID          string          `json:"id"`           // Primary Key (32-char hex identifier)
	Title       string          `json:"title"`        // Non-blank, max 30 chars
	Value       decimal.Decimal `json:"value"`        // Non-negative, 2 decimal places
	RevenueDate int64           `json:"revenue_date"` // Insertion date, epoch milliseconds
	Owner       string          `json:"owner"`        // FK -> users.id (NOT NULL)
}

// GeneralRevenue is a standalone revenue with a description and up to
// MaxRevenueLabels attached labels.
type GeneralRevenue struct {
	Revenue
	Description string         `json:"description"`
	Labels      []RevenueLabel `json:"labels"`
}

// RevenueLabel is a text+color tag attached to exactly one general revenue.
type RevenueLabel struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Color   string `json:"color"`   // 7-char hex string, e.g. "#a68cef"
	Revenue string `json:"revenue"` // FK -> general_revenues.id (NOT NULL, cascade)
}

// InitialRevenue is the opening amount of a project, created atomically with it
// and removed only by the project cascade.
type InitialRevenue struct {
	Revenue
	ProjectID string `json:"project_revenue"` // FK -> project_revenues.id (NOT NULL, cascade)
}

// TicketRevenue is an open/closed monetary entry scoped to exactly one project.
// A ticket is open while ClosingDate equals OpenTicketClosingDate; closing is a
// one-way transition.
type TicketRevenue struct {
	Revenue
	Description string `json:"description"`
	ClosingDate int64  `json:"closing_date"`
	ProjectID   string `json:"project_revenue"` // FK -> project_revenues.id (NOT NULL, cascade)
}

// IsClosed reports whether the ticket has been closed.
func (t TicketRevenue) IsClosed() bool {
	return t.ClosingDate != OpenTicketClosingDate
}

// ProjectRevenue is an aggregate revenue: its value is never stored, it is always
// derived from the initial revenue plus the attached tickets.
type ProjectRevenue struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	RevenueDate    int64           `json:"revenue_date"`
	Owner          string          `json:"owner"`
	InitialRevenue InitialRevenue  `json:"initial_revenue"`
	Tickets        []TicketRevenue `json:"tickets"`
}

// TotalValue returns the derived value of the project: the initial amount plus
// the values of all tickets, open or closed.
func (p ProjectRevenue) TotalValue() decimal.Decimal {
	total := p.InitialRevenue.Value
	for _, ticket := range p.Tickets {
		total = total.Add(ticket.Value)
	}
	return total
}

// HasTicket reports whether the project already owns a ticket with the given title.
func (p ProjectRevenue) HasTicket(title string) bool {
	for _, ticket := range p.Tickets {
		if ticket.Title == title {
			return true
		}
	}
	return false
}

// TicketByID returns the project's ticket with the given identifier, or nil.
func (p ProjectRevenue) TicketByID(ticketID string) *TicketRevenue {
	for i := range p.Tickets {
		if p.Tickets[i].ID == ticketID {
			return &p.Tickets[i]
		}
	}
	return nil
}
