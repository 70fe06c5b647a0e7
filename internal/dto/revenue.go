package dto

import (
	"github.com/N7ghtm4r3/Neutron/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RevenueLabelPayload carries one label of a general revenue. Identifiers are
// assigned server-side when absent.
type RevenueLabelPayload struct {
	ID    string `json:"id"`
	Text  string `json:"text" binding:"required"`
	Color string `json:"color" binding:"required"`
}

// CreateRevenueRequest creates either a project revenue (is_project_revenue true,
// value becomes the initial amount) or a general revenue (description + labels).
// The same shape is accepted by the edit endpoint.
type CreateRevenueRequest struct {
	IsProjectRevenue bool                  `json:"is_project_revenue"`
	Title            string                `json:"title" binding:"required"`
	Value            decimal.Decimal       `json:"value"`
	RevenueDate      int64                 `json:"revenue_date" binding:"required"`
	Description      string                `json:"description"`
	Labels           []RevenueLabelPayload `json:"labels"`
}

// CreateTicketRequest opens a ticket on a project revenue. ClosingDate is
// optional: when omitted the ticket is created open.
type CreateTicketRequest struct {
	Title       string          `json:"title" binding:"required"`
	Value       decimal.Decimal `json:"value"`
	Description string          `json:"description" binding:"required"`
	RevenueDate int64           `json:"revenue_date" binding:"required"`
	ClosingDate *int64          `json:"closing_date"`
}

// ListRevenuesParams are the query parameters of the revenue listing endpoint.
type ListRevenuesParams struct {
	Page            int      `form:"page,default=0"`
	PageSize        int      `form:"page_size,default=10"`
	Period          string   `form:"period"`
	GeneralRevenues bool     `form:"general_revenues,default=true"`
	ProjectRevenues bool     `form:"project_revenues,default=true"`
	Labels          []string `form:"labels"`
}

// ListTicketsParams are the query parameters of the ticket listing endpoint.
type ListTicketsParams struct {
	Page           int    `form:"page,default=0"`
	PageSize       int    `form:"page_size,default=10"`
	Period         string `form:"period"`
	PendingTickets bool   `form:"pending_tickets,default=true"`
	ClosedTickets  bool   `form:"closed_tickets,default=true"`
}

// ProjectBalanceParams filter the tickets counted in a project balance.
type ProjectBalanceParams struct {
	Period        string `form:"period"`
	ClosedTickets bool   `form:"closed_tickets,default=true"`
}

// RevenueLabelResponse is the wire form of a revenue label.
type RevenueLabelResponse struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Color string `json:"color"`
}

// TicketResponse is the wire form of a ticket revenue.
type TicketResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Value       decimal.Decimal `json:"value"`
	Description string          `json:"description"`
	RevenueDate int64           `json:"revenue_date"`
	ClosingDate int64           `json:"closing_date"`
}

// InitialRevenueResponse is the wire form of a project's initial revenue.
type InitialRevenueResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Value       decimal.Decimal `json:"value"`
	RevenueDate int64           `json:"revenue_date"`
}

// RevenueResponse is the wire form of any top-level revenue. Project revenues
// carry initial_revenue and tickets and their value is the derived total;
// general revenues carry description and labels.
type RevenueResponse struct {
	ID               string                  `json:"id"`
	IsProjectRevenue bool                    `json:"is_project_revenue"`
	Title            string                  `json:"title"`
	Value            decimal.Decimal         `json:"value"`
	RevenueDate      int64                   `json:"revenue_date"`
	Description      string                  `json:"description,omitempty"`
	Labels           []RevenueLabelResponse  `json:"labels,omitempty"`
	InitialRevenue   *InitialRevenueResponse `json:"initial_revenue,omitempty"`
	Tickets          []TicketResponse        `json:"tickets,omitempty"`
}

// PaginatedRevenues is the page envelope of the revenue listing endpoint.
type PaginatedRevenues struct {
	Data     []RevenueResponse `json:"data"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Total    int64             `json:"total"`
}

// PaginatedTickets is the page envelope of the ticket listing endpoint.
type PaginatedTickets struct {
	Data     []TicketResponse `json:"data"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Total    int64            `json:"total"`
}

// CreatedResponse reports the identifier of a newly created resource.
type CreatedResponse struct {
	ID string `json:"id"`
}

// ProjectBalanceResponse reports the derived balance of one project.
type ProjectBalanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

func ToRevenueLabelResponse(l domain.RevenueLabel) RevenueLabelResponse {
	return RevenueLabelResponse{ID: l.ID, Text: l.Text, Color: l.Color}
}

func ToTicketResponse(t domain.TicketRevenue) TicketResponse {
	return TicketResponse{
		ID:          t.ID,
		Title:       t.Title,
		Value:       t.Value,
		Description: t.Description,
		RevenueDate: t.RevenueDate,
		ClosingDate: t.ClosingDate,
	}
}

func ToListTicketResponse(tickets []domain.TicketRevenue) []TicketResponse {
	res := make([]TicketResponse, len(tickets))
	for i, t := range tickets {
		res[i] = ToTicketResponse(t)
	}
	return res
}

func ToGeneralRevenueResponse(r *domain.GeneralRevenue) RevenueResponse {
	resp := RevenueResponse{
		ID:          r.ID,
		Title:       r.Title,
		Value:       r.Value,
		RevenueDate: r.RevenueDate,
		Description: r.Description,
	}
	for _, l := range r.Labels {
		resp.Labels = append(resp.Labels, ToRevenueLabelResponse(l))
	}
	return resp
}

func ToProjectRevenueResponse(p *domain.ProjectRevenue) RevenueResponse {
	return RevenueResponse{
		ID:               p.ID,
		IsProjectRevenue: true,
		Title:            p.Title,
		Value:            p.TotalValue(),
		RevenueDate:      p.RevenueDate,
		InitialRevenue: &InitialRevenueResponse{
			ID:          p.InitialRevenue.ID,
			Title:       p.InitialRevenue.Title,
			Value:       p.InitialRevenue.Value,
			RevenueDate: p.InitialRevenue.RevenueDate,
		},
		Tickets: ToListTicketResponse(p.Tickets),
	}
}

func ToListRevenueLabelResponse(labels []domain.RevenueLabel) []RevenueLabelResponse {
	res := make([]RevenueLabelResponse, len(labels))
	for i, l := range labels {
		res[i] = ToRevenueLabelResponse(l)
	}
	return res
}
