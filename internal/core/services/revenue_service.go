package services

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/N7ghtm4r3/Neutron/internal/apperrors"
	"github.com/N7ghtm4r3/Neutron/internal/core/domain"
	portsrepo "github.com/N7ghtm4r3/Neutron/internal/core/ports/repositories"
	portssvc "github.com/N7ghtm4r3/Neutron/internal/core/ports/services"
	"github.com/N7ghtm4r3/Neutron/internal/dto"
	"github.com/N7ghtm4r3/Neutron/internal/utils"
	"github.com/N7ghtm4r3/Neutron/internal/utils/validation"
	"github.com/shopspring/decimal"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// revenueService implements the RevenueSvcFacade interface
type revenueService struct {
	BaseService
	revenueRepo portsrepo.RevenueRepositoryFacade
	now         func() int64
}

// NewRevenueService creates a new revenue service backed by the given repository.
func NewRevenueService(repo portsrepo.RevenueRepositoryFacade) portssvc.RevenueSvcFacade {
	return &revenueService{
		revenueRepo: repo,
		now:         nowMillis,
	}
}

// Ensure revenueService implements the RevenueSvcFacade interface
var _ portssvc.RevenueSvcFacade = (*revenueService)(nil)

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 0 {
		page = 0
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

func validateRevenueCore(title string, value decimal.Decimal) error {
	if !validation.IsRevenueTitleValid(title) {
		return apperrors.NewValidationError("title", "must be non-blank and at most 30 characters")
	}
	if !validation.IsRevenueValueValid(value) {
		return apperrors.NewValidationError("value", "must be non-negative")
	}
	return nil
}

func validateRevenueLabels(labels []dto.RevenueLabelPayload) error {
	if len(labels) > domain.MaxRevenueLabels {
		return apperrors.NewValidationError("labels", "cannot exceed 5 entries")
	}
	for _, label := range labels {
		if !validation.IsLabelTextValid(label.Text) {
			return apperrors.NewValidationError("labels", "text must be non-blank and at most 30 characters")
		}
		if !validation.IsLabelColorValid(label.Color) {
			return apperrors.NewValidationError("labels", "color must be a 7-char hex string")
		}
	}
	return nil
}

// buildLabels converts the payload labels to domain labels attached to
// revenueID, assigning fresh identifiers where the payload carries none.
func buildLabels(labels []dto.RevenueLabelPayload, revenueID string) []domain.RevenueLabel {
	result := make([]domain.RevenueLabel, len(labels))
	for i, label := range labels {
		id := label.ID
		if id == "" {
			id = utils.GenerateIdentifier()
		}
		result[i] = domain.RevenueLabel{
			ID:      id,
			Text:    label.Text,
			Color:   label.Color,
			Revenue: revenueID,
		}
	}
	return result
}

func (s *revenueService) CreateRevenue(ctx context.Context, userID string, req dto.CreateRevenueRequest) (string, error) {
	if err := validateRevenueCore(req.Title, req.Value); err != nil {
		return "", err
	}

	revenueID := utils.GenerateIdentifier()
	value := req.Value.Round(2)

	if req.IsProjectRevenue {
		project := domain.ProjectRevenue{
			ID:          revenueID,
			Title:       req.Title,
			RevenueDate: req.RevenueDate,
			Owner:       userID,
			InitialRevenue: domain.InitialRevenue{
				Revenue: domain.Revenue{
					ID:          utils.GenerateIdentifier(),
					Title:       req.Title,
					Value:       value,
					RevenueDate: req.RevenueDate,
					Owner:       userID,
				},
				ProjectID: revenueID,
			},
		}
		if err := s.revenueRepo.SaveProjectRevenue(ctx, project); err != nil {
			s.LogError(ctx, err, "Failed to save project revenue", slog.String("revenue_id", revenueID))
			return "", err
		}
		s.LogInfo(ctx, "Project revenue created", slog.String("revenue_id", revenueID))
		return revenueID, nil
	}

	if !validation.IsRevenueDescriptionValid(req.Description) {
		return "", apperrors.NewValidationError("description", "must be non-blank and at most 250 characters")
	}
	if err := validateRevenueLabels(req.Labels); err != nil {
		return "", err
	}

	revenue := domain.GeneralRevenue{
		Revenue: domain.Revenue{
			ID:          revenueID,
			Title:       req.Title,
			Value:       value,
			RevenueDate: req.RevenueDate,
			Owner:       userID,
		},
		Description: req.Description,
		Labels:      buildLabels(req.Labels, revenueID),
	}
	if err := s.revenueRepo.SaveGeneralRevenue(ctx, revenue); err != nil {
		s.LogError(ctx, err, "Failed to save general revenue", slog.String("revenue_id", revenueID))
		return "", err
	}
	s.LogInfo(ctx, "General revenue created", slog.String("revenue_id", revenueID))
	return revenueID, nil
}

func (s *revenueService) EditRevenue(ctx context.Context, userID, revenueID string, req dto.CreateRevenueRequest) error {
	if err := validateRevenueCore(req.Title, req.Value); err != nil {
		return err
	}
	value := req.Value.Round(2)

	project, err := s.revenueRepo.FindProjectRevenueByID(ctx, userID, revenueID)
	if err == nil {
		if !req.IsProjectRevenue {
			return apperrors.NewValidationError("is_project_revenue", "cannot change the kind of an existing revenue")
		}
		project.Title = req.Title
		project.RevenueDate = req.RevenueDate
		project.InitialRevenue.Title = req.Title
		project.InitialRevenue.Value = value
		project.InitialRevenue.RevenueDate = req.RevenueDate
		if err := s.revenueRepo.UpdateProjectRevenue(ctx, *project); err != nil {
			s.LogError(ctx, err, "Failed to update project revenue", slog.String("revenue_id", revenueID))
			return err
		}
		return nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to find project revenue", slog.String("revenue_id", revenueID))
		return err
	}

	revenue, err := s.revenueRepo.FindGeneralRevenueByID(ctx, userID, revenueID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find general revenue", slog.String("revenue_id", revenueID))
		}
		return err
	}
	if req.IsProjectRevenue {
		return apperrors.NewValidationError("is_project_revenue", "cannot change the kind of an existing revenue")
	}
	if !validation.IsRevenueDescriptionValid(req.Description) {
		return apperrors.NewValidationError("description", "must be non-blank and at most 250 characters")
	}
	if err := validateRevenueLabels(req.Labels); err != nil {
		return err
	}

	revenue.Title = req.Title
	revenue.Value = value
	revenue.RevenueDate = req.RevenueDate
	revenue.Description = req.Description
	revenue.Labels = buildLabels(req.Labels, revenueID)
	if err := s.revenueRepo.UpdateGeneralRevenue(ctx, *revenue); err != nil {
		s.LogError(ctx, err, "Failed to update general revenue", slog.String("revenue_id", revenueID))
		return err
	}
	return nil
}

func (s *revenueService) ListRevenues(ctx context.Context, userID string, params dto.ListRevenuesParams) (*dto.PaginatedRevenues, error) {
	period, ok := domain.ParseRevenuePeriod(params.Period)
	if !ok {
		return nil, apperrors.NewValidationError("period", "is not a supported revenue period")
	}
	page, pageSize := normalizePage(params.Page, params.PageSize)
	fromDate := period.FromDate(s.now(), 1)

	// The page window spans two storage queries, so each side fetches up to the
	// end of the requested window and the merge keeps ordering stable.
	window := (page + 1) * pageSize

	var merged []dto.RevenueResponse
	var total int64

	if params.GeneralRevenues {
		generals, err := s.revenueRepo.ListGeneralRevenues(ctx, userID, fromDate, params.Labels, window, 0)
		if err != nil {
			s.LogError(ctx, err, "Failed to list general revenues", slog.String("user_id", userID))
			return nil, err
		}
		for i := range generals {
			merged = append(merged, dto.ToGeneralRevenueResponse(&generals[i]))
		}
		count, err := s.revenueRepo.CountGeneralRevenues(ctx, userID, fromDate, params.Labels)
		if err != nil {
			return nil, err
		}
		total += count
	}

	if params.ProjectRevenues {
		projects, err := s.revenueRepo.ListProjectRevenues(ctx, userID, fromDate, window, 0)
		if err != nil {
			s.LogError(ctx, err, "Failed to list project revenues", slog.String("user_id", userID))
			return nil, err
		}
		for i := range projects {
			merged = append(merged, dto.ToProjectRevenueResponse(&projects[i]))
		}
		count, err := s.revenueRepo.CountProjectRevenues(ctx, userID, fromDate)
		if err != nil {
			return nil, err
		}
		total += count
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].RevenueDate > merged[j].RevenueDate
	})

	start := page * pageSize
	if start > len(merged) {
		start = len(merged)
	}
	end := start + pageSize
	if end > len(merged) {
		end = len(merged)
	}

	return &dto.PaginatedRevenues{
		Data:     merged[start:end],
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}, nil
}

func (s *revenueService) GetRevenue(ctx context.Context, userID, revenueID string) (*dto.RevenueResponse, error) {
	project, err := s.revenueRepo.FindProjectRevenueByID(ctx, userID, revenueID)
	if err == nil {
		resp := dto.ToProjectRevenueResponse(project)
		return &resp, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	revenue, err := s.revenueRepo.FindGeneralRevenueByID(ctx, userID, revenueID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToGeneralRevenueResponse(revenue)
	return &resp, nil
}

func (s *revenueService) DeleteRevenue(ctx context.Context, userID, revenueID string) error {
	err := s.revenueRepo.DeleteProjectRevenue(ctx, userID, revenueID)
	if err == nil {
		s.LogInfo(ctx, "Project revenue deleted", slog.String("revenue_id", revenueID))
		return nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to delete project revenue", slog.String("revenue_id", revenueID))
		return err
	}

	if err := s.revenueRepo.DeleteGeneralRevenue(ctx, userID, revenueID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete general revenue", slog.String("revenue_id", revenueID))
		}
		return err
	}
	s.LogInfo(ctx, "General revenue deleted", slog.String("revenue_id", revenueID))
	return nil
}

func (s *revenueService) ListLabels(ctx context.Context, userID string) ([]domain.RevenueLabel, error) {
	labels, err := s.revenueRepo.ListRevenueLabels(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list revenue labels", slog.String("user_id", userID))
		return nil, err
	}
	return labels, nil
}

func (s *revenueService) GetProjectRevenue(ctx context.Context, userID, projectID string) (*domain.ProjectRevenue, error) {
	project, err := s.revenueRepo.FindProjectRevenueByID(ctx, userID, projectID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find project revenue", slog.String("project_id", projectID))
		}
		return nil, err
	}
	return project, nil
}

func (s *revenueService) GetProjectBalance(ctx context.Context, userID, projectID string, params dto.ProjectBalanceParams) (decimal.Decimal, error) {
	period, ok := domain.ParseRevenuePeriod(params.Period)
	if !ok {
		return decimal.Zero, apperrors.NewValidationError("period", "is not a supported revenue period")
	}
	project, err := s.revenueRepo.FindProjectRevenueByID(ctx, userID, projectID)
	if err != nil {
		return decimal.Zero, err
	}

	// Only closed tickets count toward the balance.
	fromDate := period.FromDate(s.now(), 1)
	balance := project.InitialRevenue.Value
	if params.ClosedTickets {
		for _, ticket := range project.Tickets {
			if !ticket.IsClosed() || ticket.RevenueDate < fromDate {
				continue
			}
			balance = balance.Add(ticket.Value)
		}
	}
	return balance.Round(2), nil
}

func (s *revenueService) AddTicket(ctx context.Context, userID, projectID string, req dto.CreateTicketRequest) (string, error) {
	if err := validateRevenueCore(req.Title, req.Value); err != nil {
		return "", err
	}
	if !validation.IsRevenueDescriptionValid(req.Description) {
		return "", apperrors.NewValidationError("description", "must be non-blank and at most 250 characters")
	}

	project, err := s.revenueRepo.FindProjectRevenueByID(ctx, userID, projectID)
	if err != nil {
		return "", err
	}
	if project.HasTicket(req.Title) {
		return "", apperrors.NewAppError(0, "a ticket with this title already exists in the project", apperrors.ErrDuplicate)
	}

	closingDate := domain.OpenTicketClosingDate
	if req.ClosingDate != nil {
		if *req.ClosingDate < req.RevenueDate {
			return "", apperrors.NewValidationError("closing_date", "cannot precede the insertion date")
		}
		closingDate = *req.ClosingDate
	}

	ticket := domain.TicketRevenue{
		Revenue: domain.Revenue{
			ID:          utils.GenerateIdentifier(),
			Title:       req.Title,
			Value:       req.Value.Round(2),
			RevenueDate: req.RevenueDate,
			Owner:       userID,
		},
		Description: req.Description,
		ClosingDate: closingDate,
		ProjectID:   projectID,
	}
	if err := s.revenueRepo.SaveTicket(ctx, ticket); err != nil {
		s.LogError(ctx, err, "Failed to save ticket", slog.String("project_id", projectID))
		return "", err
	}
	s.LogInfo(ctx, "Ticket created", slog.String("ticket_id", ticket.ID), slog.String("project_id", projectID))
	return ticket.ID, nil
}

func (s *revenueService) EditTicket(ctx context.Context, userID, projectID, ticketID string, req dto.CreateTicketRequest) error {
	if err := validateRevenueCore(req.Title, req.Value); err != nil {
		return err
	}
	if !validation.IsRevenueDescriptionValid(req.Description) {
		return apperrors.NewValidationError("description", "must be non-blank and at most 250 characters")
	}

	project, err := s.revenueRepo.FindProjectRevenueByID(ctx, userID, projectID)
	if err != nil {
		return err
	}
	ticket := project.TicketByID(ticketID)
	if ticket == nil {
		return apperrors.ErrNotFound
	}
	if ticket.IsClosed() {
		return apperrors.NewAppError(0, "a closed ticket cannot be edited", apperrors.ErrConflict)
	}
	for _, other := range project.Tickets {
		if other.ID != ticketID && other.Title == req.Title {
			return apperrors.NewAppError(0, "a ticket with this title already exists in the project", apperrors.ErrDuplicate)
		}
	}

	ticket.Title = req.Title
	ticket.Value = req.Value.Round(2)
	ticket.Description = req.Description
	ticket.RevenueDate = req.RevenueDate
	if err := s.revenueRepo.UpdateTicket(ctx, *ticket); err != nil {
		s.LogError(ctx, err, "Failed to update ticket", slog.String("ticket_id", ticketID))
		return err
	}
	return nil
}

func (s *revenueService) ListTickets(ctx context.Context, userID, projectID string, params dto.ListTicketsParams) (*dto.PaginatedTickets, error) {
	period, ok := domain.ParseRevenuePeriod(params.Period)
	if !ok {
		return nil, apperrors.NewValidationError("period", "is not a supported revenue period")
	}
	page, pageSize := normalizePage(params.Page, params.PageSize)

	// Ownership check before touching the tickets table.
	if _, err := s.revenueRepo.FindProjectRevenueByID(ctx, userID, projectID); err != nil {
		return nil, err
	}

	result := &dto.PaginatedTickets{
		Data:     []dto.TicketResponse{},
		Page:     page,
		PageSize: pageSize,
	}
	if !params.PendingTickets && !params.ClosedTickets {
		return result, nil
	}

	filter := portsrepo.TicketFilter{
		FromDate:       period.FromDate(s.now(), 1),
		IncludePending: params.PendingTickets,
		IncludeClosed:  params.ClosedTickets,
		Limit:          pageSize,
		Offset:         page * pageSize,
	}
	tickets, err := s.revenueRepo.ListTickets(ctx, projectID, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list tickets", slog.String("project_id", projectID))
		return nil, err
	}
	total, err := s.revenueRepo.CountTickets(ctx, projectID, filter)
	if err != nil {
		return nil, err
	}

	result.Data = dto.ToListTicketResponse(tickets)
	result.Total = total
	return result, nil
}

func (s *revenueService) CloseTicket(ctx context.Context, userID, projectID, ticketID string) error {
	ticket, err := s.revenueRepo.FindTicketByID(ctx, userID, projectID, ticketID)
	if err != nil {
		return err
	}
	if ticket.IsClosed() {
		return apperrors.NewAppError(0, "the ticket is already closed", apperrors.ErrConflict)
	}

	// The closing date never precedes the insertion date, even with a skewed clock.
	closingDate := s.now()
	if closingDate < ticket.RevenueDate {
		closingDate = ticket.RevenueDate
	}
	if err := s.revenueRepo.CloseTicket(ctx, ticketID, closingDate); err != nil {
		s.LogError(ctx, err, "Failed to close ticket", slog.String("ticket_id", ticketID))
		return err
	}
	s.LogInfo(ctx, "Ticket closed", slog.String("ticket_id", ticketID))
	return nil
}

func (s *revenueService) DeleteTicket(ctx context.Context, userID, projectID, ticketID string) error {
	if _, err := s.revenueRepo.FindTicketByID(ctx, userID, projectID, ticketID); err != nil {
		return err
	}
	if err := s.revenueRepo.DeleteTicket(ctx, ticketID); err != nil {
		s.LogError(ctx, err, "Failed to delete ticket", slog.String("ticket_id", ticketID))
		return err
	}
	s.LogInfo(ctx, "Ticket deleted", slog.String("ticket_id", ticketID))
	return nil
}
