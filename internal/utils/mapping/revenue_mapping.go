package mapping

import (
	"github.com/N7ghtm4r3/Neutron/internal/core/domain"
	"github.com/N7ghtm4r3/Neutron/internal/models"
)

func ToDomainGeneralRevenue(m models.GeneralRevenue, labels []models.RevenueLabel) domain.GeneralRevenue {
	revenue := domain.GeneralRevenue{
		Revenue: domain.Revenue{
			ID:          m.ID,
			Title:       m.Title,
			Value:       m.Value,
			RevenueDate: m.RevenueDate,
			Owner:       m.Owner,
		},
		Description: m.Description,
	}
	for _, l := range labels {
		revenue.Labels = append(revenue.Labels, ToDomainRevenueLabel(l))
	}
	return revenue
}

func ToModelGeneralRevenue(d domain.GeneralRevenue) models.GeneralRevenue {
	return models.GeneralRevenue{
		ID:          d.ID,
		Title:       d.Title,
		Value:       d.Value,
		Description: d.Description,
		RevenueDate: d.RevenueDate,
		Owner:       d.Owner,
	}
}

func ToDomainRevenueLabel(m models.RevenueLabel) domain.RevenueLabel {
	return domain.RevenueLabel{
		ID:      m.ID,
		Text:    m.Text,
		Color:   m.Color,
		Revenue: m.Revenue,
	}
}

func ToModelRevenueLabel(d domain.RevenueLabel) models.RevenueLabel {
	return models.RevenueLabel{
		ID:      d.ID,
		Text:    d.Text,
		Color:   d.Color,
		Revenue: d.Revenue,
	}
}

func ToDomainInitialRevenue(m models.InitialRevenue) domain.InitialRevenue {
	return domain.InitialRevenue{
		Revenue: domain.Revenue{
			ID:          m.ID,
			Title:       m.Title,
			Value:       m.Value,
			RevenueDate: m.RevenueDate,
			Owner:       m.Owner,
		},
		ProjectID: m.ProjectRevenue,
	}
}

func ToModelInitialRevenue(d domain.InitialRevenue) models.InitialRevenue {
	return models.InitialRevenue{
		ID:             d.ID,
		Title:          d.Title,
		Value:          d.Value,
		RevenueDate:    d.RevenueDate,
		Owner:          d.Owner,
		ProjectRevenue: d.ProjectID,
	}
}

func ToDomainTicketRevenue(m models.TicketRevenue) domain.TicketRevenue {
	return domain.TicketRevenue{
		Revenue: domain.Revenue{
			ID:          m.ID,
			Title:       m.Title,
			Value:       m.Value,
			RevenueDate: m.RevenueDate,
			Owner:       m.Owner,
		},
		Description: m.Description,
		ClosingDate: m.ClosingDate,
		ProjectID:   m.ProjectRevenue,
	}
}

func ToModelTicketRevenue(d domain.TicketRevenue) models.TicketRevenue {
	return models.TicketRevenue{
		ID:             d.ID,
		Title:          d.Title,
		Value:          d.Value,
		Description:    d.Description,
		RevenueDate:    d.RevenueDate,
		ClosingDate:    d.ClosingDate,
		Owner:          d.Owner,
		ProjectRevenue: d.ProjectID,
	}
}

func ToDomainProjectRevenue(m models.ProjectRevenue, initial models.InitialRevenue, tickets []models.TicketRevenue) domain.ProjectRevenue {
	project := domain.ProjectRevenue{
		ID:             m.ID,
		Title:          m.Title,
		RevenueDate:    m.RevenueDate,
		Owner:          m.Owner,
		InitialRevenue: ToDomainInitialRevenue(initial),
	}
	for _, t := range tickets {
		project.Tickets = append(project.Tickets, ToDomainTicketRevenue(t))
	}
	return project
}
