package sqlite

import (
	"context"
	"database/sql"
	"testing"

	"github.com/N7ghtm4r3/Neutron/internal/apperrors"
	"github.com/N7ghtm4r3/Neutron/internal/core/domain"
	portsrepo "github.com/N7ghtm4r3/Neutron/internal/core/ports/repositories"
	"github.com/N7ghtm4r3/Neutron/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T) (*portsrepo.RepositoryProvider, *sql.DB) {
	t.Helper()

	db, err := sql.Open("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	// A single connection keeps every query on the same in-memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, RunMigrations(db))
	return NewRepositoryProvider(db), db
}

func seedUser(t *testing.T, provider *portsrepo.RepositoryProvider) domain.User {
	t.Helper()
	user := domain.User{
		UserID:       utils.GenerateIdentifier(),
		Name:         "Ada",
		Surname:      "Lovelace",
		Email:        utils.GenerateIdentifier() + "@example.com",
		PasswordHash: "not-a-real-hash",
		Currency:     domain.Dollar,
		Language:     "en",
	}
	require.NoError(t, provider.UserRepo.SaveUser(context.Background(), user))
	return user
}

func seedProject(t *testing.T, provider *portsrepo.RepositoryProvider, owner string, initial float64) domain.ProjectRevenue {
	t.Helper()
	projectID := utils.GenerateIdentifier()
	project := domain.ProjectRevenue{
		ID:          projectID,
		Title:       "Rent",
		RevenueDate: 1000,
		Owner:       owner,
		InitialRevenue: domain.InitialRevenue{
			Revenue: domain.Revenue{
				ID:          utils.GenerateIdentifier(),
				Title:       "Rent",
				Value:       decimal.NewFromFloat(initial),
				RevenueDate: 1000,
				Owner:       owner,
			},
			ProjectID: projectID,
		},
	}
	require.NoError(t, provider.RevenueRepo.SaveProjectRevenue(context.Background(), project))
	return project
}

func seedTicket(t *testing.T, provider *portsrepo.RepositoryProvider, owner, projectID, title string, value float64, revenueDate int64) domain.TicketRevenue {
	t.Helper()
	ticket := domain.TicketRevenue{
		Revenue: domain.Revenue{
			ID:          utils.GenerateIdentifier(),
			Title:       title,
			Value:       decimal.NewFromFloat(value),
			RevenueDate: revenueDate,
			Owner:       owner,
		},
		Description: "ticket " + title,
		ClosingDate: domain.OpenTicketClosingDate,
		ProjectID:   projectID,
	}
	require.NoError(t, provider.RevenueRepo.SaveTicket(context.Background(), ticket))
	return ticket
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&count))
	return count
}

func TestProjectRevenueAggregateRoundTrip(t *testing.T) {
	provider, _ := newTestProvider(t)
	ctx := context.Background()
	user := seedUser(t, provider)
	project := seedProject(t, provider, user.UserID, 500)
	seedTicket(t, provider, user.UserID, project.ID, "Late fee", 25, 2000)

	loaded, err := provider.RevenueRepo.FindProjectRevenueByID(ctx, user.UserID, project.ID)
	require.NoError(t, err)
	require.Equal(t, "Rent", loaded.Title)
	require.True(t, decimal.NewFromInt(500).Equal(loaded.InitialRevenue.Value))
	require.Len(t, loaded.Tickets, 1)
	require.True(t, decimal.NewFromInt(525).Equal(loaded.TotalValue()))
}

func TestFindProjectRevenueScopedToOwner(t *testing.T) {
	provider, _ := newTestProvider(t)
	ctx := context.Background()
	owner := seedUser(t, provider)
	intruder := seedUser(t, provider)
	project := seedProject(t, provider, owner.UserID, 500)

	_, err := provider.RevenueRepo.FindProjectRevenueByID(ctx, intruder.UserID, project.ID)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteProjectCascadesToInitialAndTickets(t *testing.T) {
	provider, db := newTestProvider(t)
	ctx := context.Background()
	user := seedUser(t, provider)
	project := seedProject(t, provider, user.UserID, 500)
	seedTicket(t, provider, user.UserID, project.ID, "Late fee", 25, 2000)
	seedTicket(t, provider, user.UserID, project.ID, "Cleaning", 12.50, 3000)

	require.NoError(t, provider.RevenueRepo.DeleteProjectRevenue(ctx, user.UserID, project.ID))

	require.Equal(t, 0, countRows(t, db, "project_revenues"))
	require.Equal(t, 0, countRows(t, db, "initial_revenues"))
	require.Equal(t, 0, countRows(t, db, "ticket_revenues"))
	// The owner survives the cascade.
	require.Equal(t, 2, countRows(t, db, "users"))
}

func TestDeleteTicketNeverTouchesTheProject(t *testing.T) {
	provider, db := newTestProvider(t)
	ctx := context.Background()
	user := seedUser(t, provider)
	project := seedProject(t, provider, user.UserID, 500)
	ticket := seedTicket(t, provider, user.UserID, project.ID, "Late fee", 25, 2000)

	require.NoError(t, provider.RevenueRepo.DeleteTicket(ctx, ticket.ID))

	require.Equal(t, 1, countRows(t, db, "project_revenues"))
	require.Equal(t, 1, countRows(t, db, "initial_revenues"))
	require.Equal(t, 0, countRows(t, db, "ticket_revenues"))

	loaded, err := provider.RevenueRepo.FindProjectRevenueByID(ctx, user.UserID, project.ID)
	require.NoError(t, err)
	require.True(t, decimal.NewFromInt(500).Equal(loaded.TotalValue()))
}

func TestDeleteGeneralRevenueCascadesToLabels(t *testing.T) {
	provider, db := newTestProvider(t)
	ctx := context.Background()
	user := seedUser(t, provider)

	revenueID := utils.GenerateIdentifier()
	revenue := domain.GeneralRevenue{
		Revenue: domain.Revenue{
			ID:          revenueID,
			Title:       "Consulting",
			Value:       decimal.NewFromInt(120),
			RevenueDate: 1000,
			Owner:       user.UserID,
		},
		Description: "One-off consulting session",
		Labels: []domain.RevenueLabel{
			{ID: utils.GenerateIdentifier(), Text: "freelance", Color: "#a68cef", Revenue: revenueID},
			{ID: utils.GenerateIdentifier(), Text: "remote", Color: "#12b543", Revenue: revenueID},
		},
	}
	require.NoError(t, provider.RevenueRepo.SaveGeneralRevenue(ctx, revenue))
	require.Equal(t, 2, countRows(t, db, "revenue_labels"))

	require.NoError(t, provider.RevenueRepo.DeleteGeneralRevenue(ctx, user.UserID, revenueID))
	require.Equal(t, 0, countRows(t, db, "general_revenues"))
	require.Equal(t, 0, countRows(t, db, "revenue_labels"))
}

func TestDeleteUserCascadesToEverything(t *testing.T) {
	provider, db := newTestProvider(t)
	ctx := context.Background()
	user := seedUser(t, provider)
	project := seedProject(t, provider, user.UserID, 500)
	seedTicket(t, provider, user.UserID, project.ID, "Late fee", 25, 2000)

	revenueID := utils.GenerateIdentifier()
	require.NoError(t, provider.RevenueRepo.SaveGeneralRevenue(ctx, domain.GeneralRevenue{
		Revenue: domain.Revenue{
			ID:          revenueID,
			Title:       "Consulting",
			Value:       decimal.NewFromInt(120),
			RevenueDate: 1000,
			Owner:       user.UserID,
		},
		Description: "d",
		Labels: []domain.RevenueLabel{
			{ID: utils.GenerateIdentifier(), Text: "freelance", Color: "#a68cef", Revenue: revenueID},
		},
	}))

	require.NoError(t, provider.UserRepo.DeleteUser(ctx, user.UserID))

	for _, table := range []string{"users", "project_revenues", "initial_revenues", "ticket_revenues", "general_revenues", "revenue_labels"} {
		require.Equal(t, 0, countRows(t, db, table), "table %s should be empty", table)
	}
}

func TestSaveTicketRejectsDuplicateTitleInProject(t *testing.T) {
	provider, _ := newTestProvider(t)
	user := seedUser(t, provider)
	project := seedProject(t, provider, user.UserID, 500)
	seedTicket(t, provider, user.UserID, project.ID, "Late fee", 25, 2000)

	err := provider.RevenueRepo.SaveTicket(context.Background(), domain.TicketRevenue{
		Revenue: domain.Revenue{
			ID:          utils.GenerateIdentifier(),
			Title:       "Late fee",
			Value:       decimal.NewFromInt(30),
			RevenueDate: 3000,
			Owner:       user.UserID,
		},
		Description: "another",
		ClosingDate: domain.OpenTicketClosingDate,
		ProjectID:   project.ID,
	})
	require.ErrorIs(t, err, apperrors.ErrDuplicate)
}

func TestSaveUserRejectsDuplicateEmail(t *testing.T) {
	provider, _ := newTestProvider(t)
	user := seedUser(t, provider)

	clone := user
	clone.UserID = utils.GenerateIdentifier()
	err := provider.UserRepo.SaveUser(context.Background(), clone)
	require.ErrorIs(t, err, apperrors.ErrDuplicate)
}

func TestListGeneralRevenuesFiltersByLabelAndDate(t *testing.T) {
	provider, _ := newTestProvider(t)
	ctx := context.Background()
	user := seedUser(t, provider)

	save := func(title string, revenueDate int64, labelText string) string {
		id := utils.GenerateIdentifier()
		revenue := domain.GeneralRevenue{
			Revenue: domain.Revenue{
				ID:          id,
				Title:       title,
				Value:       decimal.NewFromInt(10),
				RevenueDate: revenueDate,
				Owner:       user.UserID,
			},
			Description: "d",
		}
		if labelText != "" {
			revenue.Labels = []domain.RevenueLabel{
				{ID: utils.GenerateIdentifier(), Text: labelText, Color: "#a68cef", Revenue: id},
			}
		}
		require.NoError(t, provider.RevenueRepo.SaveGeneralRevenue(ctx, revenue))
		return id
	}

	tagged := save("Tagged", 3000, "freelance")
	save("Untagged", 2000, "")
	save("Old", 500, "freelance")

	revenues, err := provider.RevenueRepo.ListGeneralRevenues(ctx, user.UserID, 1000, []string{"freelance"}, 0, 0)
	require.NoError(t, err)
	require.Len(t, revenues, 1)
	require.Equal(t, tagged, revenues[0].ID)

	count, err := provider.RevenueRepo.CountGeneralRevenues(ctx, user.UserID, 1000, []string{"freelance"})
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestListTicketsFiltersByState(t *testing.T) {
	provider, _ := newTestProvider(t)
	ctx := context.Background()
	user := seedUser(t, provider)
	project := seedProject(t, provider, user.UserID, 500)
	open := seedTicket(t, provider, user.UserID, project.ID, "Open one", 10, 2000)
	closed := seedTicket(t, provider, user.UserID, project.ID, "Closed one", 20, 3000)
	require.NoError(t, provider.RevenueRepo.CloseTicket(ctx, closed.ID, 4000))

	pendingOnly, err := provider.RevenueRepo.ListTickets(ctx, project.ID, portsrepo.TicketFilter{
		IncludePending: true,
	})
	require.NoError(t, err)
	require.Len(t, pendingOnly, 1)
	require.Equal(t, open.ID, pendingOnly[0].ID)

	closedOnly, err := provider.RevenueRepo.ListTickets(ctx, project.ID, portsrepo.TicketFilter{
		IncludeClosed: true,
	})
	require.NoError(t, err)
	require.Len(t, closedOnly, 1)
	require.Equal(t, closed.ID, closedOnly[0].ID)
	require.True(t, closedOnly[0].IsClosed())
}

func TestUpdateGeneralRevenueReplacesLabels(t *testing.T) {
	provider, db := newTestProvider(t)
	ctx := context.Background()
	user := seedUser(t, provider)

	revenueID := utils.GenerateIdentifier()
	revenue := domain.GeneralRevenue{
		Revenue: domain.Revenue{
			ID:          revenueID,
			Title:       "Consulting",
			Value:       decimal.NewFromInt(120),
			RevenueDate: 1000,
			Owner:       user.UserID,
		},
		Description: "d",
		Labels: []domain.RevenueLabel{
			{ID: utils.GenerateIdentifier(), Text: "freelance", Color: "#a68cef", Revenue: revenueID},
			{ID: utils.GenerateIdentifier(), Text: "remote", Color: "#12b543", Revenue: revenueID},
		},
	}
	require.NoError(t, provider.RevenueRepo.SaveGeneralRevenue(ctx, revenue))

	revenue.Labels = []domain.RevenueLabel{
		{ID: utils.GenerateIdentifier(), Text: "invoiced", Color: "#b5a422", Revenue: revenueID},
	}
	require.NoError(t, provider.RevenueRepo.UpdateGeneralRevenue(ctx, revenue))

	require.Equal(t, 1, countRows(t, db, "revenue_labels"))
	loaded, err := provider.RevenueRepo.FindGeneralRevenueByID(ctx, user.UserID, revenueID)
	require.NoError(t, err)
	require.Len(t, loaded.Labels, 1)
	require.Equal(t, "invoiced", loaded.Labels[0].Text)
}

func TestListRevenueLabelsDeduplicates(t *testing.T) {
	provider, _ := newTestProvider(t)
	ctx := context.Background()
	user := seedUser(t, provider)

	for i := 0; i < 2; i++ {
		id := utils.GenerateIdentifier()
		require.NoError(t, provider.RevenueRepo.SaveGeneralRevenue(ctx, domain.GeneralRevenue{
			Revenue: domain.Revenue{
				ID:          id,
				Title:       "Consulting",
				Value:       decimal.NewFromInt(10),
				RevenueDate: 1000,
				Owner:       user.UserID,
			},
			Description: "d",
			Labels: []domain.RevenueLabel{
				{ID: utils.GenerateIdentifier(), Text: "freelance", Color: "#a68cef", Revenue: id},
			},
		}))
	}

	labels, err := provider.RevenueRepo.ListRevenueLabels(ctx, user.UserID)
	require.NoError(t, err)
	require.Len(t, labels, 1)
	require.Equal(t, "freelance", labels[0].Text)
}
