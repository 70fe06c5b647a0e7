package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/N7ghtm4r3/Neutron/internal/apperrors"
	"github.com/N7ghtm4r3/Neutron/internal/core/domain"
	portsrepo "github.com/N7ghtm4r3/Neutron/internal/core/ports/repositories"
	"github.com/N7ghtm4r3/Neutron/internal/models"
	"github.com/N7ghtm4r3/Neutron/internal/utils/mapping"
)

type SQLiteRevenueRepository struct {
	db *sql.DB
}

func newSQLiteRevenueRepository(db *sql.DB) portsrepo.RevenueRepositoryFacade {
	return &SQLiteRevenueRepository{db: db}
}

var _ portsrepo.RevenueRepositoryFacade = (*SQLiteRevenueRepository)(nil)

// placeholders renders a "?, ?, ..." list for n bound values.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func anySlice(values []string) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}

func pageClause(limit, offset int) string {
	if limit <= 0 {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
}

func (r *SQLiteRevenueRepository) FindProjectRevenueByID(ctx context.Context, userID, projectID string) (*domain.ProjectRevenue, error) {
	var m models.ProjectRevenue
	err := r.db.QueryRowContext(ctx, `
		SELECT id, title, revenue_date, owner
		FROM project_revenues
		WHERE id = ? AND owner = ?;
	`, projectID, userID).Scan(&m.ID, &m.Title, &m.RevenueDate, &m.Owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find project revenue %s: %w", projectID, err)
	}

	initial, err := r.initialRevenueOf(ctx, projectID)
	if err != nil {
		return nil, err
	}
	tickets, err := r.ticketsOf(ctx, projectID)
	if err != nil {
		return nil, err
	}

	project := mapping.ToDomainProjectRevenue(m, initial, tickets)
	return &project, nil
}

func (r *SQLiteRevenueRepository) initialRevenueOf(ctx context.Context, projectID string) (models.InitialRevenue, error) {
	var m models.InitialRevenue
	err := r.db.QueryRowContext(ctx, `
		SELECT id, title, value, revenue_date, owner, project_revenue
		FROM initial_revenues
		WHERE project_revenue = ?;
	`, projectID).Scan(&m.ID, &m.Title, &m.Value, &m.RevenueDate, &m.Owner, &m.ProjectRevenue)
	if err != nil {
		return models.InitialRevenue{}, fmt.Errorf("failed to find initial revenue of project %s: %w", projectID, err)
	}
	return m, nil
}

func (r *SQLiteRevenueRepository) ticketsOf(ctx context.Context, projectID string) ([]models.TicketRevenue, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, value, description, revenue_date, closing_date, owner, project_revenue
		FROM ticket_revenues
		WHERE project_revenue = ?
		ORDER BY revenue_date DESC, id;
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tickets of project %s: %w", projectID, err)
	}
	defer rows.Close()

	var tickets []models.TicketRevenue
	for rows.Next() {
		var m models.TicketRevenue
		if err := rows.Scan(&m.ID, &m.Title, &m.Value, &m.Description, &m.RevenueDate, &m.ClosingDate, &m.Owner, &m.ProjectRevenue); err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, m)
	}
	return tickets, rows.Err()
}

func (r *SQLiteRevenueRepository) labelsOf(ctx context.Context, revenueID string) ([]models.RevenueLabel, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, text, color, revenue
		FROM revenue_labels
		WHERE revenue = ?
		ORDER BY text, id;
	`, revenueID)
	if err != nil {
		return nil, fmt.Errorf("failed to query labels of revenue %s: %w", revenueID, err)
	}
	defer rows.Close()

	var labels []models.RevenueLabel
	for rows.Next() {
		var m models.RevenueLabel
		if err := rows.Scan(&m.ID, &m.Text, &m.Color, &m.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan revenue label: %w", err)
		}
		labels = append(labels, m)
	}
	return labels, rows.Err()
}

func (r *SQLiteRevenueRepository) FindGeneralRevenueByID(ctx context.Context, userID, revenueID string) (*domain.GeneralRevenue, error) {
	var m models.GeneralRevenue
	err := r.db.QueryRowContext(ctx, `
		SELECT id, title, value, description, revenue_date, owner
		FROM general_revenues
		WHERE id = ? AND owner = ?;
	`, revenueID, userID).Scan(&m.ID, &m.Title, &m.Value, &m.Description, &m.RevenueDate, &m.Owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find general revenue %s: %w", revenueID, err)
	}

	labels, err := r.labelsOf(ctx, revenueID)
	if err != nil {
		return nil, err
	}
	revenue := mapping.ToDomainGeneralRevenue(m, labels)
	return &revenue, nil
}

func (r *SQLiteRevenueRepository) FindTicketByID(ctx context.Context, userID, projectID, ticketID string) (*domain.TicketRevenue, error) {
	var m models.TicketRevenue
	err := r.db.QueryRowContext(ctx, `
		SELECT t.id, t.title, t.value, t.description, t.revenue_date, t.closing_date, t.owner, t.project_revenue
		FROM ticket_revenues t
		JOIN project_revenues p ON p.id = t.project_revenue
		WHERE t.id = ? AND t.project_revenue = ? AND p.owner = ?;
	`, ticketID, projectID, userID).Scan(&m.ID, &m.Title, &m.Value, &m.Description, &m.RevenueDate, &m.ClosingDate, &m.Owner, &m.ProjectRevenue)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find ticket %s: %w", ticketID, err)
	}
	ticket := mapping.ToDomainTicketRevenue(m)
	return &ticket, nil
}

// labelFilterClause narrows a general revenue query to rows carrying at least
// one of the given label texts.
func labelFilterClause(labels []string, args *[]any) string {
	if len(labels) == 0 {
		return ""
	}
	*args = append(*args, anySlice(labels)...)
	return ` AND EXISTS (
		SELECT 1 FROM revenue_labels l
		WHERE l.revenue = general_revenues.id AND l.text IN (` + placeholders(len(labels)) + `)
	)`
}

func (r *SQLiteRevenueRepository) ListGeneralRevenues(ctx context.Context, userID string, fromDate int64, labels []string, limit, offset int) ([]domain.GeneralRevenue, error) {
	args := []any{userID, fromDate}
	query := `
		SELECT id, title, value, description, revenue_date, owner
		FROM general_revenues
		WHERE owner = ? AND revenue_date >= ?
	`
	query += labelFilterClause(labels, &args)
	query += " ORDER BY revenue_date DESC, id" + pageClause(limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query general revenues: %w", err)
	}
	defer rows.Close()

	var modelRevenues []models.GeneralRevenue
	for rows.Next() {
		var m models.GeneralRevenue
		if err := rows.Scan(&m.ID, &m.Title, &m.Value, &m.Description, &m.RevenueDate, &m.Owner); err != nil {
			return nil, fmt.Errorf("failed to scan general revenue: %w", err)
		}
		modelRevenues = append(modelRevenues, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]domain.GeneralRevenue, len(modelRevenues))
	for i, m := range modelRevenues {
		revenueLabels, err := r.labelsOf(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		result[i] = mapping.ToDomainGeneralRevenue(m, revenueLabels)
	}
	return result, nil
}

func (r *SQLiteRevenueRepository) CountGeneralRevenues(ctx context.Context, userID string, fromDate int64, labels []string) (int64, error) {
	args := []any{userID, fromDate}
	query := `SELECT COUNT(*) FROM general_revenues WHERE owner = ? AND revenue_date >= ?`
	query += labelFilterClause(labels, &args)

	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count general revenues: %w", err)
	}
	return count, nil
}

func (r *SQLiteRevenueRepository) ListProjectRevenues(ctx context.Context, userID string, fromDate int64, limit, offset int) ([]domain.ProjectRevenue, error) {
	query := `
		SELECT id, title, revenue_date, owner
		FROM project_revenues
		WHERE owner = ? AND revenue_date >= ?
		ORDER BY revenue_date DESC, id` + pageClause(limit, offset)

	rows, err := r.db.QueryContext(ctx, query, userID, fromDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query project revenues: %w", err)
	}
	defer rows.Close()

	var modelProjects []models.ProjectRevenue
	for rows.Next() {
		var m models.ProjectRevenue
		if err := rows.Scan(&m.ID, &m.Title, &m.RevenueDate, &m.Owner); err != nil {
			return nil, fmt.Errorf("failed to scan project revenue: %w", err)
		}
		modelProjects = append(modelProjects, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]domain.ProjectRevenue, len(modelProjects))
	for i, m := range modelProjects {
		initial, err := r.initialRevenueOf(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		tickets, err := r.ticketsOf(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		result[i] = mapping.ToDomainProjectRevenue(m, initial, tickets)
	}
	return result, nil
}

func (r *SQLiteRevenueRepository) CountProjectRevenues(ctx context.Context, userID string, fromDate int64) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM project_revenues WHERE owner = ? AND revenue_date >= ?;`,
		userID, fromDate,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count project revenues: %w", err)
	}
	return count, nil
}

func ticketStateClause(filter portsrepo.TicketFilter) string {
	switch {
	case filter.IncludePending && !filter.IncludeClosed:
		return fmt.Sprintf(" AND closing_date = %d", domain.OpenTicketClosingDate)
	case !filter.IncludePending && filter.IncludeClosed:
		return fmt.Sprintf(" AND closing_date <> %d", domain.OpenTicketClosingDate)
	default:
		return ""
	}
}

func (r *SQLiteRevenueRepository) ListTickets(ctx context.Context, projectID string, filter portsrepo.TicketFilter) ([]domain.TicketRevenue, error) {
	query := `
		SELECT id, title, value, description, revenue_date, closing_date, owner, project_revenue
		FROM ticket_revenues
		WHERE project_revenue = ? AND revenue_date >= ?`
	query += ticketStateClause(filter)
	query += " ORDER BY revenue_date DESC, id" + pageClause(filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, projectID, filter.FromDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query tickets: %w", err)
	}
	defer rows.Close()

	result := []domain.TicketRevenue{}
	for rows.Next() {
		var m models.TicketRevenue
		if err := rows.Scan(&m.ID, &m.Title, &m.Value, &m.Description, &m.RevenueDate, &m.ClosingDate, &m.Owner, &m.ProjectRevenue); err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		result = append(result, mapping.ToDomainTicketRevenue(m))
	}
	return result, rows.Err()
}

func (r *SQLiteRevenueRepository) CountTickets(ctx context.Context, projectID string, filter portsrepo.TicketFilter) (int64, error) {
	query := `SELECT COUNT(*) FROM ticket_revenues WHERE project_revenue = ? AND revenue_date >= ?`
	query += ticketStateClause(filter)

	var count int64
	if err := r.db.QueryRowContext(ctx, query, projectID, filter.FromDate).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tickets: %w", err)
	}
	return count, nil
}

func (r *SQLiteRevenueRepository) ListRevenueLabels(ctx context.Context, userID string) ([]domain.RevenueLabel, error) {
	// One row per distinct (text, color) pair across the user's revenues.
	rows, err := r.db.QueryContext(ctx, `
		SELECT MIN(l.id), l.text, l.color, MIN(l.revenue)
		FROM revenue_labels l
		JOIN general_revenues g ON g.id = l.revenue
		WHERE g.owner = ?
		GROUP BY l.text, l.color
		ORDER BY l.text, l.color;
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query revenue labels: %w", err)
	}
	defer rows.Close()

	result := []domain.RevenueLabel{}
	for rows.Next() {
		var m models.RevenueLabel
		if err := rows.Scan(&m.ID, &m.Text, &m.Color, &m.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan revenue label: %w", err)
		}
		result = append(result, mapping.ToDomainRevenueLabel(m))
	}
	return result, rows.Err()
}

func (r *SQLiteRevenueRepository) SaveProjectRevenue(ctx context.Context, project domain.ProjectRevenue) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO project_revenues (id, title, revenue_date, owner)
		VALUES (?, ?, ?, ?);
	`, project.ID, project.Title, project.RevenueDate, project.Owner)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewAppError(0, "project revenue "+project.ID+" already exists", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert project revenue %s: %w", project.ID, err)
	}

	initial := mapping.ToModelInitialRevenue(project.InitialRevenue)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO initial_revenues (id, title, value, revenue_date, owner, project_revenue)
		VALUES (?, ?, ?, ?, ?, ?);
	`, initial.ID, initial.Title, initial.Value, initial.RevenueDate, initial.Owner, initial.ProjectRevenue)
	if err != nil {
		return fmt.Errorf("failed to insert initial revenue for project %s: %w", project.ID, err)
	}

	return tx.Commit()
}

func (r *SQLiteRevenueRepository) UpdateProjectRevenue(ctx context.Context, project domain.ProjectRevenue) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE project_revenues SET title = ?, revenue_date = ?
		WHERE id = ? AND owner = ?;
	`, project.Title, project.RevenueDate, project.ID, project.Owner)
	if err != nil {
		return fmt.Errorf("failed to update project revenue %s: %w", project.ID, err)
	}
	if err := requireRows(res, "update project revenue"); err != nil {
		return err
	}

	initial := mapping.ToModelInitialRevenue(project.InitialRevenue)
	_, err = tx.ExecContext(ctx, `
		UPDATE initial_revenues SET title = ?, value = ?, revenue_date = ?
		WHERE project_revenue = ?;
	`, initial.Title, initial.Value, initial.RevenueDate, project.ID)
	if err != nil {
		return fmt.Errorf("failed to update initial revenue for project %s: %w", project.ID, err)
	}

	return tx.Commit()
}

func insertLabelsTx(ctx context.Context, tx *sql.Tx, labels []domain.RevenueLabel) error {
	for _, label := range labels {
		m := mapping.ToModelRevenueLabel(label)
		_, err := tx.ExecContext(ctx, `
			INSERT INTO revenue_labels (id, text, color, revenue)
			VALUES (?, ?, ?, ?);
		`, m.ID, m.Text, m.Color, m.Revenue)
		if err != nil {
			return fmt.Errorf("failed to insert revenue label %s: %w", m.ID, err)
		}
	}
	return nil
}

func (r *SQLiteRevenueRepository) SaveGeneralRevenue(ctx context.Context, revenue domain.GeneralRevenue) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	m := mapping.ToModelGeneralRevenue(revenue)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO general_revenues (id, title, value, description, revenue_date, owner)
		VALUES (?, ?, ?, ?, ?, ?);
	`, m.ID, m.Title, m.Value, m.Description, m.RevenueDate, m.Owner)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewAppError(0, "general revenue "+revenue.ID+" already exists", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert general revenue %s: %w", revenue.ID, err)
	}

	if err := insertLabelsTx(ctx, tx, revenue.Labels); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *SQLiteRevenueRepository) UpdateGeneralRevenue(ctx context.Context, revenue domain.GeneralRevenue) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	m := mapping.ToModelGeneralRevenue(revenue)
	res, err := tx.ExecContext(ctx, `
		UPDATE general_revenues SET title = ?, value = ?, description = ?, revenue_date = ?
		WHERE id = ? AND owner = ?;
	`, m.Title, m.Value, m.Description, m.RevenueDate, m.ID, m.Owner)
	if err != nil {
		return fmt.Errorf("failed to update general revenue %s: %w", revenue.ID, err)
	}
	if err := requireRows(res, "update general revenue"); err != nil {
		return err
	}

	// Reconcile by replacement: the new label set fully describes the revenue.
	if _, err := tx.ExecContext(ctx, `DELETE FROM revenue_labels WHERE revenue = ?;`, revenue.ID); err != nil {
		return fmt.Errorf("failed to clear revenue labels for %s: %w", revenue.ID, err)
	}
	if err := insertLabelsTx(ctx, tx, revenue.Labels); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *SQLiteRevenueRepository) SaveTicket(ctx context.Context, ticket domain.TicketRevenue) error {
	m := mapping.ToModelTicketRevenue(ticket)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ticket_revenues (id, title, value, description, revenue_date, closing_date, owner, project_revenue)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?);
	`, m.ID, m.Title, m.Value, m.Description, m.RevenueDate, m.ClosingDate, m.Owner, m.ProjectRevenue)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewAppError(0, "a ticket with this title already exists in the project", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert ticket %s: %w", ticket.ID, err)
	}
	return nil
}

func (r *SQLiteRevenueRepository) UpdateTicket(ctx context.Context, ticket domain.TicketRevenue) error {
	m := mapping.ToModelTicketRevenue(ticket)
	res, err := r.db.ExecContext(ctx, `
		UPDATE ticket_revenues SET title = ?, value = ?, description = ?, revenue_date = ?
		WHERE id = ?;
	`, m.Title, m.Value, m.Description, m.RevenueDate, m.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewAppError(0, "a ticket with this title already exists in the project", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to update ticket %s: %w", ticket.ID, err)
	}
	return requireRows(res, "update ticket")
}

func (r *SQLiteRevenueRepository) CloseTicket(ctx context.Context, ticketID string, closingDate int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE ticket_revenues SET closing_date = ? WHERE id = ?;`,
		closingDate, ticketID,
	)
	if err != nil {
		return fmt.Errorf("failed to close ticket %s: %w", ticketID, err)
	}
	return requireRows(res, "close ticket")
}

func (r *SQLiteRevenueRepository) DeleteTicket(ctx context.Context, ticketID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM ticket_revenues WHERE id = ?;`, ticketID)
	if err != nil {
		return fmt.Errorf("failed to delete ticket %s: %w", ticketID, err)
	}
	return requireRows(res, "delete ticket")
}

func (r *SQLiteRevenueRepository) DeleteProjectRevenue(ctx context.Context, userID, projectID string) error {
	// The foreign keys cascade to the initial revenue and every ticket.
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM project_revenues WHERE id = ? AND owner = ?;`,
		projectID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete project revenue %s: %w", projectID, err)
	}
	return requireRows(res, "delete project revenue")
}

func (r *SQLiteRevenueRepository) DeleteGeneralRevenue(ctx context.Context, userID, revenueID string) error {
	// The foreign key cascades to the attached labels.
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM general_revenues WHERE id = ? AND owner = ?;`,
		revenueID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete general revenue %s: %w", revenueID, err)
	}
	return requireRows(res, "delete general revenue")
}
