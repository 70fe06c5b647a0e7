package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/N7ghtm4r3/Neutron/internal/apperrors"
	"github.com/N7ghtm4r3/Neutron/internal/core/domain"
	portsrepo "github.com/N7ghtm4r3/Neutron/internal/core/ports/repositories"
	"github.com/N7ghtm4r3/Neutron/internal/models"
	"github.com/N7ghtm4r3/Neutron/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxRevenueRepository struct {
	BaseRepository
}

func newPgxRevenueRepository(db *pgxpool.Pool) portsrepo.RevenueRepositoryFacade {
	return &PgxRevenueRepository{BaseRepository{Pool: db}}
}

// Ensure PgxRevenueRepository implements portsrepo.RevenueRepositoryFacade
var _ portsrepo.RevenueRepositoryFacade = (*PgxRevenueRepository)(nil)

// pagination appends LIMIT/OFFSET to query when limit is positive. args grows
// with the bound values.
func pagination(query string, args []any, limit, offset int) (string, []any) {
	if limit <= 0 {
		return query, args
	}
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	return query, append(args, limit, offset)
}

func (r *PgxRevenueRepository) FindProjectRevenueByID(ctx context.Context, userID, projectID string) (*domain.ProjectRevenue, error) {
	query := `
		SELECT id, title, revenue_date, owner
		FROM project_revenues
		WHERE id = $1 AND owner = $2;
	`
	var modelProject models.ProjectRevenue
	err := r.Pool.QueryRow(ctx, query, projectID, userID).Scan(
		&modelProject.ID,
		&modelProject.Title,
		&modelProject.RevenueDate,
		&modelProject.Owner,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find project revenue %s: %w", projectID, err)
	}

	initials, err := r.initialRevenuesByProject(ctx, []string{projectID})
	if err != nil {
		return nil, err
	}
	tickets, err := r.ticketsByProject(ctx, []string{projectID})
	if err != nil {
		return nil, err
	}

	project := mapping.ToDomainProjectRevenue(modelProject, initials[projectID], tickets[projectID])
	return &project, nil
}

func (r *PgxRevenueRepository) initialRevenuesByProject(ctx context.Context, projectIDs []string) (map[string]models.InitialRevenue, error) {
	query := `
		SELECT id, title, value, revenue_date, owner, project_revenue
		FROM initial_revenues
		WHERE project_revenue = ANY($1);
	`
	rows, err := r.Pool.Query(ctx, query, projectIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query initial revenues: %w", err)
	}
	defer rows.Close()

	result := make(map[string]models.InitialRevenue, len(projectIDs))
	for rows.Next() {
		var m models.InitialRevenue
		if err := rows.Scan(&m.ID, &m.Title, &m.Value, &m.RevenueDate, &m.Owner, &m.ProjectRevenue); err != nil {
			return nil, fmt.Errorf("failed to scan initial revenue: %w", err)
		}
		result[m.ProjectRevenue] = m
	}
	return result, rows.Err()
}

func (r *PgxRevenueRepository) ticketsByProject(ctx context.Context, projectIDs []string) (map[string][]models.TicketRevenue, error) {
	query := `
		SELECT id, title, value, description, revenue_date, closing_date, owner, project_revenue
		FROM ticket_revenues
		WHERE project_revenue = ANY($1)
		ORDER BY revenue_date DESC, id;
	`
	rows, err := r.Pool.Query(ctx, query, projectIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query tickets: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]models.TicketRevenue, len(projectIDs))
	for rows.Next() {
		var m models.TicketRevenue
		if err := rows.Scan(&m.ID, &m.Title, &m.Value, &m.Description, &m.RevenueDate, &m.ClosingDate, &m.Owner, &m.ProjectRevenue); err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		result[m.ProjectRevenue] = append(result[m.ProjectRevenue], m)
	}
	return result, rows.Err()
}

func (r *PgxRevenueRepository) labelsByRevenue(ctx context.Context, revenueIDs []string) (map[string][]models.RevenueLabel, error) {
	query := `
		SELECT id, text, color, revenue
		FROM revenue_labels
		WHERE revenue = ANY($1)
		ORDER BY text, id;
	`
	rows, err := r.Pool.Query(ctx, query, revenueIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query revenue labels: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]models.RevenueLabel, len(revenueIDs))
	for rows.Next() {
		var m models.RevenueLabel
		if err := rows.Scan(&m.ID, &m.Text, &m.Color, &m.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan revenue label: %w", err)
		}
		result[m.Revenue] = append(result[m.Revenue], m)
	}
	return result, rows.Err()
}

func (r *PgxRevenueRepository) FindGeneralRevenueByID(ctx context.Context, userID, revenueID string) (*domain.GeneralRevenue, error) {
	query := `
		SELECT id, title, value, description, revenue_date, owner
		FROM general_revenues
		WHERE id = $1 AND owner = $2;
	`
	var m models.GeneralRevenue
	err := r.Pool.QueryRow(ctx, query, revenueID, userID).Scan(
		&m.ID,
		&m.Title,
		&m.Value,
		&m.Description,
		&m.RevenueDate,
		&m.Owner,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find general revenue %s: %w", revenueID, err)
	}

	labels, err := r.labelsByRevenue(ctx, []string{revenueID})
	if err != nil {
		return nil, err
	}
	revenue := mapping.ToDomainGeneralRevenue(m, labels[revenueID])
	return &revenue, nil
}

func (r *PgxRevenueRepository) FindTicketByID(ctx context.Context, userID, projectID, ticketID string) (*domain.TicketRevenue, error) {
	query := `
		SELECT t.id, t.title, t.value, t.description, t.revenue_date, t.closing_date, t.owner, t.project_revenue
		FROM ticket_revenues t
		JOIN project_revenues p ON p.id = t.project_revenue
		WHERE t.id = $1 AND t.project_revenue = $2 AND p.owner = $3;
	`
	var m models.TicketRevenue
	err := r.Pool.QueryRow(ctx, query, ticketID, projectID, userID).Scan(
		&m.ID, &m.Title, &m.Value, &m.Description, &m.RevenueDate, &m.ClosingDate, &m.Owner, &m.ProjectRevenue,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find ticket %s: %w", ticketID, err)
	}
	ticket := mapping.ToDomainTicketRevenue(m)
	return &ticket, nil
}

func (r *PgxRevenueRepository) ListGeneralRevenues(ctx context.Context, userID string, fromDate int64, labels []string, limit, offset int) ([]domain.GeneralRevenue, error) {
	query := `
		SELECT id, title, value, description, revenue_date, owner
		FROM general_revenues
		WHERE owner = $1 AND revenue_date >= $2
	`
	args := []any{userID, fromDate}
	if len(labels) > 0 {
		query += fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM revenue_labels l
			WHERE l.revenue = general_revenues.id AND l.text = ANY($%d)
		)`, len(args)+1)
		args = append(args, labels)
	}
	query += " ORDER BY revenue_date DESC, id"
	query, args = pagination(query, args, limit, offset)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query general revenues: %w", err)
	}
	defer rows.Close()

	var modelRevenues []models.GeneralRevenue
	var revenueIDs []string
	for rows.Next() {
		var m models.GeneralRevenue
		if err := rows.Scan(&m.ID, &m.Title, &m.Value, &m.Description, &m.RevenueDate, &m.Owner); err != nil {
			return nil, fmt.Errorf("failed to scan general revenue: %w", err)
		}
		modelRevenues = append(modelRevenues, m)
		revenueIDs = append(revenueIDs, m.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(modelRevenues) == 0 {
		return []domain.GeneralRevenue{}, nil
	}

	labelsByID, err := r.labelsByRevenue(ctx, revenueIDs)
	if err != nil {
		return nil, err
	}
	result := make([]domain.GeneralRevenue, len(modelRevenues))
	for i, m := range modelRevenues {
		result[i] = mapping.ToDomainGeneralRevenue(m, labelsByID[m.ID])
	}
	return result, nil
}

func (r *PgxRevenueRepository) CountGeneralRevenues(ctx context.Context, userID string, fromDate int64, labels []string) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM general_revenues
		WHERE owner = $1 AND revenue_date >= $2
	`
	args := []any{userID, fromDate}
	if len(labels) > 0 {
		query += fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM revenue_labels l
			WHERE l.revenue = general_revenues.id AND l.text = ANY($%d)
		)`, len(args)+1)
		args = append(args, labels)
	}

	var count int64
	if err := r.Pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count general revenues: %w", err)
	}
	return count, nil
}

func (r *PgxRevenueRepository) ListProjectRevenues(ctx context.Context, userID string, fromDate int64, limit, offset int) ([]domain.ProjectRevenue, error) {
	query := `
		SELECT id, title, revenue_date, owner
		FROM project_revenues
		WHERE owner = $1 AND revenue_date >= $2
		ORDER BY revenue_date DESC, id
	`
	args := []any{userID, fromDate}
	query, args = pagination(query, args, limit, offset)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query project revenues: %w", err)
	}
	defer rows.Close()

	var modelProjects []models.ProjectRevenue
	var projectIDs []string
	for rows.Next() {
		var m models.ProjectRevenue
		if err := rows.Scan(&m.ID, &m.Title, &m.RevenueDate, &m.Owner); err != nil {
			return nil, fmt.Errorf("failed to scan project revenue: %w", err)
		}
		modelProjects = append(modelProjects, m)
		projectIDs = append(projectIDs, m.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(modelProjects) == 0 {
		return []domain.ProjectRevenue{}, nil
	}

	initials, err := r.initialRevenuesByProject(ctx, projectIDs)
	if err != nil {
		return nil, err
	}
	tickets, err := r.ticketsByProject(ctx, projectIDs)
	if err != nil {
		return nil, err
	}

	result := make([]domain.ProjectRevenue, len(modelProjects))
	for i, m := range modelProjects {
		result[i] = mapping.ToDomainProjectRevenue(m, initials[m.ID], tickets[m.ID])
	}
	return result, nil
}

func (r *PgxRevenueRepository) CountProjectRevenues(ctx context.Context, userID string, fromDate int64) (int64, error) {
	var count int64
	err := r.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM project_revenues WHERE owner = $1 AND revenue_date >= $2;`,
		userID, fromDate,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count project revenues: %w", err)
	}
	return count, nil
}

// ticketStateClause narrows a ticket query to the open/closed subset requested
// by the filter. Both flags set means no extra condition.
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

func (r *PgxRevenueRepository) ListTickets(ctx context.Context, projectID string, filter portsrepo.TicketFilter) ([]domain.TicketRevenue, error) {
	query := `
		SELECT id, title, value, description, revenue_date, closing_date, owner, project_revenue
		FROM ticket_revenues
		WHERE project_revenue = $1 AND revenue_date >= $2
	`
	query += ticketStateClause(filter)
	query += " ORDER BY revenue_date DESC, id"
	args := []any{projectID, filter.FromDate}
	query, args = pagination(query, args, filter.Limit, filter.Offset)

	rows, err := r.Pool.Query(ctx, query, args...)
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

func (r *PgxRevenueRepository) CountTickets(ctx context.Context, projectID string, filter portsrepo.TicketFilter) (int64, error) {
	query := `SELECT COUNT(*) FROM ticket_revenues WHERE project_revenue = $1 AND revenue_date >= $2`
	query += ticketStateClause(filter)

	var count int64
	if err := r.Pool.QueryRow(ctx, query, projectID, filter.FromDate).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tickets: %w", err)
	}
	return count, nil
}

func (r *PgxRevenueRepository) ListRevenueLabels(ctx context.Context, userID string) ([]domain.RevenueLabel, error) {
	query := `
		SELECT DISTINCT ON (l.text, l.color) l.id, l.text, l.color, l.revenue
		FROM revenue_labels l
		JOIN general_revenues g ON g.id = l.revenue
		WHERE g.owner = $1
		ORDER BY l.text, l.color, l.id;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
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

func (r *PgxRevenueRepository) SaveProjectRevenue(ctx context.Context, project domain.ProjectRevenue) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	_, err = tx.Exec(ctx, `
		INSERT INTO project_revenues (id, title, revenue_date, owner)
		VALUES ($1, $2, $3, $4);
	`, project.ID, project.Title, project.RevenueDate, project.Owner)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewAppError(0, "project revenue "+project.ID+" already exists", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert project revenue %s: %w", project.ID, err)
	}

	initial := mapping.ToModelInitialRevenue(project.InitialRevenue)
	_, err = tx.Exec(ctx, `
		INSERT INTO initial_revenues (id, title, value, revenue_date, owner, project_revenue)
		VALUES ($1, $2, $3, $4, $5, $6);
	`, initial.ID, initial.Title, initial.Value, initial.RevenueDate, initial.Owner, initial.ProjectRevenue)
	if err != nil {
		return fmt.Errorf("failed to insert initial revenue for project %s: %w", project.ID, err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxRevenueRepository) UpdateProjectRevenue(ctx context.Context, project domain.ProjectRevenue) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx, `
		UPDATE project_revenues SET title = $3, revenue_date = $4
		WHERE id = $1 AND owner = $2;
	`, project.ID, project.Owner, project.Title, project.RevenueDate)
	if err != nil {
		return fmt.Errorf("failed to update project revenue %s: %w", project.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	initial := mapping.ToModelInitialRevenue(project.InitialRevenue)
	_, err = tx.Exec(ctx, `
		UPDATE initial_revenues SET title = $2, value = $3, revenue_date = $4
		WHERE project_revenue = $1;
	`, project.ID, initial.Title, initial.Value, initial.RevenueDate)
	if err != nil {
		return fmt.Errorf("failed to update initial revenue for project %s: %w", project.ID, err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxRevenueRepository) SaveGeneralRevenue(ctx context.Context, revenue domain.GeneralRevenue) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelGeneralRevenue(revenue)
	_, err = tx.Exec(ctx, `
		INSERT INTO general_revenues (id, title, value, description, revenue_date, owner)
		VALUES ($1, $2, $3, $4, $5, $6);
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
	return r.Commit(ctx, tx)
}

func insertLabelsTx(ctx context.Context, tx pgx.Tx, labels []domain.RevenueLabel) error {
	if len(labels) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	labelQuery := `
		INSERT INTO revenue_labels (id, text, color, revenue)
		VALUES ($1, $2, $3, $4);
	`
	for _, label := range labels {
		m := mapping.ToModelRevenueLabel(label)
		batch.Queue(labelQuery, m.ID, m.Text, m.Color, m.Revenue)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert revenue labels: %w", err)
	}
	return nil
}

func (r *PgxRevenueRepository) UpdateGeneralRevenue(ctx context.Context, revenue domain.GeneralRevenue) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelGeneralRevenue(revenue)
	tag, err := tx.Exec(ctx, `
		UPDATE general_revenues SET title = $3, value = $4, description = $5, revenue_date = $6
		WHERE id = $1 AND owner = $2;
	`, m.ID, m.Owner, m.Title, m.Value, m.Description, m.RevenueDate)
	if err != nil {
		return fmt.Errorf("failed to update general revenue %s: %w", revenue.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	// Reconcile by replacement: the new label set fully describes the revenue.
	if _, err := tx.Exec(ctx, `DELETE FROM revenue_labels WHERE revenue = $1;`, revenue.ID); err != nil {
		return fmt.Errorf("failed to clear revenue labels for %s: %w", revenue.ID, err)
	}
	if err := insertLabelsTx(ctx, tx, revenue.Labels); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func (r *PgxRevenueRepository) SaveTicket(ctx context.Context, ticket domain.TicketRevenue) error {
	m := mapping.ToModelTicketRevenue(ticket)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO ticket_revenues (id, title, value, description, revenue_date, closing_date, owner, project_revenue)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`, m.ID, m.Title, m.Value, m.Description, m.RevenueDate, m.ClosingDate, m.Owner, m.ProjectRevenue)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewAppError(0, "a ticket with this title already exists in the project", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert ticket %s: %w", ticket.ID, err)
	}
	return nil
}

func (r *PgxRevenueRepository) UpdateTicket(ctx context.Context, ticket domain.TicketRevenue) error {
	m := mapping.ToModelTicketRevenue(ticket)
	tag, err := r.Pool.Exec(ctx, `
		UPDATE ticket_revenues SET title = $2, value = $3, description = $4, revenue_date = $5
		WHERE id = $1;
	`, m.ID, m.Title, m.Value, m.Description, m.RevenueDate)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewAppError(0, "a ticket with this title already exists in the project", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to update ticket %s: %w", ticket.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxRevenueRepository) CloseTicket(ctx context.Context, ticketID string, closingDate int64) error {
	tag, err := r.Pool.Exec(ctx,
		`UPDATE ticket_revenues SET closing_date = $2 WHERE id = $1;`,
		ticketID, closingDate,
	)
	if err != nil {
		return fmt.Errorf("failed to close ticket %s: %w", ticketID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxRevenueRepository) DeleteTicket(ctx context.Context, ticketID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM ticket_revenues WHERE id = $1;`, ticketID)
	if err != nil {
		return fmt.Errorf("failed to delete ticket %s: %w", ticketID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxRevenueRepository) DeleteProjectRevenue(ctx context.Context, userID, projectID string) error {
	// The foreign keys cascade to the initial revenue and every ticket.
	tag, err := r.Pool.Exec(ctx,
		`DELETE FROM project_revenues WHERE id = $1 AND owner = $2;`,
		projectID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete project revenue %s: %w", projectID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxRevenueRepository) DeleteGeneralRevenue(ctx context.Context, userID, revenueID string) error {
	// The foreign key cascades to the attached labels.
	tag, err := r.Pool.Exec(ctx,
		`DELETE FROM general_revenues WHERE id = $1 AND owner = $2;`,
		revenueID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete general revenue %s: %w", revenueID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
