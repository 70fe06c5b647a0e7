package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/N7ghtm4r3/Neutron/internal/apperrors"
	"github.com/N7ghtm4r3/Neutron/internal/core/domain"
	portsrepo "github.com/N7ghtm4r3/Neutron/internal/core/ports/repositories"
	"github.com/N7ghtm4r3/Neutron/internal/models"
	"github.com/N7ghtm4r3/Neutron/internal/utils/mapping"
)

type SQLiteUserRepository struct {
	db *sql.DB
}

func newSQLiteUserRepository(db *sql.DB) portsrepo.UserRepositoryFacade {
	return &SQLiteUserRepository{db: db}
}

var _ portsrepo.UserRepositoryFacade = (*SQLiteUserRepository)(nil)

func (r *SQLiteUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, name, surname, email, password, currency, language)
		VALUES (?, ?, ?, ?, ?, ?, ?);
	`, m.ID, m.Name, m.Surname, m.Email, m.Password, m.Currency, m.Language)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewAppError(0, "a user with this email already exists", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (r *SQLiteUserRepository) findUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	var m models.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&m.ID, &m.Name, &m.Surname, &m.Email, &m.Password, &m.Currency, &m.Language,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	user := mapping.ToDomainUser(m)
	return &user, nil
}

func (r *SQLiteUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.findUser(ctx, `
		SELECT id, name, surname, email, password, currency, language
		FROM users WHERE id = ?;
	`, userID)
}

func (r *SQLiteUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findUser(ctx, `
		SELECT id, name, surname, email, password, currency, language
		FROM users WHERE email = ?;
	`, email)
}

func (r *SQLiteUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET name = ?, surname = ?, email = ?, password = ?, currency = ?, language = ?
		WHERE id = ?;
	`, m.Name, m.Surname, m.Email, m.Password, m.Currency, m.Language, m.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewAppError(0, "a user with this email already exists", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to update user %s: %w", user.UserID, err)
	}
	return requireRows(res, "update user")
}

func (r *SQLiteUserRepository) DeleteUser(ctx context.Context, userID string) error {
	// The foreign keys cascade to every revenue the user owns.
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?;`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user %s: %w", userID, err)
	}
	return requireRows(res, "delete user")
}

// requireRows maps a zero-row write to ErrNotFound.
func requireRows(res sql.Result, op string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows for %s: %w", op, err)
	}
	if affected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
