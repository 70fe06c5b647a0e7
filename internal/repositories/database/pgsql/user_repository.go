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

type PgxUserRepository struct {
	db *pgxpool.Pool
}

func newPgxUserRepository(db *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{db: db}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	modelUser := mapping.ToModelUser(user)
	query := `
        INSERT INTO users (id, name, surname, email, password, currency, language)
        VALUES ($1, $2, $3, $4, $5, $6, $7);
    `
	_, err := r.db.Exec(ctx, query,
		modelUser.ID,
		modelUser.Name,
		modelUser.Surname,
		modelUser.Email,
		modelUser.Password,
		modelUser.Currency,
		modelUser.Language,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewAppError(0, "a user with this email already exists", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (r *PgxUserRepository) findUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	var modelUser models.User
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&modelUser.ID,
		&modelUser.Name,
		&modelUser.Surname,
		&modelUser.Email,
		&modelUser.Password,
		&modelUser.Currency,
		&modelUser.Language,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	domainUser := mapping.ToDomainUser(modelUser)
	return &domainUser, nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `
		SELECT id, name, surname, email, password, currency, language
		FROM users
		WHERE id = $1;
	`
	return r.findUser(ctx, query, userID)
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, name, surname, email, password, currency, language
		FROM users
		WHERE email = $1;
	`
	return r.findUser(ctx, query, email)
}

func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	modelUser := mapping.ToModelUser(user)
	query := `
		UPDATE users
		SET name = $2, surname = $3, email = $4, password = $5, currency = $6, language = $7
		WHERE id = $1;
	`
	tag, err := r.db.Exec(ctx, query,
		modelUser.ID,
		modelUser.Name,
		modelUser.Surname,
		modelUser.Email,
		modelUser.Password,
		modelUser.Currency,
		modelUser.Language,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewAppError(0, "a user with this email already exists", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to update user %s: %w", user.UserID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxUserRepository) DeleteUser(ctx context.Context, userID string) error {
	// The foreign keys cascade to every revenue the user owns.
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1;`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user %s: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
