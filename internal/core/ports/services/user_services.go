package services

import (
	"context"

	"github.com/N7ghtm4r3/Neutron/internal/core/domain"
	"github.com/N7ghtm4r3/Neutron/internal/dto"
)

// UserSvcFacade exposes account lifecycle and preference operations.
type UserSvcFacade interface {
	// RegisterUser validates and creates a new user with a hashed password.
	RegisterUser(ctx context.Context, req dto.SignUpRequest) (*domain.User, error)

	// AuthenticateUser verifies the credentials and returns the matching user.
	AuthenticateUser(ctx context.Context, req dto.SignInRequest) (*domain.User, error)

	// GetUserByID returns one user profile.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// ChangeEmail updates the unique email of the user.
	ChangeEmail(ctx context.Context, userID, email string) error

	// ChangePassword replaces the stored password hash.
	ChangePassword(ctx context.Context, userID, password string) error

	// ChangeCurrency updates the preferred fiat currency.
	ChangeCurrency(ctx context.Context, userID, currency string) error

	// ChangeLanguage updates the preferred language.
	ChangeLanguage(ctx context.Context, userID, language string) error

	// DeleteUser removes the account; the storage cascade removes every owned revenue.
	DeleteUser(ctx context.Context, userID string) error
}
