package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/N7ghtm4r3/Neutron/internal/apperrors"
	"github.com/N7ghtm4r3/Neutron/internal/core/domain"
	portsrepo "github.com/N7ghtm4r3/Neutron/internal/core/ports/repositories"
	portssvc "github.com/N7ghtm4r3/Neutron/internal/core/ports/services"
	"github.com/N7ghtm4r3/Neutron/internal/dto"
	"github.com/N7ghtm4r3/Neutron/internal/utils"
	"github.com/N7ghtm4r3/Neutron/internal/utils/validation"
)

// userService implements the UserSvcFacade interface
type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates a new user service backed by the given repository.
func NewUserService(repo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{userRepo: repo}
}

// Ensure userService implements the UserSvcFacade interface
var _ portssvc.UserSvcFacade = (*userService)(nil)

func parseCurrency(raw string) (domain.Currency, bool) {
	switch c := domain.Currency(raw); c {
	case domain.Euro, domain.Dollar, domain.PoundSterling, domain.JapaneseYen, domain.ChineseYen:
		return c, true
	default:
		return "", false
	}
}

func (s *userService) RegisterUser(ctx context.Context, req dto.SignUpRequest) (*domain.User, error) {
	if !validation.IsNameValid(req.Name) {
		return nil, apperrors.NewValidationError("name", "must be non-blank and at most 20 characters")
	}
	if !validation.IsSurnameValid(req.Surname) {
		return nil, apperrors.NewValidationError("surname", "must be non-blank and at most 30 characters")
	}
	if !validation.IsEmailValid(req.Email) {
		return nil, apperrors.NewValidationError("email", "is not a valid address")
	}
	if !validation.IsPasswordValid(req.Password) {
		return nil, apperrors.NewValidationError("password", "must be between 8 and 32 characters")
	}
	language := req.Language
	if language == "" {
		language = domain.DefaultLanguage
	}
	if !validation.IsLanguageValid(language) {
		return nil, apperrors.NewValidationError("language", "is not supported")
	}

	existing, err := s.userRepo.FindUserByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check email uniqueness")
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewAppError(0, "a user with this email already exists", apperrors.ErrDuplicate)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password")
		return nil, err
	}

	user := domain.User{
		UserID:       utils.GenerateIdentifier(),
		Name:         req.Name,
		Surname:      req.Surname,
		Email:        req.Email,
		PasswordHash: hash,
		Currency:     domain.Dollar,
		Language:     language,
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		s.LogError(ctx, err, "Failed to save user")
		return nil, err
	}
	s.LogInfo(ctx, "User registered", slog.String("user_id", user.UserID))
	return &user, nil
}

func (s *userService) AuthenticateUser(ctx context.Context, req dto.SignInRequest) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find user by email")
			return nil, err
		}
		return nil, apperrors.NewAppError(0, "invalid credentials", apperrors.ErrNotFound)
	}
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.NewAppError(0, "invalid credentials", apperrors.ErrNotFound)
	}
	return user, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find user by ID", slog.String("user_id", userID))
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) ChangeEmail(ctx context.Context, userID, email string) error {
	if !validation.IsEmailValid(email) {
		return apperrors.NewValidationError("email", "is not a valid address")
	}
	other, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check email uniqueness")
		return err
	}
	if other != nil && other.UserID != userID {
		return apperrors.NewAppError(0, "a user with this email already exists", apperrors.ErrDuplicate)
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	user.Email = email
	return s.userRepo.UpdateUser(ctx, *user)
}

func (s *userService) ChangePassword(ctx context.Context, userID, password string) error {
	if !validation.IsPasswordValid(password) {
		return apperrors.NewValidationError("password", "must be between 8 and 32 characters")
	}
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password", slog.String("user_id", userID))
		return err
	}
	user.PasswordHash = hash
	return s.userRepo.UpdateUser(ctx, *user)
}

func (s *userService) ChangeCurrency(ctx context.Context, userID, currency string) error {
	parsed, ok := parseCurrency(currency)
	if !ok {
		return apperrors.NewValidationError("currency", "is not supported")
	}
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	user.Currency = parsed
	return s.userRepo.UpdateUser(ctx, *user)
}

func (s *userService) ChangeLanguage(ctx context.Context, userID, language string) error {
	if !validation.IsLanguageValid(language) {
		return apperrors.NewValidationError("language", "is not supported")
	}
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	user.Language = language
	return s.userRepo.UpdateUser(ctx, *user)
}

func (s *userService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.userRepo.DeleteUser(ctx, userID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete user", slog.String("user_id", userID))
		}
		return err
	}
	s.LogInfo(ctx, "User deleted", slog.String("user_id", userID))
	return nil
}
