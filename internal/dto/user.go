package dto

import "github.com/N7ghtm4r3/Neutron/internal/core/domain"

// SignUpRequest registers a new user.
type SignUpRequest struct {
	Name     string `json:"name" binding:"required"`
	Surname  string `json:"surname" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Language string `json:"language"`
}

// SignInRequest authenticates an existing user.
type SignInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ChangeEmailRequest updates the unique email of the user.
type ChangeEmailRequest struct {
	Email string `json:"email" binding:"required"`
}

// ChangePasswordRequest replaces the user's password.
type ChangePasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

// ChangeCurrencyRequest updates the preferred fiat currency.
type ChangeCurrencyRequest struct {
	Currency string `json:"currency" binding:"required"`
}

// ChangeLanguageRequest updates the preferred language.
type ChangeLanguageRequest struct {
	Language string `json:"language" binding:"required"`
}

// UserResponse is the wire form of a user profile.
type UserResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
	Currency string `json:"currency"`
	Language string `json:"language"`
}

// AuthResponse carries the profile plus a session token.
type AuthResponse struct {
	UserResponse
	Token string `json:"token"`
}

func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:       u.UserID,
		Name:     u.Name,
		Surname:  u.Surname,
		Email:    u.Email,
		Currency: string(u.Currency),
		Language: u.Language,
	}
}
