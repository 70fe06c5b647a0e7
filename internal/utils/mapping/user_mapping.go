package mapping

import (
	"github.com/N7ghtm4r3/Neutron/internal/core/domain"
	"github.com/N7ghtm4r3/Neutron/internal/models"
)

func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:       m.ID,
		Name:         m.Name,
		Surname:      m.Surname,
		Email:        m.Email,
		PasswordHash: m.Password,
		Currency:     domain.CurrencyFrom(m.Currency),
		Language:     m.Language,
	}
}

func ToModelUser(d domain.User) models.User {
	return models.User{
		ID:       d.UserID,
		Name:     d.Name,
		Surname:  d.Surname,
		Email:    d.Email,
		Password: d.PasswordHash,
		Currency: string(d.Currency),
		Language: d.Language,
	}
}
