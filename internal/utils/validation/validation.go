// Package validation holds the field validators shared by the HTTP layer, the
// services and the client requester, so every copy of the revenue model applies
// the same rules.
package validation

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	NameMaxLength        = 20
	SurnameMaxLength     = 30
	EmailMaxLength       = 75
	PasswordMinLength    = 8
	PasswordMaxLength    = 32
	TitleMaxLength       = 30
	DescriptionMaxLength = 250
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	colorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

	// supportedLanguages are the 2-letter codes the application ships translations for.
	supportedLanguages = map[string]struct{}{
		"en": {},
		"it": {},
		"fr": {},
		"es": {},
	}
)

func isInputValid(input string) bool {
	return strings.TrimSpace(input) != ""
}

// IsRevenueTitleValid reports whether title is non-blank and at most 30 chars.
func IsRevenueTitleValid(title string) bool {
	return isInputValid(title) && len(title) <= TitleMaxLength
}

// IsRevenueDescriptionValid reports whether desc is non-blank and at most 250 chars.
func IsRevenueDescriptionValid(desc string) bool {
	return isInputValid(desc) && len(desc) <= DescriptionMaxLength
}

// IsRevenueValueValid reports whether value is non-negative; zero is permitted.
func IsRevenueValueValid(value decimal.Decimal) bool {
	return !value.IsNegative()
}

// IsLabelColorValid reports whether color is a 7-char hex string such as "#a68cef".
func IsLabelColorValid(color string) bool {
	return colorRegex.MatchString(color)
}

// IsLabelTextValid reports whether the label text is non-blank.
func IsLabelTextValid(text string) bool {
	return isInputValid(text)
}

// IsNameValid reports whether name is non-blank and at most 20 chars.
func IsNameValid(name string) bool {
	return isInputValid(name) && len(name) <= NameMaxLength
}

// IsSurnameValid reports whether surname is non-blank and at most 30 chars.
func IsSurnameValid(surname string) bool {
	return isInputValid(surname) && len(surname) <= SurnameMaxLength
}

// IsEmailValid reports whether email is well formed and at most 75 chars.
func IsEmailValid(email string) bool {
	return len(email) <= EmailMaxLength && emailRegex.MatchString(email)
}

// IsPasswordValid reports whether password length is within [8, 32].
func IsPasswordValid(password string) bool {
	return isInputValid(password) &&
		len(password) >= PasswordMinLength &&
		len(password) <= PasswordMaxLength
}

// IsLanguageValid reports whether language is one of the supported 2-letter codes.
func IsLanguageValid(language string) bool {
	_, ok := supportedLanguages[language]
	return ok
}
