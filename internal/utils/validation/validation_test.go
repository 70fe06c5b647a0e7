package validation_test

import (
	"strings"
	"testing"

	"github.com/N7ghtm4r3/Neutron/internal/utils/validation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestIsRevenueTitleValid(t *testing.T) {
	assert.True(t, validation.IsRevenueTitleValid("Rent"))
	assert.True(t, validation.IsRevenueTitleValid(strings.Repeat("a", 30)), "boundary length accepted")
	assert.False(t, validation.IsRevenueTitleValid(strings.Repeat("a", 31)), "boundary+1 rejected")
	assert.False(t, validation.IsRevenueTitleValid(""))
	assert.False(t, validation.IsRevenueTitleValid("   "))
}

func TestIsRevenueDescriptionValid(t *testing.T) {
	assert.True(t, validation.IsRevenueDescriptionValid("monthly payment"))
	assert.True(t, validation.IsRevenueDescriptionValid(strings.Repeat("d", 250)))
	assert.False(t, validation.IsRevenueDescriptionValid(strings.Repeat("d", 251)))
	assert.False(t, validation.IsRevenueDescriptionValid(" "))
}

func TestIsRevenueValueValid(t *testing.T) {
	assert.True(t, validation.IsRevenueValueValid(decimal.Zero))
	assert.True(t, validation.IsRevenueValueValid(decimal.NewFromFloat(120.50)))
	assert.False(t, validation.IsRevenueValueValid(decimal.NewFromFloat(-0.01)))
	assert.False(t, validation.IsRevenueValueValid(decimal.NewFromInt(-1)))
}

func TestIsLabelColorValid(t *testing.T) {
	assert.True(t, validation.IsLabelColorValid("#a68cef"))
	assert.True(t, validation.IsLabelColorValid("#12B543"))
	assert.False(t, validation.IsLabelColorValid("a68cef"))
	assert.False(t, validation.IsLabelColorValid("#a68ce"))
	assert.False(t, validation.IsLabelColorValid("#a68cefa"))
	assert.False(t, validation.IsLabelColorValid("#zzzzzz"))
}

func TestIsEmailValid(t *testing.T) {
	assert.True(t, validation.IsEmailValid("user@example.com"))
	assert.False(t, validation.IsEmailValid("user@example"))
	assert.False(t, validation.IsEmailValid("not-an-email"))
	long := strings.Repeat("u", 70) + "@example.com"
	assert.False(t, validation.IsEmailValid(long))
}

func TestIsPasswordValid(t *testing.T) {
	assert.False(t, validation.IsPasswordValid("short"))
	assert.True(t, validation.IsPasswordValid("12345678"))
	assert.True(t, validation.IsPasswordValid(strings.Repeat("p", 32)))
	assert.False(t, validation.IsPasswordValid(strings.Repeat("p", 33)))
}

func TestIsLanguageValid(t *testing.T) {
	for _, lang := range []string{"en", "it", "fr", "es"} {
		assert.True(t, validation.IsLanguageValid(lang), lang)
	}
	assert.False(t, validation.IsLanguageValid("de"))
	assert.False(t, validation.IsLanguageValid(""))
}

func TestIsNameAndSurnameValid(t *testing.T) {
	assert.True(t, validation.IsNameValid("Ada"))
	assert.False(t, validation.IsNameValid(strings.Repeat("n", 21)))
	assert.True(t, validation.IsSurnameValid(strings.Repeat("s", 30)))
	assert.False(t, validation.IsSurnameValid(strings.Repeat("s", 31)))
}
