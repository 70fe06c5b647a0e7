package domain

// Currency is one of the fiat currencies supported for the user preference.
type Currency string

const (
	Euro          Currency = "EURO"
	Dollar        Currency = "DOLLAR"
	PoundSterling Currency = "POUND_STERLING"
	JapaneseYen   Currency = "JAPANESE_YEN"
	ChineseYen    Currency = "CHINESE_YEN"
)

// DefaultLanguage is the language assigned to a user that did not choose one.
const DefaultLanguage = "en"

// CurrencyFrom maps a raw value to a supported currency, defaulting to Dollar.
func CurrencyFrom(raw string) Currency {
	switch Currency(raw) {
	case Euro, PoundSterling, JapaneseYen, ChineseYen:
		return Currency(raw)
	default:
		return Dollar
	}
}

// IsoCode returns the 3-letter ISO code of the currency.
func (c Currency) IsoCode() string {
	switch c {
	case Euro:
		return "EUR"
	case PoundSterling:
		return "GBP"
	case JapaneseYen:
		return "JPY"
	case ChineseYen:
		return "CNY"
	default:
		return "USD"
	}
}

// User represents an account owning revenues. Deleting a user cascades to every
// revenue it owns.
type User struct {
	UserID       string   `json:"id"` // Primary Key (32-char hex identifier)
	Name         string   `json:"name"`
	Surname      string   `json:"surname"`
	Email        string   `json:"email"` // Unique
	PasswordHash string   `json:"-"`
	Currency     Currency `json:"currency"` // Default: DOLLAR
	Language     string   `json:"language"` // 2-letter code, default "en"
}
