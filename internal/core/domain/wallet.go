package domain

import "github.com/shopspring/decimal"

// WalletStatus summarizes the earnings of a user over a period: the total amount
// and the trend percentage against the immediately preceding period.
type WalletStatus struct {
	TotalEarnings decimal.Decimal `json:"total_earnings"`
	Trend         decimal.Decimal `json:"trend"`
}
