package dto

import (
	"github.com/N7ghtm4r3/Neutron/internal/core/domain"
	"github.com/shopspring/decimal"
)

// WalletParams filter the revenues counted in the wallet status.
type WalletParams struct {
	Period          string   `form:"period"`
	GeneralRevenues bool     `form:"general_revenues,default=true"`
	ProjectRevenues bool     `form:"project_revenues,default=true"`
	Labels          []string `form:"labels"`
}

// WalletStatusResponse is the wire form of the wallet summary.
type WalletStatusResponse struct {
	TotalEarnings decimal.Decimal `json:"total_earnings"`
	Trend         decimal.Decimal `json:"trend"`
}

func ToWalletStatusResponse(w *domain.WalletStatus) WalletStatusResponse {
	return WalletStatusResponse{
		TotalEarnings: w.TotalEarnings,
		Trend:         w.Trend,
	}
}
