package models

import "github.com/shopspring/decimal"

// Row structs mirroring the revenue tables. Values are scanned through
// decimal's sql.Scanner so both the pgx and the sqlite drivers share them.

type ProjectRevenue struct {
	ID          string
	Title       string
	RevenueDate int64
	Owner       string
}

type InitialRevenue struct {
	ID             string
	Title          string
	Value          decimal.Decimal
	RevenueDate    int64
	Owner          string
	ProjectRevenue string
}

type TicketRevenue struct {
	ID             string
	Title          string
	Value          decimal.Decimal
	Description    string
	RevenueDate    int64
	ClosingDate    int64
	Owner          string
	ProjectRevenue string
}

type GeneralRevenue struct {
	ID          string
	Title       string
	Value       decimal.Decimal
	Description string
	RevenueDate int64
	Owner       string
}

type RevenueLabel struct {
	ID      string
	Text    string
	Color   string
	Revenue string
}
