package models

// User mirrors the users table.
type User struct {
	ID       string
	Name     string
	Surname  string
	Email    string
	Password string
	Currency string
	Language string
}
