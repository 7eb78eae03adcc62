package models

type User struct {
	ID                int    `json:"id"`
	Username          string `json:"username"`
	Email             string `json:"email"`
	Venmo             string `json:"venmo,omitempty"`
	PasswordHash      string `json:"-"`
	Verified          bool   `json:"verified"`
	VerificationToken string `json:"-"`
	IsAdmin           bool   `json:"isAdmin"`
}
