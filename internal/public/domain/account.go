package domain

import "time"

// AdminAccount is an operator account allowed to sign in.
type AdminAccount struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
