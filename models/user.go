package models

import "time"

type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RolePlayer UserRole = "player"
)

type User struct {
	ID                     int       `json:"id"`
	FirstName              string    `json:"first_name"`
	LastName               string    `json:"last_name"`
	Email                  string    `json:"email"`
	PasswordHash           string    `json:"-"`
	Role                   UserRole  `json:"role"`
	Gender                 *string   `json:"gender,omitempty"`
	HandicapIndex          *float64  `json:"handicap_index,omitempty"` // self-reported HI, used as fallback when the federation lookup fails
	EmailConfirmed         bool      `json:"email_confirmed"`
	EmailConfirmationToken string    `json:"-"`
	CreatedAt              time.Time `json:"created_at"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
