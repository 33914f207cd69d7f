package domain

import "time"

// User is a registered account. Password is stored as entered.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"createdAt"`
}

// SessionUser is the subset of User kept in the current session.
type SessionUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SessionUser returns the session view of the user.
func (u User) SessionUser() SessionUser {
	return SessionUser{ID: u.ID, Name: u.Name, Email: u.Email}
}

type Registration struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}
