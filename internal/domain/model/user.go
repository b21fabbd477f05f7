package model

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID                 string    `json:"id"`
	Username           string    `json:"username"`
	Email              string    `json:"email"`
	HashedPassword     string    `json:"-"` // Not exposed
	Role               string    `json:"role"`
	FirstName          string    `json:"first_name"`
	LastName           string    `json:"last_name"`
	Phone              string    `json:"phone"`
	DateOfBirth        string    `json:"date_of_birth"`
	Address            string    `json:"address"`
	Country            string    `json:"country"`
	PreferredLanguage  string    `json:"preferred_language,omitempty"`
	SecurityQuestion   string    `json:"security_question,omitempty"`
	SecurityAnswerHash string    `json:"-"` // Not exposed
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Sanitized returns a copy safe to serialize outward. The credential hashes
// already carry `json:"-"`, clearing them as well keeps copies of the struct
// harmless no matter how they are encoded later.
func (u *User) Sanitized() *User {
	clean := *u
	clean.HashedPassword = ""
	clean.SecurityAnswerHash = ""
	return &clean
}

// UserUpdate is the partial-field update type. Username, ID and the password
// hash are deliberately absent: they cannot be changed through this path.
// Role is only honored for admin callers.
type UserUpdate struct {
	Email             *string `json:"email,omitempty"`
	Role              *string `json:"role,omitempty"`
	FirstName         *string `json:"first_name,omitempty"`
	LastName          *string `json:"last_name,omitempty"`
	Phone             *string `json:"phone,omitempty"`
	DateOfBirth       *string `json:"date_of_birth,omitempty"`
	Address           *string `json:"address,omitempty"`
	Country           *string `json:"country,omitempty"`
	PreferredLanguage *string `json:"preferred_language,omitempty"`
	SecurityQuestion  *string `json:"security_question,omitempty"`
}

// Apply merges the supplied fields into a copy of the user and returns it.
func (u UserUpdate) Apply(user *User) *User {
	merged := *user
	if u.Email != nil {
		merged.Email = *u.Email
	}
	if u.Role != nil {
		merged.Role = *u.Role
	}
	if u.FirstName != nil {
		merged.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		merged.LastName = *u.LastName
	}
	if u.Phone != nil {
		merged.Phone = *u.Phone
	}
	if u.DateOfBirth != nil {
		merged.DateOfBirth = *u.DateOfBirth
	}
	if u.Address != nil {
		merged.Address = *u.Address
	}
	if u.Country != nil {
		merged.Country = *u.Country
	}
	if u.PreferredLanguage != nil {
		merged.PreferredLanguage = *u.PreferredLanguage
	}
	if u.SecurityQuestion != nil {
		merged.SecurityQuestion = *u.SecurityQuestion
	}
	return &merged
}
