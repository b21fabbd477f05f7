package model

import (
	"time"
)

// Session is the server-side record behind every issued token pair. Tokens
// reference it by ID; deleting it revokes them all at once.
type Session struct {
	ID       string    `json:"id"`
	UserID   string    `json:"user_id"`
	IssuedAt time.Time `json:"issued_at"`
}
